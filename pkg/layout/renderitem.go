// Package layout implements the render-item tree and the layout
// algorithms (C7-C12): anonymous-block/inline construction, block and
// inline formatting, floats and margin collapsing, flexbox, table
// layout, and the positioned/stacking/paint pipeline. The package
// never rasterizes anything itself — every drawing primitive is issued
// through a container.Container, and image/font metrics come from the
// same interface.
package layout

import (
	"htmlcore/pkg/container"
	"htmlcore/pkg/cssvalue"
	"htmlcore/pkg/domtree"
)

// ItemKind distinguishes the render-item shapes spec.md §3's
// "render item" names: a box rooted at a real element, an anonymous
// wrapper box introduced to hold stray inline content inside a block
// container, a run of text, or a replaced (image) box.
type ItemKind int

const (
	ItemBlock ItemKind = iota
	ItemInline
	ItemAnonymousBlock
	ItemText
	ItemReplaced
	ItemTableWrapper
	ItemFlexItem
)

// Item is one render item: a box in the tree that mirrors visible
// flow. A single source element can own more than one Item (its
// inline content anonymously wrapped, or a table element generating a
// table-wrapper/row/cell chain) — Node may be nil for anonymous items
// and non-nil items may share the same Node when generated content
// splits one element into several items (spec.md §3 invariant 1).
type Item struct {
	Kind  ItemKind
	Node  *domtree.Node // nil for anonymous wrappers; the source element otherwise
	Style *cssvalue.ComputedStyle

	Parent   *Item
	Children []*Item

	// Text content for ItemText (already whitespace-collapsed per
	// white-space semantics at construction time).
	Text string

	// ImageURL/IntrinsicWidth/IntrinsicHeight populate ItemReplaced boxes.
	ImageURL        string
	IntrinsicWidth  float64
	IntrinsicHeight float64

	// Geometry, populated by layout. Box model per spec.md §3: content
	// box position/size plus the four edge quadruples resolved to px.
	X, Y          float64
	ContentWidth  float64
	ContentHeight float64
	Margin        cssvalue.Edges
	Padding       cssvalue.Edges
	Border        cssvalue.Edges

	// FC is set by LayoutBlockContainer for every block container it
	// lays out in normal flow; flex containers, table wrappers and
	// replaced items leave it nil.
	FC *FormattingContext

	// LineBoxes holds the line-box output of inline layout when this
	// item is a block container laying out inline-level children
	// directly (spec.md §4.6).
	LineBoxes []*LineBox

	// FlexLines holds the flex-line output when Style.Display is flex
	// or inline-flex (spec.md §4.7).
	FlexLines []*FlexLine

	// Table holds the grid/column/row solver output when this item is
	// a table wrapper (spec.md §4.8).
	Table *TableLayout

	// ZIndex/stacking is resolved straight from Style at paint time;
	// no separate field needed beyond Style.ZIndex/Style.ZIndexSet.
}

// OuterWidth is the full margin-box width.
func (it *Item) OuterWidth() float64 {
	return it.Margin.Left.Value + it.Border.Left.Value + it.Padding.Left.Value +
		it.ContentWidth + it.Padding.Right.Value + it.Border.Right.Value + it.Margin.Right.Value
}

// OuterHeight is the full margin-box height.
func (it *Item) OuterHeight() float64 {
	return it.Margin.Top.Value + it.Border.Top.Value + it.Padding.Top.Value +
		it.ContentHeight + it.Padding.Bottom.Value + it.Border.Bottom.Value + it.Margin.Bottom.Value
}

// BorderBoxWidth is content + padding + border, excluding margin.
func (it *Item) BorderBoxWidth() float64 {
	return it.Border.Left.Value + it.Padding.Left.Value + it.ContentWidth + it.Padding.Right.Value + it.Border.Right.Value
}

func (it *Item) BorderBoxHeight() float64 {
	return it.Border.Top.Value + it.Padding.Top.Value + it.ContentHeight + it.Padding.Bottom.Value + it.Border.Bottom.Value
}

// BorderBox is it's border box in document-relative coordinates, the
// unit a host embedder's redraw_boxes/dirty-rect tracking works in
// (spec.md §6's on_mouse_over et al. report these, not viewport ones).
func (it *Item) BorderBox() container.Rect {
	return container.Rect{X: int(it.X), Y: int(it.Y), W: int(it.BorderBoxWidth()), H: int(it.BorderBoxHeight())}
}

func (it *Item) IsInlineLevel() bool {
	if it.Kind == ItemText {
		return true
	}
	return it.Style != nil && it.Style.IsInlineLevel()
}

func (it *Item) IsBlockLevel() bool {
	return it.Kind == ItemBlock || it.Kind == ItemAnonymousBlock || it.Kind == ItemTableWrapper ||
		(it.Style != nil && it.Style.IsBlockLevel())
}

// Construct builds the render-item tree rooted at node, materializing
// ::before/::after pseudo-elements and wrapping runs of stray inline
// content into anonymous block boxes whenever a block container mixes
// block-level and inline-level children (spec.md §4.5). node.Style
// must already be populated (css.ApplyCascade having run).
func Construct(node *domtree.Node) *Item {
	item := newItemFromNode(node)
	if item.Style.Display == cssvalue.DisplayNone {
		return item
	}
	children := collectChildItems(node)
	item.Children = wrapAnonymousBlocks(item, children)
	return item
}

func newItemFromNode(node *domtree.Node) *Item {
	kind := ItemBlock
	switch {
	case node.Kind == domtree.TextNode:
		kind = ItemText
	case node.TagName == "img":
		kind = ItemReplaced
	case node.Style != nil && node.Style.IsInlineLevel():
		kind = ItemInline
	}
	it := &Item{Kind: kind, Node: node, Style: node.Style}
	if node.Kind == domtree.TextNode {
		it.Text = node.Text
	}
	if kind == ItemReplaced {
		if src, ok := node.GetAttribute("src"); ok {
			it.ImageURL = src
		}
	}
	return it
}

// collectChildItems builds one Item per in-flow, displayable child of
// node. css.ApplyCascade already spliced ::before/::after generated
// content into node.Children at its logical position, so this is a
// single pass over the real child list.
func collectChildItems(node *domtree.Node) []*Item {
	var out []*Item
	for _, c := range node.Children {
		if c.Kind == domtree.CommentNode {
			continue
		}
		if c.Kind == domtree.TextNode {
			if isAllWhitespace(c.Text) {
				continue
			}
			out = append(out, newItemFromNode(c))
			continue
		}
		if c.Style == nil || c.Style.Display == cssvalue.DisplayNone {
			continue
		}
		child := Construct(c)
		child.Parent = nil // set by caller after wrapping
		out = append(out, child)
	}
	return out
}

func isAllWhitespace(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
		default:
			return false
		}
	}
	return true
}

// wrapAnonymousBlocks implements spec.md §4.5's anonymous-box rule: if
// parent.Style is block-level and its children are a mix of block-level
// and inline-level items, every maximal run of inline-level children is
// wrapped in an anonymous block item so the parent lays out a uniform
// list of block-level children. Before that, any inline child that
// contains a block-level descendant is split and the block hoisted up
// to this level (spec.md §4.5 point 2), so the mix this function sees
// never has a block-level item buried inside an ItemInline.
func wrapAnonymousBlocks(parent *Item, children []*Item) []*Item {
	var flattened []*Item
	for _, c := range children {
		flattened = append(flattened, splitInline(c)...)
	}
	children = flattened

	for _, c := range children {
		c.Parent = parent
	}
	if parent.Style == nil || !parent.Style.IsBlockLevel() {
		return children
	}
	hasBlock := false
	hasInline := false
	for _, c := range children {
		if c.IsBlockLevel() {
			hasBlock = true
		} else {
			hasInline = true
		}
	}
	if !hasBlock || !hasInline {
		return children
	}

	var out []*Item
	var run []*Item
	flushRun := func() {
		if len(run) == 0 {
			return
		}
		anon := &Item{Kind: ItemAnonymousBlock, Style: cssvalue.NewComputedStyle(), Parent: parent}
		anon.Style.Display = cssvalue.DisplayBlock
		for _, r := range run {
			r.Parent = anon
		}
		anon.Children = run
		out = append(out, anon)
		run = nil
	}
	for _, c := range children {
		if c.IsBlockLevel() {
			flushRun()
			out = append(out, c)
		} else {
			run = append(run, c)
		}
	}
	flushRun()
	return out
}

// splitInline implements CSS 2.1 §9.2.1.1's split-inline rule: an
// inline box that contains a block-level descendant is split around
// it, cloning the inline for the content before and after and hoisting
// the block out to become a direct sibling at this level. It recurses
// through nested inline content, so a block nested several inline
// levels deep (<span><b><div>...</div></b></span>) is hoisted all the
// way out to the nearest block container in one pass. An item with no
// block descendant is returned unchanged, as a single-element slice.
func splitInline(it *Item) []*Item {
	if it.Kind != ItemInline || !containsBlockDescendant(it) {
		return []*Item{it}
	}
	var out []*Item
	var run []*Item
	flush := func() {
		if len(run) == 0 {
			return
		}
		out = append(out, &Item{Kind: ItemInline, Node: it.Node, Style: it.Style, Children: run})
		run = nil
	}
	for _, child := range it.Children {
		switch {
		case child.IsBlockLevel():
			flush()
			out = append(out, child)
		case child.Kind == ItemInline && containsBlockDescendant(child):
			flush()
			out = append(out, splitInline(child)...)
		default:
			run = append(run, child)
		}
	}
	flush()
	return out
}

func containsBlockDescendant(it *Item) bool {
	for _, c := range it.Children {
		if c.IsBlockLevel() {
			return true
		}
		if c.Kind == ItemInline && containsBlockDescendant(c) {
			return true
		}
	}
	return false
}
