package layout

import (
	"htmlcore/pkg/container"
	"htmlcore/pkg/cssvalue"
)

// resolveBoxModel resolves it's margin/padding/border/content-width
// from its style against containingWidth, following CSS 2.1 §10.3.3:
// when width is not auto and margin-left/margin-right are both auto,
// the extra space splits evenly between them; when width itself is
// auto, it takes whatever containingWidth leaves after the other six
// properties (non-auto margins included).
func resolveBoxModel(it *Item, containingWidth float64, ctx cssvalue.ResolveContext) {
	s := it.Style
	it.Padding = resolveEdges(s.Padding, ctx, containingWidth)
	it.Border = resolveEdges(s.BorderWidth, ctx, containingWidth)

	marginLeft, marginRight := s.Margin.Left, s.Margin.Right
	it.Margin.Top = cssvalue.Px(s.Margin.Top.Resolve(ctx))
	it.Margin.Bottom = cssvalue.Px(s.Margin.Bottom.Resolve(ctx))

	borderPadding := it.Padding.Left.Value + it.Padding.Right.Value + it.Border.Left.Value + it.Border.Right.Value

	if s.Width.IsAuto() {
		ml := marginLeft.Resolve(ctx)
		mr := marginRight.Resolve(ctx)
		it.Margin.Left, it.Margin.Right = cssvalue.Px(ml), cssvalue.Px(mr)
		it.ContentWidth = containingWidth - ml - mr - borderPadding
		if it.ContentWidth < 0 {
			it.ContentWidth = 0
		}
		return
	}

	contentWidth := s.Width.Resolve(ctx)
	if s.BoxSizing == "border-box" {
		contentWidth -= borderPadding
		if contentWidth < 0 {
			contentWidth = 0
		}
	}
	if !s.MinWidth.IsAuto() {
		if min := s.MinWidth.Resolve(ctx); contentWidth < min {
			contentWidth = min
		}
	}
	if !s.MaxWidth.IsNone() {
		if max := s.MaxWidth.Resolve(ctx); contentWidth > max {
			contentWidth = max
		}
	}
	it.ContentWidth = contentWidth

	switch {
	case marginLeft.IsAuto() && marginRight.IsAuto():
		remaining := containingWidth - contentWidth - borderPadding
		if remaining < 0 {
			remaining = 0
		}
		it.Margin.Left, it.Margin.Right = cssvalue.Px(remaining/2), cssvalue.Px(remaining/2)
	case marginLeft.IsAuto():
		mr := marginRight.Resolve(ctx)
		it.Margin.Right = cssvalue.Px(mr)
		it.Margin.Left = cssvalue.Px(containingWidth - contentWidth - borderPadding - mr)
	case marginRight.IsAuto():
		ml := marginLeft.Resolve(ctx)
		it.Margin.Left = cssvalue.Px(ml)
		it.Margin.Right = cssvalue.Px(containingWidth - contentWidth - borderPadding - ml)
	default:
		it.Margin.Left = cssvalue.Px(marginLeft.Resolve(ctx))
		it.Margin.Right = cssvalue.Px(marginRight.Resolve(ctx))
	}
}

func resolveEdges(e cssvalue.Edges, ctx cssvalue.ResolveContext, basis float64) cssvalue.Edges {
	return cssvalue.Edges{
		Top:    cssvalue.Px(e.Top.Resolve(ctx)),
		Right:  cssvalue.Px(e.Right.Resolve(ctx)),
		Bottom: cssvalue.Px(e.Bottom.Resolve(ctx)),
		Left:   cssvalue.Px(e.Left.Resolve(ctx)),
	}
}

// LayoutBlockContainer lays out it's content assuming it.X/it.Y and
// it.ContentWidth are already set (by the caller, or by resolveBoxModel
// against the containing block). It dispatches per CSS display value:
// flex and table containers delegate to their own algorithms; anything
// else lays out block-level children in normal flow, wrapping runs of
// inline-level children into line boxes, tracking floats in a fresh
// formatting context (created for every container that reaches this
// normal-flow path), and collapsing adjoining vertical margins per
// spec.md §4.6.
func LayoutBlockContainer(it *Item, availableWidth float64, c container.Container, ctx cssvalue.ResolveContext) {
	resolveBoxModel(it, availableWidth, ctx)

	if it.Style.Display == cssvalue.DisplayFlex || it.Style.Display == cssvalue.DisplayInlineFlex {
		LayoutFlexContainer(it, c, ctx)
		return
	}
	if it.Style.Display == cssvalue.DisplayTable || it.Style.Display == cssvalue.DisplayInlineTable {
		LayoutTableContainer(it, c, ctx)
		return
	}
	if it.Kind == ItemReplaced {
		layoutReplaced(it, ctx)
		return
	}

	fc := NewFormattingContext(it, it.ContentWidth, 0)
	it.FC = fc

	contentX := it.X + it.Border.Left.Value + it.Padding.Left.Value
	contentTop := it.Y + it.Border.Top.Value + it.Padding.Top.Value
	fc.PenY = 0

	var inlineRun []*Item
	flushInline := func() {
		if len(inlineRun) == 0 {
			return
		}
		lines := LayoutInlineRun(inlineRun, it.ContentWidth, c, it.Style, ctx)
		baseY := fc.PenY
		for _, line := range lines {
			line.Y = baseY
			for i := range line.Fragments {
				f := &line.Fragments[i]
				f.Item.X = contentX + f.X
				f.Item.Y = contentTop + baseY + (line.Baseline - f.Ascent)
			}
			baseY += line.Height
		}
		it.LineBoxes = append(it.LineBoxes, lines...)
		fc.PenY = baseY
		inlineRun = nil
	}

	var prevMargin float64
	var lastChild *Item
	havePrevMargin := false

	for _, child := range it.Children {
		if child.Style == nil {
			continue
		}
		if child.Style.Display == cssvalue.DisplayNone {
			continue
		}
		if child.Style.Position == cssvalue.PositionAbsolute || child.Style.Position == cssvalue.PositionFixed {
			child.X, child.Y = contentX, contentTop+fc.PenY // static position fallback
			continue
		}
		if child.Style.Float != cssvalue.FloatNone {
			flushInline()
			resolveFloatSize(child, it.ContentWidth, c, ctx)
			// Laid out at the formatting context's local (0,0) baseline:
			// a float's own height (needed by PlaceFloat to find where it
			// fits) isn't known until its content has been laid out, so
			// its final position can only be fixed afterward. Every
			// descendant position computed during this call is relative
			// to that baseline and must be translated along with it.
			LayoutBlockContainer(child, child.ContentWidth, c, ctx)
			fc.PlaceFloat(child)
			relX, relY := child.X, child.Y
			child.X = contentX + relX + child.Margin.Left.Value
			child.Y = contentTop + relY + child.Margin.Top.Value
			for _, gc := range child.Children {
				translateSubtree(gc, child.X, child.Y)
			}
			continue
		}
		if child.IsInlineLevel() {
			inlineRun = append(inlineRun, child)
			continue
		}

		flushInline()
		if child.Style.Clear != cssvalue.ClearNone {
			fc.PenY = fc.ClearY(child.Style.Clear)
		}

		topMargin := child.Style.Margin.Top.Resolve(ctx)
		switch {
		case !havePrevMargin && parentCanCollapseTopMargin(it) && shouldCollapseMargins(child):
			// The first in-flow child's top margin collapses through to
			// it's own top margin, already accounted for by whoever
			// positioned it; it contributes nothing to fc.PenY here.
			topMargin = 0
		case havePrevMargin && shouldCollapseMargins(child):
			topMargin = collapseMargins(prevMargin, topMargin)
			fc.PenY -= prevMargin // undo the previous bottom margin before applying the collapsed value
		}
		fc.PenY += topMargin

		resolveBoxModel(child, it.ContentWidth, ctx)
		child.X = contentX + child.Margin.Left.Value
		child.Y = contentTop + fc.PenY
		LayoutBlockContainer(child, it.ContentWidth, c, ctx)

		fc.PenY += child.OuterHeight() - child.Margin.Top.Value - child.Margin.Bottom.Value +
			child.Border.Top.Value + child.Padding.Top.Value + child.Padding.Bottom.Value + child.Border.Bottom.Value

		bottomMargin := child.Style.Margin.Bottom.Resolve(ctx)
		if isCollapseThrough(child) {
			// A collapse-through child vanishes from the flow entirely:
			// its own folded margin (including any collapse-through
			// descendants of its own) is what propagates forward, not
			// just its literal margin-bottom.
			bottomMargin = collapseThroughMargin(child)
		}
		prevMargin = bottomMargin
		havePrevMargin = true
		lastChild = child
		fc.PenY += prevMargin
	}
	flushInline()

	if havePrevMargin && parentCanCollapseBottomMargin(it) && shouldCollapseMargins(lastChild) {
		// The last in-flow child's bottom margin collapses through to
		// it's own bottom margin instead of extending its content box.
		fc.PenY -= prevMargin
	}

	if it.Style.Height.IsAuto() {
		it.ContentHeight = fc.PenY
	} else {
		it.ContentHeight = it.Style.Height.ResolveHeight(ctx)
	}
}

// resolveFloatSize resolves a floated box's box model and, when its
// width is auto, shrinks it to fit its content per CSS 2.1 §10.3.5.
func resolveFloatSize(it *Item, containingWidth float64, c container.Container, ctx cssvalue.ResolveContext) {
	resolveBoxModel(it, containingWidth, ctx)
	if it.Style.Width.IsAuto() {
		intrinsic := ComputeIntrinsicSizes(it, c)
		it.ContentWidth = intrinsic.ShrinkToFitWidth(containingWidth)
	}
}

// translateSubtree shifts it and every descendant by (dx, dy). Used
// when an item's content has to be laid out before its own final
// position is known (floats, whose placement depends on their own
// resolved height; absolutely positioned boxes, whose containing
// block must be fully sized first): the subtree is built against a
// local (0, 0) baseline and then translated into place as a whole.
func translateSubtree(it *Item, dx, dy float64) {
	it.X += dx
	it.Y += dy
	for _, child := range it.Children {
		translateSubtree(child, dx, dy)
	}
}

func layoutReplaced(it *Item, ctx cssvalue.ResolveContext) {
	if it.Style.Width.IsAuto() && it.Style.Height.IsAuto() {
		it.ContentWidth = it.IntrinsicWidth
		it.ContentHeight = it.IntrinsicHeight
		return
	}
	if it.Style.Width.IsAuto() {
		it.ContentHeight = it.Style.Height.ResolveHeight(ctx)
		if it.IntrinsicHeight > 0 {
			it.ContentWidth = it.IntrinsicWidth * (it.ContentHeight / it.IntrinsicHeight)
		}
		return
	}
	if it.Style.Height.IsAuto() {
		it.ContentWidth = it.Style.Width.Resolve(ctx)
		if it.IntrinsicWidth > 0 {
			it.ContentHeight = it.IntrinsicHeight * (it.ContentWidth / it.IntrinsicWidth)
		}
		return
	}
	it.ContentWidth = it.Style.Width.Resolve(ctx)
	it.ContentHeight = it.Style.Height.ResolveHeight(ctx)
}
