package layout

import "htmlcore/pkg/cssvalue"

// StackingContext is a CSS stacking context: a box whose z-index or
// opacity pulls it and its descendants out of plain
// document-order painting into z-index-ordered buckets (spec.md §4.9).
type StackingContext struct {
	Owner  *Item // nil for the synthetic root context
	ZIndex int

	NegativeZ []*StackingContext // ascending z-index
	ZeroZ     []*StackingContext // document order
	PositiveZ []*StackingContext // ascending z-index

	// InFlowBlocks/Floats/Inlines hold this context's own
	// non-stacking-context descendants, already split into the
	// CSS 2.1 Appendix E paint buckets so Paint can walk them in order.
	InFlowBlocks []*Item
	Floats       []*Item
	Inlines      []*Item
}

func NewStackingContext(owner *Item, zIndex int) *StackingContext {
	return &StackingContext{Owner: owner, ZIndex: zIndex}
}

func (sc *StackingContext) addChild(child *StackingContext) {
	switch {
	case child.ZIndex < 0:
		sc.NegativeZ = append(sc.NegativeZ, child)
	case child.ZIndex > 0:
		sc.PositiveZ = append(sc.PositiveZ, child)
	default:
		sc.ZeroZ = append(sc.ZeroZ, child)
	}
}

// CreatesStackingContext reports whether it establishes its own
// stacking context: positioned with an explicit z-index, or non-opaque
// (spec.md §4.9). Flex and grid items get no special treatment.
func CreatesStackingContext(it *Item) bool {
	if it == nil || it.Style == nil {
		return false
	}
	if it.Style.IsPositioned() && it.Style.ZIndexSet {
		return true
	}
	if it.Style.Opacity < 1 {
		return true
	}
	return false
}

// BuildStackingContextTree walks root's render-item tree and produces
// the nested stacking-context tree, with each context's own paint
// buckets already sorted.
func BuildStackingContextTree(root *Item) *StackingContext {
	rootCtx := NewStackingContext(nil, 0)
	collectChildContexts(root, rootCtx)
	sortByZIndex(rootCtx.NegativeZ)
	sortByZIndex(rootCtx.PositiveZ)
	return rootCtx
}

func collectChildContexts(it *Item, parent *StackingContext) {
	if it == nil {
		return
	}
	if CreatesStackingContext(it) {
		child := NewStackingContext(it, it.Style.ZIndex)
		parent.addChild(child)
		for _, c := range it.Children {
			collectChildContexts(c, child)
		}
		sortByZIndex(child.NegativeZ)
		sortByZIndex(child.PositiveZ)
		return
	}
	classifyItem(it, parent)
	for _, c := range it.Children {
		collectChildContexts(c, parent)
	}
}

// classifyItem buckets it itself (not its descendants, which are
// walked separately by collectChildContexts) into the paint-order
// bucket it belongs to within ctx.
func classifyItem(it *Item, ctx *StackingContext) {
	if it.Style == nil {
		return
	}
	switch {
	case it.Style.Float != cssvalue.FloatNone:
		ctx.Floats = append(ctx.Floats, it)
	case it.IsInlineLevel():
		ctx.Inlines = append(ctx.Inlines, it)
	default:
		ctx.InFlowBlocks = append(ctx.InFlowBlocks, it)
	}
}

func sortByZIndex(contexts []*StackingContext) {
	for i := 1; i < len(contexts); i++ {
		for j := i; j > 0 && contexts[j].ZIndex < contexts[j-1].ZIndex; j-- {
			contexts[j], contexts[j-1] = contexts[j-1], contexts[j]
		}
	}
}

// Paint walks ctx in CSS 2.1 Appendix E order — background/borders of
// the owner (handled by the caller before descending), negative
// z-index contexts, in-flow block descendants, floats, inline
// descendants, then zero/auto and positive z-index contexts — invoking
// visit on every Item it reaches in that order.
func (sc *StackingContext) Paint(visit func(*Item)) {
	for _, c := range sc.NegativeZ {
		if c.Owner != nil {
			visit(c.Owner)
		}
		c.Paint(visit)
	}
	for _, it := range sc.InFlowBlocks {
		visit(it)
	}
	for _, it := range sc.Floats {
		visit(it)
	}
	for _, it := range sc.Inlines {
		visit(it)
	}
	for _, c := range sc.ZeroZ {
		if c.Owner != nil {
			visit(c.Owner)
		}
		c.Paint(visit)
	}
	for _, c := range sc.PositiveZ {
		if c.Owner != nil {
			visit(c.Owner)
		}
		c.Paint(visit)
	}
}

// HitTest returns the topmost Item at (x, y): it walks the paint order
// and keeps the last box whose border box contains the point, so the
// last-painted (visually topmost) box wins.
func (sc *StackingContext) HitTest(x, y float64) *Item {
	var found *Item
	sc.Paint(func(it *Item) {
		if it.X <= x && x <= it.X+it.BorderBoxWidth() && it.Y <= y && y <= it.Y+it.BorderBoxHeight() {
			found = it // later visits (painted on top) overwrite earlier ones
		}
	})
	return found
}
