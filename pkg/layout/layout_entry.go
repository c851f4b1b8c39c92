package layout

import (
	"htmlcore/pkg/container"
	"htmlcore/pkg/cssvalue"
	"htmlcore/pkg/domtree"
)

// RenderMode selects which out-of-flow boxes a Run pass promotes,
// mirroring spec.md §6's render_type (all | no_fixed | fixed_only): an
// embedder that only needs to redraw fixed-positioned chrome (e.g. a
// header that doesn't move with scroll) can skip re-promoting the rest
// of the absolutely positioned tree, and vice versa.
type RenderMode int

const (
	RenderAll RenderMode = iota
	RenderNoFixed
	RenderFixedOnly
)

// Run is the package's top-level entry point (spec.md §5): it builds
// the render-item tree from an already-styled DOM (css.ApplyCascade
// must have run), lays out the normal-flow document against the given
// viewport, resolves every absolutely/fixed positioned box against its
// containing block, and returns the finished tree ready for Paint.
func Run(root *domtree.Node, c container.Container, viewportWidth, viewportHeight float64, mode RenderMode) *Item {
	ctx := cssvalue.ResolveContext{
		FontSize:       root.Style.FontSize,
		RootFontSize:   root.Style.FontSize,
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
	}

	item := Construct(root)
	item.X, item.Y = 0, 0
	resolveBoxModel(item, viewportWidth, ctx)
	item.ContentWidth = viewportWidth
	LayoutBlockContainer(item, viewportWidth, c, ctx)

	resolvePositionedDescendants(item, c, ctx, viewportWidth, viewportHeight, mode)
	return item
}

// resolvePositionedDescendants walks the finished normal-flow tree and
// promotes every absolutely/fixed positioned item that normal flow left
// at its static-position fallback (block.go), laying it out and placing
// it against its containing block's content box (spec.md §4.10). A
// containing block must be fully sized before any of its out-of-flow
// descendants are resolved, so this pass runs after normal flow has
// completed everywhere, not interleaved with it.
func resolvePositionedDescendants(it *Item, c container.Container, ctx cssvalue.ResolveContext, viewportWidth, viewportHeight float64, mode RenderMode) {
	for _, child := range it.Children {
		if child.Style == nil {
			continue
		}
		switch child.Style.Position {
		case cssvalue.PositionFixed:
			if mode != RenderNoFixed {
				promoteOutOfFlow(child, c, ctx, viewportWidth, viewportHeight)
			}
		case cssvalue.PositionAbsolute:
			if mode != RenderFixedOnly {
				promoteOutOfFlow(child, c, ctx, viewportWidth, viewportHeight)
			}
		}
		resolvePositionedDescendants(child, c, ctx, viewportWidth, viewportHeight, mode)
	}
}

func promoteOutOfFlow(it *Item, c container.Container, ctx cssvalue.ResolveContext, viewportWidth, viewportHeight float64) {
	cb := FindContainingBlock(it)
	var cbX, cbY, cbWidth, cbHeight float64
	if cb == nil {
		cbWidth, cbHeight = viewportWidth, viewportHeight
	} else {
		cbX = cb.X + cb.Border.Left.Value + cb.Padding.Left.Value
		cbY = cb.Y + cb.Border.Top.Value + cb.Padding.Top.Value
		cbWidth, cbHeight = cb.ContentWidth, cb.ContentHeight
	}

	resolveBoxModel(it, cbWidth, ctx)
	if it.Style.Width.IsAuto() {
		intrinsic := ComputeIntrinsicSizes(it, c)
		it.ContentWidth = intrinsic.ShrinkToFitWidth(cbWidth)
	}
	// it.X/it.Y still hold the static-position fallback normal flow left
	// behind; LayoutBlockContainer positions every descendant relative
	// to that baseline before ApplyAbsolutePositioning below replaces it
	// with the resolved left/right/top/bottom position, so any
	// descendant whose final position differs from the fallback needs
	// translating along with it.
	baseX, baseY := it.X, it.Y
	LayoutBlockContainer(it, it.ContentWidth, c, ctx)

	ApplyAbsolutePositioning(it, cbWidth, cbHeight, ctx)
	it.X += cbX
	it.Y += cbY

	dx, dy := it.X-baseX, it.Y-baseY
	for _, child := range it.Children {
		translateSubtree(child, dx, dy)
	}
}
