package layout

import "htmlcore/pkg/cssvalue"

// FindContainingBlock returns it's containing block per CSS 2.1 §10.1:
// the nearest positioned ancestor for absolute, nil (the viewport) for
// fixed, and the parent box for everything else.
func FindContainingBlock(it *Item) *Item {
	if it.Style == nil {
		return it.Parent
	}
	switch it.Style.Position {
	case cssvalue.PositionAbsolute:
		return findNearestPositionedAncestor(it)
	case cssvalue.PositionFixed:
		return nil
	default:
		return it.Parent
	}
}

func findNearestPositionedAncestor(it *Item) *Item {
	for cur := it.Parent; cur != nil; cur = cur.Parent {
		if cur.Style != nil && cur.Style.IsPositioned() {
			return cur
		}
	}
	return nil
}

// ApplyAbsolutePositioning resolves the final offset and size of an
// absolutely or fixed positioned item against its containing block's
// content box, implementing the CSS 2.1 §10.3.7/§10.6.4 over-constrained
// system: when left/width/right are all set (and not auto), the
// trailing edge (right, or left on an RTL containing block — this
// engine always resolves left as the implied free edge, matching
// litehtml) is recomputed from the other two rather than honored
// literally, and when both margins are auto with a definite width the
// two margins are set equal to each other, centering the box.
func ApplyAbsolutePositioning(it *Item, cbWidth, cbHeight float64, ctx cssvalue.ResolveContext) {
	s := it.Style
	left := s.Left
	right := s.Right
	top := s.Top
	bottom := s.Bottom
	width := s.Width
	height := s.Height
	marginLeft := s.Margin.Left
	marginRight := s.Margin.Right
	marginTop := s.Margin.Top
	marginBottom := s.Margin.Bottom

	resolvedWidth := width.Resolve(ctx)
	if width.IsAuto() {
		resolvedWidth = it.ContentWidth // shrink-to-fit result, computed by the caller beforehand
	}

	mLeft := marginLeft.Resolve(ctx)
	mRight := marginRight.Resolve(ctx)
	switch {
	case marginLeft.IsAuto() && marginRight.IsAuto() && !width.IsAuto() && !left.IsAuto() && !right.IsAuto():
		remaining := cbWidth - left.Resolve(ctx) - right.Resolve(ctx) - resolvedWidth
		mLeft, mRight = remaining/2, remaining/2
	case marginLeft.IsAuto() && !marginRight.IsAuto():
		mLeft = cbWidth - left.Resolve(ctx) - right.Resolve(ctx) - resolvedWidth - mRight
	case marginRight.IsAuto() && !marginLeft.IsAuto():
		mRight = cbWidth - left.Resolve(ctx) - right.Resolve(ctx) - resolvedWidth - mLeft
	}

	var x float64
	switch {
	case !left.IsAuto():
		x = left.Resolve(ctx) + mLeft
	case !right.IsAuto():
		x = cbWidth - right.Resolve(ctx) - resolvedWidth - mRight
	default:
		x = it.X // static position, already set by normal flow before promotion
	}

	mTop := marginTop.Resolve(ctx)
	mBottom := marginBottom.Resolve(ctx)
	resolvedHeight := height.ResolveHeight(ctx)
	if height.IsAuto() {
		resolvedHeight = it.ContentHeight
	}
	var y float64
	switch {
	case !top.IsAuto():
		y = top.ResolveHeight(ctx) + mTop
	case !bottom.IsAuto():
		y = cbHeight - bottom.ResolveHeight(ctx) - resolvedHeight - mBottom
	default:
		y = it.Y
	}

	it.X, it.Y = x, y
	it.ContentWidth, it.ContentHeight = resolvedWidth, resolvedHeight
	it.Margin = cssvalue.Edges{Top: cssvalue.Px(mTop), Right: cssvalue.Px(mRight), Bottom: cssvalue.Px(mBottom), Left: cssvalue.Px(mLeft)}
}
