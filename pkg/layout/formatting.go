package layout

import "htmlcore/pkg/cssvalue"

// Side names which edge a float exclusion occupies, mirroring
// cssvalue.Float without the "none" member (an exclusion only exists
// for an actually-floated box).
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// Rect is an axis-aligned box in formatting-context-local coordinates
// (Y grows downward from the context's top).
type Rect struct {
	X, Y, Width, Height float64
}

// Exclusion is one floated box's footprint, recorded so later content
// in the same formatting context flows around it (spec.md §4.6).
type Exclusion struct {
	Rect Rect
	Side Side
}

// ExclusionSpace is an immutable, copy-on-write record of every float
// exclusion placed so far in a formatting context. Copy-on-write is
// what lets line-breaking retry cleanly: a trial layout can add
// exclusions to its own copy and discard them without disturbing the
// committed state if the trial is abandoned.
type ExclusionSpace struct {
	exclusions []Exclusion
}

// NewExclusionSpace returns an empty exclusion space.
func NewExclusionSpace() *ExclusionSpace {
	return &ExclusionSpace{}
}

func (es *ExclusionSpace) IsEmpty() bool {
	return es == nil || len(es.exclusions) == 0
}

// Add returns a new ExclusionSpace with excl appended; es is untouched.
func (es *ExclusionSpace) Add(excl Exclusion) *ExclusionSpace {
	next := make([]Exclusion, len(es.exclusions)+1)
	copy(next, es.exclusions)
	next[len(es.exclusions)] = excl
	return &ExclusionSpace{exclusions: next}
}

// AvailableInlineSize returns how far floats intrude on the line box
// spanning [y, y+height): leftOffset from the left edge, rightOffset
// from the right edge. Only exclusions overlapping that vertical range
// count, so content below a float's bottom edge is unaffected.
func (es *ExclusionSpace) AvailableInlineSize(y, height float64) (leftOffset, rightOffset float64) {
	if es == nil {
		return 0, 0
	}
	for _, ex := range es.exclusions {
		if ex.Rect.Y+ex.Rect.Height <= y || ex.Rect.Y >= y+height {
			continue
		}
		switch ex.Side {
		case SideLeft:
			if right := ex.Rect.X + ex.Rect.Width; right > leftOffset {
				leftOffset = right
			}
		case SideRight:
			if ex.Rect.Width > rightOffset {
				rightOffset = ex.Rect.Width
			}
		}
	}
	return leftOffset, rightOffset
}

// LowestFloatBottom returns the bottom edge of the lowest exclusion on
// the requested side(s), used to resolve `clear`.
func (es *ExclusionSpace) LowestFloatBottom(clear cssvalue.Clear) float64 {
	bottom := 0.0
	if es == nil {
		return 0
	}
	for _, ex := range es.exclusions {
		if clear == cssvalue.ClearLeft && ex.Side != SideLeft {
			continue
		}
		if clear == cssvalue.ClearRight && ex.Side != SideRight {
			continue
		}
		if b := ex.Rect.Y + ex.Rect.Height; b > bottom {
			bottom = b
		}
	}
	return bottom
}

// ConstraintSpace is the immutable input to laying out one block's
// content: the size available to it and the floats already placed in
// its formatting context. Every With* method returns a modified copy;
// callers never mutate a ConstraintSpace in place (spec.md §4.6
// invariant: float state does not leak across sibling formatting
// contexts).
type ConstraintSpace struct {
	AvailableWidth  float64
	AvailableHeight float64
	Exclusions      *ExclusionSpace
	TextAlign       string
}

func NewConstraintSpace(width, height float64) *ConstraintSpace {
	return &ConstraintSpace{AvailableWidth: width, AvailableHeight: height, Exclusions: NewExclusionSpace(), TextAlign: "left"}
}

func (cs *ConstraintSpace) WithExclusion(excl Exclusion) *ConstraintSpace {
	next := *cs
	next.Exclusions = cs.Exclusions.Add(excl)
	return &next
}

func (cs *ConstraintSpace) WithAvailableWidth(w float64) *ConstraintSpace {
	next := *cs
	next.AvailableWidth = w
	return &next
}

func (cs *ConstraintSpace) WithTextAlign(align string) *ConstraintSpace {
	next := *cs
	next.TextAlign = align
	return &next
}

func (cs *ConstraintSpace) AvailableInlineSize(y, height float64) float64 {
	l, r := cs.Exclusions.AvailableInlineSize(y, height)
	w := cs.AvailableWidth - l - r
	if w < 0 {
		return 0
	}
	return w
}

// FormattingContext is the per-block-container state a block/inline
// layout pass threads through its children: the constraint space
// (which accumulates float exclusions as floats are placed), the
// current "pen" position, and a back-reference to the item that owns
// this context. LayoutBlockContainer starts a fresh one for every block
// container it lays out in normal flow (inline-blocks and table cells
// included); flex containers, table wrappers and replaced items get
// none, and cssvalue.IsFloatsHolder is not consulted.
type FormattingContext struct {
	Owner      *Item
	Constraint *ConstraintSpace
	PenY       float64
}

// NewFormattingContext starts a fresh formatting context for owner with
// availableWidth as its content-box width.
func NewFormattingContext(owner *Item, availableWidth, availableHeight float64) *FormattingContext {
	return &FormattingContext{Owner: owner, Constraint: NewConstraintSpace(availableWidth, availableHeight)}
}

// PlaceFloat records a floated item's footprint in fc's exclusion
// space and sets it.X/it.Y (formatting-context-local) to where it lands:
// hugging the left or right content edge, at or below fc.PenY, and
// dropped below earlier floats when there is no room beside them.
func (fc *FormattingContext) PlaceFloat(it *Item) {
	side := SideLeft
	if it.Style.Float == cssvalue.FloatRight {
		side = SideRight
	}
	y := fc.floatDropY(it, side)
	leftOffset, rightOffset := fc.Constraint.Exclusions.AvailableInlineSize(y, it.OuterHeight())
	var x float64
	if side == SideLeft {
		x = leftOffset
	} else {
		x = fc.Constraint.AvailableWidth - rightOffset - it.OuterWidth()
	}
	it.X, it.Y = x, y
	fc.Constraint = fc.Constraint.WithExclusion(Exclusion{
		Rect: Rect{X: x, Y: y, Width: it.OuterWidth(), Height: it.OuterHeight()},
		Side: side,
	})
}

// floatDropY returns the lowest Y at or below fc.PenY where a float of
// it's width actually fits beside any floats already on its side,
// walking downward past already-placed floats that leave no room.
func (fc *FormattingContext) floatDropY(it *Item, side Side) float64 {
	y := fc.PenY
	width := it.OuterWidth()
	for i := 0; i < 64; i++ {
		leftOffset, rightOffset := fc.Constraint.Exclusions.AvailableInlineSize(y, it.OuterHeight())
		available := fc.Constraint.AvailableWidth - leftOffset - rightOffset
		if available >= width {
			return y
		}
		next := fc.nextFloatBoundaryBelow(y, side)
		if next <= y {
			return y
		}
		y = next
	}
	return y
}

// nextFloatBoundaryBelow returns the smallest exclusion bottom edge
// strictly greater than y, or y itself if there isn't one (the caller
// treats that as "no more room to gain by waiting").
func (fc *FormattingContext) nextFloatBoundaryBelow(y float64, side Side) float64 {
	best := y
	found := false
	for _, ex := range fc.Constraint.Exclusions.exclusions {
		bottom := ex.Rect.Y + ex.Rect.Height
		if bottom > y && (!found || bottom < best) {
			best = bottom
			found = true
		}
	}
	if !found {
		return y
	}
	return best
}

// ClearY returns the Y an element with the given `clear` value must be
// pushed down to so it starts below every float it clears.
func (fc *FormattingContext) ClearY(clear cssvalue.Clear) float64 {
	if clear == cssvalue.ClearNone {
		return fc.PenY
	}
	bottom := fc.Constraint.Exclusions.LowestFloatBottom(clear)
	if clear == cssvalue.ClearBoth {
		l := fc.Constraint.Exclusions.LowestFloatBottom(cssvalue.ClearLeft)
		r := fc.Constraint.Exclusions.LowestFloatBottom(cssvalue.ClearRight)
		bottom = l
		if r > bottom {
			bottom = r
		}
	}
	if bottom > fc.PenY {
		return bottom
	}
	return fc.PenY
}
