package layout

import "htmlcore/pkg/cssvalue"

// collapseMargins returns the collapsed value of two adjoining vertical
// margins per CSS 2.1 §8.3.1: both positive takes the max, both
// negative takes the most negative, and a mixed pair sums.
func collapseMargins(a, b float64) float64 {
	switch {
	case a >= 0 && b >= 0:
		if a > b {
			return a
		}
		return b
	case a < 0 && b < 0:
		if a < b {
			return a
		}
		return b
	default:
		return a + b
	}
}

// shouldCollapseMargins reports whether it participates in normal
// vertical margin collapsing at all. <body> is excluded even though
// nothing in its own style would otherwise exclude it — browsers treat
// it specially in standards mode. Floated, absolutely/fixed positioned,
// inline-level, flex, and non-visible-overflow boxes never collapse.
func shouldCollapseMargins(it *Item) bool {
	if it.Style == nil {
		return true
	}
	if it.Node != nil && it.Node.TagName == "body" {
		return false
	}
	if it.Style.Float != cssvalue.FloatNone {
		return false
	}
	if it.Style.Position == cssvalue.PositionAbsolute || it.Style.Position == cssvalue.PositionFixed {
		return false
	}
	switch it.Style.Display {
	case cssvalue.DisplayInlineBlock, cssvalue.DisplayInline, cssvalue.DisplayFlex, cssvalue.DisplayInlineFlex:
		return false
	}
	if it.Style.Overflow != "" && it.Style.Overflow != "visible" {
		return false
	}
	return true
}

// isCollapseThrough reports whether it has zero height, no border or
// padding separating its top and bottom margins, and no in-flow content
// that would keep the margins apart — i.e. it and its own margins
// vanish entirely from the flow, letting its margins collapse with
// whatever is adjacent on either side.
func isCollapseThrough(it *Item) bool {
	if !shouldCollapseMargins(it) {
		return false
	}
	if it.Border.Top.Value > 0 || it.Border.Bottom.Value > 0 {
		return false
	}
	if it.Padding.Top.Value > 0 || it.Padding.Bottom.Value > 0 {
		return false
	}
	if it.ContentHeight > 0 {
		return false
	}
	for _, child := range it.Children {
		if isOutOfFlow(child) {
			continue
		}
		if !isCollapseThrough(child) {
			return false
		}
	}
	return true
}

func isOutOfFlow(it *Item) bool {
	if it.Style == nil {
		return false
	}
	if it.Style.Position == cssvalue.PositionAbsolute || it.Style.Position == cssvalue.PositionFixed {
		return true
	}
	return it.Style.Float != cssvalue.FloatNone
}

// collapseThroughMargin folds it's own top/bottom margins together with
// every collapse-through descendant's margins into the single value
// that represents the whole collapse-through chain.
func collapseThroughMargin(it *Item) float64 {
	margins := []float64{it.Margin.Top.Value, it.Margin.Bottom.Value}
	collectCollapseThroughChildMargins(it, &margins)
	maxPos, minNeg := 0.0, 0.0
	for _, m := range margins {
		if m > maxPos {
			maxPos = m
		}
		if m < minNeg {
			minNeg = m
		}
	}
	return maxPos + minNeg
}

func collectCollapseThroughChildMargins(it *Item, margins *[]float64) {
	for _, child := range it.Children {
		if isOutOfFlow(child) {
			continue
		}
		if isCollapseThrough(child) {
			*margins = append(*margins, child.Margin.Top.Value, child.Margin.Bottom.Value)
			collectCollapseThroughChildMargins(child, margins)
		}
	}
}

// parentCanCollapseTopMargin reports whether parent's top border/padding
// and own participation allow its first in-flow child's top margin to
// collapse with parent's own top margin.
func parentCanCollapseTopMargin(parent *Item) bool {
	if parent.Border.Top.Value > 0 || parent.Padding.Top.Value > 0 {
		return false
	}
	return parentParticipates(parent)
}

// parentCanCollapseBottomMargin is parentCanCollapseTopMargin's mirror
// for the bottom edge, additionally requiring parent.Style.Height be
// auto (an explicit height stops the bottom margin from escaping).
func parentCanCollapseBottomMargin(parent *Item) bool {
	if parent.Border.Bottom.Value > 0 || parent.Padding.Bottom.Value > 0 {
		return false
	}
	if parent.Style != nil && !parent.Style.Height.IsAuto() {
		return false
	}
	return parentParticipates(parent)
}

func parentParticipates(parent *Item) bool {
	if parent.Style == nil {
		return true
	}
	if parent.Style.Overflow != "" && parent.Style.Overflow != "visible" {
		return false
	}
	switch parent.Style.Display {
	case cssvalue.DisplayInlineBlock, cssvalue.DisplayFlex, cssvalue.DisplayInlineFlex:
		return false
	}
	return parent.Style.Float == cssvalue.FloatNone
}
