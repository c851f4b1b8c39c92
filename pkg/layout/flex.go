package layout

import (
	"htmlcore/pkg/container"
	"htmlcore/pkg/cssvalue"
)

// FlexItem wraps one flex child with the main/cross-axis bookkeeping
// the flex algorithm needs beyond what Item already stores.
type FlexItem struct {
	Box *Item

	FlexBasis            float64
	HypotheticalMainSize float64
	AutoMinMain          float64
	MainSize             float64
	CrossSize            float64
	MainPos, CrossPos    float64

	FlexGrow   float64
	FlexShrink float64

	// AutoMarginStart/AutoMarginEnd record whether this item's
	// leading/trailing main-axis margin was `auto` in its style,
	// captured before resolveBoxModel collapses auto margins to 0
	// (spec.md §4.7 point 4).
	AutoMarginStart bool
	AutoMarginEnd   bool
}

func (item *FlexItem) mainMargins(isRow bool) float64 {
	if isRow {
		return item.Box.Margin.Left.Value + item.Box.Margin.Right.Value
	}
	return item.Box.Margin.Top.Value + item.Box.Margin.Bottom.Value
}

func (item *FlexItem) mainMarginStart(isRow bool) float64 {
	if isRow {
		return item.Box.Margin.Left.Value
	}
	return item.Box.Margin.Top.Value
}

func (item *FlexItem) mainMarginEnd(isRow bool) float64 {
	if isRow {
		return item.Box.Margin.Right.Value
	}
	return item.Box.Margin.Bottom.Value
}

func (item *FlexItem) setMainMarginStart(isRow bool, v float64) {
	if isRow {
		item.Box.Margin.Left = cssvalue.Px(v)
	} else {
		item.Box.Margin.Top = cssvalue.Px(v)
	}
}

func (item *FlexItem) setMainMarginEnd(isRow bool, v float64) {
	if isRow {
		item.Box.Margin.Right = cssvalue.Px(v)
	} else {
		item.Box.Margin.Bottom = cssvalue.Px(v)
	}
}

// baselineOffset is the distance from an item's margin-box top to its
// first line box's baseline, used by align-items/align-self: baseline
// (spec.md §4.7 point 6). An item with no line boxes of its own
// synthesizes its baseline at its margin-box bottom edge, per CSS
// Flexbox's fallback rule.
func (item *FlexItem) baselineOffset(isRow bool) float64 {
	if len(item.Box.LineBoxes) > 0 {
		lead := item.Box.Margin.Top.Value + item.Box.Border.Top.Value + item.Box.Padding.Top.Value
		return lead + item.Box.LineBoxes[0].Baseline
	}
	return item.crossOuter(isRow)
}

func (item *FlexItem) mainPaddingBorder(isRow bool) float64 {
	if isRow {
		return item.Box.Padding.Left.Value + item.Box.Padding.Right.Value + item.Box.Border.Left.Value + item.Box.Border.Right.Value
	}
	return item.Box.Padding.Top.Value + item.Box.Padding.Bottom.Value + item.Box.Border.Top.Value + item.Box.Border.Bottom.Value
}

// FlexLine is one wrapped row/column of flex items (spec.md §4.7).
type FlexLine struct {
	Items          []*FlexItem
	CrossSize      float64
	MainUsedSpace  float64
}

// LayoutFlexContainer resolves the full flexbox algorithm for it
// (assumed to already have ContentWidth/ContentHeight set to its own
// resolved box): build items, collect into lines, resolve flexible
// lengths along the main axis, position along the cross axis, and
// write the results back onto each child Item's geometry.
func LayoutFlexContainer(it *Item, c container.Container, ctx cssvalue.ResolveContext) {
	isRow := it.Style.FlexDirection == "row" || it.Style.FlexDirection == "row-reverse" || it.Style.FlexDirection == ""
	reverse := it.Style.FlexDirection == "row-reverse" || it.Style.FlexDirection == "column-reverse"
	wrap := it.Style.FlexWrap != "" && it.Style.FlexWrap != "nowrap"

	availableMain := it.ContentWidth
	if !isRow {
		availableMain = it.ContentHeight
	}

	items := buildFlexItems(it, c, ctx, isRow)
	if reverse {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}

	gap := it.Style.Gap.Resolve(ctx)
	lines := collectFlexLines(items, availableMain, gap, wrap)

	for _, line := range lines {
		resolveFlexibleLengths(line, availableMain, gap, isRow)
	}

	crossAxisTotal := 0.0
	for _, line := range lines {
		line.CrossSize = maxCrossHypothetical(line, isRow)
		crossAxisTotal += line.CrossSize
	}

	crossPos := 0.0
	for _, line := range lines {
		positionItemsCrossAxis(line, crossPos, it.Style.AlignItems, isRow)
		crossPos += line.CrossSize
		positionItemsMainAxis(line, availableMain, gap, it.Style.JustifyContent, isRow)
	}

	flexLines := make([]*FlexLine, len(lines))
	copy(flexLines, lines)
	it.FlexLines = flexLines

	for _, line := range lines {
		for _, fi := range line.Items {
			if isRow {
				fi.Box.X = it.X + it.Border.Left.Value + it.Padding.Left.Value + fi.MainPos
				fi.Box.Y = it.Y + it.Border.Top.Value + it.Padding.Top.Value + fi.CrossPos
				fi.Box.ContentWidth = fi.MainSize
				fi.Box.ContentHeight = fi.CrossSize
			} else {
				fi.Box.X = it.X + it.Border.Left.Value + it.Padding.Left.Value + fi.CrossPos
				fi.Box.Y = it.Y + it.Border.Top.Value + it.Padding.Top.Value + fi.MainPos
				fi.Box.ContentHeight = fi.MainSize
				fi.Box.ContentWidth = fi.CrossSize
			}
		}
	}

	if it.Style.Height.IsAuto() {
		it.ContentHeight = crossAxisTotal
		if isRow {
			it.ContentHeight = crossAxisTotal
		}
	}
}

func buildFlexItems(it *Item, c container.Container, ctx cssvalue.ResolveContext, isRow bool) []*FlexItem {
	var items []*FlexItem
	for _, child := range it.Children {
		if child.Style == nil || child.Style.Display == cssvalue.DisplayNone {
			continue
		}
		if child.Style.Position == cssvalue.PositionAbsolute || child.Style.Position == cssvalue.PositionFixed {
			continue
		}
		m := child.Style.Margin
		var autoStart, autoEnd bool
		if isRow {
			autoStart, autoEnd = m.Left.IsAuto(), m.Right.IsAuto()
		} else {
			autoStart, autoEnd = m.Top.IsAuto(), m.Bottom.IsAuto()
		}
		resolveBoxModel(child, it.ContentWidth, ctx)
		fi := &FlexItem{
			Box: child, FlexGrow: child.Style.FlexGrow, FlexShrink: child.Style.FlexShrink,
			AutoMarginStart: autoStart, AutoMarginEnd: autoEnd,
		}

		if !child.Style.FlexBasis.IsAuto() {
			if isRow {
				fi.FlexBasis = child.Style.FlexBasis.Resolve(ctx)
			} else {
				fi.FlexBasis = child.Style.FlexBasis.ResolveHeight(ctx)
			}
		} else {
			intrinsic := ComputeIntrinsicSizes(child, c)
			if isRow {
				fi.FlexBasis = intrinsic.MaxContent
				fi.AutoMinMain = intrinsic.MinContent
			} else {
				LayoutBlockContainer(child, it.ContentWidth, c, ctx)
				fi.FlexBasis = child.ContentHeight
			}
		}
		fi.HypotheticalMainSize = fi.FlexBasis
		items = append(items, fi)
	}
	return items
}

func collectFlexLines(items []*FlexItem, availableMain, gap float64, wrap bool) []*FlexLine {
	if !wrap || len(items) == 0 {
		return []*FlexLine{{Items: items}}
	}
	var lines []*FlexLine
	var cur []*FlexItem
	used := 0.0
	for _, it := range items {
		size := it.HypotheticalMainSize + it.mainMargins(true) + it.mainPaddingBorder(true)
		if len(cur) > 0 && used+gap+size > availableMain {
			lines = append(lines, &FlexLine{Items: cur})
			cur = nil
			used = 0
		}
		if len(cur) > 0 {
			used += gap
		}
		cur = append(cur, it)
		used += size
	}
	if len(cur) > 0 {
		lines = append(lines, &FlexLine{Items: cur})
	}
	return lines
}

// resolveFlexibleLengths runs the iterative grow/shrink resolution of
// CSS Flexbox §9.7, freezing inflexible and min/max-violating items
// each round until the remaining free space settles.
//
// The shrink branch weighs each item by flex-shrink * flex-basis; when
// every unfrozen item in the line has a zero flex-basis (all-empty flex
// items, or explicit flex-basis:0 on every child), totalScaledShrink is
// zero and dividing by it would produce NaN targets that propagate into
// every downstream size. This implementation leaves targetMain at its
// already-assigned FlexBasis in that case instead of dividing by zero.
func resolveFlexibleLengths(line *FlexLine, availableMain, gap float64, isRow bool) {
	if len(line.Items) == 0 {
		return
	}
	effectiveAvailable := availableMain - gap*float64(len(line.Items)-1)

	sumHypothetical := 0.0
	for _, item := range line.Items {
		sumHypothetical += item.HypotheticalMainSize + item.mainMargins(isRow) + item.mainPaddingBorder(isRow)
	}
	growing := sumHypothetical < effectiveAvailable

	target := make([]float64, len(line.Items))
	frozen := make([]bool, len(line.Items))
	for i, item := range line.Items {
		target[i] = item.HypotheticalMainSize
		if growing && item.FlexGrow == 0 {
			frozen[i] = true
		} else if !growing && item.FlexShrink == 0 {
			frozen[i] = true
		}
	}

	for iter := 0; iter < 10; iter++ {
		allFrozen := true
		for _, f := range frozen {
			if !f {
				allFrozen = false
			}
		}
		if allFrozen {
			break
		}

		used := 0.0
		for i, item := range line.Items {
			if frozen[i] {
				used += target[i] + item.mainMargins(isRow) + item.mainPaddingBorder(isRow)
			} else {
				used += item.FlexBasis + item.mainMargins(isRow) + item.mainPaddingBorder(isRow)
			}
		}
		free := effectiveAvailable - used

		if growing {
			totalGrow := 0.0
			for i, item := range line.Items {
				if !frozen[i] {
					totalGrow += item.FlexGrow
				}
			}
			if totalGrow > 0 {
				for i, item := range line.Items {
					if !frozen[i] {
						target[i] = item.FlexBasis + free*(item.FlexGrow/totalGrow)
					}
				}
			}
		} else {
			totalScaledShrink := 0.0
			for i, item := range line.Items {
				if !frozen[i] {
					totalScaledShrink += item.FlexShrink * item.FlexBasis
				}
			}
			if totalScaledShrink > 0 {
				for i, item := range line.Items {
					if !frozen[i] {
						scaled := item.FlexShrink * item.FlexBasis / totalScaledShrink
						target[i] = item.FlexBasis + free*scaled
					}
				}
			}
			// totalScaledShrink == 0: every unfrozen item keeps its
			// FlexBasis (already the value target[i] holds).
		}

		violation := 0.0
		clampedFlag := make([]bool, len(line.Items))
		for i, item := range line.Items {
			if frozen[i] {
				continue
			}
			clamped := target[i]
			if clamped < item.AutoMinMain {
				clamped = item.AutoMinMain
			}
			if clamped < 0 {
				clamped = 0
			}
			clampedFlag[i] = clamped != target[i]
			violation += clamped - target[i]
			target[i] = clamped
		}

		switch {
		case violation == 0:
			for i := range frozen {
				frozen[i] = true
			}
		default:
			for i := range frozen {
				if !frozen[i] && (clampedFlag[i] || target[i] <= 0) {
					frozen[i] = true
				}
			}
		}
	}

	for i, item := range line.Items {
		item.MainSize = target[i]
	}
}

func maxCrossHypothetical(line *FlexLine, isRow bool) float64 {
	max := 0.0
	for _, item := range line.Items {
		var cross float64
		if isRow {
			cross = item.Box.ContentHeight + item.Box.Margin.Top.Value + item.Box.Margin.Bottom.Value +
				item.Box.Padding.Top.Value + item.Box.Padding.Bottom.Value + item.Box.Border.Top.Value + item.Box.Border.Bottom.Value
		} else {
			cross = item.Box.ContentWidth + item.Box.Margin.Left.Value + item.Box.Margin.Right.Value +
				item.Box.Padding.Left.Value + item.Box.Padding.Right.Value + item.Box.Border.Left.Value + item.Box.Border.Right.Value
		}
		if cross > max {
			max = cross
		}
	}
	return max
}

func itemAlign(item *FlexItem, alignItems string) string {
	if item.Box.Style.AlignSelf != "" && item.Box.Style.AlignSelf != "auto" {
		return item.Box.Style.AlignSelf
	}
	return alignItems
}

func positionItemsCrossAxis(line *FlexLine, crossStart float64, alignItems string, isRow bool) {
	maxBaseline := 0.0
	for _, item := range line.Items {
		if itemAlign(item, alignItems) == "baseline" {
			if b := item.baselineOffset(isRow); b > maxBaseline {
				maxBaseline = b
			}
		}
	}

	for _, item := range line.Items {
		switch itemAlign(item, alignItems) {
		case "flex-end":
			item.CrossPos = crossStart + (line.CrossSize - item.crossOuter(isRow))
		case "center":
			item.CrossPos = crossStart + (line.CrossSize-item.crossOuter(isRow))/2
		case "stretch", "":
			item.CrossPos = crossStart
			item.CrossSize = line.CrossSize - item.crossMargins(isRow)
		case "baseline":
			item.CrossPos = crossStart + (maxBaseline - item.baselineOffset(isRow))
		default:
			item.CrossPos = crossStart
		}
	}
}

func (item *FlexItem) crossOuter(isRow bool) float64 {
	if isRow {
		return item.Box.ContentHeight + item.crossMargins(isRow)
	}
	return item.Box.ContentWidth + item.crossMargins(isRow)
}

func (item *FlexItem) crossMargins(isRow bool) float64 {
	if isRow {
		return item.Box.Margin.Top.Value + item.Box.Margin.Bottom.Value
	}
	return item.Box.Margin.Left.Value + item.Box.Margin.Right.Value
}

func positionItemsMainAxis(line *FlexLine, availableMain, gap float64, justify string, isRow bool) {
	total := 0.0
	for i, item := range line.Items {
		total += item.MainSize + item.mainMargins(isRow) + item.mainPaddingBorder(isRow)
		if i > 0 {
			total += gap
		}
	}
	free := availableMain - total
	if free < 0 {
		free = 0
	}

	// Main-axis auto margins absorb free space before justify-content
	// sees any of it (CSS Flexbox §8.1): once distributed, the line is
	// exactly full and justify-content has nothing left to do.
	autoCount := 0
	for _, item := range line.Items {
		if item.AutoMarginStart {
			autoCount++
		}
		if item.AutoMarginEnd {
			autoCount++
		}
	}
	if autoCount > 0 {
		share := free / float64(autoCount)
		for _, item := range line.Items {
			if item.AutoMarginStart {
				item.setMainMarginStart(isRow, share)
			}
			if item.AutoMarginEnd {
				item.setMainMarginEnd(isRow, share)
			}
		}
		free = 0
	}

	pos := 0.0
	extraGap := gap
	switch justify {
	case "flex-end":
		pos = free
	case "center":
		pos = free / 2
	case "space-between":
		if len(line.Items) > 1 {
			extraGap = gap + free/float64(len(line.Items)-1)
		}
	case "space-around":
		if len(line.Items) > 0 {
			pad := free / float64(len(line.Items))
			pos = pad / 2
			extraGap = gap + pad
		}
	case "space-evenly":
		if len(line.Items) > 0 {
			pad := free / float64(len(line.Items)+1)
			pos = pad
			extraGap = gap + pad
		}
	}

	for i, item := range line.Items {
		if i > 0 {
			pos += extraGap
		}
		pos += item.mainMarginStart(isRow)
		item.MainPos = pos
		pos += item.MainSize + item.mainPaddingBorder(isRow) + item.mainMarginEnd(isRow)
	}
}
