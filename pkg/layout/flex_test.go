package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htmlcore/pkg/cssvalue"
)

func flexItem(mainSize float64) *FlexItem {
	return &FlexItem{Box: blockItem(mainSize, 10), MainSize: mainSize}
}

func TestPositionItemsMainAxis_SpaceEvenly(t *testing.T) {
	a, b := flexItem(10), flexItem(10)
	line := &FlexLine{Items: []*FlexItem{a, b}}
	positionItemsMainAxis(line, 100, 0, "space-evenly", true)

	// free = 100 - 20 = 80, split into 3 equal pads of ~26.67 each.
	pad := 80.0 / 3.0
	assert.InDelta(t, pad, a.MainPos, 0.01)
	assert.InDelta(t, pad+10+pad, b.MainPos, 0.01)
}

func TestPositionItemsMainAxis_SpaceBetween(t *testing.T) {
	a, b, c := flexItem(10), flexItem(10), flexItem(10)
	line := &FlexLine{Items: []*FlexItem{a, b, c}}
	positionItemsMainAxis(line, 100, 0, "space-between", true)

	assert.InDelta(t, 0, a.MainPos, 0.01)
	assert.InDelta(t, 100, c.MainPos+10, 0.01)
	require.Less(t, a.MainPos, b.MainPos)
	require.Less(t, b.MainPos, c.MainPos)
}

func TestPositionItemsMainAxis_Center(t *testing.T) {
	a := flexItem(20)
	line := &FlexLine{Items: []*FlexItem{a}}
	positionItemsMainAxis(line, 100, 0, "center", true)
	assert.InDelta(t, 40, a.MainPos, 0.01)
}

func TestPositionItemsMainAxis_AutoMarginAbsorbsFreeSpace(t *testing.T) {
	a := flexItem(20)
	a.AutoMarginStart = true
	b := flexItem(20)
	line := &FlexLine{Items: []*FlexItem{a, b}}
	// total = 40, available = 100, free = 60, all absorbed by a's leading
	// auto margin since there's only one auto-margin edge in the line.
	positionItemsMainAxis(line, 100, 0, "flex-start", true)

	assert.InDelta(t, 60, a.mainMarginStart(true), 0.01)
	assert.InDelta(t, 60, a.MainPos, 0.01)
	assert.InDelta(t, 80, b.MainPos, 0.01)
}

func TestPositionItemsMainAxis_AutoMarginSplitBetweenTwoEdges(t *testing.T) {
	a := flexItem(20)
	a.AutoMarginEnd = true
	b := flexItem(20)
	b.AutoMarginStart = true
	line := &FlexLine{Items: []*FlexItem{a, b}}
	// free = 60 split across 2 auto-margin edges -> 30 each, centering
	// the gap between a and b.
	positionItemsMainAxis(line, 100, 0, "flex-start", true)

	assert.InDelta(t, 30, a.mainMarginEnd(true), 0.01)
	assert.InDelta(t, 30, b.mainMarginStart(true), 0.01)
	assert.InDelta(t, 0, a.MainPos, 0.01)
	assert.InDelta(t, 20+30+30, b.MainPos, 0.01)
}

func TestPositionItemsMainAxis_AsymmetricExplicitMargins(t *testing.T) {
	a := flexItem(20)
	a.Box.Margin = cssvalue.Edges{Left: cssvalue.Px(5), Right: cssvalue.Px(15)}
	b := flexItem(20)
	line := &FlexLine{Items: []*FlexItem{a, b}}
	positionItemsMainAxis(line, 100, 0, "flex-start", true)

	// a starts after its 5px leading margin, b starts after a's content
	// (20) plus a's full 15px trailing margin, not half of it.
	assert.InDelta(t, 5, a.MainPos, 0.01)
	assert.InDelta(t, 5+20+15, b.MainPos, 0.01)
}

func TestItemAlign_SelfOverridesContainer(t *testing.T) {
	it := &FlexItem{Box: blockItem(10, 10)}
	it.Box.Style.AlignSelf = "flex-end"
	assert.Equal(t, "flex-end", itemAlign(it, "center"))

	it2 := &FlexItem{Box: blockItem(10, 10)}
	assert.Equal(t, "center", itemAlign(it2, "center"))

	it3 := &FlexItem{Box: blockItem(10, 10)}
	it3.Box.Style.AlignSelf = "auto"
	assert.Equal(t, "center", itemAlign(it3, "center"))
}

func TestBaselineOffset_FallsBackToCrossOuterWithoutLineBoxes(t *testing.T) {
	it := &FlexItem{Box: blockItem(10, 30)}
	assert.Equal(t, it.crossOuter(true), it.baselineOffset(true))
}

func TestBaselineOffset_UsesFirstLineBoxBaseline(t *testing.T) {
	it := &FlexItem{Box: blockItem(10, 30)}
	it.Box.LineBoxes = []*LineBox{{Baseline: 12}}
	assert.Equal(t, 12.0, it.baselineOffset(true))
}

func TestPositionItemsCrossAxis_Baseline(t *testing.T) {
	a := &FlexItem{Box: blockItem(10, 30)}
	a.Box.LineBoxes = []*LineBox{{Baseline: 10}}
	b := &FlexItem{Box: blockItem(10, 20)}
	b.Box.LineBoxes = []*LineBox{{Baseline: 20}}
	line := &FlexLine{Items: []*FlexItem{a, b}, CrossSize: 40}

	positionItemsCrossAxis(line, 0, "baseline", true)

	// maxBaseline is 20 (b's); a's baseline (10) must land on that
	// shared line, so a is pushed down by 20-10=10.
	assert.InDelta(t, 10, a.CrossPos, 0.01)
	assert.InDelta(t, 0, b.CrossPos, 0.01)
}

func TestPositionItemsCrossAxis_BaselineFallbackNoLineBoxes(t *testing.T) {
	a := &FlexItem{Box: blockItem(10, 10)} // crossOuter = 10
	b := &FlexItem{Box: blockItem(10, 30)} // crossOuter = 30 (wins maxBaseline)
	line := &FlexLine{Items: []*FlexItem{a, b}, CrossSize: 30}

	positionItemsCrossAxis(line, 0, "baseline", true)

	assert.InDelta(t, 20, a.CrossPos, 0.01)
	assert.InDelta(t, 0, b.CrossPos, 0.01)
}

func TestPositionItemsCrossAxis_Stretch(t *testing.T) {
	a := &FlexItem{Box: blockItem(10, 10)}
	line := &FlexLine{Items: []*FlexItem{a}, CrossSize: 50}
	positionItemsCrossAxis(line, 5, "stretch", true)
	assert.Equal(t, 5.0, a.CrossPos)
	assert.Equal(t, 50.0, a.CrossSize)
}

func TestResolveFlexibleLengths_GrowDistributesFreeSpace(t *testing.T) {
	a := &FlexItem{Box: blockItem(10, 10), FlexBasis: 10, HypotheticalMainSize: 10, FlexGrow: 1}
	b := &FlexItem{Box: blockItem(10, 10), FlexBasis: 10, HypotheticalMainSize: 10, FlexGrow: 3}
	line := &FlexLine{Items: []*FlexItem{a, b}}

	resolveFlexibleLengths(line, 100, 0, true)

	// free = 100-20 = 80, split 1:3 -> +20 and +60.
	assert.InDelta(t, 30, a.MainSize, 0.01)
	assert.InDelta(t, 70, b.MainSize, 0.01)
}

func TestResolveFlexibleLengths_ShrinkZeroBasisAvoidsDivideByZero(t *testing.T) {
	a := &FlexItem{Box: blockItem(0, 10), FlexBasis: 0, HypotheticalMainSize: 0, FlexShrink: 1}
	b := &FlexItem{Box: blockItem(0, 10), FlexBasis: 0, HypotheticalMainSize: 0, FlexShrink: 1}
	line := &FlexLine{Items: []*FlexItem{a, b}}

	assert.NotPanics(t, func() {
		resolveFlexibleLengths(line, 0, 0, true)
	})
	assert.Equal(t, 0.0, a.MainSize)
	assert.Equal(t, 0.0, b.MainSize)
}

func TestResolveFlexibleLengths_ShrinkRespectsMinMain(t *testing.T) {
	a := &FlexItem{Box: blockItem(0, 10), FlexBasis: 50, HypotheticalMainSize: 50, FlexShrink: 1, AutoMinMain: 40}
	line := &FlexLine{Items: []*FlexItem{a}}
	resolveFlexibleLengths(line, 10, 0, true)
	assert.Equal(t, 40.0, a.MainSize)
}

func TestLayoutFlexContainer_RowDistributesWidthEvenly(t *testing.T) {
	root := blockItem(300, 0)
	root.Style.Display = cssvalue.DisplayFlex
	child1 := blockItem(0, 20)
	child1.Style.Width = cssvalue.Px(50)
	child2 := blockItem(0, 20)
	child2.Style.Width = cssvalue.Px(50)
	root.Children = []*Item{child1, child2}

	c := newFakeContainer()
	LayoutFlexContainer(root, c, testCtx)

	require.Len(t, root.FlexLines, 1)
	assert.InDelta(t, child1.X+50, child2.X, 0.01)
}

func TestLayoutFlexContainer_JustifyContentSpaceEvenlyEndToEnd(t *testing.T) {
	root := blockItem(120, 0)
	root.Style.Display = cssvalue.DisplayFlex
	root.Style.JustifyContent = "space-evenly"
	child1 := blockItem(0, 20)
	child1.Style.Width = cssvalue.Px(20)
	child2 := blockItem(0, 20)
	child2.Style.Width = cssvalue.Px(20)
	root.Children = []*Item{child1, child2}

	c := newFakeContainer()
	LayoutFlexContainer(root, c, testCtx)

	// free = 120-40 = 80, three equal pads of 80/3.
	pad := 80.0 / 3.0
	assert.InDelta(t, root.X+pad, child1.X, 0.5)
	assert.InDelta(t, child1.X+20+pad, child2.X, 0.5)
}
