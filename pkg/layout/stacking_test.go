package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htmlcore/pkg/cssvalue"
)

func positionedItem(zIndex int) *Item {
	it := blockItem(10, 10)
	it.Style.Position = cssvalue.PositionRelative
	it.Style.ZIndex = zIndex
	it.Style.ZIndexSet = true
	return it
}

func TestCreatesStackingContext_PositionedWithZIndex(t *testing.T) {
	it := positionedItem(2)
	assert.True(t, CreatesStackingContext(it))
}

func TestCreatesStackingContext_PositionedWithoutZIndexDoesNot(t *testing.T) {
	it := blockItem(10, 10)
	it.Style.Position = cssvalue.PositionRelative
	assert.False(t, CreatesStackingContext(it))
}

func TestCreatesStackingContext_OpacityBelowOne(t *testing.T) {
	it := blockItem(10, 10)
	it.Style.Opacity = 0.5
	assert.True(t, CreatesStackingContext(it))
}

func TestBuildStackingContextTree_SortsByZIndexAscending(t *testing.T) {
	root := blockItem(100, 100)
	negFirst := positionedItem(-5)
	negSecond := positionedItem(-1)
	posFirst := positionedItem(3)
	posSecond := positionedItem(1)
	root.Children = []*Item{posFirst, negFirst, posSecond, negSecond}

	ctx := BuildStackingContextTree(root)
	require.Len(t, ctx.NegativeZ, 2)
	require.Len(t, ctx.PositiveZ, 2)
	assert.Equal(t, -5, ctx.NegativeZ[0].ZIndex)
	assert.Equal(t, -1, ctx.NegativeZ[1].ZIndex)
	assert.Equal(t, 1, ctx.PositiveZ[0].ZIndex)
	assert.Equal(t, 3, ctx.PositiveZ[1].ZIndex)
}

func TestClassifyItem_BucketsByKind(t *testing.T) {
	root := blockItem(100, 100)
	inFlow := blockItem(10, 10)
	floated := blockItem(10, 10)
	floated.Style.Float = cssvalue.FloatLeft
	inline := blockItem(10, 10)
	inline.Style.Display = cssvalue.DisplayInline
	root.Children = []*Item{inFlow, floated, inline}

	ctx := BuildStackingContextTree(root)
	assert.Contains(t, ctx.InFlowBlocks, inFlow)
	assert.Contains(t, ctx.Floats, floated)
	assert.Contains(t, ctx.Inlines, inline)
}

func TestStackingContext_PaintOrder(t *testing.T) {
	root := blockItem(100, 100)
	inFlow := blockItem(10, 10)
	floated := blockItem(10, 10)
	floated.Style.Float = cssvalue.FloatLeft
	inline := blockItem(10, 10)
	inline.Style.Display = cssvalue.DisplayInline
	neg := positionedItem(-1)
	pos := positionedItem(1)
	root.Children = []*Item{pos, inFlow, floated, inline, neg}

	ctx := BuildStackingContextTree(root)
	var order []*Item
	ctx.Paint(func(it *Item) { order = append(order, it) })

	// root itself lands in the root context's own InFlowBlocks bucket
	// (Paint's caller is expected to have already painted it once and
	// skip this second visit); it still has to come out in Appendix E
	// order relative to its stacking-context siblings.
	require.Len(t, order, 6)
	assert.Same(t, neg, order[0])
	assert.Same(t, root, order[1])
	assert.Same(t, inFlow, order[2])
	assert.Same(t, floated, order[3])
	assert.Same(t, inline, order[4])
	assert.Same(t, pos, order[5])
}

func TestStackingContext_HitTestReturnsTopmost(t *testing.T) {
	root := blockItem(100, 100)
	back := blockItem(50, 50)
	back.X, back.Y = 0, 0
	front := positionedItem(1)
	front.X, front.Y = 0, 0
	front.ContentWidth, front.ContentHeight = 50, 50
	root.Children = []*Item{back, front}

	ctx := BuildStackingContextTree(root)
	got := ctx.HitTest(10, 10)
	assert.Same(t, front, got)
}

func TestStackingContext_HitTestMissOutsideAnyBox(t *testing.T) {
	root := blockItem(100, 100)
	box := blockItem(10, 10)
	box.X, box.Y = 0, 0
	root.Children = []*Item{box}

	ctx := BuildStackingContextTree(root)
	assert.Nil(t, ctx.HitTest(500, 500))
}
