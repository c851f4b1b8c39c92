package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"htmlcore/pkg/cssvalue"
	"htmlcore/pkg/domtree"
)

func TestCollapseMargins_BothPositiveTakesMax(t *testing.T) {
	assert.Equal(t, 20.0, collapseMargins(10, 20))
	assert.Equal(t, 20.0, collapseMargins(20, 10))
}

func TestCollapseMargins_BothNegativeTakesMostNegative(t *testing.T) {
	assert.Equal(t, -20.0, collapseMargins(-10, -20))
}

func TestCollapseMargins_MixedSums(t *testing.T) {
	assert.Equal(t, 5.0, collapseMargins(20, -15))
	assert.Equal(t, -5.0, collapseMargins(-20, 15))
}

func TestShouldCollapseMargins_BodyExcluded(t *testing.T) {
	body := blockItem(100, 0)
	body.Node = &domtree.Node{Kind: domtree.ElementNode, TagName: "body"}
	assert.False(t, shouldCollapseMargins(body))
}

func TestShouldCollapseMargins_FloatedExcluded(t *testing.T) {
	it := blockItem(100, 0)
	it.Style.Float = cssvalue.FloatLeft
	assert.False(t, shouldCollapseMargins(it))
}

func TestShouldCollapseMargins_PositionedExcluded(t *testing.T) {
	it := blockItem(100, 0)
	it.Style.Position = cssvalue.PositionAbsolute
	assert.False(t, shouldCollapseMargins(it))
}

func TestShouldCollapseMargins_FlexExcluded(t *testing.T) {
	it := blockItem(100, 0)
	it.Style.Display = cssvalue.DisplayFlex
	assert.False(t, shouldCollapseMargins(it))
}

func TestShouldCollapseMargins_OrdinaryBlockParticipates(t *testing.T) {
	it := blockItem(100, 0)
	assert.True(t, shouldCollapseMargins(it))
}

func TestIsCollapseThrough_ZeroHeightNoBorderNoPaddingNoContent(t *testing.T) {
	it := blockItem(100, 0)
	assert.True(t, isCollapseThrough(it))
}

func TestIsCollapseThrough_BorderPrevents(t *testing.T) {
	it := blockItem(100, 0)
	it.Border.Top = cssvalue.Px(1)
	assert.False(t, isCollapseThrough(it))
}

func TestIsCollapseThrough_ContentHeightPrevents(t *testing.T) {
	it := blockItem(100, 20)
	assert.False(t, isCollapseThrough(it))
}

func TestIsCollapseThrough_RecursesThroughCollapseThroughChildren(t *testing.T) {
	parent := blockItem(100, 0)
	child := blockItem(100, 0)
	parent.Children = []*Item{child}
	assert.True(t, isCollapseThrough(parent))

	child.ContentHeight = 5
	assert.False(t, isCollapseThrough(parent))
}

func TestIsCollapseThrough_OutOfFlowChildIgnored(t *testing.T) {
	parent := blockItem(100, 0)
	floated := blockItem(50, 50)
	floated.Style.Float = cssvalue.FloatLeft
	parent.Children = []*Item{floated}
	assert.True(t, isCollapseThrough(parent))
}

func TestCollapseThroughMargin_FoldsDescendantMargins(t *testing.T) {
	parent := withMargin(blockItem(100, 0), cssvalue.Px(10), cssvalue.Zero(), cssvalue.Px(5), cssvalue.Zero())
	child := withMargin(blockItem(100, 0), cssvalue.Px(20), cssvalue.Zero(), cssvalue.Px(-3), cssvalue.Zero())
	parent.Children = []*Item{child}
	parent.Margin, child.Margin = parent.Style.Margin, child.Style.Margin

	got := collapseThroughMargin(parent)
	// margins involved: 10, 5, 20, -3 -> max positive 20, min negative -3.
	assert.Equal(t, 17.0, got)
}

func TestParentCanCollapseTopMargin_BlockedByPaddingOrBorder(t *testing.T) {
	parent := blockItem(100, 0)
	assert.True(t, parentCanCollapseTopMargin(parent))

	parent.Padding.Top = cssvalue.Px(1)
	assert.False(t, parentCanCollapseTopMargin(parent))
}

func TestParentCanCollapseBottomMargin_RequiresAutoHeight(t *testing.T) {
	parent := blockItem(100, 0)
	assert.True(t, parentCanCollapseBottomMargin(parent))

	parent.Style.Height = cssvalue.Px(50)
	assert.False(t, parentCanCollapseBottomMargin(parent))
}

func TestParentParticipates_OverflowHiddenExcludes(t *testing.T) {
	parent := blockItem(100, 0)
	parent.Style.Overflow = "hidden"
	assert.False(t, parentParticipates(parent))
}

func TestLayoutBlockContainer_AdjoiningMarginsCollapse(t *testing.T) {
	root := blockItem(200, 0)
	a := withMargin(blockItem(0, 10), cssvalue.Zero(), cssvalue.Zero(), cssvalue.Px(20), cssvalue.Zero())
	a.Style.Width = cssvalue.Px(50)
	a.Style.Height = cssvalue.Px(10)
	b := withMargin(blockItem(0, 10), cssvalue.Px(10), cssvalue.Zero(), cssvalue.Zero(), cssvalue.Zero())
	b.Style.Width = cssvalue.Px(50)
	b.Style.Height = cssvalue.Px(10)
	root.Children = []*Item{a, b}

	c := newFakeContainer()
	LayoutBlockContainer(root, 200, c, testCtx)

	// a's margin-bottom (20) and b's margin-top (10) collapse to max(20,10)=20,
	// so b sits 10+20 below a's border box, not 10+10+20=40.
	assert.InDelta(t, a.Y+10+20, b.Y, 0.01)
}
