package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htmlcore/pkg/cssvalue"
)

func TestCollapseRuns_CollapsesWhitespaceToSingleSpace(t *testing.T) {
	assert.Equal(t, "a b c ", collapseRuns("a   b\tc\n"))
}

func TestTokenizeText_SplitsWordsAndMarksTrailingSpace(t *testing.T) {
	it := textItem("hello world")
	toks := tokenizeText(it, it.Style)
	require.Len(t, toks, 2)
	assert.Equal(t, "hello", toks[0].text)
	assert.True(t, toks[0].space)
	assert.Equal(t, "world", toks[1].text)
	assert.False(t, toks[1].space)
}

func TestTokenizeText_SingleWordNoTrailingSpace(t *testing.T) {
	it := textItem("solo")
	toks := tokenizeText(it, it.Style)
	require.Len(t, toks, 1)
	assert.False(t, toks[0].space)
}

func TestSpacingAdjustment_LetterAndWordSpacing(t *testing.T) {
	style := cssvalue.NewComputedStyle()
	style.LetterSpacing = cssvalue.Px(1)
	style.WordSpacing = cssvalue.Px(2)

	got := spacingAdjustment("ab c", style, nil, testCtx)
	// 4 runes * 1px letter-spacing + 1 space * 2px word-spacing.
	assert.Equal(t, 4.0+2.0, got)
}

func TestSpacingAdjustment_NilStyleFallsBackToDefault(t *testing.T) {
	def := cssvalue.NewComputedStyle()
	def.LetterSpacing = cssvalue.Px(1)
	got := spacingAdjustment("ab", nil, def, testCtx)
	assert.Equal(t, 2.0, got)
}

func TestSpacingAdjustment_NoStyleAtAllIsZero(t *testing.T) {
	assert.Equal(t, 0.0, spacingAdjustment("ab", nil, nil, testCtx))
}

func TestFlattenInlineItems_FlattensNestedSpans(t *testing.T) {
	span := inlineItem(textItem("a"), textItem("b"))
	out := flattenInlineItems([]*Item{span})
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].text)
	assert.Equal(t, "b", out[1].text)
}

func TestFlattenInlineItems_AtomicReplacedBoxBecomesSingleToken(t *testing.T) {
	img := &Item{Kind: ItemReplaced, Style: cssvalue.NewComputedStyle(), ContentWidth: 20, ContentHeight: 20}
	out := flattenInlineItems([]*Item{img})
	require.Len(t, out, 1)
	assert.Same(t, img, out[0].atom)
	assert.Empty(t, out[0].text)
}

func TestLayoutInlineRun_EmptyItemsReturnsNil(t *testing.T) {
	c := newFakeContainer()
	lines := LayoutInlineRun(nil, 100, c, cssvalue.NewComputedStyle(), testCtx)
	assert.Nil(t, lines)
}

func TestLayoutInlineRun_WrapsWhenWordsExceedAvailableWidth(t *testing.T) {
	// Each non-final word carries its trailing space: "aaaa " and "bbbb "
	// each measure 5*8=40px, "cccc" (last word, no trailing space) 32px.
	// 70px available means each token already overflows paired with the
	// next, so every word lands on its own line.
	it := textItem("aaaa bbbb cccc")
	c := newFakeContainer()
	lines := LayoutInlineRun([]*Item{it}, 70, c, it.Style, testCtx)

	require.Len(t, lines, 3)
	assert.Len(t, lines[0].Fragments, 1)
	assert.Equal(t, "aaaa ", lines[0].Fragments[0].Text)
	assert.Equal(t, "bbbb ", lines[1].Fragments[0].Text)
	assert.Equal(t, "cccc", lines[2].Fragments[0].Text)
}

func TestLayoutInlineRun_OverlongTokenGetsOwnLineRatherThanDropped(t *testing.T) {
	it := textItem("aaaaaaaaaaaaaaaaaaaa")
	c := newFakeContainer()
	lines := LayoutInlineRun([]*Item{it}, 10, c, it.Style, testCtx)
	require.Len(t, lines, 1)
	require.Len(t, lines[0].Fragments, 1)
}

func TestLayoutInlineRun_LineHeightUsesTallestFragmentAscentDescent(t *testing.T) {
	small := textItem("a")
	small.Style.FontSize = 10
	big := textItem("b")
	big.Style.FontSize = 30
	c := newFakeContainer()
	lines := LayoutInlineRun([]*Item{small, big}, 1000, c, cssvalue.NewComputedStyle(), testCtx)
	require.Len(t, lines, 1)
	// fakeContainer ascent/descent = size*0.8/size*0.2, so big's line height
	// (30*0.8+30*0.2=30) dominates small's (10*0.8+10*0.2=10).
	assert.Equal(t, 30.0, lines[0].Height)
	assert.Equal(t, 24.0, lines[0].Baseline)
}
