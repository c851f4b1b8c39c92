package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htmlcore/pkg/cssvalue"
)

func TestCounterState_ResetThenIncrementAccumulatesOnInnermost(t *testing.T) {
	cs := NewCounterState()
	cs.Reset("item", 0)
	cs.Increment("item", 1)
	cs.Increment("item", 1)
	assert.Equal(t, 2, cs.Value("item"))
}

func TestCounterState_IncrementWithoutResetStartsFromDelta(t *testing.T) {
	cs := NewCounterState()
	cs.Increment("item", 1)
	assert.Equal(t, 1, cs.Value("item"))
}

func TestCounterState_NestedResetShadowsOuterScope(t *testing.T) {
	cs := NewCounterState()
	cs.Reset("item", 0)
	cs.Increment("item", 1)
	cs.Reset("item", 100)
	assert.Equal(t, 100, cs.Value("item"))

	cs.Pop("item")
	assert.Equal(t, 1, cs.Value("item"))
}

func TestCounterState_ValuesReturnsFullNestingOutermostFirst(t *testing.T) {
	cs := NewCounterState()
	cs.Reset("item", 1)
	cs.Reset("item", 2)
	cs.Reset("item", 3)
	assert.Equal(t, []int{1, 2, 3}, cs.Values("item"))
}

func TestCounterState_ValueOfUnknownCounterIsZero(t *testing.T) {
	cs := NewCounterState()
	assert.Equal(t, 0, cs.Value("nope"))
}

func TestParseCounterList_NoneOrEmptyYieldsNil(t *testing.T) {
	assert.Nil(t, parseCounterList("", 0))
	assert.Nil(t, parseCounterList("none", 0))
}

func TestParseCounterList_NameWithoutValueUsesDefault(t *testing.T) {
	got := parseCounterList("item", 1)
	require.Len(t, got, 1)
	assert.Equal(t, cssvalue.CounterEntry{Name: "item", Value: 1}, got[0])
}

func TestParseCounterList_NameWithExplicitValue(t *testing.T) {
	got := parseCounterList("item 5", 1)
	require.Len(t, got, 1)
	assert.Equal(t, cssvalue.CounterEntry{Name: "item", Value: 5}, got[0])
}

func TestParseCounterList_MultipleNamesInDeclarationOrder(t *testing.T) {
	got := parseCounterList("a 1 b c 2", 0)
	require.Len(t, got, 3)
	assert.Equal(t, cssvalue.CounterEntry{Name: "a", Value: 1}, got[0])
	assert.Equal(t, cssvalue.CounterEntry{Name: "b", Value: 0}, got[1])
	assert.Equal(t, cssvalue.CounterEntry{Name: "c", Value: 2}, got[2])
}
