package css

import (
	"strconv"
	"strings"

	"htmlcore/pkg/cssvalue"
)

// CounterState tracks CSS counters (spec.md §4.5 point 4) during the
// cascade's single pre-order walk of the document. Each named counter
// is a stack so a nested counter-reset scope shadows its ancestor's
// and pops cleanly back on the way out, matching CSS 2.1 §12.4's
// scoping rules.
type CounterState struct {
	stacks map[string][]int
}

func NewCounterState() *CounterState {
	return &CounterState{stacks: make(map[string][]int)}
}

func (cs *CounterState) Reset(name string, value int) {
	cs.stacks[name] = append(cs.stacks[name], value)
}

func (cs *CounterState) Increment(name string, delta int) {
	stack := cs.stacks[name]
	if len(stack) == 0 {
		cs.stacks[name] = []int{delta}
		return
	}
	stack[len(stack)-1] += delta
}

// Value is the innermost (most recently reset) instance of name, the
// value counter(name) resolves to.
func (cs *CounterState) Value(name string) int {
	stack := cs.stacks[name]
	if len(stack) == 0 {
		return 0
	}
	return stack[len(stack)-1]
}

// Values is the full nesting stack of name, outermost first, the
// sequence counters(name, sep) joins.
func (cs *CounterState) Values(name string) []int {
	return cs.stacks[name]
}

func (cs *CounterState) Pop(name string) {
	stack := cs.stacks[name]
	if len(stack) > 0 {
		cs.stacks[name] = stack[:len(stack)-1]
	}
}

// parseCounterList parses the shared "name [value] [name2 [value2] ...]"
// grammar of counter-reset/counter-increment (defaultValue supplies the
// implicit value when a name has no following number: 0 for
// counter-reset, 1 for counter-increment), preserving declaration order
// since a single property can name more than one counter.
func parseCounterList(value string, defaultValue int) []cssvalue.CounterEntry {
	value = strings.TrimSpace(value)
	if value == "" || value == "none" {
		return nil
	}
	parts := strings.Fields(value)
	var out []cssvalue.CounterEntry
	for i := 0; i < len(parts); i++ {
		name := parts[i]
		v := defaultValue
		if i+1 < len(parts) {
			if n, err := strconv.Atoi(parts[i+1]); err == nil {
				v = n
				i++
			}
		}
		out = append(out, cssvalue.CounterEntry{Name: name, Value: v})
	}
	return out
}
