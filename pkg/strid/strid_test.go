package strid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntern_StableAndDeduped(t *testing.T) {
	tbl := NewTable()
	a := tbl.Intern("div")
	b := tbl.Intern("span")
	c := tbl.Intern("div")
	assert.Equal(t, a, c)
	assert.NotEqual(t, a, b)
	assert.Equal(t, "div", tbl.String(a))
	assert.Equal(t, "span", tbl.String(b))
	assert.Equal(t, 2, tbl.Len())
}

func TestIntern_UnknownIDReturnsEmpty(t *testing.T) {
	tbl := NewTable()
	assert.Equal(t, "", tbl.String(42))
}

func TestIntern_ConcurrentInsertSafe(t *testing.T) {
	tbl := NewTable()
	var wg sync.WaitGroup
	tags := []string{"div", "span", "p", "a", "li"}
	for i := 0; i < 100; i++ {
		wg.Add(1)
		tag := tags[i%len(tags)]
		go func(tag string) {
			defer wg.Done()
			tbl.Intern(tag)
		}(tag)
	}
	wg.Wait()
	assert.Equal(t, len(tags), tbl.Len())
}
