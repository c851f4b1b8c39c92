package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"htmlcore/pkg/domtree"
)

func liItem(n int) *Item {
	it := blockItem(10, 10)
	it.Node = domtree.NewElement("li")
	_ = n
	return it
}

func TestListItemNumber_CountsOnlyLiTaggedSiblings(t *testing.T) {
	parent := blockItem(100, 0)
	a, b, c := liItem(1), liItem(2), liItem(3)
	notLi := blockItem(10, 10)
	notLi.Node = domtree.NewElement("div")
	parent.Children = []*Item{a, notLi, b, c}
	for _, ch := range parent.Children {
		ch.Parent = parent
	}

	assert.Equal(t, 1, listItemNumber(a))
	assert.Equal(t, 2, listItemNumber(b))
	assert.Equal(t, 3, listItemNumber(c))
}

func TestListItemNumber_RootWithoutParentIsOne(t *testing.T) {
	it := liItem(1)
	assert.Equal(t, 1, listItemNumber(it))
}

func TestListItemNumber_NotFoundAmongParentChildrenFallsBackToOne(t *testing.T) {
	parent := blockItem(100, 0)
	sibling := liItem(1)
	sibling.Parent = parent
	parent.Children = []*Item{sibling}

	orphan := liItem(99)
	orphan.Parent = parent // claims this parent but isn't in its Children
	assert.Equal(t, 1, listItemNumber(orphan))
}
