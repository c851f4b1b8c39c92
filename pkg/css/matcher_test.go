package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htmlcore/pkg/domtree"
)

func mustSel(t *testing.T, s string) Selector {
	t.Helper()
	sels, err := ParseSelectorList(s)
	require.NoError(t, err)
	require.Len(t, sels, 1)
	return sels[0]
}

func TestMatches_TagClassID(t *testing.T) {
	n := elem("div", map[string]string{"id": "x", "class": "a b"})
	assert.Equal(t, Match, Matches(mustSel(t, "div"), n, nil))
	assert.Equal(t, Match, Matches(mustSel(t, "#x"), n, nil))
	assert.Equal(t, Match, Matches(mustSel(t, ".a"), n, nil))
	assert.Equal(t, Match, Matches(mustSel(t, ".a.b"), n, nil))
	assert.Equal(t, NoMatch, Matches(mustSel(t, "span"), n, nil))
	assert.Equal(t, NoMatch, Matches(mustSel(t, ".c"), n, nil))
}

func TestMatches_DescendantAndChild(t *testing.T) {
	root := elem("div", nil, elem("section", nil, elem("p", nil)))
	p := root.Children[0].Children[0]
	assert.Equal(t, Match, Matches(mustSel(t, "div p"), p, nil))
	assert.Equal(t, NoMatch, Matches(mustSel(t, "div > p"), p, nil))
	assert.Equal(t, Match, Matches(mustSel(t, "section > p"), p, nil))
}

func TestMatches_Siblings(t *testing.T) {
	root := elem("ul", nil, elem("li", nil), elem("li", nil), elem("li", nil))
	second := root.Children[1]
	third := root.Children[2]
	assert.Equal(t, Match, Matches(mustSel(t, "li + li"), second, nil))
	assert.Equal(t, Match, Matches(mustSel(t, "li ~ li"), third, nil))
	assert.Equal(t, NoMatch, Matches(mustSel(t, "li + li"), root.Children[0], nil))
}

func TestMatches_NthChild(t *testing.T) {
	root := elem("ul", nil, elem("li", nil), elem("li", nil), elem("li", nil))
	assert.Equal(t, Match, Matches(mustSel(t, "li:nth-child(2)"), root.Children[1], nil))
	assert.Equal(t, NoMatch, Matches(mustSel(t, "li:nth-child(2)"), root.Children[0], nil))
	assert.Equal(t, Match, Matches(mustSel(t, "li:first-child"), root.Children[0], nil))
	assert.Equal(t, Match, Matches(mustSel(t, "li:last-child"), root.Children[2], nil))
}

func TestMatches_Not(t *testing.T) {
	a := elem("div", map[string]string{"class": "hidden"})
	b := elem("div", nil)
	assert.Equal(t, NoMatch, Matches(mustSel(t, "div:not(.hidden)"), a, nil))
	assert.Equal(t, Match, Matches(mustSel(t, "div:not(.hidden)"), b, nil))
}

func TestMatches_HoverIsDynamic(t *testing.T) {
	n := elem("a", nil)
	assert.Equal(t, NoMatch, Matches(mustSel(t, "a:hover"), n, nil))
	n.Hover = true
	assert.Equal(t, MatchPseudoClass, Matches(mustSel(t, "a:hover"), n, nil))
}

func TestMatches_AttrOperators(t *testing.T) {
	n := elem("a", map[string]string{"class": "foo bar", "href": "https://example.com/page", "lang": "en-US"})
	assert.Equal(t, Match, Matches(mustSel(t, `[class~="bar"]`), n, nil))
	assert.Equal(t, Match, Matches(mustSel(t, `[href^="https://"]`), n, nil))
	assert.Equal(t, Match, Matches(mustSel(t, `[href$="/page"]`), n, nil))
	assert.Equal(t, Match, Matches(mustSel(t, `[href*="example"]`), n, nil))
	assert.Equal(t, Match, Matches(mustSel(t, `[lang|="en"]`), n, nil))
}

func TestMatches_Lang(t *testing.T) {
	n := elem("p", map[string]string{"lang": "en-US"})
	resolver := func(node *domtree.Node) string {
		v, _ := node.GetAttribute("lang")
		return v
	}
	assert.Equal(t, Match, Matches(mustSel(t, `:lang(en)`), n, resolver))
	assert.Equal(t, NoMatch, Matches(mustSel(t, `:lang(fr)`), n, resolver))
}

func TestMatches_Empty(t *testing.T) {
	empty := elem("div", nil)
	withText := elem("div", nil, domtree.NewText("hi"))
	assert.Equal(t, Match, Matches(mustSel(t, "div:empty"), empty, nil))
	assert.Equal(t, NoMatch, Matches(mustSel(t, "div:empty"), withText, nil))
}

func TestMatches_Root(t *testing.T) {
	root := elem("html", nil)
	child := elem("body", nil)
	root.AppendChild(child)
	assert.Equal(t, Match, Matches(mustSel(t, ":root"), root, nil))
	assert.Equal(t, NoMatch, Matches(mustSel(t, ":root"), child, nil))
}
