package htmlparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htmlcore/pkg/domtree"
)

func findFirst(n *domtree.Node, tag string) *domtree.Node {
	if n.TagName == tag {
		return n
	}
	for _, c := range n.Children {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func TestParse_BasicStructure(t *testing.T) {
	doc := Parse(`<html lang="en"><head><title>Hi</title></head><body><p>hello</p></body></html>`)
	require.NotNil(t, doc.Root)
	assert.Equal(t, "html", doc.Root.TagName)
	assert.Equal(t, "en", doc.Lang)
	assert.Equal(t, "Hi", doc.Title)

	p := findFirst(doc.Root, "p")
	require.NotNil(t, p)
	assert.Equal(t, "hello", p.TextContent())
}

func TestParse_InlineStylesheet(t *testing.T) {
	doc := Parse(`<html><head><style>p { color: red; }</style></head><body></body></html>`)
	require.Len(t, doc.Stylesheets, 1)
	assert.Contains(t, doc.Stylesheets[0].Inline, "color: red")
	assert.Empty(t, doc.Stylesheets[0].Href)
}

func TestParse_LinkedStylesheet(t *testing.T) {
	doc := Parse(`<html><head><link rel="stylesheet" href="main.css"></head></html>`)
	require.Len(t, doc.Stylesheets, 1)
	assert.Equal(t, "main.css", doc.Stylesheets[0].Href)
}

func TestParse_BaseHref(t *testing.T) {
	doc := Parse(`<html><head><base href="https://example.com/"></head></html>`)
	assert.Equal(t, "https://example.com/", doc.BaseURL)
}

func TestParse_ScriptTextCollected(t *testing.T) {
	doc := Parse(`<html><body><script>console.log("hi")</script></body></html>`)
	require.Len(t, doc.Scripts, 1)
	assert.Contains(t, doc.Scripts[0], "console.log")
}

func TestParse_MalformedMarkupTolerated(t *testing.T) {
	doc := Parse(`<html><body><p>unclosed<div>nested</p></div></body>`)
	require.NotNil(t, doc.Root)
	assert.Equal(t, "html", doc.Root.TagName)
}

func TestParse_AttributesPreserved(t *testing.T) {
	doc := Parse(`<html><body><div id="main" class="a b"></div></body></html>`)
	div := findFirst(doc.Root, "div")
	require.NotNil(t, div)
	id, ok := div.GetAttribute("id")
	assert.True(t, ok)
	assert.Equal(t, "main", id)
	assert.Equal(t, []string{"a", "b"}, div.ClassList())
}
