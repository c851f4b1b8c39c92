// Package htmlparse turns an HTML byte stream into a domtree.Node tree.
// Tokenization and tree-construction quirks are delegated entirely to
// golang.org/x/net/html, the tolerant external parser the core's
// purpose statement calls for; this package only walks that parser's
// node tree into domtree's shape and collects the side-channel data
// (inline stylesheets, scripts, lang, base href) a document needs.
package htmlparse

import (
	"strings"

	xhtml "golang.org/x/net/html"
	"htmlcore/pkg/domtree"
)

// Document is the result of parsing one HTML document: the styled-tree
// root plus the side-channel data spec.md §6's Document API surface
// needs before the cascade runs.
type Document struct {
	Root *domtree.Node

	// Stylesheets holds the literal text content of each <style> element
	// and <link rel="stylesheet"> href found in the document, in source
	// order. A <link> entry carries its href, not fetched content —
	// resource fetching is a container responsibility (spec.md §1).
	Stylesheets []StylesheetRef

	// Scripts holds inline <script> text, uninterpreted: the engine
	// performs no script execution (spec.md Non-goals); a host embedder
	// may still want the raw text to run in its own JS environment.
	Scripts []string

	// Lang is the resolved language tag from the root <html lang="...">
	// attribute, or "" if absent.
	Lang string

	// BaseURL is the <base href="..."> value, or "" if absent.
	BaseURL string

	// Title is the text content of the first <title> element.
	Title string
}

// StylesheetRef is one <style> or <link rel="stylesheet"> found during
// parse. Exactly one of Inline/Href is non-empty.
type StylesheetRef struct {
	Inline string
	Href   string
}

// Parse parses html into a Document. It never returns an error: x/net/html
// is itself tolerant of malformed markup (spec.md §7's parse-tolerant
// requirement extends to HTML, not just CSS), so there is nothing for
// this wrapper to fail on beyond what x/net/html already recovers from.
func Parse(html string) *Document {
	root, err := xhtml.Parse(strings.NewReader(html))
	doc := &Document{}
	if err != nil || root == nil {
		doc.Root = domtree.NewElement("html")
		return doc
	}

	doc.Root = convert(root, doc)
	if doc.Root == nil {
		doc.Root = domtree.NewElement("html")
	}
	return doc
}

// convert walks one x/net/html node (and its subtree) into a domtree.Node,
// recording side-channel data into doc as it passes <html>, <style>,
// <script>, <link>, <base> and <title> nodes. Returns nil for node kinds
// domtree has no representation for (doctype, document fragments).
func convert(n *xhtml.Node, doc *Document) *domtree.Node {
	switch n.Type {
	case xhtml.DocumentNode:
		var root *domtree.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := convert(c, doc); child != nil {
				if root == nil || child.TagName == "html" {
					root = child
				}
			}
		}
		return root

	case xhtml.ElementNode:
		el := domtree.NewElement(n.Data)
		for _, a := range n.Attr {
			el.SetAttribute(a.Key, a.Val)
		}

		switch n.Data {
		case "html":
			if lang, ok := el.GetAttribute("lang"); ok {
				doc.Lang = lang
			}
		case "base":
			if href, ok := el.GetAttribute("href"); ok {
				doc.BaseURL = href
			}
		case "link":
			rel, _ := el.GetAttribute("rel")
			if strings.EqualFold(rel, "stylesheet") {
				if href, ok := el.GetAttribute("href"); ok {
					doc.Stylesheets = append(doc.Stylesheets, StylesheetRef{Href: href})
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := convert(c, doc); child != nil {
				el.AppendChild(child)
			}
		}

		switch n.Data {
		case "style":
			doc.Stylesheets = append(doc.Stylesheets, StylesheetRef{Inline: el.TextContent()})
		case "script":
			if text := el.TextContent(); text != "" {
				doc.Scripts = append(doc.Scripts, text)
			}
		case "title":
			if doc.Title == "" {
				doc.Title = el.TextContent()
			}
		}

		return el

	case xhtml.TextNode:
		if n.Data == "" {
			return nil
		}
		return domtree.NewText(n.Data)

	case xhtml.CommentNode:
		c := domtree.NewText("")
		c.Kind = domtree.CommentNode
		c.Text = n.Data
		return c

	default:
		// DoctypeNode, RawNode, ErrorNode: no domtree representation.
		return nil
	}
}
