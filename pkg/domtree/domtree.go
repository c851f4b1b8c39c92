// Package domtree implements the styled element tree (C6): a parent-
// pointer node tree carrying the attributes, pseudo-class activation
// state and cascade output each element needs for layout, but owning
// neither HTML parsing nor CSS parsing itself.
package domtree

import "htmlcore/pkg/cssvalue"

type NodeKind int

const (
	ElementNode NodeKind = iota
	TextNode
	CommentNode
	DocumentNode
)

// Node is one element, text run, or comment in the styled tree. Pointer
// identity is parent-pointer based rather than arena/index based: the
// teacher's tree (pkg/html/dom.go) already uses this shape and spec.md §9
// only requires avoiding reference *cycles*, which a strict parent/child
// tree never forms.
type Node struct {
	Kind     NodeKind
	TagName  string
	Attrs    map[string]string
	Text     string
	Parent   *Node
	Children []*Node

	// Style is the cascade's output for this node (nil until computed).
	Style *cssvalue.ComputedStyle

	// MatchedRules is a slot for the stylesheet rules that matched this
	// node. Nothing in the core fills it; a :hover/:active toggle reruns
	// the full cascade.
	MatchedRules []MatchedRule

	// Pseudo-class activation state, toggled by the document's mouse
	// handlers (spec.md §6's on_mouse_over/on_lbutton_down).
	Hover  bool
	Active bool
	Focus  bool

	// PseudoBefore/PseudoAfter are the materialized anonymous children
	// holding ::before/::after generated content (spec.md §4.5 point 3).
	// They are also present in Children at their logical position; these
	// fields exist for O(1) lookup when content needs re-resolution.
	PseudoBefore *Node
	PseudoAfter  *Node
}

// MatchedRule holds one stylesheet rule cached on the node it matched;
// it carries no specificity or source-order key.
type MatchedRule struct {
	Rule interface{} // *css.Rule; interface{} here to avoid an import cycle (css imports domtree)
}

func NewElement(tag string) *Node {
	return &Node{Kind: ElementNode, TagName: tag, Attrs: map[string]string{}}
}

func NewText(text string) *Node {
	return &Node{Kind: TextNode, Text: text}
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attrs == nil {
		return "", false
	}
	v, ok := n.Attrs[name]
	return v, ok
}

func (n *Node) SetAttribute(name, value string) {
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	n.Attrs[name] = value
}

func (n *Node) AppendChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

func (n *Node) RemoveChild(child *Node) *Node {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return child
		}
	}
	return nil
}

func (n *Node) InsertBefore(newChild, refChild *Node) {
	if newChild.Parent != nil {
		newChild.Parent.RemoveChild(newChild)
	}
	newChild.Parent = n
	if refChild == nil {
		n.Children = append(n.Children, newChild)
		return
	}
	for i, c := range n.Children {
		if c == refChild {
			n.Children = append(n.Children[:i], append([]*Node{newChild}, n.Children[i:]...)...)
			return
		}
	}
	n.Children = append(n.Children, newChild)
}

// FirstElementChild returns the first Children entry of kind ElementNode,
// skipping whitespace/comment nodes. The selector matcher does not use
// it: :first-child goes through IndexAmongSiblings.
func (n *Node) FirstElementChild() *Node {
	for _, c := range n.Children {
		if c.Kind == ElementNode {
			return c
		}
	}
	return nil
}

func (n *Node) LastElementChild() *Node {
	for i := len(n.Children) - 1; i >= 0; i-- {
		if n.Children[i].Kind == ElementNode {
			return n.Children[i]
		}
	}
	return nil
}

// ElementChildren returns n's element-kind children in document order.
func (n *Node) ElementChildren() []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Kind == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// IndexAmongSiblings returns the 1-based position of n among its parent's
// element children (for :nth-child), or 0 if n has no parent.
func (n *Node) IndexAmongSiblings() int {
	if n.Parent == nil {
		return 0
	}
	idx := 0
	for _, c := range n.Parent.Children {
		if c.Kind != ElementNode {
			continue
		}
		idx++
		if c == n {
			return idx
		}
	}
	return 0
}

// IndexAmongSiblingsOfType is IndexAmongSiblings restricted to siblings
// sharing n's TagName, for :nth-of-type.
func (n *Node) IndexAmongSiblingsOfType() int {
	if n.Parent == nil {
		return 0
	}
	idx := 0
	for _, c := range n.Parent.Children {
		if c.Kind != ElementNode || c.TagName != n.TagName {
			continue
		}
		idx++
		if c == n {
			return idx
		}
	}
	return 0
}

func (n *Node) SiblingCount() int {
	if n.Parent == nil {
		return 0
	}
	return len(n.Parent.ElementChildren())
}

func (n *Node) SiblingCountOfType() int {
	if n.Parent == nil {
		return 0
	}
	count := 0
	for _, c := range n.Parent.Children {
		if c.Kind == ElementNode && c.TagName == n.TagName {
			count++
		}
	}
	return count
}

// ClassList splits the "class" attribute on whitespace.
func (n *Node) ClassList() []string {
	v, ok := n.GetAttribute("class")
	if !ok {
		return nil
	}
	var out []string
	start := -1
	for i, r := range v {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' {
			if start >= 0 {
				out = append(out, v[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, v[start:])
	}
	return out
}

// HasClass reports whether c is present in ClassList.
func (n *Node) HasClass(c string) bool {
	for _, cl := range n.ClassList() {
		if cl == c {
			return true
		}
	}
	return false
}

// Walk calls fn for n and every descendant, document order, pre-order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// TextContent concatenates all descendant text node content.
func (n *Node) TextContent() string {
	var out string
	n.Walk(func(c *Node) {
		if c.Kind == TextNode {
			out += c.Text
		}
	})
	return out
}
