package css

import (
	"strings"

	"htmlcore/pkg/domtree"
)

// MatchResult is the tri-state match predicate result spec.md §4.3 names:
// a rule can fail to match, match unconditionally, or match only because
// of dynamic pseudo-class state (hover/active/focus), which the style
// engine tracks separately to support hover-triggered redraw.
type MatchResult int

const (
	NoMatch MatchResult = iota
	Match
	MatchPseudoClass
)

// LangResolver reports the container-supplied language tag for :lang().
type LangResolver func(n *domtree.Node) string

// Matches evaluates selector sel against node n. lang supplies the
// container's language tag lookup for :lang(); pass nil to always fail
// :lang().
func Matches(sel Selector, n *domtree.Node, lang LangResolver) MatchResult {
	if len(sel.Steps) == 0 || n == nil {
		return NoMatch
	}
	return matchChain(sel.Steps, len(sel.Steps)-1, n, lang)
}

func matchChain(steps []SelectorStep, i int, n *domtree.Node, lang LangResolver) MatchResult {
	step := steps[i]
	result := matchCompound(step.Compound, n, lang)
	if result == NoMatch {
		return NoMatch
	}
	if i == 0 {
		return result
	}

	switch step.Combinator {
	case CombinatorDescendant:
		for anc := n.Parent; anc != nil; anc = anc.Parent {
			if anc.Kind != domtree.ElementNode {
				continue
			}
			r := matchChain(steps, i-1, anc, lang)
			if r != NoMatch {
				return combine(result, r)
			}
		}
		return NoMatch
	case CombinatorChild:
		if n.Parent == nil || n.Parent.Kind != domtree.ElementNode {
			return NoMatch
		}
		r := matchChain(steps, i-1, n.Parent, lang)
		if r == NoMatch {
			return NoMatch
		}
		return combine(result, r)
	case CombinatorAdjacentSibling:
		sib := prevElementSibling(n)
		if sib == nil {
			return NoMatch
		}
		r := matchChain(steps, i-1, sib, lang)
		if r == NoMatch {
			return NoMatch
		}
		return combine(result, r)
	case CombinatorGeneralSibling:
		for sib := prevElementSibling(n); sib != nil; sib = prevElementSibling(sib) {
			r := matchChain(steps, i-1, sib, lang)
			if r != NoMatch {
				return combine(result, r)
			}
		}
		return NoMatch
	}
	return NoMatch
}

func combine(a, b MatchResult) MatchResult {
	if a == MatchPseudoClass || b == MatchPseudoClass {
		return MatchPseudoClass
	}
	return Match
}

func prevElementSibling(n *domtree.Node) *domtree.Node {
	if n.Parent == nil {
		return nil
	}
	siblings := n.Parent.Children
	for i, c := range siblings {
		if c == n {
			for j := i - 1; j >= 0; j-- {
				if siblings[j].Kind == domtree.ElementNode {
					return siblings[j]
				}
			}
			return nil
		}
	}
	return nil
}

func matchCompound(c CompoundSelector, n *domtree.Node, lang LangResolver) MatchResult {
	if n.Kind != domtree.ElementNode {
		return NoMatch
	}
	if c.Tag != "" && c.Tag != "*" && !strings.EqualFold(c.Tag, n.TagName) {
		return NoMatch
	}
	for _, id := range c.IDs {
		if v, _ := n.GetAttribute("id"); v != id {
			return NoMatch
		}
	}
	for _, cl := range c.Classes {
		if !n.HasClass(cl) {
			return NoMatch
		}
	}
	for _, attr := range c.Attrs {
		if !matchAttr(attr, n) {
			return NoMatch
		}
	}

	dynamic := false
	for _, pc := range c.PseudoClasses {
		r := matchPseudoClass(pc, n, lang)
		switch r {
		case NoMatch:
			return NoMatch
		case MatchPseudoClass:
			dynamic = true
		}
	}
	if dynamic {
		return MatchPseudoClass
	}
	return Match
}

func matchAttr(a AttrSelector, n *domtree.Node) bool {
	v, ok := n.GetAttribute(a.Name)
	if !ok {
		return false
	}
	if a.Op == AttrExists {
		return true
	}
	target, actual := a.Value, v
	if a.CaseInsensitive {
		target = strings.ToLower(target)
		actual = strings.ToLower(actual)
	}
	switch a.Op {
	case AttrEquals:
		return actual == target
	case AttrIncludes:
		for _, word := range strings.Fields(actual) {
			if word == target {
				return true
			}
		}
		return false
	case AttrDash:
		return actual == target || strings.HasPrefix(actual, target+"-")
	case AttrPrefix:
		return target != "" && strings.HasPrefix(actual, target)
	case AttrSuffix:
		return target != "" && strings.HasSuffix(actual, target)
	case AttrSubstring:
		return target != "" && strings.Contains(actual, target)
	}
	return false
}

func matchPseudoClass(pc PseudoClass, n *domtree.Node, lang LangResolver) MatchResult {
	switch pc.Name {
	case "hover":
		if n.Hover {
			return MatchPseudoClass
		}
		return NoMatch
	case "active":
		if n.Active {
			return MatchPseudoClass
		}
		return NoMatch
	case "focus":
		if n.Focus {
			return MatchPseudoClass
		}
		return NoMatch
	case "link":
		_, hasHref := n.GetAttribute("href")
		if (n.TagName == "a" || n.TagName == "area") && hasHref {
			return MatchPseudoClass
		}
		return NoMatch
	case "visited":
		return NoMatch
	case "first-child":
		if n.IndexAmongSiblings() == 1 {
			return Match
		}
		return NoMatch
	case "last-child":
		if n.IndexAmongSiblings() == n.SiblingCount() {
			return Match
		}
		return NoMatch
	case "only-child":
		if n.SiblingCount() == 1 {
			return Match
		}
		return NoMatch
	case "first-of-type":
		if n.IndexAmongSiblingsOfType() == 1 {
			return Match
		}
		return NoMatch
	case "last-of-type":
		if n.IndexAmongSiblingsOfType() == n.SiblingCountOfType() {
			return Match
		}
		return NoMatch
	case "only-of-type":
		if n.SiblingCountOfType() == 1 {
			return Match
		}
		return NoMatch
	case "nth-child":
		if MatchesAnB(pc.A, pc.B, n.IndexAmongSiblings()) {
			return Match
		}
		return NoMatch
	case "nth-last-child":
		idx := n.SiblingCount() - n.IndexAmongSiblings() + 1
		if MatchesAnB(pc.A, pc.B, idx) {
			return Match
		}
		return NoMatch
	case "nth-of-type":
		if MatchesAnB(pc.A, pc.B, n.IndexAmongSiblingsOfType()) {
			return Match
		}
		return NoMatch
	case "nth-last-of-type":
		idx := n.SiblingCountOfType() - n.IndexAmongSiblingsOfType() + 1
		if MatchesAnB(pc.A, pc.B, idx) {
			return Match
		}
		return NoMatch
	case "not":
		if pc.Not == nil {
			return NoMatch
		}
		if matchCompound(*pc.Not, n, lang) == NoMatch {
			return Match
		}
		return NoMatch
	case "lang":
		if lang == nil {
			return NoMatch
		}
		got := strings.ToLower(lang(n))
		want := strings.ToLower(pc.Arg)
		if got == want || strings.HasPrefix(got, want+"-") {
			return Match
		}
		return NoMatch
	case "root":
		if n.Parent == nil || n.Parent.Kind == domtree.DocumentNode {
			return Match
		}
		return NoMatch
	case "empty":
		for _, c := range n.Children {
			if c.Kind == domtree.ElementNode {
				return NoMatch
			}
			if c.Kind == domtree.TextNode && c.Text != "" {
				return NoMatch
			}
		}
		return Match
	}
	return NoMatch
}
