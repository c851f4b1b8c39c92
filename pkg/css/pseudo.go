package css

import (
	"sort"
	"strconv"
	"strings"

	"htmlcore/pkg/cssvalue"
	"htmlcore/pkg/domtree"
)

// selectorPseudoElement returns the pseudo-element name ("before",
// "after", ...) the last compound of sel carries, or "" for an ordinary
// selector.
func selectorPseudoElement(sel Selector) string {
	if len(sel.Steps) == 0 {
		return ""
	}
	return sel.Steps[len(sel.Steps)-1].Compound.PseudoElement
}

// materializePseudoElement resolves the `content` property for node's
// ::which pseudo-element across sheets and, if present and not `none`
// or `normal`, builds a synthetic element node holding the decoded text
// and records it on node.PseudoBefore/PseudoAfter (spec.md §4.5 point 3).
// The synthetic node is also spliced into node.Children at its logical
// position so ordinary tree walks (layout, TextContent) see it.
func materializePseudoElement(node *domtree.Node, sheets []*Stylesheet, feats MediaFeatures, lang LangResolver, which string, counters *CounterState) {
	decls, matched := collectPseudoDeclarations(node, sheets, feats, lang, which)
	if !matched {
		return
	}

	content := ""
	haveContent := false
	for _, d := range decls {
		if d.decl.Property == "content" {
			content = d.decl.Value
			haveContent = true
		}
	}
	if !haveContent {
		return
	}
	text, ok := decodeContentValue(content, node, counters)
	if !ok {
		return
	}

	pseudo := &domtree.Node{Kind: domtree.ElementNode, TagName: "::" + which, Attrs: map[string]string{}, Parent: node}
	pseudo.Style = cssvalue.NewComputedStyle()
	inheritComputedFields(pseudo.Style, node.Style)
	pseudo.Style.Display = cssvalue.DisplayInline
	for _, d := range decls {
		if d.decl.Property == "content" {
			continue
		}
		ApplyDeclaration(pseudo.Style, d.decl.Property, d.decl.Value)
	}
	applyDisplayFixups(pseudo.Style, pseudo, node.Style)

	textNode := domtree.NewText(text)
	textNode.Parent = pseudo
	pseudo.Children = []*domtree.Node{textNode}

	if which == "before" {
		node.PseudoBefore = pseudo
		node.Children = append([]*domtree.Node{pseudo}, node.Children...)
	} else {
		node.PseudoAfter = pseudo
		node.Children = append(node.Children, pseudo)
	}
}

// collectPseudoDeclarations gathers every declaration cascaded onto
// node's ::which pseudo-element, sorted the same way ComputeStyle sorts
// an element's own declarations (important, specificity, source order).
func collectPseudoDeclarations(node *domtree.Node, sheets []*Stylesheet, feats MediaFeatures, lang LangResolver, which string) ([]declApplication, bool) {
	var apps []declApplication
	sheetOffset := 0
	matched := false
	for _, sheet := range sheets {
		for _, rule := range sheet.Rules {
			if rule.Media != nil && !rule.Media.Evaluate(feats) {
				continue
			}
			for _, sel := range rule.Selectors {
				if selectorPseudoElement(sel) != which {
					continue
				}
				if Matches(sel, node, lang) == NoMatch {
					continue
				}
				matched = true
				sp := sel.Specificity()
				for _, d := range rule.Declarations {
					apps = append(apps, declApplication{
						decl:        d,
						specificity: sp,
						sourceIndex: sheetOffset + rule.SourceIndex,
						important:   d.Important,
					})
				}
			}
		}
		sheetOffset += len(sheet.Rules) + 1
	}
	sort.SliceStable(apps, func(i, j int) bool {
		ai, aj := apps[i], apps[j]
		if ai.important != aj.important {
			return !ai.important
		}
		if ai.specificity.Less(aj.specificity) != aj.specificity.Less(ai.specificity) {
			return ai.specificity.Less(aj.specificity)
		}
		return ai.sourceIndex < aj.sourceIndex
	})
	return apps, matched
}

// decodeContentValue implements the handful of `content` value forms
// litehtml's generated-content support recognizes: quoted string
// literals, attr(name), counter(name)/counters(name, sep), and
// whitespace-separated concatenation of any of these. `none`/`normal`/
// empty suppress the pseudo-element entirely.
func decodeContentValue(raw string, node *domtree.Node, counters *CounterState) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "none" || raw == "normal" {
		return "", false
	}

	var out strings.Builder
	i := 0
	for i < len(raw) {
		switch {
		case raw[i] == '"' || raw[i] == '\'':
			quote := raw[i]
			j := i + 1
			for j < len(raw) && raw[j] != quote {
				j++
			}
			out.WriteString(raw[i+1 : j])
			if j < len(raw) {
				j++
			}
			i = j
		case strings.HasPrefix(raw[i:], "attr("):
			end := strings.IndexByte(raw[i:], ')')
			if end < 0 {
				i = len(raw)
				break
			}
			name := strings.TrimSpace(raw[i+len("attr(") : i+end])
			if v, ok := node.GetAttribute(name); ok {
				out.WriteString(v)
			}
			i += end + 1
		case strings.HasPrefix(raw[i:], "counters("):
			end := strings.IndexByte(raw[i:], ')')
			if end < 0 {
				i = len(raw)
				break
			}
			args := splitFuncArgs(raw[i+len("counters(") : i+end])
			if len(args) > 0 {
				name := strings.TrimSpace(args[0])
				sep := ""
				if len(args) > 1 {
					sep = unquoteArg(strings.TrimSpace(args[1]))
				}
				values := counters.Values(name)
				strs := make([]string, len(values))
				for k, v := range values {
					strs[k] = strconv.Itoa(v)
				}
				out.WriteString(strings.Join(strs, sep))
			}
			i += end + 1
		case strings.HasPrefix(raw[i:], "counter("):
			end := strings.IndexByte(raw[i:], ')')
			if end < 0 {
				i = len(raw)
				break
			}
			args := splitFuncArgs(raw[i+len("counter(") : i+end])
			if len(args) > 0 {
				out.WriteString(strconv.Itoa(counters.Value(strings.TrimSpace(args[0]))))
			}
			i += end + 1
		case raw[i] == ' ' || raw[i] == '\t':
			i++
		default:
			j := i
			for j < len(raw) && raw[j] != ' ' && raw[j] != '"' && raw[j] != '\'' {
				j++
			}
			i = j
		}
	}
	return out.String(), true
}

// splitFuncArgs splits a counter()/counters() argument list on
// top-level commas, leaving quoted separator arguments (e.g. the ". "
// in counters(item, ". ")) intact for unquoteArg to strip.
func splitFuncArgs(s string) []string {
	var args []string
	var cur strings.Builder
	var inQuote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote != 0:
			cur.WriteByte(c)
			if c == inQuote {
				inQuote = 0
			}
		case c == '"' || c == '\'':
			inQuote = c
			cur.WriteByte(c)
		case c == ',':
			args = append(args, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	args = append(args, cur.String())
	return args
}

func unquoteArg(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
