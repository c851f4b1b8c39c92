package css

import (
	"sort"

	"htmlcore/pkg/cssvalue"
	"htmlcore/pkg/domtree"
)

// MasterStylesheetText is the browser-default CSS blob spec.md §6 calls
// the "master stylesheet": a plain CSS text supplied at document
// construction time, inserted at source index 0 so user and document
// sheets always override it.
const MasterStylesheetText = `
html, body, div, p, h1, h2, h3, h4, h5, h6, ul, ol, li, form, fieldset,
table, header, footer, section, article, nav, aside, figure, figcaption,
blockquote, pre, address { display: block; }
head, style, script, meta, title, link, base, noscript { display: none; }
li { display: list-item; }
table { display: table; }
tr { display: table-row; }
thead { display: table-header-group; }
tbody { display: table-row-group; }
tfoot { display: table-footer-group; }
td, th { display: table-cell; }
caption { display: table-caption; }
col { display: table-column; }
colgroup { display: table-column-group; }
span, a, b, i, em, strong, small, code, label, abbr, sub, sup, u, s { display: inline; }
img { display: inline-block; }
body { margin: 8px; }
h1 { font-size: 2em; margin: 0.67em 0; font-weight: bold; }
h2 { font-size: 1.5em; margin: 0.83em 0; font-weight: bold; }
h3 { font-size: 1.17em; margin: 1em 0; font-weight: bold; }
h4 { font-size: 1em; margin: 1.33em 0; font-weight: bold; }
h5 { font-size: 0.83em; margin: 1.67em 0; font-weight: bold; }
h6 { font-size: 0.67em; margin: 2.33em 0; font-weight: bold; }
p, blockquote, pre, ul, ol, fieldset { margin-top: 1em; margin-bottom: 1em; }
ul, ol { padding-left: 40px; }
li { margin: 0; }
b, strong { font-weight: bold; }
i, em { font-style: italic; }
a { color: #0000EE; text-decoration: underline; cursor: pointer; }
table { border-collapse: separate; border-spacing: 2px; }
`

// MasterStylesheet returns the parsed master stylesheet, memoized.
func MasterStylesheet() *Stylesheet {
	if masterSheet == nil {
		masterSheet = ParseStylesheet(MasterStylesheetText, nil)
	}
	return masterSheet
}

var masterSheet *Stylesheet

// inheritComputedFields copies the fixed set of inherited properties
// (spec.md §4.4): properties whose natural inheritance pulls the
// parent's computed value instead of the property's initial value.
func inheritComputedFields(child, parent *cssvalue.ComputedStyle) {
	child.FontFamily = parent.FontFamily
	child.FontSize = parent.FontSize
	child.FontWeight = parent.FontWeight
	child.FontStyle = parent.FontStyle
	child.LineHeight = parent.LineHeight
	child.LineHeightIsUnitless = parent.LineHeightIsUnitless
	child.Color = parent.Color
	child.TextAlign = parent.TextAlign
	child.TextTransform = parent.TextTransform
	child.WhiteSpace = parent.WhiteSpace
	child.ListStyleType = parent.ListStyleType
	child.ListStylePosition = parent.ListStylePosition
	child.Visibility = parent.Visibility
	child.Cursor = parent.Cursor
	child.LetterSpacing = parent.LetterSpacing
	child.WordSpacing = parent.WordSpacing
	child.BorderCollapse = parent.BorderCollapse
	child.BorderSpacingX = parent.BorderSpacingX
	child.BorderSpacingY = parent.BorderSpacingY
}

type declApplication struct {
	decl        Declaration
	specificity Specificity
	sourceIndex int
	important   bool
}

// ComputeStyle resolves node's computed style from the cascade of
// sheets, inheriting from parentStyle (pass nil for the root), evaluating
// @media against feats, and resolving :lang() via lang.
func ComputeStyle(node *domtree.Node, sheets []*Stylesheet, parentStyle *cssvalue.ComputedStyle, feats MediaFeatures, lang LangResolver) *cssvalue.ComputedStyle {
	style := cssvalue.NewComputedStyle()
	if parentStyle != nil {
		inheritComputedFields(style, parentStyle)
	}

	var apps []declApplication
	sheetOffset := 0
	for _, sheet := range sheets {
		for _, rule := range sheet.Rules {
			if rule.Media != nil && !rule.Media.Evaluate(feats) {
				continue
			}
			best, matched := bestSpecificity(rule.Selectors, node, lang)
			if !matched {
				continue
			}
			for _, d := range rule.Declarations {
				apps = append(apps, declApplication{
					decl:        d,
					specificity: best,
					sourceIndex: sheetOffset + rule.SourceIndex,
					important:   d.Important,
				})
			}
		}
		sheetOffset += len(sheet.Rules) + 1
	}

	if v, ok := node.GetAttribute("style"); ok {
		for _, d := range ParseInlineStyle(v) {
			apps = append(apps, declApplication{
				decl:        d,
				specificity: Specificity{Inline: 1},
				sourceIndex: sheetOffset,
				important:   d.Important,
			})
		}
	}

	sort.SliceStable(apps, func(i, j int) bool {
		ai, aj := apps[i], apps[j]
		if ai.important != aj.important {
			return !ai.important // non-important sorts first, important wins last
		}
		if ai.specificity.Less(aj.specificity) != aj.specificity.Less(ai.specificity) {
			return ai.specificity.Less(aj.specificity)
		}
		return ai.sourceIndex < aj.sourceIndex
	})

	for _, a := range apps {
		ApplyDeclaration(style, a.decl.Property, a.decl.Value)
	}

	applyDisplayFixups(style, node, parentStyle)
	return style
}

// bestSpecificity returns the highest specificity among rule.Selectors
// entries that match node, and whether any selector matched at all
// (MatchPseudoClass counts as matched; dynamic-state tracking happens at
// the MatchedRule level, not here).
func bestSpecificity(selectors []Selector, node *domtree.Node, lang LangResolver) (Specificity, bool) {
	var best Specificity
	matched := false
	for _, sel := range selectors {
		if selectorPseudoElement(sel) != "" {
			continue
		}
		if Matches(sel, node, lang) == NoMatch {
			continue
		}
		sp := sel.Specificity()
		if !matched || best.Less(sp) {
			best = sp
		}
		matched = true
	}
	return best, matched
}

// applyDisplayFixups runs the post-cascade, pre-render-tree blockification
// rules of spec.md §4.4.
func applyDisplayFixups(style *cssvalue.ComputedStyle, node *domtree.Node, parentStyle *cssvalue.ComputedStyle) {
	if style.Display == cssvalue.DisplayNone {
		return
	}

	isRoot := node.Parent == nil || node.Parent.Kind == domtree.DocumentNode
	flexParent := parentStyle != nil && (parentStyle.Display == cssvalue.DisplayFlex || parentStyle.Display == cssvalue.DisplayInlineFlex)

	switch {
	case style.Position == cssvalue.PositionAbsolute || style.Position == cssvalue.PositionFixed:
		style.Float = cssvalue.FloatNone
		style.Display = blockify(style.Display)
	case style.Float != cssvalue.FloatNone:
		style.Display = blockify(style.Display)
	case isRoot:
		style.Display = blockify(style.Display)
	case flexParent:
		style.Display = flexChildify(style.Display)
	}
}

func blockify(d cssvalue.Display) cssvalue.Display {
	switch d {
	case cssvalue.DisplayInline, cssvalue.DisplayInlineBlock,
		cssvalue.DisplayTableRow, cssvalue.DisplayTableCell,
		cssvalue.DisplayTableRowGroup, cssvalue.DisplayTableHeaderGroup,
		cssvalue.DisplayTableFooterGroup, cssvalue.DisplayTableColumn,
		cssvalue.DisplayTableColumnGroup, cssvalue.DisplayTableCaption:
		return cssvalue.DisplayBlock
	case cssvalue.DisplayInlineTable:
		return cssvalue.DisplayTable
	case cssvalue.DisplayInlineFlex:
		return cssvalue.DisplayFlex
	}
	return d
}

func flexChildify(d cssvalue.Display) cssvalue.Display {
	switch d {
	case cssvalue.DisplayInline, cssvalue.DisplayInlineBlock:
		return cssvalue.DisplayBlock
	case cssvalue.DisplayInlineTable:
		return cssvalue.DisplayTable
	case cssvalue.DisplayInlineFlex:
		return cssvalue.DisplayFlex
	}
	return d
}

// fontSizeKeywordTable is the seven-step absolute-size table spec.md
// §4.4 names, expressed as ratios following the classic CSS2.1 scale
// (litehtml's style.cpp uses the same ratios for its font-size keyword
// lookup). resolveFontSizeKeyword multiplies them by a fixed 16px base;
// the container's default font size is not consulted.
var fontSizeKeywordTable = map[string]float64{
	"xx-small": 3.0 / 5.0,
	"x-small":  3.0 / 4.0,
	"small":    8.0 / 9.0,
	"medium":   1.0,
	"large":    6.0 / 5.0,
	"x-large":  3.0 / 2.0,
	"xx-large": 2.0 / 1.0,
}

var fontSizeStepOrder = []string{"xx-small", "x-small", "small", "medium", "large", "x-large", "xx-large"}

// resolveFontSizeKeyword resolves an absolute keyword against the 16px
// default, or "smaller"/"larger" by one table step relative to
// parentSize.
func resolveFontSizeKeyword(value string, parentSize float64) (float64, bool) {
	const defaultFontSize = 16.0
	if ratio, ok := fontSizeKeywordTable[value]; ok {
		return defaultFontSize * ratio, true
	}
	if value == "smaller" || value == "larger" {
		nearest := nearestStepIndex(parentSize, defaultFontSize)
		if value == "smaller" && nearest > 0 {
			nearest--
		} else if value == "larger" && nearest < len(fontSizeStepOrder)-1 {
			nearest++
		}
		return defaultFontSize * fontSizeKeywordTable[fontSizeStepOrder[nearest]], true
	}
	return 0, false
}

func nearestStepIndex(size, defaultFontSize float64) int {
	bestIdx := 3 // "medium"
	bestDiff := -1.0
	for i, name := range fontSizeStepOrder {
		diff := size - defaultFontSize*fontSizeKeywordTable[name]
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			bestDiff = diff
			bestIdx = i
		}
	}
	return bestIdx
}

// ApplyCascade computes and stores style on node and recurses into
// children, threading inherited values down the tree. feats and lang are
// passed through to every ComputeStyle call. A fresh CounterState backs
// the whole walk, so counter-reset/counter-increment and the content
// property's counter()/counters() functions see a single consistent
// view of every named counter's nesting (spec.md §4.5 point 3/4).
func ApplyCascade(node *domtree.Node, sheets []*Stylesheet, parentStyle *cssvalue.ComputedStyle, feats MediaFeatures, lang LangResolver) {
	applyCascade(node, sheets, parentStyle, feats, lang, NewCounterState())
}

func applyCascade(node *domtree.Node, sheets []*Stylesheet, parentStyle *cssvalue.ComputedStyle, feats MediaFeatures, lang LangResolver, counters *CounterState) {
	if node.Kind != domtree.ElementNode {
		return
	}
	node.Style = ComputeStyle(node, sheets, parentStyle, feats, lang)

	for _, entry := range node.Style.CounterReset {
		counters.Reset(entry.Name, entry.Value)
	}
	for _, entry := range node.Style.CounterIncrement {
		counters.Increment(entry.Name, entry.Value)
	}

	node.PseudoBefore = nil
	node.PseudoAfter = nil
	materializePseudoElement(node, sheets, feats, lang, "before", counters)
	for _, child := range node.Children {
		if child == node.PseudoBefore || child == node.PseudoAfter {
			continue
		}
		applyCascade(child, sheets, node.Style, feats, lang, counters)
	}
	materializePseudoElement(node, sheets, feats, lang, "after", counters)

	for _, entry := range node.Style.CounterReset {
		counters.Pop(entry.Name)
	}
}
