package css

import (
	"sort"
	"strconv"
	"strings"
)

// Declaration is one "property: value[ !important]" pair.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// MediaFeature is one (name [min-/max-] op value) predicate inside an
// @media query, per spec.md §4.4.
type MediaFeature struct {
	Name string // width, height, device-width, color, orientation, ...
	Min  bool
	Max  bool
	Value string
}

// MediaQuery is a comma-separated list of feature conjunctions; the query
// as a whole matches if any one group's features all match (OR of ANDs).
type MediaQuery struct {
	Groups [][]MediaFeature
	Raw    string
}

// Rule is one selector-list + declaration-block pair, tagged with the
// media query it's nested under (if any) and its position in the sheet
// for stable cascade sorting.
type Rule struct {
	Selectors    []Selector
	Declarations []Declaration
	Media        *MediaQuery
	SourceIndex  int
}

// Stylesheet is an ordered list of rules as ingested from one or more
// sources (style tag, link import, or the master/user-agent sheet).
type Stylesheet struct {
	Rules []Rule
}

// ParseStylesheet parses CSS source text into a Stylesheet. It never
// returns an error for malformed input (per spec.md §7's parse-tolerant
// requirement); onError, if non-nil, receives a description of each
// skipped construct for the caller's logging hook.
func ParseStylesheet(input string, onError func(string)) *Stylesheet {
	p := &stylesheetParser{toks: NewTokenizer(input).Tokens(), onError: onError}
	return p.parseTopLevel()
}

func logErr(onError func(string), msg string) {
	if onError != nil {
		onError(msg)
	}
}

type stylesheetParser struct {
	toks        []Token
	pos         int
	sourceIndex int
	onError     func(string)
}

func (p *stylesheetParser) peek() Token {
	for p.pos < len(p.toks) && p.toks[p.pos].Kind == TokenWhitespace {
		p.pos++
	}
	if p.pos >= len(p.toks) {
		return Token{Kind: TokenEOF}
	}
	return p.toks[p.pos]
}

func (p *stylesheetParser) next() Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

// nextRaw consumes the next non-whitespace token and returns its raw
// text, with a leading space when whitespace preceded it.
func (p *stylesheetParser) nextRaw() string {
	p.peek()
	ws := p.pos > 0 && p.toks[p.pos-1].Kind == TokenWhitespace
	text := tokenRawText(p.next())
	if ws {
		return " " + text
	}
	return text
}

func (p *stylesheetParser) parseTopLevel() *Stylesheet {
	sheet := &Stylesheet{}
	for p.peek().Kind != TokenEOF {
		if p.peek().Kind == TokenCDO || p.peek().Kind == TokenCDC {
			p.next()
			continue
		}
		if p.peek().Kind == TokenAtKeyword {
			p.parseAtRule(sheet, nil)
			continue
		}
		p.parseQualifiedRule(sheet, nil)
	}
	return sheet
}

func (p *stylesheetParser) parseAtRule(sheet *Stylesheet, media *MediaQuery) {
	at := p.next() // consumes the at-keyword
	switch strings.ToLower(at.Value) {
	case "media":
		raw := p.collectRawUntilBrace()
		mq := parseMediaQuery(raw)
		if p.peek().Kind != TokenLeftBrace {
			logErr(p.onError, "css: @media missing block")
			p.skipToSemicolonOrBlockEnd()
			return
		}
		p.next() // {
		p.parseRuleListInto(sheet, &mq)
		if p.peek().Kind == TokenRightBrace {
			p.next()
		}
	case "import":
		// @import rules are skipped: the parser records nothing for them
		// and nothing here fetches the imported sheet.
		p.skipToSemicolonOrBlockEnd()
	default:
		logErr(p.onError, "css: unsupported at-rule @"+at.Value)
		p.skipToSemicolonOrBlockEnd()
	}
}

func (p *stylesheetParser) skipToSemicolonOrBlockEnd() {
	depth := 0
	for {
		tok := p.next()
		if tok.Kind == TokenEOF {
			return
		}
		if tok.Kind == TokenLeftBrace {
			depth++
			continue
		}
		if tok.Kind == TokenRightBrace {
			if depth == 0 {
				return
			}
			depth--
			if depth == 0 {
				return
			}
			continue
		}
		if tok.Kind == TokenSemicolon && depth == 0 {
			return
		}
	}
}

// collectRawUntilBrace reconstructs raw text up to (not including) the
// next top-level "{", used for @media's prelude.
func (p *stylesheetParser) collectRawUntilBrace() string {
	var b strings.Builder
	for p.peek().Kind != TokenEOF && p.peek().Kind != TokenLeftBrace {
		b.WriteString(p.nextRaw())
	}
	return b.String()
}

func (p *stylesheetParser) parseRuleListInto(sheet *Stylesheet, media *MediaQuery) {
	for {
		switch p.peek().Kind {
		case TokenEOF, TokenRightBrace:
			return
		case TokenAtKeyword:
			p.parseAtRule(sheet, media)
		default:
			p.parseQualifiedRule(sheet, media)
		}
	}
}

func (p *stylesheetParser) parseQualifiedRule(sheet *Stylesheet, media *MediaQuery) {
	var selectorRaw strings.Builder
	for p.peek().Kind != TokenEOF && p.peek().Kind != TokenLeftBrace {
		if p.peek().Kind == TokenRightBrace {
			p.next() // stray close brace: discard and recover
			return
		}
		selectorRaw.WriteString(p.nextRaw())
	}
	if p.peek().Kind != TokenLeftBrace {
		logErr(p.onError, "css: rule missing declaration block")
		return
	}
	p.next() // {

	decls := p.parseDeclarationsUntilBrace()
	if p.peek().Kind == TokenRightBrace {
		p.next()
	}

	selectors, err := ParseSelectorList(selectorRaw.String())
	if err != nil {
		logErr(p.onError, "css: "+err.Error())
		return
	}
	if len(selectors) == 0 {
		return
	}
	sheet.Rules = append(sheet.Rules, Rule{
		Selectors:    selectors,
		Declarations: decls,
		Media:        media,
		SourceIndex:  p.sourceIndex,
	})
	p.sourceIndex++
}

func (p *stylesheetParser) parseDeclarationsUntilBrace() []Declaration {
	var decls []Declaration
	for {
		switch p.peek().Kind {
		case TokenEOF, TokenRightBrace:
			return decls
		case TokenSemicolon:
			p.next()
			continue
		}

		var propName strings.Builder
		for p.peek().Kind != TokenColon && p.peek().Kind != TokenSemicolon &&
			p.peek().Kind != TokenRightBrace && p.peek().Kind != TokenEOF {
			propName.WriteString(p.nextRaw())
		}
		if p.peek().Kind != TokenColon {
			logErr(p.onError, "css: expected ':' in declaration")
			for p.peek().Kind != TokenSemicolon && p.peek().Kind != TokenRightBrace && p.peek().Kind != TokenEOF {
				p.next()
			}
			continue
		}
		p.next() // :

		var valueRaw strings.Builder
		depth := 0
		for {
			k := p.peek().Kind
			if k == TokenEOF {
				break
			}
			if k == TokenSemicolon && depth == 0 {
				break
			}
			if k == TokenRightBrace && depth == 0 {
				break
			}
			if k == TokenLeftParen || k == TokenLeftBracket || k == TokenFunction {
				depth++
			}
			if k == TokenRightParen || k == TokenRightBracket {
				depth--
			}
			valueRaw.WriteString(p.nextRaw())
		}
		if p.peek().Kind == TokenSemicolon {
			p.next()
		}

		name := strings.ToLower(strings.TrimSpace(propName.String()))
		value := strings.TrimSpace(valueRaw.String())
		important := false
		if idx := strings.LastIndex(strings.ToLower(value), "!important"); idx >= 0 {
			value = strings.TrimSpace(value[:idx])
			important = true
		}
		if name == "" {
			continue
		}
		decls = append(decls, Declaration{Property: name, Value: value, Important: important})
	}
}

// parseMediaQuery parses a comma-separated @media prelude such as
// "screen and (min-width: 768px), print".
func parseMediaQuery(raw string) MediaQuery {
	mq := MediaQuery{Raw: strings.TrimSpace(raw)}
	for _, group := range splitTopLevel(raw, ',') {
		group = strings.TrimSpace(group)
		var features []MediaFeature
		for _, part := range strings.Split(group, " and ") {
			part = strings.TrimSpace(part)
			if part == "" || part == "screen" || part == "print" || part == "all" ||
				part == "not" || part == "only" {
				continue
			}
			part = strings.TrimPrefix(part, "(")
			part = strings.TrimSuffix(part, ")")
			kv := strings.SplitN(part, ":", 2)
			name := strings.TrimSpace(kv[0])
			value := ""
			if len(kv) == 2 {
				value = strings.TrimSpace(kv[1])
			}
			f := MediaFeature{Value: value}
			switch {
			case strings.HasPrefix(name, "min-"):
				f.Min = true
				f.Name = strings.TrimPrefix(name, "min-")
			case strings.HasPrefix(name, "max-"):
				f.Max = true
				f.Name = strings.TrimPrefix(name, "max-")
			default:
				f.Name = name
			}
			features = append(features, f)
		}
		mq.Groups = append(mq.Groups, features)
	}
	return mq
}

// MediaFeatures is the container-reported snapshot spec.md §4.4 evaluates
// queries against.
type MediaFeatures struct {
	Width, Height             float64
	DeviceWidth, DeviceHeight float64
	Color                     int
	ColorIndex                int
	Monochrome                int
	Resolution                float64 // dpi
	Orientation               string  // "portrait" | "landscape"
}

// Evaluate reports whether mq matches feats: true if any OR-group has all
// its features satisfied (an empty group, e.g. bare "screen", matches).
func (mq MediaQuery) Evaluate(feats MediaFeatures) bool {
	if len(mq.Groups) == 0 {
		return true
	}
	for _, group := range mq.Groups {
		if evaluateGroup(group, feats) {
			return true
		}
	}
	return false
}

func evaluateGroup(features []MediaFeature, feats MediaFeatures) bool {
	for _, f := range features {
		if !evaluateFeature(f, feats) {
			return false
		}
	}
	return true
}

func evaluateFeature(f MediaFeature, feats MediaFeatures) bool {
	var actual float64
	switch f.Name {
	case "width":
		actual = feats.Width
	case "height":
		actual = feats.Height
	case "device-width":
		actual = feats.DeviceWidth
	case "device-height":
		actual = feats.DeviceHeight
	case "color":
		actual = float64(feats.Color)
	case "color-index":
		actual = float64(feats.ColorIndex)
	case "monochrome":
		actual = float64(feats.Monochrome)
	case "resolution":
		actual = feats.Resolution
	case "orientation":
		want := strings.TrimSpace(f.Value)
		if feats.Orientation == "" {
			orient := "landscape"
			if feats.Height > feats.Width {
				orient = "portrait"
			}
			return orient == want
		}
		return feats.Orientation == want
	default:
		return true
	}
	if f.Value == "" {
		return actual > 0
	}
	want, err := parseFeatureNumber(f.Value)
	if err != nil {
		return false
	}
	switch {
	case f.Min:
		return actual >= want
	case f.Max:
		return actual <= want
	default:
		return actual == want
	}
}

func parseFeatureNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	s = strings.TrimSuffix(s, "dpi")
	if idx := strings.Index(s, "/"); idx >= 0 {
		num, err1 := strconv.ParseFloat(strings.TrimSpace(s[:idx]), 64)
		den, err2 := strconv.ParseFloat(strings.TrimSpace(s[idx+1:]), 64)
		if err1 != nil || err2 != nil || den == 0 {
			return 0, err1
		}
		return num / den, nil
	}
	return strconv.ParseFloat(s, 64)
}

// Sort stably orders rules by source index, preserving inclusion order;
// specificity/importance ordering is applied at cascade-apply time per
// (rule, declaration) since !important is a per-declaration bit, not a
// per-rule one (spec.md §3's "marking each property with the rule's
// !important bit").
func (s *Stylesheet) Sort() {
	sort.SliceStable(s.Rules, func(i, j int) bool {
		return s.Rules[i].SourceIndex < s.Rules[j].SourceIndex
	})
}

// ParseInlineStyle parses a style="..." attribute value into a
// Declaration list (no selector: the caller applies these at Inline
// specificity per spec.md's 4-tuple).
func ParseInlineStyle(input string) []Declaration {
	p := &stylesheetParser{toks: NewTokenizer(input).Tokens()}
	return p.parseDeclarationsUntilBrace()
}
