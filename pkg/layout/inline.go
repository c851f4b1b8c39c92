package layout

import (
	"strings"

	"htmlcore/pkg/container"
	"htmlcore/pkg/cssvalue"
)

// InlineFragment is one positioned run within a LineBox: either a text
// run (Text non-empty) or an inline-level replaced/atomic box (Box
// non-nil), following the multi-pass inline pipeline's split between
// measuring content and placing it (spec.md §4.6).
type InlineFragment struct {
	Item   *Item
	Text   string
	X      float64
	Width  float64
	Handle container.FontHandle

	// Ascent/Descent position the fragment's baseline within the line;
	// for a Box fragment (inline-block/replaced), its bottom margin
	// edge sits on the baseline unless vertical-align says otherwise.
	Ascent, Descent float64
}

// LineBox is one line of inline content inside a block container, with
// every fragment already positioned along the X axis and the line's
// own baseline/height resolved from its tallest fragment (spec.md §4.6).
type LineBox struct {
	Y         float64
	Height    float64
	Baseline  float64
	Fragments []InlineFragment
}

// flatInlineRun is an unresolved inline token used only during line
// breaking: a word (possibly followed by required trailing
// whitespace) for a text item, or a single indivisible atomic item.
type flatInlineRun struct {
	item  *Item
	text  string // non-empty for a text word
	atom  *Item  // non-nil for an inline-block/replaced atomic box
	space bool   // a space follows this token and collapses at a line break
}

// flattenInlineItems walks a run of sibling inline-level/text items and
// produces the word-level token stream line breaking consumes. Nested
// inline elements (e.g. <span>) are flattened too: their own box is not
// drawn as a container fragment by this simplified pipeline, only their
// text descendants are (acceptable for the flow layout spec.md asks
// for; box-decoration-break across line fragments is out of scope).
func flattenInlineItems(items []*Item) []flatInlineRun {
	var out []flatInlineRun
	for _, it := range items {
		switch it.Kind {
		case ItemText:
			out = append(out, tokenizeText(it, it.Style)...)
		case ItemInline:
			out = append(out, flattenInlineItems(it.Children)...)
		default:
			out = append(out, flatInlineRun{item: it, atom: it})
		}
	}
	return out
}

func tokenizeText(it *Item, style *cssvalue.ComputedStyle) []flatInlineRun {
	text := it.Text
	if style == nil || (style.WhiteSpace != "pre" && style.WhiteSpace != "pre-wrap") {
		text = collapseRuns(text)
	}
	words := strings.Fields(text)
	out := make([]flatInlineRun, 0, len(words))
	for i, w := range words {
		out = append(out, flatInlineRun{item: it, text: w, space: i < len(words)-1 || strings.HasSuffix(text, " ")})
	}
	return out
}

func collapseRuns(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		isSpace := r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
		if isSpace {
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return b.String()
}

// spacingAdjustment is the extra width letter-spacing/word-spacing add
// to a measured word: letter-spacing after every character (CSS 2.1's
// "equivalent inter-character space" applies uniformly, including
// after the last character of a word) and word-spacing after every
// space character the word carries (its own trailing space included).
func spacingAdjustment(text string, style, defaultStyle *cssvalue.ComputedStyle, ctx cssvalue.ResolveContext) float64 {
	if style == nil {
		style = defaultStyle
	}
	if style == nil {
		return 0
	}
	extra := style.LetterSpacing.Resolve(ctx) * float64(len([]rune(text)))
	extra += style.WordSpacing.Resolve(ctx) * float64(strings.Count(text, " "))
	return extra
}

// LayoutInlineRun breaks a run of inline-level children into line
// boxes of at most availableWidth, greedily packing words (spec.md
// §4.6's line-breaking algorithm): a token only starts a new line when
// it would overflow the current one, and a single overlong token still
// gets its own line rather than being dropped.
func LayoutInlineRun(items []*Item, availableWidth float64, c container.Container, defaultStyle *cssvalue.ComputedStyle, ctx cssvalue.ResolveContext) []*LineBox {
	tokens := flattenInlineItems(items)
	if len(tokens) == 0 {
		return nil
	}

	handles := map[*Item]container.FontHandle{}
	metrics := map[*Item]container.FontMetrics{}
	getFont := func(it *Item) (container.FontHandle, container.FontMetrics) {
		if h, ok := handles[it]; ok {
			return h, metrics[it]
		}
		style := it.Style
		if style == nil {
			style = defaultStyle
		}
		h, m := c.CreateFont(style.FontFamily, style.FontSize, style.FontWeight, style.FontStyle, "none")
		handles[it] = h
		metrics[it] = m
		return h, m
	}

	var lines []*LineBox
	var cur []InlineFragment
	var curWidth float64

	flush := func() {
		if len(cur) == 0 {
			return
		}
		height, baseline := 0.0, 0.0
		for _, f := range cur {
			lineH := f.Ascent + f.Descent
			if lineH > height {
				height = lineH
			}
			if f.Ascent > baseline {
				baseline = f.Ascent
			}
		}
		lines = append(lines, &LineBox{Height: height, Baseline: baseline, Fragments: cur})
		cur = nil
		curWidth = 0
	}

	for _, tok := range tokens {
		var frag InlineFragment
		var width float64
		if tok.atom != nil {
			width = tok.atom.OuterWidth()
			frag = InlineFragment{Item: tok.atom, Width: width, Ascent: tok.atom.OuterHeight(), Descent: 0}
		} else {
			h, m := getFont(tok.item)
			text := tok.text
			if tok.space {
				text += " "
			}
			width = c.TextWidth(text, h)
			width += spacingAdjustment(text, tok.item.Style, defaultStyle, ctx)
			frag = InlineFragment{Item: tok.item, Text: text, Width: width, Handle: h, Ascent: m.Ascent, Descent: m.Descent}
		}

		if curWidth+width > availableWidth && len(cur) > 0 {
			flush()
		}
		frag.X = curWidth
		cur = append(cur, frag)
		curWidth += width
	}
	flush()
	return lines
}
