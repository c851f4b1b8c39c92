package layout

import (
	"strconv"

	"htmlcore/pkg/container"
	"htmlcore/pkg/cssvalue"
)

// ListMarkerText returns the rendered text of it's list marker per its
// `list-style-type`, or "" (with ok false) if the element has none or
// list-style-type:none (spec.md §4.5 point 4). ordinal is the item's
// 1-based position among its list siblings (drawListMarker passes
// listItemNumber; CSS counters are not consulted).
func ListMarkerText(it *Item, ordinal int) (string, bool) {
	if it.Style == nil || it.Style.ListStyleType == "none" {
		return "", false
	}
	switch it.Style.ListStyleType {
	case "disc", "":
		return "•", true
	case "circle":
		return "○", true
	case "square":
		return "■", true
	case "decimal":
		return strconv.Itoa(ordinal) + ".", true
	case "lower-alpha", "lower-latin":
		return alphaMarker(ordinal, "abcdefghijklmnopqrstuvwxyz") + ".", true
	case "upper-alpha", "upper-latin":
		return alphaMarker(ordinal, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") + ".", true
	case "lower-roman":
		return toRoman(ordinal, false) + ".", true
	case "upper-roman":
		return toRoman(ordinal, true) + ".", true
	default:
		return string(it.Style.ListStyleType), true
	}
}

func alphaMarker(n int, alphabet string) string {
	if n <= 0 {
		return ""
	}
	var out []byte
	for n > 0 {
		n--
		out = append([]byte{alphabet[n%26]}, out...)
		n /= 26
	}
	return string(out)
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
	{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
	{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
}

func toRoman(n int, upper bool) string {
	if n <= 0 {
		return ""
	}
	var out string
	for _, r := range romanTable {
		for n >= r.value {
			out += r.symbol
			n -= r.value
		}
	}
	if upper {
		return toUpperASCII(out)
	}
	return out
}

func toUpperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

// LayoutListMarker measures it's list marker box, placed outside the
// principal box to its left (CSS 2.1 §12.5.1's "outside" position).
// Markers with list-style-position: inside are not measured or drawn
// anywhere; drawListMarker skips them.
func LayoutListMarker(it *Item, ordinal int, c container.Container) (text string, width, height float64, ok bool) {
	text, ok = ListMarkerText(it, ordinal)
	if !ok {
		return "", 0, 0, false
	}
	style := it.Style
	handle, metrics := c.CreateFont(style.FontFamily, style.FontSize, style.FontWeight, style.FontStyle, "none")
	defer c.DeleteFont(handle)
	width = c.TextWidth(text, handle)
	height = metrics.Height
	return text, width, height, true
}

// markerSpacing is the gap CSS 2.1 typically renders between an
// outside marker and the content it precedes, expressed relative to
// the element's own font size.
func markerSpacing(style *cssvalue.ComputedStyle) float64 {
	return style.FontSize * 0.5
}
