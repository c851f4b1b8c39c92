package layout

import (
	"strings"

	"htmlcore/pkg/container"
	"htmlcore/pkg/cssvalue"
)

// IntrinsicSizes is the {min-content, max-content} pair
// spec.md §4.6 uses for shrink-to-fit width resolution (auto-width
// floats, inline-blocks, absolutely positioned boxes with both left
// and right auto, and table columns).
type IntrinsicSizes struct {
	MinContent float64
	MaxContent float64
}

// ShrinkToFitWidth implements CSS 2.1 §10.3.5's algorithm: clamp the
// available width into [MinContent, MaxContent].
func (s IntrinsicSizes) ShrinkToFitWidth(available float64) float64 {
	if available < s.MinContent {
		return s.MinContent
	}
	if available > s.MaxContent {
		return s.MaxContent
	}
	return available
}

// fontHandleFor creates (and the caller is expected to later release)
// the container font handle matching it's computed font properties.
func fontHandleFor(it *Item, c container.Container) (container.FontHandle, container.FontMetrics) {
	return c.CreateFont(it.Style.FontFamily, it.Style.FontSize, it.Style.FontWeight, it.Style.FontStyle, "none")
}

// ComputeIntrinsicSizes returns it's content-box min/max-content width,
// recursing into children per spec.md §4.6: text measures its longest
// unbreakable word (min) and full run (max) through the embedder's text
// metrics; an inline container's children sum horizontally; a block
// container's children take the widest single child.
func ComputeIntrinsicSizes(it *Item, c container.Container) IntrinsicSizes {
	if it.Style != nil && !it.Style.Width.IsAuto() {
		w := it.Style.Width.Resolve(cssvalue.ResolveContext{})
		pad := it.Padding.Left.Value + it.Padding.Right.Value
		border := it.Border.Left.Value + it.Border.Right.Value
		total := w + pad + border
		return IntrinsicSizes{MinContent: total, MaxContent: total}
	}

	switch it.Kind {
	case ItemText:
		return computeTextIntrinsic(it, c)
	case ItemReplaced:
		return IntrinsicSizes{MinContent: it.IntrinsicWidth, MaxContent: it.IntrinsicWidth}
	}

	hasBlockChild := false
	for _, child := range it.Children {
		if child.IsBlockLevel() {
			hasBlockChild = true
			break
		}
	}

	var result IntrinsicSizes
	if hasBlockChild || it.IsBlockLevel() {
		for _, child := range it.Children {
			cs := ComputeIntrinsicSizes(child, c)
			if cs.MinContent > result.MinContent {
				result.MinContent = cs.MinContent
			}
			if cs.MaxContent > result.MaxContent {
				result.MaxContent = cs.MaxContent
			}
		}
	} else {
		var runMax float64
		for _, child := range it.Children {
			cs := ComputeIntrinsicSizes(child, c)
			if cs.MinContent > result.MinContent {
				result.MinContent = cs.MinContent
			}
			runMax += cs.MaxContent
		}
		result.MaxContent = runMax
	}

	if it.Style != nil {
		pad := it.Padding.Left.Value + it.Padding.Right.Value
		border := it.Border.Left.Value + it.Border.Right.Value
		result.MinContent += pad + border
		result.MaxContent += pad + border
	}
	return result
}

func computeTextIntrinsic(it *Item, c container.Container) IntrinsicSizes {
	handle, _ := fontHandleFor(it, c)
	defer c.DeleteFont(handle)

	text := collapseWhitespaceForMeasurement(it.Text, it.Style)
	maxWidth := c.TextWidth(text, handle)

	words := strings.Fields(text)
	var minWidth float64
	for _, w := range words {
		if ww := c.TextWidth(w, handle); ww > minWidth {
			minWidth = ww
		}
	}
	if len(words) == 0 {
		return IntrinsicSizes{}
	}
	return IntrinsicSizes{MinContent: minWidth, MaxContent: maxWidth}
}

// collapseWhitespaceForMeasurement applies the subset of `white-space`
// semantics that affects intrinsic sizing: runs of whitespace collapse
// to a single space unless `pre`/`pre-wrap` preserve them verbatim.
func collapseWhitespaceForMeasurement(text string, style *cssvalue.ComputedStyle) string {
	if style != nil && (style.WhiteSpace == "pre" || style.WhiteSpace == "pre-wrap") {
		return text
	}
	fields := strings.Fields(text)
	return strings.Join(fields, " ")
}
