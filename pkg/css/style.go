package css

import (
	"strconv"
	"strings"

	"htmlcore/pkg/cssvalue"
)

// ApplyDeclaration mutates style in place for one property:value pair,
// expanding shorthands (margin/padding/border/background/font/list-style/
// border-radius) into their longhand fields per spec.md §4.2's expansion
// rules. Properties it doesn't recognize are silently ignored, per
// spec.md §7's "unsupported_property: silently ignored".
func ApplyDeclaration(style *cssvalue.ComputedStyle, prop, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	switch prop {
	case "display":
		style.Display = cssvalue.Display(value)
	case "position":
		style.Position = cssvalue.Position(value)
	case "float":
		style.Float = cssvalue.Float(value)
	case "clear":
		style.Clear = cssvalue.Clear(value)
	case "overflow":
		style.Overflow = value
	case "visibility":
		style.Visibility = value
	case "z-index":
		if value == "auto" {
			style.ZIndexSet = false
			return
		}
		if n, err := strconv.Atoi(value); err == nil {
			style.ZIndex = n
			style.ZIndexSet = true
		}
	case "text-align":
		style.TextAlign = value
	case "vertical-align":
		style.VerticalAlign = value
	case "white-space":
		style.WhiteSpace = value
	case "text-transform":
		style.TextTransform = value
	case "box-sizing":
		style.BoxSizing = value

	case "font-family":
		style.FontFamily = value
	case "font-size":
		applyFontSize(style, value)
	case "font-weight":
		style.FontWeight = value
	case "font-style":
		style.FontStyle = value
	case "font":
		applyFontShorthand(style, value)
	case "line-height":
		applyLineHeight(style, value)
	case "letter-spacing":
		style.LetterSpacing = mustLength(value)
	case "word-spacing":
		style.WordSpacing = mustLength(value)

	case "list-style-type":
		style.ListStyleType = value
	case "list-style-position":
		style.ListStylePosition = value
	case "list-style":
		applyListStyleShorthand(style, value)

	case "width":
		style.Width = mustLength(value)
	case "height":
		style.Height = mustLength(value)
	case "min-width":
		style.MinWidth = mustLength(value)
	case "min-height":
		style.MinHeight = mustLength(value)
	case "max-width":
		style.MaxWidth = mustLength(value)
	case "max-height":
		style.MaxHeight = mustLength(value)

	case "margin":
		applyBoxShorthand(value, &style.Margin)
	case "margin-top":
		style.Margin.Top = mustLength(value)
	case "margin-right":
		style.Margin.Right = mustLength(value)
	case "margin-bottom":
		style.Margin.Bottom = mustLength(value)
	case "margin-left":
		style.Margin.Left = mustLength(value)

	case "padding":
		applyBoxShorthand(value, &style.Padding)
	case "padding-top":
		style.Padding.Top = mustLength(value)
	case "padding-right":
		style.Padding.Right = mustLength(value)
	case "padding-bottom":
		style.Padding.Bottom = mustLength(value)
	case "padding-left":
		style.Padding.Left = mustLength(value)

	case "top":
		style.Top = mustLength(value)
	case "right":
		style.Right = mustLength(value)
	case "bottom":
		style.Bottom = mustLength(value)
	case "left":
		style.Left = mustLength(value)

	case "border":
		applyBorderShorthand(style, value, 0, 1, 2, 3)
	case "border-top":
		applyBorderShorthand(style, value, 0)
	case "border-right":
		applyBorderShorthand(style, value, 1)
	case "border-bottom":
		applyBorderShorthand(style, value, 2)
	case "border-left":
		applyBorderShorthand(style, value, 3)
	case "border-width":
		applyBorderWidthShorthand(style, value)
	case "border-style":
		applyQuadShorthandString(value, &style.BorderStyle)
	case "border-color":
		applyQuadShorthandColor(value, &style.BorderColor)
	case "border-top-width":
		style.BorderWidth.Top = mustLength(value)
	case "border-right-width":
		style.BorderWidth.Right = mustLength(value)
	case "border-bottom-width":
		style.BorderWidth.Bottom = mustLength(value)
	case "border-left-width":
		style.BorderWidth.Left = mustLength(value)
	case "border-top-style":
		style.BorderStyle[0] = value
	case "border-right-style":
		style.BorderStyle[1] = value
	case "border-bottom-style":
		style.BorderStyle[2] = value
	case "border-left-style":
		style.BorderStyle[3] = value
	case "border-top-color":
		style.BorderColor[0] = mustColor(value)
	case "border-right-color":
		style.BorderColor[1] = mustColor(value)
	case "border-bottom-color":
		style.BorderColor[2] = mustColor(value)
	case "border-left-color":
		style.BorderColor[3] = mustColor(value)
	case "border-radius":
		applyBorderRadiusShorthand(style, value)
	case "border-collapse":
		style.BorderCollapse = value
	case "border-spacing":
		applyBorderSpacing(style, value)

	case "color":
		style.Color = mustColor(value)
	case "background-color":
		style.BackgroundColor = mustColor(value)
	case "background":
		applyBackgroundShorthand(style, value)
	case "opacity":
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			style.Opacity = f
		}
	case "cursor":
		style.Cursor = value

	case "flex-direction":
		style.FlexDirection = value
	case "flex-wrap":
		style.FlexWrap = value
	case "justify-content":
		style.JustifyContent = value
	case "align-items":
		style.AlignItems = value
	case "align-content":
		style.AlignContent = value
	case "align-self":
		style.AlignSelf = value
	case "gap":
		style.Gap = mustLength(value)
	case "flex-grow":
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			style.FlexGrow = f
		}
	case "flex-shrink":
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			style.FlexShrink = f
		}
	case "flex-basis":
		style.FlexBasis = mustLength(value)
	case "order":
		if n, err := strconv.Atoi(value); err == nil {
			style.Order = n
		}
	case "flex":
		applyFlexShorthand(style, value)

	case "counter-reset":
		style.CounterReset = parseCounterList(value, 0)
	case "counter-increment":
		style.CounterIncrement = parseCounterList(value, 1)
	}
}

func mustLength(value string) cssvalue.Length {
	l, err := cssvalue.ParseLength(value)
	if err != nil {
		return cssvalue.Auto()
	}
	return l
}

func mustColor(value string) cssvalue.Color {
	c, err := cssvalue.ParseColor(value)
	if err != nil {
		return cssvalue.Black()
	}
	return c
}

// applyBoxShorthand implements the N=1..4 margin/padding expansion rule
// of spec.md §4.2.
func applyBoxShorthand(value string, edges *cssvalue.Edges) {
	parts := strings.Fields(value)
	lengths := make([]cssvalue.Length, len(parts))
	for i, p := range parts {
		lengths[i] = mustLength(p)
	}
	switch len(lengths) {
	case 1:
		edges.Top, edges.Right, edges.Bottom, edges.Left = lengths[0], lengths[0], lengths[0], lengths[0]
	case 2:
		edges.Top, edges.Bottom = lengths[0], lengths[0]
		edges.Right, edges.Left = lengths[1], lengths[1]
	case 3:
		edges.Top = lengths[0]
		edges.Right, edges.Left = lengths[1], lengths[1]
		edges.Bottom = lengths[2]
	case 4:
		edges.Top, edges.Right, edges.Bottom, edges.Left = lengths[0], lengths[1], lengths[2], lengths[3]
	}
}

func applyQuadShorthandString(value string, quad *[4]string) {
	parts := strings.Fields(value)
	switch len(parts) {
	case 1:
		quad[0], quad[1], quad[2], quad[3] = parts[0], parts[0], parts[0], parts[0]
	case 2:
		quad[0], quad[2] = parts[0], parts[0]
		quad[1], quad[3] = parts[1], parts[1]
	case 3:
		quad[0] = parts[0]
		quad[1], quad[3] = parts[1], parts[1]
		quad[2] = parts[2]
	case 4:
		quad[0], quad[1], quad[2], quad[3] = parts[0], parts[1], parts[2], parts[3]
	}
}

func applyQuadShorthandColor(value string, quad *[4]cssvalue.Color) {
	parts := strings.Fields(value)
	cols := make([]cssvalue.Color, len(parts))
	for i, p := range parts {
		cols[i] = mustColor(p)
	}
	switch len(cols) {
	case 1:
		quad[0], quad[1], quad[2], quad[3] = cols[0], cols[0], cols[0], cols[0]
	case 2:
		quad[0], quad[2] = cols[0], cols[0]
		quad[1], quad[3] = cols[1], cols[1]
	case 3:
		quad[0] = cols[0]
		quad[1], quad[3] = cols[1], cols[1]
		quad[2] = cols[2]
	case 4:
		quad[0], quad[1], quad[2], quad[3] = cols[0], cols[1], cols[2], cols[3]
	}
}

var borderStyleKeywords = map[string]bool{
	"none": true, "hidden": true, "dotted": true, "dashed": true, "solid": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

// applyBorderShorthand parses "<width> <style> <color>" in any order into
// the given edge indices (0=top,1=right,2=bottom,3=left); border (no
// suffix) passes all four.
func applyBorderShorthand(style *cssvalue.ComputedStyle, value string, edges ...int) {
	for _, tok := range strings.Fields(value) {
		switch {
		case borderStyleKeywords[tok]:
			for _, e := range edges {
				style.BorderStyle[e] = tok
			}
		case isLikelyColor(tok):
			c := mustColor(tok)
			for _, e := range edges {
				style.BorderColor[e] = c
			}
		default:
			l := mustLength(tok)
			for _, e := range edges {
				setEdge(&style.BorderWidth, e, l)
			}
		}
	}
}

func isLikelyColor(tok string) bool {
	if strings.HasPrefix(tok, "#") || strings.Contains(tok, "(") {
		return true
	}
	_, err := cssvalue.ParseColor(tok)
	return err == nil
}

func setEdge(e *cssvalue.Edges, i int, l cssvalue.Length) {
	switch i {
	case 0:
		e.Top = l
	case 1:
		e.Right = l
	case 2:
		e.Bottom = l
	case 3:
		e.Left = l
	}
}

func applyBorderWidthShorthand(style *cssvalue.ComputedStyle, value string) {
	applyBoxShorthand(value, &style.BorderWidth)
}

func applyBorderSpacing(style *cssvalue.ComputedStyle, value string) {
	parts := strings.Fields(value)
	if len(parts) == 0 {
		return
	}
	style.BorderSpacingX = mustLength(parts[0])
	if len(parts) >= 2 {
		style.BorderSpacingY = mustLength(parts[1])
	} else {
		style.BorderSpacingY = style.BorderSpacingX
	}
}

// applyBorderRadiusShorthand supports "border-radius: 4px" and the
// "/ " horizontal/vertical-radii split form; per-corner x/y always mirror
// each other when only one radius group is given.
func applyBorderRadiusShorthand(style *cssvalue.ComputedStyle, value string) {
	groups := strings.SplitN(value, "/", 2)
	xs := strings.Fields(groups[0])
	ys := xs
	if len(groups) == 2 {
		ys = strings.Fields(groups[1])
	}
	xv := expandFour(xs)
	yv := expandFour(ys)
	style.BorderRadius = cssvalue.Corners{
		TopLeftX: mustLength(xv[0]), TopLeftY: mustLength(yv[0]),
		TopRightX: mustLength(xv[1]), TopRightY: mustLength(yv[1]),
		BottomRightX: mustLength(xv[2]), BottomRightY: mustLength(yv[2]),
		BottomLeftX: mustLength(xv[3]), BottomLeftY: mustLength(yv[3]),
	}
}

func expandFour(parts []string) [4]string {
	var out [4]string
	switch len(parts) {
	case 0:
		out = [4]string{"0", "0", "0", "0"}
	case 1:
		out = [4]string{parts[0], parts[0], parts[0], parts[0]}
	case 2:
		out = [4]string{parts[0], parts[1], parts[0], parts[1]}
	case 3:
		out = [4]string{parts[0], parts[1], parts[2], parts[1]}
	default:
		out = [4]string{parts[0], parts[1], parts[2], parts[3]}
	}
	return out
}

func applyFontSize(style *cssvalue.ComputedStyle, value string) {
	if px, ok := resolveFontSizeKeyword(value, style.FontSize); ok {
		style.FontSize = px
		return
	}
	l := mustLength(value)
	ctx := cssvalue.DefaultContext()
	ctx.FontSize = style.FontSize
	ctx.ParentWidth = style.FontSize // em-relative to current, not % of container
	if l.IsPercent() {
		style.FontSize = l.Value / 100 * style.FontSize
		return
	}
	style.FontSize = l.Resolve(ctx)
}

func applyFontShorthand(style *cssvalue.ComputedStyle, value string) {
	for _, tok := range strings.Fields(value) {
		switch {
		case tok == "bold" || tok == "normal" || tok == "lighter" || tok == "bolder":
			style.FontWeight = tok
		case tok == "italic" || tok == "oblique":
			style.FontStyle = tok
		case strings.Contains(tok, "/"):
			parts := strings.SplitN(tok, "/", 2)
			applyFontSize(style, parts[0])
			applyLineHeight(style, parts[1])
		default:
			if _, err := cssvalue.ParseLength(tok); err == nil {
				applyFontSize(style, tok)
			} else {
				style.FontFamily = tok
			}
		}
	}
}

func applyLineHeight(style *cssvalue.ComputedStyle, value string) {
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		style.LineHeight = f
		style.LineHeightIsUnitless = true
		return
	}
	l := mustLength(value)
	ctx := cssvalue.DefaultContext()
	ctx.FontSize = style.FontSize
	style.LineHeight = l.Resolve(ctx)
	style.LineHeightIsUnitless = false
}

func applyListStyleShorthand(style *cssvalue.ComputedStyle, value string) {
	for _, tok := range strings.Fields(value) {
		switch tok {
		case "inside", "outside":
			style.ListStylePosition = tok
		case "none":
			style.ListStyleType = "none"
		default:
			style.ListStyleType = tok
		}
	}
}

func applyFlexShorthand(style *cssvalue.ComputedStyle, value string) {
	if value == "none" {
		style.FlexGrow, style.FlexShrink, style.FlexBasis = 0, 0, cssvalue.Auto()
		return
	}
	parts := strings.Fields(value)
	if len(parts) == 1 {
		if f, err := strconv.ParseFloat(parts[0], 64); err == nil {
			style.FlexGrow = f
			style.FlexShrink = 1
			style.FlexBasis = cssvalue.Zero()
			return
		}
		style.FlexBasis = mustLength(parts[0])
		return
	}
	if f, err := strconv.ParseFloat(parts[0], 64); err == nil {
		style.FlexGrow = f
	}
	idx := 1
	if idx < len(parts) {
		if f, err := strconv.ParseFloat(parts[idx], 64); err == nil {
			style.FlexShrink = f
			idx++
		}
	}
	if idx < len(parts) {
		style.FlexBasis = mustLength(parts[idx])
	}
}

func applyBackgroundShorthand(style *cssvalue.ComputedStyle, value string) {
	layer := cssvalue.BackgroundLayer{Repeat: "repeat", Attachment: "scroll", Clip: "border-box", Origin: "padding-box"}
	for _, tok := range strings.Fields(value) {
		switch {
		case strings.HasPrefix(tok, "url("):
			layer.ImageURL = strings.TrimSuffix(strings.TrimPrefix(tok, "url("), ")")
			layer.ImageURL = strings.Trim(layer.ImageURL, `"'`)
		case tok == "repeat" || tok == "repeat-x" || tok == "repeat-y" || tok == "no-repeat":
			layer.Repeat = tok
		case tok == "fixed" || tok == "scroll" || tok == "local":
			layer.Attachment = tok
		case tok == "border-box" || tok == "padding-box" || tok == "content-box":
			layer.Clip = tok
			layer.Origin = tok
		default:
			if isLikelyColor(tok) {
				style.BackgroundColor = mustColor(tok)
			}
		}
	}
	if layer.ImageURL != "" {
		style.Background = append(style.Background, layer)
	}
}
