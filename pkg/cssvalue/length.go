// Package cssvalue implements the CSS value model: lengths, colors,
// gradients and the other tagged-variant data the style engine resolves
// against a containing block and a font size.
package cssvalue

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is the tag half of a css length's {keyword, number+unit} variant.
type Unit int

const (
	UnitNone Unit = iota
	UnitAuto
	UnitPercent
	UnitPx
	UnitEm
	UnitRem
	UnitEx
	UnitCh
	UnitPt
	UnitPc
	UnitIn
	UnitCm
	UnitMm
	UnitVw
	UnitVh
	UnitVmin
	UnitVmax
	UnitDpi
	UnitDpcm
)

// Length is a tagged value: either a keyword (auto/none) or a number with
// a unit. The original descriptor is always retained, so a Length can be
// Resolve()d again after a font-size or viewport change without losing
// precision to an earlier pixel rounding.
type Length struct {
	Value float64
	Unit  Unit
}

func Auto() Length       { return Length{Unit: UnitAuto} }
func None() Length       { return Length{Unit: UnitNone} }
func Zero() Length       { return Length{Unit: UnitPx, Value: 0} }
func Px(v float64) Length     { return Length{Value: v, Unit: UnitPx} }
func Em(v float64) Length     { return Length{Value: v, Unit: UnitEm} }
func Rem(v float64) Length    { return Length{Value: v, Unit: UnitRem} }
func Percent(v float64) Length { return Length{Value: v, Unit: UnitPercent} }
func Vw(v float64) Length     { return Length{Value: v, Unit: UnitVw} }
func Vh(v float64) Length     { return Length{Value: v, Unit: UnitVh} }

func (l Length) IsAuto() bool    { return l.Unit == UnitAuto }
func (l Length) IsNone() bool    { return l.Unit == UnitNone }
func (l Length) IsPercent() bool { return l.Unit == UnitPercent }
func (l Length) IsZero() bool    { return l.Unit != UnitAuto && l.Unit != UnitNone && l.Value == 0 }

// ResolveContext carries the basis values a Length needs to become a pixel
// float: the element's own font size, the root element's font size (for
// rem), the containing block's dimensions (for percentages), the
// viewport (for vw/vh/vmin/vmax), and the font metrics used by ch/ex.
type ResolveContext struct {
	FontSize       float64
	RootFontSize   float64
	ParentWidth    float64
	ParentHeight   float64
	ViewportWidth  float64
	ViewportHeight float64
	CharWidth      float64 // advance of "0" in the current font, for ch
	XHeight        float64 // height of lowercase x, for ex
}

// DefaultContext returns a context with a 16px root/default font and a
// 1024x768 viewport, used wherever a value must be resolved before a real
// layout context exists (e.g. parse-time validation).
func DefaultContext() ResolveContext {
	return ResolveContext{
		FontSize:       16,
		RootFontSize:   16,
		ViewportWidth:  1024,
		ViewportHeight: 768,
		CharWidth:      16 * 0.55,
		XHeight:        16 * 0.5,
	}
}

// Resolve returns the pixel value of l against ctx, treating % as relative
// to ctx.ParentWidth. Auto/None resolve to 0 — callers must check IsAuto
// first wherever auto has layout meaning distinct from a zero length.
func (l Length) Resolve(ctx ResolveContext) float64 {
	return l.resolveAgainst(ctx, ctx.ParentWidth)
}

// ResolveHeight resolves l with % relative to ctx.ParentHeight instead.
func (l Length) ResolveHeight(ctx ResolveContext) float64 {
	return l.resolveAgainst(ctx, ctx.ParentHeight)
}

func (l Length) resolveAgainst(ctx ResolveContext, percentBasis float64) float64 {
	switch l.Unit {
	case UnitAuto, UnitNone:
		return 0
	case UnitPx:
		return l.Value
	case UnitPercent:
		return l.Value / 100 * percentBasis
	case UnitEm:
		return l.Value * ctx.FontSize
	case UnitRem:
		return l.Value * ctx.RootFontSize
	case UnitEx:
		return l.Value * ctx.XHeight
	case UnitCh:
		return l.Value * ctx.CharWidth
	case UnitPt:
		return l.Value * 96 / 72
	case UnitPc:
		return l.Value * 16 // 1pc = 12pt = 16px
	case UnitIn:
		return l.Value * 96
	case UnitCm:
		return l.Value * 96 / 2.54
	case UnitMm:
		return l.Value * 96 / 25.4
	case UnitDpi:
		return l.Value
	case UnitDpcm:
		return l.Value
	case UnitVw:
		return l.Value / 100 * ctx.ViewportWidth
	case UnitVh:
		return l.Value / 100 * ctx.ViewportHeight
	case UnitVmin:
		vmin := ctx.ViewportWidth
		if ctx.ViewportHeight < vmin {
			vmin = ctx.ViewportHeight
		}
		return l.Value / 100 * vmin
	case UnitVmax:
		vmax := ctx.ViewportWidth
		if ctx.ViewportHeight > vmax {
			vmax = ctx.ViewportHeight
		}
		return l.Value / 100 * vmax
	}
	return 0
}

func (l Length) String() string {
	switch l.Unit {
	case UnitAuto:
		return "auto"
	case UnitNone:
		return "none"
	case UnitPercent:
		return fmt.Sprintf("%g%%", l.Value)
	}
	suffix := unitSuffixes[l.Unit]
	return fmt.Sprintf("%g%s", l.Value, suffix)
}

var unitSuffixes = map[Unit]string{
	UnitPx: "px", UnitEm: "em", UnitRem: "rem", UnitEx: "ex", UnitCh: "ch",
	UnitPt: "pt", UnitPc: "pc", UnitIn: "in", UnitCm: "cm", UnitMm: "mm",
	UnitVw: "vw", UnitVh: "vh", UnitVmin: "vmin", UnitVmax: "vmax",
	UnitDpi: "dpi", UnitDpcm: "dpcm",
}

var unitSuffixLookup = map[string]Unit{
	"px": UnitPx, "em": UnitEm, "rem": UnitRem, "ex": UnitEx, "ch": UnitCh,
	"pt": UnitPt, "pc": UnitPc, "in": UnitIn, "cm": UnitCm, "mm": UnitMm,
	"vw": UnitVw, "vh": UnitVh, "vmin": UnitVmin, "vmax": UnitVmax,
	"dpi": UnitDpi, "dpcm": UnitDpcm,
}

// ParseLength parses a CSS length or percentage token such as "10px",
// "1.5em", "50%", "auto", or a bare "0". Unitless non-zero numbers are
// invalid CSS for length properties, but ParseLength does not reject
// them: it tolerantly treats a bare number as px, the reading old HTML
// `width="100"` attributes need.
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "auto":
		return Auto(), nil
	case "none":
		return None(), nil
	case "", "0":
		return Zero(), nil
	}
	if strings.HasSuffix(s, "%") {
		n, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return Length{}, fmt.Errorf("cssvalue: invalid percentage %q: %w", s, err)
		}
		return Percent(n), nil
	}
	// Longest-suffix-first so "vmax"/"vmin" aren't shadowed by "m"-less units.
	for _, suffix := range []string{"vmax", "vmin", "dpcm", "rem", "dpi", "vw", "vh", "px", "em", "ex", "ch", "pt", "pc", "in", "cm", "mm"} {
		if strings.HasSuffix(s, suffix) {
			n, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, suffix)), 64)
			if err != nil {
				continue
			}
			return Length{Value: n, Unit: unitSuffixLookup[suffix]}, nil
		}
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Length{}, fmt.Errorf("cssvalue: invalid length %q: %w", s, err)
	}
	return Px(n), nil
}
