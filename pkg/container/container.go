// Package container defines the narrow callback surface (spec.md §6)
// through which the core delegates every service it does not itself
// own: fonts, rasterization, image decoding, resource fetching,
// navigation and the handful of miscellaneous host hooks. The core
// never imports a rasterizer, an HTTP client, or a font library itself
// — every concrete implementation of this interface lives outside the
// core, in the embedding application.
package container

import "htmlcore/pkg/cssvalue"

// FontHandle is an opaque value the container hands back from
// CreateFont; the engine never interprets it, only threads it through
// TextWidth/DrawText/DeleteFont calls.
type FontHandle uintptr

// FontMetrics is the set of font-derived basis values the style engine
// needs to resolve em/ex/ch lengths and line-height (spec.md §3's
// length-resolution basis set).
type FontMetrics struct {
	Ascent    float64
	Descent   float64
	Height    float64
	XHeight   float64
	CharWidth float64 // advance width of "0", the ch-unit basis
}

// Point is an integer device-space coordinate pair.
type Point struct{ X, Y int }

// Size is an integer device-space width/height pair.
type Size struct{ W, H int }

// Rect is an integer device-space axis-aligned rectangle.
type Rect struct {
	X, Y, W, H int
}

// MediaFeatures mirrors css.MediaFeatures without importing css (the
// container package sits below css in the dependency order: css
// doesn't need Container, but a reference implementation of Container
// does need css.MediaFeatures — so this type is the container-side
// copy get_media_features populates, which callers translate into
// css.MediaFeatures at the boundary).
type MediaFeatures struct {
	Width, Height             float64
	DeviceWidth, DeviceHeight float64
	Resolution                float64
	Orientation               string
}

// TextTransformKind names the transform_text() operation a container
// must apply before measuring/drawing transformed text (spec.md §6's
// "transform_text(inout_text, transform_kind)").
type TextTransformKind int

const (
	TextTransformNone TextTransformKind = iota
	TextTransformUppercase
	TextTransformLowercase
	TextTransformCapitalize
)

// ListMarker is the resolved marker the layout engine asks a container
// to draw for a list-item box (spec.md §6's draw_list_marker, and the
// marker-text mapping supplemented in SPEC_FULL.md §5.2).
type ListMarker struct {
	Kind     string // disc | circle | square | decimal | lower-alpha | ...
	Text     string // pre-rendered marker text for non-glyph kinds (decimal, alpha, roman)
	Position Rect
	Color    cssvalue.Color
	FontSize float64
}

// Borders carries the four resolved edge widths/styles/colors and the
// eight border-radius lengths a draw_borders call needs, already
// resolved to device pixels by the layout engine.
type Borders struct {
	Width  cssvalue.Edges
	Color  [4]cssvalue.Color
	Style  [4]string
	Radius cssvalue.Corners
}

// Container is the full embedder callback surface of spec.md §6,
// grouped the way the spec itself groups it (font/units/drawing/
// resources/navigation/misc). The engine holds one Container per
// Document and never retains state the container itself owns (font
// handles, image handles): it calls DeleteFont for every handle it
// created at document teardown (spec.md §5's font-handle lifecycle).
type Container interface {
	// --- Font ---
	CreateFont(family string, size float64, weight, style, decoration string) (FontHandle, FontMetrics)
	DeleteFont(h FontHandle)
	TextWidth(text string, h FontHandle) float64
	DrawText(ctx DrawContext, text string, h FontHandle, color cssvalue.Color, pos Point, opacity float64)

	// --- Units ---
	PtToPx(pt float64) float64
	DefaultFontSize() float64
	DefaultFontName() string

	// --- Drawing ---
	DrawListMarker(ctx DrawContext, marker ListMarker)
	DrawSolidFill(ctx DrawContext, layer cssvalue.BackgroundLayer, color cssvalue.Color, area Rect)
	DrawImage(ctx DrawContext, layer cssvalue.BackgroundLayer, url, baseURL string, area Rect)
	DrawLinearGradient(ctx DrawContext, layer cssvalue.BackgroundLayer, gradient cssvalue.Gradient, area Rect)
	DrawBorders(ctx DrawContext, borders Borders, pos Rect, isRoot bool)

	// --- Resources ---
	LoadImage(src, baseURL string, redrawOnReady func())
	GetImageSize(src, baseURL string) Size
	ImportCSS(url, baseURL string) (text string, resolvedBaseURL string)

	// --- Navigation ---
	SetCaption(caption string)
	SetBaseURL(url string)
	Link(rel, href, media string)
	OnAnchorClick(url string, elementID string)
	SetCursor(cursor string)

	// --- Misc ---
	TransformText(text string, kind TextTransformKind) string
	SetClip(pos Rect, radius cssvalue.Corners, clipX, clipY bool)
	DelClip()
	GetClientRect() Rect
	GetMediaFeatures() MediaFeatures
	GetLanguage() (lang, culture string)
}

// DrawContext is an opaque per-call drawing handle the container
// defines the concrete meaning of (a canvas, a cairo context, a frame
// buffer): the engine passes it through unexamined from Draw down to
// every DrawX call within one paint pass.
type DrawContext interface{}
