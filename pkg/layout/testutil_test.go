package layout

import (
	"htmlcore/pkg/container"
	"htmlcore/pkg/cssvalue"
)

// fakeContainer is a minimal container.Container with deterministic,
// plausible measurements (8px per character, a fixed font-metrics
// ratio), following the same pattern as pkg/document's test double.
type fakeContainer struct{}

func newFakeContainer() *fakeContainer { return &fakeContainer{} }

func (f *fakeContainer) CreateFont(family string, size float64, weight, style, decoration string) (container.FontHandle, container.FontMetrics) {
	return container.FontHandle(1), container.FontMetrics{Ascent: size * 0.8, Descent: size * 0.2, Height: size * 1.2, XHeight: size * 0.5, CharWidth: size * 0.6}
}
func (f *fakeContainer) DeleteFont(container.FontHandle) {}
func (f *fakeContainer) TextWidth(text string, h container.FontHandle) float64 {
	return float64(len(text)) * 8
}
func (f *fakeContainer) DrawText(container.DrawContext, string, container.FontHandle, cssvalue.Color, container.Point, float64) {
}
func (f *fakeContainer) PtToPx(pt float64) float64 { return pt * 96 / 72 }
func (f *fakeContainer) DefaultFontSize() float64  { return 16 }
func (f *fakeContainer) DefaultFontName() string   { return "sans-serif" }
func (f *fakeContainer) DrawListMarker(container.DrawContext, container.ListMarker) {}
func (f *fakeContainer) DrawSolidFill(container.DrawContext, cssvalue.BackgroundLayer, cssvalue.Color, container.Rect) {
}
func (f *fakeContainer) DrawImage(container.DrawContext, cssvalue.BackgroundLayer, string, string, container.Rect) {
}
func (f *fakeContainer) DrawLinearGradient(container.DrawContext, cssvalue.BackgroundLayer, cssvalue.Gradient, container.Rect) {
}
func (f *fakeContainer) DrawBorders(container.DrawContext, container.Borders, container.Rect, bool) {
}
func (f *fakeContainer) LoadImage(src, baseURL string, redrawOnReady func()) {}
func (f *fakeContainer) GetImageSize(src, baseURL string) container.Size    { return container.Size{} }
func (f *fakeContainer) ImportCSS(url, baseURL string) (string, string)     { return "", baseURL }
func (f *fakeContainer) SetCaption(string)                                  {}
func (f *fakeContainer) SetBaseURL(string)                                  {}
func (f *fakeContainer) Link(rel, href, media string)                      {}
func (f *fakeContainer) OnAnchorClick(url string, elementID string)        {}
func (f *fakeContainer) SetCursor(string)                                  {}
func (f *fakeContainer) TransformText(text string, kind container.TextTransformKind) string {
	return text
}
func (f *fakeContainer) SetClip(container.Rect, cssvalue.Corners, bool, bool) {}
func (f *fakeContainer) DelClip()                                            {}
func (f *fakeContainer) GetClientRect() container.Rect                       { return container.Rect{W: 800, H: 600} }
func (f *fakeContainer) GetMediaFeatures() container.MediaFeatures {
	return container.MediaFeatures{Width: 800, Height: 600}
}
func (f *fakeContainer) GetLanguage() (string, string) { return "en", "" }

var testCtx = cssvalue.ResolveContext{FontSize: 16, RootFontSize: 16, ViewportWidth: 1024, ViewportHeight: 768}

// blockItem returns a plain block-level Item with the given content box
// size, zero margin/padding/border, ready to drop straight into a
// render-item tree under test without going through the full cascade.
func blockItem(width, height float64) *Item {
	it := &Item{Kind: ItemBlock, Style: cssvalue.NewComputedStyle()}
	it.Style.Display = cssvalue.DisplayBlock
	it.ContentWidth = width
	it.ContentHeight = height
	return it
}

func withMargin(it *Item, top, right, bottom, left cssvalue.Length) *Item {
	it.Style.Margin = cssvalue.Edges{Top: top, Right: right, Bottom: bottom, Left: left}
	return it
}
