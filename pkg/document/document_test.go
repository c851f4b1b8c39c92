package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htmlcore/pkg/container"
	"htmlcore/pkg/cssvalue"
	"htmlcore/pkg/layout"
)

// fakeContainer is a minimal container.Container that hands back
// plausible, deterministic measurements: 8px-per-character text
// widths and font metrics proportional to the font size, with no
// actual rasterization.
type fakeContainer struct {
	clientW, clientH int
	lang, culture    string
}

func newFakeContainer() *fakeContainer { return &fakeContainer{clientW: 800, clientH: 600, lang: "en"} }

func (f *fakeContainer) CreateFont(family string, size float64, weight, style, decoration string) (container.FontHandle, container.FontMetrics) {
	return container.FontHandle(1), container.FontMetrics{Ascent: size * 0.8, Descent: size * 0.2, Height: size * 1.2, XHeight: size * 0.5, CharWidth: size * 0.6}
}
func (f *fakeContainer) DeleteFont(container.FontHandle) {}
func (f *fakeContainer) TextWidth(text string, h container.FontHandle) float64 {
	return float64(len(text)) * 8
}
func (f *fakeContainer) DrawText(container.DrawContext, string, container.FontHandle, cssvalue.Color, container.Point, float64) {
}
func (f *fakeContainer) PtToPx(pt float64) float64  { return pt * 96 / 72 }
func (f *fakeContainer) DefaultFontSize() float64   { return 16 }
func (f *fakeContainer) DefaultFontName() string    { return "sans-serif" }
func (f *fakeContainer) DrawListMarker(container.DrawContext, container.ListMarker) {}
func (f *fakeContainer) DrawSolidFill(container.DrawContext, cssvalue.BackgroundLayer, cssvalue.Color, container.Rect) {
}
func (f *fakeContainer) DrawImage(container.DrawContext, cssvalue.BackgroundLayer, string, string, container.Rect) {
}
func (f *fakeContainer) DrawLinearGradient(container.DrawContext, cssvalue.BackgroundLayer, cssvalue.Gradient, container.Rect) {
}
func (f *fakeContainer) DrawBorders(container.DrawContext, container.Borders, container.Rect, bool) {
}
func (f *fakeContainer) LoadImage(src, baseURL string, redrawOnReady func())    {}
func (f *fakeContainer) GetImageSize(src, baseURL string) container.Size       { return container.Size{} }
func (f *fakeContainer) ImportCSS(url, baseURL string) (string, string)        { return "", baseURL }
func (f *fakeContainer) SetCaption(string)                                     {}
func (f *fakeContainer) SetBaseURL(string)                                     {}
func (f *fakeContainer) Link(rel, href, media string)                          {}
func (f *fakeContainer) OnAnchorClick(url string, elementID string)            {}
func (f *fakeContainer) SetCursor(string)                                      {}
func (f *fakeContainer) TransformText(text string, kind container.TextTransformKind) string {
	return text
}
func (f *fakeContainer) SetClip(container.Rect, cssvalue.Corners, bool, bool) {}
func (f *fakeContainer) DelClip()                                            {}
func (f *fakeContainer) GetClientRect() container.Rect {
	return container.Rect{W: f.clientW, H: f.clientH}
}
func (f *fakeContainer) GetMediaFeatures() container.MediaFeatures {
	return container.MediaFeatures{Width: float64(f.clientW), Height: float64(f.clientH)}
}
func (f *fakeContainer) GetLanguage() (string, string) { return f.lang, f.culture }

func TestCreateFromString_NilContainerFails(t *testing.T) {
	_, err := CreateFromString("<html></html>", nil, "")
	require.Error(t, err)
}

func TestRender_EmptyBodySizing(t *testing.T) {
	doc, err := CreateFromString(`<!doctype html><html><body></body></html>`, newFakeContainer(), "")
	require.NoError(t, err)

	width := doc.Render(800, RenderAll)
	assert.Equal(t, float64(800), width)
	assert.Equal(t, 0, doc.Height())
}

func TestRender_CenteredBlock(t *testing.T) {
	doc, err := CreateFromString(`<div style="width:100px;margin:auto">x</div>`, newFakeContainer(), "")
	require.NoError(t, err)

	doc.Render(500, RenderAll)
	div := findItemByTag(doc.tree, "div")
	require.NotNil(t, div)
	assert.Equal(t, float64(100), div.ContentWidth)
	assert.Equal(t, float64(200), div.X)
}

func findItemByTag(it *layout.Item, tag string) *layout.Item {
	if it == nil {
		return nil
	}
	if it.Node != nil && it.Node.TagName == tag {
		return it
	}
	for _, child := range it.Children {
		if found := findItemByTag(child, tag); found != nil {
			return found
		}
	}
	return nil
}

func TestRender_IsDeterministic(t *testing.T) {
	doc, err := CreateFromString(`<div style="width:100px;margin:auto">x</div>`, newFakeContainer(), "")
	require.NoError(t, err)

	w1 := doc.Render(500, RenderAll)
	w2 := doc.Render(500, RenderAll)
	assert.Equal(t, w1, w2)
}

func TestLangChanged_NoopWhenUnchanged(t *testing.T) {
	doc, err := CreateFromString(`<html lang="en"></html>`, newFakeContainer(), "")
	require.NoError(t, err)
	assert.False(t, doc.LangChanged())
}

func TestOnMouseOver_TogglesHover(t *testing.T) {
	doc, err := CreateFromString(`<style>a:hover{color:red}</style><a href="#">x</a>`, newFakeContainer(), "")
	require.NoError(t, err)
	doc.Render(200, RenderAll)

	boxes, changed := doc.OnMouseOver(2, 2, 2, 2)
	assert.True(t, changed)
	assert.NotEmpty(t, boxes)
}
