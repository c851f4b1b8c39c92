// Package document implements spec.md §6's Document API surface: the
// thing a host embedder actually holds onto. It owns nothing the
// container doesn't hand it — no window, no rasterizer, no network
// client — and ties together htmlparse, css, domtree and layout into
// the single-threaded, reentrant-only-at-entry-points lifecycle §5
// describes (create_from_string, render, draw, mouse events,
// media_changed, lang_changed all assume exclusive access).
package document

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"htmlcore/pkg/container"
	"htmlcore/pkg/css"
	"htmlcore/pkg/cssvalue"
	"htmlcore/pkg/domtree"
	"htmlcore/pkg/htmlparse"
	"htmlcore/pkg/layout"
)

// RenderMode re-exports layout.RenderMode so callers never need to
// import pkg/layout themselves just to pick a render_type.
type RenderMode = layout.RenderMode

const (
	RenderAll       = layout.RenderAll
	RenderNoFixed   = layout.RenderNoFixed
	RenderFixedOnly = layout.RenderFixedOnly
)

// Document is one parsed, styled, laid-out HTML document bound to a
// single container. It is not safe for concurrent use: every method
// here is a top-level entry point per spec.md §5 and assumes the
// caller serializes access.
type Document struct {
	container container.Container
	log       zerolog.Logger

	root    *domtree.Node
	sheets  []*css.Stylesheet
	lang    string
	culture string
	title   string
	baseURL string

	tree   *layout.Item
	width  float64
	height float64
	mode   RenderMode

	hover  *domtree.Node
	active *domtree.Node
}

// CreateFromString parses html, applies the cascade (master stylesheet
// plus any document <style>/<link rel=stylesheet> sheets the parser
// found, plus an optional caller-supplied user stylesheet) against c's
// reported media features and language, and returns a Document ready
// for Render. A nil container is an invariant_violation (spec.md §7):
// the engine has no rendering surface without one, so construction
// fails outright rather than panicking later on first use.
func CreateFromString(html string, c container.Container, userStylesheet string) (*Document, error) {
	if c == nil {
		return nil, fmt.Errorf("document: create_from_string: container must not be nil")
	}
	c = newCachingContainer(c)

	log := zerolog.New(os.Stderr).With().Timestamp().Str("component", "document").Logger()

	parsed := htmlparse.Parse(html)

	sheets := []*css.Stylesheet{css.MasterStylesheet()}
	if userStylesheet != "" {
		sheets = append(sheets, css.ParseStylesheet(userStylesheet, func(msg string) {
			log.Warn().Str("sheet", "user").Msg(msg)
		}))
	}
	for _, ref := range parsed.Stylesheets {
		sheets = append(sheets, loadStylesheet(ref, parsed.BaseURL, c, log))
	}

	lang := parsed.Lang
	culture := ""
	if lang == "" {
		lang, culture = c.GetLanguage()
	}

	d := &Document{
		container: c,
		log:       log,
		root:      parsed.Root,
		sheets:    sheets,
		lang:      lang,
		culture:   culture,
		title:     parsed.Title,
		baseURL:   parsed.BaseURL,
	}
	c.SetCaption(d.title)
	if d.baseURL != "" {
		c.SetBaseURL(d.baseURL)
	}

	d.recascade()
	return d, nil
}

func loadStylesheet(ref htmlparse.StylesheetRef, baseURL string, c container.Container, log zerolog.Logger) *css.Stylesheet {
	if ref.Inline != "" {
		return css.ParseStylesheet(ref.Inline, func(msg string) {
			log.Debug().Str("sheet", "inline").Msg(msg)
		})
	}
	text, _ := c.ImportCSS(ref.Href, baseURL)
	return css.ParseStylesheet(text, func(msg string) {
		log.Debug().Str("sheet", ref.Href).Msg(msg)
	})
}

// recascade reruns ComputeStyle over the whole tree: needed after
// construction, after MediaChanged/LangChanged, and after a pseudo-
// class toggle (hover/active) that can only be resolved by rematching
// selectors, not by touching a single node's style in isolation.
func (d *Document) recascade() {
	feats := toCSSMediaFeatures(d.container.GetMediaFeatures())
	css.ApplyCascade(d.root, d.sheets, nil, feats, d.resolveLang)
}

// resolveLang implements css.LangResolver: the nearest ancestor's lang
// attribute wins, falling back to the document-level language the
// container reported or the root element declared.
func (d *Document) resolveLang(n *domtree.Node) string {
	for cur := n; cur != nil; cur = cur.Parent {
		if v, ok := cur.GetAttribute("lang"); ok && v != "" {
			return v
		}
	}
	return d.lang
}

func toCSSMediaFeatures(f container.MediaFeatures) css.MediaFeatures {
	return css.MediaFeatures{
		Width:        f.Width,
		Height:       f.Height,
		DeviceWidth:  f.DeviceWidth,
		DeviceHeight: f.DeviceHeight,
		Resolution:   f.Resolution,
		Orientation:  f.Orientation,
	}
}

// Render lays out the document against maxWidth, returning the root
// item's rendered width (spec.md §6's render(max_width, render_type)).
// Calling Render twice with the same maxWidth and mode, with nothing
// else changed, produces an identical tree (spec.md §8's round-trip
// invariant): Run holds no state across calls besides what it reads
// from root.Style and the container.
func (d *Document) Render(maxWidth float64, mode RenderMode) float64 {
	viewportHeight := float64(d.container.GetClientRect().H)
	d.tree = layout.Run(d.root, d.container, maxWidth, viewportHeight, mode)
	d.mode = mode
	d.width = d.tree.OuterWidth()
	d.height = d.tree.OuterHeight()
	d.log.Debug().Float64("max_width", maxWidth).Float64("width", d.width).Float64("height", d.height).Msg("render")
	return d.width
}

// Draw paints the already-rendered tree, translating every draw call
// by (x, y) — the document's current scroll offset — and clipping to
// clip (spec.md §6's draw(ctx, x, y, clip_rect)).
func (d *Document) Draw(dc container.DrawContext, x, y int, clip container.Rect) {
	if d.tree == nil {
		return
	}
	d.container.SetClip(clip, cssvalue.Corners{}, true, true)
	defer d.container.DelClip()
	layout.Paint(d.tree, d.container, dc, float64(x), float64(y))
}

// Width and Height report the dimensions of the last Render call
// (spec.md §6's width()/height()).
func (d *Document) Width() int  { return int(d.width) }
func (d *Document) Height() int { return int(d.height) }

// MediaChanged re-evaluates every @media query and reruns the cascade
// when the container's reported media features changed, returning
// whether anything in the tree actually needs a fresh Render (spec.md
// §6's media_changed()). The engine has no cheaper way to know in
// advance which rules an @media change flips, so it always recascades
// and reports true; a host that wants to skip an unnecessary repaint
// can diff width()/height() itself before redrawing.
func (d *Document) MediaChanged() bool {
	d.log.Debug().Msg("media_changed")
	d.recascade()
	return true
}

// LangChanged reruns the cascade after the host's reported language
// changed (spec.md §6's lang_changed()), so any :lang() selector is
// rematched against the new tag.
func (d *Document) LangChanged() bool {
	lang, culture := d.container.GetLanguage()
	if lang == d.lang && culture == d.culture {
		return false
	}
	d.log.Debug().Str("lang", lang).Str("culture", culture).Msg("lang_changed")
	d.lang, d.culture = lang, culture
	d.recascade()
	return true
}

// Title and BaseURL expose the side-channel data htmlparse collected
// (spec.md §6's set_caption/set_base_url are pushed to the container
// at construction time already; these are for a host that wants to
// read them back directly).
func (d *Document) Title() string   { return d.title }
func (d *Document) BaseURL() string { return d.baseURL }

func dedupRedraw(boxes []container.Rect) []container.Rect {
	out := boxes[:0]
	seen := map[[4]int]bool{}
	for _, b := range boxes {
		key := [4]int{b.X, b.Y, b.W, b.H}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, b)
	}
	return out
}
