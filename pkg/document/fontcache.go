package document

import (
	"fmt"

	"htmlcore/pkg/container"
	"htmlcore/pkg/strid"
)

// cachingContainer wraps a host container.Container and memoizes
// CreateFont by its (family, size, weight, style, decoration) tuple,
// per spec.md §5's font-handle lifecycle: "the engine keeps them in a
// per-document map ... and calls delete_font for each at document
// destruction". DeleteFont becomes a no-op here; the real teardown
// happens once, in Document.Close, rather than after every call site
// that happens to be done with a handle for now. Every other method is
// forwarded unchanged.
type cachingContainer struct {
	container.Container
	keys *strid.Table
	fonts map[strid.ID]cachedFont
}

type cachedFont struct {
	handle  container.FontHandle
	metrics container.FontMetrics
}

func newCachingContainer(c container.Container) *cachingContainer {
	return &cachingContainer{Container: c, keys: strid.NewTable(), fonts: map[strid.ID]cachedFont{}}
}

func fontKey(family string, size float64, weight, style, decoration string) string {
	return fmt.Sprintf("%s\x00%g\x00%s\x00%s\x00%s", family, size, weight, style, decoration)
}

func (c *cachingContainer) CreateFont(family string, size float64, weight, style, decoration string) (container.FontHandle, container.FontMetrics) {
	id := c.keys.Intern(fontKey(family, size, weight, style, decoration))
	if f, ok := c.fonts[id]; ok {
		return f.handle, f.metrics
	}
	handle, metrics := c.Container.CreateFont(family, size, weight, style, decoration)
	c.fonts[id] = cachedFont{handle: handle, metrics: metrics}
	return handle, metrics
}

func (c *cachingContainer) DeleteFont(container.FontHandle) {
	// Deferred to Close: a handle may still be referenced by a render
	// item from an earlier Render call until the whole document goes
	// away, so deleting on first release would invalidate live state.
}

// Close deletes every font handle this document ever created, per
// spec.md §5's document-destruction font-handle lifecycle. A Document
// must not be used again afterward.
func (d *Document) Close() {
	cc, ok := d.container.(*cachingContainer)
	if !ok {
		return
	}
	for _, f := range cc.fonts {
		cc.Container.DeleteFont(f.handle)
	}
	cc.fonts = map[strid.ID]cachedFont{}
}
