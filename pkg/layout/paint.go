package layout

import (
	"htmlcore/pkg/container"
	"htmlcore/pkg/cssvalue"
)

// Paint walks root's already-laid-out render-item tree in CSS 2.1
// Appendix E order (via its stacking-context tree) and issues the
// container draw calls that turn geometry into pixels: backgrounds and
// borders first for each item, then its own text/image/list-marker
// content, exactly the split the teacher's renderer makes between
// drawBoxBackgroundAndBorders and drawBoxContent. originX/originY
// translate every draw call by the document scroll offset Document.Draw
// was called with (spec.md §6's draw(ctx, x, y, clip_rect)); the
// render-item tree itself stays in document-relative coordinates so
// scrolling never triggers relayout.
func Paint(root *Item, c container.Container, dc container.DrawContext, originX, originY float64) {
	drawCanvasBackground(root, c, dc)
	ctx := BuildStackingContextTree(root)
	paintItem(root, c, dc, originX, originY)
	ctx.Paint(func(it *Item) {
		if it == root {
			return // already painted above; root can only recur here if it creates its own stacking context (e.g. opacity<1)
		}
		paintItem(it, c, dc, originX, originY)
	})
}

// drawCanvasBackground implements CSS 2.1 §14.2: when the root element
// has no background, the body's background propagates to the canvas.
func drawCanvasBackground(root *Item, c container.Container, dc container.DrawContext) {
	if root == nil || root.Style == nil {
		return
	}
	viewport := c.GetClientRect()
	area := container.Rect{X: 0, Y: 0, W: viewport.W, H: viewport.H}

	if root.Style.BackgroundColor.A > 0 {
		c.DrawSolidFill(dc, cssvalue.BackgroundLayer{}, root.Style.BackgroundColor, area)
		return
	}
	var body *Item
	for _, child := range root.Children {
		if child.Node != nil && child.Node.TagName == "body" {
			body = child
			break
		}
	}
	if body != nil && body.Style != nil && body.Style.BackgroundColor.A > 0 {
		c.DrawSolidFill(dc, cssvalue.BackgroundLayer{}, body.Style.BackgroundColor, area)
	}
}

func paintItem(it *Item, c container.Container, dc container.DrawContext, originX, originY float64) {
	if it == nil || it.Style == nil || it.Style.Visibility == "hidden" {
		return
	}

	clips := it.Style.Overflow == "hidden" || it.Style.Overflow == "scroll" || it.Style.Overflow == "auto"
	if clips {
		c.SetClip(itemRect(it, originX, originY), it.Style.BorderRadius, true, true)
		defer c.DelClip()
	}

	drawBackground(it, c, dc, originX, originY)
	drawBorders(it, c, dc, originX, originY)
	drawListMarker(it, c, dc, originX, originY)
	drawContent(it, c, dc, originX, originY)
}

func itemRect(it *Item, originX, originY float64) container.Rect {
	return container.Rect{
		X: int(it.X - originX), Y: int(it.Y - originY),
		W: int(it.BorderBoxWidth()), H: int(it.BorderBoxHeight()),
	}
}

func drawBackground(it *Item, c container.Container, dc container.DrawContext, originX, originY float64) {
	area := itemRect(it, originX, originY)
	if len(it.Style.Background) == 0 {
		if it.Style.BackgroundColor.A > 0 {
			c.DrawSolidFill(dc, cssvalue.BackgroundLayer{}, it.Style.BackgroundColor, area)
		}
		return
	}
	// Background layers paint back-to-front: the last-declared layer is
	// nearest the viewer, so earlier layers must be drawn first.
	for i := len(it.Style.Background) - 1; i >= 0; i-- {
		layer := it.Style.Background[i]
		switch {
		case layer.Gradient != nil:
			c.DrawLinearGradient(dc, layer, *layer.Gradient, area)
		case layer.ImageURL != "":
			c.DrawImage(dc, layer, layer.ImageURL, "", area)
		}
	}
	if it.Style.BackgroundColor.A > 0 {
		c.DrawSolidFill(dc, cssvalue.BackgroundLayer{}, it.Style.BackgroundColor, area)
	}
}

func drawBorders(it *Item, c container.Container, dc container.DrawContext, originX, originY float64) {
	if it.Border.Top.Value == 0 && it.Border.Right.Value == 0 && it.Border.Bottom.Value == 0 && it.Border.Left.Value == 0 {
		return
	}
	borders := container.Borders{
		Width: cssvalue.Edges{
			Top:    cssvalue.Px(it.Border.Top.Value),
			Right:  cssvalue.Px(it.Border.Right.Value),
			Bottom: cssvalue.Px(it.Border.Bottom.Value),
			Left:   cssvalue.Px(it.Border.Left.Value),
		},
		Color:  it.Style.BorderColor,
		Style:  it.Style.BorderStyle,
		Radius: it.Style.BorderRadius,
	}
	isRoot := it.Node != nil && it.Node.TagName == "html"
	c.DrawBorders(dc, borders, itemRect(it, originX, originY), isRoot)
}

// drawListMarker draws the marker box of a list-item, positioned
// outside the principal box's border edge per CSS 2.1 §12.5.1 (the
// "outside" list-style-position). An item with list-style-position:
// inside gets no marker at all: Construct adds none to its inline
// content and this function returns without drawing.
func drawListMarker(it *Item, c container.Container, dc container.DrawContext, originX, originY float64) {
	if it.Style.Display != cssvalue.DisplayListItem || it.Style.ListStylePosition == "inside" {
		return
	}
	ordinal := listItemNumber(it)
	text, width, height, ok := LayoutListMarker(it, ordinal, c)
	if !ok {
		return
	}
	spacing := markerSpacing(it.Style)
	markerX := it.X - width - spacing - originX
	markerY := it.Y - originY
	c.DrawListMarker(dc, container.ListMarker{
		Kind:     it.Style.ListStyleType,
		Text:     text,
		Position: container.Rect{X: int(markerX), Y: int(markerY), W: int(width), H: int(height)},
		Color:    it.Style.Color,
		FontSize: it.Style.FontSize,
	})
}

func drawContent(it *Item, c container.Container, dc container.DrawContext, originX, originY float64) {
	switch it.Kind {
	case ItemReplaced:
		area := container.Rect{
			X: int(it.X + it.Border.Left.Value + it.Padding.Left.Value - originX),
			Y: int(it.Y + it.Border.Top.Value + it.Padding.Top.Value - originY),
			W: int(it.ContentWidth),
			H: int(it.ContentHeight),
		}
		c.DrawImage(dc, cssvalue.BackgroundLayer{}, it.ImageURL, "", area)
	}
	for _, line := range it.LineBoxes {
		drawLine(it, line, c, dc, originX, originY)
	}
}

// drawLine draws one line box's text fragments. Fragment.X/line.Y are
// only valid relative to the line during breaking (inline.go); by the
// time Paint runs, flushInline (block.go) has already resolved each
// fragment's owning Item.X/Item.Y to absolute coordinates, with the
// fragment's ascent baked in, so the baseline is Item.Y + Ascent.
func drawLine(owner *Item, line *LineBox, c container.Container, dc container.DrawContext, originX, originY float64) {
	for _, f := range line.Fragments {
		if f.Text == "" {
			continue
		}
		style := f.Item.Style
		if style == nil {
			style = owner.Style
		}
		pos := container.Point{X: int(f.Item.X - originX), Y: int(f.Item.Y + f.Ascent - originY)}
		c.DrawText(dc, f.Text, f.Handle, style.Color, pos, style.Opacity)
	}
}
