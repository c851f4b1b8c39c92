package document

import (
	"htmlcore/pkg/container"
	"htmlcore/pkg/domtree"
	"htmlcore/pkg/layout"
)

// OnMouseOver hit-tests (x, y) against the last rendered tree and, if
// the hit element differs from the currently hovered one, toggles
// :hover state and recascades/re-renders so the new style takes effect
// (spec.md §8 scenario 6). redrawBoxes covers the previous and new
// hovered elements' border boxes; reports whether anything changed.
func (d *Document) OnMouseOver(x, y, clientX, clientY float64) (redrawBoxes []container.Rect, changed bool) {
	if d.tree == nil {
		return nil, false
	}
	hit := d.hitTestNode(x, y)
	if hit == d.hover {
		return nil, false
	}

	var boxes []container.Rect
	if d.hover != nil {
		if it := findItemForNode(d.tree, d.hover); it != nil {
			boxes = append(boxes, it.BorderBox())
		}
		d.hover.Hover = false
	}
	d.hover = hit
	if hit != nil {
		hit.Hover = true
	}

	d.recascade()
	d.Render(d.width, d.mode)

	if hit != nil {
		if it := findItemForNode(d.tree, hit); it != nil {
			boxes = append(boxes, it.BorderBox())
		}
	}
	return dedupRedraw(boxes), true
}

// OnMouseLeave clears any active hover, matching OnMouseOver's redraw
// contract (spec.md §6's on_mouse_leave).
func (d *Document) OnMouseLeave() (redrawBoxes []container.Rect, changed bool) {
	if d.hover == nil {
		return nil, false
	}
	var boxes []container.Rect
	if it := findItemForNode(d.tree, d.hover); it != nil {
		boxes = append(boxes, it.BorderBox())
	}
	d.hover.Hover = false
	d.hover = nil
	d.recascade()
	d.Render(d.width, d.mode)
	return dedupRedraw(boxes), true
}

// OnLButtonDown sets :active on the hit element (spec.md §6).
func (d *Document) OnLButtonDown(x, y, clientX, clientY float64) (redrawBoxes []container.Rect, changed bool) {
	return d.setActive(d.hitTestNode(x, y))
}

// OnLButtonUp clears :active (spec.md §6). A host that wants click
// navigation follows up with Container.OnAnchorClick itself; the core
// only tracks pseudo-class state here.
func (d *Document) OnLButtonUp(x, y, clientX, clientY float64) (redrawBoxes []container.Rect, changed bool) {
	return d.setActive(nil)
}

func (d *Document) setActive(n *domtree.Node) (redrawBoxes []container.Rect, changed bool) {
	if n == d.active {
		return nil, false
	}
	var boxes []container.Rect
	if d.active != nil {
		if it := findItemForNode(d.tree, d.active); it != nil {
			boxes = append(boxes, it.BorderBox())
		}
		d.active.Active = false
	}
	d.active = n
	if n != nil {
		n.Active = true
	}
	d.recascade()
	d.Render(d.width, d.mode)
	if n != nil {
		if it := findItemForNode(d.tree, n); it != nil {
			boxes = append(boxes, it.BorderBox())
		}
	}
	return dedupRedraw(boxes), true
}

func (d *Document) hitTestNode(x, y float64) *domtree.Node {
	it := layout.BuildStackingContextTree(d.tree).HitTest(x, y)
	if it == nil {
		return nil
	}
	return it.Node
}

func findItemForNode(root *layout.Item, n *domtree.Node) *layout.Item {
	if root == nil || n == nil {
		return nil
	}
	if root.Node == n {
		return root
	}
	for _, child := range root.Children {
		if found := findItemForNode(child, n); found != nil {
			return found
		}
	}
	return nil
}
