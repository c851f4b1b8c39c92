package layout

import (
	"htmlcore/pkg/container"
	"htmlcore/pkg/cssvalue"
)

// TableCell is one grid position's occupant: the source item, its
// logical column/row index, and its col/rowspan.
type TableCell struct {
	Box            *Item
	ColIdx, RowIdx int
	ColSpan        int
	RowSpan        int
}

// TableRow groups the cells in one source <tr>.
type TableRow struct {
	Cells []*TableCell
}

// TableLayout is the resolved grid geometry for a table wrapper item:
// one width per column, one height per row, and the border-spacing the
// separate-borders model adds between every pair of cells.
type TableLayout struct {
	Columns        []float64
	Rows           []float64
	BorderSpacingX float64
	BorderSpacingY float64
	NumCols        int
}

// buildCellGrid walks a table wrapper's row-group/row/cell structure
// (already present in the render-item tree as DisplayTableRowGroup /
// DisplayTableRow / DisplayTableCell items) into a dense 2D grid,
// expanding colspan/rowspan into repeated grid slots the way the
// cascade's master stylesheet default-displays tbody/tr/td into.
func buildCellGrid(table *Item) [][]*TableCell {
	var rows []*Item
	var collect func(*Item)
	collect = func(it *Item) {
		for _, c := range it.Children {
			if c.Style == nil {
				continue
			}
			switch c.Style.Display {
			case cssvalue.DisplayTableRow:
				rows = append(rows, c)
			case cssvalue.DisplayTableRowGroup, cssvalue.DisplayTableHeaderGroup, cssvalue.DisplayTableFooterGroup:
				collect(c)
			}
		}
	}
	collect(table)

	var grid [][]*TableCell
	occupiedBelow := map[[2]int]bool{} // [row][col] reserved by an earlier rowspan

	for rowIdx, rowItem := range rows {
		var gridRow []*TableCell
		col := 0
		for _, cellItem := range rowItem.Children {
			if cellItem.Style == nil || cellItem.Style.Display != cssvalue.DisplayTableCell {
				continue
			}
			for occupiedBelow[[2]int{rowIdx, col}] {
				gridRow = append(gridRow, nil)
				col++
			}
			colSpan, rowSpan := 1, 1
			if cellItem.Node != nil {
				if v, ok := cellItem.Node.GetAttribute("colspan"); ok {
					colSpan = parsePositiveInt(v, 1)
				}
				if v, ok := cellItem.Node.GetAttribute("rowspan"); ok {
					rowSpan = parsePositiveInt(v, 1)
				}
			}
			cell := &TableCell{Box: cellItem, ColIdx: col, RowIdx: rowIdx, ColSpan: colSpan, RowSpan: rowSpan}
			for s := 0; s < colSpan; s++ {
				gridRow = append(gridRow, cell)
				for r := 1; r < rowSpan; r++ {
					occupiedBelow[[2]int{rowIdx + r, col + s}] = true
				}
			}
			col += colSpan
		}
		grid = append(grid, gridRow)
	}
	return grid
}

func parsePositiveInt(s string, fallback int) int {
	n := 0
	ok := false
	for _, r := range s {
		if r < '0' || r > '9' {
			return fallback
		}
		n = n*10 + int(r-'0')
		ok = true
	}
	if !ok || n <= 0 {
		return fallback
	}
	return n
}

// LayoutTableContainer resolves a table wrapper's grid: column widths
// (content-based with proportional extra-space distribution, spec.md
// §4.8), row heights (max of cell content heights), and the resulting
// geometry of every cell. The column-width loop is capped at NumCols+1
// passes (spec.md §9's open question). Every pass recomputes the widths
// from the same cell content measurements, so the loop ends after its
// first comparison; cells are not re-measured at their assigned widths
// and no column is widened after its cells are laid out.
func LayoutTableContainer(table *Item, c container.Container, ctx cssvalue.ResolveContext) {
	grid := buildCellGrid(table)
	numCols := 0
	for _, row := range grid {
		if len(row) > numCols {
			numCols = len(row)
		}
	}
	spacingX := table.Style.BorderSpacingX.Resolve(ctx)
	spacingY := table.Style.BorderSpacingY.Resolve(ctx)
	tl := &TableLayout{NumCols: numCols, BorderSpacingX: spacingX, BorderSpacingY: spacingY}

	columnWidths := resolveColumnWidths(grid, numCols, table.ContentWidth, spacingX, c, ctx)
	for pass := 0; pass < numCols+1; pass++ {
		// resolveColumnWidths does not take the previous pass's widths,
		// so each pass yields the same result; the loop stops once no
		// column's width changes between passes.
		next := resolveColumnWidths(grid, numCols, table.ContentWidth, spacingX, c, ctx)
		changed := false
		for i := range next {
			if next[i] != columnWidths[i] {
				changed = true
			}
		}
		columnWidths = next
		if !changed {
			break
		}
	}
	tl.Columns = columnWidths

	rowHeights := make([]float64, len(grid))
	for rowIdx, row := range grid {
		maxHeight := 0.0
		for colIdx, cell := range row {
			if cell == nil || cell.RowIdx != rowIdx {
				continue
			}
			width := 0.0
			for s := 0; s < cell.ColSpan && colIdx+s < len(columnWidths); s++ {
				width += columnWidths[colIdx+s]
			}
			resolveBoxModel(cell.Box, width, ctx)
			cell.Box.ContentWidth = width - cell.Box.Padding.Left.Value - cell.Box.Padding.Right.Value - cell.Box.Border.Left.Value - cell.Box.Border.Right.Value
			LayoutBlockContainer(cell.Box, cell.Box.ContentWidth, c, ctx)
			h := cell.Box.OuterHeight()
			if h > maxHeight {
				maxHeight = h
			}
		}
		rowHeights[rowIdx] = maxHeight
	}
	tl.Rows = rowHeights
	table.Table = tl

	y := table.Y + table.Border.Top.Value + table.Padding.Top.Value + spacingY
	for rowIdx, row := range grid {
		x := table.X + table.Border.Left.Value + table.Padding.Left.Value + spacingX
		for colIdx, cell := range row {
			colWidth := columnWidths[colIdx]
			if cell == nil || cell.ColIdx != colIdx {
				x += colWidth + spacingX
				continue
			}
			if cell.RowIdx == rowIdx {
				cell.Box.X = x
				cell.Box.Y = y
			}
			width := 0.0
			for s := 0; s < cell.ColSpan && colIdx+s < len(columnWidths); s++ {
				width += columnWidths[colIdx+s]
			}
			x += width + spacingX
		}
		y += rowHeights[rowIdx] + spacingY
	}

	totalHeight := spacingY
	for _, h := range rowHeights {
		totalHeight += h + spacingY
	}
	if table.Style.Height.IsAuto() {
		table.ContentHeight = totalHeight
	}
}

func resolveColumnWidths(grid [][]*TableCell, numCols int, availableWidth, spacingX float64, c container.Container, ctx cssvalue.ResolveContext) []float64 {
	if numCols == 0 {
		return nil
	}
	widths := make([]float64, numCols)
	explicit := make([]bool, numCols)
	contentWidths := make([]float64, numCols)

	for _, row := range grid {
		for colIdx, cell := range row {
			if cell == nil || cell.ColIdx != colIdx || cell.Box.Style == nil {
				continue
			}
			if w := cell.Box.Style.Width; !w.IsAuto() {
				resolved := w.Resolve(ctx)
				if resolved > widths[colIdx] {
					widths[colIdx] = resolved
					explicit[colIdx] = true
				}
				continue
			}
			cw := measureCellContentWidth(cell, c)
			if cw > contentWidths[colIdx] {
				contentWidths[colIdx] = cw
			}
		}
	}

	totalSpacing := spacingX * float64(numCols+1)
	used := totalSpacing
	unsetCols := 0
	totalContent := 0.0
	for i := 0; i < numCols; i++ {
		used += widths[i]
		if !explicit[i] {
			unsetCols++
			totalContent += contentWidths[i]
		}
	}
	if unsetCols == 0 {
		return widths
	}
	remaining := availableWidth - used
	switch {
	case remaining <= 0:
		for i := 0; i < numCols; i++ {
			if !explicit[i] {
				widths[i] = 10
			}
		}
	case totalContent <= 0:
		per := remaining / float64(unsetCols)
		for i := 0; i < numCols; i++ {
			if !explicit[i] {
				widths[i] = per
			}
		}
	case totalContent <= remaining:
		extra := remaining - totalContent
		for i := 0; i < numCols; i++ {
			if !explicit[i] {
				widths[i] = contentWidths[i] + extra*contentWidths[i]/totalContent
			}
		}
	default:
		for i := 0; i < numCols; i++ {
			if !explicit[i] {
				widths[i] = remaining * contentWidths[i] / totalContent
			}
		}
	}
	return widths
}

func measureCellContentWidth(cell *TableCell, c container.Container) float64 {
	if cell == nil || cell.Box == nil {
		return 0
	}
	intrinsic := ComputeIntrinsicSizes(cell.Box, c)
	width := intrinsic.MaxContent
	if cell.Box.Style != nil {
		width += cell.Box.Padding.Left.Value + cell.Box.Padding.Right.Value + cell.Box.Border.Left.Value + cell.Box.Border.Right.Value
	}
	return width
}
