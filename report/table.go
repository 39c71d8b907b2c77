package report

import (
	"github.com/wudi/inspectkit/builder"
	"github.com/wudi/inspectkit/inspection"
	"github.com/wudi/inspectkit/layout"
)

// Column describes one fixed-width table column. Format, when set, is applied
// to the raw value before the placeholder and truncation.
type Column struct {
	Label  string
	Key    string
	Width  float64
	Format func(string) string
}

// TableSpec is built per table draw. Column widths are expected to add up to
// the content width; nothing checks that.
type TableSpec struct {
	Columns   []Column
	Rows      []inspection.Row
	FontSize  float64
	RowHeight float64
}

// drawTable draws the header row then one row per entry of tbl.Rows, top
// down from cur.Y, and returns the cursor below the last row. A row that
// would cross the bottom threshold moves to a new page, where the header row
// is drawn again first. Rows must already be filtered.
func (c *composer) drawTable(cur layout.Cursor, tbl TableSpec) layout.Cursor {
	if tbl.RowHeight <= 0 {
		tbl.RowHeight = rowHeight
	}
	if tbl.FontSize <= 0 {
		tbl.FontSize = tableSize
	}
	cur = c.headerRow(cur, tbl)
	for _, row := range tbl.Rows {
		next := c.engine.EnsureSpace(cur, tbl.RowHeight, minSpaceTableRow)
		if next.PageIndex != cur.PageIndex {
			next = c.headerRow(next, tbl)
		}
		cur = c.dataRow(next, tbl, row)
	}
	return cur
}

func (c *composer) headerRow(cur layout.Cursor, tbl TableSpec) layout.Cursor {
	x := c.engine.Left()
	for _, col := range tbl.Columns {
		c.cell(cur, x, col.Width, tbl, col.Label, c.fonts.Bold, true)
		x += col.Width
	}
	return cur.Advance(tbl.RowHeight)
}

func (c *composer) dataRow(cur layout.Cursor, tbl TableSpec, row inspection.Row) layout.Cursor {
	x := c.engine.Left()
	for _, col := range tbl.Columns {
		value := row.Field(col.Key)
		if col.Format != nil {
			value = col.Format(value)
		}
		value = OrPlaceholder(value)
		value = c.trunc.Truncate(value, col.Width-2*cellPadding, tbl.FontSize)
		c.cell(cur, x, col.Width, tbl, value, c.fonts.Regular, false)
		x += col.Width
	}
	return cur.Advance(tbl.RowHeight)
}

// cell draws one bordered cell whose top-left corner is (x, cur.Y).
func (c *composer) cell(cur layout.Cursor, x, width float64, tbl TableSpec, text, font string, header bool) {
	bottom := cur.Y - tbl.RowHeight
	opts := builder.RectOptions{Stroke: true, StrokeColor: borderGray, LineWidth: 0.5}
	if header {
		opts.Fill = true
		opts.FillColor = headerFill
	}
	cur.Page.DrawRectangle(x, bottom, width, tbl.RowHeight, opts)
	baseline := bottom + (tbl.RowHeight-tbl.FontSize)/2 + tbl.FontSize*0.25
	cur.Page.DrawText(text, x+cellPadding, baseline, builder.TextOptions{Font: font, FontSize: tbl.FontSize})
}
