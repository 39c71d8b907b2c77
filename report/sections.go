package report

import (
	"strings"

	"github.com/wudi/inspectkit/builder"
	"github.com/wudi/inspectkit/inspection"
	"github.com/wudi/inspectkit/layout"
)

func (c *composer) sectionTitle(cur layout.Cursor, title string) layout.Cursor {
	cur = cur.Advance(sectionGap)
	return c.text(cur, c.engine.Left(), title, c.fonts.Bold, sectionSize, sectionTitleH, black)
}

// tableSection is the common shape of the meters, suppliers and keys
// sections: page check, bold title, table.
func (c *composer) tableSection(cur layout.Cursor, title string, tbl TableSpec) layout.Cursor {
	cur = c.engine.EnsureSpace(cur, reserveSection, minSpaceSection)
	cur = c.sectionTitle(cur, title)
	return c.drawTable(cur, tbl)
}

func (c *composer) meters(cur layout.Cursor, readings []inspection.MeterReading) layout.Cursor {
	rows := inspection.Filter(readings)
	if len(rows) == 0 {
		c.skipped("meters")
		return cur
	}
	l := c.labels
	return c.tableSection(cur, l.Meters, TableSpec{
		Columns: []Column{
			{Label: l.Designation, Key: inspection.KeyDesignation, Width: 150},
			{Label: l.Reading, Key: inspection.KeyReading, Width: 100},
			{Label: l.MeterNumber, Key: inspection.KeyMeterNumber, Width: 100},
			{Label: l.Notes, Key: inspection.KeyNotes, Width: 145},
		},
		Rows:     inspection.Rows(rows),
		FontSize: tableSize,
	})
}

// suppliers renders the four fixed services as soon as one provider is
// known; unknown providers show the placeholder.
func (c *composer) suppliers(cur layout.Cursor, s inspection.Suppliers) layout.Cursor {
	if s.Empty() {
		c.skipped("suppliers")
		return cur
	}
	l := c.labels
	rows := inspection.Filter([]inspection.SupplierRow{
		{Designation: l.Water, Name: s.Water},
		{Designation: l.Electricity, Name: s.Electricity},
		{Designation: l.Gas, Name: s.Gas},
		{Designation: l.Telephony, Name: s.Telephony},
	})
	return c.tableSection(cur, l.Suppliers, TableSpec{
		Columns: []Column{
			{Label: l.Service, Key: inspection.KeyDesignation, Width: 150},
			{Label: l.Provider, Key: inspection.KeyName, Width: 345},
		},
		Rows:     inspection.Rows(rows),
		FontSize: tableSize,
	})
}

func (c *composer) keys(cur layout.Cursor, items []inspection.KeyItem) layout.Cursor {
	rows := inspection.Filter(items)
	if len(rows) == 0 {
		c.skipped("keys")
		return cur
	}
	l := c.labels
	return c.tableSection(cur, l.Keys, TableSpec{
		Columns: []Column{
			{Label: l.Designation, Key: inspection.KeyDesignation, Width: 150},
			{Label: l.Quantity, Key: inspection.KeyQuantity, Width: 60},
			{Label: l.DateHanded, Key: inspection.KeyDateHanded, Width: 100, Format: FormatDate},
			{Label: l.Notes, Key: inspection.KeyNotes, Width: 185},
		},
		Rows:     inspection.Rows(rows),
		FontSize: tableSize,
	})
}

// room draws the room title then its details and equipment tables. Each
// table is page-checked on its own, so equipment may start a new page after
// details fitted on the previous one. A room with neither is skipped.
func (c *composer) room(cur layout.Cursor, room inspection.Room, label string) layout.Cursor {
	details := inspection.Filter(room.Details)
	equipment := inspection.Filter(room.Equipment)
	if len(details) == 0 && len(equipment) == 0 {
		c.skipped("room " + room.ID)
		return cur
	}
	l := c.labels
	cur = c.engine.EnsureSpace(cur, reserveRoom, minSpaceRoom)
	cur = cur.Advance(sectionGap)
	cur = c.text(cur, c.engine.Left(), label, c.fonts.Bold, roomSize, sectionTitleH-5, black)

	if len(details) > 0 {
		cur = c.subTable(cur, l.Details, TableSpec{
			Columns: []Column{
				{Label: l.Designation, Key: inspection.KeyDesignation, Width: 90},
				{Label: l.Nature, Key: inspection.KeyNature, Width: 75},
				{Label: l.GeneralState, Key: inspection.KeyGeneralState, Width: 70},
				{Label: l.Color, Key: inspection.KeyColor, Width: 65},
				{Label: l.Remark, Key: inspection.KeyRemark, Width: 95},
				{Label: l.Notes, Key: inspection.KeyNotes, Width: 100},
			},
			Rows:     inspection.Rows(details),
			FontSize: roomTabSize,
		})
	}
	if len(equipment) > 0 {
		cur = c.subTable(cur, l.Equipment, TableSpec{
			Columns: []Column{
				{Label: l.Designation, Key: inspection.KeyDesignation, Width: 85},
				{Label: l.WearState, Key: inspection.KeyWearState, Width: 65},
				{Label: l.Function, Key: inspection.KeyFunction, Width: 70},
				{Label: l.Remark, Key: inspection.KeyRemark, Width: 60},
				{Label: l.Brand, Key: inspection.KeyBrand, Width: 55},
				{Label: l.Color, Key: inspection.KeyColor, Width: 75},
				{Label: l.Notes, Key: inspection.KeyNotes, Width: 85},
			},
			Rows:     inspection.Rows(equipment),
			FontSize: roomTabSize,
		})
	}
	return cur
}

func (c *composer) subTable(cur layout.Cursor, title string, tbl TableSpec) layout.Cursor {
	cur = c.engine.EnsureSpace(cur, reserveSubTable, minSpaceSection)
	cur = c.text(cur, c.engine.Left(), title, c.fonts.Bold, subSize, subTitleH, black)
	return c.drawTable(cur, tbl)
}

// commentLines splits free text on newlines. Trailing blank lines are
// dropped; inner blank lines keep their height.
func commentLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimRight(s, " \t\n")
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func (c *composer) comments(cur layout.Cursor, text string) layout.Cursor {
	lines := commentLines(text)
	if len(lines) == 0 {
		c.skipped("comments")
		return cur
	}
	cur = c.engine.EnsureSpace(cur, reserveComments, minSpaceComments)
	cur = c.sectionTitle(cur, c.labels.Comments)
	for _, line := range lines {
		cur = c.engine.EnsureSpace(cur, lineHeight, minSpaceComments)
		cur = c.text(cur, c.engine.Left(), line, c.fonts.Regular, textSize, lineHeight, black)
	}
	return cur
}

// signatures reserves its whole height first so the divider, labels and
// boxes always share a page.
func (c *composer) signatures(cur layout.Cursor) layout.Cursor {
	l := c.labels
	cur = c.engine.EnsureSpace(cur, reserveSignature, minSpaceSignature)
	cur = cur.Advance(sectionGap)
	left, right := c.engine.Left(), c.engine.Right()
	cur.Page.DrawLine(left, cur.Y, right, cur.Y, builder.LineOptions{StrokeColor: borderGray, LineWidth: 1})
	cur = cur.Advance(10)
	cur = c.text(cur, left, l.Signatures, c.fonts.Bold, sectionSize, sectionTitleH, black)

	const gap = 20.0
	boxW := (c.engine.ContentWidth() - gap) / 2
	boxH := 70.0
	secondX := left + boxW + gap
	c.text(cur, left, l.SignTenant, c.fonts.Bold, textSize, 0, black)
	cur = c.text(cur, secondX, l.SignOwner, c.fonts.Bold, textSize, lineHeight, black)
	c.text(cur, left, l.ReadApprove, c.fonts.Regular, smallSize, 0, gray)
	cur = c.text(cur, secondX, l.ReadApprove, c.fonts.Regular, smallSize, lineHeight, gray)

	box := builder.RectOptions{Stroke: true, StrokeColor: borderGray, LineWidth: 0.5}
	cur.Page.DrawRectangle(left, cur.Y-boxH, boxW, boxH, box)
	cur.Page.DrawRectangle(secondX, cur.Y-boxH, boxW, boxH, box)
	return cur.Advance(boxH)
}

// footer prints the agent's contact line when an agent is named.
func (c *composer) footer(cur layout.Cursor, g inspection.General) layout.Cursor {
	if strings.TrimSpace(g.Agent) == "" {
		return cur
	}
	var parts []string
	for _, p := range []string{g.Agent, g.AgentAddress, g.AgentEmail, g.AgentPhone} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	line := strings.Join(parts, " - ")
	cur = c.engine.EnsureSpace(cur, reserveFooter, minSpaceFooter)
	cur = cur.Advance(reserveFooter - footerSize - 2)
	w := c.engine.Builder().MeasureText(line, footerSize, c.fonts.Regular)
	x := c.engine.Left() + (c.engine.ContentWidth()-w)/2
	return c.text(cur, x, line, c.fonts.Regular, footerSize, footerSize+2, gray)
}
