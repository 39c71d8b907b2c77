package report

import (
	"strings"

	"github.com/wudi/inspectkit/builder"
	"github.com/wudi/inspectkit/inspection"
	"github.com/wudi/inspectkit/layout"
	"github.com/wudi/inspectkit/observability"
)

// Page geometry and type sizes, in points.
const (
	pageMargin = 50.0
	lineHeight = 15.0

	titleSize   = 18.0
	sectionSize = 14.0
	roomSize    = 12.0
	subSize     = 10.0
	textSize    = 10.0
	smallSize   = 9.0
	footerSize  = 8.0
	tableSize   = 9.0
	roomTabSize = 8.0

	rowHeight   = 20.0
	cellPadding = 4.0

	sectionGap    = 15.0
	sectionTitleH = 25.0
	subTitleH     = 18.0
)

// Space reserved before a block that must start on one page, and the lowest
// y that block may end at. EnsureSpace breaks the page when y-reserve would
// fall below the threshold.
const (
	reserveInfoLine  = lineHeight
	reserveSection   = sectionGap + sectionTitleH + 2*rowHeight
	reserveRoom      = 150.0
	reserveSubTable  = subTitleH + 2*rowHeight
	reserveComments  = sectionGap + sectionTitleH + lineHeight
	reserveSignature = 150.0
	reserveFooter    = 20.0

	minSpaceInfo      = 50.0
	minSpaceSection   = 50.0
	minSpaceRoom      = 50.0
	minSpaceTableRow  = 50.0
	minSpaceComments  = 50.0
	minSpaceSignature = 50.0
	minSpaceFooter    = 30.0
)

var (
	black      = builder.Color{}
	gray       = builder.Color{R: 0.35, G: 0.35, B: 0.35}
	headerFill = builder.Color{R: 0.9, G: 0.9, B: 0.9}
	borderGray = builder.Color{R: 0.5, G: 0.5, B: 0.5}
)

// fontSet names the two embedded faces. Every draw call is given one of them
// explicitly.
type fontSet struct {
	Regular string
	Bold    string
}

// composer holds what every section needs. It is never modified once built;
// position lives only in the Cursor values passed between methods.
type composer struct {
	engine *layout.Engine
	fonts  fontSet
	labels Labels
	trunc  Truncation
	log    observability.Logger
}

func (c *composer) compose(rec inspection.Record, prop *inspection.Property, tenant *inspection.Tenant) layout.Cursor {
	cur := c.engine.FirstPage()
	cur = c.header(cur, rec.General)
	cur = c.title(cur)
	cur = c.propertyInfo(cur, rec.General, prop, tenant)
	cur = c.meters(cur, rec.MeterReadings)
	cur = c.suppliers(cur, rec.Suppliers)
	cur = c.keys(cur, rec.KeyHandover)
	labels := inspection.RoomLabels(rec.Rooms, c.labels.RoomName)
	for i, room := range rec.Rooms {
		cur = c.room(cur, room, labels[i])
	}
	cur = c.comments(cur, rec.Comments)
	// Drawn even when every data section is empty.
	cur = c.signatures(cur)
	cur = c.footer(cur, rec.General)
	return cur
}

// text draws one line whose top is at cur.Y and returns the cursor below it.
func (c *composer) text(cur layout.Cursor, x float64, s, font string, size, advance float64, color builder.Color) layout.Cursor {
	cur.Page.DrawText(s, x, cur.Y-size, builder.TextOptions{Font: font, FontSize: size, Color: color})
	return cur.Advance(advance)
}

func (c *composer) header(cur layout.Cursor, g inspection.General) layout.Cursor {
	stamp := OrPlaceholder(FormatDateTime(g.Date, g.Time, c.labels.DateTimeSep))
	left := c.engine.Left()
	cur = c.text(cur, left, c.labels.GeneratedOn+" "+stamp, c.fonts.Regular, smallSize, lineHeight, gray)
	cur = c.text(cur, left, c.labels.EstablishedBy+" "+OrPlaceholder(g.Author), c.fonts.Regular, smallSize, lineHeight, gray)
	cur = c.text(cur, left, c.labels.Attestation, c.fonts.Regular, smallSize, lineHeight, gray)
	return cur.Advance(sectionGap)
}

func (c *composer) title(cur layout.Cursor) layout.Cursor {
	w := c.engine.Builder().MeasureText(c.labels.Title, titleSize, c.fonts.Bold)
	x := c.engine.Left() + (c.engine.ContentWidth()-w)/2
	return c.text(cur, x, c.labels.Title, c.fonts.Bold, titleSize, titleSize+sectionGap, black)
}

type infoLine struct {
	label string
	value string
}

// propertyInfo prints one line per non-empty field. Missing values are
// skipped, never shown as placeholders.
func (c *composer) propertyInfo(cur layout.Cursor, g inspection.General, prop *inspection.Property, tenant *inspection.Tenant) layout.Cursor {
	var p inspection.Property
	if prop != nil {
		p = *prop
	}
	var t inspection.Tenant
	if tenant != nil {
		t = *tenant
	}
	lines := []infoLine{
		{c.labels.Address, firstNonBlank(g.Address, p.Address)},
		{c.labels.PropertyType, firstNonBlank(g.PropertyType, p.Type)},
		{c.labels.Reference, firstNonBlank(g.Reference, p.Reference)},
		{c.labels.Floor, strings.TrimSpace(g.Floor)},
		{c.labels.Owner, strings.TrimSpace(g.Owner)},
		{c.labels.Tenant, firstNonBlank(g.Tenant, t.Name)},
		{c.labels.Agent, strings.TrimSpace(g.Agent)},
	}
	for _, l := range lines {
		if l.value == "" {
			continue
		}
		cur = c.engine.EnsureSpace(cur, reserveInfoLine, minSpaceInfo)
		cur = c.text(cur, c.engine.Left(), l.label+" "+l.value, c.fonts.Regular, textSize, lineHeight, black)
	}
	return cur
}

func (c *composer) skipped(section string) {
	c.log.Debug("section skipped", observability.String("section", section))
}
