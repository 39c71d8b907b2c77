package report

import (
	"fmt"
	"testing"

	"github.com/wudi/inspectkit/inspection"
	"github.com/wudi/inspectkit/layout"
)

func opCount(t *testing.T, c *composer, cur layout.Cursor) int {
	t.Helper()
	doc := build(t, c.engine.Builder())
	n := 0
	for _, cs := range doc.Pages[cur.PageIndex].Contents {
		n += len(cs.Operations)
	}
	return n
}

func TestEmptySectionsDrawNothing(t *testing.T) {
	c, _ := newTestComposer(t)
	start := c.engine.FirstPage()
	start.Y = 400

	cur := c.meters(start, []inspection.MeterReading{{Designation: " ", Reading: "1"}})
	cur = c.suppliers(cur, inspection.Suppliers{})
	cur = c.keys(cur, nil)
	cur = c.room(cur, inspection.Room{ID: "r", Type: inspection.Kitchen, Details: []inspection.RoomDetail{{Notes: "x"}}}, "Cuisine")
	cur = c.comments(cur, " \n\n")
	if cur != start {
		t.Fatalf("empty sections moved the cursor: %+v -> %+v", start, cur)
	}
	if n := opCount(t, c, cur); n != 0 {
		t.Fatalf("empty sections drew %d operations", n)
	}
}

// A room asked for with 80pt left above the margin moves to a new page
// before its title, and both of its tables follow it there.
func TestRoomBreaksBeforeTitle(t *testing.T) {
	c, b := newTestComposer(t)
	cur := c.engine.FirstPage()
	cur.Y = pageMargin + 80

	room := inspection.Room{ID: "k", Type: inspection.Kitchen}
	for i := 1; i <= 7; i++ {
		room.Details = append(room.Details, inspection.RoomDetail{Designation: fmt.Sprintf("Détail %d", i)})
	}
	for i := 1; i <= 3; i++ {
		room.Equipment = append(room.Equipment, inspection.Equipment{Designation: fmt.Sprintf("Équipement %d", i)})
	}
	end := c.room(cur, room, "Cuisine")
	runs := textRuns(build(t, b))

	if end.PageIndex != 1 || c.engine.Pages() != 2 {
		t.Fatalf("expected the room on a second page, cursor=%+v pages=%d", end, c.engine.Pages())
	}
	for _, want := range []string{"Cuisine", "Détails", "Détail 1", "Détail 7", "Équipements", "Équipement 3"} {
		got := findRuns(runs, want)
		if len(got) != 1 || got[0].Page != 1 {
			t.Fatalf("%q should appear once on page 1, got %+v", want, got)
		}
	}
	for _, r := range runs {
		if r.Page == 0 {
			t.Fatalf("nothing should be drawn on page 0, found %q", r.Text)
		}
	}
}

func TestRoomEquipmentCanStartNewPage(t *testing.T) {
	c, b := newTestComposer(t)
	cur := c.engine.FirstPage()
	// Room title and the three detail rows fit; the equipment block does not.
	cur.Y = pageMargin + reserveRoom + 10
	room := inspection.Room{
		ID:        "b",
		Type:      inspection.Bathroom,
		Details:   []inspection.RoomDetail{{Designation: "Sol"}, {Designation: "Murs"}, {Designation: "Plafond"}},
		Equipment: []inspection.Equipment{{Designation: "Lavabo"}},
	}
	c.room(cur, room, "Salle de bain")
	runs := textRuns(build(t, b))
	if r := findRuns(runs, "Plafond"); len(r) != 1 || r[0].Page != 0 {
		t.Fatalf("details should stay on page 0: %+v", r)
	}
	if r := findRuns(runs, "Lavabo"); len(r) != 1 || r[0].Page != 1 {
		t.Fatalf("equipment should move to page 1: %+v", r)
	}
}

func TestSuppliersHiddenWhenAllBlank(t *testing.T) {
	c, b := newTestComposer(t)
	start := c.engine.FirstPage()
	cur := c.suppliers(start, inspection.Suppliers{Water: "", Electricity: "", Gas: "", Telephony: ""})
	if cur != start {
		t.Fatalf("cursor moved")
	}
	if hasText(textRuns(build(t, b)), c.labels.Suppliers) {
		t.Fatalf("suppliers header drawn for blank suppliers")
	}
}

func TestSuppliersShowEveryService(t *testing.T) {
	c, b := newTestComposer(t)
	c.suppliers(c.engine.FirstPage(), inspection.Suppliers{Gas: "Engie"})
	runs := textRuns(build(t, b))
	for _, want := range []string{"Fournisseurs", "Eau", "Électricité", "Gaz", "Téléphonie", "Engie"} {
		if !hasText(runs, want) {
			t.Fatalf("missing %q", want)
		}
	}
	if n := len(findRuns(runs, Placeholder)); n != 3 {
		t.Fatalf("expected 3 placeholder providers, got %d", n)
	}
}

func TestMeterRowWithOnlyDesignation(t *testing.T) {
	c, b := newTestComposer(t)
	c.meters(c.engine.FirstPage(), []inspection.MeterReading{{Designation: "Gaz en m³"}})
	runs := textRuns(build(t, b))
	row := findRuns(runs, "Gaz en m³")
	if len(row) != 1 {
		t.Fatalf("designation not drawn once: %+v", row)
	}
	var dashes int
	for _, r := range runs {
		if r.Y == row[0].Y && r.Text == Placeholder {
			dashes++
		}
	}
	if dashes != 3 {
		t.Fatalf("expected 3 dashes on the row, got %d", dashes)
	}
}

func TestRowFilterLaw(t *testing.T) {
	c, b := newTestComposer(t)
	readings := []inspection.MeterReading{
		{Designation: "Eau", Reading: "1"},
		{Designation: "", Reading: "2"},
		{Designation: "\t", Reading: "3"},
		{Designation: "Gaz", Reading: "4"},
	}
	keys := []inspection.KeyItem{{Designation: "", Quantity: "9"}, {Designation: "Cave", Quantity: "1"}}
	cur := c.meters(c.engine.FirstPage(), readings)
	c.keys(cur, keys)
	runs := textRuns(build(t, b))
	for _, want := range []string{"1", "4", "Cave"} {
		if !hasText(runs, want) {
			t.Errorf("row value %q missing", want)
		}
	}
	for _, absent := range []string{"2", "3", "9"} {
		if hasText(runs, absent) {
			t.Errorf("row value %q from a row without designation was drawn", absent)
		}
	}
}

// Five comment lines just above the signature reservation: every line keeps
// its page and the signature block moves whole to the next one.
func TestCommentsThenSignatureBreak(t *testing.T) {
	c, b := newTestComposer(t)
	cur := c.engine.FirstPage()
	cur.Y = pageMargin + 130
	cur = c.comments(cur, "ligne 1\nligne 2\nligne 3\nligne 4\nligne 5")
	if cur.PageIndex != 0 {
		t.Fatalf("comments should fit on the first page")
	}
	end := c.signatures(cur)
	runs := textRuns(build(t, b))

	prevY := 0.0
	for i := 1; i <= 5; i++ {
		r := findRuns(runs, fmt.Sprintf("ligne %d", i))
		if len(r) != 1 || r[0].Page != 0 {
			t.Fatalf("line %d not on page 0: %+v", i, r)
		}
		if i > 1 && prevY-r[0].Y != lineHeight {
			t.Fatalf("line %d is %v below the previous one, want %v", i, prevY-r[0].Y, lineHeight)
		}
		prevY = r[0].Y
	}
	sig := findRuns(runs, c.labels.Signatures)
	if len(sig) != 1 || sig[0].Page != 1 || end.PageIndex != 1 {
		t.Fatalf("signature block should be on page 1: %+v", sig)
	}
	if len(findRuns(runs, c.labels.ReadApprove)) != 2 {
		t.Fatalf("expected both signature boxes to be labelled")
	}
}

func TestCommentLines(t *testing.T) {
	got := commentLines("a\r\nb\n\nc\n\n")
	if len(got) != 4 || got[0] != "a" || got[2] != "" || got[3] != "c" {
		t.Fatalf("unexpected lines: %q", got)
	}
	if commentLines("   ") != nil {
		t.Fatalf("blank comments should give no lines")
	}
}

func TestFooterOnlyWithAgent(t *testing.T) {
	c, b := newTestComposer(t)
	start := c.engine.FirstPage()
	if cur := c.footer(start, inspection.General{AgentEmail: "x@y.z"}); cur != start {
		t.Fatalf("footer drawn without an agent")
	}
	c.footer(start, inspection.General{Agent: "Agence", AgentPhone: "01 02"})
	if !hasText(textRuns(build(t, b)), "Agence - 01 02") {
		t.Fatalf("footer line missing")
	}
}
