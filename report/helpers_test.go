package report

import (
	"testing"

	"github.com/wudi/inspectkit/builder"
	"github.com/wudi/inspectkit/fonts"
	"github.com/wudi/inspectkit/inspection"
	"github.com/wudi/inspectkit/ir/semantic"
	"github.com/wudi/inspectkit/layout"
	"github.com/wudi/inspectkit/observability"
)

// textRun is one decoded Tj with the state it was drawn in. Fill follows
// rg through q/Q nesting.
type textRun struct {
	Page int
	Text string
	Font string
	Size float64
	X, Y float64
	Fill [3]float64
}

type rect struct {
	Page       int
	X, Y, W, H float64
}

func number(op semantic.Operand) float64 {
	if n, ok := op.(semantic.NumberOperand); ok {
		return n.Value
	}
	return 0
}

// decode maps two-byte CIDs back through the font's ToUnicode table.
func decode(font *semantic.Font, data []byte) string {
	if font == nil || font.Subtype != "Type0" {
		return string(data)
	}
	var out []rune
	for i := 0; i+1 < len(data); i += 2 {
		cid := int(data[i])<<8 | int(data[i+1])
		if runes := font.ToUnicode[cid]; len(runes) > 0 {
			out = append(out, runes[0])
		} else {
			out = append(out, '?')
		}
	}
	return string(out)
}

func textRuns(doc *semantic.Document) []textRun {
	var runs []textRun
	for _, p := range doc.Pages {
		var cur textRun
		var saved [][3]float64
		for _, cs := range p.Contents {
			for _, op := range cs.Operations {
				switch op.Operator {
				case "q":
					saved = append(saved, cur.Fill)
				case "Q":
					if n := len(saved); n > 0 {
						cur.Fill, saved = saved[n-1], saved[:n-1]
					}
				case "rg":
					cur.Fill = [3]float64{number(op.Operands[0]), number(op.Operands[1]), number(op.Operands[2])}
				case "Tf":
					cur.Font = op.Operands[0].(semantic.NameOperand).Value
					cur.Size = number(op.Operands[1])
				case "Tm":
					cur.X, cur.Y = number(op.Operands[4]), number(op.Operands[5])
				case "Tj":
					var font *semantic.Font
					if p.Resources != nil {
						font = p.Resources.Fonts[cur.Font]
					}
					r := cur
					r.Page = p.Index
					r.Text = decode(font, op.Operands[0].(semantic.StringOperand).Value)
					runs = append(runs, r)
				}
			}
		}
	}
	return runs
}

func rects(doc *semantic.Document) []rect {
	var out []rect
	for _, p := range doc.Pages {
		for _, cs := range p.Contents {
			for _, op := range cs.Operations {
				if op.Operator == "re" {
					out = append(out, rect{p.Index, number(op.Operands[0]), number(op.Operands[1]), number(op.Operands[2]), number(op.Operands[3])})
				}
			}
		}
	}
	return out
}

func findRuns(runs []textRun, text string) []textRun {
	var out []textRun
	for _, r := range runs {
		if r.Text == text {
			out = append(out, r)
		}
	}
	return out
}

func hasText(runs []textRun, text string) bool { return len(findRuns(runs, text)) > 0 }

// newTestComposer wires a composer on a fresh builder with the Go fonts.
func newTestComposer(t *testing.T, opts ...layout.Option) (*composer, builder.PDFBuilder) {
	t.Helper()
	b := builder.NewBuilder().
		RegisterTrueTypeFont(fontRegular, fonts.GoRegular()).
		RegisterTrueTypeFont(fontBold, fonts.GoBold())
	if err := b.Err(); err != nil {
		t.Fatalf("register fonts: %v", err)
	}
	engine := layout.NewEngine(b, append([]layout.Option{layout.WithMargin(pageMargin)}, opts...)...)
	return &composer{
		engine: engine,
		fonts:  fontSet{Regular: fontRegular, Bold: fontBold},
		labels: French(),
		trunc:  FixedChars(DefaultMaxChars),
		log:    observability.NopLogger{},
	}, b
}

func build(t *testing.T, b builder.PDFBuilder) *semantic.Document {
	t.Helper()
	doc, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return doc
}

func sampleRecord() inspection.Record {
	return inspection.Record{
		General: inspection.General{
			Author:       "Claire Martin",
			Date:         "2024-03-15",
			Time:         "14:30",
			Reference:    "APT-2024-017",
			Address:      "12 rue des Lilas, 69003 Lyon",
			Floor:        "3",
			Owner:        "SCI Les Lilas",
			Tenant:       "Jean Dupont",
			Agent:        "Agence Centrale",
			AgentAddress: "4 place Bellecour",
			AgentEmail:   "contact@agence.fr",
			AgentPhone:   "04 78 00 00 00",
		},
		MeterReadings: []inspection.MeterReading{
			{Designation: "Électricité", Reading: "12345", MeterNumber: "E-889"},
			{Designation: "", Reading: "999"},
			{Designation: "Eau froide", Reading: "87"},
		},
		Suppliers: inspection.Suppliers{Water: "Eau du Grand Lyon", Electricity: "EDF"},
		KeyHandover: []inspection.KeyItem{
			{Designation: "Porte d'entrée", Quantity: "2", DateHanded: "2024-03-15"},
		},
		Rooms: []inspection.Room{
			{ID: "r1", Type: inspection.Entrance,
				Details:   []inspection.RoomDetail{{Designation: "Sol", Nature: "Parquet", GeneralState: "Bon"}},
				Equipment: []inspection.Equipment{{ID: "e1", Designation: "Interphone", Brand: "Urmet"}}},
			{ID: "r2", Type: inspection.Bedroom, Details: []inspection.RoomDetail{{Designation: "Murs"}}},
			{ID: "r3", Type: inspection.Bedroom, Details: []inspection.RoomDetail{{Designation: "Plafond"}}},
		},
		Comments: "Logement propre.\nTraces au plafond.",
	}
}
