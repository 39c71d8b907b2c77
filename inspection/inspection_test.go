package inspection

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func loadEnvelope(t *testing.T) Envelope {
	t.Helper()
	data, err := os.ReadFile("testdata/envelope.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return env
}

func TestDecodeEnvelope(t *testing.T) {
	env := loadEnvelope(t)
	if env.Record.General.Time != "14:30" {
		t.Fatalf("heure not decoded: %q", env.Record.General.Time)
	}
	if env.Tenant == nil || env.Tenant.Email != "jean.dupont@example.com" {
		t.Fatalf("tenant not decoded: %+v", env.Tenant)
	}
	last := env.Record.Rooms[2]
	if last.Details != nil || last.Equipment != nil {
		t.Fatalf("missing collections should decode to nil")
	}
	if got := Filter(last.Details); len(got) != 0 {
		t.Fatalf("filtering a nil collection should yield nothing, got %v", got)
	}
}

func TestHasContent(t *testing.T) {
	tests := []struct {
		row  Row
		want bool
	}{
		{MeterReading{Designation: "Gaz en m³"}, true},
		{MeterReading{Designation: "", Reading: "42"}, false},
		{KeyItem{Designation: " \t"}, false},
		{RoomDetail{Designation: "Sol"}, true},
		{Equipment{ID: "e1", Notes: "x"}, false},
		{SupplierRow{Designation: "Eau"}, true},
	}
	for i, tc := range tests {
		if got := HasContent(tc.row); got != tc.want {
			t.Errorf("case %d: HasContent(%+v) = %v, want %v", i, tc.row, got, tc.want)
		}
	}
}

func TestFilterKeepsOrderAndInput(t *testing.T) {
	env := loadEnvelope(t)
	in := env.Record.MeterReadings
	before := append([]MeterReading(nil), in...)
	got := Filter(in)
	want := []MeterReading{
		{Designation: "Électricité", Reading: "12345", MeterNumber: "E-889"},
		{Designation: "Gaz en m³"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Filter mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(before, in); diff != "" {
		t.Fatalf("Filter modified its input:\n%s", diff)
	}
}

func TestFieldUnknownKey(t *testing.T) {
	if got := (Equipment{Designation: "x"}).Field("nope"); got != "" {
		t.Fatalf("unknown key should be empty, got %q", got)
	}
	if got := (KeyItem{Quantity: "2"}).Field(KeyQuantity); got != "2" {
		t.Fatalf("quantity = %q", got)
	}
}

func TestSuppliersEmpty(t *testing.T) {
	if !(Suppliers{Water: " "}).Empty() {
		t.Fatalf("blank suppliers should be empty")
	}
	if (Suppliers{Gas: "Engie"}).Empty() {
		t.Fatalf("suppliers with gas should not be empty")
	}
}

func TestRoomLabels(t *testing.T) {
	rooms := []Room{
		{Type: Entrance},
		{Type: Bedroom},
		{Type: Bedroom, Label: "Chambre parentale"},
		{Type: Bedroom},
		{Type: "attic"},
	}
	got := RoomLabels(rooms, nil)
	want := []string{"Entrée", "Chambre 1", "Chambre parentale", "Chambre 2", "Autre"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("RoomLabels mismatch (-want +got):\n%s", diff)
	}
	if rooms[1].Label != "" {
		t.Fatalf("RoomLabels modified its input")
	}

	single := RoomLabels([]Room{{Type: Bedroom}}, func(RoomType) string { return "Bedroom" })
	if single[0] != "Bedroom" {
		t.Fatalf("single bedroom should not be numbered, got %q", single[0])
	}
}

func TestRoomTypeValid(t *testing.T) {
	for _, rt := range RoomTypes {
		if !rt.Valid() {
			t.Errorf("%s should be valid", rt)
		}
	}
	if RoomType("attic").Valid() {
		t.Errorf("attic should not be valid")
	}
}
