package inspection

import "strings"

// Column keys shared by the table definitions and Row.Field.
const (
	KeyDesignation  = "designation"
	KeyReading      = "reading"
	KeyMeterNumber  = "meterNumber"
	KeyNotes        = "notes"
	KeyQuantity     = "quantity"
	KeyDateHanded   = "dateHanded"
	KeyNature       = "nature"
	KeyGeneralState = "generalState"
	KeyColor        = "color"
	KeyRemark       = "remark"
	KeyWearState    = "wearState"
	KeyFunction     = "function"
	KeyBrand        = "brand"
	KeyName         = "name"
)

// Row is anything a table can render: a value per column key. Unknown keys
// yield "".
type Row interface {
	Field(key string) string
}

// HasContent is the row filter applied before any table is built: a row is
// shown only if its designation is not blank.
func HasContent(r Row) bool {
	return !blank(r.Field(KeyDesignation))
}

// Filter returns the rows passing HasContent, in their original order. The
// input slice is not modified.
func Filter[T Row](rows []T) []T {
	var out []T
	for _, r := range rows {
		if HasContent(r) {
			out = append(out, r)
		}
	}
	return out
}

// Rows converts a typed slice to []Row.
func Rows[T Row](rows []T) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func (m MeterReading) Field(key string) string {
	switch key {
	case KeyDesignation:
		return m.Designation
	case KeyReading:
		return m.Reading
	case KeyMeterNumber:
		return m.MeterNumber
	case KeyNotes:
		return m.Notes
	}
	return ""
}

func (k KeyItem) Field(key string) string {
	switch key {
	case KeyDesignation:
		return k.Designation
	case KeyQuantity:
		return k.Quantity
	case KeyDateHanded:
		return k.DateHanded
	case KeyNotes:
		return k.Notes
	}
	return ""
}

func (d RoomDetail) Field(key string) string {
	switch key {
	case KeyDesignation:
		return d.Designation
	case KeyNature:
		return d.Nature
	case KeyGeneralState:
		return d.GeneralState
	case KeyColor:
		return d.Color
	case KeyRemark:
		return d.Remark
	case KeyNotes:
		return d.Notes
	}
	return ""
}

func (e Equipment) Field(key string) string {
	switch key {
	case KeyDesignation:
		return e.Designation
	case KeyWearState:
		return e.WearState
	case KeyFunction:
		return e.Function
	case KeyRemark:
		return e.Remark
	case KeyBrand:
		return e.Brand
	case KeyColor:
		return e.Color
	case KeyNotes:
		return e.Notes
	}
	return ""
}

// SupplierRow is one line of the suppliers table: a fixed service label and
// the provider name.
type SupplierRow struct {
	Designation string
	Name        string
}

func (s SupplierRow) Field(key string) string {
	switch key {
	case KeyDesignation:
		return s.Designation
	case KeyName:
		return s.Name
	}
	return ""
}
