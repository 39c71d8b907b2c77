// Package inspection holds the "état des lieux" record the report is
// generated from. Everything here is read-only input: nothing in the module
// mutates a Record once it has been decoded.
package inspection

// Record is one inspection of a property.
type Record struct {
	General       General        `json:"general"`
	MeterReadings []MeterReading `json:"meterReadings"`
	Suppliers     Suppliers      `json:"suppliers"`
	KeyHandover   []KeyItem      `json:"keyHandover"`
	Rooms         []Room         `json:"rooms"`
	Comments      string         `json:"comments"`
}

// General carries the free-standing information lines of the report.
type General struct {
	Author       string `json:"author"`
	Date         string `json:"date"`
	Time         string `json:"heure"`
	Reference    string `json:"propertyReference"`
	Address      string `json:"address"`
	PropertyType string `json:"propertyType"`
	Floor        string `json:"floor"`
	Owner        string `json:"owner"`
	Tenant       string `json:"tenant"`
	Agent        string `json:"agent"`
	AgentAddress string `json:"agentAddress"`
	AgentEmail   string `json:"agentEmail"`
	AgentPhone   string `json:"agentPhone"`
}

type MeterReading struct {
	Designation string `json:"designation"`
	Reading     string `json:"reading"`
	MeterNumber string `json:"meterNumber"`
	Notes       string `json:"notes"`
}

// Suppliers names the utility providers. It is a fixed set of fields rather
// than a collection.
type Suppliers struct {
	Water       string `json:"water"`
	Electricity string `json:"electricity"`
	Gas         string `json:"gas"`
	Telephony   string `json:"telephony"`
}

// Empty reports whether every supplier is blank.
func (s Suppliers) Empty() bool {
	return blank(s.Water) && blank(s.Electricity) && blank(s.Gas) && blank(s.Telephony)
}

type KeyItem struct {
	Designation string `json:"designation"`
	Quantity    string `json:"quantity"`
	DateHanded  string `json:"dateHanded"`
	Notes       string `json:"notes"`
}

type Room struct {
	ID        string       `json:"id"`
	Type      RoomType     `json:"type"`
	Label     string       `json:"label"`
	Details   []RoomDetail `json:"details"`
	Equipment []Equipment  `json:"equipment"`
}

type RoomDetail struct {
	Designation  string `json:"designation"`
	Nature       string `json:"nature"`
	GeneralState string `json:"generalState"`
	Color        string `json:"color"`
	Remark       string `json:"remark"`
	Notes        string `json:"notes"`
}

type Equipment struct {
	ID          string `json:"id"`
	Designation string `json:"designation"`
	WearState   string `json:"wearState"`
	Function    string `json:"function"`
	Remark      string `json:"remark"`
	Brand       string `json:"brand"`
	Color       string `json:"color"`
	Notes       string `json:"notes"`
}

// Property is the listing the inspection belongs to. Its fields fill in for
// empty General fields.
type Property struct {
	Address   string `json:"address"`
	Type      string `json:"type"`
	Reference string `json:"reference"`
}

// Tenant is the occupant context; Name fills in for an empty General.Tenant.
type Tenant struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Envelope is the on-disk and stored form: a record with its optional
// context objects.
type Envelope struct {
	Record   Record    `json:"record"`
	Property *Property `json:"property,omitempty"`
	Tenant   *Tenant   `json:"tenant,omitempty"`
}
