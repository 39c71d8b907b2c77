package report

import "github.com/wudi/inspectkit/inspection"

// Labels holds every fixed string printed in a report.
type Labels struct {
	Title         string
	DocumentTitle string
	GeneratedOn   string // prefix of the timestamp line
	DateTimeSep   string
	EstablishedBy string
	Attestation   string

	Address      string
	PropertyType string
	Reference    string
	Floor        string
	Owner        string
	Tenant       string
	Agent        string

	Meters      string
	Suppliers   string
	Keys        string
	Details     string
	Equipment   string
	Comments    string
	Signatures  string
	SignTenant  string
	SignOwner   string
	ReadApprove string

	Designation  string
	Reading      string
	MeterNumber  string
	Notes        string
	Service      string
	Provider     string
	Quantity     string
	DateHanded   string
	Nature       string
	GeneralState string
	Color        string
	Remark       string
	WearState    string
	Function     string
	Brand        string

	Water       string
	Electricity string
	Gas         string
	Telephony   string

	Rooms map[inspection.RoomType]string
}

// RoomName is the display name of a room type, falling back to Other.
func (l Labels) RoomName(t inspection.RoomType) string {
	if name, ok := l.Rooms[t]; ok {
		return name
	}
	if name, ok := l.Rooms[inspection.Other]; ok {
		return name
	}
	return t.DefaultLabel()
}

// French is the default label set.
func French() Labels {
	rooms := make(map[inspection.RoomType]string, len(inspection.RoomTypes))
	for _, t := range inspection.RoomTypes {
		rooms[t] = t.DefaultLabel()
	}
	return Labels{
		Title:         "ÉTAT DES LIEUX",
		DocumentTitle: "État des lieux",
		GeneratedOn:   "Document généré le",
		DateTimeSep:   " à ",
		EstablishedBy: "Établi par :",
		Attestation:   "Le présent état des lieux a été établi contradictoirement entre les parties.",

		Address:      "Adresse :",
		PropertyType: "Type de bien :",
		Reference:    "Référence :",
		Floor:        "Étage :",
		Owner:        "Propriétaire :",
		Tenant:       "Locataire :",
		Agent:        "Mandataire :",

		Meters:      "Relevés des compteurs",
		Suppliers:   "Fournisseurs",
		Keys:        "Remise des clés",
		Details:     "Détails",
		Equipment:   "Équipements",
		Comments:    "Commentaires",
		Signatures:  "Signatures",
		SignTenant:  "Le locataire",
		SignOwner:   "Le bailleur ou son mandataire",
		ReadApprove: "Lu et approuvé",

		Designation:  "Désignation",
		Reading:      "Relevé",
		MeterNumber:  "N° compteur",
		Notes:        "Observations",
		Service:      "Service",
		Provider:     "Fournisseur",
		Quantity:     "Quantité",
		DateHanded:   "Date de remise",
		Nature:       "Nature",
		GeneralState: "État général",
		Color:        "Couleur",
		Remark:       "Remarque",
		WearState:    "État d'usure",
		Function:     "Fonctionnement",
		Brand:        "Marque",

		Water:       "Eau",
		Electricity: "Électricité",
		Gas:         "Gaz",
		Telephony:   "Téléphonie",

		Rooms: rooms,
	}
}

// English is the label set selected with -lang en.
func English() Labels {
	return Labels{
		Title:         "INSPECTION REPORT",
		DocumentTitle: "Inspection report",
		GeneratedOn:   "Document generated on",
		DateTimeSep:   " at ",
		EstablishedBy: "Established by:",
		Attestation:   "This inspection report was drawn up jointly by the parties.",

		Address:      "Address:",
		PropertyType: "Property type:",
		Reference:    "Reference:",
		Floor:        "Floor:",
		Owner:        "Owner:",
		Tenant:       "Tenant:",
		Agent:        "Agent:",

		Meters:      "Meter readings",
		Suppliers:   "Suppliers",
		Keys:        "Key handover",
		Details:     "Details",
		Equipment:   "Equipment",
		Comments:    "Comments",
		Signatures:  "Signatures",
		SignTenant:  "The tenant",
		SignOwner:   "The landlord or agent",
		ReadApprove: "Read and approved",

		Designation:  "Designation",
		Reading:      "Reading",
		MeterNumber:  "Meter no.",
		Notes:        "Notes",
		Service:      "Service",
		Provider:     "Provider",
		Quantity:     "Quantity",
		DateHanded:   "Date handed",
		Nature:       "Nature",
		GeneralState: "Condition",
		Color:        "Color",
		Remark:       "Remark",
		WearState:    "Wear",
		Function:     "Working",
		Brand:        "Brand",

		Water:       "Water",
		Electricity: "Electricity",
		Gas:         "Gas",
		Telephony:   "Telephony",

		Rooms: map[inspection.RoomType]string{
			inspection.Entrance:   "Entrance",
			inspection.Bedroom:    "Bedroom",
			inspection.Kitchen:    "Kitchen",
			inspection.LivingRoom: "Living room",
			inspection.Bathroom:   "Bathroom",
			inspection.Terrace:    "Terrace",
			inspection.Balcony:    "Balcony",
			inspection.Toilet:     "Toilet",
			inspection.Storage:    "Storage",
			inspection.Garage:     "Garage",
			inspection.Other:      "Other",
		},
	}
}

// LabelsFor returns the label set for a language code; unknown codes get
// French.
func LabelsFor(lang string) Labels {
	if lang == "en" {
		return English()
	}
	return French()
}
