package inspection

import "strconv"

// RoomType enumerates the kinds of room an inspection covers.
type RoomType string

const (
	Entrance   RoomType = "entrance"
	Bedroom    RoomType = "bedroom"
	Kitchen    RoomType = "kitchen"
	LivingRoom RoomType = "living_room"
	Bathroom   RoomType = "bathroom"
	Terrace    RoomType = "terrace"
	Balcony    RoomType = "balcony"
	Toilet     RoomType = "toilet"
	Storage    RoomType = "storage"
	Garage     RoomType = "garage"
	Other      RoomType = "other"
)

// RoomTypes lists every known type in display order.
var RoomTypes = []RoomType{Entrance, Bedroom, Kitchen, LivingRoom, Bathroom, Terrace, Balcony, Toilet, Storage, Garage, Other}

var frenchRoomNames = map[RoomType]string{
	Entrance:   "Entrée",
	Bedroom:    "Chambre",
	Kitchen:    "Cuisine",
	LivingRoom: "Salon",
	Bathroom:   "Salle de bain",
	Terrace:    "Terrasse",
	Balcony:    "Balcon",
	Toilet:     "WC",
	Storage:    "Rangement",
	Garage:     "Garage",
	Other:      "Autre",
}

// Valid reports whether t is one of RoomTypes.
func (t RoomType) Valid() bool {
	_, ok := frenchRoomNames[t]
	return ok
}

// DefaultLabel is the French display name of the type. Unknown types read as
// Other.
func (t RoomType) DefaultLabel() string {
	if name, ok := frenchRoomNames[t]; ok {
		return name
	}
	return frenchRoomNames[Other]
}

// RoomLabels returns one display label per room. An explicit Label wins;
// otherwise the type name from name is used, and when a record has several
// unlabelled bedrooms they are numbered in record order ("Chambre 1",
// "Chambre 2"). A nil name uses RoomType.DefaultLabel. The rooms are not
// modified.
func RoomLabels(rooms []Room, name func(RoomType) string) []string {
	if name == nil {
		name = RoomType.DefaultLabel
	}
	bedrooms := 0
	for _, r := range rooms {
		if r.Type == Bedroom && blank(r.Label) {
			bedrooms++
		}
	}
	labels := make([]string, len(rooms))
	n := 0
	for i, r := range rooms {
		switch {
		case !blank(r.Label):
			labels[i] = r.Label
		case r.Type == Bedroom && bedrooms > 1:
			n++
			labels[i] = name(Bedroom) + " " + strconv.Itoa(n)
		default:
			labels[i] = name(r.Type)
		}
	}
	return labels
}
