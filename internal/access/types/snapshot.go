package types

// Snapshot is the full external view of the graph: every building with its
// rooms and occupants, plus the people who are in no building at all.
// Collection fields are always present (possibly empty) on the wire, and
// their order is the store's insertion order.
type Snapshot struct {
	Buildings []BuildingView `json:"buildings"`
	People    []PersonView   `json:"people"`
}

// BuildingView lists a building's rooms and the people who entered the
// building but are not inside any of its rooms.
type BuildingView struct {
	BuildingID uint64       `json:"building_id"`
	Name       string       `json:"name"`
	Rooms      []RoomView   `json:"rooms"`
	People     []PersonView `json:"people"`
}

type RoomView struct {
	RoomID   uint64       `json:"room_id"`
	Name     string       `json:"name"`
	Capacity uint32       `json:"capacity"`
	People   []PersonView `json:"people"`
	Events   []EventView  `json:"events"`
}

type PersonView struct {
	PersonID     uint64      `json:"person_id"`
	FirstName    string      `json:"first_name"`
	Employee     bool        `json:"employee"`
	Visitor      bool        `json:"visitor"`
	Stranger     bool        `json:"stranger"`
	Badged       bool        `json:"badged"`
	Parked       bool        `json:"parked"`
	Credentialed bool        `json:"credentialed"`
	Admissible   bool        `json:"admissible"`
	OnWiFi       bool        `json:"on_wifi"`
	Events       []EventView `json:"events"`
	InsideRoom   string      `json:"inside_room,omitempty"`
}

type EventView struct {
	Name           string `json:"name"`
	StartTimestamp uint64 `json:"start_timestamp"`
	EndTimestamp   uint64 `json:"end_timestamp"`
	RoomName       string `json:"room_name"`
}
