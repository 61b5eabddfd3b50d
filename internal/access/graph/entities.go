package graph

// Person attributes.  PersonID is the external numeric id used by scan
// records and seed data; the arena handle is separate.
type Person struct {
	PersonID      uint64
	FirstName     string
	Employee      bool
	Visitor       bool
	Stranger      bool
	Badged        bool
	Parked        bool
	Credentialed  bool
	Admissible    bool
	OnWiFi        bool
	FaceSignature string
	EntryTime     uint64
	LeaveTime     uint64
}

type Building struct {
	BuildingID uint64
	Name       string
}

type Room struct {
	RoomID   uint64
	Name     string
	Capacity uint32
}

type Event struct {
	Name           string
	StartTimestamp uint64
	EndTimestamp   uint64
}

// Registration is a pure join row between a person and an event.
type Registration struct{}

type Vehicle struct {
	License string
}

// PermittedRoom is a standing grant joining a person to a room.  Token is
// the externally visible random 64-bit identifier; uniqueness is enforced
// by the engine at grant time, not by the store.
type PermittedRoom struct {
	Token uint64
}

// ScanType classifies a credential scan.  ScanUnclassified is the recorded
// type for scan records whose type string is not recognized; such records
// are kept, not rejected.
type ScanType uint8

const (
	ScanUnclassified ScanType = iota
	ScanBadge
	ScanVehicleEntering
	ScanVehicleDeparting
	ScanJoiningWifi
	ScanLeavingWifi
	ScanFace
	ScanLeaving
)

func (t ScanType) String() string {
	switch t {
	case ScanBadge:
		return "badge"
	case ScanVehicleEntering:
		return "vehicle_entering"
	case ScanVehicleDeparting:
		return "vehicle_departing"
	case ScanJoiningWifi:
		return "joining_wifi"
	case ScanLeavingWifi:
		return "leaving_wifi"
	case ScanFace:
		return "face"
	case ScanLeaving:
		return "leaving"
	default:
		return "unclassified"
	}
}

// Scan is an immutable record of a sensed credential/vehicle/wifi event.
// Ref correlates the graph entity with the scan journal.
type Scan struct {
	Type ScanType
	Ref  string
}

// ── Typed inserts ────────────────────────────────────────────────────────────

func (tx *Tx) InsertPerson(p Person) ID       { return tx.insert(KindPerson, &p) }
func (tx *Tx) InsertBuilding(b Building) ID   { return tx.insert(KindBuilding, &b) }
func (tx *Tx) InsertRoom(r Room) ID           { return tx.insert(KindRoom, &r) }
func (tx *Tx) InsertRegistration() ID         { return tx.insert(KindRegistration, &Registration{}) }
func (tx *Tx) InsertVehicle(v Vehicle) ID     { return tx.insert(KindVehicle, &v) }
func (tx *Tx) InsertGrant(g PermittedRoom) ID { return tx.insert(KindPermittedRoom, &g) }
func (tx *Tx) InsertScan(s Scan) ID           { return tx.insert(KindScan, &s) }

// InsertEvent validates the eligibility window before inserting.
func (tx *Tx) InsertEvent(e Event) (ID, error) {
	if e.StartTimestamp > e.EndTimestamp {
		return 0, ErrBadEventWindow
	}
	return tx.insert(KindEvent, &e), nil
}

// ── Typed reads ──────────────────────────────────────────────────────────────

func (tx *Tx) Person(id ID) (*Person, error) {
	v, err := tx.get(KindPerson, id)
	if err != nil {
		return nil, err
	}
	return v.(*Person), nil
}

func (tx *Tx) Building(id ID) (*Building, error) {
	v, err := tx.get(KindBuilding, id)
	if err != nil {
		return nil, err
	}
	return v.(*Building), nil
}

func (tx *Tx) Room(id ID) (*Room, error) {
	v, err := tx.get(KindRoom, id)
	if err != nil {
		return nil, err
	}
	return v.(*Room), nil
}

func (tx *Tx) Event(id ID) (*Event, error) {
	v, err := tx.get(KindEvent, id)
	if err != nil {
		return nil, err
	}
	return v.(*Event), nil
}

func (tx *Tx) Vehicle(id ID) (*Vehicle, error) {
	v, err := tx.get(KindVehicle, id)
	if err != nil {
		return nil, err
	}
	return v.(*Vehicle), nil
}

func (tx *Tx) Grant(id ID) (*PermittedRoom, error) {
	v, err := tx.get(KindPermittedRoom, id)
	if err != nil {
		return nil, err
	}
	return v.(*PermittedRoom), nil
}

func (tx *Tx) Scan(id ID) (*Scan, error) {
	v, err := tx.get(KindScan, id)
	if err != nil {
		return nil, err
	}
	return v.(*Scan), nil
}

// ── Iteration (insertion order) ──────────────────────────────────────────────

func (tx *Tx) People() []ID    { return tx.all(KindPerson) }
func (tx *Tx) Buildings() []ID { return tx.all(KindBuilding) }
func (tx *Tx) Rooms() []ID     { return tx.all(KindRoom) }
func (tx *Tx) Events() []ID    { return tx.all(KindEvent) }
func (tx *Tx) Vehicles() []ID  { return tx.all(KindVehicle) }
func (tx *Tx) Grants() []ID    { return tx.all(KindPermittedRoom) }
func (tx *Tx) Scans() []ID     { return tx.all(KindScan) }

// ── External-id lookups ──────────────────────────────────────────────────────
//
// Scan records and seed data address people, rooms and buildings by their
// external numeric ids.  Lookups walk insertion order, like the original
// system's filtered table scans.

func (tx *Tx) FindPerson(personID uint64) (ID, bool) {
	for _, id := range tx.s.order[KindPerson] {
		if tx.s.data[id].(*Person).PersonID == personID {
			return id, true
		}
	}
	return 0, false
}

func (tx *Tx) FindRoom(roomID uint64) (ID, bool) {
	for _, id := range tx.s.order[KindRoom] {
		if tx.s.data[id].(*Room).RoomID == roomID {
			return id, true
		}
	}
	return 0, false
}

func (tx *Tx) FindBuilding(buildingID uint64) (ID, bool) {
	for _, id := range tx.s.order[KindBuilding] {
		if tx.s.data[id].(*Building).BuildingID == buildingID {
			return id, true
		}
	}
	return 0, false
}
