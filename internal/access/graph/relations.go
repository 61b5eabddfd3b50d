package graph

import "fmt"

// Relation names one relationship type in the graph.  Every relation is
// many-to-one: the forward side holds at most one target, the reverse side
// is an insertion-ordered list.  One-to-at-most-one edges (a person's
// current room) fall out of the forward-side cardinality.
type Relation uint8

const (
	// RoomBuilding: room → owning building (building's room list).
	RoomBuilding Relation = iota
	// EventRoom: event → room it is held in (room's event list).
	EventRoom
	// RegistrationPerson: registration → registrant (person's registrations).
	RegistrationPerson
	// RegistrationEvent: registration → occasion (event's registrations).
	RegistrationEvent
	// VehicleOwner: vehicle → owner.  Fixed at creation, never re-bound.
	VehicleOwner
	// GrantPerson: permitted-room grant → permittee.
	GrantPerson
	// GrantRoom: permitted-room grant → target room.
	GrantRoom
	// InsideRoom: person → room they are currently inside (room occupants).
	InsideRoom
	// EnteredBuilding: person → building they have entered.
	EnteredBuilding
	// ParkedBuilding: person → building they are parked at.
	ParkedBuilding
	// ScanPerson: scan → person seen.
	ScanPerson
	// ScanRoom: scan → room seen in.
	ScanRoom
	// ScanBuilding: scan → building seen at.
	ScanBuilding
	// ScanVehicle: scan → vehicle whose license was seen.
	ScanVehicle
)

type relationSpec struct {
	name      string
	from, to  Kind
	immutable bool
}

var relationSpecs = [...]relationSpec{
	RoomBuilding:       {name: "room_building", from: KindRoom, to: KindBuilding},
	EventRoom:          {name: "event_room", from: KindEvent, to: KindRoom},
	RegistrationPerson: {name: "registration_person", from: KindRegistration, to: KindPerson},
	RegistrationEvent:  {name: "registration_event", from: KindRegistration, to: KindEvent},
	VehicleOwner:       {name: "vehicle_owner", from: KindVehicle, to: KindPerson, immutable: true},
	GrantPerson:        {name: "grant_person", from: KindPermittedRoom, to: KindPerson},
	GrantRoom:          {name: "grant_room", from: KindPermittedRoom, to: KindRoom},
	InsideRoom:         {name: "inside_room", from: KindPerson, to: KindRoom},
	EnteredBuilding:    {name: "entered_building", from: KindPerson, to: KindBuilding},
	ParkedBuilding:     {name: "parked_building", from: KindPerson, to: KindBuilding},
	ScanPerson:         {name: "scan_person", from: KindScan, to: KindPerson},
	ScanRoom:           {name: "scan_room", from: KindScan, to: KindRoom},
	ScanBuilding:       {name: "scan_building", from: KindScan, to: KindBuilding},
	ScanVehicle:        {name: "scan_vehicle", from: KindScan, to: KindVehicle},
}

func (r Relation) String() string { return relationSpecs[r].name }

// Connect binds from → to under rel and appends from to to's reverse list.
// Connecting an already-connected pair is a no-op.  Connecting a forward
// slot that is bound elsewhere fails with ErrConflict (ErrImmutable for
// relations fixed at creation) — the caller disconnects first.
func (tx *Tx) Connect(rel Relation, from, to ID) error {
	s := tx.s
	spec := relationSpecs[rel]
	if err := tx.check(spec.from, from); err != nil {
		return fmt.Errorf("connect %s: %w", spec.name, err)
	}
	if err := tx.check(spec.to, to); err != nil {
		return fmt.Errorf("connect %s: %w", spec.name, err)
	}

	if cur, ok := s.fwd[rel][from]; ok {
		if cur == to {
			return nil
		}
		if spec.immutable {
			return fmt.Errorf("connect %s: %s %d already owned by %s %d: %w",
				spec.name, spec.from, from, spec.to, cur, ErrImmutable)
		}
		return fmt.Errorf("connect %s: %s %d already bound to %s %d: %w",
			spec.name, spec.from, from, spec.to, cur, ErrConflict)
	}

	if s.fwd[rel] == nil {
		s.fwd[rel] = make(map[ID]ID)
	}
	if s.rev[rel] == nil {
		s.rev[rel] = make(map[ID][]ID)
	}
	s.fwd[rel][from] = to
	s.rev[rel][to] = append(s.rev[rel][to], from)
	tx.undo = append(tx.undo, func() {
		delete(s.fwd[rel], from)
		s.rev[rel][to] = removeID(s.rev[rel][to], from)
	})
	return nil
}

// Disconnect removes the from → to edge under rel from both sides.  It is a
// no-op when the edge does not exist.
func (tx *Tx) Disconnect(rel Relation, from, to ID) {
	s := tx.s
	if cur, ok := s.fwd[rel][from]; !ok || cur != to {
		return
	}
	pos := indexOf(s.rev[rel][to], from)
	delete(s.fwd[rel], from)
	s.rev[rel][to] = append(s.rev[rel][to][:pos:pos], s.rev[rel][to][pos+1:]...)
	tx.undo = append(tx.undo, func() {
		s.fwd[rel][from] = to
		cur := s.rev[rel][to]
		next := make([]ID, 0, len(cur)+1)
		next = append(next, cur[:pos]...)
		next = append(next, from)
		next = append(next, cur[pos:]...)
		s.rev[rel][to] = next
	})
}

// Target reports the forward side of rel for from, if bound.
func (tx *Tx) Target(rel Relation, from ID) (ID, bool) {
	to, ok := tx.s.fwd[rel][from]
	return to, ok
}

// List returns the reverse side of rel for to, in insertion order.
func (tx *Tx) List(rel Relation, to ID) []ID {
	cur := tx.s.rev[rel][to]
	out := make([]ID, len(cur))
	copy(out, cur)
	return out
}

func (tx *Tx) check(k Kind, id ID) error {
	have, ok := tx.s.kinds[id]
	if !ok {
		return fmt.Errorf("%s %d: %w", k, id, ErrNotFound)
	}
	if have != k {
		return fmt.Errorf("%s %d is a %s: %w", k, id, have, ErrKindMismatch)
	}
	return nil
}

func indexOf(ids []ID, id ID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
