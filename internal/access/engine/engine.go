// Package engine implements the access-graph operations: parking,
// room/building entry and exit, permission grants and revocation, stranger
// enrollment, and event-eligibility queries.
//
// Operations are deliberately narrow and composable.  The policy layer that
// decides allow/deny per scan composes them; nothing here decides policy.
// Every operation runs inside a caller-managed graph transaction and applies
// its mutations in call order.
package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/gaia-platform/access-control/internal/access/graph"
)

var (
	// ErrNoOwner is returned by UnparkVehicleOwner for a vehicle with no
	// owner edge.  The graph is left untouched; callers may ignore it.
	ErrNoOwner = errors.New("vehicle has no owner")

	// ErrNotParked is returned by UnparkVehicleOwner when the owner is not
	// parked at any building.  The graph is left untouched.
	ErrNotParked = errors.New("owner is not parked")

	// ErrTokenCollision is returned by GrantRoomAccess when repeated draws
	// from the token source all collide with existing grant tokens.  With a
	// uniform 64-bit source this indicates a broken source, not bad luck.
	ErrTokenCollision = errors.New("grant token collision")
)

// maxTokenDraws bounds the check-and-retry loop in GrantRoomAccess.
const maxTokenDraws = 8

// TokenSource draws grant identifiers.  The default draws uniform random
// 64-bit values; tests substitute a deterministic source.
type TokenSource interface {
	Uint64() uint64
}

type randTokenSource struct{}

func (randTokenSource) Uint64() uint64 { return rand.Uint64() }

// Engine owns the clock and the grant-token source and exposes the graph
// operations.  It holds no graph state of its own; every operation works on
// the transaction it is given.
type Engine struct {
	clock  *Clock
	tokens TokenSource
}

// Option configures an Engine.
type Option func(*Engine)

// WithTokenSource replaces the grant-token source.
func WithTokenSource(src TokenSource) Option {
	return func(e *Engine) { e.tokens = src }
}

// New returns an engine with a zeroed clock and a random token source.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:  NewClock(),
		tokens: randTokenSource{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetTime moves the engine clock.
func (e *Engine) SetTime(t uint64) { e.clock.Set(t) }

// TimeNow returns the engine clock value.
func (e *Engine) TimeNow() uint64 { return e.clock.Now() }

// ── Parking ──────────────────────────────────────────────────────────────────

// Park adds the person to the building's parked set.  Parking twice at the
// same building is a no-op.  Park does not require the person to hold a
// registration; callers that care check HasRegistrations first.
func (e *Engine) Park(tx *graph.Tx, person, building graph.ID) error {
	if err := tx.Connect(graph.ParkedBuilding, person, building); err != nil {
		return fmt.Errorf("park: %w", err)
	}
	return nil
}

// UnparkVehicleOwner resolves the vehicle's owner and removes them from the
// building they are parked at.  A vehicle without an owner, or an owner who
// never parked, leaves the graph untouched and reports a sentinel error the
// caller is free to ignore.
func (e *Engine) UnparkVehicleOwner(tx *graph.Tx, vehicle graph.ID) error {
	owner, ok := tx.Target(graph.VehicleOwner, vehicle)
	if !ok {
		return fmt.Errorf("unpark vehicle %d: %w", vehicle, ErrNoOwner)
	}
	building, ok := tx.Target(graph.ParkedBuilding, owner)
	if !ok {
		return fmt.Errorf("unpark vehicle %d: %w", vehicle, ErrNotParked)
	}
	tx.Disconnect(graph.ParkedBuilding, owner, building)
	return nil
}

// ── Eligibility queries ──────────────────────────────────────────────────────

// HasRegistrations reports whether the person holds at least one event
// registration.
func (e *Engine) HasRegistrations(tx *graph.Tx, person graph.ID) bool {
	return len(tx.List(graph.RegistrationPerson, person)) > 0
}

// HasEventNow reports whether any of the person's registered events is
// running at the current clock value.
func (e *Engine) HasEventNow(tx *graph.Tx, person graph.ID) bool {
	return e.HasEventNowIn(tx, person, 0)
}

// HasEventNowIn is HasEventNow restricted to events held in the given room.
// A zero room is a wildcard matching any room.
func (e *Engine) HasEventNowIn(tx *graph.Tx, person, room graph.ID) bool {
	now := e.clock.Now()
	for _, reg := range tx.List(graph.RegistrationPerson, person) {
		eventID, ok := tx.Target(graph.RegistrationEvent, reg)
		if !ok {
			continue
		}
		if room != 0 {
			if held, _ := tx.Target(graph.EventRoom, eventID); held != room {
				continue
			}
		}
		event, err := tx.Event(eventID)
		if err != nil {
			continue
		}
		if TimeBetween(now, event.StartTimestamp, event.EndTimestamp) {
			return true
		}
	}
	return false
}

// ── Room permissions ─────────────────────────────────────────────────────────

// GrantRoomAccess creates a standing grant linking the person to the room,
// identified by a fresh random 64-bit token.  Tokens are checked against
// every existing grant and redrawn on collision.  Granting the same pair
// twice produces two independent grants.
func (e *Engine) GrantRoomAccess(tx *graph.Tx, person, room graph.ID) (graph.ID, error) {
	var token uint64
	found := false
	for i := 0; i < maxTokenDraws; i++ {
		token = e.tokens.Uint64()
		if !grantTokenInUse(tx, token) {
			found = true
			break
		}
	}
	if !found {
		return 0, fmt.Errorf("grant room access: %w", ErrTokenCollision)
	}

	grant := tx.InsertGrant(graph.PermittedRoom{Token: token})
	if err := tx.Connect(graph.GrantPerson, grant, person); err != nil {
		return 0, fmt.Errorf("grant room access: %w", err)
	}
	if err := tx.Connect(graph.GrantRoom, grant, room); err != nil {
		return 0, fmt.Errorf("grant room access: %w", err)
	}
	return grant, nil
}

// RevokeAllRoomAccess deletes every grant owned by the person, duplicates
// included.  The grant list is snapshotted before any deletion so the
// iteration never walks a collection it is mutating.  Returns the number of
// grants removed.
func (e *Engine) RevokeAllRoomAccess(tx *graph.Tx, person graph.ID) (int, error) {
	grants := tx.List(graph.GrantPerson, person)
	for _, grant := range grants {
		if room, ok := tx.Target(graph.GrantRoom, grant); ok {
			tx.Disconnect(graph.GrantRoom, grant, room)
		}
		tx.Disconnect(graph.GrantPerson, grant, person)
		if err := tx.Delete(grant); err != nil {
			return 0, fmt.Errorf("revoke room access: %w", err)
		}
	}
	return len(grants), nil
}

// ── Occupancy ────────────────────────────────────────────────────────────────

// LeaveRoom removes the person from the room they are currently inside.
// No-op when the person is not in any room.
func (e *Engine) LeaveRoom(tx *graph.Tx, person graph.ID) {
	if room, ok := tx.Target(graph.InsideRoom, person); ok {
		tx.Disconnect(graph.InsideRoom, person, room)
	}
}

// LeaveBuilding removes the person from the building they have entered.
// No-op when the person has not entered any building.
func (e *Engine) LeaveBuilding(tx *graph.Tx, person graph.ID) {
	if building, ok := tx.Target(graph.EnteredBuilding, person); ok {
		tx.Disconnect(graph.EnteredBuilding, person, building)
	}
}

// ProcessEntry applies a scan's location edges to the person.  A room-seen
// scan moves the person into that room, leaving any previous room first so
// the at-most-one-room invariant holds by construction, and enters them into
// the room's building.  A building-seen scan enters the person into that
// building.  A scan naming neither location is a no-op.
func (e *Engine) ProcessEntry(tx *graph.Tx, person, scan graph.ID) error {
	if _, err := tx.Person(person); err != nil {
		return fmt.Errorf("process entry: %w", err)
	}
	if _, err := tx.Scan(scan); err != nil {
		return fmt.Errorf("process entry: %w", err)
	}

	if room, ok := tx.Target(graph.ScanRoom, scan); ok {
		e.LeaveRoom(tx, person)
		if building, ok := tx.Target(graph.RoomBuilding, room); ok {
			if err := e.enterBuilding(tx, person, building); err != nil {
				return fmt.Errorf("process entry: %w", err)
			}
		}
		if err := tx.Connect(graph.InsideRoom, person, room); err != nil {
			return fmt.Errorf("process entry: %w", err)
		}
	}

	if building, ok := tx.Target(graph.ScanBuilding, scan); ok {
		if err := e.enterBuilding(tx, person, building); err != nil {
			return fmt.Errorf("process entry: %w", err)
		}
	}
	return nil
}

// enterBuilding connects the person to the building, leaving any previously
// entered building first.  Entering the current building is a no-op.
func (e *Engine) enterBuilding(tx *graph.Tx, person, building graph.ID) error {
	if cur, ok := tx.Target(graph.EnteredBuilding, person); ok {
		if cur == building {
			return nil
		}
		tx.Disconnect(graph.EnteredBuilding, person, cur)
	}
	return tx.Connect(graph.EnteredBuilding, person, building)
}

// ── Stranger enrollment ──────────────────────────────────────────────────────

// EnrollStranger creates a person with only the stranger flag set and the
// given face signature.
func (e *Engine) EnrollStranger(tx *graph.Tx, faceSignature string) graph.ID {
	return tx.InsertPerson(graph.Person{
		Stranger:      true,
		FaceSignature: faceSignature,
	})
}

// RegisterStrangerVehicle creates a vehicle owned by the given person.
// Ownership is fixed for the vehicle's lifetime.
func (e *Engine) RegisterStrangerVehicle(tx *graph.Tx, person graph.ID, license string) (graph.ID, error) {
	vehicle := tx.InsertVehicle(graph.Vehicle{License: license})
	if err := tx.Connect(graph.VehicleOwner, vehicle, person); err != nil {
		return 0, fmt.Errorf("register vehicle: %w", err)
	}
	return vehicle, nil
}

func grantTokenInUse(tx *graph.Tx, token uint64) bool {
	for _, id := range tx.Grants() {
		grant, err := tx.Grant(id)
		if err == nil && grant.Token == token {
			return true
		}
	}
	return false
}
