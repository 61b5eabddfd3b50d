// Package graph is the in-memory entity store for the access-control graph.
//
// Entities live in an arena addressed by stable integer handles.  Every
// relationship between two entities is a named Relation whose both sides are
// maintained by the Connect/Disconnect primitives — callers never touch an
// adjacency list directly, so the two sides of an edge cannot drift apart.
//
// The store is single-writer: all reads and writes go through a Tx obtained
// from Begin, and at most one Tx is in flight at a time (Begin blocks until
// the previous Tx finishes).  Abort replays an undo log, so an aborted Tx
// leaves no observable mutation.
package graph

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ID is a stable handle into the entity arena.  The zero ID is never
// assigned and acts as "no entity" in lookups.
type ID uint64

// Kind discriminates the entity types stored in the arena.
type Kind uint8

const (
	KindPerson Kind = iota + 1
	KindBuilding
	KindRoom
	KindEvent
	KindRegistration
	KindVehicle
	KindPermittedRoom
	KindScan
)

func (k Kind) String() string {
	switch k {
	case KindPerson:
		return "person"
	case KindBuilding:
		return "building"
	case KindRoom:
		return "room"
	case KindEvent:
		return "event"
	case KindRegistration:
		return "registration"
	case KindVehicle:
		return "vehicle"
	case KindPermittedRoom:
		return "permitted_room"
	case KindScan:
		return "scan"
	default:
		return "unknown"
	}
}

var (
	// ErrNotFound is returned when a handle does not resolve to a live entity.
	ErrNotFound = errors.New("entity not found")

	// ErrKindMismatch is returned when a handle resolves to an entity of a
	// different kind than the accessor expects.
	ErrKindMismatch = errors.New("entity kind mismatch")

	// ErrConflict is returned by Connect when the forward slot of a relation
	// is already bound to a different entity.  Callers disconnect first.
	ErrConflict = errors.New("relation already bound")

	// ErrImmutable is returned by Connect when re-binding a relation that is
	// fixed at creation time (vehicle ownership).
	ErrImmutable = errors.New("relation is immutable")

	// ErrHasEdges is returned by Delete while any relation still references
	// the entity.
	ErrHasEdges = errors.New("entity still has relationship edges")

	// ErrBadEventWindow is returned by InsertEvent when start > end.
	ErrBadEventWindow = errors.New("event start after end")

	// ErrTxDone is returned when a Tx is used after Commit or Abort.
	ErrTxDone = errors.New("transaction already finished")
)

// Store owns the arena and all relation indexes.
type Store struct {
	mu sync.Mutex

	next  ID
	kinds map[ID]Kind
	data  map[ID]any
	order map[Kind][]ID

	fwd map[Relation]map[ID]ID
	rev map[Relation]map[ID][]ID
}

// NewStore returns an empty store.
func NewStore() *Store {
	s := &Store{}
	s.reset()
	return s
}

// reset replaces every index with a fresh one.  Handle allocation is not
// rewound, so handles from before a reset are never reused.
func (s *Store) reset() {
	s.kinds = make(map[ID]Kind)
	s.data = make(map[ID]any)
	s.order = make(map[Kind][]ID)
	s.fwd = make(map[Relation]map[ID]ID)
	s.rev = make(map[Relation]map[ID][]ID)
}

// Tx is a serialized view over the store.  All reads and mutations happen
// through a Tx; Commit keeps the mutations, Abort rewinds them.
type Tx struct {
	s    *Store
	undo []func()
	done bool
}

// Begin starts a transaction, blocking until any in-flight transaction
// commits or aborts.
func (s *Store) Begin() *Tx {
	s.mu.Lock()
	return &Tx{s: s}
}

// View runs fn inside a transaction that is always aborted, for read-only
// callers that should not be able to leak mutations.
func (s *Store) View(fn func(tx *Tx)) {
	tx := s.Begin()
	defer tx.Abort()
	fn(tx)
}

// Update runs fn inside a transaction, committing on nil and aborting on
// error.  The returned error is fn's error.
func (s *Store) Update(fn func(tx *Tx) error) error {
	tx := s.Begin()
	if err := fn(tx); err != nil {
		tx.Abort()
		return err
	}
	tx.Commit()
	return nil
}

// Commit keeps every mutation made in the transaction.
func (tx *Tx) Commit() {
	if tx.done {
		return
	}
	tx.done = true
	tx.undo = nil
	tx.s.mu.Unlock()
}

// Abort rewinds every mutation made in the transaction, in reverse order.
func (tx *Tx) Abort() {
	if tx.done {
		return
	}
	tx.done = true
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
	tx.s.mu.Unlock()
}

// Reset drops every entity and edge.  Handles are not reused afterwards.
func (tx *Tx) Reset() {
	s := tx.s
	kinds, data, order, fwd, rev := s.kinds, s.data, s.order, s.fwd, s.rev
	tx.undo = append(tx.undo, func() {
		s.kinds, s.data, s.order, s.fwd, s.rev = kinds, data, order, fwd, rev
	})
	s.reset()
}

// insert allocates a handle for data and records it in insertion order.
func (tx *Tx) insert(k Kind, data any) ID {
	s := tx.s
	s.next++
	id := s.next
	s.kinds[id] = k
	s.data[id] = data
	s.order[k] = append(s.order[k], id)
	tx.undo = append(tx.undo, func() {
		delete(s.kinds, id)
		delete(s.data, id)
		s.order[k] = removeID(s.order[k], id)
	})
	return id
}

// get resolves id to its data, checking the expected kind.
func (tx *Tx) get(k Kind, id ID) (any, error) {
	have, ok := tx.s.kinds[id]
	if !ok {
		return nil, fmt.Errorf("%s %d: %w", k, id, ErrNotFound)
	}
	if have != k {
		return nil, fmt.Errorf("%s %d is a %s: %w", k, id, have, ErrKindMismatch)
	}
	return tx.s.data[id], nil
}

// KindOf reports the kind of a live entity.
func (tx *Tx) KindOf(id ID) (Kind, bool) {
	k, ok := tx.s.kinds[id]
	return k, ok
}

// Delete removes an entity from the arena.  It fails with ErrHasEdges while
// any relation, on either side, still references the entity.
func (tx *Tx) Delete(id ID) error {
	s := tx.s
	k, ok := s.kinds[id]
	if !ok {
		return fmt.Errorf("delete %d: %w", id, ErrNotFound)
	}
	for rel := range relationSpecs {
		r := Relation(rel)
		if _, ok := s.fwd[r][id]; ok {
			return fmt.Errorf("delete %s %d: forward %s edge remains: %w", k, id, r, ErrHasEdges)
		}
		if len(s.rev[r][id]) > 0 {
			return fmt.Errorf("delete %s %d: %s edges remain: %w", k, id, r, ErrHasEdges)
		}
	}

	data := s.data[id]
	pos := slices.Index(s.order[k], id)
	delete(s.kinds, id)
	delete(s.data, id)
	s.order[k] = slices.Delete(slices.Clone(s.order[k]), pos, pos+1)
	tx.undo = append(tx.undo, func() {
		s.kinds[id] = k
		s.data[id] = data
		s.order[k] = slices.Insert(slices.Clone(s.order[k]), pos, id)
	})
	return nil
}

// all returns the live handles of a kind in insertion order.
func (tx *Tx) all(k Kind) []ID {
	return slices.Clone(tx.s.order[k])
}

// Len reports how many entities of a kind are live.
func (tx *Tx) Len(k Kind) int {
	return len(tx.s.order[k])
}

func removeID(ids []ID, id ID) []ID {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}
