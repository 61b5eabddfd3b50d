// Package store defines the persistence interfaces behind the access graph.
// The graph itself is in-memory; what persists is the append-only journal of
// ingested scans, for audit and offline analysis.
package store

import (
	"context"
	"time"
)

// ScanJournalEntry is one ingested scan as written to the journal.  Entity
// references are the external numeric ids from the scan record; references
// that did not resolve at ingestion time are still journaled as given.
type ScanJournalEntry struct {
	Ref        string // UUID correlating with the graph's Scan entity
	ScanType   string
	PersonID   *uint64
	RoomID     *uint64
	BuildingID *uint64
	RecordedAt time.Time
}

// ScanJournal is an append-only log of ingested scans.
type ScanJournal interface {
	Append(ctx context.Context, entry ScanJournalEntry) error
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
