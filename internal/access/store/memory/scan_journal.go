// Package memory provides in-memory store implementations for tests and
// dev environments.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gaia-platform/access-control/internal/access/store"
)

// ScanJournal is an in-memory append-only scan log.
type ScanJournal struct {
	mu      sync.Mutex
	entries []store.ScanJournalEntry
}

func NewScanJournal() *ScanJournal {
	return &ScanJournal{}
}

func (j *ScanJournal) Append(_ context.Context, entry store.ScanJournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now().UTC()
	}
	j.entries = append(j.entries, entry)
	return nil
}

func (j *ScanJournal) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	kept := j.entries[:0]
	var deleted int64
	for _, e := range j.entries {
		if e.RecordedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	j.entries = kept
	return deleted, nil
}

// Entries returns a copy of the journal.  Test-only helper.
func (j *ScanJournal) Entries() []store.ScanJournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]store.ScanJournalEntry, len(j.entries))
	copy(out, j.entries)
	return out
}
