// Package sqlite persists the scan journal in the sqlite database opened by
// internal/db.  All writes go through the single-writer worker.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/gaia-platform/access-control/internal/db"

	"github.com/gaia-platform/access-control/internal/access/store"
)

type ScanJournal struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewScanJournal(db *sql.DB, writer *dbpkg.Worker) *ScanJournal {
	return &ScanJournal{db: db, writer: writer}
}

func (j *ScanJournal) Append(ctx context.Context, entry store.ScanJournalEntry) error {
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now().UTC()
	}
	recordedMs := entry.RecordedAt.UTC().UnixMilli()

	var personID, roomID, buildingID any
	if entry.PersonID != nil {
		personID = *entry.PersonID
	}
	if entry.RoomID != nil {
		roomID = *entry.RoomID
	}
	if entry.BuildingID != nil {
		buildingID = *entry.BuildingID
	}

	return j.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO scan_journal(ref, scan_type, person_id, room_id, building_id, recorded_at_ms)
VALUES (?, ?, ?, ?, ?, ?);
`,
			entry.Ref, entry.ScanType, personID, roomID, buildingID, recordedMs,
		); err != nil {
			return fmt.Errorf("Append insert: %w", err)
		}
		return nil
	})
}

func (j *ScanJournal) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := j.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM scan_journal WHERE recorded_at_ms < ?;`,
			cutoff.UTC().UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("PruneOlderThan delete: %w", err)
		}
		deleted, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("PruneOlderThan rows affected: %w", err)
		}
		return nil
	})
	return deleted, err
}
