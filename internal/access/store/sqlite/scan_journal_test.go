package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/gaia-platform/access-control/internal/access/store"
	"github.com/gaia-platform/access-control/internal/access/store/sqlite"
)

func TestAppend_PersistsAllColumns(t *testing.T) {
	conn, writer := openTestDB(t)
	journal := sqlite.NewScanJournal(conn, writer)
	ctx := context.Background()

	person, room, building := uint64(1), uint64(102), uint64(10)
	recordedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	err := journal.Append(ctx, store.ScanJournalEntry{
		Ref:        "ref-1",
		ScanType:   "badge",
		PersonID:   &person,
		RoomID:     &room,
		BuildingID: &building,
		RecordedAt: recordedAt,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	var (
		scanType                     string
		personID, roomID, buildingID sql.NullInt64
		recordedMs                   int64
	)
	row := conn.QueryRowContext(ctx, `
SELECT scan_type, person_id, room_id, building_id, recorded_at_ms
FROM scan_journal WHERE ref = ?;`, "ref-1")
	if err := row.Scan(&scanType, &personID, &roomID, &buildingID, &recordedMs); err != nil {
		t.Fatalf("scan row: %v", err)
	}

	if scanType != "badge" {
		t.Errorf("scan_type: expected badge, got %q", scanType)
	}
	if !personID.Valid || personID.Int64 != 1 {
		t.Errorf("person_id: expected 1, got %+v", personID)
	}
	if !roomID.Valid || roomID.Int64 != 102 {
		t.Errorf("room_id: expected 102, got %+v", roomID)
	}
	if !buildingID.Valid || buildingID.Int64 != 10 {
		t.Errorf("building_id: expected 10, got %+v", buildingID)
	}
	if recordedMs != recordedAt.UnixMilli() {
		t.Errorf("recorded_at_ms: expected %d, got %d", recordedAt.UnixMilli(), recordedMs)
	}
}

func TestAppend_AbsentReferencesAreNull(t *testing.T) {
	conn, writer := openTestDB(t)
	journal := sqlite.NewScanJournal(conn, writer)
	ctx := context.Background()

	err := journal.Append(ctx, store.ScanJournalEntry{
		Ref:      "ref-null",
		ScanType: "unclassified",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	var personID, roomID, buildingID sql.NullInt64
	var recordedMs int64
	row := conn.QueryRowContext(ctx, `
SELECT person_id, room_id, building_id, recorded_at_ms
FROM scan_journal WHERE ref = ?;`, "ref-null")
	if err := row.Scan(&personID, &roomID, &buildingID, &recordedMs); err != nil {
		t.Fatalf("scan row: %v", err)
	}

	if personID.Valid || roomID.Valid || buildingID.Valid {
		t.Errorf("expected NULL references, got person=%+v room=%+v building=%+v",
			personID, roomID, buildingID)
	}
	// A zero RecordedAt is stamped at append time.
	if recordedMs == 0 {
		t.Error("expected recorded_at_ms to be stamped")
	}
}

func TestAppend_DuplicateRefRejected(t *testing.T) {
	conn, writer := openTestDB(t)
	journal := sqlite.NewScanJournal(conn, writer)
	ctx := context.Background()

	entry := store.ScanJournalEntry{Ref: "ref-dup", ScanType: "badge"}
	if err := journal.Append(ctx, entry); err != nil {
		t.Fatalf("first Append: %v", err)
	}
	if err := journal.Append(ctx, entry); err == nil {
		t.Fatal("expected unique-ref violation on duplicate Append")
	}
}

func TestPruneOlderThan(t *testing.T) {
	conn, writer := openTestDB(t)
	journal := sqlite.NewScanJournal(conn, writer)
	ctx := context.Background()

	now := time.Now().UTC()
	rows := []struct {
		ref string
		at  time.Time
	}{
		{"ancient", now.Add(-72 * time.Hour)},
		{"stale", now.Add(-48 * time.Hour)},
		{"fresh", now},
	}
	for _, r := range rows {
		if err := journal.Append(ctx, store.ScanJournalEntry{
			Ref: r.ref, ScanType: "badge", RecordedAt: r.at,
		}); err != nil {
			t.Fatalf("Append %s: %v", r.ref, err)
		}
	}

	deleted, err := journal.PruneOlderThan(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("PruneOlderThan: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}

	var survivors int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM scan_journal;`).Scan(&survivors); err != nil {
		t.Fatalf("count: %v", err)
	}
	if survivors != 1 {
		t.Errorf("expected 1 surviving row, got %d", survivors)
	}

	var ref string
	if err := conn.QueryRowContext(ctx, `SELECT ref FROM scan_journal;`).Scan(&ref); err != nil {
		t.Fatalf("select survivor: %v", err)
	}
	if ref != "fresh" {
		t.Errorf("expected fresh row to survive, got %q", ref)
	}

	// Pruning again finds nothing.
	deleted, err = journal.PruneOlderThan(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("second PruneOlderThan: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 deleted on second prune, got %d", deleted)
	}
}
