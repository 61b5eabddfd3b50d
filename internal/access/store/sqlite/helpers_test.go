package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/gaia-platform/access-control/internal/db"
)

// openTestDB opens a migrated journal database in a per-test temp dir plus
// a writer worker, both torn down with the test.
func openTestDB(t *testing.T) (*sql.DB, *db.Worker) {
	t.Helper()

	conn, err := db.Open(context.Background(), db.Config{
		Path: filepath.Join(t.TempDir(), "journal.db"),
		Env:  "dev",
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	writer := db.NewWorker(conn)
	t.Cleanup(func() {
		writer.Close()
		_ = conn.Close()
	})
	return conn, writer
}
