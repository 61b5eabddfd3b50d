package service_test

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/gaia-platform/access-control/internal/access/engine"
	"github.com/gaia-platform/access-control/internal/access/graph"
	"github.com/gaia-platform/access-control/internal/access/service"
	"github.com/gaia-platform/access-control/internal/access/types"
)

func project(t *testing.T, s *graph.Store) types.Snapshot {
	t.Helper()
	var snap types.Snapshot
	s.View(func(tx *graph.Tx) {
		snap = service.ProjectSnapshot(tx)
	})
	return snap
}

func TestProjectSnapshot_SeededGraph(t *testing.T) {
	snap := project(t, seededStore(t))

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	g := goldie.New(t)
	g.Assert(t, "seed_snapshot", data)
}

func TestProjectSnapshot_OccupancyPlacement(t *testing.T) {
	s := seededStore(t)
	e := engine.New()

	// John into the Auditorium, Jane into the building only.  Mr. Stranger
	// stays outside.
	err := s.Update(func(tx *graph.Tx) error {
		john, _ := tx.FindPerson(1)
		jane, _ := tx.FindPerson(2)
		auditorium, _ := tx.FindRoom(102)
		hq, _ := tx.FindBuilding(10)

		scan := tx.InsertScan(graph.Scan{Type: graph.ScanBadge})
		if err := tx.Connect(graph.ScanRoom, scan, auditorium); err != nil {
			return err
		}
		if err := e.ProcessEntry(tx, john, scan); err != nil {
			return err
		}
		return tx.Connect(graph.EnteredBuilding, jane, hq)
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	snap := project(t, s)

	if len(snap.Buildings) != 1 {
		t.Fatalf("expected 1 building, got %d", len(snap.Buildings))
	}
	hq := snap.Buildings[0]

	// Jane is entered but not roomed: she appears under the building, not
	// under any room and not at the top level.
	if len(hq.People) != 1 || hq.People[0].PersonID != 2 {
		t.Errorf("expected building people [Jane], got %+v", hq.People)
	}

	// John is inside the Auditorium.
	var auditorium types.RoomView
	for _, r := range hq.Rooms {
		if r.RoomID == 102 {
			auditorium = r
		}
	}
	if len(auditorium.People) != 1 || auditorium.People[0].PersonID != 1 {
		t.Fatalf("expected auditorium people [John], got %+v", auditorium.People)
	}
	if got := auditorium.People[0].InsideRoom; got != "Auditorium" {
		t.Errorf("expected inside_room Auditorium, got %q", got)
	}

	// Only Mr. Stranger remains at the top level.
	if len(snap.People) != 1 || snap.People[0].PersonID != 3 {
		t.Errorf("expected top-level people [Mr. Stranger], got %+v", snap.People)
	}
}

func TestProjectSnapshot_EmptyGraphHasEmptyCollections(t *testing.T) {
	snap := project(t, graph.NewStore())

	if snap.Buildings == nil || snap.People == nil {
		t.Fatal("collections must be non-nil so the wire form is [] rather than null")
	}
	if len(snap.Buildings) != 0 || len(snap.People) != 0 {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"buildings":[],"people":[]}` {
		t.Errorf("unexpected wire form: %s", data)
	}
}
