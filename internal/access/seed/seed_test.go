package seed_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gaia-platform/access-control/internal/access/graph"
	"github.com/gaia-platform/access-control/internal/access/seed"
)

func TestApply_DefaultDataset(t *testing.T) {
	s := graph.NewStore()
	err := s.Update(func(tx *graph.Tx) error {
		return seed.Apply(tx, seed.Default())
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	s.View(func(tx *graph.Tx) {
		if got := tx.Len(graph.KindPerson); got != 3 {
			t.Errorf("people: expected 3, got %d", got)
		}
		if got := tx.Len(graph.KindBuilding); got != 1 {
			t.Errorf("buildings: expected 1, got %d", got)
		}
		if got := tx.Len(graph.KindRoom); got != 3 {
			t.Errorf("rooms: expected 3, got %d", got)
		}
		if got := tx.Len(graph.KindEvent); got != 4 {
			t.Errorf("events: expected 4, got %d", got)
		}
		// Happy hour x2, Boring meeting x2, Important meeting x1.
		if got := tx.Len(graph.KindRegistration); got != 5 {
			t.Errorf("registrations: expected 5, got %d", got)
		}

		// Every room hangs off the HQ building.
		hq, ok := tx.FindBuilding(10)
		if !ok {
			t.Fatal("expected HQ building")
		}
		if rooms := tx.List(graph.RoomBuilding, hq); len(rooms) != 3 {
			t.Errorf("HQ rooms: expected 3, got %d", len(rooms))
		}

		// John carries the default open-ended leave window.
		john, ok := tx.FindPerson(1)
		if !ok {
			t.Fatal("expected John")
		}
		p, err := tx.Person(john)
		if err != nil {
			t.Fatalf("person: %v", err)
		}
		if p.LeaveTime != 100000 {
			t.Errorf("leave time: expected 100000, got %d", p.LeaveTime)
		}
		if !p.Employee || p.Visitor || p.Stranger {
			t.Errorf("flags: expected employee only, got %+v", p)
		}
	})

	if got := seed.Default().Time; got != 480 {
		t.Errorf("seed clock: expected 480, got %d", got)
	}
}

func TestApply_UnknownRegistrantFails(t *testing.T) {
	spec := seed.Spec{
		People: []seed.PersonSpec{{ID: 1, Name: "John"}},
		Buildings: []seed.BuildingSpec{{
			ID: 10, Name: "HQ",
			Rooms: []seed.RoomSpec{{
				ID: 102, Name: "Auditorium",
				Events: []seed.EventSpec{{
					Name: "Happy hour", Start: 720, End: 840,
					Registrants: []uint64{1, 42},
				}},
			}},
		}},
	}

	s := graph.NewStore()
	err := s.Update(func(tx *graph.Tx) error {
		return seed.Apply(tx, spec)
	})
	if !errors.Is(err, graph.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for registrant 42, got %v", err)
	}
}

func TestLoad_YAMLFixture(t *testing.T) {
	fixture := `
time: 540
people:
  - id: 7
    name: Ada
    employee: true
buildings:
  - id: 20
    name: Lab
    rooms:
      - id: 201
        name: Cleanroom
        capacity: 2
        events:
          - name: Calibration
            start: 560
            end: 580
            registrants: [7]
`
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	spec, err := seed.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Time != 540 {
		t.Errorf("time: expected 540, got %d", spec.Time)
	}
	if len(spec.People) != 1 || spec.People[0].Name != "Ada" || !spec.People[0].Employee {
		t.Errorf("people: unexpected %+v", spec.People)
	}
	if len(spec.Buildings) != 1 || len(spec.Buildings[0].Rooms) != 1 {
		t.Fatalf("buildings: unexpected %+v", spec.Buildings)
	}
	event := spec.Buildings[0].Rooms[0].Events[0]
	if event.Name != "Calibration" || event.Start != 560 || event.End != 580 {
		t.Errorf("event: unexpected %+v", event)
	}
	if len(event.Registrants) != 1 || event.Registrants[0] != 7 {
		t.Errorf("registrants: unexpected %v", event.Registrants)
	}

	// A loaded spec applies cleanly.
	s := graph.NewStore()
	if err := s.Update(func(tx *graph.Tx) error { return seed.Apply(tx, spec) }); err != nil {
		t.Fatalf("apply loaded spec: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := seed.Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
