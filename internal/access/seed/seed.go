// Package seed populates the access graph with its initial dataset, either
// the built-in demo complex or a YAML fixture.
package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gaia-platform/access-control/internal/access/graph"
)

// Spec describes a full initial dataset.  Registrants reference people by
// their external numeric id.
type Spec struct {
	Time      uint64         `yaml:"time"`
	People    []PersonSpec   `yaml:"people"`
	Buildings []BuildingSpec `yaml:"buildings"`
}

type PersonSpec struct {
	ID       uint64 `yaml:"id"`
	Name     string `yaml:"name"`
	Employee bool   `yaml:"employee"`
	Visitor  bool   `yaml:"visitor"`
	Stranger bool   `yaml:"stranger"`
}

type BuildingSpec struct {
	ID    uint64     `yaml:"id"`
	Name  string     `yaml:"name"`
	Rooms []RoomSpec `yaml:"rooms"`
}

type RoomSpec struct {
	ID       uint64      `yaml:"id"`
	Name     string      `yaml:"name"`
	Capacity uint32      `yaml:"capacity"`
	Events   []EventSpec `yaml:"events"`
}

type EventSpec struct {
	Name        string   `yaml:"name"`
	Start       uint64   `yaml:"start"`
	End         uint64   `yaml:"end"`
	Registrants []uint64 `yaml:"registrants"`
}

// Default is the demo dataset: the HQ building with three rooms, four
// scheduled events (timestamps are minutes of day), and three people.
func Default() Spec {
	return Spec{
		Time: 480,
		People: []PersonSpec{
			{ID: 1, Name: "John", Employee: true},
			{ID: 2, Name: "Jane", Visitor: true},
			{ID: 3, Name: "Mr. Stranger", Stranger: true},
		},
		Buildings: []BuildingSpec{
			{
				ID:   10,
				Name: "HQ Building",
				Rooms: []RoomSpec{
					{
						ID: 102, Name: "Auditorium", Capacity: 200,
						Events: []EventSpec{
							{Name: "Happy hour", Start: 720, End: 840, Registrants: []uint64{1, 2}},
						},
					},
					{
						ID: 104, Name: "Big Room", Capacity: 4,
						Events: []EventSpec{
							{Name: "The best meeting", Start: 660, End: 720},
							{Name: "Boring meeting", Start: 600, End: 660, Registrants: []uint64{1, 2}},
						},
					},
					{
						ID: 103, Name: "Little Room", Capacity: 3,
						Events: []EventSpec{
							{Name: "Important meeting", Start: 540, End: 600, Registrants: []uint64{1}},
						},
					},
				},
			},
		},
	}
}

// Load reads a Spec from a YAML fixture file.
func Load(path string) (Spec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("read seed file: %w", err)
	}
	var spec Spec
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return Spec{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return spec, nil
}

// defaultLeaveTime mirrors the demo dataset's open-ended leave window.
const defaultLeaveTime = 100000

// Apply inserts the spec's entities and edges into an empty graph.  Unlike
// scan ingestion, seed references are authoritative: a registrant id that
// resolves to no person is an error.
func Apply(tx *graph.Tx, spec Spec) error {
	for _, p := range spec.People {
		tx.InsertPerson(graph.Person{
			PersonID:  p.ID,
			FirstName: p.Name,
			Employee:  p.Employee,
			Visitor:   p.Visitor,
			Stranger:  p.Stranger,
			LeaveTime: defaultLeaveTime,
		})
	}

	for _, b := range spec.Buildings {
		buildingID := tx.InsertBuilding(graph.Building{BuildingID: b.ID, Name: b.Name})
		for _, r := range b.Rooms {
			roomID := tx.InsertRoom(graph.Room{RoomID: r.ID, Name: r.Name, Capacity: r.Capacity})
			if err := tx.Connect(graph.RoomBuilding, roomID, buildingID); err != nil {
				return fmt.Errorf("seed room %q: %w", r.Name, err)
			}
			for _, e := range r.Events {
				eventID, err := tx.InsertEvent(graph.Event{
					Name:           e.Name,
					StartTimestamp: e.Start,
					EndTimestamp:   e.End,
				})
				if err != nil {
					return fmt.Errorf("seed event %q: %w", e.Name, err)
				}
				if err := tx.Connect(graph.EventRoom, eventID, roomID); err != nil {
					return fmt.Errorf("seed event %q: %w", e.Name, err)
				}
				for _, registrant := range e.Registrants {
					person, ok := tx.FindPerson(registrant)
					if !ok {
						return fmt.Errorf("seed event %q: registrant %d: %w", e.Name, registrant, graph.ErrNotFound)
					}
					reg := tx.InsertRegistration()
					if err := tx.Connect(graph.RegistrationPerson, reg, person); err != nil {
						return fmt.Errorf("seed event %q: %w", e.Name, err)
					}
					if err := tx.Connect(graph.RegistrationEvent, reg, eventID); err != nil {
						return fmt.Errorf("seed event %q: %w", e.Name, err)
					}
				}
			}
		}
	}

	return nil
}
