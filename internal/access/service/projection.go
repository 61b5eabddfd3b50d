package service

import (
	"github.com/gaia-platform/access-control/internal/access/graph"
	"github.com/gaia-platform/access-control/internal/access/types"
)

// ProjectSnapshot renders the whole graph as the external view: every
// building with its rooms, occupants and events, each building's
// entered-but-not-roomed people, and the people who are in no building at
// all.  It only reads; collection order is the store's insertion order.
func ProjectSnapshot(tx *graph.Tx) types.Snapshot {
	snap := types.Snapshot{
		Buildings: []types.BuildingView{},
		People:    []types.PersonView{},
	}

	for _, id := range tx.Buildings() {
		snap.Buildings = append(snap.Buildings, projectBuilding(tx, id))
	}

	for _, id := range tx.People() {
		_, inRoom := tx.Target(graph.InsideRoom, id)
		_, inBuilding := tx.Target(graph.EnteredBuilding, id)
		if !inRoom && !inBuilding {
			snap.People = append(snap.People, projectPerson(tx, id))
		}
	}

	return snap
}

func projectBuilding(tx *graph.Tx, id graph.ID) types.BuildingView {
	building, err := tx.Building(id)
	if err != nil {
		return types.BuildingView{}
	}

	view := types.BuildingView{
		BuildingID: building.BuildingID,
		Name:       building.Name,
		Rooms:      []types.RoomView{},
		People:     []types.PersonView{},
	}

	for _, room := range tx.List(graph.RoomBuilding, id) {
		view.Rooms = append(view.Rooms, projectRoom(tx, room))
	}

	// People in the building but not yet inside any of its rooms.
	for _, person := range tx.List(graph.EnteredBuilding, id) {
		if _, inRoom := tx.Target(graph.InsideRoom, person); !inRoom {
			view.People = append(view.People, projectPerson(tx, person))
		}
	}

	return view
}

func projectRoom(tx *graph.Tx, id graph.ID) types.RoomView {
	room, err := tx.Room(id)
	if err != nil {
		return types.RoomView{}
	}

	view := types.RoomView{
		RoomID:   room.RoomID,
		Name:     room.Name,
		Capacity: room.Capacity,
		People:   []types.PersonView{},
		Events:   []types.EventView{},
	}

	for _, person := range tx.List(graph.InsideRoom, id) {
		view.People = append(view.People, projectPerson(tx, person))
	}
	for _, event := range tx.List(graph.EventRoom, id) {
		view.Events = append(view.Events, projectEvent(tx, event))
	}

	return view
}

func projectPerson(tx *graph.Tx, id graph.ID) types.PersonView {
	person, err := tx.Person(id)
	if err != nil {
		return types.PersonView{}
	}

	view := types.PersonView{
		PersonID:     person.PersonID,
		FirstName:    person.FirstName,
		Employee:     person.Employee,
		Visitor:      person.Visitor,
		Stranger:     person.Stranger,
		Badged:       person.Badged,
		Parked:       person.Parked,
		Credentialed: person.Credentialed,
		Admissible:   person.Admissible,
		OnWiFi:       person.OnWiFi,
		Events:       []types.EventView{},
	}

	for _, reg := range tx.List(graph.RegistrationPerson, id) {
		if event, ok := tx.Target(graph.RegistrationEvent, reg); ok {
			view.Events = append(view.Events, projectEvent(tx, event))
		}
	}

	if room, ok := tx.Target(graph.InsideRoom, id); ok {
		if r, err := tx.Room(room); err == nil {
			view.InsideRoom = r.Name
		}
	}

	return view
}

func projectEvent(tx *graph.Tx, id graph.ID) types.EventView {
	event, err := tx.Event(id)
	if err != nil {
		return types.EventView{}
	}

	view := types.EventView{
		Name:           event.Name,
		StartTimestamp: event.StartTimestamp,
		EndTimestamp:   event.EndTimestamp,
	}
	if room, ok := tx.Target(graph.EventRoom, id); ok {
		if r, err := tx.Room(room); err == nil {
			view.RoomName = r.Name
		}
	}
	return view
}
