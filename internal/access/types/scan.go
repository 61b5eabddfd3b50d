// Package types holds the JSON wire shapes exchanged with scanners and the
// UI transport.
package types

// ScanRecord is an external scan/check-in record as delivered by a reader.
// All entity references are external numeric ids.  Absent references, and
// references that do not resolve, simply omit the corresponding edge — a
// scan is never rejected for naming an unknown entity.
type ScanRecord struct {
	ScanType   string  `json:"scan_type"`
	PersonID   *uint64 `json:"person_id,omitempty"`
	RoomID     *uint64 `json:"room_id,omitempty"`
	BuildingID *uint64 `json:"building_id,omitempty"`
}

// ControlMessage is one message from the external control channel.  Exactly
// one of the fields is expected to be set; a message matching none of them
// triggers only a re-projection.
type ControlMessage struct {
	Database string      `json:"database,omitempty"`
	Time     *uint64     `json:"time,omitempty"`
	Scan     *ScanRecord `json:"scan,omitempty"`
}

// Alert is the out-of-band notification shape used by the policy layer.
type Alert struct {
	Alert string `json:"alert"`
}
