package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gaia-platform/access-control/internal/access/graph"
	"github.com/gaia-platform/access-control/internal/access/store"
	"github.com/gaia-platform/access-control/internal/access/types"
)

// ScanService turns external scan records into Scan entities and their
// edges, and mirrors each record to the scan journal.
type ScanService struct {
	journal store.ScanJournal
	logger  *zap.Logger
}

func NewScanService(journal store.ScanJournal, logger *zap.Logger) *ScanService {
	return &ScanService{journal: journal, logger: logger}
}

// Record inserts a Scan entity for rec and links it to the person, room and
// building the record names, resolving each by external numeric id.
//
// Resolution failures are absorbed: a reference that does not resolve omits
// that edge and the scan is recorded anyway.  This is the documented
// contract, not an oversight — readers fire on ids the graph may not know
// yet (a stranger's badge, a decommissioned room).  A room edge derives the
// room's owning building automatically; an explicit building id takes
// precedence over the derived one.
func (s *ScanService) Record(ctx context.Context, tx *graph.Tx, rec types.ScanRecord) graph.ID {
	scanType, known := ParseScanType(rec.ScanType)
	if !known {
		// Unrecognized types are accepted and recorded unclassified.
		s.logger.Info("unrecognized scan_type", zap.String("scan_type", rec.ScanType))
	}

	ref := uuid.NewString()
	scan := tx.InsertScan(graph.Scan{Type: scanType, Ref: ref})

	if rec.PersonID != nil {
		if person, ok := tx.FindPerson(*rec.PersonID); ok {
			_ = tx.Connect(graph.ScanPerson, scan, person)
		} else {
			s.logger.Debug("scan names unknown person", zap.Uint64("person_id", *rec.PersonID))
		}
	}

	if rec.RoomID != nil {
		if room, ok := tx.FindRoom(*rec.RoomID); ok {
			_ = tx.Connect(graph.ScanRoom, scan, room)
			if building, ok := tx.Target(graph.RoomBuilding, room); ok {
				_ = tx.Connect(graph.ScanBuilding, scan, building)
			}
		} else {
			s.logger.Debug("scan names unknown room", zap.Uint64("room_id", *rec.RoomID))
		}
	}

	if rec.BuildingID != nil {
		if building, ok := tx.FindBuilding(*rec.BuildingID); ok {
			if derived, bound := tx.Target(graph.ScanBuilding, scan); bound && derived != building {
				tx.Disconnect(graph.ScanBuilding, scan, derived)
			}
			_ = tx.Connect(graph.ScanBuilding, scan, building)
		} else {
			s.logger.Debug("scan names unknown building", zap.Uint64("building_id", *rec.BuildingID))
		}
	}

	// Journal failures never fail the scan — audit completeness is not worth
	// dropping a live entry over.
	if err := s.journal.Append(ctx, store.ScanJournalEntry{
		Ref:        ref,
		ScanType:   scanType.String(),
		PersonID:   rec.PersonID,
		RoomID:     rec.RoomID,
		BuildingID: rec.BuildingID,
	}); err != nil {
		s.logger.Warn("scan journal append failed", zap.String("ref", ref), zap.Error(err))
	}

	return scan
}

// ParseScanType maps a wire scan_type string to its classification.  The
// second return is false for unrecognized strings, which classify as
// ScanUnclassified.
func ParseScanType(s string) (graph.ScanType, bool) {
	switch s {
	case "badge":
		return graph.ScanBadge, true
	case "vehicle_entering":
		return graph.ScanVehicleEntering, true
	case "vehicle_departing":
		return graph.ScanVehicleDeparting, true
	case "joining_wifi":
		return graph.ScanJoiningWifi, true
	case "leaving_wifi":
		return graph.ScanLeavingWifi, true
	case "face":
		return graph.ScanFace, true
	case "leaving":
		return graph.ScanLeaving, true
	default:
		return graph.ScanUnclassified, false
	}
}
