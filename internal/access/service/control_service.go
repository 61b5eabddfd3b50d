package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/gaia-platform/access-control/internal/access/engine"
	"github.com/gaia-platform/access-control/internal/access/graph"
	"github.com/gaia-platform/access-control/internal/access/notify"
	"github.com/gaia-platform/access-control/internal/access/seed"
	"github.com/gaia-platform/access-control/internal/access/types"
)

// ControlService routes external control-channel messages: database resets,
// clock updates, and scan records.  Every message — recognized or not —
// ends with a fresh projection pushed to the notifier.
type ControlService struct {
	store    *graph.Store
	engine   *engine.Engine
	scans    *ScanService
	seedSpec seed.Spec
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewControlService(
	store *graph.Store,
	eng *engine.Engine,
	scans *ScanService,
	seedSpec seed.Spec,
	notifier notify.Notifier,
	logger *zap.Logger,
) *ControlService {
	return &ControlService{
		store:    store,
		engine:   eng,
		scans:    scans,
		seedSpec: seedSpec,
		notifier: notifier,
		logger:   logger,
	}
}

// HandleMessage applies one raw control message and returns the resulting
// snapshot.  Message shapes: {"database":"reset"}, {"time": N},
// {"scan": {...}}.  Anything else re-projects without touching state.
func (s *ControlService) HandleMessage(ctx context.Context, raw []byte) (types.Snapshot, error) {
	var msg types.ControlMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return types.Snapshot{}, fmt.Errorf("parse control message: %w", err)
	}

	switch {
	case msg.Database == "reset":
		if err := s.Reset(ctx); err != nil {
			return types.Snapshot{}, err
		}
	case msg.Time != nil:
		s.engine.SetTime(*msg.Time)
		s.logger.Info("clock set", zap.Uint64("time", *msg.Time))
	case msg.Scan != nil:
		if err := s.store.Update(func(tx *graph.Tx) error {
			s.scans.Record(ctx, tx, *msg.Scan)
			return nil
		}); err != nil {
			return types.Snapshot{}, fmt.Errorf("record scan: %w", err)
		}
	default:
		s.logger.Debug("control message matched no command, re-projecting")
	}

	snap := s.Snapshot()
	if err := s.notifier.Publish(snap); err != nil {
		s.logger.Warn("snapshot publish failed", zap.Error(err))
	}
	return snap, nil
}

// Reset clears the graph and reapplies the seed dataset and its clock.
func (s *ControlService) Reset(_ context.Context) error {
	err := s.store.Update(func(tx *graph.Tx) error {
		tx.Reset()
		return seed.Apply(tx, s.seedSpec)
	})
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.engine.SetTime(s.seedSpec.Time)
	s.logger.Info("graph reset and reseeded", zap.Uint64("time", s.seedSpec.Time))
	return nil
}

// Snapshot projects the current graph state.
func (s *ControlService) Snapshot() types.Snapshot {
	var snap types.Snapshot
	s.store.View(func(tx *graph.Tx) {
		snap = ProjectSnapshot(tx)
	})
	return snap
}
