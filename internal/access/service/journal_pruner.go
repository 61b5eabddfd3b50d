package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gaia-platform/access-control/internal/access/store"
)

// JournalPruner periodically deletes scan-journal rows older than a
// configurable retention period.  Only the journal is pruned — Scan entities
// in the graph accumulate for the life of the process.
//
// A retention of 0 disables pruning entirely.
type JournalPruner struct {
	journal   store.ScanJournal
	retention time.Duration
	interval  time.Duration
	logger    *zap.Logger
	cancel    context.CancelFunc
	done      chan struct{}
}

// PrunerConfig holds the parameters for NewJournalPruner.
type PrunerConfig struct {
	// RetentionDays is how many days of scan history to keep.
	// 0 means keep everything (pruner will not start).
	RetentionDays int

	// IntervalHours is how often the pruner runs.  Defaults to 6.
	IntervalHours int
}

// NewJournalPruner creates a pruner but does not start it.
// Call Start to begin the background loop.
func NewJournalPruner(j store.ScanJournal, cfg PrunerConfig, logger *zap.Logger) *JournalPruner {
	interval := time.Duration(cfg.IntervalHours) * time.Hour
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	return &JournalPruner{
		journal:   j,
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		interval:  interval,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Start begins the background pruning loop.  It runs an immediate prune on
// startup, then repeats on the configured interval.  The loop exits when
// ctx is cancelled or Stop is called.
func (p *JournalPruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		p.logger.Info("scan journal pruner disabled (retention=0)")
		close(p.done)
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)

	go p.loop(ctx)

	p.logger.Info("scan journal pruner started",
		zap.Int("retention_days", int(p.retention.Hours()/24)),
		zap.Int("interval_hours", int(p.interval.Hours())),
	)
}

// Stop signals the pruner to exit and waits for it to finish.
func (p *JournalPruner) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	<-p.done
}

func (p *JournalPruner) loop(ctx context.Context) {
	defer close(p.done)

	// Run immediately on startup to clean up any backlog.
	p.prune(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *JournalPruner) prune(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-p.retention)
	deleted, err := p.journal.PruneOlderThan(ctx, cutoff)
	if err != nil {
		p.logger.Warn("scan journal prune failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		p.logger.Info("scan journal pruned",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
}
