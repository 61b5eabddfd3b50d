package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/gaia-platform/access-control/internal/access/engine"
	"github.com/gaia-platform/access-control/internal/access/graph"
	"github.com/gaia-platform/access-control/internal/access/notify"
	"github.com/gaia-platform/access-control/internal/access/seed"
	"github.com/gaia-platform/access-control/internal/access/service"
	sqlitestore "github.com/gaia-platform/access-control/internal/access/store/sqlite"
	"github.com/gaia-platform/access-control/internal/config"
	"github.com/gaia-platform/access-control/internal/db"
	"github.com/gaia-platform/access-control/internal/httpapi"
)

func main() {
	cfg := config.FromEnv()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Scan journal (sqlite).
	conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		logger.Fatal("open db", zap.Error(err))
	}
	defer conn.Close()

	writer := db.NewWorker(conn)
	defer writer.Close()

	journal := sqlitestore.NewScanJournal(conn, writer)

	// Notification sink.
	var notifier notify.Notifier = notify.Nop{}
	if cfg.NotifyPath != "" {
		lw, closer, err := notify.OpenFile(cfg.NotifyPath)
		if err != nil {
			logger.Fatal("open notify path", zap.Error(err))
		}
		defer closer.Close()
		notifier = lw
	}

	// Seed dataset.
	seedSpec := seed.Default()
	if cfg.SeedPath != "" {
		seedSpec, err = seed.Load(cfg.SeedPath)
		if err != nil {
			logger.Fatal("load seed", zap.Error(err))
		}
	}

	// Graph, engine, services.
	store := graph.NewStore()
	eng := engine.New()
	scanSvc := service.NewScanService(journal, logger)
	controlSvc := service.NewControlService(store, eng, scanSvc, seedSpec, notifier, logger)

	if err := controlSvc.Reset(ctx); err != nil {
		logger.Fatal("initial seed", zap.Error(err))
	}

	pruner := service.NewJournalPruner(journal, service.PrunerConfig{
		RetentionDays: cfg.ScanRetentionDays,
		IntervalHours: cfg.PruneIntervalHours,
	}, logger)
	pruner.Start(ctx)
	defer pruner.Stop()

	// HTTP
	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:  logger,
		Addr:    cfg.HTTPAddr,
		Control: controlSvc,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.Start(); err != nil {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
