package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ministore/api"
	"ministore/config"
	"ministore/core/bootstrap"
	"ministore/core/session"
	"ministore/core/store"
	"ministore/core/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logger := utils.NewLoggerWithLevel(cfg.LogLevel)
	db, err := store.NewDB(cfg, logger)
	if err != nil {
		logger.Fatalf("db init: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := store.ApplyMigrations(ctx, db, logger); err != nil {
		logger.Fatalf("migrations: %v", err)
	}

	svc := bootstrap.NewServices(cfg, db, logger)
	if err := svc.Warm(ctx); err != nil {
		logger.Fatalf("warm: %v", err)
	}
	if err := bootstrap.EnsureDefaultAdmin(ctx, svc.Directory, logger); err != nil {
		logger.Fatalf("seed admin: %v", err)
	}

	var sweeper *session.Sweeper
	if cfg.Scheduler.Enabled {
		sweeper = session.NewSweeper(svc.Sessions, cfg.Scheduler.SessionSweepSpec, logger)
		if err := sweeper.StartWithContext(ctx); err != nil {
			logger.Fatalf("session sweeper: %v", err)
		}
	}

	srv := api.NewServer(cfg, logger, api.ServerDeps{DB: db, Services: svc})
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown: %v", err)
	}
	if err := sweeper.StopWithContext(shutdownCtx); err != nil {
		logger.Errorf("session sweeper stop: %v", err)
	}
}
