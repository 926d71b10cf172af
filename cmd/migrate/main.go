package main

import (
	"context"
	"log"
	"time"

	"ministore/config"
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
		logger.Fatalf("db: %v", err)
	}
	defer db.Close()

	checkCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	status, err := store.GetMigrationStatus(checkCtx, db)
	if err != nil {
		logger.Fatalf("migration status: %v", err)
	}
	if !status.HasPending {
		logger.Printf("schema up to date version=%d", status.CurrentVersion)
		return
	}
	logger.Printf("migrating %s from version %d to %d", status.Dialect, status.CurrentVersion, status.LatestVersion)
	if err := store.ApplyMigrations(context.Background(), db, logger); err != nil {
		logger.Fatalf("migrations: %v", err)
	}
	logger.Printf("migrations applied")
}
