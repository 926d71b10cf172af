package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	"ministore/core/utils"
)

//go:embed migrations/sqlite/*.sql migrations/pg/*.sql
var migrationsFS embed.FS

const gooseTable = "goose_db_version"

// goose keeps dialect and base FS in package globals.
var gooseMu sync.Mutex

func ApplyMigrations(ctx context.Context, db *sql.DB, logger *utils.Logger) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	dialect, dir, err := detectDialect(ctx, db)
	if err != nil {
		return err
	}
	gooseMu.Lock()
	defer gooseMu.Unlock()
	goose.SetBaseFS(migrationsFS)
	goose.SetTableName(gooseTable)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if logger != nil {
		logger.Printf("applying goose migrations dialect=%s", dialect)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return err
	}
	if logger != nil {
		logger.Printf("goose migrations applied")
	}
	return nil
}

type MigrationStatus struct {
	Dialect        string `json:"dialect"`
	CurrentVersion int64  `json:"current_version"`
	LatestVersion  int64  `json:"latest_version"`
	HasPending     bool   `json:"has_pending"`
}

func GetMigrationStatus(ctx context.Context, db *sql.DB) (MigrationStatus, error) {
	dialect, dir, err := detectDialect(ctx, db)
	if err != nil {
		return MigrationStatus{}, err
	}
	latest, err := latestMigrationVersion(dir)
	if err != nil {
		return MigrationStatus{Dialect: dialect}, err
	}
	var current int64
	query := `SELECT COALESCE(MAX(version_id), 0) FROM ` + gooseTable + ` WHERE is_applied = ?`
	if dialect == "postgres" {
		query = strings.Replace(query, "?", "$1", 1)
	}
	row := db.QueryRowContext(ctx, query, true)
	if err := row.Scan(&current); err != nil {
		// A fresh database has no goose table yet.
		current = 0
	}
	return MigrationStatus{
		Dialect:        dialect,
		CurrentVersion: current,
		LatestVersion:  latest,
		HasPending:     latest > current,
	}, nil
}

func detectDialect(ctx context.Context, db *sql.DB) (string, string, error) {
	if db == nil {
		return "", "", fmt.Errorf("nil db")
	}
	var version string
	if err := db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version); err == nil {
		return "sqlite3", "migrations/sqlite", nil
	}
	if err := db.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
		return "", "", fmt.Errorf("detect db dialect: %w", err)
	}
	return "postgres", "migrations/pg", nil
}

func latestMigrationVersion(dir string) (int64, error) {
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return 0, err
	}
	var latest int64
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}
		v, err := strconv.ParseInt(prefix, 10, 64)
		if err != nil {
			continue
		}
		if v > latest {
			latest = v
		}
	}
	return latest, nil
}
