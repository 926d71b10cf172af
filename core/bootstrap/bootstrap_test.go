package bootstrap

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"ministore/config"
	"ministore/core/accounts"
	"ministore/core/store"
	"ministore/core/utils"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	return &config.AppConfig{
		DBDriver:   "sqlite",
		DBPath:     filepath.Join(t.TempDir(), "bootstrap.db"),
		AppEnv:     "dev",
		SessionTTL: time.Hour,
		Security: config.SecurityConfig{
			MaxLoginAttempts:  3,
			MinPasswordLength: 9,
			RootAdminID:       "admin",
		},
	}
}

func mustTestDB(t *testing.T, cfg *config.AppConfig) *sql.DB {
	t.Helper()
	logger := utils.NewDiscardLogger()
	db, err := store.NewDB(cfg, logger)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	if err := store.ApplyMigrations(context.Background(), db, logger); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestWarmSeedsCollections(t *testing.T) {
	cfg := testConfig(t)
	svc := NewServices(cfg, mustTestDB(t, cfg), utils.NewDiscardLogger())
	ctx := context.Background()
	if err := svc.Warm(ctx); err != nil {
		t.Fatalf("warm: %v", err)
	}
	keys, err := svc.Docs.Keys(ctx, "")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	want := map[string]bool{"accounts": false, "products": false, "settings/security": false}
	for _, k := range keys {
		if _, ok := want[k]; ok {
			want[k] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Fatalf("expected %s to be persisted after warm-up, keys=%v", k, keys)
		}
	}
}

func TestEnsureDefaultAdminRecreatesRoot(t *testing.T) {
	cfg := testConfig(t)
	svc := NewServices(cfg, mustTestDB(t, cfg), utils.NewDiscardLogger())
	ctx := context.Background()
	logger := utils.NewDiscardLogger()

	if err := EnsureDefaultAdmin(ctx, svc.Directory, logger); err != nil {
		t.Fatalf("ensure on seeded directory: %v", err)
	}
	admin, err := svc.Directory.Get(ctx, "admin")
	if err != nil {
		t.Fatalf("get admin: %v", err)
	}
	if admin.MustChangePassword {
		t.Fatalf("seeded admin must be left untouched")
	}

	member := accounts.RoleMember
	if _, err := svc.Directory.Update(ctx, "admin", accounts.Patch{Role: &member}); err != nil {
		t.Fatalf("demote: %v", err)
	}
	if err := EnsureDefaultAdmin(ctx, svc.Directory, logger); err != nil {
		t.Fatalf("ensure after demotion: %v", err)
	}
	admin, _ = svc.Directory.Get(ctx, "admin")
	if admin.Role != accounts.RoleAdministrator {
		t.Fatalf("expected role restored, got %s", admin.Role)
	}
}

func TestEnsureDefaultAdminCreatesMissingRoot(t *testing.T) {
	cfg := testConfig(t)
	var logs bytes.Buffer
	logger := utils.NewLoggerTo(&logs, "debug")
	docs := store.NewDocumentsStore(mustTestDB(t, cfg))
	settings := accounts.NewSettingsStore(docs, accounts.SecuritySettings{}, logger)
	dir := accounts.NewDirectory(docs, settings, accounts.Options{Pepper: "p", RootAdminID: "owner"}, logger)
	ctx := context.Background()

	if err := EnsureDefaultAdmin(ctx, dir, logger); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	owner, err := dir.Get(ctx, "owner")
	if err != nil {
		t.Fatalf("get owner: %v", err)
	}
	if !owner.IsAdministrator() || owner.Status != accounts.StatusActive || !owner.MustChangePassword {
		t.Fatalf("unexpected root account: %+v", owner)
	}
	if err := EnsureDefaultAdmin(ctx, dir, logger); err != nil {
		t.Fatalf("second ensure must be a no-op: %v", err)
	}
	all, _ := dir.List(ctx)
	if len(all) != 1 {
		t.Fatalf("expected exactly one account, got %d", len(all))
	}

	// No logged word may be the generated credential.
	for _, word := range regexp.MustCompile(`[A-Za-z0-9]{16}`).FindAllString(logs.String(), -1) {
		ok, err := dir.VerifyPassword(ctx, "owner", word)
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if ok {
			t.Fatalf("root password %q written to the log", word)
		}
	}
	if !bytes.Contains(logs.Bytes(), []byte("reset-password owner")) {
		t.Fatalf("expected recovery hint in log, got %q", logs.String())
	}
}
