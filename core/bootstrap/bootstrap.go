package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ministore/config"
	"ministore/core/accounts"
	"ministore/core/activity"
	"ministore/core/cart"
	"ministore/core/catalog"
	"ministore/core/mailer"
	"ministore/core/orders"
	"ministore/core/rbac"
	"ministore/core/session"
	"ministore/core/store"
	"ministore/core/utils"
)

// Services is the set of domain services sharing one document store.
type Services struct {
	Docs      store.DocumentsStore
	Settings  *accounts.SettingsStore
	Directory *accounts.Directory
	Sessions  *session.Holder
	Catalog   *catalog.Store
	Carts     *cart.Service
	Activity  *activity.Log
	Orders    *orders.Service
	Mailer    *mailer.Mailer
	Policy    *rbac.Policy
}

func NewServices(cfg *config.AppConfig, db *sql.DB, logger *utils.Logger) *Services {
	docs := store.NewDocumentsStore(db)
	settings := accounts.NewSettingsStore(docs, accounts.SecuritySettings{
		MaxLoginAttempts:  cfg.Security.MaxLoginAttempts,
		MinPasswordLength: cfg.Security.MinPasswordLength,
	}, logger)
	dir := accounts.NewDirectory(docs, settings, accounts.Options{
		Pepper:      cfg.EffectivePepper(),
		RootAdminID: cfg.Security.RootAdminID,
		Seed:        accounts.DefaultSeed(cfg.Security.RootAdminID),
	}, logger)
	carts := cart.NewService(docs, logger)
	return &Services{
		Docs:      docs,
		Settings:  settings,
		Directory: dir,
		Sessions:  session.NewHolder(docs, cfg.SessionTTL, logger),
		Catalog:   catalog.NewStore(docs, catalog.DefaultSeed(), logger),
		Carts:     carts,
		Activity:  activity.NewLog(docs, logger),
		Orders:    orders.NewService(docs, carts, logger),
		Mailer:    mailer.New(cfg.Mail, logger),
		Policy:    rbac.NewPolicy(rbac.DefaultRoles()),
	}
}

// Warm loads every seeded collection once so first-run seeding happens at
// startup instead of on the first request.
func (s *Services) Warm(ctx context.Context) error {
	if _, err := s.Settings.Get(ctx); err != nil {
		return fmt.Errorf("warm settings: %w", err)
	}
	if _, err := s.Directory.List(ctx); err != nil {
		return fmt.Errorf("warm accounts: %w", err)
	}
	if _, err := s.Catalog.List(ctx); err != nil {
		return fmt.Errorf("warm catalog: %w", err)
	}
	if _, err := s.Activity.List(ctx); err != nil {
		return fmt.Errorf("warm activity: %w", err)
	}
	return nil
}

// EnsureDefaultAdmin makes sure the root administrator exists and still holds
// the administrator role. A recreated root account gets a random temporary
// password that must be changed on first login.
func EnsureDefaultAdmin(ctx context.Context, dir *accounts.Directory, logger *utils.Logger) error {
	id := dir.RootAdminID()
	existing, err := dir.Get(ctx, id)
	if err != nil && !errors.Is(err, accounts.ErrNotFound) {
		return err
	}
	if existing != nil {
		if existing.Role == accounts.RoleAdministrator {
			return nil
		}
		role := accounts.RoleAdministrator
		if _, err := dir.Update(ctx, id, accounts.Patch{Role: &role}); err != nil {
			return err
		}
		logger.Warnf("root administrator %s had role restored", id)
		return nil
	}
	// The random password is never shown; the operator sets one from the CLI.
	temp, err := utils.RandPassword(16)
	if err != nil {
		return err
	}
	if _, err := dir.Add(ctx, accounts.NewAccount{
		ID:                 id,
		Password:           temp,
		Name:               "Administrator",
		Email:              "admin@example.com",
		Phone:              "010-0000-0000",
		Address:            "N/A",
		Role:               accounts.RoleAdministrator,
		Status:             accounts.StatusActive,
		MustChangePassword: true,
	}); err != nil {
		return err
	}
	logger.Printf("root administrator %s created with a random password; set one with: ministorectl reset-password %s --password <new>", id, id)
	return nil
}
