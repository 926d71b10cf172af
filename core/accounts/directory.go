package accounts

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"ministore/core/auth"
	"ministore/core/store"
	"ministore/core/utils"
)

const (
	collectionKey     = "accounts"
	collectionVersion = "1.10"
)

type Options struct {
	Pepper string
	// RootAdminID names the administrator that cannot be deleted,
	// deactivated, locked or reset by other administrators.
	RootAdminID string
	Seed        []SeedAccount
	Now         func() time.Time
}

// Directory is the authoritative account collection. Every mutation is one
// load-modify-save cycle serialized by mu.
type Directory struct {
	mu        sync.Mutex
	coll      *store.Collection[Account]
	settings  *SettingsStore
	pepper    string
	rootAdmin string
	now       func() time.Time
	logger    *utils.Logger
}

func NewDirectory(docs store.DocumentsStore, settings *SettingsStore, opts Options, logger *utils.Logger) *Directory {
	if opts.RootAdminID == "" {
		opts.RootAdminID = "admin"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	d := &Directory{
		settings:  settings,
		pepper:    opts.Pepper,
		rootAdmin: opts.RootAdminID,
		now:       opts.Now,
		logger:    logger,
	}
	seed := opts.Seed
	d.coll = store.NewCollection(docs, collectionKey, store.CollectionOptions[Account]{
		Version: collectionVersion,
		Seed: func() ([]Account, error) {
			return d.hashSeed(seed)
		},
		Validate: func(a Account) error { return a.Validate() },
	}, logger)
	return d
}

func (d *Directory) hashSeed(seed []SeedAccount) ([]Account, error) {
	out := make([]Account, 0, len(seed))
	for _, s := range seed {
		a := s.Account
		hash, err := auth.HashPassword(s.ClearPassword, d.pepper)
		if err != nil {
			return nil, err
		}
		a.Password = hash
		if a.CreatedAt == "" {
			a.CreatedAt = d.today()
		}
		a.FailedLoginAttempts = 0
		out = append(out, a)
	}
	return out, nil
}

func (d *Directory) RootAdminID() string {
	return d.rootAdmin
}

func (d *Directory) IsProtected(id string) bool {
	return id == d.rootAdmin
}

func (d *Directory) Settings() *SettingsStore {
	return d.settings
}

func (d *Directory) today() string {
	return d.now().Format("2006-01-02")
}

// List returns every account in insertion order with credentials removed.
func (d *Directory) List(ctx context.Context) ([]Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	items, _, err := d.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Account, len(items))
	for i, a := range items {
		out[i] = a.Sanitized()
	}
	return out, nil
}

func (d *Directory) Get(ctx context.Context, id string) (*Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	items, _, err := d.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	a := items[idx].Sanitized()
	return &a, nil
}

// IdentifierExists is a case-insensitive lookup used while the user is still
// typing a registration form.
func (d *Directory) IdentifierExists(ctx context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	items, _, err := d.coll.Load(ctx)
	if err != nil {
		return false, err
	}
	return indexOfFold(items, strings.TrimSpace(id)) >= 0, nil
}

// Add stores a new account. The clear-text password is hashed, the creation
// date stamped and the failure counter zeroed.
func (d *Directory) Add(ctx context.Context, in NewAccount) (*Account, error) {
	in.ID = strings.TrimSpace(in.ID)
	if in.ID == "" {
		errs := utils.ValidationErrors{}
		errs.Add("id", utils.ValidateRequired("ID", in.ID))
		return nil, errs
	}
	if in.Role == "" {
		in.Role = RoleMember
	}
	if in.Status == "" {
		in.Status = StatusPending
	}
	hash, err := auth.HashPassword(in.Password, d.pepper)
	if err != nil {
		return nil, err
	}
	a := Account{
		ID:            in.ID,
		Password:      hash,
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		AddressDetail: in.AddressDetail,
		ZipCode:       in.ZipCode,
		Role:          in.Role,
		CreatedAt:     d.today(),
		Status:        in.Status,

		MustChangePassword: in.MustChangePassword,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	items, rev, err := d.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	if indexOfFold(items, a.ID) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateIdentifier, a.ID)
	}
	items = append(items, a)
	if _, err := d.coll.Save(ctx, items, rev); err != nil {
		return nil, err
	}
	if d.logger != nil {
		d.logger.Printf("accounts: added %s role=%s status=%s", a.ID, a.Role, a.Status)
	}
	out := a.Sanitized()
	return &out, nil
}

// Update merges patch into the stored account. A password that differs from
// the stored hash is treated as clear text and hashed.
func (d *Directory) Update(ctx context.Context, id string, patch Patch) (*Account, error) {
	var newHash string
	if patch.Password != nil {
		h, err := auth.HashPassword(*patch.Password, d.pepper)
		if err != nil {
			return nil, err
		}
		newHash = h
	}
	return d.mutate(ctx, id, func(a *Account) error {
		if patch.Password != nil && *patch.Password != a.Password {
			a.Password = newHash
		}
		applyString(&a.Name, patch.Name)
		applyString(&a.Email, patch.Email)
		applyString(&a.Phone, patch.Phone)
		applyString(&a.Address, patch.Address)
		applyString(&a.AddressDetail, patch.AddressDetail)
		applyString(&a.ZipCode, patch.ZipCode)
		if patch.Role != nil {
			a.Role = *patch.Role
		}
		if patch.Status != nil {
			a.Status = *patch.Status
		}
		if patch.FailedLoginAttempts != nil {
			a.FailedLoginAttempts = *patch.FailedLoginAttempts
		}
		if patch.MustChangePassword != nil {
			a.MustChangePassword = *patch.MustChangePassword
		}
		return nil
	})
}

// Remove deletes the account if present. Removing an absent id is not an
// error; the root administrator cannot be removed.
func (d *Directory) Remove(ctx context.Context, id string) error {
	if d.IsProtected(id) {
		return fmt.Errorf("%w: %s", ErrProtectedAccount, id)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	items, rev, err := d.coll.Load(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return nil
	}
	items = append(items[:idx], items[idx+1:]...)
	if _, err := d.coll.Save(ctx, items, rev); err != nil {
		return err
	}
	if d.logger != nil {
		d.logger.Printf("accounts: removed %s", id)
	}
	return nil
}

// mutate runs fn against the stored account and persists the result if the
// account still validates.
func (d *Directory) mutate(ctx context.Context, id string, fn func(a *Account) error) (*Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	items, rev, err := d.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	updated := items[idx]
	if err := fn(&updated); err != nil {
		return nil, err
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	items[idx] = updated
	if _, err := d.coll.Save(ctx, items, rev); err != nil {
		return nil, err
	}
	out := updated.Sanitized()
	return &out, nil
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func indexOf(items []Account, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfFold(items []Account, id string) int {
	for i := range items {
		if strings.EqualFold(items[i].ID, id) {
			return i
		}
	}
	return -1
}
