package accounts

import (
	"context"
	"sync"

	"ministore/core/store"
	"ministore/core/utils"
)

const settingsKey = "settings/security"

type SecuritySettings struct {
	MaxLoginAttempts  int `json:"max_login_attempts"`
	MinPasswordLength int `json:"min_password_length"`
}

type SettingsPatch struct {
	MaxLoginAttempts  *int `json:"max_login_attempts"`
	MinPasswordLength *int `json:"min_password_length"`
}

// SettingsStore holds the process-wide security settings. The first read
// persists the defaults.
type SettingsStore struct {
	mu       sync.Mutex
	rec      *store.Record[SecuritySettings]
	defaults SecuritySettings
	logger   *utils.Logger
}

func NewSettingsStore(docs store.DocumentsStore, defaults SecuritySettings, logger *utils.Logger) *SettingsStore {
	if defaults.MaxLoginAttempts <= 0 {
		defaults.MaxLoginAttempts = 3
	}
	if defaults.MinPasswordLength <= 0 {
		defaults.MinPasswordLength = 9
	}
	return &SettingsStore{
		rec:      store.NewRecord[SecuritySettings](docs, settingsKey, "1", logger),
		defaults: defaults,
		logger:   logger,
	}
}

func (s *SettingsStore) Get(ctx context.Context) (SecuritySettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, _, err := s.load(ctx)
	return cur, err
}

// Save merges patch into the current settings.
func (s *SettingsStore) Save(ctx context.Context, patch SettingsPatch) (SecuritySettings, error) {
	errs := utils.ValidationErrors{}
	if patch.MaxLoginAttempts != nil && *patch.MaxLoginAttempts < 1 {
		errs.Add("max_login_attempts", &utils.FieldError{Code: "settings.range", Message: "Max login attempts must be at least 1."})
	}
	if patch.MinPasswordLength != nil && (*patch.MinPasswordLength < 1 || *patch.MinPasswordLength > 128) {
		errs.Add("min_password_length", &utils.FieldError{Code: "settings.range", Message: "Minimum password length must be between 1 and 128."})
	}
	if err := errs.Err(); err != nil {
		return SecuritySettings{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, rev, err := s.load(ctx)
	if err != nil {
		return SecuritySettings{}, err
	}
	if patch.MaxLoginAttempts != nil {
		cur.MaxLoginAttempts = *patch.MaxLoginAttempts
	}
	if patch.MinPasswordLength != nil {
		cur.MinPasswordLength = *patch.MinPasswordLength
	}
	if _, err := s.rec.Save(ctx, cur, rev); err != nil {
		return SecuritySettings{}, err
	}
	if s.logger != nil {
		s.logger.Printf("security settings saved max_attempts=%d min_password=%d", cur.MaxLoginAttempts, cur.MinPasswordLength)
	}
	return cur, nil
}

func (s *SettingsStore) load(ctx context.Context) (SecuritySettings, int64, error) {
	stored, rev, err := s.rec.Load(ctx)
	if err != nil {
		return SecuritySettings{}, 0, err
	}
	if stored == nil {
		cur := s.defaults
		newRev, err := s.rec.Save(ctx, cur, rev)
		if err != nil {
			return SecuritySettings{}, 0, err
		}
		return cur, newRev, nil
	}
	cur := *stored
	if cur.MaxLoginAttempts <= 0 {
		cur.MaxLoginAttempts = s.defaults.MaxLoginAttempts
	}
	if cur.MinPasswordLength <= 0 {
		cur.MinPasswordLength = s.defaults.MinPasswordLength
	}
	return cur, rev, nil
}
