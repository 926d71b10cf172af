package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

const defaultPepper = "dev-pepper-change-me"

func Validate(cfg *AppConfig) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.DBDriver)) {
	case "sqlite", "":
		if strings.TrimSpace(cfg.DBPath) == "" {
			return fmt.Errorf("db_path must be set for sqlite driver")
		}
	case "postgres", "pg":
		if strings.TrimSpace(cfg.DBURL) == "" {
			return fmt.Errorf("db_url must be set for postgres driver")
		}
	default:
		return fmt.Errorf("unsupported db_driver: %s", cfg.DBDriver)
	}
	if cfg.Security.MaxLoginAttempts < 1 {
		return fmt.Errorf("security.max_login_attempts must be at least 1")
	}
	if cfg.Security.MinPasswordLength < 1 {
		return fmt.Errorf("security.min_password_length must be at least 1")
	}
	if cfg.Scheduler.Enabled && strings.TrimSpace(cfg.Scheduler.SessionSweepSpec) != "" {
		if _, err := cron.ParseStandard(cfg.Scheduler.SessionSweepSpec); err != nil {
			return fmt.Errorf("scheduler.session_sweep_spec: %w", err)
		}
	}
	if cfg.TLSEnabled && (strings.TrimSpace(cfg.TLSCert) == "" || strings.TrimSpace(cfg.TLSKey) == "") {
		return fmt.Errorf("tls_cert and tls_key must be set when tls_enabled=true")
	}
	if cfg.AppEnv != "dev" {
		pep := strings.TrimSpace(cfg.Pepper)
		if pep == "" || pep == defaultPepper {
			return fmt.Errorf("pepper must be set to a non-default value outside APP_ENV=dev")
		}
		if cfg.Observability.MetricsEnabled && strings.TrimSpace(cfg.Observability.MetricsToken) == "" {
			return fmt.Errorf("observability.metrics_token must be set outside APP_ENV=dev")
		}
	}
	return nil
}

// EffectivePepper falls back to the development pepper so local runs work
// without any secrets configured.
func (c *AppConfig) EffectivePepper() string {
	if c == nil || strings.TrimSpace(c.Pepper) == "" {
		return defaultPepper
	}
	return c.Pepper
}
