package config

import "time"

type AppConfig struct {
	DBDriver      string              `yaml:"db_driver" env:"MINISTORE_DB_DRIVER" env-default:"sqlite"`
	DBPath        string              `yaml:"db_path" env:"MINISTORE_DB_PATH" env-default:"data/ministore.db"`
	DBURL         string              `yaml:"db_url" env:"MINISTORE_DB_URL"`
	ListenAddr    string              `yaml:"listen_addr" env:"MINISTORE_LISTEN_ADDR" env-default:"0.0.0.0:8080"`
	SessionTTL    time.Duration       `yaml:"session_ttl" env:"MINISTORE_SESSION_TTL" env-default:"12h"`
	AppEnv        string              `yaml:"app_env" env:"MINISTORE_APP_ENV" env-default:"dev"`
	LogLevel      string              `yaml:"log_level" env:"MINISTORE_LOG_LEVEL" env-default:"info"`
	Pepper        string              `yaml:"pepper" env:"MINISTORE_PEPPER"`
	TLSEnabled    bool                `yaml:"tls_enabled" env:"MINISTORE_TLS_ENABLED"`
	TLSCert       string              `yaml:"tls_cert" env:"MINISTORE_TLS_CERT"`
	TLSKey        string              `yaml:"tls_key" env:"MINISTORE_TLS_KEY"`
	Security      SecurityConfig      `yaml:"security"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
	Mail          MailConfig          `yaml:"mail"`
	Observability ObservabilityConfig `yaml:"observability"`
}

func (c *AppConfig) IsDev() bool {
	if c == nil {
		return false
	}
	return c.AppEnv == "dev"
}

// SecurityConfig holds the defaults written to the security settings document
// the first time it is read. Later changes go through the admin API.
type SecurityConfig struct {
	MaxLoginAttempts  int      `yaml:"max_login_attempts" env:"MINISTORE_MAX_LOGIN_ATTEMPTS" env-default:"3"`
	MinPasswordLength int      `yaml:"min_password_length" env:"MINISTORE_MIN_PASSWORD_LENGTH" env-default:"9"`
	RootAdminID       string   `yaml:"root_admin_id" env:"MINISTORE_ROOT_ADMIN_ID" env-default:"admin"`
	LoginRatePerMin   int      `yaml:"login_rate_per_min" env:"MINISTORE_LOGIN_RATE_PER_MIN" env-default:"20"`
	TrustedProxies    []string `yaml:"trusted_proxies" env:"MINISTORE_TRUSTED_PROXIES"`
}

type SchedulerConfig struct {
	Enabled          bool   `yaml:"enabled" env:"MINISTORE_SCHEDULER_ENABLED" env-default:"true"`
	SessionSweepSpec string `yaml:"session_sweep_spec" env:"MINISTORE_SESSION_SWEEP_SPEC" env-default:"@every 5m"`
}

type MailConfig struct {
	ResendAPIKey string `yaml:"resend_api_key" env:"MINISTORE_RESEND_API_KEY"`
	From         string `yaml:"from" env:"MINISTORE_MAIL_FROM" env-default:"MINI Store <onboarding@resend.dev>"`
	To           string `yaml:"to" env:"MINISTORE_MAIL_TO"`
}

type ObservabilityConfig struct {
	MetricsEnabled bool   `yaml:"metrics_enabled" env:"MINISTORE_METRICS_ENABLED" env-default:"true"`
	MetricsToken   string `yaml:"metrics_token" env:"MINISTORE_METRICS_TOKEN"`
}
