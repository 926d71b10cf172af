package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	defaultConfigPath = "config/app.yaml"
	defaultEnvFile    = ".env"
	envPrefix         = "MINISTORE_"
)

func Load() (*AppConfig, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load(resolveEnvFile())
	cfg := &AppConfig{}
	cfgPath := resolveConfigPath()
	if st, err := os.Stat(cfgPath); err == nil && !st.IsDir() {
		if err := cleanenv.ReadConfig(cfgPath, cfg); err != nil {
			return nil, err
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	applyEnvAliases(cfg)
	normalizeConfig(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvAliases(cfg *AppConfig) {
	if cfg == nil {
		return
	}
	if v := getEnv("PEPPER"); v != "" {
		cfg.Pepper = strings.TrimSpace(v)
	}
	if v := getEnv("ENV", "APP_ENV"); v != "" {
		cfg.AppEnv = strings.TrimSpace(v)
	}
	if v := getEnv("PORT", envPrefix+"PORT"); v != "" {
		cfg.ListenAddr = listenAddrWithPort(cfg.ListenAddr, v)
	}
	if v := getEnv("DATA_PATH", envPrefix+"DATA_PATH"); v != "" {
		cfg.DBPath = filepathJoin(strings.TrimSpace(v), "ministore.db")
	}
	if v := getEnv("DATABASE_URL"); v != "" {
		cfg.DBURL = strings.TrimSpace(v)
	}
	if v := getEnv("RESEND_API_KEY"); v != "" {
		cfg.Mail.ResendAPIKey = strings.TrimSpace(v)
	}
	if v := getEnv("MAX_LOGIN_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.Security.MaxLoginAttempts = n
		}
	}
}

func normalizeConfig(cfg *AppConfig) {
	if cfg == nil {
		return
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.DBPath = strings.TrimSpace(cfg.DBPath)
	cfg.DBURL = strings.TrimSpace(cfg.DBURL)
	cfg.ListenAddr = strings.TrimSpace(cfg.ListenAddr)
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.Pepper = strings.TrimSpace(cfg.Pepper)
	cfg.Mail.ResendAPIKey = strings.TrimSpace(cfg.Mail.ResendAPIKey)
	cfg.Mail.From = strings.TrimSpace(cfg.Mail.From)
	cfg.Mail.To = strings.TrimSpace(cfg.Mail.To)
	cfg.Security.RootAdminID = strings.TrimSpace(cfg.Security.RootAdminID)
	if cfg.DBDriver == "" {
		if cfg.DBURL != "" {
			cfg.DBDriver = "postgres"
		} else {
			cfg.DBDriver = "sqlite"
		}
	}
	if cfg.DBDriver == "pg" {
		cfg.DBDriver = "postgres"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "0.0.0.0:8080"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "dev"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}
	if cfg.Security.MaxLoginAttempts <= 0 {
		cfg.Security.MaxLoginAttempts = 3
	}
	if cfg.Security.MinPasswordLength <= 0 {
		cfg.Security.MinPasswordLength = 9
	}
	if cfg.Security.RootAdminID == "" {
		cfg.Security.RootAdminID = "admin"
	}
	if cfg.Security.LoginRatePerMin <= 0 {
		cfg.Security.LoginRatePerMin = 20
	}
	if strings.TrimSpace(cfg.Scheduler.SessionSweepSpec) == "" {
		cfg.Scheduler.SessionSweepSpec = "@every 5m"
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = "MINI Store <onboarding@resend.dev>"
	}
}

func getEnv(keys ...string) string {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	return ""
}

func resolveConfigPath() string {
	if v := getEnv("APP_CONFIG", envPrefix+"APP_CONFIG"); v != "" {
		return strings.TrimSpace(v)
	}
	return defaultConfigPath
}

func resolveEnvFile() string {
	if v := getEnv(envPrefix + "ENV_FILE"); v != "" {
		return strings.TrimSpace(v)
	}
	return defaultEnvFile
}

func listenAddrWithPort(currentAddr, portRaw string) string {
	port := strings.TrimSpace(portRaw)
	if port == "" {
		return currentAddr
	}
	if _, err := strconv.Atoi(port); err != nil {
		return currentAddr
	}
	host := "0.0.0.0"
	parts := strings.Split(strings.TrimSpace(currentAddr), ":")
	if len(parts) > 1 {
		host = strings.Join(parts[:len(parts)-1], ":")
	}
	if host == "" {
		host = "0.0.0.0"
	}
	return host + ":" + port
}

func filepathJoin(base, leaf string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return leaf
	}
	base = strings.TrimRight(base, "/\\")
	return base + string(os.PathSeparator) + leaf
}
