package config

import "time"

// Config holds all application configuration in a structured way.
type Config struct {
	App    AppConfig
	Valkey ValkeyConfig
}

type AppConfig struct {
	Version        string
	Port           string
	Debug          bool
	BasePath       string
	BasicAuth      []string
	TrustedProxies []string
}

type ValkeyConfig struct {
	Enabled        bool // false runs on the in-memory store (dev/tests)
	Address        string
	Password       string
	DB             int
	KeyPrefix      string
	ConnectTimeout time.Duration
}

// Global provides access to the loaded configuration globally. It is set
// once by cmd at startup; everything below cmd takes explicit dependencies.
var Global *Config

// LoadConfig loads configuration from environment variables or defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Version:        "v1.2.0",
			Port:           getEnv("APP_PORT", "3000"),
			Debug:          getEnvBool("APP_DEBUG", false),
			BasePath:       getEnv("APP_BASE_PATH", ""),
			BasicAuth:      getEnvList("APP_BASIC_AUTH"),
			TrustedProxies: getEnvList("APP_TRUSTED_PROXIES"),
		},
		Valkey: ValkeyConfig{
			Enabled:        getEnvBool("VALKEY_ENABLED", true),
			Address:        getEnv("VALKEY_ADDRESS", getEnv("REDIS_HOST", "localhost")+":"+getEnv("REDIS_PORT", "6379")),
			Password:       getEnv("VALKEY_PASSWORD", getEnv("REDIS_PASSWORD", "")),
			DB:             getEnvInt("VALKEY_DB", 0),
			KeyPrefix:      getEnv("VALKEY_KEY_PREFIX", ""),
			ConnectTimeout: time.Duration(getEnvInt("VALKEY_CONNECT_TIMEOUT_SECONDS", 5)) * time.Second,
		},
	}

	Global = cfg
	return cfg, nil
}
