package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string `mapstructure:"PGSQL_URL"`
	Port          string `mapstructure:"PORT"`
	IsProduction  bool   `mapstructure:"IS_PRODUCTION"`
	EnableDBCheck bool   `mapstructure:"ENABLE_DB_CHECK"`
	JWTSecret     string `mapstructure:"JWT_SECRET"`
	StoreDriver   string `mapstructure:"STORE_DRIVER"`

	// Report cache
	RedisURL       string        `mapstructure:"REDIS_URL"`
	ReportCacheTTL time.Duration `mapstructure:"REPORT_CACHE_TTL"`

	// HTTP surface
	RateLimit          string   `mapstructure:"RATE_LIMIT"`
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	MigrationsPath     string   `mapstructure:"MIGRATIONS_PATH"`

	// Journal numbering
	EntryNumberPrefix      string `mapstructure:"ENTRY_NUMBER_PREFIX"`
	EntryNumberMaxAttempts int    `mapstructure:"ENTRY_NUMBER_MAX_ATTEMPTS"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REPORT_CACHE_TTL", "5m")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("ENTRY_NUMBER_PREFIX", "JNL")
	v.SetDefault("ENTRY_NUMBER_MAX_ATTEMPTS", 5)
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:            v.GetString("PGSQL_URL"),
		Port:                   v.GetString("PORT"),
		IsProduction:           v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:          v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		StoreDriver:            strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		RedisURL:               v.GetString("REDIS_URL"),
		RateLimit:              v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:     splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		MigrationsPath:         v.GetString("MIGRATIONS_PATH"),
		EntryNumberPrefix:      v.GetString("ENTRY_NUMBER_PREFIX"),
		EntryNumberMaxAttempts: v.GetInt("ENTRY_NUMBER_MAX_ATTEMPTS"),
	}

	ttlStr := v.GetString("REPORT_CACHE_TTL")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil || ttl <= 0 {
		ttl = 5 * time.Minute
		log.Printf("Warning: Invalid value for REPORT_CACHE_TTL ('%s'). Defaulting to %s.\n", ttlStr, ttl)
	}
	cfg.ReportCacheTTL = ttl

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}
	if cfg.EntryNumberMaxAttempts <= 0 {
		cfg.EntryNumberMaxAttempts = 5
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORE_DRIVER is %q", StoreDriverPostgres)
		}
	case StoreDriverMemory:
		log.Println("Warning: using the in-memory store. Data is lost on restart.")
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set. Reports will be computed on every request.")
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
