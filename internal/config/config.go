package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server          ServerConfig
	Database        DatabaseConfig
	CORS            CORSConfig
	Tables          TablesConfig
	Roll            RollConfig
	Transliteration TransliterationConfig
	Session         SessionConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// TablesConfig names the externally owned roll tables.
// Values may be schema-qualified ("schema.table").
type TablesConfig struct {
	Voters  string
	Match   string
	Missing string
}

// RollConfig holds electoral roll constants.
type RollConfig struct {
	FlagshipConstituency string
}

// TransliterationConfig configures the upstream transliteration endpoint.
type TransliterationConfig struct {
	URL               string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// SessionConfig configures operator sessions.
type SessionConfig struct {
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "electra")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")
	v.SetDefault("VOTERS_TABLE", "trichy2_import")
	v.SetDefault("MATCH_TABLE", "trichy2_import")
	v.SetDefault("BATCH_MISSING_TABLE", "batch_missing_copy")
	v.SetDefault("FLAGSHIP_CONSTITUENCY", "166")
	v.SetDefault("TRANSLIT_URL", "https://inputtools.google.com/request")
	v.SetDefault("TRANSLIT_TIMEOUT", "5s")
	v.SetDefault("TRANSLIT_RPS", 20.0)
	v.SetDefault("SESSION_TTL", "6h")
	v.SetDefault("SESSION_COOKIE", "session_id")
	v.SetDefault("SESSION_SECURE", false)

	// Bind environment variables
	v.AutomaticEnv()

	// Build configuration
	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
		Tables: TablesConfig{
			Voters:  strings.TrimSpace(v.GetString("VOTERS_TABLE")),
			Match:   strings.TrimSpace(v.GetString("MATCH_TABLE")),
			Missing: strings.TrimSpace(v.GetString("BATCH_MISSING_TABLE")),
		},
		Roll: RollConfig{
			FlagshipConstituency: strings.TrimSpace(v.GetString("FLAGSHIP_CONSTITUENCY")),
		},
		Transliteration: TransliterationConfig{
			URL:               v.GetString("TRANSLIT_URL"),
			Timeout:           v.GetDuration("TRANSLIT_TIMEOUT"),
			RequestsPerSecond: v.GetFloat64("TRANSLIT_RPS"),
		},
		Session: SessionConfig{
			TTL:        v.GetDuration("SESSION_TTL"),
			CookieName: v.GetString("SESSION_COOKIE"),
			Secure:     v.GetBool("SESSION_SECURE"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if c.Database.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if c.Database.PoolMin > c.Database.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	if c.Tables.Voters == "" {
		return fmt.Errorf("VOTERS_TABLE is required")
	}
	if c.Tables.Match == "" {
		return fmt.Errorf("MATCH_TABLE is required")
	}
	if c.Tables.Missing == "" {
		return fmt.Errorf("BATCH_MISSING_TABLE is required")
	}
	if c.Roll.FlagshipConstituency == "" {
		return fmt.Errorf("FLAGSHIP_CONSTITUENCY is required")
	}

	if c.Transliteration.URL == "" {
		return fmt.Errorf("TRANSLIT_URL is required")
	}
	if c.Transliteration.Timeout <= 0 {
		return fmt.Errorf("TRANSLIT_TIMEOUT must be positive")
	}
	if c.Transliteration.RequestsPerSecond <= 0 {
		return fmt.Errorf("TRANSLIT_RPS must be positive")
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE is required")
	}

	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
