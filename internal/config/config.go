package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

type Config struct {
	Env               string
	Port              string
	DBDriver          string
	DatabaseURL       string
	SQLitePath        string
	JWTSecret         string
	AdminUser         string
	AdminPasswordHash string
	RedisURL          string
	FeedCacheTTL      time.Duration
	AllowedOrigins    []string
	EncryptionKey     []byte
	ModerationStrict  bool
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:               getenv("APP_ENV", "development"),
		Port:              getenv("PORT", "8080"),
		DBDriver:          getenv("DB_DRIVER", DriverSQLite),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SQLitePath:        getenv("SQLITE_PATH", "data/adda.db"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminUser:         getenv("ADMIN_USER", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		RedisURL:          os.Getenv("REDIS_URL"),
	}

	ttl, err := time.ParseDuration(getenv("FEED_CACHE_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("FEED_CACHE_TTL: %w", err)
	}
	cfg.FeedCacheTTL = ttl

	for _, o := range strings.Split(getenv("ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if v := os.Getenv("MODERATION_STRICT"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("MODERATION_STRICT: %w", err)
		}
		cfg.ModerationStrict = strict
	}

	if v := os.Getenv("ENCRYPTION_KEY"); v != "" {
		key, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("ENCRYPTION_KEY must be hex: %w", err)
		}
		cfg.EncryptionKey = key
	}

	// A plain ADMIN_PASSWORD is accepted for local setups and hashed once here.
	if cfg.AdminPasswordHash == "" {
		if plain := os.Getenv("ADMIN_PASSWORD"); plain != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("hash ADMIN_PASSWORD: %w", err)
			}
			cfg.AdminPasswordHash = string(hashed)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the pgx driver")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.EncryptionKey != nil && len(c.EncryptionKey) != 32 {
		return errors.New("ENCRYPTION_KEY must decode to 32 bytes")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
