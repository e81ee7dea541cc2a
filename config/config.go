// Package config loads runtime settings from the environment and opens the
// database and cache backends they select.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server ServerConfig `koanf:"server"`
	DB     DBConfig     `koanf:"db"`
	Redis  RedisConfig  `koanf:"redis"`
	Cache  CacheConfig  `koanf:"cache"`
	Auth   AuthConfig   `koanf:"auth"`
	S3     S3Config     `koanf:"s3"`
	Log    LogConfig    `koanf:"log"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// DBConfig selects postgres (host/port/... or a full DSN) or a sqlite file.
type DBConfig struct {
	Driver   string `koanf:"driver"`
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	SSLMode  string `koanf:"sslmode"`
	DSN      string `koanf:"dsn"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type CacheConfig struct {
	Backend      string        `koanf:"backend"`
	DashboardTTL time.Duration `koanf:"dashboard_ttl"`
	UserTTL      time.Duration `koanf:"user_ttl"`
	MealLogsTTL  time.Duration `koanf:"meal_logs_ttl"`
}

type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret"`
}

// S3Config enables avatar uploads when Bucket is set.
type S3Config struct {
	Region    string `koanf:"region"`
	Bucket    string `koanf:"bucket"`
	PublicURL string `koanf:"public_url"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	CacheRedis  = "redis"
	CacheMemory = "memory"
)

// envKey maps SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	parts := strings.SplitN(strings.ToLower(s), "_", 2)
	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + "." + parts[1]
}

// Load reads an optional .env file, then the process environment. Values
// already set in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(c *Config) {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.DB.Driver == "" {
		c.DB.Driver = DriverPostgres
	}
	if c.DB.Driver == DriverPostgres {
		if c.DB.Port == "" {
			c.DB.Port = "5432"
		}
		if c.DB.SSLMode == "" {
			c.DB.SSLMode = "disable"
		}
	}
	if c.DB.Driver == DriverSQLite && c.DB.DSN == "" {
		c.DB.DSN = "healthtrack.db"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheRedis
	}
	if c.Cache.Backend == CacheRedis && c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Cache.DashboardTTL == 0 {
		c.Cache.DashboardTTL = 10 * time.Minute
	}
	if c.Cache.UserTTL == 0 {
		c.Cache.UserTTL = 30 * time.Minute
	}
	if c.Cache.MealLogsTTL == 0 {
		c.Cache.MealLogsTTL = 10 * time.Minute
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

func (c *Config) Validate() error {
	var errs []error
	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.DSN == "" && (c.DB.Host == "" || c.DB.User == "" || c.DB.Name == "") {
			errs = append(errs, errors.New("db: DB_DSN or DB_HOST, DB_USER and DB_NAME are required for postgres"))
		}
	case DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("db: unknown driver %q", c.DB.Driver))
	}
	switch c.Cache.Backend {
	case CacheRedis, CacheMemory:
	default:
		errs = append(errs, fmt.Errorf("cache: unknown backend %q", c.Cache.Backend))
	}
	if c.Cache.DashboardTTL < 0 || c.Cache.UserTTL < 0 || c.Cache.MealLogsTTL < 0 {
		errs = append(errs, errors.New("cache: ttls must be positive"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth: AUTH_JWT_SECRET is required"))
	}
	if c.S3.Bucket != "" && c.S3.PublicURL == "" {
		errs = append(errs, errors.New("s3: S3_PUBLIC_URL is required when S3_BUCKET is set"))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log: unknown format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// PostgresDSN renders the key/value DSN unless a full DSN was given.
func (c DBConfig) PostgresDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}
