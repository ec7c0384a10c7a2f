package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	// DefaultJWTSecret only exists for local development.
	DefaultJWTSecret = "dev_secret"
)

type Config struct {
	DBDriver    string `toml:"db_driver"`
	DatabaseURL string `toml:"database_url"`
	DBHost      string `toml:"db_host"`
	DBUser      string `toml:"db_user"`
	DBPassword  string `toml:"db_password"`
	DBName      string `toml:"db_name"`
	DBPort      int    `toml:"db_port"`
	DBPoolLimit int    `toml:"db_pool_limit"`

	Port       int      `toml:"port"`
	CORSOrigin []string `toml:"cors_origin"`
	JWTSecret  string   `toml:"jwt_secret"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// Load reads .env (if any), then CONFIG_FILE (if set), then the
// environment. Later sources win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromEnv(cfg *Config) error {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", key, v)
		}
		*dst = n
		return nil
	}

	setString(&cfg.DBDriver, "DB_DRIVER")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.DBHost, "DB_HOST")
	setString(&cfg.DBUser, "DB_USER")
	setString(&cfg.DBName, "DB_NAME")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")

	// An empty password is a valid setting, so presence is what counts.
	if v, ok := os.LookupEnv("DB_PASSWORD"); ok {
		cfg.DBPassword = v
	}

	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		cfg.CORSOrigin = splitList(v)
	}

	for key, dst := range map[string]*int{
		"DB_PORT":       &cfg.DBPort,
		"DB_POOL_LIMIT": &cfg.DBPoolLimit,
		"PORT":          &cfg.Port,
	} {
		if err := setInt(dst, key); err != nil {
			return err
		}
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.DBDriver == "" {
		cfg.DBDriver = DriverMySQL
	}
	cfg.DBDriver = strings.ToLower(cfg.DBDriver)
	if cfg.DBHost == "" {
		cfg.DBHost = "localhost"
	}
	if cfg.DBUser == "" {
		cfg.DBUser = "root"
	}
	if cfg.DBName == "" {
		cfg.DBName = "task_manager"
	}
	if cfg.DBPort == 0 {
		cfg.DBPort = 3306
		if cfg.DBDriver == DriverPostgres {
			cfg.DBPort = 5432
		}
	}
	if cfg.DBPoolLimit == 0 {
		cfg.DBPoolLimit = 10
	}
	if cfg.Port == 0 {
		cfg.Port = 4000
	}
	if len(cfg.CORSOrigin) == 0 {
		cfg.CORSOrigin = []string{"*"}
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = DefaultJWTSecret
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("DB_DRIVER: unsupported driver %q", c.DBDriver)
	}
	if c.DBPoolLimit < 1 {
		return fmt.Errorf("DB_POOL_LIMIT: must be at least 1, got %d", c.DBPoolLimit)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT: out of range: %d", c.Port)
	}
	for _, origin := range c.CORSOrigin {
		if origin == "*" {
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("CORS_ORIGIN: %q must be * or start with http:// or https://", origin)
		}
	}
	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("LOG_FORMAT: unsupported format %q", c.LogFormat)
	}
	return nil
}

// AllowsAnyOrigin reports whether CORS is fully permissive.
func (c *Config) AllowsAnyOrigin() bool {
	for _, origin := range c.CORSOrigin {
		if origin == "*" {
			return true
		}
	}
	return false
}

func (c *Config) InsecureSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
