package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

var envKeys = []string{
	"CONFIG_FILE", "DB_DRIVER", "DATABASE_URL", "DB_HOST", "DB_USER", "DB_PASSWORD",
	"DB_NAME", "DB_PORT", "DB_POOL_LIMIT", "PORT", "CORS_ORIGIN", "JWT_SECRET",
	"LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv blanks every key Load reads. t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := &Config{
		DBDriver:    DriverMySQL,
		DBHost:      "localhost",
		DBUser:      "root",
		DBName:      "task_manager",
		DBPort:      3306,
		DBPoolLimit: 10,
		Port:        4000,
		CORSOrigin:  []string{"*"},
		JWTSecret:   DefaultJWTSecret,
		LogLevel:    "info",
		LogFormat:   "text",
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Load:\n got %+v\nwant %+v", cfg, want)
	}
	if !cfg.InsecureSecret() {
		t.Error("InsecureSecret: got false for the default secret")
	}
	if !cfg.AllowsAnyOrigin() {
		t.Error("AllowsAnyOrigin: got false for *")
	}
	if cfg.Addr() != ":4000" {
		t.Errorf("Addr: got %q, want :4000", cfg.Addr())
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("DB_NAME", "tasks")
	t.Setenv("DB_POOL_LIMIT", "25")
	t.Setenv("PORT", "8080")
	t.Setenv("CORS_ORIGIN", "https://app.example.com, http://localhost:5173")
	t.Setenv("JWT_SECRET", "prod")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DBDriver != DriverPostgres {
		t.Errorf("DBDriver: got %q, want postgres", cfg.DBDriver)
	}
	if cfg.DBPort != 5432 {
		t.Errorf("DBPort: got %d, want postgres default 5432", cfg.DBPort)
	}
	if cfg.DBHost != "db" || cfg.DBUser != "app" || cfg.DBPassword != "s3cret" || cfg.DBName != "tasks" {
		t.Errorf("db settings: got %+v", cfg)
	}
	if cfg.DBPoolLimit != 25 {
		t.Errorf("DBPoolLimit: got %d, want 25", cfg.DBPoolLimit)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port: got %d, want 8080", cfg.Port)
	}
	wantOrigins := []string{"https://app.example.com", "http://localhost:5173"}
	if !reflect.DeepEqual(cfg.CORSOrigin, wantOrigins) {
		t.Errorf("CORSOrigin: got %v, want %v", cfg.CORSOrigin, wantOrigins)
	}
	if cfg.AllowsAnyOrigin() {
		t.Error("AllowsAnyOrigin: got true for explicit origins")
	}
	if cfg.InsecureSecret() {
		t.Error("InsecureSecret: got true for an explicit secret")
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "taskapi.toml")
	content := `db_driver = "memory"
port = 9000
jwt_secret = "from-file"
cors_origin = ["https://file.example.com"]
log_level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DBDriver != DriverMemory {
		t.Errorf("DBDriver: got %q, want memory", cfg.DBDriver)
	}
	if cfg.Port != 9100 {
		t.Errorf("Port: got %d, want env override 9100", cfg.Port)
	}
	if cfg.JWTSecret != "from-file" {
		t.Errorf("JWTSecret: got %q, want from-file", cfg.JWTSecret)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if !reflect.DeepEqual(cfg.CORSOrigin, []string{"https://file.example.com"}) {
		t.Errorf("CORSOrigin: got %v", cfg.CORSOrigin)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"PORT": "eighty"}},
		{"port range", map[string]string{"PORT": "70000"}},
		{"bad pool", map[string]string{"DB_POOL_LIMIT": "-1"}},
		{"bad driver", map[string]string{"DB_DRIVER": "oracle"}},
		{"bad origin", map[string]string{"CORS_ORIGIN": "example.com"}},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}},
		{"missing config file", map[string]string{"CONFIG_FILE": "/does/not/exist.toml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("Load: expected error")
			}
		})
	}
}
