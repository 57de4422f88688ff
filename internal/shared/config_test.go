package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./moviex.db" {
			t.Errorf("expected database path ./moviex.db, got %s", config.Database.Path)
		}

		if config.Preview.Port != 3000 {
			t.Errorf("expected preview port 3000, got %d", config.Preview.Port)
		}

		if config.Server.BaseURL != "http://127.0.0.1:8000" {
			t.Errorf("expected base URL http://127.0.0.1:8000, got %s", config.Server.BaseURL)
		}

		if config.Server.Timeout.Duration != 15*time.Second {
			t.Errorf("expected timeout 15s, got %v", config.Server.Timeout.Duration)
		}

		if config.Session.Backend != "sqlite" {
			t.Errorf("expected sqlite session backend, got %s", config.Session.Backend)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[server]
base_url = "http://movies.local:9000"
timeout = "2s"

[session]
backend = "redis"

[redis]
addr = "10.0.0.5:6379"

[list]
preserve_order = true
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Server.BaseURL != "http://movies.local:9000" {
			t.Errorf("expected custom base URL, got %s", config.Server.BaseURL)
		}
		if config.Server.Timeout.Duration != 2*time.Second {
			t.Errorf("expected timeout 2s, got %v", config.Server.Timeout.Duration)
		}
		if config.Session.Backend != "redis" {
			t.Errorf("expected redis backend, got %s", config.Session.Backend)
		}
		if !config.List.PreserveOrder {
			t.Error("expected preserve_order to be true")
		}
		if config.Database.Path != "./moviex.db" {
			t.Errorf("expected missing keys to keep defaults, got database path %s", config.Database.Path)
		}
	})

	t.Run("LoadConfig Rejects Unknown Backend", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[session]\nbackend = \"etcd\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig Rejects Bad Duration", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[server]\ntimeout = \"soon\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected error for malformed duration")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv(EnvBaseURL, "http://env.example:1234")
		t.Setenv(EnvSessionBackend, "memory")
		t.Setenv(EnvLogLevel, "debug")

		config := DefaultConfig()
		config.ApplyEnv()

		if config.Server.BaseURL != "http://env.example:1234" {
			t.Errorf("expected env base URL, got %s", config.Server.BaseURL)
		}
		if config.Session.Backend != "memory" {
			t.Errorf("expected memory backend, got %s", config.Session.Backend)
		}
		if config.Log.Level != "debug" {
			t.Errorf("expected debug level, got %s", config.Log.Level)
		}
	})

	t.Run("LoadEnv", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte("MOVIEX_REDIS_ADDR=redis.internal:6380\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Setenv(EnvRedisAddr, "")
		os.Unsetenv(EnvRedisAddr)

		LoadEnv(envPath, filepath.Join(t.TempDir(), "missing.env"))

		if got := os.Getenv(EnvRedisAddr); got != "redis.internal:6380" {
			t.Errorf("expected redis addr from env file, got %q", got)
		}
	})
}
