package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPostgresConfig() *Config {
	return &Config{
		Driver:        "postgres",
		Host:          "localhost",
		Port:          5432,
		Username:      "relstore",
		Password:      "secret",
		Database:      "relstore",
		SSLMode:       "disable",
		MaxOpenConns:  25,
		MaxIdleConns:  25,
		QueryTimeout:  10 * time.Second,
		LogLevel:      "info",
		RetryAttempts: 3,
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid postgres config", func(t *testing.T) {
		assert.NoError(t, validPostgresConfig().Validate())
	})

	t.Run("valid sqlite config", func(t *testing.T) {
		cfg := validPostgresConfig()
		cfg.Driver = "sqlite"
		cfg.Path = "relstore.db"
		assert.NoError(t, cfg.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing host", func(c *Config) { c.Host = "" }},
		{"invalid port", func(c *Config) { c.Port = 70000 }},
		{"missing username", func(c *Config) { c.Username = "" }},
		{"missing database name", func(c *Config) { c.Database = "" }},
		{"invalid ssl mode", func(c *Config) { c.SSLMode = "maybe" }},
		{"unsupported driver", func(c *Config) { c.Driver = "oracle" }},
		{"sqlite without path", func(c *Config) { c.Driver = "sqlite"; c.Path = "" }},
		{"non-positive max open conns", func(c *Config) { c.MaxOpenConns = 0 }},
		{"non-positive max idle conns", func(c *Config) { c.MaxIdleConns = 0 }},
		{"non-positive query timeout", func(c *Config) { c.QueryTimeout = 0 }},
		{"non-positive retry attempts", func(c *Config) { c.RetryAttempts = 0 }},
		{"invalid log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validPostgresConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	t.Run("postgres", func(t *testing.T) {
		dsn := validPostgresConfig().DSN()
		assert.Equal(t, "host=localhost port=5432 user=relstore password=secret dbname=relstore sslmode=disable", dsn)
	})

	t.Run("sqlite uses the path", func(t *testing.T) {
		cfg := &Config{Driver: "sqlite", Path: "/tmp/relstore.db"}
		assert.Equal(t, "/tmp/relstore.db", cfg.DSN())
	})
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("RS_DB_DRIVER", "")
	t.Setenv("RS_DB_PORT", "")
	t.Setenv("RS_DB_MAX_OPEN_CONNS", "")

	cfg := DefaultConfig()
	assert.Equal(t, "postgres", cfg.Driver)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 10*time.Second, cfg.QueryTimeout)
	assert.Equal(t, "disable", cfg.SSLMode)
}

func TestDefaultConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RS_DB_DRIVER", "sqlite")
	t.Setenv("RS_DB_PATH", "/data/store.db")
	t.Setenv("RS_DB_RETRY_ATTEMPTS", "7")
	t.Setenv("RS_DB_QUERY_TIMEOUT_SECONDS", "30")

	cfg := DefaultConfig()
	require.Equal(t, "sqlite", cfg.Driver)
	assert.Equal(t, "/data/store.db", cfg.Path)
	assert.Equal(t, 7, cfg.RetryAttempts)
	assert.Equal(t, 30*time.Second, cfg.QueryTimeout)
}

func TestDefaultConfig_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("RS_DB_PORT", "not-a-number")
	cfg := DefaultConfig()
	assert.Equal(t, 5432, cfg.Port)
}
