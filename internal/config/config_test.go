package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
app:
  name: shuttle-bracket
  port: 9090
database:
  driver: sqlite
  dsn: test.db
`))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 30*time.Second, cfg.App.ShutdownTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Session.Lifetime)
	assert.Equal(t, 5.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.NoError(t, cfg.Validate())
}

func TestParseDurations(t *testing.T) {
	cfg, err := Parse([]byte(`
app:
  shutdown_timeout: 5s
session:
  lifetime: 90m
`))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.App.ShutdownTimeout)
	assert.Equal(t, 90*time.Minute, cfg.Session.Lifetime)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Parse([]byte("app: {name: test, port: 8080}\ndatabase: {driver: postgres, dsn: postgres://localhost/brackets}"))
		require.NoError(t, err)
		return cfg
	}
	require.NoError(t, valid().Validate())

	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing name", func(c *Config) { c.App.Name = "" }},
		{"port out of range", func(c *Config) { c.App.Port = 70000 }},
		{"missing driver", func(c *Config) { c.Database.Driver = "" }},
		{"unsupported driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }},
		{"negative burst", func(c *Config) { c.RateLimit.Burst = -1 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadReadsAdminsFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app: {name: test, port: 8080}\ndatabase: {driver: sqlite, dsn: test.db}\n"), 0o600))

	t.Setenv("ADMIN_EMAILS", " Referee@Example.com, ,desk@example.com")
	t.Setenv("SESSION_SECRET", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"referee@example.com", "desk@example.com"}, cfg.Auth.AdminEmails)
	assert.Equal(t, "secret", cfg.Auth.SessionSecret)
	assert.True(t, cfg.Auth.IsAdmin("REFEREE@example.com"))
	assert.False(t, cfg.Auth.IsAdmin("player@example.com"))
	assert.False(t, cfg.Auth.IsAdmin(""))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
