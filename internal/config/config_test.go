package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 8085

[database]
host = "db"
port = 5433
user = "booking"
password = "from-file"
dbname = "marketplace"

[logs]
level = "debug"

[catalog_service]
url = "http://catalog:8080"
timeout = 3

[cart]
backend = "redis"
ttl_minutes = 30
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8085, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout, "default kept when section omits value")
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "debug", cfg.Logs.Level)
	assert.Equal(t, CartBackendRedis, cfg.Cart.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Cart.TTL())
	assert.Equal(t, AuthModeHeader, cfg.Auth.Mode)
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("DB_PORT", "6000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 6000, cfg.Database.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Database.DBName = "marketplace"
		cfg.CatalogService.URL = "http://catalog"
		return cfg
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad port", func(c *Config) { c.Server.HTTPPort = 0 }},
		{"missing catalog url", func(c *Config) { c.CatalogService.URL = "" }},
		{"unknown cart backend", func(c *Config) { c.Cart.Backend = "memcached" }},
		{"non-positive cart ttl", func(c *Config) { c.Cart.TTLMinutes = 0 }},
		{"jwt without secret", func(c *Config) { c.Auth.Mode = AuthModeJWT }},
		{"unknown auth mode", func(c *Config) { c.Auth.Mode = "basic" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 1, User: "u", Password: "p", DBName: "d", SSLMode: "disable", StatementTimeout: 5000}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable statement_timeout=5000", d.DSN())
}
