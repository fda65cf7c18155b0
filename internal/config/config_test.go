package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, env(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.Dev())
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
storage: mongo
mongodb_uri: mongodb://file
jwt_secret: from-file
token_ttl: 2h
rate_limit_rpm: 4
`), 0o644))

	cfg, err := Load(
		[]string{"--config", path, "--port", "9000"},
		env(map[string]string{
			"PORT":           "8000",
			"MONGODB_URI":    "mongodb://env",
			"RATE_LIMIT_RPM": "6",
			"BOARD_ENV":      "dev",
		}),
	)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port, "flag beats env and file")
	assert.Equal(t, "mongodb://env", cfg.MongoURI, "env beats file")
	assert.Equal(t, StorageMongo, cfg.Storage, "file beats default")
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 6, cfg.RateLimitRPM)
	assert.True(t, cfg.Dev())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /var/lib/board\n"), 0o644))

	cfg, err := Load(nil, env(map[string]string{"BOARD_CONFIG": path}))
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/board", cfg.DataDir)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, env(nil))
	require.Error(t, err)

	_, err = Load(nil, env(map[string]string{"RATE_LIMIT_RPM": "lots"}))
	require.Error(t, err)

	_, err = Load(nil, env(map[string]string{"REQUIRE_TLS": "maybe"}))
	require.Error(t, err)

	_, err = Load([]string{"--no-such-flag"}, env(nil))
	require.Error(t, err)
}

func TestParseKeys(t *testing.T) {
	keys, err := ParseKeys("k1:one, k2:two:with-colon,")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"k1": "one", "k2": "two:with-colon"}, keys)

	_, err = ParseKeys("k1")
	require.Error(t, err)
	_, err = ParseKeys(":secret")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.JWTSecret = "s"
		return c
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		errs   int
	}{
		{"unknown storage", func(c *Config) { c.Storage = "redis" }, 1},
		{"mongo without uri", func(c *Config) { c.Storage = StorageMongo }, 1},
		{"no jwt secret", func(c *Config) { c.JWTSecret = "" }, 1},
		{"active kid missing", func(c *Config) { c.JWTKeys = map[string]string{"k1": "s"}; c.JWTActiveKid = "k2" }, 1},
		{"half tls", func(c *Config) { c.TLSCert = "cert.pem" }, 1},
		{"require tls", func(c *Config) { c.RequireTLS = true }, 1},
		{"everything", func(c *Config) {
			c.Storage = StorageMongo
			c.JWTSecret = ""
			c.RequireTLS = true
			c.RateLimitRPM = 0
		}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Len(t, multierr.Errors(err), tt.errs)
		})
	}
}
