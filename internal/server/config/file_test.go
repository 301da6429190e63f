package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func Test_parseFile(t *testing.T) {
	t.Run("loads from json", func(t *testing.T) {
		path := writeTempFile(t, "cfg.json", `{
			"endpoint_addr_http": "www.example:9000",
			"database_dsn": "postgres://x",
			"redis_addr": "redis:6379",
			"access_token_validity_duration": "15m",
			"min_password_length": 12,
			"password_hash_algorithm": "argon2id",
			"bcrypt_cost": 11,
			"cors_allowed_origins": ["https://app.example"],
			"log_level": "debug",
			"trust_proxy_headers": true
		}`)

		cfg := &Config{}
		require.NoError(t, parseFile(cfg, []string{"-config", path}))

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://x", cfg.DatabaseDSN)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 12, cfg.MinPasswordLength)
		assert.Equal(t, "argon2id", cfg.PasswordHashAlgorithm)
		assert.Equal(t, 11, cfg.BcryptCost)
		assert.Equal(t, []string{"https://app.example"}, cfg.CORSAllowedOrigins)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.True(t, cfg.TrustProxyHeaders)
	})

	t.Run("loads from yaml", func(t *testing.T) {
		path := writeTempFile(t, "cfg.yaml", `
endpoint_addr_http: ":9999"
database_dsn: ""
access_token_validity_duration: 2h
cors_allowed_origins:
  - http://one
  - http://two
`)

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseFile(cfg, []string{"-c", path}))

		assert.Equal(t, ":9999", cfg.EndpointAddrHTTP)
		assert.Empty(t, cfg.DatabaseDSN, "explicit empty value overrides the default")
		assert.Equal(t, 2*time.Hour, cfg.AccessTokenValidityDuration)
		assert.Equal(t, []string{"http://one", "http://two"}, cfg.CORSAllowedOrigins)
		assert.Equal(t, "bcrypt", cfg.PasswordHashAlgorithm, "absent keys keep current values")
	})

	t.Run("integer nanoseconds duration", func(t *testing.T) {
		path := writeTempFile(t, "cfg.json", `{"access_token_validity_duration": 60000000000}`)

		cfg := &Config{}
		require.NoError(t, parseFile(cfg, []string{"-c", path}))
		assert.Equal(t, time.Minute, cfg.AccessTokenValidityDuration)
	})

	t.Run("no flag, no changes", func(t *testing.T) {
		cfg := &Config{EndpointAddrHTTP: "defaults:1234", BcryptCost: 7}
		require.NoError(t, parseFile(cfg, []string{"-a", "ignored"}))

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, 7, cfg.BcryptCost)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := writeTempFile(t, "bad.json", `{ this is not valid json`)
		assert.Error(t, parseFile(&Config{}, []string{"-c", path}))
	})

	t.Run("invalid yaml duration", func(t *testing.T) {
		path := writeTempFile(t, "bad.yml", "access_token_validity_duration: soon\n")
		assert.Error(t, parseFile(&Config{}, []string{"-c", path}))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, parseFile(&Config{}, []string{"-c", filepath.Join(t.TempDir(), "nope.json")}))
	})
}
