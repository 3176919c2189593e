package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":              "www.example:9000",
		"database_dsn":                    "postgres://localhost/chirpbook",
		"secret_key":                      "my_secret_key",
		"access_token_validity_duration":  "5m",
		"refresh_token_validity_duration": "720h",
		"facebook_app_id":                 "fb-app",
		"facebook_app_secret":             "fb-secret",
		"facebook_graph_url":              "https://graph.example.com",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://localhost/chirpbook", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 5*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 720*time.Hour, cfg.RefreshTokenValidityDuration)
		assert.Equal(t, "fb-app", cfg.FacebookAppID)
		assert.Equal(t, "fb-secret", cfg.FacebookAppSecret)
		assert.Equal(t, "https://graph.example.com", cfg.FacebookGraphURL)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddrHTTP:             "defaults:1234",
			DatabaseDSN:                  "postgres://defaults",
			SecretKey:                    "key",
			AccessTokenValidityDuration:  2 * time.Minute,
			RefreshTokenValidityDuration: 3 * time.Minute,
			FacebookAppID:                "id",
			FacebookAppSecret:            "secret",
			FacebookGraphURL:             "url",
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://defaults", cfg.DatabaseDSN)
		assert.Equal(t, "key", cfg.SecretKey)
		assert.Equal(t, 2*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 3*time.Minute, cfg.RefreshTokenValidityDuration)
		assert.Equal(t, "id", cfg.FacebookAppID)
		assert.Equal(t, "secret", cfg.FacebookAppSecret)
		assert.Equal(t, "url", cfg.FacebookGraphURL)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
