package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
completion:
  base_url: https://api.groq.com/openai/v1
  token: gsk_test
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "llama-3.3-70b-versatile", cfg.Completion.Model)
	assert.InDelta(t, 0.7, cfg.Completion.Temperature, 0.0001)
	assert.Equal(t, 30*time.Second, cfg.Completion.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, "en", cfg.Chat.DefaultLanguage)
	assert.Equal(t, "data/innervoice.db", cfg.Storage.Path)
	assert.Equal(t, "general", cfg.Speech.Model)
	assert.Empty(t, cfg.Speech.KeyFile)
}

func TestLoadMissingTokenIsConfigurationError(t *testing.T) {
	t.Setenv(envCompletionToken, "")
	path := writeConfig(t, `
completion:
  base_url: https://api.groq.com/openai/v1
`)

	_, err := Load(path)
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "Config.Completion.Token", cfgErr.Field)
}

func TestLoadMissingFileStillRequiresEndpoint(t *testing.T) {
	t.Setenv(envCompletionToken, "")
	t.Setenv(envCompletionBaseURL, "")

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "Config.Completion.BaseURL", cfgErr.Field)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(envCompletionToken, "gsk_from_env")
	t.Setenv(envCompletionBaseURL, "https://example.com/v1")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "gsk_from_env", cfg.Completion.Token)
	assert.Equal(t, "https://example.com/v1", cfg.Completion.BaseURL)
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	path := writeConfig(t, "completion: [")

	_, err := Load(path)
	require.Error(t, err)

	var cfgErr *ConfigurationError
	assert.False(t, errors.As(err, &cfgErr))
}
