package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.False(t, cfg.Callback.Enabled)
	assert.Equal(t, "interactsh", cfg.Callback.Provider)
	assert.Equal(t, 8881, cfg.Callback.HTTPPort)
	assert.Equal(t, 5, cfg.Callback.PollIntervalSeconds)
	assert.Equal(t, 60, cfg.Callback.TimeoutSeconds)
	assert.Equal(t, 5, cfg.Concurrency)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Empty(t, cfg.Generator.DefinitionsFile)
	assert.Empty(t, cfg.Output.JSONFile)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
callback:
  enabled: true
  provider: tcs
  address: cb.example.com
  http_port: 9999
  polling_uri: http://poll.example.com
  timeout_seconds: 120
generator:
  definitions_file: /etc/payloadgen/payloads.yaml
output:
  json_file: session.json
  verbose: true
concurrency: 10
user_agent: custom-agent/2.0
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Callback.Enabled)
	assert.Equal(t, "tcs", cfg.Callback.Provider)
	assert.Equal(t, "cb.example.com", cfg.Callback.Address)
	assert.Equal(t, 9999, cfg.Callback.HTTPPort)
	assert.Equal(t, "http://poll.example.com", cfg.Callback.PollingURI)
	assert.Equal(t, 120, cfg.Callback.TimeoutSeconds)
	assert.Equal(t, 5, cfg.Callback.PollIntervalSeconds)
	assert.Equal(t, "/etc/payloadgen/payloads.yaml", cfg.Generator.DefinitionsFile)
	assert.Equal(t, "session.json", cfg.Output.JSONFile)
	assert.True(t, cfg.Output.Verbose)
	assert.Equal(t, 10, cfg.Concurrency)
	assert.Equal(t, "custom-agent/2.0", cfg.UserAgent)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("callback: [not a mapping"), 0644))

	cfg, err := LoadConfig(path)
	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, "parsing")
}
