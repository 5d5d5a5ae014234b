package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home-command/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
llm:
  anthropic:
    api_key: test-key
processor:
  address: 192.168.1.10:4001
  auth_key: proc-key
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.LLM.Anthropic.Model)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_PROC_KEY", "expanded-key")
	path := writeConfig(t, `
processor:
  address: localhost:4001
  auth_key: ${TEST_PROC_KEY}
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "expanded-key", cfg.Processor.AuthKey)
}

func TestValidate_MissingLLMKey(t *testing.T) {
	path := writeConfig(t, `
processor:
  address: localhost:4001
  auth_key: k
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}

func TestValidate_MissingProcessorAuth(t *testing.T) {
	path := writeConfig(t, `
llm:
  provider: gemini
  gemini:
    api_key: g-key
processor:
  address: localhost:4001
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth_key")
}

func TestValidate_UnknownProvider(t *testing.T) {
	path := writeConfig(t, `
llm:
  provider: bard
processor:
  address: localhost:4001
  auth_key: k
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Error(t, cfg.Validate())
}
