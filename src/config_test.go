package src

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("TRACKER_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := LoadConfig(DefaultConfigPath)
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.StorageConfig.MealLogFile, cfg.StorageConfig.MealLogFile)
	assert.Equal(t, def.ServerConfig.Port, cfg.ServerConfig.Port)
}

func TestLoadConfig_YAMLThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
llm:
  model: gpt-4o-mini
  temperature: 0.1
storage:
  data_dir: /var/lib/tracker
conversation:
  ttl: 2h
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("TRACKER_CONFIG", path)
	t.Setenv("LLM_TEMPERATURE", "0.7")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := LoadConfig(DefaultConfigPath)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.LLMConfig.Model)
	assert.InDelta(t, 0.7, cfg.LLMConfig.Temperature, 1e-9)
	assert.Equal(t, 9090, cfg.ServerConfig.Port)
	assert.Equal(t, 2*time.Hour, cfg.ConversationConfig.TTL)
	assert.Equal(t, filepath.Join("/var/lib/tracker", "meal_log.json"), cfg.StorageConfig.MealLogPath())
	// untouched by either layer
	assert.Equal(t, "user_profile.json", cfg.StorageConfig.ProfileFile)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [unclosed"), 0o644))
	t.Setenv("TRACKER_CONFIG", path)

	_, err := LoadConfig(DefaultConfigPath)
	assert.Error(t, err)
}
