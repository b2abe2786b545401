package src

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"nutrition_tracker/internal/config"
	"nutrition_tracker/src/model"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const DefaultConfigPath = "config.yaml"

type Config struct {
	LogConfig          model.LogConfig          `yaml:"log" envconfig:""`
	LLMConfig          model.LLMConfig          `yaml:"llm" envconfig:""`
	StorageConfig      model.StorageConfig      `yaml:"storage" envconfig:""`
	ConversationConfig model.ConversationConfig `yaml:"conversation" envconfig:""`
	ServerConfig       model.ServerConfig       `yaml:"server" envconfig:""`
}

// DefaultConfig is used for anything neither config.yaml nor the environment sets
func DefaultConfig() Config {
	return Config{
		LogConfig: model.LogConfig{
			Level:      "info",
			Format:     "console",
			Output:     "stderr",
			FilePath:   "logs/tracker.log",
			TimeFormat: "rfc3339",
		},
		LLMConfig: model.LLMConfig{
			Provider:    model.ProviderGemini,
			Model:       "gemini-2.5-flash",
			Temperature: 0.3,
			MaxTokens:   1024,
		},
		StorageConfig: model.StorageConfig{
			DataDir:        ".",
			ProfileFile:    "user_profile.json",
			MealLogFile:    "meal_log.json",
			GlucoseLogFile: "blood_sugar_log.json",
		},
		ConversationConfig: model.ConversationConfig{
			TTL:      24 * time.Hour,
			MaxTurns: 20,
		},
		ServerConfig: model.ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
	}
}

// LoadConfig layers defaults, the optional YAML file and the environment, in
// that order. A .env file in the working directory is loaded first if present.
// TRACKER_CONFIG overrides path.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}
	if p := os.Getenv("TRACKER_CONFIG"); p != "" {
		path = p
	}

	cfg := DefaultConfig()
	if _, err := config.LoadYAML(path, &cfg); err != nil {
		return nil, err
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}
	return &cfg, nil
}
