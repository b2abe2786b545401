package model

import (
	"errors"
	"testing"

	"nutrition_tracker/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LLMConfig
		wantKey string
	}{
		{"gemini with key", LLMConfig{Provider: ProviderGemini, Model: "gemini-2.5-flash", GeminiAPIKey: "k"}, ""},
		{"gemini missing key", LLMConfig{Provider: ProviderGemini, Model: "gemini-2.5-flash"}, "GEMINI_API_KEY"},
		{"openai missing key", LLMConfig{Provider: ProviderOpenAI, Model: "gpt-4o", GeminiAPIKey: "k"}, "OPENAI_API_KEY"},
		{"ollama needs no key", LLMConfig{Provider: ProviderOllama, Model: "llama3"}, ""},
		{"unknown provider", LLMConfig{Provider: "mystery", Model: "m"}, "LLM_PROVIDER"},
		{"empty model", LLMConfig{Provider: ProviderDeepSeek, DeepSeekAPIKey: "k"}, "LLM_MODEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantKey == "" {
				assert.NoError(t, err)
				return
			}
			var cerr *pkg.ConfigError
			require.True(t, errors.As(err, &cerr), "got %v", err)
			assert.Equal(t, tt.wantKey, cerr.Key)
		})
	}
}

func TestStorageConfigPaths(t *testing.T) {
	s := StorageConfig{DataDir: "data", ProfileFile: "p.json", MealLogFile: "/abs/meals.json"}
	assert.Equal(t, "data/p.json", s.ProfilePath())
	assert.Equal(t, "/abs/meals.json", s.MealLogPath())
}

func TestServerAddr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8080", ServerConfig{Host: "127.0.0.1", Port: 8080}.Addr())
}
