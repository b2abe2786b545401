package llm

import (
	"context"
	"fmt"
	"strings"

	"nutrition_tracker/src/model"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/ollama/ollama/api"
)

const defaultOllamaURL = "http://localhost:11434"

// NewChatModel builds the chat model for the configured provider. The
// credential is checked before any client is constructed.
func NewChatModel(ctx context.Context, cfg model.LLMConfig) (einomodel.BaseChatModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	apiKey, _ := cfg.Credential()
	temperature := float32(cfg.Temperature)
	maxTokens := cfg.MaxTokens

	var (
		cm  einomodel.BaseChatModel
		err error
	)
	switch strings.ToLower(cfg.Provider) {
	case model.ProviderOpenAI:
		cm, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      apiKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   optional(maxTokens),
			Temperature: &temperature,
			Timeout:     cfg.Timeout,
		})
	case model.ProviderDeepSeek:
		cm, err = deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:      apiKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   maxTokens,
			Temperature: temperature,
			Timeout:     cfg.Timeout,
		})
	case model.ProviderArk:
		cm, err = ark.NewChatModel(ctx, &ark.ChatModelConfig{
			APIKey:      apiKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   optional(maxTokens),
			Temperature: &temperature,
		})
	case model.ProviderOllama:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = defaultOllamaURL
		}
		cm, err = ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: baseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
			Options: &api.Options{
				Temperature: temperature,
				NumPredict:  maxTokens,
			},
		})
	default:
		// Gemini speaks the OpenAI chat completions protocol
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = model.GeminiOpenAIBaseURL
		}
		cm, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      apiKey,
			BaseURL:     baseURL,
			Model:       cfg.Model,
			MaxTokens:   optional(maxTokens),
			Temperature: &temperature,
			Timeout:     cfg.Timeout,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("error creating %s chat model: %w", cfg.Provider, err)
	}
	return cm, nil
}

func optional(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}
