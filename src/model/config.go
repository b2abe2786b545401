package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"nutrition_tracker/pkg"
)

// ----------------------------------------------------
// ================ Logging ================
// LogConfig controls the zerolog setup
type LogConfig struct {
	Level      string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format     string `yaml:"format" envconfig:"LOG_FORMAT"` // console or json
	Output     string `yaml:"output" envconfig:"LOG_OUTPUT"` // stdout, stderr or file
	FilePath   string `yaml:"file_path" envconfig:"LOG_FILE_PATH"`
	TimeFormat string `yaml:"time_format" envconfig:"LOG_TIME_FORMAT"`
}

// ----------------------------------------------------
// ================ LLM ================
// Supported chat model providers
const (
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderArk      = "ark"
	ProviderOllama   = "ollama"
)

// GeminiOpenAIBaseURL is Gemini's OpenAI-compatible endpoint
const GeminiOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// LLMConfig selects and tunes the chat model. Credentials only come from the environment.
type LLMConfig struct {
	Provider    string        `yaml:"provider" envconfig:"LLM_PROVIDER"`
	Model       string        `yaml:"model" envconfig:"LLM_MODEL"`
	BaseURL     string        `yaml:"base_url" envconfig:"LLM_BASE_URL"`
	Temperature float64       `yaml:"temperature" envconfig:"LLM_TEMPERATURE"`
	MaxTokens   int           `yaml:"max_tokens" envconfig:"LLM_MAX_TOKENS"`
	Timeout     time.Duration `yaml:"timeout" envconfig:"LLM_TIMEOUT"` // 0 = no timeout

	GeminiAPIKey   string `yaml:"-" envconfig:"GEMINI_API_KEY"`
	OpenAIAPIKey   string `yaml:"-" envconfig:"OPENAI_API_KEY"`
	DeepSeekAPIKey string `yaml:"-" envconfig:"DEEPSEEK_API_KEY"`
	ArkAPIKey      string `yaml:"-" envconfig:"ARK_API_KEY"`
}

// Credential returns the API key for the configured provider and the
// environment variable it is read from. Ollama has no credential.
func (c LLMConfig) Credential() (key, envVar string) {
	switch strings.ToLower(c.Provider) {
	case ProviderGemini, "":
		return c.GeminiAPIKey, "GEMINI_API_KEY"
	case ProviderOpenAI:
		return c.OpenAIAPIKey, "OPENAI_API_KEY"
	case ProviderDeepSeek:
		return c.DeepSeekAPIKey, "DEEPSEEK_API_KEY"
	case ProviderArk:
		return c.ArkAPIKey, "ARK_API_KEY"
	}
	return "", ""
}

// Validate fails fast on an unknown provider or a missing credential
func (c LLMConfig) Validate() error {
	switch strings.ToLower(c.Provider) {
	case ProviderGemini, ProviderOpenAI, ProviderDeepSeek, ProviderArk, ProviderOllama, "":
	default:
		return &pkg.ConfigError{Key: "LLM_PROVIDER", Reason: fmt.Sprintf("unsupported provider %q", c.Provider)}
	}
	if strings.EqualFold(c.Provider, ProviderOllama) {
		return nil
	}
	key, envVar := c.Credential()
	if strings.TrimSpace(key) == "" {
		return &pkg.ConfigError{
			Key:    envVar,
			Reason: "missing credential; set it in the environment or in a .env file",
		}
	}
	if strings.TrimSpace(c.Model) == "" {
		return &pkg.ConfigError{Key: "LLM_MODEL", Reason: "must not be empty"}
	}
	return nil
}

// ----------------------------------------------------
// ================ Storage ================
// StorageConfig locates the flat files. Relative file names resolve against DataDir.
type StorageConfig struct {
	DataDir        string `yaml:"data_dir" envconfig:"TRACKER_DATA_DIR"`
	ProfileFile    string `yaml:"profile_file" envconfig:"TRACKER_PROFILE_FILE"`
	MealLogFile    string `yaml:"meal_log_file" envconfig:"TRACKER_MEAL_LOG_FILE"`
	GlucoseLogFile string `yaml:"glucose_log_file" envconfig:"TRACKER_GLUCOSE_LOG_FILE"`
}

func (s StorageConfig) resolve(name string) string {
	if filepath.IsAbs(name) || s.DataDir == "" {
		return name
	}
	return filepath.Join(s.DataDir, name)
}

func (s StorageConfig) ProfilePath() string    { return s.resolve(s.ProfileFile) }
func (s StorageConfig) MealLogPath() string    { return s.resolve(s.MealLogFile) }
func (s StorageConfig) GlucoseLogPath() string { return s.resolve(s.GlucoseLogFile) }

// ----------------------------------------------------
// ================ Conversation ================
// ConversationConfig configures chat history. An empty RedisURL keeps history in memory.
type ConversationConfig struct {
	RedisURL string        `yaml:"redis_url" envconfig:"REDIS_URL"`
	TTL      time.Duration `yaml:"ttl" envconfig:"CONVERSATION_TTL"`
	MaxTurns int           `yaml:"max_turns" envconfig:"CONVERSATION_MAX_TURNS"`
}

// ----------------------------------------------------
// ================ Server ================
// ServerConfig is the MCP tool endpoint address
type ServerConfig struct {
	Host string `yaml:"host" envconfig:"SERVER_HOST"`
	Port int    `yaml:"port" envconfig:"SERVER_PORT"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
