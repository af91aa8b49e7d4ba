package ai

import (
	"context"
	"errors"
	"net/http"

	"lingovibe/backend/internal/model"
)

// Provider defines the interface for AI providers.
type Provider interface {
	// Name returns the provider name.
	Name() string
	// Test sends a test message and returns the response.
	Test(ctx context.Context) (string, error)
	// Complete generates a text reply. history holds prior turns, oldest first.
	Complete(ctx context.Context, systemPrompt string, history []model.ChatMessage, content string) (string, error)
	// CompleteJSON generates a reply constrained to schema and returns the raw JSON text.
	CompleteJSON(ctx context.Context, systemPrompt, content string, schema *Schema) (string, error)
	// GenerateImage returns one image for prompt, or nil when the response carries none.
	GenerateImage(ctx context.Context, prompt string) (*Media, error)
	// Synthesize returns L16 PCM speech for text, or nil when the response carries none.
	Synthesize(ctx context.Context, text string) (*Media, error)
}

// Media is a binary payload returned by a provider.
type Media struct {
	MIMEType string
	Data     []byte
}

// Config holds the configuration for an AI provider.
type Config struct {
	Provider        string // gemini, openai, anthropic, compatible
	APIKey          string
	BaseURL         string // optional for gemini/openai/anthropic, required for compatible
	Model           string
	ImageModel      string // optional, provider default when empty
	SpeechModel     string // optional, provider default when empty
	Voice           string // optional, provider default when empty
	Thinking        bool   // enable thinking/reasoning
	ThinkingBudget  int    // Gemini/Anthropic/Compatible budget tokens
	ReasoningEffort string // OpenAI/Compatible effort: low/medium/high/minimal/none
	HTTPClient      *http.Client
}

// ProviderType constants
const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderCompatible = "compatible"
)

var (
	ErrInvalidProvider = errors.New("invalid provider")
	ErrMissingAPIKey   = errors.New("API key is required")
	ErrMissingBaseURL  = errors.New("base URL is required for compatible provider")
	ErrMissingModel    = errors.New("model is required")
	// ErrUnsupported is returned for capabilities a provider does not offer.
	ErrUnsupported = errors.New("operation not supported by provider")
)

// DefaultModel returns the text model used when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderGemini:
		return defaultGeminiModel
	case ProviderOpenAI:
		return defaultOpenAIModel
	case ProviderAnthropic:
		return defaultAnthropicModel
	default:
		return ""
	}
}

// NewProvider creates a new AI provider based on the config.
func NewProvider(cfg Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}
	if cfg.Model == "" {
		return nil, ErrMissingModel
	}

	switch cfg.Provider {
	case ProviderGemini:
		return NewGeminiProvider(cfg)
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg)
	case ProviderAnthropic:
		return NewAnthropicProvider(cfg)
	case ProviderCompatible:
		if cfg.BaseURL == "" {
			return nil, ErrMissingBaseURL
		}
		return NewCompatibleProvider(cfg)
	default:
		return nil, ErrInvalidProvider
	}
}
