package service

import (
	"context"
	"fmt"
	"strconv"

	"lingovibe/backend/internal/config"
	"lingovibe/backend/internal/logger"
	"lingovibe/backend/internal/network"
	"lingovibe/backend/internal/repository"
	"lingovibe/backend/internal/service/ai"
)

// AISettings holds the AI configuration.
type AISettings struct {
	Provider        string `json:"provider"`
	APIKey          string `json:"apiKey"`
	BaseURL         string `json:"baseUrl"`
	Model           string `json:"model"`
	ImageModel      string `json:"imageModel"`
	SpeechModel     string `json:"speechModel"`
	Voice           string `json:"voice"`
	Thinking        bool   `json:"thinking"`
	ThinkingBudget  int    `json:"thinkingBudget"`
	ReasoningEffort string `json:"reasoningEffort"`
	RateLimit       int    `json:"rateLimit"`
	ProxyURL        string `json:"proxyUrl"`
}

// Setting keys
const (
	keyAIProvider        = "ai.provider"
	keyAIAPIKey          = "ai.api_key"
	keyAIBaseURL         = "ai.base_url"
	keyAIModel           = "ai.model"
	keyAIImageModel      = "ai.image_model"
	keyAISpeechModel     = "ai.speech_model"
	keyAIVoice           = "ai.voice"
	keyAIThinking        = "ai.thinking"
	keyAIThinkingBudget  = "ai.thinking_budget"
	keyAIReasoningEffort = "ai.reasoning_effort"
	keyAIRateLimit       = "ai.rate_limit"
	keyNetworkProxyURL   = "network.proxy_url"
)

// SettingsService provides settings management.
// It also implements network.ProxyProvider.
type SettingsService interface {
	// GetAISettings returns the effective AI configuration with masked API keys.
	GetAISettings(ctx context.Context) (*AISettings, error)
	// SetAISettings updates the AI configuration.
	// If apiKey is empty or masked, it keeps the existing key.
	SetAISettings(ctx context.Context, settings *AISettings) error
	// TestAI tests the AI connection with the given configuration.
	TestAI(ctx context.Context, settings *AISettings) (string, error)
	// ResolveAIConfig returns the unmasked provider configuration: stored
	// settings over the process configuration.
	ResolveAIConfig(ctx context.Context) (ai.Config, error)
	// GetProxyURL returns the proxy used for AI requests; empty means direct.
	GetProxyURL(ctx context.Context) string
}

type settingsService struct {
	repo        repository.SettingsRepository
	fallback    config.AIConfig
	rateLimiter *ai.RateLimiter
	clients     *network.ClientFactory
}

// NewSettingsService creates a new settings service. fallback supplies every
// value that has not been stored; rateLimiter may be nil.
func NewSettingsService(repo repository.SettingsRepository, fallback config.AIConfig, rateLimiter *ai.RateLimiter) SettingsService {
	s := &settingsService{repo: repo, fallback: fallback, rateLimiter: rateLimiter}
	s.clients = network.NewClientFactory(s)
	return s
}

func (s *settingsService) load(ctx context.Context) (map[string]string, error) {
	settings, err := s.repo.GetByPrefix(ctx, "ai.")
	if err != nil {
		return nil, fmt.Errorf("get AI settings: %w", err)
	}
	m := make(map[string]string, len(settings))
	for _, st := range settings {
		m[st.Key] = st.Value
	}
	return m, nil
}

// effective merges stored values over the fallback. Credentials and models
// from the fallback only apply while the stored provider matches it.
func (s *settingsService) effective(ctx context.Context) (*AISettings, error) {
	m, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	fb := s.fallback
	out := &AISettings{
		Provider:        fb.Provider,
		APIKey:          fb.APIKey,
		BaseURL:         fb.BaseURL,
		Model:           fb.Model,
		ImageModel:      fb.ImageModel,
		SpeechModel:     fb.SpeechModel,
		Voice:           fb.Voice,
		Thinking:        fb.Thinking,
		ThinkingBudget:  fb.ThinkingBudget,
		ReasoningEffort: fb.ReasoningEffort,
		RateLimit:       fb.RateLimit,
	}
	if out.Provider == "" {
		out.Provider = ai.ProviderGemini
	}

	if val := m[keyAIProvider]; val != "" && val != out.Provider {
		out = &AISettings{
			Provider:       val,
			Thinking:       out.Thinking,
			ThinkingBudget: out.ThinkingBudget,
			RateLimit:      out.RateLimit,
		}
	}
	overlay := func(key string, dst *string) {
		if val, ok := m[key]; ok && val != "" {
			*dst = val
		}
	}
	overlay(keyAIAPIKey, &out.APIKey)
	overlay(keyAIBaseURL, &out.BaseURL)
	overlay(keyAIModel, &out.Model)
	overlay(keyAIImageModel, &out.ImageModel)
	overlay(keyAISpeechModel, &out.SpeechModel)
	overlay(keyAIVoice, &out.Voice)
	// Allow empty string to override the fallback (for Compatible Budget mode)
	if val, ok := m[keyAIReasoningEffort]; ok {
		out.ReasoningEffort = val
	}
	if val, ok := m[keyAIThinking]; ok {
		out.Thinking = val == "true"
	}
	if val, err := strconv.Atoi(m[keyAIThinkingBudget]); err == nil && val >= 0 {
		out.ThinkingBudget = val
	}
	if val, err := strconv.Atoi(m[keyAIRateLimit]); err == nil && val > 0 {
		out.RateLimit = val
	}
	out.ProxyURL = s.GetProxyURL(ctx)
	return out, nil
}

// GetAISettings returns the AI configuration with masked API keys.
func (s *settingsService) GetAISettings(ctx context.Context) (*AISettings, error) {
	settings, err := s.effective(ctx)
	if err != nil {
		return nil, err
	}
	settings.APIKey = maskAPIKey(settings.APIKey)
	return settings, nil
}

// SetAISettings updates the AI configuration.
func (s *settingsService) SetAISettings(ctx context.Context, settings *AISettings) error {
	if settings.Provider != "" && !isKnownProvider(settings.Provider) {
		return fmt.Errorf("%w: unknown provider %q", ErrInvalid, settings.Provider)
	}
	if settings.ThinkingBudget < 0 || settings.RateLimit < 0 {
		return fmt.Errorf("%w: negative limit", ErrInvalid)
	}

	if settings.Provider != "" {
		if err := s.repo.Set(ctx, keyAIProvider, settings.Provider); err != nil {
			return fmt.Errorf("set provider: %w", err)
		}
	}
	if err := s.setAPIKey(ctx, keyAIAPIKey, settings.APIKey); err != nil {
		return fmt.Errorf("set api key: %w", err)
	}

	values := []struct {
		key, value string
	}{
		{keyAIBaseURL, settings.BaseURL},
		{keyAIModel, settings.Model},
		{keyAIImageModel, settings.ImageModel},
		{keyAISpeechModel, settings.SpeechModel},
		{keyAIVoice, settings.Voice},
		{keyAIThinking, strconv.FormatBool(settings.Thinking)},
		{keyAIThinkingBudget, strconv.Itoa(settings.ThinkingBudget)},
		{keyAIReasoningEffort, settings.ReasoningEffort},
		{keyAIRateLimit, strconv.Itoa(settings.RateLimit)},
		{keyNetworkProxyURL, settings.ProxyURL},
	}
	for _, v := range values {
		if err := s.repo.Set(ctx, v.key, v.value); err != nil {
			return fmt.Errorf("set %s: %w", v.key, err)
		}
	}

	if s.rateLimiter != nil && settings.RateLimit > 0 {
		s.rateLimiter.SetLimit(settings.RateLimit)
	}
	logger.Info("ai settings updated", "module", "service", "action", "update", "resource", "settings", "result", "ok", "provider", settings.Provider, "model", settings.Model)
	return nil
}

// maskAPIKey returns a masked version of the API key for display.
func maskAPIKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) <= 8 {
		return "***"
	}
	// Find prefix (e.g., "sk-" for OpenAI)
	prefixEnd := 0
	for i, c := range apiKey {
		if c == '-' {
			prefixEnd = i + 1
			break
		}
		if i >= 4 {
			break
		}
	}
	prefix := apiKey[:prefixEnd]
	suffix := apiKey[len(apiKey)-3:]
	return prefix + "***" + suffix
}

// isMaskedKey checks if a string looks like a masked API key.
func isMaskedKey(key string) bool {
	if len(key) == 0 || len(key) >= 20 {
		return false
	}
	for i := 0; i <= len(key)-3; i++ {
		if key[i:i+3] == "***" {
			return true
		}
	}
	return false
}

func isKnownProvider(p string) bool {
	switch p {
	case ai.ProviderGemini, ai.ProviderOpenAI, ai.ProviderAnthropic, ai.ProviderCompatible:
		return true
	}
	return false
}

func toProviderConfig(s *AISettings) ai.Config {
	return ai.Config{
		Provider:        s.Provider,
		APIKey:          s.APIKey,
		BaseURL:         s.BaseURL,
		Model:           s.Model,
		ImageModel:      s.ImageModel,
		SpeechModel:     s.SpeechModel,
		Voice:           s.Voice,
		Thinking:        s.Thinking,
		ThinkingBudget:  s.ThinkingBudget,
		ReasoningEffort: s.ReasoningEffort,
	}
}

// TestAI tests the AI connection with the given configuration.
func (s *settingsService) TestAI(ctx context.Context, settings *AISettings) (string, error) {
	cfg := toProviderConfig(settings)
	// If apiKey looks like a masked key, use the effective stored key
	if cfg.APIKey == "" || isMaskedKey(cfg.APIKey) {
		current, err := s.effective(ctx)
		if err != nil {
			return "", err
		}
		cfg.APIKey = current.APIKey
	}
	cfg.HTTPClient = s.clients.NewHTTPClient(ctx, s.fallback.RequestTimeout)

	p, err := ai.NewProvider(cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotConfigured, err)
	}
	reply, err := p.Test(ctx)
	if err != nil {
		logger.Warn("ai test failed", "module", "service", "action", "test", "resource", "ai", "result", "failed", "provider", cfg.Provider, "model", cfg.Model, "error", err)
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return reply, nil
}

func (s *settingsService) ResolveAIConfig(ctx context.Context) (ai.Config, error) {
	settings, err := s.effective(ctx)
	if err != nil {
		return ai.Config{}, err
	}
	return toProviderConfig(settings), nil
}

func (s *settingsService) GetProxyURL(ctx context.Context) string {
	setting, err := s.repo.Get(ctx, keyNetworkProxyURL)
	if err != nil {
		logger.Warn("proxy setting lookup failed", "module", "service", "action", "fetch", "resource", "settings", "result", "failed", "error", err)
	} else if setting != nil && setting.Value != "" {
		return setting.Value
	}
	return s.fallback.ProxyURL
}

// setAPIKey sets an API key.
// If the value is empty or looks like a masked key, it keeps the existing key.
func (s *settingsService) setAPIKey(ctx context.Context, key, value string) error {
	if value == "" || isMaskedKey(value) {
		return nil
	}
	return s.repo.Set(ctx, key, value)
}
