package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"lingovibe/backend/internal/logger"
	"lingovibe/backend/internal/model"
	"lingovibe/backend/internal/network"
	"lingovibe/backend/internal/service/ai"
)

// Gateway is the single entry point for generative calls.
type Gateway interface {
	// Define returns a structured dictionary entry for query.
	Define(ctx context.Context, query, nativeLang, targetLang string) (*model.Definition, error)
	// Illustrate returns a data URL for an image of term, or "" when the
	// provider produced none.
	Illustrate(ctx context.Context, term, targetLang string) (string, error)
	// Synthesize returns 24 kHz mono L16 PCM for text, or nil.
	Synthesize(ctx context.Context, text string) ([]byte, error)
	// Converse replies to userText in the tutor chat about targetWord.
	Converse(ctx context.Context, history []model.ChatMessage, targetWord, nativeLang, targetLang, userText string) (string, error)
	// Narrate writes a short story that uses words.
	Narrate(ctx context.Context, words []string, nativeLang, targetLang string) (string, error)
}

// ProviderFactory builds a provider for one call.
type ProviderFactory func(cfg ai.Config) (ai.Provider, error)

// GatewayOption customizes a gateway.
type GatewayOption func(*gateway)

// WithProviderFactory replaces ai.NewProvider.
func WithProviderFactory(f ProviderFactory) GatewayOption {
	return func(g *gateway) { g.newProvider = f }
}

type gateway struct {
	settings    SettingsService
	clients     *network.ClientFactory
	rateLimiter *ai.RateLimiter
	timeout     time.Duration
	newProvider ProviderFactory
}

// NewGateway creates a gateway. Configuration is resolved from settings on
// every call; timeout bounds each call and zero disables it.
func NewGateway(settings SettingsService, clients *network.ClientFactory, rateLimiter *ai.RateLimiter, timeout time.Duration, opts ...GatewayOption) Gateway {
	g := &gateway{
		settings:    settings,
		clients:     clients,
		rateLimiter: rateLimiter,
		timeout:     timeout,
		newProvider: ai.NewProvider,
	}
	if g.clients == nil {
		g.clients = network.NewClientFactory(settings)
	}
	if g.rateLimiter == nil {
		g.rateLimiter = ai.NewRateLimiter(ai.DefaultRateLimit)
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// begin resolves the provider and waits for a rate limit token. The
// returned context carries the call timeout.
func (g *gateway) begin(ctx context.Context, op string) (ai.Provider, context.Context, context.CancelFunc, error) {
	cfg, err := g.settings.ResolveAIConfig(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg.HTTPClient = g.clients.NewHTTPClient(ctx, 0)

	provider, err := g.newProvider(cfg)
	if err != nil {
		logger.Warn("ai provider create failed", "module", "service", "action", op, "resource", "ai", "result", "failed", "provider", cfg.Provider, "model", cfg.Model, "error", err)
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrNotConfigured, err)
	}

	callCtx, cancel := ctx, context.CancelFunc(func() {})
	if g.timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
	}
	if err := g.rateLimiter.Wait(callCtx, op); err != nil {
		cancel()
		logger.Warn("ai rate limit wait failed", "module", "service", "action", op, "resource", "ai", "result", "failed", "error", err)
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return provider, callCtx, cancel, nil
}

func transportError(op string, provider ai.Provider, start time.Time, err error) error {
	logger.Warn("ai request failed", "module", "service", "action", op, "resource", "ai", "result", "failed", "provider", provider.Name(), "duration_ms", time.Since(start).Milliseconds(), "error", err)
	return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
}

func (g *gateway) Define(ctx context.Context, query, nativeLang, targetLang string) (*model.Definition, error) {
	provider, ctx, cancel, err := g.begin(ctx, "define")
	if err != nil {
		return nil, err
	}
	defer cancel()

	native, target := model.LanguageName(nativeLang), model.LanguageName(targetLang)
	start := time.Now()
	raw, err := provider.CompleteJSON(ctx,
		ai.GetDefinePrompt(native, target),
		ai.GetDefineContent(query, native, target),
		ai.DefinitionSchema)
	if err != nil {
		return nil, transportError("define", provider, start, err)
	}

	def, err := ai.ParseDefinition(raw)
	if err != nil {
		logger.Warn("ai define parse failed", "module", "service", "action", "define", "resource", "ai", "result", "failed", "provider", provider.Name(), "error", err)
		return nil, err
	}
	logger.Info("ai define", "module", "service", "action", "define", "resource", "ai", "result", "ok", "provider", provider.Name(), "duration_ms", time.Since(start).Milliseconds())
	return def, nil
}

func (g *gateway) Illustrate(ctx context.Context, term, targetLang string) (string, error) {
	provider, ctx, cancel, err := g.begin(ctx, "illustrate")
	if err != nil {
		return "", err
	}
	defer cancel()

	start := time.Now()
	media, err := provider.GenerateImage(ctx, ai.GetIllustratePrompt(term, model.LanguageName(targetLang)))
	if errors.Is(err, ai.ErrUnsupported) {
		logger.Debug("ai illustrate unsupported", "module", "service", "action", "illustrate", "resource", "ai", "result", "ok", "provider", provider.Name())
		return "", nil
	}
	if err != nil {
		return "", transportError("illustrate", provider, start, err)
	}
	if media == nil || len(media.Data) == 0 {
		return "", nil
	}

	mime := media.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	logger.Info("ai illustrate", "module", "service", "action", "illustrate", "resource", "ai", "result", "ok", "provider", provider.Name(), "bytes", len(media.Data), "duration_ms", time.Since(start).Milliseconds())
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(media.Data), nil
}

func (g *gateway) Synthesize(ctx context.Context, text string) ([]byte, error) {
	provider, ctx, cancel, err := g.begin(ctx, "synthesize")
	if err != nil {
		return nil, err
	}
	defer cancel()

	start := time.Now()
	media, err := provider.Synthesize(ctx, text)
	if errors.Is(err, ai.ErrUnsupported) {
		return nil, nil
	}
	if err != nil {
		return nil, transportError("synthesize", provider, start, err)
	}
	if media == nil || len(media.Data) == 0 {
		return nil, nil
	}
	logger.Info("ai synthesize", "module", "service", "action", "synthesize", "resource", "ai", "result", "ok", "provider", provider.Name(), "bytes", len(media.Data), "duration_ms", time.Since(start).Milliseconds())
	return media.Data, nil
}

func (g *gateway) Converse(ctx context.Context, history []model.ChatMessage, targetWord, nativeLang, targetLang, userText string) (string, error) {
	provider, ctx, cancel, err := g.begin(ctx, "converse")
	if err != nil {
		return "", err
	}
	defer cancel()

	start := time.Now()
	prompt := ai.GetTutorPrompt(targetWord, model.LanguageName(nativeLang), model.LanguageName(targetLang))
	reply, err := provider.Complete(ctx, prompt, history, userText)
	if err != nil {
		return "", transportError("converse", provider, start, err)
	}
	logger.Info("ai converse", "module", "service", "action", "converse", "resource", "ai", "result", "ok", "provider", provider.Name(), "turns", len(history)+1, "duration_ms", time.Since(start).Milliseconds())
	return reply, nil
}

func (g *gateway) Narrate(ctx context.Context, words []string, nativeLang, targetLang string) (string, error) {
	provider, ctx, cancel, err := g.begin(ctx, "narrate")
	if err != nil {
		return "", err
	}
	defer cancel()

	start := time.Now()
	native, target := model.LanguageName(nativeLang), model.LanguageName(targetLang)
	story, err := provider.Complete(ctx, ai.GetStoryPrompt(), nil, ai.GetStoryContent(words, native, target))
	if err != nil {
		return "", transportError("narrate", provider, start, err)
	}
	logger.Info("ai narrate", "module", "service", "action", "narrate", "resource", "ai", "result", "ok", "provider", provider.Name(), "words", len(words), "duration_ms", time.Since(start).Milliseconds())
	return story, nil
}
