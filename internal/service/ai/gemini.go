package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"lingovibe/backend/internal/model"
)

const (
	defaultGeminiModel       = "gemini-3-flash-preview"
	defaultGeminiImageModel  = "gemini-2.5-flash-image"
	defaultGeminiSpeechModel = "gemini-2.5-flash-preview-tts"
	defaultGeminiVoice       = "Kore"
)

// GeminiProvider implements Provider for the Gemini API.
type GeminiProvider struct {
	client         *genai.Client
	model          string
	imageModel     string
	speechModel    string
	voice          string
	thinking       bool
	thinkingBudget int
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(cfg Config) (*GeminiProvider, error) {
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(context.Background(), cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiProvider{
		client:         client,
		model:          cfg.Model,
		imageModel:     orDefault(cfg.ImageModel, defaultGeminiImageModel),
		speechModel:    orDefault(cfg.SpeechModel, defaultGeminiSpeechModel),
		voice:          orDefault(cfg.Voice, defaultGeminiVoice),
		thinking:       cfg.Thinking,
		thinkingBudget: cfg.ThinkingBudget,
	}, nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return ProviderGemini
}

// Test sends a test message and returns the response.
func (p *GeminiProvider) Test(ctx context.Context) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model,
		genai.Text("Hello world"),
		&genai.GenerateContentConfig{
			ThinkingConfig:  p.thinkingConfig(),
			MaxOutputTokens: 50,
		})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// thinkingConfig disables thinking unless a budget is configured; lookups
// are latency sensitive.
func (p *GeminiProvider) thinkingConfig() *genai.ThinkingConfig {
	budget := int32(0)
	if p.thinking && p.thinkingBudget > 0 {
		budget = int32(p.thinkingBudget)
	}
	return &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(budget)}
}

func (p *GeminiProvider) textConfig(systemPrompt string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{ThinkingConfig: p.thinkingConfig()}
	if systemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	return cfg
}

// Complete generates a text reply.
func (p *GeminiProvider) Complete(ctx context.Context, systemPrompt string, history []model.ChatMessage, content string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		role := genai.Role(genai.RoleUser)
		if msg.Role == model.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(content, genai.RoleUser))

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, p.textConfig(systemPrompt))
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// CompleteJSON generates a reply constrained to schema.
func (p *GeminiProvider) CompleteJSON(ctx context.Context, systemPrompt, content string, schema *Schema) (string, error) {
	cfg := p.textConfig(systemPrompt)
	cfg.ResponseMIMEType = "application/json"
	cfg.ResponseSchema = schema.Gemini()

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(content), cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// GenerateImage returns the first inline image of the response.
func (p *GeminiProvider) GenerateImage(ctx context.Context, prompt string) (*Media, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.imageModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{AspectRatio: "1:1"},
	})
	if err != nil {
		return nil, err
	}
	return firstInlineData(resp), nil
}

// Synthesize returns 24 kHz mono L16 speech.
func (p *GeminiProvider) Synthesize(ctx context.Context, text string) (*Media, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.speechModel, genai.Text(text), &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: p.voice},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	return firstInlineData(resp), nil
}

func firstInlineData(resp *genai.GenerateContentResponse) *Media {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return &Media{MIMEType: part.InlineData.MIMEType, Data: part.InlineData.Data}
		}
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
