package ai

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"lingovibe/backend/internal/model"
)

const (
	defaultAnthropicModel = "claude-sonnet-4-5"
	anthropicMaxTokens    = 2048
)

// AnthropicProvider implements Provider for Anthropic API.
// Anthropic has no image or speech endpoints.
type AnthropicProvider struct {
	client         anthropic.Client
	model          string
	thinking       bool
	thinkingBudget int
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(cfg Config) (*AnthropicProvider, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	return &AnthropicProvider{
		client:         anthropic.NewClient(opts...),
		model:          cfg.Model,
		thinking:       cfg.Thinking,
		thinkingBudget: cfg.ThinkingBudget,
	}, nil
}

// Name returns the provider name.
func (p *AnthropicProvider) Name() string {
	return ProviderAnthropic
}

// applyThinking sets MaxTokens and the thinking block; base is the
// budget for visible output.
func (p *AnthropicProvider) applyThinking(params *anthropic.MessageNewParams, base int64) {
	if p.thinking && p.thinkingBudget > 0 {
		params.MaxTokens = int64(p.thinkingBudget) + base
		params.Thinking = anthropic.ThinkingConfigParamOfEnabled(int64(p.thinkingBudget))
		return
	}
	params.MaxTokens = base
	// Explicitly disable thinking (API defaults to enabled for some models)
	disabled := anthropic.NewThinkingConfigDisabledParam()
	params.Thinking = anthropic.ThinkingConfigParamUnion{
		OfDisabled: &disabled,
	}
}

func (p *AnthropicProvider) send(ctx context.Context, params anthropic.MessageNewParams) (string, error) {
	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	// Extract text content from response (skip thinking blocks)
	var sb strings.Builder
	for _, block := range resp.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			sb.WriteString(v.Text)
		}
	}
	return sb.String(), nil
}

// Test sends a test message and returns the response.
func (p *AnthropicProvider) Test(ctx context.Context) (string, error) {
	params := anthropic.MessageNewParams{
		Model: anthropic.Model(p.model),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("Hello world")),
		},
	}
	p.applyThinking(&params, 50)
	return p.send(ctx, params)
}

// Complete generates a text reply.
func (p *AnthropicProvider) Complete(ctx context.Context, systemPrompt string, history []model.ChatMessage, content string) (string, error) {
	messages := make([]anthropic.MessageParam, 0, len(history)+1)
	for _, msg := range history {
		block := anthropic.NewTextBlock(msg.Text)
		if msg.Role == model.RoleModel {
			messages = append(messages, anthropic.NewAssistantMessage(block))
		} else {
			messages = append(messages, anthropic.NewUserMessage(block))
		}
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(content)))

	params := anthropic.MessageNewParams{
		Model:    anthropic.Model(p.model),
		Messages: messages,
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}
	p.applyThinking(&params, anthropicMaxTokens)
	return p.send(ctx, params)
}

// CompleteJSON embeds the schema in the system prompt.
func (p *AnthropicProvider) CompleteJSON(ctx context.Context, systemPrompt, content string, schema *Schema) (string, error) {
	return p.Complete(ctx, GetJSONInstruction(systemPrompt, schema), nil, content)
}

func (p *AnthropicProvider) GenerateImage(context.Context, string) (*Media, error) {
	return nil, ErrUnsupported
}

func (p *AnthropicProvider) Synthesize(context.Context, string) (*Media, error) {
	return nil, ErrUnsupported
}
