package ai

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"lingovibe/backend/internal/model"
)

// CompatibleProvider implements Provider for OpenAI-compatible APIs
// such as OpenRouter or Ollama. Only text operations are offered; image
// and speech endpoints vary too much between vendors.
type CompatibleProvider struct {
	client          openai.Client
	model           string
	thinking        bool
	thinkingBudget  int
	reasoningEffort string
}

// NewCompatibleProvider creates a new OpenAI-compatible provider.
func NewCompatibleProvider(cfg Config) (*CompatibleProvider, error) {
	return &CompatibleProvider{
		client:          openai.NewClient(openAIOptions(cfg)...),
		model:           cfg.Model,
		thinking:        cfg.Thinking,
		thinkingBudget:  cfg.ThinkingBudget,
		reasoningEffort: cfg.ReasoningEffort,
	}, nil
}

// Name returns the provider name.
func (p *CompatibleProvider) Name() string {
	return ProviderCompatible
}

// reasoningOption builds the OpenRouter-style reasoning body field.
// ok is false when thinking is on but neither effort nor budget is set.
func (p *CompatibleProvider) reasoningOption() (opt option.RequestOption, ok bool) {
	if !p.thinking {
		return option.WithJSONSet("reasoning", map[string]any{"enabled": false}), true
	}
	reasoning := map[string]any{}
	if p.reasoningEffort != "" {
		reasoning["effort"] = p.reasoningEffort
	} else if p.thinkingBudget > 0 {
		reasoning["max_tokens"] = p.thinkingBudget
	}
	if len(reasoning) == 0 {
		return nil, false
	}
	return option.WithJSONSet("reasoning", reasoning), true
}

func (p *CompatibleProvider) send(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	var opts []option.RequestOption
	if opt, ok := p.reasoningOption(); ok {
		opts = append(opts, opt)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params, opts...)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// Test sends a test message and returns the response.
func (p *CompatibleProvider) Test(ctx context.Context) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage("Hello world"),
		},
	}
	if !p.thinking {
		params.MaxTokens = openai.Int(50)
	}
	return p.send(ctx, params)
}

// Complete generates a text reply.
func (p *CompatibleProvider) Complete(ctx context.Context, systemPrompt string, history []model.ChatMessage, content string) (string, error) {
	return p.send(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: chatMessages(systemPrompt, history, content),
	})
}

// CompleteJSON embeds the schema in the prompt; json_schema support is
// uneven across compatible vendors, so the reply is validated afterwards.
func (p *CompatibleProvider) CompleteJSON(ctx context.Context, systemPrompt, content string, schema *Schema) (string, error) {
	return p.send(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: chatMessages(GetJSONInstruction(systemPrompt, schema), nil, content),
	})
}

func (p *CompatibleProvider) GenerateImage(context.Context, string) (*Media, error) {
	return nil, ErrUnsupported
}

func (p *CompatibleProvider) Synthesize(context.Context, string) (*Media, error) {
	return nil, ErrUnsupported
}
