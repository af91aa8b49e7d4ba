package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"lingovibe/backend/internal/model"
)

const (
	defaultOpenAIModel       = "gpt-4o-mini"
	defaultOpenAIImageModel  = string(openai.ImageModelGPTImage1)
	defaultOpenAISpeechModel = string(openai.SpeechModelGPT4oMiniTTS)
	defaultOpenAIVoice       = string(openai.AudioSpeechNewParamsVoiceCoral)
)

// OpenAIProvider implements Provider for OpenAI API.
type OpenAIProvider struct {
	client          openai.Client
	model           string
	imageModel      string
	speechModel     string
	voice           string
	thinking        bool
	reasoningEffort string
}

func openAIOptions(cfg Config) []option.RequestOption {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	return opts
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg Config) (*OpenAIProvider, error) {
	return &OpenAIProvider{
		client:          openai.NewClient(openAIOptions(cfg)...),
		model:           cfg.Model,
		imageModel:      orDefault(cfg.ImageModel, defaultOpenAIImageModel),
		speechModel:     orDefault(cfg.SpeechModel, defaultOpenAISpeechModel),
		voice:           orDefault(cfg.Voice, defaultOpenAIVoice),
		thinking:        cfg.Thinking,
		reasoningEffort: cfg.ReasoningEffort,
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

// Test sends a test message and returns the response.
func (p *OpenAIProvider) Test(ctx context.Context) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage("Hello world"),
		},
	}

	if p.useReasoning() {
		params.ReasoningEffort = shared.ReasoningEffort(p.reasoningEffort)
	} else {
		params.MaxTokens = openai.Int(50)
	}

	return p.complete(ctx, params)
}

// isReasoningModel checks if the model supports reasoning_effort parameter.
// Supports: o1, o3, o4, gpt-5 series
func (p *OpenAIProvider) isReasoningModel() bool {
	m := strings.ToLower(p.model)
	return strings.HasPrefix(m, "o1") ||
		strings.HasPrefix(m, "o3") ||
		strings.HasPrefix(m, "o4") ||
		strings.HasPrefix(m, "gpt-5")
}

func (p *OpenAIProvider) useReasoning() bool {
	return p.thinking && p.isReasoningModel() && p.reasoningEffort != ""
}

func (p *OpenAIProvider) params(systemPrompt string, history []model.ChatMessage, content string) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: chatMessages(systemPrompt, history, content),
	}
	if p.useReasoning() {
		params.ReasoningEffort = shared.ReasoningEffort(p.reasoningEffort)
	}
	return params
}

func (p *OpenAIProvider) complete(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, params, opts...)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// Complete generates a text reply.
func (p *OpenAIProvider) Complete(ctx context.Context, systemPrompt string, history []model.ChatMessage, content string) (string, error) {
	return p.complete(ctx, p.params(systemPrompt, history, content))
}

// CompleteJSON uses strict json_schema structured output.
func (p *OpenAIProvider) CompleteJSON(ctx context.Context, systemPrompt, content string, schema *Schema) (string, error) {
	params := p.params(systemPrompt, nil, content)
	params.ResponseFormat = jsonSchemaFormat(schema)
	return p.complete(ctx, params)
}

// GenerateImage returns one square PNG.
func (p *OpenAIProvider) GenerateImage(ctx context.Context, prompt string) (*Media, error) {
	params := openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModel(p.imageModel),
		N:      openai.Int(1),
		Size:   openai.ImageGenerateParamsSize1024x1024,
	}
	// gpt-image models always return base64 and reject response_format.
	if !strings.HasPrefix(p.imageModel, "gpt-image") {
		params.ResponseFormat = openai.ImageGenerateParamsResponseFormatB64JSON
	}

	resp, err := p.client.Images.Generate(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return &Media{MIMEType: "image/png", Data: data}, nil
}

// Synthesize requests raw pcm, which OpenAI delivers as 24 kHz mono L16.
func (p *OpenAIProvider) Synthesize(ctx context.Context, text string) (*Media, error) {
	resp, err := p.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input:          text,
		Model:          openai.SpeechModel(p.speechModel),
		Voice:          openai.AudioSpeechNewParamsVoice(p.voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatPCM,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read speech: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &Media{MIMEType: "audio/L16;rate=24000", Data: data}, nil
}

// chatMessages builds the OpenAI message list shared by openai and compatible.
func chatMessages(systemPrompt string, history []model.ChatMessage, content string) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	for _, msg := range history {
		if msg.Role == model.RoleModel {
			messages = append(messages, openai.AssistantMessage(msg.Text))
		} else {
			messages = append(messages, openai.UserMessage(msg.Text))
		}
	}
	return append(messages, openai.UserMessage(content))
}

func jsonSchemaFormat(schema *Schema) openai.ChatCompletionNewParamsResponseFormatUnion {
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
			JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:   schema.Name,
				Strict: openai.Bool(true),
				Schema: schema.Map(),
			},
		},
	}
}
