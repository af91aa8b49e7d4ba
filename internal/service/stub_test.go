package service_test

import (
	"context"

	"lingovibe/backend/internal/model"
	"lingovibe/backend/internal/service/ai"
)

// stubGateway implements service.Gateway with optional per-call funcs.
type stubGateway struct {
	define     func(ctx context.Context, query, nativeLang, targetLang string) (*model.Definition, error)
	illustrate func(ctx context.Context, term, targetLang string) (string, error)
	synthesize func(ctx context.Context, text string) ([]byte, error)
	converse   func(ctx context.Context, history []model.ChatMessage, targetWord, nativeLang, targetLang, userText string) (string, error)
	narrate    func(ctx context.Context, words []string, nativeLang, targetLang string) (string, error)
}

func (g *stubGateway) Define(ctx context.Context, query, nativeLang, targetLang string) (*model.Definition, error) {
	if g.define == nil {
		return &model.Definition{TargetWord: query, Examples: []model.ExampleSentence{}}, nil
	}
	return g.define(ctx, query, nativeLang, targetLang)
}

func (g *stubGateway) Illustrate(ctx context.Context, term, targetLang string) (string, error) {
	if g.illustrate == nil {
		return "", nil
	}
	return g.illustrate(ctx, term, targetLang)
}

func (g *stubGateway) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if g.synthesize == nil {
		return nil, nil
	}
	return g.synthesize(ctx, text)
}

func (g *stubGateway) Converse(ctx context.Context, history []model.ChatMessage, targetWord, nativeLang, targetLang, userText string) (string, error) {
	if g.converse == nil {
		return "", nil
	}
	return g.converse(ctx, history, targetWord, nativeLang, targetLang, userText)
}

func (g *stubGateway) Narrate(ctx context.Context, words []string, nativeLang, targetLang string) (string, error) {
	if g.narrate == nil {
		return "", nil
	}
	return g.narrate(ctx, words, nativeLang, targetLang)
}

// stubProvider implements ai.Provider and records the last call.
type stubProvider struct {
	name     string
	text     string
	media    *ai.Media
	err      error
	system   string
	content  string
	history  []model.ChatMessage
	schema   *ai.Schema
	imageErr error
}

func (p *stubProvider) Name() string {
	if p.name == "" {
		return "stub"
	}
	return p.name
}

func (p *stubProvider) Test(context.Context) (string, error) { return p.text, p.err }

func (p *stubProvider) Complete(_ context.Context, system string, history []model.ChatMessage, content string) (string, error) {
	p.system, p.history, p.content = system, history, content
	return p.text, p.err
}

func (p *stubProvider) CompleteJSON(_ context.Context, system, content string, schema *ai.Schema) (string, error) {
	p.system, p.content, p.schema = system, content, schema
	return p.text, p.err
}

func (p *stubProvider) GenerateImage(_ context.Context, prompt string) (*ai.Media, error) {
	p.content = prompt
	if p.imageErr != nil {
		return nil, p.imageErr
	}
	return p.media, p.err
}

func (p *stubProvider) Synthesize(_ context.Context, text string) (*ai.Media, error) {
	p.content = text
	return p.media, p.err
}
