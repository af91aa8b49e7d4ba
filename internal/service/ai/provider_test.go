package ai_test

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"lingovibe/backend/internal/model"
	"lingovibe/backend/internal/service/ai"
)

func TestNewProvider_Validation(t *testing.T) {
	_, err := ai.NewProvider(ai.Config{Provider: ai.ProviderGemini})
	require.ErrorIs(t, err, ai.ErrMissingAPIKey)

	_, err = ai.NewProvider(ai.Config{Provider: ai.ProviderCompatible, APIKey: "k", Model: "m"})
	require.ErrorIs(t, err, ai.ErrMissingBaseURL)

	_, err = ai.NewProvider(ai.Config{Provider: ai.ProviderCompatible, APIKey: "k", BaseURL: "http://x"})
	require.ErrorIs(t, err, ai.ErrMissingModel)

	_, err = ai.NewProvider(ai.Config{Provider: "llama", APIKey: "k", Model: "m"})
	require.ErrorIs(t, err, ai.ErrInvalidProvider)
}

func TestNewProvider_DefaultModel(t *testing.T) {
	p, err := ai.NewProvider(ai.Config{Provider: ai.ProviderOpenAI, APIKey: "k"})
	require.NoError(t, err)
	require.Equal(t, ai.ProviderOpenAI, p.Name())
	require.NotEmpty(t, ai.DefaultModel(ai.ProviderGemini))
	require.Empty(t, ai.DefaultModel(ai.ProviderCompatible))
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	data, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	return body
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func chatCompletion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 0,
		"model":   "gpt-4o-mini",
		"choices": []any{map[string]any{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
}

func TestGeminiProvider_CompleteWithHistory(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Path, "gemini-test:generateContent")
		body = decodeBody(t, r)
		writeJSON(w, map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"role": "model", "parts": []any{map[string]any{"text": "Nya!"}}},
			}},
		})
	}))
	defer srv.Close()

	p, err := ai.NewGeminiProvider(ai.Config{APIKey: "k", BaseURL: srv.URL, Model: "gemini-test"})
	require.NoError(t, err)

	history := []model.ChatMessage{
		{Role: model.RoleUser, Text: "hi"},
		{Role: model.RoleModel, Text: "hello"},
	}
	reply, err := p.Complete(t.Context(), "be a tutor", history, "how to say cat?")
	require.NoError(t, err)
	require.Equal(t, "Nya!", reply)

	contents, ok := body["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 3)
	require.Equal(t, "model", contents[1].(map[string]any)["role"])
	require.Contains(t, body, "systemInstruction")
}

func TestGeminiProvider_CompleteJSONSendsSchema(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body = decodeBody(t, r)
		writeJSON(w, map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"role": "model", "parts": []any{map[string]any{"text": validDefinition}}},
			}},
		})
	}))
	defer srv.Close()

	p, err := ai.NewGeminiProvider(ai.Config{APIKey: "k", BaseURL: srv.URL, Model: "gemini-test"})
	require.NoError(t, err)

	raw, err := p.CompleteJSON(t.Context(), "define", "cat", ai.DefinitionSchema)
	require.NoError(t, err)
	def, err := ai.ParseDefinition(raw)
	require.NoError(t, err)
	require.Equal(t, "猫", def.TargetWord)

	gen, ok := body["generationConfig"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "application/json", gen["responseMimeType"])
	require.Contains(t, gen, "responseSchema")
}

func TestGeminiProvider_SynthesizeInlineData(t *testing.T) {
	pcm := []byte{0x00, 0x40, 0x00, 0xc0}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Path, "tts-test:generateContent")
		writeJSON(w, map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"role": "model", "parts": []any{map[string]any{
					"inlineData": map[string]any{
						"mimeType": "audio/L16;codec=pcm;rate=24000",
						"data":     base64.StdEncoding.EncodeToString(pcm),
					},
				}}},
			}},
		})
	}))
	defer srv.Close()

	p, err := ai.NewGeminiProvider(ai.Config{APIKey: "k", BaseURL: srv.URL, Model: "m", SpeechModel: "tts-test"})
	require.NoError(t, err)

	media, err := p.Synthesize(t.Context(), "猫")
	require.NoError(t, err)
	require.NotNil(t, media)
	require.Equal(t, pcm, media.Data)
}

func TestGeminiProvider_ImageWithoutInlineData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"role": "model", "parts": []any{map[string]any{"text": "no image today"}}},
			}},
		})
	}))
	defer srv.Close()

	p, err := ai.NewGeminiProvider(ai.Config{APIKey: "k", BaseURL: srv.URL, Model: "m"})
	require.NoError(t, err)

	media, err := p.GenerateImage(t.Context(), "a cat")
	require.NoError(t, err)
	require.Nil(t, media)
}

func TestOpenAIProvider_CompleteJSONUsesStrictSchema(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		body = decodeBody(t, r)
		writeJSON(w, chatCompletion(validDefinition))
	}))
	defer srv.Close()

	p, err := ai.NewOpenAIProvider(ai.Config{APIKey: "k", BaseURL: srv.URL, Model: "gpt-4o-mini"})
	require.NoError(t, err)

	raw, err := p.CompleteJSON(t.Context(), "define", "cat", ai.DefinitionSchema)
	require.NoError(t, err)
	require.JSONEq(t, validDefinition, raw)

	format, ok := body["response_format"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "json_schema", format["type"])
	js := format["json_schema"].(map[string]any)
	require.Equal(t, "dictionary_entry", js["name"])
	require.Equal(t, true, js["strict"])
}

func TestOpenAIProvider_CompleteMapsRoles(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body = decodeBody(t, r)
		writeJSON(w, chatCompletion("sure"))
	}))
	defer srv.Close()

	p, err := ai.NewOpenAIProvider(ai.Config{APIKey: "k", BaseURL: srv.URL, Model: "gpt-4o-mini"})
	require.NoError(t, err)

	reply, err := p.Complete(t.Context(), "tutor", []model.ChatMessage{{Role: model.RoleModel, Text: "hi"}}, "again")
	require.NoError(t, err)
	require.Equal(t, "sure", reply)

	messages := body["messages"].([]any)
	require.Len(t, messages, 3)
	require.Equal(t, "system", messages[0].(map[string]any)["role"])
	require.Equal(t, "assistant", messages[1].(map[string]any)["role"])
	require.Equal(t, "user", messages[2].(map[string]any)["role"])
}

func TestOpenAIProvider_GenerateImage(t *testing.T) {
	png := []byte("\x89PNG fake")
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/images/generations"))
		body = decodeBody(t, r)
		writeJSON(w, map[string]any{
			"created": 0,
			"data":    []any{map[string]any{"b64_json": base64.StdEncoding.EncodeToString(png)}},
		})
	}))
	defer srv.Close()

	p, err := ai.NewOpenAIProvider(ai.Config{APIKey: "k", BaseURL: srv.URL, Model: "gpt-4o-mini"})
	require.NoError(t, err)

	media, err := p.GenerateImage(t.Context(), "a cat")
	require.NoError(t, err)
	require.Equal(t, "image/png", media.MIMEType)
	require.Equal(t, png, media.Data)
	require.Equal(t, "gpt-image-1", body["model"])
	require.NotContains(t, body, "response_format")
}

func TestOpenAIProvider_SynthesizePCM(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/audio/speech"))
		body = decodeBody(t, r)
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(pcm)
	}))
	defer srv.Close()

	p, err := ai.NewOpenAIProvider(ai.Config{APIKey: "k", BaseURL: srv.URL, Model: "gpt-4o-mini"})
	require.NoError(t, err)

	media, err := p.Synthesize(t.Context(), "猫")
	require.NoError(t, err)
	require.Equal(t, pcm, media.Data)
	require.Equal(t, "pcm", body["response_format"])
	require.Equal(t, "coral", body["voice"])
}

func TestCompatibleProvider_PromptEnforcedJSON(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body = decodeBody(t, r)
		writeJSON(w, chatCompletion("```json\n"+validDefinition+"\n```"))
	}))
	defer srv.Close()

	p, err := ai.NewCompatibleProvider(ai.Config{APIKey: "k", BaseURL: srv.URL, Model: "llama"})
	require.NoError(t, err)

	raw, err := p.CompleteJSON(t.Context(), "define", "cat", ai.DefinitionSchema)
	require.NoError(t, err)
	_, err = ai.ParseDefinition(raw)
	require.NoError(t, err)

	require.NotContains(t, body, "response_format")
	reasoning := body["reasoning"].(map[string]any)
	require.Equal(t, false, reasoning["enabled"])
	system := body["messages"].([]any)[0].(map[string]any)
	require.Contains(t, system["content"], "<output_format>")

	_, err = p.GenerateImage(t.Context(), "x")
	require.ErrorIs(t, err, ai.ErrUnsupported)
	_, err = p.Synthesize(t.Context(), "x")
	require.ErrorIs(t, err, ai.ErrUnsupported)
}

func TestAnthropicProvider_CompleteJoinsTextBlocks(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"))
		body = decodeBody(t, r)
		writeJSON(w, map[string]any{
			"id":          "msg_1",
			"type":        "message",
			"role":        "assistant",
			"model":       "claude-test",
			"stop_reason": "end_turn",
			"content": []any{
				map[string]any{"type": "text", "text": "Neko "},
				map[string]any{"type": "text", "text": "means cat."},
			},
			"usage": map[string]any{"input_tokens": 1, "output_tokens": 1},
		})
	}))
	defer srv.Close()

	p, err := ai.NewAnthropicProvider(ai.Config{APIKey: "k", BaseURL: srv.URL, Model: "claude-test"})
	require.NoError(t, err)

	reply, err := p.Complete(t.Context(), "tutor", []model.ChatMessage{{Role: model.RoleUser, Text: "hi"}, {Role: model.RoleModel, Text: "hello"}}, "cat?")
	require.NoError(t, err)
	require.Equal(t, "Neko means cat.", reply)

	require.Len(t, body["messages"], 3)
	thinking := body["thinking"].(map[string]any)
	require.Equal(t, "disabled", thinking["type"])

	_, err = p.GenerateImage(t.Context(), "x")
	require.ErrorIs(t, err, ai.ErrUnsupported)
}
