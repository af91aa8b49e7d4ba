package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"lingovibe/backend/internal/audio"
	"lingovibe/backend/internal/handler"
	"lingovibe/backend/internal/model"
	"lingovibe/backend/internal/repository/testutil"
	"lingovibe/backend/internal/service"
	"lingovibe/backend/internal/store"
)

type fakeGateway struct {
	define     func(query string) (*model.Definition, error)
	synthesize func(text string) ([]byte, error)
	converse   func(userText string) (string, error)
	narrate    func(words []string) (string, error)
}

func (g *fakeGateway) Define(_ context.Context, query, _, _ string) (*model.Definition, error) {
	if g.define == nil {
		return &model.Definition{TargetWord: query, Examples: []model.ExampleSentence{}}, nil
	}
	return g.define(query)
}

func (g *fakeGateway) Illustrate(context.Context, string, string) (string, error) { return "", nil }

func (g *fakeGateway) Synthesize(_ context.Context, text string) ([]byte, error) {
	if g.synthesize == nil {
		return nil, nil
	}
	return g.synthesize(text)
}

func (g *fakeGateway) Converse(_ context.Context, _ []model.ChatMessage, _, _, _, userText string) (string, error) {
	if g.converse == nil {
		return "ok", nil
	}
	return g.converse(userText)
}

func (g *fakeGateway) Narrate(_ context.Context, words []string, _, _ string) (string, error) {
	if g.narrate == nil {
		return strings.Join(words, " "), nil
	}
	return g.narrate(words)
}

type apiFixture struct {
	e       *echo.Echo
	gateway *fakeGateway
	session service.Session
}

func newAPIFixture(t *testing.T, player *audio.Player) *apiFixture {
	t.Helper()
	st := store.New(testutil.NewBadgerRepo(t), model.DefaultLanguagePref())
	gw := &fakeGateway{}
	var ids atomic.Int64
	s, err := service.NewSession(context.Background(), st, gw, service.SessionOptions{
		Now:   func() time.Time { return time.UnixMilli(1_700_000_000_000) },
		NewID: func() string { return strconv.FormatInt(ids.Add(1), 10) },
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	e := echo.New()
	api := e.Group("/api")
	handler.NewSessionHandler(s).RegisterRoutes(api)
	handler.NewAudioHandler(player, gw).RegisterRoutes(api)
	return &apiFixture{e: e, gateway: gw, session: s}
}

func (f *apiFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) model.SessionState {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var state model.SessionState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	return state
}

func TestSessionHandler_OnboardingFlow(t *testing.T) {
	f := newAPIFixture(t, nil)

	state := decodeState(t, f.do(t, http.MethodGet, "/api/state", ""))
	require.Equal(t, model.PhaseOnboarding, state.Phase)

	state = decodeState(t, f.do(t, http.MethodPost, "/api/onboarding", `{"nativeLang":"en","targetLang":"ko"}`))
	require.Equal(t, model.PhaseActive, state.Phase)
	require.Equal(t, "ko", state.Languages.TargetCode)

	state = decodeState(t, f.do(t, http.MethodPost, "/api/languages/swap", ""))
	require.Equal(t, "ko", state.Languages.NativeCode)
	require.Equal(t, "en", state.Languages.TargetCode)

	state = decodeState(t, f.do(t, http.MethodDelete, "/api/onboarding", ""))
	require.Equal(t, model.PhaseOnboarding, state.Phase)
}

func TestSessionHandler_InvalidLanguages(t *testing.T) {
	f := newAPIFixture(t, nil)
	rec := f.do(t, http.MethodPut, "/api/languages", `{"nativeLang":"en","targetLang":"xx"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionHandler_ListLanguages(t *testing.T) {
	f := newAPIFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/api/languages", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var langs []model.Language
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &langs))
	require.Len(t, langs, len(model.Languages))
}

func TestSessionHandler_SetView(t *testing.T) {
	f := newAPIFixture(t, nil)

	state := decodeState(t, f.do(t, http.MethodPut, "/api/view", `{"view":"notebook"}`))
	require.Equal(t, model.ViewNotebook, state.View)

	rec := f.do(t, http.MethodPut, "/api/view", `{"view":"settings"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionHandler_SearchSaveAndOpen(t *testing.T) {
	f := newAPIFixture(t, nil)

	state := decodeState(t, f.do(t, http.MethodPost, "/api/search", `{"query":"cat"}`))
	require.NotNil(t, state.Result)
	require.Equal(t, "cat", state.Result.TargetWord)
	require.False(t, state.Saved)

	state = decodeState(t, f.do(t, http.MethodPost, "/api/notebook/toggle", ""))
	require.True(t, state.Saved)
	require.Len(t, state.Notebook, 1)
	id := state.Notebook[0].ID

	rec := f.do(t, http.MethodGet, "/api/notebook", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"targetWord":"cat"`)

	decodeState(t, f.do(t, http.MethodPost, "/api/search", `{"query":"dog"}`))
	state = decodeState(t, f.do(t, http.MethodPost, "/api/notebook/"+id+"/open", ""))
	require.Equal(t, "cat", state.Result.TargetWord)
	require.Equal(t, model.ViewSearch, state.View)

	rec = f.do(t, http.MethodPost, "/api/notebook/missing/open", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionHandler_EmptySearchKeepsState(t *testing.T) {
	f := newAPIFixture(t, nil)
	decodeState(t, f.do(t, http.MethodPost, "/api/search", `{"query":"cat"}`))

	state := decodeState(t, f.do(t, http.MethodPost, "/api/search", `{"query":"   "}`))
	require.NotNil(t, state.Result)
	require.Equal(t, "cat", state.Result.TargetWord)
}

func TestSessionHandler_SearchFailure(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.gateway.define = func(string) (*model.Definition, error) {
		return nil, errors.Join(service.ErrTransport, errors.New("boom"))
	}

	rec := f.do(t, http.MethodPost, "/api/search", `{"query":"cat"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.NotEmpty(t, f.session.State().LastError)
}

func TestSessionHandler_ToggleWithoutResult(t *testing.T) {
	f := newAPIFixture(t, nil)
	state := decodeState(t, f.do(t, http.MethodPost, "/api/notebook/toggle", ""))
	require.Nil(t, state.Result)
	require.Empty(t, f.session.State().Notebook)
}

func TestSessionHandler_Chat(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.gateway.converse = func(userText string) (string, error) { return "re: " + userText, nil }

	state := decodeState(t, f.do(t, http.MethodPost, "/api/chat", `{"text":"hi"}`))
	require.Empty(t, state.Chat)

	decodeState(t, f.do(t, http.MethodPost, "/api/search", `{"query":"cat"}`))
	state = decodeState(t, f.do(t, http.MethodPost, "/api/chat", `{"text":"hi"}`))
	require.Equal(t, []model.ChatMessage{
		{Role: model.RoleUser, Text: "hi"},
		{Role: model.RoleModel, Text: "re: hi"},
	}, state.Chat)

	rec := f.do(t, http.MethodPost, "/api/chat", `{"text":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionHandler_StoryAndFlashcards(t *testing.T) {
	f := newAPIFixture(t, nil)

	state := decodeState(t, f.do(t, http.MethodPost, "/api/story", ""))
	require.Empty(t, state.Story)

	for _, q := range []string{"cat", "dog"} {
		decodeState(t, f.do(t, http.MethodPost, "/api/search", `{"query":"`+q+`"}`))
		decodeState(t, f.do(t, http.MethodPost, "/api/notebook/toggle", ""))
	}

	state = decodeState(t, f.do(t, http.MethodPost, "/api/story", ""))
	require.Contains(t, state.Story, "cat")
	require.Contains(t, state.Story, "dog")

	state = decodeState(t, f.do(t, http.MethodPut, "/api/view", `{"view":"flashcards"}`))
	require.Equal(t, 0, state.FlashcardIndex)

	state = decodeState(t, f.do(t, http.MethodPost, "/api/flashcards/flip", ""))
	require.True(t, state.Flipped)

	state = decodeState(t, f.do(t, http.MethodPost, "/api/flashcards/next", ""))
	require.False(t, state.Flipped)
	require.Equal(t, 1, state.FlashcardIndex)

	state = decodeState(t, f.do(t, http.MethodPost, "/api/flashcards/next", ""))
	require.Equal(t, 0, state.FlashcardIndex)

	state = decodeState(t, f.do(t, http.MethodPost, "/api/flashcards/prev", ""))
	require.Equal(t, 1, state.FlashcardIndex)
}

type nopOutput struct{}

func (nopOutput) Play(context.Context, audio.Format, []float32) error { return nil }

func TestAudioHandler_SpeakDisabled(t *testing.T) {
	f := newAPIFixture(t, nil)
	rec := f.do(t, http.MethodPost, "/api/speak", `{"text":"hello"}`)
	require.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestAudioHandler_Speak(t *testing.T) {
	var spoken atomic.Value
	synth := &fakeGateway{synthesize: func(text string) ([]byte, error) {
		spoken.Store(text)
		return []byte{0, 0, 0xff, 0x7f}, nil
	}}
	f := newAPIFixture(t, audio.NewPlayer(synth, nopOutput{}, nil))

	rec := f.do(t, http.MethodPost, "/api/speak", `{"text":"hello"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "hello", spoken.Load())

	rec = f.do(t, http.MethodPost, "/api/speak", `{"text":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAudioHandler_Speech(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/speech?text=hello", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	f.gateway.synthesize = func(string) ([]byte, error) { return []byte{1, 0, 2, 0}, nil }
	rec = f.do(t, http.MethodGet, "/api/speech?text=hello", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "audio/wav", rec.Header().Get(echo.HeaderContentType))
	require.Equal(t, 44+4, rec.Body.Len())
	require.Equal(t, "RIFF", rec.Body.String()[:4])

	f.gateway.synthesize = func(string) ([]byte, error) { return nil, service.ErrNotConfigured }
	rec = f.do(t, http.MethodGet, "/api/speech?text=hello", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/speech", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
