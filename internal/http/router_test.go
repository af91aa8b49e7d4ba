package http

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lingovibe/backend/internal/config"
	"lingovibe/backend/internal/handler"
	"lingovibe/backend/internal/model"
	"lingovibe/backend/internal/repository/testutil"
	"lingovibe/backend/internal/service"
	"lingovibe/backend/internal/store"
)

func newTestRouter(t *testing.T, staticDir string) nethttp.Handler {
	t.Helper()
	repo := testutil.NewBadgerRepo(t)
	settings := service.NewSettingsService(repo, config.AIConfig{Provider: "gemini", RequestTimeout: time.Second}, nil)
	gateway := service.NewGateway(settings, nil, nil, time.Second)
	session, err := service.NewSession(context.Background(), store.New(repo, model.DefaultLanguagePref()), gateway, service.SessionOptions{})
	require.NoError(t, err)
	t.Cleanup(session.Close)

	return NewRouter(
		handler.NewSessionHandler(session),
		handler.NewAudioHandler(nil, gateway),
		handler.NewSettingsHandler(settings),
		staticDir,
	)
}

func get(h nethttp.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, path, nil))
	return rec
}

func TestRouter_APIAndStatic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "index-abc.js"), []byte("x"), 0o644))

	r := newTestRouter(t, dir)

	rec := get(r, "/api/state")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"phase":"onboarding"`)

	rec = get(r, "/app.js")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Equal(t, "console.log(1)", rec.Body.String())

	rec = get(r, "/notebook")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "app")
	require.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	rec = get(r, "/assets/index-abc.js")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Cache-Control"), "immutable")

	rec = get(r, "/api/unknown")
	require.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestRouter_NoStaticDir(t *testing.T) {
	r := newTestRouter(t, "")

	rec := get(r, "/")
	require.Equal(t, nethttp.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodPost, "/api/search", nil))
	// empty query leaves the state untouched
	require.Equal(t, nethttp.StatusOK, rec.Code)
}
