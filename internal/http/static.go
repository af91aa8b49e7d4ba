package http

import (
	nethttp "net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"lingovibe/backend/internal/logger"
)

// assetsPrefix holds content-hashed bundles that never change in place.
const assetsPrefix = "assets/"

// registerStatic serves the single-page client from dir. Unknown paths
// outside /api fall back to index.html so client-side views can be deep linked.
func registerStatic(e *echo.Echo, dir string) {
	if dir == "" {
		return
	}
	indexPath := filepath.Join(dir, "index.html")
	if info, err := os.Stat(indexPath); err != nil || info.IsDir() {
		logger.Warn("static index missing", "module", "http", "action", "serve", "resource", "static", "result", "failed", "path", indexPath)
		return
	}
	logger.Info("static assets enabled", "module", "http", "action", "serve", "resource", "static", "result", "ok", "dir", dir)

	fileServer := nethttp.FileServer(nethttp.Dir(dir))
	serveIndex := func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", "no-cache")
		return c.File(indexPath)
	}

	e.GET("/*", func(c echo.Context) error {
		requestPath := c.Request().URL.Path
		if requestPath == "/api" || strings.HasPrefix(requestPath, "/api/") {
			return echo.ErrNotFound
		}

		cleanPath := strings.TrimPrefix(path.Clean(requestPath), "/")
		if cleanPath == "." || cleanPath == "" || cleanPath == "index.html" {
			return serveIndex(c)
		}

		if info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(cleanPath))); err == nil && !info.IsDir() {
			if strings.HasPrefix(cleanPath, assetsPrefix) {
				c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
			}
			fileServer.ServeHTTP(c.Response(), c.Request())
			return nil
		}

		logger.Debug("static fallback", "module", "http", "action", "serve", "resource", "static", "result", "ok", "path", requestPath)
		return serveIndex(c)
	})
}
