// Package api exposes the aggregated snapshot over HTTP. It reads from the
// cache and never blocks on a running cycle unless the caller explicitly
// requests a refresh.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/trackpulse/trackpulse/internal/cache"
	"github.com/trackpulse/trackpulse/internal/core"
)

// Refresher triggers an aggregation cycle on demand. Concurrent callers share
// one in-flight cycle.
type Refresher interface {
	Refresh(ctx context.Context) (*core.Snapshot, error)
}

type Server struct {
	store     *cache.Store
	refresher Refresher
	logger    *slog.Logger
	echo      *echo.Echo
}

func NewServer(store *cache.Store, refresher Refresher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	server := &Server{
		store:     store,
		refresher: refresher,
		logger:    logger,
		echo:      e,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType},
	}))

	api := s.echo.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.GET("/items", s.handleItems)
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "trackpulse",
	})
}

// handleItems serves the current snapshot. With ?refresh=true it runs a cycle
// first; if the cycle cannot start, the cached snapshot stays untouched and
// the caller gets a generic error.
func (s *Server) handleItems(c echo.Context) error {
	if c.QueryParam("refresh") == "true" {
		if _, err := s.refresher.Refresh(c.Request().Context()); err != nil {
			s.logger.Error("on-demand refresh failed", "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"error": "refresh failed",
			})
		}
	}
	return c.JSON(http.StatusOK, s.store.Current())
}
