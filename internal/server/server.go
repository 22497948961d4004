// Package server exposes the clock, reporting, staff and settings services
// over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/balkashynov/punch/internal/auth"
	"github.com/balkashynov/punch/internal/clock"
	"github.com/balkashynov/punch/internal/report"
	"github.com/balkashynov/punch/internal/settings"
	"github.com/balkashynov/punch/internal/staff"
)

// Deps are the services the API is built on
type Deps struct {
	Clock    *clock.Service
	Reports  *report.Engine
	Staff    *staff.Directory
	Settings *settings.Service
	Tokens   *auth.Tokens
}

type Server struct {
	deps Deps
	log  *slog.Logger
	now  func() time.Time
	srv  http.Server
}

func New(addr string, deps Deps, log *slog.Logger) *Server {
	s := &Server{deps: deps, log: log, now: time.Now}
	s.srv = http.Server{
		Addr:              addr,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed API
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.log.Info("starting the server", "addr", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("stopping the server")
	return s.srv.Shutdown(ctx)
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), s.accessLog(), gin.Recovery())

	r.GET("/healthz", s.health)

	api := r.Group("/api/v1")
	api.Use(s.authenticate())
	{
		api.POST("/clock/in", s.clockIn)
		api.POST("/clock/out", s.clockOut)

		api.GET("/me/status", s.myStatus)
		api.GET("/me/history", s.myHistory)

		api.GET("/staff", s.listStaff)
		api.GET("/staff/:id/history", s.staffHistory)
		api.POST("/staff/role", s.setRole)

		api.GET("/dashboard", s.dashboard)

		api.GET("/settings", s.showSettings)
		api.PUT("/settings", s.updateSettings)
	}

	return r
}
