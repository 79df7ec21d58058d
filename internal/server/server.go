/*
Package server implements the application's network transport layer.
It wires the Echo router, configures timeouts, and owns the dependencies
shared by every request: the immutable configuration and the text generator.
*/
package server

import (
	"net/http"
	"time"

	"SustainAI_Tips/internal/config"
	"SustainAI_Tips/internal/tips"
)

// Server defines the configuration and dependencies for the HTTP service.
type Server struct {
	// cfg is loaded once at startup and never mutated.
	cfg *config.Config

	// tips serves the /api/tips endpoint.
	tips *tips.Handler
}

// New builds a Server that answers tip requests with gen.
func New(cfg *config.Config, gen tips.Generator) *Server {
	return &Server{
		cfg:  cfg,
		tips: tips.NewHandler(gen, cfg.GenerationTimeout),
	}
}

// NewServer returns a configured *http.Server ready to ListenAndServe.
// The write timeout leaves room for the slowest allowed generation call.
func NewServer(cfg *config.Config, gen tips.Generator) *http.Server {
	s := New(cfg, gen)

	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.GenerationTimeout + 10*time.Second,
	}
}
