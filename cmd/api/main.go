package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"SustainAI_Tips/internal/config"
	"SustainAI_Tips/internal/geminiservice"
	"SustainAI_Tips/internal/logging"
	"SustainAI_Tips/internal/server"
	"github.com/rs/zerolog/log"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// In-flight requests get 5 seconds to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup(config.DefaultLogLevel, config.DefaultLogFormat)
		log.Fatal().Err(err).Msg("could not load configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	generator, err := geminiservice.NewClient(context.Background(), geminiservice.Config{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize Gemini client")
	}

	apiServer := server.NewServer(cfg, generator)

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, done)

	log.Info().
		Str("addr", apiServer.Addr).
		Str("model", cfg.Model).
		Dur("generation_timeout", cfg.GenerationTimeout).
		Msg("SustainAI tips server starting")

	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server error")
	}

	<-done
	log.Info().Msg("Graceful shutdown complete.")
}
