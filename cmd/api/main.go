package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"figuregen/internal/artifact"
	"figuregen/internal/http/handlers"
	httpapi "figuregen/internal/http/httpapi"
	"figuregen/internal/infra"
	"figuregen/internal/infra/credentials"
	"figuregen/internal/providers/image"
	"figuregen/internal/session"
	"figuregen/internal/storage"
)

func main() {
	// Load .env (optional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	// The API key is resolved once at boot. A missing key is not fatal:
	// the server starts and every generation attempt reports the
	// configuration problem instead.
	creds := credentials.NewStore(cfg.SecretsPath)
	apiKey, err := creds.OpenAIAPIKey()
	if err != nil {
		logger.Warn().Err(err).Msg("image generation disabled until a key is configured")
	}

	generator := image.NewOpenAI(image.OpenAIOptions{
		APIKey:  apiKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Quality: cfg.ImageQuality,
		Timeout: cfg.GenerateTimeout,
	})

	store, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare storage directory")
	}

	persister := artifact.NewPersister(artifact.Options{
		FetchTimeout: cfg.FetchTimeout,
		Store:        store,
	})

	sessions := session.NewStore(session.Options{TTL: cfg.SessionTTL})

	app := handlers.NewApp(cfg, logger, sessions, generator, persister)
	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	// Expired-session janitor
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if n := sessions.Sweep(); n > 0 {
				logger.Info().Int("swept", n).Msg("expired sessions removed")
			}
		}
	}()

	go func() {
		logger.Info().Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
