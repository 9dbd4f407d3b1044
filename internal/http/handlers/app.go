package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"figuregen/internal/artifact"
	"figuregen/internal/infra"
	"figuregen/internal/providers/image"
	"figuregen/internal/session"
)

// App bundles the pipeline collaborators every handler needs.
type App struct {
	Config    *infra.Config
	Logger    zerolog.Logger
	Sessions  *session.Store
	Generator image.Generator
	Persister *artifact.Persister
}

func NewApp(cfg *infra.Config, logger zerolog.Logger, sessions *session.Store, gen image.Generator, persister *artifact.Persister) *App {
	return &App{
		Config:    cfg,
		Logger:    logger,
		Sessions:  sessions,
		Generator: gen,
		Persister: persister,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// fail maps a pipeline error to its user-facing message and recovery
// action in one place, so no display concern leaks into the pipeline.
func (a *App) fail(w http.ResponseWriter, err error) {
	status, body := mapError(err)
	if status >= http.StatusInternalServerError {
		a.Logger.Error().Err(err).Msg("request failed")
	} else {
		a.Logger.Debug().Err(err).Msg("request rejected")
	}
	a.json(w, status, body)
}
