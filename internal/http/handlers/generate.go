package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"figuregen/internal/middleware"
	"figuregen/internal/prompt"
	"figuregen/internal/providers/image"
)

// Generate runs one generation attempt for the session. The store gates
// concurrent and repeat attempts, so two racing requests for the same
// session cannot both reach the provider.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snap, err := a.Sessions.BeginGenerate(id)
	if err != nil {
		a.fail(w, err)
		return
	}

	acc := prompt.ParseAccessory(snap.Accessory, a.Config.AccessoryDefault)

	mode := image.ModeText
	promptMode := prompt.ModeText
	if len(snap.Photo) > 0 {
		mode = image.ModeEdit
		promptMode = prompt.ModeEdit
	}
	text := prompt.Compose(snap.Subject.FullName(), acc, promptMode)

	ctx, cancel := context.WithTimeout(r.Context(), a.Config.GenerateTimeout)
	defer cancel()

	res, err := a.Generator.Generate(ctx, image.GenerateRequest{
		Prompt:    text,
		Mode:      mode,
		Photo:     snap.Photo,
		RequestID: middleware.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		// Session drops back to Details so the user can retry or edit.
		if ferr := a.Sessions.FailGenerate(id); ferr != nil {
			a.Logger.Error().Err(ferr).Str("session_id", id).Msg("rollback after failed generation")
		}
		a.fail(w, err)
		return
	}

	if err := a.Sessions.CompleteGenerate(id, res); err != nil {
		a.fail(w, err)
		return
	}
	state, err := a.Sessions.Snapshot(id)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, viewOf(state))
}
