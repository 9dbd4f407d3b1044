package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"figuregen/internal/domain"
	"figuregen/internal/photo"
)

// maxUploadBytes caps photo uploads at 10MB, matching the form copy.
const maxUploadBytes = 10 << 20

// PhotoUpload accepts the visitor's photo, normalizes it to opaque PNG,
// and advances the session to the Details step.
func (a *App) PhotoUpload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.fail(w, fmt.Errorf("%w: photo upload too large or malformed", domain.ErrInvalidInput))
		return
	}
	file, _, err := r.FormFile("photo")
	if err != nil {
		a.fail(w, fmt.Errorf("%w: photo file is required", domain.ErrInvalidInput))
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		a.fail(w, fmt.Errorf("%w: read upload: %v", domain.ErrDecode, err))
		return
	}

	normalized, err := photo.Normalize(raw)
	if err != nil {
		a.fail(w, err)
		return
	}

	if err := a.Sessions.AttachPhoto(id, normalized); err != nil {
		a.fail(w, err)
		return
	}
	state, err := a.Sessions.Snapshot(id)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.Logger.Info().Str("session", id).Int("bytes", len(normalized)).Msg("photo normalized")
	a.json(w, http.StatusOK, viewOf(state))
}
