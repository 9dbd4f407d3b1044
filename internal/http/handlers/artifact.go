package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"figuregen/internal/domain"
	"figuregen/internal/providers/image"
	"figuregen/internal/share"
)

type manualSaveBody struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	Recovery string `json:"recovery"`
	ImageURL string `json:"image_url"`
}

// ArtifactDownload streams the finished figure as a PNG attachment. The
// bytes are materialized once per session and cached, so repeated taps
// do not refetch from the provider's short-lived URL.
func (a *App) ArtifactDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	state, err := a.Sessions.Snapshot(id)
	if err != nil {
		a.fail(w, err)
		return
	}
	if state.Result == nil {
		a.fail(w, fmt.Errorf("%w: no figure has been generated yet", domain.ErrWrongStage))
		return
	}

	art := state.Artifact
	if art == nil {
		materialized, err := a.Persister.Materialize(r.Context(), *state.Result, state.Subject.FirstName)
		if err != nil {
			// A dead remote URL still leaves the visitor a way out: hand
			// back the URL so they can save the image manually.
			if errors.Is(err, domain.ErrFetch) && state.Result.Kind == image.KindRemoteURL {
				a.Logger.Warn().Err(err).Str("session_id", id).Msg("artifact fetch failed, offering manual save")
				a.json(w, http.StatusOK, manualSaveBody{
					Error:    "fetch_failed",
					Message:  "We could not download the image automatically. Open it below and save it yourself.",
					Recovery: RecoveryManualSave,
					ImageURL: state.Result.Ref,
				})
				return
			}
			a.fail(w, err)
			return
		}
		if err := a.Sessions.CacheArtifact(id, materialized); err != nil {
			a.fail(w, err)
			return
		}
		if path, err := a.Persister.Archive(r.Context(), materialized); err != nil {
			a.Logger.Warn().Err(err).Str("session_id", id).Msg("artifact archive failed")
		} else {
			a.Logger.Info().Str("path", path).Msg("artifact archived")
		}
		art = &materialized
	}

	w.Header().Set("Content-Type", art.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(art.Data)
}

// ShareLinks returns the prefilled social and email deep links for a
// finished figure.
func (a *App) ShareLinks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	state, err := a.Sessions.Snapshot(id)
	if err != nil {
		a.fail(w, err)
		return
	}
	if state.Result == nil {
		a.fail(w, fmt.Errorf("%w: no figure has been generated yet", domain.ErrWrongStage))
		return
	}
	a.json(w, http.StatusOK, share.Build(state.Subject.FullName()))
}
