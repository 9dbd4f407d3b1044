package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"figuregen/internal/photo"
	"figuregen/internal/session"
)

type resultView struct {
	Kind string `json:"kind"`
	Ref  string `json:"ref"`
}

type sessionView struct {
	ID              string      `json:"id"`
	Stage           string      `json:"stage"`
	FirstName       string      `json:"first_name,omitempty"`
	LastName        string      `json:"last_name,omitempty"`
	FullName        string      `json:"full_name,omitempty"`
	Accessory       string      `json:"accessory,omitempty"`
	HasPhoto        bool        `json:"has_photo"`
	Result          *resultView `json:"result,omitempty"`
	AcceptedFormats []string    `json:"accepted_formats"`
}

func viewOf(state session.State) sessionView {
	view := sessionView{
		ID:              state.ID,
		Stage:           string(state.Stage),
		FirstName:       state.Subject.FirstName,
		LastName:        state.Subject.LastName,
		FullName:        state.Subject.FullName(),
		Accessory:       state.Accessory,
		HasPhoto:        len(state.Photo) > 0,
		AcceptedFormats: photo.AcceptedFormats(),
	}
	if state.Result != nil {
		view.Result = &resultView{Kind: string(state.Result.Kind), Ref: state.Result.Ref}
	}
	return view
}

// SessionCreate starts a fresh wizard session at the Upload step.
func (a *App) SessionCreate(w http.ResponseWriter, r *http.Request) {
	state := a.Sessions.Create()
	a.Logger.Info().Str("session", state.ID).Msg("session created")
	a.json(w, http.StatusCreated, viewOf(*state))
}

// SessionGet returns the current wizard state.
func (a *App) SessionGet(w http.ResponseWriter, r *http.Request) {
	state, err := a.Sessions.Snapshot(chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, viewOf(state))
}

// SessionBack is the explicit Details -> Upload transition.
func (a *App) SessionBack(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Sessions.BackToUpload(id); err != nil {
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

// SessionReset implements Create Another: back to Upload with everything
// cleared.
func (a *App) SessionReset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Sessions.Reset(id); err != nil {
		a.fail(w, err)
		return
	}
	state, err := a.Sessions.Snapshot(id)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.Logger.Info().Str("session", id).Msg("session reset")
	a.json(w, http.StatusOK, viewOf(state))
}
