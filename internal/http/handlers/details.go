package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"figuregen/internal/domain"
)

type detailsRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Accessory string `json:"accessory"`
}

// Details records the subject's name and accessory description. The
// required-name check happens here, before any network call is possible.
func (a *App) Details(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req detailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, fmt.Errorf("%w: invalid payload", domain.ErrInvalidInput))
		return
	}

	subject := domain.Subject{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}
	if err := subject.Validate(a.Config.LastNameRequired); err != nil {
		a.fail(w, err)
		return
	}

	if err := a.Sessions.SetDetails(id, subject, req.Accessory); err != nil {
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
