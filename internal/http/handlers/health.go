package handlers

import (
	"net/http"

	"figuregen/internal/photo"
)

// Health reports liveness plus the upload formats this build decodes, so
// the booth operator can confirm whether HEIC support was compiled in.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"formats": photo.AcceptedFormats(),
	})
}
