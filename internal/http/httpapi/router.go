package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"figuregen/internal/http/handlers"
	"figuregen/internal/middleware"
)

func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.AllowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", app.SessionCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", app.SessionGet)
			r.Post("/photo", app.PhotoUpload)
			r.Post("/details", app.Details)
			r.Post("/back", app.SessionBack)
			r.Post("/reset", app.SessionReset)
			r.Get("/artifact", app.ArtifactDownload)
			r.Get("/share", app.ShareLinks)

			// Generation is the expensive call, so only it is throttled.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute))
				r.Post("/generate", app.Generate)
			})
		})
	})

	return r
}
