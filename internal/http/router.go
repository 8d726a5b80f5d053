package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/shilpsetu/aureum/internal/http/handlers"
	"github.com/shilpsetu/aureum/internal/middleware"
)

// RouterOptions carries the cross-cutting pieces the router wires in front
// of the handlers.
type RouterOptions struct {
	AllowedOrigins []string
	RateLimit      int
	CountryLookup  middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.RequestLogger(app.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.NewRateLimiter(opts.RateLimit, time.Minute).Middleware,
		middleware.Locale(opts.CountryLookup),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/login", app.Login)
		r.Post("/logout", app.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(app.Sessions))

		r.Get("/v1/me", app.Me)

		r.Route("/v1/products", func(r chi.Router) {
			r.Post("/", app.ProductsCreate)
			r.Get("/", app.ProductsList)
			r.Get("/{id}", app.ProductGet)
			r.Put("/{id}", app.ProductUpdate)
			r.Delete("/{id}", app.ProductDelete)
			r.Get("/{id}/images.zip", app.ProductImagesZip)
		})

		r.Post("/v1/images", app.ImagesUpload)
		r.Post("/v1/images/enhance", app.ImagesEnhance)
		r.Post("/v1/copy", app.CopyCompose)
		r.Post("/v1/pricing/analyze", app.PriceAnalyze)

		r.Route("/v1/insights", func(r chi.Router) {
			r.Get("/", app.InsightsGet)
			r.Post("/refresh", app.InsightsRefresh)
		})
	})

	return r
}
