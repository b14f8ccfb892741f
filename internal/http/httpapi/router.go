package httpapi

import (
	"net/http"
	"time"

	"donatewall/internal/http/handlers"
	"donatewall/internal/infra"
	mw "donatewall/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Options holds the cross-cutting settings the router needs beyond the App.
type Options struct {
	Logger          infra.Logger
	DefaultLocale   string
	CORSOrigins     []string
	RateLimitPerMin int
	CountryLookup   mw.CountryLookup
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		mw.Logger(opts.Logger),
		mw.CORS(opts.CORSOrigins),
		mw.Locale(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/leaderboard", func(r chi.Router) {
		r.Get("/", app.LeaderboardGet)
		r.With(mw.RateLimit(opts.RateLimitPerMin, time.Minute)).Post("/reload", app.LeaderboardReload)
		r.Post("/entries", app.LeaderboardAddEntry)
	})

	r.Get("/v1/tiers/quote", app.TierQuote)

	r.With(mw.RateLimit(opts.RateLimitPerMin, time.Minute)).Post("/v1/certificates", app.CertificateCreate)

	return r
}
