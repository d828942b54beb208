package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"patungan/internal/http/handlers"
	"patungan/internal/infra"
	"patungan/internal/middleware"
)

// Options wires cross-cutting pieces into the router.
type Options struct {
	Logger          infra.Logger
	JWTSecret       string
	CORSOrigins     []string
	RateLimitPerMin int
	CountryLookup   middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.CORSOrigins),
		middleware.I18N("en", opts.CountryLookup),
	)

	r.Get("/v1/healthz", app.Health)

	// Provider-facing: authenticated by signature verification alone, and
	// exempt from the browser rate limit so retries are never throttled.
	r.Post("/v1/payments/stripe/webhook", app.StripeWebhook)

	r.Group(func(r chi.Router) {
		if opts.RateLimitPerMin > 0 {
			r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
		}

		// Public payment + progress surface.
		r.Route("/v1/campaigns/{campaign_id}", func(r chi.Router) {
			r.Post("/checkout", app.PaymentsCreateSession)
			r.Post("/order", app.PaymentsCreateOrder)
			r.Get("/progress", app.CampaignProgress)
			r.Get("/donations", app.CampaignDonations)
		})
		r.Post("/v1/payments/razorpay/confirm", app.PaymentsConfirm)
		r.Get("/v1/stats/summary", app.StatsSummary)

		// Metered AI assist, behind the identity provider's token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(opts.JWTSecret))
			r.Post("/v1/assist/text", app.AssistText)
			r.Post("/v1/assist/image", app.AssistImage)
		})
	})

	return r
}
