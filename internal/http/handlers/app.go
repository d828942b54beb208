package handlers

import (
	"encoding/json"
	"net/http"

	"patungan/internal/domain"
	"patungan/internal/infra"
	"patungan/internal/middleware"
	"patungan/internal/payments"
	"patungan/internal/providers/image"
	"patungan/internal/providers/prompt"
	"patungan/internal/quota"
)

// App bundles handler dependencies.
type App struct {
	SQL       infra.SQLExecutor
	Logger    infra.Logger
	Campaigns domain.CampaignRepository
	Guard     *payments.Guard
	Stripe    *payments.StripeRail
	Razorpay  *payments.RazorpayRail
	Recorder  *payments.Recorder
	Quota     *quota.Ledger
	Enhancer  prompt.Enhancer
	Images    image.Generator
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error":   errCode,
		"message": message,
	})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
