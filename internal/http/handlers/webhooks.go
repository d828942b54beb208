package handlers

import (
	"errors"
	"io"
	"net/http"

	"patungan/internal/domain"
)

const webhookBodyLimit = 1 << 20 // provider payloads are small; cap at 1MiB

// StripeWebhook receives asynchronous provider events for rail A. Signature
// verification is the endpoint's only authentication: a bad signature is
// always rejected before anything else happens. Correctly signed but
// uninteresting events return 200 so the provider stops retrying them.
func (a *App) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, webhookBodyLimit)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read request body")
		return
	}

	draft, err := a.Stripe.VerifyWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			a.error(w, http.StatusBadRequest, "invalid_signature", "webhook signature verification failed")
			return
		}
		a.error(w, http.StatusBadRequest, "bad_request", "malformed webhook payload")
		return
	}
	if draft == nil {
		// Right signature, uninteresting event or payment not completed.
		a.json(w, http.StatusOK, map[string]any{"received": true, "ignored": true})
		return
	}

	created, err := a.Recorder.Record(r.Context(), *draft)
	if err != nil {
		// Only storage failure is retryable; the provider will redeliver.
		a.Logger.Error().Err(err).Str("payment_id", draft.PaymentID).Msg("webhook donation persist failed")
		a.error(w, http.StatusInternalServerError, "storage", "failed to record donation")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"received": true, "duplicate": !created})
}
