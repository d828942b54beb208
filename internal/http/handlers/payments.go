package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"patungan/internal/domain"
	"patungan/internal/payments"
)

type checkoutRequest struct {
	Amount     int64  `json:"amount"`
	DonorName  string `json:"donor_name"`
	DonorEmail string `json:"donor_email"`
	Message    string `json:"message"`
}

// PaymentsCreateSession opens a hosted checkout session (rail A) and returns
// the provider redirect URL.
func (a *App) PaymentsCreateSession(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeCheckout(w, r)
	if !ok {
		return
	}

	redirectURL, err := a.Stripe.CreateSession(r.Context(), req)
	if err != nil {
		a.paymentError(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"redirect_url": redirectURL})
}

// PaymentsCreateOrder opens a directly-confirmed order (rail B) and returns
// the provider order id plus the public key the widget needs.
func (a *App) PaymentsCreateOrder(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeCheckout(w, r)
	if !ok {
		return
	}

	orderID, err := a.Razorpay.CreateOrder(r.Context(), req)
	if err != nil {
		a.paymentError(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"order_id": orderID,
		"key_id":   a.Razorpay.KeyID(),
		"amount":   req.Amount,
	})
}

// PaymentsConfirm records a rail B payment after verifying the relayed
// signature. Never retried automatically; the payer re-submits on failure.
func (a *App) PaymentsConfirm(w http.ResponseWriter, r *http.Request) {
	var req payments.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	draft, err := a.Razorpay.VerifyConfirmation(req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			a.error(w, http.StatusBadRequest, "invalid_signature", "payment signature verification failed")
			return
		}
		a.error(w, http.StatusBadRequest, "bad_request", "invalid confirmation payload")
		return
	}

	created, err := a.Recorder.Record(r.Context(), *draft)
	if err != nil {
		// Storage failure, distinct from "not verified": the payer should
		// retry or contact support, the money already moved.
		a.error(w, http.StatusInternalServerError, "storage", "failed to record donation")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"recorded": true, "duplicate": !created})
}

func (a *App) decodeCheckout(w http.ResponseWriter, r *http.Request) (payments.SessionRequest, bool) {
	campaignID := chi.URLParam(r, "campaign_id")
	if campaignID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "campaign_id required")
		return payments.SessionRequest{}, false
	}
	var body checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return payments.SessionRequest{}, false
	}
	return payments.SessionRequest{
		CampaignID: campaignID,
		Amount:     body.Amount,
		DonorName:  body.DonorName,
		DonorEmail: body.DonorEmail,
		Message:    body.Message,
	}, true
}

// paymentError maps session/order creation failures to client responses. All
// of them are the client's to fix; none are retried automatically.
func (a *App) paymentError(w http.ResponseWriter, err error) {
	var notPayable *payments.NotPayableError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "campaign_not_found", "campaign not found")
	case errors.As(err, &notPayable):
		a.error(w, http.StatusConflict, "not_payable", "campaign is not payable: "+string(notPayable.Reason))
	case errors.Is(err, domain.ErrAmountTooLow):
		a.error(w, http.StatusBadRequest, "amount_too_low", err.Error())
	case errors.Is(err, domain.ErrMissingDonorInfo):
		a.error(w, http.StatusBadRequest, "missing_donor_info", "donor name and email are required")
	case errors.Is(err, domain.ErrProviderFailure):
		a.error(w, http.StatusBadGateway, "provider_failure", "payment provider unavailable")
	default:
		a.Logger.Error().Err(err).Msg("payment session creation failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to start payment")
	}
}
