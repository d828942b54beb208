package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"

	"patungan/internal/domain"
)

const checkoutCompletedEvent = "checkout.session.completed"

// Metadata keys embedded in the provider-side payment object. They let the
// recorder reconstruct a donation purely from the webhook payload, without
// re-contacting the browser.
const (
	metaCampaignID = "campaign_id"
	metaDonorName  = "donor_name"
	metaDonorEmail = "donor_email"
	metaMessage    = "message"
)

// SessionCreator opens a provider-side checkout session. Split out so tests
// can run without the Stripe API.
type SessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type liveSessions struct{}

func (liveSessions) New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return session.New(params)
}

// StripeOptions configures the hosted-checkout rail.
type StripeOptions struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
	SuccessURL    string
	CancelURL     string
	MinAmount     int64
	Sessions      SessionCreator
}

// StripeRail is the asynchronous hosted-checkout rail: the provider hosts the
// payment UI and confirms completion later through a signed webhook.
type StripeRail struct {
	guard         *Guard
	webhookSecret string
	currency      string
	successURL    string
	cancelURL     string
	minAmount     int64
	sessions      SessionCreator
}

// NewStripeRail constructs the rail. Missing secrets are a configuration
// error, surfaced at startup.
func NewStripeRail(guard *Guard, opts StripeOptions) (*StripeRail, error) {
	if opts.SecretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}
	if opts.WebhookSecret == "" {
		return nil, errors.New("stripe webhook secret is required")
	}
	stripe.Key = opts.SecretKey
	if opts.Sessions == nil {
		opts.Sessions = liveSessions{}
	}
	if opts.Currency == "" {
		opts.Currency = "usd"
	}
	return &StripeRail{
		guard:         guard,
		webhookSecret: opts.WebhookSecret,
		currency:      opts.Currency,
		successURL:    opts.SuccessURL,
		cancelURL:     opts.CancelURL,
		minAmount:     opts.MinAmount,
		sessions:      opts.Sessions,
	}, nil
}

// CreateSession opens a hosted checkout session for the campaign and returns
// the redirect URL. Payability is re-checked here, never cached.
func (s *StripeRail) CreateSession(ctx context.Context, req SessionRequest) (string, error) {
	if err := checkPayable(ctx, s.guard, req, s.minAmount); err != nil {
		return "", err
	}

	campaign, err := s.guard.campaigns.GetByID(ctx, req.CampaignID)
	if err != nil {
		return "", fmt.Errorf("load campaign: %w", err)
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(s.currency),
				UnitAmount: stripe.Int64(req.Amount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Dukungan: " + campaign.Title),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		CustomerEmail: stripe.String(req.DonorEmail),
		SuccessURL:    stripe.String(s.successURL),
		CancelURL:     stripe.String(s.cancelURL),
	}
	params.Context = ctx
	params.AddMetadata(metaCampaignID, req.CampaignID)
	params.AddMetadata(metaDonorName, req.DonorName)
	params.AddMetadata(metaDonorEmail, req.DonorEmail)
	params.AddMetadata(metaMessage, req.Message)

	checkout, err := s.sessions.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: create checkout session: %v", domain.ErrProviderFailure, err)
	}
	return checkout.URL, nil
}

// VerifyWebhook authenticates a webhook delivery and reduces it to a donation
// draft. Verification runs over the raw request bytes: re-encoding the parsed
// object would break the signature. Returns (nil, nil) for correctly signed
// events that should be ignored (wrong type, payment not completed).
func (s *StripeRail) VerifyWebhook(payload []byte, sigHeader string) (*DonationDraft, error) {
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	if string(event.Type) != checkoutCompletedEvent {
		return nil, nil
	}

	var checkout stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &checkout); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	if checkout.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil, nil
	}

	campaignID := checkout.Metadata[metaCampaignID]
	if campaignID == "" {
		return nil, fmt.Errorf("checkout session %s has no campaign metadata", checkout.ID)
	}

	paymentID := checkout.ID
	if checkout.PaymentIntent != nil && checkout.PaymentIntent.ID != "" {
		paymentID = checkout.PaymentIntent.ID
	}

	// Amount comes from the provider's own total; the client-supplied amount
	// is untrusted on this rail.
	return &DonationDraft{
		CampaignID: campaignID,
		Amount:     checkout.AmountTotal,
		DonorName:  checkout.Metadata[metaDonorName],
		DonorEmail: checkout.Metadata[metaDonorEmail],
		Message:    checkout.Metadata[metaMessage],
		Provider:   domain.ProviderStripe,
		SessionID:  checkout.ID,
		PaymentID:  paymentID,
	}, nil
}
