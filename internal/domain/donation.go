package domain

import "time"

// Payment providers recognized by the recorder.
const (
	ProviderStripe   = "stripe"
	ProviderRazorpay = "razorpay"
)

// Donation is an immutable financial record. ProviderPaymentID is the
// provider-correlation identifier and the sole idempotency key: the store
// enforces a uniqueness constraint on it and a second insert with the same
// value is reported as a duplicate, never as a new row.
type Donation struct {
	ID                string
	CampaignID        string
	Amount            int64 // minor currency units, never floating point
	DonorName         string
	DonorEmail        string
	Message           string
	Provider          string
	ProviderSessionID string // hosted session id (rail A) or order id (rail B)
	ProviderPaymentID string
	CreatedAt         time.Time
}

// CampaignProgress aggregates donations for public progress display.
type CampaignProgress struct {
	CampaignID string
	Raised     int64
	Donations  int64
}
