package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"patungan/internal/domain"
	"patungan/internal/infra"
)

// Recorder is the idempotent write path turning a verified payment into
// exactly one persisted donation. It is rail-agnostic: both rails hand it the
// same draft shape, already signature-checked.
type Recorder struct {
	donations domain.DonationRepository
	events    EventPublisher
	logger    infra.Logger
}

// NewRecorder creates a recorder. The publisher may be nil when no broker is
// configured.
func NewRecorder(donations domain.DonationRepository, events EventPublisher, logger infra.Logger) *Recorder {
	return &Recorder{donations: donations, events: events, logger: logger}
}

// Record persists the draft. Replays (webhook retries, duplicate client
// confirmations) return created=false with a nil error: a duplicate
// correlation id means the payment is already recorded, which callers must
// treat as success. Storage failures propagate so the provider retries.
func (r *Recorder) Record(ctx context.Context, draft DonationDraft) (bool, error) {
	if draft.PaymentID == "" || draft.CampaignID == "" {
		return false, fmt.Errorf("donation draft missing correlation or campaign id")
	}
	if draft.Amount <= 0 {
		return false, fmt.Errorf("donation draft has non-positive amount %d", draft.Amount)
	}

	donation := &domain.Donation{
		ID:                uuid.NewString(),
		CampaignID:        draft.CampaignID,
		Amount:            draft.Amount,
		DonorName:         draft.DonorName,
		DonorEmail:        draft.DonorEmail,
		Message:           draft.Message,
		Provider:          draft.Provider,
		ProviderSessionID: draft.SessionID,
		ProviderPaymentID: draft.PaymentID,
	}

	created, err := r.donations.Create(ctx, donation)
	if err != nil {
		return false, fmt.Errorf("persist donation: %w", err)
	}
	if !created {
		r.logger.Debug().
			Str("payment_id", draft.PaymentID).
			Str("provider", draft.Provider).
			Msg("duplicate donation delivery ignored")
		return false, nil
	}

	if r.events != nil {
		if err := r.events.DonationRecorded(ctx, donation); err != nil {
			r.logger.Warn().Err(err).
				Str("donation_id", donation.ID).
				Msg("failed to publish donation event")
		}
	}

	r.logger.Info().
		Str("donation_id", donation.ID).
		Str("campaign_id", donation.CampaignID).
		Str("provider", donation.Provider).
		Int64("amount", donation.Amount).
		Msg("donation recorded")
	return true, nil
}
