package payments

import (
	"context"
	"fmt"
	"strings"

	"patungan/internal/domain"
)

// SessionRequest is the payer-facing input for both rails.
type SessionRequest struct {
	CampaignID string
	Amount     int64 // minor currency units
	DonorName  string
	DonorEmail string
	Message    string
}

// DonationDraft is what a rail reduces a verified provider callback to. The
// recorder persists drafts without caring which rail produced them.
type DonationDraft struct {
	CampaignID string
	Amount     int64
	DonorName  string
	DonorEmail string
	Message    string
	Provider   string
	SessionID  string
	PaymentID  string // provider-correlation identifier, the idempotency key
}

// EventPublisher fans out donation-recorded events. Implementations must be
// safe to skip: publishing is best effort and never fails the payment path.
type EventPublisher interface {
	DonationRecorded(ctx context.Context, d *domain.Donation) error
}

// checkPayable runs the guard and validates payer input for session/order
// creation. Both rails share the same preconditions.
func checkPayable(ctx context.Context, guard *Guard, req SessionRequest, minAmount int64) error {
	pay, err := guard.IsPayable(ctx, req.CampaignID)
	if err != nil {
		return err
	}
	if !pay.Payable {
		if pay.Reason == domain.PayReasonNotFound {
			return domain.ErrNotFound
		}
		return &NotPayableError{Reason: pay.Reason}
	}
	if req.Amount < minAmount {
		return fmt.Errorf("%w: minimum is %d", domain.ErrAmountTooLow, minAmount)
	}
	if strings.TrimSpace(req.DonorName) == "" || strings.TrimSpace(req.DonorEmail) == "" {
		return domain.ErrMissingDonorInfo
	}
	return nil
}
