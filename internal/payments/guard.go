package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"patungan/internal/domain"
)

// Guard decides whether a campaign currently accepts payments. It fails
// closed and is evaluated fresh on every session or order creation: a creator
// may revoke sharing between page load and checkout.
type Guard struct {
	campaigns domain.CampaignRepository
	now       func() time.Time
}

// NewGuard creates a campaign access guard.
func NewGuard(campaigns domain.CampaignRepository) *Guard {
	return &Guard{campaigns: campaigns, now: time.Now}
}

// IsPayable returns the payability of the campaign. A nil error with
// Payable=false carries the distinguishing reason; errors are storage
// failures only.
func (g *Guard) IsPayable(ctx context.Context, campaignID string) (domain.Payability, error) {
	campaign, err := g.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Payability{Reason: domain.PayReasonNotFound}, nil
		}
		return domain.Payability{}, fmt.Errorf("load campaign: %w", err)
	}

	link, err := g.campaigns.GetShareLink(ctx, campaign.PitchID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Payability{Reason: domain.PayReasonNotShared}, nil
		}
		return domain.Payability{}, fmt.Errorf("load share link: %w", err)
	}
	if !link.Active() {
		return domain.Payability{Reason: domain.PayReasonNotShared}, nil
	}

	if campaign.EndAt != nil && campaign.EndAt.Before(g.now()) {
		return domain.Payability{Reason: domain.PayReasonExpired}, nil
	}

	return domain.Payability{Payable: true}, nil
}

// NotPayableError carries the guard's reason across the session-creation
// boundary so handlers can surface it to the payer.
type NotPayableError struct {
	Reason domain.PayReason
}

func (e *NotPayableError) Error() string {
	return fmt.Sprintf("campaign not payable: %s", e.Reason)
}

// Is lets errors.Is match against domain.ErrNotPayable.
func (e *NotPayableError) Is(target error) bool {
	return target == domain.ErrNotPayable
}
