package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"patungan/internal/domain"
	"patungan/internal/infra"
)

// fakeCampaignRepo serves a single campaign/share-link pair.
type fakeCampaignRepo struct {
	campaign *domain.Campaign
	link     *domain.ShareLink
}

func (f *fakeCampaignRepo) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	if f.campaign == nil || f.campaign.ID != id {
		return nil, domain.ErrNotFound
	}
	return f.campaign, nil
}

func (f *fakeCampaignRepo) GetShareLink(ctx context.Context, pitchID string) (*domain.ShareLink, error) {
	if f.link == nil || f.link.PitchID != pitchID {
		return nil, domain.ErrNotFound
	}
	return f.link, nil
}

// fakeDonationRepo keys inserts by provider payment id like the real store.
type fakeDonationRepo struct {
	byPaymentID map[string]*domain.Donation
	failWith    error
}

func newFakeDonationRepo() *fakeDonationRepo {
	return &fakeDonationRepo{byPaymentID: map[string]*domain.Donation{}}
}

func (f *fakeDonationRepo) Create(ctx context.Context, d *domain.Donation) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	if _, ok := f.byPaymentID[d.ProviderPaymentID]; ok {
		return false, nil
	}
	f.byPaymentID[d.ProviderPaymentID] = d
	return true, nil
}

func (f *fakeDonationRepo) Progress(ctx context.Context, campaignID string) (*domain.CampaignProgress, error) {
	progress := &domain.CampaignProgress{CampaignID: campaignID}
	for _, d := range f.byPaymentID {
		if d.CampaignID == campaignID {
			progress.Raised += d.Amount
			progress.Donations++
		}
	}
	return progress, nil
}

func (f *fakeDonationRepo) ListRecent(ctx context.Context, campaignID string, limit int) ([]domain.Donation, error) {
	var items []domain.Donation
	for _, d := range f.byPaymentID {
		if d.CampaignID == campaignID && len(items) < limit {
			items = append(items, *d)
		}
	}
	return items, nil
}

func payableCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{
		campaign: &domain.Campaign{
			ID:      "camp-1",
			PitchID: "pitch-1",
			Title:   "Kopi Nusantara",
		},
		link: &domain.ShareLink{
			ID:         "link-1",
			PitchID:    "pitch-1",
			Visibility: domain.VisibilityPublic,
		},
	}
}

func testLogger() infra.Logger {
	return infra.NewLogger("test")
}

// stripeSignature builds a valid Stripe-Signature header for the payload.
func stripeSignature(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", at.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}
