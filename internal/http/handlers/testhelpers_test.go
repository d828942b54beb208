package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"patungan/internal/domain"
	"patungan/internal/infra"
	"patungan/internal/payments"
	"patungan/internal/quota"
)

// fakeSQL satisfies infra.SQLExecutor without a database. Each call pops the
// next queued row result; Exec calls are counted only.
type fakeSQL struct {
	rows      []SimpleRow
	queryRows pgx.Rows
	queryErr  error
	execCalls int
	execErr   error
}

func (f *fakeSQL) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	f.execCalls++
	return pgconn.CommandTag{}, f.execErr
}

func (f *fakeSQL) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if len(f.rows) == 0 {
		return SimpleRow{}
	}
	row := f.rows[0]
	f.rows = f.rows[1:]
	return row
}

func (f *fakeSQL) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return f.queryRows, f.queryErr
}

type fakeCampaignStore struct {
	campaign *domain.Campaign
	link     *domain.ShareLink
}

func (f *fakeCampaignStore) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	if f.campaign == nil || f.campaign.ID != id {
		return nil, domain.ErrNotFound
	}
	return f.campaign, nil
}

func (f *fakeCampaignStore) GetShareLink(ctx context.Context, pitchID string) (*domain.ShareLink, error) {
	if f.link == nil || f.link.PitchID != pitchID {
		return nil, domain.ErrNotFound
	}
	return f.link, nil
}

type fakeDonationStore struct {
	byPaymentID map[string]*domain.Donation
	failWith    error
}

func newFakeDonationStore() *fakeDonationStore {
	return &fakeDonationStore{byPaymentID: map[string]*domain.Donation{}}
}

func (f *fakeDonationStore) Create(ctx context.Context, d *domain.Donation) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	if _, ok := f.byPaymentID[d.ProviderPaymentID]; ok {
		return false, nil
	}
	f.byPaymentID[d.ProviderPaymentID] = d
	return true, nil
}

func (f *fakeDonationStore) Progress(ctx context.Context, campaignID string) (*domain.CampaignProgress, error) {
	return &domain.CampaignProgress{CampaignID: campaignID}, nil
}

func (f *fakeDonationStore) ListRecent(ctx context.Context, campaignID string, limit int) ([]domain.Donation, error) {
	return nil, nil
}

type fakeCounterStore struct {
	counts map[string]int
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{counts: map[string]int{}}
}

func (f *fakeCounterStore) Increment(ctx context.Context, accountID, day string, kind domain.ResourceKind, ceiling int) (int, bool, error) {
	key := accountID + "/" + day + "/" + string(kind)
	if f.counts[key] >= ceiling {
		return f.counts[key], false, nil
	}
	f.counts[key]++
	return f.counts[key], true, nil
}

func (f *fakeCounterStore) Count(ctx context.Context, accountID, day string, kind domain.ResourceKind) (int, error) {
	return f.counts[accountID+"/"+day+"/"+string(kind)], nil
}

// testApp wires an App around in-memory stores and a real Stripe/Razorpay
// verification path using test secrets.
const (
	testWebhookSecret  = "whsec_test_x"
	testRazorpaySecret = "rzp_secret_x"
)

func newTestApp() (*App, *fakeDonationStore) {
	campaigns := &fakeCampaignStore{
		campaign: &domain.Campaign{ID: "camp-1", PitchID: "pitch-1", Title: "Kopi Nusantara"},
		link:     &domain.ShareLink{ID: "link-1", PitchID: "pitch-1", Visibility: domain.VisibilityPublic},
	}
	donations := newFakeDonationStore()
	guard := payments.NewGuard(campaigns)
	logger := infra.NewLogger("test")

	stripeRail, err := payments.NewStripeRail(guard, payments.StripeOptions{
		SecretKey:     "sk_test_x",
		WebhookSecret: testWebhookSecret,
		MinAmount:     100,
	})
	if err != nil {
		panic(err)
	}
	razorpayRail, err := payments.NewRazorpayRail(guard, payments.RazorpayOptions{
		KeyID:     "rzp_key_x",
		KeySecret: testRazorpaySecret,
		MinAmount: 100,
	})
	if err != nil {
		panic(err)
	}

	ledger := quota.NewLedger(newFakeCounterStore(), map[domain.ResourceKind]int{
		domain.KindTextAssist:    2,
		domain.KindImageGenerate: 1,
	})

	app := &App{
		SQL:       &fakeSQL{},
		Logger:    logger,
		Campaigns: campaigns,
		Guard:     guard,
		Stripe:    stripeRail,
		Razorpay:  razorpayRail,
		Recorder:  payments.NewRecorder(donations, nil, logger),
		Quota:     ledger,
	}
	return app, donations
}

// stripeSigHeader signs a webhook payload the way the provider does.
func stripeSigHeader(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", at.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

// razorpaySign produces the provider MAC over orderId|paymentId.
func razorpaySign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
