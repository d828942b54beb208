package domain

import "context"

// CampaignRepository is the read model the payment path consults. It never
// writes: campaign authoring belongs to the surrounding application.
type CampaignRepository interface {
	GetByID(ctx context.Context, id string) (*Campaign, error)
	GetShareLink(ctx context.Context, pitchID string) (*ShareLink, error)
}

// DonationRepository persists donations. Create must rely on the store's
// uniqueness constraint on the provider payment id and report created=false
// on conflict instead of returning an error.
type DonationRepository interface {
	Create(ctx context.Context, donation *Donation) (created bool, err error)
	Progress(ctx context.Context, campaignID string) (*CampaignProgress, error)
	ListRecent(ctx context.Context, campaignID string, limit int) ([]Donation, error)
}

// UsageCounterRepository is the durable keyed-counter store behind the quota
// ledger. Increment must be a single atomic conditional operation per
// (account, kind, day); a read-then-write implementation is incorrect under
// concurrency.
type UsageCounterRepository interface {
	Increment(ctx context.Context, accountID, day string, kind ResourceKind, ceiling int) (count int, allowed bool, err error)
	Count(ctx context.Context, accountID, day string, kind ResourceKind) (int, error)
}

// AnalyticsRepository updates daily donation counters, fed by the worker.
type AnalyticsRepository interface {
	IncrementDonation(ctx context.Context, day, provider string, amount int64) error
	GetSummary(ctx context.Context) (*AnalyticsDaily, error)
}
