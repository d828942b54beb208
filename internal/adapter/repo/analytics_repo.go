package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"patungan/internal/domain"
)

// AnalyticsRepositoryPG implements domain.AnalyticsRepository using PostgreSQL.
type AnalyticsRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository constructs the repository.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepositoryPG {
	return &AnalyticsRepositoryPG{pool: pool}
}

// IncrementDonation upserts the daily donation counters for one recorded donation.
func (r *AnalyticsRepositoryPG) IncrementDonation(ctx context.Context, day, provider string, amount int64) error {
	stripeDelta := 0
	razorpayDelta := 0
	switch provider {
	case domain.ProviderStripe:
		stripeDelta = 1
	case domain.ProviderRazorpay:
		razorpayDelta = 1
	}

	_, err := r.pool.Exec(ctx, `
INSERT INTO analytics_daily (day, donations, amount_int, stripe_count, razorpay_count)
VALUES ($1, 1, $2, $3, $4)
ON CONFLICT (day) DO UPDATE SET
    donations = analytics_daily.donations + 1,
    amount_int = analytics_daily.amount_int + EXCLUDED.amount_int,
    stripe_count = analytics_daily.stripe_count + EXCLUDED.stripe_count,
    razorpay_count = analytics_daily.razorpay_count + EXCLUDED.razorpay_count,
    updated_at = now();
`, day, amount, stripeDelta, razorpayDelta)
	return err
}

// GetSummary returns the most recent daily aggregate.
func (r *AnalyticsRepositoryPG) GetSummary(ctx context.Context) (*domain.AnalyticsDaily, error) {
	row := r.pool.QueryRow(ctx, `
SELECT day, donations, amount_int, stripe_count, razorpay_count, created_at, updated_at
FROM analytics_daily
ORDER BY day DESC
LIMIT 1;
`)

	var summary domain.AnalyticsDaily
	if err := row.Scan(
		&summary.Day,
		&summary.Donations,
		&summary.AmountTotal,
		&summary.StripeCount,
		&summary.RazorpayCount,
		&summary.CreatedAt,
		&summary.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &summary, nil
}
