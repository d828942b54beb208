package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"patungan/internal/domain"
)

// DonationRepositoryPG implements domain.DonationRepository using PostgreSQL.
type DonationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(pool *pgxpool.Pool) *DonationRepositoryPG {
	return &DonationRepositoryPG{pool: pool}
}

// Create inserts a donation. The unique index on provider_payment_id is the
// sole concurrency control: a replayed or concurrent insert with the same
// correlation id hits ON CONFLICT DO NOTHING and is reported as created=false,
// which callers must treat as success.
func (r *DonationRepositoryPG) Create(ctx context.Context, d *domain.Donation) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
INSERT INTO donations (id, campaign_id, amount_int, donor_name, donor_email, message, provider, provider_session_id, provider_payment_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
ON CONFLICT (provider_payment_id) DO NOTHING;
`, d.ID, d.CampaignID, d.Amount, d.DonorName, d.DonorEmail, d.Message, d.Provider, d.ProviderSessionID, d.ProviderPaymentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Progress returns the aggregate raised amount and donation count for a campaign.
func (r *DonationRepositoryPG) Progress(ctx context.Context, campaignID string) (*domain.CampaignProgress, error) {
	row := r.pool.QueryRow(ctx, `
SELECT COALESCE(SUM(amount_int), 0)::bigint, COUNT(*)::bigint
FROM donations
WHERE campaign_id = $1;
`, campaignID)

	progress := domain.CampaignProgress{CampaignID: campaignID}
	if err := row.Scan(&progress.Raised, &progress.Donations); err != nil {
		return nil, err
	}
	return &progress, nil
}

// ListRecent returns recent donations for a campaign, newest first.
func (r *DonationRepositoryPG) ListRecent(ctx context.Context, campaignID string, limit int) ([]domain.Donation, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, campaign_id, amount_int, donor_name, message, provider, created_at
FROM donations
WHERE campaign_id = $1
ORDER BY created_at DESC
LIMIT $2;
`, campaignID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Donation
	for rows.Next() {
		var d domain.Donation
		if err := rows.Scan(&d.ID, &d.CampaignID, &d.Amount, &d.DonorName, &d.Message, &d.Provider, &d.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
