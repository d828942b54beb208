package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"patungan/internal/domain"
)

// CampaignRepositoryPG implements domain.CampaignRepository using PostgreSQL.
// It is read-only: campaign authoring lives outside this subsystem.
type CampaignRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository creates a new campaign read repo.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepositoryPG {
	return &CampaignRepositoryPG{pool: pool}
}

// GetByID fetches a campaign by UUID.
func (r *CampaignRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, pitch_id, title, description, target_amount_int, end_at, created_at
FROM campaigns
WHERE id = $1;
`, id)

	var c domain.Campaign
	if err := row.Scan(&c.ID, &c.PitchID, &c.Title, &c.Description, &c.TargetAmount, &c.EndAt, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetShareLink fetches the share link governing a pitch. Soft-deleted rows are
// still returned so the guard can distinguish them explicitly.
func (r *CampaignRepositoryPG) GetShareLink(ctx context.Context, pitchID string) (*domain.ShareLink, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, pitch_id, visibility, deleted_at
FROM share_links
WHERE pitch_id = $1;
`, pitchID)

	var link domain.ShareLink
	if err := row.Scan(&link.ID, &link.PitchID, &link.Visibility, &link.DeletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}
