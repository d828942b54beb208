package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"patungan/internal/domain"
)

// kindColumns maps metered resource kinds to their counter column. Kinds share
// one row per (account, day) but count independently.
var kindColumns = map[domain.ResourceKind]string{
	domain.KindTextAssist:    "text_assist_count",
	domain.KindImageGenerate: "image_generate_count",
}

// UsageCounterRepositoryPG implements domain.UsageCounterRepository with a
// single conditional upsert, so the under-ceiling check and the increment are
// one atomic statement. Concurrent calls for the same key serialize on the
// row; different keys never contend.
type UsageCounterRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUsageCounterRepository creates a new usage counter repo.
func NewUsageCounterRepository(pool *pgxpool.Pool) *UsageCounterRepositoryPG {
	return &UsageCounterRepositoryPG{pool: pool}
}

// Increment bumps the counter for (account, kind, day) unless it is already at
// the ceiling. The day row is created lazily on first use.
func (r *UsageCounterRepositoryPG) Increment(ctx context.Context, accountID, day string, kind domain.ResourceKind, ceiling int) (int, bool, error) {
	col, ok := kindColumns[kind]
	if !ok {
		return 0, false, fmt.Errorf("unknown resource kind %q", kind)
	}

	query := fmt.Sprintf(`
INSERT INTO usage_counters (account_id, day, %[1]s, created_at, updated_at)
VALUES ($1, $2, 1, now(), now())
ON CONFLICT (account_id, day) DO UPDATE
SET %[1]s = usage_counters.%[1]s + 1,
    updated_at = now()
WHERE usage_counters.%[1]s < $3
RETURNING %[1]s;
`, col)

	var count int
	if err := r.pool.QueryRow(ctx, query, accountID, day, ceiling).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Ceiling reached: the conditional update matched no row.
			current, cerr := r.Count(ctx, accountID, day, kind)
			if cerr != nil {
				return 0, false, cerr
			}
			return current, false, nil
		}
		return 0, false, err
	}
	return count, true, nil
}

// Count reads the current counter value; 0 when no row exists yet.
func (r *UsageCounterRepositoryPG) Count(ctx context.Context, accountID, day string, kind domain.ResourceKind) (int, error) {
	col, ok := kindColumns[kind]
	if !ok {
		return 0, fmt.Errorf("unknown resource kind %q", kind)
	}

	query := fmt.Sprintf(`SELECT %s FROM usage_counters WHERE account_id = $1 AND day = $2;`, col)
	var count int
	if err := r.pool.QueryRow(ctx, query, accountID, day).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}
