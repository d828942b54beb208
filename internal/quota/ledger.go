// Package quota meters AI-assisted drafting per account and calendar day.
package quota

import (
	"context"
	"fmt"
	"time"

	"patungan/internal/domain"
)

// Ledger enforces per-account daily ceilings. The check and the increment are
// one atomic store operation; the ledger itself holds no counter state, so any
// number of processes can share one store.
type Ledger struct {
	store    domain.UsageCounterRepository
	ceilings map[domain.ResourceKind]int
	now      func() time.Time
}

// NewLedger creates a ledger with per-kind ceilings. Ceilings are
// configuration, not ledger policy.
func NewLedger(store domain.UsageCounterRepository, ceilings map[domain.ResourceKind]int) *Ledger {
	return &Ledger{store: store, ceilings: ceilings, now: time.Now}
}

// DayKey buckets a timestamp into a UTC calendar day. A new day is a new
// counter row; no reset job exists.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// CheckAndIncrement consumes one unit of the kind's daily budget. Callers must
// invoke it strictly before the metered action and skip the action entirely
// when Allowed is false.
func (l *Ledger) CheckAndIncrement(ctx context.Context, accountID string, kind domain.ResourceKind) (domain.UsageDecision, error) {
	if accountID == "" {
		return domain.UsageDecision{}, fmt.Errorf("account id is required")
	}
	if !kind.Valid() {
		return domain.UsageDecision{}, fmt.Errorf("unknown resource kind %q", kind)
	}

	ceiling := l.ceilings[kind]
	if ceiling <= 0 {
		return domain.UsageDecision{Ceiling: ceiling}, nil
	}

	day := DayKey(l.now())
	count, allowed, err := l.store.Increment(ctx, accountID, day, kind, ceiling)
	if err != nil {
		return domain.UsageDecision{}, fmt.Errorf("increment usage counter: %w", err)
	}
	return domain.UsageDecision{Allowed: allowed, Count: count, Ceiling: ceiling}, nil
}

// Ceiling reports the configured daily ceiling for a kind.
func (l *Ledger) Ceiling(kind domain.ResourceKind) int {
	return l.ceilings[kind]
}
