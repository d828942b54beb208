package domain

import "time"

// Campaign is the funding target attached to one pitch. The payment path only
// reads it to decide payability and to label checkout line items.
type Campaign struct {
	ID           string
	PitchID      string
	Title        string
	Description  string
	TargetAmount int64 // minor currency units
	EndAt        *time.Time
	CreatedAt    time.Time
}

// ShareLinkVisibility values as stored on the share link row.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// ShareLink governs whether a pitch, and thus its campaign, is publicly payable.
type ShareLink struct {
	ID         string
	PitchID    string
	Visibility string
	DeletedAt  *time.Time
}

// Active reports whether the link currently exposes the pitch to the public.
func (s ShareLink) Active() bool {
	return s.Visibility == VisibilityPublic && s.DeletedAt == nil
}

// PayReason distinguishes why a campaign is not payable.
type PayReason string

const (
	PayReasonNotFound  PayReason = "not-found"
	PayReasonNotShared PayReason = "not-shared"
	PayReasonExpired   PayReason = "expired"
)

// Payability is the derived state returned by the campaign access guard.
type Payability struct {
	Payable bool
	Reason  PayReason
}
