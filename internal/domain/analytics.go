package domain

import "time"

// AnalyticsDaily stores aggregated donation metrics for a specific day.
type AnalyticsDaily struct {
	Day           time.Time
	Donations     int
	AmountTotal   int64
	StripeCount   int
	RazorpayCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
