package domain

// ResourceKind identifies a metered AI resource. Each kind has an independent
// counter and ceiling within the same day row.
type ResourceKind string

const (
	KindTextAssist    ResourceKind = "text-assist"
	KindImageGenerate ResourceKind = "image-generate"
)

// Valid reports whether the kind is one the ledger meters.
func (k ResourceKind) Valid() bool {
	switch k {
	case KindTextAssist, KindImageGenerate:
		return true
	}
	return false
}

// UsageDecision is the outcome of one check-and-increment call.
type UsageDecision struct {
	Allowed bool
	Count   int
	Ceiling int
}

// Remaining returns how many requests the account has left for the day.
func (d UsageDecision) Remaining() int {
	if d.Count >= d.Ceiling {
		return 0
	}
	return d.Ceiling - d.Count
}
