package domain

import "time"

// AnonymousName is the display name used for anonymous donors and for rows
// that arrive without a name.
const AnonymousName = "Anonymous"

// DonationEntry is one leaderboard row. Name, Tier, Amount and Date form the
// entry identity; Anonymous is applied when the entry is projected for display
// and never rewrites Name. Rank is derived from the current ordering.
type DonationEntry struct {
	Name      string
	Tier      string
	Amount    float64
	Date      time.Time
	Anonymous bool
	Rank      int
}

// DisplayName returns the name shown to visitors.
func (e DonationEntry) DisplayName() string {
	if e.Anonymous || e.Name == "" {
		return AnonymousName
	}
	return e.Name
}

// SameIdentity reports whether both entries describe the same donation.
func (e DonationEntry) SameIdentity(other DonationEntry) bool {
	return e.Name == other.Name &&
		e.Tier == other.Tier &&
		e.Amount == other.Amount &&
		e.Date.Equal(other.Date)
}

// Draft is a manually injected donation awaiting normalization.
type Draft struct {
	Name      string
	Tier      string
	Amount    float64
	Date      time.Time
	Anonymous bool
}

// CalendarDate truncates t to midnight UTC of its calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
