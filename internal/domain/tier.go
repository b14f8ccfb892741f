package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Tier is a named donation bracket.
type Tier string

const (
	TierParticipant Tier = "Participant"
	TierSupporter   Tier = "Supporter"
	TierPatron      Tier = "Patron"
	TierBenefactor  Tier = "Benefactor"
	TierLegend      Tier = "Legend"
)

// Minimum donation, in whole dollars, for each tier.
const (
	MinSupporter  = 25
	MinPatron     = 50
	MinBenefactor = 100
	MinLegend     = 250

	// MinShipping is the amount at which the donation form asks for a
	// shipping address.
	MinShipping = 25
)

// Tiers lists every tier from lowest to highest.
var Tiers = []Tier{TierParticipant, TierSupporter, TierPatron, TierBenefactor, TierLegend}

// TierForAmount maps a donation amount to its bracket.
func TierForAmount(amount float64) Tier {
	switch {
	case amount >= MinLegend:
		return TierLegend
	case amount >= MinBenefactor:
		return TierBenefactor
	case amount >= MinPatron:
		return TierPatron
	case amount >= MinSupporter:
		return TierSupporter
	default:
		return TierParticipant
	}
}

// ParseTier matches s against the known tiers ignoring case.
func ParseTier(s string) (Tier, bool) {
	s = strings.TrimSpace(s)
	for _, t := range Tiers {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return "", false
}

// Level returns the zero-based position of t in Tiers, or -1 for unknown tiers.
func (t Tier) Level() int {
	for i, known := range Tiers {
		if known == t {
			return i
		}
	}
	return -1
}

// Less reports whether t ranks below other.
func (t Tier) Less(other Tier) bool {
	return t.Level() < other.Level()
}

// Quote is what the donation form shows for a chosen amount.
type Quote struct {
	Amount           int    `json:"amount"`
	Tier             Tier   `json:"tier,omitempty"`
	Label            string `json:"label"`
	ShippingRequired bool   `json:"shipping_required"`
	OfferAnonymous   bool   `json:"offer_anonymous"`
	Anonymous        bool   `json:"anonymous"`
}

// NewQuote evaluates the donation form rules. Amounts below one dollar
// produce no tier. The anonymity option is only offered to donors who chose
// to appear on the leaderboard.
func NewQuote(amount int, showOnLeaderboard, anonymous bool) Quote {
	q := Quote{
		Amount:           amount,
		Label:            "Select an amount",
		ShippingRequired: amount >= MinShipping,
		OfferAnonymous:   showOnLeaderboard,
		Anonymous:        showOnLeaderboard && anonymous,
	}
	if amount >= 1 {
		q.Tier = TierForAmount(float64(amount))
		q.Label = fmt.Sprintf("%s ($%d)", q.Tier, amount)
	}
	return q
}

// ParseWholeAmount parses form input the way the donation form does: leading
// digits only, anything else is zero.
func ParseWholeAmount(raw string) int {
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0
	}
	return n
}
