package leaderboard

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"donatewall/internal/domain"
)

// SortKey selects the leaderboard ordering.
type SortKey string

const (
	SortByDate   SortKey = "date"
	SortByAmount SortKey = "amount"
)

// ParseSortKey validates a user-supplied key. An empty string selects date.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByDate:
		return SortByDate, nil
	case SortByAmount:
		return SortByAmount, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidSortKey, s)
	}
}

// SortBy reorders entries in place, newest or largest first, and reassigns
// ranks from 1. Ties keep their previous relative order.
func SortBy(entries []domain.DonationEntry, key SortKey) error {
	switch key {
	case SortByDate:
		slices.SortStableFunc(entries, func(a, b domain.DonationEntry) int {
			return b.Date.Compare(a.Date)
		})
	case SortByAmount:
		slices.SortStableFunc(entries, func(a, b domain.DonationEntry) int {
			return cmp.Compare(b.Amount, a.Amount)
		})
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidSortKey, string(key))
	}
	assignRanks(entries)
	return nil
}

func assignRanks(entries []domain.DonationEntry) {
	for i := range entries {
		entries[i].Rank = i + 1
	}
}
