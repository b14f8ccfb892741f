package leaderboard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"donatewall/internal/domain"
)

// DefaultFallback returns the demo donors shown when no feed is configured.
func DefaultFallback() []domain.DonationEntry {
	day := func(d int) time.Time { return time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC) }
	return []domain.DonationEntry{
		{Name: domain.AnonymousName, Tier: "Legend", Amount: 300, Date: day(18), Anonymous: true},
		{Name: "John D.", Tier: "Legend", Amount: 250, Date: day(16)},
		{Name: "Sarah M.", Tier: "Benefactor", Amount: 175, Date: day(14)},
		{Name: domain.AnonymousName, Tier: "Benefactor", Amount: 120, Date: day(12), Anonymous: true},
		{Name: "Mike T.", Tier: "Patron", Amount: 85, Date: day(10)},
		{Name: "Emily R.", Tier: "Patron", Amount: 60, Date: day(8)},
		{Name: domain.AnonymousName, Tier: "Supporter", Amount: 45, Date: day(6), Anonymous: true},
		{Name: "Chris L.", Tier: "Supporter", Amount: 35, Date: day(4)},
		{Name: "Alex K.", Tier: "Supporter", Amount: 25, Date: day(2)},
		{Name: "Jordan P.", Tier: "Participant", Amount: 10, Date: day(1)},
	}
}

type fallbackRecord struct {
	Name      string  `yaml:"name"`
	Tier      string  `yaml:"tier"`
	Amount    float64 `yaml:"amount"`
	Date      string  `yaml:"date"`
	Anonymous bool    `yaml:"anonymous"`
}

// LoadFallbackFile reads a YAML list of donors to use instead of the
// built-in demo data. Dates are required so the file is reproducible.
func LoadFallbackFile(path string) ([]domain.DonationEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: read fallback file: %w", err)
	}
	return decodeFallback(data)
}

func decodeFallback(data []byte) ([]domain.DonationEntry, error) {
	var records []fallbackRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("leaderboard: decode fallback file: %w", err)
	}
	entries := make([]domain.DonationEntry, 0, len(records))
	for i, rec := range records {
		date, ok := ParseDate(rec.Date)
		if !ok {
			return nil, fmt.Errorf("leaderboard: fallback entry %d: invalid date %q", i, rec.Date)
		}
		if rec.Amount < 0 {
			return nil, fmt.Errorf("leaderboard: fallback entry %d: %w", i, domain.ErrInvalidAmount)
		}
		entry := domain.DonationEntry{
			Name:      strings.TrimSpace(rec.Name),
			Tier:      strings.TrimSpace(rec.Tier),
			Amount:    rec.Amount,
			Date:      date,
			Anonymous: rec.Anonymous,
		}
		if entry.Name == "" {
			entry.Name = domain.AnonymousName
		}
		if entry.Tier == "" {
			entry.Tier = string(domain.TierForAmount(rec.Amount))
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
