package leaderboard

import (
	"errors"
	"testing"

	"donatewall/internal/domain"
)

func checkRanks(t *testing.T, entries []domain.DonationEntry) {
	t.Helper()
	for i, e := range entries {
		if e.Rank != i+1 {
			t.Fatalf("entry %d (%s) rank = %d, want %d", i, e.Name, e.Rank, i+1)
		}
	}
}

func TestSortByDateDescending(t *testing.T) {
	entries := DefaultFallback()
	entries[0], entries[9] = entries[9], entries[0]

	if err := SortBy(entries, SortByDate); err != nil {
		t.Fatalf("SortBy returned error: %v", err)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Date.Before(entries[i].Date) {
			t.Fatalf("dates out of order at %d: %s before %s", i, entries[i-1].Date, entries[i].Date)
		}
	}
	checkRanks(t, entries)
}

func TestSortByAmountDescending(t *testing.T) {
	entries := DefaultFallback()
	if err := SortBy(entries, SortByDate); err != nil {
		t.Fatalf("SortBy returned error: %v", err)
	}
	entries = append(entries, domain.DonationEntry{Name: "Late", Tier: "Legend", Amount: 999, Date: date(2025, 12, 1)})

	if err := SortBy(entries, SortByAmount); err != nil {
		t.Fatalf("SortBy returned error: %v", err)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Amount < entries[i].Amount {
			t.Fatalf("amounts out of order at %d: %v < %v", i, entries[i-1].Amount, entries[i].Amount)
		}
	}
	if entries[0].Name != "Late" {
		t.Fatalf("largest donation should lead, got %q", entries[0].Name)
	}
	checkRanks(t, entries)
}

func TestSortByIsStable(t *testing.T) {
	day := date(2026, 1, 1)
	entries := []domain.DonationEntry{
		{Name: "first", Amount: 10, Date: day},
		{Name: "second", Amount: 20, Date: day},
		{Name: "third", Amount: 10, Date: day},
		{Name: "fourth", Amount: 20, Date: day},
	}
	if err := SortBy(entries, SortByAmount); err != nil {
		t.Fatalf("SortBy returned error: %v", err)
	}
	want := []string{"second", "fourth", "first", "third"}
	for i, name := range want {
		if entries[i].Name != name {
			t.Fatalf("position %d = %q, want %q", i, entries[i].Name, name)
		}
	}
	if err := SortBy(entries, SortByDate); err != nil {
		t.Fatalf("SortBy returned error: %v", err)
	}
	for i, name := range want {
		if entries[i].Name != name {
			t.Fatalf("equal dates reordered: position %d = %q, want %q", i, entries[i].Name, name)
		}
	}
	checkRanks(t, entries)
}

func TestSortByRejectsUnknownKey(t *testing.T) {
	entries := DefaultFallback()
	if err := SortBy(entries, SortKey("name")); !errors.Is(err, domain.ErrInvalidSortKey) {
		t.Fatalf("SortBy error = %v, want ErrInvalidSortKey", err)
	}
	if entries[0].Rank != 0 {
		t.Fatalf("ranks should be untouched on error")
	}
}

func TestParseSortKey(t *testing.T) {
	for in, want := range map[string]SortKey{"": SortByDate, "date": SortByDate, " Amount ": SortByAmount} {
		got, err := ParseSortKey(in)
		if err != nil || got != want {
			t.Fatalf("ParseSortKey(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseSortKey("rank"); !errors.Is(err, domain.ErrInvalidSortKey) {
		t.Fatalf("expected ErrInvalidSortKey, got %v", err)
	}
}
