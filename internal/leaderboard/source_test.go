package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"donatewall/internal/domain"
	"donatewall/internal/sqlinline"
)

type donationRow struct {
	name, tier      string
	amount          int64
	createdAt       time.Time
	show, anonymous string
}

type donationQuerier struct {
	rows []donationRow
	err  error
	args []any
}

func (q *donationQuerier) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	if query != sqlinline.QLeaderboardDonations {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	q.args = args
	if q.err != nil {
		return nil, q.err
	}
	return &donationRows{rows: q.rows}, nil
}

type donationRows struct {
	rows []donationRow
	idx  int
}

func (d *donationRows) Next() bool {
	if d.idx >= len(d.rows) {
		return false
	}
	d.idx++
	return true
}

func (d *donationRows) Scan(dest ...any) error {
	if len(dest) != 6 {
		return fmt.Errorf("unexpected scan args: %d", len(dest))
	}
	row := d.rows[d.idx-1]
	*dest[0].(*string) = row.name
	*dest[1].(*string) = row.tier
	*dest[2].(*int64) = row.amount
	*dest[3].(*time.Time) = row.createdAt
	*dest[4].(*string) = row.show
	*dest[5].(*string) = row.anonymous
	return nil
}

func (d *donationRows) Err() error { return nil }
func (d *donationRows) Close() {}
func (d *donationRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (d *donationRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (d *donationRows) Values() ([]any, error) { return nil, errors.New("not supported") }
func (d *donationRows) RawValues() [][]byte { return nil }
func (d *donationRows) Conn() *pgx.Conn { return nil }

func TestDatabaseSourceFetch(t *testing.T) {
	q := &donationQuerier{rows: []donationRow{
		{name: "Dewi", amount: 120, createdAt: time.Date(2026, 1, 3, 22, 15, 0, 0, time.UTC), show: "true"},
		{name: "Hidden", amount: 80, createdAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
		{name: "", tier: "Legend", amount: 10, createdAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), show: "Yes", anonymous: "TRUE"},
	}}
	source := NewDatabaseSource(q, 0)

	entries, err := source.Fetch(context.Background(), loadDay)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(q.args) != 1 || q.args[0] != 500 {
		t.Fatalf("query args = %#v", q.args)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Tier != "Benefactor" || !entries[0].Date.Equal(date(2026, 1, 3)) {
		t.Fatalf("first entry = %+v", entries[0])
	}
	if entries[1].Name != domain.AnonymousName || entries[1].Tier != "Legend" || !entries[1].Anonymous {
		t.Fatalf("second entry = %+v", entries[1])
	}
}

func TestDatabaseSourceFlagText(t *testing.T) {
	q := &donationQuerier{rows: []donationRow{
		{name: "Ayu", amount: 30, createdAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), show: "TRUE", anonymous: "yes"},
		{name: "Bima", amount: 40, createdAt: time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), show: "yes"},
		{name: "Citra", amount: 50, createdAt: time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC), show: "maybe"},
		{name: "Dian", amount: 60, createdAt: time.Date(2026, 1, 29, 0, 0, 0, 0, time.UTC), show: "true", anonymous: "maybe"},
	}}

	entries, err := NewDatabaseSource(q, 0).Fetch(context.Background(), loadDay)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "Ayu" || entries[1].Name != "Dian" {
		t.Fatalf("entries = %+v, want Ayu and Dian only", entries)
	}
	if entries[0].Anonymous || entries[1].Anonymous {
		t.Fatalf("only exact flag values mark a donor anonymous: %+v", entries)
	}
}

func TestDatabaseSourceQueryError(t *testing.T) {
	source := NewDatabaseSource(&donationQuerier{err: errors.New("connection reset")}, 10)
	_, err := source.Fetch(context.Background(), loadDay)
	if !errors.Is(err, domain.ErrFeedUnavailable) {
		t.Fatalf("Fetch error = %v, want ErrFeedUnavailable", err)
	}
}

func TestStaticSourceReturnsCopy(t *testing.T) {
	base := DefaultFallback()
	source := NewStaticSource(base)
	got, err := source.Fetch(context.Background(), loadDay)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	got[0].Name = "changed"
	again, _ := source.Fetch(context.Background(), loadDay)
	if again[0].Name != domain.AnonymousName {
		t.Fatalf("static source shares its backing slice")
	}
}

func TestResolveSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fallback.yaml")
	if err := os.WriteFile(path, []byte("- name: Rina\n  amount: 60\n  date: 2026-03-01\n"), 0o644); err != nil {
		t.Fatalf("write fallback: %v", err)
	}

	tests := []struct {
		name string
		cfg  SourceConfig
		want string
	}{
		{name: "sheets wins", cfg: SourceConfig{SheetsURL: "https://example.com/tq", DB: &donationQuerier{}, UseFallback: true}, want: "sheets"},
		{name: "database", cfg: SourceConfig{DB: &donationQuerier{}, UseFallback: true}, want: "database"},
		{name: "fallback", cfg: SourceConfig{UseFallback: true}, want: "static"},
		{name: "fallback file", cfg: SourceConfig{UseFallback: true, FallbackFile: path}, want: "static"},
		{name: "nothing", cfg: SourceConfig{}, want: "none"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			source, err := ResolveSource(tc.cfg)
			if err != nil {
				t.Fatalf("ResolveSource returned error: %v", err)
			}
			if source.Name() != tc.want {
				t.Fatalf("source = %q, want %q", source.Name(), tc.want)
			}
		})
	}

	if _, err := ResolveSource(SourceConfig{SheetsURL: "ftp://example.com"}); err == nil {
		t.Fatalf("expected error for non-http sheets url")
	}
	if _, err := ResolveSource(SourceConfig{UseFallback: true, FallbackFile: filepath.Join(dir, "missing.yaml")}); err == nil {
		t.Fatalf("expected error for missing fallback file")
	}
}

func TestDecodeFallback(t *testing.T) {
	entries, err := decodeFallback([]byte(`
- name: Rina
  amount: 60
  date: "2026-03-01"
- tier: Legend
  amount: 400
  date: 2026-03-02
  anonymous: true
`))
	if err != nil {
		t.Fatalf("decodeFallback returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Tier != "Patron" || !entries[0].Date.Equal(date(2026, 3, 1)) {
		t.Fatalf("first entry = %+v", entries[0])
	}
	if entries[1].Name != domain.AnonymousName || !entries[1].Anonymous {
		t.Fatalf("second entry = %+v", entries[1])
	}

	if _, err := decodeFallback([]byte("- name: X\n  amount: 5\n  date: someday\n")); err == nil {
		t.Fatalf("expected error for invalid date")
	}
	if _, err := decodeFallback([]byte("- name: X\n  amount: -5\n  date: 2026-01-01\n")); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
