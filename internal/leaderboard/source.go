package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"donatewall/internal/domain"
	"donatewall/internal/infra"
	"donatewall/internal/sqlinline"
)

// maxFeedBytes bounds how much of a sheet response is read.
const maxFeedBytes = 4 << 20

// Source supplies unranked leaderboard entries.
type Source interface {
	Name() string
	Fetch(ctx context.Context, now time.Time) ([]domain.DonationEntry, error)
}

// SheetsOptions configures a published Google Sheets source.
type SheetsOptions struct {
	URL        string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// SheetsSource fetches a sheet published through the gviz JSON endpoint.
type SheetsSource struct {
	url        string
	httpClient *http.Client
	logger     *infra.Logger
}

// NewSheetsSource validates the endpoint and applies defaults.
func NewSheetsSource(opts SheetsOptions) (*SheetsSource, error) {
	raw := strings.TrimSpace(opts.URL)
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("leaderboard: invalid sheets url %q", opts.URL)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &SheetsSource{url: parsed.String(), httpClient: httpClient, logger: logger}, nil
}

func (s *SheetsSource) Name() string { return "sheets" }

// Fetch issues a single GET and parses the response. Transport failures,
// non-2xx statuses and deadline expiry are reported as ErrFeedUnavailable.
func (s *SheetsSource) Fetch(ctx context.Context, now time.Time) ([]domain.DonationEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrFeedUnavailable, err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", domain.ErrFeedUnavailable, err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrFeedUnavailable, resp.StatusCode)
	}

	entries, err := parse(raw, now, func(c DefaultedCell) {
		s.logger.Debug().
			Int("row", c.Row).
			Str("column", c.Column).
			Interface("raw", c.Raw).
			Msg("leaderboard: cell replaced by default")
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Int("entries", len(entries)).Int("bytes", len(raw)).Msg("leaderboard: sheet parsed")
	return entries, nil
}

// DatabaseSource reads donations recorded by the donation form.
type DatabaseSource struct {
	sql   infra.SQLQuerier
	limit int
}

// NewDatabaseSource reads at most limit donations; non-positive limits mean 500.
func NewDatabaseSource(sql infra.SQLQuerier, limit int) *DatabaseSource {
	if limit <= 0 {
		limit = 500
	}
	return &DatabaseSource{sql: sql, limit: limit}
}

func (s *DatabaseSource) Name() string { return "database" }

func (s *DatabaseSource) Fetch(ctx context.Context, now time.Time) ([]domain.DonationEntry, error) {
	rows, err := s.sql.Query(ctx, sqlinline.QLeaderboardDonations, s.limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query donations: %w", domain.ErrFeedUnavailable, err)
	}
	defer rows.Close()

	var entries []domain.DonationEntry
	for rows.Next() {
		var (
			name, tier      string
			amount          int64
			createdAt       time.Time
			show, anonymous string
		)
		if err := rows.Scan(&name, &tier, &amount, &createdAt, &show, &anonymous); err != nil {
			return nil, fmt.Errorf("%w: scan donation: %w", domain.ErrFeedUnavailable, err)
		}
		if !truthyText(show) {
			continue
		}
		entry := domain.DonationEntry{
			Name:      strings.TrimSpace(name),
			Tier:      strings.TrimSpace(tier),
			Amount:    float64(amount),
			Date:      domain.CalendarDate(createdAt),
			Anonymous: truthyText(anonymous),
		}
		if entry.Name == "" {
			entry.Name = domain.AnonymousName
		}
		if entry.Tier == "" {
			entry.Tier = string(domain.TierForAmount(entry.Amount))
		}
		if entry.Amount < 0 {
			entry.Amount = 0
		}
		if createdAt.IsZero() {
			entry.Date = domain.CalendarDate(now)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate donations: %w", domain.ErrFeedUnavailable, err)
	}
	return entries, nil
}

// StaticSource serves a fixed list, typically the fallback dataset.
type StaticSource struct {
	entries []domain.DonationEntry
}

func NewStaticSource(entries []domain.DonationEntry) *StaticSource {
	return &StaticSource{entries: entries}
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Fetch(ctx context.Context, _ time.Time) ([]domain.DonationEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFeedUnavailable, err)
	}
	out := make([]domain.DonationEntry, len(s.entries))
	copy(out, s.entries)
	for i := range out {
		out[i].Rank = 0
	}
	return out, nil
}

type emptySource struct{}

func (emptySource) Name() string { return "none" }

func (emptySource) Fetch(context.Context, time.Time) ([]domain.DonationEntry, error) {
	return nil, nil
}

// SourceConfig lists every place entries can come from. The first one set
// wins: sheets URL, then database, then the fallback dataset.
type SourceConfig struct {
	SheetsURL    string
	HTTPClient   *http.Client
	DB           infra.SQLQuerier
	UseFallback  bool
	FallbackFile string
	Logger       *infra.Logger
}

// ResolveSource picks the source described by cfg. With nothing configured
// the source yields an empty leaderboard.
func ResolveSource(cfg SourceConfig) (Source, error) {
	switch {
	case strings.TrimSpace(cfg.SheetsURL) != "":
		return NewSheetsSource(SheetsOptions{URL: cfg.SheetsURL, HTTPClient: cfg.HTTPClient, Logger: cfg.Logger})
	case cfg.DB != nil:
		return NewDatabaseSource(cfg.DB, 0), nil
	case cfg.UseFallback:
		if cfg.FallbackFile == "" {
			return NewStaticSource(DefaultFallback()), nil
		}
		entries, err := LoadFallbackFile(cfg.FallbackFile)
		if err != nil {
			return nil, err
		}
		return NewStaticSource(entries), nil
	default:
		return emptySource{}, nil
	}
}

// IsFeedError reports whether err is one of the recoverable feed failures.
func IsFeedError(err error) bool {
	return errors.Is(err, domain.ErrFeedUnavailable) || errors.Is(err, domain.ErrMalformedFeed)
}
