package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"donatewall/internal/domain"
	"donatewall/internal/infra"
)

// ErrLoadSuperseded is returned by a Load whose result was dropped because a
// newer Load started after it.
var ErrLoadSuperseded = errors.New("leaderboard: load superseded")

// DefaultTimeout bounds a load when Options.Timeout is unset.
const DefaultTimeout = 10 * time.Second

// Status is the load lifecycle of a Feed.
type Status string

const (
	StatusUnloaded Status = "unloaded"
	StatusLoading  Status = "loading"
	StatusLoaded   Status = "loaded"
	StatusFailed   Status = "failed"
)

// Options configures a Feed.
type Options struct {
	Source  Source
	Timeout time.Duration
	Logger  *infra.Logger
	Now     func() time.Time
}

// Feed owns the leaderboard state for the lifetime of the process: the
// current entries, the active sort key and the load lifecycle. It is safe
// for concurrent use.
type Feed struct {
	source  Source
	timeout time.Duration
	logger  *infra.Logger
	now     func() time.Time

	mu         sync.Mutex
	entries    []domain.DonationEntry
	sortKey    SortKey
	status     Status
	lastErr    error
	loadedAt   time.Time
	generation uint64
}

// NewFeed builds an unloaded feed. A nil source produces an empty leaderboard.
func NewFeed(opts Options) *Feed {
	source := opts.Source
	if source == nil {
		source = emptySource{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Feed{
		source:  source,
		timeout: timeout,
		logger:  logger,
		now:     now,
		sortKey: SortByDate,
		status:  StatusUnloaded,
	}
}

// SourceName reports which source the feed reads from.
func (f *Feed) SourceName() string {
	return f.source.Name()
}

// Load replaces the entries with a fresh read from the source, sorted by
// date with ranks 1..N. On failure the feed is left empty in the failed
// state and the returned error wraps ErrFeedUnavailable or ErrMalformedFeed.
// When a newer Load starts before this one finishes, this result is
// discarded and ErrLoadSuperseded is returned.
func (f *Feed) Load(ctx context.Context) error {
	f.mu.Lock()
	f.generation++
	gen := f.generation
	f.status = StatusLoading
	f.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := f.now()
	entries, err := f.source.Fetch(ctx, start)
	if err == nil {
		err = SortBy(entries, SortByDate)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.generation {
		f.logger.Debug().Uint64("generation", gen).Msg("leaderboard: discarding superseded load")
		return ErrLoadSuperseded
	}
	if err != nil {
		f.entries = nil
		f.status = StatusFailed
		f.lastErr = err
		f.logger.Warn().Err(err).Str("source", f.source.Name()).Msg("leaderboard: load failed")
		return err
	}
	f.entries = entries
	f.sortKey = SortByDate
	f.status = StatusLoaded
	f.lastErr = nil
	f.loadedAt = f.now()
	f.logger.Info().
		Str("source", f.source.Name()).
		Int("entries", len(entries)).
		Dur("elapsed", f.loadedAt.Sub(start)).
		Msg("leaderboard: loaded")
	return nil
}

// SortBy reorders the shared entries in place and makes key the active sort.
func (f *Feed) SortBy(key SortKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := SortBy(f.entries, key); err != nil {
		return err
	}
	f.sortKey = key
	return nil
}

// AddEntry appends a manually supplied donation and re-sorts by the active
// key. Missing names become Anonymous, a missing tier is derived from the
// amount and a missing date is today.
func (f *Feed) AddEntry(d domain.Draft) error {
	if math.IsNaN(d.Amount) || math.IsInf(d.Amount, 0) || d.Amount < 0 {
		return fmt.Errorf("%w: %v", domain.ErrInvalidAmount, d.Amount)
	}
	entry := domain.DonationEntry{
		Name:      strings.TrimSpace(d.Name),
		Tier:      strings.TrimSpace(d.Tier),
		Amount:    d.Amount,
		Date:      d.Date,
		Anonymous: d.Anonymous,
	}
	if entry.Name == "" {
		entry.Name = domain.AnonymousName
	}
	if entry.Tier == "" {
		entry.Tier = string(domain.TierForAmount(d.Amount))
	}
	if entry.Date.IsZero() {
		entry.Date = f.now()
	}
	entry.Date = domain.CalendarDate(entry.Date)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return SortBy(f.entries, f.sortKey)
}

// Snapshot is a point-in-time copy of the feed state.
type Snapshot struct {
	Status   Status
	SortKey  SortKey
	Entries  []domain.DonationEntry
	Err      error
	LoadedAt time.Time
}

// Snapshot copies the current state so callers can render without holding
// the feed lock.
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := make([]domain.DonationEntry, len(f.entries))
	copy(entries, f.entries)
	return Snapshot{
		Status:   f.status,
		SortKey:  f.sortKey,
		Entries:  entries,
		Err:      f.lastErr,
		LoadedAt: f.loadedAt,
	}
}
