package leaderboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"donatewall/internal/domain"
)

func fixedNow() time.Time { return loadDay }

func TestFeedLoadFallbackSortsByDate(t *testing.T) {
	feed := NewFeed(Options{Source: NewStaticSource(DefaultFallback()), Now: fixedNow})
	if got := feed.Snapshot().Status; got != StatusUnloaded {
		t.Fatalf("initial status = %q", got)
	}

	if err := feed.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	snap := feed.Snapshot()
	if snap.Status != StatusLoaded || snap.SortKey != SortByDate {
		t.Fatalf("snapshot = %+v", snap)
	}
	if len(snap.Entries) != 10 {
		t.Fatalf("entries = %d, want 10", len(snap.Entries))
	}
	if !snap.Entries[0].Date.Equal(date(2026, 1, 18)) {
		t.Fatalf("most recent donation should lead, got %s", snap.Entries[0].Date)
	}
	checkRanks(t, snap.Entries)
}

func TestFeedLoadWithoutSourceIsEmpty(t *testing.T) {
	feed := NewFeed(Options{})
	if err := feed.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	snap := feed.Snapshot()
	if snap.Status != StatusLoaded || len(snap.Entries) != 0 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestFeedLoadFromSheets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		_, _ = w.Write(envelope(
			`{"c":[{"v":"A"},{"v":"Patron"},{"v":"50"},{"v":"2026-01-10"},{"v":"TRUE"},{"v":"FALSE"}]}`,
			`{"c":[{"v":"B"},{"v":"Legend"},{"v":"300"},{"v":"2026-01-18"},{"v":"TRUE"},{"v":"TRUE"}]}`,
			`{"c":[{"v":"C"},{"v":"Legend"},{"v":"900"},{"v":"2026-01-19"},{"v":"No"},{"v":"FALSE"}]}`,
		))
	}))
	defer srv.Close()

	source, err := NewSheetsSource(SheetsOptions{URL: srv.URL + "/gviz/tq?tqx=out:json", HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("NewSheetsSource returned error: %v", err)
	}
	feed := NewFeed(Options{Source: source, Now: fixedNow})
	if err := feed.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	view := feed.View("en")
	if view.Source != "sheets" || len(view.Items) != 2 {
		t.Fatalf("view = %+v", view)
	}
	if view.Items[0].Name != "Anonymous" || view.Items[0].Rank != 1 || view.Items[0].Medal != "gold" {
		t.Fatalf("first row = %+v", view.Items[0])
	}

	if err := feed.SortBy(SortByAmount); err != nil {
		t.Fatalf("SortBy returned error: %v", err)
	}
	if feed.Snapshot().SortKey != SortByAmount {
		t.Fatalf("active sort key not recorded")
	}
}

func TestFeedLoadUnreachableURL(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	source, err := NewSheetsSource(SheetsOptions{URL: url})
	if err != nil {
		t.Fatalf("NewSheetsSource returned error: %v", err)
	}
	feed := NewFeed(Options{Source: source, Timeout: 2 * time.Second})
	err = feed.Load(context.Background())
	if !errors.Is(err, domain.ErrFeedUnavailable) {
		t.Fatalf("Load error = %v, want ErrFeedUnavailable", err)
	}
	snap := feed.Snapshot()
	if snap.Status != StatusFailed || len(snap.Entries) != 0 || snap.Err == nil {
		t.Fatalf("snapshot = %+v", snap)
	}
	if view := feed.View("en"); view.Error == "" || len(view.Items) != 0 {
		t.Fatalf("view should report the failure with no rows: %+v", view)
	}
}

func TestFeedLoadNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	source, _ := NewSheetsSource(SheetsOptions{URL: srv.URL})
	feed := NewFeed(Options{Source: source})
	if err := feed.Load(context.Background()); !errors.Is(err, domain.ErrFeedUnavailable) {
		t.Fatalf("Load error = %v, want ErrFeedUnavailable", err)
	}
}

func TestFeedLoadMalformedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<!doctype html><title>Sign in</title>`))
	}))
	defer srv.Close()

	source, _ := NewSheetsSource(SheetsOptions{URL: srv.URL})
	feed := NewFeed(Options{Source: source})
	err := feed.Load(context.Background())
	if !errors.Is(err, domain.ErrMalformedFeed) {
		t.Fatalf("Load error = %v, want ErrMalformedFeed", err)
	}
	if !IsFeedError(err) {
		t.Fatalf("IsFeedError(%v) = false", err)
	}
}

func TestFeedLoadTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	source, _ := NewSheetsSource(SheetsOptions{URL: srv.URL, HTTPClient: srv.Client()})
	feed := NewFeed(Options{Source: source, Timeout: 50 * time.Millisecond})

	start := time.Now()
	err := feed.Load(context.Background())
	if !errors.Is(err, domain.ErrFeedUnavailable) {
		t.Fatalf("Load error = %v, want ErrFeedUnavailable", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Load error = %v, want deadline exceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("Load took %s despite timeout", elapsed)
	}
	if feed.Snapshot().Status != StatusFailed {
		t.Fatalf("status = %q, want failed", feed.Snapshot().Status)
	}
}

type blockingFirstSource struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
}

func (s *blockingFirstSource) Name() string { return "scripted" }

func (s *blockingFirstSource) Fetch(ctx context.Context, _ time.Time) ([]domain.DonationEntry, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	s.mu.Unlock()
	if call == 1 {
		close(s.started)
		<-s.release
		return []domain.DonationEntry{{Name: "stale", Tier: "Legend", Amount: 1, Date: date(2026, 1, 1)}}, nil
	}
	return []domain.DonationEntry{{Name: "fresh", Tier: "Patron", Amount: 2, Date: date(2026, 1, 2)}}, nil
}

func TestFeedDiscardsSupersededLoad(t *testing.T) {
	source := &blockingFirstSource{started: make(chan struct{}), release: make(chan struct{})}
	feed := NewFeed(Options{Source: source})

	errCh := make(chan error, 1)
	go func() { errCh <- feed.Load(context.Background()) }()
	<-source.started

	if err := feed.Load(context.Background()); err != nil {
		t.Fatalf("second Load returned error: %v", err)
	}
	close(source.release)
	if err := <-errCh; !errors.Is(err, ErrLoadSuperseded) {
		t.Fatalf("first Load error = %v, want ErrLoadSuperseded", err)
	}

	snap := feed.Snapshot()
	if snap.Status != StatusLoaded || len(snap.Entries) != 1 || snap.Entries[0].Name != "fresh" {
		t.Fatalf("snapshot = %+v", snap)
	}
}

type ctxSource struct{}

func (ctxSource) Name() string { return "ctx" }

func (ctxSource) Fetch(ctx context.Context, _ time.Time) ([]domain.DonationEntry, error) {
	<-ctx.Done()
	return nil, errors.Join(domain.ErrFeedUnavailable, ctx.Err())
}

func TestFeedLoadLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	feed := NewFeed(Options{Source: ctxSource{}, Timeout: 10 * time.Millisecond})
	if err := feed.Load(context.Background()); !errors.Is(err, domain.ErrFeedUnavailable) {
		t.Fatalf("Load error = %v", err)
	}
}

func TestFeedAddEntry(t *testing.T) {
	feed := NewFeed(Options{Source: NewStaticSource(DefaultFallback()), Now: fixedNow})
	if err := feed.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := feed.SortBy(SortByAmount); err != nil {
		t.Fatalf("SortBy returned error: %v", err)
	}

	if err := feed.AddEntry(domain.Draft{Name: "Whale", Amount: 500, Anonymous: true}); err != nil {
		t.Fatalf("AddEntry returned error: %v", err)
	}
	snap := feed.Snapshot()
	if len(snap.Entries) != 11 {
		t.Fatalf("entries = %d, want 11", len(snap.Entries))
	}
	top := snap.Entries[0]
	if top.Name != "Whale" || top.Tier != "Legend" || top.Rank != 1 {
		t.Fatalf("top entry = %+v", top)
	}
	if !top.Date.Equal(date(2026, 2, 1)) {
		t.Fatalf("missing date should default to today, got %s", top.Date)
	}
	if top.DisplayName() != domain.AnonymousName {
		t.Fatalf("anonymous entry displayed as %q", top.DisplayName())
	}
	checkRanks(t, snap.Entries)

	if err := feed.AddEntry(domain.Draft{Name: "Bad", Amount: -1}); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("AddEntry error = %v, want ErrInvalidAmount", err)
	}
}

func TestFeedSnapshotIsACopy(t *testing.T) {
	feed := NewFeed(Options{Source: NewStaticSource(DefaultFallback())})
	if err := feed.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	before := feed.Snapshot()
	if err := feed.SortBy(SortByAmount); err != nil {
		t.Fatalf("SortBy returned error: %v", err)
	}
	if before.Entries[0].Name != "Anonymous" || !before.Entries[0].Date.Equal(date(2026, 1, 18)) {
		t.Fatalf("snapshot changed after re-sort: %+v", before.Entries[0])
	}
}
