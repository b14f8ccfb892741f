package handlers

import (
	"errors"
	"net/http"

	"donatewall/internal/domain"
	"donatewall/internal/leaderboard"
	"donatewall/internal/middleware"
)

// LeaderboardGet renders the current leaderboard. A failed load still
// answers 200 with status "failed" and no items.
func (a *App) LeaderboardGet(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("sort"); raw != "" {
		key, err := leaderboard.ParseSortKey(raw)
		if err == nil {
			err = a.Feed.SortBy(key)
		}
		if errors.Is(err, domain.ErrInvalidSortKey) {
			a.error(w, http.StatusBadRequest, "invalid_sort", "sort must be date or amount")
			return
		}
		if err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to sort leaderboard")
			return
		}
	}
	a.json(w, http.StatusOK, a.Feed.View(middleware.LocaleFromContext(r.Context())))
}

func (a *App) LeaderboardReload(w http.ResponseWriter, r *http.Request) {
	err := a.Feed.Load(r.Context())
	switch {
	case errors.Is(err, leaderboard.ErrLoadSuperseded):
		a.error(w, http.StatusConflict, "reload_superseded", "a newer reload replaced this one")
		return
	case err != nil && !leaderboard.IsFeedError(err):
		a.logger().Error().Err(err).Msg("leaderboard: reload")
		a.error(w, http.StatusInternalServerError, "internal", "failed to reload leaderboard")
		return
	}
	a.json(w, http.StatusOK, a.Feed.View(middleware.LocaleFromContext(r.Context())))
}

type entryRequest struct {
	Name      string  `json:"name"`
	Tier      string  `json:"tier"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"`
	Anonymous bool    `json:"anonymous"`
}

// LeaderboardAddEntry is the manual test hook for appending a donation.
func (a *App) LeaderboardAddEntry(w http.ResponseWriter, r *http.Request) {
	if !a.AllowManual {
		a.error(w, http.StatusForbidden, "manual_entries_disabled", domain.ErrManualEntriesDisabled.Error())
		return
	}
	var req entryRequest
	if !a.decode(w, r, &req) {
		return
	}
	draft := domain.Draft{
		Name:      req.Name,
		Tier:      req.Tier,
		Amount:    req.Amount,
		Anonymous: req.Anonymous,
	}
	if req.Date != "" {
		d, ok := leaderboard.ParseDate(req.Date)
		if !ok {
			a.error(w, http.StatusBadRequest, "bad_request", "date must be YYYY-MM-DD")
			return
		}
		draft.Date = d
	}
	if err := a.Feed.AddEntry(draft); err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			a.error(w, http.StatusBadRequest, "invalid_amount", "amount must be a non-negative number")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to add entry")
		return
	}
	a.json(w, http.StatusCreated, a.Feed.View(middleware.LocaleFromContext(r.Context())))
}
