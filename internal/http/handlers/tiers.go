package handlers

import (
	"net/http"
	"strconv"

	"donatewall/internal/domain"
)

// TierQuote answers the donation form: tier, label, shipping and anonymity.
func (a *App) TierQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	show, err := queryBool(q.Get("show"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "show must be a boolean")
		return
	}
	anonymous, err := queryBool(q.Get("anonymous"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "anonymous must be a boolean")
		return
	}
	a.json(w, http.StatusOK, domain.NewQuote(domain.ParseWholeAmount(q.Get("amount")), show, anonymous))
}

func queryBool(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
