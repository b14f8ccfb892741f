package handlers

import (
	"net/http"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	if a.Feed != nil {
		resp["leaderboard"] = string(a.Feed.Snapshot().Status)
		resp["source"] = a.Feed.SourceName()
	}
	a.json(w, http.StatusOK, resp)
}
