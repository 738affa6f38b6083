package handler

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"leaderboard-backend/internal/service"
	"leaderboard-backend/internal/web"
)

// LeaderboardHandler serves the public leaderboard page.
type LeaderboardHandler struct {
	ranking   *service.RankingService
	templates *web.Templates
	debug     bool
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(ranking *service.RankingService, templates *web.Templates, debug bool) *LeaderboardHandler {
	return &LeaderboardHandler{
		ranking:   ranking,
		templates: templates,
		debug:     debug,
	}
}

// Show handles GET /.
func (h *LeaderboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	rows, err := h.ranking.Leaderboard(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch leaderboard")
		if h.debug {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		} else {
			http.Error(w, "", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Leaderboard(w, rows); err != nil {
		log.Error().Err(err).Msg("Failed to render leaderboard")
	}
}
