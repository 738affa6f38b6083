// Package server wires the HTTP routes and middleware.
package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"leaderboard-backend/internal/handler"
	"leaderboard-backend/internal/web"
)

// Handlers collects the handler dependencies for the router.
type Handlers struct {
	Score       *handler.ScoreHandler
	Claim       *handler.ClaimHandler
	Leaderboard *handler.LeaderboardHandler
}

// NewRouter builds the HTTP router.
func NewRouter(h *Handlers) (*mux.Router, error) {
	assets, err := web.Assets()
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded assets: %w", err)
	}

	r := mux.NewRouter()
	r.Use(RequestLogger)

	// the leaderboard
	r.HandleFunc("/", h.Leaderboard.Show).Methods(http.MethodGet)

	// submit from game
	r.HandleFunc("/backend/submit_score", h.Score.SubmitScore).Methods(http.MethodPost)

	// kiosk claim flow
	r.HandleFunc("/claim/list", h.Claim.List).Methods(http.MethodGet)
	r.HandleFunc("/claim/{id}", h.Claim.Form).Methods(http.MethodGet)
	r.HandleFunc("/claim/{id}", h.Claim.Submit).Methods(http.MethodPost)

	// static assets
	fileServer := http.FileServer(http.FS(assets))
	r.PathPrefix("/assets/").Handler(http.StripPrefix("/assets/", fileServer))
	r.Handle("/robots.txt", fileServer)

	return r, nil
}
