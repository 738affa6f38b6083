// Package handler provides the HTTP handlers for the leaderboard backend.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"leaderboard-backend/internal/pkg/auth"
	"leaderboard-backend/internal/service"
)

// receivedScore is the ingress payload from the game client.
type receivedScore struct {
	Score int    `json:"score"`
	Color string `json:"color"`
}

// ScoreHandler guards score ingress: it checks the shared token and the
// payload shape before anything touches the ledger.
type ScoreHandler struct {
	scores *service.ScoreService
	token  []byte
}

// NewScoreHandler creates a new ScoreHandler.
func NewScoreHandler(scores *service.ScoreService, token string) *ScoreHandler {
	return &ScoreHandler{
		scores: scores,
		token:  []byte(token),
	}
}

// SubmitScore handles POST /backend/submit_score.
func (h *ScoreHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		http.Error(w, "You didn't provide a authorization token!", http.StatusUnauthorized)
		return
	}
	if !auth.SlowEquals([]byte(authorization), h.token) {
		http.Error(w, "You didn't provide a valid authorization token!", http.StatusUnauthorized)
		return
	}

	var score receivedScore
	if err := json.NewDecoder(r.Body).Decode(&score); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Malformed payload")
		return
	}

	if score.Score < 0 {
		writeJSONError(w, http.StatusBadRequest, "Invalid score")
		return
	}
	if !validColor(score.Color) {
		writeJSONError(w, http.StatusBadRequest, "Malformed color")
		return
	}

	id, err := h.scores.Submit(r.Context(), score.Score, score.Color)
	if err != nil {
		log.Error().Err(err).Msg("Failed to store submitted score")
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id.String()})
}

// validColor checks for a 7-character "#RRGGBB" string: leading '#' and
// exactly six hex digits.
func validColor(color string) bool {
	if len(color) != 7 || color[0] != '#' {
		return false
	}
	for i := 1; i < len(color); i++ {
		if !isHexDigit(color[i]) {
			return false
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
