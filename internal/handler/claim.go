package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"leaderboard-backend/internal/model"
	"leaderboard-backend/internal/service"
	"leaderboard-backend/internal/submission"
	"leaderboard-backend/internal/web"
)

// apologyMessage is shown to kiosk visitors when the external registration
// fails; the distinguishing detail is logged, not returned.
const apologyMessage = "Wir konnten dich leider nicht in das Gewinnspiel-Formular eintragen. " +
	"Bitte frage einen der anwesenden Standbetreuenden um Hilfe!"

// ClaimHandler serves the kiosk claim flow: review list, claim form and
// claim submission.
type ClaimHandler struct {
	claims    *service.ClaimService
	ranking   *service.RankingService
	templates *web.Templates
	baseURL   string
	debug     bool
}

// NewClaimHandler creates a new ClaimHandler.
func NewClaimHandler(
	claims *service.ClaimService,
	ranking *service.RankingService,
	templates *web.Templates,
	baseURL string,
	debug bool,
) *ClaimHandler {
	return &ClaimHandler{
		claims:    claims,
		ranking:   ranking,
		templates: templates,
		baseURL:   baseURL,
		debug:     debug,
	}
}

// List handles GET /claim/list.
func (h *ClaimHandler) List(w http.ResponseWriter, r *http.Request) {
	scores, err := h.ranking.Unclaimed(r.Context())
	if err != nil {
		h.serverError(w, err, "Failed to list unclaimed scores")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ClaimList(w, scores); err != nil {
		log.Error().Err(err).Msg("Failed to render claim list")
	}
}

// Form handles GET /claim/{id}.
func (h *ClaimHandler) Form(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "The given id is malformed! Where did you get it from?", http.StatusBadRequest)
		return
	}

	score, err := h.claims.Get(r.Context(), id)
	if errors.Is(err, service.ErrUnknownClaim) {
		http.Error(w, "The given id is malformed! Where did you get it from?", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.serverError(w, err, "Failed to fetch unclaimed score")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ClaimForm(w, web.ClaimFormData{ID: id.String(), Score: score.Score}); err != nil {
		log.Error().Err(err).Msg("Failed to render claim form")
	}
}

// Submit handles POST /claim/{id}.
func (h *ClaimHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "The given id is malformed! Where did you get it from?", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Malformed form submission", http.StatusBadRequest)
		return
	}

	req := model.ClaimRequest{
		WantsLeaderboard: formBool(r, "wants_leaderboard"),
		WantsRaffle:      formBool(r, "wants_raffle"),
		Nickname:         r.PostFormValue("nickname"),
		Email:            r.PostFormValue("email"),
		FirstName:        r.PostFormValue("firstname"),
		LastName:         r.PostFormValue("lastname"),
		Occupation:       r.PostFormValue("occupation"),
		Newsletter:       formBool(r, "newsletter"),
		DataProtection:   formBool(r, "data_protection"),
	}

	_, err = h.claims.Settle(r.Context(), id, req)
	switch {
	case err == nil:
		http.Redirect(w, r, h.baseURL+"/claim/list", http.StatusSeeOther)

	case errors.Is(err, service.ErrUnknownClaim):
		http.Error(w, "The given id is malformed! Where did you get it from?", http.StatusBadRequest)

	case isIncomplete(err):
		// Re-render the form so the visitor can fill in what is missing.
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		data := web.ClaimFormData{
			ID:           id.String(),
			ErrorMessage: "Du hast nicht alle notwendigen Felder ausgefüllt: " + err.Error(),
		}
		if err := h.templates.ClaimForm(w, data); err != nil {
			log.Error().Err(err).Msg("Failed to render claim form")
		}

	case isSubmissionError(err):
		log.Error().Err(err).Str("id", id.String()).Msg("External registration failed")
		if h.debug {
			http.Error(w, fmt.Sprintf("TransmitError: %v", err), http.StatusInternalServerError)
		} else {
			http.Error(w, apologyMessage, http.StatusInternalServerError)
		}

	default:
		h.serverError(w, err, "Failed to settle claim")
	}
}

func (h *ClaimHandler) serverError(w http.ResponseWriter, err error, msg string) {
	log.Error().Err(err).Msg(msg)
	if h.debug {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	} else {
		http.Error(w, "", http.StatusInternalServerError)
	}
}

// formBool reads a checkbox-style form value.
func formBool(r *http.Request, key string) bool {
	switch r.PostFormValue(key) {
	case "true", "on", "1":
		return true
	}
	return false
}

func isIncomplete(err error) bool {
	var incomplete *service.IncompleteError
	return errors.As(err, &incomplete)
}

// isSubmissionError tells external-pipeline failures apart from storage
// failures so each stage reports distinctly.
func isSubmissionError(err error) bool {
	var tokenFetch *submission.TokenFetchError
	var submit *submission.SubmitError
	return errors.As(err, &tokenFetch) ||
		errors.As(err, &submit) ||
		errors.Is(err, submission.ErrTokenExtract)
}
