package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"leaderboard-backend/internal/model"
	"leaderboard-backend/internal/pkg/lock"
	"leaderboard-backend/internal/pkg/sanitize"
	"leaderboard-backend/internal/repository"
	"leaderboard-backend/internal/submission"
)

// RaffleSubmitter posts a claimant's identity to the external registration
// service.
type RaffleSubmitter interface {
	Submit(ctx context.Context, entry submission.Entry) error
}

// ClaimService settles unclaimed scores: given a claim decision it decides
// which side effects occur, then applies them. An unclaimed score is
// consumed exactly once regardless of outcome.
type ClaimService struct {
	ledger Ledger
	locks  *lock.ClaimLock
	raffle RaffleSubmitter
}

// NewClaimService creates a new ClaimService instance. raffle may be nil
// when external submission is disabled.
func NewClaimService(ledger Ledger, locks *lock.ClaimLock, raffle RaffleSubmitter) *ClaimService {
	return &ClaimService{
		ledger: ledger,
		locks:  locks,
		raffle: raffle,
	}
}

// Get looks up one unclaimed score for the claim form page.
func (s *ClaimService) Get(ctx context.Context, id uuid.UUID) (model.UnclaimedScore, error) {
	score, err := s.ledger.GetUnclaimed(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.UnclaimedScore{}, ErrUnknownClaim
	}
	return score, err
}

// Settle converts one unclaimed score into zero or more persisted outcomes.
//
// The whole sequence runs under the id's exclusive lock, and the ledger
// delete+insert is one transaction, so two concurrent claims for the same
// id cannot both settle: the loser observes ErrUnknownClaim because the row
// is already gone. Once validation passes the unclaimed score is deleted
// unconditionally, even when neither opt-in was chosen. A raffle failure
// after that point is reported but never rolls the ledger back.
func (s *ClaimService) Settle(ctx context.Context, id uuid.UUID, req model.ClaimRequest) (model.SettleResult, error) {
	var res model.SettleResult

	s.locks.Lock(id.String())
	defer s.locks.Unlock(id.String())

	if _, err := s.ledger.GetUnclaimed(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return res, ErrUnknownClaim
		}
		return res, fmt.Errorf("failed to fetch unclaimed score: %w", err)
	}

	var nickname *string
	if req.WantsLeaderboard {
		trimmed := strings.TrimRightFunc(req.Nickname, unicode.IsSpace)
		if trimmed == "" {
			return res, &IncompleteError{Field: "nickname"}
		}
		sanitized := sanitize.Name(trimmed)
		nickname = &sanitized
	}

	if req.WantsRaffle {
		if field, ok := missingRaffleField(req); !ok {
			return res, &IncompleteError{Field: field}
		}
	}

	score, err := s.ledger.Settle(ctx, id, nickname)
	if errors.Is(err, repository.ErrNotFound) {
		return res, ErrUnknownClaim
	}
	if err != nil {
		return res, fmt.Errorf("failed to settle claim: %w", err)
	}
	res.LeaderboardEntry = nickname != nil

	if req.WantsRaffle && s.raffle != nil {
		entry := submission.Entry{
			FirstName:  strings.TrimSpace(req.FirstName),
			LastName:   strings.TrimSpace(req.LastName),
			Email:      strings.TrimSpace(req.Email),
			Occupation: req.Occupation,
			Newsletter: req.Newsletter,
		}
		if err := s.raffle.Submit(ctx, entry); err != nil {
			// The score is already consumed from the unclaimed pool.
			log.Error().
				Err(err).
				Str("id", id.String()).
				Msg("Raffle submission failed after settlement")
			return res, err
		}
		res.RaffleSubmitted = true
	}

	log.Info().
		Str("id", id.String()).
		Int("score", score.Score).
		Bool("leaderboard", res.LeaderboardEntry).
		Bool("raffle", res.RaffleSubmitted).
		Msg("Claim settled")

	return res, nil
}

// missingRaffleField returns the first required identity field the claimant
// left empty, or ok when the raffle data is complete.
func missingRaffleField(req model.ClaimRequest) (string, bool) {
	switch {
	case strings.TrimRightFunc(req.Email, unicode.IsSpace) == "":
		return "email", false
	case strings.TrimRightFunc(req.FirstName, unicode.IsSpace) == "":
		return "firstname", false
	case strings.TrimRightFunc(req.LastName, unicode.IsSpace) == "":
		return "lastname", false
	case !req.DataProtection:
		return "data_protection", false
	}
	return "", true
}
