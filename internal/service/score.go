package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ScoreService accepts validated scores from the game client into the
// unclaimed pool.
type ScoreService struct {
	ledger Ledger
}

// NewScoreService creates a new ScoreService instance.
func NewScoreService(ledger Ledger) *ScoreService {
	return &ScoreService{ledger: ledger}
}

// Submit stores a new unclaimed score and returns its fresh id. The caller
// has already validated the payload shape.
func (s *ScoreService) Submit(ctx context.Context, score int, color string) (uuid.UUID, error) {
	id, err := s.ledger.InsertUnclaimed(ctx, score, color)
	if err != nil {
		return uuid.Nil, err
	}

	log.Debug().
		Str("id", id.String()).
		Int("score", score).
		Msg("Unclaimed score stored")

	return id, nil
}
