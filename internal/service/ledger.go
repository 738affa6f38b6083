package service

import (
	"context"

	"github.com/google/uuid"

	"leaderboard-backend/internal/model"
)

// Ledger is the storage surface the services need. Implemented by
// repository.ScoreRepository; tests substitute an in-memory fake.
type Ledger interface {
	InsertUnclaimed(ctx context.Context, score int, color string) (uuid.UUID, error)
	GetUnclaimed(ctx context.Context, id uuid.UUID) (model.UnclaimedScore, error)
	ListUnclaimed(ctx context.Context) ([]model.UnclaimedScore, error)
	// Settle atomically deletes the unclaimed score and, when nickname is
	// non-nil, appends a leaderboard entry. Must return
	// repository.ErrNotFound when the id is already gone.
	Settle(ctx context.Context, id uuid.UUID, nickname *string) (model.UnclaimedScore, error)
	ListScores(ctx context.Context) ([]model.ScoreRow, error)
}
