// Package repository provides data access for the score ledger.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"leaderboard-backend/internal/model"
)

// ErrNotFound is returned when a score id does not exist in the ledger.
var ErrNotFound = errors.New("score not found")

// ScoreRepository persists unclaimed scores and finalized leaderboard
// entries.
type ScoreRepository struct {
	pool *pgxpool.Pool
}

// NewScoreRepository creates a new ScoreRepository instance.
func NewScoreRepository(pool *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{pool: pool}
}

// InsertUnclaimed stores a freshly submitted score and returns its id.
// A new random id is generated per call.
func (r *ScoreRepository) InsertUnclaimed(ctx context.Context, score int, color string) (uuid.UUID, error) {
	const query = `
		INSERT INTO unclaimed_scores (id, score, color)
		VALUES ($1, $2, $3)
	`

	id := uuid.New()
	if _, err := r.pool.Exec(ctx, query, id, score, color); err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert unclaimed score: %w", err)
	}

	return id, nil
}

// GetUnclaimed retrieves one unclaimed score by id.
func (r *ScoreRepository) GetUnclaimed(ctx context.Context, id uuid.UUID) (model.UnclaimedScore, error) {
	const query = `
		SELECT id, score, color, created_at
		FROM unclaimed_scores
		WHERE id = $1
	`

	var s model.UnclaimedScore
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Score, &s.Color, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.UnclaimedScore{}, ErrNotFound
	}
	if err != nil {
		return model.UnclaimedScore{}, fmt.Errorf("failed to get unclaimed score: %w", err)
	}

	return s, nil
}

// ListUnclaimed retrieves all unclaimed scores, newest first, for the
// kiosk review list.
func (r *ScoreRepository) ListUnclaimed(ctx context.Context) ([]model.UnclaimedScore, error) {
	const query = `
		SELECT id, score, color, created_at
		FROM unclaimed_scores
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list unclaimed scores: %w", err)
	}
	defer rows.Close()

	var scores []model.UnclaimedScore
	for rows.Next() {
		var s model.UnclaimedScore
		if err := rows.Scan(&s.ID, &s.Score, &s.Color, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unclaimed score: %w", err)
		}
		scores = append(scores, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unclaimed scores: %w", err)
	}

	return scores, nil
}

// DeleteUnclaimed removes one unclaimed score. Deleting an id that does not
// exist is reported as ErrNotFound, not silently ignored.
func (r *ScoreRepository) DeleteUnclaimed(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM unclaimed_scores WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete unclaimed score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// InsertScore appends a finalized leaderboard entry.
func (r *ScoreRepository) InsertScore(ctx context.Context, nickname string, score int) error {
	const query = `INSERT INTO scores (nickname, score) VALUES ($1, $2)`

	if _, err := r.pool.Exec(ctx, query, nickname, score); err != nil {
		return fmt.Errorf("failed to insert leaderboard entry: %w", err)
	}

	return nil
}

// ListScores retrieves all leaderboard entries in descending score order.
// Ties keep insertion order so repeated reads rank deterministically.
func (r *ScoreRepository) ListScores(ctx context.Context) ([]model.ScoreRow, error) {
	const query = `
		SELECT nickname, score
		FROM scores
		ORDER BY score DESC, id ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	defer rows.Close()

	var scores []model.ScoreRow
	for rows.Next() {
		var s model.ScoreRow
		if err := rows.Scan(&s.Nickname, &s.Score); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scores: %w", err)
	}

	return scores, nil
}

// Settle consumes one unclaimed score in a single transaction: the row is
// deleted and, when nickname is non-nil, a leaderboard entry is appended.
// A concurrent settlement of the same id finds the row already gone and
// gets ErrNotFound, so at most one settlement commits per id.
func (r *ScoreRepository) Settle(ctx context.Context, id uuid.UUID, nickname *string) (model.UnclaimedScore, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.UnclaimedScore{}, fmt.Errorf("failed to begin settlement: %w", err)
	}
	defer tx.Rollback(ctx) // no-op once committed

	const del = `
		DELETE FROM unclaimed_scores
		WHERE id = $1
		RETURNING id, score, color, created_at
	`

	var s model.UnclaimedScore
	err = tx.QueryRow(ctx, del, id).Scan(&s.ID, &s.Score, &s.Color, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.UnclaimedScore{}, ErrNotFound
	}
	if err != nil {
		return model.UnclaimedScore{}, fmt.Errorf("failed to delete unclaimed score: %w", err)
	}

	if nickname != nil {
		const ins = `INSERT INTO scores (nickname, score) VALUES ($1, $2)`
		if _, err := tx.Exec(ctx, ins, *nickname, s.Score); err != nil {
			return model.UnclaimedScore{}, fmt.Errorf("failed to insert leaderboard entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.UnclaimedScore{}, fmt.Errorf("failed to commit settlement: %w", err)
	}

	return s, nil
}
