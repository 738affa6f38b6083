package handler

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"leaderboard-backend/internal/model"
	"leaderboard-backend/internal/repository"
	"leaderboard-backend/internal/web"
)

// memLedger is an in-memory service.Ledger for handler tests.
type memLedger struct {
	mu        sync.Mutex
	unclaimed map[uuid.UUID]model.UnclaimedScore
	scores    []model.ScoreRow
	insertErr error
}

func newMemLedger() *memLedger {
	return &memLedger{unclaimed: make(map[uuid.UUID]model.UnclaimedScore)}
}

func (m *memLedger) InsertUnclaimed(_ context.Context, score int, color string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return uuid.Nil, m.insertErr
	}
	id := uuid.New()
	m.unclaimed[id] = model.UnclaimedScore{ID: id, Score: score, Color: color}
	return id, nil
}

func (m *memLedger) GetUnclaimed(_ context.Context, id uuid.UUID) (model.UnclaimedScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.unclaimed[id]
	if !ok {
		return model.UnclaimedScore{}, repository.ErrNotFound
	}
	return s, nil
}

func (m *memLedger) ListUnclaimed(_ context.Context) ([]model.UnclaimedScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.UnclaimedScore, 0, len(m.unclaimed))
	for _, s := range m.unclaimed {
		out = append(out, s)
	}
	return out, nil
}

func (m *memLedger) Settle(_ context.Context, id uuid.UUID, nickname *string) (model.UnclaimedScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.unclaimed[id]
	if !ok {
		return model.UnclaimedScore{}, repository.ErrNotFound
	}
	delete(m.unclaimed, id)
	if nickname != nil {
		m.scores = append(m.scores, model.ScoreRow{Nickname: *nickname, Score: s.Score})
	}
	return s, nil
}

func (m *memLedger) ListScores(_ context.Context) ([]model.ScoreRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.ScoreRow(nil), m.scores...), nil
}

func mustTemplates(t *testing.T) *web.Templates {
	t.Helper()
	templates, err := web.NewTemplates()
	require.NoError(t, err)
	return templates
}
