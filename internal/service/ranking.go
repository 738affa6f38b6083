package service

import (
	"context"
	"sort"

	"leaderboard-backend/internal/model"
)

// RankingService computes the ranked leaderboard and the unclaimed review
// list. Placements are derived fresh on every read, never stored.
type RankingService struct {
	ledger Ledger
}

// NewRankingService creates a new RankingService instance.
func NewRankingService(ledger Ledger) *RankingService {
	return &RankingService{ledger: ledger}
}

// Leaderboard returns all finalized entries with their dense placements.
func (s *RankingService) Leaderboard(ctx context.Context) ([]model.PlacementRow, error) {
	scores, err := s.ledger.ListScores(ctx)
	if err != nil {
		return nil, err
	}
	return Placements(scores), nil
}

// Unclaimed returns the scores awaiting a claim.
func (s *RankingService) Unclaimed(ctx context.Context) ([]model.UnclaimedScore, error) {
	return s.ledger.ListUnclaimed(ctx)
}

// Placements assigns 1-based dense ranks to a score list: tied scores share
// a placement and the next distinct score takes its 1-based position, so
// [13337, 1337, 1337] ranks as [1, 2, 2] and a three-way tie as [1, 1, 1].
// The ledger returns rows pre-sorted, but descending order is a hard
// precondition of the ranking pass, so unsorted input is sorted here first.
func Placements(rows []model.ScoreRow) []model.PlacementRow {
	sorted := make([]model.ScoreRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	placements := make([]model.PlacementRow, 0, len(sorted))

	lastScore := -1 // scores are validated non-negative
	lastPlacement := 1
	for i, row := range sorted {
		if row.Score != lastScore {
			lastScore = row.Score
			lastPlacement = i + 1
		}
		placements = append(placements, model.PlacementRow{
			Nickname:  row.Nickname,
			Score:     row.Score,
			Placement: lastPlacement,
		})
	}

	return placements
}
