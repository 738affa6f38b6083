// Package model defines the data models for the leaderboard backend.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UnclaimedScore represents a score submitted by the game client that has
// not yet been claimed at the kiosk. It exists until it is settled or
// discarded; there is no intermediate "claimed" state.
type UnclaimedScore struct {
	ID        uuid.UUID `db:"id"`
	Score     int       `db:"score"`
	Color     string    `db:"color"`
	CreatedAt time.Time `db:"created_at"`
}

// ScoreRow represents a finalized leaderboard entry. Entries are append-only
// and never updated or deleted in normal operation.
type ScoreRow struct {
	Nickname string `db:"nickname"`
	Score    int    `db:"score"`
}

// PlacementRow is a ScoreRow with its 1-based dense rank. Computed fresh on
// every leaderboard read, never persisted.
type PlacementRow struct {
	Nickname  string
	Score     int
	Placement int
}

// ClaimRequest carries the claim form input for one settlement. It is
// consumed exactly once and never persisted.
type ClaimRequest struct {
	WantsLeaderboard bool
	WantsRaffle      bool

	// leaderboard
	Nickname string

	// raffle
	Email          string
	FirstName      string
	LastName       string
	Occupation     string
	Newsletter     bool
	DataProtection bool
}

// SettleResult reports which settlement stages ran.
type SettleResult struct {
	LeaderboardEntry bool
	RaffleSubmitted  bool
}

// Occupation classes accepted from the claim form. Anything else is
// submitted to the registration service as "sonstiges".
const (
	OccupationSchool     = "school"
	OccupationUniversity = "university"
	OccupationParent     = "parent"
)
