package contracts

import (
	"encoding/json"

	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/models"
)

// Classification is the set of candidate events a diff produced.
// At most one of MatchWon/SetWon is set; ScoreUpdates may hold one entry
// per team with a positive increment. The processor applies emission
// priority (matchWon > setWon > scoreUpdate) so only one branch reaches
// the wire per update.
type Classification struct {
	MatchWon     *models.MatchWonEvent
	SetWon       *models.SetWonEvent
	ScoreUpdates []models.ScoreUpdateEvent
}

// Empty reports whether no event candidate was produced
func (c Classification) Empty() bool {
	return c.MatchWon == nil && c.SetWon == nil && len(c.ScoreUpdates) == 0
}

// Outcome is the full effect of applying one score payload to a match
type Outcome struct {
	// Result is the new persisted result payload
	Result json.RawMessage

	// Status is the new match status (may revert Completed to Live)
	Status models.MatchStatus

	// WinnerID is authoritative: nil clears any stored winner
	WinnerID *int64

	Classification Classification
}

// GameModule is the pluggable interface for adding new fest sports.
// Diff compares an incoming score payload against the match's previously
// stored result and derives the new state plus candidate events.
type GameModule interface {
	// Identification
	GetGameKey() string     // "kabaddi", "table_tennis", "tug_of_war"
	GetDisplayName() string // "Kabaddi", "Table Tennis", "Tug of War"

	// Scoring
	Diff(match *models.Match, payload json.RawMessage) (*Outcome, error)
}
