package models

import (
	"encoding/json"
	"time"
)

// Game keys for the three fest sports
const (
	GameKabaddi     = "kabaddi"
	GameTableTennis = "table_tennis"
	GameTugOfWar    = "tug_of_war"
)

// Round identifies the tournament stage of a match
type Round string

const (
	RoundPreliminary Round = "Preliminary"
	RoundQuarter     Round = "Quarter Final"
	RoundSemi        Round = "Semi Final"
	RoundFinal       Round = "Final"
)

// MatchStatus is the lifecycle state of a match.
// Completed can revert to Live when an operator edits a score downward
// past the win threshold (un-resolve).
type MatchStatus string

const (
	StatusScheduled MatchStatus = "Scheduled"
	StatusLive      MatchStatus = "Live"
	StatusCompleted MatchStatus = "Completed"
	StatusCancelled MatchStatus = "Cancelled"
)

// ValidStatus reports whether s is a known match status
func ValidStatus(s MatchStatus) bool {
	switch s {
	case StatusScheduled, StatusLive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// TeamRef is a resolved reference to a registered team
type TeamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GameRef is a resolved reference to a fest game
type GameRef struct {
	ID   int64  `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Match represents a scheduled fixture between two teams
type Match struct {
	ID          int64           `json:"id"`
	MatchNo     int             `json:"match_no"`
	Game        GameRef         `json:"game"`
	TeamA       TeamRef         `json:"team_a"`
	TeamB       TeamRef         `json:"team_b"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	Venue       string          `json:"venue"`
	Round       Round           `json:"round"`
	LeagueStage bool            `json:"league_stage"`
	Status      MatchStatus     `json:"status"`
	Result      json.RawMessage `json:"result,omitempty"`
	WinnerID    *int64          `json:"winner_id,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TeamSlot maps a team id to its slot (A/B) in the match.
// Returns empty string if the id belongs to neither team.
func (m *Match) TeamSlot(teamID int64) Team {
	switch teamID {
	case m.TeamA.ID:
		return TeamSlotA
	case m.TeamB.ID:
		return TeamSlotB
	}
	return ""
}
