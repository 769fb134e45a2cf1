package models

// Team identifies a side of the match in event payloads
type Team string

const (
	TeamSlotA Team = "A"
	TeamSlotB Team = "B"
)

// Event type constants used on the wire
const (
	EventTypeMatchUpdated = "matchUpdated"
	EventTypeScoreUpdate  = "scoreUpdate"
	EventTypeSetWon       = "setWon"
	EventTypeMatchWon     = "matchWon"

	// pointScored is the only scoreUpdate subtype
	ScoreUpdateKindPoint = "pointScored"
)

// ScoreType is one changed Kabaddi category and its positive delta
type ScoreType struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// ScoreUpdateEvent announces points scored by one team
type ScoreUpdateEvent struct {
	MatchID    int64       `json:"matchId"`
	Team       Team        `json:"team"`
	Increment  int         `json:"increment"`
	Type       string      `json:"type"`
	ScoreTypes []ScoreType `json:"scoreTypes,omitempty"`
}

// SetWonEvent announces a completed table-tennis set.
// PointIncrement carries the winner's points in the final rally (0 if none).
type SetWonEvent struct {
	MatchID        int64 `json:"matchId"`
	Team           Team  `json:"team"`
	SetNumber      int   `json:"setNumber"`
	PointIncrement int   `json:"pointIncrement"`
}

// MatchWonEvent announces match completion
type MatchWonEvent struct {
	MatchID        int64       `json:"matchId"`
	Winner         int64       `json:"winner"`
	Team           Team        `json:"team"`
	PointIncrement int         `json:"pointIncrement"`
	ScoreTypes     []ScoreType `json:"scoreTypes,omitempty"`
}

// LiveEvent is one broadcastable message on the live-scores channel:
// a tagged union of the event kinds above plus matchUpdated snapshots
type LiveEvent struct {
	Type    string      `json:"type"`
	MatchID int64       `json:"matchId"`
	GameKey string      `json:"gameKey,omitempty"`
	Payload interface{} `json:"payload"`
}
