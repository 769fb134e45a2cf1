package models

// Kabaddi score category display names, as they appear in scoreTypes payloads
const (
	CategoryRaid   = "Raid Points"
	CategoryBonus  = "Bonus Points"
	CategoryAllOut = "All Out Points"
	CategoryExtra  = "Extra Points"
)

// KabaddiTeamScore is one team's score broken into the four categories
type KabaddiTeamScore struct {
	RaidPoints   int `json:"raid_points"`
	BonusPoints  int `json:"bonus_points"`
	AllOutPoints int `json:"all_out_points"`
	ExtraPoints  int `json:"extra_points"`
	Total        int `json:"total"`
}

// Sum returns the category total, ignoring the stored Total field
func (s KabaddiTeamScore) Sum() int {
	return s.RaidPoints + s.BonusPoints + s.AllOutPoints + s.ExtraPoints
}

// KabaddiResult is the persisted result payload for a Kabaddi match
type KabaddiResult struct {
	TeamA KabaddiTeamScore `json:"team_a"`
	TeamB KabaddiTeamScore `json:"team_b"`
}

// MatchType determines table-tennis set length (11 points singles, 15 doubles)
type MatchType string

const (
	MatchTypeSingles MatchType = "Singles"
	MatchTypeDoubles MatchType = "Doubles"
)

// PointsToWin returns the base points needed to take a set.
// Once both sides reach PointsToWin-1 a set must be won by two clear points.
func (mt MatchType) PointsToWin() int {
	if mt == MatchTypeDoubles {
		return 15
	}
	return 11
}

// SetScore holds the two scores of one table-tennis set
type SetScore struct {
	ScoreA   int    `json:"score_a"`
	ScoreB   int    `json:"score_b"`
	WinnerID *int64 `json:"winner_id,omitempty"`
}

// TableTennisResult is the persisted result payload for a table-tennis match
type TableTennisResult struct {
	MatchType MatchType  `json:"match_type"`
	Sets      []SetScore `json:"sets"`
	SetsWonA  int        `json:"sets_won_a"`
	SetsWonB  int        `json:"sets_won_b"`
}

// TugOfWarResult is the persisted result payload for a tug-of-war match.
// Tug of war has no incremental score, only a binary outcome.
type TugOfWarResult struct {
	WinnerID *int64 `json:"winner_id,omitempty"`
}
