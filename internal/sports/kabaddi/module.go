package kabaddi

import (
	"encoding/json"
	"fmt"

	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/contracts"
	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/models"
)

// Module implements Kabaddi scoring: four score categories per team,
// no derived win condition. The winner is set by an explicit operator
// status update, never from score totals.
type Module struct{}

// New creates the Kabaddi module
func New() *Module {
	return &Module{}
}

// GetGameKey returns the game key
func (m *Module) GetGameKey() string {
	return models.GameKabaddi
}

// GetDisplayName returns the display name
func (m *Module) GetDisplayName() string {
	return "Kabaddi"
}

// Diff compares the incoming category scores against the stored result.
// Each team with a higher category sum gets one scoreUpdate carrying the
// increment and the list of categories that grew. Category decreases are
// operator corrections and produce no events.
func (m *Module) Diff(match *models.Match, payload json.RawMessage) (*contracts.Outcome, error) {
	var incoming models.KabaddiResult
	if err := json.Unmarshal(payload, &incoming); err != nil {
		return nil, fmt.Errorf("parsing kabaddi payload: %w", err)
	}

	var prev models.KabaddiResult
	if len(match.Result) > 0 {
		if err := json.Unmarshal(match.Result, &prev); err != nil {
			return nil, fmt.Errorf("parsing stored kabaddi result: %w", err)
		}
	}

	incoming.TeamA.Total = incoming.TeamA.Sum()
	incoming.TeamB.Total = incoming.TeamB.Sum()

	var classification contracts.Classification

	if inc := incoming.TeamA.Total - prev.TeamA.Sum(); inc > 0 {
		classification.ScoreUpdates = append(classification.ScoreUpdates, models.ScoreUpdateEvent{
			MatchID:    match.ID,
			Team:       models.TeamSlotA,
			Increment:  inc,
			Type:       models.ScoreUpdateKindPoint,
			ScoreTypes: categoryDeltas(prev.TeamA, incoming.TeamA),
		})
	}

	if inc := incoming.TeamB.Total - prev.TeamB.Sum(); inc > 0 {
		classification.ScoreUpdates = append(classification.ScoreUpdates, models.ScoreUpdateEvent{
			MatchID:    match.ID,
			Team:       models.TeamSlotB,
			Increment:  inc,
			Type:       models.ScoreUpdateKindPoint,
			ScoreTypes: categoryDeltas(prev.TeamB, incoming.TeamB),
		})
	}

	result, err := json.Marshal(incoming)
	if err != nil {
		return nil, fmt.Errorf("marshaling kabaddi result: %w", err)
	}

	status := match.Status
	if status == models.StatusScheduled {
		status = models.StatusLive
	}

	return &contracts.Outcome{
		Result:         result,
		Status:         status,
		WinnerID:       match.WinnerID,
		Classification: classification,
	}, nil
}

// categoryDeltas records each category whose value increased
func categoryDeltas(prev, next models.KabaddiTeamScore) []models.ScoreType {
	var deltas []models.ScoreType

	if d := next.RaidPoints - prev.RaidPoints; d > 0 {
		deltas = append(deltas, models.ScoreType{Type: models.CategoryRaid, Value: d})
	}
	if d := next.BonusPoints - prev.BonusPoints; d > 0 {
		deltas = append(deltas, models.ScoreType{Type: models.CategoryBonus, Value: d})
	}
	if d := next.AllOutPoints - prev.AllOutPoints; d > 0 {
		deltas = append(deltas, models.ScoreType{Type: models.CategoryAllOut, Value: d})
	}
	if d := next.ExtraPoints - prev.ExtraPoints; d > 0 {
		deltas = append(deltas, models.ScoreType{Type: models.CategoryExtra, Value: d})
	}

	return deltas
}
