package tabletennis

import (
	"encoding/json"
	"fmt"

	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/contracts"
	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/models"
)

// Module implements Table Tennis scoring: best-of-three sets (single set
// in the league stage), 11 points singles / 15 doubles, win by two at deuce.
type Module struct{}

// New creates the Table Tennis module
func New() *Module {
	return &Module{}
}

// GetGameKey returns the game key
func (m *Module) GetGameKey() string {
	return models.GameTableTennis
}

// GetDisplayName returns the display name
func (m *Module) GetDisplayName() string {
	return "Table Tennis"
}

// Diff compares the incoming sets and set counts against the stored result.
//
// Set completion is detected from the sets-won counters, points from the
// last set in the incoming array diffed against the same index previously.
// A side reaching the round's sets-to-win threshold completes the match;
// if a downward edit leaves neither side at the threshold while the match
// is Completed, the winner is cleared and the match reverts to Live.
func (m *Module) Diff(match *models.Match, payload json.RawMessage) (*contracts.Outcome, error) {
	var incoming models.TableTennisResult
	if err := json.Unmarshal(payload, &incoming); err != nil {
		return nil, fmt.Errorf("parsing table tennis payload: %w", err)
	}

	var prev models.TableTennisResult
	if len(match.Result) > 0 {
		if err := json.Unmarshal(match.Result, &prev); err != nil {
			return nil, fmt.Errorf("parsing stored table tennis result: %w", err)
		}
	}

	if incoming.MatchType == "" {
		incoming.MatchType = prev.MatchType
	}
	if incoming.MatchType == "" {
		incoming.MatchType = models.MatchTypeSingles
	}

	incA, incB := lastSetIncrements(prev, incoming)
	annotateSetWinners(&incoming, match)

	setsToWin := 2
	if match.LeagueStage {
		setsToWin = 1
	}

	status := match.Status
	if status == models.StatusScheduled {
		status = models.StatusLive
	}
	winnerID := match.WinnerID

	var classification contracts.Classification

	switch {
	case incoming.SetsWonA >= setsToWin:
		status = models.StatusCompleted
		winnerID = &match.TeamA.ID
		// matchWon fires only when the win condition newly holds
		if match.Status != models.StatusCompleted {
			classification.MatchWon = &models.MatchWonEvent{
				MatchID:        match.ID,
				Winner:         match.TeamA.ID,
				Team:           models.TeamSlotA,
				PointIncrement: positive(incA),
			}
		}

	case incoming.SetsWonB >= setsToWin:
		status = models.StatusCompleted
		winnerID = &match.TeamB.ID
		if match.Status != models.StatusCompleted {
			classification.MatchWon = &models.MatchWonEvent{
				MatchID:        match.ID,
				Winner:         match.TeamB.ID,
				Team:           models.TeamSlotB,
				PointIncrement: positive(incB),
			}
		}

	default:
		// Un-resolve: a downward edit took the winner below the threshold
		if match.Status == models.StatusCompleted {
			status = models.StatusLive
			winnerID = nil
		}

		switch {
		case incoming.SetsWonA == prev.SetsWonA+1:
			classification.SetWon = &models.SetWonEvent{
				MatchID:        match.ID,
				Team:           models.TeamSlotA,
				SetNumber:      incoming.SetsWonA,
				PointIncrement: positive(incA),
			}

		case incoming.SetsWonB == prev.SetsWonB+1:
			classification.SetWon = &models.SetWonEvent{
				MatchID:        match.ID,
				Team:           models.TeamSlotB,
				SetNumber:      incoming.SetsWonB,
				PointIncrement: positive(incB),
			}

		default:
			if incA > 0 {
				classification.ScoreUpdates = append(classification.ScoreUpdates, models.ScoreUpdateEvent{
					MatchID:   match.ID,
					Team:      models.TeamSlotA,
					Increment: incA,
					Type:      models.ScoreUpdateKindPoint,
				})
			}
			if incB > 0 {
				classification.ScoreUpdates = append(classification.ScoreUpdates, models.ScoreUpdateEvent{
					MatchID:   match.ID,
					Team:      models.TeamSlotB,
					Increment: incB,
					Type:      models.ScoreUpdateKindPoint,
				})
			}
		}
	}

	result, err := json.Marshal(incoming)
	if err != nil {
		return nil, fmt.Errorf("marshaling table tennis result: %w", err)
	}

	return &contracts.Outcome{
		Result:         result,
		Status:         status,
		WinnerID:       winnerID,
		Classification: classification,
	}, nil
}

// lastSetIncrements diffs the last incoming set against the same index in
// the stored result. The last set is the currently active one, or the set
// just completed when a sets-won counter moved in the same update.
func lastSetIncrements(prev, incoming models.TableTennisResult) (incA, incB int) {
	if len(incoming.Sets) == 0 {
		return 0, 0
	}

	idx := len(incoming.Sets) - 1
	last := incoming.Sets[idx]

	var before models.SetScore
	if idx < len(prev.Sets) {
		before = prev.Sets[idx]
	}

	return last.ScoreA - before.ScoreA, last.ScoreB - before.ScoreB
}

// annotateSetWinners fills in the winner reference for every decided set
func annotateSetWinners(result *models.TableTennisResult, match *models.Match) {
	pointsToWin := result.MatchType.PointsToWin()

	for i := range result.Sets {
		set := &result.Sets[i]
		if set.WinnerID != nil {
			continue
		}

		switch {
		case set.ScoreA >= pointsToWin && set.ScoreA-set.ScoreB >= 2:
			set.WinnerID = &match.TeamA.ID
		case set.ScoreB >= pointsToWin && set.ScoreB-set.ScoreA >= 2:
			set.WinnerID = &match.TeamB.ID
		}
	}
}

// positive clamps a delta to zero for event payloads
func positive(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
