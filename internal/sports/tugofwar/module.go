package tugofwar

import (
	"encoding/json"
	"fmt"

	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/contracts"
	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/models"
)

// Module implements Tug of War scoring: no incremental score, a winner in
// the payload means immediate match completion.
type Module struct{}

// New creates the Tug of War module
func New() *Module {
	return &Module{}
}

// GetGameKey returns the game key
func (m *Module) GetGameKey() string {
	return models.GameTugOfWar
}

// GetDisplayName returns the display name
func (m *Module) GetDisplayName() string {
	return "Tug of War"
}

// Diff treats a winner in the payload as immediate completion: the winner
// is persisted, status becomes Completed, and matchWon fires with a zero
// point increment. A payload without a winner changes nothing.
func (m *Module) Diff(match *models.Match, payload json.RawMessage) (*contracts.Outcome, error) {
	var incoming models.TugOfWarResult
	if err := json.Unmarshal(payload, &incoming); err != nil {
		return nil, fmt.Errorf("parsing tug of war payload: %w", err)
	}

	if incoming.WinnerID == nil {
		return &contracts.Outcome{
			Result:   match.Result,
			Status:   match.Status,
			WinnerID: match.WinnerID,
		}, nil
	}

	slot := match.TeamSlot(*incoming.WinnerID)
	if slot == "" {
		return nil, fmt.Errorf("winner %d is not a team of match %d", *incoming.WinnerID, match.ID)
	}

	result, err := json.Marshal(incoming)
	if err != nil {
		return nil, fmt.Errorf("marshaling tug of war result: %w", err)
	}

	var classification contracts.Classification
	// matchWon fires only when completion newly holds
	if match.Status != models.StatusCompleted {
		classification.MatchWon = &models.MatchWonEvent{
			MatchID: match.ID,
			Winner:  *incoming.WinnerID,
			Team:    slot,
		}
	}

	return &contracts.Outcome{
		Result:         result,
		Status:         models.StatusCompleted,
		WinnerID:       incoming.WinnerID,
		Classification: classification,
	}, nil
}
