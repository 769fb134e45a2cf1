package processor_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Tejas0041/Dangal-4.0-sub001/internal/processor"
	"github.com/Tejas0041/Dangal-4.0-sub001/internal/registry"
	"github.com/Tejas0041/Dangal-4.0-sub001/internal/store"
	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/models"
)

// MockStore implements store.MatchStore for testing
type MockStore struct {
	match       *models.Match
	applyErr    error
	applyCalled bool
}

func (m *MockStore) GetByID(ctx context.Context, id int64) (*models.Match, error) {
	if m.match == nil || m.match.ID != id {
		return nil, store.ErrNotFound
	}
	copied := *m.match
	return &copied, nil
}

func (m *MockStore) List(ctx context.Context, filters store.MatchFilters) ([]models.Match, error) {
	return nil, nil
}

func (m *MockStore) ApplyResult(ctx context.Context, id int64, result json.RawMessage, status models.MatchStatus, winnerID *int64) (*models.Match, error) {
	m.applyCalled = true
	if m.applyErr != nil {
		return nil, m.applyErr
	}
	if m.match == nil || m.match.ID != id {
		return nil, store.ErrNotFound
	}

	m.match.Result = result
	m.match.Status = status
	m.match.WinnerID = winnerID

	copied := *m.match
	return &copied, nil
}

func (m *MockStore) Ping(ctx context.Context) error { return nil }
func (m *MockStore) Close() error                   { return nil }

// MockPublisher records what was published
type MockPublisher struct {
	matchUpdates int
	events       []models.LiveEvent
}

func (p *MockPublisher) PublishMatchUpdated(ctx context.Context, match *models.Match) error {
	p.matchUpdates++
	return nil
}

func (p *MockPublisher) PublishEvent(ctx context.Context, event models.LiveEvent) error {
	p.events = append(p.events, event)
	return nil
}

func kabaddiMatch() *models.Match {
	return &models.Match{
		ID:     1,
		Game:   models.GameRef{ID: 1, Key: models.GameKabaddi, Name: "Kabaddi"},
		TeamA:  models.TeamRef{ID: 10, Name: "Hall 3"},
		TeamB:  models.TeamRef{ID: 20, Name: "Hall 5"},
		Status: models.StatusLive,
	}
}

func leagueTTMatch() *models.Match {
	return &models.Match{
		ID:          2,
		Game:        models.GameRef{ID: 2, Key: models.GameTableTennis, Name: "Table Tennis"},
		TeamA:       models.TeamRef{ID: 10, Name: "Hall 3"},
		TeamB:       models.TeamRef{ID: 20, Name: "Hall 5"},
		Round:       models.RoundPreliminary,
		LeagueStage: true,
		Status:      models.StatusLive,
	}
}

func newProcessor(matchStore *MockStore, pub *MockPublisher) *processor.Processor {
	return processor.New(matchStore, registry.New(), pub, nil)
}

func TestProcess_UnknownMatch(t *testing.T) {
	proc := newProcessor(&MockStore{}, &MockPublisher{})

	_, _, err := proc.Process(context.Background(), 42, json.RawMessage(`{}`))
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestProcess_KabaddiScoreUpdate(t *testing.T) {
	matchStore := &MockStore{match: kabaddiMatch()}
	pub := &MockPublisher{}
	proc := newProcessor(matchStore, pub)

	payload, _ := json.Marshal(models.KabaddiResult{
		TeamA: models.KabaddiTeamScore{RaidPoints: 2},
	})

	updated, events, err := proc.Process(context.Background(), 1, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 1 || events[0].Type != models.EventTypeScoreUpdate {
		t.Fatalf("events = %v, want one scoreUpdate", events)
	}
	if events[0].GameKey != models.GameKabaddi {
		t.Errorf("gameKey = %s, want kabaddi", events[0].GameKey)
	}

	if pub.matchUpdates != 1 {
		t.Errorf("matchUpdated published %d times, want 1", pub.matchUpdates)
	}
	if len(pub.events) != 1 {
		t.Errorf("published %d events, want 1", len(pub.events))
	}

	if updated.Result == nil {
		t.Error("updated match is missing the persisted result")
	}
}

func TestProcess_MatchWonSuppressesLowerTiers(t *testing.T) {
	matchStore := &MockStore{match: leagueTTMatch()}
	pub := &MockPublisher{}
	proc := newProcessor(matchStore, pub)

	payload, _ := json.Marshal(models.TableTennisResult{
		MatchType: models.MatchTypeSingles,
		Sets:      []models.SetScore{{ScoreA: 11, ScoreB: 9}},
		SetsWonA:  1,
	})

	updated, events, err := proc.Process(context.Background(), 2, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("got %d events, want exactly 1", len(events))
	}
	if events[0].Type != models.EventTypeMatchWon {
		t.Errorf("event type = %s, want matchWon", events[0].Type)
	}
	if updated.Status != models.StatusCompleted {
		t.Errorf("status = %s, want Completed", updated.Status)
	}

	won, ok := events[0].Payload.(models.MatchWonEvent)
	if !ok {
		t.Fatalf("payload type %T, want MatchWonEvent", events[0].Payload)
	}
	if won.PointIncrement != 11 {
		t.Errorf("pointIncrement = %d, want 11", won.PointIncrement)
	}
}

func TestProcess_NoEventsWhenWriteFails(t *testing.T) {
	matchStore := &MockStore{match: kabaddiMatch(), applyErr: errors.New("db down")}
	pub := &MockPublisher{}
	proc := newProcessor(matchStore, pub)

	payload, _ := json.Marshal(models.KabaddiResult{
		TeamA: models.KabaddiTeamScore{RaidPoints: 2},
	})

	_, _, err := proc.Process(context.Background(), 1, payload)
	if err == nil {
		t.Fatal("expected error")
	}

	if pub.matchUpdates != 0 || len(pub.events) != 0 {
		t.Error("events were published despite a failed store write")
	}
}

func TestProcess_IdempotentResubmission(t *testing.T) {
	snapshot := models.KabaddiResult{
		TeamA: models.KabaddiTeamScore{RaidPoints: 5, Total: 5},
	}
	match := kabaddiMatch()
	match.Result, _ = json.Marshal(snapshot)

	matchStore := &MockStore{match: match}
	pub := &MockPublisher{}
	proc := newProcessor(matchStore, pub)

	payload, _ := json.Marshal(snapshot)

	_, events, err := proc.Process(context.Background(), 1, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 0 {
		t.Errorf("resubmission produced %d events, want 0", len(events))
	}
	// The full snapshot still goes out so plain consumers stay fresh
	if pub.matchUpdates != 1 {
		t.Errorf("matchUpdated published %d times, want 1", pub.matchUpdates)
	}
}

func TestProcess_CancelledMatchRejected(t *testing.T) {
	match := kabaddiMatch()
	match.Status = models.StatusCancelled

	proc := newProcessor(&MockStore{match: match}, &MockPublisher{})

	_, _, err := proc.Process(context.Background(), 1, json.RawMessage(`{}`))
	if !errors.Is(err, processor.ErrInvalidUpdate) {
		t.Fatalf("err = %v, want ErrInvalidUpdate", err)
	}
}

func TestProcess_UnknownGameRejected(t *testing.T) {
	match := kabaddiMatch()
	match.Game.Key = "chess"

	proc := newProcessor(&MockStore{match: match}, &MockPublisher{})

	_, _, err := proc.Process(context.Background(), 1, json.RawMessage(`{}`))
	if !errors.Is(err, processor.ErrInvalidUpdate) {
		t.Fatalf("err = %v, want ErrInvalidUpdate", err)
	}
}

func TestUpdateStatus_CompletionEmitsMatchWon(t *testing.T) {
	matchStore := &MockStore{match: kabaddiMatch()}
	pub := &MockPublisher{}
	proc := newProcessor(matchStore, pub)

	winner := int64(20)
	updated, events, err := proc.UpdateStatus(context.Background(), 1, models.StatusCompleted, &winner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Status != models.StatusCompleted {
		t.Errorf("status = %s, want Completed", updated.Status)
	}
	if len(events) != 1 || events[0].Type != models.EventTypeMatchWon {
		t.Fatalf("events = %v, want one matchWon", events)
	}

	won := events[0].Payload.(models.MatchWonEvent)
	if won.Team != models.TeamSlotB || won.Winner != winner {
		t.Errorf("won = %+v, want team B winner %d", won, winner)
	}
	if won.PointIncrement != 0 {
		t.Errorf("pointIncrement = %d, want 0", won.PointIncrement)
	}
}

func TestUpdateStatus_AlreadyCompletedEmitsNothing(t *testing.T) {
	match := kabaddiMatch()
	match.Status = models.StatusCompleted
	winner := int64(10)
	match.WinnerID = &winner

	pub := &MockPublisher{}
	proc := newProcessor(&MockStore{match: match}, pub)

	_, events, err := proc.UpdateStatus(context.Background(), 1, models.StatusCompleted, &winner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 0 {
		t.Errorf("re-completing produced %d events, want 0", len(events))
	}
}

func TestUpdateStatus_Validation(t *testing.T) {
	tests := []struct {
		name   string
		status models.MatchStatus
		winner *int64
	}{
		{"unknown status", "Paused", nil},
		{"winner outside match", models.StatusCompleted, int64Ptr(999)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc := newProcessor(&MockStore{match: kabaddiMatch()}, &MockPublisher{})

			_, _, err := proc.UpdateStatus(context.Background(), 1, tt.status, tt.winner)
			if !errors.Is(err, processor.ErrInvalidUpdate) {
				t.Fatalf("err = %v, want ErrInvalidUpdate", err)
			}
		})
	}
}

func int64Ptr(v int64) *int64 { return &v }
