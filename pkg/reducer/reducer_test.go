package reducer_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/models"
	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/reducer"
)

// fakeClock releases animation waits only when the test ticks
type fakeClock struct {
	ch chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{ch: make(chan time.Time)}
}

func (f *fakeClock) After(d time.Duration) <-chan time.Time {
	return f.ch
}

func (f *fakeClock) tick() {
	f.ch <- time.Time{}
}

func event(t *testing.T, msgType string, matchID int64, payload interface{}) models.IncomingMessage {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return models.IncomingMessage{
		Type:    msgType,
		MatchID: matchID,
		Payload: data,
	}
}

func waitForPhase(t *testing.T, r *reducer.Reducer, want reducer.Phase) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r.Phase() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("phase = %d, want %d", r.Phase(), want)
}

func nextFrame(t *testing.T, r *reducer.Reducer) reducer.Frame {
	t.Helper()
	select {
	case frame := <-r.Frames():
		return frame
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return reducer.Frame{}
	}
}

func TestCompoundEventPlaysPointThenOutcome(t *testing.T) {
	clock := newFakeClock()
	r := reducer.New(3, reducer.WithClock(clock))

	msg := event(t, models.EventTypeSetWon, 3, models.SetWonEvent{
		MatchID: 3, Team: models.TeamSlotB, SetNumber: 1, PointIncrement: 3,
	})
	if err := r.Apply(msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	point := nextFrame(t, r)
	if point.Kind != models.EventTypeScoreUpdate {
		t.Errorf("first frame = %s, want scoreUpdate", point.Kind)
	}
	if point.Increment != 3 || point.Team != models.TeamSlotB {
		t.Errorf("point frame = %+v, want +3 for B", point)
	}
	if point.Duration != reducer.PointDuration {
		t.Errorf("point duration = %v, want %v", point.Duration, reducer.PointDuration)
	}
	if r.Phase() != reducer.PhaseAnimatingPoint {
		t.Errorf("phase = %d, want AnimatingPoint", r.Phase())
	}

	clock.tick()

	outcome := nextFrame(t, r)
	if outcome.Kind != models.EventTypeSetWon {
		t.Errorf("second frame = %s, want setWon", outcome.Kind)
	}
	if outcome.SetNumber != 1 {
		t.Errorf("setNumber = %d, want 1", outcome.SetNumber)
	}
	if outcome.Duration != reducer.OutcomeDuration {
		t.Errorf("outcome duration = %v, want %v", outcome.Duration, reducer.OutcomeDuration)
	}

	clock.tick()
	waitForPhase(t, r, reducer.PhaseIdle)
}

func TestEventDroppedWhileAnimating(t *testing.T) {
	clock := newFakeClock()
	r := reducer.New(3, reducer.WithClock(clock))

	first := event(t, models.EventTypeSetWon, 3, models.SetWonEvent{
		MatchID: 3, Team: models.TeamSlotB, SetNumber: 1, PointIncrement: 2,
	})
	if err := r.Apply(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// matchWon arriving mid-animation is dropped, not queued
	second := event(t, models.EventTypeMatchWon, 3, models.MatchWonEvent{
		MatchID: 3, Winner: 20, Team: models.TeamSlotB, PointIncrement: 2,
	})
	if err := r.Apply(second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Dropped() != 1 {
		t.Errorf("dropped = %d, want 1", r.Dropped())
	}

	// Authoritative state still lands via the parallel matchUpdated
	winner := int64(20)
	snapshot := event(t, models.EventTypeMatchUpdated, 3, models.Match{
		ID:       3,
		Status:   models.StatusCompleted,
		WinnerID: &winner,
	})
	if err := r.Apply(snapshot); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := r.Snapshot(); got == nil || got.Status != models.StatusCompleted {
		t.Error("matchUpdated must merge even while animating")
	}

	nextFrame(t, r)
	clock.tick()
	nextFrame(t, r)
	clock.tick()
	waitForPhase(t, r, reducer.PhaseIdle)
}

func TestZeroIncrementOutcomeSkipsPointPhase(t *testing.T) {
	clock := newFakeClock()
	r := reducer.New(5, reducer.WithClock(clock))

	msg := event(t, models.EventTypeMatchWon, 5, models.MatchWonEvent{
		MatchID: 5, Winner: 10, Team: models.TeamSlotA, PointIncrement: 0,
	})
	if err := r.Apply(msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	frame := nextFrame(t, r)
	if frame.Kind != models.EventTypeMatchWon {
		t.Errorf("frame = %s, want matchWon directly", frame.Kind)
	}
	if r.Phase() != reducer.PhaseAnimatingOutcome {
		t.Errorf("phase = %d, want AnimatingOutcome", r.Phase())
	}

	clock.tick()
	waitForPhase(t, r, reducer.PhaseIdle)
}

func TestPlainScoreUpdate(t *testing.T) {
	clock := newFakeClock()
	r := reducer.New(7, reducer.WithClock(clock))

	msg := event(t, models.EventTypeScoreUpdate, 7, models.ScoreUpdateEvent{
		MatchID: 7, Team: models.TeamSlotA, Increment: 2, Type: models.ScoreUpdateKindPoint,
	})
	if err := r.Apply(msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	frame := nextFrame(t, r)
	if frame.Kind != models.EventTypeScoreUpdate || frame.Increment != 2 {
		t.Errorf("frame = %+v, want +2 point", frame)
	}

	clock.tick()
	waitForPhase(t, r, reducer.PhaseIdle)
}

func TestZeroIncrementScoreUpdateIsNoOp(t *testing.T) {
	r := reducer.New(7, reducer.WithClock(newFakeClock()))

	msg := event(t, models.EventTypeScoreUpdate, 7, models.ScoreUpdateEvent{
		MatchID: 7, Team: models.TeamSlotA, Increment: 0, Type: models.ScoreUpdateKindPoint,
	})
	if err := r.Apply(msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Phase() != reducer.PhaseIdle {
		t.Error("zero-increment update must not animate")
	}
	select {
	case frame := <-r.Frames():
		t.Errorf("unexpected frame %+v", frame)
	default:
	}
}

func TestOtherMatchIgnored(t *testing.T) {
	r := reducer.New(7, reducer.WithClock(newFakeClock()))

	msg := event(t, models.EventTypeScoreUpdate, 99, models.ScoreUpdateEvent{
		MatchID: 99, Team: models.TeamSlotA, Increment: 5, Type: models.ScoreUpdateKindPoint,
	})
	if err := r.Apply(msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Phase() != reducer.PhaseIdle {
		t.Error("events for other matches must be ignored")
	}
	if r.Dropped() != 0 {
		t.Errorf("dropped = %d, want 0 (ignored, not dropped)", r.Dropped())
	}
}
