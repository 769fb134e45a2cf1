// Package reducer turns the live-score event stream into one visible
// animation at a time for a scoreboard view of a single match.
//
// Events arriving while an animation plays are dropped rather than queued:
// the audience only needs to see the latest few changes, and authoritative
// state always arrives separately via matchUpdated snapshots.
package reducer

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/models"
)

// Animation durations
const (
	PointDuration   = 1500 * time.Millisecond
	OutcomeDuration = 5 * time.Second
)

// Phase is the reducer's animation state
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAnimatingPoint
	PhaseAnimatingOutcome
)

// Clock abstracts timer waits so tests can drive animations deterministically
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// Frame is one animation step handed to the renderer
type Frame struct {
	Kind       string // pointScored, setWon or matchWon
	Team       models.Team
	Increment  int
	SetNumber  int
	Winner     int64
	ScoreTypes []models.ScoreType
	Duration   time.Duration
}

// Reducer sequences score events for one match into animation frames.
// A compound event (set or match won off a scoring rally) plays the point
// frame first, then the outcome frame.
type Reducer struct {
	matchID int64
	clock   Clock
	frames  chan Frame

	mu      sync.Mutex
	phase   Phase
	match   *models.Match
	dropped int64
}

// Option configures a Reducer
type Option func(*Reducer)

// WithClock replaces the timer source (used in tests)
func WithClock(c Clock) Option {
	return func(r *Reducer) {
		r.clock = c
	}
}

// New creates a reducer for one match id
func New(matchID int64, opts ...Option) *Reducer {
	r := &Reducer{
		matchID: matchID,
		clock:   systemClock{},
		frames:  make(chan Frame, 8),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Frames returns the channel of animation frames for the renderer
func (r *Reducer) Frames() <-chan Frame {
	return r.frames
}

// Phase returns the current animation phase
func (r *Reducer) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Dropped returns how many events were discarded mid-animation
func (r *Reducer) Dropped() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Snapshot returns the latest authoritative match state, if any
func (r *Reducer) Snapshot() *models.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.match
}

// Apply consumes one message from the live channel.
//
// matchUpdated always merges into local state, animating or not. Score
// events for other matches are ignored; score events arriving while an
// animation is in progress are dropped.
func (r *Reducer) Apply(msg models.IncomingMessage) error {
	switch msg.Type {
	case models.EventTypeMatchUpdated:
		return r.applySnapshot(msg.Payload)

	case models.EventTypeScoreUpdate, models.EventTypeSetWon, models.EventTypeMatchWon:
		if msg.MatchID != r.matchID {
			return nil
		}
		return r.applyEvent(msg)

	default:
		// heartbeats, errors etc. are not the reducer's concern
		return nil
	}
}

// applySnapshot merges a full match snapshot
func (r *Reducer) applySnapshot(payload json.RawMessage) error {
	var match models.Match
	if err := json.Unmarshal(payload, &match); err != nil {
		return fmt.Errorf("parsing match snapshot: %w", err)
	}

	if match.ID != r.matchID {
		return nil
	}

	r.mu.Lock()
	r.match = &match
	r.mu.Unlock()

	return nil
}

// applyEvent starts an animation sequence if the reducer is idle
func (r *Reducer) applyEvent(msg models.IncomingMessage) error {
	sequence, err := framesFor(msg)
	if err != nil {
		return err
	}

	if len(sequence) == 0 {
		// Zero-increment update, nothing to show
		return nil
	}

	r.mu.Lock()
	if r.phase != PhaseIdle {
		r.dropped++
		r.mu.Unlock()
		return nil
	}
	r.phase = phaseFor(sequence[0])
	r.mu.Unlock()

	go r.run(sequence)

	return nil
}

// run plays an animation sequence to completion, then returns to Idle
func (r *Reducer) run(sequence []Frame) {
	for _, frame := range sequence {
		r.setPhase(phaseFor(frame))
		r.frames <- frame
		<-r.clock.After(frame.Duration)
	}

	r.setPhase(PhaseIdle)
}

func (r *Reducer) setPhase(p Phase) {
	r.mu.Lock()
	r.phase = p
	r.mu.Unlock()
}

// framesFor translates one wire event into its animation sequence
func framesFor(msg models.IncomingMessage) ([]Frame, error) {
	switch msg.Type {
	case models.EventTypeScoreUpdate:
		var ev models.ScoreUpdateEvent
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			return nil, fmt.Errorf("parsing scoreUpdate: %w", err)
		}
		if ev.Increment <= 0 {
			return nil, nil
		}
		return []Frame{{
			Kind:       models.EventTypeScoreUpdate,
			Team:       ev.Team,
			Increment:  ev.Increment,
			ScoreTypes: ev.ScoreTypes,
			Duration:   PointDuration,
		}}, nil

	case models.EventTypeSetWon:
		var ev models.SetWonEvent
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			return nil, fmt.Errorf("parsing setWon: %w", err)
		}
		outcome := Frame{
			Kind:      models.EventTypeSetWon,
			Team:      ev.Team,
			SetNumber: ev.SetNumber,
			Increment: ev.PointIncrement,
			Duration:  OutcomeDuration,
		}
		return withPointPrefix(ev.Team, ev.PointIncrement, outcome), nil

	case models.EventTypeMatchWon:
		var ev models.MatchWonEvent
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			return nil, fmt.Errorf("parsing matchWon: %w", err)
		}
		outcome := Frame{
			Kind:       models.EventTypeMatchWon,
			Team:       ev.Team,
			Winner:     ev.Winner,
			Increment:  ev.PointIncrement,
			ScoreTypes: ev.ScoreTypes,
			Duration:   OutcomeDuration,
		}
		return withPointPrefix(ev.Team, ev.PointIncrement, outcome), nil
	}

	return nil, nil
}

// withPointPrefix prepends a point animation when the final rally scored
func withPointPrefix(team models.Team, increment int, outcome Frame) []Frame {
	if increment <= 0 {
		return []Frame{outcome}
	}

	point := Frame{
		Kind:      models.EventTypeScoreUpdate,
		Team:      team,
		Increment: increment,
		Duration:  PointDuration,
	}
	return []Frame{point, outcome}
}

func phaseFor(f Frame) Phase {
	if f.Kind == models.EventTypeScoreUpdate {
		return PhaseAnimatingPoint
	}
	return PhaseAnimatingOutcome
}
