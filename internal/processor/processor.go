package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Tejas0041/Dangal-4.0-sub001/internal/registry"
	"github.com/Tejas0041/Dangal-4.0-sub001/internal/store"
	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/contracts"
	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/models"
)

// ErrInvalidUpdate marks payloads the processor rejects (unknown game,
// malformed score shape, bad status or winner). Maps to HTTP 400.
var ErrInvalidUpdate = errors.New("invalid update")

// Publisher fans messages out to the live-scores channel
type Publisher interface {
	PublishMatchUpdated(ctx context.Context, match *models.Match) error
	PublishEvent(ctx context.Context, event models.LiveEvent) error
}

// Cache stores resolved match snapshots for fast reads
type Cache interface {
	WriteMatch(ctx context.Context, match *models.Match) error
}

// Processor is the score state machine: it diffs incoming snapshots
// against stored state, persists the new state, and emits at most one
// semantic event tier per update.
type Processor struct {
	store     store.MatchStore
	registry  *registry.Registry
	publisher Publisher
	cache     Cache
}

// New creates a score update processor. cache may be nil.
func New(matchStore store.MatchStore, reg *registry.Registry, pub Publisher, cache Cache) *Processor {
	return &Processor{
		store:     matchStore,
		registry:  reg,
		publisher: pub,
		cache:     cache,
	}
}

// Process applies a new score snapshot to a match.
//
// The snapshot is always diffed against the previously persisted result,
// never against another incoming snapshot. Events are published only after
// the store write succeeds; a failed write aborts the request with no
// events. Two concurrent operator edits race on the read-modify-write
// baseline (last write wins) — acceptable with a single scoreboard admin.
func (p *Processor) Process(ctx context.Context, matchID int64, payload json.RawMessage) (*models.Match, []models.LiveEvent, error) {
	match, err := p.store.GetByID(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}

	if match.Status == models.StatusCancelled {
		return nil, nil, fmt.Errorf("%w: match %d is cancelled", ErrInvalidUpdate, matchID)
	}

	module, err := p.registry.GetModule(match.Game.Key)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidUpdate, err)
	}

	outcome, err := module.Diff(match, payload)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidUpdate, err)
	}

	updated, err := p.store.ApplyResult(ctx, matchID, outcome.Result, outcome.Status, outcome.WinnerID)
	if err != nil {
		return nil, nil, err
	}

	events := collapse(match.Game.Key, outcome.Classification)
	p.broadcast(ctx, updated, events)

	return updated, events, nil
}

// UpdateStatus applies an explicit operator status/winner override. This
// is the only winner path for Kabaddi, and the cancellation path for all
// games. A transition into Completed with a winner emits matchWon with a
// zero point increment.
func (p *Processor) UpdateStatus(ctx context.Context, matchID int64, status models.MatchStatus, winnerID *int64) (*models.Match, []models.LiveEvent, error) {
	if !models.ValidStatus(status) {
		return nil, nil, fmt.Errorf("%w: unknown status %q", ErrInvalidUpdate, status)
	}

	match, err := p.store.GetByID(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}

	var slot models.Team
	if winnerID != nil {
		slot = match.TeamSlot(*winnerID)
		if slot == "" {
			return nil, nil, fmt.Errorf("%w: winner %d is not a team of match %d", ErrInvalidUpdate, *winnerID, matchID)
		}
	}

	updated, err := p.store.ApplyResult(ctx, matchID, match.Result, status, winnerID)
	if err != nil {
		return nil, nil, err
	}

	var events []models.LiveEvent
	if status == models.StatusCompleted && winnerID != nil && match.Status != models.StatusCompleted {
		events = append(events, models.LiveEvent{
			Type:    models.EventTypeMatchWon,
			MatchID: matchID,
			GameKey: match.Game.Key,
			Payload: models.MatchWonEvent{
				MatchID: matchID,
				Winner:  *winnerID,
				Team:    slot,
			},
		})
	}

	p.broadcast(ctx, updated, events)

	return updated, events, nil
}

// broadcast publishes the full match plus the derived events.
// Fire-and-forget: failures are logged and never retried, and they never
// fail the request — storage is already updated.
func (p *Processor) broadcast(ctx context.Context, match *models.Match, events []models.LiveEvent) {
	if p.cache != nil {
		if err := p.cache.WriteMatch(ctx, match); err != nil {
			fmt.Printf("⚠️  failed to cache match %d: %v\n", match.ID, err)
		}
	}

	if p.publisher == nil {
		return
	}

	if err := p.publisher.PublishMatchUpdated(ctx, match); err != nil {
		fmt.Printf("⚠️  failed to publish matchUpdated for match %d: %v\n", match.ID, err)
	}

	for _, event := range events {
		if err := p.publisher.PublishEvent(ctx, event); err != nil {
			fmt.Printf("⚠️  failed to publish %s for match %d: %v\n", event.Type, match.ID, err)
		}
	}
}

// collapse applies the emission priority: matchWon beats setWon beats
// scoreUpdate, and only one tier fires per processed snapshot
func collapse(gameKey string, c contracts.Classification) []models.LiveEvent {
	switch {
	case c.MatchWon != nil:
		return []models.LiveEvent{{
			Type:    models.EventTypeMatchWon,
			MatchID: c.MatchWon.MatchID,
			GameKey: gameKey,
			Payload: *c.MatchWon,
		}}

	case c.SetWon != nil:
		return []models.LiveEvent{{
			Type:    models.EventTypeSetWon,
			MatchID: c.SetWon.MatchID,
			GameKey: gameKey,
			Payload: *c.SetWon,
		}}

	default:
		var events []models.LiveEvent
		for _, update := range c.ScoreUpdates {
			if update.Increment <= 0 {
				continue
			}
			events = append(events, models.LiveEvent{
				Type:    models.EventTypeScoreUpdate,
				MatchID: update.MatchID,
				GameKey: gameKey,
				Payload: update,
			})
		}
		return events
	}
}
