package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/models"
	"github.com/redis/go-redis/v9"
)

// StreamPublisher publishes live-score messages to the shared Redis stream.
// Delivery is fire-and-forget: a failed publish is the caller's to log,
// never to retry.
type StreamPublisher struct {
	client *redis.Client
	stream string
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	return &StreamPublisher{
		client: client,
		stream: stream,
	}
}

// PublishMatchUpdated publishes the full resolved match. This fires on
// every score or status change, alongside any semantic event, so plain
// consumers can refresh state without running the animation reducer.
func (p *StreamPublisher) PublishMatchUpdated(ctx context.Context, match *models.Match) error {
	data, err := json.Marshal(match)
	if err != nil {
		return fmt.Errorf("marshaling match update: %w", err)
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"type":     models.EventTypeMatchUpdated,
			"match_id": strconv.FormatInt(match.ID, 10),
			"game_key": match.Game.Key,
			"data":     string(data),
		},
	}).Err()
}

// PublishEvent publishes one semantic score event
func (p *StreamPublisher) PublishEvent(ctx context.Context, event models.LiveEvent) error {
	data, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("marshaling %s event: %w", event.Type, err)
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"type":     event.Type,
			"match_id": strconv.FormatInt(event.MatchID, 10),
			"game_key": event.GameKey,
			"data":     string(data),
		},
	}).Err()
}
