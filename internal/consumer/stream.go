package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Tejas0041/Dangal-4.0-sub001/internal/config"
	"github.com/Tejas0041/Dangal-4.0-sub001/internal/hub"
	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Batch size for reading messages
	batchSize = 100

	// Block duration when waiting for new messages
	blockDuration = 1 * time.Second
)

// StreamConsumer consumes live-score messages from the Redis stream and
// hands them to the hub for fan-out
type StreamConsumer struct {
	redis        *redis.Client
	hub          *hub.Hub
	streamConfig config.StreamConfig
}

// NewStreamConsumer creates a new stream consumer
func NewStreamConsumer(redisClient *redis.Client, h *hub.Hub, streamConfig config.StreamConfig) *StreamConsumer {
	return &StreamConsumer{
		redis:        redisClient,
		hub:          h,
		streamConfig: streamConfig,
	}
}

// Start begins consuming from the live-scores stream
func (sc *StreamConsumer) Start(ctx context.Context) error {
	fmt.Println("✓ Stream consumer started")

	stream := sc.streamConfig.LiveScoresStream
	sc.createConsumerGroup(ctx, stream)

	fmt.Printf("  📡 Consuming stream: %s\n", stream)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			streams, err := sc.redis.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    sc.streamConfig.ConsumerGroup,
				Consumer: sc.streamConfig.ConsumerID,
				Streams:  []string{stream, ">"},
				Count:    batchSize,
				Block:    blockDuration,
			}).Result()

			if err != nil {
				if err == redis.Nil {
					// No new messages - continue
					continue
				}
				fmt.Printf("⚠️  Stream read error (%s): %v\n", stream, err)
				time.Sleep(1 * time.Second)
				continue
			}

			for _, s := range streams {
				for _, message := range s.Messages {
					sc.processMessage(ctx, s.Stream, message)
				}
			}
		}
	}
}

// createConsumerGroup creates a consumer group for a stream
func (sc *StreamConsumer) createConsumerGroup(ctx context.Context, stream string) {
	err := sc.redis.XGroupCreateMkStream(ctx, stream, sc.streamConfig.ConsumerGroup, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		fmt.Printf("⚠️  Failed to create consumer group for %s: %v\n", stream, err)
	}
}

// processMessage turns one stream entry into a hub broadcast.
// Entries are acknowledged after hand-off; delivery toward viewers is
// at-most-once.
func (sc *StreamConsumer) processMessage(ctx context.Context, stream string, msg redis.XMessage) {
	defer sc.ackMessage(ctx, stream, msg.ID)

	messageType, ok := msg.Values["type"].(string)
	if !ok {
		fmt.Printf("⚠️  Invalid message format in %s: %v\n", stream, msg.Values)
		return
	}

	dataStr, ok := msg.Values["data"].(string)
	if !ok {
		fmt.Printf("⚠️  Invalid message format in %s: %v\n", stream, msg.Values)
		return
	}

	var matchID int64
	if idStr, ok := msg.Values["match_id"].(string); ok {
		matchID, _ = strconv.ParseInt(idStr, 10, 64)
	}

	gameKey, _ := msg.Values["game_key"].(string)

	fmt.Printf("📤 Broadcasting %s: match=%d game=%s\n", messageType, matchID, gameKey)

	sc.hub.Broadcast(models.ServerMessage{
		Type:      messageType,
		MatchID:   matchID,
		GameKey:   gameKey,
		Payload:   json.RawMessage(dataStr),
		Timestamp: time.Now(),
	})
}

// ackMessage acknowledges a message in the stream
func (sc *StreamConsumer) ackMessage(ctx context.Context, stream string, messageID string) {
	err := sc.redis.XAck(ctx, stream, sc.streamConfig.ConsumerGroup, messageID).Err()
	if err != nil {
		fmt.Printf("⚠️  Failed to ack message %s in %s: %v\n", messageID, stream, err)
	}
}
