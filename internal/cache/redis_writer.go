package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/models"
	"github.com/redis/go-redis/v9"
)

// TTL constants
const (
	LiveMatchTTL  = 2 * time.Hour
	FinalMatchTTL = 6 * time.Hour
)

// Writer handles caching resolved match snapshots in Redis
type Writer struct {
	client *redis.Client
}

// NewWriter creates a new cache writer
func NewWriter(client *redis.Client) *Writer {
	return &Writer{
		client: client,
	}
}

// WriteMatch stores the resolved match snapshot
func (w *Writer) WriteMatch(ctx context.Context, match *models.Match) error {
	key := matchKey(match.ID)

	data, err := json.Marshal(match)
	if err != nil {
		return fmt.Errorf("marshaling match %d: %w", match.ID, err)
	}

	ttl := LiveMatchTTL
	if match.Status == models.StatusCompleted || match.Status == models.StatusCancelled {
		ttl = FinalMatchTTL
	}

	return w.client.Set(ctx, key, data, ttl).Err()
}

// ReadMatch loads a cached match snapshot. Returns redis.Nil on a miss.
func (w *Writer) ReadMatch(ctx context.Context, matchID int64) (*models.Match, error) {
	data, err := w.client.Get(ctx, matchKey(matchID)).Result()
	if err != nil {
		return nil, err
	}

	var match models.Match
	if err := json.Unmarshal([]byte(data), &match); err != nil {
		return nil, fmt.Errorf("parsing cached match %d: %w", matchID, err)
	}

	return &match, nil
}

// IsMiss reports whether a ReadMatch error was a cache miss
func IsMiss(err error) bool {
	return err == redis.Nil
}

func matchKey(matchID int64) string {
	return fmt.Sprintf("match:%d:summary", matchID)
}
