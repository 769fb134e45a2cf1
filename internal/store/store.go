package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/models"
)

// ErrNotFound is returned when a match id does not exist
var ErrNotFound = errors.New("match not found")

// MatchFilters contains filters for querying the schedule
type MatchFilters struct {
	GameKey string
	Status  string
	Round   string
	Limit   int
	Offset  int
}

// MatchStore defines persistence for match documents.
// ApplyResult is the only mutator the score processor uses: it writes the
// new result payload, status and winner in a single statement and returns
// the updated match with team and game references resolved.
type MatchStore interface {
	GetByID(ctx context.Context, id int64) (*models.Match, error)
	List(ctx context.Context, filters MatchFilters) ([]models.Match, error)
	ApplyResult(ctx context.Context, id int64, result json.RawMessage, status models.MatchStatus, winnerID *int64) (*models.Match, error)
	Ping(ctx context.Context) error
	Close() error
}
