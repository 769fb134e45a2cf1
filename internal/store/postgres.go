package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/models"
	_ "github.com/lib/pq"
)

// Client implements MatchStore backed by Postgres
type Client struct {
	db *sql.DB
}

// NewClient creates a new match store client
func NewClient(dsn string) (*Client, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{db: db}, nil
}

const matchColumns = `
	m.id, m.match_no,
	g.id, g.game_key, g.name,
	ta.id, ta.name,
	tb.id, tb.name,
	m.scheduled_at, m.venue, m.round, m.league_stage,
	m.status, m.result, m.winner_id, m.updated_at
`

const matchJoins = `
	FROM matches m
	JOIN games g ON g.id = m.game_id
	JOIN teams ta ON ta.id = m.team_a_id
	JOIN teams tb ON tb.id = m.team_b_id
`

// GetByID retrieves a single match with team and game references resolved
func (c *Client) GetByID(ctx context.Context, id int64) (*models.Match, error) {
	query := `SELECT ` + matchColumns + matchJoins + ` WHERE m.id = $1`

	row := c.db.QueryRowContext(ctx, query, id)
	match, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query match %d: %w", id, err)
	}

	return match, nil
}

// List retrieves matches with optional filtering, ordered by match number
func (c *Client) List(ctx context.Context, filters MatchFilters) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + matchJoins + ` WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filters.GameKey != "" {
		query += fmt.Sprintf(" AND g.game_key = $%d", argIdx)
		args = append(args, filters.GameKey)
		argIdx++
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND m.status = $%d", argIdx)
		args = append(args, filters.Status)
		argIdx++
	}

	if filters.Round != "" {
		query += fmt.Sprintf(" AND m.round = $%d", argIdx)
		args = append(args, filters.Round)
		argIdx++
	}

	query += " ORDER BY m.match_no ASC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filters.Limit)
		argIdx++
	}

	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, filters.Offset)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, *match)
	}

	return matches, rows.Err()
}

// ApplyResult persists the new result payload, status and winner for one
// match in a single UPDATE, then returns the fully resolved match
func (c *Client) ApplyResult(ctx context.Context, id int64, result json.RawMessage, status models.MatchStatus, winnerID *int64) (*models.Match, error) {
	query := `
		UPDATE matches
		SET result = $2, status = $3, winner_id = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var resultArg sql.NullString
	if len(result) > 0 {
		resultArg = sql.NullString{String: string(result), Valid: true}
	}

	var winnerArg sql.NullInt64
	if winnerID != nil {
		winnerArg = sql.NullInt64{Int64: *winnerID, Valid: true}
	}

	var updatedID int64
	err := c.db.QueryRowContext(ctx, query, id, resultArg, string(status), winnerArg).Scan(&updatedID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update match %d: %w", id, err)
	}

	return c.GetByID(ctx, updatedID)
}

// Ping checks database connectivity
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// scanner abstracts *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanMatch scans one joined match row
func scanMatch(s scanner) (*models.Match, error) {
	var m models.Match
	var result sql.NullString
	var winner sql.NullInt64

	err := s.Scan(
		&m.ID, &m.MatchNo,
		&m.Game.ID, &m.Game.Key, &m.Game.Name,
		&m.TeamA.ID, &m.TeamA.Name,
		&m.TeamB.ID, &m.TeamB.Name,
		&m.ScheduledAt, &m.Venue, &m.Round, &m.LeagueStage,
		&m.Status, &result, &winner, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if result.Valid {
		m.Result = json.RawMessage(result.String)
	}
	if winner.Valid {
		w := winner.Int64
		m.WinnerID = &w
	}

	return &m, nil
}
