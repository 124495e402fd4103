// Package gamelog persists finished games: one row per game holding the
// full ordered action log, which is enough to rebuild every belief state
// by replay.
package gamelog

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WillFlame14/hanabi-bot-sub000/hanabi"
)

//go:embed schema.sql
var schema embed.FS

// ErrNotFound is returned when no game exists under the requested id.
var ErrNotFound = errors.New("gamelog: game not found")

type DB struct{ *pgxpool.Pool }

func Open(ctx context.Context, dsn string) (*DB, error) {
	p, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("gamelog: open pool: %w", err)
	}
	return &DB{p}, nil
}

func (db *DB) Close() { db.Pool.Close() }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

// Record is one finished game.
type Record struct {
	ID         uuid.UUID       `json:"id"`
	TableID    int64           `json:"tableID"`
	Variant    string          `json:"variant"`
	NumPlayers int             `json:"numPlayers"`
	Seat       int             `json:"seat"`
	Score      int             `json:"score"`
	Actions    []hanabi.Action `json:"actions,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// SaveGame inserts a finished game and returns its id.
func (db *DB) SaveGame(ctx context.Context, rec Record) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	actions, err := json.Marshal(rec.Actions)
	if err != nil {
		return uuid.Nil, fmt.Errorf("gamelog: marshal actions: %w", err)
	}
	_, err = db.Exec(ctx, `
        INSERT INTO games(id, table_id, variant, num_players, seat, score, actions)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
    `, rec.ID, rec.TableID, rec.Variant, rec.NumPlayers, rec.Seat, rec.Score, actions)
	if err != nil {
		return uuid.Nil, fmt.Errorf("gamelog: insert game: %w", err)
	}
	return rec.ID, nil
}

// LoadGame fetches one game including its action log.
func (db *DB) LoadGame(ctx context.Context, id uuid.UUID) (*Record, error) {
	var rec Record
	var actions []byte
	err := db.QueryRow(ctx, `
        SELECT id, table_id, variant, num_players, seat, score, actions, created_at
          FROM games WHERE id = $1
    `, id).Scan(&rec.ID, &rec.TableID, &rec.Variant, &rec.NumPlayers,
		&rec.Seat, &rec.Score, &actions, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gamelog: load game: %w", err)
	}
	if err := json.Unmarshal(actions, &rec.Actions); err != nil {
		return nil, fmt.Errorf("gamelog: unmarshal actions: %w", err)
	}
	return &rec, nil
}

// ListGames returns recent games, newest first, without action payloads.
func (db *DB) ListGames(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(ctx, `
        SELECT id, table_id, variant, num_players, seat, score, created_at
          FROM games ORDER BY created_at DESC LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("gamelog: list games: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.TableID, &rec.Variant,
			&rec.NumPlayers, &rec.Seat, &rec.Score, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
