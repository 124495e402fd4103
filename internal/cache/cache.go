// Package cache keeps in-flight table state in Redis so a restarted
// client can rejoin a live table and rebuild its beliefs by replaying
// the cached action log.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/WillFlame14/hanabi-bot-sub000/hanabi"
)

// ErrNoTable is returned when no state is cached for the table.
var ErrNoTable = errors.New("cache: no cached table")

// DefaultTTL covers the longest plausible game plus reconnect slack.
const DefaultTTL = 6 * time.Hour

// TableState is everything needed to resume a table: replaying Actions
// through a fresh game reproduces the full belief state.
type TableState struct {
	TableID    int64           `json:"tableID"`
	Variant    string          `json:"variant"`
	NumPlayers int             `json:"numPlayers"`
	OurSeat    int             `json:"ourSeat"`
	Actions    []hanabi.Action `json:"actions"`
}

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(addr string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: ttl,
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Cache) Close() error { return c.rdb.Close() }

func tableKey(tableID int64) string {
	return fmt.Sprintf("hanabot:table:%d", tableID)
}

// SaveTable overwrites the cached state for the table and refreshes the TTL.
func (c *Cache) SaveTable(ctx context.Context, st TableState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("cache: marshal table %d: %w", st.TableID, err)
	}
	return c.rdb.Set(ctx, tableKey(st.TableID), raw, c.ttl).Err()
}

// LoadTable fetches the cached state for the table.
func (c *Cache) LoadTable(ctx context.Context, tableID int64) (*TableState, error) {
	raw, err := c.rdb.Get(ctx, tableKey(tableID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoTable
		}
		return nil, fmt.Errorf("cache: load table %d: %w", tableID, err)
	}
	var st TableState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("cache: unmarshal table %d: %w", tableID, err)
	}
	return &st, nil
}

// DeleteTable drops the cached state once the game is over.
func (c *Cache) DeleteTable(ctx context.Context, tableID int64) error {
	return c.rdb.Del(ctx, tableKey(tableID)).Err()
}
