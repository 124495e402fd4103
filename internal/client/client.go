// Package client connects the belief engine to a live game server over
// a websocket. It feeds the server's ordered action stream into the
// engine, answers our turns with the convention's chosen action, and
// persists the finished log.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/WillFlame14/hanabi-bot-sub000/hanabi"
	"github.com/WillFlame14/hanabi-bot-sub000/hanabi/belief"
	"github.com/WillFlame14/hanabi-bot-sub000/internal/cache"
	"github.com/WillFlame14/hanabi-bot-sub000/internal/gamelog"
)

type Config struct {
	ServerURL string
	BotName   string
	Level     int

	// Store and Cache may be nil; the client then plays without
	// persistence.
	Store *gamelog.DB
	Cache *cache.Cache

	Log logrus.FieldLogger
}

type Client struct {
	cfg  Config
	conn *websocket.Conn
	log  logrus.FieldLogger

	game    *belief.Game
	tableID int64
	variant string
}

// Dial opens the websocket connection. Run drives the session.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	conn, _, err := websocket.Dial(ctx, cfg.ServerURL, nil)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", cfg.ServerURL, err)
	}
	conn.SetReadLimit(1 << 20)
	return &Client{cfg: cfg, conn: conn, log: cfg.Log}, nil
}

func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "bye")
}

// Run reads and dispatches messages until the context ends or the
// connection drops.
func (c *Client) Run(ctx context.Context) error {
	for {
		_, raw, err := c.conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("client: read: %w", err)
		}
		if err := c.handle(ctx, raw); err != nil {
			return err
		}
	}
}

func (c *Client) send(ctx context.Context, cmd string, v any) error {
	msg, err := formatMessage(cmd, v)
	if err != nil {
		return err
	}
	return c.conn.Write(ctx, websocket.MessageText, msg)
}

func (c *Client) handle(ctx context.Context, raw []byte) error {
	cmd, data, err := splitMessage(raw)
	if err != nil {
		c.log.WithError(err).Warn("unparseable message")
		return nil
	}

	switch cmd {
	case "welcome":
		c.log.WithField("bot", c.cfg.BotName).Info("connected")
		return nil
	case "init":
		return c.handleInit(ctx, data)
	case "gameAction":
		return c.handleGameAction(ctx, data)
	case "gameActionList":
		return c.handleGameActionList(ctx, data)
	case "gameOver":
		return c.handleGameOver(ctx, data)
	default:
		c.log.WithField("cmd", cmd).Debug("ignoring message")
		return nil
	}
}

func (c *Client) handleInit(ctx context.Context, data []byte) error {
	var msg tableInit
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("client: init: %w", err)
	}

	variant := variantByName(msg.Options.VariantName)
	numPlayers := msg.Options.NumPlayers
	if numPlayers == 0 {
		numPlayers = len(msg.PlayerNames)
	}

	c.tableID = msg.TableID
	c.variant = msg.Options.VariantName
	c.game = belief.NewGame(variant, numPlayers, msg.OurPlayerIndex,
		&belief.HGroup{}, c.cfg.Level, c.log.WithField("table", msg.TableID))

	c.log.WithFields(logrus.Fields{
		"table": msg.TableID, "players": numPlayers, "seat": msg.OurPlayerIndex,
	}).Info("game started")

	if !msg.Replay {
		// A fresh game invalidates any state cached under this table id.
		if c.cfg.Cache != nil {
			if err := c.cfg.Cache.DeleteTable(ctx, msg.TableID); err != nil {
				c.log.WithError(err).Warn("dropping stale cached table failed")
			}
		}
		return nil
	}

	// Rejoin: replay the cached log so we can act before the server
	// finishes resending history. A later gameActionList resets us to the
	// server's authoritative view anyway.
	if c.cfg.Cache != nil {
		st, err := c.cfg.Cache.LoadTable(ctx, msg.TableID)
		switch {
		case errors.Is(err, cache.ErrNoTable):
		case err != nil:
			c.log.WithError(err).Warn("cached table load failed")
		case st.OurSeat == msg.OurPlayerIndex:
			for _, a := range st.Actions {
				if err := c.game.HandleAction(a); err != nil {
					return fmt.Errorf("client: cached replay: %w", err)
				}
			}
			c.log.WithField("actions", len(st.Actions)).Info("resumed from cache")
		}
	}
	return nil
}

func (c *Client) handleGameAction(ctx context.Context, data []byte) error {
	var msg gameActionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("client: gameAction: %w", err)
	}
	return c.applyAction(ctx, msg.Action)
}

func (c *Client) handleGameActionList(ctx context.Context, data []byte) error {
	var msg gameActionListMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("client: gameActionList: %w", err)
	}
	if c.game == nil {
		return fmt.Errorf("client: gameActionList before init")
	}

	// The full list is authoritative: rebuild from scratch.
	c.game = belief.NewGame(c.game.State.Variant, c.game.State.NumPlayers,
		c.game.OurPlayerIndex, c.game.Convention, c.game.Level,
		c.log.WithField("table", c.tableID))
	for _, a := range msg.List {
		if err := c.applyAction(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) applyAction(ctx context.Context, a hanabi.Action) error {
	if c.game == nil {
		return fmt.Errorf("client: action before init")
	}
	if err := c.game.HandleAction(a); err != nil {
		return fmt.Errorf("client: apply %s: %w", a, err)
	}

	if a.Type != hanabi.ActionTurn {
		return nil
	}

	// Turn boundary: checkpoint the table, act if it is our move.
	if c.cfg.Cache != nil {
		st := cache.TableState{
			TableID:    c.tableID,
			Variant:    c.variant,
			NumPlayers: c.game.State.NumPlayers,
			OurSeat:    c.game.OurPlayerIndex,
			Actions:    c.game.ActionList,
		}
		if err := c.cfg.Cache.SaveTable(ctx, st); err != nil {
			c.log.WithError(err).Warn("table checkpoint failed")
		}
	}

	if a.CurrentPlayerIndex != c.game.OurPlayerIndex {
		return nil
	}
	chosen, err := c.game.Convention.TakeAction(c.game)
	if err != nil {
		return fmt.Errorf("client: choose action: %w", err)
	}
	out, err := encodeAction(c.tableID, chosen)
	if err != nil {
		return err
	}
	c.log.WithFields(logrus.Fields{"turn": a.Num, "action": chosen.String()}).Info("acting")
	return c.send(ctx, "action", out)
}

func (c *Client) handleGameOver(ctx context.Context, data []byte) error {
	var msg gameOverMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("client: gameOver: %w", err)
	}
	if c.game == nil {
		return nil
	}

	c.log.WithFields(logrus.Fields{
		"table": msg.TableID, "score": c.game.State.Score(),
	}).Info("game over")

	if c.cfg.Store != nil {
		rec := gamelog.Record{
			TableID:    c.tableID,
			Variant:    c.variant,
			NumPlayers: c.game.State.NumPlayers,
			Seat:       c.game.OurPlayerIndex,
			Score:      c.game.State.Score(),
			Actions:    c.game.ActionList,
		}
		if id, err := c.cfg.Store.SaveGame(ctx, rec); err != nil {
			c.log.WithError(err).Error("persisting game failed")
		} else {
			c.log.WithField("game", id).Info("game persisted")
		}
	}
	if c.cfg.Cache != nil {
		if err := c.cfg.Cache.DeleteTable(ctx, c.tableID); err != nil {
			c.log.WithError(err).Warn("cache cleanup failed")
		}
	}
	c.game = nil
	return nil
}

// variantByName maps the server's variant name onto a known deck
// composition; unknown names fall back to the standard game.
func variantByName(name string) *hanabi.Variant {
	switch name {
	case "", "No Variant":
		return hanabi.NoVariant()
	case "Black (6 Suits)":
		v := hanabi.NoVariant()
		v.Name = name
		v.Suits = append(v.Suits, hanabi.Suit{Name: "Black", Abbrev: "k", OneOfEach: true})
		return v
	}
	v := hanabi.NoVariant()
	v.Name = name
	return v
}
