package client

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/WillFlame14/hanabi-bot-sub000/hanabi"
)

// The server speaks a line protocol: a command word, one space, then a
// JSON payload.

func splitMessage(raw []byte) (cmd string, data []byte, err error) {
	i := bytes.IndexByte(raw, ' ')
	if i < 0 {
		if len(raw) == 0 {
			return "", nil, fmt.Errorf("empty message")
		}
		return string(raw), nil, nil
	}
	return string(raw[:i]), raw[i+1:], nil
}

func formatMessage(cmd string, v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", cmd, err)
	}
	return append(append([]byte(cmd), ' '), payload...), nil
}

type gameOptions struct {
	VariantName string `json:"variantName"`
	NumPlayers  int    `json:"numPlayers"`
}

// tableInit announces a started (or rejoined) game.
type tableInit struct {
	TableID        int64       `json:"tableID"`
	PlayerNames    []string    `json:"playerNames"`
	OurPlayerIndex int         `json:"ourPlayerIndex"`
	Replay         bool        `json:"replay"`
	Options        gameOptions `json:"options"`
}

type gameActionMessage struct {
	TableID int64         `json:"tableID"`
	Action  hanabi.Action `json:"action"`
}

type gameActionListMessage struct {
	TableID int64           `json:"tableID"`
	List    []hanabi.Action `json:"list"`
}

type gameOverMessage struct {
	TableID int64 `json:"tableID"`
	Score   int   `json:"score"`
}

// Outgoing action kinds, numeric on the wire.
const (
	wireActionPlay       = 0
	wireActionDiscard    = 1
	wireActionColourClue = 2
	wireActionRankClue   = 3
)

type outgoingAction struct {
	TableID int64 `json:"tableID"`
	Type    int   `json:"type"`
	Target  int   `json:"target"`
	Value   int   `json:"value,omitempty"`
}

// encodeAction translates the convention's chosen intent into the wire
// form. Plays and discards target an order; clues target a seat.
func encodeAction(tableID int64, a hanabi.Action) (outgoingAction, error) {
	switch a.Type {
	case hanabi.ActionPlay:
		return outgoingAction{TableID: tableID, Type: wireActionPlay, Target: a.Order}, nil
	case hanabi.ActionDiscard:
		return outgoingAction{TableID: tableID, Type: wireActionDiscard, Target: a.Order}, nil
	case hanabi.ActionClue:
		kind := wireActionColourClue
		if a.Clue.Kind == hanabi.ClueRank {
			kind = wireActionRankClue
		}
		return outgoingAction{TableID: tableID, Type: kind, Target: a.Target, Value: a.Clue.Value}, nil
	}
	return outgoingAction{}, fmt.Errorf("cannot send action type %q", a.Type)
}
