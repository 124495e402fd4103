package belief

import (
	"fmt"

	"github.com/WillFlame14/hanabi-bot-sub000/hanabi"
)

// ConnectionType classifies one link of a resolved play chain.
type ConnectionType uint8

const (
	// ConnKnown: the card is already identity-resolved for the inferring party.
	ConnKnown ConnectionType = iota
	// ConnPlayable: the card is known to be "whatever is currently playable".
	ConnPlayable
	// ConnPrompt: a touched-but-unidentified card the convention obliges
	// the holder to play.
	ConnPrompt
	// ConnFinesse: an untouched card assumed to be blind-played.
	ConnFinesse
)

func (c ConnectionType) String() string {
	switch c {
	case ConnKnown:
		return "known"
	case ConnPlayable:
		return "playable"
	case ConnPrompt:
		return "prompt"
	case ConnFinesse:
		return "finesse"
	}
	return "unknown"
}

// Connection is one step of a resolved chain: the seat expected to react,
// the card it is expected to play, and the identities that play would
// prove. Hidden marks a step still layered under another unresolved
// finesse.
type Connection struct {
	Type       ConnectionType
	Reacting   int
	Order      int
	Hidden     bool
	Identities hanabi.IdentitySet
}

func (c Connection) String() string {
	return fmt.Sprintf("%s(p%d o%d %s)", c.Type, c.Reacting, c.Order, c.Identities)
}

// WaitingConnection is an unresolved chain registered after a clue: the
// ordered steps bridging the play stack up to the clue's inference, and a
// pointer to the next step being awaited. ConnIndex only increases; a
// removed record never returns.
type WaitingConnection struct {
	Connections []Connection
	ConnIndex   int

	FocusOrder int
	Inference  hanabi.Identity
	Giver      int
	Target     int

	// ActionIndex is the log index of the clue that created this record;
	// it orders competing hypotheses (oldest first) and keys ignore
	// corrections during rewinds.
	ActionIndex int

	Symmetric bool
	Ambiguous bool
	Bluff     bool
}

// CurrentConnection returns the next awaited step, or false when the
// chain has fully advanced.
func (wc *WaitingConnection) CurrentConnection() (Connection, bool) {
	if wc.ConnIndex < 0 || wc.ConnIndex >= len(wc.Connections) {
		return Connection{}, false
	}
	return wc.Connections[wc.ConnIndex], true
}

func (wc *WaitingConnection) clone() *WaitingConnection {
	c := *wc
	c.Connections = append([]Connection(nil), wc.Connections...)
	return &c
}

func (wc *WaitingConnection) String() string {
	return fmt.Sprintf("wc(focus=o%d inf=%s idx=%d/%d)",
		wc.FocusOrder, wc.Inference, wc.ConnIndex, len(wc.Connections))
}

// Resolution is the outcome of a connection search. An infeasible
// resolution is ordinary data, not an error: the caller tries the next
// candidate identity.
type Resolution struct {
	Connections []Connection
	Infeasible  bool
	Reason      string
}

func infeasible(format string, args ...any) Resolution {
	return Resolution{Infeasible: true, Reason: fmt.Sprintf(format, args...)}
}
