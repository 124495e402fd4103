package hanabi

import "fmt"

// ActionType discriminates the entries of the ordered action log.
type ActionType string

// Action kinds. Identify and Ignore never come from the server; they are
// injected by the rewind controller as replay corrections.
const (
	ActionDraw     ActionType = "draw"
	ActionClue     ActionType = "clue"
	ActionPlay     ActionType = "play"
	ActionDiscard  ActionType = "discard"
	ActionTurn     ActionType = "turn"
	ActionIdentify ActionType = "identify"
	ActionIgnore   ActionType = "ignore"
)

// ClueKind is the clue channel: colour or rank.
type ClueKind uint8

const (
	ClueColour ClueKind = iota
	ClueRank
)

func (k ClueKind) String() string {
	if k == ClueColour {
		return "colour"
	}
	return "rank"
}

// Clue is the public content of a clue action: a channel and a value
// (suit index for colour, 1-5 for rank).
type Clue struct {
	Kind  ClueKind `json:"type"`
	Value int      `json:"value"`
}

// Action is one entry of the totally-ordered game log. Which fields are
// meaningful depends on Type; the zero values are omitted on the wire.
type Action struct {
	Type        ActionType `json:"type"`
	PlayerIndex int        `json:"playerIndex,omitempty"`
	Order       int        `json:"order,omitempty"`
	SuitIndex   int8       `json:"suitIndex"`
	Rank        int8       `json:"rank"`

	// Clue fields.
	Giver  int   `json:"giver,omitempty"`
	Target int   `json:"target,omitempty"`
	Clue   Clue  `json:"clue,omitempty"`
	List   []int `json:"list,omitempty"` // orders touched by the clue

	// Discard fields.
	Failed bool `json:"failed,omitempty"` // misplay recorded as a failed discard

	// Turn fields.
	Num                int `json:"num,omitempty"`
	CurrentPlayerIndex int `json:"currentPlayerIndex,omitempty"`

	// Ignore correction: retract the chain step through the card at
	// Order for the clue interpreted at log index ActionIndex. ConnIndex
	// records the step's position within the falsified chain.
	ActionIndex int `json:"actionIndex,omitempty"`
	ConnIndex   int `json:"connIndex,omitempty"`
}

// Identity returns the concrete identity carried by the action, when any.
func (a Action) Identity() Identity {
	return Identity{Suit: a.SuitIndex, Rank: a.Rank}
}

// NewDraw builds a draw action. id may be NoIdentity when the drawing
// player cannot see the card.
func NewDraw(playerIndex, order int, id Identity) Action {
	return Action{Type: ActionDraw, PlayerIndex: playerIndex, Order: order, SuitIndex: id.Suit, Rank: id.Rank}
}

// NewClue builds a clue action touching the listed orders.
func NewClue(giver, target int, clue Clue, list []int) Action {
	return Action{Type: ActionClue, Giver: giver, Target: target, Clue: clue, List: list}
}

// NewPlay builds a successful play action.
func NewPlay(playerIndex, order int, id Identity) Action {
	return Action{Type: ActionPlay, PlayerIndex: playerIndex, Order: order, SuitIndex: id.Suit, Rank: id.Rank}
}

// NewDiscard builds a discard action; failed marks a misplayed card that
// went to the discard pile with a strike.
func NewDiscard(playerIndex, order int, id Identity, failed bool) Action {
	return Action{Type: ActionDiscard, PlayerIndex: playerIndex, Order: order, SuitIndex: id.Suit, Rank: id.Rank, Failed: failed}
}

// NewTurn builds a turn marker action.
func NewTurn(num, currentPlayerIndex int) Action {
	return Action{Type: ActionTurn, Num: num, CurrentPlayerIndex: currentPlayerIndex}
}

// NewIdentify builds a rewind correction assigning a concrete identity to
// an order.
func NewIdentify(order int, id Identity) Action {
	return Action{Type: ActionIdentify, Order: order, SuitIndex: id.Suit, Rank: id.Rank}
}

// NewIgnore builds a rewind correction retracting the chain step through
// the card at order.
func NewIgnore(actionIndex, connIndex, order int) Action {
	return Action{Type: ActionIgnore, ActionIndex: actionIndex, ConnIndex: connIndex, Order: order}
}

func (a Action) String() string {
	switch a.Type {
	case ActionDraw:
		return fmt.Sprintf("draw(p%d o%d %s)", a.PlayerIndex, a.Order, a.Identity())
	case ActionClue:
		return fmt.Sprintf("clue(p%d->p%d %s %d)", a.Giver, a.Target, a.Clue.Kind, a.Clue.Value)
	case ActionPlay:
		return fmt.Sprintf("play(p%d o%d %s)", a.PlayerIndex, a.Order, a.Identity())
	case ActionDiscard:
		return fmt.Sprintf("discard(p%d o%d %s failed=%v)", a.PlayerIndex, a.Order, a.Identity(), a.Failed)
	case ActionTurn:
		return fmt.Sprintf("turn(%d p%d)", a.Num, a.CurrentPlayerIndex)
	case ActionIdentify:
		return fmt.Sprintf("identify(o%d %s)", a.Order, a.Identity())
	case ActionIgnore:
		return fmt.Sprintf("ignore(a%d c%d o%d)", a.ActionIndex, a.ConnIndex, a.Order)
	}
	return string(a.Type)
}
