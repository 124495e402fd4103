package belief

import "github.com/WillFlame14/hanabi-bot-sub000/hanabi"

// Convention is the capability set a playing convention plugs into the
// engine. The engine itself is convention-agnostic: it applies actions
// and maintains invariants, and defers all meaning-assignment and action
// selection to the Convention chosen at game setup.
type Convention interface {
	Name() string

	// InterpretClue assigns convention meaning to an observed clue:
	// focus, good-touch elimination, connection resolution, waiting
	// connection registration.
	InterpretClue(g *Game, a hanabi.Action) error

	// InterpretDiscard assigns meaning to an observed discard.
	InterpretDiscard(g *Game, a hanabi.Action) error

	// TakeAction chooses our next move from the current belief state.
	TakeAction(g *Game) (hanabi.Action, error)

	// UpdateTurn runs per-turn convention bookkeeping.
	UpdateTurn(g *Game, a hanabi.Action)
}
