package belief

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/WillFlame14/hanabi-bot-sub000/hanabi"
)

// maxRewindDepth bounds corrective replays triggering further corrective
// replays. Exceeding it means the belief model cannot be reconciled with
// the observed game.
const maxRewindDepth = 4

// Rewind rebuilds the entire belief state by replaying the action log
// with one corrective instruction in force: either an identify (assert
// order X's true identity, applied right after the action at
// actionIndex) or an ignore (retract one connection step of the clue
// interpreted at actionIndex). Replay is deterministic, so rewinding the
// same log with the same correction always yields the same state.
func (g *Game) Rewind(actionIndex int, correction hanabi.Action) error {
	if g.rewindDepth+1 > maxRewindDepth {
		return fmt.Errorf("%w: depth %d rewinding action %d", ErrRewindDepthExceeded, g.rewindDepth+1, actionIndex)
	}
	if actionIndex < 0 || actionIndex >= len(g.ActionList) {
		return fmt.Errorf("rewind: action index %d outside log of %d", actionIndex, len(g.ActionList))
	}

	g.log.WithFields(logrus.Fields{
		"actionIndex": actionIndex,
		"correction":  correction.String(),
		"depth":       g.rewindDepth + 1,
	}).Info("rewinding")

	actions := append([]hanabi.Action(nil), g.ActionList...)

	fresh := NewGame(g.State.Variant, g.State.NumPlayers, g.OurPlayerIndex, g.Convention, g.Level, g.log)
	fresh.rewindDepth = g.rewindDepth + 1
	for i, acts := range g.corrections {
		fresh.corrections[i] = append([]hanabi.Action(nil), acts...)
	}
	for k, v := range g.ignored {
		fresh.ignored[k] = v
	}

	switch correction.Type {
	case hanabi.ActionIdentify:
		fresh.corrections[actionIndex] = append(fresh.corrections[actionIndex], correction)
	case hanabi.ActionIgnore:
		fresh.ignored[ignoreKey{correction.ActionIndex, correction.Order}] = true
	default:
		return fmt.Errorf("rewind: %q is not a correction action", correction.Type)
	}

	for _, a := range actions {
		if err := fresh.HandleAction(a); err != nil {
			return fmt.Errorf("rewind replay: %w", err)
		}
	}

	// The ceiling charges corrections that trigger further corrections
	// during the replay; a completed replay hands the depth back so
	// independent falsifications later in the game stay recoverable.
	depth := g.rewindDepth
	*g = *fresh
	g.rewindDepth = depth
	return nil
}
