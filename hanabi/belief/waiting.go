package belief

import (
	"github.com/sirupsen/logrus"

	"github.com/WillFlame14/hanabi-bot-sub000/hanabi"
)

// updateWaitingConnections advances, falsifies, or resolves every pending
// connection whose expected reactor is the player who just acted. A
// falsified hypothesis with no recognized deferral triggers a rewind so
// downstream beliefs built on it are retracted consistently.
func (g *Game) updateWaitingConnections(a hanabi.Action, actor int) error {
	var kept []*WaitingConnection
	var falsified *WaitingConnection
	var falsifiedStep Connection

	// A play that answers any chain's expectation excuses the actor from
	// every other chain this turn.
	answered := false
	if a.Type == hanabi.ActionPlay {
		for _, wc := range g.Common.WaitingConnections {
			if conn, ok := wc.CurrentConnection(); ok && conn.Reacting == actor &&
				conn.Order == a.Order && conn.Identities.Has(a.Identity()) {
				answered = true
			}
		}
	}

	for _, wc := range g.Common.WaitingConnections {
		if falsified != nil {
			kept = append(kept, wc)
			continue
		}
		conn, ok := wc.CurrentConnection()
		if !ok {
			g.resolveWaiting(wc)
			continue
		}
		if conn.Reacting != actor {
			kept = append(kept, wc)
			continue
		}

		switch a.Type {
		case hanabi.ActionPlay:
			if a.Order == conn.Order && conn.Identities.Has(a.Identity()) {
				wc.ConnIndex++
				if _, more := wc.CurrentConnection(); more {
					kept = append(kept, wc)
				} else {
					g.resolveWaiting(wc)
				}
				continue
			}
			// They played, but not the card this chain expected.
			if answered || g.deferralApplies(wc, conn, a, actor) {
				kept = append(kept, wc)
				continue
			}
			if g.demoteBranch(wc) {
				continue
			}
			falsified, falsifiedStep = wc, conn

		case hanabi.ActionDiscard:
			if a.Order == conn.Order {
				// The awaited card left play without the identity ever
				// surfacing: the hypothesis is dead.
				g.log.WithFields(logrus.Fields{"wc": wc.String(), "order": a.Order}).
					Info("expected connection card discarded, unwinding finesse")
				g.removeFinesse(wc)
				continue
			}
			if conn.Type != ConnFinesse && conn.Type != ConnPrompt {
				kept = append(kept, wc)
				continue
			}
			if g.deferralApplies(wc, conn, a, actor) {
				kept = append(kept, wc)
				continue
			}
			if g.demoteBranch(wc) {
				continue
			}
			falsified, falsifiedStep = wc, conn

		case hanabi.ActionClue:
			if conn.Type != ConnFinesse && conn.Type != ConnPrompt {
				kept = append(kept, wc)
				continue
			}
			if g.deferralApplies(wc, conn, a, actor) {
				kept = append(kept, wc)
				continue
			}
			if g.demoteBranch(wc) {
				continue
			}
			falsified, falsifiedStep = wc, conn

		default:
			kept = append(kept, wc)
		}
	}

	g.Common.WaitingConnections = kept

	if falsified != nil {
		g.log.WithFields(logrus.Fields{
			"wc": falsified.String(), "actor": actor, "turn": g.State.Turn,
		}).Info("waiting connection falsified, rewinding")
		return g.Rewind(falsified.ActionIndex,
			hanabi.NewIgnore(falsified.ActionIndex, falsified.ConnIndex, falsifiedStep.Order))
	}
	return nil
}

// resolveWaiting finalizes a fully-demonstrated chain: the focus must be
// exactly the inference the chain proved.
func (g *Game) resolveWaiting(wc *WaitingConnection) {
	t := g.Common.Thoughts[wc.FocusOrder]
	if t == nil {
		return
	}
	proven := hanabi.SetOf(wc.Inference)
	narrowed := t.Inferred.Intersect(proven)
	if narrowed.Empty() {
		narrowed = t.Possible.Intersect(proven)
	}
	if !narrowed.Empty() {
		t.Inferred = narrowed
		t.Superposition = false
	} else if g.resetInferenceWarn(t) {
		return
	}
}

// removeFinesse unwinds the speculative narrowing a chain wrote onto its
// cards: each connection card's inference is restored from its
// pre-finesse snapshot and the finessed flag cleared; the focus drops the
// disproven inference.
func (g *Game) removeFinesse(wc *WaitingConnection) {
	for _, conn := range wc.Connections {
		t := g.Common.Thoughts[conn.Order]
		if t == nil {
			continue
		}
		if conn.Type == ConnFinesse || conn.Type == ConnPrompt {
			t.restoreInferred()
			t.Finessed = false
			t.FinesseIndex = -1
		}
	}
	if t := g.Common.Thoughts[wc.FocusOrder]; t != nil {
		t.setInferred(t.Inferred.Remove(wc.Inference), wc.ActionIndex, g.State.Turn)
		if t.Inferred.Empty() {
			g.resetInferenceWarn(t)
		}
	}
	g.resync()
}

// demoteBranch quietly retires a chain that was only ever one of several
// live readings: a disproven branch narrows the ambiguity instead of
// falsifying the whole clue. Returns false for committed chains, which
// must go through the rewind path.
func (g *Game) demoteBranch(wc *WaitingConnection) bool {
	if !wc.Ambiguous && !wc.Symmetric {
		return false
	}
	if wc.Symmetric {
		// Never committed onto any card; just drop the record.
		if t := g.Common.Thoughts[wc.FocusOrder]; t != nil {
			t.setInferred(t.Inferred.Remove(wc.Inference), wc.ActionIndex, g.State.Turn)
			if t.Inferred.Empty() {
				g.resetInferenceWarn(t)
			}
		}
		return true
	}
	g.removeFinesse(wc)
	return true
}

func (g *Game) resetInferenceWarn(t *Thought) bool {
	if g.Common.resetInference(t) {
		g.log.WithFields(logrus.Fields{"order": t.Order, "turn": g.State.Turn}).
			Warn("inference emptied, reset to possible")
		return true
	}
	return false
}

// deferralApplies recognizes the legal reasons a reactor may sit on an
// expected play for a turn without falsifying the hypothesis.
func (g *Game) deferralApplies(wc *WaitingConnection, conn Connection, a hanabi.Action, actor int) bool {
	// A layered connection can't be played until the finesse above it
	// resolves.
	if conn.Hidden {
		return true
	}

	// An older unresolved chain on the same seat takes precedence.
	for _, other := range g.Common.WaitingConnections {
		if other == wc || other.ActionIndex >= wc.ActionIndex {
			continue
		}
		if oc, ok := other.CurrentConnection(); ok && oc.Reacting == actor {
			return true
		}
	}

	// A save or fix clue outranks the obligation to play.
	if a.Type == hanabi.ActionClue {
		for _, order := range a.List {
			if order >= len(g.State.Deck) {
				continue
			}
			id := g.State.Deck[order]
			if id.Valid() && (g.State.IsCritical(id) || g.State.IsPlayable(id)) {
				return true
			}
		}
	}
	return false
}
