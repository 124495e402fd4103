package belief

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/WillFlame14/hanabi-bot-sub000/hanabi"
)

// HGroup interprets clues under the H-Group convention framework: every
// clue has a focus, the focus is either a direct play, a save, or the
// endpoint of a connection chain, and good touch governs everything else
// the clue touched. Level gates which step kinds the resolver may use.
type HGroup struct{}

var _ Convention = (*HGroup)(nil)

func (*HGroup) Name() string { return "HGroup" }

// focusInterp is one candidate reading of a clue: the focus is id,
// reached through conns (empty for a direct play or save).
type focusInterp struct {
	id    hanabi.Identity
	conns []Connection
}

func (h *HGroup) InterpretClue(g *Game, a hanabi.Action) error {
	actionIndex := len(g.ActionList) - 1
	common := g.Common

	focusOrder, chopFocus := g.FocusOf(common, a)
	if focusOrder < 0 {
		return fmt.Errorf("clue at index %d touched nothing", actionIndex)
	}
	focus := common.Thoughts[focusOrder]
	focus.Focused = true

	resets := common.GoodTouchElim(g.State, a.Giver, focusOrder, actionIndex, g.State.Turn)
	for _, order := range resets {
		g.log.WithFields(logrus.Fields{"order": order, "turn": g.State.Turn}).
			Info("good touch reset a touched card")
	}

	feasible := hanabi.EmptySet
	var chains []focusInterp

	for _, id := range focus.Inferred.Identities() {
		if g.State.IsBasicTrash(id) {
			continue
		}
		if g.State.IsPlayable(id) {
			feasible = feasible.Add(id)
			continue
		}
		if chopFocus && h.saveApplies(g.State, a, id) {
			feasible = feasible.Add(id)
			continue
		}
		res := g.ResolveIdentity(a.Giver, a.Target, id, focusOrder, actionIndex, false)
		if res.Infeasible && a.Clue.Kind == hanabi.ClueRank {
			// A rank clue can promise the route through the receiver's
			// own hand when no external route reads legally.
			res = g.ResolveIdentity(a.Giver, a.Target, id, focusOrder, actionIndex, true)
		}
		if res.Infeasible {
			g.log.WithFields(logrus.Fields{"identity": id.String(), "reason": res.Reason}).
				Debug("candidate focus identity infeasible")
			continue
		}
		feasible = feasible.Add(id)
		if len(res.Connections) > 0 {
			chains = append(chains, focusInterp{id: id, conns: res.Connections})
		}
	}

	if feasible.Empty() {
		g.log.WithFields(logrus.Fields{"order": focusOrder, "turn": g.State.Turn}).
			Warn("clue has no legal interpretation, leaving focus wide")
		return nil
	}

	focus.setInferred(focus.Inferred.Intersect(feasible), actionIndex, g.State.Turn)
	if focus.Inferred.Empty() && common.resetInference(focus) {
		g.log.WithField("order", focusOrder).Warn("focus inference emptied, reset")
		return nil
	}
	focus.Superposition = focus.Inferred.Count() > 1

	if len(chains) == 0 {
		return nil
	}

	best := chooseInterp(chains, a.Target)
	for i, it := range chains {
		wc := &WaitingConnection{
			Connections: it.conns,
			FocusOrder:  focusOrder,
			Inference:   it.id,
			Giver:       a.Giver,
			Target:      a.Target,
			ActionIndex: actionIndex,
		}
		if i == best {
			wc.Ambiguous = len(chains) > 1 || focus.Superposition
			h.writeConnections(g, wc, actionIndex)
		} else {
			// Alternative readings stay registered so a play along them
			// can still resolve the focus, but never touch the cards.
			wc.Symmetric = true
		}
		common.WaitingConnections = append(common.WaitingConnections, wc)
		g.log.WithFields(logrus.Fields{"wc": wc.String(), "committed": i == best}).
			Info("registered waiting connection")
	}
	return nil
}

// saveApplies recognizes the legal saves on a chop focus: a critical
// card, or a 2 saved with a rank-2 clue.
func (*HGroup) saveApplies(s *hanabi.State, a hanabi.Action, id hanabi.Identity) bool {
	if s.IsCritical(id) {
		return true
	}
	return id.Rank == 2 && a.Clue.Kind == hanabi.ClueRank && a.Clue.Value == 2
}

// chooseInterp picks the reading the team assumes: the one demanding the
// fewest blind plays, then the fewest steps through the clue receiver's
// own hand.
func chooseInterp(chains []focusInterp, target int) int {
	best, bestFinesses, bestSelf := 0, -1, -1
	for i, it := range chains {
		finesses, self := 0, 0
		for _, c := range it.conns {
			if c.Type == ConnFinesse {
				finesses++
			}
			if c.Reacting == target {
				self++
			}
		}
		if bestFinesses == -1 || finesses < bestFinesses ||
			(finesses == bestFinesses && self < bestSelf) {
			best, bestFinesses, bestSelf = i, finesses, self
		}
	}
	return best
}

// writeConnections commits the chosen chain onto its cards: prompted and
// finessed cards snapshot their prior inference, then narrow to the
// identity the chain needs. A card already carrying a hypothesis takes
// this one as a superposition instead of overwriting.
func (h *HGroup) writeConnections(g *Game, wc *WaitingConnection, actionIndex int) {
	for _, conn := range wc.Connections {
		t := g.Common.Thoughts[conn.Order]
		if t == nil {
			continue
		}
		switch conn.Type {
		case ConnFinesse, ConnPrompt:
			if t.Finessed || t.Superposition {
				t.Inferred = t.Inferred.Union(conn.Identities).Intersect(t.Possible)
				t.Superposition = true
			} else {
				t.snapshotInferred()
				narrowed := t.Inferred.Intersect(conn.Identities)
				if narrowed.Empty() {
					narrowed = conn.Identities.Intersect(t.Possible)
				}
				t.setInferred(narrowed, actionIndex, g.State.Turn)
			}
			if conn.Type == ConnFinesse {
				t.Finessed = true
				if t.FinesseIndex < 0 {
					t.FinesseIndex = actionIndex
				}
			}
		}
	}
	g.resync()
}

func (h *HGroup) InterpretDiscard(g *Game, a hanabi.Action) error {
	t := g.Common.Thoughts[a.Order]
	if t == nil {
		return nil
	}
	if t.Touched() {
		g.log.WithFields(logrus.Fields{
			"player": a.PlayerIndex, "order": a.Order, "identity": a.Identity().String(),
		}).Info("clued card discarded")
	}
	return nil
}

// TakeAction picks our move: play something we believe playable, spend a
// discard when we hold known trash and the team is short on tokens,
// otherwise stall with a clue, and discard chop as the last resort. The
// returned action carries only intent fields; the server echoes the
// authoritative result.
func (h *HGroup) TakeAction(g *Game) (hanabi.Action, error) {
	us := g.OurPlayerIndex
	p := g.Players[us]

	if playables := g.ThinksPlayables(p, us); len(playables) > 0 {
		return hanabi.Action{Type: hanabi.ActionPlay, PlayerIndex: us, Order: playables[0]}, nil
	}

	if g.State.ClueTokens < hanabi.MaxClueTokens {
		if trash := g.ThinksTrash(p, us); len(trash) > 0 {
			return hanabi.Action{Type: hanabi.ActionDiscard, PlayerIndex: us, Order: trash[0]}, nil
		}
	}

	if g.State.ClueTokens > 0 {
		if a, ok := h.stallClue(g); ok {
			return a, nil
		}
	}

	if chop := g.ChopOrder(p, us); chop >= 0 {
		return hanabi.Action{Type: hanabi.ActionDiscard, PlayerIndex: us, Order: chop}, nil
	}
	// Locked hand with no clue available: discard newest.
	if hand := g.State.Hands[us]; len(hand) > 0 {
		return hanabi.Action{Type: hanabi.ActionDiscard, PlayerIndex: us, Order: hand[0]}, nil
	}
	return hanabi.Action{}, fmt.Errorf("no legal action for player %d", us)
}

// stallClue re-clues an already-touched card in the next player's hand,
// which conveys nothing new and burns a token safely.
func (h *HGroup) stallClue(g *Game) (hanabi.Action, bool) {
	us := g.OurPlayerIndex
	for target := g.State.NextPlayer(us); target != us; target = g.State.NextPlayer(target) {
		for _, order := range g.State.Hands[target] {
			t := g.Common.Thoughts[order]
			if t == nil || !t.Clued {
				continue
			}
			id := g.State.Deck[order]
			if !id.Valid() {
				continue
			}
			clue := hanabi.Clue{Kind: hanabi.ClueRank, Value: int(id.Rank)}
			var list []int
			for _, o := range g.State.Hands[target] {
				if g.State.Deck[o].Valid() && g.State.Variant.TouchedBy(clue, g.State.Deck[o]) {
					list = append(list, o)
				}
			}
			if len(list) > 0 {
				return hanabi.NewClue(us, target, clue, list), true
			}
		}
	}
	return hanabi.Action{}, false
}

func (h *HGroup) UpdateTurn(g *Game, a hanabi.Action) {}
