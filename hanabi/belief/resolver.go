package belief

import "github.com/WillFlame14/hanabi-bot-sub000/hanabi"

// ResolveIdentity searches all hands for the chain of plays that would
// raise id's suit from the current stack height up to id's rank: the
// team's unannounced route to the clued card. Each rank is bridged by the
// first seat (in turn order after the giver) holding a known, playable,
// prompted, or finessed card for it; the clue target's own hand is tried
// last unless selfOnly forces a self-interpretation.
//
// Convention legality violations make the whole attempt infeasible; the
// caller moves on to the next candidate identity.
func (g *Game) ResolveIdentity(giver, target int, id hanabi.Identity, focusOrder, actionIndex int, selfOnly bool) Resolution {
	if !id.Valid() {
		return infeasible("no identity to resolve")
	}
	nextRank := g.State.PlayableRank(id.Suit)
	if nextRank > id.Rank {
		return infeasible("%s is already played", id)
	}

	used := map[int]bool{focusOrder: true}
	var conns []Connection

	for ; nextRank < id.Rank; nextRank++ {
		need := hanabi.Identity{Suit: id.Suit, Rank: nextRank}
		step := g.connect(giver, target, need, used, conns, selfOnly)
		if step.Infeasible {
			return step
		}
		conns = append(conns, step.Connections...)
	}

	// An ignore correction invalidates any branch that routes through the
	// retracted card of this clue's chain.
	for i, c := range conns {
		if g.ignored[ignoreKey{actionIndex, c.Order}] {
			return infeasible("connection step %d retracted by correction", i)
		}
	}

	// Stacking more than one unconfirmed blind play on the clue receiver
	// is not a legal interpretation.
	selfFinesses := 0
	for _, c := range conns {
		if c.Type == ConnFinesse && c.Reacting == target {
			selfFinesses++
		}
	}
	if selfFinesses > 1 {
		return infeasible("%d stacked self-finesses", selfFinesses)
	}
	return Resolution{Connections: conns}
}

// connect finds the single card bridging need, trying every external seat
// in turn order from the giver before the target's own hand. A full loop
// without progress fails the rank.
func (g *Game) connect(giver, target int, need hanabi.Identity, used map[int]bool, prior []Connection, selfOnly bool) Resolution {
	if !selfOnly {
		for seat := g.State.NextPlayer(giver); seat != giver; seat = g.State.NextPlayer(seat) {
			if seat == target {
				continue
			}
			conn, found, abort := g.connectSeat(seat, need, used, prior)
			if abort != nil {
				return *abort
			}
			if found {
				used[conn.Order] = true
				return Resolution{Connections: []Connection{conn}}
			}
		}
	}
	conn, found, abort := g.connectSeat(target, need, used, prior)
	if abort != nil {
		return *abort
	}
	if found {
		used[conn.Order] = true
		return Resolution{Connections: []Connection{conn}}
	}
	return infeasible("no card connects to %s", need)
}

// connectSeat tries the four step kinds in priority order within one
// hand. found=false means the seat simply has nothing; a non-nil abort
// means the interpretation is illegal and the whole attempt must stop.
func (g *Game) connectSeat(seat int, need hanabi.Identity, used map[int]bool, prior []Connection) (conn Connection, found bool, abort *Resolution) {
	common := g.Common
	hand := g.State.Hands[seat]

	// Known: already resolved to exactly the needed identity.
	for _, order := range hand {
		if used[order] {
			continue
		}
		t := common.Thoughts[order]
		if t != nil && t.Matches(need, true) {
			return Connection{Type: ConnKnown, Reacting: seat, Order: order, Identities: hanabi.SetOf(need)}, true, nil
		}
	}

	// Playable: known to be "whatever is playable", and need qualifies.
	for _, order := range hand {
		if used[order] {
			continue
		}
		t := common.Thoughts[order]
		if t == nil || !t.Touched() || t.Inferred.Empty() || !t.Inferred.Has(need) {
			continue
		}
		allPlayable := true
		for _, cid := range t.Inferred.Identities() {
			if !g.State.IsPlayable(cid) {
				allPlayable = false
				break
			}
		}
		if allPlayable {
			return Connection{Type: ConnPlayable, Reacting: seat, Order: order, Identities: t.Inferred}, true, nil
		}
	}

	// Prompt: the leftmost touched unresolved card is the obligatory
	// reading, if its candidates include need.
	if order := g.PromptTarget(common, seat); order >= 0 && !used[order] {
		t := common.Thoughts[order]
		if t.Possible.Has(need) {
			// A rank clue on the prompted card that contradicts the
			// needed rank blocks the prompt entirely.
			if last := lastClue(t); last != nil && last.Kind == hanabi.ClueRank &&
				last.Value != int(need.Rank) && !t.Inferred.Has(need) {
				res := infeasible("prompt on o%d blocked by rank %d clue", order, last.Value)
				return Connection{}, false, &res
			}
			return Connection{Type: ConnPrompt, Reacting: seat, Order: order, Identities: hanabi.SetOf(need)}, true, nil
		}
	}

	// Finesse: assume a blind play from finesse position. Orders already
	// claimed by earlier steps are skipped, so a chain may run several
	// blind plays through one hand.
	if order := finessePositionSkipping(common, hand, used); order >= 0 {
		if g.Level < 2 {
			res := infeasible("finesses not available at level %d", g.Level)
			return Connection{}, false, &res
		}
		t := common.Thoughts[order]
		if !t.Possible.Has(need) {
			res := infeasible("finesse through o%d, already disproven as %s", order, need)
			return Connection{}, false, &res
		}
		hidden := hasPendingFinesse(common, seat, g.State, prior)
		return Connection{Type: ConnFinesse, Reacting: seat, Order: order, Hidden: hidden, Identities: hanabi.SetOf(need)}, true, nil
	}

	return Connection{}, false, nil
}

// finessePositionSkipping is FinessePosition with extra occupied orders.
func finessePositionSkipping(p *Perspective, hand []int, used map[int]bool) int {
	for _, order := range hand {
		if used[order] {
			continue
		}
		if t := p.Thoughts[order]; t != nil && !t.Touched() && !t.Finessed {
			return order
		}
	}
	return -1
}

// hasPendingFinesse reports whether seat already owes a blind play, a
// new connection through them stays hidden until that resolves.
func hasPendingFinesse(p *Perspective, seat int, s *hanabi.State, prior []Connection) bool {
	for _, order := range s.Hands[seat] {
		if t := p.Thoughts[order]; t != nil && t.Finessed {
			return true
		}
	}
	for _, c := range prior {
		if c.Type == ConnFinesse && c.Reacting == seat {
			return true
		}
	}
	return false
}

func lastClue(t *Thought) *ClueRecord {
	if len(t.Clues) == 0 {
		return nil
	}
	return &t.Clues[len(t.Clues)-1]
}
