package belief

import "github.com/WillFlame14/hanabi-bot-sub000/hanabi"

// ThinksPlayables returns the orders in playerIndex's hand that the
// perspective believes are safely playable right now: every live
// inferred identity is playable on the hypothetical stacks, and the
// belief comes from convention meaning (touched or finessed) or outright
// knowledge.
func (g *Game) ThinksPlayables(p *Perspective, playerIndex int) []int {
	// Exclude the player's own promises so their cards are judged against
	// what the rest of the team will have played.
	hypo := g.hypoStacks(p, playerIndex)
	var out []int
	for _, order := range g.State.Hands[playerIndex] {
		t := p.Thoughts[order]
		if t == nil || t.Inferred.Empty() {
			continue
		}
		if _, known := t.Possible.Single(); !known && !t.Touched() && !t.Finessed {
			continue
		}
		playable := true
		for _, id := range t.Inferred.Identities() {
			if hypo[id.Suit]+1 != id.Rank {
				playable = false
				break
			}
		}
		if playable {
			out = append(out, order)
		}
	}
	return out
}

// ThinksTrash returns the orders playerIndex can safely discard: every
// possible identity is basic trash, or the card is touched and every
// inferred identity is basic trash.
func (g *Game) ThinksTrash(p *Perspective, playerIndex int) []int {
	var out []int
	for _, order := range g.State.Hands[playerIndex] {
		t := p.Thoughts[order]
		if t == nil {
			continue
		}
		if allTrash(g.State, t.Possible) {
			out = append(out, order)
			continue
		}
		if t.Touched() && !t.Inferred.Empty() && allTrash(g.State, t.Inferred) {
			out = append(out, order)
		}
	}
	return out
}

// ThinksLoaded reports whether playerIndex has a known out: something to
// play or something safe to throw away.
func (g *Game) ThinksLoaded(p *Perspective, playerIndex int) bool {
	return len(g.ThinksPlayables(p, playerIndex)) > 0 || len(g.ThinksTrash(p, playerIndex)) > 0
}

// HypoStacks returns the play stacks advanced by every play the
// perspective already foresees: identity-resolved cards in hands and the
// identities promised by pending waiting connections.
func (g *Game) HypoStacks(p *Perspective) []int8 { return g.hypoStacks(p, -1) }

func (g *Game) hypoStacks(p *Perspective, excludePlayer int) []int8 {
	stacks := append([]int8(nil), g.State.PlayStacks...)

	promised := hanabi.EmptySet
	for pi, hand := range g.State.Hands {
		if pi == excludePlayer {
			continue
		}
		for _, order := range hand {
			t := p.Thoughts[order]
			if t == nil {
				continue
			}
			if id, ok := t.Identity(true); ok && (t.Touched() || t.Finessed) {
				promised = promised.Add(id)
			}
		}
	}
	for _, wc := range p.WaitingConnections {
		for i := wc.ConnIndex; i < len(wc.Connections); i++ {
			conn := wc.Connections[i]
			if excludePlayer >= 0 && containsInt(g.State.Hands[excludePlayer], conn.Order) {
				continue
			}
			if id, ok := conn.Identities.Single(); ok {
				promised = promised.Add(id)
			}
		}
	}

	for changed := true; changed; {
		changed = false
		for _, id := range promised.Identities() {
			if stacks[id.Suit]+1 == id.Rank {
				stacks[id.Suit] = id.Rank
				changed = true
			}
		}
	}
	return stacks
}

func allTrash(s *hanabi.State, set hanabi.IdentitySet) bool {
	if set.Empty() {
		return false
	}
	for _, id := range set.Identities() {
		if !s.IsBasicTrash(id) {
			return false
		}
	}
	return true
}
