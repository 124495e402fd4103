package belief

import "github.com/WillFlame14/hanabi-bot-sub000/hanabi"

// ChopOrder returns the order of playerIndex's chop: the oldest card
// carrying no convention meaning, the one headed for the discard pile.
// Returns -1 when the whole hand is touched.
func (g *Game) ChopOrder(p *Perspective, playerIndex int) int {
	hand := g.State.Hands[playerIndex]
	for i := len(hand) - 1; i >= 0; i-- {
		t := p.Thoughts[hand[i]]
		if t != nil && !t.Touched() {
			return hand[i]
		}
	}
	return -1
}

// FocusOf returns the order carrying the clue's primary meaning: the chop
// if the clue newly touched it, else the leftmost newly touched card,
// else (for a re-clue) the leftmost touched card. chopFocus reports the
// first case. Must be called after the clue marked its cards but before
// NewlyClued is aged away.
func (g *Game) FocusOf(p *Perspective, a hanabi.Action) (order int, chopFocus bool) {
	hand := g.State.Hands[a.Target]

	// The chop as it stood before this clue: oldest card that was
	// untouched then (NewlyClued cards were untouched a moment ago).
	chop := -1
	for i := len(hand) - 1; i >= 0; i-- {
		t := p.Thoughts[hand[i]]
		if t == nil {
			continue
		}
		if !t.Touched() || t.NewlyClued {
			chop = hand[i]
			break
		}
	}
	if chop != -1 {
		if t := p.Thoughts[chop]; t != nil && t.NewlyClued && containsInt(a.List, chop) {
			return chop, true
		}
	}
	for _, o := range hand {
		if t := p.Thoughts[o]; t != nil && t.NewlyClued && containsInt(a.List, o) {
			return o, false
		}
	}
	for _, o := range hand {
		if containsInt(a.List, o) {
			return o, false
		}
	}
	return -1, false
}

// FinessePosition returns the order of playerIndex's finesse position:
// the leftmost card that is neither touched nor already committed to a
// pending finesse. Returns -1 when no such card exists.
func (g *Game) FinessePosition(p *Perspective, playerIndex int) int {
	for _, order := range g.State.Hands[playerIndex] {
		t := p.Thoughts[order]
		if t != nil && !t.Touched() && !t.Finessed {
			return order
		}
	}
	return -1
}

// PromptTarget returns the order of the leftmost touched,
// identity-unresolved card in playerIndex's hand, the card a prompt
// obliges them to play. Returns -1 when none qualifies.
func (g *Game) PromptTarget(p *Perspective, playerIndex int) int {
	for _, order := range g.State.Hands[playerIndex] {
		t := p.Thoughts[order]
		if t == nil || !t.Touched() {
			continue
		}
		if _, ok := t.Identity(true); !ok {
			return order
		}
	}
	return -1
}
