package belief

import (
	"fmt"

	"github.com/WillFlame14/hanabi-bot-sub000/hanabi"
)

// CardElim runs cardinality elimination to a fixpoint: any identity whose
// copies are all accounted for (played, discarded, or held by cards that
// certainly resolve to it) is removed from every other card's candidates.
// A card whose candidates collapse to a singleton re-enters the scan,
// since its identity may now account for further copies.
//
// Returns ErrConservation if an identity is over-accounted, which means
// the belief model and the real game have diverged irrecoverably.
func (p *Perspective) CardElim(s *hanabi.State) error {
	queue := p.AllPossible.Identities()
	queued := make(map[hanabi.Identity]bool, len(queue))
	for _, id := range queue {
		queued[id] = true
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		queued[id] = false

		total := s.TotalCount(id)
		base := s.BaseCount(id)

		certain := make(map[int]bool)
		for _, hand := range s.Hands {
			for _, order := range hand {
				t := p.Thoughts[order]
				if t == nil {
					continue
				}
				if single, ok := t.Possible.Single(); ok && single == id {
					certain[order] = true
				}
			}
		}

		if base+len(certain) > total {
			return fmt.Errorf("%w: %s accounted %d times but deck holds %d",
				ErrConservation, id, base+len(certain), total)
		}
		if base+len(certain) < total {
			continue
		}

		// Every copy of id is localized: no other card can be it.
		p.AllPossible = p.AllPossible.Remove(id)
		p.AllInferred = p.AllInferred.Remove(id)
		for _, hand := range s.Hands {
			for _, order := range hand {
				if certain[order] {
					continue
				}
				t := p.Thoughts[order]
				if t == nil || !t.Possible.Has(id) {
					continue
				}
				t.Possible = t.Possible.Remove(id)
				t.Inferred = t.Inferred.Remove(id)
				if t.Inferred.Empty() {
					p.resetInference(t)
				}
				if next, ok := t.Possible.Single(); ok && !queued[next] {
					queue = append(queue, next)
					queued[next] = true
				}
			}
		}
	}
	return nil
}

// GoodTouchElim applies the good touch principle: distinct touched cards
// are assumed distinct identities. Claims come in two strengths: a
// provable claim (a possible-singleton, or the current clue's focus)
// strips its identity from every other touched card's inference, while a
// conviction (a touched card whose inference alone is a singleton)
// strips it only from cards not holding the same conviction; matching
// convictions form a Link instead. Identities held only by soft matches
// also become a Link rather than a guess.
//
// Conviction-based elimination is skipped when every match sits
// unconfirmed in the clue giver's own hand: the giver cannot have
// intended a deduction they were unable to see themselves. Pass
// giver = -1 outside a clue context.
//
// Cards whose inference collapses are reset (restored from the
// speculation snapshot, else widened to Possible) and their orders
// returned so callers can react (fix-clue detection, rewinds).
func (p *Perspective) GoodTouchElim(s *hanabi.State, giver, focusOrder, actionIndex, turn int) []int {
	var resets []int
	resetDone := make(map[int]bool)

	for changed := true; changed; {
		changed = false
		provable := make(map[hanabi.Identity][]int)
		conviction := make(map[hanabi.Identity][]int)
		soft := make(map[hanabi.Identity][]int)
		var touched []*Thought

		for _, hand := range s.Hands {
			for _, order := range hand {
				t := p.Thoughts[order]
				if t == nil || !t.Touched() {
					continue
				}
				touched = append(touched, t)
				if id, ok := t.Possible.Single(); ok {
					provable[id] = append(provable[id], order)
					continue
				}
				if order == focusOrder {
					for _, id := range t.Inferred.Identities() {
						provable[id] = append(provable[id], order)
					}
					continue
				}
				if id, ok := t.Inferred.Single(); ok {
					conviction[id] = append(conviction[id], order)
					continue
				}
				for _, id := range t.Inferred.Identities() {
					soft[id] = append(soft[id], order)
				}
			}
		}

		for _, t := range touched {
			if _, ok := t.Possible.Single(); ok {
				continue // provably resolved cards keep their identity
			}
			if t.Order == focusOrder {
				continue // the focus is the clue's subject, never its victim
			}
			if resetDone[t.Order] {
				continue
			}
			for _, id := range t.Inferred.Identities() {
				hard := claimsExcept(provable[id], t.Order)
				held := claimsExcept(conviction[id], t.Order)
				if len(hard) == 0 && len(held) == 0 {
					others := claimsExcept(soft[id], t.Order)
					if len(others) == 0 || p.asymmetricUnsafe(s, giver, soft[id]) {
						continue
					}
					if _, ok := t.Inferred.Single(); !ok {
						p.noteLink(soft[id], id)
					}
					continue
				}
				if len(hard) == 0 {
					if p.asymmetricUnsafe(s, giver, held) {
						continue
					}
					if single, ok := t.Inferred.Single(); ok && single == id {
						// Matching convictions never strip each other; the
						// copies stay grouped until one surfaces.
						p.noteLink(append(held, t.Order), id)
						continue
					}
				}
				t.setInferred(t.Inferred.Remove(id), actionIndex, turn)
				p.Elims[id] = append(p.Elims[id], t.Order)
				changed = true
				if t.Inferred.Empty() && p.resetInference(t) {
					resets = append(resets, t.Order)
					resetDone[t.Order] = true
					break
				}
			}
		}
	}
	return resets
}

func claimsExcept(orders []int, self int) []int {
	var out []int
	for _, o := range orders {
		if o != self {
			out = append(out, o)
		}
	}
	return out
}

// asymmetricUnsafe reports whether eliminating based on these matches
// would deduce something the clue giver could not have intended: every
// match is in the giver's own hand and none is confirmed through shared
// information.
func (p *Perspective) asymmetricUnsafe(s *hanabi.State, giver int, matches []int) bool {
	if giver < 0 || len(matches) == 0 {
		return false
	}
	for _, order := range matches {
		if !containsInt(s.Hands[giver], order) {
			return false
		}
		t := p.Thoughts[order]
		if t != nil && t.Clued {
			if _, ok := t.Inferred.Single(); ok {
				return false // shared inference, the giver knows it too
			}
		}
	}
	return true
}

// noteLink records an indistinguishable group holding id, unless an
// equivalent link is already live.
func (p *Perspective) noteLink(orders []int, id hanabi.Identity) {
	for _, link := range p.Links {
		if link.Identities.Has(id) && sameOrders(link.Orders, orders) {
			return
		}
	}
	p.Links = append(p.Links, Link{
		Orders:     append([]int(nil), orders...),
		Identities: hanabi.SetOf(id),
		Promised:   true,
	})
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func sameOrders(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		if !containsInt(b, x) {
			return false
		}
	}
	return true
}
