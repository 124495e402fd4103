package belief

import (
	"fmt"

	"github.com/WillFlame14/hanabi-bot-sub000/hanabi"
)

// Viewer identifies whose knowledge a Perspective models: a concrete
// seat, or the shared common-knowledge view. It replaces the original
// design's sentinel seat index with an explicit type.
type Viewer struct {
	seat   int
	common bool
}

// SeatViewer returns the viewer for seat i.
func SeatViewer(i int) Viewer { return Viewer{seat: i} }

// CommonViewer is the shared public-knowledge viewer.
var CommonViewer = Viewer{common: true}

// Seat returns the seat index and true for a seat viewer.
func (v Viewer) Seat() (int, bool) { return v.seat, !v.common }

// IsCommon reports whether this is the common-knowledge viewer.
func (v Viewer) IsCommon() bool { return v.common }

func (v Viewer) String() string {
	if v.common {
		return "common"
	}
	return fmt.Sprintf("seat%d", v.seat)
}

// Link groups cards whose inferred identities are identical and known to
// contain one of the group among them, without knowing which card is
// which. A promised link carries a single candidate identity that will
// bind to the first card revealed as it.
type Link struct {
	Orders     []int
	Identities hanabi.IdentitySet
	Promised   bool
}

// Perspective is one belief state: the thoughts a viewer holds about
// every card, the pool of identities it has not yet localized, live
// links, elimination provenance, and pending waiting connections.
type Perspective struct {
	Viewer   Viewer
	Thoughts map[int]*Thought

	// AllPossible / AllInferred track identities this viewer has not yet
	// fully accounted for; once an identity's copies are all localized it
	// leaves both pools.
	AllPossible hanabi.IdentitySet
	AllInferred hanabi.IdentitySet

	Links []Link

	// Elims records, per identity, the orders good-touch elimination
	// removed it from, so a falsified match can roll the removals back.
	Elims map[hanabi.Identity][]int

	WaitingConnections []*WaitingConnection
}

func newPerspective(viewer Viewer, variant *hanabi.Variant) *Perspective {
	return &Perspective{
		Viewer:      viewer,
		Thoughts:    make(map[int]*Thought),
		AllPossible: variant.All(),
		AllInferred: variant.All(),
		Elims:       make(map[hanabi.Identity][]int),
	}
}

// Thought returns the belief record for order, or nil if never drawn.
func (p *Perspective) Thought(order int) *Thought { return p.Thoughts[order] }

// addCard registers a newly drawn card with the given starting candidates.
func (p *Perspective) addCard(order, drawnIndex int, possible hanabi.IdentitySet) {
	p.Thoughts[order] = newThought(order, drawnIndex, possible)
}

// resetInference widens a card whose inference collapsed to nothing. The
// snapshot is preferred; failing that the card falls all the way back to
// Possible. Returns true if the card entered the reset state.
func (p *Perspective) resetInference(t *Thought) bool {
	wasEmpty := t.Inferred.Empty()
	if !wasEmpty {
		return false
	}
	t.restoreInferred()
	if t.Inferred.Empty() {
		t.Inferred = t.Possible
	}
	t.Reset = true
	t.Finessed = false
	t.FinesseIndex = -1
	return true
}

// intersectCommon resynchronizes a seat perspective against common
// knowledge. Convention meaning lives in the common view, so a seat's
// inference is what its eyes allow intersected with what the team
// agreed; when the agreement contradicts what the seat can see, the
// seat keeps the provable set instead.
func (p *Perspective) intersectCommon(common *Perspective) {
	if p.Viewer.IsCommon() {
		return
	}
	for order, t := range p.Thoughts {
		ct := common.Thoughts[order]
		if ct == nil {
			continue
		}
		t.Possible = t.Possible.Intersect(ct.Possible)
		inferred := t.Possible.Intersect(ct.Inferred)
		if inferred.Empty() {
			inferred = t.Possible
		}
		t.Inferred = inferred
		t.Finessed = ct.Finessed
		t.FinesseIndex = ct.FinesseIndex
		t.Superposition = ct.Superposition
	}
}

// refreshLinks resolves or discards links after new information arrived.
// A promised link binds to the first card revealed as the promised
// identity; other members widen back. Links whose cards left the hands
// are dropped.
func (p *Perspective) refreshLinks(s *hanabi.State) {
	kept := p.Links[:0]
	for _, link := range p.Links {
		live := make([]int, 0, len(link.Orders))
		resolved := false
		for _, order := range link.Orders {
			t := p.Thoughts[order]
			if t == nil || !inAnyHand(s, order) {
				continue
			}
			live = append(live, order)
			if id, ok := t.Identity(false); ok && link.Identities.Has(id) {
				resolved = true
			}
		}
		if resolved || len(live) <= 1 {
			// The identity found its home (or the group degenerated):
			// release the other members from the link's constraint.
			for _, order := range live {
				t := p.Thoughts[order]
				if _, ok := t.Identity(false); !ok {
					p.resetInference(t)
				}
			}
			continue
		}
		link.Orders = live
		kept = append(kept, link)
	}
	p.Links = kept
}

func inAnyHand(s *hanabi.State, order int) bool {
	for _, hand := range s.Hands {
		for _, o := range hand {
			if o == order {
				return true
			}
		}
	}
	return false
}

func (p *Perspective) clone() *Perspective {
	c := &Perspective{
		Viewer:      p.Viewer,
		Thoughts:    make(map[int]*Thought, len(p.Thoughts)),
		AllPossible: p.AllPossible,
		AllInferred: p.AllInferred,
		Elims:       make(map[hanabi.Identity][]int, len(p.Elims)),
	}
	for order, t := range p.Thoughts {
		c.Thoughts[order] = t.clone()
	}
	for _, link := range p.Links {
		c.Links = append(c.Links, Link{
			Orders:     append([]int(nil), link.Orders...),
			Identities: link.Identities,
			Promised:   link.Promised,
		})
	}
	for id, orders := range p.Elims {
		c.Elims[id] = append([]int(nil), orders...)
	}
	for _, wc := range p.WaitingConnections {
		c.WaitingConnections = append(c.WaitingConnections, wc.clone())
	}
	return c
}
