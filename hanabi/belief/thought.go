// Package belief implements the belief-state engine: per-card candidate
// tracking for every seat plus the shared common perspective, the
// elimination algorithms that shrink candidate sets, the connection
// resolver that turns clues into implied play chains, and the rewind
// controller that rebuilds everything when a hypothesis fails.
package belief

import (
	"github.com/WillFlame14/hanabi-bot-sub000/hanabi"
)

// ClueRecord remembers one clue that touched a card.
type ClueRecord struct {
	Kind  hanabi.ClueKind
	Value int
	Giver int
	Turn  int
}

// Thought is one perspective's belief record for a single physical card,
// keyed by its draw order.
type Thought struct {
	Order int

	// Possible holds identities not publicly disproved for this card.
	// Inferred is the convention-driven narrowing; Inferred is a subset
	// of Possible whenever an update has finished.
	Possible hanabi.IdentitySet
	Inferred hanabi.IdentitySet

	// OldInferred snapshots Inferred before a speculative narrowing
	// (finesse/prompt assignment) so a falsified hypothesis can restore it.
	OldInferred *hanabi.IdentitySet

	// DrawnIndex is the action-log index of this card's draw, the anchor
	// for rewinds involving it.
	DrawnIndex int

	Clued         bool
	NewlyClued    bool
	Finessed      bool
	ChopMoved     bool
	Focused       bool
	Reset         bool // inference was forcibly widened after going empty
	Superposition bool // multiple live hypotheses unioned onto this card

	Clues []ClueRecord

	// Reasoning records the action-log indices (and turns) at which
	// Inferred last shrank, newest last.
	Reasoning     []int
	ReasoningTurn []int

	// FinesseIndex orders pending finesses, oldest first. -1 when unset.
	FinesseIndex int
}

func newThought(order, drawnIndex int, possible hanabi.IdentitySet) *Thought {
	return &Thought{
		Order:        order,
		Possible:     possible,
		Inferred:     possible,
		DrawnIndex:   drawnIndex,
		FinesseIndex: -1,
	}
}

// Touched reports whether the card carries convention meaning (clued or
// chop moved).
func (t *Thought) Touched() bool { return t.Clued || t.ChopMoved }

// Identity returns the card's resolved identity. With infer=false only a
// possible-singleton counts as known; with infer=true an
// inferred-singleton also resolves.
func (t *Thought) Identity(infer bool) (hanabi.Identity, bool) {
	if id, ok := t.Possible.Single(); ok {
		return id, true
	}
	if infer {
		if id, ok := t.Inferred.Single(); ok {
			return id, true
		}
	}
	return hanabi.NoIdentity, false
}

// Matches reports whether the card resolves to exactly id.
func (t *Thought) Matches(id hanabi.Identity, infer bool) bool {
	got, ok := t.Identity(infer)
	return ok && got == id
}

// setInferred narrows the inference and records provenance when the set
// actually shrank.
func (t *Thought) setInferred(set hanabi.IdentitySet, actionIndex, turn int) {
	if set == t.Inferred {
		return
	}
	if set.Count() < t.Inferred.Count() {
		t.Reasoning = append(t.Reasoning, actionIndex)
		t.ReasoningTurn = append(t.ReasoningTurn, turn)
	}
	t.Inferred = set
}

// snapshotInferred stores the pre-speculation inference once; later
// speculation on the same card keeps the original snapshot.
func (t *Thought) snapshotInferred() {
	if t.OldInferred == nil {
		old := t.Inferred
		t.OldInferred = &old
	}
}

// restoreInferred undoes a speculative narrowing. The snapshot is
// intersected with Possible because hard eliminations since the snapshot
// still hold.
func (t *Thought) restoreInferred() {
	if t.OldInferred != nil {
		t.Inferred = t.OldInferred.Intersect(t.Possible)
		t.OldInferred = nil
	}
	if t.Inferred.Empty() {
		t.Inferred = t.Possible
		t.Reset = true
	}
}

func (t *Thought) clone() *Thought {
	c := *t
	if t.OldInferred != nil {
		old := *t.OldInferred
		c.OldInferred = &old
	}
	c.Clues = append([]ClueRecord(nil), t.Clues...)
	c.Reasoning = append([]int(nil), t.Reasoning...)
	c.ReasoningTurn = append([]int(nil), t.ReasoningTurn...)
	return &c
}
