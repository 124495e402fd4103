package belief

import (
	"testing"

	"github.com/WillFlame14/hanabi-bot-sub000/hanabi"
)

func TestDirectPlayClue(t *testing.T) {
	tg := newTestGame(t, 0, &HGroup{},
		[]string{"xx", "xx"},
		[]string{"r1"},
	)

	tg.clue(0, 1, hanabi.ClueColour, 0)

	focus := tg.Common.Thoughts[tg.order(1, 0)]
	if focus.Inferred != set("r1") {
		t.Fatalf("focus inferred = %s, want {r1}", focus.Inferred)
	}
	if focus.Superposition {
		t.Error("single reading marked Superposition")
	}
	if !focus.Focused {
		t.Error("focus not marked Focused")
	}
	if len(tg.Common.WaitingConnections) != 0 {
		t.Errorf("direct play registered chains: %v", tg.Common.WaitingConnections)
	}
}

func TestFiveSaveOnChop(t *testing.T) {
	tg := newTestGame(t, 0, &HGroup{},
		[]string{"xx", "xx"},
		[]string{"g3", "r5"},
	)

	tg.clue(0, 1, hanabi.ClueRank, 5)

	// A 5 on chop is saved, not asked to play: every 5 stays live.
	focus := tg.Common.Thoughts[tg.order(1, 1)]
	if focus.Inferred != set("r5", "y5", "g5", "b5", "p5") {
		t.Fatalf("focus inferred = %s, want all fives", focus.Inferred)
	}
	if len(tg.Common.WaitingConnections) != 0 {
		t.Errorf("save registered chains: %v", tg.Common.WaitingConnections)
	}
}

func TestTwoSaveOnChop(t *testing.T) {
	tg := newTestGame(t, 0, &HGroup{},
		[]string{"xx", "xx"},
		[]string{"g3", "b2"},
	)

	tg.clue(0, 1, hanabi.ClueRank, 2)

	// Rank 2 on chop is a legal 2-save even for non-critical copies.
	focus := tg.Common.Thoughts[tg.order(1, 1)]
	if !focus.Inferred.Has(card("b2")) {
		t.Fatalf("focus inferred = %s, lost the saved 2", focus.Inferred)
	}
}

func TestTrashCandidatesDropped(t *testing.T) {
	tg := newTestGame(t, 0, &HGroup{},
		[]string{},
		[]string{"r2", "g3", "b4"},
	)

	// Red already at 2: a red clue cannot mean r1 or r2 again.
	for _, c := range []string{"r1", "r2"} {
		o := tg.draw(0, c)
		tg.play(0, o, c)
	}
	tg.clue(0, 1, hanabi.ClueColour, 0)

	focus := tg.Common.Thoughts[tg.order(1, 0)]
	if focus.Inferred.Has(card("r1")) || focus.Inferred.Has(card("r2")) {
		t.Fatalf("focus inferred = %s, contains played identities", focus.Inferred)
	}
	if !focus.Inferred.Has(card("r3")) {
		t.Fatalf("focus inferred = %s, lost the playable r3", focus.Inferred)
	}
}

func TestSeatAdoptsClueMeaning(t *testing.T) {
	tg := newTestGame(t, 0, &HGroup{},
		[]string{"r1", "b4"},
		[]string{"r2", "r2", "y3"},
	)

	// With both r2s gone, red on our lone red card can only mean r1. The
	// meaning must reach our own seat, not just the common view.
	tg.discard(1, tg.order(1, 0), "r2", false)
	tg.discard(1, tg.order(1, 0), "r2", false)
	tg.clue(1, 0, hanabi.ClueColour, 0)

	o := tg.order(0, 0)
	if got := tg.Players[0].Thoughts[o].Inferred; got != set("r1") {
		t.Fatalf("our inferred = %s, want {r1}", got)
	}

	a, err := tg.Convention.TakeAction(tg.Game)
	if err != nil {
		t.Fatalf("TakeAction: %v", err)
	}
	if a.Type != hanabi.ActionPlay || a.Order != o {
		t.Fatalf("action = %s, want play of o%d", a, o)
	}
}

func TestSelfFinesseRankClue(t *testing.T) {
	tg := newTestGame(t, 0, &HGroup{},
		[]string{"xx", "xx"},
		[]string{"r1", "r2", "g4"},
		[]string{"y1", "g2"},
	)

	// p2's remaining card carries negative rank-1 information, so no
	// external route can bridge any 1. A rank 2 on p1's r2 then reads as
	// a finesse through p1's own hand.
	tg.clue(0, 2, hanabi.ClueRank, 1)
	tg.play(2, tg.order(2, 0), "y1")
	tg.clue(0, 1, hanabi.ClueRank, 2)

	blind := tg.Common.Thoughts[tg.order(1, 0)]
	if !blind.Finessed {
		t.Fatal("self-finesse position not marked Finessed")
	}
	if blind.Inferred != set("r1") {
		t.Fatalf("blind card inferred = %s, want {r1}", blind.Inferred)
	}

	var committed *WaitingConnection
	count := 0
	for _, wc := range tg.Common.WaitingConnections {
		if !wc.Symmetric {
			committed = wc
			count++
		}
	}
	if count != 1 || committed == nil {
		t.Fatalf("committed chains = %d, want 1", count)
	}
	c := committed.Connections[0]
	if c.Type != ConnFinesse || c.Reacting != 1 || c.Order != tg.order(1, 0) {
		t.Fatalf("connection = %s, want self-finesse through o%d", c, tg.order(1, 0))
	}

	focus := tg.Common.Thoughts[tg.order(1, 1)]
	if !focus.Inferred.Has(card("r2")) || !focus.Inferred.Has(card("y2")) {
		t.Fatalf("focus inferred = %s, lost a live reading", focus.Inferred)
	}
}

func TestChooseInterpPrefersDirectReadings(t *testing.T) {
	prompt := Connection{Type: ConnPrompt, Reacting: 2}
	finesse := Connection{Type: ConnFinesse, Reacting: 2}
	selfFinesse := Connection{Type: ConnFinesse, Reacting: 1}

	// Fewer blind plays wins outright.
	chains := []focusInterp{
		{id: card("r3"), conns: []Connection{finesse, selfFinesse}},
		{id: card("g3"), conns: []Connection{prompt, finesse}},
	}
	if got := chooseInterp(chains, 1); got != 1 {
		t.Fatalf("chose %d, want the single-finesse reading", got)
	}

	// Equal blind plays: prefer the chain staying out of the receiver's
	// hand.
	chains = []focusInterp{
		{id: card("r3"), conns: []Connection{selfFinesse}},
		{id: card("g3"), conns: []Connection{finesse}},
	}
	if got := chooseInterp(chains, 1); got != 1 {
		t.Fatalf("chose %d, want the external finesse", got)
	}
}

func TestTakeActionPlaysKnownCard(t *testing.T) {
	tg := newTestGame(t, 0, &HGroup{},
		[]string{"xx", "xx"},
		[]string{"g3", "b2"},
	)

	// Tell ourselves our newest card is a playable r1.
	o := tg.order(0, 0)
	for _, p := range tg.perspectives() {
		p.Thoughts[o].Clued = true
		p.Thoughts[o].Possible = set("r1")
		p.Thoughts[o].Inferred = set("r1")
	}

	a, err := tg.Convention.TakeAction(tg.Game)
	if err != nil {
		t.Fatalf("TakeAction: %v", err)
	}
	if a.Type != hanabi.ActionPlay || a.Order != o {
		t.Fatalf("action = %s, want play of o%d", a, o)
	}
}

func TestTakeActionDiscardsChopWhenNothingToDo(t *testing.T) {
	tg := newTestGame(t, 0, &HGroup{},
		[]string{"xx", "xx"},
		[]string{"g3", "b2"},
	)
	tg.State.ClueTokens = 0

	a, err := tg.Convention.TakeAction(tg.Game)
	if err != nil {
		t.Fatalf("TakeAction: %v", err)
	}
	chop := tg.ChopOrder(tg.Players[0], 0)
	if a.Type != hanabi.ActionDiscard || a.Order != chop {
		t.Fatalf("action = %s, want chop discard of o%d", a, chop)
	}
}

func TestTakeActionStallsWithClue(t *testing.T) {
	tg := newTestGame(t, 0, &HGroup{},
		[]string{"xx", "xx"},
		[]string{"g3", "b2"},
	)

	// Full tokens, nothing to play, nothing known trash: burn a clue on
	// an already-touched card.
	tg.Common.Thoughts[tg.order(1, 0)].Clued = true

	a, err := tg.Convention.TakeAction(tg.Game)
	if err != nil {
		t.Fatalf("TakeAction: %v", err)
	}
	if a.Type != hanabi.ActionClue || a.Target != 1 {
		t.Fatalf("action = %s, want stall clue to p1", a)
	}
}

func TestThinksPlayablesAndTrash(t *testing.T) {
	tg := newTestGame(t, 0, &HGroup{},
		[]string{},
		[]string{"r1", "y3", "b2"},
	)

	o := tg.draw(0, "g1")
	tg.play(0, o, "g1")

	common := tg.Common
	playable := tg.order(1, 0)
	trash := tg.order(1, 1)

	common.Thoughts[playable].Clued = true
	common.Thoughts[playable].Possible = set("r1")
	common.Thoughts[playable].Inferred = set("r1")
	// Known to be a copy of the already-played g1.
	common.Thoughts[trash].Possible = set("g1")
	common.Thoughts[trash].Inferred = set("g1")

	if got := tg.ThinksPlayables(common, 1); len(got) != 1 || got[0] != playable {
		t.Fatalf("ThinksPlayables = %v, want [%d]", got, playable)
	}

	// g1 is already played, so a card known to be g1 is trash.
	if got := tg.ThinksTrash(common, 1); len(got) != 1 || got[0] != trash {
		t.Fatalf("ThinksTrash = %v, want [%d]", got, trash)
	}
	if !tg.ThinksLoaded(common, 1) {
		t.Error("player with a play and a discard is not loaded")
	}
}

func TestHypoStacksCountPromisedPlays(t *testing.T) {
	tg := newTestGame(t, 0, &HGroup{},
		[]string{"xx", "xx"},
		[]string{"r1", "r2"},
	)

	common := tg.Common
	a := tg.order(1, 0)
	b := tg.order(1, 1)
	common.Thoughts[a].Clued = true
	common.Thoughts[a].Inferred = set("r1")
	common.Thoughts[b].Clued = true
	common.Thoughts[b].Inferred = set("r2")

	stacks := tg.HypoStacks(common)
	if stacks[0] != 2 {
		t.Fatalf("hypo red stack = %d, want 2", stacks[0])
	}
	// The real stacks are untouched.
	if tg.State.PlayStacks[0] != 0 {
		t.Error("HypoStacks mutated the live stacks")
	}
}
