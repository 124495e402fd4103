package belief

import (
	"errors"
	"testing"
)

func TestCardElimRemovesAccountedIdentity(t *testing.T) {
	tg := newTestGame(t, 0, nil,
		[]string{"xx", "xx"},
		[]string{"r5", "g2"},
	)

	// Discard the only r5. Every unresolved card loses it.
	o := tg.order(1, 0)
	tg.discard(1, o, "r5", false)

	for _, p := range tg.perspectives() {
		if p.AllPossible.Has(card("r5")) {
			t.Errorf("%s: r5 still in the unaccounted pool", p.Viewer)
		}
		th := p.Thoughts[tg.order(0, 0)]
		if th.Possible.Has(card("r5")) {
			t.Errorf("%s: unresolved card can still be r5", p.Viewer)
		}
	}
}

func TestCardElimCascades(t *testing.T) {
	tg := newTestGame(t, 0, nil,
		[]string{"xx", "xx"},
		[]string{"y4", "y4"},
	)

	// One y4 discarded, the other clued yellow after all other yellows are
	// gone would pin it. Simulate the pin directly: collapse the held copy
	// to a singleton and let elimination cascade.
	held := tg.order(1, 0)
	gone := tg.order(1, 1)
	tg.discard(1, gone, "y4", false)

	common := tg.Common
	common.Thoughts[held].Possible = set("y4")
	common.Thoughts[held].Inferred = set("y4")
	if err := common.CardElim(tg.State); err != nil {
		t.Fatalf("CardElim: %v", err)
	}

	// Both copies accounted: nothing else can be y4.
	our := common.Thoughts[tg.order(0, 0)]
	if our.Possible.Has(card("y4")) {
		t.Error("third card can still be y4 with both copies accounted")
	}
	if common.AllPossible.Has(card("y4")) {
		t.Error("y4 still in the unaccounted pool")
	}
}

func TestCardElimConservationViolation(t *testing.T) {
	tg := newTestGame(t, 0, nil,
		[]string{"xx"},
		[]string{"r5"},
	)

	// Force two certain r5s while one is also discarded: 3 accounted
	// copies of a 1-copy identity.
	common := tg.Common
	common.Thoughts[tg.order(0, 0)].Possible = set("r5")
	common.Thoughts[tg.order(1, 0)].Possible = set("r5")

	err := common.CardElim(tg.State)
	if !errors.Is(err, ErrConservation) {
		t.Fatalf("err = %v, want ErrConservation", err)
	}
}

func TestGoodTouchHardMatchElimination(t *testing.T) {
	tg := newTestGame(t, 0, nil,
		[]string{"xx", "xx"},
		[]string{"r1", "r3"},
		[]string{"g1", "g2"},
	)

	common := tg.Common
	known := tg.order(1, 0)
	other := tg.order(1, 1)

	// Both red cards are clued; one is fully resolved as r1.
	for _, o := range []int{known, other} {
		common.Thoughts[o].Clued = true
	}
	common.Thoughts[known].Possible = set("r1")
	common.Thoughts[known].Inferred = set("r1")
	common.Thoughts[other].Inferred = set("r1", "r3")

	common.GoodTouchElim(tg.State, -1, -1, 0, 0)

	if got := common.Thoughts[other].Inferred; got != set("r3") {
		t.Fatalf("other red inferred = %s, want {r3}", got)
	}
	if orders := common.Elims[card("r1")]; !containsInt(orders, other) {
		t.Errorf("elimination provenance missing: %v", orders)
	}
}

func TestGoodTouchResetOnCollapse(t *testing.T) {
	tg := newTestGame(t, 0, nil,
		[]string{"xx", "xx"},
		[]string{"r1", "r1"},
	)

	common := tg.Common
	a := tg.order(1, 0)
	b := tg.order(1, 1)
	for _, o := range []int{a, b} {
		common.Thoughts[o].Clued = true
	}
	common.Thoughts[a].Possible = set("r1")
	common.Thoughts[a].Inferred = set("r1")
	common.Thoughts[b].Inferred = set("r1")

	resets := common.GoodTouchElim(tg.State, -1, -1, 0, 0)

	// b lost its only inference and must fall back to possible.
	if !containsInt(resets, b) {
		t.Fatalf("resets = %v, want to contain %d", resets, b)
	}
	th := common.Thoughts[b]
	if !th.Reset {
		t.Error("collapsed card not marked Reset")
	}
	if th.Inferred.Empty() {
		t.Error("collapsed card left with empty inference")
	}
}

func TestGoodTouchMatchingConvictionsLink(t *testing.T) {
	tg := newTestGame(t, 0, nil,
		[]string{"xx", "xx"},
		[]string{"r2", "r2"},
	)

	common := tg.Common
	a := tg.order(1, 0)
	b := tg.order(1, 1)
	for _, o := range []int{a, b} {
		common.Thoughts[o].Clued = true
		common.Thoughts[o].Inferred = set("r2")
	}

	// Two cards holding the same inferred-singleton: neither outranks the
	// other, so they group instead of stripping each other empty.
	common.GoodTouchElim(tg.State, -1, -1, 0, 0)

	for _, o := range []int{a, b} {
		if got := common.Thoughts[o].Inferred; got != set("r2") {
			t.Errorf("conviction stripped from o%d: %s", o, got)
		}
	}
	found := false
	for _, link := range common.Links {
		if link.Identities.Has(card("r2")) && len(link.Orders) == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("no link for the duplicated conviction, links = %v", common.Links)
	}
}

func TestGoodTouchSoftMatchesBecomeLink(t *testing.T) {
	tg := newTestGame(t, 0, nil,
		[]string{"xx", "xx"},
		[]string{"r2", "r2", "r4"},
	)

	common := tg.Common
	a := tg.order(1, 0)
	b := tg.order(1, 1)
	c := tg.order(1, 2)
	for _, o := range []int{a, b, c} {
		common.Thoughts[o].Clued = true
	}
	// Two cards could each be the single missing r2; neither is resolved.
	common.Thoughts[a].Inferred = set("r2", "r3")
	common.Thoughts[b].Inferred = set("r2", "r3")
	common.Thoughts[c].Inferred = set("r3", "r4")

	common.GoodTouchElim(tg.State, -1, -1, 0, 0)

	found := false
	for _, link := range common.Links {
		if link.Promised && link.Identities.Has(card("r2")) {
			found = true
		}
	}
	if !found {
		t.Fatalf("no promised link for r2, links = %v", common.Links)
	}
	// Soft matches never eliminate each other.
	for _, o := range []int{a, b} {
		if got := common.Thoughts[o].Inferred; !got.Has(card("r2")) {
			t.Errorf("soft match eliminated r2 from o%d: %s", o, got)
		}
	}
}

func TestGoodTouchSkipsGiverOnlyMatches(t *testing.T) {
	tg := newTestGame(t, 0, nil,
		[]string{"xx", "xx"},
		[]string{"b3", "b4"},
	)

	common := tg.Common
	giverCard := tg.order(0, 0)
	targetCard := tg.order(1, 0)

	// The only hard match for b3 is a chop-moved, never-clued card in the
	// giver's own hand. The giver cannot see it and shares no clue about
	// it, so the deduction must not fire on their behalf.
	common.Thoughts[giverCard].ChopMoved = true
	common.Thoughts[giverCard].Inferred = set("b3")

	common.Thoughts[targetCard].Clued = true
	common.Thoughts[targetCard].Inferred = set("b3", "b4")

	common.GoodTouchElim(tg.State, 0, -1, 0, 0)

	if got := common.Thoughts[targetCard].Inferred; !got.Has(card("b3")) {
		t.Fatalf("giver-only match eliminated b3: %s", got)
	}

	// With no giver in play the elimination goes through.
	common.GoodTouchElim(tg.State, -1, -1, 0, 0)
	if got := common.Thoughts[targetCard].Inferred; got.Has(card("b3")) {
		t.Fatalf("elimination did not fire without a giver: %s", got)
	}
}
