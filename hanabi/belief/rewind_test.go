package belief

import (
	"errors"
	"testing"

	"github.com/WillFlame14/hanabi-bot-sub000/hanabi"
)

func TestRewindAppliesIdentify(t *testing.T) {
	tg := newTestGame(t, 0, nil,
		[]string{"xx"},
		[]string{"r1"},
	)

	// Assert our unseen card's true identity at its draw.
	if err := tg.Rewind(0, hanabi.NewIdentify(tg.order(0, 0), card("g4"))); err != nil {
		t.Fatalf("rewind: %v", err)
	}

	o := tg.order(0, 0)
	for _, p := range tg.perspectives() {
		if got := p.Thoughts[o].Possible; got != set("g4") {
			t.Errorf("%s: possible = %s, want {g4}", p.Viewer, got)
		}
	}
	if len(tg.ActionList) != 2 {
		t.Errorf("log length = %d, want 2", len(tg.ActionList))
	}
	if tg.rewindDepth != 0 {
		t.Errorf("rewindDepth = %d, want 0 after the replay completed", tg.rewindDepth)
	}
}

func TestIndependentRewindsDoNotAccumulate(t *testing.T) {
	tg := newTestGame(t, 0, nil,
		[]string{"xx"},
		[]string{"r1"},
	)

	// More corrections over a game's lifetime than the recursion bound
	// allows at once; each one completes and hands the depth back.
	for i, c := range []string{"g4", "p3", "y2", "b1", "g5"} {
		if err := tg.Rewind(0, hanabi.NewIdentify(tg.order(0, 0), card(c))); err != nil {
			t.Fatalf("rewind %d: %v", i, err)
		}
		if tg.rewindDepth != 0 {
			t.Fatalf("rewind %d left depth %d", i, tg.rewindDepth)
		}
	}
	if got := tg.Common.Thoughts[tg.order(0, 0)].Possible; got != set("g5") {
		t.Errorf("possible = %s, want the last correction {g5}", got)
	}
}

func TestRewindKeepsEarlierCorrections(t *testing.T) {
	tg := newTestGame(t, 0, nil,
		[]string{"xx", "xx"},
		[]string{"r1", "b2"},
	)

	// Each identify anchors at its card's own draw index.
	first := tg.Common.Thoughts[tg.order(0, 0)].DrawnIndex
	if err := tg.Rewind(first, hanabi.NewIdentify(tg.order(0, 0), card("g4"))); err != nil {
		t.Fatalf("first rewind: %v", err)
	}
	second := tg.Common.Thoughts[tg.order(0, 1)].DrawnIndex
	if err := tg.Rewind(second, hanabi.NewIdentify(tg.order(0, 1), card("p3"))); err != nil {
		t.Fatalf("second rewind: %v", err)
	}

	// Both corrections survive the second replay.
	if got := tg.Common.Thoughts[tg.order(0, 0)].Possible; got != set("g4") {
		t.Errorf("first correction lost: %s", got)
	}
	if got := tg.Common.Thoughts[tg.order(0, 1)].Possible; got != set("p3") {
		t.Errorf("second correction missing: %s", got)
	}
}

func TestRewindDepthExceeded(t *testing.T) {
	tg := newTestGame(t, 0, nil,
		[]string{"xx"},
		[]string{"r1"},
	)
	tg.rewindDepth = maxRewindDepth

	err := tg.Rewind(0, hanabi.NewIdentify(tg.order(0, 0), card("g4")))
	if !errors.Is(err, ErrRewindDepthExceeded) {
		t.Fatalf("err = %v, want ErrRewindDepthExceeded", err)
	}
}

func TestRewindRejectsBadIndex(t *testing.T) {
	tg := newTestGame(t, 0, nil,
		[]string{"xx"},
		[]string{"r1"},
	)
	if err := tg.Rewind(99, hanabi.NewIdentify(0, card("g4"))); err == nil {
		t.Fatal("out-of-range rewind succeeded")
	}
	if err := tg.Rewind(0, hanabi.NewPlay(0, 0, card("r1"))); err == nil {
		t.Fatal("non-correction action accepted")
	}
}

func TestFalsifiedFinesseRewinds(t *testing.T) {
	tg := newTestGame(t, 0, &HGroup{},
		[]string{},
		[]string{"r2", "g3", "b4"},
	)

	// Build the side stacks so every 2 except r2 is trash.
	for _, c := range []string{"y1", "y2", "g1", "g2", "b1", "b2", "p1", "p2"} {
		o := tg.draw(0, c)
		tg.play(0, o, c)
	}

	focusOrder := tg.order(1, 0)
	blindOrder := tg.order(1, 1)

	// Rank 2 on r2 reads as r2, self-finessing p1's next card as r1:
	// the only feasible interpretation, so the chain is committed.
	tg.clue(0, 1, hanabi.ClueRank, 2)

	if got := tg.Common.Thoughts[focusOrder].Inferred; got != set("r2") {
		t.Fatalf("focus inferred = %s, want {r2}", got)
	}
	if !tg.Common.Thoughts[blindOrder].Finessed {
		t.Fatal("self-finesse not committed")
	}

	// p1 discards chop instead: the committed hypothesis is falsified and
	// the whole log replays with that reading retracted.
	tg.discard(1, tg.order(1, 2), "b4", false)

	if tg.rewindDepth != 0 {
		t.Fatalf("rewindDepth = %d, want 0 after the replay completed", tg.rewindDepth)
	}
	blind := tg.Common.Thoughts[blindOrder]
	if blind.Finessed {
		t.Error("retracted finesse still marked on the blind card")
	}
	if blind.Inferred.Count() <= 1 {
		t.Errorf("blind card inferred = %s, want restored width", blind.Inferred)
	}
	// With the chain retracted the clue has no reading; the focus keeps
	// every clued candidate.
	if got := tg.Common.Thoughts[focusOrder].Inferred; got.Count() != 5 {
		t.Errorf("focus inferred = %s, want all five 2s", got)
	}
	if len(tg.Common.WaitingConnections) != 0 {
		t.Errorf("waiting = %v, want none", tg.Common.WaitingConnections)
	}
	// The triggering discard itself replayed exactly once.
	if got := tg.State.DiscardCounts[card("b4").Index()]; got != 1 {
		t.Errorf("b4 discards = %d, want 1", got)
	}
	if tg.State.ClueTokens != hanabi.MaxClueTokens {
		t.Errorf("ClueTokens = %d, want %d", tg.State.ClueTokens, hanabi.MaxClueTokens)
	}
}
