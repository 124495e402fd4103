package belief

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/WillFlame14/hanabi-bot-sub000/hanabi"
)

// Game owns the public state, one Perspective per seat plus the common
// perspective, and the ordered action log that everything is derived
// from. It is single-threaded: each action is fully applied to every
// perspective before the next is considered.
type Game struct {
	State          *hanabi.State
	Players        []*Perspective
	Common         *Perspective
	OurPlayerIndex int

	Convention Convention
	Level      int

	// ActionList is the replayable log. Rewind corrections are kept
	// separately so a replay applies them at the same positions.
	ActionList  []hanabi.Action
	corrections map[int][]hanabi.Action
	ignored     map[ignoreKey]bool

	rewindDepth int
	log         logrus.FieldLogger
}

// ignoreKey names one retracted chain step: the clue's log index and the
// order of the card the step ran through. Keying by card keeps the
// correction precise when several candidate chains share a step count.
type ignoreKey struct {
	actionIndex int
	order       int
}

// NewGame builds a fresh game. conv may be nil for engines driven purely
// by external interpretation (tests); log may be nil to discard output.
func NewGame(variant *hanabi.Variant, numPlayers, ourPlayerIndex int, conv Convention, level int, log logrus.FieldLogger) *Game {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	g := &Game{
		State:          hanabi.NewState(variant, numPlayers),
		OurPlayerIndex: ourPlayerIndex,
		Convention:     conv,
		Level:          level,
		corrections:    make(map[int][]hanabi.Action),
		ignored:        make(map[ignoreKey]bool),
		log:            log,
	}
	for i := 0; i < numPlayers; i++ {
		g.Players = append(g.Players, newPerspective(SeatViewer(i), variant))
	}
	g.Common = newPerspective(CommonViewer, variant)
	return g
}

// perspectives returns every perspective, common last.
func (g *Game) perspectives() []*Perspective {
	return append(append([]*Perspective{}, g.Players...), g.Common)
}

// HandleAction applies one observed action to the whole belief state.
// Only fatal internal-consistency errors are returned; everything else
// is absorbed (resets, rewinds).
func (g *Game) HandleAction(a hanabi.Action) error {
	switch a.Type {
	case hanabi.ActionIdentify, hanabi.ActionIgnore:
		return g.applyCorrection(a, true)
	}

	g.ActionList = append(g.ActionList, a)
	index := len(g.ActionList) - 1

	var err error
	switch a.Type {
	case hanabi.ActionDraw:
		err = g.handleDraw(a, index)
	case hanabi.ActionClue:
		err = g.handleClue(a, index)
	case hanabi.ActionPlay:
		err = g.handlePlay(a, index)
	case hanabi.ActionDiscard:
		err = g.handleDiscard(a, index)
	case hanabi.ActionTurn:
		err = g.handleTurn(a)
	default:
		err = fmt.Errorf("unhandled action type %q", a.Type)
	}
	if err != nil {
		return err
	}

	// Replay any corrections previously injected at this position.
	for _, c := range g.corrections[index] {
		if err := g.applyCorrection(c, false); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) handleDraw(a hanabi.Action, index int) error {
	if err := g.State.ApplyDraw(a); err != nil {
		return err
	}
	id := a.Identity()
	for _, p := range g.perspectives() {
		possible := g.State.Variant.All()
		if seat, ok := p.Viewer.Seat(); ok && seat != a.PlayerIndex && id.Valid() {
			// The viewer sees this card directly.
			possible = hanabi.SetOf(id)
		}
		p.addCard(a.Order, index, possible)
		if err := p.CardElim(g.State); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) handleClue(a hanabi.Action, index int) error {
	if err := g.State.ApplyClue(a); err != nil {
		return err
	}
	cluedSet := g.State.Variant.CluedSet(a.Clue)

	for _, p := range g.perspectives() {
		for _, order := range g.State.Hands[a.Target] {
			t := p.Thoughts[order]
			if t == nil {
				continue
			}
			if containsInt(a.List, order) {
				t.NewlyClued = !t.Clued
				t.Clued = true
				t.Possible = t.Possible.Intersect(cluedSet)
				t.setInferred(t.Inferred.Intersect(cluedSet), index, g.State.Turn)
				t.Clues = append(t.Clues, ClueRecord{
					Kind: a.Clue.Kind, Value: a.Clue.Value, Giver: a.Giver, Turn: g.State.Turn,
				})
			} else {
				t.Possible = t.Possible.Subtract(cluedSet)
				t.setInferred(t.Inferred.Subtract(cluedSet), index, g.State.Turn)
			}
			if t.Inferred.Empty() && p.resetInference(t) {
				g.log.WithFields(logrus.Fields{"order": order, "turn": g.State.Turn}).
					Warn("inference emptied by clue, resetting")
			}
		}
		if err := p.CardElim(g.State); err != nil {
			return err
		}
	}

	if g.Convention != nil {
		if err := g.Convention.InterpretClue(g, a); err != nil {
			return err
		}
	}
	if err := g.updateWaitingConnections(a, a.Giver); err != nil {
		return err
	}
	g.resync()
	return nil
}

func (g *Game) handlePlay(a hanabi.Action, index int) error {
	rewound, err := g.revealIdentity(a.Order, a.Identity())
	if err != nil || rewound {
		// A rewind replays the whole log, this action included.
		return err
	}
	if err := g.State.ApplyPlay(a); err != nil {
		return err
	}
	for _, p := range g.perspectives() {
		if err := p.CardElim(g.State); err != nil {
			return err
		}
	}
	if err := g.updateWaitingConnections(a, a.PlayerIndex); err != nil {
		return err
	}
	g.resync()
	return nil
}

func (g *Game) handleDiscard(a hanabi.Action, index int) error {
	rewound, err := g.revealIdentity(a.Order, a.Identity())
	if err != nil || rewound {
		return err
	}
	if err := g.State.ApplyDiscard(a); err != nil {
		return err
	}
	for _, p := range g.perspectives() {
		if err := p.CardElim(g.State); err != nil {
			return err
		}
	}
	if g.Convention != nil {
		if err := g.Convention.InterpretDiscard(g, a); err != nil {
			return err
		}
	}
	if err := g.updateWaitingConnections(a, a.PlayerIndex); err != nil {
		return err
	}
	g.resync()
	return nil
}

func (g *Game) handleTurn(a hanabi.Action) error {
	if err := g.State.ApplyTurn(a); err != nil {
		return err
	}
	for _, p := range g.perspectives() {
		for _, t := range p.Thoughts {
			t.NewlyClued = false
			t.Focused = false
		}
		p.refreshLinks(g.State)
	}
	if g.Convention != nil {
		g.Convention.UpdateTurn(g, a)
	}
	return nil
}

// revealIdentity commits a publicly revealed identity to every
// perspective. A card revealed as something a perspective had already
// ruled out is a contradiction: the rewind controller replays history
// with the identity asserted at the card's draw.
func (g *Game) revealIdentity(order int, id hanabi.Identity) (rewound bool, err error) {
	if !id.Valid() {
		return false, fmt.Errorf("reveal: order %d has no identity", order)
	}
	for _, p := range g.perspectives() {
		t := p.Thoughts[order]
		if t == nil {
			continue
		}
		if !t.Possible.Has(id) {
			g.log.WithFields(logrus.Fields{
				"order": order, "identity": id.String(), "viewer": p.Viewer.String(),
			}).Warn("revealed identity was ruled out, rewinding")
			return true, g.Rewind(t.DrawnIndex, hanabi.NewIdentify(order, id))
		}
		t.Possible = hanabi.SetOf(id)
		t.Inferred = hanabi.SetOf(id)
	}
	return false, nil
}

// resync intersects each seat's beliefs with common knowledge and
// refreshes links everywhere.
func (g *Game) resync() {
	for _, p := range g.Players {
		p.intersectCommon(g.Common)
	}
	for _, p := range g.perspectives() {
		p.refreshLinks(g.State)
	}
}

// applyCorrection applies a synthetic identify/ignore action. When
// record is true the correction is also remembered at the current log
// position so future replays reproduce it.
func (g *Game) applyCorrection(a hanabi.Action, record bool) error {
	index := len(g.ActionList) - 1
	if record {
		g.corrections[index] = append(g.corrections[index], a)
	}
	switch a.Type {
	case hanabi.ActionIgnore:
		g.ignored[ignoreKey{a.ActionIndex, a.Order}] = true
		return nil
	case hanabi.ActionIdentify:
		id := a.Identity()
		if !id.Valid() {
			return fmt.Errorf("identify: order %d given invalid identity", a.Order)
		}
		for a.Order >= len(g.State.Deck) {
			g.State.Deck = append(g.State.Deck, hanabi.NoIdentity)
		}
		g.State.Deck[a.Order] = id
		for _, p := range g.perspectives() {
			t := p.Thoughts[a.Order]
			if t == nil {
				continue
			}
			t.Possible = hanabi.SetOf(id)
			t.Inferred = hanabi.SetOf(id)
			if err := p.CardElim(g.State); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("not a correction action: %q", a.Type)
}

// Snapshot returns a deep copy for read-only consumers (endgame search).
// The copy shares nothing with the live game.
func (g *Game) Snapshot() *Game {
	c := &Game{
		State:          g.State.Copy(),
		OurPlayerIndex: g.OurPlayerIndex,
		Convention:     g.Convention,
		Level:          g.Level,
		ActionList:     append([]hanabi.Action(nil), g.ActionList...),
		corrections:    make(map[int][]hanabi.Action, len(g.corrections)),
		ignored:        make(map[ignoreKey]bool, len(g.ignored)),
		rewindDepth:    g.rewindDepth,
		log:            g.log,
	}
	for i, acts := range g.corrections {
		c.corrections[i] = append([]hanabi.Action(nil), acts...)
	}
	for k, v := range g.ignored {
		c.ignored[k] = v
	}
	for _, p := range g.Players {
		c.Players = append(c.Players, p.clone())
	}
	c.Common = g.Common.clone()
	return c
}
