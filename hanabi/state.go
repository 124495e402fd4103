package hanabi

import "fmt"

// MaxClueTokens is the clue token ceiling.
const MaxClueTokens int8 = 8

// MaxStrikes ends the game when reached.
const MaxStrikes int8 = 3

// State is the public, fully-shared game state: everything every player
// (and the common perspective) agrees on. Per-card beliefs live in the
// belief package; State only records physical facts.
type State struct {
	Variant    *Variant
	NumPlayers int

	// Hands holds card orders per seat, index 0 = newest draw.
	Hands [][]int

	// Deck maps order -> identity as known to the observing client.
	// Our own undrawn identities stay NoIdentity until revealed.
	Deck []Identity

	PlayStacks    []int8 // top rank per suit, 0 = empty
	MaxRanks      []int8 // highest still-reachable rank per suit
	DiscardCounts []int8 // per identity index

	ClueTokens    int8
	Strikes       int8
	Turn          int
	CurrentPlayer int
	CardsLeft     int
}

// NewState builds the initial state for a fresh game.
func NewState(variant *Variant, numPlayers int) *State {
	s := &State{
		Variant:       variant,
		NumPlayers:    numPlayers,
		Hands:         make([][]int, numPlayers),
		PlayStacks:    make([]int8, variant.NumSuits()),
		MaxRanks:      make([]int8, variant.NumSuits()),
		DiscardCounts: make([]int8, variant.NumSuits()*int(MaxRank)),
		ClueTokens:    MaxClueTokens,
		CardsLeft:     variant.DeckSize(),
	}
	for i := range s.MaxRanks {
		s.MaxRanks[i] = MaxRank
	}
	for i := range s.Hands {
		s.Hands[i] = []int{}
	}
	return s
}

// ApplyDraw adds the drawn card to the front of the player's hand.
func (s *State) ApplyDraw(a Action) error {
	if a.PlayerIndex < 0 || a.PlayerIndex >= s.NumPlayers {
		return fmt.Errorf("draw: invalid player %d", a.PlayerIndex)
	}
	for a.Order >= len(s.Deck) {
		s.Deck = append(s.Deck, NoIdentity)
	}
	s.Deck[a.Order] = a.Identity()
	s.Hands[a.PlayerIndex] = append([]int{a.Order}, s.Hands[a.PlayerIndex]...)
	s.CardsLeft--
	return nil
}

// ApplyClue spends one clue token.
func (s *State) ApplyClue(a Action) error {
	if s.ClueTokens <= 0 {
		return fmt.Errorf("clue: no clue tokens left")
	}
	if a.Giver == a.Target {
		return fmt.Errorf("clue: player %d cannot clue themselves", a.Giver)
	}
	if len(a.List) == 0 {
		return fmt.Errorf("clue: empty clues are not allowed")
	}
	s.ClueTokens--
	return nil
}

// ApplyPlay moves a card from hand to its play stack. Playing a 5
// restores a clue token.
func (s *State) ApplyPlay(a Action) error {
	id := a.Identity()
	if !id.Valid() {
		return fmt.Errorf("play: order %d has no identity", a.Order)
	}
	if s.PlayStacks[id.Suit]+1 != id.Rank {
		return fmt.Errorf("play: %s is not playable on stack %d", id, s.PlayStacks[id.Suit])
	}
	if err := s.removeFromHand(a.PlayerIndex, a.Order); err != nil {
		return err
	}
	s.Deck[a.Order] = id
	s.PlayStacks[id.Suit] = id.Rank
	if id.Rank == MaxRank && s.ClueTokens < MaxClueTokens {
		s.ClueTokens++
	}
	return nil
}

// ApplyDiscard moves a card from hand to the discard pile. A failed
// discard is a misplay: it costs a strike and grants no token. Losing
// the final copy of an identity caps the suit's reachable rank.
func (s *State) ApplyDiscard(a Action) error {
	id := a.Identity()
	if !id.Valid() {
		return fmt.Errorf("discard: order %d has no identity", a.Order)
	}
	if err := s.removeFromHand(a.PlayerIndex, a.Order); err != nil {
		return err
	}
	s.Deck[a.Order] = id
	s.DiscardCounts[id.Index()]++
	if a.Failed {
		s.Strikes++
	} else if s.ClueTokens < MaxClueTokens {
		s.ClueTokens++
	}
	if int(s.DiscardCounts[id.Index()]) == s.Variant.TotalCount(id) &&
		s.PlayStacks[id.Suit] < id.Rank && s.MaxRanks[id.Suit] >= id.Rank {
		s.MaxRanks[id.Suit] = id.Rank - 1
	}
	return nil
}

// ApplyTurn records the turn marker.
func (s *State) ApplyTurn(a Action) error {
	s.Turn = a.Num
	s.CurrentPlayer = a.CurrentPlayerIndex
	return nil
}

func (s *State) removeFromHand(playerIndex, order int) error {
	if playerIndex < 0 || playerIndex >= s.NumPlayers {
		return fmt.Errorf("invalid player %d", playerIndex)
	}
	hand := s.Hands[playerIndex]
	for i, o := range hand {
		if o == order {
			s.Hands[playerIndex] = append(hand[:i:i], hand[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("order %d not in player %d's hand", order, playerIndex)
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// TotalCount returns the deck's copy count for id.
func (s *State) TotalCount(id Identity) int { return s.Variant.TotalCount(id) }

// BaseCount returns the publicly-accounted copies of id: discarded copies
// plus one if id currently tops its play stack.
func (s *State) BaseCount(id Identity) int {
	if !id.Valid() {
		return 0
	}
	n := int(s.DiscardCounts[id.Index()])
	if s.PlayStacks[id.Suit] >= id.Rank {
		n++
	}
	return n
}

// PlayableRank returns the rank the suit needs next.
func (s *State) PlayableRank(suit int8) int8 { return s.PlayStacks[suit] + 1 }

// IsPlayable reports whether id can be played right now.
func (s *State) IsPlayable(id Identity) bool {
	return id.Valid() && s.PlayStacks[id.Suit]+1 == id.Rank
}

// IsBasicTrash reports whether id can never score: already played, or
// above the suit's reachable rank.
func (s *State) IsBasicTrash(id Identity) bool {
	if !id.Valid() {
		return false
	}
	return s.PlayStacks[id.Suit] >= id.Rank || s.MaxRanks[id.Suit] < id.Rank
}

// IsCritical reports whether the last remaining copy of a still-useful id
// is at stake.
func (s *State) IsCritical(id Identity) bool {
	if !id.Valid() || s.IsBasicTrash(id) {
		return false
	}
	return int(s.DiscardCounts[id.Index()]) == s.Variant.TotalCount(id)-1
}

// NextPlayer returns the seat after playerIndex in turn order.
func (s *State) NextPlayer(playerIndex int) int {
	return (playerIndex + 1) % s.NumPlayers
}

// Score returns the current total of all play stacks.
func (s *State) Score() int {
	n := 0
	for _, r := range s.PlayStacks {
		n += int(r)
	}
	return n
}

// Copy returns a deep copy for read-only consumers (snapshots, search).
func (s *State) Copy() *State {
	c := *s
	c.Hands = make([][]int, len(s.Hands))
	for i, h := range s.Hands {
		c.Hands[i] = append([]int(nil), h...)
	}
	c.Deck = append([]Identity(nil), s.Deck...)
	c.PlayStacks = append([]int8(nil), s.PlayStacks...)
	c.MaxRanks = append([]int8(nil), s.MaxRanks...)
	c.DiscardCounts = append([]int8(nil), s.DiscardCounts...)
	return &c
}
