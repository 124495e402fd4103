package hanabi

// Suit describes one suit of the active variant.
type Suit struct {
	Name      string
	Abbrev    string
	OneOfEach bool // variants with a single copy of every rank in this suit
}

// Variant fixes the suit composition of the deck and therefore the
// universe of identities every IdentitySet ranges over.
type Variant struct {
	Name  string
	Suits []Suit
}

// NoVariant returns the standard five-suit game.
func NoVariant() *Variant {
	return &Variant{
		Name: "No Variant",
		Suits: []Suit{
			{Name: "Red", Abbrev: "r"},
			{Name: "Yellow", Abbrev: "y"},
			{Name: "Green", Abbrev: "g"},
			{Name: "Blue", Abbrev: "b"},
			{Name: "Purple", Abbrev: "p"},
		},
	}
}

// NumSuits returns the number of suits in the variant.
func (v *Variant) NumSuits() int { return len(v.Suits) }

// DeckSize returns the total number of cards in the deck.
func (v *Variant) DeckSize() int {
	n := 0
	for s := int8(0); s < int8(len(v.Suits)); s++ {
		for r := int8(1); r <= MaxRank; r++ {
			n += v.TotalCount(Identity{Suit: s, Rank: r})
		}
	}
	return n
}

// TotalCount returns how many copies of id the deck contains:
// three 1s, two each of 2-4, one 5, or one of each for one-of-each suits.
func (v *Variant) TotalCount(id Identity) int {
	if !id.Valid() || int(id.Suit) >= len(v.Suits) {
		return 0
	}
	if v.Suits[id.Suit].OneOfEach {
		return 1
	}
	switch id.Rank {
	case 1:
		return 3
	case 5:
		return 1
	default:
		return 2
	}
}

// All returns the set of every identity in the variant.
func (v *Variant) All() IdentitySet {
	var s IdentitySet
	for suit := int8(0); suit < int8(len(v.Suits)); suit++ {
		for rank := int8(1); rank <= MaxRank; rank++ {
			s = s.Add(Identity{Suit: suit, Rank: rank})
		}
	}
	return s
}

// TouchedBy reports whether a clue would reveal id as matching.
func (v *Variant) TouchedBy(c Clue, id Identity) bool {
	switch c.Kind {
	case ClueColour:
		return int(id.Suit) == c.Value
	case ClueRank:
		return int(id.Rank) == c.Value
	}
	return false
}

// CluedSet returns every identity touched by the clue.
func (v *Variant) CluedSet(c Clue) IdentitySet {
	var s IdentitySet
	for _, id := range v.All().Identities() {
		if v.TouchedBy(c, id) {
			s = s.Add(id)
		}
	}
	return s
}

// HandSize returns the number of cards dealt to each player.
func HandSize(numPlayers int) int {
	switch {
	case numPlayers <= 3:
		return 5
	case numPlayers <= 5:
		return 4
	default:
		return 3
	}
}
