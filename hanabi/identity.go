// Package hanabi implements the Hanabi game model: identities, variants,
// actions, and the public game state shared by every perspective.
package hanabi

import "fmt"

// MaxRank is the highest card rank in every variant.
const MaxRank int8 = 5

// Identity is a concrete (suit, rank) card identity. Rank runs 1-5;
// Suit indexes into the active variant's suit list.
type Identity struct {
	Suit int8 `json:"suitIndex"`
	Rank int8 `json:"rank"`
}

// NoIdentity marks a card whose identity is not visible (e.g. our own draws).
var NoIdentity = Identity{Suit: -1, Rank: -1}

// Valid reports whether the identity carries a concrete suit and rank.
func (id Identity) Valid() bool {
	return id.Suit >= 0 && id.Rank >= 1 && id.Rank <= MaxRank
}

// Index returns the dense index of this identity (suit-major, rank-minor).
// Only valid identities have an index.
func (id Identity) Index() int {
	return int(id.Suit)*int(MaxRank) + int(id.Rank) - 1
}

// IdentityFromIndex is the inverse of Index.
func IdentityFromIndex(i int) Identity {
	return Identity{Suit: int8(i / int(MaxRank)), Rank: int8(i%int(MaxRank)) + 1}
}

// NextRank returns the identity one rank above this one.
func (id Identity) NextRank() Identity {
	return Identity{Suit: id.Suit, Rank: id.Rank + 1}
}

// defaultAbbrevs covers the no-variant suit order; suits beyond it fall
// back to a numeric form.
var defaultAbbrevs = []string{"r", "y", "g", "b", "p", "t"}

func (id Identity) String() string {
	if !id.Valid() {
		return "xx"
	}
	if int(id.Suit) < len(defaultAbbrevs) {
		return fmt.Sprintf("%s%d", defaultAbbrevs[id.Suit], id.Rank)
	}
	return fmt.Sprintf("s%d-%d", id.Suit, id.Rank)
}
