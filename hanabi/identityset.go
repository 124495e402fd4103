package hanabi

import (
	"math/bits"
	"strings"
)

// IdentitySet is a set of candidate identities packed into a uint64 bitmask
// (at most 6 suits x 5 ranks = 30 bits). It is a plain value type: every
// operation returns a new set, so two belief records never alias the same
// storage.
type IdentitySet uint64

// EmptySet is the set containing no identities.
const EmptySet IdentitySet = 0

// SetOf builds a set from the given identities.
func SetOf(ids ...Identity) IdentitySet {
	var s IdentitySet
	for _, id := range ids {
		s = s.Add(id)
	}
	return s
}

// Has reports whether id is a member.
func (s IdentitySet) Has(id Identity) bool {
	if !id.Valid() {
		return false
	}
	return s&(1<<uint(id.Index())) != 0
}

// Add returns the set with id included.
func (s IdentitySet) Add(id Identity) IdentitySet {
	if !id.Valid() {
		return s
	}
	return s | 1<<uint(id.Index())
}

// Remove returns the set with id excluded.
func (s IdentitySet) Remove(id Identity) IdentitySet {
	if !id.Valid() {
		return s
	}
	return s &^ (1 << uint(id.Index()))
}

// Intersect returns the identities present in both sets.
func (s IdentitySet) Intersect(o IdentitySet) IdentitySet { return s & o }

// Subtract returns the identities in s but not in o.
func (s IdentitySet) Subtract(o IdentitySet) IdentitySet { return s &^ o }

// Union returns the identities present in either set.
func (s IdentitySet) Union(o IdentitySet) IdentitySet { return s | o }

// Count returns the number of identities in the set.
func (s IdentitySet) Count() int { return bits.OnesCount64(uint64(s)) }

// Empty reports whether the set has no members.
func (s IdentitySet) Empty() bool { return s == 0 }

// Single returns the sole member when the set has exactly one.
func (s IdentitySet) Single() (Identity, bool) {
	if s.Count() != 1 {
		return NoIdentity, false
	}
	return IdentityFromIndex(bits.TrailingZeros64(uint64(s))), true
}

// First returns the lowest-indexed member, or NoIdentity if empty.
func (s IdentitySet) First() Identity {
	if s == 0 {
		return NoIdentity
	}
	return IdentityFromIndex(bits.TrailingZeros64(uint64(s)))
}

// Identities returns the members in index order.
func (s IdentitySet) Identities() []Identity {
	out := make([]Identity, 0, s.Count())
	for rest := uint64(s); rest != 0; rest &= rest - 1 {
		out = append(out, IdentityFromIndex(bits.TrailingZeros64(rest)))
	}
	return out
}

func (s IdentitySet) String() string {
	ids := s.Identities()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}
