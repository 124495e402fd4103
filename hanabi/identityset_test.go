package hanabi

import "testing"

func TestIdentitySetBasics(t *testing.T) {
	r1 := Identity{Suit: 0, Rank: 1}
	g3 := Identity{Suit: 2, Rank: 3}
	p5 := Identity{Suit: 4, Rank: 5}

	s := SetOf(r1, g3)
	if !s.Has(r1) || !s.Has(g3) {
		t.Fatalf("SetOf missing members: %s", s)
	}
	if s.Has(p5) {
		t.Fatalf("set should not contain %s", p5)
	}
	if s.Count() != 2 {
		t.Fatalf("Count = %d, want 2", s.Count())
	}

	s2 := s.Add(p5)
	if s.Count() != 2 {
		t.Fatal("Add mutated the receiver")
	}
	if s2.Count() != 3 {
		t.Fatalf("after Add, Count = %d, want 3", s2.Count())
	}

	s3 := s2.Remove(g3)
	if s3.Has(g3) || s3.Count() != 2 {
		t.Fatalf("Remove failed: %s", s3)
	}
}

func TestIdentitySetAlgebra(t *testing.T) {
	r1 := Identity{Suit: 0, Rank: 1}
	r2 := Identity{Suit: 0, Rank: 2}
	y1 := Identity{Suit: 1, Rank: 1}

	a := SetOf(r1, r2)
	b := SetOf(r2, y1)

	if got := a.Intersect(b); got != SetOf(r2) {
		t.Errorf("Intersect = %s, want {r2}", got)
	}
	if got := a.Subtract(b); got != SetOf(r1) {
		t.Errorf("Subtract = %s, want {r1}", got)
	}
	if got := a.Union(b); got != SetOf(r1, r2, y1) {
		t.Errorf("Union = %s", got)
	}
}

func TestIdentitySetSingle(t *testing.T) {
	r4 := Identity{Suit: 0, Rank: 4}

	if _, ok := EmptySet.Single(); ok {
		t.Error("empty set reported a single member")
	}
	if id, ok := SetOf(r4).Single(); !ok || id != r4 {
		t.Errorf("Single = %s,%v, want r4,true", id, ok)
	}
	if _, ok := SetOf(r4, r4.NextRank()).Single(); ok {
		t.Error("two-member set reported a single member")
	}
}

func TestIdentitySetInvalidIdentity(t *testing.T) {
	s := SetOf(Identity{Suit: 0, Rank: 1})
	if s.Has(NoIdentity) {
		t.Error("Has(NoIdentity) = true")
	}
	if s.Add(NoIdentity) != s {
		t.Error("Add(NoIdentity) changed the set")
	}
	if s.Remove(NoIdentity) != s {
		t.Error("Remove(NoIdentity) changed the set")
	}
}

func TestIdentitiesRoundTrip(t *testing.T) {
	all := NoVariant().All()
	if all.Count() != 25 {
		t.Fatalf("All().Count() = %d, want 25", all.Count())
	}
	rebuilt := EmptySet
	for _, id := range all.Identities() {
		rebuilt = rebuilt.Add(id)
	}
	if rebuilt != all {
		t.Errorf("rebuilt = %s, want %s", rebuilt, all)
	}
}
