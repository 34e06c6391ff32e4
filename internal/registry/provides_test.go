package registry

import "testing"

func TestProvidesIndexReindexAndCandidates(t *testing.T) {
	am := NewAvailableModule("a")
	m := newTestModule(t, "a", "1.0.0")
	m.Provides["virtual-lib"] = struct{}{}
	am.Add(m)

	idx := NewProvidesIndex()
	idx.Reindex(am)

	candidates := idx.Candidates("virtual-lib")
	if len(candidates) != 1 || candidates[0].Identifier != "a" {
		t.Errorf("Candidates(virtual-lib) = %v, want [a]", candidates)
	}

	if idx.Candidates("nothing") != nil {
		t.Error("expected no candidates for an unindexed virtual name")
	}
}

func TestProvidesIndexToleratesStaleEntries(t *testing.T) {
	am := NewAvailableModule("a")
	m := newTestModule(t, "a", "1.0.0")
	m.Provides["virtual-lib"] = struct{}{}
	am.Add(m)

	idx := NewProvidesIndex()
	idx.Reindex(am)

	// Remove the providing version from the catalog without touching
	// the index — Candidates must still report it (staleness is
	// tolerated; callers re-verify).
	am.Remove(m.Version)

	candidates := idx.Candidates("virtual-lib")
	if len(candidates) != 1 {
		t.Fatalf("expected the stale entry to remain indexed, got %d candidates", len(candidates))
	}
	if candidates[0].Latest(nil, nil, nil, nil) != nil {
		t.Error("expected the stale AvailableModule to now have no versions at all")
	}
}

func TestProvidesIndexRebuild(t *testing.T) {
	am1 := NewAvailableModule("a")
	m1 := newTestModule(t, "a", "1.0.0")
	m1.Provides["x"] = struct{}{}
	am1.Add(m1)

	am2 := NewAvailableModule("b")
	m2 := newTestModule(t, "b", "1.0.0")
	m2.Provides["y"] = struct{}{}
	am2.Add(m2)

	idx := NewProvidesIndex()
	idx.Rebuild(map[string]*AvailableModule{"a": am1, "b": am2})

	if len(idx.Candidates("x")) != 1 {
		t.Error("expected x to be indexed after Rebuild")
	}
	if len(idx.Candidates("y")) != 1 {
		t.Error("expected y to be indexed after Rebuild")
	}
}
