package registry

import "testing"

func mustSemantic(t *testing.T, s string) ModuleVersion {
	t.Helper()
	v, err := NewSemanticVersion(s)
	if err != nil {
		t.Fatalf("NewSemanticVersion(%q) error = %v", s, err)
	}
	return v
}

func mustGame(t *testing.T, s string) GameVersion {
	t.Helper()
	v, err := NewGameVersion(s)
	if err != nil {
		t.Fatalf("NewGameVersion(%q) error = %v", s, err)
	}
	return v
}

func TestModuleVersionCompare(t *testing.T) {
	a := mustSemantic(t, "1.2.3")
	b := mustSemantic(t, "1.3.0")

	cmp, ok := a.Compare(b)
	if !ok || cmp >= 0 {
		t.Errorf("Compare(1.2.3, 1.3.0) = (%d, %v), want negative, true", cmp, ok)
	}
	if !a.Less(b) {
		t.Errorf("expected 1.2.3 < 1.3.0")
	}
}

func TestModuleVersionCompareCrossKind(t *testing.T) {
	sem := mustSemantic(t, "1.0.0")
	unmanaged := NewUnmanagedVersion("build-42")

	if _, ok := sem.Compare(unmanaged); ok {
		t.Error("Compare across kinds should report ok=false")
	}
}

func TestModuleVersionEqualsUnmanaged(t *testing.T) {
	a := NewUnmanagedVersion("v1")
	b := NewUnmanagedVersion("v1")
	c := NewUnmanagedVersion("v2")

	if !a.Equals(b) {
		t.Error("expected equal unmanaged versions to be equal")
	}
	if a.Equals(c) {
		t.Error("expected different unmanaged versions to be unequal")
	}
}

func TestModuleVersionKeyIgnoresMetadata(t *testing.T) {
	a := mustSemantic(t, "1.0.0+build1")
	b := mustSemantic(t, "1.0.0+build2")

	// Metadata is ignored by semver ordering/equality, but Key should
	// still be stable and identical for these (metadata carries no
	// precedence), so both collapse to one catalog entry.
	if a.Key() != b.Key() {
		t.Errorf("expected build metadata to be ignored in Key(): %q != %q", a.Key(), b.Key())
	}
}

func TestGameVersionAnyAbsorbs(t *testing.T) {
	any := AnyGameVersion()
	v := mustGame(t, "1.12.2")

	if _, ok := any.Compare(v); ok {
		t.Error("Compare involving Any should report ok=false")
	}
	if !any.satisfiesInterval(v, v) {
		t.Error("Any must satisfy every interval")
	}
}

func TestGameVersionIntervalIntersects(t *testing.T) {
	iv := GameVersionInterval{Min: mustGame(t, "1.12.0"), Max: mustGame(t, "1.16.5")}

	criteria := NewGameVersionCriteria(mustGame(t, "1.12.2"))
	if !iv.Intersects(criteria) {
		t.Error("expected 1.12.2 to intersect [1.12.0, 1.16.5]")
	}

	outside := NewGameVersionCriteria(mustGame(t, "1.20.0"))
	if iv.Intersects(outside) {
		t.Error("expected 1.20.0 not to intersect [1.12.0, 1.16.5]")
	}
}

func TestGameVersionIntervalEmptyCriteriaUnconstrained(t *testing.T) {
	iv := GameVersionInterval{Min: mustGame(t, "1.12.0"), Max: mustGame(t, "1.16.5")}
	if !iv.Intersects(nil) {
		t.Error("an empty criteria set should be treated as unconstrained")
	}
}

func TestGameVersionIntervalAnyBoundsUnrestricted(t *testing.T) {
	iv := GameVersionInterval{Min: AnyGameVersion(), Max: AnyGameVersion()}
	criteria := NewGameVersionCriteria(mustGame(t, "9.9.9"))
	if !iv.Intersects(criteria) {
		t.Error("Any/Any interval should be unrestricted")
	}
}

func TestGameVersionCriteriaEqual(t *testing.T) {
	c1 := NewGameVersionCriteria(mustGame(t, "1.12.2"), mustGame(t, "1.16.5"))
	c2 := NewGameVersionCriteria(mustGame(t, "1.16.5"), mustGame(t, "1.12.2"))
	c3 := NewGameVersionCriteria(mustGame(t, "1.12.2"))

	if !c1.Equal(c2) {
		t.Error("expected criteria with same members in different order to be equal")
	}
	if c1.Equal(c3) {
		t.Error("expected criteria with different membership to be unequal")
	}
}
