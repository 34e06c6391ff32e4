package registry

import "testing"

func installOnly(t *testing.T, id, version string, provides ...string) *InstalledModule {
	t.Helper()
	m := newTestModule(t, id, version)
	for _, p := range provides {
		m.Provides[p] = struct{}{}
	}
	return NewInstalledModule(*m, nil, false)
}

func dependsOn(m *InstalledModule, on string) *InstalledModule {
	meta := m.metadata
	meta.Depends = append(meta.Depends, RelationshipDescriptor{Identifier: on})
	return NewInstalledModule(meta, m.files, m.autoInstalled)
}

// Reverse dependencies with virtuals: core provides iface, plug
// depends on iface. Removing core must also break plug.
func TestFindReverseDependenciesWithVirtuals(t *testing.T) {
	core := installOnly(t, "core", "1.0.0", "iface")
	plug := dependsOn(installOnly(t, "plug", "1.0.0"), "iface")

	installed := map[string]*InstalledModule{"core": core, "plug": plug}
	u := universe{installed: installed}

	closure := collectReverseDependencies(installed, u, map[string]struct{}{"core": {}})
	if _, ok := closure["core"]; !ok {
		t.Error("expected core itself in the closure")
	}
	if _, ok := closure["plug"]; !ok {
		t.Error("expected plug to break when core (its only iface provider) is removed")
	}
	if len(closure) != 2 {
		t.Errorf("len(closure) = %d, want 2 (exactly {core, plug})", len(closure))
	}
}

func TestFindReverseDependenciesTransitiveChain(t *testing.T) {
	a := installOnly(t, "a", "1.0.0")
	b := dependsOn(installOnly(t, "b", "1.0.0"), "a")
	c := dependsOn(installOnly(t, "c", "1.0.0"), "b")

	installed := map[string]*InstalledModule{"a": a, "b": b, "c": c}
	u := universe{installed: installed}

	closure := collectReverseDependencies(installed, u, map[string]struct{}{"a": {}})
	for _, want := range []string{"a", "b", "c"} {
		if _, ok := closure[want]; !ok {
			t.Errorf("expected %s in the transitive closure of removing a", want)
		}
	}
}

func TestFindReverseDependenciesUnrelatedModuleUnaffected(t *testing.T) {
	a := installOnly(t, "a", "1.0.0")
	unrelated := installOnly(t, "unrelated", "1.0.0")

	installed := map[string]*InstalledModule{"a": a, "unrelated": unrelated}
	u := universe{installed: installed}

	closure := collectReverseDependencies(installed, u, map[string]struct{}{"a": {}})
	if _, ok := closure["unrelated"]; ok {
		t.Error("expected an unrelated module to not appear in the closure")
	}
}

func TestFindReverseDependenciesLazyStopsEarly(t *testing.T) {
	a := installOnly(t, "a", "1.0.0")
	b := dependsOn(installOnly(t, "b", "1.0.0"), "a")
	installed := map[string]*InstalledModule{"a": a, "b": b}
	u := universe{installed: installed}

	var seen []string
	for id := range findReverseDependencies(installed, u, map[string]struct{}{"a": {}}) {
		seen = append(seen, id)
		break // stop after the first element
	}
	if len(seen) != 1 {
		t.Fatalf("expected the iterator to honor an early break, got %v", seen)
	}
}

func TestFindReverseDependenciesIdempotent(t *testing.T) {
	a := installOnly(t, "a", "1.0.0")
	b := dependsOn(installOnly(t, "b", "1.0.0"), "a")
	installed := map[string]*InstalledModule{"a": a, "b": b}
	u := universe{installed: installed}

	first := collectReverseDependencies(installed, u, map[string]struct{}{"a": {}})
	second := collectReverseDependencies(installed, u, first)
	if len(first) != len(second) {
		t.Fatalf("F(F(R)) changed size: %d vs %d", len(first), len(second))
	}
	for id := range first {
		if _, ok := second[id]; !ok {
			t.Errorf("F(F(R)) missing %s present in F(R)", id)
		}
	}
}

func TestFindRemovableAutoInstalledOnlyImplicatesAuto(t *testing.T) {
	dep := newTestModule(t, "auto-dep", "1.0.0")
	autoDep := NewInstalledModule(*dep, nil, true)

	user := newTestModule(t, "user-mod", "1.0.0")
	user.Depends = []RelationshipDescriptor{{Identifier: "auto-dep"}}
	userMod := NewInstalledModule(*user, nil, false)

	standaloneAuto := newTestModule(t, "standalone-auto", "1.0.0")
	standalone := NewInstalledModule(*standaloneAuto, nil, true)

	installed := map[string]*InstalledModule{
		"auto-dep":        autoDep,
		"user-mod":        userMod,
		"standalone-auto": standalone,
	}
	u := universe{installed: installed}

	removable := findRemovableAutoInstalled(installed, u)
	got := map[string]bool{}
	for _, id := range removable {
		got[id] = true
	}
	if got["auto-dep"] {
		t.Error("expected auto-dep to not be removable: removing it breaks user-mod, which is not auto-installed")
	}
	if !got["standalone-auto"] {
		t.Error("expected standalone-auto to be removable: nothing depends on it")
	}
}
