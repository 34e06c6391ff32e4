package registry

import "testing"

func TestRegistryCheckSanityDetectsUnsatisfiedDepends(t *testing.T) {
	r := NewRegistry()
	m := newTestModule(t, "needs-x", "1.0.0")
	m.Depends = []RelationshipDescriptor{{Identifier: "x"}}
	if err := r.RegisterInstall(*m, nil, false); err != nil {
		t.Fatal(err)
	}

	if r.CheckSanity() {
		t.Error("expected CheckSanity to report false when a depends is unsatisfied")
	}
	errs := r.GetSanityErrors()
	if len(errs) != 1 || errs[0].ModID != "needs-x" {
		t.Errorf("GetSanityErrors() = %v, want one error naming needs-x", errs)
	}
}

func TestRegistryCheckSanitySatisfiedByProvides(t *testing.T) {
	r := NewRegistry()
	provider := newTestModule(t, "provider", "1.0.0")
	provider.Provides["iface"] = struct{}{}
	dependent := newTestModule(t, "dependent", "1.0.0")
	dependent.Depends = []RelationshipDescriptor{{Identifier: "iface"}}

	if err := r.RegisterInstall(*provider, nil, false); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterInstall(*dependent, nil, false); err != nil {
		t.Fatal(err)
	}

	if !r.CheckSanity() {
		t.Errorf("expected sanity to pass: provider provides iface, got errors %v", r.GetSanityErrors())
	}
}

func TestRegistryCheckSanitySatisfiedByLooseBinaryAndDLC(t *testing.T) {
	r := NewRegistry()
	needsLoose := newTestModule(t, "needs-loose", "1.0.0")
	needsLoose.Depends = []RelationshipDescriptor{{Identifier: "SomeBinary"}}
	needsDLC := newTestModule(t, "needs-dlc", "1.0.0")
	needsDLC.Depends = []RelationshipDescriptor{{Identifier: "SomeDLC"}}

	if err := r.RegisterInstall(*needsLoose, nil, false); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterInstall(*needsDLC, nil, false); err != nil {
		t.Fatal(err)
	}
	if r.CheckSanity() {
		t.Fatal("expected sanity to fail before the loose binary/DLC are registered")
	}

	if err := r.RegisterDLL("", "SomeBinary", NewUnmanagedVersion("build-1")); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterDLC("SomeDLC", NewUnmanagedVersion("dlc-1")); err != nil {
		t.Fatal(err)
	}

	if !r.CheckSanity() {
		t.Errorf("expected sanity to pass once loose binary and DLC are registered, got errors %v", r.GetSanityErrors())
	}
}

func TestRegistryCheckSanitySatisfiedByAnyOf(t *testing.T) {
	r := NewRegistry()
	alt := newTestModule(t, "alternate-provider", "1.0.0")
	dependent := newTestModule(t, "dependent", "1.0.0")
	dependent.Depends = []RelationshipDescriptor{{Identifier: "primary", AnyOf: []string{"alternate-provider"}}}

	if err := r.RegisterInstall(*alt, nil, false); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterInstall(*dependent, nil, false); err != nil {
		t.Fatal(err)
	}

	if !r.CheckSanity() {
		t.Errorf("expected sanity to pass via AnyOf alternate, got errors %v", r.GetSanityErrors())
	}
}
