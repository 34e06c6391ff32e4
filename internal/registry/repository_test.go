package registry

import "testing"

func TestRegistryListRepositoriesSortedAndIncludesDefault(t *testing.T) {
	r := NewRegistry()
	if err := r.AddRepository("zzz-repo", "https://zzz.example.org"); err != nil {
		t.Fatal(err)
	}
	if err := r.AddRepository("aaa-repo", "https://aaa.example.org"); err != nil {
		t.Fatal(err)
	}

	repos := r.Repositories()
	if len(repos) != 3 {
		t.Fatalf("len(Repositories()) = %d, want 3 (aaa-repo, default, zzz-repo)", len(repos))
	}
	var names []string
	for _, repo := range repos {
		names = append(names, repo.Name)
	}
	want := []string{"aaa-repo", "default", "zzz-repo"}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("Repositories()[%d] = %s, want %s (got order %v)", i, names[i], name, names)
		}
	}
}

func TestRegistryRemoveRepository(t *testing.T) {
	r := NewRegistry()
	if err := r.AddRepository("extra", "https://extra.example.org"); err != nil {
		t.Fatal(err)
	}
	if err := r.RemoveRepository("extra"); err != nil {
		t.Fatal(err)
	}
	for _, repo := range r.Repositories() {
		if repo.Name == "extra" {
			t.Error("expected extra to be removed")
		}
	}
}

func TestEnsureDefaultRepositoryRewritesLegacyURL(t *testing.T) {
	r := NewRegistry()
	if err := r.AddRepository(defaultRepositoryName, legacyDefaultRepositoryURL); err != nil {
		t.Fatal(err)
	}
	if err := r.EnsureDefaultRepository(); err != nil {
		t.Fatal(err)
	}

	var found *Repository
	for _, repo := range r.Repositories() {
		if repo.Name == defaultRepositoryName {
			found = repo
		}
	}
	if found == nil {
		t.Fatal("expected a default repository to exist")
	}
	if found.URL != currentDefaultRepositoryURL {
		t.Errorf("default repository URL = %q, want %q", found.URL, currentDefaultRepositoryURL)
	}
}

func TestRepositoriesYAMLRoundTrip(t *testing.T) {
	r := NewRegistry()
	if err := r.AddRepository("extra", "https://extra.example.org"); err != nil {
		t.Fatal(err)
	}

	doc, err := r.ExportRepositoriesYAML()
	if err != nil {
		t.Fatal(err)
	}

	other := NewRegistry()
	if err := other.ImportRepositoriesYAML(doc); err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, repo := range other.Repositories() {
		names = append(names, repo.Name)
	}
	want := []string{"default", "extra"}
	if len(names) != len(want) {
		t.Fatalf("Repositories() after import = %v, want %v", names, want)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("Repositories()[%d] = %s, want %s (got %v)", i, names[i], name, names)
		}
	}
}

func TestImportRepositoriesYAMLReinstatesDefaultIfOmitted(t *testing.T) {
	r := NewRegistry()
	doc := []byte("repositories:\n  - name: only\n    uri: https://only.example.org\n")
	if err := r.ImportRepositoriesYAML(doc); err != nil {
		t.Fatal(err)
	}
	var sawDefault bool
	for _, repo := range r.Repositories() {
		if repo.Name == defaultRepositoryName {
			sawDefault = true
		}
	}
	if !sawDefault {
		t.Error("expected ImportRepositoriesYAML to reinstate the default repository when omitted")
	}
}

func TestEnsureDefaultRepositoryIsIdempotent(t *testing.T) {
	r := NewRegistry()
	if err := r.EnsureDefaultRepository(); err != nil {
		t.Fatal(err)
	}
	before := r.Repositories()
	if err := r.EnsureDefaultRepository(); err != nil {
		t.Fatal(err)
	}
	after := r.Repositories()
	if len(before) != len(after) {
		t.Errorf("EnsureDefaultRepository changed repository count: %d vs %d", len(before), len(after))
	}
}
