package registry

import (
	"sort"

	"gopkg.in/yaml.v3"
)

// defaultRepositoryName is the well-known repository every registry
// ships with until a user edits the list.
const defaultRepositoryName = "default"

// legacyDefaultRepositoryURL is the archive URL an older registry blob
// may have recorded for the default repository, before it moved.
const legacyDefaultRepositoryURL = "https://archive.example.org/repo/default.tar.gz"

// currentDefaultRepositoryURL is the URL EnsureDefaultRepository
// rewrites the legacy one to.
const currentDefaultRepositoryURL = "https://repo.example.org/default/repository.tar.gz"

// Repository names one of the sources a registry's available modules
// were loaded from, for round-tripping the list through a persisted
// blob and for reporting provenance to a caller.
type Repository struct {
	Name string `yaml:"name"`
	URL  string `yaml:"uri"`
}

func (r *Repository) clone() *Repository {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

// repositoryList manages a registry's known repositories, kept sorted
// lexicographically by name so persisted output and listing output are
// deterministic.
type repositoryList struct {
	byName map[string]*Repository
}

func newRepositoryList() *repositoryList {
	return &repositoryList{byName: make(map[string]*Repository)}
}

// Add inserts or replaces the repository named name.
func (l *repositoryList) add(name, url string) {
	l.byName[name] = &Repository{Name: name, URL: url}
}

// Remove deletes the repository named name, if present.
func (l *repositoryList) remove(name string) {
	delete(l.byName, name)
}

// List returns every repository sorted by name.
func (l *repositoryList) list() []*Repository {
	out := make([]*Repository, 0, len(l.byName))
	for _, r := range l.byName {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (l *repositoryList) clone() *repositoryList {
	out := newRepositoryList()
	for name, r := range l.byName {
		out.byName[name] = r.clone()
	}
	return out
}

// ensureDefault inserts the default repository at currentDefaultRepositoryURL
// if absent, and rewrites it in place if it is still pointing at the
// legacy URL a pre-migration blob may have recorded.
func (l *repositoryList) ensureDefault() {
	existing, ok := l.byName[defaultRepositoryName]
	if !ok {
		l.add(defaultRepositoryName, currentDefaultRepositoryURL)
		return
	}
	if existing.URL == legacyDefaultRepositoryURL {
		existing.URL = currentDefaultRepositoryURL
	}
}

// repositoryListDoc is the yaml document shape repositories round-trip
// through, one list entry per repository.
type repositoryListDoc struct {
	Repositories []Repository `yaml:"repositories"`
}

func (l *repositoryList) marshalYAML() ([]byte, error) {
	doc := repositoryListDoc{Repositories: make([]Repository, 0, len(l.byName))}
	for _, r := range l.list() {
		doc.Repositories = append(doc.Repositories, *r)
	}
	return yaml.Marshal(doc)
}

func (l *repositoryList) unmarshalYAML(data []byte) error {
	var doc repositoryListDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	l.byName = make(map[string]*Repository, len(doc.Repositories))
	for i := range doc.Repositories {
		r := doc.Repositories[i]
		l.byName[r.Name] = &r
	}
	return nil
}
