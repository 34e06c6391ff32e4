package registry

// ProvidesIndex is the inverted index from virtual-package name to the
// set of AvailableModules that provide it.
//
// It is maintained incrementally: Reindex walks an AvailableModule's
// versions and inserts it into every set it provides. Entries are
// tolerated stale — Remove on the AvailableModule does not prune this
// index; consumers like
// latest_with_provides re-verify membership by re-checking the chosen
// version's Provides set.
type ProvidesIndex struct {
	byVirtual map[string]map[string]*AvailableModule
}

// NewProvidesIndex returns an empty index.
func NewProvidesIndex() *ProvidesIndex {
	return &ProvidesIndex{byVirtual: make(map[string]map[string]*AvailableModule)}
}

// Reindex inserts am into the set for every virtual name any of its
// versions provides.
func (p *ProvidesIndex) Reindex(am *AvailableModule) {
	for _, m := range am.All() {
		for virtual := range m.Provides {
			p.insert(virtual, am)
		}
	}
}

func (p *ProvidesIndex) insert(virtual string, am *AvailableModule) {
	set, ok := p.byVirtual[virtual]
	if !ok {
		set = make(map[string]*AvailableModule)
		p.byVirtual[virtual] = set
	}
	set[am.Identifier] = am
}

// Rebuild discards the index and reindexes every AvailableModule in
// modules, keyed by identifier. Used by set_all_available and after
// deserialization.
func (p *ProvidesIndex) Rebuild(modules map[string]*AvailableModule) {
	p.byVirtual = make(map[string]map[string]*AvailableModule)
	for _, am := range modules {
		p.Reindex(am)
	}
}

// Candidates returns the AvailableModules indexed under virtual,
// without re-verifying that any version still actually provides it —
// callers must do that themselves (see Registry.LatestAvailableWithProvides).
func (p *ProvidesIndex) Candidates(virtual string) []*AvailableModule {
	set := p.byVirtual[virtual]
	if len(set) == 0 {
		return nil
	}
	out := make([]*AvailableModule, 0, len(set))
	for _, am := range set {
		out = append(out, am)
	}
	return out
}

// clone returns a deep-enough copy for transaction snapshotting: the
// per-virtual sets are independent maps, but the AvailableModule
// pointers they hold are shared with the live registry. That's safe
// because AvailableModule is never mutated in place (see
// Registry.AddAvailable/RemoveAvailable, which clone-then-replace), so
// a pointer captured here stays valid even after the live map moves on
// to a different one under the same identifier.
func (p *ProvidesIndex) clone() *ProvidesIndex {
	out := NewProvidesIndex()
	for virtual, set := range p.byVirtual {
		copied := make(map[string]*AvailableModule, len(set))
		for id, am := range set {
			copied[id] = am
		}
		out.byVirtual[virtual] = copied
	}
	return out
}
