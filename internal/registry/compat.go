package registry

// compatibilitySorter partitions AvailableModules into compatible and
// incompatible sets under a given GameVersionCriteria, memoized by
// criteria: replacement is all-or-nothing, there is no partial update.
type compatibilitySorter struct {
	criteria GameVersionCriteria
	compat   map[string]*AvailableModule
	incompat map[string]*AvailableModule
}

// ensure returns a sorter valid for criteria, rebuilding it from modules
// if the cached one (if any) was built for different criteria.
func (s *compatibilitySorter) ensureFor(criteria GameVersionCriteria, modules map[string]*AvailableModule) *compatibilitySorter {
	if s != nil && s.criteria.Equal(criteria) {
		return s
	}
	compat := make(map[string]*AvailableModule)
	incompat := make(map[string]*AvailableModule)
	for id, am := range modules {
		if am.Latest(criteria, nil, nil, nil) != nil {
			compat[id] = am
		} else {
			incompat[id] = am
		}
	}
	return &compatibilitySorter{criteria: criteria, compat: compat, incompat: incompat}
}

// compatibleLatests returns the latest CkanModule for each compatible
// AvailableModule.
func (s *compatibilitySorter) compatibleLatests() map[string]*CkanModule {
	out := make(map[string]*CkanModule, len(s.compat))
	for id, am := range s.compat {
		out[id] = am.Latest(s.criteria, nil, nil, nil)
	}
	return out
}

// incompatibleLatests returns the newest CkanModule on record for each
// incompatible AvailableModule (there is no criteria-satisfying version
// to prefer, so the newest overall is reported).
func (s *compatibilitySorter) incompatibleLatests() map[string]*CkanModule {
	out := make(map[string]*CkanModule, len(s.incompat))
	for id, am := range s.incompat {
		all := am.All()
		if len(all) > 0 {
			out[id] = all[0]
		}
	}
	return out
}
