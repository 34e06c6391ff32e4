package registry

// DownloadHash holds the indexed, not verified, content hashes of a
// module's download archive.
type DownloadHash struct {
	SHA1   string
	SHA256 string
}

// RelationshipDescriptor is a version constraint attached to a
// depends/conflicts/recommends/suggests clause.
type RelationshipDescriptor struct {
	// Identifier is the identifier this relationship refers to.
	Identifier string
	// MinVersion, MaxVersion, ExactVersion bound the acceptable versions.
	// Only one of ExactVersion or {MinVersion, MaxVersion} is normally
	// set; if ExactVersion is set, MinVersion and MaxVersion are ignored.
	MinVersion   *ModuleVersion
	MaxVersion   *ModuleVersion
	ExactVersion *ModuleVersion
	// AnyOf lists alternative identifiers that also satisfy this
	// relationship (a candidate may provide any one of them).
	AnyOf []string
}

// satisfiedByVersion reports whether a candidate's version satisfies the
// descriptor's bounds:
//
//	if exact is set: c.version == exact
//	otherwise (min absent or c.version >= min) and (max absent or c.version <= max)
//
// Unmanaged versions satisfy only an exact constraint of themselves.
func (r *RelationshipDescriptor) satisfiedByVersion(v ModuleVersion) bool {
	if r.ExactVersion != nil {
		return v.Equals(*r.ExactVersion)
	}

	if v.Kind != KindSemantic {
		// Unmanaged/Provides versions only satisfy an exact match, which
		// was handled above; a min/max range is meaningless for them.
		return r.MinVersion == nil && r.MaxVersion == nil
	}

	if r.MinVersion != nil {
		if cmp, ok := v.Compare(*r.MinVersion); ok && cmp < 0 {
			return false
		}
	}
	if r.MaxVersion != nil {
		if cmp, ok := v.Compare(*r.MaxVersion); ok && cmp > 0 {
			return false
		}
	}
	return true
}

// SatisfiedBy reports whether a candidate CkanModule satisfies this
// relationship: either its identifier matches (and its version is in
// range), or it is one of AnyOf and its version is in range.
func (r *RelationshipDescriptor) SatisfiedBy(m *CkanModule) bool {
	if m == nil {
		return false
	}
	if m.Identifier == r.Identifier {
		return r.satisfiedByVersion(m.Version)
	}
	for _, alt := range r.AnyOf {
		if m.Identifier == alt {
			return r.satisfiedByVersion(m.Version)
		}
	}
	return false
}

// CkanModule is the immutable metadata record for a single version of a
// module, as pushed into the registry by a repository.
type CkanModule struct {
	Identifier string
	Version    ModuleVersion
	Provides   map[string]struct{}

	MinGame GameVersion
	MaxGame GameVersion

	Depends    []RelationshipDescriptor
	Conflicts  []RelationshipDescriptor
	Recommends []RelationshipDescriptor
	Suggests   []RelationshipDescriptor

	DownloadURL  string
	DownloadHash *DownloadHash
}

// GameInterval returns the module's declared [min_game, max_game]
// compatibility interval.
func (m *CkanModule) GameInterval() GameVersionInterval {
	return GameVersionInterval{Min: m.MinGame, Max: m.MaxGame}
}

// ProvidesID reports whether the module declares v among its provides.
func (m *CkanModule) ProvidesID(v string) bool {
	_, ok := m.Provides[v]
	return ok
}

// ConflictsWith reports whether m declares a conflict matched by
// candidate, or candidate declares one matched by m — conflicts are
// checked symmetrically since either side may name the other.
func (m *CkanModule) ConflictsWith(candidate *CkanModule) bool {
	for i := range m.Conflicts {
		if m.Conflicts[i].SatisfiedBy(candidate) {
			return true
		}
	}
	for i := range candidate.Conflicts {
		if candidate.Conflicts[i].SatisfiedBy(m) {
			return true
		}
	}
	return false
}
