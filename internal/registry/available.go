package registry

import "sort"

// AvailableModule is the per-identifier bag of all known versions of a
// module. Every value is expected to share the same identifier; Add
// does not check this, and the registry keeps it by filing each module
// under its own identifier.
type AvailableModule struct {
	Identifier string

	byKey map[string]*CkanModule
	seq   map[string]int
	next  int
}

// NewAvailableModule constructs an empty bag for identifier.
func NewAvailableModule(identifier string) *AvailableModule {
	return &AvailableModule{
		Identifier: identifier,
		byKey:      make(map[string]*CkanModule),
		seq:        make(map[string]int),
	}
}

// Add inserts m keyed by m.Version, overwriting silently — newer
// metadata wins. Insertion order is tracked per key so
// that Latest's tie-break ("keep the last-added") is test-observable
// even when an overwrite replaces the metadata at an existing version.
func (am *AvailableModule) Add(m *CkanModule) {
	key := m.Version.Key()
	am.byKey[key] = m
	am.seq[key] = am.next
	am.next++
}

// Remove erases the entry at version v; a no-op if absent.
func (am *AvailableModule) Remove(v ModuleVersion) {
	key := v.Key()
	delete(am.byKey, key)
	delete(am.seq, key)
}

// Len returns the number of distinct versions held.
func (am *AvailableModule) Len() int {
	return len(am.byKey)
}

// All returns every version, newest first. Ties (versions that compare
// equal, or non-Semantic versions with no defined order) are broken by
// insertion recency, most recently added first.
func (am *AvailableModule) All() []*CkanModule {
	keys := make([]string, 0, len(am.byKey))
	for k := range am.byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		mi, mj := am.byKey[keys[i]], am.byKey[keys[j]]
		if cmp, ok := mi.Version.Compare(mj.Version); ok && cmp != 0 {
			return cmp > 0
		}
		return am.seq[keys[i]] > am.seq[keys[j]]
	})
	out := make([]*CkanModule, 0, len(keys))
	for _, k := range keys {
		out = append(out, am.byKey[k])
	}
	return out
}

// Latest selects the highest-version entry whose game-version interval
// intersects criteria (if non-nil), satisfies constraint (if non-nil),
// and does not conflict with anything in alreadyInstalled or
// alsoInstalling. Returns nil if nothing qualifies.
func (am *AvailableModule) Latest(
	criteria GameVersionCriteria,
	constraint *RelationshipDescriptor,
	alreadyInstalled []*CkanModule,
	alsoInstalling []*CkanModule,
) *CkanModule {
	for _, m := range am.All() {
		if criteria != nil && !m.GameInterval().Intersects(criteria) {
			continue
		}
		if constraint != nil && !constraint.satisfiedByVersion(m.Version) {
			continue
		}
		if conflictsWithAny(m, alreadyInstalled) || conflictsWithAny(m, alsoInstalling) {
			continue
		}
		return m
	}
	return nil
}

func conflictsWithAny(m *CkanModule, others []*CkanModule) bool {
	for _, other := range others {
		if other == nil || other.Identifier == m.Identifier {
			continue
		}
		if m.ConflictsWith(other) {
			return true
		}
	}
	return false
}

// clone returns an independent copy of am: a mutation performed on the
// clone (Add/Remove) never touches am's own entries. Used by the
// registry so that AddAvailable/RemoveAvailable never mutate an
// AvailableModule a transaction snapshot still references.
func (am *AvailableModule) clone() *AvailableModule {
	out := NewAvailableModule(am.Identifier)
	for k, v := range am.byKey {
		out.byKey[k] = v
	}
	for k, v := range am.seq {
		out.seq[k] = v
	}
	out.next = am.next
	return out
}

// LatestCompatibleGameVersion returns the maximum of MaxGame across all
// versions, with Any absorbing any concrete value.
func (am *AvailableModule) LatestCompatibleGameVersion() GameVersion {
	max := GameVersion{}
	first := true
	for _, m := range am.byKey {
		if m.MaxGame.IsAny() {
			return AnyGameVersion()
		}
		if first {
			max = m.MaxGame
			first = false
			continue
		}
		if cmp, ok := m.MaxGame.Compare(max); ok && cmp > 0 {
			max = m.MaxGame
		}
	}
	return max
}
