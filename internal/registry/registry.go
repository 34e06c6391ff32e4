package registry

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// Registry is the in-memory aggregate holding everything a solver or
// inventory tool needs to know about a game's modules: what's
// available from repositories, what's installed, what files each
// installed module owns, and what the user has auto-detected on disk
// (loose binaries and DLC). It answers queries and accepts mutations;
// it never touches the network or the filesystem itself.
type Registry struct {
	available map[string]*AvailableModule
	provides  *ProvidesIndex
	installed map[string]*InstalledModule
	ownership fileOwnership
	sorter    *compatibilitySorter

	repositories *repositoryList

	dlls           map[string]ModuleVersion // loose binaries, short-name -> version
	dlc            map[string]ModuleVersion // auto-detected DLC, identifier -> version
	downloadCounts map[string]int64

	currentTx *Transaction

	logger hclog.Logger
}

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithLogger overrides the registry's logger. The default discards all
// output.
func WithLogger(l hclog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry returns an empty registry with a default repository.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		available:      make(map[string]*AvailableModule),
		provides:       NewProvidesIndex(),
		installed:      make(map[string]*InstalledModule),
		ownership:      newFileOwnership(),
		repositories:   newRepositoryList(),
		dlls:           make(map[string]ModuleVersion),
		dlc:            make(map[string]ModuleVersion),
		downloadCounts: make(map[string]int64),
		logger:         hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.repositories.ensureDefault()
	return r
}

// withMutation runs fn. It does no enlisting of its own: an open
// transaction already holds the snapshot Begin took, so Rollback undoes
// fn's changes. Outside a transaction, mutations apply immediately and
// irreversibly — exactly like a transaction whose Begin/Commit wrap a
// single call.
func (r *Registry) withMutation(fn func() error) error {
	return fn()
}

// SetAllAvailable replaces the entire available catalog and rebuilds
// the provides index and compatibility cache from scratch.
func (r *Registry) SetAllAvailable(modules map[string]*AvailableModule) error {
	return r.withMutation(func() error {
		r.available = modules
		r.provides.Rebuild(r.available)
		r.sorter = nil
		return nil
	})
}

// AddAvailable inserts or updates a single module's metadata in the
// catalog, reindexing provides incrementally.
func (r *Registry) AddAvailable(m *CkanModule) error {
	return r.withMutation(func() error {
		am, ok := r.available[m.Identifier]
		if ok {
			am = am.clone()
		} else {
			am = NewAvailableModule(m.Identifier)
		}
		am.Add(m)
		r.available[m.Identifier] = am
		r.provides.Reindex(am)
		r.sorter = nil
		return nil
	})
}

// RemoveAvailable deletes a single version from the catalog. The
// provides index is left untouched — entries there are tolerated stale
// and re-verified on read.
func (r *Registry) RemoveAvailable(identifier string, v ModuleVersion) error {
	return r.withMutation(func() error {
		am, ok := r.available[identifier]
		if !ok {
			return &NotFoundError{Identifier: identifier}
		}
		am = am.clone()
		am.Remove(v)
		if am.Len() == 0 {
			delete(r.available, identifier)
		} else {
			r.available[identifier] = am
		}
		r.sorter = nil
		return nil
	})
}

// RegisterInstall records module as installed, claiming its files.
// paths may be absolute (e.g. as handed back from an installer that
// just wrote them to disk) or already relative; gameRoot, if non-empty,
// is used to re-relativize any absolute entry exactly as
// InstalledModule.Renormalize does for a schema-0 blob. Returns an
// InconsistentError listing every path already owned by a different
// module, claiming nothing, if any path conflicts.
func (r *Registry) RegisterInstall(metadata CkanModule, paths []string, autoInstalled bool, gameRoot ...string) error {
	root := ""
	if len(gameRoot) > 0 {
		root = gameRoot[0]
	}
	files := make([]string, len(paths))
	for i, p := range paths {
		files[i] = normalizeRelative(p, root)
	}
	return r.withMutation(func() error {
		if msgs := r.ownership.conflicts(metadata.Identifier, files); len(msgs) > 0 {
			return &InconsistentError{Messages: msgs}
		}
		r.ownership.claim(metadata.Identifier, files)
		r.installed[metadata.Identifier] = NewInstalledModule(metadata, files, autoInstalled)
		return nil
	})
}

// DeregisterInstall removes an installed module's record and releases
// its claimed files. A no-op if the identifier isn't installed.
//
// The registry performs no filesystem I/O itself (spec.md §1 places
// on-disk file removal outside this module's scope), so the
// still-on-disk check §4.7 specifies for deregister_install is the
// caller's responsibility: pass every one of the module's own paths
// the caller has found still present on disk as stillOnDisk, and
// DeregisterInstall fails with an InconsistentError listing them
// instead of releasing anything. Omit it (or pass nothing) once the
// caller has actually deleted the files.
func (r *Registry) DeregisterInstall(identifier string, stillOnDisk ...string) error {
	return r.withMutation(func() error {
		im, ok := r.installed[identifier]
		if !ok {
			return nil
		}
		if len(stillOnDisk) > 0 {
			msgs := make([]string, 0, len(stillOnDisk))
			for _, p := range stillOnDisk {
				msgs = append(msgs, "module "+identifier+" cannot be deregistered: "+p+" still exists on disk")
			}
			return &InconsistentError{Messages: msgs}
		}
		r.ownership.release(identifier, im.Files())
		delete(r.installed, identifier)
		return nil
	})
}

// RegisterDLL records a loose binary short-name at version v. If
// shortName is already registered, whoever registered it, the existing
// entry is logged and left untouched rather than overwritten or treated
// as an error. owner is not stored; it only appears in that log line.
func (r *Registry) RegisterDLL(owner, shortName string, v ModuleVersion) error {
	return r.withMutation(func() error {
		if existing, ok := r.dlls[shortName]; ok {
			r.logger.Debug("loose binary already registered, ignoring", "short_name", shortName, "existing_version", existing.String(), "owner", owner)
			return nil
		}
		r.dlls[shortName] = v
		return nil
	})
}

// ClearDLLs forgets every registered loose binary.
func (r *Registry) ClearDLLs() error {
	return r.withMutation(func() error {
		r.dlls = make(map[string]ModuleVersion)
		return nil
	})
}

// RegisterDLC records identifier as auto-detected DLC at version v.
func (r *Registry) RegisterDLC(identifier string, v ModuleVersion) error {
	return r.withMutation(func() error {
		r.dlc[identifier] = v
		return nil
	})
}

// ClearDLC forgets every registered DLC identifier.
func (r *Registry) ClearDLC() error {
	return r.withMutation(func() error {
		r.dlc = make(map[string]ModuleVersion)
		return nil
	})
}

// SetDownloadCounts merges counts into the registry's running tally:
// every identifier present in counts has its count overwritten;
// identifiers absent from counts keep their prior value.
func (r *Registry) SetDownloadCounts(counts map[string]int64) error {
	return r.withMutation(func() error {
		for id, n := range counts {
			r.downloadCounts[id] = n
		}
		return nil
	})
}

// DownloadCount returns the running download count for identifier.
func (r *Registry) DownloadCount(identifier string) int64 {
	return r.downloadCounts[identifier]
}

// LatestAvailable returns the highest-version CkanModule for identifier
// satisfying criteria and not conflicting with alreadyInstalled or
// alsoInstalling. Returns a NotFoundError if identifier is unknown to
// the catalog entirely; a nil module with a nil error means the
// identifier is known but criteria/constraint excluded every version —
// see the first Open Questions decision in DESIGN.md.
func (r *Registry) LatestAvailable(identifier string, criteria GameVersionCriteria, alreadyInstalled, alsoInstalling []*CkanModule) (*CkanModule, error) {
	am, ok := r.available[identifier]
	if !ok {
		return nil, &NotFoundError{Identifier: identifier}
	}
	return am.Latest(criteria, nil, alreadyInstalled, alsoInstalling), nil
}

// LatestAvailableWithProvides resolves a dependency that may be
// satisfied either by a real module or by a virtual package: it tries
// LatestAvailable(identifier, ...) first, then falls back to every
// AvailableModule indexed under identifier as a provides name,
// re-verifying (since the provides index tolerates staleness) that the
// candidate's chosen version still actually provides it. Unlike
// LatestAvailable, an unknown identifier is not an error here — it
// simply has no real module and may still resolve via provides.
//
// It returns a single module: the first qualifying provider found. When
// several modules provide identifier, the others are not returned and
// which one is returned is not defined.
func (r *Registry) LatestAvailableWithProvides(identifier string, criteria GameVersionCriteria, alreadyInstalled, alsoInstalling []*CkanModule) *CkanModule {
	if m, err := r.LatestAvailable(identifier, criteria, alreadyInstalled, alsoInstalling); err == nil && m != nil {
		return m
	}
	for _, am := range r.provides.Candidates(identifier) {
		m := am.Latest(criteria, nil, alreadyInstalled, alsoInstalling)
		if m != nil && m.ProvidesID(identifier) {
			return m
		}
	}
	return nil
}

// CompatibleModules returns the latest CkanModule for every available
// identifier compatible with criteria.
func (r *Registry) CompatibleModules(criteria GameVersionCriteria) map[string]*CkanModule {
	r.sorter = r.sorter.ensureFor(criteria, r.available)
	return r.sorter.compatibleLatests()
}

// IncompatibleModules returns the newest known CkanModule for every
// available identifier incompatible with criteria.
func (r *Registry) IncompatibleModules(criteria GameVersionCriteria) map[string]*CkanModule {
	r.sorter = r.sorter.ensureFor(criteria, r.available)
	return r.sorter.incompatibleLatests()
}

// AvailableByIdentifier returns every known version of identifier,
// newest first, or nil if the identifier is unknown.
func (r *Registry) AvailableByIdentifier(identifier string) []*CkanModule {
	am, ok := r.available[identifier]
	if !ok {
		return nil
	}
	return am.All()
}

// Installed returns the installation record for identifier, or nil.
func (r *Registry) Installed(identifier string) *InstalledModule {
	return r.installed[identifier]
}

// InstalledIdentifiers returns every installed module's identifier.
func (r *Registry) InstalledIdentifiers() []string {
	out := make([]string, 0, len(r.installed))
	for id := range r.installed {
		out = append(out, id)
	}
	return out
}

// InstalledVersion returns the version identifier resolves to under the
// precedence DLC > installed > loose binary > provides (if withProvides)
// > none, and whether it resolved at all.
func (r *Registry) InstalledVersion(identifier string, withProvides bool) (ModuleVersion, bool) {
	if v, ok := r.dlc[identifier]; ok {
		return v, true
	}
	if im, ok := r.installed[identifier]; ok {
		return im.Metadata().Version, true
	}
	if v, ok := r.dlls[identifier]; ok {
		return v, true
	}
	if withProvides {
		for _, am := range r.provides.Candidates(identifier) {
			m := am.Latest(nil, nil, nil, nil)
			if m != nil && m.ProvidesID(identifier) {
				return NewProvidesVersion(m.Identifier, m.Version.String()), true
			}
		}
	}
	return ModuleVersion{}, false
}

// InstalledOverlay returns the combined view of every identifier the
// registry currently resolves: loose binaries (as Unmanaged versions),
// then, if withProvides, virtual packages provided by the available
// catalog (as Provides placeholders), then real installs, then DLC —
// each layer overwriting the previous at matching keys. When several
// modules provide the same virtual name, the provider with the
// lexicographically smallest identifier is reported. Return order is
// unspecified; the value at each key is deterministic.
func (r *Registry) InstalledOverlay(withProvides bool) map[string]ModuleVersion {
	out := make(map[string]ModuleVersion)
	for shortName, v := range r.dlls {
		out[shortName] = v
	}
	if withProvides {
		for virtual, set := range r.provides.byVirtual {
			var chosen *CkanModule
			for _, am := range set {
				m := am.Latest(nil, nil, nil, nil)
				if m == nil || !m.ProvidesID(virtual) {
					continue
				}
				if chosen == nil || m.Identifier < chosen.Identifier {
					chosen = m
				}
			}
			if chosen != nil {
				out[virtual] = NewProvidesVersion(chosen.Identifier, chosen.Version.String())
			}
		}
	}
	for id, im := range r.installed {
		out[id] = im.Metadata().Version
	}
	for id, v := range r.dlc {
		out[id] = v
	}
	return out
}

// FileOwner returns the identifier owning relativePath, and whether it
// is owned at all. Returns a PathError if relativePath is absolute.
func (r *Registry) FileOwner(relativePath string) (string, bool, error) {
	if isAbsolutePath(toSlash(relativePath)) {
		return "", false, &PathError{Path: relativePath}
	}
	id, ok := r.ownership.owner(relativePath)
	return id, ok, nil
}

// universeSnapshot builds the universe satisfies/unsatisfiedDepends
// need from the registry's current state.
func (r *Registry) universeSnapshot() universe {
	return universe{installed: r.installed, loose: r.dlls, dlc: r.dlc}
}

// CheckSanity reports whether every installed module's depends are
// currently satisfiable.
func (r *Registry) CheckSanity() bool {
	return len(unsatisfiedDepends(r.installed, r.universeSnapshot())) == 0
}

// GetSanityErrors returns every currently-unsatisfied installed
// module's diagnostic.
func (r *Registry) GetSanityErrors() []SanityError {
	return unsatisfiedDepends(r.installed, r.universeSnapshot())
}

// FindReverseDependencies lazily yields the transitive closure of
// modules that would break if every identifier in remove were
// uninstalled.
func (r *Registry) FindReverseDependencies(remove map[string]struct{}) func(func(string) bool) {
	return findReverseDependencies(r.installed, r.universeSnapshot(), remove)
}

// FindRemovableAutoInstalled returns the auto-installed modules whose
// removal would only implicate other auto-installed modules.
func (r *Registry) FindRemovableAutoInstalled() []string {
	return findRemovableAutoInstalled(r.installed, r.universeSnapshot())
}

// GetSHA1Index returns every installed module's SHA1 download hash,
// keyed by identifier, skipping modules with no recorded hash.
func (r *Registry) GetSHA1Index() map[string]string {
	out := make(map[string]string)
	for id, im := range r.installed {
		if h := im.Metadata().DownloadHash; h != nil && h.SHA1 != "" {
			out[id] = h.SHA1
		}
	}
	return out
}

// GetDownloadHashIndex returns every installed module's full
// DownloadHash, keyed by identifier.
func (r *Registry) GetDownloadHashIndex() map[string]*DownloadHash {
	out := make(map[string]*DownloadHash)
	for id, im := range r.installed {
		if h := im.Metadata().DownloadHash; h != nil {
			out[id] = h
		}
	}
	return out
}

// AddRepository registers or replaces a repository entry.
func (r *Registry) AddRepository(name, url string) error {
	return r.withMutation(func() error {
		r.repositories.add(name, url)
		return nil
	})
}

// RemoveRepository deregisters a repository entry.
func (r *Registry) RemoveRepository(name string) error {
	return r.withMutation(func() error {
		r.repositories.remove(name)
		return nil
	})
}

// Repositories returns every known repository, sorted by name. It is
// the ListRepositories operation.
func (r *Registry) Repositories() []*Repository {
	return r.repositories.list()
}

// EnsureDefaultRepository installs the built-in "default" repository if
// none is registered yet, and rewrites it in place if it still points
// at the legacy archive URL a pre-migration blob may have recorded.
func (r *Registry) EnsureDefaultRepository() error {
	return r.withMutation(func() error {
		r.repositories.ensureDefault()
		return nil
	})
}

// ExportRepositoriesYAML renders the known repository list as a YAML
// document, for sharing a repository list between registries outside
// of a full blob.
func (r *Registry) ExportRepositoriesYAML() ([]byte, error) {
	return r.repositories.marshalYAML()
}

// ImportRepositoriesYAML replaces the known repository list with the
// one decoded from a document previously produced by
// ExportRepositoriesYAML, then re-installs the default repository if
// the import omitted it.
func (r *Registry) ImportRepositoriesYAML(data []byte) error {
	return r.withMutation(func() error {
		next := newRepositoryList()
		if err := next.unmarshalYAML(data); err != nil {
			return err
		}
		next.ensureDefault()
		r.repositories = next
		return nil
	})
}

// Clone returns a deep-enough independent copy of the registry, built
// atop the same snapshot machinery a transaction rollback uses.
func (r *Registry) Clone() *Registry {
	clone := &Registry{
		logger: r.logger,
	}
	snap := r.snapshotState()
	clone.restoreState(snap)
	installed := make(map[string]*InstalledModule, len(r.installed))
	for id, im := range r.installed {
		installed[id] = im.clone()
	}
	clone.installed = installed
	return clone
}

func (r *Registry) String() string {
	return fmt.Sprintf("Registry{available=%d installed=%d}", len(r.available), len(r.installed))
}
