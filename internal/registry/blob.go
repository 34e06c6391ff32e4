package registry

import (
	"encoding/json"
	"fmt"
)

// currentBlobVersion is the schema version Marshal always writes.
// Unmarshal migrates anything older up to this version before handing
// back a Registry.
const currentBlobVersion = 3

// legacyControlLockName is the pre-version-2 spelling of the
// always-present control-lock pseudo-module identifier.
const legacyControlLockName = "001ControlLock"

// controlLockName is the identifier every registry reserves internally
// to prevent a module from ever legitimately claiming it.
const controlLockName = "ControlLock"

// blobDependency is the wire shape of a RelationshipDescriptor.
type blobDependency struct {
	Identifier   string   `json:"identifier"`
	MinVersion   string   `json:"min_version,omitempty"`
	MaxVersion   string   `json:"max_version,omitempty"`
	ExactVersion string   `json:"exact_version,omitempty"`
	AnyOf        []string `json:"any_of,omitempty"`
}

// blobDownloadHash is the wire shape of a DownloadHash.
type blobDownloadHash struct {
	SHA1   string `json:"sha1,omitempty"`
	SHA256 string `json:"sha256,omitempty"`
}

// blobModule is the wire shape of a CkanModule.
type blobModule struct {
	Identifier   string            `json:"identifier"`
	Version      string            `json:"version"`
	VersionKind  string            `json:"version_kind"`
	Provides     []string          `json:"provides,omitempty"`
	MinGame      string            `json:"min_game,omitempty"`
	MaxGame      string            `json:"max_game,omitempty"`
	Depends      []blobDependency  `json:"depends,omitempty"`
	Conflicts    []blobDependency  `json:"conflicts,omitempty"`
	Recommends   []blobDependency  `json:"recommends,omitempty"`
	Suggests     []blobDependency  `json:"suggests,omitempty"`
	DownloadURL  string            `json:"download_url,omitempty"`
	DownloadHash *blobDownloadHash `json:"download_hash,omitempty"`
}

// blobInstalledModule is the wire shape of an InstalledModule.
type blobInstalledModule struct {
	Metadata      blobModule `json:"metadata"`
	Files         []string   `json:"installed_files,omitempty"`
	AutoInstalled bool       `json:"auto_installed"`
}

// Blob is the on-disk representation of a Registry, versioned so older
// persisted files can be migrated forward idempotently.
type Blob struct {
	RegistryVersion  int                             `json:"registry_version"`
	AvailableModules []blobModule                    `json:"available_modules,omitempty"`
	InstalledModules map[string]blobInstalledModule `json:"installed_modules,omitempty"`
	InstalledFiles   map[string]string               `json:"installed_files,omitempty"`
	DLLs             map[string]string               `json:"installed_dlls,omitempty"`
	DLC              map[string]string               `json:"installed_dlc,omitempty"`
	DownloadCounts   map[string]int64                `json:"download_counts,omitempty"`
	Repositories     []Repository                    `json:"repositories,omitempty"`
}

// Marshal serializes r into the current blob schema.
func (r *Registry) Marshal() ([]byte, error) {
	blob := Blob{
		RegistryVersion:  currentBlobVersion,
		InstalledModules: make(map[string]blobInstalledModule, len(r.installed)),
		InstalledFiles:   make(map[string]string, len(r.ownership)),
		DLLs:             make(map[string]string, len(r.dlls)),
		DLC:              make(map[string]string, len(r.dlc)),
		DownloadCounts:   r.downloadCounts,
		Repositories:     make([]Repository, 0),
	}

	for _, am := range r.available {
		for _, m := range am.All() {
			blob.AvailableModules = append(blob.AvailableModules, toBlobModule(m))
		}
	}
	for id, im := range r.installed {
		meta := im.Metadata()
		blob.InstalledModules[id] = blobInstalledModule{
			Metadata:      toBlobModule(&meta),
			Files:         im.Files(),
			AutoInstalled: im.AutoInstalled(),
		}
	}
	for path, owner := range r.ownership {
		blob.InstalledFiles[path] = owner
	}
	for name, v := range r.dlls {
		blob.DLLs[name] = v.String()
	}
	for id, v := range r.dlc {
		blob.DLC[id] = v.String()
	}
	for _, repo := range r.repositories.list() {
		blob.Repositories = append(blob.Repositories, *repo)
	}

	return json.MarshalIndent(blob, "", "  ")
}

// Unmarshal parses data as a persisted blob of any supported schema
// version, migrating it forward to currentBlobVersion, and returns a
// ready-to-use Registry. gameRoot is used only to re-relativize any
// absolute installed-file paths a registry_version 0 blob may contain.
func Unmarshal(data []byte, gameRoot string, opts ...Option) (*Registry, error) {
	var blob Blob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("registry: unmarshal blob: %w", err)
	}

	r := NewRegistry(opts...)

	available := make(map[string]*AvailableModule)
	for _, bm := range blob.AvailableModules {
		m, err := fromBlobModule(bm)
		if err != nil {
			return nil, err
		}
		am, ok := available[m.Identifier]
		if !ok {
			am = NewAvailableModule(m.Identifier)
			available[m.Identifier] = am
		}
		am.Add(m)
	}
	r.available = available
	r.provides.Rebuild(r.available)

	installed := make(map[string]*InstalledModule, len(blob.InstalledModules))
	for id, bim := range blob.InstalledModules {
		m, err := fromBlobModule(bim.Metadata)
		if err != nil {
			return nil, err
		}
		im := NewInstalledModule(*m, bim.Files, bim.AutoInstalled)
		if blob.RegistryVersion == 0 {
			im.Renormalize(gameRoot)
		}
		installed[id] = im
	}
	if blob.RegistryVersion < 2 {
		if im, ok := installed[legacyControlLockName]; ok {
			delete(installed, legacyControlLockName)
			meta := im.metadata
			meta.Identifier = controlLockName
			installed[controlLockName] = NewInstalledModule(meta, im.files, im.autoInstalled)
		}
	}
	r.installed = installed

	ownership := newFileOwnership()
	if blob.InstalledFiles == nil {
		// installed_files is absent regardless of schema version (most
		// commonly a pre-version-1 blob, but any blob missing the key
		// qualifies): rebuild it by folding each installed module's own
		// file list.
		for id, im := range installed {
			ownership.claim(id, im.Files())
		}
	} else {
		for path, owner := range blob.InstalledFiles {
			p := path
			if blob.RegistryVersion == 0 {
				p = normalizeRelative(path, gameRoot)
			}
			ownership[p] = owner
		}
		if blob.RegistryVersion < 2 {
			for path, owner := range ownership {
				if owner == legacyControlLockName {
					ownership[path] = controlLockName
				}
			}
		}
	}
	r.ownership = ownership

	for name, s := range blob.DLLs {
		r.dlls[name] = NewUnmanagedVersion(s)
	}
	for id, s := range blob.DLC {
		r.dlc[id] = NewUnmanagedVersion(s)
	}
	for id, n := range blob.DownloadCounts {
		r.downloadCounts[id] = n
	}

	r.repositories = newRepositoryList()
	for i := range blob.Repositories {
		repo := blob.Repositories[i]
		r.repositories.add(repo.Name, repo.URL)
	}
	r.repositories.ensureDefault()

	return r, nil
}

func toBlobModule(m *CkanModule) blobModule {
	provides := make([]string, 0, len(m.Provides))
	for id := range m.Provides {
		provides = append(provides, id)
	}

	bm := blobModule{
		Identifier:  m.Identifier,
		Version:     m.Version.Original,
		VersionKind: m.Version.Kind.String(),
		Provides:    provides,
		MinGame:     m.MinGame.String(),
		MaxGame:     m.MaxGame.String(),
		Depends:     toBlobDeps(m.Depends),
		Conflicts:   toBlobDeps(m.Conflicts),
		Recommends:  toBlobDeps(m.Recommends),
		Suggests:    toBlobDeps(m.Suggests),
		DownloadURL: m.DownloadURL,
	}
	if m.DownloadHash != nil {
		bm.DownloadHash = &blobDownloadHash{SHA1: m.DownloadHash.SHA1, SHA256: m.DownloadHash.SHA256}
	}
	return bm
}

func toBlobDeps(deps []RelationshipDescriptor) []blobDependency {
	out := make([]blobDependency, 0, len(deps))
	for _, d := range deps {
		bd := blobDependency{Identifier: d.Identifier, AnyOf: d.AnyOf}
		if d.MinVersion != nil {
			bd.MinVersion = d.MinVersion.Original
		}
		if d.MaxVersion != nil {
			bd.MaxVersion = d.MaxVersion.Original
		}
		if d.ExactVersion != nil {
			bd.ExactVersion = d.ExactVersion.Original
		}
		out = append(out, bd)
	}
	return out
}

func fromBlobModule(bm blobModule) (*CkanModule, error) {
	v, err := parseBlobVersion(bm.VersionKind, bm.Version)
	if err != nil {
		return nil, fmt.Errorf("registry: module %s: %w", bm.Identifier, err)
	}

	minGame, err := parseBlobGameVersion(bm.MinGame)
	if err != nil {
		return nil, fmt.Errorf("registry: module %s: min_game: %w", bm.Identifier, err)
	}
	maxGame, err := parseBlobGameVersion(bm.MaxGame)
	if err != nil {
		return nil, fmt.Errorf("registry: module %s: max_game: %w", bm.Identifier, err)
	}

	provides := make(map[string]struct{}, len(bm.Provides))
	for _, id := range bm.Provides {
		provides[id] = struct{}{}
	}

	m := &CkanModule{
		Identifier:  bm.Identifier,
		Version:     v,
		Provides:    provides,
		MinGame:     minGame,
		MaxGame:     maxGame,
		Depends:     fromBlobDeps(bm.Depends),
		Conflicts:   fromBlobDeps(bm.Conflicts),
		Recommends:  fromBlobDeps(bm.Recommends),
		Suggests:    fromBlobDeps(bm.Suggests),
		DownloadURL: bm.DownloadURL,
	}
	if bm.DownloadHash != nil {
		m.DownloadHash = &DownloadHash{SHA1: bm.DownloadHash.SHA1, SHA256: bm.DownloadHash.SHA256}
	}
	return m, nil
}

func fromBlobDeps(deps []blobDependency) []RelationshipDescriptor {
	out := make([]RelationshipDescriptor, 0, len(deps))
	for _, bd := range deps {
		rd := RelationshipDescriptor{Identifier: bd.Identifier, AnyOf: bd.AnyOf}
		if bd.MinVersion != "" {
			if v, err := NewSemanticVersion(bd.MinVersion); err == nil {
				rd.MinVersion = &v
			}
		}
		if bd.MaxVersion != "" {
			if v, err := NewSemanticVersion(bd.MaxVersion); err == nil {
				rd.MaxVersion = &v
			}
		}
		if bd.ExactVersion != "" {
			if v, err := NewSemanticVersion(bd.ExactVersion); err == nil {
				rd.ExactVersion = &v
			}
		}
		out = append(out, rd)
	}
	return out
}

func parseBlobVersion(kind, s string) (ModuleVersion, error) {
	switch kind {
	case KindSemantic.String(), "":
		return NewSemanticVersion(s)
	case KindUnmanaged.String():
		return NewUnmanagedVersion(s), nil
	case KindProvides.String():
		return NewUnmanagedVersion(s), nil
	default:
		return ModuleVersion{}, fmt.Errorf("unknown version kind %q", kind)
	}
}

func parseBlobGameVersion(s string) (GameVersion, error) {
	if s == "" || s == "any" {
		return AnyGameVersion(), nil
	}
	return NewGameVersion(s)
}
