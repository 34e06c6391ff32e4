package registry

import (
	"strings"
)

// InstalledModule is a record of an installed module: a metadata
// snapshot taken at install time, its owned relative file list, and
// whether it was pulled in automatically as someone else's dependency.
// It is never mutated in place — register_install creates it,
// deregister_install removes it.
type InstalledModule struct {
	metadata      CkanModule
	files         []string // ordered, relative, forward-slash normalized
	autoInstalled bool
}

// NewInstalledModule snapshots metadata and claims files.
func NewInstalledModule(metadata CkanModule, files []string, autoInstalled bool) *InstalledModule {
	owned := make([]string, len(files))
	copy(owned, files)
	return &InstalledModule{metadata: metadata, files: owned, autoInstalled: autoInstalled}
}

// Metadata returns the install-time metadata snapshot. Later catalog
// updates never mutate it.
func (im *InstalledModule) Metadata() CkanModule { return im.metadata }

// Files returns the ordered set of relative paths this module owns.
func (im *InstalledModule) Files() []string {
	out := make([]string, len(im.files))
	copy(out, im.files)
	return out
}

// AutoInstalled reports whether this module was installed automatically
// to satisfy someone else's dependency rather than by direct user
// request.
func (im *InstalledModule) AutoInstalled() bool { return im.autoInstalled }

// Renormalize converts any stored absolute paths to paths relative to
// gameRoot. Used once during schema upgrade from registry_version 0
//.
func (im *InstalledModule) Renormalize(gameRoot string) {
	for i, f := range im.files {
		im.files[i] = normalizeRelative(f, gameRoot)
	}
}

func (im *InstalledModule) clone() *InstalledModule {
	return NewInstalledModule(im.metadata, im.files, im.autoInstalled)
}

// isAbsolutePath reports whether p looks like an absolute path on
// either Unix ("/...") or Windows ("C:/...", after separator
// normalization).
func isAbsolutePath(p string) bool {
	if strings.HasPrefix(p, "/") {
		return true
	}
	return len(p) >= 2 && p[1] == ':'
}

// toSlash normalizes path separators to forward slashes.
func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// normalizeRelative converts separators to forward slashes and, if p is
// absolute, re-relativizes it against root.
func normalizeRelative(p, root string) string {
	p = toSlash(p)
	root = strings.TrimSuffix(toSlash(root), "/")

	if !isAbsolutePath(p) {
		return strings.TrimPrefix(p, "/")
	}
	if root == "" {
		return strings.TrimPrefix(p, "/")
	}
	if p == root {
		return ""
	}
	if strings.HasPrefix(p, root+"/") {
		return strings.TrimPrefix(p, root+"/")
	}
	return strings.TrimPrefix(p, "/")
}
