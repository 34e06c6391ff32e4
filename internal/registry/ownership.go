package registry

import "strings"

// fileOwnership is the relative-path -> owning-module-identifier map.
// Directory entries (paths ending in "/") are exempt from the
// single-owner invariant and may be re-claimed by any number of
// modules.
type fileOwnership map[string]string

func newFileOwnership() fileOwnership {
	return make(fileOwnership)
}

// isDirectoryClaim reports whether p denotes a directory claim, which is
// exempt from the ownership invariant.
func isDirectoryClaim(p string) bool {
	return strings.HasSuffix(p, "/")
}

// conflicts checks whether claiming paths for owner would collide with
// an existing, different owner, returning one human-readable message per
// collision. Directory paths never
// conflict.
func (f fileOwnership) conflicts(owner string, paths []string) []string {
	var messages []string
	for _, p := range paths {
		if isDirectoryClaim(p) {
			continue
		}
		if existing, ok := f[p]; ok && existing != owner {
			messages = append(messages, pathConflictMessage(owner, p, existing))
		}
	}
	return messages
}

func pathConflictMessage(claimant, path, owner string) string {
	return "module " + claimant + " cannot claim " + path + ": already owned by " + owner
}

// claim records paths as owned by owner. Directory paths may be
// reclaimed freely; non-directory paths are expected to have already
// passed conflicts.
func (f fileOwnership) claim(owner string, paths []string) {
	for _, p := range paths {
		f[p] = owner
	}
}

// release removes each of paths that is currently owned by owner,
// directory claims included.
func (f fileOwnership) release(owner string, paths []string) {
	for _, p := range paths {
		if f[p] == owner {
			delete(f, p)
		}
	}
}

// owner looks up the owning identifier for a relative path.
func (f fileOwnership) owner(relativePath string) (string, bool) {
	id, ok := f[relativePath]
	return id, ok
}

func (f fileOwnership) clone() fileOwnership {
	out := make(fileOwnership, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
