package registry

import "fmt"

// SanityError reports a module whose depends cannot be satisfied by the
// universe of installed modules, loose binaries, and auto-detected
// content.
type SanityError struct {
	ModID  string
	Reason string
}

func (e SanityError) Error() string {
	return fmt.Sprintf("%s: %s", e.ModID, e.Reason)
}

// universe bundles the three collections a dependency can be satisfied
// from: installed modules, loose binaries, and auto-detected DLC.
type universe struct {
	installed map[string]*InstalledModule
	loose     map[string]ModuleVersion // short-name -> version (Unmanaged)
	dlc       map[string]ModuleVersion
}

// satisfies reports whether some member of the universe satisfies dep,
// either by identifier match or by listing dep.Identifier in its
// provides, with the version constraint also satisfied.
func (u universe) satisfies(dep RelationshipDescriptor) bool {
	for id, im := range u.installed {
		meta := im.Metadata()
		if id == dep.Identifier || meta.ProvidesID(dep.Identifier) {
			if dep.satisfiedByVersion(meta.Version) {
				return true
			}
		}
	}
	for id, v := range u.loose {
		if id == dep.Identifier && dep.satisfiedByVersion(v) {
			return true
		}
	}
	for id, v := range u.dlc {
		if id == dep.Identifier && dep.satisfiedByVersion(v) {
			return true
		}
	}
	for _, alt := range dep.AnyOf {
		if _, ok := u.installed[alt]; ok {
			return true
		}
		if _, ok := u.loose[alt]; ok {
			return true
		}
		if _, ok := u.dlc[alt]; ok {
			return true
		}
	}
	return false
}

// unsatisfiedDepends returns the subset of candidates whose depends
// cannot all be satisfied by the universe.
func unsatisfiedDepends(candidates map[string]*InstalledModule, u universe) []SanityError {
	var errs []SanityError
	for id, im := range candidates {
		for _, dep := range im.Metadata().Depends {
			if !u.satisfies(dep) {
				errs = append(errs, SanityError{
					ModID:  id,
					Reason: fmt.Sprintf("depends on %s, which is not satisfied", dep.Identifier),
				})
				break
			}
		}
	}
	return errs
}
