package registry

import "iter"

// findReverseDependencies computes the transitive closure of modules
// that would become broken if every identifier in remove were
// uninstalled from installed, given the auxiliary universes of loose
// binaries and auto-detected content.
//
// The result is yielded lazily via a Go range-over-func iterator so
// that callers who only need the first few entries — e.g. a solver
// checking "would this break anything?" — don't pay for the full
// closure.
func findReverseDependencies(
	installed map[string]*InstalledModule,
	u universe,
	remove map[string]struct{},
) iter.Seq[string] {
	return func(yield func(string) bool) {
		r := make(map[string]struct{}, len(remove))
		for id := range remove {
			r[id] = struct{}{}
		}
		emitted := make(map[string]struct{}, len(r))

		for id := range r {
			emitted[id] = struct{}{}
			if !yield(id) {
				return
			}
		}

		for {
			// H = installed \ {m | identifier in R}
			h := make(map[string]*InstalledModule, len(installed))
			for id, im := range installed {
				if _, removed := r[id]; !removed {
					h[id] = im
				}
			}

			uH := universe{installed: h, loose: u.loose, dlc: u.dlc}
			broken := unsatisfiedDepends(h, uH)
			b := make(map[string]struct{}, len(broken))
			for _, e := range broken {
				b[e.ModID] = struct{}{}
			}

			newlyBroken := false
			for id := range b {
				if _, already := r[id]; !already {
					newlyBroken = true
				}
			}
			if !newlyBroken {
				return
			}

			for id := range b {
				if _, already := emitted[id]; !already {
					emitted[id] = struct{}{}
					if !yield(id) {
						return
					}
				}
				r[id] = struct{}{}
			}
		}
	}
}

// collectReverseDependencies drains findReverseDependencies into a set,
// for callers (and tests) that want the whole closure at once.
func collectReverseDependencies(installed map[string]*InstalledModule, u universe, remove map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for id := range findReverseDependencies(installed, u, remove) {
		out[id] = struct{}{}
	}
	return out
}

// findRemovableAutoInstalled returns the auto-installed modules whose
// removal, per the closure above, implicates only other auto-installed
// modules.
func findRemovableAutoInstalled(installed map[string]*InstalledModule, u universe) []string {
	autoInstalled := make(map[string]struct{})
	for id, im := range installed {
		if im.AutoInstalled() {
			autoInstalled[id] = struct{}{}
		}
	}

	var removable []string
	for id := range autoInstalled {
		closure := collectReverseDependencies(installed, u, map[string]struct{}{id: {}})
		onlyAuto := true
		for broken := range closure {
			if _, ok := autoInstalled[broken]; !ok {
				onlyAuto = false
				break
			}
		}
		if onlyAuto {
			removable = append(removable, id)
		}
	}
	return removable
}
