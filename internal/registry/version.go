package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// VersionKind discriminates the variants of ModuleVersion.
type VersionKind int

const (
	// KindSemantic is a totally-ordered numeric version, optionally with a
	// pre-release tag.
	KindSemantic VersionKind = iota
	// KindUnmanaged is an opaque string (or absent) representing an
	// auto-detected artifact. Comparable only by equality.
	KindUnmanaged
	// KindProvides is a (providing-identifier, version-string) pair used
	// only as a placeholder for virtual packages.
	KindProvides
)

func (k VersionKind) String() string {
	switch k {
	case KindSemantic:
		return "semantic"
	case KindUnmanaged:
		return "unmanaged"
	case KindProvides:
		return "provides"
	default:
		return "unknown"
	}
}

// ModuleVersion is a tagged union over Semantic, Unmanaged, or Provides
// versions. It is a plain comparable value so it can be
// used directly as a map key (AvailableModule keys its versions on its
// Key() string instead, so build metadata does not split entries).
//
// Semantic comparison is delegated to Masterminds/semver/v3 rather than
// hand-rolled integer comparison, reconstructing a *semver.Version from
// the decomposed fields on demand.
type ModuleVersion struct {
	Kind VersionKind

	// Populated when Kind == KindSemantic.
	Major, Minor, Patch uint64
	Prerelease          string
	Metadata            string

	// Populated when Kind == KindUnmanaged.
	Unmanaged string

	// Populated when Kind == KindProvides.
	ProvidesID      string
	ProvidesVersion string

	// Original preserves the exact input string for display.
	Original string
}

// NewSemanticVersion parses s as a semantic version.
func NewSemanticVersion(s string) (ModuleVersion, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return ModuleVersion{}, fmt.Errorf("registry: invalid semantic version %q: %w", s, err)
	}
	return ModuleVersion{
		Kind:       KindSemantic,
		Major:      v.Major(),
		Minor:      v.Minor(),
		Patch:      v.Patch(),
		Prerelease: v.Prerelease(),
		Metadata:   v.Metadata(),
		Original:   s,
	}, nil
}

// NewUnmanagedVersion wraps an opaque, auto-detected version string. An
// empty string represents "no version known".
func NewUnmanagedVersion(s string) ModuleVersion {
	return ModuleVersion{Kind: KindUnmanaged, Unmanaged: s, Original: s}
}

// NewProvidesVersion constructs a virtual-package placeholder version.
func NewProvidesVersion(providingID, version string) ModuleVersion {
	return ModuleVersion{
		Kind:            KindProvides,
		ProvidesID:      providingID,
		ProvidesVersion: version,
		Original:        providingID + "=" + version,
	}
}

// semver reconstructs the underlying semver.Version for a Semantic
// ModuleVersion. Callers must check Kind == KindSemantic first.
func (v ModuleVersion) semver() *semver.Version {
	return semver.New(v.Major, v.Minor, v.Patch, v.Prerelease, v.Metadata)
}

// String returns the original input string.
func (v ModuleVersion) String() string {
	return v.Original
}

// Key returns a canonical string uniquely identifying this version,
// suitable for use as a map key where map[ModuleVersion]... value
// identity (rather than Go struct equality) isn't precise enough, e.g.
// when Metadata/Original differ but the version is otherwise identical.
func (v ModuleVersion) Key() string {
	switch v.Kind {
	case KindSemantic:
		return fmt.Sprintf("semantic:%d.%d.%d-%s", v.Major, v.Minor, v.Patch, v.Prerelease)
	case KindUnmanaged:
		return "unmanaged:" + v.Unmanaged
	case KindProvides:
		return "provides:" + v.ProvidesID + "=" + v.ProvidesVersion
	default:
		return "unknown:" + v.Original
	}
}

// Equals reports whether two versions are the same value. Unmanaged and
// Provides versions are comparable only by equality.
func (v ModuleVersion) Equals(other ModuleVersion) bool {
	return v.Key() == other.Key()
}

// Compare orders two Semantic versions. The second return value is false
// (and the ordering undefined) if either version is not Semantic —
// comparison across variants, or involving Unmanaged/Provides, is
// equality-only.
func (v ModuleVersion) Compare(other ModuleVersion) (int, bool) {
	if v.Kind != KindSemantic || other.Kind != KindSemantic {
		return 0, false
	}
	return v.semver().Compare(other.semver()), true
}

// Less reports v < other for Semantic versions; false for any
// non-Semantic comparison (including equal-but-incomparable variants).
func (v ModuleVersion) Less(other ModuleVersion) bool {
	cmp, ok := v.Compare(other)
	return ok && cmp < 0
}

// GameVersion is a semantic version plus the distinguished Any value
// meaning "all versions".
type GameVersion struct {
	any        bool
	major      uint64
	minor      uint64
	patch      uint64
	prerelease string
	original   string
}

// AnyGameVersion returns the distinguished "all versions" value.
func AnyGameVersion() GameVersion {
	return GameVersion{any: true, original: "any"}
}

// NewGameVersion parses s as a concrete game version.
func NewGameVersion(s string) (GameVersion, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return GameVersion{}, fmt.Errorf("registry: invalid game version %q: %w", s, err)
	}
	return GameVersion{
		major:      v.Major(),
		minor:      v.Minor(),
		patch:      v.Patch(),
		prerelease: v.Prerelease(),
		original:   s,
	}, nil
}

// IsAny reports whether this is the distinguished "all versions" value.
func (g GameVersion) IsAny() bool { return g.any }

// String returns the original input, or "any".
func (g GameVersion) String() string {
	if g.any {
		return "any"
	}
	return g.original
}

func (g GameVersion) semver() *semver.Version {
	return semver.New(g.major, g.minor, g.patch, g.prerelease, "")
}

// Compare orders two concrete game versions. ok is false if either side
// is Any — Any is not comparable by <, only absorbing.
func (g GameVersion) Compare(other GameVersion) (cmp int, ok bool) {
	if g.any || other.any {
		return 0, false
	}
	return g.semver().Compare(other.semver()), true
}

// Satisfies reports whether g lies within [min, max], honoring Any on
// either bound (an Any bound places no restriction on that side) and
// satisfying any criterion when g itself is Any.
func (g GameVersion) satisfiesInterval(min, max GameVersion) bool {
	if g.any {
		return true
	}
	if !min.any {
		if cmp, _ := g.Compare(min); cmp < 0 {
			return false
		}
	}
	if !max.any {
		if cmp, _ := g.Compare(max); cmp > 0 {
			return false
		}
	}
	return true
}

// GameVersionInterval is a module's declared [min_game, max_game]
// compatibility range. Either bound may be Any, meaning unrestricted in
// that direction.
type GameVersionInterval struct {
	Min GameVersion
	Max GameVersion
}

// Intersects reports whether the interval contains at least one element
// of criteria: a module is compatible with a criteria set iff its
// [min_game, max_game] interval intersects at least one element of it.
// An empty criteria set is treated as unconstrained.
func (iv GameVersionInterval) Intersects(criteria GameVersionCriteria) bool {
	if len(criteria) == 0 {
		return true
	}
	for _, v := range criteria {
		if v.satisfiesInterval(iv.Min, iv.Max) {
			return true
		}
	}
	return false
}

// GameVersionCriteria is the unordered set of acceptable game versions
// the user currently targets.
type GameVersionCriteria map[string]GameVersion

// NewGameVersionCriteria builds a criteria set from individual versions.
func NewGameVersionCriteria(versions ...GameVersion) GameVersionCriteria {
	c := make(GameVersionCriteria, len(versions))
	for _, v := range versions {
		c[v.String()] = v
	}
	return c
}

// Versions returns the criteria's members in a stable, sorted order.
func (c GameVersionCriteria) Versions() []GameVersion {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]GameVersion, 0, len(keys))
	for _, k := range keys {
		out = append(out, c[k])
	}
	return out
}

// Equal reports whether two criteria sets contain exactly the same
// versions. Used by CompatibilitySorter to decide cache validity.
func (c GameVersionCriteria) Equal(other GameVersionCriteria) bool {
	if len(c) != len(other) {
		return false
	}
	for k := range c {
		if _, ok := other[k]; !ok {
			return false
		}
	}
	return true
}

// Key returns a canonical string for the criteria set, for use in
// diagnostics and tests.
func (c GameVersionCriteria) Key() string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}
