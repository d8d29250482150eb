package registry

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/docbridge/docbridge/docerrors"
)

// RegisterCapability announces an available optional feature under its
// probe name, with the installed version (empty for unversioned
// capabilities). Plugins announce their capabilities during registration;
// CheckDependencies probes this table.
func (r *Registry) RegisterCapability(probe, version string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capabilities[probe] = version
}

// UnregisterCapability removes an announced capability.
func (r *Registry) UnregisterCapability(probe string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.capabilities, probe)
}

// CheckDependencies verifies every dependency a format declares: the
// capability must be announced (probed by its loadable name, falling back
// to its distribution name) and, when a version constraint is declared,
// the announced version must satisfy it. Failures carry an actionable
// remediation hint.
func (r *Registry) CheckDependencies(meta *ConverterMetadata) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, dep := range meta.Dependencies {
		probe := dep.Probe
		if probe == "" {
			probe = dep.Feature
		}
		installed, ok := r.capabilities[probe]
		if !ok && probe != dep.Feature {
			// Distribution name and loadable name can differ; accept either.
			installed, ok = r.capabilities[dep.Feature]
		}
		if !ok {
			return &docerrors.DependencyError{
				Format:     meta.FormatName,
				Feature:    dep.Feature,
				Probe:      probe,
				Constraint: dep.Constraint,
				Hint:       remediationHint(dep),
			}
		}
		if dep.Constraint == "" {
			continue
		}
		satisfied, err := constraintSatisfied(installed, dep.Constraint)
		if err != nil {
			return &docerrors.DependencyError{
				Format:     meta.FormatName,
				Feature:    dep.Feature,
				Probe:      probe,
				Constraint: dep.Constraint,
				Installed:  installed,
				Hint:       remediationHint(dep),
				Cause:      err,
			}
		}
		if !satisfied {
			return &docerrors.DependencyError{
				Format:     meta.FormatName,
				Feature:    dep.Feature,
				Probe:      probe,
				Constraint: dep.Constraint,
				Installed:  installed,
				Hint:       remediationHint(dep),
			}
		}
	}
	return nil
}

func remediationHint(dep Dependency) string {
	if dep.Hint != "" {
		return dep.Hint
	}
	if dep.Constraint != "" {
		return fmt.Sprintf("install %s %s", dep.Feature, dep.Constraint)
	}
	return "install " + dep.Feature
}

// constraintSatisfied checks an installed version against a constraint
// expression: one or more comma-separated clauses, each an operator
// (==, !=, >=, <=, >, <) followed by a version. A bare version means ==.
func constraintSatisfied(installed, constraint string) (bool, error) {
	have, err := parseVersion(installed)
	if err != nil {
		return false, fmt.Errorf("invalid installed version %q: %w", installed, err)
	}
	for _, clause := range strings.Split(constraint, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		op := "=="
		rest := clause
		for _, candidate := range []string{">=", "<=", "==", "!=", ">", "<"} {
			if strings.HasPrefix(clause, candidate) {
				op = candidate
				rest = strings.TrimSpace(clause[len(candidate):])
				break
			}
		}
		want, err := parseVersion(rest)
		if err != nil {
			return false, fmt.Errorf("invalid constraint %q: %w", clause, err)
		}
		var ok bool
		switch op {
		case "==":
			ok = !have.lessThan(want) && !want.lessThan(have)
		case "!=":
			ok = have.lessThan(want) || want.lessThan(have)
		case ">=":
			ok = have.greaterThanOrEqual(want)
		case "<=":
			ok = !want.lessThan(have)
		case ">":
			ok = want.lessThan(have)
		case "<":
			ok = have.lessThan(want)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// version represents a semantic version with major, minor, and patch
// components. It supports comparison and parsing of standard semver
// strings (e.g. "2.1.0", "3.1.0-rc1").
type version struct {
	major      int
	minor      int
	patch      int
	prerelease string
}

// parseVersion parses a semantic version string into a version struct.
// Supports "major", "major.minor", and "major.minor.patch" forms with an
// optional "-prerelease" suffix.
func parseVersion(s string) (*version, error) {
	var prerelease string
	if idx := strings.IndexByte(s, '-'); idx >= 0 {
		prerelease = s[idx+1:]
		s = s[:idx]
	}

	parts := strings.Split(s, ".")
	if len(parts) < 1 || len(parts) > 3 || parts[0] == "" {
		return nil, fmt.Errorf("invalid version format: %q", s)
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil || major < 0 || major > math.MaxInt32 {
		return nil, fmt.Errorf("invalid major version: %q", parts[0])
	}

	minor := 0
	if len(parts) >= 2 {
		minor, err = strconv.Atoi(parts[1])
		if err != nil || minor < 0 || minor > math.MaxInt32 {
			return nil, fmt.Errorf("invalid minor version: %q", parts[1])
		}
	}

	patch := 0
	if len(parts) == 3 {
		patch, err = strconv.Atoi(parts[2])
		if err != nil || patch < 0 || patch > math.MaxInt32 {
			return nil, fmt.Errorf("invalid patch version: %q", parts[2])
		}
	}

	return &version{
		major:      major,
		minor:      minor,
		patch:      patch,
		prerelease: prerelease,
	}, nil
}

// lessThan returns true if v < other.
// Pre-release versions are compared lexicographically if major.minor.patch
// are equal.
func (v *version) lessThan(other *version) bool {
	if v.major != other.major {
		return v.major < other.major
	}
	if v.minor != other.minor {
		return v.minor < other.minor
	}
	if v.patch != other.patch {
		return v.patch < other.patch
	}
	// A pre-release sorts before the corresponding release.
	if v.prerelease == "" && other.prerelease != "" {
		return false
	}
	if v.prerelease != "" && other.prerelease == "" {
		return true
	}
	// Simplified lexicographic comparison; sufficient for plugin version
	// strings such as "2.0.0-rc1" < "2.0.0-rc2".
	return v.prerelease < other.prerelease
}

// greaterThanOrEqual returns true if v >= other.
func (v *version) greaterThanOrEqual(other *version) bool {
	return !v.lessThan(other)
}
