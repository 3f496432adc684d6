// pkg/portage/atom.go
package portage

import (
	"fmt"
	"strings"
)

// Operator is the version comparison prefix of an atom.
type Operator uint8

const (
	OpNone Operator = iota
	OpLess
	OpLessEqual
	OpEqual
	OpGreaterEqual
	OpGreater
	OpRevision // ~cat/pkg-1.0 matches any revision of 1.0
	OpGlob     // =cat/pkg-1.2* matches versions starting with 1.2
)

var operatorPrefixes = []struct {
	text string
	op   Operator
}{
	// two-character operators first
	{"<=", OpLessEqual},
	{">=", OpGreaterEqual},
	{"<", OpLess},
	{">", OpGreater},
	{"=", OpEqual},
	{"~", OpRevision},
}

// Atom identifies a package and optionally a version range and a slot,
// e.g. ">=sys-apps/portage-2.3:0".
type Atom struct {
	Op       Operator
	Category string
	Name     string
	Version  *BasicVersion
	Slot     string

	text string
}

// ParseAtom parses s. An operator requires a version and a version
// requires an operator.
func ParseAtom(s string) (*Atom, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return nil, fmt.Errorf("%w: empty atom", ErrInvalidAtom)
	}
	a := &Atom{text: text}
	rest := text

	for _, p := range operatorPrefixes {
		if strings.HasPrefix(rest, p.text) {
			a.Op = p.op
			rest = rest[len(p.text):]
			break
		}
	}

	if strings.Contains(rest, "::") {
		return nil, fmt.Errorf("%w: %q: repository constraints are not supported", ErrInvalidAtom, text)
	}
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		a.Slot = rest[i+1:]
		rest = rest[:i]
		if j := strings.IndexByte(a.Slot, '/'); j >= 0 {
			a.Slot = a.Slot[:j]
		}
		if a.Slot == "" {
			return nil, fmt.Errorf("%w: %q: empty slot", ErrInvalidAtom, text)
		}
	}

	if strings.HasSuffix(rest, "*") {
		if a.Op != OpEqual {
			return nil, fmt.Errorf("%w: %q: '*' suffix requires '='", ErrInvalidAtom, text)
		}
		a.Op = OpGlob
		rest = strings.TrimSuffix(rest, "*")
	}

	slash := strings.IndexByte(rest, '/')
	if slash <= 0 || slash != strings.LastIndexByte(rest, '/') || slash == len(rest)-1 {
		return nil, fmt.Errorf("%w: %q: expected category/name", ErrInvalidAtom, text)
	}
	a.Category = rest[:slash]
	rest = rest[slash+1:]

	if a.Op == OpNone {
		a.Name = rest
		return a, nil
	}

	name, ver, ok := SplitNameVersion(rest)
	if !ok {
		return nil, fmt.Errorf("%w: %q: operator without valid version", ErrInvalidAtom, text)
	}
	bv, err := ParseBasicVersion(ver)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidAtom, text, err)
	}
	a.Name = name
	a.Version = &bv
	return a, nil
}

// SplitNameVersion splits "name-1.0-r1" into "name" and "1.0-r1". The
// version starts at the leftmost '-' followed by a valid version.
func SplitNameVersion(s string) (name, version string, ok bool) {
	for i := 0; i < len(s)-1; i++ {
		if s[i] != '-' || !isDigit(s[i+1]) || i == 0 {
			continue
		}
		if _, err := ParseBasicVersion(s[i+1:]); err == nil {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}

// String returns the atom text as parsed.
func (a *Atom) String() string {
	return a.text
}

// Key returns "category/name".
func (a *Atom) Key() string {
	return a.Category + "/" + a.Name
}

// MatchesName reports whether the atom names the package category/name.
func (a *Atom) MatchesName(category, name string) bool {
	return a.Category == category && a.Name == name
}

// MatchesVersion tests the version and slot constraints against v.
func (a *Atom) MatchesVersion(v *Version) bool {
	if a.Slot != "" && v.SlotName() != a.Slot {
		return false
	}
	if a.Version == nil {
		return true
	}
	switch a.Op {
	case OpEqual:
		return v.Compare(*a.Version) == 0
	case OpGlob:
		return strings.HasPrefix(v.String(), a.Version.String())
	case OpRevision:
		return v.WithoutRevision() == a.Version.WithoutRevision()
	case OpLess:
		return v.Compare(*a.Version) < 0
	case OpLessEqual:
		return v.Compare(*a.Version) <= 0
	case OpGreater:
		return v.Compare(*a.Version) > 0
	case OpGreaterEqual:
		return v.Compare(*a.Version) >= 0
	}
	return true
}

// HasVersionConstraint reports whether the atom restricts versions or slots.
func (a *Atom) HasVersionConstraint() bool {
	return a.Version != nil || a.Slot != ""
}
