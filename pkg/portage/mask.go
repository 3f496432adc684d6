// pkg/portage/mask.go
package portage

import "fmt"

// MaskKind says what a matching Mask does to a version.
type MaskKind uint8

const (
	// MaskInSystem marks versions as part of the system set.
	MaskInSystem MaskKind = iota
	// MaskAllowedByProfile marks versions the profile allows.
	MaskAllowedByProfile
	// MaskMask hides versions (package.mask).
	MaskMask
)

func (k MaskKind) String() string {
	switch k {
	case MaskInSystem:
		return "system"
	case MaskAllowedByProfile:
		return "allowed"
	case MaskMask:
		return "mask"
	}
	return fmt.Sprintf("MaskKind(%d)", uint8(k))
}

// Mask is an atom tagged with a kind.
type Mask struct {
	atom *Atom
	kind MaskKind
}

// NewMask parses atom and tags it with kind.
func NewMask(atom string, kind MaskKind) (*Mask, error) {
	a, err := ParseAtom(atom)
	if err != nil {
		return nil, err
	}
	return &Mask{atom: a, kind: kind}, nil
}

// Atom returns the parsed pattern.
func (m *Mask) Atom() *Atom { return m.atom }

// Kind returns the mask kind.
func (m *Mask) Kind() MaskKind { return m.kind }

// Key returns "category/name" of the pattern.
func (m *Mask) Key() string { return m.atom.Key() }

func (m *Mask) String() string { return m.atom.String() }

// Equal reports pattern text and kind equality.
func (m *Mask) Equal(o *Mask) bool {
	return o != nil && m.kind == o.kind && m.atom.text == o.atom.text
}

// Matches reports whether v of package p matches the pattern.
func (m *Mask) Matches(p *Package, v *Version) bool {
	return m.atom.MatchesName(p.Category, p.Name) && m.atom.MatchesVersion(v)
}

// Apply stamps the mask onto every version of p. Versions that match get
// the kind's bit; for versioned profile and system entries, versions
// of the same package that do not match are excluded.
func (m *Mask) Apply(p *Package) {
	if !m.atom.MatchesName(p.Category, p.Name) {
		return
	}
	constrained := m.atom.HasVersionConstraint()
	for _, v := range p.versions {
		match := m.atom.MatchesVersion(v)
		switch m.kind {
		case MaskMask:
			if match {
				v.MaskFlags |= MaskPackage
			}
		case MaskAllowedByProfile:
			if match {
				v.MaskFlags |= InProfile
			} else if constrained {
				v.MaskFlags |= MaskProfile
			}
		case MaskInSystem:
			if match {
				v.MaskFlags |= InSystem | InProfile
			} else if constrained {
				v.MaskFlags |= MaskSystem
			}
		}
	}
}
