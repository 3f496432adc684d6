// pkg/portage/flags.go
package portage

import (
	"strings"
)

// MaskFlags records how the profile and package.mask treat a version.
type MaskFlags uint8

const (
	MaskNone MaskFlags = 0
	// MaskPackage is set by an explicit package.mask entry.
	MaskPackage MaskFlags = 1 << iota
	// MaskProfile is set when a versioned profile packages entry excludes the version.
	MaskProfile
	// MaskSystem is set when a versioned system entry excludes the version.
	MaskSystem
	// InProfile is set when the profile packages file allows the version.
	InProfile
	// InSystem is set when the version belongs to the system set.
	InSystem
)

const hardMask = MaskPackage | MaskProfile | MaskSystem

// IsHardMasked reports whether any masking bit is set.
func (f MaskFlags) IsHardMasked() bool { return f&hardMask != 0 }

// IsPackageMask reports whether package.mask hides the version.
func (f MaskFlags) IsPackageMask() bool { return f&MaskPackage != 0 }

// IsProfileMask reports whether the profile excludes the version.
func (f MaskFlags) IsProfileMask() bool { return f&(MaskProfile|MaskSystem) != 0 }

// IsSystem reports whether the version is part of the system set.
func (f MaskFlags) IsSystem() bool { return f&InSystem != 0 }

// IsInProfile reports whether the profile lists the version.
func (f MaskFlags) IsInProfile() bool { return f&InProfile != 0 }

// Has reports whether all bits of g are set.
func (f MaskFlags) Has(g MaskFlags) bool { return f&g == g }

func (f MaskFlags) String() string {
	if f == MaskNone {
		return "none"
	}
	var parts []string
	for _, b := range []struct {
		bit  MaskFlags
		name string
	}{
		{MaskPackage, "package.mask"},
		{MaskProfile, "profile"},
		{MaskSystem, "system-excluded"},
		{InProfile, "in-profile"},
		{InSystem, "system"},
	} {
		if f&b.bit != 0 {
			parts = append(parts, b.name)
		}
	}
	return strings.Join(parts, ",")
}

// KeywordState is the stability of a version on one architecture.
type KeywordState uint8

const (
	KeywordAbsent KeywordState = iota
	KeywordStable
	KeywordUnstable
	KeywordBroken // -arch
)

// ParseKeywords splits a KEYWORDS value into a per-arch map.
// "-*" is stored under the key "*".
func ParseKeywords(keywords string) map[string]KeywordState {
	m := make(map[string]KeywordState)
	for _, kw := range strings.Fields(keywords) {
		switch kw[0] {
		case '~':
			m[kw[1:]] = KeywordUnstable
		case '-':
			m[kw[1:]] = KeywordBroken
		default:
			m[kw] = KeywordStable
		}
	}
	return m
}

// KeyFlags is the result of evaluating KEYWORDS against ACCEPT_KEYWORDS.
type KeyFlags uint8

const (
	KeyNone KeyFlags = 0
	// KeyStable means the version is accepted.
	KeyStable KeyFlags = 1 << iota
	// KeyUnstable means an accepted arch carries ~arch but it is not accepted.
	KeyUnstable
	// KeyMinusKeyword means -arch or -* applies.
	KeyMinusKeyword
	// KeyMissing means KEYWORDS is empty or names none of the arches.
	KeyMissing
)

func (f KeyFlags) IsStable() bool       { return f&KeyStable != 0 }
func (f KeyFlags) IsUnstable() bool     { return f&KeyUnstable != 0 }
func (f KeyFlags) IsMinusKeyword() bool { return f&KeyMinusKeyword != 0 }
func (f KeyFlags) IsMissing() bool      { return f&KeyMissing != 0 }

func computeKeyFlags(keywords map[string]KeywordState, accept []string) KeyFlags {
	arches := make(map[string]bool)
	testing := make(map[string]bool)
	anyStable, anyTesting, everything := false, false, false
	for _, tok := range accept {
		switch {
		case tok == "**":
			everything = true
		case tok == "*":
			anyStable = true
		case tok == "~*":
			anyTesting = true
		case strings.HasPrefix(tok, "~"):
			arches[tok[1:]] = true
			testing[tok[1:]] = true
		case strings.HasPrefix(tok, "-"):
			// incremental removal is resolved before we get here
		default:
			arches[tok] = true
		}
	}

	if everything {
		return KeyStable
	}

	var f KeyFlags
	relevant := false
	for arch, state := range keywords {
		if arch == "*" {
			if state == KeywordBroken {
				f |= KeyMinusKeyword
			}
			continue
		}
		if !arches[arch] && !anyStable && !anyTesting {
			continue
		}
		relevant = true
		switch state {
		case KeywordStable:
			if arches[arch] || anyStable || anyTesting {
				f |= KeyStable
			}
		case KeywordUnstable:
			if testing[arch] || anyTesting {
				f |= KeyStable
			} else {
				f |= KeyUnstable
			}
		case KeywordBroken:
			f |= KeyMinusKeyword
		}
	}
	if !relevant && f&KeyMinusKeyword == 0 {
		f |= KeyMissing
	}
	return f
}

// RestrictFlags is the parsed RESTRICT value.
type RestrictFlags uint16

const (
	RestrictNone      RestrictFlags = 0
	RestrictBinchecks RestrictFlags = 1 << iota
	RestrictStrip
	RestrictTest
	RestrictUserpriv
	RestrictInstallsources
	RestrictFetch
	RestrictMirror
	RestrictPrimaryuri
	RestrictBindist
	RestrictParallel
)

var restrictNames = map[string]RestrictFlags{
	"binchecks":      RestrictBinchecks,
	"strip":          RestrictStrip,
	"test":           RestrictTest,
	"userpriv":       RestrictUserpriv,
	"installsources": RestrictInstallsources,
	"fetch":          RestrictFetch,
	"mirror":         RestrictMirror,
	"primaryuri":     RestrictPrimaryuri,
	"bindist":        RestrictBindist,
	"parallel":       RestrictParallel,
}

// ParseRestrict converts a RESTRICT string. Unknown words and USE
// conditionals are ignored.
func ParseRestrict(s string) RestrictFlags {
	var f RestrictFlags
	for _, word := range strings.Fields(s) {
		word = strings.TrimPrefix(word, "!")
		f |= restrictNames[strings.ToLower(word)]
	}
	return f
}

// Has reports whether all bits of g are set.
func (f RestrictFlags) Has(g RestrictFlags) bool { return f&g == g }
