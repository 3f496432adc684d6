// pkg/portage/version.go
package portage

import (
	"fmt"
	"strings"
)

// suffixKind orders the version suffixes. suffixNone sits between rc and p
// so that 1.0_rc1 < 1.0 < 1.0_p1.
type suffixKind uint8

const (
	suffixAlpha suffixKind = iota
	suffixBeta
	suffixPre
	suffixRC
	suffixNone
	suffixP
)

var suffixNames = []struct {
	name string
	kind suffixKind
}{
	// "pre" must be tried before "p"
	{"alpha", suffixAlpha},
	{"beta", suffixBeta},
	{"pre", suffixPre},
	{"rc", suffixRC},
	{"p", suffixP},
}

type versionSuffix struct {
	kind suffixKind
	num  string // digits, possibly empty
}

// BasicVersion is a parsed ebuild version string such as 1.2.3b_rc4_p1-r2.
// It is immutable once parsed.
type BasicVersion struct {
	full     string
	numbers  []string
	letter   byte
	suffixes []versionSuffix
	revision string
}

// ParseBasicVersion parses s according to the ebuild version grammar.
func ParseBasicVersion(s string) (BasicVersion, error) {
	bv := BasicVersion{full: s}
	if s == "" {
		return bv, fmt.Errorf("%w: empty version", ErrInvalidVersion)
	}

	i := 0
	for {
		start := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == start {
			return bv, fmt.Errorf("%w: %q: expected digit at position %d", ErrInvalidVersion, s, i)
		}
		bv.numbers = append(bv.numbers, s[start:i])
		if i < len(s) && s[i] == '.' {
			i++
			continue
		}
		break
	}

	if i < len(s) && s[i] >= 'a' && s[i] <= 'z' {
		bv.letter = s[i]
		i++
	}

	for i < len(s) && s[i] == '_' {
		i++
		matched := false
		for _, sn := range suffixNames {
			if strings.HasPrefix(s[i:], sn.name) {
				i += len(sn.name)
				start := i
				for i < len(s) && isDigit(s[i]) {
					i++
				}
				bv.suffixes = append(bv.suffixes, versionSuffix{kind: sn.kind, num: s[start:i]})
				matched = true
				break
			}
		}
		if !matched {
			return bv, fmt.Errorf("%w: %q: unknown suffix at position %d", ErrInvalidVersion, s, i)
		}
	}

	if strings.HasPrefix(s[i:], "-r") {
		i += 2
		start := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == start {
			return bv, fmt.Errorf("%w: %q: revision without number", ErrInvalidVersion, s)
		}
		bv.revision = s[start:i]
	}

	if i != len(s) {
		return bv, fmt.Errorf("%w: %q: trailing garbage at position %d", ErrInvalidVersion, s, i)
	}
	return bv, nil
}

// String returns the version exactly as it was parsed.
func (bv BasicVersion) String() string {
	return bv.full
}

// Revision returns the numeric revision, "" when absent.
func (bv BasicVersion) Revision() string {
	return bv.revision
}

// WithoutRevision returns the version text with any -rN stripped.
func (bv BasicVersion) WithoutRevision() string {
	if bv.revision == "" {
		return bv.full
	}
	return strings.TrimSuffix(bv.full, "-r"+bv.revision)
}

// Compare returns -1, 0 or 1 as bv is smaller than, equal to or larger
// than other. Only identical version strings compare equal.
func (bv BasicVersion) Compare(other BasicVersion) int {
	if c := compareNumbers(bv.numbers, other.numbers); c != 0 {
		return c
	}
	if c := compareInts(int(bv.letter), int(other.letter)); c != 0 {
		return c
	}
	if c := compareSuffixes(bv.suffixes, other.suffixes); c != 0 {
		return c
	}
	if c := compareDigits(bv.revision, other.revision); c != 0 {
		return c
	}
	// 1.0-r0 and 1.0, or _p and _p0, are numerically equal
	return strings.Compare(bv.full, other.full)
}

// Equal reports whether both versions compare equal.
func (bv BasicVersion) Equal(other BasicVersion) bool {
	return bv.Compare(other) == 0
}

func compareNumbers(a, b []string) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		x, y := "0", "0"
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if c := compareDigits(x, y); c != 0 {
			return c
		}
	}
	// 1.0 and 1.0.0 tie numerically; the longer one sorts higher.
	if c := compareInts(len(a), len(b)); c != 0 {
		return c
	}
	// 1.01 and 1.1 tie numerically; fall back to the text.
	return strings.Compare(strings.Join(a, "."), strings.Join(b, "."))
}

func compareSuffixes(a, b []versionSuffix) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		x := versionSuffix{kind: suffixNone}
		y := versionSuffix{kind: suffixNone}
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if c := compareInts(int(x.kind), int(y.kind)); c != 0 {
			return c
		}
		if c := compareDigits(x.num, y.num); c != 0 {
			return c
		}
	}
	return 0
}

// compareDigits compares two digit strings numerically without
// overflowing on very long numbers. The empty string counts as zero.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if c := compareInts(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// OverlayID identifies the repository a version was read from.
// The main repository is 0.
type OverlayID int

// Version is one ebuild version of a Package.
type Version struct {
	BasicVersion

	// Slot and Subslot are split from SLOT="slot/subslot".
	Slot    string
	Subslot string

	Overlay  OverlayID
	Restrict RestrictFlags
	IUSE     []string

	MaskFlags MaskFlags
	KeyFlags  KeyFlags

	keywords   string
	keywordMap map[string]KeywordState

	savedMask map[SavedIndex]MaskFlags
	savedKey  map[SavedIndex]KeyFlags
}

// SavedIndex names a save/restore slot for mask or keyword flags.
type SavedIndex int

// NewVersion parses s and returns a version ready to be added to a Package.
func NewVersion(s string) (*Version, error) {
	bv, err := ParseBasicVersion(s)
	if err != nil {
		return nil, err
	}
	return &Version{BasicVersion: bv}, nil
}

// SetSlot stores a SLOT value, splitting off a subslot.
func (v *Version) SetSlot(slot string) {
	slot = strings.TrimSpace(slot)
	if i := strings.IndexByte(slot, '/'); i >= 0 {
		v.Slot, v.Subslot = slot[:i], slot[i+1:]
		return
	}
	v.Slot, v.Subslot = slot, ""
}

// SlotName returns the slot, with the empty slot normalised to "0".
func (v *Version) SlotName() string {
	if v.Slot == "" {
		return "0"
	}
	return v.Slot
}

// SetIUSE stores the space separated IUSE value.
func (v *Version) SetIUSE(iuse string) {
	v.IUSE = strings.Fields(iuse)
}

// SetRestrict stores the space separated RESTRICT value.
func (v *Version) SetRestrict(restrict string) {
	v.Restrict = ParseRestrict(restrict)
}

// Keywords returns the raw KEYWORDS value.
func (v *Version) Keywords() string {
	return v.keywords
}

// SetKeywords stores the KEYWORDS value and its per-arch breakdown.
func (v *Version) SetKeywords(keywords string) {
	v.keywords = keywords
	v.keywordMap = ParseKeywords(keywords)
}

// Keyword returns the stability of v on arch.
func (v *Version) Keyword(arch string) KeywordState {
	return v.keywordMap[arch]
}

// ApplyKeywords recomputes KeyFlags from the accepted keywords.
func (v *Version) ApplyKeywords(accept []string) {
	v.KeyFlags = computeKeyFlags(v.keywordMap, accept)
}

// SaveMaskFlags stores the current mask flags under index i.
func (v *Version) SaveMaskFlags(i SavedIndex) {
	if v.savedMask == nil {
		v.savedMask = make(map[SavedIndex]MaskFlags)
	}
	v.savedMask[i] = v.MaskFlags
}

// RestoreMaskFlags restores the mask flags saved under index i.
// It returns false if nothing was saved there.
func (v *Version) RestoreMaskFlags(i SavedIndex) bool {
	f, ok := v.savedMask[i]
	if !ok {
		return false
	}
	v.MaskFlags = f
	return true
}

// SaveKeyFlags stores the current keyword flags under index i.
func (v *Version) SaveKeyFlags(i SavedIndex) {
	if v.savedKey == nil {
		v.savedKey = make(map[SavedIndex]KeyFlags)
	}
	v.savedKey[i] = v.KeyFlags
}

// RestoreKeyFlags restores the keyword flags saved under index i.
func (v *Version) RestoreKeyFlags(i SavedIndex) bool {
	f, ok := v.savedKey[i]
	if !ok {
		return false
	}
	v.KeyFlags = f
	return true
}

// IsStable reports whether v is acceptable under the accepted keywords.
func (v *Version) IsStable() bool {
	return v.KeyFlags.IsStable()
}

// IsHardMasked reports whether any profile or package.mask rule hides v.
func (v *Version) IsHardMasked() bool {
	return v.MaskFlags.IsHardMasked()
}
