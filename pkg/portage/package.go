// pkg/portage/package.go
package portage

import (
	"sort"
	"strings"
)

// Duplicates records whether a package has the same version more than once.
type Duplicates uint8

const (
	DupNone Duplicates = iota
	// DupSome means a version string occurs twice.
	DupSome
	// DupOverlays means a version string occurs in two different overlays.
	DupOverlays
)

func (d Duplicates) String() string {
	switch d {
	case DupSome:
		return "some"
	case DupOverlays:
		return "overlays"
	}
	return "none"
}

// CommonInfo is the package metadata taken from the newest version.
type CommonInfo struct {
	Description string
	Homepage    string
	Licenses    string
	Provide     string
}

// Package is one category/name pair with its versions kept in ascending
// order. A package is built by AddVersion calls and queried afterwards;
// the slot list and collected IUSE are cached between mutations.
type Package struct {
	Category string
	Name     string
	Desc     string
	Homepage string
	Licenses string
	Provide  string

	HaveDuplicateVersions Duplicates

	// HaveNontrivialSlots is true if some version has a slot other than "0".
	HaveNontrivialSlots bool
	// HaveSameOverlayKey is true if all versions come from one overlay.
	HaveSameOverlayKey bool
	// AtLeastTwoOverlays is true if no version is from the main
	// repository and the versions span two or more overlays.
	AtLeastTwoOverlays bool
	// LargestOverlay is the highest overlay id of any version.
	LargestOverlay OverlayID
	// IsSystemPackage is true if every version is in the system set.
	IsSystemPackage bool

	versions []*Version

	slots      SlotList
	slotsDirty bool

	iuse       []string
	iuseJoined string
	iuseDirty  bool
}

// NewPackage returns an empty package.
func NewPackage(category, name string) *Package {
	return &Package{
		Category:           category,
		Name:               name,
		HaveSameOverlayKey: true,
		slotsDirty:         true,
		iuseDirty:          true,
	}
}

// FullName returns "category/name".
func (p *Package) FullName() string {
	return p.Category + "/" + p.Name
}

// Len returns the number of versions.
func (p *Package) Len() int {
	return len(p.versions)
}

// Versions returns the versions in ascending order. The slice must not
// be modified.
func (p *Package) Versions() []*Version {
	return p.versions
}

// Latest returns the largest version, or nil for an empty package.
func (p *Package) Latest() *Version {
	if len(p.versions) == 0 {
		return nil
	}
	return p.versions[len(p.versions)-1]
}

// AddVersion inserts v keeping the versions sorted, updates the
// duplicate and overlay bookkeeping and invalidates cached views.
func (p *Package) AddVersion(v *Version) {
	p.checkDuplicates(v)

	// Equal versions go after the existing ones.
	i := sort.Search(len(p.versions), func(i int) bool {
		return p.versions[i].Compare(v.BasicVersion) > 0
	})
	p.versions = append(p.versions, nil)
	copy(p.versions[i+1:], p.versions[i:])
	p.versions[i] = v

	p.updateOverlays(v)
	if v.SlotName() != "0" {
		p.HaveNontrivialSlots = true
	}

	p.slotsDirty = true
	p.iuseDirty = true
}

func (p *Package) checkDuplicates(v *Version) {
	if p.HaveDuplicateVersions == DupOverlays {
		return
	}
	for _, o := range p.versions {
		if o.String() != v.String() {
			continue
		}
		if o.Overlay != v.Overlay {
			p.HaveDuplicateVersions = DupOverlays
			return
		}
		p.HaveDuplicateVersions = DupSome
	}
}

func (p *Package) updateOverlays(v *Version) {
	if len(p.versions) == 1 {
		p.LargestOverlay = v.Overlay
		p.HaveSameOverlayKey = true
		p.AtLeastTwoOverlays = false
		return
	}
	if v.Overlay != p.LargestOverlay {
		p.HaveSameOverlayKey = false
	}
	if v.Overlay > p.LargestOverlay {
		p.LargestOverlay = v.Overlay
	}

	p.AtLeastTwoOverlays = false
	if !p.HaveSameOverlayKey {
		p.AtLeastTwoOverlays = true
		for _, o := range p.versions {
			if o.Overlay == 0 {
				p.AtLeastTwoOverlays = false
				break
			}
		}
	}
}

// SetCommonInfo records the package metadata if v is the newest version.
func (p *Package) SetCommonInfo(v *Version, info CommonInfo) bool {
	if p.Latest() != v {
		return false
	}
	p.Desc = info.Description
	p.Homepage = info.Homepage
	p.Licenses = info.Licenses
	p.Provide = info.Provide
	return true
}

// SlotList returns the versions grouped by slot, groups ordered by their
// smallest version.
func (p *Package) SlotList() SlotList {
	if p.slotsDirty {
		p.slots = buildSlotList(p.versions)
		p.slotsDirty = false
	}
	return p.slots
}

// CollIUSESet returns the sorted union of IUSE over all versions.
func (p *Package) CollIUSESet() []string {
	p.collectIUSE()
	return p.iuse
}

// CollIUSE returns the collected IUSE joined by spaces.
func (p *Package) CollIUSE() string {
	p.collectIUSE()
	return p.iuseJoined
}

func (p *Package) collectIUSE() {
	if !p.iuseDirty {
		return
	}
	seen := make(map[string]bool)
	var all []string
	for _, v := range p.versions {
		for _, flag := range v.IUSE {
			// IUSE defaults (+flag, -flag) collapse onto the flag name
			flag = strings.TrimLeft(flag, "+-")
			if flag != "" && !seen[flag] {
				seen[flag] = true
				all = append(all, flag)
			}
		}
	}
	sort.Strings(all)
	p.iuse = all
	p.iuseJoined = strings.Join(all, " ")
	p.iuseDirty = false
}

// ApplyKeywords recomputes the keyword flags of every version.
func (p *Package) ApplyKeywords(accept []string) {
	for _, v := range p.versions {
		v.ApplyKeywords(accept)
	}
}

// SaveMaskFlags saves the mask flags of every version under index i.
func (p *Package) SaveMaskFlags(i SavedIndex) {
	for _, v := range p.versions {
		v.SaveMaskFlags(i)
	}
}

// RestoreMaskFlags restores every version's mask flags from index i.
func (p *Package) RestoreMaskFlags(i SavedIndex) bool {
	for _, v := range p.versions {
		if !v.RestoreMaskFlags(i) {
			return false
		}
	}
	return true
}

// SaveKeyFlags saves the keyword flags of every version under index i.
func (p *Package) SaveKeyFlags(i SavedIndex) {
	for _, v := range p.versions {
		v.SaveKeyFlags(i)
	}
}

// RestoreKeyFlags restores every version's keyword flags from index i.
func (p *Package) RestoreKeyFlags(i SavedIndex) bool {
	for _, v := range p.versions {
		if !v.RestoreKeyFlags(i) {
			return false
		}
	}
	return true
}

// UpdateSystemFlag recomputes IsSystemPackage from the mask flags.
func (p *Package) UpdateSystemFlag() {
	p.IsSystemPackage = len(p.versions) > 0
	for _, v := range p.versions {
		if !v.MaskFlags.IsSystem() {
			p.IsSystemPackage = false
			return
		}
	}
}

// FindVersion returns the first version whose text equals s.
func (p *Package) FindVersion(s string) *Version {
	for _, v := range p.versions {
		if v.String() == s {
			return v
		}
	}
	return nil
}
