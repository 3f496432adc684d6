// pkg/portage/installed.go
package portage

// InstVersion is an installed version as recorded by the package database.
type InstVersion struct {
	BasicVersion

	// Slot is empty when the database did not record one.
	Slot       string
	Repository string
}

// NewInstVersion parses s into an installed version.
func NewInstVersion(s string) (*InstVersion, error) {
	bv, err := ParseBasicVersion(s)
	if err != nil {
		return nil, err
	}
	return &InstVersion{BasicVersion: bv}, nil
}

// VarDB looks up installed versions. A nil VarDB means nothing is
// installed.
type VarDB interface {
	InstalledVersions(p *Package) ([]*InstVersion, error)
}

func installedOf(db VarDB, p *Package) []*InstVersion {
	if db == nil {
		return nil
	}
	inst, err := db.InstalledVersions(p)
	if err != nil {
		return nil
	}
	return inst
}

// GuessSlotName returns the slot of an installed version. If the
// database had none, the slot of the identical available version is
// used, else "0".
func (p *Package) GuessSlotName(iv *InstVersion) string {
	if iv.Slot != "" {
		return iv.Slot
	}
	if v := p.FindVersion(iv.String()); v != nil {
		return v.SlotName()
	}
	return "0"
}
