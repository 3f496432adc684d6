// pkg/portage/compare.go
package portage

// UpgradeToBest decides whether CanUpgrade with slot testing also
// recommends the absolute best version over per-slot comparison. It is
// set once from configuration before any query runs.
var UpgradeToBest = true

// CompareBest compares Best(false) of p and other.
//
//	 0: same
//	 1: other is smaller or has none
//	-1: other is larger or p has none
//	 3: same version, but different overlay (or slot if testSlot)
func (p *Package) CompareBest(other *Package, testSlot bool) int {
	t := p.Best(false)
	o := other.Best(false)
	switch {
	case t != nil && o != nil:
		if c := t.Compare(o.BasicVersion); c != 0 {
			return c
		}
		if t.Overlay != o.Overlay {
			return 3
		}
		if testSlot && t.SlotName() != o.SlotName() {
			return 3
		}
		return 0
	case t != nil:
		return 1
	case o != nil:
		return -1
	}
	return 0
}

// WorseBestSlots tests whether other has a worse best slot.
//
//	1: other has a worse or missing best slot
//	3: nothing worse, but an identical best from another overlay
//	0: else
func (p *Package) WorseBestSlots(other *Package) int {
	ret := 0
	for _, s := range p.SlotList() {
		t := s.Best(false)
		if t == nil {
			continue
		}
		o := other.BestSlot(s.Name)
		if o == nil {
			return 1
		}
		c := t.Compare(o.BasicVersion)
		if c > 0 {
			return 1
		}
		if c == 0 && t.Overlay != o.Overlay {
			ret = 3
		}
	}
	return ret
}

// CompareBestSlots compares the best versions of all slots.
//
//	 0: everything matches
//	 1: other has a worse or missing best slot, p has not
//	-1: p has a worse or missing best slot, other has not
//	 2: both have a worse or missing best slot
//	 3: all match, but at least one overlay differs
func (p *Package) CompareBestSlots(other *Package) int {
	worse := p.WorseBestSlots(other)
	better := other.WorseBestSlots(p)
	if worse == 1 {
		if better == 1 {
			return 2
		}
		return 1
	}
	if better == 1 {
		return -1
	}
	if worse == 3 || better == 3 {
		return 3
	}
	return 0
}

// HaveWorse reports whether other has a worse or missing best (or best
// slot when testSlots).
func (p *Package) HaveWorse(other *Package, testSlots bool) bool {
	if testSlots {
		return p.WorseBestSlots(other) > 0
	}
	return p.CompareBest(other, false) > 0
}

// Differ reports whether other differs in at least one best or best slot.
func (p *Package) Differ(other *Package, testSlots bool) bool {
	if testSlots {
		return p.CompareBestSlots(other) != 0
	}
	return p.CompareBest(other, false) != 0
}

// CheckBest compares Best(false) with the largest installed version.
//
//	 0: installed is best, or nothing can be installed, or nothing is
//	    installed and onlyInstalled is false
//	 1: upgrade necessary
//	-1: downgrade necessary
//	 3: same version but different slot (testSlot only)
//	 4: nothing installed, onlyInstalled, and a version can be installed
func (p *Package) CheckBest(db VarDB, onlyInstalled, testSlot bool) int {
	best := p.Best(false)
	if best == nil {
		return 0
	}
	installed := installedOf(db, p)
	if len(installed) == 0 {
		if onlyInstalled {
			return 4
		}
		return 0
	}

	largest := installed[0]
	for _, iv := range installed[1:] {
		if iv.Compare(largest.BasicVersion) > 0 {
			largest = iv
		}
	}

	if c := best.Compare(largest.BasicVersion); c != 0 {
		return c
	}
	if testSlot && p.GuessSlotName(largest) != best.SlotName() {
		return 3
	}
	return 0
}

// CheckBestSlots compares every installed version with the best version
// of its slot.
//
//	 0: all installed versions are best
//	 1: upgrade necessary but no downgrade
//	-1: downgrade necessary but no upgrade
//	 2: upgrade and downgrade necessary
//	 4: nothing installed, onlyInstalled, and a version can be installed
func (p *Package) CheckBestSlots(db VarDB, onlyInstalled bool) int {
	installed := installedOf(db, p)
	if len(installed) == 0 {
		if onlyInstalled && len(p.BestSlots(false)) > 0 {
			return 4
		}
		return 0
	}

	upgrade, downgrade := false, false
	for _, iv := range installed {
		best := p.BestSlot(p.GuessSlotName(iv))
		if best == nil {
			// the installed slot has no acceptable version any more
			downgrade = true
			continue
		}
		switch c := best.Compare(iv.BasicVersion); {
		case c > 0:
			upgrade = true
		case c < 0:
			downgrade = true
		}
	}

	switch {
	case upgrade && downgrade:
		return 2
	case upgrade:
		return 1
	case downgrade:
		return -1
	}
	return 0
}

// CanUpgrade reports whether an installed version can be upgraded or is
// in a different slot.
func (p *Package) CanUpgrade(db VarDB, onlyInstalled, testSlots bool) bool {
	if !testSlots {
		return p.CheckBest(db, onlyInstalled, false) > 0
	}
	if UpgradeToBest && p.CheckBest(db, onlyInstalled, true) > 0 {
		return true
	}
	return p.CheckBestSlots(db, onlyInstalled) > 0
}

// MustDowngrade reports whether an installed version is better than
// anything acceptable, or sits in a mismatching slot.
func (p *Package) MustDowngrade(db VarDB, testSlots bool) bool {
	c := p.CheckBest(db, true, testSlots)
	if c < 0 || c == 3 {
		return true
	}
	if !testSlots {
		return false
	}
	c = p.CheckBestSlots(db, true)
	return c < 0 || c == 2
}

// Recommend reports whether an upgrade or downgrade is recommended.
func (p *Package) Recommend(db VarDB, onlyInstalled, testSlots bool) bool {
	return p.CanUpgrade(db, onlyInstalled, testSlots) || p.MustDowngrade(db, testSlots)
}
