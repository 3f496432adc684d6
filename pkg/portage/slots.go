// pkg/portage/slots.go
package portage

// SlotVersions holds the versions of one slot in ascending order.
type SlotVersions struct {
	Name     string
	Versions []*Version
}

// Best returns the best acceptable version of the slot.
func (s *SlotVersions) Best(allowUnstable bool) *Version {
	return bestOf(s.Versions, allowUnstable)
}

// SlotList is ordered by the first (smallest) version of each slot and
// contains every version exactly once, the trivial slot "0" included.
type SlotList []*SlotVersions

// Find returns the slot with the given name, or nil.
func (l SlotList) Find(name string) *SlotVersions {
	if name == "" {
		name = "0"
	}
	for _, s := range l {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Names returns the slot names in order.
func (l SlotList) Names() []string {
	names := make([]string, len(l))
	for i, s := range l {
		names[i] = s.Name
	}
	return names
}

func buildSlotList(versions []*Version) SlotList {
	var list SlotList
	index := make(map[string]*SlotVersions)
	for _, v := range versions {
		name := v.SlotName()
		s, ok := index[name]
		if !ok {
			s = &SlotVersions{Name: name}
			index[name] = s
			list = append(list, s)
		}
		s.Versions = append(s.Versions, v)
	}
	return list
}

// bestOf scans versions from the largest down and returns the first one
// that is not masked and either stable or allowed as unstable.
func bestOf(versions []*Version, allowUnstable bool) *Version {
	for i := len(versions) - 1; i >= 0; i-- {
		v := versions[i]
		if v.IsHardMasked() {
			continue
		}
		if allowUnstable || v.IsStable() {
			return v
		}
	}
	return nil
}

// Best returns the newest acceptable version, or nil if none qualifies.
func (p *Package) Best(allowUnstable bool) *Version {
	return bestOf(p.versions, allowUnstable)
}

// BestSlot returns the newest stable, unmasked version in the slot.
func (p *Package) BestSlot(slot string) *Version {
	s := p.SlotList().Find(slot)
	if s == nil {
		return nil
	}
	return s.Best(false)
}

// BestSlots returns the best version of every slot that has one, in slot
// order.
func (p *Package) BestSlots(allowUnstable bool) []*Version {
	var out []*Version
	for _, s := range p.SlotList() {
		if v := s.Best(allowUnstable); v != nil {
			out = append(out, v)
		}
	}
	return out
}
