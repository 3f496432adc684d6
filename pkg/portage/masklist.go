// pkg/portage/masklist.go
package portage

// MaskList is an ordered set of masks. Masks are also indexed by
// category/name so applying the list to a package only visits entries
// naming that package.
type MaskList struct {
	masks []*Mask
	byKey map[string][]*Mask
}

// NewMaskList returns an empty list.
func NewMaskList() *MaskList {
	return &MaskList{byKey: make(map[string][]*Mask)}
}

// Add appends m unless an equal mask is present. It reports whether the
// list changed.
func (l *MaskList) Add(m *Mask) bool {
	if l.byKey == nil {
		l.byKey = make(map[string][]*Mask)
	}
	key := m.Key()
	for _, o := range l.byKey[key] {
		if o.Equal(m) {
			return false
		}
	}
	l.masks = append(l.masks, m)
	l.byKey[key] = append(l.byKey[key], m)
	return true
}

// Remove erases the first mask equal to m. It reports whether one was found.
func (l *MaskList) Remove(m *Mask) bool {
	idx := -1
	for i, o := range l.masks {
		if o.Equal(m) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	l.masks = append(l.masks[:idx], l.masks[idx+1:]...)

	key := m.Key()
	bucket := l.byKey[key]
	for i, o := range bucket {
		if o.Equal(m) {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(l.byKey, key)
	} else {
		l.byKey[key] = bucket
	}
	return true
}

// Len returns the number of masks.
func (l *MaskList) Len() int {
	return len(l.masks)
}

// Masks returns the masks in insertion order.
func (l *MaskList) Masks() []*Mask {
	out := make([]*Mask, len(l.masks))
	copy(out, l.masks)
	return out
}

// Get returns the masks naming category/name.
func (l *MaskList) Get(category, name string) []*Mask {
	return l.byKey[category+"/"+name]
}

// ApplyMasks applies every mask naming p, in list order.
func (l *MaskList) ApplyMasks(p *Package) {
	for _, m := range l.Get(p.Category, p.Name) {
		m.Apply(p)
	}
}
