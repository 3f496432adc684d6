// pkg/portage/tree.go
package portage

import "sort"

// Category holds the packages of one category.
type Category struct {
	Name     string
	packages map[string]*Package
}

// NewCategory returns an empty category.
func NewCategory(name string) *Category {
	return &Category{Name: name, packages: make(map[string]*Package)}
}

// FindPackage returns the package called name, or nil.
func (c *Category) FindPackage(name string) *Package {
	return c.packages[name]
}

// AddPackage returns the package called name, creating it if needed.
func (c *Category) AddPackage(name string) *Package {
	if p, ok := c.packages[name]; ok {
		return p
	}
	p := NewPackage(c.Name, name)
	c.packages[name] = p
	return p
}

// Packages returns the packages sorted by name.
func (c *Category) Packages() []*Package {
	out := make([]*Package, 0, len(c.packages))
	for _, p := range c.packages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of packages.
func (c *Category) Len() int {
	return len(c.packages)
}

// PackageTree is the whole index: categories and their packages.
type PackageTree struct {
	categories map[string]*Category
}

// NewPackageTree returns an empty tree.
func NewPackageTree() *PackageTree {
	return &PackageTree{categories: make(map[string]*Category)}
}

// Insert returns the category called name, creating it if needed.
func (t *PackageTree) Insert(name string) *Category {
	if c, ok := t.categories[name]; ok {
		return c
	}
	c := NewCategory(name)
	t.categories[name] = c
	return c
}

// Find returns the category called name, or nil.
func (t *PackageTree) Find(name string) *Category {
	return t.categories[name]
}

// FindPackage looks up category/name.
func (t *PackageTree) FindPackage(category, name string) *Package {
	c := t.categories[category]
	if c == nil {
		return nil
	}
	return c.FindPackage(name)
}

// Categories returns the categories sorted by name.
func (t *PackageTree) Categories() []*Category {
	out := make([]*Category, 0, len(t.categories))
	for _, c := range t.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Walk calls fn for every package in category and name order.
func (t *PackageTree) Walk(fn func(p *Package)) {
	for _, c := range t.Categories() {
		for _, p := range c.Packages() {
			fn(p)
		}
	}
}

// Len returns the number of packages in the tree.
func (t *PackageTree) Len() int {
	n := 0
	for _, c := range t.categories {
		n += c.Len()
	}
	return n
}

// Prune drops categories without packages and returns how many.
func (t *PackageTree) Prune() int {
	n := 0
	for name, c := range t.categories {
		if c.Len() == 0 {
			delete(t.categories, name)
			n++
		}
	}
	return n
}
