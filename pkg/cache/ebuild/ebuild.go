// Package ebuild reads package metadata straight from the ebuilds of a
// repository. Ebuilds are parsed as shell but never run: only top-level
// variable assignments are evaluated, with the standard P/PN/PV/...
// variables preset. Values set by eclasses are therefore missing.
package ebuild

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arc-language/portix/pkg/cache"
	"github.com/arc-language/portix/pkg/portage"
	"github.com/arc-language/portix/pkg/profile"
)

const ebuildSuffix = ".ebuild"

// Cache walks <repo>/<category>/<package>/*.ebuild.
type Cache struct {
	opts   cache.Options
	method cache.Method

	catDir   string
	packages []string
}

// New returns a reader for the repository in opts.Path. method is
// reported by Type so that "none" stays visible as such.
func New(opts cache.Options, method cache.Method) *Cache {
	if method == "" {
		method = cache.MethodEbuild
	}
	return &Cache{opts: opts, method: method}
}

func (c *Cache) Type() string { return string(c.method) }

func (c *Cache) PrepareCategory(ctx context.Context, name string) error {
	c.catDir = filepath.Join(c.opts.Path, name)
	c.packages = nil
	entries, err := os.ReadDir(c.catDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			c.packages = append(c.packages, e.Name())
		}
	}
	sort.Strings(c.packages)
	return nil
}

func (c *Cache) ReadCategory(ctx context.Context, cat *portage.Category) error {
	for _, pkg := range c.packages {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.readPackage(cat, pkg)
	}
	return nil
}

func (c *Cache) readPackage(cat *portage.Category, pkg string) {
	dir := filepath.Join(c.catDir, pkg)
	entries, err := os.ReadDir(dir)
	if err != nil {
		c.opts.Report("%s: %v", dir, err)
		return
	}
	for _, e := range entries {
		file := e.Name()
		if e.IsDir() || !strings.HasSuffix(file, ebuildSuffix) {
			continue
		}
		pf := strings.TrimSuffix(file, ebuildSuffix)
		version, ok := strings.CutPrefix(pf, pkg+"-")
		if !ok {
			c.opts.Report("%s: ebuild does not belong to package %s", filepath.Join(dir, file), pkg)
			continue
		}
		bv, err := portage.ParseBasicVersion(version)
		if err != nil {
			c.opts.Report("%s: %v", filepath.Join(dir, file), err)
			continue
		}

		md := c.parse(filepath.Join(dir, file), cat.Name, pkg, bv)
		if _, err := cache.AddVersion(cat, pkg, version, c.opts.Overlay, md); err != nil {
			c.opts.Report("%s/%s: %v", cat.Name, pf, err)
		}
	}
}

// parse evaluates the ebuild's assignments. Problems are reported; what
// could be read is still used.
func (c *Cache) parse(path, category, pkg string, bv portage.BasicVersion) cache.Metadata {
	s := profile.NewSettings()
	for k, v := range Environment(category, pkg, bv) {
		s.Set(k, v)
	}
	if err := s.ReadFile(path); err != nil {
		c.opts.Report("%v", err)
	}
	return cache.Metadata{
		Slot:        s.Get("SLOT"),
		Restrict:    s.Get("RESTRICT"),
		Homepage:    s.Get("HOMEPAGE"),
		License:     s.Get("LICENSE"),
		Description: s.Get("DESCRIPTION"),
		Keywords:    s.Get("KEYWORDS"),
		IUSE:        s.Get("IUSE"),
		Provide:     s.Get("PROVIDE"),
		EAPI:        s.Get("EAPI"),
	}
}

// Environment returns the variables an ebuild may rely on before its
// first line runs.
func Environment(category, pkg string, bv portage.BasicVersion) map[string]string {
	pv := bv.WithoutRevision()
	pr := "r0"
	if rev := bv.Revision(); rev != "" {
		pr = "r" + rev
	}
	return map[string]string{
		"CATEGORY": category,
		"PN":       pkg,
		"PV":       pv,
		"PR":       pr,
		"PVR":      bv.String(),
		"P":        pkg + "-" + pv,
		"PF":       pkg + "-" + bv.String(),
	}
}

func (c *Cache) FinalizeCategory() {
	c.packages = nil
}

func (c *Cache) Close() error { return nil }
