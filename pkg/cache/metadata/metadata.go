// Package metadata reads the per-version cache files shipped inside a
// repository: metadata/md5-cache (KEY=value) or the older positional
// metadata/cache layout. Entries may be xz-compressed.
package metadata

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/arc-language/portix/pkg/cache"
	"github.com/arc-language/portix/pkg/portage"
)

const xzSuffix = ".xz"

// Layout selects the entry format.
type Layout int

const (
	LayoutMD5 Layout = iota
	LayoutFlat
)

// Cache reads one repository's metadata directory.
type Cache struct {
	opts   cache.Options
	layout Layout
	dir    string

	catDir string
	names  []string
}

// New returns a reader for opts.Path in the given layout.
func New(opts cache.Options, layout Layout) *Cache {
	sub := "metadata/md5-cache"
	if layout == LayoutFlat {
		sub = "metadata/cache"
	}
	return &Cache{opts: opts, layout: layout, dir: filepath.Join(opts.Path, sub)}
}

func (c *Cache) Type() string {
	if c.layout == LayoutFlat {
		return string(cache.MethodMetadataFlat)
	}
	return string(cache.MethodMetadataMD5)
}

// PrepareCategory lists the entries of the category. A category the
// repository does not carry is empty, not an error.
func (c *Cache) PrepareCategory(ctx context.Context, name string) error {
	c.catDir = filepath.Join(c.dir, name)
	c.names = nil
	entries, err := os.ReadDir(c.catDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: %v", cache.ErrUnavailable, err)
	}
	for _, e := range entries {
		if e.Type().IsRegular() {
			c.names = append(c.names, e.Name())
		}
	}
	sort.Strings(c.names)
	return nil
}

func (c *Cache) ReadCategory(ctx context.Context, cat *portage.Category) error {
	for _, file := range c.names {
		if err := ctx.Err(); err != nil {
			return err
		}
		pf := strings.TrimSuffix(file, xzSuffix)
		name, version, ok := portage.SplitNameVersion(pf)
		if !ok {
			c.opts.Report("%s: can't split %q into package and version", c.catDir, pf)
			continue
		}
		md, err := c.readEntry(filepath.Join(c.catDir, file))
		if err != nil {
			c.opts.Report("%v", err)
			continue
		}
		if _, err := cache.AddVersion(cat, name, version, c.opts.Overlay, md); err != nil {
			c.opts.Report("%s/%s: %v", cat.Name, pf, err)
		}
	}
	return nil
}

func (c *Cache) readEntry(path string) (cache.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return cache.Metadata{}, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, xzSuffix) {
		xr, err := xz.NewReader(f)
		if err != nil {
			return cache.Metadata{}, fmt.Errorf("%s: %w", path, err)
		}
		r = xr
	}

	var md cache.Metadata
	if c.layout == LayoutFlat {
		md, err = ParseFlat(r)
	} else {
		md, err = ParseMD5(r)
	}
	if err != nil {
		return md, fmt.Errorf("%s: %w", path, err)
	}
	return md, nil
}

func (c *Cache) FinalizeCategory() {
	c.names = nil
}

func (c *Cache) Close() error { return nil }
