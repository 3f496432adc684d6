// Package sqlite reads portage's sqlite dependency cache
// (<root>/var/cache/edb/dep<repo>.sqlite).
package sqlite

import (
	"context"
	"fmt"
	"path/filepath"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/arc-language/portix/pkg/cache"
	"github.com/arc-language/portix/pkg/portage"
)

const cacheDir = "/var/cache/edb/dep"

// Column positions in portage_packages.
const (
	colKey         = 1
	colSlot        = 6
	colRestrict    = 8
	colHomepage    = 9
	colLicense     = 10
	colDescription = 11
	colKeywords    = 12
	colIUSE        = 14
	colProvide     = 17
	colEAPI        = 18
)

type entry struct {
	name    string
	version string
	md      cache.Metadata
}

// Cache reads the whole table once, on the first PrepareCategory, and
// hands out the rows category by category.
type Cache struct {
	opts cache.Options
	file string

	loaded bool
	err    error
	rows   map[string][]entry
}

// New returns a reader for the repository in opts.Path.
func New(opts cache.Options) *Cache {
	return &Cache{opts: opts, file: DatabasePath(opts.Root, opts.Path)}
}

// DatabasePath returns the sqlite file portage keeps for repo.
func DatabasePath(root, repo string) string {
	return filepath.Join(root, cacheDir, repo) + ".sqlite"
}

func (c *Cache) Type() string { return string(cache.MethodSqlite) }

func (c *Cache) PrepareCategory(ctx context.Context, name string) error {
	if !c.loaded {
		c.loaded = true
		c.err = c.load(ctx)
	}
	return c.err
}

func (c *Cache) load(ctx context.Context) error {
	conn, err := sqlite.OpenConn(c.file, sqlite.OpenReadOnly)
	if err != nil {
		return fmt.Errorf("%w: can't open cache file %s: %v", cache.ErrUnavailable, c.file, err)
	}
	defer conn.Close()
	conn.SetInterrupt(ctx.Done())

	c.rows = make(map[string][]entry)
	err = sqlitex.ExecuteTransient(conn, "SELECT * FROM portage_packages", &sqlitex.ExecOptions{
		ResultFunc: c.addRow,
	})
	if err != nil {
		c.rows = nil
		return fmt.Errorf("sqlite error in %s: %w", c.file, err)
	}
	c.opts.Log().Debug("sqlite cache loaded", "file", c.file, "categories", len(c.rows))
	return nil
}

// addRow aborts the query on rows that show the table has the wrong
// layout; a single row that cannot be split is only reported.
func (c *Cache) addRow(stmt *sqlite.Stmt) error {
	n := stmt.ColumnCount()
	if n <= colKey {
		return fmt.Errorf("dataset does not contain a package name")
	}
	cpv := stmt.ColumnText(colKey)
	if n <= colProvide {
		return fmt.Errorf("dataset for %s is too small", cpv)
	}
	category, name, version, err := cache.SplitCPV(cpv)
	if err != nil {
		c.opts.Report("%s: %v", c.file, err)
		return nil
	}

	md := cache.Metadata{
		Slot:        stmt.ColumnText(colSlot),
		Restrict:    stmt.ColumnText(colRestrict),
		Homepage:    stmt.ColumnText(colHomepage),
		License:     stmt.ColumnText(colLicense),
		Description: stmt.ColumnText(colDescription),
		Keywords:    stmt.ColumnText(colKeywords),
		IUSE:        stmt.ColumnText(colIUSE),
		Provide:     stmt.ColumnText(colProvide),
	}
	if n > colEAPI {
		md.EAPI = stmt.ColumnText(colEAPI)
	}
	c.rows[category] = append(c.rows[category], entry{name: name, version: version, md: md})
	return nil
}

func (c *Cache) ReadCategory(ctx context.Context, cat *portage.Category) error {
	if c.err != nil {
		return c.err
	}
	for _, e := range c.rows[cat.Name] {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := cache.AddVersion(cat, e.name, e.version, c.opts.Overlay, e.md); err != nil {
			c.opts.Report("%s/%s-%s: %v", cat.Name, e.name, e.version, err)
		}
	}
	return nil
}

// FinalizeCategory is a no-op; rows are kept until Close so a category
// may be read again.
func (c *Cache) FinalizeCategory() {}

func (c *Cache) Close() error {
	c.rows = nil
	return nil
}
