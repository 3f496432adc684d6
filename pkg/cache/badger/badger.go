// Package badger reads a binary-indexed metadata cache kept in a badger
// key/value store. Keys are "category/name-version", values are CBOR
// encoded records.
package badger

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"

	"github.com/arc-language/portix/pkg/cache"
	"github.com/arc-language/portix/pkg/portage"
)

const cacheDir = "/var/cache/edb/dep"

// Record is the stored form of one version.
type Record struct {
	Slot        string `cbor:"slot,omitempty"`
	Restrict    string `cbor:"restrict,omitempty"`
	Homepage    string `cbor:"homepage,omitempty"`
	License     string `cbor:"license,omitempty"`
	Description string `cbor:"description,omitempty"`
	Keywords    string `cbor:"keywords,omitempty"`
	IUSE        string `cbor:"iuse,omitempty"`
	Provide     string `cbor:"provide,omitempty"`
	EAPI        string `cbor:"eapi,omitempty"`
}

func (r Record) metadata() cache.Metadata {
	return cache.Metadata{
		Slot:        r.Slot,
		Restrict:    r.Restrict,
		Homepage:    r.Homepage,
		License:     r.License,
		Description: r.Description,
		Keywords:    r.Keywords,
		IUSE:        r.IUSE,
		Provide:     r.Provide,
		EAPI:        r.EAPI,
	}
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("badger cache: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("badger cache: CBOR decoder initialization failed: " + err.Error())
	}
}

// EncodeRecord returns the stored form of r.
func EncodeRecord(r Record) ([]byte, error) {
	return encMode.Marshal(r)
}

// DecodeRecord parses a stored record.
func DecodeRecord(data []byte) (Record, error) {
	var r Record
	err := decMode.Unmarshal(data, &r)
	return r, err
}

// DatabasePath returns the badger directory kept for repo.
func DatabasePath(root, repo string) string {
	return filepath.Join(root, cacheDir, repo) + ".badger"
}

// Cache opens the store on first use and keeps it open until Close.
type Cache struct {
	opts cache.Options
	dir  string
	db   *badger.DB
}

// New returns a reader for the repository in opts.Path.
func New(opts cache.Options) *Cache {
	return &Cache{opts: opts, dir: DatabasePath(opts.Root, opts.Path)}
}

func (c *Cache) Type() string { return string(cache.MethodBadger) }

func (c *Cache) PrepareCategory(ctx context.Context, name string) error {
	if c.db != nil {
		return nil
	}
	opts := badger.DefaultOptions(c.dir).
		WithReadOnly(true).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("%w: open badger cache %s: %v", cache.ErrUnavailable, c.dir, err)
	}
	c.db = db
	c.opts.Log().Debug("badger cache opened", "dir", c.dir)
	return nil
}

func (c *Cache) ReadCategory(ctx context.Context, cat *portage.Category) error {
	if c.db == nil {
		return fmt.Errorf("%w: badger cache %s is not open", cache.ErrUnavailable, c.dir)
	}
	prefix := []byte(cat.Name + "/")
	return c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			cpv := string(item.Key())
			_, name, version, err := cache.SplitCPV(cpv)
			if err != nil {
				c.opts.Report("%s: %v", c.dir, err)
				continue
			}

			var rec Record
			err = item.Value(func(val []byte) error {
				rec, err = DecodeRecord(val)
				return err
			})
			if err != nil {
				c.opts.Report("%s: %s: %v", c.dir, cpv, err)
				continue
			}
			if _, err := cache.AddVersion(cat, name, version, c.opts.Overlay, rec.metadata()); err != nil {
				c.opts.Report("%s: %v", cpv, err)
			}
		}
		return nil
	})
}

func (c *Cache) FinalizeCategory() {}

func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}
