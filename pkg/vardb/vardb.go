// Package vardb reads the installed package database, one directory per
// installed version: <root>/var/db/pkg/<category>/<name>-<version>/.
package vardb

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/arc-language/portix/pkg/logging"
	"github.com/arc-language/portix/pkg/portage"
)

// DefaultDir is the database location below the root.
const DefaultDir = "/var/db/pkg"

// DB reads categories lazily and keeps what it read.
type DB struct {
	dir    string
	logger *log.Logger

	categories map[string]map[string][]*portage.InstVersion
}

// New returns a reader for dir. A nil logger discards.
func New(dir string, logger *log.Logger) *DB {
	return &DB{
		dir:        dir,
		logger:     logging.OrDiscard(logger),
		categories: make(map[string]map[string][]*portage.InstVersion),
	}
}

// Dir returns the database directory.
func (db *DB) Dir() string { return db.dir }

// InstalledVersions returns the installed versions of p, smallest first.
func (db *DB) InstalledVersions(p *portage.Package) ([]*portage.InstVersion, error) {
	return db.Installed(p.Category, p.Name)
}

// Installed returns the installed versions of category/name.
func (db *DB) Installed(category, name string) ([]*portage.InstVersion, error) {
	pkgs, err := db.readCategory(category)
	if err != nil {
		return nil, err
	}
	return pkgs[name], nil
}

// Packages returns "category/name" of every installed package, sorted.
func (db *DB) Packages() ([]string, error) {
	entries, err := os.ReadDir(db.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pkgs, err := db.readCategory(e.Name())
		if err != nil {
			return nil, err
		}
		for name := range pkgs {
			out = append(out, e.Name()+"/"+name)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (db *DB) readCategory(category string) (map[string][]*portage.InstVersion, error) {
	if pkgs, ok := db.categories[category]; ok {
		return pkgs, nil
	}

	pkgs := make(map[string][]*portage.InstVersion)
	dir := filepath.Join(db.dir, category)
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading installed category %s: %w", category, err)
	}
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), "-MERGING-") {
			continue
		}
		name, version, ok := portage.SplitNameVersion(e.Name())
		if !ok {
			db.logger.Warn("skipping installed entry", "category", category, "entry", e.Name())
			continue
		}
		iv, err := portage.NewInstVersion(version)
		if err != nil {
			db.logger.Warn("skipping installed entry", "category", category, "entry", e.Name(), "err", err)
			continue
		}
		iv.Slot = readValue(filepath.Join(dir, e.Name(), "SLOT"))
		if i := strings.IndexByte(iv.Slot, '/'); i >= 0 {
			iv.Slot = iv.Slot[:i]
		}
		iv.Repository = readValue(filepath.Join(dir, e.Name(), "repository"))
		pkgs[name] = append(pkgs[name], iv)
	}
	for _, list := range pkgs {
		sort.Slice(list, func(i, j int) bool { return list[i].Compare(list[j].BasicVersion) < 0 })
	}

	db.categories[category] = pkgs
	db.logger.Debug("read installed category", "category", category, "packages", len(pkgs))
	return pkgs, nil
}

// readValue returns the trimmed file content, "" if it cannot be read.
func readValue(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
