// pkg/registry/registry.go
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrNotFound is returned by Load for an unknown overlay.
var ErrNotFound = errors.New("registry: overlay not found")

// Entry represents a single <repos_dir>/<name>.toml file
type Entry struct {
	Name        string `toml:"name"`
	Location    string `toml:"location"`
	CacheMethod string `toml:"cache_method"`
	Priority    int    `toml:"priority"`
	SyncURI     string `toml:"sync_uri"`
	Branch      string `toml:"branch"`
}

// Registry provides lookup into the overlay descriptor directory
type Registry struct {
	dir string
}

// New creates a Registry pointed at the descriptor directory
func New(dir string) *Registry {
	return &Registry{dir: dir}
}

// Dir returns the descriptor directory.
func (r *Registry) Dir() string { return r.dir }

// Load reads and parses <name>.toml.
func (r *Registry) Load(name string) (*Entry, error) {
	path := filepath.Join(r.dir, name+".toml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return decode(path)
}

// List returns every descriptor ordered by priority, then name. A missing
// directory means no overlays.
func (r *Registry) List() ([]*Entry, error) {
	files, err := filepath.Glob(filepath.Join(r.dir, "*.toml"))
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(files))
	for _, path := range files {
		entry, err := decode(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority < entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

func decode(path string) (*Entry, error) {
	var entry Entry
	if _, err := toml.DecodeFile(path, &entry); err != nil {
		return nil, fmt.Errorf("registry: failed to parse '%s': %w", filepath.Base(path), err)
	}
	if entry.Name == "" {
		entry.Name = strings.TrimSuffix(filepath.Base(path), ".toml")
	}
	if entry.Location == "" {
		return nil, fmt.Errorf("registry: overlay '%s' has no location", entry.Name)
	}
	return &entry, nil
}
