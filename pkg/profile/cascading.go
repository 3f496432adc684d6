// Package profile resolves a cascading Gentoo profile: the chain of
// profile directories linked by parent files, the package lists they
// carry, and the make.defaults settings.
package profile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/arc-language/portix/pkg/logging"
	"github.com/arc-language/portix/pkg/portage"
)

const (
	parentFile       = "parent"
	packagesFile     = "packages"
	packageMaskFile  = "package.mask"
	makeDefaultsFile = "make.defaults"
)

// ErrorCallback receives non-fatal problems such as malformed lines.
type ErrorCallback func(msg string)

// Option configures a CascadingProfile.
type Option func(*CascadingProfile)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *CascadingProfile) { c.logger = l }
}

// WithErrorCallback sets the callback for per-line and per-file errors.
func WithErrorCallback(cb ErrorCallback) Option {
	return func(c *CascadingProfile) { c.onError = cb }
}

// CascadingProfile collects the files of a profile chain and turns them
// into three mask lists: system packages, packages allowed by the
// profile, and package.mask entries.
type CascadingProfile struct {
	logger  *log.Logger
	onError ErrorCallback

	files    []string
	visiting map[string]bool

	system  *portage.MaskList
	allowed *portage.MaskList
	masks   *portage.MaskList
}

// New returns an empty profile.
func New(opts ...Option) *CascadingProfile {
	c := &CascadingProfile{
		visiting: make(map[string]bool),
		system:   portage.NewMaskList(),
		allowed:  portage.NewMaskList(),
		masks:    portage.NewMaskList(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrDiscard(c.logger)
	return c
}

func (c *CascadingProfile) report(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.logger.Warn(msg)
	if c.onError != nil {
		c.onError(msg)
	}
}

// AddProfile adds dir and, first, every ancestor named in its parent
// file. Parent entries are relative to the directory holding the parent
// file. A parent chain that loops back on itself is reported and cut.
func (c *CascadingProfile) AddProfile(dir string) error {
	dir = filepath.Clean(dir)
	fi, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("profile %s: %w", dir, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("profile %s: not a directory", dir)
	}

	key, err := filepath.EvalSymlinks(dir)
	if err != nil {
		key = dir
	}
	if c.visiting[key] {
		c.report("%s: parent cycle detected", dir)
		return nil
	}
	c.visiting[key] = true
	defer delete(c.visiting, key)

	parents, err := readLines(filepath.Join(dir, parentFile))
	if err != nil && !os.IsNotExist(err) {
		c.report("%s: %v", filepath.Join(dir, parentFile), err)
	}
	for _, p := range parents {
		if !filepath.IsAbs(p.text) {
			p.text = filepath.Join(dir, p.text)
		}
		if err := c.AddProfile(p.text); err != nil {
			c.report("%s:%d: %v", filepath.Join(dir, parentFile), p.num, err)
		}
	}

	c.logger.Debug("adding profile", "dir", dir)
	return c.addFiles(dir)
}

// addFiles appends the regular files of dir except the parent file, in
// name order.
func (c *CascadingProfile) addFiles(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("profile %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name() == parentFile || e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		c.files = append(c.files, filepath.Join(dir, name))
	}
	return nil
}

// ProfileFiles returns the collected files, ancestors first.
func (c *CascadingProfile) ProfileFiles() []string {
	out := make([]string, len(c.files))
	copy(out, c.files)
	return out
}

// ReadMakeDefaults merges every collected make.defaults into settings in
// chain order, so deeper profiles override their ancestors. It must run
// before ReadRemoveFiles, which consumes the file list.
func (c *CascadingProfile) ReadMakeDefaults(settings *Settings) {
	for _, f := range c.files {
		if filepath.Base(f) != makeDefaultsFile {
			continue
		}
		if err := settings.ReadFile(f); err != nil {
			c.report("%v", err)
		}
	}
}

// ReadRemoveFiles reads the collected packages and package.mask files
// into the mask lists and clears the file list. Lines starting with '-'
// remove a previously added entry. Malformed lines are reported and
// skipped. It reports whether any list changed.
func (c *CascadingProfile) ReadRemoveFiles() bool {
	changed := false
	for _, f := range c.files {
		var handler func(line string) (bool, error)
		switch filepath.Base(f) {
		case packagesFile:
			handler = c.readPackages
		case packageMaskFile:
			handler = c.readPackageMasks
		default:
			continue
		}

		lines, err := readLines(f)
		if err != nil {
			c.report("%s: %v", f, err)
			continue
		}
		for _, l := range lines {
			ok, err := handler(l.text)
			if err != nil {
				c.report("%s:%d: %v", f, l.num, err)
				continue
			}
			if ok {
				changed = true
			}
		}
	}
	c.files = nil
	return changed
}

// readPackages handles one line of a packages file. "*atom" is a system
// package, anything else is allowed by the profile.
func (c *CascadingProfile) readPackages(line string) (bool, error) {
	remove := strings.HasPrefix(line, "-")
	if remove {
		line = line[1:]
	}

	kind, list := portage.MaskAllowedByProfile, c.allowed
	if strings.HasPrefix(line, "*") {
		line = line[1:]
		kind, list = portage.MaskInSystem, c.system
	}

	m, err := portage.NewMask(line, kind)
	if err != nil {
		return false, err
	}
	if remove {
		return list.Remove(m), nil
	}
	return list.Add(m), nil
}

func (c *CascadingProfile) readPackageMasks(line string) (bool, error) {
	if strings.HasPrefix(line, "-") {
		m, err := portage.NewMask(line[1:], portage.MaskMask)
		if err != nil {
			return false, err
		}
		return c.masks.Remove(m), nil
	}
	m, err := portage.NewMask(line, portage.MaskMask)
	if err != nil {
		return false, err
	}
	return c.masks.Add(m), nil
}

// SystemPackages returns the system set.
func (c *CascadingProfile) SystemPackages() *portage.MaskList { return c.system }

// AllowedPackages returns the packages allowed by the profile.
func (c *CascadingProfile) AllowedPackages() *portage.MaskList { return c.allowed }

// PackageMasks returns the package.mask entries.
func (c *CascadingProfile) PackageMasks() *portage.MaskList { return c.masks }

// ApplyMasks recomputes the mask flags of every version of p from
// scratch: allowed packages first, then the system set, then
// package.mask. Calling it twice gives the same result.
func (c *CascadingProfile) ApplyMasks(p *portage.Package) {
	for _, v := range p.Versions() {
		v.MaskFlags = portage.MaskNone
	}
	c.allowed.ApplyMasks(p)
	c.system.ApplyMasks(p)
	c.masks.ApplyMasks(p)
	p.UpdateSystemFlag()
}

type numberedLine struct {
	num  int
	text string
}

// readLines returns the trimmed lines of path, skipping blanks and
// comments.
func readLines(path string) ([]numberedLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []numberedLine
	scanner := bufio.NewScanner(f)
	num := 0
	for scanner.Scan() {
		num++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		lines = append(lines, numberedLine{num: num, text: text})
	}
	return lines, scanner.Err()
}
