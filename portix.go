// portix.go
package portix

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/arc-language/portix/pkg/cache"
	"github.com/arc-language/portix/pkg/cache/badger"
	"github.com/arc-language/portix/pkg/cache/ebuild"
	"github.com/arc-language/portix/pkg/cache/metadata"
	"github.com/arc-language/portix/pkg/cache/sqlite"
	"github.com/arc-language/portix/pkg/core"
	"github.com/arc-language/portix/pkg/logging"
	"github.com/arc-language/portix/pkg/platform"
	"github.com/arc-language/portix/pkg/portage"
	"github.com/arc-language/portix/pkg/profile"
	"github.com/arc-language/portix/pkg/registry"
	"github.com/arc-language/portix/pkg/vardb"
)

// Re-export core types for convenience
type (
	Config        = core.Config
	Package       = portage.Package
	Version       = portage.Version
	OverlayEntry  = registry.Entry
	ErrorCallback = func(msg string)
)

// Overlay is a repository taking part in the index. The main repository
// is always ID 0.
type Overlay struct {
	ID     portage.OverlayID
	Name   string
	Path   string
	Method cache.Method
}

// Option configures Open.
type Option func(*Index)

// WithLogger sets the logger; the default discards.
func WithLogger(l *log.Logger) Option {
	return func(ix *Index) { ix.logger = l }
}

// WithErrorCallback receives every non-fatal problem found while loading.
func WithErrorCallback(cb ErrorCallback) Option {
	return func(ix *Index) { ix.onError = cb }
}

// Index is the loaded package tree with keywords and masks applied.
type Index struct {
	cfg     *core.Config
	logger  *log.Logger
	onError ErrorCallback

	overlays []Overlay
	tree     *portage.PackageTree
	profile  *profile.CascadingProfile
	settings *profile.Settings
	files    []string
	accept   []string
	db       *vardb.DB
}

// NewCache returns the backend for method.
func NewCache(method cache.Method, opts cache.Options) (cache.Cache, error) {
	switch method {
	case cache.MethodSqlite:
		return sqlite.New(opts), nil
	case cache.MethodMetadataMD5:
		return metadata.New(opts, metadata.LayoutMD5), nil
	case cache.MethodMetadataFlat:
		return metadata.New(opts, metadata.LayoutFlat), nil
	case cache.MethodBadger:
		return badger.New(opts), nil
	case cache.MethodEbuild, cache.MethodNone:
		return ebuild.New(opts, method), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCacheMethod, method)
	}
}

// Open reads every overlay, resolves the profile and applies keywords and
// masks to the whole tree.
func Open(ctx context.Context, cfg *Config, opts ...Option) (*Index, error) {
	if cfg == nil {
		cfg = core.DefaultConfig()
	}
	ix := &Index{
		cfg:  cfg,
		tree: portage.NewPackageTree(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	ix.logger = logging.OrDiscard(ix.logger)
	ix.db = vardb.New(cfg.RootPath(cfg.VarDB), ix.logger)

	if err := ix.loadOverlays(); err != nil {
		return nil, &Error{Op: "open", Err: err}
	}
	if err := ix.readTree(ctx); err != nil {
		return nil, &Error{Op: "open", Err: err}
	}
	ix.readProfile()
	ix.accept = ix.acceptKeywords()

	portage.UpgradeToBest = cfg.UpgradeToBest
	ix.tree.Walk(func(p *portage.Package) {
		p.ApplyKeywords(ix.accept)
		ix.profile.ApplyMasks(p)
	})
	ix.logger.Info("index loaded",
		"packages", ix.tree.Len(),
		"overlays", len(ix.overlays),
		"accept_keywords", strings.Join(ix.accept, " "))
	return ix, nil
}

func (ix *Index) report(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	ix.logger.Warn(msg)
	if ix.onError != nil {
		ix.onError(msg)
	}
}

func (ix *Index) loadOverlays() error {
	ix.overlays = []Overlay{{
		ID:     0,
		Name:   repoName(ix.cfg.RootPath(ix.cfg.Portdir), "gentoo"),
		Path:   ix.cfg.RootPath(ix.cfg.Portdir),
		Method: cache.Method(ix.cfg.CacheMethod),
	}}
	if ix.cfg.ReposDir == "" {
		return nil
	}
	entries, err := registry.New(ix.cfg.ReposDir).List()
	if err != nil {
		return err
	}
	for i, e := range entries {
		method := cache.Method(e.CacheMethod)
		if method == "" {
			method = cache.MethodEbuild
		}
		ix.overlays = append(ix.overlays, Overlay{
			ID:     portage.OverlayID(i + 1),
			Name:   e.Name,
			Path:   e.Location,
			Method: method,
		})
	}
	return nil
}

func (ix *Index) readTree(ctx context.Context) error {
	lists := make([][]string, 0, len(ix.overlays))
	for _, o := range ix.overlays {
		cats, err := readCategories(o.Path)
		if err != nil {
			ix.report("%s: reading categories: %v", o.Name, err)
			continue
		}
		lists = append(lists, cats)
	}
	categories := mergeCategories(lists...)

	for _, o := range ix.overlays {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := ix.readOverlay(ctx, o, categories); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			ix.report("%s: %v", o.Name, err)
		}
	}

	if n := ix.tree.Prune(); n > 0 {
		ix.logger.Debug("dropped empty categories", "count", n)
	}
	return nil
}

func (ix *Index) readOverlay(ctx context.Context, o Overlay, categories []string) error {
	c, err := NewCache(o.Method, cache.Options{
		Root:          ix.cfg.Root,
		Path:          o.Path,
		Overlay:       o.ID,
		ErrorCallback: ix.onError,
		Logger:        ix.logger.With("overlay", o.Name),
	})
	if err != nil {
		return err
	}
	defer c.Close()

	ix.logger.Debug("reading overlay", "overlay", o.Name, "path", o.Path, "method", c.Type())
	for _, name := range categories {
		if err := c.PrepareCategory(ctx, name); err != nil {
			if errors.Is(err, ErrCacheUnavailable) {
				return err
			}
			ix.report("%s: %s: %v", o.Name, name, err)
			continue
		}
		cat := ix.tree.Insert(name)
		err := c.ReadCategory(ctx, cat)
		c.FinalizeCategory()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			ix.report("%s: %s: %v", o.Name, name, err)
		}
	}
	return nil
}

// readProfile resolves the profile chain. make.conf is read once to find
// PORTAGE_PROFILE and again after make.defaults so it overrides them.
func (ix *Index) readProfile() {
	ix.profile = profile.New(
		profile.WithLogger(ix.logger),
		profile.WithErrorCallback(ix.onError),
	)
	ix.settings = profile.NewSettings()

	makeConf := ix.cfg.RootPath(ix.cfg.MakeConf)
	conf := profile.NewSettings()
	if makeConf != "" {
		if err := conf.ReadFile(makeConf); err != nil {
			ix.logger.Debug("make.conf not read", "path", makeConf, "err", err)
			makeConf = ""
		}
	}
	if ix.cfg.PortageProfile != "" {
		conf.Set("PORTAGE_PROFILE", ix.cfg.PortageProfile)
	}

	if err := ix.profile.ListAddProfile(ix.cfg.Profile, conf, ix.cfg.Root); err != nil {
		ix.report("%v; continuing without profile", err)
	}
	ix.profile.ReadMakeDefaults(ix.settings)
	if makeConf != "" {
		if err := ix.settings.ReadFile(makeConf); err != nil {
			ix.report("%s: %v", makeConf, err)
		}
	}
	ix.files = ix.profile.ProfileFiles()
	ix.profile.ReadRemoveFiles()
}

// acceptKeywords prefers the configuration, then ACCEPT_KEYWORDS from the
// settings, then the host keyword.
func (ix *Index) acceptKeywords() []string {
	if len(ix.cfg.AcceptKeywords) > 0 {
		return incremental(ix.cfg.AcceptKeywords)
	}
	if kw := ix.settings.Fields("ACCEPT_KEYWORDS"); len(kw) > 0 {
		return incremental(kw)
	}
	if arch := ix.settings.Get("ARCH"); arch != "" {
		return []string{arch}
	}
	p, err := platform.Detect()
	if err != nil {
		ix.report("no keywords accepted: %v", err)
		return nil
	}
	return p.AcceptKeywords(false)
}

// incremental resolves "-kw" and "-*" removals left to right.
func incremental(tokens []string) []string {
	var out []string
	for _, tok := range tokens {
		switch {
		case tok == "-*":
			out = out[:0]
		case strings.HasPrefix(tok, "-") && len(tok) > 1:
			kept := out[:0]
			for _, o := range out {
				if o != tok[1:] {
					kept = append(kept, o)
				}
			}
			out = kept
		default:
			dup := false
			for _, o := range out {
				dup = dup || o == tok
			}
			if !dup {
				out = append(out, tok)
			}
		}
	}
	return out
}

// Tree returns the loaded package tree.
func (ix *Index) Tree() *portage.PackageTree { return ix.tree }

// Profile returns the resolved profile.
func (ix *Index) Profile() *profile.CascadingProfile { return ix.profile }

// ProfileFiles returns the files of the profile chain, root profile first.
func (ix *Index) ProfileFiles() []string { return ix.files }

// Settings returns make.defaults and make.conf merged in reading order.
func (ix *Index) Settings() *profile.Settings { return ix.settings }

// AcceptKeywords returns the keywords versions were stamped with.
func (ix *Index) AcceptKeywords() []string { return ix.accept }

// Overlays returns the repositories in ID order.
func (ix *Index) Overlays() []Overlay { return ix.overlays }

// VarDB returns the installed package database.
func (ix *Index) VarDB() *vardb.DB { return ix.db }

// Package looks up "category/name" or a bare name that exists in exactly
// one category.
func (ix *Index) Package(name string) (*Package, error) {
	if cat, pn, ok := strings.Cut(name, "/"); ok {
		if p := ix.tree.FindPackage(cat, pn); p != nil {
			return p, nil
		}
		return nil, &Error{Op: "lookup", Package: name, Err: ErrPackageNotFound}
	}

	var found []*Package
	for _, cat := range ix.tree.Categories() {
		if p := cat.FindPackage(name); p != nil {
			found = append(found, p)
		}
	}
	switch len(found) {
	case 0:
		return nil, &Error{Op: "lookup", Package: name, Err: ErrPackageNotFound}
	case 1:
		return found[0], nil
	}
	names := make([]string, len(found))
	for i, p := range found {
		names[i] = p.FullName()
	}
	return nil, &Error{
		Op:      "lookup",
		Package: name,
		Err:     fmt.Errorf("%w: %s", ErrAmbiguousPackage, strings.Join(names, ", ")),
	}
}

// Match selects what Search tests a pattern against.
type Match uint8

const (
	MatchName Match = 1 << iota
	MatchCategory
	MatchDescription
)

// Search returns the packages matching pattern, in tree order. A pattern
// containing *, ? or [ is a case-insensitive glob that must match the
// whole field; anything else is a case-insensitive substring. An empty
// pattern matches everything.
func (ix *Index) Search(pattern string, match Match) ([]*Package, error) {
	if match == 0 {
		match = MatchName
	}
	pattern = strings.ToLower(pattern)
	glob := strings.ContainsAny(pattern, "*?[")
	if glob {
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, &Error{Op: "search", Err: err}
		}
	}
	matches := func(field string) bool {
		field = strings.ToLower(field)
		if glob {
			ok, _ := path.Match(pattern, field)
			return ok
		}
		return strings.Contains(field, pattern)
	}

	var out []*Package
	ix.tree.Walk(func(p *Package) {
		switch {
		case match&MatchName != 0 && matches(p.Name),
			match&MatchCategory != 0 && matches(p.FullName()),
			match&MatchDescription != 0 && matches(p.Desc):
			out = append(out, p)
		}
	})
	return out, nil
}

// Upgrade is an installed package whose versions differ from the best
// acceptable ones.
type Upgrade struct {
	Package   *Package
	Installed []*portage.InstVersion
	Best      []*Version
	Upgrade   bool
	Downgrade bool
}

// Upgrades compares every installed package with the tree. Installed
// packages the tree does not know are skipped.
func (ix *Index) Upgrades(ctx context.Context) ([]Upgrade, error) {
	installed, err := ix.db.Packages()
	if err != nil {
		return nil, &Error{Op: "upgrades", Err: err}
	}
	var out []Upgrade
	for _, full := range installed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cat, name, _ := strings.Cut(full, "/")
		p := ix.tree.FindPackage(cat, name)
		if p == nil {
			ix.logger.Debug("installed package not in tree", "package", full)
			continue
		}
		u := Upgrade{
			Package:   p,
			Upgrade:   p.CanUpgrade(ix.db, true, true),
			Downgrade: p.MustDowngrade(ix.db, true),
		}
		if !u.Upgrade && !u.Downgrade {
			continue
		}
		u.Installed, _ = ix.db.InstalledVersions(p)
		u.Best = p.BestSlots(false)
		out = append(out, u)
	}
	return out, nil
}
