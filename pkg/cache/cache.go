// Package cache defines how portix reads package metadata from a
// repository, and the helpers shared by the cache backends.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/arc-language/portix/pkg/logging"
	"github.com/arc-language/portix/pkg/portage"
)

// Method names a cache backend.
type Method string

const (
	// MethodSqlite reads portage's sqlite dependency cache
	MethodSqlite Method = "sqlite"
	// MethodMetadataMD5 reads metadata/md5-cache KEY=value files
	MethodMetadataMD5 Method = "metadata-md5"
	// MethodMetadataFlat reads positional metadata/cache files
	MethodMetadataFlat Method = "metadata-flat"
	// MethodBadger reads a badger key/value cache
	MethodBadger Method = "badger"
	// MethodEbuild parses the ebuilds themselves
	MethodEbuild Method = "ebuild"
	// MethodNone is an alias of MethodEbuild
	MethodNone Method = "none"
)

var (
	// ErrUnknownMethod is returned for a cache method nobody implements.
	ErrUnknownMethod = errors.New("unknown cache method")

	// ErrUnavailable is returned when a backend cannot reach its data.
	ErrUnavailable = errors.New("cache unavailable")
)

// ErrorCallback receives non-fatal errors such as a malformed entry.
type ErrorCallback func(msg string)

// Options configures a backend for one repository.
type Options struct {
	// Root is prepended to system locations such as /var/cache/edb.
	Root string
	// Path is the repository directory.
	Path string
	// Overlay is the id stamped on every version read.
	Overlay portage.OverlayID

	ErrorCallback ErrorCallback
	Logger        *log.Logger
}

// Log returns the configured logger or a discarding one.
func (o *Options) Log() *log.Logger {
	return logging.OrDiscard(o.Logger)
}

// Report logs a non-fatal error and passes it to the callback.
func (o *Options) Report(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	o.Log().Warn(msg)
	if o.ErrorCallback != nil {
		o.ErrorCallback(msg)
	}
}

// Cache reads the packages of one repository category by category.
// PrepareCategory is called before ReadCategory for the same name and
// FinalizeCategory after it.
type Cache interface {
	Type() string
	PrepareCategory(ctx context.Context, name string) error
	ReadCategory(ctx context.Context, cat *portage.Category) error
	FinalizeCategory()
	Close() error
}

// Metadata is what a backend knows about one version.
type Metadata struct {
	Slot        string
	Restrict    string
	Homepage    string
	License     string
	Description string
	Keywords    string
	IUSE        string
	Provide     string
	EAPI        string
}

// AddVersion creates version of package name in cat from md. Package
// wide data is taken only if the version is the newest one.
func AddVersion(cat *portage.Category, name, version string, overlay portage.OverlayID, md Metadata) (*portage.Version, error) {
	v, err := portage.NewVersion(version)
	if err != nil {
		return nil, err
	}
	v.Overlay = overlay
	v.SetSlot(md.Slot)
	v.SetRestrict(md.Restrict)
	v.SetKeywords(md.Keywords)
	v.SetIUSE(md.IUSE)

	p := cat.AddPackage(name)
	p.AddVersion(v)
	p.SetCommonInfo(v, portage.CommonInfo{
		Description: md.Description,
		Homepage:    md.Homepage,
		Licenses:    md.License,
		Provide:     md.Provide,
	})
	return v, nil
}

// SplitCPV splits "category/name-version".
func SplitCPV(cpv string) (category, name, version string, err error) {
	i := strings.IndexByte(cpv, '/')
	if i <= 0 {
		return "", "", "", fmt.Errorf("%q not of the form category/package-version", cpv)
	}
	name, version, ok := portage.SplitNameVersion(cpv[i+1:])
	if !ok {
		return "", "", "", fmt.Errorf("can't split %q into package and version", cpv[i+1:])
	}
	return cpv[:i], name, version, nil
}
