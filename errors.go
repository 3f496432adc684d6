// errors.go
package portix

import (
	"errors"
	"fmt"

	"github.com/arc-language/portix/pkg/cache"
	"github.com/arc-language/portix/pkg/portage"
	"github.com/arc-language/portix/pkg/profile"
)

var (
	// ErrPackageNotFound indicates the package is not in the tree
	ErrPackageNotFound = errors.New("package not found")

	// ErrAmbiguousPackage indicates a bare name exists in several categories
	ErrAmbiguousPackage = errors.New("ambiguous package name")

	// ErrNoProfile indicates no profile directory could be located
	ErrNoProfile = profile.ErrNoProfile

	// ErrInvalidAtom indicates a malformed package atom
	ErrInvalidAtom = portage.ErrInvalidAtom

	// ErrInvalidVersion indicates a malformed version string
	ErrInvalidVersion = portage.ErrInvalidVersion

	// ErrUnknownCacheMethod indicates a cache method no backend implements
	ErrUnknownCacheMethod = cache.ErrUnknownMethod

	// ErrCacheUnavailable indicates a backend could not reach its data
	ErrCacheUnavailable = cache.ErrUnavailable
)

// Error wraps an error with additional context
type Error struct {
	Op      string // Operation that failed
	Package string // Package name if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
