// pkg/portage/errors.go
package portage

import "errors"

var (
	// ErrInvalidVersion indicates a version string outside the ebuild grammar
	ErrInvalidVersion = errors.New("invalid version")

	// ErrInvalidAtom indicates a malformed package atom
	ErrInvalidAtom = errors.New("invalid atom")
)
