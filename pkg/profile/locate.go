package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoProfile is returned when no profile directory can be located.
var ErrNoProfile = errors.New("no profile found")

// profileLinks are tried in order below the configuration root.
var profileLinks = []string{
	"etc/portage/make.profile",
	"etc/make.profile",
}

// Locate finds the profile root. An explicit override wins; next the
// PORTAGE_PROFILE setting, taken relative to root; last the make.profile
// symlink, whose relative target is resolved against the link's
// directory.
func Locate(override string, settings *Settings, root string) (string, error) {
	if override != "" {
		return override, nil
	}
	if root == "" {
		root = "/"
	}
	if settings != nil {
		if p := settings.Get("PORTAGE_PROFILE"); p != "" {
			return filepath.Join(root, p), nil
		}
	}
	for _, link := range profileLinks {
		path := filepath.Join(root, link)
		target, err := os.Readlink(path)
		if err != nil {
			continue
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		return target, nil
	}
	return "", fmt.Errorf("%w below %s", ErrNoProfile, root)
}

// ListAddProfile locates the profile root and adds it with all its
// ancestors. Every failure wraps ErrNoProfile.
func (c *CascadingProfile) ListAddProfile(override string, settings *Settings, root string) error {
	dir, err := Locate(override, settings, root)
	if err != nil {
		return err
	}
	if err := c.AddProfile(dir); err != nil {
		return fmt.Errorf("%w: %v", ErrNoProfile, err)
	}
	return nil
}
