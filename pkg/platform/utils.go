// pkg/platform/utils.go
package platform

import (
	"os/exec"
	"strings"
)

// commandExists checks if a command is available in PATH
func commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// IsKnownKeyword reports whether kw, with any ~ or - prefix removed, is an
// arch keyword of a supported platform.
func IsKnownKeyword(kw string) bool {
	kw = strings.TrimLeft(kw, "~-")
	if kw == "*" {
		return true
	}
	base, _, _ := strings.Cut(kw, "-")
	for _, known := range keywords {
		if known == base {
			return true
		}
	}
	return false
}
