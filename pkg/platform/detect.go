// pkg/platform/detect.go
package platform

import (
	"fmt"
	"runtime"
)

// Platform represents the detected system platform
type Platform struct {
	OS      string // linux, darwin, freebsd
	Arch    string // GOARCH
	Keyword string // Gentoo arch keyword, e.g. amd64 or x86
	Portage bool   // emerge found in PATH
}

// keywords maps GOARCH to the Gentoo arch keyword.
var keywords = map[string]string{
	"amd64":    "amd64",
	"386":      "x86",
	"arm64":    "arm64",
	"arm":      "arm",
	"ppc64":    "ppc64",
	"ppc64le":  "ppc64",
	"ppc":      "ppc",
	"riscv64":  "riscv",
	"loong64":  "loong",
	"mips":     "mips",
	"mipsle":   "mips",
	"mips64":   "mips",
	"mips64le": "mips",
	"s390x":    "s390",
	"sparc64":  "sparc",
}

// Detect detects the current platform
func Detect() (*Platform, error) {
	return detect(runtime.GOOS, runtime.GOARCH)
}

func detect(goos, goarch string) (*Platform, error) {
	p := &Platform{
		OS:      goos,
		Arch:    goarch,
		Portage: commandExists("emerge"),
	}

	kw, ok := keywords[goarch]
	if !ok {
		return nil, fmt.Errorf("unsupported architecture: %s", goarch)
	}

	// Prefix keywords carry the kernel for non-Linux hosts.
	switch goos {
	case "linux":
		p.Keyword = kw
	case "darwin":
		p.Keyword = kw + "-macos"
	case "freebsd", "netbsd", "openbsd", "solaris":
		p.Keyword = kw + "-" + goos
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", goos)
	}

	return p, nil
}

// AcceptKeywords returns the default ACCEPT_KEYWORDS for the platform.
// With unstable set the ~ form is accepted as well.
func (p *Platform) AcceptKeywords(unstable bool) []string {
	if !unstable {
		return []string{p.Keyword}
	}
	return []string{p.Keyword, "~" + p.Keyword}
}

// String returns a string representation of the platform
func (p *Platform) String() string {
	return fmt.Sprintf("%s/%s (keyword: %s, portage: %v)",
		p.OS, p.Arch, p.Keyword, p.Portage)
}
