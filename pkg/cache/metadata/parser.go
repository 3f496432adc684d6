package metadata

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/arc-language/portix/pkg/cache"
)

// Line numbers (0-based) of the positional flat layout.
const (
	flatSlot        = 2
	flatRestrict    = 4
	flatHomepage    = 5
	flatLicense     = 6
	flatDescription = 7
	flatKeywords    = 8
	flatIUSE        = 10
	flatProvide     = 13
	flatEAPI        = 14
)

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return scanner
}

// ParseMD5 parses an md5-cache entry: one KEY=value per line. Unknown
// keys (DEPEND, _md5_, _eclasses_, ...) are skipped.
func ParseMD5(r io.Reader) (cache.Metadata, error) {
	var md cache.Metadata
	scanner := newScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		switch key {
		case "SLOT":
			md.Slot = value
		case "RESTRICT":
			md.Restrict = value
		case "HOMEPAGE":
			md.Homepage = value
		case "LICENSE":
			md.License = value
		case "DESCRIPTION":
			md.Description = value
		case "KEYWORDS":
			md.Keywords = value
		case "IUSE":
			md.IUSE = value
		case "PROVIDE":
			md.Provide = value
		case "EAPI":
			md.EAPI = value
		}
	}
	if err := scanner.Err(); err != nil {
		return md, fmt.Errorf("reading md5-cache entry: %w", err)
	}
	return md, nil
}

// ParseFlat parses a positional flat cache entry. Entries must reach at
// least the KEYWORDS line; shorter trailing sections are left empty.
func ParseFlat(r io.Reader) (cache.Metadata, error) {
	var lines []string
	scanner := newScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return cache.Metadata{}, fmt.Errorf("reading flat cache entry: %w", err)
	}
	if len(lines) <= flatKeywords {
		return cache.Metadata{}, fmt.Errorf("flat cache entry has %d lines, want at least %d", len(lines), flatKeywords+1)
	}

	at := func(i int) string {
		if i < len(lines) {
			return lines[i]
		}
		return ""
	}
	return cache.Metadata{
		Slot:        at(flatSlot),
		Restrict:    at(flatRestrict),
		Homepage:    at(flatHomepage),
		License:     at(flatLicense),
		Description: at(flatDescription),
		Keywords:    at(flatKeywords),
		IUSE:        at(flatIUSE),
		Provide:     at(flatProvide),
		EAPI:        at(flatEAPI),
	}, nil
}
