package metadata

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/arc-language/portix/pkg/cache"
	"github.com/arc-language/portix/pkg/portage"
)

func writeEntry(t *testing.T, path, content string, compress bool) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	data := []byte(content)
	if compress {
		var buf bytes.Buffer
		w, err := xz.NewWriter(&buf)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		data = buf.Bytes()
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func readAll(t *testing.T, c cache.Cache, category string) (*portage.Category, error) {
	t.Helper()
	ctx := context.Background()
	cat := portage.NewCategory(category)
	require.NoError(t, c.PrepareCategory(ctx, category))
	err := c.ReadCategory(ctx, cat)
	c.FinalizeCategory()
	return cat, err
}

func TestParseMD5(t *testing.T) {
	md, err := ParseMD5(strings.NewReader(`DEFINED_PHASES=compile install
DESCRIPTION=A tool = with equals
EAPI=8
HOMEPAGE=https://example.org
IUSE=+doc test
KEYWORDS=amd64 ~arm64
LICENSE=GPL-2
RESTRICT=test
SLOT=0/1.2
_md5_=0123456789abcdef
`))
	require.NoError(t, err)
	assert.Equal(t, "A tool = with equals", md.Description)
	assert.Equal(t, "8", md.EAPI)
	assert.Equal(t, "+doc test", md.IUSE)
	assert.Equal(t, "amd64 ~arm64", md.Keywords)
	assert.Equal(t, "GPL-2", md.License)
	assert.Equal(t, "test", md.Restrict)
	assert.Equal(t, "0/1.2", md.Slot)
}

func TestParseFlat(t *testing.T) {
	lines := []string{
		"dev-libs/a", "dev-libs/b", "2", "mirror://x", "fetch",
		"https://example.org", "BSD", "flat entry", "amd64 x86", "eutils",
		"ssl", "", "", "virtual/x", "7",
	}
	md, err := ParseFlat(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	require.NoError(t, err)
	assert.Equal(t, "2", md.Slot)
	assert.Equal(t, "fetch", md.Restrict)
	assert.Equal(t, "https://example.org", md.Homepage)
	assert.Equal(t, "BSD", md.License)
	assert.Equal(t, "flat entry", md.Description)
	assert.Equal(t, "amd64 x86", md.Keywords)
	assert.Equal(t, "ssl", md.IUSE)
	assert.Equal(t, "virtual/x", md.Provide)
	assert.Equal(t, "7", md.EAPI)

	_, err = ParseFlat(strings.NewReader("a\nb\nc\n"))
	assert.Error(t, err)
}

func TestMD5Cache(t *testing.T) {
	repo := t.TempDir()
	dir := filepath.Join(repo, "metadata", "md5-cache", "app-misc")
	writeEntry(t, filepath.Join(dir, "foo-1.0"), "DESCRIPTION=old\nKEYWORDS=amd64\nSLOT=0\n", false)
	writeEntry(t, filepath.Join(dir, "foo-2.0.xz"), "DESCRIPTION=new\nKEYWORDS=~amd64\nSLOT=0\n", true)
	writeEntry(t, filepath.Join(dir, "Manifest.gz"), "junk", false)

	var reported []string
	c := New(cache.Options{
		Path:          repo,
		Overlay:       1,
		ErrorCallback: func(msg string) { reported = append(reported, msg) },
	}, LayoutMD5)
	assert.Equal(t, "metadata-md5", c.Type())

	cat, err := readAll(t, c, "app-misc")
	require.NoError(t, err)

	p := cat.FindPackage("foo")
	require.NotNil(t, p)
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, "new", p.Desc)
	assert.Equal(t, portage.KeywordUnstable, p.Latest().Keyword("amd64"))
	assert.Equal(t, portage.OverlayID(1), p.Latest().Overlay)

	require.Len(t, reported, 1, "Manifest.gz cannot be split")
	assert.Contains(t, reported[0], "Manifest.gz")

	empty, err := readAll(t, c, "dev-libs")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
	require.NoError(t, c.Close())
}

func TestFlatCache(t *testing.T) {
	repo := t.TempDir()
	entry := strings.Join([]string{
		"", "", "1", "", "", "https://bar.example", "MIT", "bar lib", "amd64",
	}, "\n") + "\n"
	writeEntry(t, filepath.Join(repo, "metadata", "cache", "dev-libs", "bar-1.2.3"), entry, false)
	writeEntry(t, filepath.Join(repo, "metadata", "cache", "dev-libs", "bar-1.0"), "short\n", false)

	var reported []string
	c := New(cache.Options{
		Path:          repo,
		ErrorCallback: func(msg string) { reported = append(reported, msg) },
	}, LayoutFlat)
	assert.Equal(t, "metadata-flat", c.Type())

	cat, err := readAll(t, c, "dev-libs")
	require.NoError(t, err)
	p := cat.FindPackage("bar")
	require.NotNil(t, p)
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, "bar lib", p.Desc)
	assert.Equal(t, "1", p.Latest().Slot)
	require.Len(t, reported, 1)
	assert.Contains(t, reported[0], "bar-1.0")
}
