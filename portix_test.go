package portix

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/portix/pkg/cache"
	"github.com/arc-language/portix/pkg/core"
	"github.com/arc-language/portix/pkg/portage"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func md5Entry(desc, slot, keywords string) string {
	return "DESCRIPTION=" + desc + "\nEAPI=8\nSLOT=" + slot + "\nKEYWORDS=" + keywords + "\nLICENSE=MIT\n"
}

// fixture lays out a root with a main repository, one overlay, a profile
// chain and an installed package database.
func fixture(t *testing.T) *core.Config {
	t.Helper()
	root := t.TempDir()

	repo := filepath.Join(root, "var/db/repos/gentoo")
	writeFile(t, filepath.Join(repo, "profiles/repo_name"), "gentoo\n")
	writeFile(t, filepath.Join(repo, "profiles/categories"), "app-misc\nsys-apps\ndev-libs\n")
	cacheDir := filepath.Join(repo, "metadata/md5-cache")
	writeFile(t, filepath.Join(cacheDir, "app-misc/foo-1.0"), md5Entry("old foo", "0", "amd64"))
	writeFile(t, filepath.Join(cacheDir, "app-misc/foo-1.1"), md5Entry("Foo tool", "0", "~amd64"))
	writeFile(t, filepath.Join(cacheDir, "app-misc/foo-2.0"), md5Entry("Foo tool", "2", "amd64"))
	writeFile(t, filepath.Join(cacheDir, "sys-apps/portage-3.0.60"), md5Entry("Package manager", "0", "amd64"))

	overlay := filepath.Join(root, "var/db/repos/local")
	writeFile(t, filepath.Join(overlay, "app-misc/bar/bar-2.0.ebuild"),
		"EAPI=8\nDESCRIPTION=\"Bar from ${PN}\"\nSLOT=\"0\"\nKEYWORDS=\"amd64\"\n")
	writeFile(t, filepath.Join(overlay, "app-misc/foo/foo-1.0.ebuild"),
		"EAPI=8\nSLOT=\"0\"\nKEYWORDS=\"amd64\"\n")

	reposDir := filepath.Join(root, "repos.d")
	writeFile(t, filepath.Join(reposDir, "local.toml"),
		"name = \"local\"\nlocation = \""+overlay+"\"\ncache_method = \"ebuild\"\n")

	base := filepath.Join(root, "profiles/base")
	writeFile(t, filepath.Join(base, "make.defaults"), "ARCH=\"amd64\"\nACCEPT_KEYWORDS=\"${ARCH}\"\n")
	writeFile(t, filepath.Join(base, "packages"), "*sys-apps/portage\n")
	leaf := filepath.Join(root, "profiles/leaf")
	writeFile(t, filepath.Join(leaf, "parent"), "../base\n")
	writeFile(t, filepath.Join(leaf, "package.mask"), "# security\n>=app-misc/foo-2.0\n")

	writeFile(t, filepath.Join(root, "var/db/pkg/app-misc/foo-0.9/SLOT"), "0\n")
	writeFile(t, filepath.Join(root, "var/db/pkg/sys-apps/portage-3.0.60/SLOT"), "0\n")
	writeFile(t, filepath.Join(root, "var/db/pkg/sys-apps/gone-1.0/SLOT"), "0\n")

	return &core.Config{
		Root:          root,
		Portdir:       "/var/db/repos/gentoo",
		Profile:       leaf,
		MakeConf:      "/etc/portage/make.conf",
		VarDB:         "/var/db/pkg",
		ReposDir:      reposDir,
		CacheMethod:   "metadata-md5",
		UpgradeToBest: true,
	}
}

func openFixture(t *testing.T, cfg *core.Config) (*Index, []string) {
	t.Helper()
	t.Cleanup(func() { portage.UpgradeToBest = true })
	var reported []string
	ix, err := Open(context.Background(), cfg, WithErrorCallback(func(msg string) {
		reported = append(reported, msg)
	}))
	require.NoError(t, err)
	return ix, reported
}

func TestOpen(t *testing.T) {
	ix, reported := openFixture(t, fixture(t))
	assert.Empty(t, reported)

	overlays := ix.Overlays()
	require.Len(t, overlays, 2)
	assert.Equal(t, "gentoo", overlays[0].Name)
	assert.Equal(t, portage.OverlayID(1), overlays[1].ID)
	assert.Equal(t, cache.MethodEbuild, overlays[1].Method)

	assert.Equal(t, []string{"amd64"}, ix.AcceptKeywords())
	files := ix.ProfileFiles()
	require.Len(t, files, 3)
	assert.Equal(t, "make.defaults", filepath.Base(files[0]))
	assert.Equal(t, "package.mask", filepath.Base(files[2]))
	assert.Equal(t, "amd64", ix.Settings().Get("ARCH"))
	assert.Equal(t, 1, ix.Profile().SystemPackages().Len())
	assert.Nil(t, ix.Tree().Find("dev-libs"), "empty categories are pruned")

	foo, err := ix.Package("app-misc/foo")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0", "1.0", "1.1", "2.0"}, versionStrings(foo))
	assert.Equal(t, portage.DupOverlays, foo.HaveDuplicateVersions)
	assert.Equal(t, "Foo tool", foo.Desc)

	v20 := foo.FindVersion("2.0")
	require.NotNil(t, v20)
	assert.True(t, v20.MaskFlags.IsPackageMask())
	assert.Equal(t, "1.0", foo.Best(false).String())
	assert.Equal(t, "1.1", foo.Best(true).String())

	portagePkg, err := ix.Package("portage")
	require.NoError(t, err)
	assert.True(t, portagePkg.IsSystemPackage)

	bar, err := ix.Package("bar")
	require.NoError(t, err)
	assert.Equal(t, "Bar from bar", bar.Desc)
	assert.Equal(t, portage.OverlayID(1), bar.Latest().Overlay)
}

func TestOpenWithoutProfile(t *testing.T) {
	cfg := fixture(t)
	cfg.Profile = ""
	cfg.AcceptKeywords = []string{"amd64", "~amd64", "-amd64"}

	ix, reported := openFixture(t, cfg)
	require.NotEmpty(t, reported)
	assert.Contains(t, reported[0], "no profile found")
	assert.Equal(t, []string{"~amd64"}, ix.AcceptKeywords())

	foo, err := ix.Package("app-misc/foo")
	require.NoError(t, err)
	assert.Equal(t, "2.0", foo.Best(false).String(), "no package.mask without a profile")
}

func TestOpenUnknownCacheMethod(t *testing.T) {
	cfg := fixture(t)
	cfg.CacheMethod = "bdb"

	ix, reported := openFixture(t, cfg)
	require.NotEmpty(t, reported)
	assert.Contains(t, reported[0], "unknown cache method")

	_, err := ix.Package("app-misc/bar")
	assert.NoError(t, err, "overlays still load")
}

func TestOpenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Open(ctx, fixture(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPackageLookup(t *testing.T) {
	ix, _ := openFixture(t, fixture(t))

	_, err := ix.Package("app-misc/nope")
	assert.ErrorIs(t, err, ErrPackageNotFound)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "lookup", perr.Op)
	assert.Equal(t, "app-misc/nope", perr.Package)

	_, err = ix.Package("nope")
	assert.ErrorIs(t, err, ErrPackageNotFound)
}

func TestSearch(t *testing.T) {
	ix, _ := openFixture(t, fixture(t))

	names := func(pkgs []*Package) []string {
		var out []string
		for _, p := range pkgs {
			out = append(out, p.FullName())
		}
		return out
	}

	got, err := ix.Search("OO", MatchName)
	require.NoError(t, err)
	assert.Equal(t, []string{"app-misc/foo"}, names(got))

	got, err = ix.Search("app-misc/*", MatchCategory)
	require.NoError(t, err)
	assert.Equal(t, []string{"app-misc/bar", "app-misc/foo"}, names(got))

	got, err = ix.Search("manager", MatchName|MatchDescription)
	require.NoError(t, err)
	assert.Equal(t, []string{"sys-apps/portage"}, names(got))

	got, err = ix.Search("", 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = ix.Search("[", MatchName)
	assert.Error(t, err)
}

func TestUpgrades(t *testing.T) {
	ix, _ := openFixture(t, fixture(t))

	ups, err := ix.Upgrades(context.Background())
	require.NoError(t, err)
	require.Len(t, ups, 1)
	assert.Equal(t, "app-misc/foo", ups[0].Package.FullName())
	assert.True(t, ups[0].Upgrade)
	assert.False(t, ups[0].Downgrade)
	require.Len(t, ups[0].Installed, 1)
	assert.Equal(t, "0.9", ups[0].Installed[0].String())
	require.Len(t, ups[0].Best, 1)
	assert.Equal(t, "1.0", ups[0].Best[0].String())
}

func TestNewCache(t *testing.T) {
	for _, m := range []cache.Method{
		cache.MethodSqlite,
		cache.MethodMetadataMD5,
		cache.MethodMetadataFlat,
		cache.MethodBadger,
		cache.MethodEbuild,
		cache.MethodNone,
	} {
		c, err := NewCache(m, cache.Options{Path: t.TempDir()})
		require.NoError(t, err)
		assert.Equal(t, string(m), c.Type())
		require.NoError(t, c.Close())
	}

	_, err := NewCache("bdb", cache.Options{})
	assert.ErrorIs(t, err, ErrUnknownCacheMethod)
}

func TestIncremental(t *testing.T) {
	assert.Equal(t, []string{"x86"}, incremental([]string{"amd64", "-*", "x86", "x86"}))
	assert.Empty(t, incremental([]string{"amd64", "-amd64"}))
}

func TestReadCategories(t *testing.T) {
	repo := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "app-misc"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "virtual"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "eclass"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	cats, err := readCategories(repo)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"app-misc", "virtual"}, cats)

	assert.Equal(t, []string{"a-b", "c-d", "e-f"},
		mergeCategories([]string{"c-d", "a-b"}, []string{"e-f", "a-b"}))
}

func versionStrings(p *Package) []string {
	var out []string
	for _, v := range p.Versions() {
		out = append(out, v.String())
	}
	return out
}
