package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDescriptor(t *testing.T, dir, file, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644))
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "guru.toml", `
name = "guru"
location = "/var/db/repos/guru"
cache_method = "metadata-md5"
priority = 10
sync_uri = "https://github.com/gentoo/guru.git"
`)
	writeDescriptor(t, dir, "local.toml", `
location = "/var/db/repos/local"
cache_method = "ebuild"
`)
	writeDescriptor(t, dir, "alpha.toml", `
name = "alpha"
location = "/var/db/repos/alpha"
priority = 10
`)
	writeDescriptor(t, dir, "README", "not a descriptor")

	entries, err := New(dir).List()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"local", "alpha", "guru"}, names)
	assert.Equal(t, "https://github.com/gentoo/guru.git", entries[2].SyncURI)
	assert.Equal(t, "ebuild", entries[0].CacheMethod)
}

func TestListMissingDir(t *testing.T) {
	entries, err := New(filepath.Join(t.TempDir(), "absent")).List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "guru.toml", "location = \"/srv/guru\"\n")

	entry, err := New(dir).Load("guru")
	require.NoError(t, err)
	assert.Equal(t, "guru", entry.Name)
	assert.Equal(t, "/srv/guru", entry.Location)

	_, err = New(dir).Load("science")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidDescriptor(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "broken.toml", "location = ")
	_, err := New(dir).List()
	assert.Error(t, err)

	dir = t.TempDir()
	writeDescriptor(t, dir, "nowhere.toml", "name = \"nowhere\"\n")
	_, err = New(dir).Load("nowhere")
	assert.ErrorContains(t, err, "no location")
}
