package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("PORTIX_ROOT", "")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "/", cfg.Root)
	assert.True(t, cfg.UpgradeToBest)
}

func TestLoadConfigPartialFile(t *testing.T) {
	t.Setenv("PORTIX_ROOT", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
portdir: /srv/gentoo
cache_method: sqlite
accept_keywords: [amd64, ~amd64]
upgrade_to_best: false
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/gentoo", cfg.Portdir)
	assert.Equal(t, "sqlite", cfg.CacheMethod)
	assert.Equal(t, []string{"amd64", "~amd64"}, cfg.AcceptKeywords)
	assert.False(t, cfg.UpgradeToBest)
	assert.Equal(t, "/var/db/pkg", cfg.VarDB, "unset keys keep defaults")
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("portdir: [unclosed"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestRootEnvironmentOverride(t *testing.T) {
	t.Setenv("PORTIX_ROOT", "/mnt/gentoo")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: /ignored\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/mnt/gentoo", cfg.Root)
	assert.Equal(t, "/mnt/gentoo/var/db/pkg", cfg.RootPath(cfg.VarDB))
	assert.Empty(t, cfg.RootPath(""))
}

func TestSaveConfigRoundTrip(t *testing.T) {
	t.Setenv("PORTIX_ROOT", "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Profile = "/var/db/repos/gentoo/profiles/default/linux/amd64/23.0"
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
