package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/portix/pkg/registry"
)

func TestSyncWithoutURI(t *testing.T) {
	s := &Syncer{}
	_, err := s.Sync(context.Background(), &registry.Entry{Name: "local", Location: t.TempDir()})
	assert.ErrorIs(t, err, ErrNoSyncURI)
}

func TestSyncRefusesForeignDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray"), nil, 0o644))

	s := &Syncer{}
	_, err := s.Sync(context.Background(), &registry.Entry{
		Name:     "guru",
		Location: dir,
		SyncURI:  "https://example.invalid/guru.git",
	})
	assert.ErrorContains(t, err, "not a git checkout")
}

func TestPullWithoutRemote(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	s := &Syncer{}
	_, err = s.Sync(context.Background(), &registry.Entry{
		Name:     "guru",
		Location: dir,
		SyncURI:  "https://example.invalid/guru.git",
	})
	assert.ErrorIs(t, err, git.ErrRemoteNotFound)
}

func TestSyncAllSkipsAndJoins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray"), nil, 0o644))

	s := &Syncer{}
	err := s.SyncAll(context.Background(), []*registry.Entry{
		{Name: "local", Location: t.TempDir()},
		{Name: "broken", Location: dir, SyncURI: "https://example.invalid/x.git"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.NotContains(t, err.Error(), "local")
}

func TestSyncAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &Syncer{}
	err := s.SyncAll(ctx, []*registry.Entry{
		{Name: "guru", Location: t.TempDir(), SyncURI: "https://example.invalid/guru.git"},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "cloned", Cloned.String())
	assert.Equal(t, "updated", Updated.String())
	assert.Equal(t, "up to date", UpToDate.String())
}
