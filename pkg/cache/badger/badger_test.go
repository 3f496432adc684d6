package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/portix/pkg/cache"
	"github.com/arc-language/portix/pkg/portage"
)

func writeStore(t *testing.T, dir string, entries map[string][]byte) {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	require.NoError(t, err)
	err = db.Update(func(txn *badger.Txn) error {
		for k, v := range entries {
			if err := txn.Set([]byte(k), v); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func encode(t *testing.T, r Record) []byte {
	t.Helper()
	data, err := EncodeRecord(r)
	require.NoError(t, err)
	return data
}

func TestRecordEncoding(t *testing.T) {
	r := Record{Slot: "0", Keywords: "amd64", Description: "x"}
	a := encode(t, r)
	b := encode(t, r)
	assert.Equal(t, a, b, "encoding is deterministic")

	got, err := DecodeRecord(a)
	require.NoError(t, err)
	assert.Equal(t, r, got)

	_, err = DecodeRecord([]byte{0xff, 0x00})
	assert.Error(t, err)
}

func TestReadCategory(t *testing.T) {
	root := t.TempDir()
	repo := "/var/db/repos/gentoo"
	writeStore(t, DatabasePath(root, repo), map[string][]byte{
		"app-misc/foo-1.0":  encode(t, Record{Slot: "0", Keywords: "amd64", Description: "old"}),
		"app-misc/foo-1.1":  encode(t, Record{Slot: "0", Keywords: "~amd64", Description: "new", IUSE: "doc"}),
		"app-misc/garbage":  encode(t, Record{}),
		"app-misc/bad-2.0":  []byte{0xff},
		"app-misce/other-1": encode(t, Record{}),
		"dev-libs/bar-3":    encode(t, Record{Description: "bar"}),
	})

	var reported []string
	c := New(cache.Options{
		Root:          root,
		Path:          repo,
		Overlay:       2,
		ErrorCallback: func(msg string) { reported = append(reported, msg) },
	})
	defer c.Close()
	assert.Equal(t, "badger", c.Type())

	ctx := context.Background()
	cat := portage.NewCategory("app-misc")
	require.NoError(t, c.PrepareCategory(ctx, cat.Name))
	require.NoError(t, c.ReadCategory(ctx, cat))
	c.FinalizeCategory()

	assert.Equal(t, 1, cat.Len(), "only app-misc/ keys are read")
	p := cat.FindPackage("foo")
	require.NotNil(t, p)
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, "new", p.Desc)
	assert.Equal(t, "doc", p.CollIUSE())
	assert.Equal(t, portage.OverlayID(2), p.Latest().Overlay)
	assert.Len(t, reported, 2, "garbage key and undecodable value")

	libs := portage.NewCategory("dev-libs")
	require.NoError(t, c.PrepareCategory(ctx, libs.Name))
	require.NoError(t, c.ReadCategory(ctx, libs))
	assert.NotNil(t, libs.FindPackage("bar"))

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestMissingStore(t *testing.T) {
	c := New(cache.Options{Root: t.TempDir(), Path: "/nowhere"})
	err := c.PrepareCategory(context.Background(), "app-misc")
	assert.True(t, errors.Is(err, cache.ErrUnavailable))
	assert.Error(t, c.ReadCategory(context.Background(), portage.NewCategory("app-misc")))
}
