package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRead(t *testing.T) {
	s := NewSettings()
	s.Set("USE", "ssl")

	src := `# comment
ARCH="amd64"
USE="${USE} doc"
export CHOST=x86_64-pc-linux-gnu
FEATURES=sandbox
FEATURES+=" userpriv"
EMPTY=
echo "not an assignment"
`
	require.NoError(t, s.Read(strings.NewReader(src), "make.defaults"))

	assert.Equal(t, "amd64", s.Get("ARCH"))
	assert.Equal(t, "ssl doc", s.Get("USE"))
	assert.Equal(t, []string{"ssl", "doc"}, s.Fields("USE"))
	assert.Equal(t, "x86_64-pc-linux-gnu", s.Get("CHOST"))
	assert.Equal(t, "sandbox userpriv", s.Get("FEATURES"))

	v, ok := s.Lookup("EMPTY")
	assert.True(t, ok)
	assert.Empty(t, v)
	_, ok = s.Lookup("MISSING")
	assert.False(t, ok)

	assert.Equal(t, []string{"USE", "ARCH", "CHOST", "FEATURES", "EMPTY"}, s.Keys())
}

func TestSettingsReadSyntaxError(t *testing.T) {
	s := NewSettings()
	err := s.Read(strings.NewReader(`FOO="unterminated`), "bad.conf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.conf")
}

func TestSettingsReadFileLaterWins(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first")
	second := filepath.Join(dir, "second")
	require.NoError(t, os.WriteFile(first, []byte("ACCEPT_KEYWORDS=\"amd64\"\nUSE=\"a\"\n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("ACCEPT_KEYWORDS=\"~amd64\"\nUSE=\"$USE b\"\n"), 0o644))

	s := NewSettings()
	require.NoError(t, s.ReadFile(first))
	require.NoError(t, s.ReadFile(second))

	assert.Equal(t, "~amd64", s.Get("ACCEPT_KEYWORDS"))
	assert.Equal(t, "a b", s.Get("USE"))

	assert.Error(t, s.ReadFile(filepath.Join(dir, "missing")))
}
