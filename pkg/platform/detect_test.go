package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectKeyword(t *testing.T) {
	tests := []struct {
		goos, goarch, want string
	}{
		{"linux", "amd64", "amd64"},
		{"linux", "386", "x86"},
		{"linux", "riscv64", "riscv"},
		{"linux", "ppc64le", "ppc64"},
		{"darwin", "arm64", "arm64-macos"},
		{"freebsd", "amd64", "amd64-freebsd"},
	}
	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			p, err := detect(tt.goos, tt.goarch)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Keyword)
		})
	}
}

func TestDetectUnsupported(t *testing.T) {
	_, err := detect("windows", "amd64")
	assert.ErrorContains(t, err, "unsupported operating system")

	_, err = detect("linux", "wasm")
	assert.ErrorContains(t, err, "unsupported architecture")
}

func TestAcceptKeywords(t *testing.T) {
	p := &Platform{Keyword: "amd64"}
	assert.Equal(t, []string{"amd64"}, p.AcceptKeywords(false))
	assert.Equal(t, []string{"amd64", "~amd64"}, p.AcceptKeywords(true))
}

func TestIsKnownKeyword(t *testing.T) {
	assert.True(t, IsKnownKeyword("~amd64"))
	assert.True(t, IsKnownKeyword("-x86"))
	assert.True(t, IsKnownKeyword("arm64-macos"))
	assert.True(t, IsKnownKeyword("*"))
	assert.False(t, IsKnownKeyword("vax"))
}
