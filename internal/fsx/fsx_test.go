package fsx_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adocgo/adoc/internal/fsx"
)

func TestSandboxResolveWithinBase(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/docs/chapters/intro.adoc", []byte("hello"), 0o644))

	sb := fsx.NewSandbox(mem, "/docs")
	resolved, content, err := sb.ReadFile("chapters/intro.adoc")
	require.NoError(t, err)
	assert.Equal(t, "/docs/chapters/intro.adoc", resolved)
	assert.Equal(t, "hello", content)
}

func TestSandboxRejectsAbsolutePath(t *testing.T) {
	sb := fsx.NewSandbox(afero.NewMemMapFs(), "/docs")
	_, _, err := sb.ReadFile("/etc/passwd")
	assert.ErrorIs(t, err, fsx.ErrAbsolutePath)
}

func TestSandboxRejectsEscape(t *testing.T) {
	sb := fsx.NewSandbox(afero.NewMemMapFs(), "/docs")
	_, _, err := sb.ReadFile("../secrets.adoc")
	assert.ErrorIs(t, err, fsx.ErrEscapesBase)
}

func TestSandboxDirNesting(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/docs/chapters/sub/nested.adoc", []byte("x"), 0o644))

	sb := fsx.NewSandbox(mem, "/docs")
	chapterSb := sb.Dir("chapters/intro.adoc")
	_, content, err := chapterSb.ReadFile("sub/nested.adoc")
	require.NoError(t, err)
	assert.Equal(t, "x", content)
}
