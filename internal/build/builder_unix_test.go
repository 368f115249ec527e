//go:build unix

package build

import (
	"context"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/adocbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/adocbuild/internal/testutil"
)

func TestBuild_FIFOAborts(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{"docs/a.adoc": "= Alpha\n"})
	require.NoError(t, syscall.Mkfifo(filepath.Join(dir, "docs", "pipe"), 0o600))

	report, err := newTestBuilder(t, dir, &recordingRenderer{}).Build(context.Background(), "docs")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFile)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem), err.Error())
	assert.Equal(t, BuildStatusFailed, report.Status)
	testutil.NewFileAssertions(t, filepath.Join(dir, "build")).
		AssertFileExists("a.html").
		AssertFileNotExists("pipe").
		AssertFileNotExists("index.html")
}
