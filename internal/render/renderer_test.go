package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/adocbuild/internal/config"
	rerrors "git.home.luguber.info/inful/adocbuild/internal/render/errors"
	"git.home.luguber.info/inful/adocbuild/internal/testutil"
)

func TestArguments(t *testing.T) {
	r := NewBinaryRenderer(config.Default().Renderer)

	assert.Equal(t,
		[]string{"-r", "asciidoctor-diagram", "-o", "-", "/abs/doc.adoc"},
		r.Arguments("/abs/doc.adoc"))

	r.Args = []string{"-a", "toc"}
	r.Requires = nil
	assert.Equal(t, []string{"-a", "toc", "-o", "-", "doc.adoc"}, r.Arguments("doc.adoc"))
}

func TestBinaryRenderer_RendersFromWorkDir(t *testing.T) {
	bin := testutil.WriteFakeAsciidoctor(t)
	logFile := filepath.Join(t.TempDir(), "calls.log")
	t.Setenv("ADOCBUILD_FAKE_LOG", logFile)

	src := t.TempDir()
	t.Chdir(src)
	testutil.WriteTree(t, src, map[string]string{"guide/intro.adoc": "= Intro\n\nHello.\n"})
	workDir := t.TempDir()

	r := &BinaryRenderer{Command: bin, Requires: []string{"asciidoctor-diagram"}}
	// Relative document path must survive the working directory change.
	out, err := r.Render(context.Background(), filepath.Join("guide", "intro.adoc"), workDir)
	require.NoError(t, err)
	assert.Contains(t, out, "<title>Intro</title>")
	assert.Contains(t, out, "Hello.")

	calls, err := os.ReadFile(logFile)
	require.NoError(t, err)
	line := strings.TrimSpace(string(calls))
	wantDir, err := filepath.EvalSymlinks(workDir)
	require.NoError(t, err)
	cwd, args, ok := strings.Cut(line, "|")
	require.True(t, ok, line)
	assert.Equal(t, wantDir, cwd)
	assert.True(t, strings.HasPrefix(args, "-r asciidoctor-diagram -o - /"), args)
	assert.True(t, strings.HasSuffix(args, filepath.Join("guide", "intro.adoc")), args)

	// The process working directory is never moved.
	now, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, src, now)
}

func TestBinaryRenderer_InheritsWorkDir(t *testing.T) {
	bin := testutil.WriteScript(t, t.TempDir(), "pwd-renderer", "printf '<title>%s</title>' \"$(pwd -P)\"\n")
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := (&BinaryRenderer{Command: bin}).Render(context.Background(), "x.adoc", "")
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, "<title>"+want+"</title>", out)
}

func TestBinaryRenderer_NonZeroExit(t *testing.T) {
	bin := testutil.WriteScript(t, t.TempDir(), "failing", "echo 'asciidoctor: FAILED: boom' >&2\nexit 3\n")

	_, err := (&BinaryRenderer{Command: bin}).Render(context.Background(), "doc.adoc", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, rerrors.ErrRendererExit)
	assert.Contains(t, err.Error(), "boom")
}

func TestBinaryRenderer_NonUTF8Output(t *testing.T) {
	bin := testutil.WriteScript(t, t.TempDir(), "binary-out", "printf '\\377\\376\\375'\n")

	_, err := (&BinaryRenderer{Command: bin}).Render(context.Background(), "doc.adoc", "")
	assert.ErrorIs(t, err, rerrors.ErrRendererOutput)
}

func TestBinaryRenderer_NotFound(t *testing.T) {
	_, err := (&BinaryRenderer{Command: "adocbuild-no-such-renderer"}).Render(context.Background(), "doc.adoc", "")
	assert.ErrorIs(t, err, rerrors.ErrRendererNotFound)
}

func TestBinaryRenderer_MissingWorkDir(t *testing.T) {
	bin := testutil.WriteScript(t, t.TempDir(), "ok", "echo '<title>x</title>'\n")

	_, err := (&BinaryRenderer{Command: bin}).Render(context.Background(), "doc.adoc", filepath.Join(t.TempDir(), "gone"))
	assert.ErrorIs(t, err, rerrors.ErrRendererLaunch)
}

func TestBinaryRenderer_Timeout(t *testing.T) {
	bin := testutil.WriteScript(t, t.TempDir(), "slow", "exec sleep 10\n")

	start := time.Now()
	_, err := (&BinaryRenderer{Command: bin, Timeout: 100 * time.Millisecond}).Render(context.Background(), "doc.adoc", "")
	assert.ErrorIs(t, err, rerrors.ErrRendererTimeout)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestBinaryRenderer_Canceled(t *testing.T) {
	bin := testutil.WriteScript(t, t.TempDir(), "ok", "echo '<title>x</title>'\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&BinaryRenderer{Command: bin}).Render(ctx, "doc.adoc", "")
	assert.ErrorIs(t, err, rerrors.ErrRendererLaunch)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFuncRenderer(t *testing.T) {
	var gotDoc, gotDir string
	r := FuncRenderer(func(_ context.Context, doc, workDir string) (string, error) {
		gotDoc, gotDir = doc, workDir
		return "<title>ok</title>", nil
	})

	out, err := r.Render(context.Background(), "a.adoc", "/build")
	require.NoError(t, err)
	assert.Equal(t, "<title>ok</title>", out)
	assert.Equal(t, "a.adoc", gotDoc)
	assert.Equal(t, "/build", gotDir)
}
