package commands

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/adocbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/adocbuild/internal/testutil"
)

// execute parses args and runs the selected command the way main does.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	parser, err := NewParser(&cli)
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	err = ctx.Run(&Global{Out: &out}, &cli)
	return out.String(), err
}

// inTempDir switches the test into a fresh directory and restores the default
// logger that AfterApply replaces.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	logger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(logger) })
	return dir
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel(true))

	t.Setenv(EnvLogLevel, "")
	assert.Equal(t, slog.LevelInfo, parseLogLevel(false))
	t.Setenv(EnvLogLevel, "DEBUG")
	assert.Equal(t, slog.LevelDebug, parseLogLevel(false))
	t.Setenv(EnvLogLevel, "warning")
	assert.Equal(t, slog.LevelWarn, parseLogLevel(false))
	t.Setenv(EnvLogLevel, "error")
	assert.Equal(t, slog.LevelError, parseLogLevel(false))
}

func TestBuild_UsageOnWrongArgumentCount(t *testing.T) {
	dir := inTempDir(t)
	testutil.WriteTree(t, dir, map[string]string{"docs/a.adoc": "= A\n", "more/b.adoc": "= B\n"})

	for _, args := range [][]string{{}, {"docs", "more"}} {
		out, err := execute(t, args...)
		require.NoError(t, err)
		assert.Equal(t, Usage+"\n", out)
	}
	testutil.NewFileAssertions(t, dir).AssertFileNotExists("build")
}

func TestBuild_EndToEnd(t *testing.T) {
	dir := inTempDir(t)
	t.Setenv("ADOCBUILD_RENDERER", testutil.WriteFakeAsciidoctor(t))
	testutil.WriteTree(t, dir, map[string]string{
		"docs/a.adoc":     "= Alpha\n",
		"docs/sub/b.adoc": "= Beta\n",
		"docs/image.png":  "png",
	})

	out, err := execute(t, "docs", "--metrics-file", "metrics/adocbuild.prom")
	require.NoError(t, err)
	assert.Empty(t, out)

	testutil.NewFileAssertions(t, filepath.Join(dir, "build")).
		AssertFileContains("a.html", "<title>Alpha</title>").
		AssertFileContains(filepath.Join("sub", "b.html"), "<title>Beta</title>").
		AssertFileEquals("image.png", "png").
		AssertFileContains("index.html", "* xref:a.html[Alpha]").
		AssertFileNotExists("index.adoc")
	testutil.NewFileAssertions(t, dir).
		AssertFileContains(filepath.Join("metrics", "adocbuild.prom"), `adocbuild_build_outcomes_total{outcome="success"} 1`)
}

func TestBuild_ExplicitCommandAndBuildDir(t *testing.T) {
	dir := inTempDir(t)
	t.Setenv("ADOCBUILD_RENDERER", testutil.WriteFakeAsciidoctor(t))
	testutil.WriteTree(t, dir, map[string]string{"docs/a.adoc": "= Alpha\n"})

	_, err := execute(t, "build", "-o", "site", "docs")
	require.NoError(t, err)
	testutil.NewFileAssertions(t, dir).
		AssertFileExists(filepath.Join("site", "index.html")).
		AssertFileNotExists("build")
}

func TestBuild_MissingSource(t *testing.T) {
	dir := inTempDir(t)
	testutil.WriteTree(t, dir, map[string]string{"build/old.html": "keep"})

	_, err := execute(t, "missing")
	require.Error(t, err)
	assert.Equal(t, 3, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
	testutil.NewFileAssertions(t, dir).AssertFileEquals(filepath.Join("build", "old.html"), "keep")
}

func TestBuild_RendererMissing(t *testing.T) {
	dir := inTempDir(t)
	t.Setenv("ADOCBUILD_RENDERER", filepath.Join(dir, "no-such-asciidoctor"))
	testutil.WriteTree(t, dir, map[string]string{"docs/a.adoc": "= Alpha\n"})

	_, err := execute(t, "docs")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryRenderer), err.Error())
	assert.Equal(t, 9, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestLoadConfig(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte("build:\n  directory: out\n"), 0o644))

	cli := &CLI{Config: "custom.yaml"}
	cfg, err := cli.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.Build.Directory)

	cli.BuildDir = "override"
	cli.MetricsFile = "m.prom"
	cfg, err = cli.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "override", cfg.Build.Directory)
	assert.Equal(t, "m.prom", cfg.Metrics.Textfile)

	// A missing file means defaults.
	cfg, err = (&CLI{Config: "absent.yaml"}).LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "build", cfg.Build.Directory)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("build: [not, a, map\n"), 0o644))

	_, err := (&CLI{Config: "bad.yaml"}).LoadConfig()
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig), err.Error())
	assert.Equal(t, 7, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestInit(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "adocbuild.yaml")

	out, err := execute(t, "init", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote configuration to "+path)
	testutil.NewFileAssertions(t, dir).AssertFileContains("adocbuild.yaml", "renderer:")

	_, err = execute(t, "init", "-c", path)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	_, err = execute(t, "init", "-c", path, "--force")
	require.NoError(t, err)

	// The generated file loads cleanly.
	_, err = (&CLI{Config: path}).LoadConfig()
	require.NoError(t, err)
}

func TestWatch_RequiresSource(t *testing.T) {
	inTempDir(t)
	var cli CLI
	parser, err := NewParser(&cli)
	require.NoError(t, err)
	_, err = parser.Parse([]string{"watch"})
	require.Error(t, err)
}

func TestWatch_MissingSource(t *testing.T) {
	inTempDir(t)
	_, err := execute(t, "watch", "missing")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound), err.Error())
}
