package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/adocbuild/internal/build"
	"git.home.luguber.info/inful/adocbuild/internal/config"
	"git.home.luguber.info/inful/adocbuild/internal/render"
)

// BuildCmd implements the default 'build' command.
type BuildCmd struct {
	Sources []string `arg:"" optional:"" name:"source_dir" help:"Source directory containing AsciiDoc documents"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	if len(b.Sources) != 1 {
		_, _ = fmt.Fprintln(g.out(), Usage)
		return nil
	}
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RunBuild(ctx, cfg, b.Sources[0])
}

// RunBuild performs one full build of sourceDir with the external renderer.
func RunBuild(ctx context.Context, cfg *config.Config, sourceDir string) error {
	rec, flush := newRecorder(cfg)
	defer flush()

	builder := newBuilder(cfg, build.WithRecorder(rec))
	_, err := builder.Build(ctx, sourceDir)
	return err
}

func newBuilder(cfg *config.Config, opts ...build.Option) *build.Builder {
	renderer := render.NewBinaryRenderer(cfg.Renderer)
	opts = append([]build.Option{build.WithLogger(slog.Default())}, opts...)
	return build.NewBuilder(cfg, renderer, opts...)
}
