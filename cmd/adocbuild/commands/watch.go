package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/adocbuild/internal/build"
	"git.home.luguber.info/inful/adocbuild/internal/config"
	"git.home.luguber.info/inful/adocbuild/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Source string `arg:"" name:"source_dir" help:"Source directory containing AsciiDoc documents"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RunWatch(ctx, cfg, w.Source)
}

// RunWatch builds sourceDir and rebuilds it on every change until ctx is done.
func RunWatch(ctx context.Context, cfg *config.Config, sourceDir string) error {
	rec, flush := newRecorder(cfg)
	builder := newBuilder(cfg, build.WithRecorder(rec))

	rebuild := func(ctx context.Context) error {
		defer flush()
		_, err := builder.Build(ctx, sourceDir)
		return err
	}

	w, err := watch.New(sourceDir, rebuild,
		watch.WithDebounce(cfg.Watch.Debounce),
		watch.WithIgnoredDir(cfg.Build.Directory),
		watch.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
