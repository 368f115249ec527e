package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"git.home.luguber.info/inful/adocbuild/internal/config"
	"git.home.luguber.info/inful/adocbuild/internal/logfields"
	rerrors "git.home.luguber.info/inful/adocbuild/internal/render/errors"
)

// Renderer turns one document into rendered page text.
//
// Contract:
//
//	Render(ctx, doc, workDir) -> rendered text, or an error wrapping one of the
//	  sentinels in internal/render/errors.
//
// workDir is the directory the renderer runs in, so its relative asset and diagram
// output lands beside the rendered page. An empty workDir inherits the process
// working directory.
type Renderer interface {
	Render(ctx context.Context, doc, workDir string) (string, error)
}

// FuncRenderer adapts a plain function to the Renderer interface.
type FuncRenderer func(ctx context.Context, doc, workDir string) (string, error)

func (f FuncRenderer) Render(ctx context.Context, doc, workDir string) (string, error) {
	return f(ctx, doc, workDir)
}

// BinaryRenderer invokes an external renderer executable (asciidoctor by default)
// and captures the page it writes to standard output.
type BinaryRenderer struct {
	Command  string
	Requires []string      // libraries loaded with -r, e.g. asciidoctor-diagram
	Args     []string      // extra arguments placed before the output flag
	Timeout  time.Duration // zero disables the timeout
	Logger   *slog.Logger
}

// NewBinaryRenderer builds a BinaryRenderer from renderer configuration.
func NewBinaryRenderer(cfg config.RendererConfig) *BinaryRenderer {
	return &BinaryRenderer{
		Command:  cfg.Command,
		Requires: slices.Clone(cfg.Requires),
		Args:     slices.Clone(cfg.Args),
		Timeout:  cfg.Timeout,
	}
}

// Arguments returns the argument list for rendering doc: one -r per required library,
// the extra arguments, then "-o -" so the page goes to standard output.
func (b *BinaryRenderer) Arguments(doc string) []string {
	args := make([]string, 0, 2*len(b.Requires)+len(b.Args)+3)
	for _, r := range b.Requires {
		args = append(args, "-r", r)
	}
	args = append(args, b.Args...)
	args = append(args, "-o", "-", doc)
	return args
}

func (b *BinaryRenderer) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

func (b *BinaryRenderer) Render(ctx context.Context, doc, workDir string) (string, error) {
	command := b.Command
	if command == "" {
		command = config.DefaultRendererCommand
	}
	bin, err := exec.LookPath(command)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", rerrors.ErrRendererNotFound, command, err)
	}
	// A relative executable path would be resolved against workDir otherwise.
	if bin, err = filepath.Abs(bin); err != nil {
		return "", fmt.Errorf("%w: %w", rerrors.ErrRendererLaunch, err)
	}

	// Canonicalize before the working directory moves; a relative doc path would
	// otherwise resolve against workDir.
	absDoc, err := filepath.Abs(doc)
	if err != nil {
		return "", fmt.Errorf("%w: resolve %s: %w", rerrors.ErrRendererLaunch, doc, err)
	}

	if workDir != "" {
		if st, statErr := os.Stat(workDir); statErr != nil {
			return "", fmt.Errorf("%w: working directory: %w", rerrors.ErrRendererLaunch, statErr)
		} else if !st.IsDir() {
			return "", fmt.Errorf("%w: working directory %s is not a directory", rerrors.ErrRendererLaunch, workDir)
		}
	}

	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	// #nosec G204 -- bin comes from exec.LookPath on the configured renderer
	cmd := exec.CommandContext(ctx, bin, b.Arguments(absDoc)...)
	cmd.Dir = workDir
	cmd.WaitDelay = 2 * time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log := b.logger()
	log.Debug("Invoking renderer", logfields.Command(command), logfields.Path(absDoc), logfields.WorkDir(workDir))
	start := time.Now()
	err = cmd.Run()
	elapsed := time.Since(start)

	errStr := strings.TrimSpace(stderr.String())
	if errStr != "" {
		log.Warn("renderer stderr", logfields.Path(absDoc), slog.String("error_output", errStr))
	}

	if err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %s after %s", rerrors.ErrRendererTimeout, absDoc, b.Timeout)
		} else if ctxErr != nil {
			return "", fmt.Errorf("%w: %w", rerrors.ErrRendererLaunch, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if errStr != "" {
				return "", fmt.Errorf("%w: %w: %s", rerrors.ErrRendererExit, err, errStr)
			}
			return "", fmt.Errorf("%w: %w", rerrors.ErrRendererExit, err)
		}
		return "", fmt.Errorf("%w: %w", rerrors.ErrRendererLaunch, err)
	}

	out := stdout.Bytes()
	if !utf8.Valid(out) {
		return "", fmt.Errorf("%w: %s", rerrors.ErrRendererOutput, absDoc)
	}

	log.Debug("Renderer finished", logfields.Path(absDoc), logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	return string(out), nil
}
