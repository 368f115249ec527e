package testutil

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// FakePage renders AsciiDoc source the way the tests expect a renderer to: the first
// "= " line becomes the <title>, the source is echoed inside <pre>. Source without a
// document title yields a page without a <title> element.
func FakePage(source string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	for _, line := range strings.Split(source, "\n") {
		if t, ok := strings.CutPrefix(line, "= "); ok {
			fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(strings.TrimSpace(t)))
			break
		}
	}
	b.WriteString("</head>\n<body>\n<pre>\n")
	b.WriteString(html.EscapeString(source))
	b.WriteString("</pre>\n</body>\n</html>\n")
	return b.String()
}

// RenderFile reads doc and returns FakePage of its content. Signature matches the
// function form of a renderer minus the context.
func RenderFile(doc, _ string) (string, error) {
	// #nosec G304 - test helper, paths are controlled by test code
	data, err := os.ReadFile(doc)
	if err != nil {
		return "", err
	}
	return FakePage(string(data)), nil
}

// WriteScript writes an executable shell script into dir and returns its absolute path.
// Tests using it are skipped on Windows.
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script renderers are not supported on windows")
	}
	path := filepath.Join(dir, name)
	// #nosec G306 - test helper script must be executable
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script %s: %v", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		t.Fatalf("abs %s: %v", path, err)
	}
	return abs
}

// fakeAsciidoctor mimics "asciidoctor -r asciidoctor-diagram -o - <doc>". When
// ADOCBUILD_FAKE_LOG is set, each call appends "<physical cwd>|<args>" to that file.
const fakeAsciidoctor = `set -e
for last; do :; done
if [ -n "$ADOCBUILD_FAKE_LOG" ]; then
  printf '%s|%s\n' "$(pwd -P)" "$*" >> "$ADOCBUILD_FAKE_LOG"
fi
if [ ! -f "$last" ]; then
  echo "asciidoctor: input file $last missing" >&2
  exit 1
fi
title=$(sed -n 's/^= //p' "$last" | head -n 1)
printf '<!DOCTYPE html>\n<html>\n<head>\n'
if [ -n "$title" ]; then
  printf '<title>%s</title>\n' "$title"
fi
printf '</head>\n<body>\n<pre>\n'
cat "$last"
printf '</pre>\n</body>\n</html>\n'
`

// WriteFakeAsciidoctor installs a shell stand-in for asciidoctor in a fresh temp dir.
func WriteFakeAsciidoctor(t *testing.T) string {
	t.Helper()
	return WriteScript(t, t.TempDir(), "asciidoctor", fakeAsciidoctor)
}
