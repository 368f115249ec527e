package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeySource     = "source"
	KeyBuildRoot  = "build_root"
	KeyPath       = "path"
	KeyTarget     = "target"
	KeyKind       = "kind"
	KeyLevel      = "level"
	KeyTitle      = "title"
	KeyCommand    = "command"
	KeyWorkDir    = "workdir"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Source(p string) slog.Attr       { return slog.String(KeySource, p) }
func BuildRoot(p string) slog.Attr    { return slog.String(KeyBuildRoot, p) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Target(p string) slog.Attr       { return slog.String(KeyTarget, p) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func Level(l int) slog.Attr           { return slog.Int(KeyLevel, l) }
func Title(t string) slog.Attr        { return slog.String(KeyTitle, t) }
func Command(c string) slog.Attr      { return slog.String(KeyCommand, c) }
func WorkDir(d string) slog.Attr      { return slog.String(KeyWorkDir, d) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
