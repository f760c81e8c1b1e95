// Package logging builds the rotating slog handler a long-running host
// process (a façade, a test harness) can opt into. The engine itself
// never constructs a writer, calls slog.SetDefault or emits log records;
// like internal/friis, internal/realistic, and internal/los it reports
// through return values and callbacks and lets callers decide what to log.
package logging

import (
	"log/slog"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RotatingHandlerOptions configures the rotation policy. Zero values
// fall back to the defaults below.
type RotatingHandlerOptions struct {
	Directory string
	Filename  string // defaults to "losengine.log"
	MaxSizeMB int    // defaults to 128
	MaxAgeDay int    // defaults to 28
	Compress  bool
	Level     slog.Level
}

func (o RotatingHandlerOptions) path() string {
	name := o.Filename
	if name == "" {
		name = "losengine.log"
	}
	return filepath.Join(o.Directory, name)
}

// replaceAttr trims source file paths to their basename and renders
// timestamps as RFC3339Nano, matching dtm-elevation-service's replacer.
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.SourceKey:
		if src, ok := a.Value.Any().(*slog.Source); ok {
			src.File = filepath.Base(src.File)
		}
	case slog.TimeKey:
		return slog.String("time", a.Value.Time().Format(time.RFC3339Nano))
	}
	return a
}

// NewRotatingHandler returns a JSON slog.Handler backed by a
// lumberjack.Logger, so a host process gets size- and age-based log
// rotation without writing its own file-management loop. The
// lumberjack.Logger is returned too since a host commonly rotates it
// explicitly on a day boundary or SIGHUP, as dtm-elevation-service does.
func NewRotatingHandler(opts RotatingHandlerOptions) (slog.Handler, *lumberjack.Logger) {
	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 128
	}
	maxAge := opts.MaxAgeDay
	if maxAge <= 0 {
		maxAge = 28
	}

	rotator := &lumberjack.Logger{
		Filename: opts.path(),
		MaxSize:  maxSize,
		MaxAge:   maxAge,
		Compress: opts.Compress,
	}

	level := new(slog.LevelVar)
	level.Set(opts.Level)

	handler := slog.NewJSONHandler(rotator, &slog.HandlerOptions{
		Level:       level,
		AddSource:   true,
		ReplaceAttr: replaceAttr,
	})
	return handler, rotator
}

// ParseLevel maps a configuration string to a slog.Level, defaulting to
// Info for anything unrecognised, matching dtm-elevation-service's
// parseLogLevel.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
