// Package log is the process-wide structured logger. Messages carry a
// bracketed component prefix and key/value pairs:
//
//	log.Warn("[LISTENER] can't receive datagram", "err", err)
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	slogformatter "github.com/samber/slog-formatter"
	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where log records go.
type Options struct {
	Level   string // debug, info, warn, error
	File    string // rotating log file, empty disables it
	Console bool   // also write to stderr
}

var std atomic.Pointer[slog.Logger]

func init() {
	std.Store(slog.New(newHandler(os.Stderr, slog.LevelInfo)))
}

// Setup replaces the process logger. The returned closer flushes and
// closes the log file, if any.
func Setup(opts Options) (io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var handlers []slog.Handler
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     7,
		}
		handlers = append(handlers, newHandler(lj, level))
		closer = lj
	}
	if opts.Console || len(handlers) == 0 {
		handlers = append(handlers, newHandler(os.Stderr, level))
	}

	std.Store(slog.New(slogmulti.Fanout(handlers...)))
	return closer, nil
}

// ParseLevel maps a level name to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// SetOutput sends all records at or above level to w. Tests use it to
// capture output.
func SetOutput(w io.Writer, level slog.Level) {
	std.Store(slog.New(newHandler(w, level)))
}

func newHandler(w io.Writer, level slog.Level) slog.Handler {
	return slogformatter.NewFormatterHandler(
		slogformatter.ErrorFormatter("err"),
	)(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func Debug(msg string, args ...any) { std.Load().Debug(msg, args...) }
func Info(msg string, args ...any)  { std.Load().Info(msg, args...) }
func Warn(msg string, args ...any)  { std.Load().Warn(msg, args...) }
func Error(msg string, args ...any) { std.Load().Error(msg, args...) }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
