// Package logger wraps log/slog with a package-level default logger,
// custom severity levels below slog's built-in floor, a text/JSON handler
// choice, and file output with rotation via lumberjack when a log file
// path is configured.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Custom severity levels, extending slog's built-in set downward with a
// Trace level below Debug and an Off level above Error that discards
// everything (spec A.1's ambient logging stack).
const (
	LevelTrace slog.Level = -8
	LevelDebug slog.Level = slog.LevelDebug
	LevelInfo  slog.Level = slog.LevelInfo
	LevelWarn  slog.Level = slog.LevelWarn
	LevelError slog.Level = slog.LevelError
	LevelOff   slog.Level = 16
)

var levelNames = map[string]slog.Level{
	"TRACE":   LevelTrace,
	"DEBUG":   LevelDebug,
	"INFO":    LevelInfo,
	"WARNING": LevelWarn,
	"ERROR":   LevelError,
	"OFF":     LevelOff,
}

var severityLabels = map[slog.Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARNING",
	LevelError: "ERROR",
}

// Config is the ambient logging surface of a core-embedding process: where
// to write, in what format, and at what severity floor.
type Config struct {
	// FilePath is where to write log output. Empty means stderr.
	FilePath string
	// Format is "text" or "json"; anything else behaves as "json".
	Format string
	// Severity is one of the levelNames keys; an unrecognized value
	// behaves as INFO.
	Severity string
	// MaxFileSizeMB, BackupFileCount and Compress configure lumberjack
	// rotation when FilePath is set.
	MaxFileSizeMB   int
	BackupFileCount int
	Compress        bool
}

type loggerFactory struct {
	programLevel *slog.LevelVar
	format       string
	writer       io.Writer
	file         *lumberjack.Logger
}

var defaultFactory = newDefaultFactory()
var defaultLogger = slog.New(defaultFactory.handler())

func newDefaultFactory() *loggerFactory {
	lv := new(slog.LevelVar)
	lv.Set(LevelInfo)
	return &loggerFactory{programLevel: lv, format: "json", writer: os.Stderr}
}

// Init installs cfg as the active logging configuration, replacing the
// default logger. It is safe to call more than once, e.g. after a
// configuration reload.
func Init(cfg Config) {
	f := &loggerFactory{programLevel: new(slog.LevelVar), format: cfg.Format}
	f.programLevel.Set(severityFromString(cfg.Severity))

	if cfg.FilePath != "" {
		f.file = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxFileSizeMB,
			MaxBackups: cfg.BackupFileCount,
			Compress:   cfg.Compress,
		}
		f.writer = f.file
	} else {
		f.writer = os.Stderr
	}

	defaultFactory = f
	defaultLogger = slog.New(f.handler())
}

func severityFromString(s string) slog.Level {
	if lv, ok := levelNames[strings.ToUpper(s)]; ok {
		return lv
	}
	return LevelInfo
}

func (f *loggerFactory) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		Level: f.programLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				level := a.Value.Any().(slog.Level)
				label, ok := severityLabels[level]
				if !ok {
					label = level.String()
				}
				return slog.String("severity", label)
			}
			return a
		},
	}
	if strings.EqualFold(f.format, "text") {
		return slog.NewTextHandler(f.writer, opts)
	}
	return slog.NewJSONHandler(f.writer, opts)
}

func log(ctx context.Context, level slog.Level, format string, args ...any) {
	if !defaultLogger.Enabled(ctx, level) {
		return
	}
	defaultLogger.Log(ctx, level, fmt.Sprintf(format, args...))
}

// Tracef logs at the Trace severity.
func Tracef(format string, args ...any) { log(context.Background(), LevelTrace, format, args...) }

// Debugf logs at the Debug severity.
func Debugf(format string, args ...any) { log(context.Background(), LevelDebug, format, args...) }

// Infof logs at the Info severity.
func Infof(format string, args ...any) { log(context.Background(), LevelInfo, format, args...) }

// Warnf logs at the Warning severity.
func Warnf(format string, args ...any) { log(context.Background(), LevelWarn, format, args...) }

// Errorf logs at the Error severity.
func Errorf(format string, args ...any) { log(context.Background(), LevelError, format, args...) }
