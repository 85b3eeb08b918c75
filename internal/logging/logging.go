package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/1broseidon/aerosnap/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options identifies the process in every record.
type Options struct {
	App     string
	Version string
	Command string
}

// Logger is a configured slog logger plus the writer it owns.
type Logger struct {
	*slog.Logger
	level *slog.LevelVar
	close func() error
}

// New builds a logger from cfg. Records go to stderr unless cfg.File is set,
// in which case the file is rotated by size.
func New(cfg config.LoggingConfig, opts Options) (*Logger, error) {
	return newLogger(cfg, opts, os.Stderr)
}

func newLogger(cfg config.LoggingConfig, opts Options, stderr io.Writer) (*Logger, error) {
	if opts.App == "" {
		opts.App = "aerosnap"
	}

	writer, closeFn, err := resolveWriter(cfg, stderr)
	if err != nil {
		return nil, err
	}

	level := new(slog.LevelVar)
	level.Set(ParseLevel(cfg.Level))
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "json":
		handler = slog.NewJSONHandler(writer, handlerOpts)
	default:
		handler = slog.NewTextHandler(writer, handlerOpts)
	}

	attrs := []any{slog.String("app", opts.App)}
	if opts.Version != "" {
		attrs = append(attrs, slog.String("version", opts.Version))
	}
	if opts.Command != "" {
		attrs = append(attrs, slog.String("cmd", opts.Command))
	}

	return &Logger{
		Logger: slog.New(handler).With(attrs...),
		level:  level,
		close:  closeFn,
	}, nil
}

// Init builds a logger and installs it as the slog default.
func Init(cfg config.LoggingConfig, opts Options) (*Logger, error) {
	l, err := New(cfg, opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(l.Logger)
	return l, nil
}

// SetLevel changes the minimum level at runtime, e.g. after a config reload.
func (l *Logger) SetLevel(level string) {
	l.level.Set(ParseLevel(level))
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.close == nil {
		return nil
	}
	return l.close()
}

// ParseLevel maps a config level name to a slog level. Unknown names are info.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func resolveWriter(cfg config.LoggingConfig, stderr io.Writer) (io.Writer, func() error, error) {
	path := strings.TrimSpace(cfg.File)
	if path == "" {
		return stderr, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("logging: create log dir: %w", err)
	}

	rot := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    positiveOr(cfg.MaxSizeMB, 10),
		MaxBackups: positiveOr(cfg.MaxBackups, 3),
	}
	return rot, rot.Close, nil
}

func positiveOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
