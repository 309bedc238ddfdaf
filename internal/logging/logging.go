// Package logging builds the process logger: a console sink at the configured
// level and a file sink that always records debug output.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/writer"
)

const LogFileName = "test_execution.log"

type Options struct {
	// Level is the console level name ("debug", "info", "warn", ...).
	Level string
	// Dir receives test_execution.log. Empty disables the file sink.
	Dir     string
	Console io.Writer
}

// Sinks owns the files opened for a logger.
type Sinks struct {
	files []*os.File
}

// Close flushes and closes every file sink. Safe to call more than once.
func (s *Sinks) Close() error {
	var firstErr error
	for _, f := range s.files {
		if err := f.Sync(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.files = nil
	return firstErr
}

// New creates a logger writing to the console and, when opts.Dir is set, to
// <Dir>/test_execution.log.
func New(opts Options) (*logrus.Logger, *Sinks, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	logger := logrus.New()
	logger.Out = io.Discard
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: true,
	})
	logger.AddHook(&writer.Hook{
		Writer:    console,
		LogLevels: levelsUpTo(level),
	})

	sinks := &Sinks{}
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory %s: %w", opts.Dir, err)
		}
		f, err := os.OpenFile(filepath.Join(opts.Dir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		sinks.files = append(sinks.files, f)
		logger.AddHook(&writer.Hook{
			Writer:    f,
			LogLevels: levelsUpTo(logrus.DebugLevel),
		})
	}

	return logger, sinks, nil
}

// ParseLevel accepts logrus level names; empty means info.
func ParseLevel(name string) (logrus.Level, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return logrus.InfoLevel, nil
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

func levelsUpTo(max logrus.Level) []logrus.Level {
	levels := make([]logrus.Level, 0, len(logrus.AllLevels))
	for _, l := range logrus.AllLevels {
		if l <= max {
			levels = append(levels, l)
		}
	}
	return levels
}

// Discard returns a logger that drops everything. Used when callers pass nil.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	l.SetLevel(logrus.PanicLevel)
	return l
}

// OrDiscard returns log, or a discarding logger when log is nil.
func OrDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return Discard()
	}
	return log
}
