// Package logging provides the structured logger used by the command-line
// tool and, optionally, by the heap and packet packages for diagnostic
// output (descriptor cache suppression, heap freezes, packet counts). The
// core encoder/generator packages never log on their own — nothing here
// participates in spec.md's encoding invariants. cmd/speadgen passes its
// Logger to heap.Heap through heap.WithLogger; packet.Generator accepts
// one through packet.WithLogger.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the subset of logrus's API this repository actually calls:
// leveled logging plus structured fields.
type Logger interface {
	Debug(args ...any)
	Debugf(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)

	WithField(key string, value any) Logger
	WithFields(fields map[string]any) Logger
	WithError(err error) Logger
}

type logrusLogger struct {
	entry *logrus.Entry
}

// Level mirrors logrus's level names, kept local so callers configuring a
// Logger don't need to import logrus directly.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// New builds a Logger at the given level, writing JSON-formatted records
// to stderr.
func New(level Level) Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.JSONFormatter{})

	parsed, err := logrus.ParseLevel(string(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	return &logrusLogger{entry: logrus.NewEntry(l)}
}

// Nop returns a Logger that discards everything, used where no logger was
// configured and one is required to satisfy an interface.
func Nop() Logger {
	l := logrus.New()
	l.SetOutput(nopWriter{})

	return &logrusLogger{entry: logrus.NewEntry(l)}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func (l *logrusLogger) Debug(args ...any)                 { l.entry.Debug(args...) }
func (l *logrusLogger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Info(args ...any)                  { l.entry.Info(args...) }
func (l *logrusLogger) Infof(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l *logrusLogger) Warn(args ...any)                  { l.entry.Warn(args...) }
func (l *logrusLogger) Warnf(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l *logrusLogger) Error(args ...any)                 { l.entry.Error(args...) }
func (l *logrusLogger) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }

func (l *logrusLogger) WithField(key string, value any) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}

func (l *logrusLogger) WithFields(fields map[string]any) Logger {
	return &logrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *logrusLogger) WithError(err error) Logger {
	return &logrusLogger{entry: l.entry.WithError(err)}
}
