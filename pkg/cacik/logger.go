package cacik

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/denizgursoy/cacik-ui/internal/logging"
)

// Logger is the interface for structured logging within step functions.
// Arguments after the message are key/value pairs, as with *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NewLogger adapts a logrus logger to Logger.
func NewLogger(log logrus.FieldLogger) Logger {
	return &logrusLogger{log: logging.OrDiscard(log)}
}

type logrusLogger struct {
	log logrus.FieldLogger
}

func (l *logrusLogger) with(args []any) logrus.FieldLogger {
	if len(args) == 0 {
		return l.log
	}
	fields := make(logrus.Fields, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			fields["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		fields[key] = args[i+1]
	}
	return l.log.WithFields(fields)
}

func (l *logrusLogger) Debug(msg string, args ...any) { l.with(args).Debug(msg) }
func (l *logrusLogger) Info(msg string, args ...any)  { l.with(args).Info(msg) }
func (l *logrusLogger) Warn(msg string, args ...any)  { l.with(args).Warn(msg) }
func (l *logrusLogger) Error(msg string, args ...any) { l.with(args).Error(msg) }
