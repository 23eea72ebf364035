package logger

import (
	"log/slog"
	"os"
)

// Logger wraps slog with the few extras the server needs.
type Logger struct {
	*slog.Logger
}

// New creates a text logger on stdout. The level follows slog's numeric
// scale, so -4 enables debug and 0 is info.
func New(level int) *Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.Level(level),
	})
	return &Logger{Logger: slog.New(handler)}
}

// Fatal logs at error level and exits the process.
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
