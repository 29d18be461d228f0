package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Logger is a structured logger; args are key/value pairs
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Print("[ERR] CREDENTIALS " + line(msg, args))
}

func (d defLogger) Warn(msg string, args ...any) {
	fmt.Print("[WRN] CREDENTIALS " + line(msg, args))
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Print("[INF] CREDENTIALS " + line(msg, args))
}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Print("[DBG] CREDENTIALS " + line(msg, args))
}

func line(msg string, args []any) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
		} else {
			fmt.Fprintf(&b, " %v", args[i])
		}
	}
	b.WriteString("\n")
	return b.String()
}

// SlogLogger adapts a *slog.Logger to Logger
type SlogLogger struct {
	l *slog.Logger
}

var _ Logger = (*SlogLogger)(nil)

// NewSlogLogger wraps l
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Debug(msg string, args ...any) {
	s.l.DebugContext(context.Background(), msg, args...)
}

func (s *SlogLogger) Info(msg string, args ...any) {
	s.l.InfoContext(context.Background(), msg, args...)
}

func (s *SlogLogger) Warn(msg string, args ...any) {
	s.l.WarnContext(context.Background(), msg, args...)
}

func (s *SlogLogger) Error(msg string, args ...any) {
	s.l.ErrorContext(context.Background(), msg, args...)
}

// With returns a child logger that always includes the given pairs
func (s *SlogLogger) With(args ...any) *SlogLogger {
	return &SlogLogger{l: s.l.With(args...)}
}

// ParseLogLevel maps a level name to a slog level, defaulting to info
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
