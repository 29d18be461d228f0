package credentials

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

type logCall struct {
	level   string
	message string
	args    []any
}

type captureLogger struct {
	calls []logCall
}

func (l *captureLogger) record(level, message string, args ...any) {
	l.calls = append(l.calls, logCall{level: level, message: message, args: args})
}

func (l *captureLogger) Debug(message string, args ...any) { l.record("debug", message, args...) }
func (l *captureLogger) Info(message string, args ...any)  { l.record("info", message, args...) }
func (l *captureLogger) Warn(message string, args ...any)  { l.record("warn", message, args...) }
func (l *captureLogger) Error(message string, args ...any) { l.record("error", message, args...) }

func (l *captureLogger) has(level, message string) bool {
	for _, c := range l.calls {
		if c.level == level && c.message == message {
			return true
		}
	}
	return false
}

func TestSlogLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	l.Debug("dbg", "a", 1)
	l.Info("inf", "b", 2)
	l.Warn("wrn", "c", 3)
	l.Error("err", "d", 4)
	l.With("component", "tokens").Info("scoped")

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG msg=dbg a=1",
		"level=INFO msg=inf b=2",
		"level=WARN msg=wrn c=3",
		"level=ERROR msg=err d=4",
		"msg=scoped component=tokens",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for input, want := range cases {
		if got := ParseLogLevel(input); got != want {
			t.Fatalf("ParseLogLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestDefLoggerLine(t *testing.T) {
	got := line("login failed", []any{"email", "a@x.com", "dangling"})
	if got != "login failed email=a@x.com dangling\n" {
		t.Fatalf("unexpected line %q", got)
	}
}
