package telemetry

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Logger writes JSON lines. A nil *Logger discards everything.
type Logger struct {
	l *log.Logger
	c io.Closer
}

// NewJSONLogger appends to path. An empty path discards output.
func NewJSONLogger(path, level string) (*Logger, error) {
	if path == "" {
		return New(io.Discard, level)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	lg, err := New(f, level)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	lg.c = f
	return lg, nil
}

func New(w io.Writer, level string) (*Logger, error) {
	lvl := log.InfoLevel
	if s := strings.TrimSpace(level); s != "" {
		parsed, err := log.ParseLevel(strings.ToLower(s))
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
		lvl = parsed
	}
	return &Logger{l: log.NewWithOptions(w, log.Options{
		Formatter:       log.JSONFormatter,
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		TimeFunction:    func(t time.Time) time.Time { return t.UTC() },
	})}, nil
}

func (l *Logger) Debug(msg string, fields map[string]any) {
	if l == nil {
		return
	}
	l.l.Debug(msg, keyvals(fields)...)
}

func (l *Logger) Info(msg string, fields map[string]any) {
	if l == nil {
		return
	}
	l.l.Info(msg, keyvals(fields)...)
}

func (l *Logger) Warn(msg string, fields map[string]any) {
	if l == nil {
		return
	}
	l.l.Warn(msg, keyvals(fields)...)
}

func (l *Logger) Error(msg string, fields map[string]any) {
	if l == nil {
		return
	}
	l.l.Error(msg, keyvals(fields)...)
}

func (l *Logger) Close() error {
	if l == nil || l.c == nil {
		return nil
	}
	return l.c.Close()
}

func keyvals(fields map[string]any) []any {
	out := make([]any, 0, len(fields)*2)
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		out = append(out, k, fields[k])
	}
	return out
}
