package applog

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Logger writes one JSON object per line. It is safe for concurrent use.
type Logger struct {
	mu        *sync.Mutex
	enc       *json.Encoder
	loc       *time.Location
	component string
}

// New returns a Logger writing to stdout with timestamps in loc.
func New(loc *time.Location) *Logger {
	return NewWithWriter(os.Stdout, loc)
}

// NewWithWriter returns a Logger writing to w.
func NewWithWriter(w io.Writer, loc *time.Location) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{mu: &sync.Mutex{}, enc: json.NewEncoder(w), loc: loc}
}

// Discard returns a Logger that drops every entry.
func Discard() *Logger {
	return NewWithWriter(io.Discard, time.UTC)
}

// With returns a Logger that tags every entry with the given component.
// The returned Logger shares the underlying writer.
func (l *Logger) With(component string) *Logger {
	return &Logger{mu: l.mu, enc: l.enc, loc: l.loc, component: component}
}

// Location returns the location timestamps are rendered in.
func (l *Logger) Location() *time.Location {
	return l.loc
}

func (l *Logger) Info(msg string, fields map[string]any) {
	l.write("info", msg, fields)
}

func (l *Logger) Warn(msg string, fields map[string]any) {
	l.write("warn", msg, fields)
}

func (l *Logger) Error(msg string, err error, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	l.write("error", msg, fields)
}

func (l *Logger) write(level, msg string, fields map[string]any) {
	entry := make(map[string]any, len(fields)+4)
	for k, v := range fields {
		entry[k] = v
	}
	entry["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	entry["level"] = level
	entry["msg"] = msg
	if l.component != "" {
		entry["component"] = l.component
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.enc.Encode(entry)
}
