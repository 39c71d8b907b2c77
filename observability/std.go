package observability

import (
	"fmt"
	"log"
	"strings"
	"sync"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

// ParseLevel accepts debug, info, warn or error in any case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

type stdLogger struct {
	out    *log.Logger
	min    Level
	fields []Field
}

// NewStdLogger writes entries below min nowhere and the rest as
// "[LEVEL][component] message key=value ..." lines. The component is taken
// from the last "component" field attached with With.
func NewStdLogger(out *log.Logger, min Level) Logger {
	if out == nil {
		out = log.Default()
	}
	return &stdLogger{out: out, min: min}
}

func (l *stdLogger) Debug(msg string, fields ...Field) { l.emit(LevelDebug, msg, fields) }
func (l *stdLogger) Info(msg string, fields ...Field)  { l.emit(LevelInfo, msg, fields) }
func (l *stdLogger) Warn(msg string, fields ...Field)  { l.emit(LevelWarn, msg, fields) }
func (l *stdLogger) Error(msg string, fields ...Field) { l.emit(LevelError, msg, fields) }

func (l *stdLogger) With(fields ...Field) Logger {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &stdLogger{out: l.out, min: l.min, fields: merged}
}

func (l *stdLogger) emit(level Level, msg string, fields []Field) {
	if level < l.min {
		return
	}
	l.out.Print(formatLine(level, msg, append(append([]Field(nil), l.fields...), fields...)))
}

func formatLine(level Level, msg string, fields []Field) string {
	var b strings.Builder
	b.WriteString("[" + level.String() + "]")
	var rest []Field
	var component interface{}
	for _, f := range fields {
		if f.Key() == "component" {
			component = f.Value()
			continue
		}
		rest = append(rest, f)
	}
	if component != nil {
		fmt.Fprintf(&b, "[%v]", component)
	}
	b.WriteString(" " + msg)
	for _, f := range rest {
		v := f.Value()
		if s, ok := v.(string); ok && strings.ContainsAny(s, " \t\"=") {
			v = fmt.Sprintf("%q", s)
		}
		fmt.Fprintf(&b, " %s=%v", f.Key(), v)
	}
	return b.String()
}

// Entry is one captured log call.
type Entry struct {
	Level   Level
	Message string
	Fields  map[string]interface{}
}

// Recorder keeps every entry in memory. It is safe for concurrent use.
type Recorder struct {
	mu      *sync.Mutex
	entries *[]Entry
	fields  []Field
}

func NewRecorder() *Recorder {
	return &Recorder{mu: &sync.Mutex{}, entries: &[]Entry{}}
}

func (r *Recorder) Debug(msg string, fields ...Field) { r.add(LevelDebug, msg, fields) }
func (r *Recorder) Info(msg string, fields ...Field)  { r.add(LevelInfo, msg, fields) }
func (r *Recorder) Warn(msg string, fields ...Field)  { r.add(LevelWarn, msg, fields) }
func (r *Recorder) Error(msg string, fields ...Field) { r.add(LevelError, msg, fields) }

func (r *Recorder) With(fields ...Field) Logger {
	merged := append(append([]Field(nil), r.fields...), fields...)
	return &Recorder{mu: r.mu, entries: r.entries, fields: merged}
}

func (r *Recorder) add(level Level, msg string, fields []Field) {
	e := Entry{Level: level, Message: msg, Fields: make(map[string]interface{})}
	for _, f := range r.fields {
		e.Fields[f.Key()] = f.Value()
	}
	for _, f := range fields {
		e.Fields[f.Key()] = f.Value()
	}
	r.mu.Lock()
	*r.entries = append(*r.entries, e)
	r.mu.Unlock()
}

// Entries returns a copy of everything logged so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), *r.entries...)
}

// Find returns the first entry with the given message.
func (r *Recorder) Find(msg string) (Entry, bool) {
	for _, e := range r.Entries() {
		if e.Message == msg {
			return e, true
		}
	}
	return Entry{}, false
}
