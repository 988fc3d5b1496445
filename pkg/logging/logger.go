// Package logging provides a small structured logger that writes one JSON
// object per line.
package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Field is one key/value pair attached to an entry
type Field struct {
	Key   string
	Value any
}

// Logger is the structured logging interface used across the module
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With returns a logger that adds fields to every entry
	With(fields ...Field) Logger
	SetLevel(level Level)
	GetLevel() Level
}

// JSONLogger writes entries as flat JSON objects:
//
//	{"time":"...","level":"INFO","msg":"...","component":"api",...}
//
// Loggers derived with With share the writer, its lock and the level.
type JSONLogger struct {
	out    *lockedWriter
	level  *atomic.Int32
	fields []Field
	now    func() time.Time
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewJSONLogger creates a logger writing to w at the given level
func NewJSONLogger(w io.Writer, level Level) *JSONLogger {
	l := &JSONLogger{
		out:   &lockedWriter{w: w},
		level: new(atomic.Int32),
		now:   time.Now,
	}
	l.level.Store(int32(level))
	return l
}

func (l *JSONLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *JSONLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *JSONLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *JSONLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

// With returns a child logger. Fields given at the call site override
// same-named fields set here.
func (l *JSONLogger) With(fields ...Field) Logger {
	child := *l
	child.fields = append(l.fields[:len(l.fields):len(l.fields)], fields...)
	return &child
}

// SetLevel changes the level for this logger and every logger sharing it
func (l *JSONLogger) SetLevel(level Level) { l.level.Store(int32(level)) }

// GetLevel returns the current level
func (l *JSONLogger) GetLevel() Level { return Level(l.level.Load()) }

func (l *JSONLogger) log(level Level, msg string, fields []Field) {
	if level < l.GetLevel() {
		return
	}

	var buf bytes.Buffer
	buf.WriteString(`{"time":`)
	writeJSON(&buf, l.now().UTC().Format(time.RFC3339Nano))
	buf.WriteString(`,"level":`)
	writeJSON(&buf, level.String())
	buf.WriteString(`,"msg":`)
	writeJSON(&buf, msg)
	for _, f := range merge(l.fields, fields) {
		buf.WriteByte(',')
		writeJSON(&buf, f.Key)
		buf.WriteByte(':')
		writeJSON(&buf, f.Value)
	}
	buf.WriteString("}\n")

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.out.w.Write(buf.Bytes())
}

// reservedKeys cannot be overwritten by fields
var reservedKeys = map[string]bool{"time": true, "level": true, "msg": true}

// merge keeps each key once, at its first position, with its last value
func merge(base, extra []Field) []Field {
	out := make([]Field, 0, len(base)+len(extra))
	pos := make(map[string]int, cap(out))
	for _, group := range [2][]Field{base, extra} {
		for _, f := range group {
			if reservedKeys[f.Key] {
				f.Key = "field." + f.Key
			}
			if i, seen := pos[f.Key]; seen {
				out[i].Value = f.Value
				continue
			}
			pos[f.Key] = len(out)
			out = append(out, f)
		}
	}
	return out
}

func writeJSON(buf *bytes.Buffer, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal("!unencodable: " + err.Error())
	}
	buf.Write(data)
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (n NopLogger) With(...Field) Logger { return n }
func (NopLogger) SetLevel(Level)         {}
func (NopLogger) GetLevel() Level        { return InfoLevel }

// NewNopLogger returns a logger that discards all output
func NewNopLogger() Logger {
	return NopLogger{}
}

var (
	defaultMu     sync.Mutex
	defaultLogger Logger
)

// DefaultLogger returns the process-wide logger. Unless replaced it writes
// to stderr at the level named by LOG_LEVEL.
func DefaultLogger() Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewJSONLogger(os.Stderr, ParseLevel(os.Getenv("LOG_LEVEL")))
	}
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide logger; nil restores the
// stderr default on next use
func SetDefaultLogger(logger Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}
