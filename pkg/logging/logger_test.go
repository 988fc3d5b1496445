package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Failed to unmarshal %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLevelMarshalText(t *testing.T) {
	data, err := json.Marshal(map[string]Level{"level": WarnLevel})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"level":"WARN"}` {
		t.Errorf("json = %s", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{" Info ", InfoLevel},
		{"WARNING", WarnLevel},
		{"warn", WarnLevel},
		{"Error", ErrorLevel},
		{"", InfoLevel},
		{"verbose", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDomainFields(t *testing.T) {
	if f := PersonID("102"); f.Key != "person_id" || f.Value != "102" {
		t.Errorf("PersonID() = %+v", f)
	}
	if f := Degrees(3); f.Key != "degrees" || f.Value != 3 {
		t.Errorf("Degrees() = %+v", f)
	}
	if f := Latency(2 * time.Second); f.Value != "2s" {
		t.Errorf("Latency() = %+v", f)
	}
	if f := Error(nil); f.Value != nil {
		t.Errorf("Error(nil) = %+v", f)
	}
	if f := Error(errors.New("boom")); f.Value != "boom" {
		t.Errorf("Error() = %+v", f)
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("kept")
	logger.Error("kept")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0]["level"] != "WARN" || entries[1]["level"] != "ERROR" {
		t.Errorf("levels = %v, %v", entries[0]["level"], entries[1]["level"])
	}

	logger.SetLevel(DebugLevel)
	if logger.GetLevel() != DebugLevel {
		t.Errorf("GetLevel() = %v after SetLevel(Debug)", logger.GetLevel())
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	parent := NewJSONLogger(&buf, InfoLevel)
	child := parent.With(Component("search"), Source("102"))

	child.Info("searching", Target("158"), Source("override"))
	parent.Info("plain")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	fields := entries[0]
	if fields["component"] != "search" || fields["target"] != "158" {
		t.Errorf("child fields = %v", fields)
	}
	if fields["source"] != "override" {
		t.Errorf("call-site field should win, got %v", fields["source"])
	}
	if _, ok := entries[1]["component"]; ok {
		t.Errorf("parent should not inherit child fields, got %v", entries[1])
	}
}

func TestJSONLogger_SiblingsDoNotShareFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewJSONLogger(&buf, InfoLevel).With(Component("api"))
	a := base.With(Source("1"))
	b := base.With(Target("2"))

	a.Info("a")
	b.Info("b")

	entries := decodeLines(t, &buf)
	if _, ok := entries[1]["source"]; ok {
		t.Errorf("sibling leaked field: %v", entries[1])
	}
}

func TestJSONLogger_ChildSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	parent := NewJSONLogger(&buf, InfoLevel)
	child := parent.With(Component("dataset"))

	parent.SetLevel(ErrorLevel)
	child.Warn("dropped")
	if buf.Len() != 0 {
		t.Errorf("child should follow parent level, wrote %q", buf.String())
	}
}

func TestJSONLogger_FlatOrderedOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLogger(&buf, InfoLevel)
	l.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	l.Info("loaded", Count(2), File("people.csv"), String("msg", "clash"))

	want := `{"time":"2024-01-02T03:04:05Z","level":"INFO","msg":"loaded","count":2,"file":"people.csv","field.msg":"clash"}` + "\n"
	if buf.String() != want {
		t.Errorf("output = %q\nwant     %q", buf.String(), want)
	}
}

func TestJSONLogger_NoFields(t *testing.T) {
	var buf bytes.Buffer
	NewJSONLogger(&buf, InfoLevel).Info("message without fields")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if len(entry) != 3 {
		t.Errorf("Expected only time, level and msg, got %v", entry)
	}
}

func TestDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, InfoLevel))
	defer SetDefaultLogger(nil)

	DefaultLogger().Info("hello")
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("default logger output = %q", buf.String())
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	op := StartTimer(logger, "load", File("people.csv"))
	op.End(Count(3))
	StartTimer(logger, "search").EndDebug()
	StartTimer(logger, "snapshot").EndError(errors.New("disk full"))

	entries := decodeLines(t, &buf)
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0]["file"] != "people.csv" || entries[0]["count"] != float64(3) {
		t.Errorf("End fields = %v", entries[0])
	}
	if _, ok := entries[0]["latency"]; !ok {
		t.Error("End should record latency")
	}
	if entries[1]["level"] != "DEBUG" {
		t.Errorf("EndDebug level = %v", entries[1]["level"])
	}
	if entries[2]["level"] != "ERROR" || entries[2]["error"] != "disk full" {
		t.Errorf("EndError entry = %+v", entries[2])
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info("ignored")
	if logger.With(Count(1)) == nil {
		t.Error("With() returned nil")
	}
	if logger.GetLevel() != InfoLevel {
		t.Errorf("GetLevel() = %v", logger.GetLevel())
	}
}

func BenchmarkJSONLogger_Info(b *testing.B) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("search finished", Source("102"), Degrees(2))
	}
}
