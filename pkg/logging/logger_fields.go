package logging

import "time"

// F builds a field of any type; the typed helpers below keep call sites short
func F[T any](key string, value T) Field { return Field{Key: key, Value: value} }

func String(key, value string) Field    { return F(key, value) }
func Int(key string, value int) Field   { return F(key, value) }
func Bool(key string, value bool) Field { return F(key, value) }
func Any(key string, value any) Field   { return F(key, value) }

// Duration renders d in Go notation, e.g. "1.5ms"
func Duration(key string, d time.Duration) Field { return F(key, d.String()) }

// Error records err's message under "error"; a nil error logs as null
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error"}
	}
	return F("error", err.Error())
}

// Keys shared across packages so log queries stay stable
const (
	KeyComponent = "component"
	KeyPersonID  = "person_id"
	KeyMovieID   = "movie_id"
	KeySource    = "source"
	KeyTarget    = "target"
	KeyDegrees   = "degrees"
	KeyRequestID = "request_id"
	KeyFile      = "file"
	KeyLatency   = "latency"
	KeyCount     = "count"
)

func Component(name string) Field { return String(KeyComponent, name) }
func PersonID(id string) Field    { return String(KeyPersonID, id) }
func MovieID(id string) Field     { return String(KeyMovieID, id) }
func Source(id string) Field      { return String(KeySource, id) }
func Target(id string) Field      { return String(KeyTarget, id) }
func RequestID(id string) Field   { return String(KeyRequestID, id) }
func File(name string) Field      { return String(KeyFile, name) }
func Degrees(n int) Field         { return Int(KeyDegrees, n) }
func Count(n int) Field           { return Int(KeyCount, n) }
func Latency(d time.Duration) Field {
	return Duration(KeyLatency, d)
}
