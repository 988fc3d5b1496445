package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// requestIDFor sends header as X-Request-ID and returns the id the handler saw
func requestIDFor(t *testing.T, header string) string {
	t.Helper()
	var seen string
	req := httptest.NewRequest("GET", "/", nil)
	if header != "" {
		req.Header.Set(RequestIDHeader, header)
	}
	rr := serve(RequestID(), func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}, req)
	assert.Equal(t, seen, rr.Header().Get(RequestIDHeader), "response should echo the id")
	return seen
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name   string
		header string
		check  func(t *testing.T, id string)
	}{
		{"generated when absent", "", func(t *testing.T, id string) {
			assert.True(t, isUUID(id), "got %q", id)
		}},
		{"client value kept", "client-provided-id", func(t *testing.T, id string) {
			assert.Equal(t, "client-provided-id", id)
		}},
		{"markup stripped", "id<script>alert('xss')</script>", func(t *testing.T, id string) {
			assert.NotContains(t, id, "<")
			assert.NotContains(t, id, "'")
			assert.True(t, strings.HasPrefix(id, "idscript"))
		}},
		{"truncated", strings.Repeat("a", 200), func(t *testing.T, id string) {
			assert.Len(t, id, maxRequestIDLength)
		}},
		{"nothing usable regenerates", "<<>>", func(t *testing.T, id string) {
			assert.True(t, isUUID(id), "got %q", id)
		}},
		{"cleaned before truncation", strings.Repeat("<", 100) + "abc", func(t *testing.T, id string) {
			assert.Equal(t, "abc", id)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, requestIDFor(t, tt.header))
		})
	}
}

func TestSanitizeRequestID(t *testing.T) {
	for in, want := range map[string]string{
		"abc123":          "abc123",
		"abc-123_456.xyz": "abc-123_456.xyz",
		"<script>":        "script",
		"foo bar":         "foobar",
		"test@email.com":  "testemail.com",
		"naïve":           "nave",
	} {
		assert.Equal(t, want, sanitizeRequestID(in), "input %q", in)
	}
}

func TestRequestIDContext(t *testing.T) {
	assert.Equal(t, "", GetRequestID(httptest.NewRequest("GET", "/", nil)))
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
	assert.Equal(t, "req-1", RequestIDFromContext(WithRequestID(context.Background(), "req-1")))
}
