package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// RequestIDHeader carries the correlation identifier in both directions
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 64

type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the identifier stored by WithRequestID, or ""
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// GetRequestID returns the identifier RequestID attached to r
func GetRequestID(r *http.Request) string {
	return RequestIDFromContext(r.Context())
}

// sanitizeRequestID keeps only [A-Za-z0-9._-] so the value is safe to echo
// into headers and logs
func sanitizeRequestID(id string) string {
	return strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			return c
		case c == '-', c == '_', c == '.':
			return c
		}
		return -1
	}, id)
}

// RequestID tags each request with an identifier. An inbound X-Request-ID is
// kept after cleaning; when nothing usable remains a UUID is minted.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sanitizeRequestID(r.Header.Get(RequestIDHeader))
			if len(id) > maxRequestIDLength {
				id = id[:maxRequestIDLength]
			}
			if id == "" {
				id = uuid.NewString()
			}

			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
		})
	}
}
