package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dd0wney/cluso-degrees/pkg/auth"
	"github.com/dd0wney/cluso-degrees/pkg/logging"
)

// APIKeyHeader carries an API key when no Authorization header is sent
const APIKeyHeader = "X-API-Key"

// RequireAuth creates middleware that rejects requests without a valid bearer
// token or API key. A nil validator disables authentication. Authenticated
// claims are stored in the request context.
func RequireAuth(validator auth.TokenValidator, logger logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return func(next http.Handler) http.Handler {
		if validator == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractToken(r)
			if !ok {
				unauthorized(w, "missing credentials")
				return
			}

			claims, err := validator.ValidateToken(r.Context(), token)
			if err != nil {
				logger.Info("authentication failed",
					logging.String("path", r.URL.Path),
					logging.RequestID(GetRequestID(r)),
					logging.Error(err),
				)
				if errors.Is(err, auth.ErrExpiredToken) {
					unauthorized(w, "token expired")
					return
				}
				unauthorized(w, "invalid credentials")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// extractToken reads "Authorization: Bearer <token>" or the API key header
func extractToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			return "", false
		}
		token = strings.TrimSpace(token)
		return token, token != ""
	}
	if key := strings.TrimSpace(r.Header.Get(APIKeyHeader)); key != "" {
		return key, true
	}
	return "", false
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="degrees"`)
	http.Error(w, message, http.StatusUnauthorized)
}
