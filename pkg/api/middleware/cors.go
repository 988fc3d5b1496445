package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig lists the browser origins allowed to call the API
type CORSConfig struct {
	AllowedOrigins   []string // exact origins, or "*" for any
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int // preflight cache lifetime in seconds
}

// DefaultCORSConfig allows no origins. The method and header lists cover
// the REST and GraphQL endpoints, including both credential headers.
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowedOrigins: []string{},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", APIKeyHeader, RequestIDHeader},
		MaxAge:         86400,
	}
}

// CORS answers preflight requests and sets Access-Control headers for
// allowed origins. A nil config allows no origins.
func CORS(config *CORSConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultCORSConfig()
	}

	origins := make(map[string]struct{}, len(config.AllowedOrigins))
	anyOrigin := false
	for _, o := range config.AllowedOrigins {
		if o == "*" {
			anyOrigin = true
		}
		origins[o] = struct{}{}
	}

	methods := strings.Join(config.AllowedMethods, ", ")
	if methods == "" {
		methods = "GET, OPTIONS"
	}
	headers := strings.Join(config.AllowedHeaders, ", ")
	if headers == "" {
		headers = "Content-Type"
	}

	allowed := func(origin string) bool {
		if origin == "" {
			return false
		}
		_, ok := origins[origin]
		return ok || anyOrigin
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			ok := allowed(origin)

			if ok {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				if config.AllowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				if config.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
				}
			}

			if r.Method == http.MethodOptions {
				if !ok {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
