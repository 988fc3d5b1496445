package middleware

import (
	"net/http"
	"time"

	"github.com/dd0wney/cluso-degrees/pkg/logging"
)

// Logging writes one structured line per request once it completes.
// 5xx responses are logged at Warn, the rest at Info. requestID may be nil.
func Logging(logger logging.Logger, requestID func(*http.Request) string) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := record(w)
			next.ServeHTTP(rec, r)

			fields := make([]logging.Field, 0, 6)
			fields = append(fields,
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", rec.status),
				logging.Int("bytes", rec.bytes),
				logging.Latency(time.Since(start)),
			)
			if requestID != nil {
				if id := requestID(r); id != "" {
					fields = append(fields, logging.RequestID(id))
				}
			}

			log := logger.Info
			msg := "request"
			if rec.status >= http.StatusInternalServerError {
				log, msg = logger.Warn, "request failed"
			}
			log(msg, fields...)
		})
	}
}
