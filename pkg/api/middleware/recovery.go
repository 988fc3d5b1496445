package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/dd0wney/cluso-degrees/pkg/logging"
)

// PanicRecovery turns a handler panic into a logged error and a bare 500.
// If the handler already started its response nothing more is written.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func PanicRecovery(logger logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := record(w)
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				logger.Error("handler panicked",
					logging.String("method", r.Method),
					logging.String("path", r.URL.Path),
					logging.RequestID(GetRequestID(r)),
					logging.String("panic", fmt.Sprint(v)),
					logging.String("stack", string(debug.Stack())),
				)
				if !rec.wroteHeader {
					http.Error(rec, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(rec, r)
		})
	}
}
