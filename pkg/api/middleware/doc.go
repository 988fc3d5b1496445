// Package middleware provides the HTTP middleware wrapped around the degrees API.
//
// All middleware follows the standard pattern: func(http.Handler) http.Handler
// so a chain is built by nesting:
//
//	handler := middleware.PanicRecovery(logger)(mux)
//	handler = middleware.Logging(logger, middleware.GetRequestID)(handler)
//	handler = middleware.RequestID()(handler)
//
// The outermost middleware runs first, so RequestID must wrap Logging for the
// log line to carry the request ID.
package middleware
