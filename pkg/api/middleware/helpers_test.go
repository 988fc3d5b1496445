package middleware

import (
	"net/http"
	"net/http/httptest"
)

// serve runs one request through mw wrapped around h
func serve(mw func(http.Handler) http.Handler, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mw(h).ServeHTTP(rr, req)
	return rr
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
