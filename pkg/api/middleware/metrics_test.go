package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeRecorder struct {
	requests []string
	sizes    []float64
	inFlight int
}

func (f *fakeRecorder) RecordHTTPRequest(method, path, status string, _ time.Duration) {
	f.requests = append(f.requests, method+" "+path+" "+status)
}

func (f *fakeRecorder) RecordResponseSize(_, _ string, size float64) {
	f.sizes = append(f.sizes, size)
}

func (f *fakeRecorder) IncHTTPRequestsInFlight() { f.inFlight++ }
func (f *fakeRecorder) DecHTTPRequestsInFlight() { f.inFlight-- }

func hello(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("Hello"))
}

func TestMetrics_RecordsRequestAndSize(t *testing.T) {
	rec := &fakeRecorder{}
	serve(Metrics(rec), hello, httptest.NewRequest("GET", "/test", nil))

	assert.Equal(t, []string{"GET /test 200"}, rec.requests)
	assert.Equal(t, []float64{5}, rec.sizes)
}

func TestMetrics_UnknownRoutesCollapsed(t *testing.T) {
	rec := &fakeRecorder{}
	h := Metrics(rec, "/api/v1/path")(http.NotFoundHandler())

	for _, path := range []string{"/api/v1/path", "/wp-admin", "/.env"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	assert.Equal(t, []string{"GET /api/v1/path 404", "GET other 404", "GET other 404"}, rec.requests)
}

func TestMetrics_TracksInFlight(t *testing.T) {
	rec := &fakeRecorder{}
	var during int

	serve(Metrics(rec), func(w http.ResponseWriter, r *http.Request) {
		during = rec.inFlight
	}, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, 1, during)
	assert.Equal(t, 0, rec.inFlight)
}

func TestMetrics_NilRecorder(t *testing.T) {
	rr := serve(Metrics(nil), hello, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMetrics_SharesRecorderWithLogging(t *testing.T) {
	rec := &fakeRecorder{}
	h := Logging(nil, nil)(Metrics(rec)(http.HandlerFunc(hello)))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, []float64{5}, rec.sizes)
}

func TestResponseRecorder_FirstStatusWins(t *testing.T) {
	rec := record(httptest.NewRecorder())
	rec.WriteHeader(http.StatusNotFound)
	rec.WriteHeader(http.StatusOK)

	assert.Equal(t, http.StatusNotFound, rec.status)
	assert.Same(t, rec, record(rec))
}
