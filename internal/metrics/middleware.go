package metrics

import (
	"net/http"
	"strconv"
	"time"
)

// statusRecorder captures the status code written by a handler. Handlers
// that never call WriteHeader answered 200.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records the response code and latency of every request to the
// named endpoint.
func Middleware(next http.Handler, endpoint string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		EndpointResponses.WithLabelValues(endpoint, r.Method, strconv.Itoa(rec.status)).Inc()
		EndpointDuration.WithLabelValues(endpoint, r.Method).Observe(time.Since(start).Seconds())
	})
}
