package middleware

import (
	"net/http"
	"time"
)

// RequestObserver records served requests.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, seconds float64)
}

// Metrics records the status and latency of each request, labelled with
// the mux pattern that matched it so path values do not explode the label
// space.
func Metrics(observer RequestObserver, mux *http.ServeMux) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := "unmatched"
			if _, pattern := mux.Handler(r); pattern != "" {
				route = pattern
			}

			start := time.Now()
			wrapped := wrap(w)
			next.ServeHTTP(wrapped, r)
			observer.ObserveRequest(r.Method, route, wrapped.statusCode, time.Since(start).Seconds())
		})
	}
}
