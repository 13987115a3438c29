package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type observation struct {
	method, route string
	status        int
}

type recordingObserver struct {
	mu  sync.Mutex
	obs []observation
}

func (r *recordingObserver) ObserveRequest(method, route string, status int, _ float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.obs = append(r.obs, observation{method, route, status})
}

// TestMetrics verifies requests are labelled by route pattern.
func TestMetrics(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /planets/{name}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	observer := &recordingObserver{}
	handler := Metrics(observer, mux)(mux)

	for _, path := range []string{"/planets/earth", "/planets/mars", "/nowhere"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	want := []observation{
		{"GET", "GET /planets/{name}", http.StatusNotFound},
		{"GET", "GET /planets/{name}", http.StatusNotFound},
		{"GET", "unmatched", http.StatusNotFound},
	}
	if len(observer.obs) != len(want) {
		t.Fatalf("expected %d observations, got %d", len(want), len(observer.obs))
	}
	for i := range want {
		if observer.obs[i] != want[i] {
			t.Errorf("observation %d: expected %+v, got %+v", i, want[i], observer.obs[i])
		}
	}
}
