package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/planets/pkg/planets"
)

func TestCollector_ObserveRequest(t *testing.T) {
	c := NewCollector()
	c.ObserveRequest("GET", "GET /planets/{name}", 200, 0.002)
	c.ObserveRequest("GET", "GET /planets/{name}", 200, 0.003)
	c.ObserveRequest("GET", "GET /planets/{name}", 404, 0.001)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", "GET /planets/{name}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", "GET /planets/{name}", "404")))
}

func TestCollector_Hooks(t *testing.T) {
	c := NewCollector()
	h := c.Hooks()

	ceres := planets.Planet{Name: "Ceres", Radius: 473, DistanceToSun: 413.7}
	h.OnCreated(ceres)
	h.OnCreated(ceres)
	h.OnUpdated(ceres, ceres)
	h.OnDeleted(ceres)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.writes.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.writes.WithLabelValues("update")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.writes.WithLabelValues("delete")))
}

func TestHandler(t *testing.T) {
	c := NewCollector()
	clients := 3
	c.TrackClients("websocket", func() int { return clients })
	c.ObserveRequest("GET", "GET /{$}", 200, 0.001)
	reg := NewRegistry(c)

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "planets_http_requests_total")
	assert.Contains(t, body, `planets_realtime_clients{transport="websocket"} 3`)
	assert.Contains(t, body, "go_goroutines")
	assert.True(t, strings.Contains(body, "planets_http_request_duration_seconds_bucket"))
}
