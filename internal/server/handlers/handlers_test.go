package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/planets/internal/server/cache"
	"github.com/agentstation/planets/internal/server/response"
	"github.com/agentstation/planets/internal/server/sse"
	ws "github.com/agentstation/planets/internal/server/websocket"
	"github.com/agentstation/planets/pkg/planets"
	"github.com/agentstation/planets/pkg/query"
	"github.com/agentstation/planets/pkg/repository"
)

type fixture struct {
	handlers *Handlers
	cache    *cache.Cache
	mux      *http.ServeMux
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithRepository(t, repository.NewMemory(planets.Seed()...))
}

func newFixtureWithRepository(t *testing.T, repo repository.Repository) *fixture {
	t.Helper()
	logger := zerolog.Nop()

	c := cache.New(time.Minute, time.Minute)
	svc := query.New(repo, query.WithLogger(&logger))
	svc.AddHooks(query.Hooks{
		OnCreated: func(planets.Planet) { c.Clear() },
		OnUpdated: func(_, _ planets.Planet) { c.Clear() },
		OnDeleted: func(planets.Planet) { c.Clear() },
	})

	h := New(svc, c, ws.NewHub(&logger), sse.NewBroadcaster(&logger), websocket.Upgrader{}, &logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.HandleWelcome)
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET /ready", h.HandleReady)
	mux.HandleFunc("GET /planets/{$}", h.HandleListPlanets)
	mux.HandleFunc("GET /planets/{name}", h.HandleGetPlanet)
	mux.HandleFunc("POST /planets/create", h.HandleCreatePlanet)
	mux.HandleFunc("PUT /planets/{name}/update/{$}", h.HandleUpdatePlanet)
	mux.HandleFunc("DELETE /planets/delete/{name}", h.HandleDeletePlanet)
	mux.HandleFunc("GET /planets/sort-by-radius", h.HandleSortByRadius)
	mux.HandleFunc("GET /planets/sort-by-distance-to-sun", h.HandleSortByDistanceToSun)
	mux.HandleFunc("GET /planets/sort-by-distance-to-planet/{name}", h.HandleSortByDistanceToPlanet)
	mux.HandleFunc("GET /planets/{name1}/get-distance/{name2}", h.HandleGetDistance)

	return &fixture{handlers: h, cache: c, mux: mux}
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func names(ps []planets.Planet) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestHandleWelcome(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, WelcomeMessage, w.Body.String())
}

func TestHandleHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.NotContains(t, body, "uptime")

	f.handlers.SetUptime(func() time.Duration { return 90*time.Second + 400*time.Millisecond })
	w = f.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1m30s", decode[map[string]any](t, w)["uptime"])
}

func TestHandleReady(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "ready", body["status"])
	assert.EqualValues(t, 8, body["planets"])
}

func TestHandleListPlanets(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/planets/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		[]string{"Mercury", "Venus", "Earth", "Mars", "Jupiter", "Saturn", "Uranus", "Neptune"},
		names(decode[[]planets.Planet](t, w)))

	// second request is served from cache
	f.do(t, http.MethodGet, "/planets/", "")
	assert.Equal(t, uint64(1), f.cache.GetStats().Hits)
}

func TestHandleGetPlanet(t *testing.T) {
	f := newFixture(t)

	t.Run("case insensitive", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/planets/eARTH", "")
		require.Equal(t, http.StatusOK, w.Code)
		p := decode[planets.Planet](t, w)
		assert.Equal(t, planets.Planet{Name: "Earth", Radius: 6371, DistanceToSun: 149.6}, p)
	})

	t.Run("not found", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/planets/pluto", "")
		require.Equal(t, http.StatusNotFound, w.Code)
		body := decode[response.Error](t, w)
		assert.Equal(t, "Planet Pluto not found", body.Message)
		assert.Equal(t, "NOT_FOUND", body.Code)
	})
}

func TestHandleCreatePlanet(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "created",
			body:       `{"name":"ceres","radius":473,"distanceToSun":413.7}`,
			wantStatus: http.StatusCreated,
			wantMsg:    "Planet Ceres succesfully created",
		},
		{
			name:       "duplicate",
			body:       `{"name":"EARTH","radius":1,"distanceToSun":1}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Planet Earth already exists.",
		},
		{
			name:       "zero radius",
			body:       `{"name":"Vulcan","radius":0,"distanceToSun":1}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    planets.InvalidDataMessage,
		},
		{
			name:       "missing distance",
			body:       `{"name":"Vulcan","radius":1}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    planets.InvalidDataMessage,
		},
		{
			name:       "missing name",
			body:       `{"radius":1,"distanceToSun":1}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    NameRequiredMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			w := f.do(t, http.MethodPost, "/planets/create", tt.body)
			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, tt.wantMsg, decode[response.Message](t, w).Msg)
				return
			}
			assert.Equal(t, tt.wantMsg, decode[response.Error](t, w).Message)
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodPost, "/planets/create", `{"name":`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "BAD_REQUEST", decode[response.Error](t, w).Code)
	})

	t.Run("empty body", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodPost, "/planets/create", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalidates cached list", func(t *testing.T) {
		f := newFixture(t)
		f.do(t, http.MethodGet, "/planets/", "")
		f.do(t, http.MethodPost, "/planets/create", `{"name":"Ceres","radius":473,"distanceToSun":413.7}`)
		w := f.do(t, http.MethodGet, "/planets/", "")
		assert.Len(t, decode[[]planets.Planet](t, w), 9)
	})
}

// gatedRepository holds its first List call open, after the snapshot is
// read, until release is closed.
type gatedRepository struct {
	repository.Repository
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedRepository) List(ctx context.Context) ([]planets.Planet, error) {
	ps, err := g.Repository.List(ctx)
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return ps, err
}

func TestHandleListPlanets_WriteDuringRead(t *testing.T) {
	repo := &gatedRepository{
		Repository: repository.NewMemory(planets.Seed()...),
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	f := newFixtureWithRepository(t, repo)

	done := make(chan *httptest.ResponseRecorder)
	go func() {
		done <- f.do(t, http.MethodGet, "/planets/", "")
	}()

	<-repo.entered
	w := f.do(t, http.MethodPost, "/planets/create", `{"name":"Ceres","radius":473,"distanceToSun":413.7}`)
	require.Equal(t, http.StatusCreated, w.Code)
	close(repo.release)

	assert.Len(t, decode[[]planets.Planet](t, <-done), 8, "the in-flight read sees its own snapshot")
	assert.Zero(t, f.cache.ItemCount(), "the pre-write snapshot must not be cached")

	w = f.do(t, http.MethodGet, "/planets/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]planets.Planet](t, w), 9)
}

func TestHandleUpdatePlanet(t *testing.T) {
	t.Run("rename", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodPut, "/planets/earth/update/", `{"name":"Terra","radius":6000,"distanceToSun":150}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Planet Earth succesfully updated", decode[response.Message](t, w).Msg)

		assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/planets/Earth", "").Code)
		w = f.do(t, http.MethodGet, "/planets/terra", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, planets.Planet{Name: "Terra", Radius: 6000, DistanceToSun: 150}, decode[planets.Planet](t, w))
	})

	t.Run("keeps name when omitted", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodPut, "/planets/mars/update/", `{"radius":3400,"distanceToSun":228}`)
		require.Equal(t, http.StatusOK, w.Code)
		w = f.do(t, http.MethodGet, "/planets/Mars", "")
		assert.Equal(t, 3400.0, decode[planets.Planet](t, w).Radius)
	})

	t.Run("rename collision keeps original", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodPut, "/planets/earth/update/", `{"name":"Mars","radius":1,"distanceToSun":1}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Planet Mars already exists.", decode[response.Error](t, w).Message)
		assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/planets/Earth", "").Code)
	})

	t.Run("unknown target", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodPut, "/planets/pluto/update/", `{"radius":1,"distanceToSun":1}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("blank name", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodPut, "/planets/earth/update/", `{"name":"   ","radius":1,"distanceToSun":1}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decode[response.Error](t, w)
		assert.Equal(t, NameRequiredMessage, body.Message)
		assert.Equal(t, "INVALID_DATA", body.Code)

		w = f.do(t, http.MethodGet, "/planets/Earth", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 6371.0, decode[planets.Planet](t, w).Radius)
	})

	t.Run("invalid data", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodPut, "/planets/earth/update/", `{"radius":-1,"distanceToSun":1}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, planets.InvalidDataMessage, decode[response.Error](t, w).Message)
	})
}

func TestHandleDeletePlanet(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodDelete, "/planets/delete/venus", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Planet Venus succesfully deleted", decode[response.Message](t, w).Msg)

	w = f.do(t, http.MethodDelete, "/planets/delete/venus", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Planet Venus not found", decode[response.Error](t, w).Message)
}

func TestHandleSorts(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{
			name:   "radius default ascending",
			target: "/planets/sort-by-radius",
			want:   []string{"Mercury", "Mars", "Venus", "Earth", "Neptune", "Uranus", "Saturn", "Jupiter"},
		},
		{
			name:   "radius descending",
			target: "/planets/sort-by-radius?asc=false",
			want:   []string{"Jupiter", "Saturn", "Uranus", "Neptune", "Earth", "Venus", "Mars", "Mercury"},
		},
		{
			name:   "non-true value is descending",
			target: "/planets/sort-by-radius?asc=yes",
			want:   []string{"Jupiter", "Saturn", "Uranus", "Neptune", "Earth", "Venus", "Mars", "Mercury"},
		},
		{
			name:   "distance to sun ascending",
			target: "/planets/sort-by-distance-to-sun?asc=true",
			want:   []string{"Mercury", "Venus", "Earth", "Mars", "Jupiter", "Saturn", "Uranus", "Neptune"},
		},
		{
			name:   "distance to earth",
			target: "/planets/sort-by-distance-to-planet/earth",
			want:   []string{"Earth", "Venus", "Mars", "Mercury", "Jupiter", "Saturn", "Uranus", "Neptune"},
		},
		{
			name:   "distance to earth descending",
			target: "/planets/sort-by-distance-to-planet/Earth?asc=false",
			want:   []string{"Neptune", "Uranus", "Saturn", "Jupiter", "Mercury", "Mars", "Venus", "Earth"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			w := f.do(t, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, names(decode[[]planets.Planet](t, w)))
		})
	}

	t.Run("unknown reference", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(t, http.MethodGet, "/planets/sort-by-distance-to-planet/pluto", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleGetDistance(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/planets/earth/get-distance/MARS", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 78.3, decode[response.Distance](t, w).Distance, 1e-9)

	// symmetric and cached
	w = f.do(t, http.MethodGet, "/planets/mars/get-distance/earth", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 78.3, decode[response.Distance](t, w).Distance, 1e-9)
	assert.Equal(t, uint64(1), f.cache.GetStats().Hits)

	w = f.do(t, http.MethodGet, "/planets/earth/get-distance/pluto", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, query.TwoPlanetsMessage, decode[response.Error](t, w).Message)
}

func TestAscending(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"?asc=true", true},
		{"?asc=false", false},
		{"?asc=", false},
		{"?asc=TRUE", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/planets/sort-by-radius"+tt.query, nil)
		assert.Equal(t, tt.want, ascending(r), tt.query)
	}
}
