package handlers

import (
	"net/http"

	"github.com/agentstation/planets/internal/server/cache"
	"github.com/agentstation/planets/internal/server/response"
	"github.com/agentstation/planets/pkg/planets"
)

// HandleSortByRadius handles GET /planets/sort-by-radius.
// @Summary Sort by radius
// @Tags queries
// @Produce json
// @Param asc query string false "true for ascending (default)"
// @Success 200 {array} planets.Planet
// @Security ApiKeyAuth
// @Router /planets/sort-by-radius [get].
func (h *Handlers) HandleSortByRadius(w http.ResponseWriter, r *http.Request) {
	asc := ascending(r)
	h.sorted(w, r, cache.SortKey("radius", "", asc), func() ([]planets.Planet, error) {
		return h.service.SortByRadius(r.Context(), asc)
	})
}

// HandleSortByDistanceToSun handles GET /planets/sort-by-distance-to-sun.
// @Summary Sort by distance to the sun
// @Tags queries
// @Produce json
// @Param asc query string false "true for ascending (default)"
// @Success 200 {array} planets.Planet
// @Security ApiKeyAuth
// @Router /planets/sort-by-distance-to-sun [get].
func (h *Handlers) HandleSortByDistanceToSun(w http.ResponseWriter, r *http.Request) {
	asc := ascending(r)
	h.sorted(w, r, cache.SortKey("sun", "", asc), func() ([]planets.Planet, error) {
		return h.service.SortByDistanceToSun(r.Context(), asc)
	})
}

// HandleSortByDistanceToPlanet handles GET /planets/sort-by-distance-to-planet/{name}.
// @Summary Sort by proximity to a planet
// @Tags queries
// @Produce json
// @Param name path string true "Reference planet"
// @Param asc query string false "true for ascending (default)"
// @Success 200 {array} planets.Planet
// @Failure 404 {object} response.Error
// @Security ApiKeyAuth
// @Router /planets/sort-by-distance-to-planet/{name} [get].
func (h *Handlers) HandleSortByDistanceToPlanet(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("name")
	asc := ascending(r)
	h.sorted(w, r, cache.SortKey("planet", ref, asc), func() ([]planets.Planet, error) {
		return h.service.SortByDistanceToPlanet(r.Context(), ref, asc)
	})
}

// HandleGetDistance handles GET /planets/{name1}/get-distance/{name2}.
// @Summary Distance between planets
// @Description Absolute difference of the two planets' distances to the sun
// @Tags queries
// @Produce json
// @Param name1 path string true "First planet"
// @Param name2 path string true "Second planet"
// @Success 200 {object} response.Distance
// @Failure 400 {object} response.Error
// @Security ApiKeyAuth
// @Router /planets/{name1}/get-distance/{name2} [get].
func (h *Handlers) HandleGetDistance(w http.ResponseWriter, r *http.Request) {
	a, b := r.PathValue("name1"), r.PathValue("name2")
	key := cache.DistanceKey(a, b)
	if cached, found := h.cache.Float(key); found {
		response.OK(w, response.Distance{Distance: cached})
		return
	}

	gen := h.cache.Generation()
	d, err := h.service.GetDistanceBetweenPlanets(r.Context(), a, b)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.cache.SetIf(gen, key, d)
	response.OK(w, response.Distance{Distance: d})
}

// sorted serves a cached sorted view, computing it on a miss.
func (h *Handlers) sorted(w http.ResponseWriter, r *http.Request, key string, compute func() ([]planets.Planet, error)) {
	if cached, found := h.cache.Planets(key); found {
		response.OK(w, cached)
		return
	}

	gen := h.cache.Generation()
	ps, err := compute()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.cache.SetIf(gen, key, ps)
	response.OK(w, ps)
}
