package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/agentstation/planets/internal/server/cache"
	"github.com/agentstation/planets/internal/server/response"
	"github.com/agentstation/planets/pkg/planets"
)

// NameRequiredMessage is reported when a body has no usable name.
const NameRequiredMessage = planets.NameRequiredMessage

// HandleListPlanets handles GET /planets/.
// @Summary List planets
// @Description List all planets in insertion order
// @Tags planets
// @Produce json
// @Success 200 {array} planets.Planet
// @Failure 500 {object} response.Error
// @Security ApiKeyAuth
// @Router /planets/ [get].
func (h *Handlers) HandleListPlanets(w http.ResponseWriter, r *http.Request) {
	key := cache.ListKey()
	if cached, found := h.cache.Planets(key); found {
		response.OK(w, cached)
		return
	}

	gen := h.cache.Generation()
	all, err := h.service.GetAllPlanets(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.cache.SetIf(gen, key, all)
	response.OK(w, all)
}

// HandleGetPlanet handles GET /planets/{name}.
// @Summary Get planet
// @Description Retrieve a planet by case-insensitive name
// @Tags planets
// @Produce json
// @Param name path string true "Planet name"
// @Success 200 {object} planets.Planet
// @Failure 404 {object} response.Error
// @Security ApiKeyAuth
// @Router /planets/{name} [get].
func (h *Handlers) HandleGetPlanet(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	key := cache.PlanetKey(name)
	if cached, found := h.cache.Planet(key); found {
		response.OK(w, cached)
		return
	}

	gen := h.cache.Generation()
	p, err := h.service.GetPlanet(r.Context(), name)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.cache.SetIf(gen, key, p)
	response.OK(w, p)
}

// HandleCreatePlanet handles POST /planets/create.
// @Summary Create planet
// @Description Add a planet; radius and distanceToSun must be positive
// @Tags planets
// @Accept json
// @Produce json
// @Param planet body planets.Planet true "Planet"
// @Success 201 {object} response.Message
// @Failure 400 {object} response.Error
// @Security ApiKeyAuth
// @Router /planets/create [post].
func (h *Handlers) HandleCreatePlanet(w http.ResponseWriter, r *http.Request) {
	input, err := decodePlanet(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(input.Name) == "" {
		response.Fail(w, http.StatusBadRequest, "INVALID_DATA", NameRequiredMessage)
		return
	}

	created, err := h.service.CreatePlanet(r.Context(), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Created(w, fmt.Sprintf("Planet %s succesfully created", created.Name))
}

// HandleUpdatePlanet handles PUT /planets/{name}/update/.
// @Summary Update planet
// @Description Replace a planet's data, renaming it when the body carries a new name
// @Tags planets
// @Accept json
// @Produce json
// @Param name path string true "Planet name"
// @Param planet body planets.Planet true "Replacement data"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Security ApiKeyAuth
// @Router /planets/{name}/update/ [put].
func (h *Handlers) HandleUpdatePlanet(w http.ResponseWriter, r *http.Request) {
	target := r.PathValue("name")
	input, err := decodePlanet(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	// An empty name keeps the target's name; a blank one is not a name.
	if input.Name != "" && strings.TrimSpace(input.Name) == "" {
		response.Fail(w, http.StatusBadRequest, "INVALID_DATA", NameRequiredMessage)
		return
	}

	if _, err := h.service.UpdatePlanet(r.Context(), input, target); err != nil {
		h.fail(w, r, err)
		return
	}

	response.Done(w, fmt.Sprintf("Planet %s succesfully updated", planets.NormalizeName(target)))
}

// HandleDeletePlanet handles DELETE /planets/delete/{name}.
// @Summary Delete planet
// @Description Remove a planet by name
// @Tags planets
// @Produce json
// @Param name path string true "Planet name"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Security ApiKeyAuth
// @Router /planets/delete/{name} [delete].
func (h *Handlers) HandleDeletePlanet(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := h.service.DeletePlanet(r.Context(), name); err != nil {
		h.fail(w, r, err)
		return
	}

	response.Done(w, fmt.Sprintf("Planet %s succesfully deleted", planets.NormalizeName(name)))
}

// fail writes err as an error response, logging server-side failures.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := response.StatusFor(err); status >= http.StatusInternalServerError {
		h.log(r).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	} else {
		h.log(r).Debug().Err(err).Int("status", status).Msg("Request rejected")
	}
	response.ErrorFromType(w, err)
}
