// Package query implements the planet query service: validated writes,
// rename-on-update, and the sorted and distance views built on top of a
// repository.Repository.
package query

import (
	"context"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/planets/pkg/errors"
	"github.com/agentstation/planets/pkg/logging"
	"github.com/agentstation/planets/pkg/planets"
	"github.com/agentstation/planets/pkg/repository"
)

// TwoPlanetsMessage is reported when a distance query names an unknown planet.
const TwoPlanetsMessage = "You have to provide two existing planet names"

// Hooks are called after a write has been committed.
type Hooks struct {
	OnCreated func(p planets.Planet)
	OnUpdated func(previous, current planets.Planet)
	OnDeleted func(p planets.Planet)
}

// Service answers planet queries against a repository.
type Service struct {
	repo   repository.Repository
	logger *zerolog.Logger
	hooks  []Hooks
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for write traces.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHooks registers write hooks. It may be given more than once.
func WithHooks(h Hooks) Option {
	return func(s *Service) {
		s.hooks = append(s.hooks, h)
	}
}

// New creates a Service over repo.
func New(repo repository.Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddHooks registers write hooks after construction.
func (s *Service) AddHooks(h Hooks) {
	s.hooks = append(s.hooks, h)
}

// GetPlanet returns the planet stored under name.
func (s *Service) GetPlanet(ctx context.Context, name string) (planets.Planet, error) {
	p, ok, err := s.repo.Get(ctx, name)
	if err != nil {
		return planets.Planet{}, err
	}
	if !ok {
		return planets.Planet{}, errors.NewNotFoundError(repository.Resource, planets.NormalizeName(name))
	}
	return p, nil
}

// GetAllPlanets returns every planet in insertion order.
func (s *Service) GetAllPlanets(ctx context.Context) ([]planets.Planet, error) {
	return s.repo.List(ctx)
}

// CreatePlanet validates and stores a new planet.
func (s *Service) CreatePlanet(ctx context.Context, input planets.Planet) (planets.Planet, error) {
	if strings.TrimSpace(input.Name) == "" {
		return planets.Planet{}, errors.NewValidationError("name", input.Name, planets.NameRequiredMessage)
	}
	if err := input.Validate(); err != nil {
		return planets.Planet{}, err
	}
	p := input.Normalized()
	if err := s.repo.Create(ctx, p); err != nil {
		return planets.Planet{}, err
	}

	s.trace(ctx, "create", p.Name)
	for _, h := range s.hooks {
		if h.OnCreated != nil {
			h.OnCreated(p)
		}
	}
	return p, nil
}

// UpdatePlanet replaces the planet stored under target with input. When
// input.Name is empty the planet keeps its name; otherwise it is renamed.
// A name made only of whitespace is rejected.
// Validation happens before anything is touched and the swap itself is a
// single repository operation, so a failed update leaves the original in
// place.
func (s *Service) UpdatePlanet(ctx context.Context, input planets.Planet, target string) (planets.Planet, error) {
	if input.Name != "" && strings.TrimSpace(input.Name) == "" {
		return planets.Planet{}, errors.NewValidationError("name", input.Name, planets.NameRequiredMessage)
	}
	if err := input.Validate(); err != nil {
		return planets.Planet{}, err
	}
	previous, err := s.GetPlanet(ctx, target)
	if err != nil {
		return planets.Planet{}, err
	}

	next := input
	if next.Name == "" {
		next.Name = target
	}
	next = next.Normalized()

	if err := s.repo.Replace(ctx, target, next); err != nil {
		return planets.Planet{}, err
	}

	s.trace(ctx, "update", next.Name)
	for _, h := range s.hooks {
		if h.OnUpdated != nil {
			h.OnUpdated(previous, next)
		}
	}
	return next, nil
}

// DeletePlanet removes the planet stored under name.
func (s *Service) DeletePlanet(ctx context.Context, name string) error {
	p, ok, err := s.repo.Get(ctx, name)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, name); err != nil {
		return err
	}
	if !ok {
		p = planets.Planet{Name: planets.NormalizeName(name)}
	}

	s.trace(ctx, "delete", p.Name)
	for _, h := range s.hooks {
		if h.OnDeleted != nil {
			h.OnDeleted(p)
		}
	}
	return nil
}

// SortByRadius returns all planets ordered by radius.
func (s *Service) SortByRadius(ctx context.Context, ascending bool) ([]planets.Planet, error) {
	return s.sortedBy(ctx, ascending, func(p planets.Planet) float64 { return p.Radius })
}

// SortByDistanceToSun returns all planets ordered by distance to the sun.
func (s *Service) SortByDistanceToSun(ctx context.Context, ascending bool) ([]planets.Planet, error) {
	return s.sortedBy(ctx, ascending, func(p planets.Planet) float64 { return p.DistanceToSun })
}

// SortByDistanceToPlanet returns all planets, the reference included,
// ordered by how far their orbit is from the reference planet's.
func (s *Service) SortByDistanceToPlanet(ctx context.Context, reference string, ascending bool) ([]planets.Planet, error) {
	ref, err := s.GetPlanet(ctx, reference)
	if err != nil {
		return nil, err
	}
	return s.sortedBy(ctx, ascending, func(p planets.Planet) float64 {
		return math.Abs(p.DistanceToSun - ref.DistanceToSun)
	})
}

// GetDistanceBetweenPlanets returns the absolute difference between the two
// planets' distances to the sun.
func (s *Service) GetDistanceBetweenPlanets(ctx context.Context, nameA, nameB string) (float64, error) {
	a, okA, err := s.repo.Get(ctx, nameA)
	if err != nil {
		return 0, err
	}
	b, okB, err := s.repo.Get(ctx, nameB)
	if err != nil {
		return 0, err
	}
	if !okA || !okB {
		return 0, errors.NewInputError(TwoPlanetsMessage, nameA, nameB)
	}
	return math.Abs(a.DistanceToSun - b.DistanceToSun), nil
}

// sortedBy stable-sorts ascending on key and reverses the result when a
// descending order is requested, so ties come out in reverse insertion
// order too.
func (s *Service) sortedBy(ctx context.Context, ascending bool, key func(planets.Planet) float64) ([]planets.Planet, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return key(all[i]) < key(all[j])
	})
	if !ascending {
		slices.Reverse(all)
	}
	return all, nil
}

func (s *Service) trace(ctx context.Context, op, name string) {
	if logging.FromContext(ctx) == logging.Default() {
		ctx = logging.WithLogger(ctx, s.logger)
	}
	ctx = logging.WithPlanet(logging.WithOperation(ctx, op), name)
	logging.FromContext(ctx).Debug().Msg("planet written")
}
