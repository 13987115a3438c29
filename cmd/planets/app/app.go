// Package app provides the application context and dependency management
// for the planets CLI. It centralizes configuration, logging and the lazily
// opened query service shared by every command.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/planets/cmd/application"
	"github.com/agentstation/planets/pkg/planets"
	"github.com/agentstation/planets/pkg/query"
	"github.com/agentstation/planets/pkg/repository"
)

// App represents the planets application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Query service and its repository (lazy-initialized, singleton)
	mu      sync.RWMutex
	repo    repository.Repository
	service *query.Service
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment, .env files and the default
// config file locations; options may replace any of it.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Service returns the query service, opening and seeding the configured
// repository on first use. Safe for concurrent use; only one repository is
// ever opened.
func (a *App) Service(ctx context.Context) (*query.Service, error) {
	a.mu.RLock()
	if a.service != nil {
		svc := a.service
		a.mu.RUnlock()
		return svc, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.service != nil {
		return a.service, nil
	}

	seed, err := a.seed()
	if err != nil {
		return nil, err
	}

	repo, err := repository.Open(ctx, a.config.Storage, seed...)
	if err != nil {
		return nil, err
	}

	a.logger.Debug().
		Str("driver", a.config.Storage.Driver).
		Int("seed", len(seed)).
		Msg("Repository opened")

	a.repo = repo
	a.service = query.New(repo, query.WithLogger(a.logger))
	return a.service, nil
}

// Shutdown releases the repository if one was opened.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.repo == nil {
		return nil
	}
	err := a.repo.Close()
	a.repo = nil
	a.service = nil
	return err
}

// seed returns the configured catalog file, or the built-in solar system.
func (a *App) seed() ([]planets.Planet, error) {
	if a.config.CatalogFile == "" {
		return planets.Seed(), nil
	}
	return planets.LoadCatalog(a.config.CatalogFile)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithService sets a prebuilt query service (useful for testing).
func WithService(svc *query.Service) Option {
	return func(a *App) error {
		a.service = svc
		return nil
	}
}
