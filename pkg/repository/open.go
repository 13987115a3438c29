package repository

import (
	"context"
	"strings"

	"github.com/agentstation/planets/pkg/errors"
	"github.com/agentstation/planets/pkg/planets"
)

// Drivers accepted by Open.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config selects and configures a storage backend.
type Config struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	DSN    string `mapstructure:"dsn" yaml:"dsn"`
}

// Open builds the Repository named by cfg.Driver and seeds it. An empty
// driver means memory.
func Open(ctx context.Context, cfg Config, seed ...planets.Planet) (Repository, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverMemory:
		return NewMemory(seed...), nil
	case DriverSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = ":memory:"
		}
		return NewSQLite(ctx, dsn, seed...)
	default:
		return nil, errors.NewConfigError("storage", "unsupported driver "+cfg.Driver, nil)
	}
}
