// Package repository owns the canonical planet records keyed by normalized
// name. The query layer reads and writes exclusively through the Repository
// interface; two backends are provided, an in-process map and SQLite.
//
// Lookups are case-insensitive: every name argument is normalized with
// planets.NormalizeName before it is used as a key. Returned planets are
// values, so callers can never reach stored state through them.
package repository

import (
	"context"

	"github.com/agentstation/planets/pkg/planets"
)

// Resource is the resource name used in repository errors.
const Resource = "planet"

// Repository is the storage contract for planet records.
type Repository interface {
	// Get returns the record stored under the normalized name and whether
	// it was present. Absence is not an error.
	Get(ctx context.Context, name string) (planets.Planet, bool, error)

	// List returns every record in insertion order.
	List(ctx context.Context) ([]planets.Planet, error)

	// Create stores p under its normalized name. It fails with
	// AlreadyExists if that name is taken.
	Create(ctx context.Context, p planets.Planet) error

	// Update replaces the record stored under the normalized name with p
	// as given. It fails with NotFound if no such record exists.
	Update(ctx context.Context, name string, p planets.Planet) error

	// Delete removes the record stored under the normalized name. It fails
	// with NotFound if no such record exists.
	Delete(ctx context.Context, name string) error

	// Replace atomically swaps the record under target for p, stored under
	// p's normalized name. It fails with NotFound if target is absent and
	// with AlreadyExists if p renames onto another existing record; in both
	// cases nothing changes.
	Replace(ctx context.Context, target string, p planets.Planet) error

	// Close releases backend resources.
	Close() error
}
