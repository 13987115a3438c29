// Package application provides the application interface for planets commands
// and the HTTP server.
//
// The Application interface defines the contract between the application layer
// and its consumers, so commands and the server can be exercised against a
// Mock without loading configuration or opening storage.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            svc, err := app.Service(cmd.Context())
//	            if err != nil {
//	                return err
//	            }
//	            // ... use svc
//	            return nil
//	        },
//	    }
//	}
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/planets/pkg/query"
)

// Application provides what commands and the server need from the running
// process. All methods must be safe for concurrent access.
type Application interface {
	// Service returns the query service, opening the configured repository
	// on first use.
	Service(ctx context.Context) (*query.Service, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
