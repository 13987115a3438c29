package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/planets/pkg/planets"
	"github.com/agentstation/planets/pkg/query"
	"github.com/agentstation/planets/pkg/repository"
)

// Mock is an Application for tests. Nil funcs fall back to a seeded
// in-memory service, a no-op logger and table output.
type Mock struct {
	ServiceFunc      func(ctx context.Context) (*query.Service, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string

	VersionValue string
}

var _ Application = (*Mock)(nil)

// NewMock returns a Mock whose Service is a fresh seeded in-memory service.
func NewMock() *Mock {
	svc := query.New(repository.NewMemory(planets.Seed()...))
	return &Mock{
		ServiceFunc: func(context.Context) (*query.Service, error) { return svc, nil },
	}
}

// Service implements Application.
func (m *Mock) Service(ctx context.Context) (*query.Service, error) {
	if m.ServiceFunc != nil {
		return m.ServiceFunc(ctx)
	}
	return query.New(repository.NewMemory(planets.Seed()...)), nil
}

// Logger implements Application.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat implements Application.
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version implements Application.
func (m *Mock) Version() string {
	if m.VersionValue == "" {
		return "dev"
	}
	return m.VersionValue
}

// Commit implements Application.
func (m *Mock) Commit() string { return "none" }

// Date implements Application.
func (m *Mock) Date() string { return "unknown" }

// BuiltBy implements Application.
func (m *Mock) BuiltBy() string { return "test" }
