package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/agentstation/planets/pkg/errors"
	"github.com/agentstation/planets/pkg/planets"
)

// Memory is a Repository backed by a map. Reads share a read lock and each
// write runs under the write lock, so every check-then-modify sequence is a
// single critical section.
type Memory struct {
	mu      sync.RWMutex
	records map[string]planets.Planet
	order   []string
}

var _ Repository = (*Memory)(nil)

// NewMemory creates an in-memory repository seeded with the given planets.
// Seed records are normalized; later duplicates of a name are skipped.
func NewMemory(seed ...planets.Planet) *Memory {
	m := &Memory{
		records: make(map[string]planets.Planet, len(seed)),
		order:   make([]string, 0, len(seed)),
	}
	for _, p := range seed {
		p = p.Normalized()
		if _, exists := m.records[p.Name]; exists {
			continue
		}
		m.insert(p.Name, p)
	}
	return m
}

// Get implements Repository.
func (m *Memory) Get(_ context.Context, name string) (planets.Planet, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.records[planets.NormalizeName(name)]
	return p, ok, nil
}

// List implements Repository.
func (m *Memory) List(_ context.Context) ([]planets.Planet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]planets.Planet, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, m.records[key])
	}
	return out, nil
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Create implements Repository.
func (m *Memory) Create(_ context.Context, p planets.Planet) error {
	p = p.Normalized()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[p.Name]; exists {
		return errors.NewAlreadyExistsError(Resource, p.Name)
	}
	m.insert(p.Name, p)
	return nil
}

// Update implements Repository.
func (m *Memory) Update(_ context.Context, name string, p planets.Planet) error {
	key := planets.NormalizeName(name)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[key]; !exists {
		return errors.NewNotFoundError(Resource, key)
	}
	m.records[key] = p
	return nil
}

// Delete implements Repository.
func (m *Memory) Delete(_ context.Context, name string) error {
	key := planets.NormalizeName(name)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[key]; !exists {
		return errors.NewNotFoundError(Resource, key)
	}
	m.remove(key)
	return nil
}

// Replace implements Repository. Replacing under the same key keeps the
// record's position; a rename moves it to the end.
func (m *Memory) Replace(_ context.Context, target string, p planets.Planet) error {
	oldKey := planets.NormalizeName(target)
	p = p.Normalized()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[oldKey]; !exists {
		return errors.NewNotFoundError(Resource, oldKey)
	}
	if p.Name == oldKey {
		m.records[oldKey] = p
		return nil
	}
	if _, taken := m.records[p.Name]; taken {
		return errors.NewAlreadyExistsError(Resource, p.Name)
	}
	m.remove(oldKey)
	m.insert(p.Name, p)
	return nil
}

// Close implements Repository.
func (m *Memory) Close() error { return nil }

func (m *Memory) insert(key string, p planets.Planet) {
	m.records[key] = p
	m.order = append(m.order, key)
}

func (m *Memory) remove(key string) {
	delete(m.records, key)
	if i := slices.Index(m.order, key); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
}
