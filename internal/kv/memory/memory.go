// Package memory is an in-process key-value backend. Nothing survives Close.
package memory

import (
	"context"
	"maps"
	"sync"
)

// Store holds values in a mutex-guarded map.
type Store struct {
	mu     sync.Mutex
	values map[string]string
}

// New returns an empty store.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

// Seed returns a store preloaded with values.
func Seed(values map[string]string) *Store {
	s := New()
	maps.Copy(s.values, values)
	return s
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *Store) Close() error {
	return nil
}
