// Package kv defines the key-value persistence port that all biweekly state
// is written through, and opens one of its backends by name.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/biweekly-dev/biweekly/internal/kv/file"
	"github.com/biweekly-dev/biweekly/internal/kv/memory"
	"github.com/biweekly-dev/biweekly/internal/kv/sqlite"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned by Open for a backend name it does not know.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Store gets and sets string values by string key.
type Store interface {
	// Get returns the value for key. ok is false if the key was never set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set replaces the value for key.
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Backends returns the names accepted by Open.
func Backends() []string {
	return []string{BackendFile, BackendSQLite, BackendMemory}
}

// Open returns the backend named by backend. path is a directory for the
// file backend and a database file for sqlite. It is ignored for memory.
func Open(ctx context.Context, backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendMemory:
		return memory.New(), nil
	case BackendFile, "":
		return file.New(path)
	case BackendSQLite:
		return sqlite.Open(ctx, path)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}
