// Package file stores each key as its own file in a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

const ext = ".json"

// ErrInvalidKey is returned for keys that cannot be used as a file name.
var ErrInvalidKey = errors.New("invalid key")

// Store keeps one file per key under Dir.
type Store struct {
	Dir string
}

// New creates dir if needed and returns a store rooted there.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: %w", errors.New("no directory given"))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{Dir: dir}, nil
}

func (s *Store) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.Dir, key+ext), nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	p, err := s.path(key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set replaces the file for key atomically, so a reader never sees a
// half-written record.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(p, strings.NewReader(value)); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Close is a no-op; every Set is already on disk.
func (s *Store) Close() error {
	return nil
}
