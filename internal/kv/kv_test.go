package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		backend string
		path    string
	}{
		{BackendMemory, ""},
		{BackendFile, filepath.Join(dir, "files")},
		{"FILE", filepath.Join(dir, "files2")},
		{BackendSQLite, filepath.Join(dir, "biweekly.db")},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, err := Open(ctx, tt.backend, tt.path)
			require.NoError(t, err)
			defer s.Close()

			require.NoError(t, s.Set(ctx, "key", "value"))
			v, ok, err := s.Get(ctx, "key")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "value", v)
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), "redis", "")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
