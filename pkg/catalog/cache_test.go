package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenCache(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCacheRoundTrip(t *testing.T) {
	c := openTestCache(t)

	_, err := c.Get("027321")
	assert.ErrorIs(t, err, ErrCacheMiss)

	want := validSolution()
	require.NoError(t, c.Put(want))

	got, err := c.Get("027321")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCachePut_Replaces(t *testing.T) {
	c := openTestCache(t)

	sol := validSolution()
	require.NoError(t, c.Put(sol))

	sol.Plx = 52.0
	require.NoError(t, c.Put(sol))

	got, err := c.Get(sol.HIP)
	require.NoError(t, err)
	assert.Equal(t, 52.0, got.Plx)
}

func TestCachePut_RejectsInvalid(t *testing.T) {
	c := openTestCache(t)

	sol := validSolution()
	sol.Dec = 123
	assert.Error(t, c.Put(sol))
}

func TestCacheReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	c, err := OpenCache(path)
	require.NoError(t, err)
	require.NoError(t, c.Put(validSolution()))
	require.NoError(t, c.Close())

	// Reopening must run migrations idempotently and keep the data.
	c, err = OpenCache(path)
	require.NoError(t, err)
	defer c.Close()

	got, err := c.Get("027321")
	require.NoError(t, err)
	assert.Equal(t, validSolution(), got)
}
