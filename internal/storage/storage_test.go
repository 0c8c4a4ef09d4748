package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/shophub/internal/config"
)

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "shophub_cart:missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "shophub_cart:abc", []byte(`{"lines":[]}`)))
	got, err := s.Get(ctx, "shophub_cart:abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"lines":[]}`, string(got))

	require.NoError(t, s.Put(ctx, "shophub_cart:abc", []byte(`{"lines":[1]}`)))
	got, err = s.Get(ctx, "shophub_cart:abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"lines":[1]}`, string(got))

	require.NoError(t, s.Delete(ctx, "shophub_cart:abc"))
	_, err = s.Get(ctx, "shophub_cart:abc")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, s.Delete(ctx, "shophub_cart:abc"), "deleting a missing key")
	assert.NoError(t, s.Close())
}

func TestMemory(t *testing.T) {
	testStore(t, NewMemory())
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	v := []byte("abc")
	require.NoError(t, m.Put(context.Background(), "k", v))
	v[0] = 'x'

	got, err := m.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFile(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "snapshots"))
	require.NoError(t, err)
	testStore(t, f)
}

func TestFileKeysWithSeparators(t *testing.T) {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, f.Put(context.Background(), "../escape/key", []byte("v")))
	got, err := f.Get(context.Background(), "../escape/key")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
	assert.Equal(t, f.BaseDir, filepath.Dir(f.path("../escape/key")))
}

func TestSQLite(t *testing.T) {
	s, err := NewSQLite(context.Background(), filepath.Join(t.TempDir(), "db", "shophub.db"))
	require.NoError(t, err)
	testStore(t, s)
}

func TestOpen(t *testing.T) {
	s, err := Open(context.Background(), config.StorageConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(context.Background(), config.StorageConfig{Driver: "file", Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	_, err = Open(context.Background(), config.StorageConfig{Driver: "postgres"})
	assert.Error(t, err)

	_, err = Open(context.Background(), config.StorageConfig{Driver: "floppy"})
	assert.Error(t, err)
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	type snap struct {
		NextID int `json:"nextId"`
	}

	var v snap
	assert.ErrorIs(t, LoadJSON(ctx, m, "k", &v), ErrNotFound)

	require.NoError(t, SaveJSON(ctx, m, "k", snap{NextID: 1003}))
	require.NoError(t, LoadJSON(ctx, m, "k", &v))
	assert.Equal(t, 1003, v.NextID)

	require.NoError(t, m.Put(ctx, "bad", []byte("{not json")))
	assert.ErrorIs(t, LoadJSON(ctx, m, "bad", &v), ErrCorrupt)
}
