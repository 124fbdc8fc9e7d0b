package journal

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-db/journal/internal/testutil"
)

// testBackendContract runs the behavior every StorageBackend shares.
func testBackendContract(t *testing.T, backend StorageBackend) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, backend.Write(ctx, "test/key1", []byte("hello")))
	require.NoError(t, backend.Write(ctx, "test/key2", []byte("world")))
	require.NoError(t, backend.Write(ctx, "other/key3", []byte("!")))

	data, err := backend.Read(ctx, "test/key1")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, backend.Write(ctx, "test/key1", []byte("replaced")))
	data, _ = backend.Read(ctx, "test/key1")
	assert.Equal(t, "replaced", string(data))

	exists, err := backend.Exists(ctx, "test/key1")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = backend.Exists(ctx, "test/missing")
	require.NoError(t, err)
	assert.False(t, exists)

	keys, err := backend.List(ctx, "test/")
	require.NoError(t, err)
	assert.Equal(t, []string{"test/key1", "test/key2"}, keys)

	require.NoError(t, backend.Delete(ctx, "test/key1"))
	assert.NoError(t, backend.Delete(ctx, "test/key1"), "delete of a missing key")
	_, err = backend.Read(ctx, "test/key1")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFileBackend(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)
	defer backend.Close()
	testBackendContract(t, backend)
}

func TestFileBackendRejectsEscapingKeys(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, backend.Write(context.Background(), "../outside", []byte("x")))
}

func TestMemoryBackend(t *testing.T) {
	backend := NewMemoryBackend()
	testBackendContract(t, backend)
	assert.Equal(t, 2, backend.Len())
}

func TestMemoryBackendCopiesData(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()
	buf := []byte("abc")
	require.NoError(t, backend.Write(ctx, "k", buf))
	buf[0] = 'X'

	data, _ := backend.Read(ctx, "k")
	assert.Equal(t, "abc", string(data), "stored blob aliased caller buffer")
}

func TestSQLiteBackend(t *testing.T) {
	_, path := testutil.TempDBPath(t)
	backend, err := NewSQLiteBackend(SQLiteConfig{Path: path})
	require.NoError(t, err)
	defer backend.Close()
	testBackendContract(t, backend)

	size, err := backend.Size(context.Background(), "test/key2")
	require.NoError(t, err)
	assert.EqualValues(t, 5, size)
}

func TestSQLiteBackendClosed(t *testing.T) {
	_, path := testutil.TempDBPath(t)
	backend, err := NewSQLiteBackend(SQLiteConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, backend.Close())
	assert.NoError(t, backend.Close(), "second Close")

	_, err = backend.Read(context.Background(), "k")
	assert.Error(t, err)
}

func TestBlobCacheEvictsLeastRecent(t *testing.T) {
	c := newBlobCache(2)
	c.put("a", []byte("1"))
	c.put("b", []byte("2"))
	c.get("a")
	c.put("c", []byte("3"))

	_, ok := c.get("b")
	assert.False(t, ok, "b should be evicted")
	_, ok = c.get("a")
	assert.True(t, ok, "a should survive")
	assert.Equal(t, 2, c.len())

	c.remove("a")
	c.clear()
	assert.Equal(t, 0, c.len())
}

func TestNewS3BackendRequiresBucket(t *testing.T) {
	_, err := NewS3Backend(context.Background(), S3Config{})
	assert.Error(t, err)
}
