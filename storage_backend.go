package journal

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

// StorageBackend stores opaque snapshot blobs by key. Implementations exist
// for the local filesystem, memory, S3 and SQLite.
type StorageBackend interface {
	// Read returns the blob stored under key. A missing key gives an error
	// matching fs.ErrNotExist.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write stores data under key, replacing any previous blob.
	Write(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the keys starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists reports whether key is stored.
	Exists(ctx context.Context, key string) (bool, error)

	// Close releases any resources.
	Close() error
}

var (
	_ StorageBackend = (*FileBackend)(nil)
	_ StorageBackend = (*MemoryBackend)(nil)
	_ StorageBackend = (*S3Backend)(nil)
	_ StorageBackend = (*SQLiteBackend)(nil)
)

func errNotFound(key string) error {
	return fmt.Errorf("key %q: %w", key, fs.ErrNotExist)
}

func filterKeys(keys []string, prefix string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}
