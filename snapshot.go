package journal

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// DefaultSnapshotPrefix is the key prefix used when SnapshotStore.Prefix is
// empty.
const DefaultSnapshotPrefix = "snapshots/"

// SnapshotStore saves and restores matrices on a StorageBackend.
type SnapshotStore struct {
	Backend StorageBackend

	// Encryptor seals snapshots at rest when non-nil.
	Encryptor *Encryptor

	// Prefix is prepended to every key (default: DefaultSnapshotPrefix).
	Prefix string

	Logger *slog.Logger
}

// NewSnapshotStore returns a store on backend with default settings.
func NewSnapshotStore(backend StorageBackend) *SnapshotStore {
	return &SnapshotStore{Backend: backend}
}

// NewKey returns a fresh random snapshot key.
func (s *SnapshotStore) NewKey() string {
	return uuid.NewString()
}

func (s *SnapshotStore) prefix() string {
	if s.Prefix == "" {
		return DefaultSnapshotPrefix
	}
	return s.Prefix
}

func (s *SnapshotStore) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Save stores m under key, replacing any previous snapshot.
func (s *SnapshotStore) Save(ctx context.Context, key string, m *Matrix) error {
	if key == "" {
		return newSnapshotError(SnapshotErrorTypeWrite, "empty snapshot key", "", nil)
	}
	data, err := EncodeSnapshot(m)
	if err != nil {
		return newSnapshotError(SnapshotErrorTypeWrite, "encode snapshot", key, err)
	}
	if s.Encryptor != nil {
		if data, err = s.Encryptor.Seal(data); err != nil {
			return newSnapshotError(SnapshotErrorTypeWrite, "encrypt snapshot", key, err)
		}
	}
	if err := s.Backend.Write(ctx, s.prefix()+key, data); err != nil {
		return newSnapshotError(SnapshotErrorTypeWrite, "write snapshot", key, err)
	}
	s.logger().Debug("snapshot saved", "key", key, "columns", m.NumCols(), "rows", m.NumRows(), "bytes", len(data))
	return nil
}

// Load restores the snapshot stored under key. A missing key gives an
// error matching fs.ErrNotExist.
func (s *SnapshotStore) Load(ctx context.Context, key string) (*Matrix, error) {
	data, err := s.Backend.Read(ctx, s.prefix()+key)
	if err != nil {
		return nil, newSnapshotError(SnapshotErrorTypeRead, "read snapshot", key, err)
	}
	if IsSealed(data) {
		if s.Encryptor == nil {
			return nil, newSnapshotError(SnapshotErrorTypeRead, "snapshot is encrypted", key, nil)
		}
		if data, err = s.Encryptor.Open(data); err != nil {
			return nil, newSnapshotError(SnapshotErrorTypeRead, "decrypt snapshot", key, err)
		}
	}

	m, err := DecodeSnapshot(data)
	if err != nil {
		var se *SnapshotError
		if errors.As(err, &se) {
			se.Key = key
		}
		return nil, err
	}
	return m, nil
}

// List returns the stored snapshot keys, sorted.
func (s *SnapshotStore) List(ctx context.Context) ([]string, error) {
	keys, err := s.Backend.List(ctx, s.prefix())
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, s.prefix())
	}
	return keys, nil
}

// Exists reports whether a snapshot is stored under key.
func (s *SnapshotStore) Exists(ctx context.Context, key string) (bool, error) {
	return s.Backend.Exists(ctx, s.prefix()+key)
}

// Delete removes the snapshot under key. Deleting a missing key is not an
// error.
func (s *SnapshotStore) Delete(ctx context.Context, key string) error {
	return s.Backend.Delete(ctx, s.prefix()+key)
}

// Close closes the backend.
func (s *SnapshotStore) Close() error {
	return s.Backend.Close()
}

// IsNotFound reports whether err means a snapshot or key does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
