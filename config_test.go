package journal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.CSV.Header)
	assert.Equal(t, ",", cfg.CSV.Delimiter)
	assert.Equal(t, BackendFile, cfg.Snapshot.Backend)
	assert.Equal(t, DefaultSnapshotPrefix, cfg.Snapshot.Prefix)
	assert.Equal(t, "journal", cfg.Logbook.Root)
	assert.True(t, cfg.Logbook.UTC)
	assert.True(t, cfg.Logbook.Timestamp)
	assert.Equal(t, "WAL", cfg.SQLite.JournalMode)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_CSVOptions(t *testing.T) {
	opts := CSVConfig{Header: false, Names: []string{"a", "b"}, Delimiter: ";", SkipLines: 2}.Options()
	assert.False(t, opts.Header)
	assert.Equal(t, ';', opts.Delimiter)
	assert.Equal(t, 2, opts.SkipLines)
	assert.Len(t, opts.Names, 2)

	assert.Equal(t, ',', (CSVConfig{}).Options().Delimiter, "empty delimiter should default to ','")
}

func TestConfig_Parse(t *testing.T) {
	data := []byte(`
csv:
  delimiter: "\t"
  skip_lines: 1
snapshot:
  backend: sqlite
sqlite:
  path: /tmp/journal.db
logbook:
  root: station
  headers: [temp, hum]
encryption:
  enabled: true
  key_password: secret
`)
	cfg, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, '\t', cfg.CSV.Options().Delimiter)
	assert.True(t, cfg.CSV.Header, "unset fields should keep their defaults")
	assert.Equal(t, BackendSQLite, cfg.Snapshot.Backend)
	assert.Equal(t, "/tmp/journal.db", cfg.SQLite.Path)
	assert.Equal(t, "NORMAL", cfg.SQLite.Synchronous)
	assert.Equal(t, "station", cfg.Logbook.Root)
	assert.Equal(t, []string{"temp", "hum"}, cfg.Logbook.Headers)
	assert.True(t, cfg.Encryption.Enabled)
	assert.Equal(t, "secret", cfg.Encryption.KeyPassword)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"long delimiter", func(c *Config) { c.CSV.Delimiter = ";;" }, "csv.delimiter"},
		{"negative skip", func(c *Config) { c.CSV.SkipLines = -1 }, "csv.skip_lines"},
		{"file without dir", func(c *Config) { c.Snapshot.Dir = "" }, "snapshot.dir"},
		{"s3 without bucket", func(c *Config) { c.Snapshot.Backend = BackendS3 }, "s3.bucket"},
		{"unknown backend", func(c *Config) { c.Snapshot.Backend = "tape" }, "unknown snapshot.backend"},
		{"encryption without key", func(c *Config) { c.Encryption.Enabled = true }, "encryption.key_password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	cfg := DefaultConfig()
	cfg.CSV.SkipLines = -1
	cfg.Snapshot.Backend = "tape"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(err.Error(), "\n"), "expected both problems reported, got %v", err)
}

func TestConfig_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("snapshot:\n  backend: memory\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Snapshot.Backend)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = ParseConfig([]byte("csv: ["))
	assert.Error(t, err)
}

func TestConfig_OpenSnapshotStore(t *testing.T) {
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.Snapshot.Dir = t.TempDir()
	cfg.Encryption = EncryptionConfig{Enabled: true, KeyPassword: "secret"}

	store, err := cfg.OpenSnapshotStore(ctx)
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &FileBackend{}, store.Backend)
	assert.NotNil(t, store.Encryptor)

	m := MustMatrix(map[string]any{"n": []int64{1, 2}})
	require.NoError(t, store.Save(ctx, "k", m))
	got, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.True(t, got.Equal(m), "loaded matrix differs")

	cfg.Snapshot.Backend = "tape"
	_, err = cfg.OpenBackend(ctx)
	assert.Error(t, err)
}
