package journal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Config is the configuration file layout used by the journal command.
type Config struct {
	// CSV configures CSV loading.
	CSV CSVConfig `yaml:"csv" mapstructure:"csv"`

	// Snapshot selects where snapshots are stored.
	Snapshot SnapshotConfig `yaml:"snapshot" mapstructure:"snapshot"`

	// Logbook configures daily log files.
	Logbook LogbookConfig `yaml:"logbook" mapstructure:"logbook"`

	// S3 configures the s3 snapshot backend.
	S3 S3Config `yaml:"s3" mapstructure:"s3"`

	// SQLite configures the sqlite snapshot backend.
	SQLite SQLiteConfig `yaml:"sqlite" mapstructure:"sqlite"`

	// Encryption configures snapshot encryption at rest.
	Encryption EncryptionConfig `yaml:"encryption" mapstructure:"encryption"`
}

// CSVConfig mirrors CSVOptions in file form.
type CSVConfig struct {
	Header    bool     `yaml:"header" mapstructure:"header"`
	Names     []string `yaml:"names" mapstructure:"names"`
	Delimiter string   `yaml:"delimiter" mapstructure:"delimiter"`
	SkipLines int      `yaml:"skip_lines" mapstructure:"skip_lines"`
}

// Options converts c into CSVOptions.
func (c CSVConfig) Options() *CSVOptions {
	opts := DefaultCSVOptions()
	opts.Header = c.Header
	opts.Names = c.Names
	opts.SkipLines = c.SkipLines
	if r, _ := utf8.DecodeRuneInString(c.Delimiter); r != utf8.RuneError {
		opts.Delimiter = r
	}
	return opts
}

// Snapshot backend names.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
)

// SnapshotConfig selects the snapshot backend.
type SnapshotConfig struct {
	// Backend is one of memory, file, sqlite or s3 (default: file).
	Backend string `yaml:"backend" mapstructure:"backend"`
	// Dir is the root directory of the file backend.
	Dir string `yaml:"dir" mapstructure:"dir"`
	// Prefix is prepended to every snapshot key.
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
}

// LogbookConfig configures daily log files.
type LogbookConfig struct {
	Root       string   `yaml:"root" mapstructure:"root"`
	Dir        string   `yaml:"dir" mapstructure:"dir"`
	Delimiter  string   `yaml:"delimiter" mapstructure:"delimiter"`
	Headers    []string `yaml:"headers" mapstructure:"headers"`
	UTC        bool     `yaml:"utc" mapstructure:"utc"`
	Timestamp  bool     `yaml:"timestamp" mapstructure:"timestamp"`
	TimeFormat string   `yaml:"time_format" mapstructure:"time_format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		CSV: CSVConfig{
			Header:    true,
			Delimiter: ",",
		},
		Snapshot: SnapshotConfig{
			Backend: BackendFile,
			Dir:     "snapshots",
			Prefix:  DefaultSnapshotPrefix,
		},
		Logbook: LogbookConfig{
			Root:       "journal",
			Dir:        "logs",
			Delimiter:  ",",
			UTC:        true,
			Timestamp:  true,
			TimeFormat: "%Y-%m-%d %H:%M:%S.%f",
		},
		S3: S3Config{
			Region:    "us-east-1",
			CacheSize: 32,
		},
		SQLite: DefaultSQLiteConfig(),
	}
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	var errs []error
	if utf8.RuneCountInString(c.CSV.Delimiter) > 1 {
		errs = append(errs, fmt.Errorf("csv.delimiter must be a single character, got %q", c.CSV.Delimiter))
	}
	if c.CSV.SkipLines < 0 {
		errs = append(errs, errors.New("csv.skip_lines must be >= 0"))
	}
	switch c.Snapshot.Backend {
	case BackendMemory, BackendSQLite:
	case BackendFile, "":
		if c.Snapshot.Dir == "" {
			errs = append(errs, errors.New("snapshot.dir is required for the file backend"))
		}
	case BackendS3:
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("s3.bucket is required for the s3 backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown snapshot.backend %q", c.Snapshot.Backend))
	}
	if c.Encryption.Enabled && c.Encryption.KeyPassword == "" && len(c.Encryption.Key) == 0 {
		errs = append(errs, errors.New("encryption.key_password is required when encryption is enabled"))
	}
	return errors.Join(errs...)
}

// OpenBackend creates the snapshot backend selected by c.Snapshot.
func (c Config) OpenBackend(ctx context.Context) (StorageBackend, error) {
	switch c.Snapshot.Backend {
	case BackendMemory:
		return NewMemoryBackend(), nil
	case BackendFile, "":
		return NewFileBackend(c.Snapshot.Dir)
	case BackendSQLite:
		return NewSQLiteBackend(c.SQLite)
	case BackendS3:
		return NewS3Backend(ctx, c.S3)
	}
	return nil, fmt.Errorf("unknown snapshot backend %q", c.Snapshot.Backend)
}

// OpenSnapshotStore opens the configured backend and wraps it in a
// SnapshotStore. Closing the store closes the backend.
func (c Config) OpenSnapshotStore(ctx context.Context) (*SnapshotStore, error) {
	backend, err := c.OpenBackend(ctx)
	if err != nil {
		return nil, err
	}
	enc, err := NewEncryptor(c.Encryption)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return &SnapshotStore{Backend: backend, Encryptor: enc, Prefix: c.Snapshot.Prefix}, nil
}
