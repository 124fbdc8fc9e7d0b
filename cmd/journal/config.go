package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/chronicle-db/journal"
)

const defaultConfigFile = "journal.yaml"

// loadConfig layers the config file and JOURNAL_* environment variables
// over journal.DefaultConfig.
func loadConfig(v *viper.Viper, path string) (journal.Config, error) {
	defaults, err := yaml.Marshal(journal.DefaultConfig())
	if err != nil {
		return journal.Config{}, err
	}
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return journal.Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return journal.Config{}, err
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return journal.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("JOURNAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := journal.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return journal.Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return journal.Config{}, err
	}
	return cfg, nil
}
