package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-db/journal"
)

const sampleCSV = "time,hum,status\n" +
	"2015-01-25 12:00:00,40.5,ok\n" +
	"2015-01-25 13:00:00,41.0,ok\n" +
	"2015-01-25 14:00:00,39.5,fail\n"

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	return path
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestLoadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("csv:\n  delimiter: \";\"\nsnapshot:\n  backend: memory\n"), 0o644))
	t.Setenv("JOURNAL_LOGBOOK_ROOT", "station")

	cfg, err := loadConfig(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, ";", cfg.CSV.Delimiter)
	assert.Equal(t, journal.BackendMemory, cfg.Snapshot.Backend)
	assert.Equal(t, "station", cfg.Logbook.Root)
	assert.True(t, cfg.CSV.Header)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("snapshot:\n  backend: tape\n"), 0o644))

	_, err := loadConfig(viper.New(), path)
	assert.Error(t, err)
}

func TestShowCommand(t *testing.T) {
	out := run(t, "show", "--no-color", writeSample(t))
	assert.Contains(t, out, "time")
	assert.Contains(t, out, "fail")
	assert.NotContains(t, out, "\x1b[")
}

func TestStatsCommand(t *testing.T) {
	out := run(t, "stats", writeSample(t))
	assert.Contains(t, out, "hum")
	assert.Contains(t, out, "39.5")
	assert.Contains(t, out, "41.0")
}

func TestExportCSVCommand(t *testing.T) {
	src := writeSample(t)
	dst := filepath.Join(t.TempDir(), "out.csv")
	run(t, "export", src, dst)

	m, err := journal.ReadCSV(dst, nil)
	require.NoError(t, err)
	orig, err := journal.ReadCSV(src, nil)
	require.NoError(t, err)
	assert.True(t, orig.Equal(m))
}

func TestPlotCommand(t *testing.T) {
	out := run(t, "plot", "--unit", "hours", writeSample(t))

	var pd journal.PlotData
	require.NoError(t, json.Unmarshal([]byte(out), &pd))
	assert.Equal(t, []float64{0, 1, 2}, pd.X.X)
	require.Len(t, pd.Series, 1)
	assert.Equal(t, "hum", pd.Series[0].Title)
}

func TestSnapshotRoundTripCommand(t *testing.T) {
	src := writeSample(t)
	dir := t.TempDir()
	run(t, "snapshot", "save", "--key", "day1", "--config", writeConfig(t, dir), src)

	out := run(t, "snapshot", "list", "--config", writeConfig(t, dir))
	assert.Equal(t, "day1\n", out)

	out = run(t, "snapshot", "load", "--config", writeConfig(t, dir), "day1")
	assert.Contains(t, out, "fail")
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.yaml")
	body := "snapshot:\n  backend: file\n  dir: " + filepath.Join(dir, "snaps") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}
