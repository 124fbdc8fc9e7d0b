// Command journal inspects, snapshots and exports CSV measurement files.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chronicle-db/journal"
)

type app struct {
	v        *viper.Viper
	cfg      journal.Config
	logger   *slog.Logger
	cfgFile  string
	logLevel string
	noHeader bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "journal",
		Short:         "Inspect, snapshot and export tabular time series",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./journal.yaml if present)")
	flags.StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.String("delimiter", ",", "CSV field delimiter")
	flags.Int("skip-lines", 0, "lines to skip after the CSV header")
	flags.BoolVar(&a.noHeader, "no-header", false, "CSV files have no header line")
	flags.String("backend", journal.BackendFile, "snapshot backend (memory, file, sqlite, s3)")
	_ = a.v.BindPFlag("csv.delimiter", flags.Lookup("delimiter"))
	_ = a.v.BindPFlag("csv.skip_lines", flags.Lookup("skip-lines"))
	_ = a.v.BindPFlag("snapshot.backend", flags.Lookup("backend"))

	root.AddCommand(
		newShowCommand(a),
		newStatsCommand(a),
		newSnapshotCommand(a),
		newExportCommand(a),
		newPlotCommand(a),
		newLogCommand(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q", a.logLevel)
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)

	cfg, err := loadConfig(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	if a.noHeader {
		cfg.CSV.Header = false
	}
	a.cfg = cfg
	return nil
}

func (a *app) readCSV(path string) (*journal.Matrix, error) {
	opts := a.cfg.CSV.Options()
	opts.Logger = a.logger
	m, stats, err := journal.ReadCSVWithStats(path, opts)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("csv loaded", "path", path, "rows", stats.Rows, "skipped", stats.Skipped)
	return m, nil
}
