package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/chronicle-db/journal"
	"github.com/chronicle-db/journal/logbook"
)

func colorEnabled(noColor bool) bool {
	if noColor {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newShowCommand(a *app) *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "show <csv>",
		Short: "Print a CSV file as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.readCSV(args[0])
			if err != nil {
				return err
			}
			return m.Render(cmd.OutOrStdout(), journal.RenderOptions{Color: colorEnabled(noColor)})
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <csv>",
		Short: "Summarize every column of a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.readCSV(args[0])
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "column\tkind\tlen\tmin\tmax\tmean")
			for _, name := range m.DisplayOrder() {
				s, _ := m.Get(name)
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", name, kindLabel(s), s.Len(), summarize(s))
			}
			return tw.Flush()
		},
	}
}

func kindLabel(s journal.Series) string {
	if _, ok := s.(*journal.TimeColumn); ok {
		return "time"
	}
	return s.Kind().String()
}

func summarize(s journal.Series) string {
	switch c := s.(type) {
	case *journal.TimeColumn:
		lo, err := c.Min()
		if err != nil {
			return "-\t-\t-"
		}
		hi, _ := c.Max()
		mean, _ := c.Mean()
		return strings.Join([]string{lo.Format(journal.TimeLayout), hi.Format(journal.TimeLayout), mean.Format(journal.TimeLayout)}, "\t")
	case *journal.Column:
		if !c.Kind().IsNumeric() {
			return "-\t-\t-"
		}
		lo, err := c.Min()
		if err != nil {
			return "-\t-\t-"
		}
		hi, _ := c.Max()
		mean, err := c.Mean()
		if err != nil {
			return fmt.Sprintf("%s\t%s\t-", lo, hi)
		}
		return fmt.Sprintf("%s\t%s\t%.6g", lo, hi, mean)
	}
	return "-\t-\t-"
}

func newSnapshotCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and restore binary snapshots",
	}

	var key string
	save := &cobra.Command{
		Use:   "save <csv>",
		Short: "Store a CSV file as a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.readCSV(args[0])
			if err != nil {
				return err
			}
			store, err := a.cfg.OpenSnapshotStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()
			store.Logger = a.logger

			if key == "" {
				key = store.NewKey()
			}
			if err := store.Save(cmd.Context(), key, m); err != nil {
				return err
			}
			encoded, _ := journal.EncodeSnapshot(m)
			info, _ := os.Stat(args[0])
			rows, cols := m.Shape()
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d rows, %d columns, %s", key, rows, cols, humanize.Bytes(uint64(len(encoded))))
			if info != nil {
				fmt.Fprintf(cmd.OutOrStdout(), " (csv %s)", humanize.Bytes(uint64(info.Size())))
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	save.Flags().StringVar(&key, "key", "", "snapshot key (default: random UUID)")

	load := &cobra.Command{
		Use:   "load <key>",
		Short: "Print a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.cfg.OpenSnapshotStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			m, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return m.Render(cmd.OutOrStdout(), journal.RenderOptions{Color: colorEnabled(false)})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshot keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.cfg.OpenSnapshotStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			keys, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.cfg.OpenSnapshotStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()
			return store.Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(save, load, list, del)
	return cmd
}

func newExportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <csv> <out>",
		Short: "Convert a CSV file to Parquet (.parquet) or normalized CSV (.csv)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.readCSV(args[0])
			if err != nil {
				return err
			}
			f, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			switch ext := strings.ToLower(filepath.Ext(args[1])); ext {
			case ".parquet":
				err = journal.WriteParquet(f, m)
			case ".csv":
				err = journal.WriteCSV(f, m, 0)
			default:
				err = fmt.Errorf("unsupported export format %q", ext)
			}
			if err != nil {
				return err
			}
			return f.Close()
		},
	}
}

func newPlotCommand(a *app) *cobra.Command {
	var opts journal.PlotOptions
	cmd := &cobra.Command{
		Use:   "plot <csv>",
		Short: "Emit time plot data as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.readCSV(args[0])
			if err != nil {
				return err
			}
			opts.Logger = a.logger
			pd, err := journal.NewPlotData(m, opts)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(pd)
		},
	}
	cmd.Flags().StringVar(&opts.Unit, "unit", "seconds", "x axis unit (seconds, minutes, hours, days, jd, date or a strftime pattern)")
	cmd.Flags().StringSliceVar(&opts.Series, "series", nil, "columns to plot (default: all numeric)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "plot title")
	return cmd
}

func newLogCommand(a *app) *cobra.Command {
	var warn, fail bool
	cmd := &cobra.Command{
		Use:   "log <values...>",
		Short: "Append a record to today's log file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lc := a.cfg.Logbook
			book, err := logbook.New(logbook.Config{
				Root:       lc.Root,
				Dir:        lc.Dir,
				Delimiter:  lc.Delimiter,
				Headers:    lc.Headers,
				UTC:        lc.UTC,
				Timestamp:  lc.Timestamp,
				TimeFormat: lc.TimeFormat,
				Now:        time.Now,
			})
			if err != nil {
				return err
			}

			values := make([]any, len(args))
			for i, s := range args {
				values[i] = s
			}
			switch {
			case fail:
				err = book.Error(values...)
			case warn:
				err = book.Warn(values...)
			default:
				err = book.Log(values...)
			}
			if err != nil {
				return err
			}
			a.logger.Debug("record logged", "file", book.Filename())
			return nil
		},
	}
	cmd.Flags().BoolVar(&warn, "warn", false, "mark the record as a warning")
	cmd.Flags().BoolVar(&fail, "error", false, "mark the record as an error")
	return cmd
}
