package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"toolshed/internal/convert"
	"toolshed/internal/history"
)

var (
	convertOut    string
	convertExport bool
	convertWatch  bool
	inspectOnly   bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert parquet files to CSV",
	Long: `Converts one or more parquet files to CSV through the embedded DuckDB
engine. Multiple files convert concurrently. With --watch the single
argument is a directory, and parquet files are converted as they appear.

Examples:
  toolshed convert data/trips.parquet
  toolshed convert --out csv/ data/*.parquet
  toolshed convert --inspect data/trips.parquet
  toolshed convert --watch incoming/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "output directory (default: next to each input)")
	convertCmd.Flags().BoolVar(&convertExport, "export", false, "let the engine write the CSV directly (COPY ... TO)")
	convertCmd.Flags().BoolVar(&convertWatch, "watch", false, "watch a directory and convert files as they appear")
	convertCmd.Flags().BoolVar(&inspectOnly, "inspect", false, "print row count and schema without converting")
}

func runConvert(cmd *cobra.Command, args []string) error {
	engine, err := convert.NewEngine(logger)
	if err != nil {
		return err
	}
	defer engine.Close()

	conv := convert.NewConverter(engine, cfg.Converter, logger)
	store := openHistory()
	if store != nil {
		defer store.Close()
	}

	ctx := cmd.Context()

	if convertWatch {
		if len(args) != 1 {
			return fmt.Errorf("--watch takes exactly one directory")
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		watcher := convert.NewWatcher(conv, convertOut, logger)
		err := watcher.Watch(ctx, args[0], func(res *convert.Result, err error) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "convert failed: %v\n", err)
				return
			}
			fmt.Printf("%s: %d rows -> %s\n", res.Input, res.Rows, res.Output)
			recordConvert(store, res)
		})
		if err != nil && ctx.Err() != nil {
			return nil // clean shutdown on signal
		}
		return err
	}

	if inspectOnly {
		for _, path := range args {
			info, err := engine.Inspect(ctx, path)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d rows\n", info.Path, info.Rows)
			for _, col := range info.Columns {
				fmt.Printf("  %-24s %s\n", col.Name, col.Type)
			}
		}
		return nil
	}

	if convertExport {
		for _, path := range args {
			out := convert.OutputName(path, convertOut)
			n, err := engine.CopyTo(ctx, path, out)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d rows -> %s\n", path, n, out)
		}
		return nil
	}

	results, err := conv.ConvertAll(ctx, args, convertOut, nil)
	if err != nil {
		return err
	}
	for _, res := range results {
		fmt.Printf("%s: %d rows -> %s (%s)\n", res.Input, res.Rows, res.Output, res.Duration.Round(time.Millisecond))
		recordConvert(store, res)
	}
	return nil
}

func recordConvert(store *history.Store, res *convert.Result) {
	if store == nil || res == nil {
		return
	}
	if _, err := store.Record(history.Entry{
		Kind:     history.KindConvert,
		Subject:  res.Input,
		Outcome:  "ok",
		Count:    res.Rows,
		Duration: res.Duration,
	}); err != nil {
		logger.Warn("record conversion", zap.Error(err))
	}
}
