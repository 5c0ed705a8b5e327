// toolshed is a small collection of independent terminal utilities under
// one tabbed shell: a parquet-to-CSV converter, a countdown timer, a
// resume text checker, and a bulk link opener.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"toolshed/cmd/toolshed/ui"
	"toolshed/internal/check"
	"toolshed/internal/config"
	"toolshed/internal/convert"
	"toolshed/internal/history"
	"toolshed/internal/links"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Loaded per invocation
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd launches the tabbed TUI when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "toolshed",
	Short: "A tabbed shell of small terminal utilities",
	Long: `toolshed bundles four independent tools under one tabbed interface:

  - a parquet-to-CSV converter backed by an embedded DuckDB engine
  - a countdown productivity timer with three presets
  - a rule-based resume text checker (plain text or PDF input)
  - a bulk link opener

Run without arguments for the interactive interface, or use the
subcommands to run a single tool headless.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		// The TUI owns the terminal; keep zap quiet there.
		if cmd.Use == "toolshed" && !verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// runTUI wires the tool backends into the tabbed shell.
func runTUI() error {
	engine, err := convert.NewEngine(logger)
	if err != nil {
		return err
	}
	defer engine.Close()

	checker, err := check.New(cfg.Checker, logger)
	if err != nil {
		return err
	}

	deps := ui.Deps{
		Config:    cfg,
		Converter: convert.NewConverter(engine, cfg.Converter, logger),
		Checker:   checker,
		Opener:    links.OSOpener{},
		History:   openHistory(),
		Logger:    logger,
	}
	if deps.History != nil {
		defer deps.History.Close()
	}

	_, err = tea.NewProgram(ui.NewApp(deps), tea.WithAltScreen()).Run()
	return err
}

// openHistory opens the run history store, or returns nil when history
// is disabled or unavailable. Tools treat a nil store as "don't record".
func openHistory() *history.Store {
	if cfg.History.DatabasePath == "" {
		return nil
	}
	store, err := history.Open(cfg.History.DatabasePath)
	if err != nil {
		logger.Warn("history disabled", zap.Error(err))
		return nil
	}
	return store
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/toolshed/config.yaml)")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(timerCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(historyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
