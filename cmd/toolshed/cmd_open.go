package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"toolshed/internal/history"
	"toolshed/internal/links"
)

var openManaged bool

var openCmd = &cobra.Command{
	Use:   "open [file]",
	Short: "Open every valid URL from a list in browser tabs",
	Long: `Reads newline-separated URLs from a file (or stdin), validates each
line, and opens the valid ones in browser tabs. Invalid lines are
reported with their line numbers. With --managed a dedicated browser
instance is launched and owns the tabs; otherwise each URL goes to the
OS default browser.

Examples:
  toolshed open urls.txt
  pbpaste | toolshed open --managed`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOpen,
}

func init() {
	openCmd.Flags().BoolVar(&openManaged, "managed", false, "open tabs in a dedicated managed browser")
}

func runOpen(cmd *cobra.Command, args []string) error {
	var input string
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		input = string(data)
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		input = string(data)
	}

	ctx := cmd.Context()

	var opener links.TabOpener = links.OSOpener{}
	if openManaged {
		// Detached so the browser and its tabs outlive this command.
		browser := links.NewBrowser(cfg.Opener.BrowserBin, logger).Detach()
		if err := browser.Start(ctx); err != nil {
			return err
		}
		opener = browser
	}

	runner := links.NewOpener(cfg.Opener, opener, logger)
	report, err := runner.Run(ctx, input)
	if err != nil {
		return err
	}

	fmt.Printf("opened %d tabs\n", len(report.Opened))
	if report.Skipped > 0 {
		fmt.Printf("skipped %d duplicates\n", report.Skipped)
	}
	for _, inv := range report.Invalid {
		fmt.Printf("line %d: %s (%s)\n", inv.Line, inv.Raw, inv.Reason)
	}

	if store := openHistory(); store != nil {
		defer store.Close()
		_, _ = store.Record(history.Entry{
			Kind:    history.KindOpen,
			Subject: fmt.Sprintf("%d lines", len(links.Parse(input))),
			Outcome: "ok",
			Count:   int64(len(report.Opened)),
		})
	}
	return nil
}
