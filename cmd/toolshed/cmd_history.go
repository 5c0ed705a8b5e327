package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"toolshed/internal/history"
)

var (
	historyKind  string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent tool runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyKind, "kind", "", "filter by tool (convert, timer, check, open)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "max entries to list (default from config)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	store := openHistory()
	if store == nil {
		return fmt.Errorf("history is disabled (no database path configured)")
	}
	defer store.Close()

	limit := historyLimit
	if limit < 1 {
		limit = cfg.History.Keep
	}

	entries, err := store.Recent(history.Kind(historyKind), limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no runs recorded yet")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %-8s %-10s %-40s count=%d %s\n",
			e.CreatedAt.Local().Format(time.DateTime),
			e.Kind, e.Outcome, truncate(e.Subject, 40), e.Count,
			e.Duration.Round(time.Millisecond))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
