package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"toolshed/internal/countdown"
	"toolshed/internal/history"
)

var timerCmd = &cobra.Command{
	Use:   "timer [focus|short-break|long-break|duration]",
	Short: "Run a countdown in the terminal",
	Long: `Runs a countdown without the TUI. The argument is a preset name or a
Go duration (e.g. 90s, 10m). Ctrl+C cancels the session.

Examples:
  toolshed timer focus
  toolshed timer 10m`,
	Args: cobra.ExactArgs(1),
	RunE: runTimer,
}

func runTimer(cmd *cobra.Command, args []string) error {
	preset := countdown.Preset(args[0])
	duration, err := countdown.PresetDuration(preset, cfg.Timer)
	if err != nil {
		// Not a preset name; try a plain duration.
		d, derr := time.ParseDuration(args[0])
		if derr != nil || d <= 0 {
			return fmt.Errorf("unknown preset or duration %q", args[0])
		}
		preset = countdown.PresetCustom
		duration = d
	}

	store := openHistory()
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tm := countdown.New(preset, duration)
	tm.Start()
	started := time.Now()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	fmt.Printf("%s  %s\n", preset, tm.Clock())
	for tm.State() == countdown.StateRunning {
		select {
		case <-ctx.Done():
			tm.Reset()
			fmt.Println("\ncancelled")
			recordTimer(store, preset, countdown.StateCancelled, time.Since(started))
			return nil
		case <-ticker.C:
			tm.Tick(time.Second)
			fmt.Printf("\r%s  %s ", preset, tm.Clock())
		}
	}

	fmt.Println("\ntime's up!")
	recordTimer(store, preset, countdown.StateFinished, time.Since(started))
	return nil
}

func recordTimer(store *history.Store, preset countdown.Preset, outcome countdown.State, elapsed time.Duration) {
	if store == nil {
		return
	}
	_, _ = store.Record(history.Entry{
		Kind:     history.KindTimer,
		Subject:  string(preset),
		Outcome:  outcome.String(),
		Duration: elapsed,
	})
}
