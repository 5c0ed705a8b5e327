package links

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"go.uber.org/zap"

	"toolshed/internal/config"
)

// ErrTooManyLinks is returned when a run would open more tabs than the
// configured cap allows.
var ErrTooManyLinks = errors.New("too many links for one run")

// TabOpener abstracts how a URL becomes a visible tab. Browser is the
// primary implementation; OSOpener is the fallback.
type TabOpener interface {
	Open(ctx context.Context, url string) (*Tab, error)
}

// OSOpener shells out to the platform opener (xdg-open and friends),
// letting the default browser own the tabs.
type OSOpener struct{}

// Open implements TabOpener via the platform open command.
func (OSOpener) Open(ctx context.Context, url string) (*Tab, error) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("open %s: %w", url, err)
	}
	// The opener process is fire-and-forget; reap it in the background.
	go func() { _ = cmd.Wait() }()
	return &Tab{URL: url, OpenedAt: time.Now()}, nil
}

// RunReport summarizes one bulk-open run.
type RunReport struct {
	Opened  []Tab  `json:"opened"`
	Invalid []Link `json:"invalid"`
	Skipped int    `json:"skipped"` // duplicates dropped by dedupe
}

// Opener drives a bulk-open run against a TabOpener.
type Opener struct {
	cfg    config.OpenerConfig
	opener TabOpener
	log    *zap.Logger
}

// NewOpener wires a run driver to a tab opener.
func NewOpener(cfg config.OpenerConfig, opener TabOpener, log *zap.Logger) *Opener {
	if log == nil {
		log = zap.NewNop()
	}
	return &Opener{cfg: cfg, opener: opener, log: log}
}

// Run classifies input and opens every valid URL, pausing OpenDelay
// between opens. Runs exceeding MaxLinks fail before opening anything.
// Individual open failures are logged and skipped; nothing is retried.
func (o *Opener) Run(ctx context.Context, input string) (*RunReport, error) {
	all := Parse(input)
	valid, invalid := Split(all, o.cfg.Dedupe)

	if len(valid) > o.cfg.MaxLinks {
		return nil, fmt.Errorf("%w: %d valid links, cap is %d", ErrTooManyLinks, len(valid), o.cfg.MaxLinks)
	}

	validTotal := 0
	for _, l := range all {
		if l.Valid {
			validTotal++
		}
	}

	report := &RunReport{
		Invalid: invalid,
		Skipped: validTotal - len(valid),
	}

	for i, l := range valid {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		tab, err := o.opener.Open(ctx, l.URL)
		if err != nil {
			o.log.Warn("failed to open link",
				zap.Int("line", l.Line),
				zap.String("url", l.URL),
				zap.Error(err))
			continue
		}
		report.Opened = append(report.Opened, *tab)

		if o.cfg.OpenDelay > 0 && i < len(valid)-1 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(o.cfg.OpenDelay):
			}
		}
	}

	o.log.Info("bulk open complete",
		zap.Int("opened", len(report.Opened)),
		zap.Int("invalid", len(report.Invalid)),
		zap.Int("skipped", report.Skipped))
	return report, nil
}
