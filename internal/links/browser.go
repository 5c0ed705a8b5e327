package links

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tab records one page opened in the managed browser.
type Tab struct {
	ID       string    `json:"id"`
	URL      string    `json:"url"`
	OpenedAt time.Time `json:"opened_at"`
}

// Browser owns a rod-controlled Chrome instance and the tabs opened in
// it. One Browser serves a whole run; pages stay open until Close.
type Browser struct {
	bin    string
	detach bool
	log    *zap.Logger

	mu      sync.Mutex
	browser *rod.Browser
	tabs    []Tab
}

// NewBrowser prepares a managed browser. bin may be empty to let the
// launcher locate an installed Chrome/Chromium.
func NewBrowser(bin string, log *zap.Logger) *Browser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Browser{bin: bin, log: log}
}

// Detach configures the browser to outlive the controlling process:
// the launcher skips its cleanup watchdog, the control connection is
// not bound to the caller's context, and Close severs the connection
// without killing the browser. Short-lived commands use this so the
// opened tabs survive the command's exit.
func (b *Browser) Detach() *Browser {
	b.detach = true
	return b
}

// Start launches the browser. Idempotent while the instance is healthy.
func (b *Browser) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		if _, err := b.browser.Version(); err == nil {
			return nil
		}
		// Stale connection, relaunch.
		_ = b.browser.Close()
		b.browser = nil
	}

	l := launcher.New().Headless(false).Leakless(!b.detach)
	if b.bin != "" {
		l = l.Bin(b.bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if !b.detach {
		browser = browser.Context(ctx)
	}
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}
	b.browser = browser
	b.log.Info("managed browser started")
	return nil
}

// Open loads url in a new tab and returns its record.
func (b *Browser) Open(ctx context.Context, rawURL string) (*Tab, error) {
	b.mu.Lock()
	browser := b.browser
	b.mu.Unlock()
	if browser == nil {
		return nil, fmt.Errorf("browser not started")
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: rawURL})
	if err != nil {
		return nil, fmt.Errorf("open tab for %s: %w", rawURL, err)
	}
	_ = page // pages stay attached to the browser until Close

	tab := Tab{
		ID:       uuid.NewString(),
		URL:      rawURL,
		OpenedAt: time.Now(),
	}
	b.mu.Lock()
	b.tabs = append(b.tabs, tab)
	b.mu.Unlock()

	b.log.Debug("opened tab", zap.String("url", rawURL), zap.String("id", tab.ID))
	return &tab, nil
}

// Tabs returns the records of every tab opened this run.
func (b *Browser) Tabs() []Tab {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Tab, len(b.tabs))
	copy(out, b.tabs)
	return out
}

// Close shuts the managed browser down, closing all its tabs. A
// detached browser keeps running; only the control state is dropped.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser == nil {
		return nil
	}
	var err error
	if !b.detach {
		err = b.browser.Close()
	}
	b.browser = nil
	b.tabs = nil
	return err
}
