package ui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolshed/internal/check"
	"toolshed/internal/config"
	"toolshed/internal/links"
)

// stubOpener records opened URLs without a browser.
type stubOpener struct {
	mu   sync.Mutex
	urls []string
}

func (s *stubOpener) Open(ctx context.Context, url string) (*links.Tab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls = append(s.urls, url)
	return &links.Tab{URL: url}, nil
}

func TestCheckPageProducesReport(t *testing.T) {
	cfg := config.Default()
	checker, err := check.New(cfg.Checker, nil)
	require.NoError(t, err)

	p := NewCheckPage(Deps{Config: cfg, Checker: checker}, DefaultStyles())
	p.SetSize(100, 30)
	p.editor.SetValue("A team player with a proven track record. jane@example.com 555-123-4567")

	p, cmd := p.Update(key(tea.KeyCtrlS))
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(checkDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.NotNil(t, done.report)
	assert.Greater(t, len(done.report.Findings), 0)

	p, _ = p.Update(msg)
	assert.True(t, p.showing)
	assert.Contains(t, p.View(), "esc: back")

	// Esc returns to the editor.
	p, _ = p.Update(key(tea.KeyEsc))
	assert.False(t, p.showing)
}

func TestCheckPageIgnoresEmptyInput(t *testing.T) {
	cfg := config.Default()
	checker, err := check.New(cfg.Checker, nil)
	require.NoError(t, err)

	p := NewCheckPage(Deps{Config: cfg, Checker: checker}, DefaultStyles())
	_, cmd := p.Update(key(tea.KeyCtrlS))
	assert.Nil(t, cmd)
}

func TestOpenPageRunsBulkOpen(t *testing.T) {
	cfg := config.Default()
	cfg.Opener.OpenDelay = 0
	stub := &stubOpener{}

	p := NewOpenPage(Deps{Config: cfg, Opener: stub}, DefaultStyles())
	p.SetSize(100, 30)
	p.editor.SetValue("https://a.com\nbad line here\nhttps://b.com")

	p, cmd := p.Update(key(tea.KeyCtrlS))
	require.NotNil(t, cmd)
	assert.True(t, p.busy)

	msg := cmd()
	done, ok := msg.(openDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, stub.urls)

	p, _ = p.Update(msg)
	assert.False(t, p.busy)
	assert.Contains(t, p.View(), "opened 2 tabs")
	assert.Contains(t, p.View(), "line 2")
}

func TestConvertPageIgnoresEmptyPath(t *testing.T) {
	p := NewConvertPage(Deps{Config: config.Default()}, DefaultStyles())
	_, cmd := p.Update(key(tea.KeyEnter))
	assert.Nil(t, cmd)
}
