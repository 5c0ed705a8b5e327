package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolshed/internal/config"
	"toolshed/internal/countdown"
)

func testTimerPage(t *testing.T) TimerPage {
	t.Helper()
	return NewTimerPage(Deps{Config: config.Default()}, DefaultStyles())
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg(tea.Key{Type: tea.KeyRunes, Runes: []rune{r}})
}

func TestTimerPageStartsOnFocusPreset(t *testing.T) {
	p := testTimerPage(t)
	assert.Equal(t, countdown.PresetFocus, p.presets[p.cursor])
	assert.Equal(t, 25*time.Minute, p.duration)
	assert.False(t, p.started)
}

func TestTimerPagePresetCycling(t *testing.T) {
	p := testTimerPage(t)

	p, _ = p.Update(key(tea.KeyRight))
	assert.Equal(t, countdown.PresetShortBreak, p.presets[p.cursor])
	assert.Equal(t, 5*time.Minute, p.duration)

	p, _ = p.Update(key(tea.KeyRight))
	assert.Equal(t, countdown.PresetLongBreak, p.presets[p.cursor])

	p, _ = p.Update(key(tea.KeyLeft))
	assert.Equal(t, countdown.PresetShortBreak, p.presets[p.cursor])
}

func TestTimerPageStartLocksPreset(t *testing.T) {
	p := testTimerPage(t)

	p, cmd := p.Update(runeKey('s'))
	require.NotNil(t, cmd)
	assert.True(t, p.started)
	assert.True(t, p.running)

	// Preset keys are ignored mid-session.
	p, _ = p.Update(key(tea.KeyRight))
	assert.Equal(t, countdown.PresetFocus, p.presets[p.cursor])
}

func TestTimerPagePauseToggle(t *testing.T) {
	p := testTimerPage(t)
	p, _ = p.Update(runeKey('s'))
	require.True(t, p.running)

	p, _ = p.Update(runeKey('s'))
	assert.False(t, p.running)
	assert.True(t, p.started, "pausing keeps the session")

	p, _ = p.Update(runeKey('s'))
	assert.True(t, p.running)
}

func TestTimerPageResetReturnsToIdle(t *testing.T) {
	p := testTimerPage(t)
	p, _ = p.Update(runeKey('s'))
	p, _ = p.Update(runeKey('r'))

	assert.False(t, p.started)
	assert.False(t, p.running)
	assert.Equal(t, p.duration, p.clock.Timeout)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "25:00", formatClock(25*time.Minute))
	assert.Equal(t, "00:09", formatClock(9*time.Second))
	assert.Equal(t, "1:05:00", formatClock(65*time.Minute))
	assert.Equal(t, "00:00", formatClock(-time.Second))
}

func TestTimerPageView(t *testing.T) {
	p := testTimerPage(t)
	p.SetSize(100, 30)

	view := p.View()
	assert.Contains(t, view, "Timer")
	assert.Contains(t, view, "25:00")

	p, _ = p.Update(runeKey('s'))
	assert.Contains(t, p.View(), "pause")
}
