package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"

	"toolshed/internal/countdown"
	"toolshed/internal/history"
)

// TimerPage is the countdown view: three fixed presets with
// start/pause/reset and a progress bar.
type TimerPage struct {
	deps   Deps
	styles Styles

	width  int
	height int

	presets  []countdown.Preset
	cursor   int
	duration time.Duration
	clock    timer.Model
	bar      progress.Model

	running  bool
	started  bool
	finished bool
	startAt  time.Time
}

// NewTimerPage builds the timer view with the focus preset selected.
func NewTimerPage(deps Deps, styles Styles) TimerPage {
	p := TimerPage{
		deps:    deps,
		styles:  styles,
		presets: countdown.Presets(),
		bar:     progress.New(progress.WithDefaultGradient()),
	}
	p.loadPreset(0)
	return p
}

// loadPreset resets the clock to the selected preset's duration.
func (p *TimerPage) loadPreset(idx int) {
	p.cursor = idx
	d, err := countdown.PresetDuration(p.presets[idx], p.deps.Config.Timer)
	if err != nil {
		d = 25 * time.Minute
	}
	p.duration = d
	p.clock = timer.NewWithInterval(d, time.Second)
	p.running = false
	p.started = false
	p.finished = false
}

// SetSize updates the page dimensions.
func (p *TimerPage) SetSize(w, h int) {
	p.width = w
	p.height = h
	p.bar.Width = w - 8
}

// Update handles page messages. Timer ticks arrive here even while
// another tab is mounted.
func (p TimerPage) Update(msg tea.Msg) (TimerPage, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			if !p.started {
				p.loadPreset((p.cursor + len(p.presets) - 1) % len(p.presets))
			}
			return p, nil
		case "right", "l":
			if !p.started {
				p.loadPreset((p.cursor + 1) % len(p.presets))
			}
			return p, nil
		case "s", " ":
			if p.finished {
				p.loadPreset(p.cursor)
			}
			if !p.started {
				p.started = true
				p.running = true
				p.startAt = time.Now()
				return p, p.clock.Init()
			}
			p.running = !p.running
			return p, p.clock.Toggle()
		case "r":
			cancelled := p.started && !p.finished
			wasRunning := p.running
			p.loadPreset(p.cursor)
			if cancelled {
				p.recordOutcome(countdown.StateCancelled)
			}
			if wasRunning {
				// Stop the old clock's tick loop.
				return p, nil
			}
			return p, nil
		}

	case timer.TickMsg, timer.StartStopMsg:
		var cmd tea.Cmd
		p.clock, cmd = p.clock.Update(msg)
		return p, cmd

	case timer.TimeoutMsg:
		if msg.ID == p.clock.ID() {
			p.finished = true
			p.running = false
			p.recordOutcome(countdown.StateFinished)
		}
		return p, nil
	}
	return p, nil
}

// recordOutcome writes the session to history when available.
func (p TimerPage) recordOutcome(state countdown.State) {
	if p.deps.History == nil {
		return
	}
	_, _ = p.deps.History.Record(history.Entry{
		Kind:     history.KindTimer,
		Subject:  string(p.presets[p.cursor]),
		Outcome:  state.String(),
		Duration: time.Since(p.startAt),
	})
}

// View renders the page.
func (p TimerPage) View() string {
	var sb strings.Builder
	sb.WriteString(p.styles.Title.Render("Timer"))
	sb.WriteString("\n\n")

	// Preset selector.
	var cells []string
	for i, preset := range p.presets {
		label := presetLabel(preset)
		if i == p.cursor {
			cells = append(cells, p.styles.ActiveTab.Render(label))
		} else {
			cells = append(cells, p.styles.Tab.Render(label))
		}
	}
	sb.WriteString(strings.Join(cells, " "))
	sb.WriteString("\n\n")

	remaining := p.clock.Timeout
	sb.WriteString(p.styles.Clock.Render(formatClock(remaining)))
	sb.WriteString("\n\n")

	done := 1.0
	if p.duration > 0 {
		done = float64(p.duration-remaining) / float64(p.duration)
	}
	sb.WriteString(p.bar.ViewAs(done))
	sb.WriteString("\n\n")

	switch {
	case p.finished:
		sb.WriteString(p.styles.Success.Render("time's up!") + "\n")
	case p.running:
		sb.WriteString(p.styles.Muted.Render("s: pause | r: reset") + "\n")
	case p.started:
		sb.WriteString(p.styles.Warning.Render("paused") + "  " + p.styles.Muted.Render("s: resume | r: reset") + "\n")
	default:
		sb.WriteString(p.styles.Muted.Render("left/right: preset | s: start") + "\n")
	}
	return p.styles.Panel.Width(p.width).Render(sb.String())
}

func presetLabel(p countdown.Preset) string {
	switch p {
	case countdown.PresetFocus:
		return "Focus"
	case countdown.PresetShortBreak:
		return "Short break"
	case countdown.PresetLongBreak:
		return "Long break"
	default:
		return string(p)
	}
}

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
