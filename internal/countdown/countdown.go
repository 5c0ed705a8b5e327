// Package countdown implements the productivity timer state machine.
// The engine is passive: callers feed it elapsed time through Tick, which
// keeps it equally usable from a bubbletea tick loop and a plain ticker.
package countdown

import (
	"fmt"
	"time"

	"toolshed/internal/config"
)

// State enumerates the timer lifecycle.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateFinished
	StateCancelled
)

// String implements fmt.Stringer for logs and history rows.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Preset names one of the fixed countdown durations.
type Preset string

const (
	PresetFocus      Preset = "focus"
	PresetShortBreak Preset = "short-break"
	PresetLongBreak  Preset = "long-break"
	PresetCustom     Preset = "custom"
)

// Presets returns the selectable presets in display order.
func Presets() []Preset {
	return []Preset{PresetFocus, PresetShortBreak, PresetLongBreak}
}

// PresetDuration resolves a preset against the timer config.
func PresetDuration(p Preset, cfg config.TimerConfig) (time.Duration, error) {
	switch p {
	case PresetFocus:
		return cfg.Focus, nil
	case PresetShortBreak:
		return cfg.ShortBreak, nil
	case PresetLongBreak:
		return cfg.LongBreak, nil
	default:
		return 0, fmt.Errorf("unknown preset %q", p)
	}
}

// Timer is a single countdown. Not safe for concurrent use; the TUI and
// CLI both drive it from one goroutine.
type Timer struct {
	preset    Preset
	duration  time.Duration
	remaining time.Duration
	state     State
}

// New creates an idle timer for the given preset and duration.
func New(preset Preset, duration time.Duration) *Timer {
	return &Timer{
		preset:    preset,
		duration:  duration,
		remaining: duration,
		state:     StateIdle,
	}
}

// Preset returns the timer's preset name.
func (t *Timer) Preset() Preset { return t.preset }

// Duration returns the full countdown length.
func (t *Timer) Duration() time.Duration { return t.duration }

// Remaining returns the time left on the clock.
func (t *Timer) Remaining() time.Duration { return t.remaining }

// State returns the current lifecycle state.
func (t *Timer) State() State { return t.state }

// Progress returns completion in [0,1].
func (t *Timer) Progress() float64 {
	if t.duration <= 0 {
		return 1
	}
	return float64(t.duration-t.remaining) / float64(t.duration)
}

// Start begins or resumes the countdown. Starting a finished or
// cancelled timer rewinds it first.
func (t *Timer) Start() {
	switch t.state {
	case StateIdle, StatePaused:
		t.state = StateRunning
	case StateFinished, StateCancelled:
		t.remaining = t.duration
		t.state = StateRunning
	}
}

// Pause suspends a running countdown. No-op in any other state.
func (t *Timer) Pause() {
	if t.state == StateRunning {
		t.state = StatePaused
	}
}

// Reset rewinds the clock. A timer reset mid-countdown records as
// cancelled before returning to idle; Cancelled is observable through
// the return value so callers can log the abandoned session.
func (t *Timer) Reset() State {
	final := StateIdle
	if t.state == StateRunning || t.state == StatePaused {
		final = StateCancelled
	}
	t.remaining = t.duration
	t.state = StateIdle
	return final
}

// Tick advances the countdown by elapsed time. Only running timers move;
// hitting zero transitions to Finished.
func (t *Timer) Tick(elapsed time.Duration) State {
	if t.state != StateRunning || elapsed <= 0 {
		return t.state
	}
	t.remaining -= elapsed
	if t.remaining <= 0 {
		t.remaining = 0
		t.state = StateFinished
	}
	return t.state
}

// Clock renders the remaining time as mm:ss (or h:mm:ss past an hour).
func (t *Timer) Clock() string {
	r := t.remaining.Round(time.Second)
	h := int(r.Hours())
	m := int(r.Minutes()) % 60
	s := int(r.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
