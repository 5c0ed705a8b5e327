package countdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolshed/internal/config"
)

func TestLifecycle(t *testing.T) {
	tm := New(PresetFocus, 10*time.Second)
	assert.Equal(t, StateIdle, tm.State())
	assert.Equal(t, 10*time.Second, tm.Remaining())

	// Ticking an idle timer does nothing.
	tm.Tick(time.Second)
	assert.Equal(t, 10*time.Second, tm.Remaining())

	tm.Start()
	assert.Equal(t, StateRunning, tm.State())
	tm.Tick(3 * time.Second)
	assert.Equal(t, 7*time.Second, tm.Remaining())

	tm.Pause()
	assert.Equal(t, StatePaused, tm.State())
	tm.Tick(5 * time.Second)
	assert.Equal(t, 7*time.Second, tm.Remaining(), "paused timers must not move")

	tm.Start()
	tm.Tick(7 * time.Second)
	assert.Equal(t, StateFinished, tm.State())
	assert.Equal(t, time.Duration(0), tm.Remaining())
}

func TestTickPastZeroClamps(t *testing.T) {
	tm := New(PresetShortBreak, 2*time.Second)
	tm.Start()
	state := tm.Tick(10 * time.Second)
	assert.Equal(t, StateFinished, state)
	assert.Equal(t, time.Duration(0), tm.Remaining())
	assert.Equal(t, 1.0, tm.Progress())
}

func TestResetOutcomes(t *testing.T) {
	tm := New(PresetFocus, time.Minute)

	// Resetting an idle timer stays idle.
	assert.Equal(t, StateIdle, tm.Reset())

	// Resetting mid-countdown reports cancelled, then returns to idle.
	tm.Start()
	tm.Tick(10 * time.Second)
	assert.Equal(t, StateCancelled, tm.Reset())
	assert.Equal(t, StateIdle, tm.State())
	assert.Equal(t, time.Minute, tm.Remaining())

	// Resetting from paused also counts as cancelled.
	tm.Start()
	tm.Pause()
	assert.Equal(t, StateCancelled, tm.Reset())

	// Resetting a finished timer is not a cancellation.
	tm.Start()
	tm.Tick(2 * time.Minute)
	require.Equal(t, StateFinished, tm.State())
	assert.Equal(t, StateIdle, tm.Reset())
}

func TestStartAfterFinishedRewinds(t *testing.T) {
	tm := New(PresetLongBreak, time.Second)
	tm.Start()
	tm.Tick(time.Second)
	require.Equal(t, StateFinished, tm.State())

	tm.Start()
	assert.Equal(t, StateRunning, tm.State())
	assert.Equal(t, time.Second, tm.Remaining())
}

func TestPresetDurations(t *testing.T) {
	cfg := config.Default().Timer

	d, err := PresetDuration(PresetFocus, cfg)
	require.NoError(t, err)
	assert.Equal(t, 25*time.Minute, d)

	d, err = PresetDuration(PresetShortBreak, cfg)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, d)

	d, err = PresetDuration(PresetLongBreak, cfg)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, d)

	_, err = PresetDuration(Preset("nap"), cfg)
	assert.Error(t, err)
}

func TestClock(t *testing.T) {
	tm := New(PresetCustom, 90*time.Minute)
	assert.Equal(t, "1:30:00", tm.Clock())

	tm = New(PresetCustom, 65*time.Second)
	assert.Equal(t, "01:05", tm.Clock())

	tm.Start()
	tm.Tick(65 * time.Second)
	assert.Equal(t, "00:00", tm.Clock())
}
