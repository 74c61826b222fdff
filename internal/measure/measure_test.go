package measure

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitriyb/canoerun/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		cfg  config.MeasurementConfig
		want Waiter
	}{
		{config.MeasurementConfig{Wait: "fixed", Duration: time.Second}, Fixed{Duration: time.Second}},
		{config.MeasurementConfig{Duration: time.Second}, Fixed{Duration: time.Second}},
		{config.MeasurementConfig{Wait: "poll", PollInterval: time.Millisecond, Timeout: time.Minute}, Poll{Interval: time.Millisecond, Timeout: time.Minute}},
		{config.MeasurementConfig{Wait: "marker", Marker: "done", Timeout: time.Minute}, Marker{Path: "done", Timeout: time.Minute}},
	}
	for _, tt := range tests {
		t.Run(tt.want.Mode(), func(t *testing.T) {
			w, err := New(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, w)
		})
	}

	_, err := New(config.MeasurementConfig{Wait: "forever"})
	assert.ErrorContains(t, err, `unknown wait mode "forever"`)
}

func TestFixedWaitsDuration(t *testing.T) {
	start := time.Now()
	require.NoError(t, Fixed{Duration: 30 * time.Millisecond}.Wait(context.Background(), nil))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestFixedHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Fixed{Duration: time.Hour}.Wait(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPollUntilStopped(t *testing.T) {
	polls := 0
	running := func() (bool, error) {
		polls++
		return polls < 3, nil
	}

	require.NoError(t, Poll{Interval: time.Millisecond}.Wait(context.Background(), running))
	assert.Equal(t, 3, polls)
}

func TestPollTimeout(t *testing.T) {
	running := func() (bool, error) { return true, nil }

	err := Poll{Interval: time.Millisecond, Timeout: 20 * time.Millisecond}.Wait(context.Background(), running)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestPollCancelIsNotTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	running := func() (bool, error) {
		cancel()
		return true, nil
	}

	err := Poll{Interval: time.Hour, Timeout: time.Hour}.Wait(ctx, running)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestPollStatusError(t *testing.T) {
	statusErr := errors.New("not supported")
	running := func() (bool, error) { return false, statusErr }

	err := Poll{Interval: time.Millisecond}.Wait(context.Background(), running)
	assert.ErrorIs(t, err, statusErr)
}

func TestPollWithoutStatus(t *testing.T) {
	assert.Error(t, Poll{Interval: time.Millisecond}.Wait(context.Background(), nil))
}

func TestMarkerAlreadyPresent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "done.flag")
	require.NoError(t, os.WriteFile(p, nil, 0644))

	require.NoError(t, Marker{Path: p, Timeout: time.Second}.Wait(context.Background(), nil))
}

func TestMarkerCreatedLater(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "done.flag")

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "unrelated.log"), []byte("x"), 0644)
		_ = os.WriteFile(p, []byte("ok"), 0644)
	}()

	require.NoError(t, Marker{Path: p, Timeout: 5 * time.Second}.Wait(context.Background(), nil))
}

func TestMarkerTimeout(t *testing.T) {
	p := filepath.Join(t.TempDir(), "never.flag")

	err := Marker{Path: p, Timeout: 30 * time.Millisecond}.Wait(context.Background(), nil)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestMarkerMissingDirectory(t *testing.T) {
	p := filepath.Join(t.TempDir(), "absent", "done.flag")

	err := Marker{Path: p}.Wait(context.Background(), nil)
	assert.ErrorContains(t, err, "measure: watch")
}
