package dryrun

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverMeasurementLength(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "cfg.cnf")
	require.NoError(t, os.WriteFile(cfg, []byte("x"), 0644))

	d := New(slog.New(slog.NewTextHandler(io.Discard, nil)), 50*time.Millisecond)
	require.NoError(t, d.Open())
	require.NoError(t, d.OpenConfiguration(cfg))

	running, _ := d.Running()
	assert.False(t, running, "not running before start")

	require.NoError(t, d.StartMeasurement())
	running, _ = d.Running()
	assert.True(t, running, "running right after start")

	assert.Eventually(t, func() bool {
		running, _ := d.Running()
		return !running
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, d.StopMeasurement())
	require.NoError(t, d.Quit())
}

func TestDriverRejectsMissingConfiguration(t *testing.T) {
	d := New(slog.New(slog.NewTextHandler(io.Discard, nil)), 0)
	require.NoError(t, d.Open())
	assert.Error(t, d.OpenConfiguration(filepath.Join(t.TempDir(), "missing.cnf")))
}
