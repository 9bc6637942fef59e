package headless

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hairsim.com/hairsim/config"
)

func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Hair.MaxStrands = 400
	cfg.Hair.InitialStrands = 100
	cfg.Hair.ParticlesPerStrand = 8
	cfg.Simulation.WarmupSteps = 5
	cfg.Telemetry.SummaryEvery = 0
	return cfg
}

func TestRunWritesTelemetry(t *testing.T) {
	cfg := smallConfig(t)
	dir := filepath.Join(t.TempDir(), "out")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	summary, err := Run(context.Background(), cfg, Options{Frames: 30, DT: 0.016, OutputDir: dir, GrowEvery: 10}, logger)
	require.NoError(t, err)
	assert.Equal(t, 30, summary.Frames)
	assert.Zero(t, summary.Skipped)
	assert.Equal(t, 1, summary.Flushes, "warmup friction reaches the device once")

	assert.FileExists(t, filepath.Join(dir, "steps.csv"))
	assert.FileExists(t, filepath.Join(dir, "config.yaml"))
	data, err := os.ReadFile(filepath.Join(dir, "steps.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "live_strands")
	assert.Contains(t, string(data), ",300,", "strand count grew twice by the default step")
}

func TestRunDisabledSkipsEveryFrame(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Simulation.Enabled = false
	summary, err := Run(context.Background(), cfg, Options{Frames: 10}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Equal(t, 10, summary.Skipped)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, smallConfig(t), Options{Frames: 10}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunBadProfile(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Hair.Profile = "braided"
	_, err := Run(context.Background(), cfg, Options{Frames: 1}, nil)
	assert.Error(t, err)
}
