//Package headless drives the hair facade against the in-memory device, for
//profiling the host side of the step loop and for CI runs without a GPU.
package headless

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"hairsim.com/hairsim/config"
	"hairsim.com/hairsim/hair"
	"hairsim.com/hairsim/memgpu"
	"hairsim.com/hairsim/telemetry"
)

type Options struct {
	Frames int
	DT     float32
	//OutputDir overrides the configured telemetry directory when set
	OutputDir string
	//GrowEvery adds a strand step every n frames, exercising resizes
	GrowEvery int
	//LocalSize is the work group size the in-memory device reports
	LocalSize uint32
}

//Run warms up and steps the simulation for opts.Frames frames, returning the
//timing summary of every frame
func Run(ctx context.Context, cfg *config.Config, opts Options, logger *slog.Logger) (telemetry.Summary, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DT <= 0 {
		opts.DT = cfg.Simulation.WarmupDT
	}
	if opts.LocalSize == 0 {
		opts.LocalSize = 256
	}
	outDir := cfg.Telemetry.OutputDir
	if opts.OutputDir != "" {
		outDir = opts.OutputDir
	}

	dev := memgpu.New([3]uint32{opts.LocalSize, 1, 1})
	dev.Record(false)

	hopts, err := cfg.HairOptions(logger)
	if err != nil {
		return telemetry.Summary{}, err
	}
	h, err := hair.New(dev, hopts)
	if err != nil {
		return telemetry.Summary{}, err
	}
	defer h.Release()

	colliders, err := cfg.BuildColliders()
	if err != nil {
		return telemetry.Summary{}, err
	}
	for _, c := range colliders {
		if err := h.AddCollider(c); err != nil {
			return telemetry.Summary{}, fmt.Errorf("adding collider: %w", err)
		}
	}

	out, err := telemetry.NewOutput(outDir)
	if err != nil {
		return telemetry.Summary{}, err
	}
	if out != nil {
		if err := cfg.WriteYAML(filepath.Join(out.Dir(), "config.yaml")); err != nil {
			out.Close()
			return telemetry.Summary{}, err
		}
	}
	collector := telemetry.NewCollector(out, logger, cfg.Telemetry.FlushEvery, cfg.Telemetry.SummaryEvery, true)

	h.Warmup(cfg.Simulation.WarmupSteps, cfg.Simulation.WarmupDT, cfg.Simulation.FrictionAfterWarmup)

	gate := hair.StepGate{Enabled: cfg.Simulation.Enabled, MaxJump: cfg.Simulation.MaxFrameJump}
	running := float32(cfg.Simulation.WarmupSteps) * cfg.Simulation.WarmupDT
	for i := 0; i < opts.Frames; i++ {
		if err := ctx.Err(); err != nil {
			collector.Close()
			return collector.Total(), err
		}
		if opts.GrowEvery > 0 && i > 0 && i%opts.GrowEvery == 0 {
			h.IncreaseStrandCount()
		}

		var rec telemetry.StepRecord
		if gate.Allow(opts.DT, opts.DT) {
			h.ApplyPhysics(opts.DT, running)
			rec = telemetry.FromReport(h.LastStep())
		} else {
			rec = telemetry.Skipped(h.Frame(), h.LiveStrands())
		}
		running += opts.DT
		if err := collector.Add(rec); err != nil {
			collector.Close()
			return collector.Total(), err
		}
	}

	if err := collector.Close(); err != nil {
		return collector.Total(), err
	}
	summary := collector.Total()
	stats := dev.Stats()
	logger.Info("headless run finished",
		"summary", summary,
		"strands", h.LiveStrands(),
		"dispatches", stats.Dispatches,
		"barriers", stats.Barriers,
		"writes", stats.Writes,
	)
	return summary, nil
}
