package app

//Manages the interactive scene: window, simulation, controls and the frame loop
import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"hairsim.com/hairsim/config"
	"hairsim.com/hairsim/geometry"
	"hairsim.com/hairsim/gpu"
	"hairsim.com/hairsim/hair"
	"hairsim.com/hairsim/telemetry"
)

//Scene holds everything the frame loop touches
type Scene struct {
	cfg       *config.Config
	log       *slog.Logger
	win       *Window
	camera    *Camera
	renderer  *Renderer
	dev       *gpu.Device
	hair      *hair.Hair
	colliders []*geometry.Primitive
	light     *geometry.Primitive
	gate      hair.StepGate
	controls  *Controls
	collector *telemetry.Collector
	reload    <-chan *config.Config
}

//Run opens the window and runs the simulation until the window closes or ctx
//is done. Must be called from the main thread. A non empty configPath is
//watched and reloaded simulation settings apply on the next step.
func Run(ctx context.Context, cfg *config.Config, configPath string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	s, err := newScene(ctx, cfg, configPath, logger)
	if err != nil {
		return err
	}
	defer s.close()

	s.hair.Warmup(cfg.Simulation.WarmupSteps, cfg.Simulation.WarmupDT, cfg.Simulation.FrictionAfterWarmup)
	s.loop(ctx)
	return nil
}

func newScene(ctx context.Context, cfg *config.Config, configPath string, logger *slog.Logger) (*Scene, error) {
	var err error
	s := &Scene{
		cfg:    cfg,
		log:    logger,
		camera: NewCamera(cfg.Camera),
		gate:   hair.StepGate{Enabled: cfg.Simulation.Enabled, MaxJump: cfg.Simulation.MaxFrameJump},
	}
	defer func() {
		if err != nil {
			s.close()
		}
	}()

	if s.win, err = InitWindow(cfg.Window); err != nil {
		return nil, err
	}
	if err = gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	logger.Info("OpenGL context", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	if s.dev, err = gpu.NewDevice(cfg.Derived.ComputePath, logger); err != nil {
		return nil, err
	}
	opts, err := cfg.HairOptions(logger)
	if err != nil {
		return nil, err
	}
	if s.hair, err = hair.New(s.dev, opts); err != nil {
		return nil, err
	}

	if s.colliders, err = cfg.BuildColliders(); err != nil {
		return nil, err
	}
	for _, c := range s.colliders {
		c.Color = mgl32.Vec3{0.8, 0.7, 0.6}
		if err = s.hair.AddCollider(c); err != nil {
			return nil, err
		}
	}
	s.light = geometry.NewSphere(0.1, mgl32.Vec3{4, 6, 8})

	if s.renderer, err = NewRenderer(cfg, s.hair.PositionBuffer()); err != nil {
		return nil, err
	}
	s.renderer.SetLight(s.light.Translation())
	s.controls = NewControls(s.hair, &s.gate, s.camera, cfg.Controls.FrictionStep)

	out, err := telemetry.NewOutput(cfg.Telemetry.OutputDir)
	if err != nil {
		return nil, err
	}
	s.collector = telemetry.NewCollector(out, logger, cfg.Telemetry.FlushEvery, cfg.Telemetry.SummaryEvery, false)

	if configPath != "" {
		if s.reload, err = config.Watch(ctx, configPath, logger); err != nil {
			logger.Warn("config reload disabled", "err", err)
			err = nil
		}
	}
	return s, nil
}

func (s *Scene) loop(ctx context.Context) {
	for !s.win.ShouldClose() {
		if ctx.Err() != nil {
			return
		}
		t := s.win.Tick()

		select {
		case next, ok := <-s.reload:
			if ok {
				s.reloadConfig(next)
			}
		default:
		}

		if s.controls.Apply(s.win, t.Delta) {
			s.win.SetShouldClose(true)
		}
		dx, dy := s.win.CursorDelta()
		if s.win.Dragging() {
			s.camera.Look(dx, dy)
		}

		var rec telemetry.StepRecord
		if s.gate.Allow(t.Delta, t.LastDelta) {
			s.hair.ApplyPhysics(t.Delta, t.Running)
			rec = telemetry.FromReport(s.hair.LastStep())
		} else {
			rec = telemetry.Skipped(s.hair.Frame(), s.hair.LiveStrands())
		}
		if err := s.collector.Add(rec); err != nil {
			s.log.Warn("telemetry write failed", "err", err)
		}

		s.renderer.Begin(s.camera.View(), s.camera.Projection(s.win.Aspect()))
		for _, c := range s.colliders {
			s.renderer.DrawPrimitive(c, false)
		}
		s.renderer.DrawPrimitive(s.light, false)
		s.renderer.DrawHair(s.hair)
		s.win.EndFrame()
	}
}

//reloadConfig applies the simulation fields changed since the last loaded file.
//Structural sections need a restart.
func (s *Scene) reloadConfig(next *config.Config) {
	changed := applyReload(s.controls, s.cfg, next)
	s.cfg = next
	if len(changed) == 0 {
		s.log.Info("config reloaded, no live simulation changes")
		return
	}
	s.log.Info("simulation settings reloaded",
		"changed", changed,
		"gravity", s.hair.Gravity(),
		"friction", s.hair.FrictionFactor(),
		"damping", s.hair.VelocityDamping(),
	)
}

func (s *Scene) close() {
	if s.collector != nil {
		if err := s.collector.Close(); err != nil {
			s.log.Warn("closing telemetry", "err", err)
		}
	}
	if s.renderer != nil {
		s.renderer.Delete()
	}
	if s.hair != nil {
		s.hair.Release()
	}
	if s.dev != nil {
		s.dev.Delete()
	}
	if s.win != nil {
		s.win.Close()
	}
}
