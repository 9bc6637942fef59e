package hair

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"hairsim.com/hairsim/geometry"
	V "hairsim.com/hairsim/vector"
)

//State of the facade, a physics step is the only non idle state
type State int

const (
	Idle State = iota
	PhysicsStep
)

func (s State) String() string {
	if s == PhysicsStep {
		return "physics-step"
	}
	return "idle"
}

//Collider is a rigid body the strands are pushed out of: a transformed unit shape
type Collider interface {
	geometry.Transformer
	Shape() geometry.Shape
}

//Options configure a Hair at construction. Zero values take the defaults.
type Options struct {
	MaxStrands         int
	InitialStrands     int
	ParticlesPerStrand int
	Length             float32
	ParticleMass       float32
	StrandStep         int
	CurlStep           float32
	DampingStep        float32
	Profile            Profile
	Layout             Layout
	Seed               int64
	//Settings nil takes DefaultSettings, a zero value means no forces at all
	Settings *Settings
	Logger   *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		MaxStrands:         300000,
		InitialStrands:     5000,
		ParticlesPerStrand: 20,
		Length:             2,
		ParticleMass:       0.1,
		StrandStep:         100,
		CurlStep:           0.001,
		DampingStep:        0.01,
		Profile:            VolumetricProfile(),
		Layout:             DefaultSphereCap(),
		Seed:               1,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxStrands <= 0 {
		o.MaxStrands = d.MaxStrands
	}
	if o.ParticlesPerStrand == 0 {
		o.ParticlesPerStrand = d.ParticlesPerStrand
	}
	if o.Length <= 0 {
		o.Length = d.Length
	}
	if o.ParticleMass <= 0 {
		o.ParticleMass = d.ParticleMass
	}
	if o.StrandStep <= 0 {
		o.StrandStep = d.StrandStep
	}
	if o.CurlStep <= 0 {
		o.CurlStep = d.CurlStep
	}
	if o.DampingStep <= 0 {
		o.DampingStep = d.DampingStep
	}
	if len(o.Profile.Phases) == 0 {
		o.Profile = d.Profile
	}
	if o.Layout == nil {
		o.Layout = d.Layout
	}
	if o.Settings == nil {
		s := DefaultSettings()
		o.Settings = &s
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	o.InitialStrands = V.ClampInt(o.InitialStrands, 0, o.MaxStrands)
	return o
}

//StepReport describes the work one ApplyPhysics call issued
type StepReport struct {
	Frame          uint64
	LiveStrands    int
	StrandGroups   uint32
	ParticleGroups uint32
	Phases         int
	Barriers       int
	Flushed        bool
	VolumeCleared  bool
	Duration       time.Duration
}

//Hair is the simulation facade. It owns the strand buffers, the optional volume
//grid and the dispatcher, and turns control changes into a pending delta that
//the next physics step flushes to the device once. Hair is not safe for
//concurrent use and ApplyPhysics must not be re-entered.
type Hair struct {
	geometry.Entity

	dev      Device
	log      *slog.Logger
	profile  Profile
	strands  *StrandBuffers
	volume   *VolumeGrid
	dispatch *Dispatcher

	settings  Settings
	pending   pendingDelta
	colliders []Collider

	live         int
	particleMass float32
	strandStep   int
	curlStep     float32
	dampingStep  float32

	state     State
	frame     uint64
	lastModel mgl32.Mat4
	last      StepReport
}

func New(dev Device, opts Options) (*Hair, error) {
	if dev == nil {
		return nil, ErrNoDevice
	}
	opts = opts.withDefaults()
	if err := opts.Profile.Validate(); err != nil {
		return nil, err
	}

	h := &Hair{
		Entity:       geometry.NewEntity(),
		dev:          dev,
		log:          opts.Logger.With("component", "hair"),
		profile:      opts.Profile,
		settings:     opts.Settings.clamped(),
		live:         opts.InitialStrands,
		particleMass: opts.ParticleMass,
		strandStep:   opts.StrandStep,
		curlStep:     opts.CurlStep,
		dampingStep:  opts.DampingStep,
	}

	rnd := rand.New(rand.NewSource(opts.Seed))
	var err error
	h.strands, err = NewStrandBuffers(dev, opts.MaxStrands, opts.ParticlesPerStrand, opts.Length, opts.Layout, rnd)
	if err != nil {
		return nil, fmt.Errorf("creating strands: %w", err)
	}
	if opts.Profile.Volume != nil {
		h.volume, err = NewVolumeGrid(dev, *opts.Profile.Volume)
		if err != nil {
			h.strands.Release()
			return nil, fmt.Errorf("creating volume grid: %w", err)
		}
	}

	h.dispatch = NewDispatcher(dev)
	h.dispatch.Resize(h.live, h.strands.ParticlesPerStrand())
	h.lastModel = h.Transform()
	h.pushConstants()

	h.log.Info("hair created",
		"profile", h.profile.Name,
		"capacity", h.strands.Capacity(),
		"strands", h.live,
		"particlesPerStrand", h.strands.ParticlesPerStrand(),
		"localSize", h.dispatch.LocalSize(),
		"volume", h.volume != nil,
	)
	return h, nil
}

//pushConstants writes everything fixed for the lifetime of the buffers, then the
//full settings
func (h *Hair) pushConstants() {
	h.dev.SetUint(ParamParticlesPerStrand, uint32(h.strands.ParticlesPerStrand()))
	h.dev.SetFloat(ParamSegmentLength, h.strands.SegmentLength())
	h.dev.SetFloat(ParamParticleMass, h.particleMass)
	h.dev.SetFloat(ParamCurlRadius, h.settings.CurlRadius)
	h.dev.SetUint(ParamStrandCount, uint32(h.live))
	if h.volume != nil {
		b := h.volume.Bounds()
		h.dev.SetVec3(ParamVolumeMin, mgl32.Vec3(b.Min))
		h.dev.SetVec3(ParamVolumeMax, mgl32.Vec3(b.Max))
		h.dev.SetUint(ParamVolumeResolution, uint32(b.Resolution))
	}
	h.pending.mark(deltaAll)
	h.flush()
}

//flush writes the tagged parameters once and clears the delta
func (h *Hair) flush() bool {
	fields := h.pending.take()
	if fields == 0 {
		return false
	}
	if fields&deltaGravity != 0 {
		h.dev.SetFloat(ParamGravity, h.settings.Gravity)
	}
	if fields&deltaWind != 0 {
		h.dev.SetVec4(ParamWind, h.settings.Wind.Vec4())
	}
	if fields&deltaFriction != 0 {
		h.dev.SetFloat(ParamFriction, h.settings.Friction)
	}
	if fields&deltaDamping != 0 {
		h.dev.SetFloat(ParamDamping, h.settings.Damping)
	}
	if fields&deltaColliders != 0 {
		h.dev.SetUint(ParamColliderCount, uint32(len(h.colliders)))
		for i, c := range h.colliders {
			h.dev.SetUint(ColliderShapeParam(i), uint32(c.Shape()))
		}
	}
	return true
}

//ApplyPhysics advances the simulation by one step of dt seconds
func (h *Hair) ApplyPhysics(dt float32, running float32) {
	if h.state != Idle {
		panic("hair: ApplyPhysics called during a physics step")
	}
	h.state = PhysicsStep
	defer func() { h.state = Idle }()

	start := time.Now()
	report := StepReport{
		Frame:          h.frame,
		LiveStrands:    h.live,
		StrandGroups:   h.dispatch.Groups(PerStrand),
		ParticleGroups: h.dispatch.Groups(PerParticle),
	}

	if h.volume != nil {
		h.volume.Clear()
		report.VolumeCleared = true
	}
	report.Flushed = h.flush()

	model := h.Transform()
	h.dev.SetMat4(ParamModel, model)
	h.dev.SetMat4(ParamModelDelta, model.Mul4(h.lastModel.Inv()))
	h.lastModel = model
	for i, c := range h.colliders {
		m := c.Transform()
		h.dev.SetMat4(ColliderModelParam(i), m)
		h.dev.SetMat4(ColliderInverseParam(i), m.Inv())
	}
	h.dev.SetUint(ParamStrandCount, uint32(h.live))
	h.dev.SetFloat(ParamDeltaTime, dt)
	h.dev.SetFloat(ParamRunningTime, running)

	report.Phases, report.Barriers = h.dispatch.Step(h.profile.Phases)
	report.Duration = time.Since(start)

	h.frame++
	h.last = report
}

//Warmup runs steps physics steps of dt so freshly seeded strands settle
//under gravity, then switches to the running friction
func (h *Hair) Warmup(steps int, dt float32, friction float32) {
	for i := 0; i < steps; i++ {
		h.ApplyPhysics(dt, float32(i)*dt)
	}
	h.SetFrictionFactor(friction)
	h.log.Info("warmup done", "steps", steps, "friction", h.settings.Friction)
}

func (h *Hair) SetGravity(g float32) {
	h.settings.Gravity = g
	h.pending.mark(deltaGravity)
}

func (h *Hair) SetWind(direction mgl32.Vec3, strength float32) {
	h.settings.Wind = Wind{Direction: direction, Strength: V.Clamp(strength, 0, 1)}
	h.pending.mark(deltaWind)
}

func (h *Hair) SetFrictionFactor(f float32) {
	h.settings.Friction = V.Clamp(f, 0, 1)
	h.pending.mark(deltaFriction)
	h.log.Info("friction factor", "friction", h.settings.Friction)
}

func (h *Hair) SetVelocityDamping(d float32) {
	h.settings.Damping = V.Clamp(d, 0, 1)
	h.pending.mark(deltaDamping)
	h.log.Info("velocity damping", "damping", h.settings.Damping)
}

func (h *Hair) IncreaseVelocityDamping() { h.SetVelocityDamping(h.settings.Damping + h.dampingStep) }
func (h *Hair) DecreaseVelocityDamping() { h.SetVelocityDamping(h.settings.Damping - h.dampingStep) }

//SetCurlRadius only changes how strands are drawn, the kernel keeps the radius
//it was built with
func (h *Hair) SetCurlRadius(r float32) {
	h.settings.CurlRadius = V.Clamp(r, 0, MaxCurlRadius)
	h.log.Info("curl radius", "curl", h.settings.CurlRadius, "width", h.StrandWidth())
}

func (h *Hair) IncreaseCurlRadius() { h.SetCurlRadius(h.settings.CurlRadius + h.curlStep) }
func (h *Hair) DecreaseCurlRadius() { h.SetCurlRadius(h.settings.CurlRadius - h.curlStep) }

//SetStrandCount changes how many strands are simulated and drawn. Group counts
//follow immediately so no dispatch ever covers a stale count.
func (h *Hair) SetStrandCount(n int) {
	n = V.ClampInt(n, 0, h.strands.Capacity())
	if n == h.live {
		return
	}
	h.live = n
	h.dispatch.Resize(n, h.strands.ParticlesPerStrand())
	h.log.Info("strand count", "strands", n)
}

func (h *Hair) IncreaseStrandCount() { h.SetStrandCount(h.live + h.strandStep) }
func (h *Hair) DecreaseStrandCount() { h.SetStrandCount(h.live - h.strandStep) }

//ApplySettings routes a full settings value through the setters, so the
//changes land in a single flush
func (h *Hair) ApplySettings(s Settings) {
	h.SetGravity(s.Gravity)
	h.SetWind(s.Wind.Direction, s.Wind.Strength)
	h.SetFrictionFactor(s.Friction)
	h.SetVelocityDamping(s.Damping)
	h.SetCurlRadius(s.CurlRadius)
}

func (h *Hair) AddCollider(c Collider) error {
	if len(h.colliders) >= MaxColliders {
		return ErrTooManyColliders
	}
	h.colliders = append(h.colliders, c)
	h.pending.mark(deltaColliders)
	return nil
}

func (h *Hair) RemoveCollider(c Collider) bool {
	for i, o := range h.colliders {
		if o == c {
			h.colliders = append(h.colliders[:i], h.colliders[i+1:]...)
			h.pending.mark(deltaColliders)
			return true
		}
	}
	return false
}

func (h *Hair) Colliders() []Collider { return h.colliders }

func (h *Hair) Gravity() float32         { return h.settings.Gravity }
func (h *Hair) Wind() Wind               { return h.settings.Wind }
func (h *Hair) FrictionFactor() float32  { return h.settings.Friction }
func (h *Hair) VelocityDamping() float32 { return h.settings.Damping }
func (h *Hair) CurlRadius() float32      { return h.settings.CurlRadius }
func (h *Hair) Settings() Settings       { return h.settings }

//StrandWidth is the line width strands are drawn with at the current curl radius
func (h *Hair) StrandWidth() float32 { return h.profile.width(h.settings.CurlRadius) }

func (h *Hair) ParticlesPerStrand() int { return h.strands.ParticlesPerStrand() }
func (h *Hair) LiveStrands() int        { return h.live }
func (h *Hair) MaxStrands() int         { return h.strands.Capacity() }
func (h *Hair) State() State            { return h.state }
func (h *Hair) Profile() Profile        { return h.profile }
func (h *Hair) LastStep() StepReport    { return h.last }
func (h *Hair) Frame() uint64           { return h.frame }

//PendingSettings reports whether a control change waits for the next step
func (h *Hair) PendingSettings() bool { return !h.pending.empty() }

func (h *Hair) Strands() *StrandBuffers { return h.strands }
func (h *Hair) Volume() *VolumeGrid     { return h.volume }
func (h *Hair) Dispatcher() *Dispatcher { return h.dispatch }
func (h *Hair) PositionBuffer() Buffer  { return h.strands.Positions() }

//DrawRanges returns the first particle and particle count of each live strand
func (h *Hair) DrawRanges() ([]int32, []int32) {
	return h.strands.DrawRanges(h.live)
}

func (h *Hair) Release() {
	h.strands.Release()
	if h.volume != nil {
		h.volume.Release()
	}
}
