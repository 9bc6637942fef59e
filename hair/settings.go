package hair

import (
	"github.com/go-gl/mathgl/mgl32"

	V "hairsim.com/hairsim/vector"
)

const (
	DefaultGravity = float32(-9.81)
	MaxCurlRadius  = float32(0.05)
)

//Wind blows along Direction. A zero direction lets the kernel vary the wind
//over time.
type Wind struct {
	Direction mgl32.Vec3
	Strength  float32
}

//Vec4 packs the wind as the kernel reads it, strength in w
func (w Wind) Vec4() mgl32.Vec4 {
	return w.Direction.Vec4(w.Strength)
}

//Settings are the host side copy of every tunable simulation value
type Settings struct {
	Gravity    float32
	Wind       Wind
	Friction   float32
	Damping    float32
	CurlRadius float32
}

func DefaultSettings() Settings {
	return Settings{
		Gravity:    DefaultGravity,
		Wind:       Wind{Strength: 0.1},
		Friction:   0.5,
		Damping:    0.05,
		CurlRadius: 0.005,
	}
}

func (s Settings) clamped() Settings {
	s.Wind.Strength = V.Clamp(s.Wind.Strength, 0, 1)
	s.Friction = V.Clamp(s.Friction, 0, 1)
	s.Damping = V.Clamp(s.Damping, 0, 1)
	s.CurlRadius = V.Clamp(s.CurlRadius, 0, MaxCurlRadius)
	return s
}

//deltaField tags one device parameter group waiting for the next flush
type deltaField uint8

const (
	deltaGravity deltaField = 1 << iota
	deltaWind
	deltaFriction
	deltaDamping
	deltaColliders

	deltaAll = deltaGravity | deltaWind | deltaFriction | deltaDamping | deltaColliders
)

//pendingDelta collects control changes between physics steps
type pendingDelta struct {
	fields deltaField
}

func (d *pendingDelta) mark(f deltaField) {
	d.fields |= f
}

func (d pendingDelta) empty() bool {
	return d.fields == 0
}

//take returns the tagged fields and clears them
func (d *pendingDelta) take() deltaField {
	f := d.fields
	d.fields = 0
	return f
}
