package app

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"hairsim.com/hairsim/config"
)

const maxPitch = math.Pi/2 - 0.01

var worldUp = mgl32.Vec3{0, 1, 0}

//Camera is a free flying perspective camera steered by yaw and pitch
type Camera struct {
	Position    mgl32.Vec3
	yaw         float32
	pitch       float32
	fov         float32
	near, far   float32
	speed       float32
	sensitivity float32
}

func NewCamera(cfg config.CameraConfig) *Camera {
	c := &Camera{
		Position:    mgl32.Vec3(cfg.Position),
		fov:         cfg.FOV,
		near:        cfg.Near,
		far:         cfg.Far,
		speed:       cfg.MoveSpeed,
		sensitivity: cfg.MouseSensitivity,
	}
	c.LookAt(mgl32.Vec3(cfg.Target))
	return c
}

//LookAt turns the camera toward target
func (c *Camera) LookAt(target mgl32.Vec3) {
	d := target.Sub(c.Position)
	if d.Len() == 0 {
		return
	}
	d = d.Normalize()
	c.pitch = clampPitch(float32(math.Asin(float64(d.Y()))))
	c.yaw = float32(math.Atan2(float64(d.Z()), float64(d.X())))
}

func (c *Camera) Front() mgl32.Vec3 {
	cp := float32(math.Cos(float64(c.pitch)))
	return mgl32.Vec3{
		cp * float32(math.Cos(float64(c.yaw))),
		float32(math.Sin(float64(c.pitch))),
		cp * float32(math.Sin(float64(c.yaw))),
	}
}

func (c *Camera) Right() mgl32.Vec3 {
	return c.Front().Cross(worldUp).Normalize()
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front()), worldUp)
}

func (c *Camera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.fov), aspect, c.near, c.far)
}

//Move translates along the view axes, forward and right in camera space and up
//in world space, scaled by speed and dt
func (c *Camera) Move(forward float32, right float32, up float32, dt float32) {
	step := c.speed * dt
	c.Position = c.Position.
		Add(c.Front().Mul(forward * step)).
		Add(c.Right().Mul(right * step)).
		Add(worldUp.Mul(up * step))
}

//Look turns by a cursor offset in pixels
func (c *Camera) Look(dx float64, dy float64) {
	c.yaw += float32(dx) * c.sensitivity
	c.pitch = clampPitch(c.pitch - float32(dy)*c.sensitivity)
}

func clampPitch(p float32) float32 {
	return float32(math.Max(-maxPitch, math.Min(maxPitch, float64(p))))
}
