package app

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"hairsim.com/hairsim/hair"
)

//keyState is the part of the window the controls read
type keyState interface {
	Pressed(k glfw.Key) bool
	Tapped(k glfw.Key) bool
}

//Controls maps keys onto the camera, the step gate and the hair controls.
//Camera movement acts every frame a key is held, everything else once per press.
type Controls struct {
	hair         *hair.Hair
	gate         *hair.StepGate
	camera       *Camera
	frictionStep float32
	gravity      float32 //restored when gravity is toggled back on
	gravityOff   bool
}

func NewControls(h *hair.Hair, gate *hair.StepGate, cam *Camera, frictionStep float32) *Controls {
	return &Controls{hair: h, gate: gate, camera: cam, frictionStep: frictionStep, gravity: h.Gravity()}
}

//SetGravity changes the configured gravity. While gravity is toggled off it is
//only remembered for when the toggle turns it back on.
func (c *Controls) SetGravity(g float32) {
	c.gravity = g
	if !c.gravityOff {
		c.hair.SetGravity(g)
	}
}

func (c *Controls) currentGravity() float32 {
	if c.gravityOff {
		return 0
	}
	return c.gravity
}

//Apply reads one frame of input, it returns true when the user asked to quit
func (c *Controls) Apply(keys keyState, dt float32) bool {
	if keys.Pressed(glfw.KeyEscape) {
		return true
	}

	var forward, right, up float32
	if keys.Pressed(glfw.KeyW) {
		forward++
	}
	if keys.Pressed(glfw.KeyS) {
		forward--
	}
	if keys.Pressed(glfw.KeyD) {
		right++
	}
	if keys.Pressed(glfw.KeyA) {
		right--
	}
	if keys.Pressed(glfw.KeySpace) {
		up++
	}
	if keys.Pressed(glfw.KeyLeftShift) {
		up--
	}
	if forward != 0 || right != 0 || up != 0 {
		c.camera.Move(forward, right, up, dt)
	}

	if keys.Tapped(glfw.KeyEnter) {
		c.gate.Toggle()
	}
	if keys.Tapped(glfw.KeyG) {
		c.gravityOff = !c.gravityOff
		c.hair.SetGravity(c.currentGravity())
	}

	if keys.Tapped(glfw.KeyI) {
		c.hair.IncreaseStrandCount()
	}
	if keys.Tapped(glfw.KeyO) {
		c.hair.DecreaseStrandCount()
	}
	if keys.Tapped(glfw.KeyL) {
		c.hair.IncreaseCurlRadius()
	}
	if keys.Tapped(glfw.KeyK) {
		c.hair.DecreaseCurlRadius()
	}
	if keys.Tapped(glfw.KeyM) {
		c.hair.IncreaseVelocityDamping()
	}
	if keys.Tapped(glfw.KeyN) {
		c.hair.DecreaseVelocityDamping()
	}

	//taps are read every frame so a press made while paused does not fire later
	more, less := keys.Tapped(glfw.KeyRightShift), keys.Tapped(glfw.KeyRightControl)
	//friction only moves while the simulation runs
	if c.gate.Enabled {
		if more {
			c.hair.SetFrictionFactor(c.hair.FrictionFactor() + c.frictionStep)
		}
		if less {
			c.hair.SetFrictionFactor(c.hair.FrictionFactor() - c.frictionStep)
		}
	}
	return false
}
