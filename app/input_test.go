package app

import (
	"io"
	"log/slog"
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hairsim.com/hairsim/config"
	"hairsim.com/hairsim/hair"
	"hairsim.com/hairsim/memgpu"
)

//fakeKeys reports held keys and fires taps once
type fakeKeys struct {
	held map[glfw.Key]bool
	taps map[glfw.Key]bool
}

func keys(held ...glfw.Key) *fakeKeys {
	k := &fakeKeys{held: map[glfw.Key]bool{}, taps: map[glfw.Key]bool{}}
	for _, key := range held {
		k.held[key] = true
	}
	return k
}

func (k *fakeKeys) tap(key glfw.Key) *fakeKeys {
	k.taps[key] = true
	return k
}

func (k *fakeKeys) Pressed(key glfw.Key) bool { return k.held[key] }

func (k *fakeKeys) Tapped(key glfw.Key) bool {
	t := k.taps[key]
	delete(k.taps, key)
	return t
}

func testCamera(t *testing.T) *Camera {
	cfg, err := config.Load("")
	require.NoError(t, err)
	return NewCamera(cfg.Camera)
}

func testControls(t *testing.T) (*Controls, *hair.Hair, *hair.StepGate) {
	t.Helper()
	opts := hair.DefaultOptions()
	opts.MaxStrands = 1000
	opts.InitialStrands = 500
	opts.ParticlesPerStrand = 4
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	h, err := hair.New(memgpu.New([3]uint32{64, 1, 1}), opts)
	require.NoError(t, err)
	t.Cleanup(h.Release)

	gate := &hair.StepGate{Enabled: true, MaxJump: hair.DefaultMaxJump}
	return NewControls(h, gate, testCamera(t), 0.01), h, gate
}

func TestControlsEscapeQuits(t *testing.T) {
	c, _, _ := testControls(t)
	assert.False(t, c.Apply(keys(), 0.016))
	assert.True(t, c.Apply(keys(glfw.KeyEscape), 0.016))
}

func TestControlsStrandCount(t *testing.T) {
	c, h, _ := testControls(t)
	c.Apply(keys().tap(glfw.KeyI), 0.016)
	assert.Equal(t, 600, h.LiveStrands())
	c.Apply(keys().tap(glfw.KeyO), 0.016)
	c.Apply(keys().tap(glfw.KeyO), 0.016)
	assert.Equal(t, 400, h.LiveStrands())
}

func TestControlsFrictionNeedsRunningGate(t *testing.T) {
	c, h, gate := testControls(t)
	start := h.FrictionFactor()

	c.Apply(keys().tap(glfw.KeyRightShift), 0.016)
	assert.InDelta(t, start+0.01, h.FrictionFactor(), 1e-6)

	gate.Enabled = false
	c.Apply(keys().tap(glfw.KeyRightShift), 0.016)
	assert.InDelta(t, start+0.01, h.FrictionFactor(), 1e-6)
}

func TestControlsHeldKeysStepOnce(t *testing.T) {
	c, h, _ := testControls(t)
	h.SetFrictionFactor(0.03)
	curl, damping := h.CurlRadius(), h.VelocityDamping()

	//one press spans several frames: a tap on the first, held afterwards
	held := []glfw.Key{glfw.KeyRightShift, glfw.KeyI, glfw.KeyL, glfw.KeyM}
	first := keys(held...)
	for _, k := range held {
		first.tap(k)
	}
	c.Apply(first, 0.016)
	for i := 0; i < 5; i++ {
		c.Apply(keys(held...), 0.016)
	}

	assert.InDelta(t, 0.04, h.FrictionFactor(), 1e-6)
	assert.Equal(t, 600, h.LiveStrands())
	assert.InDelta(t, curl+0.001, h.CurlRadius(), 1e-6)
	assert.InDelta(t, damping+0.01, h.VelocityDamping(), 1e-6)
}

func TestControlsToggles(t *testing.T) {
	c, h, gate := testControls(t)
	g := h.Gravity()

	c.Apply(keys().tap(glfw.KeyG), 0.016)
	assert.Zero(t, h.Gravity())
	c.Apply(keys().tap(glfw.KeyG), 0.016)
	assert.Equal(t, g, h.Gravity())

	c.Apply(keys().tap(glfw.KeyEnter), 0.016)
	assert.False(t, gate.Enabled)
	//holding without a new tap does nothing
	c.Apply(keys(glfw.KeyEnter), 0.016)
	assert.False(t, gate.Enabled)
}

func TestControlsCurlAndDamping(t *testing.T) {
	c, h, _ := testControls(t)
	curl, damping := h.CurlRadius(), h.VelocityDamping()

	c.Apply(keys().tap(glfw.KeyL).tap(glfw.KeyM), 0.016)
	assert.Greater(t, h.CurlRadius(), curl)
	assert.Greater(t, h.VelocityDamping(), damping)

	c.Apply(keys().tap(glfw.KeyK).tap(glfw.KeyN), 0.016)
	assert.InDelta(t, curl, h.CurlRadius(), 1e-6)
	assert.InDelta(t, damping, h.VelocityDamping(), 1e-6)
}

func TestControlsMoveCamera(t *testing.T) {
	c, _, _ := testControls(t)
	start := c.camera.Position
	front := c.camera.Front()

	c.Apply(keys(glfw.KeyW), 0.1)
	moved := c.camera.Position.Sub(start)
	assert.InDelta(t, 1, moved.Normalize().Dot(front), 1e-4)

	c.camera.Position = start
	c.Apply(keys(glfw.KeySpace), 0.1)
	assert.Greater(t, c.camera.Position.Y(), start.Y())
}

func TestCameraLooksAtTarget(t *testing.T) {
	cam := testCamera(t)
	want := mgl32.Vec3{0, -2, 0}.Sub(cam.Position).Normalize()
	got := cam.Front()
	assert.InDelta(t, 1, got.Dot(want), 1e-4)
}

func TestCameraPitchClamped(t *testing.T) {
	cam := testCamera(t)
	cam.Look(0, -1e7)
	assert.Less(t, cam.Front().Y(), float32(1))
	assert.Greater(t, cam.Front().Y(), float32(0.99))
}
