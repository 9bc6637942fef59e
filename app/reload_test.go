package app

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hairsim.com/hairsim/config"
)

func loadDefaults(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestReloadKeepsWarmupFriction(t *testing.T) {
	c, h, _ := testControls(t)
	prev := loadDefaults(t)
	h.Warmup(2, prev.Simulation.WarmupDT, prev.Simulation.FrictionAfterWarmup)
	require.InDelta(t, 0.03, h.FrictionFactor(), 1e-6)

	next := loadDefaults(t)
	next.Simulation.Gravity = -5
	changed := applyReload(c, prev, next)

	assert.Equal(t, []string{"gravity"}, changed)
	assert.Equal(t, float32(-5), h.Gravity())
	assert.InDelta(t, 0.03, h.FrictionFactor(), 1e-6)
}

func TestReloadUnchangedIsNoop(t *testing.T) {
	c, h, _ := testControls(t)
	h.ApplyPhysics(0.016, 0)
	require.False(t, h.PendingSettings())

	assert.Empty(t, applyReload(c, loadDefaults(t), loadDefaults(t)))
	assert.False(t, h.PendingSettings())
}

func TestReloadRespectsGravityToggle(t *testing.T) {
	c, h, _ := testControls(t)
	c.Apply(keys().tap(glfw.KeyG), 0.016)
	require.Zero(t, h.Gravity())

	prev := loadDefaults(t)
	next := loadDefaults(t)
	next.Simulation.Gravity = -3
	applyReload(c, prev, next)
	assert.Zero(t, h.Gravity(), "gravity stays off")

	c.Apply(keys().tap(glfw.KeyG), 0.016)
	assert.Equal(t, float32(-3), h.Gravity())
}

func TestReloadChangedFields(t *testing.T) {
	c, h, gate := testControls(t)
	prev := loadDefaults(t)
	next := loadDefaults(t)
	next.Simulation.FrictionAfterWarmup = 0.2
	next.Simulation.Damping = 0.3
	next.Simulation.WindStrength = 0.7
	next.Simulation.MaxFrameJump = 0.25
	next.Hair.CurlRadius = 0.01

	changed := applyReload(c, prev, next)
	assert.ElementsMatch(t, []string{"wind", "friction_after_warmup", "damping", "curl_radius", "max_frame_jump"}, changed)
	assert.InDelta(t, 0.2, h.FrictionFactor(), 1e-6)
	assert.InDelta(t, 0.3, h.VelocityDamping(), 1e-6)
	assert.InDelta(t, 0.7, h.Wind().Strength, 1e-6)
	assert.InDelta(t, 0.01, h.CurlRadius(), 1e-6)
	assert.Equal(t, float32(0.25), gate.MaxJump)
}
