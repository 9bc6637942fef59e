package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hairsim.com/hairsim/geometry"
	"hairsim.com/hairsim/hair"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "volumetric", cfg.Hair.Profile)
	assert.Equal(t, 300000, cfg.Hair.MaxStrands)
	assert.Equal(t, 5000, cfg.Hair.InitialStrands)
	assert.Equal(t, float32(-9.81), cfg.Simulation.Gravity)
	assert.Equal(t, 50, cfg.Simulation.WarmupSteps)
	assert.Equal(t, float32(0.03), cfg.Simulation.FrictionAfterWarmup)
	assert.Equal(t, filepath.Join("shaders", "hair.comp.glsl"), cfg.Derived.ComputePath)
	assert.InDelta(t, 2.0/19.0, cfg.Derived.SegmentLength, 1e-6)
	assert.InDelta(t, 1280.0/720.0, cfg.Derived.Aspect, 1e-6)
	require.Len(t, cfg.Colliders, 1)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hair.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
hair:
  profile: classic
  particles_per_strand: 11
  layout:
    kind: disk
    radius: 0.3
simulation:
  friction: 0.2
shaders:
  dir: /opt/hairsim/shaders
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "classic", cfg.Hair.Profile)
	assert.Equal(t, 11, cfg.Hair.ParticlesPerStrand)
	assert.Equal(t, 5000, cfg.Hair.InitialStrands, "fields absent from the file keep defaults")
	assert.Equal(t, float32(0.2), cfg.Simulation.Friction)
	assert.Equal(t, "/opt/hairsim/shaders/strand.vert.glsl", cfg.Derived.StrandVertexPath)
	assert.InDelta(t, 0.2, cfg.Derived.SegmentLength, 1e-6)

	layout, err := cfg.Layout()
	require.NoError(t, err)
	disk, ok := layout.(hair.Disk)
	require.True(t, ok)
	assert.Equal(t, float32(0.3), disk.Radius)

	opts, err := cfg.HairOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, hair.ProfileClassic, opts.Profile.Name)
	assert.Nil(t, opts.Profile.Volume)
	assert.Equal(t, float32(0.2), opts.Settings.Friction)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hair: [unclosed"), 0644))
	_, err = Load(path)
	assert.Error(t, err)

	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Hair.Profile = "braided"
	_, err = cfg.HairOptions(nil)
	assert.Error(t, err)
	cfg.Hair.Profile = "classic"
	cfg.Hair.Layout.Kind = "spiral"
	_, err = cfg.HairOptions(nil)
	assert.Error(t, err)
}

func TestHairOptionsVolumeOverride(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	opts, err := cfg.HairOptions(nil)
	require.NoError(t, err)
	require.NotNil(t, opts.Profile.Volume)
	assert.Equal(t, 11, opts.Profile.Volume.Resolution)

	cfg.Hair.Volume = VolumeConfig{Min: [3]float32{-1, -1, -1}, Max: [3]float32{1, 1, 1}, Resolution: 5}
	opts, err = cfg.HairOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, 5, opts.Profile.Volume.Resolution)
	assert.Equal(t, 11, hair.VolumetricProfile().Volume.Resolution, "profile defaults are not shared")
}

func TestBuildColliders(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Colliders = append(cfg.Colliders, ColliderConfig{Shape: "box", Center: [3]float32{0, -3, 0}, Size: [3]float32{2, 0.1, 2}})

	cs, err := cfg.BuildColliders()
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.Equal(t, geometry.ShapeSphere, cs[0].Shape())
	assert.Equal(t, float32(1), cs[0].Radius())
	assert.Equal(t, geometry.ShapeBox, cs[1].Shape())
	assert.Equal(t, mgl32.Vec3{0, -3, 0}, cs[1].Translation())

	cfg.Colliders = []ColliderConfig{{Shape: "torus"}}
	_, err = cfg.BuildColliders()
	assert.Error(t, err)
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Simulation.Damping = 0.25

	path := filepath.Join(t.TempDir(), "dump.yaml")
	require.NoError(t, cfg.WriteYAML(path))
	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, float32(0.25), back.Simulation.Damping)
	assert.Equal(t, cfg.Derived, back.Derived)
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hair.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  gravity: -1\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates, err := Watch(ctx, path, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  gravity: -2\n"), 0644))
	select {
	case cfg := <-updates:
		require.NotNil(t, cfg)
		assert.Equal(t, float32(-2), cfg.Simulation.Gravity)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}

	cancel()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-updates:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("watch did not stop")
		}
	}
}
