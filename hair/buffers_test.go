package hair_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hairsim.com/hairsim/hair"
	"hairsim.com/hairsim/memgpu"
	V "hairsim.com/hairsim/vector"
)

func TestStrandBuffersLayout(t *testing.T) {
	dev := memgpu.New([3]uint32{64, 1, 1})
	rnd := rand.New(rand.NewSource(7))
	layout := hair.Disk{Center: V.Vec32{0, 1, 0}, Normal: V.Vec32{0, -1, 0}, Radius: 0.5}

	sb, err := hair.NewStrandBuffers(dev, 10, 5, 2, layout, rnd)
	require.NoError(t, err)
	assert.Equal(t, 10, sb.Capacity())
	assert.Equal(t, 50, sb.ParticleCount())
	assert.InDelta(t, 0.5, sb.SegmentLength(), 1e-6)
	assert.Equal(t, 23, sb.Index(4, 3))
	assert.Equal(t, 45, sb.FirstParticle(9))

	pos := dev.Buffer(hair.SlotPositions)
	vel := dev.Buffer(hair.SlotVelocities)
	require.NotNil(t, pos)
	require.NotNil(t, vel)
	assert.Equal(t, 150, pos.Len())
	assert.Equal(t, pos.Len(), vel.Len())
	for _, v := range vel.Data() {
		require.Zero(t, v)
	}

	p := pos.Data()
	for s := 0; s < sb.Capacity(); s++ {
		root := 3 * sb.FirstParticle(s)
		assert.InDelta(t, 1, p[root+1], 1e-6, "root on the disk plane")
		for j := 1; j < sb.ParticlesPerStrand(); j++ {
			i := 3 * sb.Index(s, j)
			assert.InDelta(t, p[root+1]-float32(j)*0.5, p[i+1], 1e-5, "particle %d of strand %d", j, s)
			assert.InDelta(t, p[root], p[i], 1e-6)
			assert.InDelta(t, p[root+2], p[i+2], 1e-6)
		}
	}
}

func TestStrandBuffersClampParticles(t *testing.T) {
	dev := memgpu.New([3]uint32{64, 1, 1})
	sb, err := hair.NewStrandBuffers(dev, 3, 1, 1, nil, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 2, sb.ParticlesPerStrand())
	assert.Equal(t, float32(1), sb.SegmentLength())
	assert.Equal(t, 18, sb.Positions().Len())
}

func TestStrandBuffersDrawRanges(t *testing.T) {
	dev := memgpu.New([3]uint32{64, 1, 1})
	sb, err := hair.NewStrandBuffers(dev, 4, 3, 1, nil, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	firsts, counts := sb.DrawRanges(3)
	assert.Equal(t, []int32{0, 3, 6}, firsts)
	assert.Equal(t, []int32{3, 3, 3}, counts)

	firsts, _ = sb.DrawRanges(99)
	assert.Len(t, firsts, 4)
	firsts, counts = sb.DrawRanges(-1)
	assert.Empty(t, firsts)
	assert.Empty(t, counts)
}

func TestStrandBuffersRelease(t *testing.T) {
	dev := memgpu.New([3]uint32{64, 1, 1})
	sb, err := hair.NewStrandBuffers(dev, 2, 2, 1, nil, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	sb.Release()
	assert.Nil(t, dev.Buffer(hair.SlotPositions))
	assert.Nil(t, dev.Buffer(hair.SlotVelocities))
	sb.Release()

	_, err = hair.NewStrandBuffers(nil, 2, 2, 1, nil, nil)
	assert.ErrorIs(t, err, hair.ErrNoDevice)
}

func TestSphereCapSeed(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	c := hair.DefaultSphereCap()
	for i := 0; i < 500; i++ {
		root, growth := c.Seed(rnd)
		assert.InDelta(t, 1, root.Length(), 1e-4)
		assert.LessOrEqual(t, root[2], c.MaxZ)
		assert.GreaterOrEqual(t, root[1], c.MinY)
		assert.Equal(t, V.Vec32{0, 0, -1}, growth)
	}

	impossible := hair.SphereCap{Radius: 2, MaxZ: -5, MinY: 5}
	root, growth := impossible.Seed(rnd)
	assert.InDelta(t, 2, root.Length(), 1e-4)
	assert.Equal(t, V.Vec32{0, -1, 0}, growth)
}
