package hair

import (
	"fmt"
	"math/rand"

	"hairsim.com/hairsim/utils"
	V "hairsim.com/hairsim/vector"
)

//StrandBuffers owns the device resident particle arrays. Capacity is fixed at
//construction; particle (s, p) lives at s*particlesPerStrand + p for the life of
//the buffers and velocities share the positions' indexing.
type StrandBuffers struct {
	positions  Buffer
	velocities Buffer

	capacity           int
	particlesPerStrand int
	segmentLength      float32

	//draw ranges sized to capacity, sliced to the live count
	firsts []int32
	counts []int32
}

//NewStrandBuffers seeds capacity strands of particlesPerStrand particles spaced
//length apart from root to tip. Fewer than two particles per strand clamps to two.
func NewStrandBuffers(storage Storage, capacity int, particlesPerStrand int, length float32, layout Layout, rnd *rand.Rand) (*StrandBuffers, error) {
	if storage == nil {
		return nil, ErrNoDevice
	}
	if capacity < 0 {
		capacity = 0
	}
	if particlesPerStrand < 2 {
		particlesPerStrand = 2
	}
	if length < 0 {
		length = 0
	}
	if layout == nil {
		layout = DefaultSphereCap()
	}

	sb := &StrandBuffers{
		capacity:           capacity,
		particlesPerStrand: particlesPerStrand,
		segmentLength:      length / float32(particlesPerStrand-1),
		firsts:             make([]int32, capacity),
		counts:             make([]int32, capacity),
	}

	n := capacity * particlesPerStrand
	positions := make([]float32, 0, 3*n)
	strand := make([]V.Vec32, particlesPerStrand)
	for s := 0; s < capacity; s++ {
		root, growth := layout.Seed(rnd)
		for p := range strand {
			strand[p] = V.Add(root, V.Scale(growth, float32(p)*sb.segmentLength))
		}
		positions = utils.Flatten(positions, strand)
		sb.firsts[s] = int32(sb.FirstParticle(s))
		sb.counts[s] = int32(particlesPerStrand)
	}

	var err error
	if sb.positions, err = storage.NewBuffer(SlotPositions, positions); err != nil {
		return nil, fmt.Errorf("allocating position buffer: %w", err)
	}
	if sb.velocities, err = storage.NewBuffer(SlotVelocities, make([]float32, 3*n)); err != nil {
		sb.positions.Release()
		return nil, fmt.Errorf("allocating velocity buffer: %w", err)
	}
	return sb, nil
}

//Index of particle p of strand s in both arrays, counted in particles
func (sb *StrandBuffers) Index(s int, p int) int {
	return s*sb.particlesPerStrand + p
}

func (sb *StrandBuffers) FirstParticle(s int) int {
	return sb.Index(s, 0)
}

//ParticleCount is the number of allocated particles, live or not
func (sb *StrandBuffers) ParticleCount() int {
	return sb.capacity * sb.particlesPerStrand
}

func (sb *StrandBuffers) Capacity() int           { return sb.capacity }
func (sb *StrandBuffers) ParticlesPerStrand() int { return sb.particlesPerStrand }
func (sb *StrandBuffers) SegmentLength() float32  { return sb.segmentLength }
func (sb *StrandBuffers) Positions() Buffer       { return sb.positions }
func (sb *StrandBuffers) Velocities() Buffer      { return sb.velocities }

//DrawRanges returns the line strip ranges of the first live strands
func (sb *StrandBuffers) DrawRanges(live int) ([]int32, []int32) {
	if live < 0 {
		live = 0
	}
	if live > sb.capacity {
		live = sb.capacity
	}
	return sb.firsts[:live], sb.counts[:live]
}

func (sb *StrandBuffers) Release() {
	if sb.positions != nil {
		sb.positions.Release()
		sb.positions = nil
	}
	if sb.velocities != nil {
		sb.velocities.Release()
		sb.velocities = nil
	}
}
