package hair

import (
	"fmt"

	V "hairsim.com/hairsim/vector"
)

//VolumeBounds is the world box covered by the volume lattice. Resolution counts
//lattice points per axis, so an 11 point lattice spans 10 cells per axis.
type VolumeBounds struct {
	Min        V.Vec32
	Max        V.Vec32
	Resolution int
}

//Spacing between neighbouring lattice points on each axis
func (b VolumeBounds) Spacing() V.Vec32 {
	var s V.Vec32
	for i := 0; i < 3; i++ {
		s[i] = (b.Max[i] - b.Min[i]) / float32(b.Resolution-1)
	}
	return s
}

func (b VolumeBounds) normalized() VolumeBounds {
	if b.Resolution < 2 {
		b.Resolution = 2
	}
	for i := 0; i < 3; i++ {
		if b.Max[i] < b.Min[i] {
			b.Min[i], b.Max[i] = b.Max[i], b.Min[i]
		}
	}
	return b
}

//VolumeGrid is per frame scratch space the kernel accumulates strand density and
//velocity into. Both arrays are treated as 32 bit words by the kernel, zero bits
//read as zero whether it accumulates in fixed point or float.
type VolumeGrid struct {
	bounds     VolumeBounds
	cells      int
	densities  Buffer
	velocities Buffer
}

func NewVolumeGrid(storage Storage, bounds VolumeBounds) (*VolumeGrid, error) {
	if storage == nil {
		return nil, ErrNoDevice
	}
	bounds = bounds.normalized()
	r := bounds.Resolution
	vg := &VolumeGrid{bounds: bounds, cells: r * r * r}

	var err error
	if vg.densities, err = storage.NewBuffer(SlotDensities, make([]float32, vg.cells)); err != nil {
		return nil, fmt.Errorf("allocating volume densities: %w", err)
	}
	if vg.velocities, err = storage.NewBuffer(SlotVolumeVelocities, make([]float32, 3*vg.cells)); err != nil {
		vg.densities.Release()
		return nil, fmt.Errorf("allocating volume velocities: %w", err)
	}
	return vg, nil
}

//Clear zero fills densities and velocities, run before the accumulation phase
func (vg *VolumeGrid) Clear() {
	vg.densities.Clear()
	vg.velocities.Clear()
}

func (vg *VolumeGrid) Cells() int            { return vg.cells }
func (vg *VolumeGrid) Resolution() int       { return vg.bounds.Resolution }
func (vg *VolumeGrid) Bounds() VolumeBounds  { return vg.bounds }
func (vg *VolumeGrid) Densities() Buffer     { return vg.densities }
func (vg *VolumeGrid) VelocityField() Buffer { return vg.velocities }

//Index of lattice point (x, y, z), x varying fastest
func (vg *VolumeGrid) Index(x int, y int, z int) int {
	r := vg.bounds.Resolution
	return (z*r+y)*r + x
}

//CellOf returns the lattice point nearest to pos, positions outside the
//bounds clamp to the boundary
func (vg *VolumeGrid) CellOf(pos V.Vec32) (int, int, int) {
	spacing := vg.bounds.Spacing()
	r := vg.bounds.Resolution
	var c [3]int
	for i := 0; i < 3; i++ {
		if spacing[i] == 0 {
			continue
		}
		p := V.Clamp(pos[i], vg.bounds.Min[i], vg.bounds.Max[i])
		c[i] = V.ClampInt(int((p-vg.bounds.Min[i])/spacing[i]+0.5), 0, r-1)
	}
	return c[0], c[1], c[2]
}

//Snapshot reads both fields back to host memory, for debugging only
func (vg *VolumeGrid) Snapshot() ([]float32, []float32) {
	d := make([]float32, vg.densities.Len())
	v := make([]float32, vg.velocities.Len())
	vg.densities.Read(d)
	vg.velocities.Read(v)
	return d, v
}

//Density reads back a single lattice point, for debugging only
func (vg *VolumeGrid) Density(x int, y int, z int) float32 {
	d := make([]float32, vg.densities.Len())
	vg.densities.Read(d)
	return d[vg.Index(x, y, z)]
}

func (vg *VolumeGrid) Release() {
	if vg.densities != nil {
		vg.densities.Release()
		vg.densities = nil
	}
	if vg.velocities != nil {
		vg.velocities.Release()
		vg.velocities = nil
	}
}
