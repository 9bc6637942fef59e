package hair

import (
	"math/rand"

	V "hairsim.com/hairsim/vector"
)

//Layout seeds the root of a new strand and the direction its particles extend in
type Layout interface {
	Seed(rnd *rand.Rand) (root V.Vec32, growth V.Vec32)
}

//SphereCap scatters roots over a sphere around the origin, leaving out the face
//(z above MaxZ) and the neck (y below MinY)
type SphereCap struct {
	Radius float32
	MaxZ   float32
	MinY   float32
	Growth V.Vec32
}

const maxSeedAttempts = 1024

func DefaultSphereCap() SphereCap {
	return SphereCap{Radius: 1, MaxZ: 0.4, MinY: -0.5, Growth: V.Vec32{0, 0, -1}}
}

//Seed rejection samples the unit sphere. Bounds that exclude the whole sphere fall
//back to the last sample instead of spinning forever.
func (c SphereCap) Seed(rnd *rand.Rand) (V.Vec32, V.Vec32) {
	growth := V.Normalize(c.Growth)
	if V.VecEquals(growth, V.Vec32{}) {
		growth = V.Vec32{0, -1, 0}
	}

	var p V.Vec32
	for i := 0; i < maxSeedAttempts; i++ {
		p = V.SphericalRand(rnd, 1)
		if p[2] <= c.MaxZ && p[1] >= c.MinY {
			break
		}
	}
	return V.Scale(p, c.Radius), growth
}

//Disk scatters roots uniformly over a disk, strands grow along the disk normal
type Disk struct {
	Center V.Vec32
	Normal V.Vec32
	Radius float32
}

func (d Disk) Seed(rnd *rand.Rand) (V.Vec32, V.Vec32) {
	n := V.Normalize(d.Normal)
	if V.VecEquals(n, V.Vec32{}) {
		n = V.Vec32{0, -1, 0}
	}
	u, w := V.Basis(n)
	q := V.DiskRand(rnd, d.Radius)
	root := V.Add(d.Center, V.Add(V.Scale(u, q[0]), V.Scale(w, q[1])))
	return root, n
}
