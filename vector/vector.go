package vector

import (
	"fmt"
	"math"
	"math/rand"
)

//Vec32 is the packed three component float used for particle positions and velocities.
//Three tightly packed float32 values match the layout of the device position buffer.
type Vec32 [3]float32

//Free functions are immutable, methods mutate the receiver and return it for chaining

func Add(v Vec32, b Vec32) Vec32 {
	return Vec32{v[0] + b[0], v[1] + b[1], v[2] + b[2]}
}

func Sub(v Vec32, b Vec32) Vec32 {
	return Vec32{v[0] - b[0], v[1] - b[1], v[2] - b[2]}
}

//Scale - Scales vector by scalar a
func Scale(v Vec32, a float32) Vec32 {
	return Vec32{v[0] * a, v[1] * a, v[2] * a}
}

func Dot(a Vec32, b Vec32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

//Cross Product
func Cross(a Vec32, b Vec32) Vec32 {
	return Vec32{a[1]*b[2] - b[1]*a[2],
		a[2]*b[0] - b[2]*a[0],
		a[0]*b[1] - b[0]*a[1]}
}

func Length(a Vec32) float32 {
	return float32(math.Sqrt(float64(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])))
}

//Normalize returns the unit vector of a, the zero vector stays zero
func Normalize(a Vec32) Vec32 {
	l := Length(a)
	if l == 0 {
		return Vec32{}
	}
	return Vec32{a[0] / l, a[1] / l, a[2] / l}
}

//Add - Mutate
func (v *Vec32) Add(b Vec32) *Vec32 {
	v[0] += b[0]
	v[1] += b[1]
	v[2] += b[2]
	return v
}

func (v *Vec32) Sub(b Vec32) *Vec32 {
	v[0] -= b[0]
	v[1] -= b[1]
	v[2] -= b[2]
	return v
}

func (v *Vec32) Scale(a float32) *Vec32 {
	v[0] *= a
	v[1] *= a
	v[2] *= a
	return v
}

func (v *Vec32) Length() float32 {
	return Length(*v)
}

func VecEquals(v Vec32, a Vec32) bool {
	return v[0] == a[0] && v[1] == a[1] && v[2] == a[2]
}

//Clamp confines a to [lo, hi]
func Clamp(a float32, lo float32, hi float32) float32 {
	if a < lo {
		return lo
	}
	if a > hi {
		return hi
	}
	return a
}

//ClampInt confines a to [lo, hi]
func ClampInt(a int, lo int, hi int) int {
	if a < lo {
		return lo
	}
	if a > hi {
		return hi
	}
	return a
}

//SphericalRand returns a uniformly distributed point on a sphere of the given radius
func SphericalRand(rnd *rand.Rand, radius float32) Vec32 {
	z := rnd.Float64()*2 - 1
	theta := rnd.Float64() * 2 * math.Pi
	r := math.Sqrt(1 - z*z)
	return Vec32{
		float32(r*math.Cos(theta)) * radius,
		float32(r*math.Sin(theta)) * radius,
		float32(z) * radius,
	}
}

//DiskRand returns a uniformly distributed point on the z = 0 disk of the given radius
func DiskRand(rnd *rand.Rand, radius float32) Vec32 {
	r := math.Sqrt(rnd.Float64()) * float64(radius)
	theta := rnd.Float64() * 2 * math.Pi
	return Vec32{float32(r * math.Cos(theta)), float32(r * math.Sin(theta)), 0}
}

//Basis returns two unit vectors orthogonal to n and each other
func Basis(n Vec32) (Vec32, Vec32) {
	n = Normalize(n)
	ref := Vec32{0, 1, 0}
	if math.Abs(float64(n[1])) > 0.9 {
		ref = Vec32{1, 0, 0}
	}
	u := Normalize(Cross(ref, n))
	return u, Cross(n, u)
}

func (a Vec32) String() string {
	return fmt.Sprintf("[ %f, %f, %f]", a[0], a[1], a[2])
}
