package geometry

import (
	"github.com/go-gl/mathgl/mgl32"

	Vec "hairsim.com/hairsim/vector"
)

//Shape selects the unit primitive a collision proxy transforms.
//Values are shared with the compute kernel's collider shape array.
type Shape uint32

const (
	ShapeSphere Shape = 0 //unit sphere, radius 1
	ShapeBox    Shape = 1 //unit cube, half extent 1
)

func (s Shape) String() string {
	switch s {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	}
	return "unknown"
}

//Primitive is a transformed unit sphere or box. It serves as a rigid collision
//proxy for the hair and as a drawable scene object.
type Primitive struct {
	Entity
	shape Shape
	Color mgl32.Vec3
}

func NewSphere(radius float32, center mgl32.Vec3) *Primitive {
	p := &Primitive{Entity: NewEntity(), shape: ShapeSphere, Color: mgl32.Vec3{1, 1, 1}}
	p.Scale(mgl32.Vec3{radius, radius, radius})
	p.Translate(center)
	return p
}

func NewBox(halfExtents mgl32.Vec3, center mgl32.Vec3) *Primitive {
	p := &Primitive{Entity: NewEntity(), shape: ShapeBox, Color: mgl32.Vec3{1, 1, 1}}
	p.Scale(halfExtents)
	p.Translate(center)
	return p
}

func (p *Primitive) Shape() Shape {
	return p.shape
}

//Radius of a sphere proxy in world units, the largest scale axis
func (p *Primitive) Radius() float32 {
	s := p.ScaleVector()
	return max(s.X(), s.Y(), s.Z())
}

//UnitMesh returns the untransformed mesh for a shape
func UnitMesh(shape Shape) *Mesh {
	if shape == ShapeBox {
		return Box(2, 2, 2, Vec.Vec32{})
	}
	return UVSphere(32, 16, 1)
}
