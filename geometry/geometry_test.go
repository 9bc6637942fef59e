package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"hairsim.com/hairsim/vector"
)

func TestTriangleNormal(t *testing.T) {
	tri := InitTriangle(vector.Vec32{0, 0, 0}, vector.Vec32{1, 0, 0}, vector.Vec32{0, 1, 0})
	if !vector.VecEquals(tri.Normal(), vector.Vec32{0, 0, 1}) {
		t.Errorf("normal %s", tri.Normal())
	}
}

func TestBoxNormalsPointOutward(t *testing.T) {
	box := Box(2, 2, 2, vector.Vec32{})
	if len(box.Vertexes) != 36 || len(box.Normals) != 12 {
		t.Fatalf("box has %d verts %d normals", len(box.Vertexes), len(box.Normals))
	}
	for i, n := range box.Normals {
		v := box.Vertexes[i*3]
		if vector.Dot(n, v) <= 0 {
			t.Errorf("face %d normal %s points inward", i, n)
		}
	}
}

func TestUVSphereOnRadius(t *testing.T) {
	s := UVSphere(16, 8, 1.5)
	if len(s.Vertexes) == 0 || len(s.Vertexes)%3 != 0 {
		t.Fatalf("bad vertex count %d", len(s.Vertexes))
	}
	for _, v := range s.Vertexes {
		if math.Abs(float64(v.Length()-1.5)) > 1e-4 {
			t.Fatalf("vertex %s off the sphere", v)
		}
	}
	if got := len(s.Interleaved()); got != len(s.Vertexes)*6 {
		t.Errorf("interleaved length %d", got)
	}
}

func TestEntityTransform(t *testing.T) {
	e := NewEntity()
	if !e.Transform().ApproxEqual(mgl32.Ident4()) {
		t.Fatalf("new entity should be identity")
	}

	e.Scale(mgl32.Vec3{2, 2, 2})
	e.Rotate(90, mgl32.Vec3{0, 0, 1})
	e.Translate(mgl32.Vec3{1, 0, 0})

	//T * R * S applied to +X: scale to 2, rotate to +Y, translate by +X
	p := e.Transform().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	if !p.ApproxEqualThreshold(mgl32.Vec4{1, 2, 0, 1}, 1e-5) {
		t.Errorf("transformed point %v", p)
	}

	//Setters replace rather than accumulate
	e.Translate(mgl32.Vec3{1, 0, 0})
	if e.Translation() != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("translation accumulated: %v", e.Translation())
	}
}

func TestPrimitives(t *testing.T) {
	head := NewSphere(1.5, mgl32.Vec3{0, 1, 0})
	if head.Shape() != ShapeSphere || head.Radius() != 1.5 {
		t.Errorf("sphere proxy shape %s radius %f", head.Shape(), head.Radius())
	}
	var _ Transformer = head

	box := NewBox(mgl32.Vec3{1, 0.5, 2}, mgl32.Vec3{})
	if box.Shape() != ShapeBox || box.Shape().String() != "box" {
		t.Errorf("box proxy shape %s", box.Shape())
	}
	if len(UnitMesh(ShapeBox).Vertexes) != 36 {
		t.Errorf("unit box mesh")
	}
}
