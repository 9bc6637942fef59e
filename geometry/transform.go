package geometry

import "github.com/go-gl/mathgl/mgl32"

//Transformer is the capability the simulation depends on: a world transform.
//Primitives, the head model and the hair itself all provide it.
type Transformer interface {
	Transform() mgl32.Mat4
}

//Entity holds translation, rotation and scale and the composed transform T * R * S.
//Each setter replaces its component, it does not accumulate.
type Entity struct {
	translation mgl32.Vec3
	scale       mgl32.Vec3
	rotation    mgl32.Quat
	transform   mgl32.Mat4
}

func NewEntity() Entity {
	return Entity{
		scale:     mgl32.Vec3{1, 1, 1},
		rotation:  mgl32.QuatIdent(),
		transform: mgl32.Ident4(),
	}
}

//Rotate sets the rotation to angle degrees about axis
func (e *Entity) Rotate(angle float32, axis mgl32.Vec3) {
	e.rotation = mgl32.QuatRotate(mgl32.DegToRad(angle), axis.Normalize())
	e.compose()
}

func (e *Entity) Scale(factor mgl32.Vec3) {
	e.scale = factor
	e.compose()
}

func (e *Entity) Translate(translation mgl32.Vec3) {
	e.translation = translation
	e.compose()
}

func (e *Entity) compose() {
	t := mgl32.Translate3D(e.translation.X(), e.translation.Y(), e.translation.Z())
	s := mgl32.Scale3D(e.scale.X(), e.scale.Y(), e.scale.Z())
	e.transform = t.Mul4(e.rotation.Mat4()).Mul4(s)
}

func (e *Entity) Transform() mgl32.Mat4 {
	return e.transform
}

func (e *Entity) Translation() mgl32.Vec3 { return e.translation }
func (e *Entity) ScaleVector() mgl32.Vec3 { return e.scale }
