package hair

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

//Channel is the parameter channel into the compute kernel. Writes to names the
//kernel does not expose are logged by the implementation and otherwise ignored,
//so the last successfully written value keeps applying.
type Channel interface {
	SetUint(name string, value uint32)
	SetFloat(name string, value float32)
	SetVec3(name string, value mgl32.Vec3)
	SetVec4(name string, value mgl32.Vec4)
	SetMat4(name string, value mgl32.Mat4)
	Dispatch(x, y, z uint32)
	Barrier()
	LocalGroupSize() [3]uint32
}

//Buffer is a device resident float array bound to a fixed kernel slot
type Buffer interface {
	Slot() uint32
	Len() int
	Clear()
	Read(dst []float32) int
	Release()
}

//Storage allocates device buffers, uploading data and binding the result to slot
type Storage interface {
	NewBuffer(slot uint32, data []float32) (Buffer, error)
}

//Device is everything the simulation needs from the GPU side
type Device interface {
	Channel
	Storage
}

//Kernel buffer bindings, in slot order
const (
	SlotPositions        uint32 = 0
	SlotVelocities       uint32 = 1
	SlotDensities        uint32 = 2
	SlotVolumeVelocities uint32 = 3
)

//Kernel parameter names
const (
	ParamState              = "state"
	ParamGravity            = "force.gravity"
	ParamWind               = "force.wind"
	ParamFriction           = "frictionCoefficient"
	ParamDamping            = "velocityDamping"
	ParamCurlRadius         = "curlRadius"
	ParamStrandCount        = "hairData.strandCount"
	ParamParticlesPerStrand = "hairData.particlesPerStrand"
	ParamSegmentLength      = "hairData.segmentLength"
	ParamParticleMass       = "hairData.particleMass"
	ParamDeltaTime          = "deltaTime"
	ParamRunningTime        = "runningTime"
	ParamModel              = "model"
	ParamModelDelta         = "modelDelta"
	ParamColliderCount      = "colliderCount"
	ParamVolumeMin          = "volume.min"
	ParamVolumeMax          = "volume.max"
	ParamVolumeResolution   = "volume.resolution"
)

//MaxColliders matches the collider array length declared by the kernel
const MaxColliders = 8

func ColliderModelParam(i int) string   { return fmt.Sprintf("colliders[%d].model", i) }
func ColliderInverseParam(i int) string { return fmt.Sprintf("colliders[%d].inverse", i) }
func ColliderShapeParam(i int) string   { return fmt.Sprintf("colliders[%d].shape", i) }

var (
	ErrNoDevice         = errors.New("hair: no device")
	ErrTooManyColliders = errors.New("hair: collider limit reached")
	ErrMissingBarrier   = errors.New("hair: phase has no barrier before the next phase")
	ErrNoPhases         = errors.New("hair: profile has no phases")
)
