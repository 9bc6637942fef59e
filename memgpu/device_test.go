package memgpu

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hairsim.com/hairsim/hair"
)

func TestDeviceRecordsInOrder(t *testing.T) {
	d := New([3]uint32{0, 1, 1})
	assert.Equal(t, [3]uint32{1, 1, 1}, d.LocalGroupSize())

	d.SetUint(hair.ParamState, 2)
	d.SetVec4(hair.ParamWind, mgl32.Vec4{0, 0, 1, 0.5})
	d.Dispatch(4, 1, 1)
	d.Barrier()

	calls := d.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, "set(state=2)", calls[0].String())
	assert.Equal(t, OpSetVec4, calls[1].Op)
	assert.Equal(t, "dispatch(4,1,1)", calls[2].String())
	assert.Equal(t, "barrier", calls[3].String())
	assert.Equal(t, Stats{Writes: 2, Dispatches: 1, Barriers: 1}, d.Stats())

	v, ok := d.Param(hair.ParamWind)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec4{0, 0, 1, 0.5}, v)
	assert.Len(t, d.Writes(hair.ParamState), 1)
	assert.Len(t, d.Filter(OpDispatch, OpBarrier), 2)
}

func TestDeviceRecordingOff(t *testing.T) {
	d := New([3]uint32{64, 1, 1})
	d.Record(false)
	d.SetFloat(hair.ParamDeltaTime, 0.016)
	d.Dispatch(1, 1, 1)
	assert.Empty(t, d.Calls())
	assert.Equal(t, 1, d.Stats().Dispatches)

	v, _ := d.Param(hair.ParamDeltaTime)
	assert.Equal(t, float32(0.016), v)
	d.Reset()
	assert.Equal(t, Stats{}, d.Stats())
}

func TestDeviceKernel(t *testing.T) {
	d := New([3]uint32{64, 1, 1})
	var phases []uint32
	d.OnDispatch(func(_ *Device, phase uint32, groups [3]uint32) {
		phases = append(phases, phase)
		assert.Equal(t, uint32(3), groups[0])
	})
	d.Dispatch(3, 1, 1)
	d.SetUint(hair.ParamState, 1)
	d.Dispatch(3, 1, 1)
	assert.Equal(t, []uint32{0, 1}, phases)
}

func TestDeviceBuffers(t *testing.T) {
	d := New([3]uint32{64, 1, 1})
	src := []float32{1, 2, 3}
	b, err := d.NewBuffer(hair.SlotPositions, src)
	require.NoError(t, err)
	src[0] = 9
	assert.Equal(t, []float32{1, 2, 3}, d.Buffer(hair.SlotPositions).Data(), "upload copies")

	_, err = d.NewBuffer(hair.SlotPositions, nil)
	assert.Error(t, err)

	dst := make([]float32, 2)
	assert.Equal(t, 2, b.Read(dst))
	assert.Equal(t, []float32{1, 2}, dst)
	assert.Equal(t, 1, d.Stats().Reads)

	b.Clear()
	assert.Equal(t, []float32{0, 0, 0}, d.Buffer(hair.SlotPositions).Data())
	assert.Equal(t, 1, d.Stats().Clears)

	b.Release()
	assert.Nil(t, d.Buffer(hair.SlotPositions))
	_, err = d.NewBuffer(hair.SlotPositions, []float32{4})
	assert.NoError(t, err)
}
