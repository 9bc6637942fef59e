package gpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.3-core/gl"

	"hairsim.com/hairsim/hair"
	"hairsim.com/hairsim/utils"
)

const floatSize = 4

//Storage allocates shader storage buffers on the current context
type Storage struct{}

//StorageBuffer is a float shader storage buffer bound to a fixed index
type StorageBuffer struct {
	id   uint32
	slot uint32
	n    int
}

func (Storage) NewBuffer(slot uint32, data []float32) (hair.Buffer, error) {
	b := &StorageBuffer{slot: slot, n: len(data)}
	size := b.n * floatSize

	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.id)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, size, nil, gl.DYNAMIC_COPY)
	if b.n > 0 {
		ptr := gl.MapBufferRange(gl.SHADER_STORAGE_BUFFER, 0, size, gl.MAP_WRITE_BIT|gl.MAP_INVALIDATE_BUFFER_BIT)
		err := utils.TransferFloats(ptr, data, b.n)
		if ptr != nil {
			gl.UnmapBuffer(gl.SHADER_STORAGE_BUFFER)
		}
		if err != nil {
			gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, 0)
			gl.DeleteBuffers(1, &b.id)
			return nil, fmt.Errorf("uploading slot %d: %w", slot, err)
		}
	}
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, slot, b.id)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, 0)
	return b, nil
}

func (b *StorageBuffer) Slot() uint32 { return b.slot }
func (b *StorageBuffer) Len() int     { return b.n }

//ID is the GL buffer name, the renderer binds the position buffer as vertex input
func (b *StorageBuffer) ID() uint32 { return b.id }

func (b *StorageBuffer) Clear() {
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.id)
	gl.ClearBufferData(gl.SHADER_STORAGE_BUFFER, gl.R32F, gl.RED, gl.FLOAT, nil)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, 0)
}

//Read copies the buffer back to dst, it stalls until pending dispatches finish
func (b *StorageBuffer) Read(dst []float32) int {
	n := min(len(dst), b.n)
	if n == 0 {
		return 0
	}
	gl.MemoryBarrier(gl.BUFFER_UPDATE_BARRIER_BIT)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.id)
	gl.GetBufferSubData(gl.SHADER_STORAGE_BUFFER, 0, n*floatSize, gl.Ptr(&dst[0]))
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, 0)
	return n
}

func (b *StorageBuffer) Release() {
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}
