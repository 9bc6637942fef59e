//Package memgpu is a host memory stand-in for the compute device. It records
//every parameter write, dispatch and barrier in issue order and keeps buffers
//as plain float slices, which lets the simulation run and be inspected without
//a GL context.
package memgpu

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"hairsim.com/hairsim/hair"
)

type Op string

const (
	OpSetUint  Op = "set_uint"
	OpSetFloat Op = "set_float"
	OpSetVec3  Op = "set_vec3"
	OpSetVec4  Op = "set_vec4"
	OpSetMat4  Op = "set_mat4"
	OpDispatch Op = "dispatch"
	OpBarrier  Op = "barrier"
	OpAlloc    Op = "alloc"
	OpClear    Op = "clear"
	OpRelease  Op = "release"
)

//Call is one recorded interaction with the device
type Call struct {
	Op     Op
	Name   string
	Value  any
	Groups [3]uint32
	Slot   uint32
}

func (c Call) String() string {
	switch c.Op {
	case OpDispatch:
		return fmt.Sprintf("dispatch(%d,%d,%d)", c.Groups[0], c.Groups[1], c.Groups[2])
	case OpBarrier:
		return "barrier"
	case OpAlloc, OpClear, OpRelease:
		return fmt.Sprintf("%s(slot=%d)", c.Op, c.Slot)
	}
	return fmt.Sprintf("set(%s=%v)", c.Name, c.Value)
}

//Stats count device work independent of call recording
type Stats struct {
	Writes     int
	Dispatches int
	Barriers   int
	Clears     int
	Reads      int
}

//KernelFunc stands in for the compute kernel, run on every dispatch
type KernelFunc func(d *Device, phase uint32, groups [3]uint32)

//Device implements hair.Device in host memory
type Device struct {
	local   [3]uint32
	record  bool
	calls   []Call
	params  map[string]any
	buffers map[uint32]*Buffer
	stats   Stats
	kernel  KernelFunc
}

var _ hair.Device = (*Device)(nil)

//New returns a recording device reporting local as the kernel's work group size
func New(local [3]uint32) *Device {
	for i := range local {
		if local[i] == 0 {
			local[i] = 1
		}
	}
	return &Device{
		local:   local,
		record:  true,
		params:  make(map[string]any),
		buffers: make(map[uint32]*Buffer),
	}
}

//Record switches call recording, long headless runs turn it off
func (d *Device) Record(on bool) { d.record = on }

//OnDispatch installs a kernel stand-in
func (d *Device) OnDispatch(k KernelFunc) { d.kernel = k }

func (d *Device) add(c Call) {
	if d.record {
		d.calls = append(d.calls, c)
	}
}

func (d *Device) set(op Op, name string, v any) {
	d.params[name] = v
	d.stats.Writes++
	d.add(Call{Op: op, Name: name, Value: v})
}

func (d *Device) SetUint(name string, v uint32)     { d.set(OpSetUint, name, v) }
func (d *Device) SetFloat(name string, v float32)   { d.set(OpSetFloat, name, v) }
func (d *Device) SetVec3(name string, v mgl32.Vec3) { d.set(OpSetVec3, name, v) }
func (d *Device) SetVec4(name string, v mgl32.Vec4) { d.set(OpSetVec4, name, v) }
func (d *Device) SetMat4(name string, v mgl32.Mat4) { d.set(OpSetMat4, name, v) }
func (d *Device) LocalGroupSize() [3]uint32         { return d.local }

func (d *Device) Dispatch(x, y, z uint32) {
	g := [3]uint32{x, y, z}
	d.stats.Dispatches++
	d.add(Call{Op: OpDispatch, Groups: g})
	if d.kernel != nil {
		phase, _ := d.params[hair.ParamState].(uint32)
		d.kernel(d, phase, g)
	}
}

func (d *Device) Barrier() {
	d.stats.Barriers++
	d.add(Call{Op: OpBarrier})
}

func (d *Device) NewBuffer(slot uint32, data []float32) (hair.Buffer, error) {
	if old, ok := d.buffers[slot]; ok && !old.released {
		return nil, fmt.Errorf("slot %d already bound", slot)
	}
	b := &Buffer{dev: d, slot: slot, data: append([]float32(nil), data...)}
	d.buffers[slot] = b
	d.add(Call{Op: OpAlloc, Slot: slot})
	return b, nil
}

//Calls returns the recorded calls in issue order
func (d *Device) Calls() []Call { return d.calls }

//Reset forgets recorded calls and stats, parameters and buffers stay
func (d *Device) Reset() {
	d.calls = nil
	d.stats = Stats{}
}

func (d *Device) Stats() Stats { return d.stats }

//Param returns the last value written to name
func (d *Device) Param(name string) (any, bool) {
	v, ok := d.params[name]
	return v, ok
}

//Buffer returns the live buffer bound to slot, nil when none is
func (d *Device) Buffer(slot uint32) *Buffer {
	b, ok := d.buffers[slot]
	if !ok || b.released {
		return nil
	}
	return b
}

//Filter returns the recorded calls whose op is one of ops
func (d *Device) Filter(ops ...Op) []Call {
	var out []Call
	for _, c := range d.calls {
		for _, op := range ops {
			if c.Op == op {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

//Writes returns every recorded write to name
func (d *Device) Writes(name string) []Call {
	var out []Call
	for _, c := range d.calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

//Buffer is a host slice standing in for a storage buffer
type Buffer struct {
	dev      *Device
	slot     uint32
	data     []float32
	released bool
}

func (b *Buffer) Slot() uint32 { return b.slot }
func (b *Buffer) Len() int     { return len(b.data) }

func (b *Buffer) Clear() {
	clear(b.data)
	b.dev.stats.Clears++
	b.dev.add(Call{Op: OpClear, Slot: b.slot})
}

func (b *Buffer) Read(dst []float32) int {
	b.dev.stats.Reads++
	return copy(dst, b.data)
}

func (b *Buffer) Release() {
	b.released = true
	b.data = nil
	b.dev.add(Call{Op: OpRelease, Slot: b.slot})
}

//Data exposes the backing slice for kernel stand-ins and tests
func (b *Buffer) Data() []float32 { return b.data }
