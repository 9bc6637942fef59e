package gpu

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

//ComputeProgram is the parameter channel into a compute shader. Uniform
//locations are looked up once and cached; a name the shader does not use is
//logged the first time and its writes are dropped.
type ComputeProgram struct {
	id       uint32
	local    [3]uint32
	uniforms map[string]int32
	log      *slog.Logger
}

func NewComputeProgram(path string, logger *slog.Logger) (*ComputeProgram, error) {
	if logger == nil {
		logger = slog.Default()
	}
	src, err := LoadSource(path)
	if err != nil {
		return nil, err
	}
	sh, err := compileShader(src, gl.COMPUTE_SHADER)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	id, err := linkProgram(sh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var size [3]int32
	gl.GetProgramiv(id, gl.COMPUTE_WORK_GROUP_SIZE, &size[0])
	p := &ComputeProgram{
		id:       id,
		local:    [3]uint32{uint32(size[0]), uint32(size[1]), uint32(size[2])},
		uniforms: make(map[string]int32),
		log:      logger.With("program", path),
	}
	p.log.Info("compute program linked", "localSize", p.local)
	return p, nil
}

func (p *ComputeProgram) location(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	if loc < 0 {
		p.log.Warn("uniform variable doesn't exist or is unused", "name", name)
	}
	p.uniforms[name] = loc
	return loc
}

func (p *ComputeProgram) SetUint(name string, v uint32) {
	if loc := p.location(name); loc >= 0 {
		gl.ProgramUniform1ui(p.id, loc, v)
	}
}

func (p *ComputeProgram) SetFloat(name string, v float32) {
	if loc := p.location(name); loc >= 0 {
		gl.ProgramUniform1f(p.id, loc, v)
	}
}

func (p *ComputeProgram) SetVec3(name string, v mgl32.Vec3) {
	if loc := p.location(name); loc >= 0 {
		gl.ProgramUniform3f(p.id, loc, v[0], v[1], v[2])
	}
}

func (p *ComputeProgram) SetVec4(name string, v mgl32.Vec4) {
	if loc := p.location(name); loc >= 0 {
		gl.ProgramUniform4f(p.id, loc, v[0], v[1], v[2], v[3])
	}
}

func (p *ComputeProgram) SetMat4(name string, v mgl32.Mat4) {
	if loc := p.location(name); loc >= 0 {
		gl.ProgramUniformMatrix4fv(p.id, loc, 1, false, &v[0])
	}
}

func (p *ComputeProgram) Dispatch(x, y, z uint32) {
	gl.UseProgram(p.id)
	gl.DispatchCompute(x, y, z)
}

//Barrier makes storage buffer writes of earlier dispatches visible to later ones
func (p *ComputeProgram) Barrier() {
	gl.MemoryBarrier(gl.SHADER_STORAGE_BARRIER_BIT)
}

func (p *ComputeProgram) LocalGroupSize() [3]uint32 { return p.local }
func (p *ComputeProgram) ID() uint32                { return p.id }

func (p *ComputeProgram) Delete() {
	gl.DeleteProgram(p.id)
}
