package app

//OpenGL draw calls for the strands and the collision proxies
import (
	"fmt"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"hairsim.com/hairsim/config"
	"hairsim.com/hairsim/geometry"
	"hairsim.com/hairsim/gpu"
	"hairsim.com/hairsim/hair"
)

//Vertex attribute locations shared by the strand and mesh shaders
const (
	attribPosition = 0
	attribNormal   = 1
)

type programLocs struct {
	model int32
	view  int32
	proj  int32
	color int32
	light int32
}

func locate(prog uint32) programLocs {
	return programLocs{
		model: gl.GetUniformLocation(prog, gl.Str("model\x00")),
		view:  gl.GetUniformLocation(prog, gl.Str("view\x00")),
		proj:  gl.GetUniformLocation(prog, gl.Str("projection\x00")),
		color: gl.GetUniformLocation(prog, gl.Str("color\x00")),
		light: gl.GetUniformLocation(prog, gl.Str("lightPosition\x00")),
	}
}

type meshVAO struct {
	vao   uint32
	vbo   uint32
	count int32
}

//Renderer draws the hair as line strips straight out of the position buffer
//and the proxies as shaded unit meshes
type Renderer struct {
	strandProg uint32
	meshProg   uint32
	strandLoc  programLocs
	meshLoc    programLocs

	hairVAO   uint32
	hairColor mgl32.Vec3
	meshes    map[geometry.Shape]*meshVAO
	light     mgl32.Vec3
}

//NewRenderer builds the draw programs and binds positions, which must be a GL
//storage buffer, as the strand vertex input
func NewRenderer(cfg *config.Config, positions hair.Buffer) (*Renderer, error) {
	sb, ok := positions.(*gpu.StorageBuffer)
	if !ok {
		return nil, fmt.Errorf("position buffer %T is not a GL storage buffer", positions)
	}

	strandProg, err := gpu.NewRenderProgram(cfg.Derived.StrandVertexPath, cfg.Derived.StrandFragmentPath)
	if err != nil {
		return nil, err
	}
	meshProg, err := gpu.NewRenderProgram(cfg.Derived.MeshVertexPath, cfg.Derived.MeshFragmentPath)
	if err != nil {
		gl.DeleteProgram(strandProg)
		return nil, err
	}

	r := &Renderer{
		strandProg: strandProg,
		meshProg:   meshProg,
		strandLoc:  locate(strandProg),
		meshLoc:    locate(meshProg),
		hairColor:  mgl32.Vec3(cfg.Hair.Color),
		meshes:     make(map[geometry.Shape]*meshVAO),
		light:      mgl32.Vec3{4, 6, 8},
	}

	//The compute kernel writes the same buffer the strands are drawn from
	gl.GenVertexArrays(1, &r.hairVAO)
	gl.BindVertexArray(r.hairVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, sb.ID())
	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointer(attribPosition, 3, gl.FLOAT, false, 0, nil)

	for _, shape := range []geometry.Shape{geometry.ShapeSphere, geometry.ShapeBox} {
		r.meshes[shape] = makeMeshVAO(geometry.UnitMesh(shape))
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return r, nil
}

//makeMeshVAO uploads interleaved position and normal data
func makeMeshVAO(m *geometry.Mesh) *meshVAO {
	data := m.Interleaved()
	mv := &meshVAO{count: int32(len(m.Vertexes))}
	gl.GenVertexArrays(1, &mv.vao)
	gl.GenBuffers(1, &mv.vbo)
	gl.BindVertexArray(mv.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, mv.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	stride := int32(6 * 4)
	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointerWithOffset(attribPosition, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(attribNormal)
	gl.VertexAttribPointerWithOffset(attribNormal, 3, gl.FLOAT, false, stride, 3*4)
	return mv
}

//Begin clears the frame and loads the camera matrices into both programs
func (r *Renderer) Begin(view mgl32.Mat4, proj mgl32.Mat4) {
	gl.ClearColor(0.9, 0.9, 0.9, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	for _, p := range []struct {
		prog uint32
		loc  programLocs
	}{{r.strandProg, r.strandLoc}, {r.meshProg, r.meshLoc}} {
		gl.UseProgram(p.prog)
		gl.UniformMatrix4fv(p.loc.view, 1, false, &view[0])
		gl.UniformMatrix4fv(p.loc.proj, 1, false, &proj[0])
		gl.Uniform3f(p.loc.light, r.light[0], r.light[1], r.light[2])
	}
}

//DrawHair draws one line strip per live strand. Strand positions are
//simulated in world space.
func (r *Renderer) DrawHair(h *hair.Hair) {
	firsts, counts := h.DrawRanges()
	if len(firsts) == 0 {
		return
	}
	//kernel writes to the position buffer must land before vertex fetch
	gl.MemoryBarrier(gl.VERTEX_ATTRIB_ARRAY_BARRIER_BIT)

	model := mgl32.Ident4()
	gl.UseProgram(r.strandProg)
	gl.UniformMatrix4fv(r.strandLoc.model, 1, false, &model[0])
	gl.Uniform3f(r.strandLoc.color, r.hairColor[0], r.hairColor[1], r.hairColor[2])
	gl.LineWidth(max(1, h.StrandWidth()))

	gl.BindVertexArray(r.hairVAO)
	gl.MultiDrawArrays(gl.LINE_STRIP, &firsts[0], &counts[0], int32(len(firsts)))
	gl.BindVertexArray(0)
}

//DrawPrimitive draws a proxy, wire selects a wireframe overlay
func (r *Renderer) DrawPrimitive(p *geometry.Primitive, wire bool) {
	mv, ok := r.meshes[p.Shape()]
	if !ok {
		return
	}
	model := p.Transform()
	gl.UseProgram(r.meshProg)
	gl.UniformMatrix4fv(r.meshLoc.model, 1, false, &model[0])
	gl.Uniform3f(r.meshLoc.color, p.Color[0], p.Color[1], p.Color[2])

	if wire {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}
	gl.BindVertexArray(mv.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, mv.count)
	gl.BindVertexArray(0)
	if wire {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

//SetLight moves the light the mesh shader shades with
func (r *Renderer) SetLight(pos mgl32.Vec3) { r.light = pos }

func (r *Renderer) Delete() {
	gl.DeleteVertexArrays(1, &r.hairVAO)
	for _, mv := range r.meshes {
		gl.DeleteVertexArrays(1, &mv.vao)
		gl.DeleteBuffers(1, &mv.vbo)
	}
	gl.DeleteProgram(r.strandProg)
	gl.DeleteProgram(r.meshProg)
}
