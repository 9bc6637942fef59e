//Package gpu backs the simulation with OpenGL 4.3 compute shaders and shader
//storage buffers. Every call must come from the thread that owns the context.
package gpu

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/gl/v4.3-core/gl"
)

var (
	ErrCompile = errors.New("gpu: shader failed to compile")
	ErrLink    = errors.New("gpu: program failed to link")
)

//LoadSource reads a GLSL file and null terminates it for the driver
func LoadSource(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading shader %s: %w", path, err)
	}
	return string(src) + "\x00", nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%w: %s", ErrCompile, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

//LinkProgram links compiled shaders into a program, the shader objects are
//released either way
func linkProgram(shaders ...uint32) (uint32, error) {
	prog := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(prog, s)
	}
	gl.LinkProgram(prog)
	for _, s := range shaders {
		gl.DetachShader(prog, s)
		gl.DeleteShader(s)
	}

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(prog, logLength, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("%w: %s", ErrLink, strings.TrimRight(log, "\x00"))
	}
	return prog, nil
}

//NewRenderProgram compiles and links a vertex and fragment shader pair
func NewRenderProgram(vertexPath string, fragmentPath string) (uint32, error) {
	vs, err := LoadSource(vertexPath)
	if err != nil {
		return 0, err
	}
	fs, err := LoadSource(fragmentPath)
	if err != nil {
		return 0, err
	}
	vsh, err := compileShader(vs, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", vertexPath, err)
	}
	fsh, err := compileShader(fs, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vsh)
		return 0, fmt.Errorf("%s: %w", fragmentPath, err)
	}
	return linkProgram(vsh, fsh)
}
