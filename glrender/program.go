package glrender

import (
	_ "embed"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

var (
	//go:embed shaders/scene.vert
	sceneVertexSource string
	//go:embed shaders/scene.frag
	sceneFragmentSource string
)

// Program is a linked GLSL program with a cache of uniform locations.
type Program struct {
	handle   uint32
	uniforms map[string]int32
}

// NewSceneProgram builds the lit material program every model is drawn with.
func NewSceneProgram() (*Program, error) {
	return NewProgram(sceneVertexSource, sceneFragmentSource)
}

func NewProgram(vertexSource, fragmentSource string) (*Program, error) {
	vs, err := compileShader(gl.VERTEX_SHADER, vertexSource)
	if err != nil {
		return nil, errors.Wrap(err, "vertex shader")
	}
	fs, err := compileShader(gl.FRAGMENT_SHADER, fragmentSource)
	if err != nil {
		gl.DeleteShader(vs)
		return nil, errors.Wrap(err, "fragment shader")
	}

	handle := gl.CreateProgram()
	gl.AttachShader(handle, vs)
	gl.AttachShader(handle, fs)
	gl.LinkProgram(handle)
	gl.DetachShader(handle, vs)
	gl.DetachShader(handle, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(handle, logLength, nil, gl.Str(msg))
		gl.DeleteProgram(handle)
		return nil, errors.Errorf("link failed: %s", strings.TrimRight(msg, "\x00"))
	}
	return &Program{
		handle:   handle,
		uniforms: make(map[string]int32),
	}, nil
}

func compileShader(shaderType uint32, source string) (uint32, error) {
	handle := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(handle, 1, csources, nil)
	free()
	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(handle, logLength, nil, gl.Str(msg))
		gl.DeleteShader(handle)
		return 0, errors.Errorf("compile failed: %s", strings.TrimRight(msg, "\x00"))
	}
	return handle, nil
}

func (p *Program) Use() {
	gl.UseProgram(p.handle)
}

func (p *Program) location(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.handle, gl.Str(name+"\x00"))
	if loc < 0 {
		logger.Debugf("uniform %q is not active", name)
	}
	p.uniforms[name] = loc
	return loc
}

func (p *Program) SetMat4(name string, m *mgl32.Mat4) {
	gl.UniformMatrix4fv(p.location(name), 1, false, &m[0])
}

// SetMat4Ptr uploads 16 column-major floats starting at ptr.
func (p *Program) SetMat4Ptr(name string, ptr *float32) {
	gl.UniformMatrix4fv(p.location(name), 1, false, ptr)
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	gl.Uniform3f(p.location(name), v[0], v[1], v[2])
}

func (p *Program) SetFloat(name string, f float32) {
	gl.Uniform1f(p.location(name), f)
}

func (p *Program) Delete() {
	gl.DeleteProgram(p.handle)
}
