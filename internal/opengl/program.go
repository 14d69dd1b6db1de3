package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"scenegl/scene"
)

// Program is one shader program the traversal can draw with. Initialize
// compiles and links; it must run once with the context current before any
// other call. SetTransform receives the combined view-projection matrix, the
// model matrix, and the optional local quantization transform of the vertex
// resource being drawn.
type Program interface {
	Initialize() error
	Activate()
	Deactivate()
	InitializeFrame()
	SetTransform(pv, model mgl32.Mat4, local *mgl32.Mat4)
	SetMaterial(m *scene.Material)
	Release()
}

// LightingProgram adds the light, fog, and camera state that shading
// programs consume.
type LightingProgram interface {
	Program
	MaxNumLights() int
	// SetLight uploads one light slot. position is the light's world
	// transform. Returns false when the light type is not supported.
	SetLight(index int, light *scene.Light, position mgl32.Mat4, shadowCasting bool) bool
	SetNumLights(n int)
	SetFog(fog *scene.Fog)
	SetCameraPosition(pos mgl32.Vec3)
}

// modelWithLocal folds the quantization transform into the model matrix.
func modelWithLocal(model mgl32.Mat4, local *mgl32.Mat4) mgl32.Mat4 {
	if local != nil {
		return model.Mul4(*local)
	}
	return model
}

// ── Compile helpers ───────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}

func uniform(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}

// ── No-lighting program ───────────────────────────────────────────────────────

const nolightingVertexShader = `
#version 410 core

layout(location = 0) in vec3 position;
layout(location = 3) in vec3 color;

uniform mat4 mvp;
uniform vec3 uniformColor;
uniform bool colorPerVertex;
uniform float pointSize;

out vec3 fragColor;

void main() {
	gl_Position = mvp * vec4(position, 1.0);
	gl_PointSize = pointSize;
	fragColor = colorPerVertex ? color : uniformColor;
}
` + "\x00"

const nolightingFragmentShader = `
#version 410 core

in vec3 fragColor;
out vec4 outColor;

void main() {
	outColor = vec4(fragColor, 1.0);
}
` + "\x00"

// NolightingProgram draws with an unshaded flat color, either uniform or per
// vertex. It backs the NO_LIGHTING mode and is the base of the solid color
// program.
type NolightingProgram struct {
	prog uint32

	mvpLoc            int32
	uniformColorLoc   int32
	colorPerVertexLoc int32
	pointSizeLoc      int32
}

func NewNolightingProgram() *NolightingProgram {
	return &NolightingProgram{}
}

func (p *NolightingProgram) Initialize() error {
	prog, err := newProgram(nolightingVertexShader, nolightingFragmentShader)
	if err != nil {
		return fmt.Errorf("nolighting program: %w", err)
	}
	p.prog = prog
	p.mvpLoc = uniform(prog, "mvp")
	p.uniformColorLoc = uniform(prog, "uniformColor")
	p.colorPerVertexLoc = uniform(prog, "colorPerVertex")
	p.pointSizeLoc = uniform(prog, "pointSize")
	return nil
}

func (p *NolightingProgram) Activate() {
	gl.UseProgram(p.prog)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
}

func (p *NolightingProgram) Deactivate() {}

func (p *NolightingProgram) InitializeFrame() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (p *NolightingProgram) SetTransform(pv, model mgl32.Mat4, local *mgl32.Mat4) {
	mvp := pv.Mul4(modelWithLocal(model, local))
	gl.UniformMatrix4fv(p.mvpLoc, 1, false, &mvp[0])
}

func (p *NolightingProgram) SetMaterial(m *scene.Material) {
	p.SetColor(m.DiffuseColor)
}

func (p *NolightingProgram) SetColor(c mgl32.Vec3) {
	gl.Uniform3f(p.uniformColorLoc, c.X(), c.Y(), c.Z())
	p.EnableColorArray(false)
}

func (p *NolightingProgram) EnableColorArray(on bool) {
	var v int32
	if on {
		v = 1
	}
	gl.Uniform1i(p.colorPerVertexLoc, v)
}

func (p *NolightingProgram) SetPointSize(s float32) {
	gl.Uniform1f(p.pointSizeLoc, s)
}

func (p *NolightingProgram) Release() {
	if p.prog != 0 {
		gl.DeleteProgram(p.prog)
		p.prog = 0
	}
}

// ── Solid color program ───────────────────────────────────────────────────────

// SolidColorProgram draws plots, overlays, outlines, and pick passes. The
// color-changeable flag lets an outline pass pin its color against the
// material colors of the nodes below it; SetColor ignores the flag so pick
// colors always land.
type SolidColorProgram struct {
	NolightingProgram
	colorChangeable bool
}

func NewSolidColorProgram() *SolidColorProgram {
	return &SolidColorProgram{colorChangeable: true}
}

func (p *SolidColorProgram) SetColorChangeable(on bool) {
	p.colorChangeable = on
}

func (p *SolidColorProgram) IsColorChangeable() bool {
	return p.colorChangeable
}

func (p *SolidColorProgram) SetMaterial(m *scene.Material) {
	if p.colorChangeable {
		p.SetColor(m.DiffuseColor)
	}
}

// ── Shadow map generation program ─────────────────────────────────────────────

const shadowMapVertexShader = `
#version 410 core

layout(location = 0) in vec3 position;

uniform mat4 mvp;

void main() {
	gl_Position = mvp * vec4(position, 1.0);
}
` + "\x00"

const shadowMapFragmentShader = `
#version 410 core

void main() {
}
` + "\x00"

// ShadowMapProgram renders depth only, into a shadow map framebuffer.
type ShadowMapProgram struct {
	prog   uint32
	mvpLoc int32
}

func NewShadowMapProgram() *ShadowMapProgram {
	return &ShadowMapProgram{}
}

func (p *ShadowMapProgram) Initialize() error {
	prog, err := newProgram(shadowMapVertexShader, shadowMapFragmentShader)
	if err != nil {
		return fmt.Errorf("shadow map program: %w", err)
	}
	p.prog = prog
	p.mvpLoc = uniform(prog, "mvp")
	return nil
}

func (p *ShadowMapProgram) Activate() {
	gl.UseProgram(p.prog)
}

func (p *ShadowMapProgram) Deactivate() {}

func (p *ShadowMapProgram) InitializeFrame() {
	gl.Clear(gl.DEPTH_BUFFER_BIT)
}

func (p *ShadowMapProgram) SetTransform(pv, model mgl32.Mat4, local *mgl32.Mat4) {
	mvp := pv.Mul4(modelWithLocal(model, local))
	gl.UniformMatrix4fv(p.mvpLoc, 1, false, &mvp[0])
}

func (p *ShadowMapProgram) SetMaterial(m *scene.Material) {}

func (p *ShadowMapProgram) Release() {
	if p.prog != 0 {
		gl.DeleteProgram(p.prog)
		p.prog = 0
	}
}
