package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"scenegl/scene"
)

const (
	phongMaxNumLights  = 8
	phongMaxNumShadows = 2
)

// ── Minimum lighting program ──────────────────────────────────────────────────

const minimumLightingVertexShader = `
#version 410 core

layout(location = 0) in vec3 position;
layout(location = 1) in vec3 normal;

uniform mat4 mvp;
uniform mat3 normalMatrix;

out vec3 worldNormal;

void main() {
	gl_Position = mvp * vec4(position, 1.0);
	worldNormal = normalize(normalMatrix * normal);
}
` + "\x00"

const minimumLightingFragmentShader = `
#version 410 core

const int maxNumLights = 2;

uniform int numLights;
uniform vec3 lightDirections[maxNumLights];
uniform vec3 lightIntensities[maxNumLights];

uniform vec3 diffuseColor;
uniform float alpha;

in vec3 worldNormal;
out vec4 outColor;

void main() {
	vec3 n = normalize(worldNormal);
	if (!gl_FrontFacing) {
		n = -n;
	}
	vec3 c = 0.1 * diffuseColor;
	for (int i = 0; i < numLights; ++i) {
		float ndotl = max(dot(n, -lightDirections[i]), 0.0);
		c += lightIntensities[i] * ndotl * diffuseColor;
	}
	outColor = vec4(c, alpha);
}
` + "\x00"

// MinimumLightingProgram shades with directional diffuse light only. It
// serves the MINIMUM lighting mode and the simplified rendering groups.
type MinimumLightingProgram struct {
	prog uint32

	mvpLoc          int32
	normalMatrixLoc int32
	numLightsLoc    int32
	lightDirLocs    [2]int32
	lightIntLocs    [2]int32
	diffuseLoc      int32
	alphaLoc        int32
}

func NewMinimumLightingProgram() *MinimumLightingProgram {
	return &MinimumLightingProgram{}
}

func (p *MinimumLightingProgram) Initialize() error {
	prog, err := newProgram(minimumLightingVertexShader, minimumLightingFragmentShader)
	if err != nil {
		return fmt.Errorf("minimum lighting program: %w", err)
	}
	p.prog = prog
	p.mvpLoc = uniform(prog, "mvp")
	p.normalMatrixLoc = uniform(prog, "normalMatrix")
	p.numLightsLoc = uniform(prog, "numLights")
	for i := 0; i < 2; i++ {
		p.lightDirLocs[i] = uniform(prog, fmt.Sprintf("lightDirections[%d]", i))
		p.lightIntLocs[i] = uniform(prog, fmt.Sprintf("lightIntensities[%d]", i))
	}
	p.diffuseLoc = uniform(prog, "diffuseColor")
	p.alphaLoc = uniform(prog, "alpha")
	return nil
}

func (p *MinimumLightingProgram) Activate() {
	gl.UseProgram(p.prog)
}

func (p *MinimumLightingProgram) Deactivate() {}

func (p *MinimumLightingProgram) InitializeFrame() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (p *MinimumLightingProgram) SetTransform(pv, model mgl32.Mat4, local *mgl32.Mat4) {
	m := modelWithLocal(model, local)
	mvp := pv.Mul4(m)
	normal := m.Mat3().Inv().Transpose()
	gl.UniformMatrix4fv(p.mvpLoc, 1, false, &mvp[0])
	gl.UniformMatrix3fv(p.normalMatrixLoc, 1, false, &normal[0])
}

func (p *MinimumLightingProgram) SetMaterial(m *scene.Material) {
	gl.Uniform3f(p.diffuseLoc, m.DiffuseColor.X(), m.DiffuseColor.Y(), m.DiffuseColor.Z())
	gl.Uniform1f(p.alphaLoc, 1-m.Transparency)
}

func (p *MinimumLightingProgram) MaxNumLights() int { return 2 }

func (p *MinimumLightingProgram) SetLight(index int, light *scene.Light, position mgl32.Mat4, shadowCasting bool) bool {
	if light.Type != scene.DirectionalLight {
		return false
	}
	dir := position.Mat3().Mul3x1(light.Direction).Normalize()
	intensity := light.Color.Mul(light.Intensity)
	gl.Uniform3f(p.lightDirLocs[index], dir.X(), dir.Y(), dir.Z())
	gl.Uniform3f(p.lightIntLocs[index], intensity.X(), intensity.Y(), intensity.Z())
	return true
}

func (p *MinimumLightingProgram) SetNumLights(n int) {
	gl.Uniform1i(p.numLightsLoc, int32(n))
}

func (p *MinimumLightingProgram) SetFog(fog *scene.Fog) {}

func (p *MinimumLightingProgram) SetCameraPosition(pos mgl32.Vec3) {}

func (p *MinimumLightingProgram) Release() {
	if p.prog != 0 {
		gl.DeleteProgram(p.prog)
		p.prog = 0
	}
}

// ── Phong shadow lighting program ─────────────────────────────────────────────

const phongShadowVertexShader = `
#version 410 core

layout(location = 0) in vec3 position;
layout(location = 1) in vec3 normal;
layout(location = 2) in vec2 texCoord;
layout(location = 3) in vec3 color;

const int maxNumShadows = 2;

uniform mat4 mvp;
uniform mat4 model;
uniform mat3 normalMatrix;
uniform int numShadows;
uniform mat4 shadowMatrices[maxNumShadows];

out vec3 worldPosition;
out vec3 worldNormal;
out vec2 fragTexCoord;
out vec3 vertexColor;
out vec4 shadowCoords[maxNumShadows];

void main() {
	vec4 wp = model * vec4(position, 1.0);
	worldPosition = wp.xyz;
	worldNormal = normalize(normalMatrix * normal);
	fragTexCoord = texCoord;
	vertexColor = color;
	for (int i = 0; i < numShadows; ++i) {
		shadowCoords[i] = shadowMatrices[i] * wp;
	}
	gl_Position = mvp * vec4(position, 1.0);
}
` + "\x00"

const phongShadowFragmentShader = `
#version 410 core

const int maxNumLights = 8;
const int maxNumShadows = 2;

struct LightInfo {
	vec4 position;   // w == 0 marks a directional light
	vec3 intensity;
	vec3 ambientIntensity;
	float constantAttenuation;
	float linearAttenuation;
	float quadraticAttenuation;
	vec3 direction;
	float cutoffAngle;
	float cutoffExponent;
};

uniform LightInfo lights[maxNumLights];
uniform int numLights;

uniform int numShadows;
uniform int shadowLightIndices[maxNumShadows];
uniform sampler2DShadow shadowMaps[maxNumShadows];

uniform vec3 cameraPosition;

uniform vec3 diffuseColor;
uniform vec3 ambientColor;
uniform vec3 specularColor;
uniform vec3 emissionColor;
uniform float shininess;
uniform float alpha;

uniform bool textureEnabled;
uniform sampler2D colorTexture;
uniform bool colorPerVertex;

uniform bool fogEnabled;
uniform float maxFogDist;
uniform vec3 fogColor;

in vec3 worldPosition;
in vec3 worldNormal;
in vec2 fragTexCoord;
in vec3 vertexColor;
in vec4 shadowCoords[maxNumShadows];

out vec4 outColor;

void main() {
	vec3 n = normalize(worldNormal);
	if (!gl_FrontFacing) {
		n = -n;
	}
	vec3 v = normalize(cameraPosition - worldPosition);

	vec3 dcolor = colorPerVertex ? vertexColor : diffuseColor;
	if (textureEnabled) {
		dcolor *= texture(colorTexture, fragTexCoord).rgb;
	}

	vec3 c = emissionColor;
	for (int i = 0; i < numLights; ++i) {
		LightInfo light = lights[i];

		vec3 l;
		float attenuation = 1.0;
		float spot = 1.0;
		if (light.position.w == 0.0) {
			l = -normalize(light.direction);
		} else {
			vec3 toLight = light.position.xyz - worldPosition;
			float dist = length(toLight);
			l = toLight / dist;
			attenuation = 1.0 / (light.constantAttenuation
				+ light.linearAttenuation * dist
				+ light.quadraticAttenuation * dist * dist);
			if (light.cutoffAngle > 0.0) {
				float cosAngle = dot(-l, normalize(light.direction));
				if (cosAngle < cos(light.cutoffAngle)) {
					spot = 0.0;
				} else {
					spot = pow(max(cosAngle, 0.0), light.cutoffExponent);
				}
			}
		}

		float shadowFactor = 1.0;
		for (int j = 0; j < numShadows; ++j) {
			if (shadowLightIndices[j] == i) {
				shadowFactor = textureProj(shadowMaps[j], shadowCoords[j]);
			}
		}

		c += light.ambientIntensity * ambientColor;
		float ndotl = max(dot(n, l), 0.0);
		if (ndotl > 0.0) {
			vec3 h = normalize(l + v);
			float spec = pow(max(dot(n, h), 0.0), shininess);
			c += shadowFactor * spot * attenuation * light.intensity
				* (ndotl * dcolor + spec * specularColor);
		}
	}

	if (fogEnabled) {
		float dist = length(cameraPosition - worldPosition);
		float f = clamp((maxFogDist - dist) / maxFogDist, 0.0, 1.0);
		c = mix(fogColor, c, f);
	}

	outColor = vec4(c, alpha);
}
` + "\x00"

type phongLightLocations struct {
	position             int32
	intensity            int32
	ambientIntensity     int32
	constantAttenuation  int32
	linearAttenuation    int32
	quadraticAttenuation int32
	direction            int32
	cutoffAngle          int32
	cutoffExponent       int32
}

// PhongShadowLightingProgram is the full shading path: per-fragment Phong
// with up to eight lights, hardware-compared shadow maps for up to two of
// them, color textures, per-vertex colors, and linear fog.
type PhongShadowLightingProgram struct {
	prog uint32

	mvpLoc            int32
	modelLoc          int32
	normalMatrixLoc   int32
	cameraPositionLoc int32

	numLightsLoc int32
	lightLocs    [phongMaxNumLights]phongLightLocations

	numShadowsLoc        int32
	shadowMatrixLocs     [phongMaxNumShadows]int32
	shadowLightIndexLocs [phongMaxNumShadows]int32

	diffuseLoc   int32
	ambientLoc   int32
	specularLoc  int32
	emissionLoc  int32
	shininessLoc int32
	alphaLoc     int32

	textureEnabledLoc int32
	colorPerVertexLoc int32

	fogEnabledLoc int32
	maxFogDistLoc int32
	fogColorLoc   int32

	shadowMaps [phongMaxNumShadows]*ShadowMap
}

func NewPhongShadowLightingProgram() *PhongShadowLightingProgram {
	return &PhongShadowLightingProgram{}
}

func (p *PhongShadowLightingProgram) Initialize() error {
	prog, err := newProgram(phongShadowVertexShader, phongShadowFragmentShader)
	if err != nil {
		return fmt.Errorf("phong shadow program: %w", err)
	}
	p.prog = prog

	p.mvpLoc = uniform(prog, "mvp")
	p.modelLoc = uniform(prog, "model")
	p.normalMatrixLoc = uniform(prog, "normalMatrix")
	p.cameraPositionLoc = uniform(prog, "cameraPosition")

	p.numLightsLoc = uniform(prog, "numLights")
	for i := range p.lightLocs {
		prefix := fmt.Sprintf("lights[%d].", i)
		p.lightLocs[i] = phongLightLocations{
			position:             uniform(prog, prefix+"position"),
			intensity:            uniform(prog, prefix+"intensity"),
			ambientIntensity:     uniform(prog, prefix+"ambientIntensity"),
			constantAttenuation:  uniform(prog, prefix+"constantAttenuation"),
			linearAttenuation:    uniform(prog, prefix+"linearAttenuation"),
			quadraticAttenuation: uniform(prog, prefix+"quadraticAttenuation"),
			direction:            uniform(prog, prefix+"direction"),
			cutoffAngle:          uniform(prog, prefix+"cutoffAngle"),
			cutoffExponent:       uniform(prog, prefix+"cutoffExponent"),
		}
	}

	p.numShadowsLoc = uniform(prog, "numShadows")
	for i := 0; i < phongMaxNumShadows; i++ {
		p.shadowMatrixLocs[i] = uniform(prog, fmt.Sprintf("shadowMatrices[%d]", i))
		p.shadowLightIndexLocs[i] = uniform(prog, fmt.Sprintf("shadowLightIndices[%d]", i))
	}

	p.diffuseLoc = uniform(prog, "diffuseColor")
	p.ambientLoc = uniform(prog, "ambientColor")
	p.specularLoc = uniform(prog, "specularColor")
	p.emissionLoc = uniform(prog, "emissionColor")
	p.shininessLoc = uniform(prog, "shininess")
	p.alphaLoc = uniform(prog, "alpha")

	p.textureEnabledLoc = uniform(prog, "textureEnabled")
	p.colorPerVertexLoc = uniform(prog, "colorPerVertex")

	p.fogEnabledLoc = uniform(prog, "fogEnabled")
	p.maxFogDistLoc = uniform(prog, "maxFogDist")
	p.fogColorLoc = uniform(prog, "fogColor")

	// Texture unit assignment is fixed: unit 0 for the color texture, the
	// following units for shadow maps.
	gl.UseProgram(prog)
	gl.Uniform1i(uniform(prog, "colorTexture"), 0)
	for i := 0; i < phongMaxNumShadows; i++ {
		gl.Uniform1i(uniform(prog, fmt.Sprintf("shadowMaps[%d]", i)), int32(1+i))
	}
	gl.Uniform1i(p.numShadowsLoc, 0)
	gl.UseProgram(0)

	for i := range p.shadowMaps {
		sm, err := NewShadowMap(DefaultShadowMapSize)
		if err != nil {
			return fmt.Errorf("phong shadow program: %w", err)
		}
		p.shadowMaps[i] = sm
	}
	return nil
}

func (p *PhongShadowLightingProgram) Activate() {
	gl.UseProgram(p.prog)
}

func (p *PhongShadowLightingProgram) Deactivate() {}

func (p *PhongShadowLightingProgram) InitializeFrame() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (p *PhongShadowLightingProgram) SetTransform(pv, model mgl32.Mat4, local *mgl32.Mat4) {
	m := modelWithLocal(model, local)
	mvp := pv.Mul4(m)
	normal := m.Mat3().Inv().Transpose()
	gl.UniformMatrix4fv(p.mvpLoc, 1, false, &mvp[0])
	gl.UniformMatrix4fv(p.modelLoc, 1, false, &m[0])
	gl.UniformMatrix3fv(p.normalMatrixLoc, 1, false, &normal[0])
}

func (p *PhongShadowLightingProgram) SetMaterial(m *scene.Material) {
	ambient := m.DiffuseColor.Mul(m.AmbientIntensity)
	gl.Uniform3f(p.diffuseLoc, m.DiffuseColor.X(), m.DiffuseColor.Y(), m.DiffuseColor.Z())
	gl.Uniform3f(p.ambientLoc, ambient.X(), ambient.Y(), ambient.Z())
	gl.Uniform3f(p.specularLoc, m.SpecularColor.X(), m.SpecularColor.Y(), m.SpecularColor.Z())
	gl.Uniform3f(p.emissionLoc, m.EmissiveColor.X(), m.EmissiveColor.Y(), m.EmissiveColor.Z())
	gl.Uniform1f(p.shininessLoc, 127*m.Shininess+1)
	gl.Uniform1f(p.alphaLoc, 1-m.Transparency)
}

func (p *PhongShadowLightingProgram) MaxNumLights() int { return phongMaxNumLights }

func (p *PhongShadowLightingProgram) SetLight(index int, light *scene.Light, position mgl32.Mat4, shadowCasting bool) bool {
	locs := &p.lightLocs[index]

	intensity := light.Color.Mul(light.Intensity)
	ambient := light.Color.Mul(light.AmbientIntensity)
	gl.Uniform3f(locs.intensity, intensity.X(), intensity.Y(), intensity.Z())
	gl.Uniform3f(locs.ambientIntensity, ambient.X(), ambient.Y(), ambient.Z())

	switch light.Type {
	case scene.DirectionalLight:
		dir := position.Mat3().Mul3x1(light.Direction).Normalize()
		gl.Uniform4f(locs.position, 0, 0, 0, 0)
		gl.Uniform3f(locs.direction, dir.X(), dir.Y(), dir.Z())
		gl.Uniform1f(locs.cutoffAngle, 0)

	case scene.PointLight, scene.SpotLight:
		pos := position.Col(3).Vec3()
		gl.Uniform4f(locs.position, pos.X(), pos.Y(), pos.Z(), 1)
		gl.Uniform1f(locs.constantAttenuation, light.Attenuation[0])
		gl.Uniform1f(locs.linearAttenuation, light.Attenuation[1])
		gl.Uniform1f(locs.quadraticAttenuation, light.Attenuation[2])
		if light.Type == scene.SpotLight {
			dir := position.Mat3().Mul3x1(light.Direction).Normalize()
			gl.Uniform3f(locs.direction, dir.X(), dir.Y(), dir.Z())
			gl.Uniform1f(locs.cutoffAngle, light.CutOffAngle)
			gl.Uniform1f(locs.cutoffExponent, light.CutOffExponent)
		} else {
			gl.Uniform1f(locs.cutoffAngle, 0)
		}

	default:
		return false
	}
	return true
}

func (p *PhongShadowLightingProgram) SetNumLights(n int) {
	gl.Uniform1i(p.numLightsLoc, int32(n))
}

func (p *PhongShadowLightingProgram) SetFog(fog *scene.Fog) {
	if fog == nil {
		gl.Uniform1i(p.fogEnabledLoc, 0)
		return
	}
	gl.Uniform1i(p.fogEnabledLoc, 1)
	gl.Uniform1f(p.maxFogDistLoc, fog.VisibilityRange)
	gl.Uniform3f(p.fogColorLoc, fog.Color.X(), fog.Color.Y(), fog.Color.Z())
}

func (p *PhongShadowLightingProgram) SetCameraPosition(pos mgl32.Vec3) {
	gl.Uniform3f(p.cameraPositionLoc, pos.X(), pos.Y(), pos.Z())
}

func (p *PhongShadowLightingProgram) SetTextureEnabled(on bool) {
	var v int32
	if on {
		v = 1
	}
	gl.Uniform1i(p.textureEnabledLoc, v)
}

func (p *PhongShadowLightingProgram) SetVertexColorEnabled(on bool) {
	var v int32
	if on {
		v = 1
	}
	gl.Uniform1i(p.colorPerVertexLoc, v)
}

// MaxNumShadows reports how many lights can cast shadows at once.
func (p *PhongShadowLightingProgram) MaxNumShadows() int { return phongMaxNumShadows }

// ShadowMapFBO returns the depth framebuffer for shadow slot index.
func (p *PhongShadowLightingProgram) ShadowMapFBO(index int) *ShadowMap {
	return p.shadowMaps[index]
}

// SetShadow uploads the shadow matrix and light binding for one shadow slot
// and binds its depth texture. The program must be active.
func (p *PhongShadowLightingProgram) SetShadow(index, lightIndex int, lightPV mgl32.Mat4) {
	mat := shadowBiasMatrix.Mul4(lightPV)
	gl.UniformMatrix4fv(p.shadowMatrixLocs[index], 1, false, &mat[0])
	gl.Uniform1i(p.shadowLightIndexLocs[index], int32(lightIndex))
	gl.ActiveTexture(uint32(gl.TEXTURE1 + index))
	gl.BindTexture(gl.TEXTURE_2D, p.shadowMaps[index].DepthTex)
	gl.ActiveTexture(gl.TEXTURE0)
}

func (p *PhongShadowLightingProgram) SetNumShadows(n int) {
	gl.Uniform1i(p.numShadowsLoc, int32(n))
}

func (p *PhongShadowLightingProgram) Release() {
	if p.prog != 0 {
		gl.DeleteProgram(p.prog)
		p.prog = 0
	}
	for i, sm := range p.shadowMaps {
		if sm != nil {
			sm.Destroy()
			p.shadowMaps[i] = nil
		}
	}
}

// shadowBiasMatrix maps clip space [-1, 1] to texture space [0, 1].
var shadowBiasMatrix = mgl32.Mat4{
	0.5, 0, 0, 0,
	0, 0.5, 0, 0,
	0, 0, 0.5, 0,
	0.5, 0.5, 0.5, 1,
}
