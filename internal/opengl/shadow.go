package opengl

import (
	"fmt"
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"scenegl/scene"
)

// DefaultShadowMapSize is the square resolution of each shadow depth map.
const DefaultShadowMapSize = 2048

// ShadowMap is a depth-only framebuffer one shadow-casting light renders
// into. The depth texture uses hardware comparison so the shading pass can
// sample it with textureProj and get a lit/shadowed factor directly.
type ShadowMap struct {
	FBO      uint32
	DepthTex uint32
	Size     int32
}

func NewShadowMap(size int) (*ShadowMap, error) {
	sm := &ShadowMap{Size: int32(size)}

	gl.GenTextures(1, &sm.DepthTex)
	gl.BindTexture(gl.TEXTURE_2D, sm.DepthTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F,
		int32(size), int32(size), 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	// Samples outside the map compare against depth 1.0 and come out lit.
	border := [4]float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)

	gl.GenFramebuffers(1, &sm.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, sm.DepthTex, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteTextures(1, &sm.DepthTex)
		gl.DeleteFramebuffers(1, &sm.FBO)
		return nil, fmt.Errorf("shadow FBO incomplete: status=0x%X", status)
	}
	return sm, nil
}

// Bind makes the shadow map the draw target.
func (sm *ShadowMap) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.FBO)
}

func (sm *ShadowMap) Destroy() {
	if sm.FBO != 0 {
		gl.DeleteFramebuffers(1, &sm.FBO)
		sm.FBO = 0
	}
	if sm.DepthTex != 0 {
		gl.DeleteTextures(1, &sm.DepthTex)
		sm.DepthTex = 0
	}
}

// ShadowMapViewProjection builds the view-projection matrix a light renders
// its shadow map with. Directional lights get an orthographic volume of the
// given half-extent, spot lights a perspective frustum matching their cone.
// Point lights cannot cast shadows here; the second result is false.
func ShadowMapViewProjection(light *scene.Light, position mgl32.Mat4, orthoHalfExtent float32) (mgl32.Mat4, bool) {
	view := position.Inv()
	switch light.Type {
	case scene.DirectionalLight:
		e := orthoHalfExtent
		proj := mgl32.Ortho(-e, e, -e, e, 0.05, 200)
		return proj.Mul4(view), true
	case scene.SpotLight:
		fovy := 2 * light.CutOffAngle
		if fovy <= 0 || fovy >= math.Pi {
			fovy = math.Pi / 2
		}
		proj := mgl32.Perspective(fovy, 1, 0.05, 200)
		return proj.Mul4(view), true
	default:
		return mgl32.Ident4(), false
	}
}
