package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Material describes Phong surface properties. Transparency > 0 defers the
// shape into the blended transparent pass.
type Material struct {
	ObjectBase

	AmbientIntensity float32
	DiffuseColor     mgl32.Vec3
	EmissiveColor    mgl32.Vec3
	SpecularColor    mgl32.Vec3
	Shininess        float32
	Transparency     float32
}

func NewMaterial() *Material {
	m := &Material{
		AmbientIntensity: 1,
		DiffuseColor:     mgl32.Vec3{0.8, 0.8, 0.8},
		Shininess:        0.2,
	}
	m.SetName("Material")
	return m
}

// TextureTransform is applied to texture coordinates CPU-side before upload:
// coordinates are rotated and scaled about Center, then translated.
type TextureTransform struct {
	Center      mgl32.Vec2
	Rotation    float32 // radians
	Scale       mgl32.Vec2
	Translation mgl32.Vec2
}

func NewTextureTransform() *TextureTransform {
	return &TextureTransform{Scale: mgl32.Vec2{1, 1}}
}

// Apply transforms one texture coordinate: translate, rotate and scale about
// Center, then shift back.
func (t *TextureTransform) Apply(uv mgl32.Vec2) mgl32.Vec2 {
	p := uv.Add(t.Translation).Add(t.Center)
	p = mgl32.Rotate2D(t.Rotation).Mul2x1(p)
	p = mgl32.Vec2{p.X() * t.Scale.X(), p.Y() * t.Scale.Y()}
	return p.Sub(t.Center)
}

// Texture pairs an image with sampling and coordinate-transform parameters.
type Texture struct {
	ObjectBase

	Image     *Image
	RepeatS   bool
	RepeatT   bool
	Transform *TextureTransform
}

func NewTexture() *Texture {
	t := &Texture{RepeatS: true, RepeatT: true}
	t.SetName("Texture")
	return t
}

// Fog is linear depth fog reaching full density at VisibilityRange.
type Fog struct {
	ObjectBase

	Color           mgl32.Vec3
	VisibilityRange float32
}

func NewFog() *Fog {
	f := &Fog{Color: mgl32.Vec3{1, 1, 1}}
	f.SetName("Fog")
	return f
}
