package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestPerspectiveProjection(t *testing.T) {
	c := NewPerspectiveCamera()
	proj := c.ProjectionMatrix(1)

	// A point on the near plane straight ahead maps into clip space.
	p := proj.Mul4x1(mgl32.Vec4{0, 0, -c.NearClip, 1})
	ndc := p.Mul(1 / p.W())
	assert.InDelta(t, -1, ndc.Z(), 1e-4)

	far := proj.Mul4x1(mgl32.Vec4{0, 0, -c.FarClip, 1})
	assert.InDelta(t, 1, far.Z()/far.W(), 1e-3)
}

func TestOrthographicProjection(t *testing.T) {
	c := NewOrthographicCamera()
	c.Height = 10
	proj := c.ProjectionMatrix(2)

	// Aspect 2 makes the half-width twice the half-height.
	edge := proj.Mul4x1(mgl32.Vec4{10, 5, -1, 1})
	assert.InDelta(t, 1, edge.X(), 1e-5)
	assert.InDelta(t, 1, edge.Y(), 1e-5)
}

func TestLookAtPlacesCamera(t *testing.T) {
	eye := mgl32.Vec3{0, 0, 5}
	m := LookAt(eye, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})

	// The translation column is the camera position.
	pos := m.Col(3).Vec3()
	assert.InDelta(t, eye.X(), pos.X(), 1e-5)
	assert.InDelta(t, eye.Y(), pos.Y(), 1e-5)
	assert.InDelta(t, eye.Z(), pos.Z(), 1e-5)

	// The inverse is a view matrix that moves the eye to the origin.
	view := m.Inv()
	origin := view.Mul4x1(mgl32.Vec4{0, 0, 5, 1})
	assert.InDelta(t, 0, origin.X(), 1e-5)
	assert.InDelta(t, 0, origin.Y(), 1e-5)
	assert.InDelta(t, 0, origin.Z(), 1e-5)
}

func TestSceneDefaults(t *testing.T) {
	s := NewScene()
	assert.NotNil(t, s.Root)
	assert.NotNil(t, s.HeadLight)
	assert.Equal(t, DirectionalLight, s.HeadLight.Type)
	assert.True(t, s.HeadLight.On)

	light := NewLight(PointLight)
	s.AddLight(light, mgl32.Translate3D(1, 2, 3))
	assert.Equal(t, 1, s.NumLights())
	l, pos := s.LightInfo(0)
	assert.Same(t, light, l)
	assert.Equal(t, float32(1), pos.Col(3).X())
}
