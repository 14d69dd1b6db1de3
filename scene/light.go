package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

type LightType int

const (
	DirectionalLight LightType = iota
	PointLight
	SpotLight
)

// Light is a scene light source. Direction is expressed in the light's local
// frame and rotated by the light's world transform when rendered. Attenuation
// holds the constant, linear, and quadratic coefficients for point and spot
// lights.
type Light struct {
	ObjectBase

	Type             LightType
	On               bool
	Color            mgl32.Vec3
	Intensity        float32
	AmbientIntensity float32
	Direction        mgl32.Vec3
	Attenuation      [3]float32
	BeamWidth        float32 // spot inner cone, radians
	CutOffAngle      float32 // spot outer cone, radians
	CutOffExponent   float32
}

func NewLight(t LightType) *Light {
	l := &Light{
		Type:        t,
		On:          true,
		Color:       mgl32.Vec3{1, 1, 1},
		Intensity:   1,
		Direction:   mgl32.Vec3{0, 0, -1},
		Attenuation: [3]float32{1, 0, 0},
		BeamWidth:   1.570796,
		CutOffAngle: 0.785398,
	}
	l.SetName("Light")
	return l
}

// LightInstance is a light together with its resolved world transform,
// enumerated per frame by the scene owner.
type LightInstance struct {
	Light    *Light
	Position mgl32.Mat4
}
