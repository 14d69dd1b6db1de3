package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera produces a projection matrix for the current viewport aspect ratio.
type Camera interface {
	Object
	NearClipDistance() float32
	FarClipDistance() float32
	ProjectionMatrix(aspect float32) mgl32.Mat4
}

// PerspectiveCamera projects with a vertical field of view in radians.
type PerspectiveCamera struct {
	ObjectBase

	FieldOfView float32
	NearClip    float32
	FarClip     float32
}

func NewPerspectiveCamera() *PerspectiveCamera {
	c := &PerspectiveCamera{
		FieldOfView: 0.785398,
		NearClip:    0.04,
		FarClip:     200,
	}
	c.SetName("PerspectiveCamera")
	return c
}

func (c *PerspectiveCamera) NearClipDistance() float32 { return c.NearClip }
func (c *PerspectiveCamera) FarClipDistance() float32 { return c.FarClip }

func (c *PerspectiveCamera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(c.FieldOfView, aspect, c.NearClip, c.FarClip)
}

// OrthographicCamera projects a view volume of the given height; the width
// follows from the aspect ratio.
type OrthographicCamera struct {
	ObjectBase

	Height   float32
	NearClip float32
	FarClip  float32
}

func NewOrthographicCamera() *OrthographicCamera {
	c := &OrthographicCamera{
		Height:   20,
		NearClip: 0.04,
		FarClip:  200,
	}
	c.SetName("OrthographicCamera")
	return c
}

func (c *OrthographicCamera) NearClipDistance() float32 { return c.NearClip }
func (c *OrthographicCamera) FarClipDistance() float32 { return c.FarClip }

func (c *OrthographicCamera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	h := c.Height / 2
	w := h * aspect
	return mgl32.Ortho(-w, w, -h, h, c.NearClip, c.FarClip)
}

// LookAt returns the world transform of a camera placed at eye looking at
// center. The camera looks down its local -Z axis.
func LookAt(eye, center, up mgl32.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(eye, center, up).Inv()
}
