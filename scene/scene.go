package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Scene bundles the graph root with the per-frame camera, light, and fog
// parameters the renderer consumes. The scene owner creates and mutates all
// of it; the renderer only reads.
type Scene struct {
	Root *Group

	Camera         Camera
	CameraPosition mgl32.Mat4 // camera world transform

	Lights []*LightInstance
	Fog    *Fog

	// HeadLight follows the camera and fills remaining light slots.
	HeadLight *Light

	Background mgl32.Vec3
}

func NewScene() *Scene {
	head := NewLight(DirectionalLight)
	head.SetName("HeadLight")
	head.Intensity = 0.75
	return &Scene{
		Root:           NewGroup("Root"),
		CameraPosition: mgl32.Ident4(),
		HeadLight:      head,
		Background:     mgl32.Vec3{0.1, 0.1, 0.3},
	}
}

func (s *Scene) AddNode(node Node) {
	s.Root.AddChild(node)
}

func (s *Scene) AddLight(light *Light, position mgl32.Mat4) {
	s.Lights = append(s.Lights, &LightInstance{Light: light, Position: position})
}

func (s *Scene) NumLights() int { return len(s.Lights) }

func (s *Scene) LightInfo(i int) (*Light, mgl32.Mat4) {
	li := s.Lights[i]
	return li.Light, li.Position
}
