package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Node is an element of the scene graph tree. Concrete node types embed
// Group or ObjectBase; the renderer dispatches on the concrete type.
type Node interface {
	Object
}

// Group owns an ordered list of child nodes. A node may appear under more
// than one parent (instancing), so children are shared, not exclusive.
type Group struct {
	ObjectBase
	children []Node
}

func NewGroup(name string) *Group {
	g := &Group{}
	g.SetName(name)
	return g
}

func (g *Group) AddChild(child Node) {
	g.children = append(g.children, child)
}

func (g *Group) RemoveChild(child Node) {
	for i, c := range g.children {
		if c == child {
			g.children = append(g.children[:i], g.children[i+1:]...)
			return
		}
	}
}

func (g *Group) Clear() { g.children = nil }
func (g *Group) Children() []Node { return g.children }
func (g *Group) NumChildren() int { return len(g.children) }
func (g *Group) Child(i int) Node { return g.children[i] }
func (g *Group) Empty() bool { return len(g.children) == 0 }

// Transform composes a local affine transform onto the model matrix for its
// subtree.
type Transform struct {
	Group
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform(name string) *Transform {
	t := &Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
	t.SetName(name)
	return t
}

// Matrix returns the local transform as translation * rotation * scale.
func (t *Transform) Matrix() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	m = m.Mul4(t.Rotation.Mat4())
	return m.Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Switch skips its whole subtree when turned off.
type Switch struct {
	Group
	on bool
}

func NewSwitch(name string, on bool) *Switch {
	s := &Switch{on: on}
	s.SetName(name)
	return s
}

func (s *Switch) IsTurnedOn() bool { return s.on }
func (s *Switch) SetTurnedOn(on bool) { s.on = on }

// UnpickableGroup renders normally but its subtree is skipped entirely
// during pick passes.
type UnpickableGroup struct {
	Group
}

func NewUnpickableGroup(name string) *UnpickableGroup {
	g := &UnpickableGroup{}
	g.SetName(name)
	return g
}

// ViewVolume is the orthographic volume an Overlay subtree is projected with.
type ViewVolume struct {
	Left, Right, Bottom, Top float32
	ZNear, ZFar              float32
}

// Overlay renders its subtree in screen space with an orthographic
// projection. ViewVolumeFunc maps the current viewport size to the volume;
// when nil a symmetric unit volume is used.
type Overlay struct {
	Group
	ViewVolumeFunc func(viewportWidth, viewportHeight int) ViewVolume
}

func NewOverlay(name string) *Overlay {
	o := &Overlay{}
	o.SetName(name)
	return o
}

func (o *Overlay) CalcViewVolume(viewportWidth, viewportHeight int) ViewVolume {
	if o.ViewVolumeFunc != nil {
		return o.ViewVolumeFunc(viewportWidth, viewportHeight)
	}
	return ViewVolume{Left: -1, Right: 1, Bottom: -1, Top: 1, ZNear: -1, ZFar: 1}
}

// OutlineGroup draws its subtree normally during the main pass and then
// re-draws a silhouette stroke around it in a deferred post pass.
type OutlineGroup struct {
	Group
	Color     mgl32.Vec3
	LineWidth float32
}

func NewOutlineGroup(name string) *OutlineGroup {
	o := &OutlineGroup{
		Color:     mgl32.Vec3{1, 0, 0},
		LineWidth: 1,
	}
	o.SetName(name)
	return o
}

// SimplifiedRenderingGroup forces the cheap lighting program for its subtree.
type SimplifiedRenderingGroup struct {
	Group
}

func NewSimplifiedRenderingGroup(name string) *SimplifiedRenderingGroup {
	g := &SimplifiedRenderingGroup{}
	g.SetName(name)
	return g
}

// Shape is a geometry leaf: a mesh with optional material and texture.
type Shape struct {
	ObjectBase
	Mesh     *Mesh
	Material *Material
	Texture  *Texture
}

func NewShape(name string) *Shape {
	s := &Shape{}
	s.SetName(name)
	return s
}
