package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupChildren(t *testing.T) {
	g := NewGroup("g")
	a := NewShape("a")
	b := NewShape("b")

	g.AddChild(a)
	g.AddChild(b)
	assert.Equal(t, 2, g.NumChildren())
	assert.Equal(t, Node(a), g.Child(0))

	g.RemoveChild(a)
	require.Equal(t, 1, g.NumChildren())
	assert.Equal(t, Node(b), g.Child(0))

	g.Clear()
	assert.True(t, g.Empty())
}

func TestUpdateConnection(t *testing.T) {
	m := NewMesh("m")
	calls := 0
	conn := m.ConnectUpdate(func() { calls++ })

	m.NotifyUpdate()
	m.NotifyUpdate()
	assert.Equal(t, 2, calls)

	conn.Disconnect()
	m.NotifyUpdate()
	assert.Equal(t, 2, calls)

	// Disconnecting twice is harmless.
	assert.NotPanics(t, conn.Disconnect)
}

func TestMultipleConnections(t *testing.T) {
	m := NewMesh("m")
	var a, b int
	connA := m.ConnectUpdate(func() { a++ })
	m.ConnectUpdate(func() { b++ })

	m.NotifyUpdate()
	connA.Disconnect()
	m.NotifyUpdate()

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestTransformMatrix(t *testing.T) {
	tr := NewTransform("t")
	tr.Position = mgl32.Vec3{1, 2, 3}
	tr.Scale = mgl32.Vec3{2, 2, 2}

	p := tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 3, p.X(), 1e-5)
	assert.InDelta(t, 2, p.Y(), 1e-5)
	assert.InDelta(t, 3, p.Z(), 1e-5)
}

func TestSwitchToggles(t *testing.T) {
	s := NewSwitch("s", false)
	assert.False(t, s.IsTurnedOn())
	s.SetTurnedOn(true)
	assert.True(t, s.IsTurnedOn())
}

func TestOverlayDefaultViewVolume(t *testing.T) {
	o := NewOverlay("o")
	vv := o.CalcViewVolume(800, 600)
	assert.Equal(t, float32(-1), vv.Left)
	assert.Equal(t, float32(1), vv.Right)

	o.ViewVolumeFunc = func(w, h int) ViewVolume {
		return ViewVolume{Left: 0, Right: float32(w), Bottom: 0, Top: float32(h), ZNear: -1, ZFar: 1}
	}
	vv = o.CalcViewVolume(800, 600)
	assert.Equal(t, float32(800), vv.Right)
	assert.Equal(t, float32(600), vv.Top)
}

func TestMeshBoundingBox(t *testing.T) {
	m := NewMesh("m")
	m.Vertices = []mgl32.Vec3{{1, -2, 0}, {-1, 3, 5}, {0, 0, -4}}

	min, max := m.BoundingBox()
	assert.Equal(t, mgl32.Vec3{-1, -2, -4}, min)
	assert.Equal(t, mgl32.Vec3{1, 3, 5}, max)
}

func TestCreateBox(t *testing.T) {
	m := CreateBox(2, 2, 2)
	assert.Len(t, m.Vertices, 8)
	assert.Len(t, m.Normals, 6)
	assert.Equal(t, 12, m.NumTriangles())
	assert.Len(t, m.NormalIndices, len(m.TriangleVertices))
	assert.True(t, m.Solid)

	min, max := m.BoundingBox()
	assert.Equal(t, mgl32.Vec3{-1, -1, -1}, min)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, max)
}

func TestTextureTransformApply(t *testing.T) {
	tt := NewTextureTransform()
	tt.Translation = mgl32.Vec2{0.25, 0.5}
	p := tt.Apply(mgl32.Vec2{0.5, 0})
	assert.InDelta(t, 0.75, p.X(), 1e-6)
	assert.InDelta(t, 0.5, p.Y(), 1e-6)

	tt = NewTextureTransform()
	tt.Scale = mgl32.Vec2{2, 1}
	p = tt.Apply(mgl32.Vec2{0.5, 0.25})
	assert.InDelta(t, 1.0, p.X(), 1e-6)
	assert.InDelta(t, 0.25, p.Y(), 1e-6)
}

func TestLineSetLines(t *testing.T) {
	l := NewLineSet("l")
	l.AddLine(0, 1)
	l.AddLine(1, 2)
	require.Equal(t, 2, l.NumLines())
	assert.Equal(t, [2]int32{1, 2}, l.Line(1))
}
