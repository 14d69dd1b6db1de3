package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh holds indexed triangle geometry. TriangleVertices stores three
// position indices per triangle; the optional per-attribute index arrays let
// normals, texture coordinates, and colors vary per corner independently of
// positions. An attribute without its own index array reuses the position
// indices.
type Mesh struct {
	ObjectBase

	Vertices  []mgl32.Vec3
	Normals   []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Colors    []mgl32.Vec3

	TriangleVertices []int32
	NormalIndices    []int32
	TexCoordIndices  []int32
	ColorIndices     []int32

	// Solid meshes are closed volumes; back faces may be culled.
	Solid bool
}

func NewMesh(name string) *Mesh {
	m := &Mesh{}
	m.SetName(name)
	return m
}

func (m *Mesh) HasVertices() bool { return len(m.Vertices) > 0 }
func (m *Mesh) HasNormals() bool { return len(m.Normals) > 0 }
func (m *Mesh) HasTexCoords() bool { return len(m.TexCoords) > 0 }
func (m *Mesh) HasColors() bool { return len(m.Colors) > 0 }

func (m *Mesh) NumTriangles() int { return len(m.TriangleVertices) / 3 }

func (m *Mesh) Triangle(i int) [3]int32 {
	return [3]int32{
		m.TriangleVertices[i*3],
		m.TriangleVertices[i*3+1],
		m.TriangleVertices[i*3+2],
	}
}

func (m *Mesh) AddTriangle(a, b, c int32) {
	m.TriangleVertices = append(m.TriangleVertices, a, b, c)
}

// BoundingBox returns the tight axis-aligned box of the vertex positions.
// An empty mesh yields a zero box.
func (m *Mesh) BoundingBox() (min, max mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			if v[i] < min[i] {
				min[i] = v[i]
			}
			if v[i] > max[i] {
				max[i] = v[i]
			}
		}
	}
	return
}

// Plot is the shared base of the point and line primitives. Colors are
// per-vertex when present; ColorIndices remaps them when index sets differ.
type Plot struct {
	ObjectBase

	Vertices     []mgl32.Vec3
	Colors       []mgl32.Vec3
	ColorIndices []int32
	Material     *Material
}

func (p *Plot) HasVertices() bool { return len(p.Vertices) > 0 }
func (p *Plot) HasColors() bool { return len(p.Colors) > 0 }

// PointSet renders its vertices as points. PointSize 0 means the renderer
// default applies.
type PointSet struct {
	Plot
	PointSize float64
}

func NewPointSet(name string) *PointSet {
	p := &PointSet{}
	p.SetName(name)
	return p
}

// LineSet renders indexed line segments. LineWidth 0 means the renderer
// default applies.
type LineSet struct {
	Plot
	lines     []int32 // two vertex indices per line
	LineWidth float64
}

func NewLineSet(name string) *LineSet {
	l := &LineSet{}
	l.SetName(name)
	return l
}

func (l *LineSet) AddLine(a, b int32) {
	l.lines = append(l.lines, a, b)
}

func (l *LineSet) NumLines() int { return len(l.lines) / 2 }

func (l *LineSet) Line(i int) [2]int32 {
	return [2]int32{l.lines[i*2], l.lines[i*2+1]}
}
