package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CreateBox builds a closed box mesh centered at the origin. Positions and
// normals use independent index sets: 8 corner positions, 6 face normals.
func CreateBox(x, y, z float32) *Mesh {
	m := NewMesh("Box")
	hx, hy, hz := x/2, y/2, z/2

	m.Vertices = []mgl32.Vec3{
		{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {-hx, hy, -hz},
		{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz},
	}
	m.Normals = []mgl32.Vec3{
		{0, 0, 1}, {0, 0, -1}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0},
	}

	faces := [6][4]int32{
		{4, 5, 6, 7}, // +z
		{1, 0, 3, 2}, // -z
		{5, 1, 2, 6}, // +x
		{0, 4, 7, 3}, // -x
		{7, 6, 2, 3}, // +y
		{0, 1, 5, 4}, // -y
	}
	for fi, f := range faces {
		m.AddTriangle(f[0], f[1], f[2])
		m.AddTriangle(f[2], f[3], f[0])
		n := int32(fi)
		m.NormalIndices = append(m.NormalIndices, n, n, n, n, n, n)
	}

	m.Solid = true
	return m
}

// CreateQuad builds a unit quad in the XY plane facing +Z, with texture
// coordinates covering [0,1]².
func CreateQuad(w, h float32) *Mesh {
	m := NewMesh("Quad")
	hw, hh := w/2, h/2
	m.Vertices = []mgl32.Vec3{
		{-hw, -hh, 0}, {hw, -hh, 0}, {hw, hh, 0}, {-hw, hh, 0},
	}
	m.Normals = []mgl32.Vec3{{0, 0, 1}}
	m.TexCoords = []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	m.AddTriangle(0, 1, 2)
	m.AddTriangle(2, 3, 0)
	m.NormalIndices = []int32{0, 0, 0, 0, 0, 0}
	return m
}

// CreateTriangle builds a single triangle in the XY plane facing +Z.
func CreateTriangle(size float32) *Mesh {
	m := NewMesh("Triangle")
	s := size / 2
	m.Vertices = []mgl32.Vec3{{-s, -s, 0}, {s, -s, 0}, {0, s, 0}}
	m.Normals = []mgl32.Vec3{{0, 0, 1}}
	m.AddTriangle(0, 1, 2)
	m.NormalIndices = []int32{0, 0, 0}
	return m
}
