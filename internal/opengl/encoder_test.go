package opengl

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenegl/scene"
)

func TestPackNormalRoundTrip(t *testing.T) {
	cases := []mgl32.Vec3{
		{1, 0, 0},
		{-1, 0, 0},
		{0, 1, 0},
		{0, -1, 0},
		{0, 0, 1},
		{0, 0, -1},
		mgl32.Vec3{1, 1, 1}.Normalize(),
		mgl32.Vec3{-0.3, 0.8, -0.5}.Normalize(),
		mgl32.Vec3{0.1, -0.2, 0.97}.Normalize(),
	}
	for _, n := range cases {
		got := unpackNormal(packNormal(n))
		for i := 0; i < 3; i++ {
			assert.InDelta(t, n[i], got[i], 1.0/511+1e-4, "axis %d of %v", i, n)
		}
	}
}

func TestFloat32ToHalf(t *testing.T) {
	assert.Equal(t, uint16(0), float32ToHalf(0))
	assert.Equal(t, uint16(0x3c00), float32ToHalf(1))
	assert.Equal(t, uint16(0xbc00), float32ToHalf(-1))
	assert.Equal(t, uint16(0xc000), float32ToHalf(-2))
	assert.Equal(t, uint16(0x3800), float32ToHalf(0.5))
	assert.Equal(t, uint16(0xb800), float32ToHalf(-0.5))
	// Largest finite half.
	assert.Equal(t, uint16(0x7bff), float32ToHalf(65504))
	// Overflow clamps with the sign kept, underflow flushes to zero.
	assert.Equal(t, uint16(0x7bff), float32ToHalf(1e9))
	assert.Equal(t, uint16(0xfbff), float32ToHalf(-1e9))
	assert.Equal(t, uint16(0), float32ToHalf(1e-8))
}

func TestFoldRepeat(t *testing.T) {
	assert.InDelta(t, 0.25, foldRepeat(1.25), 1e-6)
	assert.InDelta(t, 0.75, foldRepeat(-0.25), 1e-6)
	assert.InDelta(t, 0.5, foldRepeat(0.5), 1e-6)
	assert.InDelta(t, 0.0, foldRepeat(0), 1e-6)
	assert.InDelta(t, 1.0, foldRepeat(1), 1e-6)
	assert.InDelta(t, 0.5, foldRepeat(-2.5), 1e-6)
}

func TestExpandTriangleVertices(t *testing.T) {
	m := scene.NewMesh("m")
	m.Vertices = []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	m.AddTriangle(0, 1, 2)
	m.AddTriangle(2, 3, 0)

	out := expandTriangleVertices(m)
	require.Len(t, out, 18)
	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 1, 1, 0}, out[:9])
	assert.Equal(t, []float32{1, 1, 0, 0, 1, 0, 0, 0, 0}, out[9:])
}

func TestQuantizeTriangleVertices(t *testing.T) {
	m := scene.NewMesh("m")
	m.Vertices = []mgl32.Vec3{{-1, -2, -3}, {1, 2, 3}, {1, -2, -3}}
	m.AddTriangle(0, 1, 2)

	data, local := quantizeTriangleVertices(m)
	require.Len(t, data, 9)
	assert.Equal(t, int16(-32767), data[0])
	assert.Equal(t, int16(-32767), data[1])
	assert.Equal(t, int16(-32767), data[2])
	assert.Equal(t, int16(32767), data[3])
	assert.Equal(t, int16(32767), data[4])
	assert.Equal(t, int16(32767), data[5])

	// The local transform maps the normalized corner back to the original.
	corner := local.Mul4x1(mgl32.Vec4{1, 1, 1, 1})
	assert.InDelta(t, 1, corner.X(), 1e-5)
	assert.InDelta(t, 2, corner.Y(), 1e-5)
	assert.InDelta(t, 3, corner.Z(), 1e-5)
}

func TestQuantizeDegenerateExtent(t *testing.T) {
	m := scene.NewMesh("flat")
	m.Vertices = []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	m.AddTriangle(0, 1, 2)

	data, _ := quantizeTriangleVertices(m)
	// All z extents are zero; quantization must not divide by zero.
	for i := 2; i < len(data); i += 3 {
		assert.Equal(t, int16(0), data[i])
	}
}

func TestResolveNormalsFlat(t *testing.T) {
	m := scene.NewMesh("tri")
	m.Vertices = []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	m.AddTriangle(0, 1, 2)

	normals := ResolveNormals(m, false)
	require.Len(t, normals, 3)
	for _, n := range normals {
		assert.InDelta(t, 0, n.X(), 1e-6)
		assert.InDelta(t, 0, n.Y(), 1e-6)
		assert.InDelta(t, 1, n.Z(), 1e-6)
	}
}

func TestResolveNormalsWithIndependentIndices(t *testing.T) {
	m := scene.CreateBox(1, 1, 1)
	normals := ResolveNormals(m, true)
	require.Len(t, normals, len(m.TriangleVertices))
	for i, ni := range m.NormalIndices {
		assert.Equal(t, m.Normals[ni], normals[i])
	}
}

func TestResolveNormalsMissing(t *testing.T) {
	m := scene.NewMesh("bare")
	m.Vertices = []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	m.AddTriangle(0, 1, 2)
	assert.Nil(t, ResolveNormals(m, true))
}

func TestResolveTexCoordsAppliesTransform(t *testing.T) {
	m := scene.CreateQuad(1, 1)
	tex := scene.NewTexture()
	tex.Transform = scene.NewTextureTransform()
	tex.Transform.Translation = mgl32.Vec2{0.5, 0}

	uvs := resolveTexCoords(m, tex)
	require.Len(t, uvs, len(m.TriangleVertices))
	// First corner is vertex 0 with uv (0, 0) shifted by the translation.
	assert.InDelta(t, 0.5, uvs[0].X(), 1e-6)
	assert.InDelta(t, 0.0, uvs[0].Y(), 1e-6)
}

func TestResolveMeshColors(t *testing.T) {
	m := scene.NewMesh("colored")
	m.Vertices = []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	m.Colors = []mgl32.Vec3{{1, 0, 0.5}, {0, 1, 0}, {0, 0, 1}}
	m.AddTriangle(0, 1, 2)

	out := resolveMeshColors(m)
	require.Len(t, out, 9)
	assert.Equal(t, []uint8{255, 0, 127}, out[:3])
	assert.Equal(t, []uint8{0, 255, 0}, out[3:6])
	assert.Equal(t, []uint8{0, 0, 255}, out[6:])
}

func TestResolvePlotColorsPadding(t *testing.T) {
	p := &scene.Plot{}
	p.Colors = []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}}

	out := ResolvePlotColors(p, 4)
	require.Len(t, out, 12)
	assert.Equal(t, []uint8{255, 0, 0}, out[:3])
	assert.Equal(t, []uint8{0, 255, 0}, out[3:6])
	// Remaining vertices repeat the last color.
	assert.Equal(t, []uint8{0, 255, 0}, out[6:9])
	assert.Equal(t, []uint8{0, 255, 0}, out[9:])
}

func TestBuildNormalVisualization(t *testing.T) {
	m := scene.NewMesh("tri")
	m.Vertices = []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	m.AddTriangle(0, 1, 2)

	normals := ResolveNormals(m, false)
	lines := BuildNormalVisualization(m, normals, 0.5, nil)
	require.Equal(t, 3, lines.NumLines())
	require.Len(t, lines.Vertices, 6)

	// Each segment runs from the vertex along its normal.
	end := lines.Vertices[1]
	assert.InDelta(t, 0, end.X(), 1e-6)
	assert.InDelta(t, 0, end.Y(), 1e-6)
	assert.InDelta(t, 0.5, end.Z(), 1e-6)
}

func TestLineSetVertices(t *testing.T) {
	l := scene.NewLineSet("l")
	l.Vertices = []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
	l.AddLine(0, 2)
	l.AddLine(2, 1)

	out := LineSetVertices(l)
	require.Len(t, out, 4)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, out[0])
	assert.Equal(t, mgl32.Vec3{2, 0, 0}, out[1])
	assert.Equal(t, mgl32.Vec3{2, 0, 0}, out[2])
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, out[3])
}

func TestEncodeTexCoordsUnsignedShort(t *testing.T) {
	out := encodeTexCoordsUnsignedShort([]mgl32.Vec2{{0, 1}, {1.5, -0.5}})
	require.Len(t, out, 4)
	assert.Equal(t, uint16(0), out[0])
	assert.Equal(t, uint16(65535), out[1])
	assert.Equal(t, uint16(32767), out[2])
	assert.Equal(t, uint16(32767), out[3])
}
