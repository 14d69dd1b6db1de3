package opengl

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"scenegl/scene"
)

// Default attribute encodings. Packed normals cut the normal stream to a
// third of the float size; quantized positions need an extra per-draw
// uniform so they stay off by default, matching the shaders.
const (
	usePackedNormals = true
	useShortVertices = false
)

// TexCoordEncoding selects how texture coordinates are stored on the GPU.
type TexCoordEncoding int

const (
	TexCoordFloat TexCoordEncoding = iota
	TexCoordHalfFloat
	TexCoordUnsignedShort
)

// ── Positions ─────────────────────────────────────────────────────────────────

// expandTriangleVertices flattens the indexed triangle list into one xyz
// triple per triangle corner. No shared index buffer is uploaded; each corner
// is an independent vertex so per-corner attribute variation works with
// differing index sets per attribute.
func expandTriangleVertices(m *scene.Mesh) []float32 {
	out := make([]float32, 0, len(m.TriangleVertices)*3)
	for _, vi := range m.TriangleVertices {
		v := m.Vertices[vi]
		out = append(out, v.X(), v.Y(), v.Z())
	}
	return out
}

// quantizeTriangleVertices maps positions into the mesh bounding box as
// signed 16-bit values normalized to [-1, 1], and returns the local affine
// transform (center + half-extent scale) that undoes the quantization at
// draw time.
func quantizeTriangleVertices(m *scene.Mesh) ([]int16, mgl32.Mat4) {
	min, max := m.BoundingBox()
	c := min.Add(max).Mul(0.5)
	hs := max.Sub(min).Mul(0.5)
	for i := 0; i < 3; i++ {
		if hs[i] == 0 { // degenerate extent
			hs[i] = 1
		}
	}

	local := mgl32.Translate3D(c.X(), c.Y(), c.Z()).
		Mul4(mgl32.Scale3D(hs.X(), hs.Y(), hs.Z()))

	r := mgl32.Vec3{32767 / hs.X(), 32767 / hs.Y(), 32767 / hs.Z()}
	out := make([]int16, 0, len(m.TriangleVertices)*3)
	for _, vi := range m.TriangleVertices {
		v := m.Vertices[vi]
		out = append(out,
			int16(r.X()*(v.X()-c.X())),
			int16(r.Y()*(v.Y()-c.Y())),
			int16(r.Z()*(v.Z()-c.Z())))
	}
	return out, local
}

// ── Normals ───────────────────────────────────────────────────────────────────

// packNormal stores a unit normal in the GL_INT_2_10_10_10_REV layout: per
// axis one sign bit plus 9 magnitude bits, x in the low bits.
func packNormal(v mgl32.Vec3) uint32 {
	var xs, ys, zs uint32
	if v.X() < 0 {
		xs = 1
	}
	if v.Y() < 0 {
		ys = 1
	}
	if v.Z() < 0 {
		zs = 1
	}
	return zs<<29 | (uint32(v.Z()*511+float32(zs<<9))&511)<<20 |
		ys<<19 | (uint32(v.Y()*511+float32(ys<<9))&511)<<10 |
		xs<<9 | uint32(v.X()*511+float32(xs<<9))&511
}

// unpackNormal is the inverse of packNormal up to the quantization error of
// at most 1/511 per axis.
func unpackNormal(packed uint32) mgl32.Vec3 {
	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		if packed&512 != 0 {
			v[i] = (float32(packed&511) - 512) / 512
		} else {
			v[i] = float32(packed&511) / 511
		}
		packed >>= 10
	}
	return v
}

// ResolveNormals produces one normal per triangle corner. Flat shading
// ignores stored normals and recomputes one normal per triangle from its
// edge cross product. Returns nil when smooth shading is requested but the
// mesh carries no normals.
func ResolveNormals(m *scene.Mesh, smooth bool) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, 0, len(m.TriangleVertices))

	if !smooth {
		for i := 0; i < m.NumTriangles(); i++ {
			t := m.Triangle(i)
			e1 := m.Vertices[t[1]].Sub(m.Vertices[t[0]])
			e2 := m.Vertices[t[2]].Sub(m.Vertices[t[0]])
			n := e1.Cross(e2).Normalize()
			out = append(out, n, n, n)
		}
		return out
	}

	if !m.HasNormals() {
		return nil
	}
	if len(m.NormalIndices) == 0 {
		for _, vi := range m.TriangleVertices {
			out = append(out, m.Normals[vi])
		}
	} else {
		for _, ni := range m.NormalIndices {
			out = append(out, m.Normals[ni])
		}
	}
	return out
}

func packNormals(normals []mgl32.Vec3) []uint32 {
	out := make([]uint32, len(normals))
	for i, n := range normals {
		out[i] = packNormal(n)
	}
	return out
}

func flattenVec3(vs []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(vs)*3)
	for _, v := range vs {
		out = append(out, v.X(), v.Y(), v.Z())
	}
	return out
}

// ── Texture coordinates ───────────────────────────────────────────────────────

// resolveTexCoords produces one texture coordinate per triangle corner, with
// the texture transform pre-applied CPU-side. Corners without their own
// texcoord index set fall back to the position indices.
func resolveTexCoords(m *scene.Mesh, tex *scene.Texture) []mgl32.Vec2 {
	src := m.TexCoords
	if tex != nil && tex.Transform != nil {
		src = make([]mgl32.Vec2, len(m.TexCoords))
		for i, uv := range m.TexCoords {
			src[i] = tex.Transform.Apply(uv)
		}
	}

	out := make([]mgl32.Vec2, 0, len(m.TriangleVertices))
	if len(m.TexCoordIndices) == 0 {
		for _, vi := range m.TriangleVertices {
			out = append(out, src[vi])
		}
	} else {
		for _, ti := range m.TexCoordIndices {
			out = append(out, src[ti])
		}
	}
	return out
}

// float32ToHalf converts to IEEE half precision, flushing subnormals to zero
// and clamping overflow to the largest finite half of the same sign.
func float32ToHalf(v float32) uint16 {
	x := math.Float32bits(v)
	sign := uint16(x>>16) & 0x8000
	e := x & 0x7f800000
	if e == 0 || e < 0x38800000 {
		return 0
	}
	if e > 0x47000000 {
		return sign | 0x7bff
	}
	return sign | uint16((x&0x7fffffff)>>13-0x1c000)
}

func encodeTexCoordsHalf(uvs []mgl32.Vec2) []uint16 {
	out := make([]uint16, 0, len(uvs)*2)
	for _, uv := range uvs {
		out = append(out, float32ToHalf(uv.X()), float32ToHalf(uv.Y()))
	}
	return out
}

// foldRepeat wraps a coordinate outside [0, 1] back into it, preserving the
// repeat addressing the sampler would have applied.
func foldRepeat(v float32) float32 {
	if v < 0 || v > 1 {
		return v - float32(math.Floor(float64(v)))
	}
	return v
}

func encodeTexCoordsUnsignedShort(uvs []mgl32.Vec2) []uint16 {
	out := make([]uint16, 0, len(uvs)*2)
	for _, uv := range uvs {
		out = append(out,
			uint16(65535*foldRepeat(uv.X())),
			uint16(65535*foldRepeat(uv.Y())))
	}
	return out
}

func flattenVec2(uvs []mgl32.Vec2) []float32 {
	out := make([]float32, 0, len(uvs)*2)
	for _, uv := range uvs {
		out = append(out, uv.X(), uv.Y())
	}
	return out
}

// ── Colors ────────────────────────────────────────────────────────────────────

// resolveMeshColors quantizes per-vertex colors to 8-bit channels, one rgb
// triple per triangle corner.
func resolveMeshColors(m *scene.Mesh) []uint8 {
	out := make([]uint8, 0, len(m.TriangleVertices)*3)
	appendColor := func(c mgl32.Vec3) {
		out = append(out, uint8(255*c.X()), uint8(255*c.Y()), uint8(255*c.Z()))
	}
	if len(m.ColorIndices) == 0 {
		for _, vi := range m.TriangleVertices {
			appendColor(m.Colors[vi])
		}
	} else {
		for _, ci := range m.ColorIndices {
			appendColor(m.Colors[ci])
		}
	}
	return out
}

// ResolvePlotColors quantizes plot colors to 8-bit channels, padding with the
// last color when fewer colors than vertices are present.
func ResolvePlotColors(p *scene.Plot, numVertices int) []uint8 {
	out := make([]uint8, 0, numVertices*3)
	appendColor := func(c mgl32.Vec3) {
		out = append(out, uint8(255*c.X()), uint8(255*c.Y()), uint8(255*c.Z()))
	}
	i := 0
	if len(p.ColorIndices) == 0 {
		for i < numVertices && i < len(p.Colors) {
			appendColor(p.Colors[i])
			i++
		}
	} else {
		for i < numVertices && i < len(p.ColorIndices) {
			appendColor(p.Colors[p.ColorIndices[i]])
			i++
		}
	}
	for i > 0 && i < numVertices {
		out = append(out, out[len(out)-3], out[len(out)-2], out[len(out)-1])
		i++
	}
	return out
}

// ── Normal visualization ──────────────────────────────────────────────────────

// BuildNormalVisualization creates one line segment per triangle corner,
// from the vertex to vertex + normal*length.
func BuildNormalVisualization(m *scene.Mesh, normals []mgl32.Vec3, length float32, material *scene.Material) *scene.LineSet {
	lines := scene.NewLineSet("NormalVisualization")
	for i, vi := range m.TriangleVertices {
		v := m.Vertices[vi]
		lines.Vertices = append(lines.Vertices, v, v.Add(normals[i].Mul(length)))
		lines.AddLine(int32(i*2), int32(i*2+1))
	}
	lines.Material = material
	return lines
}

// LineSetVertices expands indexed line segments into a flat vertex pair
// stream.
func LineSetVertices(l *scene.LineSet) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, 0, l.NumLines()*2)
	for i := 0; i < l.NumLines(); i++ {
		line := l.Line(i)
		out = append(out, l.Vertices[line[0]], l.Vertices[line[1]])
	}
	return out
}
