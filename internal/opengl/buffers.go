package opengl

import (
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"scenegl/scene"
)

// Some drivers race when vertex array state is built from several contexts
// at once. Buffer writes hold this while binding the array and setting
// attribute pointers.
var vertexArrayMutex sync.Mutex

const (
	attrPosition = 0
	attrNormal   = 1
	attrTexCoord = 2
	attrColor    = 3
)

// WriteMeshVertices encodes and uploads the mesh into the resource's
// buffers. tex selects whether texture coordinates are uploaded and carries
// the coordinate transform; smooth false recomputes flat per-triangle
// normals.
func WriteMeshVertices(res *VertexResource, m *scene.Mesh, tex *scene.Texture, smooth bool, texCoordEncoding TexCoordEncoding) {
	vertexArrayMutex.Lock()
	defer vertexArrayMutex.Unlock()

	gl.BindVertexArray(res.VAO)

	if useShortVertices {
		data, local := quantizeTriangleVertices(m)
		res.LocalTransform = &local
		gl.BindBuffer(gl.ARRAY_BUFFER, res.newBuffer())
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*2, gl.Ptr(data), gl.STATIC_DRAW)
		gl.VertexAttribPointer(attrPosition, 3, gl.SHORT, true, 0, nil)
	} else {
		data := expandTriangleVertices(m)
		res.LocalTransform = nil
		gl.BindBuffer(gl.ARRAY_BUFFER, res.newBuffer())
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
		gl.VertexAttribPointer(attrPosition, 3, gl.FLOAT, false, 0, nil)
	}
	gl.EnableVertexAttribArray(attrPosition)

	normals := ResolveNormals(m, smooth)
	if normals != nil {
		gl.BindBuffer(gl.ARRAY_BUFFER, res.newBuffer())
		if usePackedNormals {
			data := packNormals(normals)
			gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
			gl.VertexAttribPointer(attrNormal, 4, gl.INT_2_10_10_10_REV, true, 0, nil)
		} else {
			data := flattenVec3(normals)
			gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
			gl.VertexAttribPointer(attrNormal, 3, gl.FLOAT, false, 0, nil)
		}
		gl.EnableVertexAttribArray(attrNormal)
	}

	if m.HasTexCoords() && tex != nil {
		uvs := resolveTexCoords(m, tex)
		gl.BindBuffer(gl.ARRAY_BUFFER, res.newBuffer())
		switch texCoordEncoding {
		case TexCoordHalfFloat:
			data := encodeTexCoordsHalf(uvs)
			gl.BufferData(gl.ARRAY_BUFFER, len(data)*2, gl.Ptr(data), gl.STATIC_DRAW)
			gl.VertexAttribPointer(attrTexCoord, 2, gl.HALF_FLOAT, false, 0, nil)
		case TexCoordUnsignedShort:
			data := encodeTexCoordsUnsignedShort(uvs)
			gl.BufferData(gl.ARRAY_BUFFER, len(data)*2, gl.Ptr(data), gl.STATIC_DRAW)
			gl.VertexAttribPointer(attrTexCoord, 2, gl.UNSIGNED_SHORT, true, 0, nil)
		default:
			data := flattenVec2(uvs)
			gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
			gl.VertexAttribPointer(attrTexCoord, 2, gl.FLOAT, false, 0, nil)
		}
		gl.EnableVertexAttribArray(attrTexCoord)
	}

	if m.HasColors() {
		data := resolveMeshColors(m)
		gl.BindBuffer(gl.ARRAY_BUFFER, res.newBuffer())
		gl.BufferData(gl.ARRAY_BUFFER, len(data), gl.Ptr(data), gl.STATIC_DRAW)
		gl.VertexAttribPointer(attrColor, 3, gl.UNSIGNED_BYTE, true, 0, nil)
		gl.EnableVertexAttribArray(attrColor)
	}

	res.NumVertices = int32(len(m.TriangleVertices))
	res.DrawMode = gl.TRIANGLES
}

// WritePlotVertices uploads a point or line vertex stream with optional
// per-vertex colors. colors holds three bytes per vertex or is nil.
func WritePlotVertices(res *VertexResource, vertices []mgl32.Vec3, colors []uint8, mode uint32) {
	vertexArrayMutex.Lock()
	defer vertexArrayMutex.Unlock()

	gl.BindVertexArray(res.VAO)

	data := flattenVec3(vertices)
	gl.BindBuffer(gl.ARRAY_BUFFER, res.newBuffer())
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	gl.VertexAttribPointer(attrPosition, 3, gl.FLOAT, false, 0, nil)
	gl.EnableVertexAttribArray(attrPosition)

	if len(colors) > 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, res.newBuffer())
		gl.BufferData(gl.ARRAY_BUFFER, len(colors), gl.Ptr(colors), gl.STATIC_DRAW)
		gl.VertexAttribPointer(attrColor, 3, gl.UNSIGNED_BYTE, true, 0, nil)
		gl.EnableVertexAttribArray(attrColor)
	}

	res.NumVertices = int32(len(vertices))
	res.DrawMode = mode
}
