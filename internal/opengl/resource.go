package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"scenegl/scene"
)

const maxNumVertexBuffers = 4

// Resource is a cached GPU object keyed on scene object identity.
//
// Release deletes the underlying GL objects and must run on the context
// thread. Discard forgets the handles without touching GL, for when the
// context is already gone.
type Resource interface {
	Release()
	Discard()
}

// ── Vertex resources ──────────────────────────────────────────────────────────

// VertexResource owns one vertex array plus up to four attribute buffers for
// a mesh or plot. A zero NumVertices marks the resource stale; the next
// traversal re-encodes and re-uploads into the same handles.
type VertexResource struct {
	VAO         uint32
	VBOs        [maxNumVertexBuffers]uint32
	numBuffers  int
	NumVertices int32
	DrawMode    uint32

	// LocalTransform undoes position quantization at draw time. Nil when
	// positions are uploaded as floats.
	LocalTransform *mgl32.Mat4

	// Cached normal visualization line set and its own GPU resource,
	// regenerated together with the vertex data.
	NormalVisualization         *scene.LineSet
	NormalVisualizationResource *VertexResource

	connection scene.Connection
}

// NewVertexResource allocates the vertex array and subscribes to the
// object's update signal so any mutation invalidates the cached buffers.
func NewVertexResource(obj scene.Object) *VertexResource {
	r := &VertexResource{}
	gl.GenVertexArrays(1, &r.VAO)
	r.connection = obj.ConnectUpdate(func() {
		r.NumVertices = 0
		r.NormalVisualization = nil
	})
	return r
}

// IsValid reports whether the buffers still hold current vertex data. An
// invalidated resource drops its buffers here so the rewrite starts clean.
func (r *VertexResource) IsValid() bool {
	if r.NumVertices > 0 {
		return true
	}
	if r.numBuffers > 0 {
		r.deleteBuffers()
	}
	return false
}

// newBuffer allocates the next attribute buffer slot.
func (r *VertexResource) newBuffer() uint32 {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	r.VBOs[r.numBuffers] = vbo
	r.numBuffers++
	return vbo
}

func (r *VertexResource) deleteBuffers() {
	if r.numBuffers > 0 {
		gl.DeleteBuffers(int32(r.numBuffers), &r.VBOs[0])
		r.VBOs = [maxNumVertexBuffers]uint32{}
		r.numBuffers = 0
	}
	r.NumVertices = 0
}

func (r *VertexResource) Release() {
	r.deleteBuffers()
	if r.VAO != 0 {
		gl.DeleteVertexArrays(1, &r.VAO)
		r.VAO = 0
	}
	if r.NormalVisualizationResource != nil {
		r.NormalVisualizationResource.Release()
		r.NormalVisualizationResource = nil
	}
	r.NormalVisualization = nil
	r.connection.Disconnect()
}

func (r *VertexResource) Discard() {
	r.VAO = 0
	r.VBOs = [maxNumVertexBuffers]uint32{}
	r.numBuffers = 0
	r.NumVertices = 0
	if r.NormalVisualizationResource != nil {
		r.NormalVisualizationResource.Discard()
		r.NormalVisualizationResource = nil
	}
	r.NormalVisualization = nil
	r.connection.Disconnect()
}

// Draw issues the draw call for the uploaded vertices. The caller has
// already set up program state and transforms.
func (r *VertexResource) Draw() {
	gl.BindVertexArray(r.VAO)
	gl.DrawArrays(r.DrawMode, 0, r.NumVertices)
}

// ── Texture resources ─────────────────────────────────────────────────────────

// TextureResource owns one texture and its sampler. ImageUpdateNeeded is set
// from the image's update signal; the next shape traversal re-uploads,
// reusing the storage when the size is unchanged.
type TextureResource struct {
	Loaded            bool
	ImageUpdateNeeded bool
	TextureID         uint32
	SamplerID         uint32
	Width             int32
	Height            int32
	NumComponents     int32

	connection scene.Connection
}

// NewTextureResource subscribes to the image's update signal.
func NewTextureResource(img *scene.Image) *TextureResource {
	r := &TextureResource{}
	r.connection = img.ConnectUpdate(func() {
		r.ImageUpdateNeeded = true
	})
	return r
}

// IsSameSizeAs reports whether the stored texture matches the image layout,
// allowing the sub-image upload fast path.
func (r *TextureResource) IsSameSizeAs(width, height, numComponents int) bool {
	return r.Width == int32(width) && r.Height == int32(height) &&
		r.NumComponents == int32(numComponents)
}

func (r *TextureResource) Release() {
	if r.TextureID != 0 {
		gl.DeleteTextures(1, &r.TextureID)
		r.TextureID = 0
	}
	if r.SamplerID != 0 {
		gl.DeleteSamplers(1, &r.SamplerID)
		r.SamplerID = 0
	}
	r.Loaded = false
	r.connection.Disconnect()
}

func (r *TextureResource) Discard() {
	r.TextureID = 0
	r.SamplerID = 0
	r.Loaded = false
	r.connection.Disconnect()
}
