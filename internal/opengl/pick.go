package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// EncodePickColor turns a 1-based pick id into the flat color a pick pass
// draws with. Ids stay below 2^24 so the three 8-bit channels hold them
// exactly.
func EncodePickColor(id int) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(id&0xff) / 255,
		float32((id>>8)&0xff) / 255,
		float32((id>>16)&0xff) / 255,
	}
}

// DecodePickIndex recovers the zero-based node path index from a read-back
// pixel. The background clears to zero and decodes to -1.
func DecodePickIndex(r, g, b uint8) int {
	return (int(r) | int(g)<<8 | int(b)<<16) - 1
}

// PickBuffer is the offscreen framebuffer pick passes render id colors into.
// It is recreated lazily whenever the viewport size changes.
type PickBuffer struct {
	fbo      uint32
	colorRbo uint32
	depthRbo uint32
	width    int32
	height   int32
}

// Ensure makes the buffer match the viewport size, creating or recreating
// the attachments as needed.
func (b *PickBuffer) Ensure(width, height int) error {
	w, h := int32(width), int32(height)
	if b.fbo != 0 && b.width == w && b.height == h {
		return nil
	}
	b.Destroy()

	gl.GenRenderbuffers(1, &b.colorRbo)
	gl.BindRenderbuffer(gl.RENDERBUFFER, b.colorRbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.RGBA8, w, h)

	gl.GenRenderbuffers(1, &b.depthRbo)
	gl.BindRenderbuffer(gl.RENDERBUFFER, b.depthRbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, w, h)

	gl.GenFramebuffers(1, &b.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, b.fbo)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, b.colorRbo)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, b.depthRbo)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	if status != gl.FRAMEBUFFER_COMPLETE {
		b.Destroy()
		return fmt.Errorf("pick FBO incomplete: status=0x%X", status)
	}

	b.width = w
	b.height = h
	return nil
}

func (b *PickBuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, b.fbo)
}

// ReadPickIndex reads the id pixel under the cursor and decodes it.
func (b *PickBuffer) ReadPickIndex(x, y int) int {
	var pixel [4]uint8
	gl.ReadPixels(int32(x), int32(y), 1, 1, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pixel[0]))
	return DecodePickIndex(pixel[0], pixel[1], pixel[2])
}

// ReadDepth reads the normalized depth under the cursor.
func (b *PickBuffer) ReadDepth(x, y int) float32 {
	var depth float32
	gl.ReadPixels(int32(x), int32(y), 1, 1, gl.DEPTH_COMPONENT, gl.FLOAT, gl.Ptr(&depth))
	return depth
}

func (b *PickBuffer) Destroy() {
	if b.fbo != 0 {
		gl.DeleteFramebuffers(1, &b.fbo)
		b.fbo = 0
	}
	if b.colorRbo != 0 {
		gl.DeleteRenderbuffers(1, &b.colorRbo)
		b.colorRbo = 0
	}
	if b.depthRbo != 0 {
		gl.DeleteRenderbuffers(1, &b.depthRbo)
		b.depthRbo = 0
	}
	b.width = 0
	b.height = 0
}
