package opengl

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	xdraw "golang.org/x/image/draw"

	"scenegl/scene"
)

// LoadTexture uploads the image into the resource's texture, creating the
// texture and sampler on first use. When the image keeps its previous size
// the pixels go through a sub-image update instead of reallocating storage.
func LoadTexture(res *TextureResource, tex *scene.Texture) error {
	img := tex.Image
	if img == nil || img.Empty() {
		return fmt.Errorf("texture %q has no image", tex.Name())
	}

	width, height := img.Width, img.Height
	pixels := img.Pixels
	numComponents := img.NumComponents

	// Rescale to power-of-two dimensions so mipmapped repeat sampling
	// behaves the same everywhere.
	pw, ph := nextPowerOfTwo(width), nextPowerOfTwo(height)
	if pw != width || ph != height {
		pixels = rescaleToRGBA(img, pw, ph)
		width, height = pw, ph
		numComponents = 4
	}

	var format uint32
	switch numComponents {
	case 1:
		format = gl.RED
	case 2:
		format = gl.RG
	case 3:
		format = gl.RGB
	case 4:
		format = gl.RGBA
	default:
		return fmt.Errorf("texture %q: unsupported pixel layout (%d components)", tex.Name(), numComponents)
	}

	if res.TextureID == 0 {
		gl.GenTextures(1, &res.TextureID)
	}
	gl.BindTexture(gl.TEXTURE_2D, res.TextureID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	if res.SamplerID == 0 {
		gl.GenSamplers(1, &res.SamplerID)
		gl.SamplerParameteri(res.SamplerID, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.SamplerParameteri(res.SamplerID, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	}
	wrapS, wrapT := int32(gl.CLAMP_TO_EDGE), int32(gl.CLAMP_TO_EDGE)
	if tex.RepeatS {
		wrapS = gl.REPEAT
	}
	if tex.RepeatT {
		wrapT = gl.REPEAT
	}
	gl.SamplerParameteri(res.SamplerID, gl.TEXTURE_WRAP_S, wrapS)
	gl.SamplerParameteri(res.SamplerID, gl.TEXTURE_WRAP_T, wrapT)

	if res.Loaded && res.IsSameSizeAs(width, height, numComponents) {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(width), int32(height),
			format, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	} else {
		gl.TexImage2D(gl.TEXTURE_2D, 0, int32(format), int32(width), int32(height),
			0, format, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
		res.Width = int32(width)
		res.Height = int32(height)
		res.NumComponents = int32(numComponents)
	}
	gl.GenerateMipmap(gl.TEXTURE_2D)

	res.Loaded = true
	res.ImageUpdateNeeded = false
	return nil
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// rescaleToRGBA expands the image to RGBA and resamples it to w×h.
func rescaleToRGBA(img *scene.Image, w, h int) []byte {
	src := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	switch img.NumComponents {
	case 4:
		copy(src.Pix, img.Pixels)
	default:
		for i := 0; i < img.Width*img.Height; i++ {
			var r, g, b byte
			a := byte(255)
			switch img.NumComponents {
			case 1:
				r = img.Pixels[i]
				g, b = r, r
			case 2:
				r = img.Pixels[i*2]
				g, b = r, r
				a = img.Pixels[i*2+1]
			case 3:
				r = img.Pixels[i*3]
				g = img.Pixels[i*3+1]
				b = img.Pixels[i*3+2]
			}
			src.Pix[i*4] = r
			src.Pix[i*4+1] = g
			src.Pix[i*4+2] = b
			src.Pix[i*4+3] = a
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst.Pix
}
