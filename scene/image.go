package scene

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// Image holds CPU-side pixel data for a texture: NumComponents bytes per
// pixel, row-major, top-to-bottom. Call NotifyUpdate after mutating Pixels so
// the renderer refreshes the GPU copy.
type Image struct {
	ObjectBase

	Width         int
	Height        int
	NumComponents int
	Pixels        []byte
}

func NewImage(name string) *Image {
	im := &Image{}
	im.SetName(name)
	return im
}

func (im *Image) Empty() bool {
	return im.Width == 0 || im.Height == 0 || len(im.Pixels) == 0
}

// LoadImage reads a PNG or JPEG file and converts it to 4-component RGBA8.
func LoadImage(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", path, err)
	}
	return imageFromGo(path, img), nil
}

func imageFromGo(name string, img image.Image) *Image {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgba.Set(x, y, img.At(x, y))
		}
	}
	out := NewImage(name)
	out.Width = bounds.Dx()
	out.Height = bounds.Dy()
	out.NumComponents = 4
	out.Pixels = rgba.Pix
	return out
}
