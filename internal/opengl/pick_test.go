package opengl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPickColorRoundTrip(t *testing.T) {
	for _, id := range []int{1, 2, 255, 256, 257, 65535, 65536, 1 << 23, 1<<24 - 1} {
		c := EncodePickColor(id)
		r := uint8(c.X()*255 + 0.5)
		g := uint8(c.Y()*255 + 0.5)
		b := uint8(c.Z()*255 + 0.5)
		assert.Equal(t, id-1, DecodePickIndex(r, g, b), "id %d", id)
	}
}

func TestPickBackgroundDecodesToMiss(t *testing.T) {
	assert.Equal(t, -1, DecodePickIndex(0, 0, 0))
}

func TestPickColorChannelsStayInRange(t *testing.T) {
	c := EncodePickColor(1<<24 - 1)
	for i := 0; i < 3; i++ {
		assert.GreaterOrEqual(t, c[i], float32(0))
		assert.LessOrEqual(t, c[i], float32(1))
	}
}
