package ghetty

import (
	"github.com/chewxy/math32"
)

// BytesPerPixel is the size of one pixel in the color buffer, packed as R, G, B.
const BytesPerPixel = 3

// frameBuffer holds the color and depth planes. Both are row-major with the
// origin at the top-left.
type frameBuffer struct {
	Frame []byte
	Depth []float32

	Width, Height int
	Pitch         int
}

func newFrameBuffer(width, height int) frameBuffer {
	var buffer frameBuffer = frameBuffer{
		Frame: make([]byte, width*height*BytesPerPixel),
		Depth: make([]float32, width*height),

		Width:  width,
		Height: height,
		Pitch:  width * BytesPerPixel,
	}

	buffer.Clear([BytesPerPixel]byte{})

	return buffer
}

// ToByte converts a [0,1] channel to the nearest byte, saturating out of
// range values.
func ToByte(channel float32) byte {
	if !(channel > 0) {
		return 0
	}

	if channel >= 1 {
		return 255
	}

	return byte(channel*255 + .5)
}

func (buffer *frameBuffer) Set(x, y int, color Vector) {
	var position int = y*buffer.Pitch + x*BytesPerPixel

	buffer.Frame[position+R] = ToByte(color[X])
	buffer.Frame[position+G] = ToByte(color[Y])
	buffer.Frame[position+B] = ToByte(color[Z])
}

// TestAndSetDepth stores depth and reports true when it is strictly nearer
// than the stored value. Ties are rejected.
func (buffer *frameBuffer) TestAndSetDepth(x, y int, depth float32) bool {
	var position int = y*buffer.Width + x

	if depth < buffer.Depth[position] {
		buffer.Depth[position] = depth
		return true
	}

	return false
}

func (buffer *frameBuffer) Clear(color [BytesPerPixel]byte) {
	for position := 0; position < len(buffer.Frame); position += BytesPerPixel {
		copy(buffer.Frame[position:position+BytesPerPixel], color[:])
	}

	var far float32 = math32.Inf(1)

	for position := range buffer.Depth {
		buffer.Depth[position] = far
	}
}
