package ghetty

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chewxy/math32"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptyTexture is raised for images without pixels. Wrapping coordinates
// into a zero extent is undefined.
var ErrEmptyTexture = errors.New("ghetty: texture has no pixels")

// Byte offsets of a texel in Texture.Data.
const (
	R = 0
	G = 1
	B = 2
	A = 3

	RGBToFloat = 1. / 255.
)

// Filter selects how a texture is sampled.
type Filter uint8

const (
	Nearest Filter = iota
	Bilinear
)

func (filter Filter) String() string {
	switch filter {
	case Nearest:
		return "nearest"
	case Bilinear:
		return "bilinear"
	}

	return fmt.Sprintf("Filter(%d)", uint8(filter))
}

// Texture is an RGBA8 image sampled with wrapping coordinates. Texture space
// has its origin at the bottom-left, so v is flipped against image rows.
type Texture struct {
	Width, Height int

	Data []byte
}

// NewTexture copies img into a texture. It panics with ErrEmptyTexture if img
// has no pixels.
func NewTexture(img image.Image) *Texture {
	var bounds image.Rectangle = img.Bounds()

	if bounds.Empty() {
		panic(ErrEmptyTexture)
	}
	var converted *image.NRGBA = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	draw.Draw(converted, converted.Bounds(), img, bounds.Min, draw.Src)

	var texture Texture = Texture{Width: bounds.Dx(), Height: bounds.Dy(), Data: make([]byte, 0, bounds.Dx()*bounds.Dy()*4)}

	for y := 0; y < texture.Height; y++ {
		var row int = y * converted.Stride
		texture.Data = append(texture.Data, converted.Pix[row:row+texture.Width*4]...)
	}

	return &texture
}

// LoadTexture decodes a PNG, JPEG, BMP, TIFF or WebP image.
func LoadTexture(reader io.Reader) (*Texture, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("decode texture: %w", err)
	}

	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decode %s texture: %w", format, ErrEmptyTexture)
	}

	var texture *Texture = NewTexture(img)

	Logger().Debug("texture loaded", "format", format, "width", texture.Width, "height", texture.Height)

	return texture, nil
}

func wrap(value, extent int) int {
	value %= extent

	if value < 0 {
		value += extent
	}

	return value
}

// Texel returns the color at integer coordinates, wrapped into the image.
func (texture *Texture) Texel(x, y int) Vector {
	var position int = (wrap(y, texture.Height)*texture.Width + wrap(x, texture.Width)) * 4

	return Vector{
		float32(texture.Data[position+R]) * RGBToFloat,
		float32(texture.Data[position+G]) * RGBToFloat,
		float32(texture.Data[position+B]) * RGBToFloat,
		float32(texture.Data[position+A]) * RGBToFloat,
	}
}

func (texture *Texture) SampleNearest(u, v float32) Vector {
	var x int = int(math32.Floor(u * float32(texture.Width)))
	var y int = int(math32.Floor((1 - v) * float32(texture.Height)))

	return texture.Texel(x, y)
}

func (texture *Texture) SampleBilinear(u, v float32) Vector {
	var fx float32 = u * float32(texture.Width)
	var fy float32 = (1 - v) * float32(texture.Height)

	var floorX, floorY float32 = math32.Floor(fx), math32.Floor(fy)
	var dx, dy float32 = fx - floorX, fy - floorY
	var x, y int = int(floorX), int(floorY)

	var top Vector = texture.Texel(x, y).Lerp(texture.Texel(x+1, y), dx)
	var bottom Vector = texture.Texel(x, y+1).Lerp(texture.Texel(x+1, y+1), dx)

	return top.Lerp(bottom, dy)
}

func (texture *Texture) Sample(u, v float32, filter Filter) Vector {
	if filter == Bilinear {
		return texture.SampleBilinear(u, v)
	}

	return texture.SampleNearest(u, v)
}
