package main

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/cespare/xxhash/v2"

	"samuelscerri/ghetty"
)

// toImage copies a packed RGB frame into an opaque image.
func toImage(width, height int, frame []byte) *image.NRGBA {
	var img *image.NRGBA = image.NewNRGBA(image.Rect(0, 0, width, height))

	for pixel := 0; pixel < width*height; pixel++ {
		copy(img.Pix[pixel*4:pixel*4+3], frame[pixel*ghetty.BytesPerPixel:pixel*ghetty.BytesPerPixel+3])
		img.Pix[pixel*4+3] = 255
	}

	return img
}

// Digest hashes a frame so identical renders can be spotted from the log.
func Digest(frame []byte) uint64 {
	return xxhash.Sum64(frame)
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}

	return file.Close()
}
