package pdf

import (
	"image"
	"image/jpeg"
	"io"
)

// JPEGEncoder compresses page images with the standard JPEG codec.
type JPEGEncoder struct{}

// NewJPEGEncoder creates a new encoder instance
func NewJPEGEncoder() *JPEGEncoder {
	return &JPEGEncoder{}
}

func (e *JPEGEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	if quality < 1 {
		quality = 1
	} else if quality > 100 {
		quality = 100
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

// Format names the produced format the way the page builder expects it.
func (e *JPEGEncoder) Format() string {
	return "JPG"
}
