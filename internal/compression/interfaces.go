package compression

import (
	"image"
	"io"
)

// Codec parses and re-serializes documents without interpreting page content.
type Codec interface {
	Decode(data []byte) (Document, error)
}

// Document is a decoded document held by a Codec.
type Document interface {
	PageCount() int
	PageSizes() ([]PageSize, error)
	Metadata() Metadata
	StripMetadata()
	// Encode compacts the document and serializes it. Unreferenced objects
	// are dropped and duplicate streams are merged.
	Encode() ([]byte, error)
}

// Rasterizer renders document pages into pixel buffers.
type Rasterizer interface {
	Open(data []byte) (RasterDocument, error)
}

// RasterDocument is an open document that can render its pages.
type RasterDocument interface {
	PageCount() int
	// PageSize returns the page box of the zero-based page in points.
	PageSize(page int) (PageSize, error)
	// Render rasterizes the zero-based page at the given scale, where scale
	// 1.0 maps one point to one pixel.
	Render(page int, scale float64) (*image.RGBA, error)
	Close() error
}

// Encoder compresses a pixel buffer into a lossy image format.
type Encoder interface {
	Encode(w io.Writer, img image.Image, quality int) error
	// Format names the produced image format, e.g. "JPG".
	Format() string
}

// Builder assembles a new document out of full-page images.
type Builder interface {
	Begin() OutputDocument
}

// OutputDocument accumulates image pages and serializes the finished document.
type OutputDocument interface {
	// AddImagePage appends a page of the given size in points, filled edge to
	// edge with the encoded image.
	AddImagePage(size PageSize, format string, encoded []byte) error
	SetMetadata(meta Metadata)
	Output() ([]byte, error)
}
