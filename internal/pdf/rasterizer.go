package pdf

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"

	"pdfslim/internal/compression"
)

// Rasterizer renders document pages through MuPDF via go-fitz.
type Rasterizer struct{}

// NewRasterizer creates a new rasterizer instance
func NewRasterizer() *Rasterizer {
	return &Rasterizer{}
}

// Open parses a document from memory for rendering.
func (r *Rasterizer) Open(data []byte) (compression.RasterDocument, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, err
	}
	return &rasterDocument{doc: doc}, nil
}

type rasterDocument struct {
	doc *fitz.Document
}

func (d *rasterDocument) PageCount() int {
	return d.doc.NumPage()
}

// PageSize returns the page box in points. go-fitz reports bounds at 72 DPI,
// which maps one unit to one point.
func (d *rasterDocument) PageSize(page int) (compression.PageSize, error) {
	bound, err := d.doc.Bound(page)
	if err != nil {
		return compression.PageSize{}, err
	}
	return compression.PageSize{
		Width:  float64(bound.Dx()),
		Height: float64(bound.Dy()),
	}, nil
}

func (d *rasterDocument) Render(page int, scale float64) (*image.RGBA, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("invalid render scale %g", scale)
	}
	return d.doc.ImageDPI(page, scale*72)
}

func (d *rasterDocument) Close() error {
	return d.doc.Close()
}
