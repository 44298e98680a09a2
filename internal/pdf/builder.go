package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"pdfslim/internal/compression"
)

// Builder assembles image-per-page documents with fpdf.
type Builder struct{}

// NewBuilder creates a new builder instance
func NewBuilder() *Builder {
	return &Builder{}
}

// Begin starts an empty output document.
func (b *Builder) Begin() compression.OutputDocument {
	f := fpdf.New("P", "pt", "A4", "")
	f.SetMargins(0, 0, 0)
	f.SetAutoPageBreak(false, 0)
	return &outputDocument{f: f}
}

type outputDocument struct {
	f     *fpdf.Fpdf
	pages int
}

// AddImagePage appends a page with the exact box of the source page and the
// encoded image stretched edge to edge, which keeps geometry intact no matter
// what resolution the image was rendered at.
func (d *outputDocument) AddImagePage(size compression.PageSize, format string, encoded []byte) error {
	d.pages++
	name := fmt.Sprintf("page-%d", d.pages)

	d.f.AddPageFormat("P", fpdf.SizeType{Wd: size.Width, Ht: size.Height})

	opts := fpdf.ImageOptions{ImageType: format}
	d.f.RegisterImageOptionsReader(name, opts, bytes.NewReader(encoded))
	d.f.ImageOptions(name, 0, 0, size.Width, size.Height, false, opts, 0, "")

	return d.f.Error()
}

// SetMetadata carries document information over to the output. Empty fields
// stay unset.
func (d *outputDocument) SetMetadata(meta compression.Metadata) {
	if meta.Title != "" {
		d.f.SetTitle(meta.Title, true)
	}
	if meta.Author != "" {
		d.f.SetAuthor(meta.Author, true)
	}
	if meta.Subject != "" {
		d.f.SetSubject(meta.Subject, true)
	}
	if meta.Keywords != "" {
		d.f.SetKeywords(meta.Keywords, true)
	}
	if meta.Creator != "" {
		d.f.SetCreator(meta.Creator, true)
	}
	if meta.Producer != "" {
		d.f.SetProducer(meta.Producer, true)
	}
}

func (d *outputDocument) Output() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.f.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
