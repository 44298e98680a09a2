package pdf

import (
	"bytes"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"pdfslim/internal/compression"
)

// infoKeys are the document information entries cleared by a metadata strip.
var infoKeys = []string{
	"Title", "Author", "Subject", "Keywords",
	"Creator", "Producer", "CreationDate", "ModDate",
}

// Codec reads and re-serializes PDF documents through pdfcpu.
type Codec struct{}

// NewCodec creates a new codec instance
func NewCodec() *Codec {
	api.DisableConfigDir()
	return &Codec{}
}

// Decode parses and validates a document from memory. Validation is relaxed,
// matching what mainstream viewers accept.
func (c *Codec) Decode(data []byte) (compression.Document, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.Cmd = model.OPTIMIZE

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, err
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, err
	}
	return &document{ctx: ctx}, nil
}

type document struct {
	ctx   *model.Context
	strip bool
}

func (d *document) PageCount() int {
	return d.ctx.PageCount
}

// PageSizes returns the page boxes in points.
func (d *document) PageSizes() ([]compression.PageSize, error) {
	dims, err := d.ctx.PageDims()
	if err != nil {
		return nil, err
	}
	sizes := make([]compression.PageSize, len(dims))
	for i, dim := range dims {
		sizes[i] = compression.PageSize{Width: dim.Width, Height: dim.Height}
	}
	return sizes, nil
}

func (d *document) Metadata() compression.Metadata {
	dict := d.infoDict()
	if dict == nil {
		return compression.Metadata{}
	}
	return compression.Metadata{
		Title:    d.infoString(dict, "Title"),
		Author:   d.infoString(dict, "Author"),
		Subject:  d.infoString(dict, "Subject"),
		Keywords: d.infoString(dict, "Keywords"),
		Creator:  d.infoString(dict, "Creator"),
		Producer: d.infoString(dict, "Producer"),
	}
}

// StripMetadata marks the document information and XMP stream for removal on
// the next Encode.
func (d *document) StripMetadata() {
	d.strip = true
}

// Encode compacts and serializes the document. Optimization drops
// unreferenced objects and merges duplicate resources, so a stripped XMP
// stream disappears from the output entirely.
func (d *document) Encode() ([]byte, error) {
	if d.strip {
		if dict := d.infoDict(); dict != nil {
			for _, key := range infoKeys {
				delete(dict, key)
			}
		}
		if root, err := d.ctx.Catalog(); err == nil {
			delete(root, "Metadata")
		}
	}

	if err := api.OptimizeContext(d.ctx); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := api.WriteContext(d.ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *document) infoDict() types.Dict {
	if d.ctx.Info == nil {
		return nil
	}
	dict, err := d.ctx.DereferenceDict(*d.ctx.Info)
	if err != nil {
		return nil
	}
	return dict
}

// infoString resolves one information entry to a plain string, best effort.
func (d *document) infoString(dict types.Dict, key string) string {
	obj, found := dict.Find(key)
	if !found {
		return ""
	}
	obj, err := d.ctx.Dereference(obj)
	if err != nil || obj == nil {
		return ""
	}
	switch s := obj.(type) {
	case types.StringLiteral:
		if str, err := types.StringLiteralToString(s); err == nil {
			return str
		}
	case types.HexLiteral:
		if str, err := types.HexLiteralToString(s); err == nil {
			return str
		}
	}
	return ""
}
