package compression

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"

	"golang.org/x/image/draw"
)

const (
	// maxRenderPixels caps the pixel area of a single rendered page. Pages
	// that would exceed it are rendered at a proportionally lower scale.
	maxRenderPixels = 40 << 20

	// thumbnailEdge is the longest edge of generated preview images.
	thumbnailEdge = 256
)

type rasterOutcome struct {
	data  []byte
	pages int
}

// repackRaster re-renders every page as a lossy image and assembles a new
// document from them. Each output page keeps the source page's box with the
// image stretched edge to edge, so geometry survives any resolution choice.
// Pages are processed strictly in order, one pixel buffer at a time.
func (e *Engine) repackRaster(ctx context.Context, data []byte, req Request, meta Metadata) (*rasterOutcome, error) {
	doc, err := e.raster.Open(data)
	if err != nil {
		return nil, NewDecodeError("raster repack", err)
	}
	defer doc.Close()

	pages := doc.PageCount()
	out := e.builder.Begin()

	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		size, err := doc.PageSize(i)
		if err != nil {
			return nil, NewRasterError(i, err)
		}

		img, err := doc.Render(i, renderScale(size, req.ImageDPI))
		if err != nil {
			return nil, NewRasterError(i, err)
		}

		flattenWhite(img)
		if req.Grayscale {
			toGrayscale(img)
		}

		var buf bytes.Buffer
		if err := e.encoder.Encode(&buf, img, req.Quality); err != nil {
			return nil, NewRasterError(i, err)
		}
		if err := out.AddImagePage(size, e.encoder.Format(), buf.Bytes()); err != nil {
			return nil, NewRasterError(i, err)
		}

		req.progress(i+1, pages)
	}

	if !req.StripMetadata {
		out.SetMetadata(meta)
	}

	pdf, err := out.Output()
	if err != nil {
		return nil, NewEncodeError("document assembly", err)
	}

	return &rasterOutcome{data: pdf, pages: pages}, nil
}

// renderScale converts a DPI request into a render scale, where 1.0 maps one
// point to one pixel (72 DPI), capped so the page buffer stays bounded.
func renderScale(size PageSize, dpi int) float64 {
	scale := float64(dpi) / 72
	if scale <= 0 {
		scale = 1
	}
	if area := size.Width * size.Height * scale * scale; area > maxRenderPixels {
		scale *= math.Sqrt(maxRenderPixels / area)
	}
	return scale
}

// flattenWhite composites the buffer over an opaque white background so that
// transparent regions do not turn black in formats without an alpha channel.
// Pixels are alpha-premultiplied, so each channel gains 255-alpha.
func flattenWhite(img *image.RGBA) {
	if img.Opaque() {
		return
	}
	pix := img.Pix
	for i := 0; i < len(pix); i += 4 {
		a := pix[i+3]
		if a == 0xff {
			continue
		}
		inv := 0xff - a
		pix[i] += inv
		pix[i+1] += inv
		pix[i+2] += inv
		pix[i+3] = 0xff
	}
}

// toGrayscale replaces every pixel with its BT.601 luminance, rounded.
func toGrayscale(img *image.RGBA) {
	pix := img.Pix
	for i := 0; i < len(pix); i += 4 {
		y := uint8((299*int(pix[i]) + 587*int(pix[i+1]) + 114*int(pix[i+2]) + 500) / 1000)
		pix[i] = y
		pix[i+1] = y
		pix[i+2] = y
	}
}

// pageThumbnail renders the first page of a finished document into a PNG
// preview whose longest edge is thumbnailEdge pixels.
func (e *Engine) pageThumbnail(data []byte) ([]byte, error) {
	doc, err := e.raster.Open(data)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	if doc.PageCount() == 0 {
		return nil, fmt.Errorf("document has no pages")
	}

	img, err := doc.Render(0, 1)
	if err != nil {
		return nil, err
	}
	flattenWhite(img)

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > thumbnailEdge || h > thumbnailEdge {
		ratio := float64(thumbnailEdge) / float64(max(w, h))
		tw := int(math.Round(float64(w) * ratio))
		th := int(math.Round(float64(h) * ratio))
		dst := image.NewRGBA(image.Rect(0, 0, max(tw, 1), max(th, 1)))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
