package compression

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
)

// Engine picks between the structural and raster strategies for each request.
// It holds no per-document state: every call decodes the source fresh, so one
// engine serves any number of sequential requests.
type Engine struct {
	codec   Codec
	raster  Rasterizer
	encoder Encoder
	builder Builder
	logger  *slog.Logger

	warmOnce sync.Once
}

// NewEngine creates a new engine instance
func NewEngine(codec Codec, raster Rasterizer, encoder Encoder, builder Builder, logger *slog.Logger) *Engine {
	return &Engine{
		codec:   codec,
		raster:  raster,
		encoder: encoder,
		builder: builder,
		logger:  logger,
	}
}

// Compress runs one document through the engine. The result always satisfies
// CompressedSize <= OriginalSize: when no strategy beats the input, the
// original bytes come back unchanged under StrategyNone.
func (e *Engine) Compress(ctx context.Context, data []byte, req Request) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}
	req, err := normalize(req)
	if err != nil {
		return nil, err
	}

	var res *Result
	if req.Mode == ModeTargetSize {
		res, err = e.compressTarget(ctx, data, req)
	} else {
		res, err = e.compressOnce(ctx, data, req)
	}
	if err != nil {
		return nil, err
	}

	if req.Thumbnail {
		thumb, err := e.pageThumbnail(res.Data)
		if err != nil {
			e.logger.Warn("thumbnail generation failed", "error", err)
		} else {
			res.Thumbnail = thumb
		}
	}

	e.logger.Debug("compression finished",
		"strategy", res.Strategy,
		"original_size", res.OriginalSize,
		"compressed_size", res.CompressedSize,
		"pages", res.PageCount)
	return res, nil
}

// compressOnce runs both strategies as applicable and keeps the smaller
// output. A decode failure in one strategy leaves the other in play; the
// document fails only when every applicable strategy failed.
func (e *Engine) compressOnce(ctx context.Context, data []byte, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	structOut, structErr := e.repackStructural(data, req.StripMetadata)
	if structErr != nil {
		var encErr *EncodeError
		if errors.As(structErr, &encErr) {
			return nil, structErr
		}
		e.logger.Debug("structural strategy failed", "error", structErr)
	}

	var (
		rasterOut *rasterOutcome
		rasterErr error
	)
	if int64(len(data)) > RasterSizeThreshold {
		var meta Metadata
		if structOut != nil {
			meta = structOut.meta
		}
		rasterOut, rasterErr = e.repackRaster(ctx, data, req, meta)
		if rasterErr != nil {
			if errors.Is(rasterErr, context.Canceled) || errors.Is(rasterErr, context.DeadlineExceeded) {
				return nil, rasterErr
			}
			var encErr *EncodeError
			if errors.As(rasterErr, &encErr) {
				return nil, rasterErr
			}
			e.logger.Debug("raster strategy failed", "error", rasterErr)
		}
	} else if structOut != nil {
		// Raster skipped for small input; page progress still completes.
		req.progress(structOut.pages, structOut.pages)
	}

	if structOut == nil && rasterOut == nil {
		return nil, errors.Join(structErr, rasterErr)
	}

	var (
		out      []byte
		pages    int
		strategy Strategy
	)
	if structOut != nil && (rasterOut == nil || len(structOut.data) <= len(rasterOut.data)) {
		out, pages, strategy = structOut.data, structOut.pages, StrategyStructural
	} else {
		out, pages, strategy = rasterOut.data, rasterOut.pages, StrategyRaster
	}

	res := &Result{
		OriginalSize: int64(len(data)),
		PageCount:    pages,
		Quality:      req.Quality,
		MetTarget:    true,
	}
	if len(out) < len(data) {
		res.Data = out
		res.CompressedSize = int64(len(out))
		res.Strategy = strategy
	} else {
		res.Data = data
		res.CompressedSize = res.OriginalSize
		res.Strategy = StrategyNone
	}
	return res, nil
}

// normalize validates a request and resolves preset names and defaults.
func normalize(req Request) (Request, error) {
	if req.Mode == "" {
		switch {
		case req.TargetSize > 0:
			req.Mode = ModeTargetSize
		case req.Preset == "" && (req.Quality > 0 || req.ImageDPI > 0):
			req.Mode = ModeCustom
		default:
			req.Mode = ModePreset
		}
	}

	switch req.Mode {
	case ModePreset:
		name := req.Preset
		if name == "" {
			name = DefaultPreset
		}
		p, ok := PresetByName(name)
		if !ok {
			return req, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
		}
		req.Preset = p.Name
		req.Quality = p.Quality
		req.ImageDPI = p.ImageDPI
	case ModeCustom:
		if req.Quality < 1 || req.Quality > 100 {
			return req, ErrInvalidQuality
		}
		if req.ImageDPI < 0 {
			return req, ErrInvalidDPI
		}
		if req.ImageDPI == 0 {
			req.ImageDPI = 150
		}
	case ModeTargetSize:
		if req.TargetSize <= 0 {
			return req, ErrInvalidTarget
		}
		if req.ImageDPI < 0 {
			return req, ErrInvalidDPI
		}
		if req.ImageDPI == 0 {
			req.ImageDPI = 150
		}
	default:
		return req, fmt.Errorf("%w: %q", ErrUnknownMode, req.Mode)
	}
	return req, nil
}

// WarmUp primes the rendering stack so the first request does not pay its
// initialization cost. It runs once per process no matter how often it is
// called, and never fails: problems are logged and surface again, with
// context, on the first real compression.
func (e *Engine) WarmUp(ctx context.Context) {
	e.warmOnce.Do(func() {
		if ctx.Err() != nil {
			return
		}

		img := image.NewRGBA(image.Rect(0, 0, 8, 8))
		for i := range img.Pix {
			img.Pix[i] = 0xff
		}

		var buf bytes.Buffer
		if err := e.encoder.Encode(&buf, img, 80); err != nil {
			e.logger.Debug("warm-up encode failed", "error", err)
			return
		}

		out := e.builder.Begin()
		if err := out.AddImagePage(PageSize{Width: 72, Height: 72}, e.encoder.Format(), buf.Bytes()); err != nil {
			e.logger.Debug("warm-up page failed", "error", err)
			return
		}
		pdf, err := out.Output()
		if err != nil {
			e.logger.Debug("warm-up assembly failed", "error", err)
			return
		}

		doc, err := e.raster.Open(pdf)
		if err != nil {
			e.logger.Debug("warm-up open failed", "error", err)
			return
		}
		defer doc.Close()
		if _, err := doc.Render(0, 1); err != nil {
			e.logger.Debug("warm-up render failed", "error", err)
		}
	})
}
