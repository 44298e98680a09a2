package compression

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"log/slog"
	"testing"
)

// fakeCodec hands out documents that re-encode to a fixed byte count.
type fakeCodec struct {
	decodeErr error
	encodeErr error
	outSize   int
	pages     int
	meta      Metadata

	stripped bool
}

func (c *fakeCodec) Decode(data []byte) (Document, error) {
	if c.decodeErr != nil {
		return nil, c.decodeErr
	}
	return &fakeDocument{c: c}, nil
}

type fakeDocument struct{ c *fakeCodec }

func (d *fakeDocument) PageCount() int { return d.c.pages }

func (d *fakeDocument) PageSizes() ([]PageSize, error) {
	sizes := make([]PageSize, d.c.pages)
	for i := range sizes {
		sizes[i] = PageSize{Width: 612, Height: 792}
	}
	return sizes, nil
}

func (d *fakeDocument) Metadata() Metadata { return d.c.meta }

func (d *fakeDocument) StripMetadata() { d.c.stripped = true }

func (d *fakeDocument) Encode() ([]byte, error) {
	if d.c.encodeErr != nil {
		return nil, d.c.encodeErr
	}
	return make([]byte, d.c.outSize), nil
}

// fakeRasterizer renders 2x2 pages in a single known color.
type fakeRasterizer struct {
	openErr   error
	sizeErr   error
	renderErr error
	pages     int

	opens  int
	closes int
}

func (r *fakeRasterizer) Open(data []byte) (RasterDocument, error) {
	if r.openErr != nil {
		return nil, r.openErr
	}
	r.opens++
	return &fakeRasterDocument{r: r}, nil
}

type fakeRasterDocument struct{ r *fakeRasterizer }

func (d *fakeRasterDocument) PageCount() int { return d.r.pages }

func (d *fakeRasterDocument) PageSize(page int) (PageSize, error) {
	if d.r.sizeErr != nil {
		return PageSize{}, d.r.sizeErr
	}
	return PageSize{Width: 612, Height: 792}, nil
}

func (d *fakeRasterDocument) Render(page int, scale float64) (*image.RGBA, error) {
	if d.r.renderErr != nil {
		return nil, d.r.renderErr
	}
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 200
		img.Pix[i+1] = 50
		img.Pix[i+2] = 10
		img.Pix[i+3] = 0xff
	}
	return img, nil
}

func (d *fakeRasterDocument) Close() error {
	d.r.closes++
	return nil
}

// fakeEncoder writes 100 bytes per quality unit so output size follows quality.
type fakeEncoder struct {
	err error

	qualities []int
	grays     []bool
}

func (e *fakeEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	if e.err != nil {
		return e.err
	}
	e.qualities = append(e.qualities, quality)
	e.grays = append(e.grays, isGrayImage(img))
	_, err := w.Write(make([]byte, quality*100))
	return err
}

func (e *fakeEncoder) Format() string { return "JPG" }

func isGrayImage(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r != g || g != bl {
				return false
			}
		}
	}
	return true
}

// fakeBuilder assembles documents whose size is the sum of their page images.
type fakeBuilder struct {
	addErr    error
	outputErr error

	docs []*fakeOutputDocument
}

func (b *fakeBuilder) Begin() OutputDocument {
	doc := &fakeOutputDocument{b: b}
	b.docs = append(b.docs, doc)
	return doc
}

type fakeOutputDocument struct {
	b       *fakeBuilder
	payload int
	pages   []PageSize
	meta    Metadata
	metaSet bool
}

func (d *fakeOutputDocument) AddImagePage(size PageSize, format string, encoded []byte) error {
	if d.b.addErr != nil {
		return d.b.addErr
	}
	d.pages = append(d.pages, size)
	d.payload += len(encoded)
	return nil
}

func (d *fakeOutputDocument) SetMetadata(meta Metadata) {
	d.meta = meta
	d.metaSet = true
}

func (d *fakeOutputDocument) Output() ([]byte, error) {
	if d.b.outputErr != nil {
		return nil, d.b.outputErr
	}
	return make([]byte, d.payload), nil
}

type engineFakes struct {
	codec   *fakeCodec
	raster  *fakeRasterizer
	encoder *fakeEncoder
	builder *fakeBuilder
}

func newTestEngine(t *testing.T) (*Engine, *engineFakes) {
	t.Helper()

	f := &engineFakes{
		codec:   &fakeCodec{outSize: 5000, pages: 2},
		raster:  &fakeRasterizer{pages: 2},
		encoder: &fakeEncoder{},
		builder: &fakeBuilder{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(f.codec, f.raster, f.encoder, f.builder, logger), f
}

func TestCompress_EmptyDocument(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Compress(context.Background(), nil, Request{})
	if !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("Expected ErrEmptyDocument, got %v", err)
	}
}

func TestCompress_SmallInputSkipsRaster(t *testing.T) {
	e, f := newTestEngine(t)
	f.codec.outSize = 400
	f.codec.pages = 3
	data := make([]byte, 1000)

	var events [][2]int
	res, err := e.Compress(context.Background(), data, Request{
		OnProgress: func(current, total int) {
			events = append(events, [2]int{current, total})
		},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if res.Strategy != StrategyStructural {
		t.Errorf("Expected strategy %q, got %q", StrategyStructural, res.Strategy)
	}
	if res.CompressedSize != 400 {
		t.Errorf("Expected compressed size 400, got %d", res.CompressedSize)
	}
	if res.PageCount != 3 {
		t.Errorf("Expected 3 pages, got %d", res.PageCount)
	}
	if res.Quality != 85 {
		t.Errorf("Expected default preset quality 85, got %d", res.Quality)
	}
	if f.raster.opens != 0 {
		t.Errorf("Expected raster to be skipped, got %d opens", f.raster.opens)
	}
	if len(events) != 1 || events[0] != [2]int{3, 3} {
		t.Errorf("Expected a single completing progress event, got %v", events)
	}
}

func TestCompress_PicksSmallerOutput(t *testing.T) {
	// With two 2x2 pages at preset quality 85 the raster output is 17000 bytes.
	tests := []struct {
		name         string
		structSize   int
		wantStrategy Strategy
		wantSize     int64
	}{
		{"structural smaller", 5000, StrategyStructural, 5000},
		{"raster smaller", 20000, StrategyRaster, 17000},
		{"tie prefers structural", 17000, StrategyStructural, 17000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, f := newTestEngine(t)
			f.codec.outSize = tt.structSize
			data := make([]byte, 200<<10)

			res, err := e.Compress(context.Background(), data, Request{})
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			if res.Strategy != tt.wantStrategy {
				t.Errorf("Expected strategy %q, got %q", tt.wantStrategy, res.Strategy)
			}
			if res.CompressedSize != tt.wantSize {
				t.Errorf("Expected compressed size %d, got %d", tt.wantSize, res.CompressedSize)
			}
			if res.PageCount != 2 {
				t.Errorf("Expected 2 pages, got %d", res.PageCount)
			}
		})
	}
}

func TestCompress_NoRegressionReturnsOriginal(t *testing.T) {
	tests := []struct {
		name       string
		structSize int
	}{
		{"larger output", 1200},
		{"equal output", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, f := newTestEngine(t)
			f.codec.outSize = tt.structSize
			data := make([]byte, 1000)
			copy(data, "%PDF-1.4")

			res, err := e.Compress(context.Background(), data, Request{})
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			if res.Strategy != StrategyNone {
				t.Errorf("Expected strategy %q, got %q", StrategyNone, res.Strategy)
			}
			if res.CompressedSize != res.OriginalSize {
				t.Errorf("Expected sizes to match, got %d and %d", res.CompressedSize, res.OriginalSize)
			}
			if !bytes.Equal(res.Data, data) {
				t.Error("Expected the original bytes back")
			}
		})
	}
}

func TestCompress_StructuralFailureFallsBackToRaster(t *testing.T) {
	e, f := newTestEngine(t)
	f.codec.decodeErr = errors.New("damaged xref table")
	data := make([]byte, 200<<10)

	res, err := e.Compress(context.Background(), data, Request{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if res.Strategy != StrategyRaster {
		t.Errorf("Expected strategy %q, got %q", StrategyRaster, res.Strategy)
	}
	if res.PageCount != 2 {
		t.Errorf("Expected 2 pages, got %d", res.PageCount)
	}
}

func TestCompress_RasterFailureFallsBackToStructural(t *testing.T) {
	e, f := newTestEngine(t)
	f.raster.renderErr = errors.New("broken content stream")
	f.codec.outSize = 5000
	data := make([]byte, 200<<10)

	res, err := e.Compress(context.Background(), data, Request{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if res.Strategy != StrategyStructural {
		t.Errorf("Expected strategy %q, got %q", StrategyStructural, res.Strategy)
	}
	if res.CompressedSize != 5000 {
		t.Errorf("Expected compressed size 5000, got %d", res.CompressedSize)
	}
}

func TestCompress_BothStrategiesFail(t *testing.T) {
	e, f := newTestEngine(t)
	f.codec.decodeErr = errors.New("damaged xref table")
	f.raster.openErr = errors.New("not a pdf")
	data := make([]byte, 200<<10)

	_, err := e.Compress(context.Background(), data, Request{})
	if err == nil {
		t.Fatal("Expected an error when both strategies fail")
	}
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Errorf("Expected a DecodeError in the chain, got %v", err)
	}
}

func TestCompress_EncodeErrorIsFatal(t *testing.T) {
	e, f := newTestEngine(t)
	f.codec.encodeErr = errors.New("write failed")
	data := make([]byte, 200<<10)

	_, err := e.Compress(context.Background(), data, Request{})

	var encErr *EncodeError
	if !errors.As(err, &encErr) {
		t.Fatalf("Expected an EncodeError, got %v", err)
	}
	if f.raster.opens != 0 {
		t.Errorf("Expected no raster attempt after a fatal encode error, got %d opens", f.raster.opens)
	}
}

func TestCompress_PageEncodeFailureFallsBackToStructural(t *testing.T) {
	e, f := newTestEngine(t)
	f.encoder.err = errors.New("short write")
	data := make([]byte, 200<<10)

	res, err := e.Compress(context.Background(), data, Request{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if res.Strategy != StrategyStructural {
		t.Errorf("Expected strategy %q, got %q", StrategyStructural, res.Strategy)
	}
	if res.CompressedSize != 5000 {
		t.Errorf("Expected compressed size 5000, got %d", res.CompressedSize)
	}
}

func TestCompress_OutputSerializationErrorIsFatal(t *testing.T) {
	e, f := newTestEngine(t)
	f.builder.outputErr = errors.New("write failed")
	data := make([]byte, 200<<10)

	_, err := e.Compress(context.Background(), data, Request{})

	var encErr *EncodeError
	if !errors.As(err, &encErr) {
		t.Fatalf("Expected an EncodeError, got %v", err)
	}
}

func TestCompress_CancelledContext(t *testing.T) {
	e, _ := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Compress(ctx, make([]byte, 1000), Request{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestCompress_CancelBetweenPages(t *testing.T) {
	e, f := newTestEngine(t)
	f.raster.pages = 3
	data := make([]byte, 200<<10)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := e.Compress(ctx, data, Request{
		OnProgress: func(current, total int) {
			if current == 1 {
				cancel()
			}
		},
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestCompress_ReportsPageProgress(t *testing.T) {
	e, f := newTestEngine(t)
	f.codec.pages = 3
	f.raster.pages = 3
	data := make([]byte, 200<<10)

	var events [][2]int
	_, err := e.Compress(context.Background(), data, Request{
		OnProgress: func(current, total int) {
			events = append(events, [2]int{current, total})
		},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := [][2]int{{1, 3}, {2, 3}, {3, 3}}
	if len(events) != len(want) {
		t.Fatalf("Expected %d progress events, got %v", len(want), events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("Expected event %d to be %v, got %v", i, want[i], events[i])
		}
	}
}

func TestCompress_GrayscaleConversion(t *testing.T) {
	tests := []struct {
		name      string
		grayscale bool
	}{
		{"color kept", false},
		{"grayscale applied", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, f := newTestEngine(t)
			data := make([]byte, 200<<10)

			_, err := e.Compress(context.Background(), data, Request{Grayscale: tt.grayscale})
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			if len(f.encoder.grays) == 0 {
				t.Fatal("Expected the encoder to see page images")
			}
			for _, gray := range f.encoder.grays {
				if gray != tt.grayscale {
					t.Errorf("Expected gray=%v page images, got %v", tt.grayscale, gray)
				}
			}
		})
	}
}

func TestCompress_CarriesMetadataToRasterOutput(t *testing.T) {
	e, f := newTestEngine(t)
	f.codec.meta = Metadata{Title: "Quarterly Report", Author: "Finance"}
	f.codec.outSize = 1 << 20
	data := make([]byte, 200<<10)

	res, err := e.Compress(context.Background(), data, Request{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.Strategy != StrategyRaster {
		t.Fatalf("Expected strategy %q, got %q", StrategyRaster, res.Strategy)
	}

	doc := f.builder.docs[0]
	if !doc.metaSet {
		t.Fatal("Expected metadata on the raster output")
	}
	if doc.meta.Title != "Quarterly Report" || doc.meta.Author != "Finance" {
		t.Errorf("Expected source metadata to carry over, got %+v", doc.meta)
	}
}

func TestCompress_StripMetadata(t *testing.T) {
	e, f := newTestEngine(t)
	f.codec.meta = Metadata{Title: "Quarterly Report"}
	data := make([]byte, 200<<10)

	_, err := e.Compress(context.Background(), data, Request{StripMetadata: true})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !f.codec.stripped {
		t.Error("Expected StripMetadata on the decoded document")
	}
	if f.builder.docs[0].metaSet {
		t.Error("Expected no metadata on the raster output")
	}
}

func TestCompress_PreservesPageGeometry(t *testing.T) {
	e, f := newTestEngine(t)
	f.codec.outSize = 1 << 20
	data := make([]byte, 200<<10)

	_, err := e.Compress(context.Background(), data, Request{Preset: "ultra"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	doc := f.builder.docs[0]
	if len(doc.pages) != 2 {
		t.Fatalf("Expected 2 output pages, got %d", len(doc.pages))
	}
	for i, size := range doc.pages {
		if size.Width != 612 || size.Height != 792 {
			t.Errorf("Expected page %d to keep its 612x792 box, got %gx%g", i, size.Width, size.Height)
		}
	}
}

func TestCompress_Thumbnail(t *testing.T) {
	e, f := newTestEngine(t)
	f.codec.outSize = 400
	data := make([]byte, 1000)

	res, err := e.Compress(context.Background(), data, Request{Thumbnail: true})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(res.Thumbnail) == 0 {
		t.Fatal("Expected a thumbnail")
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(res.Thumbnail))
	if err != nil {
		t.Fatalf("Expected a PNG thumbnail, got %v", err)
	}
	if cfg.Width != 2 || cfg.Height != 2 {
		t.Errorf("Expected a 2x2 preview, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestCompress_ThumbnailFailureIsNotFatal(t *testing.T) {
	e, f := newTestEngine(t)
	f.codec.outSize = 400
	f.raster.openErr = errors.New("not a pdf")
	data := make([]byte, 1000)

	res, err := e.Compress(context.Background(), data, Request{Thumbnail: true})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.Thumbnail != nil {
		t.Errorf("Expected no thumbnail, got %d bytes", len(res.Thumbnail))
	}
}

func TestWarmUp_RunsOnce(t *testing.T) {
	e, f := newTestEngine(t)

	e.WarmUp(context.Background())
	e.WarmUp(context.Background())

	if len(f.encoder.qualities) != 1 {
		t.Errorf("Expected one warm-up encode, got %d", len(f.encoder.qualities))
	}
	if f.raster.opens != 1 {
		t.Errorf("Expected one warm-up open, got %d", f.raster.opens)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		wantMode Mode
		wantQual int
		wantDPI  int
		wantErr  error
	}{
		{"defaults to preset", Request{}, ModePreset, 85, 150, nil},
		{"named preset", Request{Preset: "ultra"}, ModePreset, 40, 96, nil},
		{"unknown preset", Request{Preset: "tiny"}, "", 0, 0, ErrUnknownPreset},
		{"quality implies custom", Request{Quality: 70}, ModeCustom, 70, 150, nil},
		{"custom keeps dpi", Request{Quality: 70, ImageDPI: 96}, ModeCustom, 70, 96, nil},
		{"custom quality too high", Request{Mode: ModeCustom, Quality: 101}, "", 0, 0, ErrInvalidQuality},
		{"custom quality missing", Request{Mode: ModeCustom}, "", 0, 0, ErrInvalidQuality},
		{"custom negative dpi", Request{Mode: ModeCustom, Quality: 50, ImageDPI: -10}, "", 0, 0, ErrInvalidDPI},
		{"target size implies mode", Request{TargetSize: 50000}, ModeTargetSize, 0, 150, nil},
		{"target size missing", Request{Mode: ModeTargetSize}, "", 0, 0, ErrInvalidTarget},
		{"unknown mode", Request{Mode: "zip"}, "", 0, 0, ErrUnknownMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalize(tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			if got.Mode != tt.wantMode {
				t.Errorf("Expected mode %q, got %q", tt.wantMode, got.Mode)
			}
			if got.Quality != tt.wantQual {
				t.Errorf("Expected quality %d, got %d", tt.wantQual, got.Quality)
			}
			if got.ImageDPI != tt.wantDPI {
				t.Errorf("Expected dpi %d, got %d", tt.wantDPI, got.ImageDPI)
			}
		})
	}
}
