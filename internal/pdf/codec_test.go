package pdf

import (
	"bytes"
	"image"
	"math"
	"testing"

	"pdfslim/internal/compression"
)

// buildFixture assembles a real document through the builder, one white JPEG
// page per requested size.
func buildFixture(t *testing.T, meta compression.Metadata, sizes []compression.PageSize) []byte {
	t.Helper()

	enc := NewJPEGEncoder()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var jpg bytes.Buffer
	if err := enc.Encode(&jpg, img, 80); err != nil {
		t.Fatalf("Failed to encode fixture image: %v", err)
	}

	doc := NewBuilder().Begin()
	for _, size := range sizes {
		if err := doc.AddImagePage(size, enc.Format(), jpg.Bytes()); err != nil {
			t.Fatalf("Failed to add fixture page: %v", err)
		}
	}
	doc.SetMetadata(meta)

	out, err := doc.Output()
	if err != nil {
		t.Fatalf("Failed to build fixture document: %v", err)
	}
	return out
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 0.5
}

func TestCodec_RoundTrip(t *testing.T) {
	meta := compression.Metadata{
		Title:    "Quarterly Report",
		Author:   "Finance",
		Subject:  "Q3 figures",
		Keywords: "finance, q3",
		Creator:  "reportgen",
		Producer: "pdfslim",
	}
	sizes := []compression.PageSize{
		{Width: 612, Height: 792},
		{Width: 300, Height: 400},
	}
	data := buildFixture(t, meta, sizes)

	codec := NewCodec()
	doc, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}

	if got := doc.PageCount(); got != 2 {
		t.Errorf("Expected 2 pages, got %d", got)
	}

	got, err := doc.PageSizes()
	if err != nil {
		t.Fatalf("Failed to read page sizes: %v", err)
	}
	if len(got) != len(sizes) {
		t.Fatalf("Expected %d page sizes, got %d", len(sizes), len(got))
	}
	for i, want := range sizes {
		if !closeTo(got[i].Width, want.Width) || !closeTo(got[i].Height, want.Height) {
			t.Errorf("Expected page %d box %gx%g, got %gx%g",
				i, want.Width, want.Height, got[i].Width, got[i].Height)
		}
	}

	m := doc.Metadata()
	if m.Title != meta.Title {
		t.Errorf("Expected title %q, got %q", meta.Title, m.Title)
	}
	if m.Author != meta.Author {
		t.Errorf("Expected author %q, got %q", meta.Author, m.Author)
	}
	if m.Subject != meta.Subject {
		t.Errorf("Expected subject %q, got %q", meta.Subject, m.Subject)
	}
	if m.Keywords != meta.Keywords {
		t.Errorf("Expected keywords %q, got %q", meta.Keywords, m.Keywords)
	}
	if m.Creator != meta.Creator {
		t.Errorf("Expected creator %q, got %q", meta.Creator, m.Creator)
	}
	if m.Producer != meta.Producer {
		t.Errorf("Expected producer %q, got %q", meta.Producer, m.Producer)
	}
}

func TestCodec_EncodePreservesPages(t *testing.T) {
	sizes := []compression.PageSize{
		{Width: 612, Height: 792},
		{Width: 841.89, Height: 595.28},
		{Width: 200, Height: 200},
	}
	data := buildFixture(t, compression.Metadata{}, sizes)

	codec := NewCodec()
	doc, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}

	out, err := doc.Encode()
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("Expected non-empty output")
	}

	again, err := codec.Decode(out)
	if err != nil {
		t.Fatalf("Failed to decode the re-encoded document: %v", err)
	}
	if got := again.PageCount(); got != len(sizes) {
		t.Errorf("Expected %d pages after re-encoding, got %d", len(sizes), got)
	}

	boxes, err := again.PageSizes()
	if err != nil {
		t.Fatalf("Failed to read page sizes: %v", err)
	}
	for i, want := range sizes {
		if !closeTo(boxes[i].Width, want.Width) || !closeTo(boxes[i].Height, want.Height) {
			t.Errorf("Expected page %d box %gx%g, got %gx%g",
				i, want.Width, want.Height, boxes[i].Width, boxes[i].Height)
		}
	}
}

func TestCodec_StripMetadata(t *testing.T) {
	meta := compression.Metadata{
		Title:    "Internal Draft",
		Author:   "J. Doe",
		Subject:  "confidential",
		Keywords: "draft, internal",
	}
	data := buildFixture(t, meta, []compression.PageSize{{Width: 612, Height: 792}})

	codec := NewCodec()
	doc, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}

	doc.StripMetadata()
	out, err := doc.Encode()
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	clean, err := codec.Decode(out)
	if err != nil {
		t.Fatalf("Failed to decode the stripped document: %v", err)
	}

	// Writers stamp their own Producer, so only the user-facing fields are
	// checked here.
	m := clean.Metadata()
	if m.Title != "" || m.Author != "" || m.Subject != "" || m.Keywords != "" {
		t.Errorf("Expected user metadata to be stripped, got %+v", m)
	}
}

// A document that has already been repacked gains nothing from another pass:
// repeated repacking must not keep shrinking the file.
func TestCodec_RepackIsStable(t *testing.T) {
	data := buildFixture(t, compression.Metadata{}, []compression.PageSize{
		{Width: 612, Height: 792},
		{Width: 612, Height: 792},
	})

	codec := NewCodec()
	doc, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	first, err := doc.Encode()
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	doc, err = codec.Decode(first)
	if err != nil {
		t.Fatalf("Failed to decode the repacked document: %v", err)
	}
	second, err := doc.Encode()
	if err != nil {
		t.Fatalf("Failed to encode again: %v", err)
	}

	// Allow a little slack for writer bookkeeping, nothing more.
	diff := len(first) - len(second)
	if diff < 0 {
		diff = -diff
	}
	if diff > len(first)/10 {
		t.Errorf("Expected stable size across repacks, got %d then %d", len(first), len(second))
	}
}

func TestCodec_RejectsGarbage(t *testing.T) {
	codec := NewCodec()
	if _, err := codec.Decode([]byte("not a pdf at all")); err == nil {
		t.Error("Expected an error for invalid input")
	}
}
