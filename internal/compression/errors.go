package compression

import (
	"errors"
	"fmt"
)

// Request validation errors
var (
	ErrEmptyDocument  = errors.New("document is empty")
	ErrUnknownMode    = errors.New("unknown compression mode")
	ErrUnknownPreset  = errors.New("unknown compression preset")
	ErrInvalidQuality = errors.New("quality must be between 1 and 100")
	ErrInvalidDPI     = errors.New("image dpi must be positive")
	ErrInvalidTarget  = errors.New("target size must be positive")
)

// DecodeError means a strategy could not parse the source document. It is
// recoverable per strategy: the other strategy may still decode the same bytes.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failed in %s: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError creates a new decode error
func NewDecodeError(op string, err error) *DecodeError {
	return &DecodeError{
		Op:  op,
		Err: err,
	}
}

// RasterError means a page could not be rendered or its image could not be
// encoded. It aborts the raster strategy for the document; the structural
// strategy is unaffected.
type RasterError struct {
	Page int
	Err  error
}

func (e *RasterError) Error() string {
	return fmt.Sprintf("rasterizing page %d failed: %v", e.Page+1, e.Err)
}

func (e *RasterError) Unwrap() error {
	return e.Err
}

// NewRasterError creates a new raster error for a zero-based page
func NewRasterError(page int, err error) *RasterError {
	return &RasterError{
		Page: page,
		Err:  err,
	}
}

// EncodeError means a finished document could not be serialized. It is fatal
// for the document being compressed.
type EncodeError struct {
	Op  string
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode failed in %s: %v", e.Op, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// NewEncodeError creates a new encode error
func NewEncodeError(op string, err error) *EncodeError {
	return &EncodeError{
		Op:  op,
		Err: err,
	}
}
