package services

import (
	"errors"
	"fmt"
)

// Service error types
var (
	ErrNoFilesProvided      = errors.New("no files provided for compression")
	ErrInvalidFileType      = errors.New("invalid file type")
	ErrFileNotFound         = errors.New("file not found")
	ErrUnknownPreferenceKey = errors.New("unknown preference key")
)

// CompressionError represents compression-specific errors
type CompressionError struct {
	Operation string
	FilePath  string
	Err       error
}

func (e *CompressionError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("compression %s failed for file %s: %v", e.Operation, e.FilePath, e.Err)
	}
	return fmt.Sprintf("compression %s failed: %v", e.Operation, e.Err)
}

func (e *CompressionError) Unwrap() error {
	return e.Err
}

// NewCompressionError creates a new compression error
func NewCompressionError(operation, filePath string, err error) *CompressionError {
	return &CompressionError{
		Operation: operation,
		FilePath:  filePath,
		Err:       err,
	}
}

// PreferencesError represents preferences-related errors
type PreferencesError struct {
	Operation string
	Err       error
}

func (e *PreferencesError) Error() string {
	return fmt.Sprintf("preferences %s failed: %v", e.Operation, e.Err)
}

func (e *PreferencesError) Unwrap() error {
	return e.Err
}

// NewPreferencesError creates a new preferences error
func NewPreferencesError(operation string, err error) *PreferencesError {
	return &PreferencesError{
		Operation: operation,
		Err:       err,
	}
}
