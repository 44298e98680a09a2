package services

import "pdfslim/internal/compression"

// File statuses reported through progress events
const (
	StatusCompressing = "compressing"
	StatusCompleted   = "completed"
	StatusError       = "error"
)

// BatchRequest describes a batch compression job
type BatchRequest struct {
	Files     []string            `json:"files"`
	Options   compression.Request `json:"options"`
	OutputDir string              `json:"output_dir,omitempty"`

	// OnProgress may be nil.
	OnProgress func(ProgressEvent) `json:"-"`
}

// ProgressEvent is one progress update while a batch runs. Page and PageCount
// are set for page-level updates within the current file.
type ProgressEvent struct {
	FileID    string `json:"file_id"`
	Filename  string `json:"filename"`
	FileIndex int    `json:"file_index"`
	FileCount int    `json:"file_count"`
	Status    string `json:"status"`
	Page      int    `json:"page,omitempty"`
	PageCount int    `json:"page_count,omitempty"`
	Error     string `json:"error,omitempty"`
}

// FileResult is the outcome for a single file in a batch
type FileResult struct {
	FileID             string               `json:"file_id"`
	OriginalFilename   string               `json:"original_filename"`
	CompressedFilename string               `json:"compressed_filename,omitempty"`
	OutputPath         string               `json:"output_path,omitempty"`
	ThumbnailPath      string               `json:"thumbnail_path,omitempty"`
	OriginalSize       int64                `json:"original_size"`
	CompressedSize     int64                `json:"compressed_size"`
	CompressionRatio   float64              `json:"compression_ratio"`
	PageCount          int                  `json:"page_count"`
	Quality            int                  `json:"quality"`
	Strategy           compression.Strategy `json:"strategy"`
	MetTarget          bool                 `json:"met_target"`
	Status             string               `json:"status"`
	Error              string               `json:"error,omitempty"`
}

// BatchResponse aggregates a finished batch
type BatchResponse struct {
	Success                 bool         `json:"success"`
	Files                   []FileResult `json:"files"`
	TotalFiles              int          `json:"total_files"`
	CompletedFiles          int          `json:"completed_files"`
	TotalOriginalSize       int64        `json:"total_original_size"`
	TotalCompressedSize     int64        `json:"total_compressed_size"`
	OverallCompressionRatio float64      `json:"overall_compression_ratio"`
}

// AppStats tracks session counters and lifetime aggregates
type AppStats struct {
	SessionFilesCompressed int   `json:"session_files_compressed"`
	SessionDataSaved       int64 `json:"session_data_saved"`
	TotalFilesCompressed   int64 `json:"total_files_compressed"`
	TotalDataSaved         int64 `json:"total_data_saved"`
}
