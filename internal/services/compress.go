package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pdfslim/internal/common"
	"pdfslim/internal/compression"
	"pdfslim/internal/config"
	"pdfslim/internal/database"
)

// Engine is the slice of the compression engine the service depends on.
type Engine interface {
	Compress(ctx context.Context, data []byte, req compression.Request) (*compression.Result, error)
	WarmUp(ctx context.Context)
}

// CompressService runs batches through the engine and persists the outcomes.
// Files are processed one at a time, pages in order, which bounds peak memory
// at a single document's working set.
type CompressService struct {
	config *config.Config
	engine Engine
	prefs  *PreferencesService
	stats  *StatsService
	db     *database.Database
	logger *slog.Logger
}

// NewCompressService creates a new compress service
func NewCompressService(
	cfg *config.Config,
	engine Engine,
	prefs *PreferencesService,
	stats *StatsService,
	db *database.Database,
	logger *slog.Logger,
) *CompressService {
	return &CompressService{
		config: cfg,
		engine: engine,
		prefs:  prefs,
		stats:  stats,
		db:     db,
		logger: logger,
	}
}

// CompressBatch processes the files in order. Per-file failures land in the
// file's result and the batch moves on; the returned error is non-nil only
// for empty input and cancellation. On cancellation no partial file result is
// reported for the document that was in flight.
func (s *CompressService) CompressBatch(ctx context.Context, req BatchRequest) (*BatchResponse, error) {
	if len(req.Files) == 0 {
		return nil, ErrNoFilesProvided
	}

	opts := s.resolveOptions(req.Options)
	outDir := s.resolveOutputDir(req.OutputDir)

	s.engine.WarmUp(ctx)

	resp := &BatchResponse{TotalFiles: len(req.Files)}
	for i, path := range req.Files {
		if err := ctx.Err(); err != nil {
			return resp, err
		}

		result, err := s.processFile(ctx, i, len(req.Files), path, opts, outDir, req.OnProgress)
		if err != nil {
			return resp, err
		}

		resp.Files = append(resp.Files, *result)
		if result.Status == StatusCompleted {
			resp.CompletedFiles++
			resp.TotalOriginalSize += result.OriginalSize
			resp.TotalCompressedSize += result.CompressedSize
		}
		emit(req.OnProgress, ProgressEvent{
			FileID:    result.FileID,
			Filename:  result.OriginalFilename,
			FileIndex: i + 1,
			FileCount: len(req.Files),
			Status:    result.Status,
			Error:     result.Error,
		})
	}

	if resp.TotalOriginalSize > 0 {
		resp.OverallCompressionRatio = float64(resp.TotalOriginalSize-resp.TotalCompressedSize) /
			float64(resp.TotalOriginalSize) * 100
	}
	resp.Success = resp.CompletedFiles > 0

	s.stats.Update(resp.CompletedFiles, resp.TotalOriginalSize-resp.TotalCompressedSize)

	return resp, nil
}

// processFile compresses a single file. The returned error is non-nil only
// for cancellation; any other failure is folded into the FileResult.
func (s *CompressService) processFile(
	ctx context.Context,
	index, total int,
	path string,
	opts compression.Request,
	outDir string,
	onProgress func(ProgressEvent),
) (*FileResult, error) {
	fileID := common.GenerateUUID()
	filename := filepath.Base(path)

	result := &FileResult{
		FileID:           fileID,
		OriginalFilename: filename,
		Status:           StatusError,
	}

	fail := func(err error) (*FileResult, error) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		s.logger.Error("compression failed", "file", path, "error", err)
		result.Error = err.Error()
		return result, nil
	}

	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return fail(fmt.Errorf("%w: %s", ErrInvalidFileType, filename))
	}

	emit(onProgress, ProgressEvent{
		FileID:    fileID,
		Filename:  filename,
		FileIndex: index + 1,
		FileCount: total,
		Status:    StatusCompressing,
	})

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fail(err)
	}

	opts.OnProgress = func(current, pageCount int) {
		emit(onProgress, ProgressEvent{
			FileID:    fileID,
			Filename:  filename,
			FileIndex: index + 1,
			FileCount: total,
			Status:    StatusCompressing,
			Page:      current,
			PageCount: pageCount,
		})
	}

	res, err := s.engine.Compress(ctx, data, opts)
	if err != nil {
		return fail(NewCompressionError("compress", path, err))
	}

	timestamp := time.Now().UTC().Format(common.OutputTimestampFormat)
	baseName := strings.TrimSuffix(filename, filepath.Ext(filename))
	compressedFilename := fmt.Sprintf("%s_%s.pdf", baseName, timestamp)

	dir := outDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	if err := os.MkdirAll(dir, common.DefaultFilePermissions); err != nil {
		return fail(err)
	}

	outPath := filepath.Join(dir, compressedFilename)
	if err := os.WriteFile(outPath, res.Data, 0644); err != nil {
		return fail(err)
	}

	if len(res.Thumbnail) > 0 {
		thumbPath := filepath.Join(dir, fmt.Sprintf("%s_%s_thumb.png", baseName, timestamp))
		if err := os.WriteFile(thumbPath, res.Thumbnail, 0644); err != nil {
			s.logger.Warn("failed to write thumbnail", "path", thumbPath, "error", err)
		} else {
			result.ThumbnailPath = thumbPath
		}
	}

	result.CompressedFilename = compressedFilename
	result.OutputPath = outPath
	result.OriginalSize = res.OriginalSize
	result.CompressedSize = res.CompressedSize
	result.CompressionRatio = res.Ratio()
	result.PageCount = res.PageCount
	result.Quality = res.Quality
	result.Strategy = res.Strategy
	result.MetTarget = res.MetTarget
	result.Status = StatusCompleted

	s.recordHistory(result, opts)

	return result, nil
}

// resolveOptions falls back to stored preferences when the request carries no
// explicit compression parameters.
func (s *CompressService) resolveOptions(opts compression.Request) compression.Request {
	unset := opts.Mode == "" && opts.Preset == "" && opts.Quality == 0 &&
		opts.ImageDPI == 0 && opts.TargetSize == 0
	if !unset {
		return opts
	}

	prefs, err := s.prefs.GetPreferences()
	if err != nil {
		s.logger.Warn("failed to load preferences", "error", err)
		return opts
	}

	if prefs.DefaultPreset == "custom" {
		opts.Mode = compression.ModeCustom
		opts.Quality = prefs.ImageQuality
		opts.ImageDPI = prefs.ImageDPI
	} else {
		opts.Mode = compression.ModePreset
		opts.Preset = prefs.DefaultPreset
	}
	opts.StripMetadata = opts.StripMetadata || prefs.StripMetadata
	opts.Grayscale = opts.Grayscale || prefs.ConvertToGrayscale
	opts.Thumbnail = opts.Thumbnail || prefs.GenerateThumbnails

	return opts
}

// resolveOutputDir picks the output directory: explicit request, then stored
// preference, then environment configuration. Empty means next to the input.
func (s *CompressService) resolveOutputDir(dir string) string {
	if dir != "" {
		return dir
	}
	if prefs, err := s.prefs.GetPreferences(); err == nil && prefs.OutputDirectory != "" {
		return prefs.OutputDirectory
	}
	return s.config.OutputDir
}

// EstimateFile predicts the compressed size of a file from its size alone.
func (s *CompressService) EstimateFile(path string, quality, imageDPI int) (original, estimated int64, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, err
	}
	return info.Size(), compression.Estimate(info.Size(), quality, imageDPI), nil
}

func (s *CompressService) recordHistory(result *FileResult, opts compression.Request) {
	record := &database.CompressionRecord{
		FileID:         result.FileID,
		FileName:       result.OriginalFilename,
		OutputPath:     result.OutputPath,
		OriginalSize:   result.OriginalSize,
		CompressedSize: result.CompressedSize,
		Ratio:          result.CompressionRatio,
		Strategy:       string(result.Strategy),
		Mode:           string(opts.Mode),
		Quality:        result.Quality,
		PageCount:      result.PageCount,
	}
	if err := s.db.AddRecord(record); err != nil {
		s.logger.Warn("failed to record history", "error", err)
	}
}

func emit(fn func(ProgressEvent), event ProgressEvent) {
	if fn != nil {
		fn(event)
	}
}
