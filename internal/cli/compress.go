package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pdfslim/internal/common"
	"pdfslim/internal/compression"
	"pdfslim/internal/services"
)

func newCompressCmd() *cobra.Command {
	var (
		preset    string
		quality   int
		dpi       int
		grayscale bool
		stripMeta bool
		thumbnail bool
		target    string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "compress <file.pdf> [file.pdf...]",
		Short: "Compress one or more PDF files",
		Long: `Compress runs each file through both strategies and keeps the smaller
result. Files are processed in order; a failure in one file does not stop
the rest of the batch.

Without flags the stored preferences apply. A quality or DPI flag switches
to custom parameters, and --target searches for the highest quality that
fits the given byte budget.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := compression.Request{
				Preset:        preset,
				Quality:       quality,
				ImageDPI:      dpi,
				Grayscale:     grayscale,
				StripMetadata: stripMeta,
				Thumbnail:     thumbnail,
			}
			if target != "" {
				size, err := common.ParseSize(target)
				if err != nil {
					return fmt.Errorf("invalid target size: %w", err)
				}
				opts.Mode = compression.ModeTargetSize
				opts.TargetSize = size
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reporter := newBatchReporter()
			resp, err := app.GetCompressService().CompressBatch(ctx, services.BatchRequest{
				Files:      args,
				Options:    opts,
				OutputDir:  outputDir,
				OnProgress: reporter.handle,
			})
			reporter.close()

			if err != nil {
				if errors.Is(err, context.Canceled) && resp != nil {
					printBatchSummary(resp)
					return fmt.Errorf("cancelled after %d of %d files", resp.CompletedFiles, resp.TotalFiles)
				}
				return err
			}

			printBatchSummary(resp)
			if !resp.Success {
				return fmt.Errorf("no files were compressed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&preset, "preset", "p", "", "compression preset (good_enough, aggressive, ultra)")
	cmd.Flags().IntVarP(&quality, "quality", "q", 0, "image quality 1-100, switches to custom parameters")
	cmd.Flags().IntVarP(&dpi, "dpi", "d", 0, "image resolution for re-rendered pages (default 150)")
	cmd.Flags().BoolVar(&grayscale, "grayscale", false, "convert page images to grayscale")
	cmd.Flags().BoolVar(&stripMeta, "strip-metadata", false, "remove document information and XMP metadata")
	cmd.Flags().BoolVar(&thumbnail, "thumbnail", false, "write a PNG preview of the first page")
	cmd.Flags().StringVarP(&target, "target", "t", "", "target output size, e.g. 500KB or 2MB")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for compressed files (default: next to input)")

	return cmd
}

func printBatchSummary(resp *services.BatchResponse) {
	fmt.Println()
	for _, file := range resp.Files {
		switch {
		case file.Status == services.StatusError:
			color.New(color.FgRed).Printf("✗ %s: %s\n", file.OriginalFilename, file.Error)
		case file.Strategy == compression.StrategyNone:
			color.New(color.FgYellow).Printf("⚠ %s: already optimal, kept original (%s)\n",
				file.OriginalFilename, common.FormatSize(file.OriginalSize))
			fmt.Printf("  saved to %s\n", file.OutputPath)
		default:
			color.New(color.FgGreen).Printf("✓ %s: %s → %s (saved %s, %.1f%%)\n",
				file.OriginalFilename,
				common.FormatSize(file.OriginalSize),
				common.FormatSize(file.CompressedSize),
				common.FormatSize(file.OriginalSize-file.CompressedSize),
				file.CompressionRatio)
			fmt.Printf("  saved to %s\n", file.OutputPath)
			if !file.MetTarget {
				color.New(color.FgYellow).Printf("  ⚠ target size not reached, best effort at lowest quality\n")
			}
			if file.ThumbnailPath != "" {
				fmt.Printf("  preview %s\n", file.ThumbnailPath)
			}
		}
	}

	if resp.TotalFiles > 1 {
		fmt.Println()
		fmt.Printf("Compressed %d/%d files, %s → %s (saved %.1f%%)\n",
			resp.CompletedFiles, resp.TotalFiles,
			common.FormatSize(resp.TotalOriginalSize),
			common.FormatSize(resp.TotalCompressedSize),
			resp.OverallCompressionRatio)
	}
}
