package cli

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pdfslim/internal/common"
	"pdfslim/internal/compression"
)

func newEstimateCmd() *cobra.Command {
	var (
		preset  string
		quality int
		dpi     int
	)

	cmd := &cobra.Command{
		Use:   "estimate <file.pdf> [file.pdf...]",
		Short: "Predict compressed sizes without writing any output",
		Long: `Estimate predicts the compressed size of each file from its size and the
chosen parameters alone. It never opens the documents, so it is instant
and approximate.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, d := quality, dpi
			if q == 0 {
				name := preset
				if name == "" {
					name = compression.DefaultPreset
				}
				p, ok := compression.PresetByName(name)
				if !ok {
					return fmt.Errorf("unknown preset %q", name)
				}
				q, d = p.Quality, p.ImageDPI
			} else if d == 0 {
				d = 150
			}

			failed := 0
			for _, path := range args {
				original, estimated, err := app.GetCompressService().EstimateFile(path, q, d)
				if err != nil {
					color.New(color.FgRed).Printf("✗ %s: %v\n", path, err)
					failed++
					continue
				}
				fmt.Printf("%s: %s, estimated %s at quality %d / %d DPI\n",
					filepath.Base(path),
					common.FormatSize(original),
					common.FormatSize(estimated),
					q, d)
			}

			if failed == len(args) {
				return fmt.Errorf("no files could be estimated")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&preset, "preset", "p", "", "compression preset to estimate for")
	cmd.Flags().IntVarP(&quality, "quality", "q", 0, "image quality 1-100")
	cmd.Flags().IntVarP(&dpi, "dpi", "d", 0, "image resolution in DPI")

	return cmd
}
