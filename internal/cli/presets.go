package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pdfslim/internal/compression"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in compression presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("%-14s %-8s %s\n", "NAME", "QUALITY", "DPI")
			for _, p := range compression.Presets() {
				marker := ""
				if p.Name == compression.DefaultPreset {
					marker = "  (default)"
				}
				fmt.Printf("%-14s %-8d %d%s\n", p.Name, p.Quality, p.ImageDPI, marker)
			}
			return nil
		},
	}
}
