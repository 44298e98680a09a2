package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pdfslim/internal/config"
	"pdfslim/internal/container"
	"pdfslim/internal/database"
)

var (
	verbose bool
	noColor bool

	// app is built once in PersistentPreRunE and shared by all commands.
	app *container.Container
)

var rootCmd = &cobra.Command{
	Use:   "pdfslim",
	Short: "Compress PDF documents from the command line",
	Long: `pdfslim shrinks PDF files with two strategies: a structural repack that
drops unreferenced objects and merges duplicate streams, and a raster
rebuild that re-renders pages as lossy images. For every document the
smaller result wins, and the output is never larger than the input.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		cfg := config.New()
		db, err := database.NewDatabase(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}

		app = container.New(cfg, db, logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newCompressCmd())
	rootCmd.AddCommand(newEstimateCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newPresetsCmd())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
