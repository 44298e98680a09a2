package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pdfslim/internal/common"
	"pdfslim/internal/services"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently compressed files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := app.GetStatsService().History(limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No compressions recorded yet.")
				return nil
			}

			for _, rec := range records {
				fmt.Printf("%s  %-32s %9s → %-9s %5.1f%%  %s\n",
					rec.CreatedAt.Format("2006-01-02 15:04"),
					rec.FileName,
					common.FormatSize(rec.OriginalSize),
					common.FormatSize(rec.CompressedSize),
					rec.Ratio,
					rec.Strategy)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", services.DefaultHistoryLimit, "number of entries to show")

	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show compression statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := app.GetStatsService().GetStats()
			if err != nil {
				return err
			}

			fmt.Printf("Session:  %d files, %s saved\n",
				stats.SessionFilesCompressed, common.FormatSize(stats.SessionDataSaved))
			fmt.Printf("All time: %d files, %s saved\n",
				stats.TotalFilesCompressed, common.FormatSize(stats.TotalDataSaved))
			return nil
		},
	}
}
