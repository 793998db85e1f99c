package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neatstep/neatstep/internal/cli"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard counters and cached insights",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stats, err := store.GetStats(ctx)
			if err != nil {
				return fmt.Errorf("failed to load stats: %w", err)
			}
			if stats == nil {
				fmt.Println(cli.FormatInfo("No stats yet. Run organize first."))
				return nil
			}

			content := fmt.Sprintf("%s Files analyzed: %d\n", cli.ChartIcon, stats.FilesAnalyzed) +
				fmt.Sprintf("%s Junk found: %d\n", cli.TrashIcon, stats.JunkFound) +
				fmt.Sprintf("%s Folders created: %d\n", cli.FolderIcon, stats.FoldersCreated) +
				fmt.Sprintf("%s Space analyzed: %s", cli.InfoIcon, formatBytes(stats.SpaceAnalyzed))
			fmt.Println(cli.RenderBox("Dashboard", content))

			if len(stats.AIInsights) == 0 {
				return nil
			}

			fmt.Println(cli.FormatTitle("Insights"))
			for _, insight := range stats.AIInsights {
				fmt.Printf("%s %s %s\n", cli.RobotIcon,
					cli.BoldStyle.Render(insight.Title),
					cli.SubtleStyle.Render(fmt.Sprintf("[%s/%s]", insight.Type, insight.Priority)))
				fmt.Printf("   %s\n", insight.Description)
			}
			return nil
		},
	}
}
