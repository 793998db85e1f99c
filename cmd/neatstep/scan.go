package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neatstep/neatstep/internal/cli"
	"github.com/neatstep/neatstep/internal/model"
)

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <dir>",
		Short: "Scan a directory and list what the organizer sees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			org, store, err := initOrganizer(ctx, args[0], nil)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			files, err := org.Scan(ctx)
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			if len(files) == 0 {
				fmt.Println(cli.FormatInfo("No readable files found."))
				return nil
			}

			printScanTable(files)
			return nil
		},
	}
}

func printScanTable(files []model.FileDescriptor) {
	fmt.Println(cli.FormatTitle(fmt.Sprintf("Scanned %d files", len(files))))

	header := fmt.Sprintf("%-40s %-24s %10s  %s", "PATH", "TYPE", "SIZE", "SAMPLED")
	fmt.Println(cli.TableHeaderStyle.Render(header))

	var total int64
	sampled := 0
	for _, f := range files {
		total += f.Size

		mark := ""
		if f.ContentSnippet != "" {
			mark = "yes"
			sampled++
		}
		fmt.Printf("%-40s %-24s %10s  %s\n", f.Path, f.MIMEType, formatBytes(f.Size), mark)
	}

	fmt.Println()
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%d files · %s total · %d with content samples",
		len(files), formatBytes(total), sampled)))
}
