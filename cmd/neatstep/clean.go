package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neatstep/neatstep/internal/cli"
)

func cleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean <dir>",
		Short: "Remove empty folders left behind by reorganizations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			org, store, err := initOrganizer(ctx, args[0], nil)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			removed, err := org.CleanEmptyFolders(ctx)
			if err != nil {
				return fmt.Errorf("clean failed: %w", err)
			}

			if removed == 0 {
				fmt.Println(cli.FormatInfo("No empty folders found."))
				return nil
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Removed %d empty folders.", removed)))
			return nil
		},
	}
}
