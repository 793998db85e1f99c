package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neatstep/neatstep/internal/cli"
	"github.com/neatstep/neatstep/internal/model"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the activity log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if clear, _ := cmd.Flags().GetBool("clear"); clear {
				if err := store.ClearLogs(ctx); err != nil {
					return fmt.Errorf("failed to clear history: %w", err)
				}
				fmt.Println(cli.FormatSuccess("Activity history cleared."))
				return nil
			}

			entries, err := store.GetAllLogs(ctx)
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}

			if len(entries) == 0 {
				fmt.Println(cli.FormatInfo("No activity recorded yet."))
				return nil
			}

			for _, entry := range entries {
				fmt.Println(formatLogEntry(entry))
			}
			return nil
		},
	}

	cmd.Flags().Bool("clear", false, "delete all recorded activity")
	return cmd
}

func formatLogEntry(entry model.ActivityLogEntry) string {
	status := cli.StyleSuccess(string(entry.Status))
	switch entry.Status {
	case model.StatusFailed:
		status = cli.StyleError(string(entry.Status))
	case model.StatusPending:
		status = cli.StyleWarning(string(entry.Status))
	}

	return fmt.Sprintf("%s  %-8s %-8s %s",
		cli.SubtleStyle.Render(entry.Timestamp.Format("2006-01-02 15:04:05")),
		entry.Action, status, entry.Details)
}
