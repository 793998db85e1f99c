package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/neatstep/neatstep/internal/cli"
	"github.com/neatstep/neatstep/internal/engine"
	"github.com/neatstep/neatstep/internal/model"
	"github.com/neatstep/neatstep/internal/review"
	"github.com/neatstep/neatstep/internal/tui"
)

func organizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organize <dir>",
		Short: "Scan, classify and reorganize a directory",
		Long: `Runs the full cycle: scans the directory, sends compact file summaries
to the AI collaborator for a plan, lets you review and adjust the plan,
then applies the approved moves and refreshes the dashboard.`,
		Args: cobra.ExactArgs(1),
		RunE: runOrganize,
	}

	cmd.Flags().Bool("tui", false, "use the full-screen review interface")
	cmd.Flags().Bool("yes", false, "skip review and apply all non-sensitive suggestions")
	cmd.Flags().String("feedback", "", "seed the analysis with an organization preference")
	_ = viper.BindPFlag("review.tui", cmd.Flags().Lookup("tui"))

	return cmd
}

func runOrganize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	autoApply, _ := cmd.Flags().GetBool("yes")
	feedback, _ := cmd.Flags().GetString("feedback")

	classifier, err := createClassifier()
	if err != nil {
		return err
	}

	org, store, err := initOrganizer(ctx, args[0], classifier)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	files, err := org.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if len(files) == 0 {
		fmt.Println(cli.FormatInfo("Nothing to organize: no readable files found."))
		return nil
	}
	fmt.Println(cli.FormatInfo(fmt.Sprintf("Found %d files.", len(files))))

	// Review can loop back into analysis with refinement feedback.
	for {
		analysis, err := analyzeWithProgress(ctx, org, feedback)
		if err != nil {
			return err
		}

		outcome, err := reviewAnalysis(ctx, analysis, autoApply)
		if err != nil {
			return err
		}

		switch outcome.Action {
		case review.ActionAbort:
			fmt.Println(cli.FormatInfo("No changes made."))
			return nil
		case review.ActionRefine:
			feedback = outcome.Feedback
			fmt.Println(cli.FormatInfo("Re-analyzing with your feedback..."))
			continue
		case review.ActionApply:
			return applyAndReport(ctx, org, outcome.Selected)
		}
	}
}

func analyzeWithProgress(ctx context.Context, org *engine.Organizer, feedback string) (model.AggregateAnalysis, error) {
	bar := cli.NewAnalysisProgress(len(org.Files()), os.Stdout)

	analysis, err := org.Analyze(ctx, feedback, func(processed, _ int) {
		_ = bar.Set(processed)
	})
	if err != nil {
		fmt.Println()
		return model.AggregateAnalysis{}, fmt.Errorf("analysis failed: %w", err)
	}

	return analysis, nil
}

func reviewAnalysis(ctx context.Context, analysis model.AggregateAnalysis, autoApply bool) (review.Outcome, error) {
	if autoApply {
		gate := review.NewGate(analysis)
		selected := gate.Selected()
		if len(selected) == 0 {
			return review.Outcome{Action: review.ActionAbort}, nil
		}
		return review.Outcome{Action: review.ActionApply, Selected: selected}, nil
	}

	if viper.GetBool("review.tui") {
		return tui.Run(ctx, analysis)
	}

	return cli.NewPrompter(nil, nil).Review(ctx, analysis)
}

func applyAndReport(ctx context.Context, org *engine.Organizer, selected []model.AnalysisResult) error {
	summary, err := org.Apply(ctx, selected)
	if err != nil {
		return fmt.Errorf("apply failed: %w", err)
	}

	content := fmt.Sprintf("%s Files moved: %d\n", cli.SuccessIcon, summary.FilesMoved) +
		fmt.Sprintf("%s Junk collected: %d\n", cli.TrashIcon, summary.JunkMoved) +
		fmt.Sprintf("%s Folders touched: %d\n", cli.FolderIcon, summary.FoldersCreated) +
		fmt.Sprintf("%s Failed: %d", cli.ErrorIcon, summary.Failed)
	fmt.Println(cli.RenderBox("Organization Complete", content))

	if summary.Failed > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%d items could not be moved; see history for details.", summary.Failed)))
	}

	// Insight refresh is best-effort; give it until the command is done.
	select {
	case <-org.RefreshInsights(ctx):
	case <-ctx.Done():
		slog.Debug("Insight refresh interrupted")
	}

	return nil
}
