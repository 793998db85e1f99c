package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/neatstep/neatstep/internal/model"
	"github.com/neatstep/neatstep/internal/review"
	"github.com/schollz/progressbar/v3"
)

// Prompter implements the line-based review surface over a review gate. It
// renders the organization plan, lets the user adjust the selection, and
// returns the decision without touching the filesystem itself.
type Prompter struct {
	writer io.Writer
	reader *bufio.Reader
}

// NewPrompter creates a new line prompter with the given reader and writer.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &Prompter{
		reader: bufio.NewReader(reader),
		writer: writer,
	}
}

// Review walks the user through one aggregate analysis and returns the
// outcome: apply the selected items, refine with feedback, or abort.
func (p *Prompter) Review(ctx context.Context, analysis model.AggregateAnalysis) (review.Outcome, error) {
	select {
	case <-ctx.Done():
		return review.Outcome{}, ctx.Err()
	default:
	}

	gate := review.NewGate(analysis)

	if _, err := fmt.Fprintln(p.writer, RenderBox("Organization Plan", p.formatPlan(analysis))); err != nil {
		return review.Outcome{}, fmt.Errorf("failed to write plan box: %w", err)
	}

	if analysis.IsAlreadyOrganized {
		outcome, handled, err := p.alreadyOrganizedAdvisory(ctx)
		if err != nil {
			return review.Outcome{}, err
		}
		if handled {
			return outcome, nil
		}
	}

	p.printItems(gate)
	p.printCommands()

	for {
		select {
		case <-ctx.Done():
			return review.Outcome{}, ctx.Err()
		default:
		}

		if _, err := fmt.Fprintf(p.writer, "%s ", FormatPrompt(fmt.Sprintf("[%d/%d selected]", gate.SelectedCount(), gate.SelectableCount()))); err != nil {
			return review.Outcome{}, fmt.Errorf("failed to write prompt: %w", err)
		}

		line, err := p.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return review.Outcome{Action: review.ActionAbort}, nil
			}
			return review.Outcome{}, err
		}

		cmd, arg := splitCommand(line)

		switch cmd {
		case "toggle", "t":
			p.handleToggle(gate, arg)
		case "grant", "g":
			p.handleGrant(gate, arg)
		case "all", "a":
			gate.SelectAll()
			p.printItems(gate)
		case "list", "l":
			p.printItems(gate)
		case "go":
			selected := gate.Selected()
			if len(selected) == 0 {
				p.writeln(FormatWarning("Nothing selected. Toggle at least one item or quit."))
				continue
			}
			return review.Outcome{Action: review.ActionApply, Selected: selected}, nil
		case "refine", "r":
			if arg == "" {
				p.writeln(FormatError("Usage: refine <feedback>"))
				continue
			}
			return review.Outcome{Action: review.ActionRefine, Feedback: arg}, nil
		case "quit", "q":
			return review.Outcome{Action: review.ActionAbort}, nil
		case "help", "h", "?":
			p.printCommands()
		default:
			p.writeln(FormatError(fmt.Sprintf("Unknown command %q. Type help for the command list.", cmd)))
		}
	}
}

// alreadyOrganizedAdvisory offers the keep / fresh-strategy choice when the
// classifier reports the folder is already tidy. The second return is false
// when the user wants to continue into the normal review loop.
func (p *Prompter) alreadyOrganizedAdvisory(ctx context.Context) (review.Outcome, bool, error) {
	p.writeln(FormatInfo("This folder already looks well organized."))
	p.writeln("  [K] Keep it as is")
	p.writeln("  [F] Ask for a fresh organization strategy anyway")
	p.writeln("  [R] Review the suggestions manually")
	p.writeln("")

	for {
		select {
		case <-ctx.Done():
			return review.Outcome{}, false, ctx.Err()
		default:
		}

		if _, err := fmt.Fprintf(p.writer, "%s ", FormatPrompt("Choice [K/F/R]")); err != nil {
			return review.Outcome{}, false, fmt.Errorf("failed to write advisory prompt: %w", err)
		}

		line, err := p.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return review.Outcome{Action: review.ActionAbort}, true, nil
			}
			return review.Outcome{}, false, err
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "k":
			p.writeln(FormatSuccess("Keeping the folder untouched."))
			return review.Outcome{Action: review.ActionAbort}, true, nil
		case "f":
			return review.Outcome{Action: review.ActionRefine, Feedback: review.FreshStrategyFeedback}, true, nil
		case "r":
			return review.Outcome{}, false, nil
		default:
			p.writeln(FormatError("Invalid choice. Please try again."))
		}
	}
}

func (p *Prompter) handleToggle(gate *review.Gate, arg string) {
	item, ok := p.itemByIndex(gate, arg)
	if !ok {
		return
	}
	if gate.IsLocked(item.OriginalName) {
		p.writeln(FormatWarning(fmt.Sprintf("%s contains sensitive data. Use grant to consent first.", item.OriginalName)))
		return
	}
	gate.Toggle(item.OriginalName)
	p.printItems(gate)
}

func (p *Prompter) handleGrant(gate *review.Gate, arg string) {
	item, ok := p.itemByIndex(gate, arg)
	if !ok {
		return
	}
	if !item.ContainsSensitiveData {
		p.writeln(FormatInfo(fmt.Sprintf("%s is not sensitive, no consent needed.", item.OriginalName)))
		return
	}
	gate.GrantConsent(item.OriginalName)
	p.writeln(FormatSuccess(fmt.Sprintf("Consent granted for %s.", item.OriginalName)))
	p.printItems(gate)
}

func (p *Prompter) itemByIndex(gate *review.Gate, arg string) (model.AnalysisResult, bool) {
	items := gate.Items()
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(items) {
		p.writeln(FormatError(fmt.Sprintf("Expected an item number between 1 and %d.", len(items))))
		return model.AnalysisResult{}, false
	}
	return items[n-1], true
}

func (p *Prompter) formatPlan(analysis model.AggregateAnalysis) string {
	plan := fmt.Sprintf("%s %s\n\n", InfoIcon, analysis.Summary) +
		fmt.Sprintf("%s Strategy: %s\n", RobotIcon, analysis.Strategy) +
		fmt.Sprintf("%s Impact score: %d/100\n", ChartIcon, analysis.ImpactScore) +
		fmt.Sprintf("%s Suggestions: %d", FolderIcon, len(analysis.Analyses))

	if analysis.IsAlreadyOrganized {
		plan += "\n\n" + WarningStyle.Render("Already organized")
	}

	return plan
}

func (p *Prompter) printItems(gate *review.Gate) {
	for i, a := range gate.Items() {
		mark := " "
		if gate.IsSelected(a.OriginalName) {
			mark = SuccessStyle.Render(SuccessIcon)
		}

		var badges []string
		if gate.IsLocked(a.OriginalName) {
			badges = append(badges, WarningStyle.Render(LockIcon+" sensitive"))
		}
		if a.IsJunk {
			badges = append(badges, SubtleStyle.Render(TrashIcon+" junk"))
		}

		target := a.SuggestedFolder
		if a.KeepsInRoot() {
			target = "(stay in root)"
		}

		line := fmt.Sprintf(" [%s] %2d. %s → %s/%s", mark, i+1, a.OriginalName, target, a.SuggestedName)
		if len(badges) > 0 {
			line += "  " + strings.Join(badges, " ")
		}
		p.writeln(line)
		p.writeln(SubtleStyle.Render(fmt.Sprintf("        %s · %s", a.Category, a.Reason)))
	}
}

func (p *Prompter) printCommands() {
	p.writeln(SubtleStyle.Render("Commands: toggle <n> · grant <n> · all · list · go · refine <text> · quit"))
}

func (p *Prompter) writeln(s string) {
	if _, err := fmt.Fprintln(p.writer, s); err != nil {
		slog.Warn("Failed to write output", "error", err)
	}
}

func splitCommand(line string) (cmd, arg string) {
	fields := strings.SplitN(strings.TrimSpace(line), " ", 2)
	cmd = strings.ToLower(fields[0])
	if len(fields) > 1 {
		arg = strings.TrimSpace(fields[1])
	}
	return cmd, arg
}

// NewAnalysisProgress builds the progress bar shown while chunks are sent to
// the classifier. total is the number of scanned files.
func NewAnalysisProgress(total int, writer io.Writer) *progressbar.ProgressBar {
	if writer == nil {
		writer = os.Stdout
	}

	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Analyzing files...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
