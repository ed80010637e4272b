package ui

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/semana/internal/intake"
	"github.com/javiermolinar/semana/internal/llm"
	"github.com/javiermolinar/semana/internal/task"
)

const maxRetries = 3

func (a *App) captureCmd() *cobra.Command {
	var (
		modelFlag string
		dryRun    bool
		yes       bool
	)

	cmd := &cobra.Command{
		Use:   "capture [note]",
		Short: "Turn a free-form note into pool tasks",
		Long: `Use an LLM to split a note into tasks with a category, priority and
duration, then add them to the pool.

Examples:
  semana capture "Write the quarterly report, gym twice, call the bank"
  semana capture "Study Go generics for an hour" --dry-run

Interactive mode:
  After the LLM proposes tasks, you can:
  - [a]ccept: Add the tasks to the pool
  - [m]odify: Provide feedback to adjust the proposal
  - [c]ancel: Exit without saving`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}
			ctx := cmd.Context()
			input := strings.Join(args, " ")

			// Use config default for model if not overridden
			model := modelFlag
			if model == "" {
				model = a.config.LLM.Model
			}
			provider := a.config.LLM.Provider

			client, err := a.newClient(provider, model, a.config.LLM.BaseURL)
			if err != nil {
				return fmt.Errorf("creating LLM client: %w", err)
			}

			p := intake.New(client, a.config.GridGeometry(), a.engine.Store(),
				intake.WithCompactPrompt(llm.IsLocal(provider)),
				intake.WithClock(a.now),
				intake.WithLogger(a.logger),
			)

			fmt.Fprintln(a.out, "Capturing tasks...")
			result, err := p.Capture(ctx, input, maxRetries)
			if err != nil {
				return fmt.Errorf("capturing: %w", err)
			}

			reader := bufio.NewReader(a.in)
			for {
				a.displayCaptureResult(result)

				if result.HasValidationErrors() {
					fmt.Fprintln(a.out, "\nValidation errors (LLM retry limit reached):")
					for _, ve := range result.ValidationErrors {
						fmt.Fprintf(a.out, "  - %s\n", ve.Message)
					}
				}

				if dryRun {
					fmt.Fprintln(a.out, "\n(Dry run - tasks not saved)")
					return nil
				}

				choice := "a"
				if !yes || result.HasValidationErrors() {
					fmt.Fprint(a.out, "\n[a]ccept / [m]odify / [c]ancel: ")
					line, err := reader.ReadString('\n')
					if err != nil && line == "" {
						return fmt.Errorf("reading input: %w", err)
					}
					choice = strings.TrimSpace(strings.ToLower(line))
				}

				switch choice {
				case "a", "accept":
					if result.HasValidationErrors() {
						fmt.Fprintln(a.out, "Cannot save: there are unresolved validation errors.")
						fmt.Fprintln(a.out, "Please [m]odify the proposal or [c]ancel.")
						continue
					}
					return a.saveCaptured(ctx, p, result)

				case "m", "modify":
					fmt.Fprint(a.out, "What would you like to change? ")
					modification, err := reader.ReadString('\n')
					if err != nil && modification == "" {
						return fmt.Errorf("reading input: %w", err)
					}
					modification = strings.TrimSpace(modification)
					if modification == "" {
						fmt.Fprintln(a.out, "No modification provided, showing current proposal...")
						continue
					}

					fmt.Fprintln(a.out, "\nCapturing again...")
					result, err = p.Refine(ctx, modification, maxRetries)
					if err != nil {
						return fmt.Errorf("refining: %w", err)
					}

				case "c", "cancel":
					fmt.Fprintln(a.out, "Capture cancelled.")
					return nil

				default:
					fmt.Fprintln(a.out, "Invalid choice. Please enter 'a', 'm', or 'c'.")
				}
			}
		},
	}

	cmd.Flags().StringVar(&modelFlag, "model", "", "LLM model to use (from config if not set)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show proposed tasks without saving")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept a valid proposal without asking")

	return cmd
}

func (a *App) saveCaptured(ctx context.Context, p *intake.Planner, result *intake.Result) error {
	created, err := p.Save(ctx, result, a.engine)
	if err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	fmt.Fprintf(a.out, "\n%d tasks added to the pool\n", len(created))
	return nil
}

// displayCaptureResult shows the proposal to the user.
func (a *App) displayCaptureResult(result *intake.Result) {
	fmt.Fprintln(a.out)

	if len(result.Warnings) > 0 {
		fmt.Fprintln(a.out, "Warnings:")
		for _, w := range result.Warnings {
			fmt.Fprintf(a.out, "  ! %s\n", w)
		}
		fmt.Fprintln(a.out)
	}

	if len(result.Drafts) == 0 {
		fmt.Fprintln(a.out, "No tasks proposed.")
		return
	}

	fmt.Fprintln(a.out, strings.Repeat("-", 60))
	total := 0
	for _, d := range result.Drafts {
		a.displayDraft(d)
		total += d.Duration
	}
	fmt.Fprintln(a.out, strings.Repeat("-", 60))
	fmt.Fprintf(a.out, "Total: %d tasks, %s\n", len(result.Drafts), FormatDuration(total))
}

func (a *App) displayDraft(d task.Draft) {
	fmt.Fprintf(a.out, "  %s %-6s  %s  %s\n",
		formatPriority(d.Priority),
		FormatDuration(d.Duration),
		d.Title,
		formatMuted(d.Category.Label()),
	)
	if d.Description != "" {
		fmt.Fprintf(a.out, "           %s\n", formatMuted(d.Description))
	}
}
