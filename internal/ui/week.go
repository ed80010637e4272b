package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/semana/internal/summary"
)

func (a *App) weekCmd() *cobra.Command {
	var model string
	var insight bool
	var verbose bool
	var noColor bool

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show this week's grid",
		Long: `Display this week's scheduled tasks, Sunday through Saturday, with totals
and how much of the grid is booked. With --insight an LLM comments on the
balance of the week.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}

			if model == "" {
				model = a.config.LLM.Model
			}

			weekSummary, err := summary.BuildWeekSummary(cmd.Context(), a.engine, summary.BuildWeekSummaryOptions{
				Now:            a.now().In(a.clock().Location()),
				Grid:           a.config.GridGeometry(),
				IncludeInsight: insight,
				Provider:       a.config.LLM.Provider,
				Model:          model,
				BaseURL:        a.config.LLM.BaseURL,
			})
			if err != nil {
				return fmt.Errorf("building week summary: %w", err)
			}

			a.printWeek(weekSummary, verbose)
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "LLM model to use (default from config)")
	cmd.Flags().BoolVar(&insight, "insight", false, "Ask the LLM to comment on the week")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show full task titles")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func (a *App) printWeek(s *summary.WeekSummary, verbose bool) {
	if s.Stats.Blocks == 0 {
		fmt.Fprintln(a.out, "No tasks scheduled for this week.")
		if s.PoolTasks > 0 {
			fmt.Fprintf(a.out, "%d tasks are waiting in the pool.\n", s.PoolTasks)
		}
		return
	}

	header := fmt.Sprintf("WEEK: %s - %s", s.Start.Format("Mon Jan 2"), s.End.Format("Mon Jan 2, 2006"))
	fmt.Fprintf(a.out, "\n  %s\n", formatHeader(header))
	fmt.Fprintln(a.out, strings.Repeat("─", 74))

	opts := PrintOpts{
		Grid:         a.config.GridGeometry(),
		Verbose:      verbose,
		ShowDuration: true,
	}
	PrintWeekTable(a.out, s.Week, opts, opts.CalcMaxDescWidth(36))

	fmt.Fprintln(a.out, strings.Repeat("─", 74))
	PrintStats(a.out, s)
	fmt.Fprintf(a.out, "  Booked: %s\n", UtilizationBar(s.Stats.Minutes, s.Capacity, 20))

	if s.Insight != "" {
		fmt.Fprintln(a.out)
		fmt.Fprintf(a.out, "  %s\n", formatHeader("INSIGHT"))
		fmt.Fprintln(a.out, strings.Repeat("─", 74))
		PrintInsightWrapped(a.out, s.Insight, 72)
	}

	fmt.Fprintln(a.out)
}
