package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/semana/internal/dateutil"
	"github.com/javiermolinar/semana/internal/task"
)

func (a *App) listCmd() *cobra.Command {
	var (
		search    string
		priority  string
		category  string
		scheduled bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pool tasks",
		Long: `List the tasks waiting in the pool.

Filters combine: a task is shown when it matches all of them. --search
matches title and description, ignoring case.
With --scheduled the tasks placed on the grid are listed instead.`,
		Example: `  semana list
  semana list --search report --priority high
  semana list --category health --scheduled`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}

			filter := task.Filter{Search: search}
			if priority != "" {
				p, err := task.ParsePriority(priority)
				if err != nil {
					return err
				}
				filter.Priority = p
			}
			if category != "" {
				c, err := task.ParseCategory(category)
				if err != nil {
					return err
				}
				filter.Category = c
			}

			state := a.engine.State()
			if scheduled {
				a.printScheduled(state.ScheduledTasks, filter)
				return nil
			}

			tasks := filter.Apply(state.Tasks)
			if len(tasks) == 0 {
				fmt.Fprintln(a.out, "No tasks found.")
				return nil
			}
			for _, t := range tasks {
				fmt.Fprintf(a.out, "  %s %s  %-6s  %s  %s\n",
					formatPriority(t.Priority),
					formatMuted("#"+t.ID),
					FormatDuration(t.Duration),
					t.Title,
					formatCategory(t.Category),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Search text")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Only this priority")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Only this category")
	cmd.Flags().BoolVar(&scheduled, "scheduled", false, "List scheduled tasks instead of the pool")

	return cmd
}

func (a *App) printScheduled(scheduled []task.ScheduledTask, filter task.Filter) {
	week := task.NewWeek(scheduled)
	g := a.config.GridGeometry()
	printed := 0
	for _, day := range week.Days {
		var header bool
		for _, st := range day.Tasks() {
			if !filter.Match(st.Task) {
				continue
			}
			if !header {
				if printed > 0 {
					fmt.Fprintln(a.out)
				}
				fmt.Fprintf(a.out, "=== %s ===\n", dateutil.DayName(day.Index))
				header = true
			}
			fmt.Fprintf(a.out, "  %s %s  %s-%s  %s\n",
				formatPriority(st.Priority),
				formatMuted("#"+st.ID),
				g.SlotLabel(st.StartSlot),
				g.SlotEndLabel(st.EndSlot),
				st.Title,
			)
			printed++
		}
	}
	if printed == 0 {
		fmt.Fprintln(a.out, "No scheduled tasks found.")
	}
}
