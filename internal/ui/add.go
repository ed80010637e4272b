package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/semana/internal/task"
)

// taskFlags are the content flags shared by add and edit.
type taskFlags struct {
	description string
	category    string
	priority    string
	duration    int
	color       string
}

func (f *taskFlags) bind(cmd *cobra.Command, defaults bool) {
	category, priority, duration := "", "", 0
	if defaults {
		category, priority, duration = string(task.CategoryOther), string(task.PriorityMedium), 60
	}
	cmd.Flags().StringVar(&f.description, "description", "", "Longer description")
	cmd.Flags().StringVarP(&f.category, "category", "c", category, "Category: work, personal, health, education, other")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", priority, "Priority: high, medium, low")
	cmd.Flags().IntVarP(&f.duration, "duration", "d", duration, "Duration in minutes")
	cmd.Flags().StringVar(&f.color, "color", "", "Display color (#RRGGBB)")
}

func (a *App) addCmd() *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new task to the pool",
		Long: `Add a new task to the pool of unscheduled tasks.

Example:
  semana add "Write report" --duration=40 --category=work --priority=high`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}

			t, err := a.engine.CreateTask(cmd.Context(), task.Draft{
				Title:       args[0],
				Description: flags.description,
				Category:    task.Category(flags.category),
				Priority:    task.Priority(flags.priority),
				Duration:    flags.duration,
				Color:       flags.color,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Created task #%s: %s [%s] %s %s\n",
				t.ID,
				t.Title,
				formatCategory(t.Category),
				formatPriority(t.Priority),
				FormatDuration(t.Duration),
			)
			return nil
		},
	}

	flags.bind(cmd, true)
	return cmd
}

func (a *App) editCmd() *cobra.Command {
	var (
		flags taskFlags
		title string
	)

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Edit a pool task",
		Long: `Change fields of a pool task. Only the flags given are changed.

Scheduled instances created from the task pick up the new content. A new
duration also resizes them, unless one would overlap or leave the grid.`,
		Example: `  semana edit 3f2c --title "Write final report" --duration 60`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}

			var f task.Fields
			changed := cmd.Flags().Changed
			if changed("title") {
				f.Title = &title
			}
			if changed("description") {
				f.Description = &flags.description
			}
			if changed("category") {
				c := task.Category(flags.category)
				f.Category = &c
			}
			if changed("priority") {
				p := task.Priority(flags.priority)
				f.Priority = &p
			}
			if changed("duration") {
				f.Duration = &flags.duration
			}
			if changed("color") {
				f.Color = &flags.color
			}
			if f.IsEmpty() {
				return fmt.Errorf("%w: nothing to change", task.ErrValidation)
			}

			t, err := a.engine.EditTask(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated task #%s: %s [%s] %s %s\n",
				t.ID, t.Title, formatCategory(t.Category), formatPriority(t.Priority), FormatDuration(t.Duration))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	flags.bind(cmd, false)
	return cmd
}

func (a *App) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Delete a pool task",
		Long:  `Delete a task from the pool. Scheduled instances stay on the grid.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}
			if !a.engine.DeleteTask(cmd.Context(), args[0]) {
				return fmt.Errorf("%w: task %s", task.ErrNotFound, args[0])
			}
			fmt.Fprintf(a.out, "Deleted task #%s\n", args[0])
			return nil
		},
	}
}
