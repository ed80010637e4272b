package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/semana/internal/dateutil"
	"github.com/javiermolinar/semana/internal/grid"
	"github.com/javiermolinar/semana/internal/store"
	"github.com/javiermolinar/semana/internal/task"
)

// cellFlags are the --day/--at/--slot flags shared by placement commands.
type cellFlags struct {
	day  string
	at   string
	slot int
}

func (f *cellFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.day, "day", "", "Day: name, abbreviation, 0-6 (0=Sunday), today or tomorrow (default: today)")
	cmd.Flags().StringVar(&f.at, "at", "", "Start time (HH:MM)")
	cmd.Flags().IntVar(&f.slot, "slot", -1, "Start slot index (alternative to --at)")
	cmd.MarkFlagsMutuallyExclusive("at", "slot")
}

// resolveCell turns the flags into a grid cell.
func (a *App) resolveCell(f cellFlags) (day, slot int, err error) {
	day, err = dateutil.ParseDay(f.day, a.now().In(a.clock().Location()))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", task.ErrValidation, err)
	}

	g := a.config.GridGeometry()
	switch {
	case f.at != "":
		h, m, err := dateutil.ParseClock(f.at)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %v", task.ErrValidation, err)
		}
		s, ok := g.TimeToSlot(h, m)
		if !ok {
			return 0, 0, outsideGrid(g, f.at)
		}
		return day, s, nil
	case f.slot >= 0:
		return day, f.slot, nil
	default:
		return 0, 0, fmt.Errorf("%w: one of --at or --slot is required", task.ErrValidation)
	}
}

func (a *App) clock() grid.Clock {
	c := grid.NewClock(a.config.GridGeometry(), a.config.UTCOffset())
	c.Now = a.now
	return c
}

func outsideGrid(g grid.Config, at string) error {
	return fmt.Errorf("%w: %s is outside the grid (%s-%s)", task.ErrValidation, at,
		g.SlotLabel(0), g.SlotEndLabel(g.TotalSlots()-1))
}

func (a *App) scheduleCmd() *cobra.Command {
	var (
		cell cellFlags
		auto bool
	)

	cmd := &cobra.Command{
		Use:   "schedule <task-id>",
		Short: "Place a pool task on the grid",
		Long: `Move a task from the pool onto the weekly grid.

With --auto the task goes to the first free run of slots at or after the
given cell, continuing into later days of the week.`,
		Example: `  semana schedule 3f2c --day monday --at 09:00
  semana schedule 3f2c --day tue --slot 4
  semana schedule 3f2c --auto`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}

			if auto {
				if cell.at == "" && cell.slot < 0 {
					cell.slot = a.autoStart(cell.day)
				}
			}
			day, slot, err := a.resolveCell(cell)
			if err != nil {
				return err
			}

			var st task.ScheduledTask
			if auto {
				st, err = a.engine.AutoPlace(cmd.Context(), args[0], day, slot)
			} else {
				st, err = a.engine.DropPoolTask(cmd.Context(), args[0], day, slot)
			}
			if err != nil {
				return err
			}
			a.printPlaced("Scheduled", st)
			return nil
		},
	}

	cell.bind(cmd)
	cmd.Flags().BoolVar(&auto, "auto", false, "Use the next free slot at or after the given cell")
	return cmd
}

// autoStart picks the current slot when searching from today, otherwise the top of the day.
func (a *App) autoStart(dayFlag string) int {
	if dayFlag != "" && dayFlag != "today" {
		return 0
	}
	_, slot, ok := a.clock().Position()
	if !ok {
		return 0
	}
	return slot
}

func (a *App) moveCmd() *cobra.Command {
	var cell cellFlags

	cmd := &cobra.Command{
		Use:     "move <scheduled-id>",
		Short:   "Move a scheduled task to another cell",
		Example: `  semana move 9a1b --day friday --at 14:00`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}
			day, slot, err := a.resolveCell(cell)
			if err != nil {
				return err
			}
			st, err := a.engine.DropScheduled(cmd.Context(), args[0], day, slot)
			if err != nil {
				return err
			}
			a.printPlaced("Moved", st)
			return nil
		},
	}

	cell.bind(cmd)
	return cmd
}

func (a *App) resizeCmd() *cobra.Command {
	var (
		edgeFlag string
		to       string
		slot     int
	)

	cmd := &cobra.Command{
		Use:   "resize <scheduled-id>",
		Short: "Drag the top or bottom edge of a scheduled task",
		Long: `Change a scheduled task's length by moving one of its edges.

--to is a start time for the top edge and an end time for the bottom edge.
The edge never crosses the opposite one and stays inside the day.`,
		Example: `  semana resize 9a1b --edge bottom --to 11:00
  semana resize 9a1b --edge top --slot 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}
			edge, err := store.ParseEdge(edgeFlag)
			if err != nil {
				return err
			}
			target := slot
			if to != "" {
				target, err = a.edgeSlot(edge, to)
				if err != nil {
					return err
				}
			} else if target < 0 {
				return fmt.Errorf("%w: one of --to or --slot is required", task.ErrValidation)
			}

			st, err := a.engine.Resize(cmd.Context(), args[0], edge, target)
			if err != nil {
				return err
			}
			a.printPlaced("Resized", st)
			return nil
		},
	}

	cmd.Flags().StringVar(&edgeFlag, "edge", "bottom", "Edge to drag: top or bottom")
	cmd.Flags().StringVar(&to, "to", "", "Target time (HH:MM)")
	cmd.Flags().IntVar(&slot, "slot", -1, "Target slot index (alternative to --to)")
	cmd.MarkFlagsMutuallyExclusive("to", "slot")
	return cmd
}

// edgeSlot maps a wall-clock time to the slot an edge lands on. A bottom
// edge at 11:00 covers the slot that ends at 11:00.
func (a *App) edgeSlot(edge store.Edge, at string) (int, error) {
	g := a.config.GridGeometry()
	h, m, err := dateutil.ParseClock(at)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", task.ErrValidation, err)
	}
	if edge == store.EdgeBottom {
		mins := h*grid.MinutesPerHour + m - 1
		h, m = mins/grid.MinutesPerHour, mins%grid.MinutesPerHour
	}
	slot, ok := g.TimeToSlot(h, m)
	if !ok {
		return 0, outsideGrid(g, at)
	}
	return slot, nil
}

func (a *App) copyCmd() *cobra.Command {
	var cell cellFlags

	cmd := &cobra.Command{
		Use:   "copy <scheduled-id>",
		Short: "Place an independent copy of a scheduled task",
		Long: `Copy a scheduled task to another cell. The copy is not linked to any
pool task: returning it to the pool creates a new task.`,
		Example: `  semana copy 9a1b --day wed --at 09:00`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}
			day, slot, err := a.resolveCell(cell)
			if err != nil {
				return err
			}
			st, err := a.engine.CopyTo(cmd.Context(), args[0], day, slot)
			if err != nil {
				return err
			}
			a.printPlaced("Copied", st)
			return nil
		},
	}

	cell.bind(cmd)
	return cmd
}

func (a *App) returnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return <scheduled-id>",
		Short: "Take a scheduled task off the grid and back to the pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}
			t, err := a.engine.ReturnToPool(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Returned %s to the pool (%s)\n", t.Title, formatMuted("#"+t.ID))
			return nil
		},
	}
}

func (a *App) unscheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unschedule <scheduled-id>",
		Short: "Delete a scheduled task from the grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}
			if err := a.engine.DeleteScheduled(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Removed scheduled task #%s\n", args[0])
			return nil
		},
	}
}

func (a *App) printPlaced(verb string, st task.ScheduledTask) {
	g := a.config.GridGeometry()
	fmt.Fprintf(a.out, "%s %s on %s %s-%s %s\n",
		verb,
		st.Title,
		dateutil.DayName(st.Day),
		g.SlotLabel(st.StartSlot),
		g.SlotEndLabel(st.EndSlot),
		formatMuted("#"+st.ID),
	)
}
