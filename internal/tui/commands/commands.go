// Package commands provides TUI command constructors and message types.
//
// Commands here never touch the engine: the engine is driven synchronously
// from Update, and commands only receive copies of its state.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/semana/internal/exchange"
	"github.com/javiermolinar/semana/internal/summary"
	"github.com/javiermolinar/semana/internal/task"
)

// TickMsg is sent periodically so the now marker follows the clock.
type TickMsg time.Time

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message set with sequence Seq.
type ClearStatusMsg struct {
	Seq int
}

// WeekSummaryMsg is sent when week summary data is ready.
type WeekSummaryMsg struct {
	Summary *summary.WeekSummary
}

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// Tick fires a TickMsg after d.
func Tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// ClearStatusAfter clears status message seq after d unless a newer one
// replaced it.
func ClearStatusAfter(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}

// CopyExport copies the export document for snap to the clipboard.
func CopyExport(snap task.Snapshot) tea.Cmd {
	return func() tea.Msg {
		data, err := exchange.Encode(snap)
		if err != nil {
			return ErrMsg{Err: err}
		}
		if err := writeClipboard(string(data)); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return StatusMsgCmd{Msg: fmt.Sprintf("Copied %d tasks and %d scheduled tasks to the clipboard",
			len(snap.Tasks), len(snap.ScheduledTasks))}
	}
}

// snapshotSource serves a fixed snapshot to the summary builder.
type snapshotSource task.Snapshot

func (s snapshotSource) State() task.Snapshot { return task.Snapshot(s) }

// WeekSummary builds a week summary, with LLM insight when requested, from
// a copy of the planner state.
func WeekSummary(snap task.Snapshot, opts summary.BuildWeekSummaryOptions) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		weekSummary, err := summary.BuildWeekSummary(ctx, snapshotSource(snap), opts)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return WeekSummaryMsg{Summary: weekSummary}
	}
}
