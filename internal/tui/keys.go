package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/semana/internal/engine"
	"github.com/javiermolinar/semana/internal/grid"
	"github.com/javiermolinar/semana/internal/store"
	"github.com/javiermolinar/semana/internal/summary"
	"github.com/javiermolinar/semana/internal/task"
	"github.com/javiermolinar/semana/internal/tui/commands"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logKeyPress(msg)

	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeForm:
		return m.handleFormKeys(msg)
	case ModeConfirm:
		return m.handleConfirmKeys(msg)
	case ModeSummary:
		return m.handleSummaryKeys(msg)
	case ModeResize:
		return m.handleResizeKeys(msg)
	case ModePickup, ModeMove, ModeCopy:
		return m.handlePlacementKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// moveCursor applies a navigation key to the grid cursor.
func (m *Model) moveCursor(key string) bool {
	last := m.grid.TotalSlots() - 1
	switch key {
	case "h", "left":
		m.cursor.Day = max(0, m.cursor.Day-1)
	case "l", "right":
		m.cursor.Day = min(grid.DaysPerWeek-1, m.cursor.Day+1)
	case "j", "down":
		m.cursor.Slot = min(last, m.cursor.Slot+1)
	case "k", "up":
		m.cursor.Slot = max(0, m.cursor.Slot-1)
	case "pgdown", "ctrl+d":
		m.cursor.Slot = min(last, m.cursor.Slot+m.visibleRows())
	case "pgup", "ctrl+u":
		m.cursor.Slot = max(0, m.cursor.Slot-m.visibleRows())
	case "g", "home":
		m.cursor.Slot = 0
	case "G", "end":
		m.cursor.Slot = last
	default:
		return false
	}
	m.ensureCursorVisible()
	return true
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		if m.focus == FocusGrid {
			m.focus = FocusPool
			m.clampPoolCursor()
		} else {
			m.focus = FocusGrid
		}
		return m, nil
	case "n":
		return m.openForm(nil)
	case "t":
		m.cursorToNow()
		return m, nil
	case "y":
		return m, commands.CopyExport(m.engine.Export())
	case "s":
		m.weekSummary = summary.SummarizeWeek(m.engine.State(), m.grid, m.now.In(m.clock.Location()))
		m.setMode(ModeSummary, "open summary")
		return m, nil
	}

	if m.focus == FocusPool {
		return m.handlePoolKeys(msg)
	}
	return m.handleGridKeys(msg)
}

// handlePoolKeys handles normal-mode keys while the pool has focus.
func (m Model) handlePoolKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.poolCursor = min(len(m.pool())-1, m.poolCursor+1)
		m.clampPoolCursor()
		return m, nil
	case "k", "up":
		m.poolCursor = max(0, m.poolCursor-1)
		return m, nil
	}

	t, ok := m.selectedPoolTask()
	if !ok {
		return m, nil
	}

	switch msg.String() {
	case "enter", " ":
		m.held = t.ID
		m.focus = FocusGrid
		m.setMode(ModePickup, "pick up pool task")
		return m, m.setStatus(fmt.Sprintf("Placing %q: pick a cell and press enter", t.Title), engine.SeverityInfo)
	case "a":
		st, err := m.engine.AutoPlace(context.Background(), t.ID, m.cursor.Day, m.cursor.Slot)
		if err != nil {
			return m, m.setStatus(err.Error(), engine.SeverityError)
		}
		m.clampPoolCursor()
		m.cursor = Position{Day: st.Day, Slot: st.StartSlot}
		m.ensureCursorVisible()
		return m, m.noticeStatus()
	case "e":
		return m.openForm(&t)
	case "x", "d":
		m.pendingDelete = deleteTarget{id: t.ID, title: t.Title}
		m.setMode(ModeConfirm, "delete pool task")
		return m, nil
	}
	return m, nil
}

// handleGridKeys handles normal-mode keys while the grid has focus.
func (m Model) handleGridKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.moveCursor(msg.String()) {
		return m, nil
	}

	st, ok := m.blockUnderCursor()
	if !ok {
		return m, nil
	}
	ctx := context.Background()

	switch msg.String() {
	case "m", "enter":
		m.held = st.ID
		m.cursor = Position{Day: st.Day, Slot: st.StartSlot}
		m.setMode(ModeMove, "move block")
		return m, m.setStatus(fmt.Sprintf("Moving %q: pick a cell and press enter", st.Title), engine.SeverityInfo)

	case "J", "K":
		if err := m.engine.StartResize(st.ID, store.EdgeBottom); err != nil {
			return m, m.setStatus(err.Error(), engine.SeverityError)
		}
		m.resizeEdge = store.EdgeBottom
		m.setMode(ModeResize, "resize block")
		return m.resizeBy(msg.String())

	case "T":
		if err := m.engine.StartResize(st.ID, store.EdgeTop); err != nil {
			return m, m.setStatus(err.Error(), engine.SeverityError)
		}
		m.resizeEdge = store.EdgeTop
		m.cursor = Position{Day: st.Day, Slot: st.StartSlot}
		m.setMode(ModeResize, "resize block top")
		return m, nil

	case "c":
		if err := m.engine.ArmCopy(st.ID); err != nil {
			return m, m.setStatus(err.Error(), engine.SeverityError)
		}
		m.setMode(ModeCopy, "copy armed")
		return m, m.noticeStatus()

	case "r":
		if _, err := m.engine.ReturnToPool(ctx, st.ID); err != nil {
			return m, m.setStatus(err.Error(), engine.SeverityError)
		}
		m.poolCursor = len(m.pool()) - 1
		return m, m.noticeStatus()

	case "x", "d":
		m.pendingDelete = deleteTarget{id: st.ID, title: st.Title, scheduled: true}
		m.setMode(ModeConfirm, "delete block")
		return m, nil
	}
	return m, nil
}

// handlePlacementKeys handles pickup, move and copy modes: the cursor
// picks a cell and enter drops the held task there.
func (m Model) handlePlacementKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.moveCursor(key) {
		return m, nil
	}

	switch key {
	case "esc", "q":
		if m.mode == ModeCopy {
			m.engine.CancelCopy()
		}
		m.held = ""
		m.setMode(ModeNormal, "placement cancelled")
		return m, m.setStatus("Cancelled", engine.SeverityInfo)

	case "enter", "p", " ":
		if key == "p" && m.mode != ModeCopy {
			return m, nil
		}
		return m.drop()
	}
	return m, nil
}

// drop places the held task at the cursor. A rejected drop keeps the
// mode so the user can pick another cell.
func (m Model) drop() (tea.Model, tea.Cmd) {
	ctx := context.Background()
	day, slot := m.cursor.Day, m.cursor.Slot

	var err error
	switch m.mode {
	case ModePickup:
		_, err = m.engine.DropPoolTask(ctx, m.held, day, slot)
	case ModeMove:
		_, err = m.engine.DropScheduled(ctx, m.held, day, slot)
	case ModeCopy:
		_, err = m.engine.PasteAt(ctx, day, slot)
	}
	if err != nil {
		return m, m.setStatus(err.Error(), engine.SeverityError)
	}

	m.held = ""
	m.clampPoolCursor()
	m.setMode(ModeNormal, "dropped")
	return m, m.noticeStatus()
}

// handleResizeKeys drags the grabbed edge of the block being resized.
func (m Model) handleResizeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down", "J", "k", "up", "K":
		return m.resizeBy(msg.String())
	case "enter":
		st, err := m.engine.EndResize(context.Background())
		m.setMode(ModeNormal, "resize done")
		if err != nil {
			return m, m.setStatus(err.Error(), engine.SeverityError)
		}
		m.cursor = Position{Day: st.Day, Slot: edgeSlot(st, m.resizeEdge)}
		m.ensureCursorVisible()
		return m, m.noticeStatus()
	case "esc":
		var id string
		if rs := m.engine.Store().Resizing(); rs != nil {
			id = rs.ID()
		}
		m.engine.AbortResize()
		if st, err := m.engine.Store().FindScheduled(id); err == nil {
			m.cursor = Position{Day: st.Day, Slot: edgeSlot(st, m.resizeEdge)}
			m.ensureCursorVisible()
		}
		m.setMode(ModeNormal, "resize cancelled")
		return m, m.setStatus("Resize cancelled", engine.SeverityInfo)
	}
	return m, nil
}

// resizeBy previews the grabbed edge one slot further down or up.
func (m Model) resizeBy(key string) (tea.Model, tea.Cmd) {
	delta := 1
	if key == "k" || key == "up" || key == "K" {
		delta = -1
	}

	var cur task.ScheduledTask
	if rs := m.engine.Store().Resizing(); rs != nil {
		cur, _ = m.engine.Store().FindScheduled(rs.ID())
	}
	st, err := m.engine.ResizeTo(edgeSlot(cur, m.resizeEdge) + delta)
	if err != nil {
		m.setMode(ModeNormal, "resize lost")
		return m, m.setStatus(err.Error(), engine.SeverityError)
	}
	m.cursor = Position{Day: st.Day, Slot: edgeSlot(st, m.resizeEdge)}
	m.ensureCursorVisible()
	return m, nil
}

// edgeSlot returns the slot of the given edge of st.
func edgeSlot(st task.ScheduledTask, edge store.Edge) int {
	if edge == store.EdgeTop {
		return st.StartSlot
	}
	return st.EndSlot
}

// handleConfirmKeys answers the delete confirmation.
func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		target := m.pendingDelete
		m.pendingDelete = deleteTarget{}
		m.setMode(ModeNormal, "delete confirmed")

		ctx := context.Background()
		if target.scheduled {
			if err := m.engine.DeleteScheduled(ctx, target.id); err != nil {
				return m, m.setStatus(err.Error(), engine.SeverityError)
			}
		} else if !m.engine.DeleteTask(ctx, target.id) {
			return m, m.setStatus(fmt.Sprintf("Task %q no longer exists", target.title), engine.SeverityWarning)
		}
		m.clampPoolCursor()
		return m, m.noticeStatus()

	case "n", "esc", "q":
		m.pendingDelete = deleteTarget{}
		m.setMode(ModeNormal, "delete cancelled")
	}
	return m, nil
}

// handleSummaryKeys handles the week summary panel.
func (m Model) handleSummaryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "s":
		m.setMode(ModeNormal, "close summary")
		return m, nil
	case "i":
		if m.summaryLoading {
			return m, nil
		}
		m.summaryLoading = true
		return m, commands.WeekSummary(m.engine.State(), summary.BuildWeekSummaryOptions{
			Now:            m.now.In(m.clock.Location()),
			Grid:           m.grid,
			IncludeInsight: true,
			Provider:       m.llm.Provider,
			Model:          m.llm.Model,
			BaseURL:        m.llm.BaseURL,
		})
	}
	return m, nil
}
