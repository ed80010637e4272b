// Package tui provides the terminal user interface for semana.
package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/semana/internal/config"
	"github.com/javiermolinar/semana/internal/engine"
	"github.com/javiermolinar/semana/internal/grid"
	"github.com/javiermolinar/semana/internal/logging"
	"github.com/javiermolinar/semana/internal/store"
	"github.com/javiermolinar/semana/internal/summary"
	"github.com/javiermolinar/semana/internal/task"
	"github.com/javiermolinar/semana/internal/tui/commands"
	"github.com/javiermolinar/semana/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal  Mode = iota
	ModePickup       // Carrying a pool task to a cell
	ModeMove         // Carrying a scheduled block to a cell
	ModeCopy         // Copy armed, waiting for a paste
	ModeResize       // Dragging an edge of a block
	ModeForm         // New or edit task form
	ModeConfirm      // Delete confirmation
	ModeSummary      // Week summary panel
)

// String returns the label shown in the footer.
func (m Mode) String() string {
	switch m {
	case ModePickup:
		return "PICK UP"
	case ModeMove:
		return "MOVE"
	case ModeCopy:
		return "COPY"
	case ModeResize:
		return "RESIZE"
	case ModeForm:
		return "FORM"
	case ModeConfirm:
		return "CONFIRM"
	case ModeSummary:
		return "SUMMARY"
	default:
		return "NORMAL"
	}
}

// Focus is the pane that receives navigation keys.
type Focus int

const (
	FocusGrid Focus = iota
	FocusPool
)

// Position represents a cursor position in the grid.
type Position struct {
	Day  int // 0=Sunday, 6=Saturday
	Slot int
}

const (
	timeColWidth  = 7
	poolWidth     = 32
	minColWidth   = 8
	chromeLines   = 4 // header, day names, status, hints
	statusTimeout = 4 * time.Second
	tickInterval  = time.Minute
)

// Options configures the TUI.
type Options struct {
	Grid   grid.Config
	Offset time.Duration // UTC offset for the "now" marker
	Theme  string
	Logger *slog.Logger
	LLM    config.LLMConfig

	// Now overrides the wall clock. Used by tests.
	Now func() time.Time
}

// deleteTarget is what the confirm modal will delete.
type deleteTarget struct {
	id        string
	title     string
	scheduled bool
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	engine *engine.Engine
	grid   grid.Config
	clock  grid.Clock
	llm    config.LLMConfig
	logger *slog.Logger

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// State
	mode       Mode
	focus      Focus
	cursor     Position
	poolCursor int
	top        int        // First visible slot
	held       string     // Pool task or block carried in pickup and move mode
	resizeEdge store.Edge // Edge dragged in resize mode

	// Modal state
	form           taskForm
	pendingDelete  deleteTarget
	weekSummary    *summary.WeekSummary
	summaryLoading bool

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg      string
	statusSeverity engine.Severity
	statusSeq      int

	now time.Time
}

// New creates the model for e. The engine must already be loaded.
func New(e *engine.Engine, opts Options) (Model, error) {
	t, err := theme.Load(opts.Theme)
	if err != nil {
		return Model{}, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	clock := grid.NewClock(opts.Grid, opts.Offset)
	if opts.Now != nil {
		clock.Now = opts.Now
	}

	m := Model{
		engine: e,
		grid:   opts.Grid,
		clock:  clock,
		llm:    opts.LLM,
		logger: logging.WithOperation(logger, "tui"),
		theme:  t,
		styles: NewStyles(t),
		now:    clock.Now(),
	}
	m.cursorToNow()
	return m, nil
}

// Run starts the TUI and blocks until the user quits.
func Run(e *engine.Engine, opts Options) error {
	m, err := New(e, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// Init starts the minute tick that moves the "now" marker.
func (m Model) Init() tea.Cmd {
	return commands.Tick(tickInterval)
}

// cursorToNow puts the cursor on the current day and slot, or the first
// slot of today when the moment is outside the grid's hours.
func (m *Model) cursorToNow() {
	day, slot, ok := m.clock.PositionAt(m.now)
	if !ok {
		slot = 0
	}
	m.cursor = Position{Day: day, Slot: slot}
	m.ensureCursorVisible()
}

func (m Model) pool() []task.Task {
	return m.engine.Store().Pool()
}

func (m Model) scheduled() []task.ScheduledTask {
	return m.engine.Store().Scheduled()
}

// blockAt returns the block covering the cell, if any.
func (m Model) blockAt(day, slot int) (task.ScheduledTask, bool) {
	for _, st := range m.scheduled() {
		if st.Day == day && slot >= st.StartSlot && slot <= st.EndSlot {
			return st, true
		}
	}
	return task.ScheduledTask{}, false
}

// blockUnderCursor returns the block at the cursor when the grid has focus.
func (m Model) blockUnderCursor() (task.ScheduledTask, bool) {
	if m.focus != FocusGrid {
		return task.ScheduledTask{}, false
	}
	return m.blockAt(m.cursor.Day, m.cursor.Slot)
}

func (m Model) selectedPoolTask() (task.Task, bool) {
	pool := m.pool()
	if m.poolCursor < 0 || m.poolCursor >= len(pool) {
		return task.Task{}, false
	}
	return pool[m.poolCursor], true
}

// clampPoolCursor keeps the pool selection inside the list after removals.
func (m *Model) clampPoolCursor() {
	n := len(m.pool())
	if m.poolCursor >= n {
		m.poolCursor = n - 1
	}
	if m.poolCursor < 0 {
		m.poolCursor = 0
	}
}

// visibleRows returns how many slots fit on screen.
func (m Model) visibleRows() int {
	rows := m.height - chromeLines
	if m.height == 0 {
		rows = m.grid.TotalSlots()
	}
	return max(1, min(rows, m.grid.TotalSlots()))
}

// ensureCursorVisible scrolls so the cursor slot is on screen.
func (m *Model) ensureCursorVisible() {
	rows := m.visibleRows()
	if m.cursor.Slot < m.top {
		m.top = m.cursor.Slot
	}
	if m.cursor.Slot >= m.top+rows {
		m.top = m.cursor.Slot - rows + 1
	}
	m.top = max(0, min(m.top, m.grid.TotalSlots()-rows))
}

// colWidth returns the width of one day column.
func (m Model) colWidth() int {
	w := (m.width - timeColWidth - poolWidth) / grid.DaysPerWeek
	return max(minColWidth, w)
}

// setMode switches mode and logs the transition.
func (m *Model) setMode(to Mode, reason string) {
	if m.mode == to {
		return
	}
	m.logModeChange(m.mode, to, reason)
	m.mode = to
}

// setStatus shows msg in the footer and schedules its removal.
func (m *Model) setStatus(msg string, sev engine.Severity) tea.Cmd {
	m.statusSeq++
	m.statusMsg = msg
	m.statusSeverity = sev
	return commands.ClearStatusAfter(statusTimeout, m.statusSeq)
}

// noticeStatus shows the engine's last notice.
func (m *Model) noticeStatus() tea.Cmd {
	n := m.engine.LastNotice()
	if n.Message == "" {
		return nil
	}
	return m.setStatus(n.Message, n.Severity)
}
