package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/semana/internal/dateutil"
	"github.com/javiermolinar/semana/internal/grid"
	"github.com/javiermolinar/semana/internal/scheduler"
	"github.com/javiermolinar/semana/internal/task"
)

// View renders the current state.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	switch m.mode {
	case ModeForm:
		return m.placeModal(m.renderForm())
	case ModeConfirm:
		return m.placeModal(m.renderConfirm())
	case ModeSummary:
		return m.placeModal(m.renderSummary())
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderGrid(), m.renderPool())
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderStatus(),
		m.renderHints(),
	)
}

func (m Model) placeModal(content string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.styles.Modal.Render(content))
}

// weekStart returns Sunday of the displayed week in the clock's zone.
func (m Model) weekStart() time.Time {
	return dateutil.WeekStart(m.now.In(m.clock.Location()))
}

func (m Model) renderHeader() string {
	start := m.weekStart()
	end := start.AddDate(0, 0, grid.DaysPerWeek-1)
	left := m.styles.Title.Render("semana") + "  " +
		m.styles.WeekRange.Render(fmt.Sprintf("%s – %s", start.Format("Mon Jan 2"), end.Format("Mon Jan 2, 2006")))
	right := m.styles.SyncBadge(m.engine.SyncStatus())

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return ansi.Truncate(left, m.width, "…")
	}
	return left + strings.Repeat(" ", gap) + right
}

// ghost is the preview of where the held task would land.
type ghost struct {
	st       task.ScheduledTask
	conflict bool
}

func (g *ghost) covers(day, slot int) bool {
	return g != nil && g.st.Day == day && slot >= g.st.StartSlot && slot <= g.st.EndSlot
}

// placementGhost returns the preview for pickup, move and copy mode.
func (m Model) placementGhost() *ghost {
	var (
		src     task.Task
		slots   int
		exclude string
	)
	switch m.mode {
	case ModePickup:
		t, err := m.engine.Store().FindTask(m.held)
		if err != nil {
			return nil
		}
		src, slots = t, m.grid.SlotsForDuration(t.Duration)
	case ModeMove:
		st, err := m.engine.Store().FindScheduled(m.held)
		if err != nil {
			return nil
		}
		src, slots, exclude = st.Task, st.Slots(), st.ID
	case ModeCopy:
		tmpl, ok := m.engine.CopyTemplate()
		if !ok {
			return nil
		}
		src, slots = tmpl.Task, tmpl.Slots()
	default:
		return nil
	}

	day, slot := m.cursor.Day, m.cursor.Slot
	g := &ghost{st: task.ScheduledTask{
		Task:      src,
		Day:       day,
		StartSlot: slot,
		EndSlot:   min(slot+slots-1, m.grid.TotalSlots()-1),
	}}
	g.conflict = !m.grid.FitsRange(day, slot, slots) ||
		scheduler.HasConflict(m.scheduled(), day, slot, slots, exclude)
	return g
}

// occupancy maps each cell to the block covering it.
func (m Model) occupancy() [grid.DaysPerWeek][]*task.ScheduledTask {
	var cells [grid.DaysPerWeek][]*task.ScheduledTask
	total := m.grid.TotalSlots()
	for d := range cells {
		cells[d] = make([]*task.ScheduledTask, total)
	}
	scheduled := m.scheduled()
	for i := range scheduled {
		st := &scheduled[i]
		if !m.grid.IsValidDay(st.Day) {
			continue
		}
		for s := max(0, st.StartSlot); s <= st.EndSlot && s < total; s++ {
			cells[st.Day][s] = st
		}
	}
	return cells
}

func (m Model) renderGrid() string {
	cw := m.colWidth()
	rows := m.visibleRows()
	start := m.weekStart()
	nowDay, nowSlot, nowOK := m.clock.PositionAt(m.now)
	cells := m.occupancy()
	g := m.placementGhost()

	lines := make([]string, 0, rows+1)

	var header strings.Builder
	header.WriteString(strings.Repeat(" ", timeColWidth))
	for d := range grid.DaysPerWeek {
		label := fmt.Sprintf("%s %d", dateutil.ShortDayName(d), dateutil.DateOf(start, d).Day())
		style := m.styles.DayHeader
		if d == nowDay {
			style = m.styles.DayToday
		}
		header.WriteString(style.Width(cw).Render(ansi.Truncate(label, cw, "")))
	}
	lines = append(lines, header.String())

	for slot := m.top; slot < m.top+rows && slot < m.grid.TotalSlots(); slot++ {
		var row strings.Builder
		if nowOK && slot == nowSlot {
			row.WriteString(m.styles.TimeLabelNow.Render("▶" + m.grid.SlotLabel(slot)))
		} else {
			row.WriteString(m.styles.TimeLabel.Render(" " + m.grid.SlotLabel(slot)))
		}
		for d := range grid.DaysPerWeek {
			isNow := nowOK && d == nowDay && slot == nowSlot
			row.WriteString(m.renderCell(d, slot, cw, cells[d][slot], g, isNow))
		}
		lines = append(lines, row.String())
	}

	return strings.Join(lines, "\n")
}

// renderCell draws one grid cell. The ghost is drawn over blocks so a
// conflicting drop is visible.
func (m Model) renderCell(day, slot, cw int, st *task.ScheduledTask, g *ghost, isNow bool) string {
	cursor := m.focus == FocusGrid && m.cursor.Day == day && m.cursor.Slot == slot
	fit := func(text string) string {
		return ansi.Truncate(" "+text, cw, "…")
	}

	if g.covers(day, slot) {
		text := ""
		if slot == g.st.StartSlot {
			text = g.st.Title
		}
		return m.styles.Ghost(g.st.Color, g.conflict).Width(cw).Render(fit(text))
	}

	if st != nil {
		text := ""
		switch slot - st.StartSlot {
		case 0:
			text = "▍" + st.Title
		case 1:
			text = m.grid.SlotLabel(st.StartSlot) + "-" + m.grid.SlotEndLabel(st.EndSlot)
		}
		selected := m.mode != ModeMove && m.focus == FocusGrid &&
			m.cursor.Day == st.Day && m.cursor.Slot >= st.StartSlot && m.cursor.Slot <= st.EndSlot
		return m.styles.Block(st.Color, selected).Width(cw).Render(fit(text))
	}

	switch {
	case cursor:
		return m.styles.Cursor.Width(cw).Render(fit("·"))
	case isNow:
		return m.styles.NowLine.Width(cw).Render(strings.Repeat("─", cw))
	default:
		return m.styles.Empty.Width(cw).Render("")
	}
}

func (m Model) renderPool() string {
	rows := m.visibleRows() + 1
	inner := poolWidth - 2
	pool := m.pool()

	total := 0
	for _, t := range pool {
		total += t.Duration
	}

	lines := make([]string, 0, rows)
	lines = append(lines, m.styles.PoolTitle.Render(
		ansi.Truncate(fmt.Sprintf("Pool · %d tasks · %s", len(pool), formatMinutes(total)), inner, "…")))

	visible := rows - 1
	first := max(0, m.poolCursor-visible+1)
	for i := first; i < len(pool) && len(lines) < rows; i++ {
		lines = append(lines, m.renderPoolItem(pool[i], i, inner))
	}
	if len(pool) == 0 {
		lines = append(lines, m.styles.PoolMuted.Render("No tasks. Press n to add one."))
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}

	for i, line := range lines {
		lines[i] = " " + line
	}
	style := m.styles.Pool
	if m.focus == FocusPool && m.mode == ModeNormal {
		style = m.styles.PoolFocused
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) renderPoolItem(t task.Task, i, inner int) string {
	dur := formatMinutes(t.Duration)
	titleWidth := max(1, inner-len(dur)-3)
	title := ansi.Truncate(t.Title, titleWidth, "…")
	text := " " + title + strings.Repeat(" ", titleWidth-ansi.StringWidth(title)) + " " + dur

	switch {
	case m.mode == ModePickup && t.ID == m.held:
		return m.styles.CategoryMarker(t.Category) + m.styles.PoolMuted.Render(text)
	case m.focus == FocusPool && i == m.poolCursor:
		return m.styles.CategoryMarker(t.Category) + m.styles.PoolSelected.Render(text)
	default:
		return m.styles.CategoryMarker(t.Category) + m.styles.PoolItem.Render(text)
	}
}

func (m Model) renderStatus() string {
	var b strings.Builder
	if m.mode != ModeNormal {
		badge := m.styles.ModeBadge
		if m.mode == ModePickup || m.mode == ModeMove || m.mode == ModeResize {
			badge = m.styles.ModeBadgeHeld
		}
		b.WriteString(badge.Render(m.mode.String()))
		b.WriteString(" ")
	}

	if m.statusMsg != "" {
		b.WriteString(m.styles.Status(m.statusSeverity).Render(m.statusMsg))
	} else {
		b.WriteString(m.styles.Hint.Render(m.describeCursor()))
	}
	return ansi.Truncate(b.String(), m.width, "…")
}

// describeCursor names the cell under the cursor and the block on it.
func (m Model) describeCursor() string {
	if m.focus == FocusPool {
		if t, ok := m.selectedPoolTask(); ok {
			return fmt.Sprintf("%s · %s · %s · %s", t.Title, t.Category.Label(), t.Priority.Label(), formatMinutes(t.Duration))
		}
		return ""
	}
	cell := fmt.Sprintf("%s %s", dateutil.DayName(m.cursor.Day), m.grid.SlotLabel(m.cursor.Slot))
	if st, ok := m.blockAt(m.cursor.Day, m.cursor.Slot); ok {
		return fmt.Sprintf("%s · %s %s-%s · %s", cell, st.Title,
			m.grid.SlotLabel(st.StartSlot), m.grid.SlotEndLabel(st.EndSlot), formatMinutes(st.Duration))
	}
	return cell
}

func (m Model) renderHints() string {
	var hints string
	switch m.mode {
	case ModePickup, ModeMove:
		hints = "hjkl move · enter drop · esc cancel"
	case ModeCopy:
		hints = "hjkl move · p/enter paste · esc cancel"
	case ModeResize:
		hints = fmt.Sprintf("j/k drag %s edge · enter apply · esc cancel", m.resizeEdge)
	default:
		if m.focus == FocusPool {
			hints = "j/k select · enter pick up · a auto-place · e edit · x delete · n new · tab grid · s summary · q quit"
		} else {
			hints = "hjkl move · m move · J/K resize · T resize top · c copy · r return · x delete · n new · tab pool · t today · s summary · y export · q quit"
		}
	}
	return m.styles.Hint.Render(ansi.Truncate(hints, m.width, "…"))
}

func (m Model) renderConfirm() string {
	what := "task"
	if m.pendingDelete.scheduled {
		what = "scheduled task"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.ModalTitle.Render("Delete "+what+"?"),
		"",
		m.styles.ModalText.Render(fmt.Sprintf("%q", m.pendingDelete.title)),
		"",
		m.styles.ModalMuted.Render("y confirm · n cancel"),
	)
}

const (
	summaryBarWidth = 20
	summaryWidth    = 52
)

func (m Model) renderSummary() string {
	s := m.styles
	ws := m.weekSummary
	if ws == nil {
		return s.ModalMuted.Render("No summary")
	}

	util := ws.Utilization()
	filled := min(summaryBarWidth, int(util*summaryBarWidth+0.5))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", summaryBarWidth-filled)

	rows := []string{
		s.ModalTitle.Render(fmt.Sprintf("Week of %s – %s", ws.Start.Format("Jan 2"), ws.End.Format("Jan 2, 2006"))),
		"",
		s.ModalLabel.Render("Scheduled") + s.ModalText.Render(fmt.Sprintf("%s in %d blocks", formatMinutes(ws.Stats.Minutes), ws.Stats.Blocks)),
		s.ModalLabel.Render("Booked") + s.ModalText.Render(fmt.Sprintf("%s %d%%", bar, int(util*100+0.5))),
		s.ModalLabel.Render("Pool") + s.ModalText.Render(fmt.Sprintf("%d tasks, %s", ws.PoolTasks, formatMinutes(ws.PoolMinutes))),
	}
	if day, minutes := ws.Stats.BusiestDay(); day >= 0 {
		rows = append(rows, s.ModalLabel.Render("Busiest")+
			s.ModalText.Render(fmt.Sprintf("%s (%s)", dateutil.DayName(day), formatMinutes(minutes))))
	}

	if ws.Stats.Blocks > 0 {
		rows = append(rows, "", s.ModalTitle.Render("By category"))
		for _, c := range task.Categories {
			minutes := ws.Stats.ByCategory[c]
			if minutes == 0 {
				continue
			}
			rows = append(rows, s.CategoryMarker(c)+" "+s.ModalLabel.Render(c.Label())+s.ModalText.Render(formatMinutes(minutes)))
		}
	}

	switch {
	case m.summaryLoading:
		rows = append(rows, "", s.ModalMuted.Render("Asking for insight..."))
	case ws.Insight != "":
		rows = append(rows, "", s.ModalTitle.Render("Insight"),
			s.ModalText.Width(summaryWidth).Render(ws.Insight))
	}

	rows = append(rows, "", s.ModalMuted.Render("i insight · esc close"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// formatMinutes formats a duration as "40m", "2h" or "1h20m".
func formatMinutes(minutes int) string {
	h, mm := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", mm)
	case mm == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%dm", h, mm)
	}
}
