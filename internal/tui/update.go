package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/semana/internal/engine"
	"github.com/javiermolinar/semana/internal/logging"
	"github.com/javiermolinar/semana/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorVisible()
		m.logger.Debug("window size", slog.Int("width", m.width), slog.Int("height", m.height))
		return m, nil

	case commands.TickMsg:
		m.now = time.Time(msg)
		return m, commands.Tick(tickInterval)

	case commands.StatusMsgCmd:
		cmd := m.setStatus(msg.Msg, engine.SeveritySuccess)
		return m, cmd

	case commands.ErrMsg:
		m.summaryLoading = false
		m.logger.Warn("command failed", logging.Err(msg.Err))
		cmd := m.setStatus("Error: "+msg.Err.Error(), engine.SeverityError)
		return m, cmd

	case commands.ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.statusMsg = ""
		}
		return m, nil

	case commands.WeekSummaryMsg:
		m.summaryLoading = false
		m.weekSummary = msg.Summary
		return m, nil
	}

	// Cursor blink and other input messages.
	if m.mode == ModeForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}
	return m, nil
}
