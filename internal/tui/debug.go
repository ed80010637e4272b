package tui

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/semana/internal/logging"
)

// DebugLogPath is the fixed path for debug logs.
const DebugLogPath = "semana-debug.log"

// OpenDebugLog creates a JSON debug log at path. The TUI owns the terminal,
// so this file is the only place its logs can go. Call the returned
// function to close it.
func OpenDebugLog(path string) (*slog.Logger, func() error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating debug log: %w", err)
	}

	logger, err := logging.New(f, "debug", logging.FormatJSON)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}

	logger.Debug("debug start", slog.String("log_file", path))
	closeFn := func() error {
		logger.Debug("debug end")
		return f.Close()
	}
	return logger, closeFn, nil
}

// logKeyPress logs a keystroke with the mode it arrived in.
func (m Model) logKeyPress(msg tea.KeyMsg) {
	m.logger.Debug("key press",
		slog.String("key", msg.String()),
		slog.String("mode", m.mode.String()),
		slog.Int("day", m.cursor.Day),
		slog.Int("slot", m.cursor.Slot),
	)
}

func (m Model) logModeChange(from, to Mode, reason string) {
	m.logger.Debug("mode change",
		slog.String("from", from.String()),
		slog.String("to", to.String()),
		slog.String("reason", reason),
	)
}
