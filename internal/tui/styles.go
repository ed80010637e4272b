package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/semana/internal/engine"
	"github.com/javiermolinar/semana/internal/task"
	"github.com/javiermolinar/semana/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	// Header
	Title        lipgloss.Style
	WeekRange    lipgloss.Style
	SyncOK       lipgloss.Style
	SyncPending  lipgloss.Style
	SyncFailed   lipgloss.Style
	SyncOffline  lipgloss.Style
	DayHeader    lipgloss.Style
	DayToday     lipgloss.Style
	TimeLabel    lipgloss.Style
	TimeLabelNow lipgloss.Style

	// Grid cells
	Empty   lipgloss.Style
	Cursor  lipgloss.Style
	NowLine lipgloss.Style

	// Pool sidebar
	Pool         lipgloss.Style
	PoolFocused  lipgloss.Style
	PoolTitle    lipgloss.Style
	PoolItem     lipgloss.Style
	PoolSelected lipgloss.Style
	PoolMuted    lipgloss.Style

	// Footer
	ModeBadge     lipgloss.Style
	ModeBadgeHeld lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	Hint          lipgloss.Style

	// Modals
	Modal         lipgloss.Style
	ModalTitle    lipgloss.Style
	ModalLabel    lipgloss.Style
	ModalText     lipgloss.Style
	ModalMuted    lipgloss.Style
	ModalSelected lipgloss.Style
	ModalError    lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{palette: p}

	s.Title = lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	s.WeekRange = lipgloss.NewStyle().Foreground(p.Fg)
	s.SyncOK = lipgloss.NewStyle().Foreground(p.Success)
	s.SyncPending = lipgloss.NewStyle().Foreground(p.Warning)
	s.SyncFailed = lipgloss.NewStyle().Bold(true).Foreground(p.Current)
	s.SyncOffline = lipgloss.NewStyle().Foreground(p.FgMuted)
	s.DayHeader = lipgloss.NewStyle().Bold(true).Foreground(p.Fg).Align(lipgloss.Center)
	s.DayToday = lipgloss.NewStyle().Bold(true).Foreground(p.TextOnAccent).Background(p.Accent).Align(lipgloss.Center)
	s.TimeLabel = lipgloss.NewStyle().Foreground(p.FgMuted).Width(timeColWidth)
	s.TimeLabelNow = lipgloss.NewStyle().Bold(true).Foreground(p.Current).Width(timeColWidth)

	s.Empty = lipgloss.NewStyle().Foreground(p.FgMuted)
	s.Cursor = lipgloss.NewStyle().Foreground(p.Fg).Background(p.BgSelection)
	s.NowLine = lipgloss.NewStyle().Foreground(p.Current)

	s.Pool = lipgloss.NewStyle().
		Width(poolWidth-1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(p.BgSelection)
	s.PoolFocused = s.Pool.BorderForeground(p.Accent)
	s.PoolTitle = lipgloss.NewStyle().Bold(true).Foreground(p.Fg)
	s.PoolItem = lipgloss.NewStyle().Foreground(p.Fg)
	s.PoolSelected = lipgloss.NewStyle().Foreground(p.Fg).Background(p.BgSelection)
	s.PoolMuted = lipgloss.NewStyle().Foreground(p.FgMuted)

	s.ModeBadge = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(p.TextOnAccent).Background(p.Accent)
	s.ModeBadgeHeld = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(p.TextOnWarning).Background(p.Warning)
	s.StatusInfo = lipgloss.NewStyle().Foreground(p.Fg)
	s.StatusSuccess = lipgloss.NewStyle().Foreground(p.Success)
	s.StatusWarning = lipgloss.NewStyle().Foreground(p.Warning)
	s.StatusError = lipgloss.NewStyle().Bold(true).Foreground(p.Current)
	s.Hint = lipgloss.NewStyle().Foreground(p.FgMuted)

	s.Modal = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Modal.Border).
		Background(p.Modal.Bg).
		Padding(1, 2)
	s.ModalTitle = lipgloss.NewStyle().Bold(true).Foreground(p.Modal.Highlight)
	s.ModalLabel = lipgloss.NewStyle().Foreground(p.Modal.Muted).Width(10)
	s.ModalText = lipgloss.NewStyle().Foreground(p.Modal.Text)
	s.ModalMuted = lipgloss.NewStyle().Foreground(p.Modal.Muted)
	s.ModalSelected = lipgloss.NewStyle().Bold(true).Foreground(p.TextOnAccent).Background(p.Accent)
	s.ModalError = lipgloss.NewStyle().Foreground(p.Current)

	return s
}

// Block returns the style of a block cell drawn in the task's color.
func (s *Styles) Block(color string, selected bool) lipgloss.Style {
	bg := s.palette.BlockBg(color)
	if selected {
		bg = s.palette.BlockBgSelected(color)
	}
	return lipgloss.NewStyle().Background(bg).Foreground(s.palette.TextOn(bg))
}

// Ghost returns the style of the placement preview. Conflicting previews
// use the warning color.
func (s *Styles) Ghost(color string, conflict bool) lipgloss.Style {
	if conflict {
		return lipgloss.NewStyle().Background(s.palette.Warning).Foreground(s.palette.TextOnWarning)
	}
	bg := s.palette.GhostBg(color)
	return lipgloss.NewStyle().Background(bg).Foreground(s.palette.TextOn(bg))
}

// CategoryMarker renders the colored dot for a category.
func (s *Styles) CategoryMarker(c task.Category) string {
	return lipgloss.NewStyle().Foreground(s.palette.Category(c)).Render("●")
}

// Status returns the footer style for a notice severity.
func (s *Styles) Status(sev engine.Severity) lipgloss.Style {
	switch sev {
	case engine.SeveritySuccess:
		return s.StatusSuccess
	case engine.SeverityWarning:
		return s.StatusWarning
	case engine.SeverityError:
		return s.StatusError
	default:
		return s.StatusInfo
	}
}

// SyncBadge renders the persistence indicator.
func (s *Styles) SyncBadge(status engine.SyncStatus) string {
	switch status {
	case engine.SyncSynced:
		return s.SyncOK.Render("● saved")
	case engine.SyncSaving:
		return s.SyncPending.Render("● saving")
	case engine.SyncSaveFailed:
		return s.SyncFailed.Render("● save failed")
	default:
		return s.SyncOffline.Render("○ in memory")
	}
}
