package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/semana/internal/task"
)

// Color definitions for consistent styling across the UI.
var (
	// Priorities: red for urgent, yellow for normal, dim for later
	colorHigh   = color.New(color.FgRed, color.Bold)
	colorMedium = color.New(color.FgYellow)
	colorLow    = color.New(color.FgWhite, color.Faint)

	// Insight/results: yellow to make it pop
	colorInsight = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: green for positive metrics
	colorStats = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)

	colorWarning = color.New(color.FgYellow, color.Bold)
)

// categoryColors mirrors the grid palette used by the week view.
var categoryColors = map[task.Category]*color.Color{
	task.CategoryWork:      color.New(color.FgBlue),
	task.CategoryPersonal:  color.New(color.FgMagenta),
	task.CategoryHealth:    color.New(color.FgGreen),
	task.CategoryEducation: color.New(color.FgCyan),
	task.CategoryOther:     color.New(color.FgWhite),
}

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatPriority(p task.Priority) string {
	if p == "" {
		return "[ ]"
	}
	label := "[" + string(p[0:1]) + "]"
	switch p {
	case task.PriorityHigh:
		return colorHigh.Sprint(label)
	case task.PriorityLow:
		return colorLow.Sprint(label)
	default:
		return colorMedium.Sprint(label)
	}
}

func formatCategory(c task.Category) string {
	if col, ok := categoryColors[c]; ok {
		return col.Sprint(c.Label())
	}
	return string(c)
}

// formatInsight formats text for insight/coaching output.
func formatInsight(s string) string {
	return colorInsight.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

func formatWarning(s string) string {
	return colorWarning.Sprint(s)
}
