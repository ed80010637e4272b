package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/javiermolinar/semana/internal/dateutil"
	"github.com/javiermolinar/semana/internal/grid"
	"github.com/javiermolinar/semana/internal/summary"
	"github.com/javiermolinar/semana/internal/task"
)

// PrintOpts configures task printing behavior.
type PrintOpts struct {
	Grid         grid.Config
	Verbose      bool // Show full titles
	ShowDuration bool // Show duration column
	MaxDescWidth int  // Maximum title width (0 = auto)
}

// CalcMaxDescWidth calculates the maximum title width based on options.
func (o PrintOpts) CalcMaxDescWidth(defaultWidth int) int {
	if o.MaxDescWidth > 0 {
		return o.MaxDescWidth
	}
	if !o.Verbose {
		return defaultWidth
	}
	tw := termWidth()
	// Base: "    [h]  HH:MM-HH:MM  " = ~22 chars
	// Category and duration suffix: ~18 chars
	overhead := 22
	if o.ShowDuration {
		overhead += 18
	}
	available := tw - overhead
	if available > defaultWidth {
		return available
	}
	return defaultWidth
}

// PrintTaskRow prints a single scheduled task row with consistent formatting.
func PrintTaskRow(w io.Writer, st task.ScheduledTask, opts PrintOpts, maxDescWidth int) {
	title := truncate(st.Title, maxDescWidth)
	start, end := opts.Grid.SlotLabel(st.StartSlot), opts.Grid.SlotEndLabel(st.EndSlot)

	if opts.ShowDuration {
		fmt.Fprintf(w, "    %s  %s-%s  %-*s  %s  %s\n",
			formatPriority(st.Priority), start, end,
			maxDescWidth, title,
			formatCategory(st.Category), formatMuted(FormatDuration(st.Duration)))
		return
	}
	fmt.Fprintf(w, "    %s  %s-%s  %s\n", formatPriority(st.Priority), start, end, title)
}

// PrintWeekTable prints the week's instances grouped by day.
func PrintWeekTable(w io.Writer, week *task.Week, opts PrintOpts, maxDescWidth int) {
	first := true
	for _, day := range week.Days {
		if day.Len() == 0 {
			continue
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false
		fmt.Fprintf(w, "  %s\n", formatHeader(dateutil.DayName(day.Index)))
		for _, st := range day.Tasks() {
			PrintTaskRow(w, st, opts, maxDescWidth)
		}
	}
}

// PrintStats prints the week's totals, category split and busiest day.
func PrintStats(w io.Writer, s *summary.WeekSummary) {
	stats := s.Stats
	fmt.Fprintf(w, "  Scheduled: %s  |  Blocks: %d  |  Pool: %d tasks (%s)\n",
		formatStats(FormatDuration(stats.Minutes)), stats.Blocks, s.PoolTasks, FormatDuration(s.PoolMinutes))

	var parts []string
	for _, c := range task.Categories {
		if m := stats.ByCategory[c]; m > 0 {
			parts = append(parts, fmt.Sprintf("%s %s", formatCategory(c), FormatDuration(m)))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "  %s\n", strings.Join(parts, "  |  "))
	}

	if day, minutes := stats.BusiestDay(); day >= 0 {
		fmt.Fprintf(w, "  Busiest day: %s (%s)\n", dateutil.DayName(day), formatStats(FormatDuration(minutes)))
	}
}

// UtilizationBar creates an ASCII bar showing how much of the week is booked.
func UtilizationBar(used, capacity, width int) string {
	if capacity == 0 || used == 0 {
		return "[" + strings.Repeat("░", width) + "] (0% booked)"
	}

	used = min(used, capacity)
	pct := (used * 100) / capacity
	filled := (used * width) / capacity

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", formatStats(bar), formatStats(fmt.Sprintf("(%d%% booked)", pct)))
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 3 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// PrintInsightWrapped formats and prints insight text preserving structure.
func PrintInsightWrapped(w io.Writer, text string, width int) {
	// Strip markdown code blocks
	text = stripMarkdownCodeBlocks(text)

	lines := strings.Split(text, "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			fmt.Fprintln(w)
			continue
		}

		// Detect and format special line types
		prefix, content, contentWidth, isHeader := parseInsightLine(trimmed, width)
		if isHeader {
			fmt.Fprintln(w)
			fmt.Fprintln(w, formatHeader("  "+content))
			continue
		}

		wrapAndPrint(w, content, prefix, contentWidth)
	}
}

// parseInsightLine parses a line and returns formatting info.
func parseInsightLine(trimmed string, width int) (prefix, content string, contentWidth int, isHeader bool) {
	prefix = "  "
	content = trimmed
	contentWidth = width - 2

	switch {
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
		prefix = "    • "
		content = strings.TrimPrefix(strings.TrimPrefix(trimmed, "- "), "* ")
		contentWidth = width - 6

	case strings.HasPrefix(trimmed, "#"):
		content = strings.TrimLeft(trimmed, "# ")
		isHeader = true

	case strings.HasPrefix(trimmed, ">"):
		content = strings.TrimPrefix(trimmed, "> ")
		prefix = "  │ "
		contentWidth = width - 4

	case isNumberedItem(trimmed):
		idx := strings.Index(trimmed, ".")
		prefix = "  " + trimmed[:idx+1] + " "
		content = strings.TrimSpace(trimmed[idx+1:])
		contentWidth = width - len(prefix)
	}

	return prefix, content, contentWidth, isHeader
}

// isNumberedItem checks if a line starts with a number followed by a period.
func isNumberedItem(s string) bool {
	if len(s) < 3 {
		return false
	}
	if s[0] < '1' || s[0] > '9' {
		return false
	}
	if s[1] == '.' {
		return true
	}
	return s[1] >= '0' && s[1] <= '9' && len(s) > 3 && s[2] == '.'
}

// wrapAndPrint wraps text to width and prints with the given prefix.
func wrapAndPrint(w io.Writer, text, prefix string, width int) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}

	continuation := strings.Repeat(" ", len([]rune(prefix)))
	current := prefix
	line := ""
	for _, word := range words {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			fmt.Fprintln(w, formatInsight(current+line))
			current = continuation
			line = word
		}
	}
	fmt.Fprintln(w, formatInsight(current+line))
}

// stripMarkdownCodeBlocks removes ```...``` fences from text.
func stripMarkdownCodeBlocks(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if !inCodeBlock {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
