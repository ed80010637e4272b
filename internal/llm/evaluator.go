package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/javiermolinar/semana/internal/dateutil"
	"github.com/javiermolinar/semana/internal/grid"
	"github.com/javiermolinar/semana/internal/task"
)

const evaluatorSystemPrompt = `You are a minimalist planning coach. Output ONLY the exact format shown - no markdown, no extra text. Be extremely concise.`

const evaluatorPromptTemplate = `Review this weekly plan and output EXACTLY this format (no markdown, no code blocks):

THEME: [ 2-4 word theme ]

⚖️  BALANCE: One sentence about how time is split across categories.
🔥 OVERLOAD: Name the busiest day and whether it looks sustainable.
🎯 PRIORITIES: Mention if high priority work is scheduled late in the week.

NEXT STEP:
➜  One specific change to the plan.

Data Format:
- Each line: start-end [category/priority] title duration

Weekly Plan:
%s

Rules:
- Use the exact emoji prefixes shown (⚖️, 🔥, 🎯, ➜)
- Keep each line under 70 characters
- Be specific with days, times and durations from the data
- If no issue exists for a line, omit that line
- Output plain text only, no markdown formatting`

// Evaluator produces a short LLM review of a weekly plan.
type Evaluator struct {
	client Client
	grid   grid.Config
}

// NewEvaluator creates a new Evaluator with the given LLM client and grid.
func NewEvaluator(client Client, g grid.Config) *Evaluator {
	return &Evaluator{client: client, grid: g}
}

// EvaluateWeek sends the week's scheduled tasks to the LLM for review.
func (e *Evaluator) EvaluateWeek(ctx context.Context, week *task.Week) (string, error) {
	prompt := fmt.Sprintf(evaluatorPromptTemplate, e.formatWeek(week))
	return e.client.Chat(ctx, []Message{
		{Role: RoleSystem, Content: evaluatorSystemPrompt},
		{Role: RoleUser, Content: prompt},
	})
}

// formatWeek renders the week as plain lines for LLM consumption.
func (e *Evaluator) formatWeek(week *task.Week) string {
	var sb strings.Builder
	for i := range grid.DaysPerWeek {
		day := week.Day(i)
		if day == nil || day.Len() == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(dateutil.DayName(i))
		sb.WriteString("\n")
		for _, st := range day.Tasks() {
			fmt.Fprintf(&sb, "  %s-%s  [%s/%s]  %s  %s\n",
				e.grid.SlotLabel(st.StartSlot),
				e.grid.SlotEndLabel(st.EndSlot),
				st.Category,
				st.Priority,
				st.Title,
				formatDuration(st.Duration))
		}
	}
	if sb.Len() == 0 {
		return "(nothing scheduled)"
	}
	return sb.String()
}

// formatDuration formats minutes as a compact duration like "1h20m".
func formatDuration(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", mins)
	case mins == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh%dm", hours, mins)
	}
}
