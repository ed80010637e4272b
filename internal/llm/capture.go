package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/semana/internal/grid"
	"github.com/javiermolinar/semana/internal/task"
)

const capturePrompt = `You are a planning assistant that turns a free-form note into a list of tasks for a weekly planner.

Context:
- Current date and time: %s
- Planner hours: %s to %s, in blocks of %d minutes
- Longest possible task: %d minutes

%s

User note: "%s"

Rules:
1. Create one task per distinct activity in the note.
2. "title" is short (under 60 characters); put details in "description".
3. "category" must be one of: %s.
4. "priority" must be one of: %s. Use "medium" when unsure.
5. "duration" is in minutes, a multiple of %d, between %d and %d.
6. Do not repeat tasks that already exist in the pool above.
7. Add a warning for anything you could not turn into a task.

Respond ONLY with valid JSON (no markdown, no explanation):
{
  "tasks": [
    {
      "title": "string",
      "description": "string",
      "category": "work",
      "priority": "medium",
      "duration": 60
    }
  ],
  "warnings": ["string"]
}`

const capturePromptCompact = `Turn the note into planner tasks. Return JSON only (no markdown).

Now: %s
Existing pool: %s
Note: "%s"

Each task: title (short), description, category (%s), priority (%s), duration (minutes, multiple of %d, %d-%d).
Schema: {"tasks":[{"title":"","description":"","category":"","priority":"","duration":0}],"warnings":[""]}`

// CaptureRequest contains the input for a capture.
type CaptureRequest struct {
	Input   string
	Now     time.Time
	Grid    grid.Config
	Pool    []task.Task // existing pool tasks, listed to avoid duplicates
	Compact bool        // shorter prompt for local models
}

// CaptureResponse contains the parsed LLM response.
type CaptureResponse struct {
	Tasks    []CapturedTask `json:"tasks"`
	Warnings []string       `json:"warnings"`
}

// CapturedTask is a task proposed by the LLM.
type CapturedTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Duration    int    `json:"duration"`
}

// Draft converts the proposal into task content. Enum fields are normalized
// but not validated.
func (ct CapturedTask) Draft() task.Draft {
	return task.Draft{
		Title:       strings.TrimSpace(ct.Title),
		Description: strings.TrimSpace(ct.Description),
		Category:    task.Category(strings.ToLower(strings.TrimSpace(ct.Category))),
		Priority:    task.Priority(strings.ToLower(strings.TrimSpace(ct.Priority))),
		Duration:    ct.Duration,
	}
}

// Capturer uses an LLM to extract tasks from natural language.
type Capturer struct {
	client Client
}

// NewCapturer creates a new Capturer with the given LLM client.
func NewCapturer(client Client) *Capturer {
	return &Capturer{client: client}
}

// Capture converts a note into proposed tasks in a single round trip.
func (c *Capturer) Capture(ctx context.Context, req CaptureRequest) (*CaptureResponse, error) {
	return c.CaptureWithMessages(ctx, c.BuildMessages(req))
}

// CaptureWithMessages runs a capture over a pre-built conversation, used when
// retrying with validation feedback.
func (c *Capturer) CaptureWithMessages(ctx context.Context, messages []Message) (*CaptureResponse, error) {
	var resp CaptureResponse
	if err := c.client.ChatJSON(ctx, messages, &resp); err != nil {
		return nil, fmt.Errorf("getting tasks from LLM: %w", err)
	}
	return &resp, nil
}

// BuildMessages creates the initial conversation for a capture request.
func (c *Capturer) BuildMessages(req CaptureRequest) []Message {
	g := req.Grid
	if g.Validate() != nil {
		g = grid.Default()
	}
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	interval := g.IntervalMinutes
	maxMinutes := g.DurationForSlots(g.TotalSlots())
	categories := joinValues(task.Categories)
	priorities := joinValues(task.Priorities)
	stamp := now.Format("Monday, 2006-01-02 15:04")

	var prompt string
	if req.Compact {
		prompt = fmt.Sprintf(capturePromptCompact,
			stamp,
			poolTitles(req.Pool),
			req.Input,
			categories, priorities, interval, interval, maxMinutes,
		)
	} else {
		prompt = fmt.Sprintf(capturePrompt,
			stamp,
			g.SlotLabel(0), g.SlotEndLabel(g.TotalSlots()-1), interval,
			maxMinutes,
			formatPool(req.Pool),
			req.Input,
			categories, priorities,
			interval, interval, maxMinutes,
		)
	}

	return []Message{
		{Role: RoleSystem, Content: prompt},
		{Role: RoleUser, Content: req.Input},
	}
}

func formatPool(pool []task.Task) string {
	if len(pool) == 0 {
		return "Tasks already in the pool: None"
	}
	var sb strings.Builder
	sb.WriteString("Tasks already in the pool:\n")
	for _, t := range pool {
		fmt.Fprintf(&sb, "- %s [%s, %s, %dm]\n", t.Title, t.Category, t.Priority, t.Duration)
	}
	return sb.String()
}

func poolTitles(pool []task.Task) string {
	if len(pool) == 0 {
		return "none"
	}
	titles := make([]string, len(pool))
	for i, t := range pool {
		titles[i] = t.Title
	}
	return strings.Join(titles, "; ")
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = `"` + string(v) + `"`
	}
	return strings.Join(parts, ", ")
}
