package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/semana/internal/grid"
	"github.com/javiermolinar/semana/internal/task"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "raw json object",
			input:    `{"tasks": []}`,
			expected: `{"tasks": []}`,
		},
		{
			name:     "json with leading text",
			input:    `Here is the response: {"tasks": [{"title": "test"}]}`,
			expected: `{"tasks": [{"title": "test"}]}`,
		},
		{
			name:     "json in code block",
			input:    "```json\n{\"tasks\": []}\n```",
			expected: `{"tasks": []}`,
		},
		{
			name:     "json in plain code block",
			input:    "```\n{\"tasks\": []}\n```",
			expected: `{"tasks": []}`,
		},
		{
			name:     "json array",
			input:    `[{"id": 1}, {"id": 2}]`,
			expected: `[{"id": 1}, {"id": 2}]`,
		},
		{
			name:     "nested json",
			input:    `{"outer": {"inner": {"deep": true}}}`,
			expected: `{"outer": {"inner": {"deep": true}}}`,
		},
		{
			name: "markdown with explanation",
			input: `Here's my analysis:

` + "```json" + `
{
  "tasks": [
    {"title": "Write code", "category": "work"}
  ]
}
` + "```" + `

Let me know if you need anything else.`,
			expected: `{
  "tasks": [
    {"title": "Write code", "category": "work"}
  ]
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJSON(tt.input)
			if got != tt.expected {
				t.Errorf("extractJSON() = %q, want %q", got, tt.expected)
			}
		})
	}
}

// fakeClient replays canned replies and records every conversation it sees.
type fakeClient struct {
	replies []string
	err     error
	calls   [][]Message
}

func (f *fakeClient) Chat(_ context.Context, messages []Message) (string, error) {
	f.calls = append(f.calls, append([]Message(nil), messages...))
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", errors.New("no more replies")
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func (f *fakeClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	return chatJSON(ctx, f, messages, result)
}

func TestCapturedTaskDraft(t *testing.T) {
	ct := CapturedTask{
		Title:       "  Gym ",
		Description: "legs day",
		Category:    "Health",
		Priority:    " HIGH",
		Duration:    60,
	}

	d := ct.Draft()
	if d.Title != "Gym" {
		t.Errorf("Title = %q, want %q", d.Title, "Gym")
	}
	if d.Category != task.CategoryHealth {
		t.Errorf("Category = %q, want %q", d.Category, task.CategoryHealth)
	}
	if d.Priority != task.PriorityHigh {
		t.Errorf("Priority = %q, want %q", d.Priority, task.PriorityHigh)
	}
	if d.Duration != 60 {
		t.Errorf("Duration = %d, want 60", d.Duration)
	}
}

func TestBuildMessages(t *testing.T) {
	c := NewCapturer(&fakeClient{})
	req := CaptureRequest{
		Input: "gym tomorrow and write report",
		Now:   time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC),
		Grid:  grid.Default(),
		Pool:  []task.Task{{Title: "Dentist", Category: task.CategoryHealth, Priority: task.PriorityLow, Duration: 40}},
	}

	msgs := c.BuildMessages(req)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != RoleSystem || msgs[1].Role != RoleUser {
		t.Errorf("unexpected roles %q, %q", msgs[0].Role, msgs[1].Role)
	}
	prompt := msgs[0].Content
	for _, want := range []string{"08:00 to 24:00", "blocks of 20 minutes", "Dentist", `"education"`, "Monday, 2026-10-19 10:00"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	req.Compact = true
	compact := c.BuildMessages(req)[0].Content
	if len(compact) >= len(prompt) {
		t.Errorf("expected compact prompt to be shorter")
	}
	if !strings.Contains(compact, "Dentist") {
		t.Errorf("compact prompt missing pool titles")
	}
}

func TestCapture(t *testing.T) {
	client := &fakeClient{replies: []string{"```json\n{\"tasks\":[{\"title\":\"Gym\",\"category\":\"health\",\"priority\":\"medium\",\"duration\":60}],\"warnings\":[\"no time given\"]}\n```"}}
	c := NewCapturer(client)

	resp, err := c.Capture(context.Background(), CaptureRequest{Input: "gym", Grid: grid.Default()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Tasks) != 1 || resp.Tasks[0].Title != "Gym" {
		t.Fatalf("unexpected tasks: %+v", resp.Tasks)
	}
	if len(resp.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %d", len(resp.Warnings))
	}
}

func TestCapture_InvalidJSON(t *testing.T) {
	c := NewCapturer(&fakeClient{replies: []string{"sorry, I cannot help"}})

	if _, err := c.Capture(context.Background(), CaptureRequest{Input: "gym"}); err == nil {
		t.Fatal("expected error for non-JSON reply")
	}
}

func TestEvaluateWeek(t *testing.T) {
	client := &fakeClient{replies: []string{"THEME: steady"}}
	e := NewEvaluator(client, grid.Default())

	week := task.NewWeek([]task.ScheduledTask{
		{Task: task.Task{ID: "a", Title: "Report", Category: task.CategoryWork, Priority: task.PriorityHigh, Duration: 80}, Day: 1, StartSlot: 3, EndSlot: 6},
	})

	got, err := e.EvaluateWeek(context.Background(), week)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "THEME: steady" {
		t.Errorf("got %q", got)
	}

	prompt := client.calls[0][1].Content
	for _, want := range []string{"Monday", "09:00-10:20", "[work/high]", "Report", "1h20m"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestFormatWeek_Empty(t *testing.T) {
	e := NewEvaluator(&fakeClient{}, grid.Default())
	if got := e.formatWeek(task.NewWeek(nil)); got != "(nothing scheduled)" {
		t.Errorf("got %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{20, "20m"},
		{60, "1h"},
		{100, "1h40m"},
	}
	for _, tc := range tests {
		if got := formatDuration(tc.minutes); got != tc.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}

func TestOAuthToken(t *testing.T) {
	data := []byte(`{"github.com:Iv1.abc":{"user":"me","oauth_token":"gho_123"}}`)
	if got := oauthToken(data); got != "gho_123" {
		t.Errorf("oauthToken() = %q, want %q", got, "gho_123")
	}
	if got := oauthToken([]byte(`{"gitlab.com":{"oauth_token":"x"}}`)); got != "" {
		t.Errorf("expected no token for other hosts, got %q", got)
	}
	if got := oauthToken([]byte(`not json`)); got != "" {
		t.Errorf("expected no token for invalid json, got %q", got)
	}
}

func TestLoadGitHubToken_Env(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")
	got, err := LoadGitHubToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "env-token" {
		t.Errorf("got %q", got)
	}
}

func TestIsLocal(t *testing.T) {
	tests := map[string]bool{
		"":          false,
		"copilot":   false,
		"Ollama":    true,
		"lm-studio": true,
		"lmstudio":  true,
	}
	for provider, want := range tests {
		if got := IsLocal(provider); got != want {
			t.Errorf("IsLocal(%q) = %v, want %v", provider, got, want)
		}
	}
}
