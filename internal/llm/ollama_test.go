package llm

import (
	"testing"

	"github.com/tmc/langchaingo/llms"
)

func TestToMessageContent(t *testing.T) {
	got := toMessageContent([]Message{
		{Role: RoleSystem, Content: "plan"},
		{Role: "USER", Content: "gym twice"},
		{Role: RoleAssistant, Content: "{}"},
		{Role: "tool", Content: "x"},
	})

	expected := []llms.ChatMessageType{
		llms.ChatMessageTypeSystem,
		llms.ChatMessageTypeHuman,
		llms.ChatMessageTypeAI,
		llms.ChatMessageTypeHuman,
	}
	if len(got) != len(expected) {
		t.Fatalf("expected %d messages, got %d", len(expected), len(got))
	}
	for i, want := range expected {
		if got[i].Role != want {
			t.Errorf("message %d: expected role %s, got %s", i, want, got[i].Role)
		}
	}
	part, ok := got[1].Parts[0].(llms.TextContent)
	if !ok || part.Text != "gym twice" {
		t.Errorf("expected text part %q, got %#v", "gym twice", got[1].Parts[0])
	}
}

func TestNewOllamaClient_TrimsModel(t *testing.T) {
	c, err := NewOllamaClient(" llama3 ", "")
	if err != nil {
		t.Fatalf("NewOllamaClient: %v", err)
	}
	if c.model != "llama3" {
		t.Errorf("expected model %q, got %q", "llama3", c.model)
	}
}
