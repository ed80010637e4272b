package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// OllamaClient talks to a local Ollama server through langchaingo.
type OllamaClient struct {
	llm     *ollama.LLM
	model   string
	baseURL string
}

// NewOllamaClient creates an Ollama client for model.
func NewOllamaClient(model, baseURL string) (*OllamaClient, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, missingModel(ProviderOllama)
	}
	base := orDefault(baseURL, defaultOllamaBaseURL)

	l, err := ollama.New(ollama.WithModel(model), ollama.WithServerURL(base))
	if err != nil {
		return nil, fmt.Errorf("creating ollama client: %w", err)
	}
	return &OllamaClient{llm: l, model: model, baseURL: base}, nil
}

// Chat sends messages to the LLM and returns the response.
func (c *OllamaClient) Chat(ctx context.Context, messages []Message) (string, error) {
	content, err := c.generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	return content, nil
}

// ChatJSON asks for JSON output and parses it into result.
func (c *OllamaClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := c.generate(ctx, messages, llms.WithJSONMode())
	if err != nil {
		return fmt.Errorf("ollama chat json: %w", err)
	}
	if err := decodeJSON(content, result); err != nil {
		return fmt.Errorf("parsing JSON response: %w (content: %s)", err, content)
	}
	return nil
}

func (c *OllamaClient) generate(ctx context.Context, messages []Message, opts ...llms.CallOption) (string, error) {
	opts = append(opts, llms.WithModel(c.model))
	resp, err := c.llm.GenerateContent(ctx, toMessageContent(messages), opts...)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}
	return resp.Choices[0].Content, nil
}

// toMessageContent maps chat roles onto langchaingo message types.
// Unknown roles are sent as the user.
func toMessageContent(messages []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, len(messages))
	for i, msg := range messages {
		kind := llms.ChatMessageTypeHuman
		switch strings.ToLower(msg.Role) {
		case RoleSystem:
			kind = llms.ChatMessageTypeSystem
		case RoleAssistant:
			kind = llms.ChatMessageTypeAI
		}
		out[i] = llms.TextParts(kind, msg.Content)
	}
	return out
}
