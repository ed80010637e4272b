package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var errNoChoices = errors.New("no response choices returned")

// chatClient talks to an OpenAI-compatible chat endpoint.
type chatClient struct {
	client   openai.Client
	provider string
	model    string
	baseURL  string
}

func newChatClient(provider, model, baseURL string, opts ...option.RequestOption) *chatClient {
	opts = append([]option.RequestOption{option.WithBaseURL(baseURL)}, opts...)
	return &chatClient{
		client:   openai.NewClient(opts...),
		provider: provider,
		model:    model,
		baseURL:  baseURL,
	}
}

// Chat sends messages to the LLM and returns the response.
func (c *chatClient) Chat(ctx context.Context, messages []Message) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: toOpenAIMessages(messages),
	})
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", c.provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s chat completion: %w", c.provider, errNoChoices)
	}
	return resp.Choices[0].Message.Content, nil
}

// ChatJSON sends messages and parses the response as JSON into result.
func (c *chatClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	return chatJSON(ctx, c, messages, result)
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			out[i] = openai.SystemMessage(msg.Content)
		case RoleAssistant:
			out[i] = openai.AssistantMessage(msg.Content)
		default:
			out[i] = openai.UserMessage(msg.Content)
		}
	}
	return out
}

// chatJSON runs chat and decodes the JSON payload of the reply.
func chatJSON(ctx context.Context, c Client, messages []Message, result any) error {
	content, err := c.Chat(ctx, messages)
	if err != nil {
		return err
	}
	if err := decodeJSON(content, result); err != nil {
		return fmt.Errorf("parsing JSON response: %w (content: %s)", err, content)
	}
	return nil
}
