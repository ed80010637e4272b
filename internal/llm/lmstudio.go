package llm

import (
	"os"
	"strings"

	"github.com/openai/openai-go/option"
)

const defaultLMStudioBaseURL = "http://localhost:1234/v1"

// LMStudioClient talks to a model served by LM Studio.
type LMStudioClient struct {
	*chatClient
}

// NewLMStudioClient creates an LM Studio client. The API key is read from
// LMSTUDIO_API_KEY, then OPENAI_API_KEY; LM Studio accepts any value.
func NewLMStudioClient(model, baseURL string) (*LMStudioClient, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, missingModel(ProviderLMStudio)
	}
	key := firstEnv("LMSTUDIO_API_KEY", "OPENAI_API_KEY")
	if key == "" {
		key = "lm-studio"
	}
	base := orDefault(baseURL, defaultLMStudioBaseURL)
	return &LMStudioClient{newChatClient(ProviderLMStudio, model, base, option.WithAPIKey(key))}, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
