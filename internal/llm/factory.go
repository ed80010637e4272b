package llm

import (
	"errors"
	"fmt"
	"strings"
)

// Providers.
const (
	ProviderCopilot  = "copilot"
	ProviderOllama   = "ollama"
	ProviderLMStudio = "lmstudio"
)

// ErrModelRequired is returned by local providers when no model is set.
var ErrModelRequired = errors.New("model is required")

type provider struct {
	local   bool
	baseURL string
	build   func(model, baseURL string) (Client, error)
}

var providers = map[string]provider{
	ProviderCopilot: {
		baseURL: copilotBaseURL,
		build:   func(model, _ string) (Client, error) { return NewCopilotClient(model) },
	},
	ProviderOllama: {
		local:   true,
		baseURL: defaultOllamaBaseURL,
		build:   func(model, base string) (Client, error) { return NewOllamaClient(model, base) },
	},
	ProviderLMStudio: {
		local:   true,
		baseURL: defaultLMStudioBaseURL,
		build:   func(model, base string) (Client, error) { return NewLMStudioClient(model, base) },
	},
}

// NormalizeProvider maps a configured provider name to its canonical form.
// An empty name selects Copilot.
func NormalizeProvider(name string) string {
	switch p := strings.ToLower(strings.TrimSpace(name)); p {
	case "":
		return ProviderCopilot
	case "lm-studio", "llmstudio", "lm_studio":
		return ProviderLMStudio
	default:
		return p
	}
}

// NewClient creates a client for the configured provider. An empty baseURL
// selects the provider's default endpoint.
func NewClient(name, model, baseURL string) (Client, error) {
	p, ok := providers[NormalizeProvider(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported LLM provider: %s", name)
	}
	return p.build(model, baseURL)
}

// DefaultBaseURL returns the endpoint used when none is configured, or ""
// for unknown providers.
func DefaultBaseURL(name string) string {
	return providers[NormalizeProvider(name)].baseURL
}

// IsLocal reports whether the provider runs a local model, which gets the compact prompt.
func IsLocal(name string) bool {
	return providers[NormalizeProvider(name)].local
}

func missingModel(name string) error {
	return fmt.Errorf("%s: %w", name, ErrModelRequired)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
