package llm

import (
	"errors"
	"testing"

	"github.com/javiermolinar/semana/internal/config"
)

func TestNewClient_LocalProviders(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		baseURL  string
		expected string
	}{
		{"ollama default", "ollama", "", defaultOllamaBaseURL},
		{"ollama configured", "Ollama", "http://gpu-box:11434", "http://gpu-box:11434"},
		{"lmstudio default", "lmstudio", "", defaultLMStudioBaseURL},
		{"lmstudio alias", "lm-studio", " ", defaultLMStudioBaseURL},
		{"lmstudio configured", "lmstudio", "http://10.0.0.5:1234/v1", "http://10.0.0.5:1234/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.provider, "llama3", tt.baseURL)
			if err != nil {
				t.Fatalf("NewClient: %v", err)
			}
			var got string
			switch c := client.(type) {
			case *OllamaClient:
				got = c.baseURL
			case *LMStudioClient:
				got = c.baseURL
			default:
				t.Fatalf("unexpected client %T", client)
			}
			if got != tt.expected {
				t.Errorf("expected base URL %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNewClient_ConfigDefaults(t *testing.T) {
	cfg := config.Default()
	if cfg.LLM.BaseURL != "" {
		t.Fatalf("expected no base URL by default, got %q", cfg.LLM.BaseURL)
	}
	if got := NormalizeProvider(cfg.LLM.Provider); got != ProviderCopilot {
		t.Errorf("expected copilot by default, got %q", got)
	}

	// Switching only the provider must not point it at another provider's server.
	client, err := NewClient(ProviderLMStudio, "qwen2.5-7b", cfg.LLM.BaseURL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if got := client.(*LMStudioClient).baseURL; got != defaultLMStudioBaseURL {
		t.Errorf("expected %q, got %q", defaultLMStudioBaseURL, got)
	}
}

func TestNewClient_Errors(t *testing.T) {
	if _, err := NewClient("openrouter", "model", ""); err == nil {
		t.Error("expected error for unsupported provider")
	}
	for _, p := range []string{ProviderOllama, ProviderLMStudio} {
		if _, err := NewClient(p, "  ", ""); !errors.Is(err, ErrModelRequired) {
			t.Errorf("%s: expected ErrModelRequired, got %v", p, err)
		}
	}
}

func TestDefaultBaseURL(t *testing.T) {
	tests := map[string]string{
		"":         copilotBaseURL,
		"copilot":  copilotBaseURL,
		"ollama":   defaultOllamaBaseURL,
		"LMStudio": defaultLMStudioBaseURL,
		"unknown":  "",
	}
	for provider, expected := range tests {
		if got := DefaultBaseURL(provider); got != expected {
			t.Errorf("DefaultBaseURL(%q): expected %q, got %q", provider, expected, got)
		}
	}
}
