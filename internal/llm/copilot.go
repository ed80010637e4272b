package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openai/openai-go/option"
)

const (
	copilotTokenURL = "https://api.github.com/copilot_internal/v2/token"
	copilotBaseURL  = "https://api.githubcopilot.com"
	editorVersion   = "Semana/1.0"

	// DefaultModel is used when no model is configured for Copilot.
	DefaultModel = "gpt-4o"
)

// CopilotClient talks to GitHub Copilot's chat API.
type CopilotClient struct {
	*chatClient
}

// NewCopilotClient creates a Copilot client. The GitHub token from the
// environment or the gh config is exchanged for a short-lived bearer token.
func NewCopilotClient(model string) (*CopilotClient, error) {
	if model == "" {
		model = DefaultModel
	}

	githubToken, err := LoadGitHubToken()
	if err != nil {
		return nil, fmt.Errorf("loading GitHub token: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	bearer, err := exchangeToken(ctx, http.DefaultClient, copilotTokenURL, githubToken)
	if err != nil {
		return nil, fmt.Errorf("exchanging token: %w", err)
	}

	return &CopilotClient{newChatClient(ProviderCopilot, model, copilotBaseURL,
		option.WithAPIKey(bearer),
		option.WithHeader("Editor-Version", editorVersion),
		option.WithHeader("Editor-Plugin-Version", editorVersion),
		option.WithHeader("Copilot-Integration-Id", "vscode-chat"),
	)}, nil
}

// exchangeToken trades a GitHub OAuth token for a Copilot bearer token.
func exchangeToken(ctx context.Context, hc *http.Client, tokenURL, githubToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tokenURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+githubToken)
	req.Header.Set("User-Agent", editorVersion)

	resp, err := hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("making request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("token exchange failed (status %d): %s", resp.StatusCode, string(body))
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if out.Token == "" {
		return "", errors.New("token exchange returned no token")
	}
	return out.Token, nil
}
