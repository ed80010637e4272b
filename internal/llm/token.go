package llm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tidwall/gjson"
)

var errTokenNotFound = errors.New("GitHub token not found: set GITHUB_TOKEN or authenticate with GitHub Copilot in your IDE")

// LoadGitHubToken loads the GitHub OAuth token from, in order, the
// GITHUB_TOKEN environment variable and the Copilot hosts.json / apps.json files.
func LoadGitHubToken() (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	configDir, err := configDir()
	if err != nil {
		return "", fmt.Errorf("getting config directory: %w", err)
	}

	for _, name := range []string{"hosts.json", "apps.json"} {
		data, err := os.ReadFile(filepath.Join(configDir, "github-copilot", name))
		if err != nil {
			continue
		}
		if token := oauthToken(data); token != "" {
			return token, nil
		}
	}
	return "", errTokenNotFound
}

// oauthToken returns the oauth_token of the first github.com entry.
func oauthToken(data []byte) string {
	if !gjson.ValidBytes(data) {
		return ""
	}
	var token string
	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		if !strings.Contains(key.String(), "github.com") {
			return true
		}
		token = value.Get("oauth_token").String()
		return token == ""
	})
	return token
}

// configDir returns the user's config directory based on OS.
func configDir() (string, error) {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if runtime.GOOS == "windows" {
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return localAppData, nil
		}
		return filepath.Join(home, "AppData", "Local"), nil
	}
	return filepath.Join(home, ".config"), nil
}
