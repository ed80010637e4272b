package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/semana/internal/config"
	"github.com/javiermolinar/semana/internal/llm"
	"github.com/javiermolinar/semana/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  semana config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runConfigInteractive()
		},
	}
}

func (a *App) runConfigInteractive() error {
	fmt.Fprintf(a.out, "Config file: %s\n\n", a.configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(a.configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(a.out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(a.configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(a.out, "Created %s\n\n", a.configPath)
	}

	printConfig(a.out, cfg)

	reader := bufio.NewReader(a.in)
	if !promptYesNo(reader, a.out, "\nWould you like to edit the configuration?") {
		return nil
	}

	p := prompter{r: reader, w: a.out}
	cfg.Grid.StartHour = p.intValue("Grid start hour", cfg.Grid.StartHour)
	cfg.Grid.EndHour = p.intValue("Grid end hour", cfg.Grid.EndHour)
	cfg.Grid.IntervalMinutes = p.intValue("Slot length in minutes", cfg.Grid.IntervalMinutes)
	cfg.Grid.UTCOffsetHours = p.intValue("UTC offset in hours", cfg.Grid.UTCOffsetHours)
	cfg.Storage.Backend = p.value("Storage backend (sqlite, json)", cfg.Storage.Backend)
	if cfg.Storage.Backend == config.BackendJSON {
		cfg.Storage.JSONPath = p.value("Data file path", cfg.Storage.JSONPath)
	} else {
		cfg.Storage.DBPath = p.value("Database path", cfg.Storage.DBPath)
	}
	cfg.LLM.Provider = p.value("LLM provider", cfg.LLM.Provider)
	cfg.LLM.Model = p.value("LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = p.value("LLM base URL (empty for the provider default)", cfg.LLM.BaseURL)
	cfg.Server.Addr = p.value("Server address", cfg.Server.Addr)
	cfg.Log.Level = p.value("Log level", cfg.Log.Level)
	cfg.UI.Theme = p.theme(cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(a.configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(a.out, "\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[grid]")
	fmt.Fprintf(w, "  start_hour       = %d\n", cfg.Grid.StartHour)
	fmt.Fprintf(w, "  end_hour         = %d\n", cfg.Grid.EndHour)
	fmt.Fprintf(w, "  interval_minutes = %d\n", cfg.Grid.IntervalMinutes)
	fmt.Fprintf(w, "  utc_offset_hours = %d\n", cfg.Grid.UTCOffsetHours)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  backend          = %s\n", cfg.Storage.Backend)
	if cfg.Storage.Backend == config.BackendJSON {
		fmt.Fprintf(w, "  json_path        = %s\n", cfg.Storage.JSONPath)
	} else {
		fmt.Fprintf(w, "  db_path          = %s\n", cfg.Storage.DBPath)
	}
	fmt.Fprintln(w, "\n[llm]")
	fmt.Fprintf(w, "  provider         = %s\n", cfg.LLM.Provider)
	fmt.Fprintf(w, "  model            = %s\n", cfg.LLM.Model)
	if cfg.LLM.BaseURL == "" {
		fmt.Fprintf(w, "  base_url         = (default %s)\n", llm.DefaultBaseURL(cfg.LLM.Provider))
	} else {
		fmt.Fprintf(w, "  base_url         = %s\n", cfg.LLM.BaseURL)
	}
	fmt.Fprintln(w, "\n[server]")
	fmt.Fprintf(w, "  addr             = %s\n", cfg.Server.Addr)
	fmt.Fprintf(w, "  metrics          = %t\n", cfg.Server.Metrics)
	fmt.Fprintln(w, "\n[log]")
	fmt.Fprintf(w, "  level            = %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "  format           = %s\n", cfg.Log.Format)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme            = %s\n", cfg.UI.Theme)
}

func promptYesNo(r *bufio.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)
	input, _ := r.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

type prompter struct {
	r *bufio.Reader
	w io.Writer
}

func (p prompter) value(label, current string) string {
	if current == "" {
		fmt.Fprintf(p.w, "  %s: ", label)
	} else {
		fmt.Fprintf(p.w, "  %s [%s]: ", label, current)
	}
	input, _ := p.r.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

// intValue re-asks until the answer parses. EOF keeps the current value.
func (p prompter) intValue(label string, current int) int {
	for {
		value := p.value(label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(p.w, "  %q is not a number\n", value)
		if _, err := p.r.Peek(1); err != nil {
			return current
		}
	}
}

func (p prompter) theme(current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(p.value(label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(p.w, "  Invalid theme %q. Available: %s\n", value, options)
		if _, err := p.r.Peek(1); err != nil {
			return current
		}
	}
}
