package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/semana/internal/exchange"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		out         string
		toFile      bool
		toClipboard bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the pool and the grid as JSON",
		Long: `Write both lists as a JSON document with "tasks" and "scheduledTasks".

Without flags the document is printed to stdout. --file writes it to
planner-data-YYYY-MM-DD.json in the current directory.`,
		Example: `  semana export > backup.json
  semana export --out ~/backup.json
  semana export --file
  semana export --clipboard`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}
			snap := a.engine.Export()

			if toFile && out == "" {
				out = exchange.ExportFileName(a.now())
			}
			if out != "" {
				path, err := resolvePath(out)
				if err != nil {
					return err
				}
				if err := exchange.WriteFile(path, snap); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Exported %d tasks and %d scheduled tasks to %s\n",
					len(snap.Tasks), len(snap.ScheduledTasks), path)
				return nil
			}

			data, err := exchange.Encode(snap)
			if err != nil {
				return err
			}
			if toClipboard {
				if err := clipboard.WriteAll(string(data)); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintln(a.out, "Export copied to clipboard")
				return nil
			}
			_, err = fmt.Fprintf(a.out, "%s\n", data)
			return err
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file")
	cmd.Flags().BoolVar(&toFile, "file", false, "Write to a dated file in the current directory")
	cmd.Flags().BoolVar(&toClipboard, "clipboard", false, "Copy to the clipboard")
	cmd.MarkFlagsMutuallyExclusive("out", "clipboard")
	cmd.MarkFlagsMutuallyExclusive("file", "clipboard")
	return cmd
}

func (a *App) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with an exported JSON file",
		Long: `Replace the pool and the grid with the contents of an export.

The file must be a JSON object whose "tasks" and "scheduledTasks" are both
arrays. Anything else is rejected and the current data is kept.

Example:
  semana import planner-data-2026-10-19.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}

			path, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			info, err := os.Stat(path)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("file does not exist: %s", path)
				}
				return fmt.Errorf("checking file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("path is a directory: %s", path)
			}

			snap, err := exchange.ReadFile(path)
			if err != nil {
				if exchange.IsInvalidFormat(err) {
					return fmt.Errorf("%s is not a planner export: %w", path, err)
				}
				return err
			}
			if err := a.engine.Import(cmd.Context(), snap); err != nil {
				return fmt.Errorf("importing %s: %w", path, err)
			}

			fmt.Fprintf(a.out, "Imported %d tasks and %d scheduled tasks from %s\n",
				len(snap.Tasks), len(snap.ScheduledTasks), path)
			return nil
		},
	}

	return cmd
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
