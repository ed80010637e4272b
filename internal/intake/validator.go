package intake

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/semana/internal/grid"
	"github.com/javiermolinar/semana/internal/llm"
	"github.com/javiermolinar/semana/internal/task"
)

// ValidationError represents a single validation error for a captured task.
type ValidationError struct {
	TaskIndex int    // Index of the task in the LLM response
	Field     string // "title", "category", "priority", "duration", "color"
	Message   string
}

// String returns a formatted error message.
func (e ValidationError) String() string {
	return fmt.Sprintf("Task %d: %s - %s", e.TaskIndex, e.Field, e.Message)
}

// ValidationResult contains the result of validating captured tasks.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// FormatErrors returns a formatted string of all validation errors for LLM feedback.
func (r ValidationResult) FormatErrors() string {
	if len(r.Errors) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Your response had these errors:\n")
	for _, e := range r.Errors {
		fmt.Fprintf(&sb, "- %s\n", e.String())
	}
	sb.WriteString("\nPlease correct these issues and respond again with valid JSON.")
	return sb.String()
}

// Validator checks captured tasks against the task rules and the grid.
type Validator struct {
	grid  grid.Config
	known map[string]bool // lowercase titles already in the pool
}

// NewValidator creates a Validator. Tasks whose title matches a pool task are
// reported as duplicates.
func NewValidator(g grid.Config, pool []task.Task) *Validator {
	known := make(map[string]bool, len(pool))
	for _, t := range pool {
		known[normalizeTitle(t.Title)] = true
	}
	return &Validator{grid: g, known: known}
}

// Validate checks every task and collects all errors.
func (v *Validator) Validate(tasks []llm.CapturedTask) ValidationResult {
	result := ValidationResult{Valid: true}
	seen := make(map[string]int, len(tasks))

	for i, ct := range tasks {
		d := ct.Draft()

		if _, err := task.New(d, "candidate", time.Time{}); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				TaskIndex: i,
				Field:     fieldOf(err),
				Message:   err.Error(),
			})
			continue
		}

		if slots := v.grid.SlotsForDuration(d.Duration); slots > v.grid.TotalSlots() {
			result.Errors = append(result.Errors, ValidationError{
				TaskIndex: i,
				Field:     "duration",
				Message: fmt.Sprintf("%d minutes does not fit in one day (max %d)",
					d.Duration, v.grid.DurationForSlots(v.grid.TotalSlots())),
			})
		}

		key := normalizeTitle(d.Title)
		if v.known[key] {
			result.Errors = append(result.Errors, ValidationError{
				TaskIndex: i,
				Field:     "title",
				Message:   fmt.Sprintf("'%s' already exists in the pool", d.Title),
			})
		} else if prev, ok := seen[key]; ok {
			result.Errors = append(result.Errors, ValidationError{
				TaskIndex: i,
				Field:     "title",
				Message:   fmt.Sprintf("'%s' duplicates task %d", d.Title, prev),
			})
		} else {
			seen[key] = i
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func fieldOf(err error) string {
	switch {
	case errors.Is(err, task.ErrEmptyTitle):
		return "title"
	case errors.Is(err, task.ErrInvalidCategory):
		return "category"
	case errors.Is(err, task.ErrInvalidPriority):
		return "priority"
	case errors.Is(err, task.ErrInvalidDuration):
		return "duration"
	case errors.Is(err, task.ErrInvalidColor):
		return "color"
	default:
		return "task"
	}
}

func normalizeTitle(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
