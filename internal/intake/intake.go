// Package intake turns free-form notes into pool tasks.
// It coordinates the LLM capture prompt with task validation and retries
// with error feedback until the proposal is valid. Both CLI and TUI can use it.
package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/javiermolinar/semana/internal/grid"
	"github.com/javiermolinar/semana/internal/llm"
	"github.com/javiermolinar/semana/internal/logging"
	"github.com/javiermolinar/semana/internal/task"
)

// ErrNoSession is returned by Refine when Capture has not run yet.
var ErrNoSession = errors.New("no active capture session")

// PoolReader exposes the tasks currently waiting in the pool.
type PoolReader interface {
	Pool() []task.Task
}

// Creator adds a task to the planner.
type Creator interface {
	CreateTask(ctx context.Context, d task.Draft) (task.Task, error)
}

// Planner orchestrates capture using an LLM and the task rules.
type Planner struct {
	capturer *llm.Capturer
	grid     grid.Config
	pool     PoolReader
	compact  bool
	now      func() time.Time
	logger   *slog.Logger

	// Conversation state for interactive refinement
	messages []llm.Message
	last     *llm.CaptureResponse
}

// Option configures a Planner.
type Option func(*Planner)

// WithCompactPrompt selects the shorter prompt used for local models.
func WithCompactPrompt(compact bool) Option {
	return func(p *Planner) { p.compact = compact }
}

// WithClock overrides the clock used in the prompt.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) { p.logger = l }
}

// New creates a Planner. pool may be nil.
func New(client llm.Client, g grid.Config, pool PoolReader, opts ...Option) *Planner {
	p := &Planner{
		capturer: llm.NewCapturer(client),
		grid:     g,
		pool:     pool,
		now:      time.Now,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result contains the outcome of a capture.
type Result struct {
	Drafts   []task.Draft
	Warnings []string

	// Populated when retries are exhausted.
	ValidationErrors []ValidationError
}

// HasValidationErrors returns true if there are unresolved validation errors.
func (r *Result) HasValidationErrors() bool {
	return len(r.ValidationErrors) > 0
}

// Capture converts text into task drafts, validating the LLM reply and
// retrying up to maxRetries times with the errors fed back. When retries are
// exhausted the last proposal is returned with ValidationErrors populated.
func (p *Planner) Capture(ctx context.Context, text string, maxRetries int) (*Result, error) {
	p.messages = p.capturer.BuildMessages(llm.CaptureRequest{
		Input:   text,
		Now:     p.now(),
		Grid:    p.grid,
		Pool:    p.currentPool(),
		Compact: p.compact,
	})
	p.last = nil
	return p.loop(ctx, maxRetries)
}

// Refine adds user feedback to the conversation and captures again.
func (p *Planner) Refine(ctx context.Context, feedback string, maxRetries int) (*Result, error) {
	if len(p.messages) == 0 {
		return nil, ErrNoSession
	}
	p.appendAssistant(p.last)
	p.messages = append(p.messages, llm.Message{Role: llm.RoleUser, Content: feedback})
	return p.loop(ctx, maxRetries)
}

// Save adds every draft through c and returns the created tasks. It stops at
// the first failure; tasks created before it are kept.
func (p *Planner) Save(ctx context.Context, result *Result, c Creator) ([]task.Task, error) {
	if result.HasValidationErrors() {
		return nil, errors.New("cannot save: result has validation errors")
	}

	created := make([]task.Task, 0, len(result.Drafts))
	for _, d := range result.Drafts {
		t, err := c.CreateTask(ctx, d)
		if err != nil {
			return created, fmt.Errorf("creating %q: %w", d.Title, err)
		}
		created = append(created, t)
	}
	return created, nil
}

func (p *Planner) loop(ctx context.Context, maxRetries int) (*Result, error) {
	validator := NewValidator(p.grid, p.currentPool())

	var validation ValidationResult
	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err := p.capturer.CaptureWithMessages(ctx, p.messages)
		if err != nil {
			return nil, fmt.Errorf("LLM capture (attempt %d): %w", attempt+1, err)
		}
		p.last = resp

		validation = validator.Validate(resp.Tasks)
		if validation.Valid {
			return buildResult(resp, nil), nil
		}

		p.logger.Debug("capture rejected",
			logging.Operation("capture"),
			slog.Int("attempt", attempt+1),
			slog.Int("errors", len(validation.Errors)),
		)

		if attempt < maxRetries {
			p.appendAssistant(resp)
			p.messages = append(p.messages, llm.Message{
				Role:    llm.RoleUser,
				Content: validation.FormatErrors(),
			})
		}
	}

	return buildResult(p.last, validation.Errors), nil
}

func (p *Planner) appendAssistant(resp *llm.CaptureResponse) {
	if resp == nil {
		return
	}
	data, _ := json.Marshal(resp)
	p.messages = append(p.messages, llm.Message{Role: llm.RoleAssistant, Content: string(data)})
}

func (p *Planner) currentPool() []task.Task {
	if p.pool == nil {
		return nil
	}
	return p.pool.Pool()
}

func buildResult(resp *llm.CaptureResponse, errs []ValidationError) *Result {
	result := &Result{
		Warnings:         resp.Warnings,
		ValidationErrors: errs,
	}
	for _, ct := range resp.Tasks {
		result.Drafts = append(result.Drafts, ct.Draft())
	}
	return result
}
