// Package summary provides shared week summary utilities.
package summary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/semana/internal/dateutil"
	"github.com/javiermolinar/semana/internal/grid"
	"github.com/javiermolinar/semana/internal/llm"
	"github.com/javiermolinar/semana/internal/task"
)

// StateSource exposes the current planner state.
type StateSource interface {
	State() task.Snapshot
}

// WeekSummary holds aggregated week data and optional insight.
type WeekSummary struct {
	Start       time.Time // Sunday of the current week
	End         time.Time // Saturday of the current week
	Week        *task.Week
	Stats       task.WeekStats
	PoolTasks   int
	PoolMinutes int
	Capacity    int // minutes the grid offers over the whole week
	Insight     string
}

// Utilization returns the share of the week's capacity that is scheduled, in [0, 1].
func (s *WeekSummary) Utilization() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.Stats.Minutes) / float64(s.Capacity)
}

// BuildWeekSummaryOptions configures the state-backed summary builder.
type BuildWeekSummaryOptions struct {
	Now            time.Time
	Grid           grid.Config
	IncludeInsight bool
	Provider       string
	Model          string
	BaseURL        string

	// Client overrides the client built from Provider/Model/BaseURL.
	Client llm.Client
}

// SummarizeWeek builds week summary data from a snapshot.
func SummarizeWeek(snap task.Snapshot, g grid.Config, now time.Time) *WeekSummary {
	week := task.NewWeek(snap.ScheduledTasks)
	start := dateutil.WeekStart(now)

	s := &WeekSummary{
		Start:     start,
		End:       start.AddDate(0, 0, grid.DaysPerWeek-1),
		Week:      week,
		Stats:     week.Stats(),
		PoolTasks: len(snap.Tasks),
		Capacity:  grid.DaysPerWeek * g.DurationForSlots(g.TotalSlots()),
	}
	for _, t := range snap.Tasks {
		s.PoolMinutes += t.Duration
	}
	return s
}

// BuildWeekSummary summarizes the current state and optionally adds insight.
func BuildWeekSummary(ctx context.Context, src StateSource, opts BuildWeekSummaryOptions) (*WeekSummary, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	summary := SummarizeWeek(src.State(), opts.Grid, now)

	if opts.IncludeInsight && summary.Stats.Blocks > 0 {
		client := opts.Client
		if client == nil {
			if opts.Model == "" {
				return nil, errors.New("model is required for insight")
			}
			var err error
			client, err = llm.NewClient(opts.Provider, opts.Model, opts.BaseURL)
			if err != nil {
				return nil, fmt.Errorf("creating LLM client: %w", err)
			}
		}

		evaluator := llm.NewEvaluator(client, opts.Grid)
		result, err := evaluator.EvaluateWeek(ctx, summary.Week)
		if err != nil {
			return nil, fmt.Errorf("evaluating week: %w", err)
		}
		summary.Insight = result
	}

	return summary, nil
}
