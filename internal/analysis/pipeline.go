package analysis

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/ai"
)

// Stage is a single step of resume analysis.
type Stage interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(ctx context.Context, s *State) error
}

// State is shared by the stages of one analysis run.
type State struct {
	Raw      string
	Entities []ai.Entity
	Analysis *Analysis
}

func (s *State) warn(format string, args ...any) {
	s.Analysis.Warnings = append(s.Analysis.Warnings, fmt.Sprintf(format, args...))
}

// Status represents runtime information about a stage.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type statusProvider interface {
	Status() Status
}

// DisableByName marks the stage with the provided name as disabled while keeping it in the list.
func DisableByName(stages []Stage, name, reason string) {
	for _, stage := range stages {
		if stage.Name() == name {
			stage.Disable(reason)
		}
	}
}

// Run executes the stages in order. A disabled stage is skipped and leaves a
// warning on the analysis.
func Run(ctx context.Context, logger *zap.Logger, stages []Stage, state *State) error {
	for _, stage := range stages {
		if !stage.IsEnabled() {
			reason := "disabled"
			if reporter, ok := stage.(statusProvider); ok && reporter.Status().Reason != "" {
				reason = reporter.Status().Reason
			}
			logger.Debug("stage disabled", zap.String("name", stage.Name()), zap.String("reason", reason))
			state.warn("%s skipped: %s", stage.Name(), reason)
			continue
		}

		if err := stage.Apply(ctx, state); err != nil {
			return fmt.Errorf("%s: %w", stage.Name(), err)
		}

		logger.Debug("stage done", zap.String("name", stage.Name()))
	}

	return nil
}

// Describe returns status entries for the provided stages.
func Describe(stages []Stage) []Status {
	statuses := make([]Status, 0, len(stages))
	for _, stage := range stages {
		if reporter, ok := stage.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    stage.Name(),
			Enabled: stage.IsEnabled(),
		})
	}
	return statuses
}
