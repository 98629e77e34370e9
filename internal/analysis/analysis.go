package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/catalog"
	"github.com/spigell/resume-analyzer/internal/classify"
	"github.com/spigell/resume-analyzer/internal/entities"
	"github.com/spigell/resume-analyzer/internal/extract"
	"github.com/spigell/resume-analyzer/internal/jd"
	"github.com/spigell/resume-analyzer/internal/matching"
)

// Analysis is the structured result of analyzing one resume.
type Analysis struct {
	Parsed        extract.Candidate `json:"parsed_data"`
	SkillAnalysis classify.Result   `json:"skill_analysis"`
	KeyEntities   entities.Summary  `json:"key_entities"`
	// Warnings lists the capabilities that were unavailable or failed.
	Warnings []string `json:"warnings,omitempty"`
}

// Deps aggregates the collaborators of the service. Recognizer and
// Classifier are optional; without them the analysis degrades.
type Deps struct {
	Catalog    *catalog.Catalog
	Segmenter  *jd.Segmenter
	Recognizer ai.EntityRecognizer
	Classifier ai.Classifier
	Logger     *zap.Logger
}

// Config tunes the skill categorization and capability calls.
type Config struct {
	Categories []classify.Category
	Labels     []string
	// Timeout bounds every single capability call. Zero means no limit.
	Timeout time.Duration
}

// Service runs resume analysis and job matching.
type Service struct {
	stages []Stage
	scorer *matching.Scorer
	logger *zap.Logger
}

func New(cfg Config, deps Deps) (*Service, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := deps.Catalog
	if c == nil {
		c = catalog.Default()
	}
	logger.Debug("skill catalog loaded", zap.Int("skills", c.Len()))

	classifier := classify.New(classify.Config{
		Categories: cfg.Categories,
		Labels:     cfg.Labels,
		Timeout:    cfg.Timeout,
	}, classify.Deps{
		Classifier: deps.Classifier,
		Logger:     logger.With(zap.String("stage", categoriesStageName)),
	})

	stages := []Stage{
		newEntitiesStage(deps.Recognizer, cfg.Timeout),
		newFieldsStage(extract.New(c)),
		newCategoriesStage(classifier, deps.Classifier != nil),
		newKeyEntitiesStage(),
	}

	if deps.Recognizer == nil {
		DisableByName(stages, entitiesStageName, "entity recognizer is not configured")
	}

	for _, stage := range stages {
		if err := stage.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", stage.Name(), err)
		}
	}

	return &Service{
		stages: stages,
		scorer: matching.NewScorer(c, deps.Segmenter),
		logger: logger,
	}, nil
}

// Analyze extracts candidate fields, skill categories and key entities from
// raw resume text. Capability failures are reported in Analysis.Warnings and
// never fail the call.
func (s *Service) Analyze(ctx context.Context, raw string) (*Analysis, error) {
	state := &State{
		Raw:      raw,
		Analysis: &Analysis{},
	}

	if strings.TrimSpace(raw) == "" {
		s.logger.Debug("empty resume text, returning empty analysis")
	}

	if err := Run(ctx, s.logger, s.stages, state); err != nil {
		return nil, err
	}

	return state.Analysis, nil
}

// MatchSkills scores candidate skills against a job description.
func (s *Service) MatchSkills(candidateSkills []string, jobDescription string) matching.Result {
	result := s.scorer.Match(candidateSkills, jobDescription)

	s.logger.Debug("job description matched",
		zap.Int("score", result.Score),
		zap.Int("matched", len(result.Matched)),
		zap.Int("missing", len(result.Missing)),
	)

	return result
}

// Describe reports the status of every analysis stage.
func (s *Service) Describe() []Status {
	return Describe(s.stages)
}
