package analysis

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/classify"
	"github.com/spigell/resume-analyzer/internal/entities"
	"github.com/spigell/resume-analyzer/internal/extract"
)

const (
	entitiesStageName    = "entities"
	fieldsStageName      = "fields"
	categoriesStageName  = "categories"
	keyEntitiesStageName = "key_entities"
)

type entitiesStage struct {
	recognizer ai.EntityRecognizer
	timeout    time.Duration
	disabled   bool
	reason     string
}

func newEntitiesStage(recognizer ai.EntityRecognizer, timeout time.Duration) Stage {
	return &entitiesStage{recognizer: recognizer, timeout: timeout}
}

func (s *entitiesStage) Name() string { return entitiesStageName }

func (s *entitiesStage) Disable(reason string) {
	s.disabled = true
	s.reason = reason
}

func (s *entitiesStage) IsEnabled() bool { return !s.disabled }

func (s *entitiesStage) Validate() error {
	if s.IsEnabled() && s.recognizer == nil {
		return errors.New("entity recognizer is required when the stage is enabled")
	}
	return nil
}

func (s *entitiesStage) Apply(ctx context.Context, state *State) error {
	if strings.TrimSpace(state.Raw) == "" {
		return nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	found, err := s.recognizer.RecognizeEntities(ctx, state.Raw)
	if err != nil {
		state.warn("entity recognition failed: %v", err)
		return nil
	}

	state.Entities = found
	return nil
}

func (s *entitiesStage) Status() Status {
	details := map[string]string{}
	if s.timeout > 0 {
		details["timeout"] = s.timeout.String()
	}
	return Status{Name: s.Name(), Enabled: s.IsEnabled(), Reason: s.reason, Details: details}
}

type fieldsStage struct {
	extractor *extract.Extractor
}

func newFieldsStage(extractor *extract.Extractor) Stage {
	return &fieldsStage{extractor: extractor}
}

func (s *fieldsStage) Name() string { return fieldsStageName }

func (s *fieldsStage) Disable(string) {}

func (s *fieldsStage) IsEnabled() bool { return true }

func (s *fieldsStage) Validate() error {
	if s.extractor == nil {
		return errors.New("field extractor is required")
	}
	return nil
}

func (s *fieldsStage) Apply(_ context.Context, state *State) error {
	state.Analysis.Parsed = s.extractor.Candidate(state.Raw, state.Entities)
	return nil
}

type categoriesStage struct {
	classifier   *classify.Classifier
	withZeroShot bool
}

func newCategoriesStage(classifier *classify.Classifier, withZeroShot bool) Stage {
	return &categoriesStage{classifier: classifier, withZeroShot: withZeroShot}
}

func (s *categoriesStage) Name() string { return categoriesStageName }

func (s *categoriesStage) Disable(string) {}

func (s *categoriesStage) IsEnabled() bool { return true }

func (s *categoriesStage) Validate() error {
	if s.classifier == nil {
		return errors.New("skill classifier is required")
	}
	return nil
}

func (s *categoriesStage) Apply(ctx context.Context, state *State) error {
	result := s.classifier.Classify(ctx, state.Analysis.Parsed.Skills)
	if result.Degraded() {
		state.warn("skill classification unavailable for: %s", strings.Join(result.Unclassified, ", "))
	}

	state.Analysis.SkillAnalysis = result
	return nil
}

func (s *categoriesStage) Status() Status {
	return Status{
		Name:    s.Name(),
		Enabled: true,
		Details: map[string]string{"zero_shot": strconv.FormatBool(s.withZeroShot)},
	}
}

type keyEntitiesStage struct{}

func newKeyEntitiesStage() Stage {
	return &keyEntitiesStage{}
}

func (s *keyEntitiesStage) Name() string { return keyEntitiesStageName }

func (s *keyEntitiesStage) Disable(string) {}

func (s *keyEntitiesStage) IsEnabled() bool { return true }

func (s *keyEntitiesStage) Validate() error { return nil }

func (s *keyEntitiesStage) Apply(_ context.Context, state *State) error {
	state.Analysis.KeyEntities = entities.Summarize(state.Entities)
	return nil
}
