package gemini

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/logger"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed entities_prompt.md
var entitiesPrompt string

const defaultMaxLogLength = 200

// EntityRecognizer asks Gemini to label people, organizations and places.
type EntityRecognizer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewEntityRecognizer(generator contentGenerator, maxLogLength int, log *zap.Logger) *EntityRecognizer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &EntityRecognizer{
		generator: generator,
		logger:    logger.WithFields(log),
		maxLogLen: maxLogLength,
	}
}

func (r *EntityRecognizer) RecognizeEntities(ctx context.Context, text string) ([]ai.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	prompt := strings.ReplaceAll(entitiesPrompt, "{{TEXT}}", text)

	r.logger.Debug("gemini entities request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("gemini entities response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, r.maxLogLen)),
	)

	return parseEntities(raw)
}

func parseEntities(raw string) ([]ai.Entity, error) {
	data, err := decodeJSON(raw)
	if err != nil {
		return nil, err
	}

	list, err := unwrapList(data, "entities")
	if err != nil {
		return nil, err
	}

	var decoded []ai.Entity
	if err := mapstructure.Decode(list, &decoded); err != nil {
		return nil, fmt.Errorf("decode entities: %w", err)
	}

	entities := make([]ai.Entity, 0, len(decoded))
	for _, entity := range decoded {
		entity.Text = strings.TrimSpace(entity.Text)
		entity.Label = strings.ToUpper(strings.TrimSpace(entity.Label))
		if entity.Text == "" || entity.Label == "" {
			continue
		}
		entities = append(entities, entity)
	}

	return entities, nil
}
