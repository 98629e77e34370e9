package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/logger"
)

//go:embed classify_prompt.md
var classifyPrompt string

// Classifier ranks candidate labels for a short text with Gemini.
type Classifier struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewClassifier(generator contentGenerator, maxLogLength int, log *zap.Logger) *Classifier {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Classifier{
		generator: generator,
		logger:    logger.WithFields(log),
		maxLogLen: maxLogLength,
	}
}

// Classify returns the candidate labels in the order ranked by the model.
// Labels the model invents are dropped and matching is case-insensitive.
func (c *Classifier) Classify(ctx context.Context, text string, labels []string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("text to classify must not be empty")
	}
	if len(labels) == 0 {
		return nil, errors.New("candidate labels are required")
	}

	encodedLabels, err := json.Marshal(labels)
	if err != nil {
		return nil, fmt.Errorf("marshal candidate labels: %w", err)
	}

	prompt := strings.ReplaceAll(classifyPrompt, "{{TEXT}}", text)
	prompt = strings.ReplaceAll(prompt, "{{LABELS}}", string(encodedLabels))

	raw, err := c.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("gemini classification response",
		zap.String("text", text),
		zap.String("response_preview", logger.TruncateForLog(raw, c.maxLogLen)),
	)

	return parseRanking(raw, labels)
}

func parseRanking(raw string, labels []string) ([]string, error) {
	data, err := decodeJSON(raw)
	if err != nil {
		return nil, err
	}

	list, err := unwrapList(data, "labels")
	if err != nil {
		return nil, err
	}

	var ranked []string
	if err := mapstructure.Decode(list, &ranked); err != nil {
		return nil, fmt.Errorf("decode labels: %w", err)
	}

	canonical := make(map[string]string, len(labels))
	for _, label := range labels {
		canonical[strings.ToLower(strings.TrimSpace(label))] = label
	}

	seen := make(map[string]struct{}, len(ranked))
	out := make([]string, 0, len(ranked))
	for _, label := range ranked {
		known, ok := canonical[strings.ToLower(strings.TrimSpace(label))]
		if !ok {
			continue
		}
		if _, dup := seen[known]; dup {
			continue
		}
		seen[known] = struct{}{}
		out = append(out, known)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("gemini returned no known labels: %q", raw)
	}

	return out, nil
}
