package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/ai/gemini"
	"github.com/spigell/resume-analyzer/internal/analysis"
	"github.com/spigell/resume-analyzer/internal/catalog"
	"github.com/spigell/resume-analyzer/internal/jd"
	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/secrets"
)

const geminiAPIKeyEnv = "GEMINI_API_KEY"

// newService wires the analysis service from the config. Missing or broken AI
// capabilities are logged and the service runs degraded.
func newService(ctx context.Context, config *Config, log *zap.Logger) (*analysis.Service, error) {
	deps := analysis.Deps{
		Segmenter: jd.NewSegmenter(config.JobDescription.HighPriorityKeywords, config.JobDescription.LowPriorityKeywords),
		Logger:    log,
	}

	if len(config.Skills.Catalog) > 0 {
		deps.Catalog = catalog.New(config.Skills.Catalog)
	}

	if config.AI.Enabled {
		recognizer, classifier, err := newAICapabilities(ctx, config.AI, log)
		if err != nil {
			log.Warn("ai capabilities are unavailable, analysis will be degraded", zap.Error(err))
		} else {
			deps.Recognizer = recognizer
			deps.Classifier = classifier
		}
	}

	svc, err := analysis.New(analysis.Config{
		Categories: config.Skills.Categories,
		Labels:     config.AI.CandidateLabels,
		Timeout:    config.AI.Timeout,
	}, deps)
	if err != nil {
		return nil, fmt.Errorf("building analysis service: %w", err)
	}

	for _, status := range svc.Describe() {
		log.Debug("analysis stage",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	return svc, nil
}

func newAICapabilities(ctx context.Context, cfg AIConfig, log *zap.Logger) (ai.EntityRecognizer, ai.Classifier, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  geminiAPIKeyEnv,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, log)
	if err != nil {
		return nil, nil, err
	}

	aiLog := generator.Logger()

	recognizer := gemini.NewEntityRecognizer(generator, cfg.Gemini.MaxLogLength,
		aiLog.With(zap.String(logger.FieldCapability, "entities")))
	classifier := gemini.NewClassifier(generator, cfg.Gemini.MaxLogLength,
		aiLog.With(zap.String(logger.FieldCapability, "zero_shot")))

	return recognizer, classifier, nil
}

func printJSON(w io.Writer, v any) error {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	_, err = fmt.Fprintln(w, string(pretty))
	return err
}
