package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resume-analyzer/internal/logger"
)

const (
	provider     = "gemini"
	defaultModel = "gemini-2.5-flash"
	jsonMIMEType = "application/json"
)

// Generator wraps the Google GenAI client to provide simple prompt-based interactions.
type Generator struct {
	client    *genai.Client
	modelName string
	logger    *zap.Logger
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, log *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Generator{
		client:    client,
		modelName: model,
		logger:    logger.WithCommonFields(log, provider, model),
	}, nil
}

// GenerateContent sends the prompt to Gemini asking for a JSON answer and
// returns the textual response.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return g.generateContent(ctx, prompt, &genai.GenerateContentConfig{ResponseMIMEType: jsonMIMEType})
}

func (g *Generator) generateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		err = fmt.Errorf("generate content: %w", err)
		g.logCall(prompt, "", time.Since(start), err)
		return "", err
	}

	output := joinCandidates(resp)
	if output == "" {
		err = errors.New("gemini api returned empty response")
		g.logCall(prompt, "", time.Since(start), err)
		return "", err
	}

	g.logCall(prompt, output, time.Since(start), nil)
	return output, nil
}

func (g *Generator) logCall(prompt, output string, elapsed time.Duration, err error) {
	fields := []zap.Field{
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.Duration("elapsed", elapsed),
	}

	if err != nil {
		g.logger.Warn("gemini call failed", append(fields, zap.Error(err))...)
		return
	}

	g.logger.Debug("gemini call done", append(fields, zap.Int("response_length", utf8.RuneCountInString(output)))...)
}

func joinCandidates(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

// Logger returns the logger tagged with the provider and model.
func (g *Generator) Logger() *zap.Logger {
	if g == nil || g.logger == nil {
		return zap.NewNop()
	}
	return g.logger
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
