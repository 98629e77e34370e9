package classify

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/ai"
)

// DefaultLabels are offered to the classifier for skills the manual table
// does not cover.
var DefaultLabels = []string{
	"Technical", "Management", "Soft Skills", "Design", "Data Science", "Software Engineering",
}

// Category is one entry of the manual category table.
type Category struct {
	Name   string   `mapstructure:"name"`
	Skills []string `mapstructure:"skills"`
}

// DefaultCategories is the built-in manual category table. Order matters: a
// skill listed in several categories lands in the first one.
var DefaultCategories = []Category{
	{Name: "Technical", Skills: []string{
		"react", "java", "python", "c++", "javascript", "node.js", "sql", "git", "docker", "kubernetes",
		"aws", "azure", "gcp", "html", "css", "power bi", "excel", "mongodb", "postgresql", "vue.js",
	}},
	{Name: "Management", Skills: []string{"project management", "agile", "scrum"}},
	{Name: "Soft Skills", Skills: []string{"communication", "teamwork", "leadership", "problem solving"}},
	{Name: "Data Science", Skills: []string{"machine learning", "data analysis"}},
}

// Result maps category names to non-empty skill lists. Unclassified lists the
// skills that could not be placed because the classifier was unavailable or
// failed; they are not part of any category.
type Result struct {
	Categories   map[string][]string `json:"categories"`
	Unclassified []string            `json:"unclassified,omitempty"`
}

// Degraded reports whether some skills were left out of the categories.
func (r Result) Degraded() bool {
	return len(r.Unclassified) > 0
}

type table struct {
	name   string
	skills map[string]struct{}
}

// Classifier buckets skills using the manual table first and a zero-shot
// classifier for the rest.
type Classifier struct {
	table      []table
	labels     []string
	classifier ai.Classifier
	timeout    time.Duration
	logger     *zap.Logger
}

// Deps aggregates the optional collaborators of the classifier.
type Deps struct {
	Classifier ai.Classifier
	Logger     *zap.Logger
}

// Config customizes the manual table, the candidate labels and the per-call
// timeout. Zero values select the defaults.
type Config struct {
	Categories []Category
	Labels     []string
	Timeout    time.Duration
}

func New(cfg Config, deps Deps) *Classifier {
	categories := cfg.Categories
	if len(categories) == 0 {
		categories = DefaultCategories
	}

	labels := cfg.Labels
	if len(labels) == 0 {
		labels = DefaultLabels
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Classifier{
		labels:     append([]string(nil), labels...),
		classifier: deps.Classifier,
		timeout:    cfg.Timeout,
		logger:     logger,
	}

	for _, category := range categories {
		t := table{name: category.Name, skills: make(map[string]struct{}, len(category.Skills))}
		for _, skill := range category.Skills {
			t.skills[strings.ToLower(strings.TrimSpace(skill))] = struct{}{}
		}
		c.table = append(c.table, t)
	}

	return c
}

// Classify places every skill in at most one category. Without a classifier,
// or when a call fails, the remaining skills are reported in
// Result.Unclassified.
func (c *Classifier) Classify(ctx context.Context, skills []string) Result {
	result := Result{Categories: make(map[string][]string)}
	if len(skills) == 0 {
		return result
	}

	categorized := make(map[string]struct{}, len(skills))
	for _, t := range c.table {
		for _, skill := range skills {
			if _, done := categorized[skill]; done {
				continue
			}
			if _, ok := t.skills[strings.ToLower(skill)]; ok {
				result.Categories[t.name] = append(result.Categories[t.name], skill)
				categorized[skill] = struct{}{}
			}
		}
	}

	for _, skill := range skills {
		if _, done := categorized[skill]; done {
			continue
		}
		categorized[skill] = struct{}{}

		label, err := c.classify(ctx, skill)
		if err != nil {
			c.logger.Warn("skill left unclassified",
				zap.String("skill", skill),
				zap.Error(err),
			)
			result.Unclassified = append(result.Unclassified, skill)
			continue
		}

		result.Categories[label] = append(result.Categories[label], skill)
	}

	for name, list := range result.Categories {
		if len(list) == 0 {
			delete(result.Categories, name)
		}
	}

	return result
}

func (c *Classifier) classify(ctx context.Context, skill string) (string, error) {
	if c.classifier == nil {
		return "", ai.ErrUnavailable
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	ranked, err := c.classifier.Classify(ctx, skill, c.labels)
	if err != nil {
		return "", err
	}

	for _, label := range ranked {
		if label = strings.TrimSpace(label); label != "" {
			return label, nil
		}
	}

	return "", errEmptyRanking
}
