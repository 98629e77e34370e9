package analysis

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/catalog"
	"github.com/spigell/resume-analyzer/internal/entities"
)

type stubRecognizer struct {
	entities []ai.Entity
	err      error
	calls    int
	deadline bool
}

func (s *stubRecognizer) RecognizeEntities(ctx context.Context, _ string) ([]ai.Entity, error) {
	s.calls++
	_, s.deadline = ctx.Deadline()
	return s.entities, s.err
}

type stubClassifier struct {
	label string
	err   error
}

func (s *stubClassifier) Classify(_ context.Context, _ string, labels []string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []string{s.label, labels[0]}, nil
}

const resume = `Senior engineer at Acme in Berlin.
Contact: jane.doe@example.com, (555) 123-4567
Skills: Python, Docker, Scrum, Leadership, Machine Learning`

func TestAnalyze(t *testing.T) {
	recognizer := &stubRecognizer{entities: []ai.Entity{
		{Text: "Jane Doe", Label: ai.LabelPerson},
		{Text: "Acme", Label: ai.LabelOrganization},
		{Text: "Berlin", Label: ai.LabelGeoPolitical},
		{Text: "Acme", Label: ai.LabelOrganization},
	}}

	svc, err := New(Config{Timeout: time.Second}, Deps{
		Recognizer: recognizer,
		Classifier: &stubClassifier{label: "Design"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Analyze(context.Background(), resume)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Parsed.Name != "Jane Doe" {
		t.Fatalf("unexpected name: %q", got.Parsed.Name)
	}
	if got.Parsed.Email != "jane.doe@example.com" || got.Parsed.Phone != "(555) 123-4567" {
		t.Fatalf("unexpected contacts: %+v", got.Parsed)
	}

	wantSkills := []string{"docker", "leadership", "machine learning", "python", "scrum"}
	if !reflect.DeepEqual(got.Parsed.Skills, wantSkills) {
		t.Fatalf("unexpected skills: %v", got.Parsed.Skills)
	}

	wantCategories := map[string][]string{
		"Technical":    {"docker", "python"},
		"Management":   {"scrum"},
		"Soft Skills":  {"leadership"},
		"Data Science": {"machine learning"},
	}
	if !reflect.DeepEqual(got.SkillAnalysis.Categories, wantCategories) {
		t.Fatalf("unexpected categories: %v", got.SkillAnalysis.Categories)
	}

	wantEntities := entities.Summary{
		Organizations: []string{"Acme"},
		Persons:       []string{"Jane Doe"},
		Locations:     []string{"Berlin"},
	}
	if !reflect.DeepEqual(got.KeyEntities, wantEntities) {
		t.Fatalf("unexpected entities: %+v", got.KeyEntities)
	}

	if len(got.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", got.Warnings)
	}
	if !recognizer.deadline {
		t.Fatalf("expected recognizer call to carry a deadline")
	}
}

func TestAnalyzeWithoutCapabilities(t *testing.T) {
	svc, err := New(Config{}, Deps{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Analyze(context.Background(), "JOHN SMITH\nSkills: Python, Figma")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Parsed.Name != "John Smith" {
		t.Fatalf("unexpected name: %q", got.Parsed.Name)
	}
	if len(got.Warnings) != 1 || !strings.HasPrefix(got.Warnings[0], "entities skipped") {
		t.Fatalf("expected entities warning, got %v", got.Warnings)
	}
	if got.KeyEntities.Len() != 0 {
		t.Fatalf("expected no entities, got %+v", got.KeyEntities)
	}
}

func TestAnalyzeDegradesOnCapabilityErrors(t *testing.T) {
	svc, err := New(Config{}, Deps{
		Recognizer: &stubRecognizer{err: errors.New("model offline")},
		Classifier: &stubClassifier{err: errors.New("quota")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Analyze(context.Background(), "Skills: python and restful apis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// restful apis is not in the manual table and the classifier fails.
	if !reflect.DeepEqual(got.SkillAnalysis.Unclassified, []string{"restful apis"}) {
		t.Fatalf("unexpected unclassified skills: %v", got.SkillAnalysis.Unclassified)
	}
	if !reflect.DeepEqual(got.SkillAnalysis.Categories, map[string][]string{"Technical": {"python"}}) {
		t.Fatalf("unexpected categories: %v", got.SkillAnalysis.Categories)
	}
	if len(got.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", got.Warnings)
	}
}

func TestAnalyzeEmptyText(t *testing.T) {
	recognizer := &stubRecognizer{}
	svc, err := New(Config{}, Deps{Recognizer: recognizer, Classifier: &stubClassifier{label: "Design"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Analyze(context.Background(), " \n\t ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if recognizer.calls != 0 {
		t.Fatalf("recognizer must not be called for blank text")
	}
	if got.Parsed.Name != "" || len(got.Parsed.Skills) != 0 || len(got.SkillAnalysis.Categories) != 0 {
		t.Fatalf("expected empty analysis, got %+v", got)
	}
	if len(got.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", got.Warnings)
	}
}

func TestMatchSkills(t *testing.T) {
	svc, err := New(Config{}, Deps{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := svc.MatchSkills([]string{"python", "docker"}, "Requirements:\npython\nsql\nNice to have:\ndocker")

	if got.Score != 60 {
		t.Fatalf("expected score 60, got %d", got.Score)
	}
	if !reflect.DeepEqual(got.Matched, []string{"docker", "python"}) || !reflect.DeepEqual(got.Missing, []string{"sql"}) {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestDescribe(t *testing.T) {
	svc, err := New(Config{Timeout: 5 * time.Second}, Deps{Recognizer: &stubRecognizer{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	statuses := svc.Describe()
	if len(statuses) != 4 {
		t.Fatalf("expected 4 stages, got %d", len(statuses))
	}

	byName := make(map[string]Status)
	for _, status := range statuses {
		byName[status.Name] = status
	}

	if !byName[entitiesStageName].Enabled || byName[entitiesStageName].Details["timeout"] != "5s" {
		t.Fatalf("unexpected entities status: %+v", byName[entitiesStageName])
	}
	if byName[categoriesStageName].Details["zero_shot"] != "false" {
		t.Fatalf("unexpected categories status: %+v", byName[categoriesStageName])
	}
	if !byName[fieldsStageName].Enabled || !byName[keyEntitiesStageName].Enabled {
		t.Fatalf("expected fields and key entities to be enabled: %+v", statuses)
	}
}

func TestDescribeDisabledRecognizer(t *testing.T) {
	svc, err := New(Config{}, Deps{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status := svc.Describe()[0]
	if status.Enabled || status.Reason == "" {
		t.Fatalf("expected disabled entities stage with reason, got %+v", status)
	}
}

func TestNewLogsCatalogSize(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	if _, err := New(Config{}, Deps{Catalog: catalog.New([]string{"go", "Go", "rust"}), Logger: zap.New(core)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := logs.FilterMessage("skill catalog loaded").All()
	if len(entries) != 1 || entries[0].ContextMap()["skills"] != int64(2) {
		t.Fatalf("expected catalog size 2 to be logged, got %v", entries)
	}
}
