package ai

import (
	"context"
	"errors"
)

// Entity labels emitted by recognizers that the analyzer cares about.
const (
	LabelPerson       = "PERSON"
	LabelOrganization = "ORG"
	LabelGeoPolitical = "GPE"
	LabelLocation     = "LOC"
)

// ErrUnavailable is returned when a capability is not configured.
var ErrUnavailable = errors.New("capability is not available")

// Entity is a text span labeled by an entity recognizer.
type Entity struct {
	Text  string `json:"text" mapstructure:"text"`
	Label string `json:"label" mapstructure:"label"`
}

// EntityRecognizer finds labeled entities in free text. Results keep document
// order and may contain repeats.
type EntityRecognizer interface {
	RecognizeEntities(ctx context.Context, text string) ([]Entity, error)
}

// Classifier ranks candidate labels for a short text, best label first.
type Classifier interface {
	Classify(ctx context.Context, text string, labels []string) ([]string, error)
}
