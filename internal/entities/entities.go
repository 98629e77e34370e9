package entities

import (
	"sort"

	"github.com/spigell/resume-analyzer/internal/ai"
)

// Summary groups recognized entities by kind. Lists are unique and sorted.
type Summary struct {
	Organizations []string `json:"organizations"`
	Persons       []string `json:"persons"`
	Locations     []string `json:"locations"`
}

// Summarize de-duplicates recognizer output into organizations, persons and
// locations. Entities with other labels are ignored.
func Summarize(entities []ai.Entity) Summary {
	orgs := make(map[string]struct{})
	persons := make(map[string]struct{})
	locations := make(map[string]struct{})

	for _, entity := range entities {
		switch entity.Label {
		case ai.LabelOrganization:
			orgs[entity.Text] = struct{}{}
		case ai.LabelPerson:
			persons[entity.Text] = struct{}{}
		case ai.LabelGeoPolitical, ai.LabelLocation:
			locations[entity.Text] = struct{}{}
		}
	}

	return Summary{
		Organizations: sortedKeys(orgs),
		Persons:       sortedKeys(persons),
		Locations:     sortedKeys(locations),
	}
}

func (s Summary) Len() int {
	return len(s.Organizations) + len(s.Persons) + len(s.Locations)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
