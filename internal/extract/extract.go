package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/catalog"
)

const headerWindow = 200

var (
	headerNamePattern = regexp.MustCompile(`\b([A-Z]{2,}\s[A-Z]{2,})\b`)
	emailPattern      = regexp.MustCompile(`[\w.-]+@[\w.-]+`)
	phonePattern      = regexp.MustCompile(`(\(?\d{3}\)?[\s.-]?)?\d{3}[\s.-]?\d{4}`)

	sectionHeadings   = []string{"SKILLS", "INTEREST", "PROJECTS", "EDUCATION", "CERTIFICATIONS"}
	skillLikeNameBits = []string{"javascript", "python", "java", "css"}
)

// Candidate holds the fields parsed out of a resume. Missing fields are empty.
type Candidate struct {
	Name   string   `json:"name,omitempty"`
	Email  string   `json:"email,omitempty"`
	Phone  string   `json:"mobile_number,omitempty"`
	Skills []string `json:"skills"`
}

// Extractor pulls candidate fields out of raw resume text.
type Extractor struct {
	catalog *catalog.Catalog
}

func New(c *catalog.Catalog) *Extractor {
	if c == nil {
		c = catalog.Default()
	}
	return &Extractor{catalog: c}
}

// Candidate runs every field heuristic over raw. Blank input yields an empty
// candidate.
func (e *Extractor) Candidate(raw string, entities []ai.Entity) Candidate {
	return Candidate{
		Name:   e.Name(raw, entities),
		Email:  Email(raw),
		Phone:  Phone(raw),
		Skills: e.Skills(raw),
	}
}

// Name looks for an all-caps "FIRST LAST" header near the top of the text and
// falls back to PERSON entities.
func (e *Extractor) Name(raw string, entities []ai.Entity) string {
	head := []rune(strings.TrimSpace(raw))
	if len(head) > headerWindow {
		head = head[:headerWindow]
	}

	if match := headerNamePattern.FindString(string(head)); match != "" && !containsAny(match, sectionHeadings) {
		return titleCase(match)
	}

	var persons []string
	for _, entity := range entities {
		if entity.Label == ai.LabelPerson {
			persons = append(persons, strings.TrimSpace(entity.Text))
		}
	}

	if len(persons) == 0 {
		return ""
	}

	for _, name := range persons {
		if len(strings.Fields(name)) > 1 && !containsAny(strings.ToLower(name), skillLikeNameBits) {
			return name
		}
	}

	for _, name := range persons {
		if !e.catalog.Contains(name) {
			return name
		}
	}

	return persons[0]
}

// Skills returns the catalog skills found in text, sorted.
func (e *Extractor) Skills(text string) []string {
	return e.catalog.Find(text)
}

// Email returns the first email-like token or an empty string.
func Email(text string) string {
	return emailPattern.FindString(text)
}

// Phone returns the first NANP-style phone number or an empty string.
func Phone(text string) string {
	return phonePattern.FindString(text)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// titleCase upper-cases the first letter of every letter run and lower-cases
// the rest.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}

	return b.String()
}
