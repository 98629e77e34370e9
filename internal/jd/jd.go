package jd

import "strings"

// Section names.
const (
	HighPriority = "high_priority"
	LowPriority  = "low_priority"
)

var (
	DefaultHighPriorityKeywords = []string{
		"requirements", "responsibilities", "must-haves", "required skills", "what you will do", "your role",
	}
	DefaultLowPriorityKeywords = []string{
		"nice to have", "preferred qualifications", "bonus points", "good to have",
	}
)

// Sections holds the accumulated lowercase text of each job-description part.
type Sections struct {
	HighPriority string `json:"high_priority"`
	LowPriority  string `json:"low_priority"`
	Other        string `json:"other"`
}

// Segmenter splits job descriptions on heading keywords found at the start of
// a line.
type Segmenter struct {
	high []string
	low  []string
}

// NewSegmenter returns a segmenter for the given keyword sets. Empty sets fall
// back to the defaults. Keywords are matched in lowercase.
func NewSegmenter(high, low []string) *Segmenter {
	return &Segmenter{
		high: normalize(high, DefaultHighPriorityKeywords),
		low:  normalize(low, DefaultLowPriorityKeywords),
	}
}

// Segment assigns each line to the section selected by the most recent
// heading. Text before any heading counts as high priority. The Other section
// is part of the result but no rule writes to it.
func (s *Segmenter) Segment(text string) Sections {
	var high, low, other strings.Builder

	current := &high
	for _, line := range strings.Split(strings.ToLower(text), "\n") {
		stripped := strings.TrimSpace(line)

		switch {
		case hasAnyPrefix(stripped, s.high):
			current = &high
		case hasAnyPrefix(stripped, s.low):
			current = &low
		}

		current.WriteString(line)
		current.WriteString("\n")
	}

	return Sections{
		HighPriority: high.String(),
		LowPriority:  low.String(),
		Other:        other.String(),
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func normalize(keywords, fallback []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
