package catalog

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultSkills is the built-in skill vocabulary.
var DefaultSkills = []string{
	"python", "java", "c++", "javascript", "react", "node.js", "sql", "git",
	"docker", "kubernetes", "aws", "azure", "gcp", "machine learning", "data analysis",
	"project management", "agile", "scrum", "communication", "teamwork", "leadership",
	"problem solving", "html", "css", "power bi", "excel", "mongodb", "restful apis",
	"ci/cd", "system design", "microservices", "postgresql", "vue.js",
}

// Catalog is an immutable ordered set of lowercase skills with a precompiled
// whole-word matcher per skill. It is safe for concurrent use.
type Catalog struct {
	skills   []string
	index    map[string]struct{}
	patterns []*regexp.Regexp
}

// New builds a catalog from the given skills. Entries are trimmed and
// lowercased; blanks and duplicates are dropped, first occurrence keeps its
// position.
func New(skills []string) *Catalog {
	c := &Catalog{index: make(map[string]struct{}, len(skills))}

	for _, skill := range skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			continue
		}
		if _, ok := c.index[skill]; ok {
			continue
		}

		c.index[skill] = struct{}{}
		c.skills = append(c.skills, skill)
		c.patterns = append(c.patterns, wholeWord(skill))
	}

	return c
}

// Default returns a catalog holding DefaultSkills.
func Default() *Catalog {
	return New(DefaultSkills)
}

// wholeWord matches the literal skill when it is not glued to other word
// characters on either side. For skills that start and end with a word
// character this is the same as \bskill\b; for skills like "c++" it still
// accepts "c++ developer".
func wholeWord(skill string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\w])` + regexp.QuoteMeta(skill) + `(?:[^\w]|$)`)
}

// Skills returns a copy of the catalog entries in catalog order.
func (c *Catalog) Skills() []string {
	out := make([]string, len(c.skills))
	copy(out, c.skills)
	return out
}

func (c *Catalog) Len() int {
	return len(c.skills)
}

// Contains reports whether the lowercase form of skill is a catalog entry.
func (c *Catalog) Contains(skill string) bool {
	_, ok := c.index[strings.ToLower(skill)]
	return ok
}

// FindSet returns the set of catalog skills that occur in text.
func (c *Catalog) FindSet(text string) map[string]struct{} {
	found := make(map[string]struct{})
	if strings.TrimSpace(text) == "" {
		return found
	}

	for i, pattern := range c.patterns {
		if pattern.MatchString(text) {
			found[c.skills[i]] = struct{}{}
		}
	}

	return found
}

// Find returns the catalog skills that occur in text, sorted ascending.
func (c *Catalog) Find(text string) []string {
	return Sorted(c.FindSet(text))
}

// Sorted returns the members of set in ascending order.
func Sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for skill := range set {
		out = append(out, skill)
	}
	sort.Strings(out)
	return out
}
