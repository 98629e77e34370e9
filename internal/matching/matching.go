package matching

import (
	"strings"

	"github.com/spigell/resume-analyzer/internal/catalog"
	"github.com/spigell/resume-analyzer/internal/jd"
)

const (
	highPriorityWeight = 2
	lowPriorityWeight  = 1
)

// Result is a weighted comparison of candidate skills against a job
// description. Matched and Missing partition the skills found in the job
// description.
type Result struct {
	Score   int      `json:"match_score"`
	Matched []string `json:"matched_keywords"`
	Missing []string `json:"missing_keywords"`

	HighPriority []string `json:"high_priority_skills,omitempty"`
	LowPriority  []string `json:"low_priority_skills,omitempty"`
	Earned       int      `json:"earned_points,omitempty"`
	Max          int      `json:"max_points,omitempty"`
}

// Scorer compares candidate skills with the catalog skills found in each
// priority section of a job description.
type Scorer struct {
	catalog   *catalog.Catalog
	segmenter *jd.Segmenter
}

func NewScorer(c *catalog.Catalog, segmenter *jd.Segmenter) *Scorer {
	if c == nil {
		c = catalog.Default()
	}
	if segmenter == nil {
		segmenter = jd.NewSegmenter(nil, nil)
	}
	return &Scorer{catalog: c, segmenter: segmenter}
}

// Match segments the job description text and scores candidateSkills
// against it.
func (s *Scorer) Match(candidateSkills []string, jobDescription string) Result {
	return s.Score(candidateSkills, s.segmenter.Segment(jobDescription))
}

// Score computes the result for already segmented sections. High priority
// skills are worth two points and low priority skills one; a skill present in
// both sections counts as high priority only.
func (s *Scorer) Score(candidateSkills []string, sections jd.Sections) Result {
	high := s.catalog.FindSet(sections.HighPriority)
	low := s.catalog.FindSet(sections.LowPriority)
	for skill := range high {
		delete(low, skill)
	}

	if len(high)+len(low) == 0 {
		return Result{Matched: []string{}, Missing: []string{}}
	}

	candidate := make(map[string]struct{}, len(candidateSkills))
	for _, skill := range candidateSkills {
		candidate[strings.ToLower(skill)] = struct{}{}
	}

	matched := make(map[string]struct{})
	missing := make(map[string]struct{})
	earned := 0

	for skill := range high {
		if _, ok := candidate[skill]; ok {
			matched[skill] = struct{}{}
			earned += highPriorityWeight
			continue
		}
		missing[skill] = struct{}{}
	}

	for skill := range low {
		if _, ok := candidate[skill]; ok {
			matched[skill] = struct{}{}
			earned += lowPriorityWeight
			continue
		}
		missing[skill] = struct{}{}
	}

	maxScore := highPriorityWeight*len(high) + lowPriorityWeight*len(low)

	return Result{
		Score:        earned * 100 / maxScore,
		Matched:      catalog.Sorted(matched),
		Missing:      catalog.Sorted(missing),
		HighPriority: catalog.Sorted(high),
		LowPriority:  catalog.Sorted(low),
		Earned:       earned,
		Max:          maxScore,
	}
}
