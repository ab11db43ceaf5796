package suggest

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ByLCY/vitae/cv"
)

// SuggestedSkillLevel is the level given to skills added from a suggestion.
const SuggestedSkillLevel = 3

// MergeReport summarizes what Merge changed.
type MergeReport struct {
	AddedSkills       []string `json:"addedSkills"`
	UpdatedExperience []string `json:"updatedExperience"`
	Unmatched         []string `json:"unmatched"`
}

// Merge applies a suggestion to doc in place. New key skills are appended;
// description points of experience proposals are appended as "- point" lines
// to the entry whose position matches the proposal title.
func Merge(doc *cv.Document, s *Suggestion) MergeReport {
	var report MergeReport
	if doc == nil || s == nil {
		return report
	}

	have := make(map[string]bool, len(doc.Skills))
	for _, sk := range doc.Skills {
		have[normalize(sk.Name)] = true
	}
	for _, name := range s.KeySkills {
		key := normalize(name)
		if key == "" || have[key] {
			continue
		}
		have[key] = true
		doc.Skills = append(doc.Skills, cv.Skill{
			ID:    uuid.NewString(),
			Name:  strings.TrimSpace(name),
			Level: SuggestedSkillLevel,
		})
		report.AddedSkills = append(report.AddedSkills, strings.TrimSpace(name))
	}

	for _, p := range s.Experience {
		idx := findPosition(doc.Experience, p.Title)
		if idx < 0 {
			report.Unmatched = append(report.Unmatched, p.Title)
			continue
		}
		if appendPoints(&doc.Experience[idx], p.Description) {
			report.UpdatedExperience = append(report.UpdatedExperience, doc.Experience[idx].Position)
		}
	}
	return report
}

func findPosition(entries []cv.Experience, title string) int {
	key := normalize(title)
	if key == "" {
		return -1
	}
	for i, e := range entries {
		if normalize(e.Position) == key {
			return i
		}
	}
	return -1
}

// appendPoints reports whether any new point was added.
func appendPoints(e *cv.Experience, points []string) bool {
	existing := map[string]bool{}
	for _, line := range strings.Split(e.Description, "\n") {
		existing[normalize(strings.TrimPrefix(strings.TrimSpace(line), "- "))] = true
	}
	added := false
	for _, p := range points {
		p = strings.TrimSpace(p)
		if p == "" || existing[normalize(p)] {
			continue
		}
		existing[normalize(p)] = true
		if e.Description != "" {
			e.Description += "\n"
		}
		e.Description += "- " + p
		added = true
	}
	return added
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
