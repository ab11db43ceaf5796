// Package suggest asks a generative model for job-specific CV suggestions and
// merges them into a CV.
package suggest

// Suggestion is the structured analysis of a job description.
type Suggestion struct {
	KeySkills         []string             `json:"keySkills"`
	Qualifications    []string             `json:"qualifications"`
	Responsibilities  []string             `json:"responsibilities"`
	Experience        []ExperienceProposal `json:"experience"`
	Education         EducationProposal    `json:"education"`
	StrengthsAnalysis StrengthsAnalysis    `json:"strengthsAnalysis"`
}

// ExperienceProposal is a suggested experience entry.
type ExperienceProposal struct {
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Description    []string `json:"description"`
	RelevantPoints []string `json:"relevantPoints"`
}

// EducationProposal describes the expected education.
type EducationProposal struct {
	Degree      string   `json:"degree"`
	Field       string   `json:"field"`
	Suggestions []string `json:"suggestions"`
}

// StrengthsAnalysis compares the job with the candidate background.
type StrengthsAnalysis struct {
	Matches         []string `json:"matches"`
	Gaps            []string `json:"gaps"`
	Recommendations []string `json:"recommendations"`
}
