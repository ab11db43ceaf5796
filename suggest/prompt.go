package suggest

import (
	"fmt"
	"strings"

	"github.com/ByLCY/vitae/cv"
)

// BuildPrompt creates the recruiter prompt. The candidate background section is
// only included when a profile is given.
func BuildPrompt(jobDescription string, profile *cv.Profile) string {
	background := ""
	if profile != nil {
		background = fmt.Sprintf("\nConsider this candidate's background:\n%s\n", candidateBackground(profile))
	}

	return fmt.Sprintf(`As an expert recruiter and CV writer, analyze this job description in detail:
%s
%s
Provide a comprehensive analysis with the following components:
1. Key Skills: Extract all required technical and soft skills
2. Qualifications: List educational and certification requirements
3. Core Responsibilities: Identify main job duties and expectations
4. Experience Suggestions: Create role-specific experience points that would impress recruiters
5. Strengths Analysis: If a background is provided, analyze:
   - Strong matches between requirements and background
   - Potential gaps or areas for improvement
   - Recommendations for highlighting relevant experience

Return ONLY valid JSON with the following structure (no markdown, no commentary):
{
  "keySkills": ["skill1", "skill2"],
  "qualifications": ["qual1", "qual2"],
  "responsibilities": ["resp1", "resp2"],
  "experience": [{
    "title": "Suggested Title",
    "company": "Type of Company",
    "description": ["point1", "point2"],
    "relevantPoints": ["why this matches job requirements"]
  }],
  "education": {
    "degree": "required/preferred degree",
    "field": "field of study",
    "suggestions": ["educational emphasis points"]
  },
  "strengthsAnalysis": {
    "matches": ["strong match points"],
    "gaps": ["areas to improve"],
    "recommendations": ["how to present experience effectively"]
  }
}`, strings.TrimSpace(jobDescription), background)
}

func candidateBackground(p *cv.Profile) string {
	skills := make([]string, len(p.Skills))
	for i, s := range p.Skills {
		skills[i] = s.Name
	}
	experience := make([]string, len(p.Experience))
	for i, e := range p.Experience {
		experience[i] = fmt.Sprintf("%s at %s (%s)", e.Position, e.Company, e.Description)
	}
	education := make([]string, len(p.Education))
	for i, e := range p.Education {
		education[i] = fmt.Sprintf("%s in %s from %s", e.Degree, e.Field, e.Institution)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "- Name: %s\n", p.FullName)
	fmt.Fprintf(&b, "- Title: %s\n", p.ProfessionalTitle)
	fmt.Fprintf(&b, "- Summary: %s\n", p.Summary)
	fmt.Fprintf(&b, "- Skills: %s\n", strings.Join(skills, ", "))
	fmt.Fprintf(&b, "- Experience: %s\n", strings.Join(experience, "; "))
	fmt.Fprintf(&b, "- Education: %s", strings.Join(education, "; "))
	return b.String()
}
