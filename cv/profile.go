package cv

// Profile 是用户资料，用于生成岗位建议。字段与 user_profiles 表一致。
type Profile struct {
	FullName          string       `json:"full_name"`
	ProfessionalTitle string       `json:"professional_title"`
	Summary           string       `json:"summary"`
	Skills            []Skill      `json:"skills"`
	Experience        []Experience `json:"experience"`
	Education         []Education  `json:"education"`
}

// ProfileFromDocument 从简历提取资料，用于没有单独保存资料的用户。
func ProfileFromDocument(doc *Document) *Profile {
	if doc == nil {
		return &Profile{}
	}
	return &Profile{
		FullName:          doc.PersonalInfo.FullName,
		ProfessionalTitle: doc.PersonalInfo.Title,
		Summary:           doc.PersonalInfo.Summary,
		Skills:            doc.Skills,
		Experience:        doc.Experience,
		Education:         doc.Education,
	}
}
