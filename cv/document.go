// Package cv 定义简历数据模型，以及从存储行或 JSON 文件加载、校验的逻辑。
package cv

// 新建简历的默认值。
const (
	DefaultTitle    = "My Professional CV"
	DefaultTemplate = "modern"
	// Present 是"至今"日期的字面量。
	Present = "Present"
)

// Templates 列出可选模板，顺序即模板选择页的展示顺序。
var Templates = []Template{
	{ID: "modern", Name: "Modern", Description: "Clean and professional design with a modern touch"},
	{ID: "classic", Name: "Classic", Description: "Traditional layout trusted by recruiters"},
	{ID: "creative", Name: "Creative", Description: "Stand out with a unique and artistic design"},
	{ID: "minimalist", Name: "Minimalist", Description: "Simple and elegant with focus on content"},
}

// Template 描述一个可选模板。
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Document 是一份完整的简历，字段名与 cvs 表的列一致。
// 布局引擎只读取它，不做修改。
type Document struct {
	Title        string       `json:"title" validate:"required"`
	TemplateID   string       `json:"template"`
	PersonalInfo PersonalInfo `json:"personal_info"`
	Education    []Education  `json:"education" validate:"dive"`
	Experience   []Experience `json:"experience" validate:"dive"`
	Skills       []Skill      `json:"skills" validate:"dive"`
}

// PersonalInfo 个人信息。Summary 为不限长度的自由文本，排版时需要折行。
type PersonalInfo struct {
	FullName string `json:"fullName" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Location string `json:"location" validate:"required"`
	Summary  string `json:"summary" validate:"required,max=500"`
	Website  string `json:"website,omitempty" validate:"omitempty,url"`
	LinkedIn string `json:"linkedIn,omitempty" validate:"omitempty,url"`
}

// Education 教育经历。日期为展示字符串（MM/YYYY 或 Present）。
type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution" validate:"required"`
	Degree      string `json:"degree" validate:"required"`
	Field       string `json:"field" validate:"required"`
	StartDate   string `json:"startDate" validate:"required,cvdate"`
	EndDate     string `json:"endDate" validate:"required,cvdate_or_present"`
	Description string `json:"description,omitempty"`
}

// Experience 工作经历。Current 为 true 时 EndDate 约定为 Present。
type Experience struct {
	ID          string `json:"id"`
	Company     string `json:"company" validate:"required"`
	Position    string `json:"position" validate:"required"`
	Location    string `json:"location" validate:"required"`
	StartDate   string `json:"startDate" validate:"required,cvmonth"`
	EndDate     string `json:"endDate,omitempty" validate:"omitempty,cvmonth_or_present"`
	Current     bool   `json:"current"`
	Description string `json:"description" validate:"required"`
}

// Period 返回 "start - end" 形式的时间段，进行中的经历一律显示 Present。
func (e Experience) Period() string {
	end := e.EndDate
	if e.Current {
		end = Present
	}
	return e.StartDate + " - " + end
}

// Skill 技能，Level 取值 1-5。
type Skill struct {
	ID    string `json:"id"`
	Name  string `json:"name" validate:"required"`
	Level int    `json:"level" validate:"min=1,max=5"`
}

// New 返回带默认标题与模板的空白简历。
func New() *Document {
	return &Document{
		Title:      DefaultTitle,
		TemplateID: DefaultTemplate,
	}
}

// KnownTemplate 判断模板 id 是否为内置模板。
func KnownTemplate(id string) bool {
	for _, t := range Templates {
		if t.ID == id {
			return true
		}
	}
	return false
}
