// Package wizard 实现分步填写简历的流程：模板、个人信息、教育、工作、技能、预览。
package wizard

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ByLCY/vitae/cv"
)

// Step 是向导中的一步。
type Step int

const (
	StepTemplate Step = iota
	StepPersonal
	StepEducation
	StepExperience
	StepSkills
	StepReview
)

// Steps 按顺序列出所有步骤。
var Steps = []Step{StepTemplate, StepPersonal, StepEducation, StepExperience, StepSkills, StepReview}

var stepNames = [...]string{"template", "personal", "education", "experience", "skills", "review"}

var stepTitles = [...]string{"Choose Template", "Personal Info", "Education", "Experience", "Skills", "Review"}

var (
	ErrFirstStep = errors.New("已经是第一步")
	ErrLastStep  = errors.New("已经是最后一步")
)

func (s Step) valid() bool { return s >= StepTemplate && s <= StepReview }

func (s Step) String() string {
	if !s.valid() {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// Title 返回步骤的展示标题。
func (s Step) Title() string {
	if !s.valid() {
		return s.String()
	}
	return stepTitles[s]
}

// ParseStep 按名称（不区分大小写）查找步骤。
func ParseStep(name string) (Step, error) {
	for i, n := range stepNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Step(i), nil
		}
	}
	return 0, fmt.Errorf("未知步骤: %q", name)
}

// Wizard 保存正在编辑的简历与当前步骤。
type Wizard struct {
	doc  *cv.Document
	step Step
}

// New 从已有简历开始；doc 为 nil 时使用空白简历。
func New(doc *cv.Document) *Wizard {
	if doc == nil {
		doc = cv.New()
	}
	return &Wizard{doc: doc}
}

// Current 返回当前步骤。
func (w *Wizard) Current() Step { return w.step }

// Index 返回当前步骤的序号（从 0 开始）。
func (w *Wizard) Index() int { return int(w.step) }

// Progress 返回完成百分比，最后一步为 100。
func (w *Wizard) Progress() int {
	return int(math.Round(float64(w.Index()+1) / float64(len(Steps)) * 100))
}

// Document 返回正在编辑的简历。
func (w *Wizard) Document() *cv.Document { return w.doc }

// Next 校验当前步骤的数据，通过后前进一步。
func (w *Wizard) Next() error {
	if w.step == StepReview {
		return ErrLastStep
	}
	if err := w.Validate(w.step); err != nil {
		return err
	}
	w.step++
	return nil
}

// Prev 后退一步，不做校验。
func (w *Wizard) Prev() error {
	if w.step == StepTemplate {
		return ErrFirstStep
	}
	w.step--
	return nil
}

// GoTo 直接跳到任意步骤，与顶部的步骤按钮一致，不做校验。
func (w *Wizard) GoTo(s Step) error {
	if !s.valid() {
		return fmt.Errorf("未知步骤: %d", int(s))
	}
	w.step = s
	return nil
}

// Validate 校验某一步对应的数据。预览步骤校验整份简历。
func (w *Wizard) Validate(s Step) error {
	switch s {
	case StepTemplate:
		if !cv.KnownTemplate(w.doc.TemplateID) {
			return &cv.InputIncompleteError{Fields: []cv.FieldError{{Field: "template", Rule: "oneof"}}}
		}
		return nil
	case StepPersonal:
		return cv.ValidatePersonalInfo(w.doc.PersonalInfo)
	case StepEducation:
		return cv.ValidateEducation(w.doc.Education)
	case StepExperience:
		return cv.ValidateExperience(w.doc.Experience)
	case StepSkills:
		return cv.ValidateSkills(w.doc.Skills)
	case StepReview:
		return cv.Validate(w.doc)
	default:
		return fmt.Errorf("未知步骤: %d", int(s))
	}
}

// Finish 校验整份简历并返回结果。
func (w *Wizard) Finish() (*cv.Document, error) {
	if err := cv.Validate(w.doc); err != nil {
		return nil, err
	}
	if !cv.KnownTemplate(w.doc.TemplateID) {
		return nil, &cv.InputIncompleteError{Fields: []cv.FieldError{{Field: "template", Rule: "oneof"}}}
	}
	return w.doc, nil
}
