package cv

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var monthYearPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/(\d{4})$`)

var validate = newValidator()

// FieldError 描述单个字段的校验失败。
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// InputIncompleteError 表示必填字段缺失或格式不合法。
type InputIncompleteError struct {
	Fields []FieldError
}

func (e *InputIncompleteError) Error() string {
	if len(e.Fields) == 0 {
		return "cv: 输入不完整"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s(%s)", f.Field, f.Rule))
	}
	return "cv: 输入不完整: " + strings.Join(parts, ", ")
}

// Has 判断某个字段是否校验失败，field 使用 JSON 路径（如 personal_info.email）。
func (e *InputIncompleteError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("cvdate", func(fl validator.FieldLevel) bool {
		return validMonthYear(fl.Field().String(), time.Now())
	})
	_ = v.RegisterValidation("cvdate_or_present", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == Present || validMonthYear(s, time.Now())
	})
	// 工作经历只校验格式，不限制年份。
	_ = v.RegisterValidation("cvmonth", func(fl validator.FieldLevel) bool {
		return monthYearPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("cvmonth_or_present", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == Present || monthYearPattern.MatchString(s)
	})
	return v
}

// validMonthYear 校验 MM/YYYY，年份需在 [1900, 当前年份+10] 内。
func validMonthYear(s string, now time.Time) bool {
	m := monthYearPattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return false
	}
	return year >= 1900 && year <= now.Year()+10
}

// Validate 校验整份简历。
func Validate(doc *Document) error {
	if doc == nil {
		return &InputIncompleteError{Fields: []FieldError{{Field: "document", Rule: "required"}}}
	}
	return check(doc, "")
}

// ValidatePersonalInfo 仅校验个人信息，供分步表单使用。
func ValidatePersonalInfo(p PersonalInfo) error { return check(&p, "personal_info") }

// ValidateEducation 校验教育经历列表。
func ValidateEducation(items []Education) error { return checkList(items, "education") }

// ValidateExperience 校验工作经历列表。
func ValidateExperience(items []Experience) error { return checkList(items, "experience") }

// ValidateSkills 校验技能列表。
func ValidateSkills(items []Skill) error { return checkList(items, "skills") }

func checkList[T any](items []T, prefix string) error {
	var fields []FieldError
	for i := range items {
		err := check(&items[i], fmt.Sprintf("%s[%d]", prefix, i))
		var incomplete *InputIncompleteError
		if errors.As(err, &incomplete) {
			fields = append(fields, incomplete.Fields...)
		} else if err != nil {
			return err
		}
	}
	if len(fields) > 0 {
		return &InputIncompleteError{Fields: fields}
	}
	return nil
}

// check 运行 validator 并把错误转换为以 JSON 路径表示的 FieldError。
// prefix 为空时使用结构体内的相对路径。
func check(v any, prefix string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("cv: 校验失败: %w", err)
	}
	out := &InputIncompleteError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		path := fe.Namespace()
		// 去掉根结构体名
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		if prefix != "" {
			path = prefix + "." + path
		}
		out.Fields = append(out.Fields, FieldError{Field: path, Rule: fe.Tag()})
	}
	return out
}
