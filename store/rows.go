package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ByLCY/vitae/cv"
)

// cvRow mirrors the cvs table; JSONB columns stay raw until conversion.
type cvRow struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Title          string
	Template       string
	PersonalInfo   []byte
	Education      []byte
	Experience     []byte
	Skills         []byte
	AdditionalInfo []byte
}

type profileRow struct {
	FullName          string
	ProfessionalTitle string
	Summary           string
	Skills            []byte
	Experience        []byte
	Education         []byte
}

// decodeJSON ignores NULL / empty columns.
func decodeJSON(column string, data []byte, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", column, err)
	}
	return nil
}

func encodeJSON(column string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", column, err)
	}
	return data, nil
}

func (r cvRow) toCV() (*CV, error) {
	doc := &cv.Document{Title: r.Title, TemplateID: r.Template}
	if err := decodeJSON("personal_info", r.PersonalInfo, &doc.PersonalInfo); err != nil {
		return nil, err
	}
	if err := decodeJSON("education", r.Education, &doc.Education); err != nil {
		return nil, err
	}
	if err := decodeJSON("experience", r.Experience, &doc.Experience); err != nil {
		return nil, err
	}
	if err := decodeJSON("skills", r.Skills, &doc.Skills); err != nil {
		return nil, err
	}
	if doc.TemplateID == "" {
		doc.TemplateID = cv.DefaultTemplate
	}
	return &CV{ID: r.ID, UserID: r.UserID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt, Document: doc}, nil
}

func rowFromDocument(doc *cv.Document) (cvRow, error) {
	if doc == nil {
		return cvRow{}, fmt.Errorf("document is nil")
	}
	r := cvRow{Title: doc.Title, Template: doc.TemplateID}
	if r.Template == "" {
		r.Template = cv.DefaultTemplate
	}
	var err error
	if r.PersonalInfo, err = encodeJSON("personal_info", doc.PersonalInfo); err != nil {
		return cvRow{}, err
	}
	if r.Education, err = encodeJSON("education", nonNil(doc.Education)); err != nil {
		return cvRow{}, err
	}
	if r.Experience, err = encodeJSON("experience", nonNil(doc.Experience)); err != nil {
		return cvRow{}, err
	}
	if r.Skills, err = encodeJSON("skills", nonNil(doc.Skills)); err != nil {
		return cvRow{}, err
	}
	return r, nil
}

func (r profileRow) toProfile() (*cv.Profile, error) {
	p := &cv.Profile{FullName: r.FullName, ProfessionalTitle: r.ProfessionalTitle, Summary: r.Summary}
	if err := decodeJSON("skills", r.Skills, &p.Skills); err != nil {
		return nil, err
	}
	if err := decodeJSON("experience", r.Experience, &p.Experience); err != nil {
		return nil, err
	}
	if err := decodeJSON("education", r.Education, &p.Education); err != nil {
		return nil, err
	}
	return p, nil
}

func rowFromProfile(p *cv.Profile) (profileRow, error) {
	if p == nil {
		return profileRow{}, fmt.Errorf("profile is nil")
	}
	r := profileRow{FullName: p.FullName, ProfessionalTitle: p.ProfessionalTitle, Summary: p.Summary}
	var err error
	if r.Skills, err = encodeJSON("skills", nonNil(p.Skills)); err != nil {
		return profileRow{}, err
	}
	if r.Experience, err = encodeJSON("experience", nonNil(p.Experience)); err != nil {
		return profileRow{}, err
	}
	if r.Education, err = encodeJSON("education", nonNil(p.Education)); err != nil {
		return profileRow{}, err
	}
	return r, nil
}

// nonNil keeps empty lists as [] rather than null in JSONB columns.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
