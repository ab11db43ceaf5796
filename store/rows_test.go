package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/vitae/cv"
)

func TestCVRowRoundTrip(t *testing.T) {
	doc := &cv.Document{
		Title: "Backend CV",
		PersonalInfo: cv.PersonalInfo{
			FullName: "Jane Doe", Email: "jane@example.com", Summary: "Builds things.",
		},
		Experience: []cv.Experience{{Company: "Acme", Position: "Engineer", StartDate: "01/2020", Current: true}},
		Skills:     []cv.Skill{{ID: "s1", Name: "Go", Level: 5}},
	}

	r, err := rowFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, cv.DefaultTemplate, r.Template)
	assert.JSONEq(t, `[]`, string(r.Education))

	r.ID = uuid.New()
	got, err := r.toCV()
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, "Backend CV", got.Document.Title)
	assert.Equal(t, doc.PersonalInfo, got.Document.PersonalInfo)
	assert.Equal(t, doc.Experience, got.Document.Experience)
	assert.Equal(t, doc.Skills, got.Document.Skills)
	assert.Empty(t, got.Document.Education)
}

func TestCVRowHandlesNullColumns(t *testing.T) {
	r := cvRow{
		Title:        "Imported",
		PersonalInfo: []byte(`{"fullName":"Ann","summary":"x"}`),
		Education:    nil,
		Experience:   []byte("null"),
		Skills:       []byte(`[{"id":"1","name":"SQL","level":3}]`),
	}
	got, err := r.toCV()
	require.NoError(t, err)
	assert.Equal(t, cv.DefaultTemplate, got.Document.TemplateID)
	assert.Equal(t, "Ann", got.Document.PersonalInfo.FullName)
	assert.Nil(t, got.Document.Experience)
	require.Len(t, got.Document.Skills, 1)
	assert.Equal(t, 3, got.Document.Skills[0].Level)
}

func TestCVRowRejectsCorruptJSON(t *testing.T) {
	_, err := cvRow{Skills: []byte(`{not json`)}.toCV()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skills")
}

func TestProfileRowRoundTrip(t *testing.T) {
	p := &cv.Profile{
		FullName:          "Jane Doe",
		ProfessionalTitle: "Engineer",
		Skills:            []cv.Skill{{Name: "Go", Level: 4}},
	}
	r, err := rowFromProfile(p)
	require.NoError(t, err)
	got, err := r.toProfile()
	require.NoError(t, err)
	assert.Equal(t, p.FullName, got.FullName)
	assert.Equal(t, p.Skills, got.Skills)
	assert.Empty(t, got.Experience)

	_, err = rowFromProfile(nil)
	assert.Error(t, err)
	_, err = rowFromDocument(nil)
	assert.Error(t, err)
}
