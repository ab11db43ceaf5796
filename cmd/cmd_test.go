package cmd

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/vitae/config"
	"github.com/ByLCY/vitae/cv"
	"github.com/ByLCY/vitae/store"
)

const sampleCV = `{
  "title": "Jane CV",
  "template": "modern",
  "personal_info": {
    "fullName": "Jane Doe",
    "title": "Engineer",
    "email": "jane@example.com",
    "phone": "+1 555 0100",
    "location": "Berlin",
    "summary": "Builds reliable services."
  },
  "education": null,
  "experience": [
    {"company": "Acme", "position": "Dev", "location": "Berlin", "startDate": "01/2015", "current": true, "description": "APIs"}
  ],
  "skills": [{"name": "Go", "level": 5}]
}`

// execute runs the root command with fresh flag values.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	renderOut, renderDebug, renderTemplate, renderFileName = "", "", "", ""
	renderSanitize, renderStrict = false, false
	newOut, newUser = "cv.json", ""
	editUser, editID, editOut = "", "", ""
	configFile = filepath.Join(t.TempDir(), "missing.json")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append(args, "--config", configFile))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jane.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleCV), 0o644))
	return path
}

func TestRenderWritesPDF(t *testing.T) {
	in := writeSample(t)
	dir := t.TempDir()
	debug := filepath.Join(dir, "layout.json")

	out, err := execute(t, "", "render", in, "--out", dir, "--debug", debug)
	require.NoError(t, err)
	assert.Contains(t, out, "PDF written")
	assert.Contains(t, out, "(1 pages)")

	data, err := os.ReadFile(filepath.Join(dir, "Jane CV.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	dump, err := os.ReadFile(debug)
	require.NoError(t, err)
	assert.Contains(t, string(dump), `"pageCount": 1`)
}

func TestRenderFileNameAndTemplateOverride(t *testing.T) {
	in := writeSample(t)
	dir := t.TempDir()

	_, err := execute(t, "", "render", in, "--out", dir, "--template", "classic",
		"--file-name", "${personal_info.fullName}/cv.pdf", "--sanitize")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "Jane Doe_cv.pdf"))
	assert.NoError(t, err)
}

func TestRenderRejectsUnknownTemplate(t *testing.T) {
	in := writeSample(t)
	_, err := execute(t, "", "render", in, "--out", t.TempDir(), "--template", "neon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown template")
}

func TestRenderStrictReportsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"title":"x","personal_info":{"fullName":"A","summary":"s"}}`), 0o644))

	_, err := execute(t, "", "render", path, "--out", t.TempDir(), "--strict")
	var incomplete *cv.InputIncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.True(t, incomplete.Has("personal_info.email"))
}

func TestNewWizardWritesCV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "new.json")
	script := strings.Join([]string{
		"Jane CV", "", // title, template
		"Jane Doe", "Engineer", "jane@example.com", "+1 555 0100", "Berlin", "Builds reliable services.", "", "",
		"1", "MIT", "BSc", "Computer Science", "09/2010", "06/2014",
		"1", "Acme", "Dev", "Berlin", "01/2015", "y", "APIs",
		"Go:5, SQL:4",
	}, "\n") + "\n"

	stdout, err := execute(t, script, "new", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Review (100%)")

	doc, err := cv.LoadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Jane CV", doc.Title)
	assert.Equal(t, "modern", doc.TemplateID)
	require.Len(t, doc.Education, 1)
	require.Len(t, doc.Experience, 1)
	assert.Equal(t, cv.Present, doc.Experience[0].EndDate)
	assert.Equal(t, []cv.Skill{{ID: "1", Name: "Go", Level: 5}, {ID: "2", Name: "SQL", Level: 4}}, doc.Skills)
}

func TestNewWizardRepeatsInvalidStep(t *testing.T) {
	out := filepath.Join(t.TempDir(), "new.json")
	script := strings.Join([]string{
		"Jane CV", "neon", // unknown template, asked again
		"", "modern",
		"Jane Doe", "Engineer", "jane@example.com", "+1 555 0100", "Berlin", "Builds reliable services.", "", "",
		"0",
		"0",
		"Go:5",
	}, "\n") + "\n"

	stdout, err := execute(t, script, "new", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "template(oneof)")
}

func TestNewWizardStopsOnEOF(t *testing.T) {
	_, err := execute(t, "Jane CV\n", "new", "--out", filepath.Join(t.TempDir(), "x.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input ended")
}

func TestTemplatesLists(t *testing.T) {
	out, err := execute(t, "", "templates")
	require.NoError(t, err)
	for _, id := range []string{"modern", "classic", "creative", "minimalist"} {
		assert.Contains(t, out, id)
	}
}

func TestNewWizardCapsEntryCount(t *testing.T) {
	out := filepath.Join(t.TempDir(), "new.json")
	script := strings.Join([]string{
		"Jane CV", "",
		"Jane Doe", "Engineer", "jane@example.com", "+1 555 0100", "Berlin", "Builds reliable services.", "", "",
		"999999999", "-1", "0", // education count asked until in range
		"0",
		"Go:5",
	}, "\n") + "\n"

	stdout, err := execute(t, script, "new", "--out", out)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(stdout, "please enter a number from 0 to 50"))

	doc, err := cv.LoadFile(out)
	require.NoError(t, err)
	assert.Empty(t, doc.Education)
}

func TestEditRejectsBadIDs(t *testing.T) {
	_, err := execute(t, "", "edit", "--user", "nope", "--id", uuid.NewString())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --user")

	_, err = execute(t, "", "edit", "--user", uuid.NewString(), "--id", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --id")
}

func TestEditRequiresDatabase(t *testing.T) {
	t.Setenv(config.EnvDatabaseURL, "")
	_, err := execute(t, "", "edit", "--user", uuid.NewString(), "--id", uuid.NewString())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url is required")
}

type fakeEditor struct {
	records map[uuid.UUID]*store.CV
	saved   *cv.Document
}

func (f *fakeEditor) GetCV(_ context.Context, id, userID uuid.UUID) (*store.CV, error) {
	c, ok := f.records[id]
	if !ok || c.UserID != userID {
		return nil, store.ErrNotFound
	}
	return c, nil
}

func (f *fakeEditor) UpdateCV(_ context.Context, id, userID uuid.UUID, doc *cv.Document) error {
	if _, err := f.GetCV(context.Background(), id, userID); err != nil {
		return err
	}
	f.saved = doc
	return nil
}

func TestEditCVKeepsDefaultsAndSaves(t *testing.T) {
	doc, err := cv.Decode([]byte(sampleCV))
	require.NoError(t, err)
	id, userID := uuid.New(), uuid.New()
	db := &fakeEditor{records: map[uuid.UUID]*store.CV{id: {ID: id, UserID: userID, Document: doc}}}

	// Only the company changes; every other answer keeps the stored value.
	script := strings.Join([]string{
		"", "",
		"", "", "", "", "", "", "", "",
		"",
		"", "Globex", "", "", "", "", "",
		"",
	}, "\n") + "\n"
	var out bytes.Buffer
	p := &prompter{in: bufio.NewReader(strings.NewReader(script)), out: &out}

	editOut = filepath.Join(t.TempDir(), "edited.json")
	t.Cleanup(func() { editOut = "" })
	require.NoError(t, editCV(context.Background(), p, db, id, userID))
	assert.Contains(t, out.String(), "CV updated: "+id.String())

	require.NotNil(t, db.saved)
	assert.Equal(t, "Jane CV", db.saved.Title)
	assert.Equal(t, "Jane Doe", db.saved.PersonalInfo.FullName)
	require.Len(t, db.saved.Experience, 1)
	assert.Equal(t, "Globex", db.saved.Experience[0].Company)
	assert.Equal(t, cv.Present, db.saved.Experience[0].EndDate)

	written, err := cv.LoadFile(editOut)
	require.NoError(t, err)
	assert.Equal(t, "Globex", written.Experience[0].Company)
}

func TestEditCVNotFound(t *testing.T) {
	db := &fakeEditor{records: map[uuid.UUID]*store.CV{}}
	p := &prompter{in: bufio.NewReader(strings.NewReader("")), out: &bytes.Buffer{}}
	err := editCV(context.Background(), p, db, uuid.New(), uuid.New())
	require.ErrorIs(t, err, store.ErrNotFound)
}
