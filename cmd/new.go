package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ByLCY/vitae/cv"
	"github.com/ByLCY/vitae/store"
	"github.com/ByLCY/vitae/wizard"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	newOut  string
	newUser string
)

//nolint:gochecknoglobals // Cobra boilerplate
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a CV step by step",
	Long: `Walk through the CV wizard (template, personal info, education,
experience, skills, review) and write the result as JSON.

A step that fails validation is asked again. With --user the CV is also
saved to the database.`,
	Args: cobra.NoArgs,
	RunE: runNew,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVar(&newOut, "out", "cv.json", "Where to write the CV JSON")
	newCmd.Flags().StringVar(&newUser, "user", "", "Also save the CV for this user ID")
}

// maxEntries bounds how many education or experience entries one step asks for.
const maxEntries = 50

type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// ask prints label and returns the trimmed answer, or def when it is empty.
func (p *prompter) ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", errors.New("input ended before the wizard finished")
		}
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// askCount reads a number in [0, maxEntries].
func (p *prompter) askCount(label string, def int) (int, error) {
	for {
		s, err := p.ask(label, strconv.Itoa(def))
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(s)
		if err == nil && n >= 0 && n <= maxEntries {
			return n, nil
		}
		fmt.Fprintf(p.out, "  please enter a number from 0 to %d\n", maxEntries)
	}
}

func (p *prompter) askBool(label string, def bool) (bool, error) {
	d := "n"
	if def {
		d = "y"
	}
	s, err := p.ask(label+" (y/n)", d)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(strings.ToLower(s), "y"), nil
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
}

// runWizard asks every step until the CV validates, starting from doc.
func runWizard(p *prompter, doc *cv.Document) (*cv.Document, error) {
	w := wizard.New(doc)
	for w.Current() != wizard.StepReview {
		fmt.Fprintf(p.out, "\n== %s (%d%%) ==\n", w.Current().Title(), w.Progress())
		if err := fillStep(p, w.Current(), w.Document()); err != nil {
			return nil, err
		}
		if err := w.Next(); err != nil {
			fmt.Fprintf(p.out, "  %v\n", err)
		}
	}

	fmt.Fprintf(p.out, "\n== %s (%d%%) ==\n", w.Current().Title(), w.Progress())
	out, err := w.Finish()
	if err != nil {
		return nil, err
	}
	printReview(p.out, out)
	return out, nil
}

func runNew(cmd *cobra.Command, args []string) error {
	p := newPrompter(cmd)
	doc, err := runWizard(p, nil)
	if err != nil {
		return err
	}
	if err := writeDocument(newOut, doc); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "CV written: %s\n", newOut)
	if newUser == "" {
		return nil
	}
	return saveNewCV(cmd.Context(), p.out, doc)
}

func saveNewCV(ctx context.Context, out io.Writer, doc *cv.Document) error {
	userID, err := uuid.Parse(newUser)
	if err != nil {
		return errors.Wrap(err, "invalid --user")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	db, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	id, err := db.CreateCV(ctx, userID, doc)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "CV saved: %s\n", id)
	return nil
}

func fillStep(p *prompter, step wizard.Step, doc *cv.Document) error {
	switch step {
	case wizard.StepTemplate:
		return fillTemplate(p, doc)
	case wizard.StepPersonal:
		return fillPersonal(p, &doc.PersonalInfo)
	case wizard.StepEducation:
		return fillEducation(p, doc)
	case wizard.StepExperience:
		return fillExperience(p, doc)
	case wizard.StepSkills:
		return fillSkills(p, doc)
	}
	return nil
}

func fillTemplate(p *prompter, doc *cv.Document) error {
	for _, t := range cv.Templates {
		fmt.Fprintf(p.out, "  %-10s %s\n", t.ID, t.Description)
	}
	var err error
	if doc.Title, err = p.ask("CV title", doc.Title); err != nil {
		return err
	}
	doc.TemplateID, err = p.ask("Template", doc.TemplateID)
	return err
}

func fillPersonal(p *prompter, info *cv.PersonalInfo) error {
	fields := []struct {
		label string
		dst   *string
	}{
		{"Full name", &info.FullName},
		{"Professional title", &info.Title},
		{"Email", &info.Email},
		{"Phone", &info.Phone},
		{"Location", &info.Location},
		{"Summary", &info.Summary},
		{"Website (optional)", &info.Website},
		{"LinkedIn (optional)", &info.LinkedIn},
	}
	for _, f := range fields {
		v, err := p.ask(f.label, *f.dst)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}

func fillEducation(p *prompter, doc *cv.Document) error {
	n, err := p.askCount("Number of education entries", len(doc.Education))
	if err != nil {
		return err
	}
	items := make([]cv.Education, n)
	copy(items, doc.Education)
	for i := range items {
		e := &items[i]
		fmt.Fprintf(p.out, "  -- education %d --\n", i+1)
		for _, f := range []struct {
			label string
			dst   *string
		}{
			{"Institution", &e.Institution},
			{"Degree", &e.Degree},
			{"Field of study", &e.Field},
			{"Start date (MM/YYYY)", &e.StartDate},
			{"End date (MM/YYYY or Present)", &e.EndDate},
		} {
			if *f.dst, err = p.ask(f.label, *f.dst); err != nil {
				return err
			}
		}
		if e.ID == "" {
			e.ID = strconv.Itoa(i + 1)
		}
	}
	doc.Education = items
	return nil
}

func fillExperience(p *prompter, doc *cv.Document) error {
	n, err := p.askCount("Number of experience entries", len(doc.Experience))
	if err != nil {
		return err
	}
	items := make([]cv.Experience, n)
	copy(items, doc.Experience)
	for i := range items {
		e := &items[i]
		fmt.Fprintf(p.out, "  -- experience %d --\n", i+1)
		for _, f := range []struct {
			label string
			dst   *string
		}{
			{"Company", &e.Company},
			{"Position", &e.Position},
			{"Location", &e.Location},
			{"Start date (MM/YYYY)", &e.StartDate},
		} {
			if *f.dst, err = p.ask(f.label, *f.dst); err != nil {
				return err
			}
		}
		if e.Current, err = p.askBool("Current position", e.Current); err != nil {
			return err
		}
		if e.Current {
			e.EndDate = cv.Present
		} else if e.EndDate, err = p.ask("End date (MM/YYYY)", e.EndDate); err != nil {
			return err
		}
		if e.Description, err = p.ask("Description", e.Description); err != nil {
			return err
		}
		if e.ID == "" {
			e.ID = strconv.Itoa(i + 1)
		}
	}
	doc.Experience = items
	return nil
}

// fillSkills reads "name:level" pairs separated by commas.
func fillSkills(p *prompter, doc *cv.Document) error {
	def := make([]string, 0, len(doc.Skills))
	for _, s := range doc.Skills {
		def = append(def, fmt.Sprintf("%s:%d", s.Name, s.Level))
	}
	line, err := p.ask("Skills (name:level 1-5, comma separated)", strings.Join(def, ", "))
	if err != nil {
		return err
	}
	var skills []cv.Skill
	for i, part := range strings.Split(line, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, levelText, found := strings.Cut(part, ":")
		level := 3
		if found {
			if level, err = strconv.Atoi(strings.TrimSpace(levelText)); err != nil {
				level = 0
			}
		}
		skills = append(skills, cv.Skill{ID: strconv.Itoa(i + 1), Name: strings.TrimSpace(name), Level: level})
	}
	doc.Skills = skills
	return nil
}

func printReview(out io.Writer, doc *cv.Document) {
	fmt.Fprintf(out, "%s (%s)\n", doc.Title, doc.TemplateID)
	fmt.Fprintf(out, "  %s, %s <%s>\n", doc.PersonalInfo.FullName, doc.PersonalInfo.Title, doc.PersonalInfo.Email)
	fmt.Fprintf(out, "  %d education, %d experience, %d skills\n", len(doc.Education), len(doc.Experience), len(doc.Skills))
}
