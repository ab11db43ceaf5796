package layout

import (
	"testing"

	"github.com/ByLCY/vitae/cv"
)

func TestOutputName(t *testing.T) {
	doc := &cv.Document{Title: "My/CV:Report", PersonalInfo: cv.PersonalInfo{FullName: "Ann"}}
	cases := []struct {
		pattern  string
		sanitize bool
		want     string
	}{
		{"", false, "My/CV:Report.pdf"},
		{"", true, "My_CV_Report.pdf"},
		{"${personal_info.fullName}.pdf", false, "Ann.pdf"},
		{"${missing:-cv}.pdf", false, "cv.pdf"},
	}
	for _, c := range cases {
		if got := OutputName(c.pattern, doc, c.sanitize); got != c.want {
			t.Fatalf("OutputName(%q, %v) = %q，期望 %q", c.pattern, c.sanitize, got, c.want)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"  ..":            "cv.pdf",
		"a\\b*c?.pdf":     "a_b_c_.pdf",
		"ok name.pdf":     "ok name.pdf",
		"tab\there.pdf":   "tab_here.pdf",
		`"quoted"<x>.pdf`: "_quoted__x_.pdf",
	}
	for in, want := range cases {
		if got := SanitizeFileName(in); got != want {
			t.Fatalf("SanitizeFileName(%q) = %q，期望 %q", in, got, want)
		}
	}
}
