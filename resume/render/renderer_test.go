package render

import (
	"strings"
	"testing"

	"resume-builder/resume/model"
)

func renderAll(t *testing.T, doc model.Document) map[TemplateID]string {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out := make(map[TemplateID]string)
	for _, tpl := range Gallery() {
		html, err := r.Render(tpl.ID, doc)
		if err != nil {
			t.Fatalf("render %s: %v", tpl.ID, err)
		}
		out[tpl.ID] = html
	}
	return out
}

func TestRenderSampleIncludesEveryPopulatedSection(t *testing.T) {
	for id, html := range renderAll(t, model.Sample()) {
		for _, section := range append([]string{"summary"}, sectionNames()...) {
			assertContains(t, id, html, `data-section="`+section+`"`)
		}
		assertContains(t, id, html, "Jordan Lee")
		assertContains(t, id, html, "Northwind Labs")
		assertContains(t, id, html, "University of Texas at Austin")
		assertContains(t, id, html, "Kubernetes")
		assertContains(t, id, html, "Open Source Rate Limiter")
		assertContains(t, id, html, "AWS Certified Solutions Architect")
		assertContains(t, id, html, "xpires 2025-05")
		assertContains(t, id, html, "AWS-12345")
		assertContains(t, id, html, "https://aws.amazon.com/verification")
	}
}

func TestRenderCertificationOptionalFieldsOmittedWhenEmpty(t *testing.T) {
	doc := model.Sample()
	doc.Certifications[0].ExpiryDate = ""
	doc.Certifications[0].CredentialID = ""
	doc.Certifications[0].URL = ""
	for id, html := range renderAll(t, doc) {
		assertContains(t, id, html, "AWS Certified Solutions Architect")
		assertNotContains(t, id, html, "AWS-12345")
		assertNotContains(t, id, html, "aws.amazon.com/verification")
		assertNotContains(t, id, html, "xpires")
	}
}

func TestRenderEmptyDocumentOmitsSections(t *testing.T) {
	for id, html := range renderAll(t, model.Empty()) {
		assertContains(t, id, html, "Your Name")
		assertContains(t, id, html, "Your Title")
		for _, section := range append([]string{"summary"}, sectionNames()...) {
			assertNotContains(t, id, html, `data-section="`+section+`"`)
		}
		assertNotContains(t, id, html, "Experience</h3>")
		assertNotContains(t, id, html, "Work History")
		assertNotContains(t, id, html, "data-contact")
	}
}

func TestRenderOnlyExperienceEmpty(t *testing.T) {
	doc := model.Sample()
	doc.Experience = nil
	for id, html := range renderAll(t, doc) {
		assertNotContains(t, id, html, `data-section="experience"`)
		assertNotContains(t, id, html, "Northwind Labs")
		assertContains(t, id, html, `data-section="education"`)
	}
}

func TestRenderEmptyNameFallsBack(t *testing.T) {
	doc := model.Sample()
	doc.Personal.FullName = ""
	for id, html := range renderAll(t, doc) {
		assertContains(t, id, html, "Your Name")
		assertContains(t, id, html, "Senior Backend Engineer")
	}
}

func TestRenderHTMLFieldsAreNotEscaped(t *testing.T) {
	doc := model.Empty()
	doc.Personal.FullName = "<script>x</script>"
	doc.Personal.Summary = "<p><b>Trusted</b> markup</p>"
	for id, html := range renderAll(t, doc) {
		assertContains(t, id, html, "<p><b>Trusted</b> markup</p>")
		assertNotContains(t, id, html, "<script>x</script>")
		assertContains(t, id, html, "&lt;script&gt;")
	}
}

func TestRenderOmitsMissingContacts(t *testing.T) {
	doc := model.Empty()
	doc.Personal.Email = "a@example.com"
	r := MustNew()
	html, err := r.Render(Modern, doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, Modern, html, `data-contact="email"`)
	for _, kind := range []string{"phone", "location", "linkedin", "website"} {
		assertNotContains(t, Modern, html, `data-contact="`+kind+`"`)
	}
	assertNotContains(t, Modern, html, "📞")
}

func TestUnknownTemplateFallsBackToModern(t *testing.T) {
	r := MustNew()
	doc := model.Sample()
	want, err := r.Render(Modern, doc)
	if err != nil {
		t.Fatalf("render modern: %v", err)
	}
	got, err := r.Render(TemplateID("brutalist"), doc)
	if err != nil {
		t.Fatalf("render unknown: %v", err)
	}
	if got != want {
		t.Fatalf("expected unknown template to render modern")
	}
}

func TestRenderDoesNotMutateDocument(t *testing.T) {
	doc := model.Document{Skills: []model.Skill{{ID: "s1", Name: "Go"}}}
	if _, err := MustNew().Render(Creative, doc); err != nil {
		t.Fatalf("render: %v", err)
	}
	if doc.Skills[0].Tools != nil || doc.Experience != nil {
		t.Fatalf("render mutated its input: %+v", doc)
	}
}

func TestParseTemplateID(t *testing.T) {
	cases := []struct {
		raw  string
		want TemplateID
		ok   bool
	}{
		{"modern", Modern, true},
		{" Classic ", Classic, true},
		{"3", Creative, true},
		{"4", Minimalist, true},
		{"executive", Executive, true},
		{"9", Modern, false},
		{"", Modern, false},
		{"fancy", Modern, false},
	}
	for _, tc := range cases {
		got, ok := ParseTemplateID(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseTemplateID(%q) = %q,%v want %q,%v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestStylesheetCoversPageSetup(t *testing.T) {
	css := Stylesheet()
	if !strings.Contains(css, "@page{size:A4;margin:15mm}") {
		t.Fatalf("expected A4 page rule in stylesheet")
	}
	for _, class := range []string{".heading-modern", ".sidebar-layout", ".bg-executive", ".grid-cols-2"} {
		if !strings.Contains(css, class) {
			t.Fatalf("stylesheet missing %s", class)
		}
	}
}

func sectionNames() []string {
	out := make([]string, 0, len(model.Sections))
	for _, s := range model.Sections {
		out = append(out, string(s))
	}
	return out
}

func assertContains(t *testing.T, id TemplateID, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("%s: expected output to contain %q", id, needle)
	}
}

func assertNotContains(t *testing.T, id TemplateID, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Fatalf("%s: expected output to not contain %q", id, needle)
	}
}
