package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"resume-builder/resume/model"
)

const (
	fallbackName  = "Your Name"
	fallbackTitle = "Your Title"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// Contact is one non-empty contact fragment shown in a header.
type Contact struct {
	Kind  string
	Icon  string
	Value string
}

// view is the data every variant executes against.
type view struct {
	model.Document
	Name     string
	Title    string
	Contacts []Contact
}

// Renderer maps a document to the markup of one template variant.
type Renderer struct {
	templates map[TemplateID]*template.Template
}

// New parses every embedded variant.
func New() (*Renderer, error) {
	r := &Renderer{templates: make(map[TemplateID]*template.Template, len(gallery))}
	for _, t := range gallery {
		file := "templates/" + string(t.ID) + ".html.tmpl"
		tpl, err := template.New(string(t.ID)).Funcs(funcMap()).ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", t.ID, err)
		}
		if tpl.Lookup("resume") == nil {
			return nil, fmt.Errorf("template %s does not define \"resume\"", t.ID)
		}
		r.templates[t.ID] = tpl
	}
	return r, nil
}

// MustNew is New for package-level initialization.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes the variant for id against doc. Unknown ids render the
// default variant. HTML fragment fields are emitted as-is.
func (r *Renderer) Render(id TemplateID, doc model.Document) (string, error) {
	tpl, ok := r.templates[id]
	if !ok {
		tpl = r.templates[DefaultTemplate]
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "resume", newView(doc)); err != nil {
		return "", fmt.Errorf("render %s: %w", id, err)
	}
	return buf.String(), nil
}

func newView(doc model.Document) view {
	// Clone also turns nil collections into empty ones.
	doc = doc.Clone()
	return view{
		Document: doc,
		Name:     orDefault(doc.Personal.FullName, fallbackName),
		Title:    orDefault(doc.Personal.ProfessionalTitle, fallbackTitle),
		Contacts: contacts(doc.Personal),
	}
}

func contacts(p model.Personal) []Contact {
	candidates := []Contact{
		{Kind: "email", Icon: "📧", Value: p.Email},
		{Kind: "phone", Icon: "📞", Value: p.Phone},
		{Kind: "location", Icon: "📍", Value: p.Location},
		{Kind: "linkedin", Icon: "🔗", Value: p.LinkedIn},
		{Kind: "website", Icon: "🌐", Value: p.Website},
	}
	out := make([]Contact, 0, len(candidates))
	for _, c := range candidates {
		if strings.TrimSpace(c.Value) != "" {
			out = append(out, c)
		}
	}
	return out
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		// raw marks an HTML fragment field as trusted markup.
		"raw":          func(s string) template.HTML { return template.HTML(s) },
		"join":         strings.Join,
		"joinNonEmpty": joinNonEmpty,
		"dateRange": func(start, end string) string {
			return joinNonEmpty(" - ", start, end)
		},
		"contactLine": func(cs []Contact, sep string) string {
			values := make([]string, 0, len(cs))
			for _, c := range cs {
				values = append(values, c.Value)
			}
			return strings.Join(values, sep)
		},
	}
}

func joinNonEmpty(sep string, values ...string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, sep)
}

func orDefault(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
