// Package shell serves the editor as a server-rendered page: the template
// gallery, the section tabs with their forms, and the scaled live preview.
package shell

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"resume-builder/internal/notify"
	"resume-builder/internal/sessions"
	"resume-builder/resume/model"
	"resume-builder/resume/preview"
	"resume-builder/resume/render"
	"resume-builder/resume/richtext"
	"resume-builder/resume/store"
)

//go:embed page.html.tmpl
var pageSource string

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"inc":     func(i int) int { return i + 1 },
	"dec":     func(i int) int { return i - 1 },
	"toolbar": newToolbar,
}).Parse(pageSource))

type fieldView struct {
	Name  string
	Label string
	Value string
	HTML  bool
}

type entryView struct {
	Fields  []fieldView
	HasHTML bool
}

type sectionView struct {
	Name    model.Section
	Title   string
	Entries []entryView
}

type commandView struct {
	Name  richtext.Command
	Label string
}

type toolbarView struct {
	Base     string
	Query    string
	Section  string
	Index    int
	Field    string
	Commands []commandView
}

var commandLabels = map[richtext.Command]string{
	richtext.Bold:          "B",
	richtext.Italic:        "I",
	richtext.Underline:     "U",
	richtext.UnorderedList: "• List",
	richtext.OrderedList:   "1. List",
	richtext.RemoveFormat:  "Clear",
}

func newToolbar(p page, section any, index int, field string) toolbarView {
	cmds := make([]commandView, 0, len(richtext.Commands))
	for _, c := range richtext.Commands {
		cmds = append(cmds, commandView{Name: c, Label: commandLabels[c]})
	}
	return toolbarView{
		Base:     p.Base,
		Query:    p.Query,
		Section:  fmt.Sprint(section),
		Index:    index,
		Field:    field,
		Commands: cmds,
	}
}

type page struct {
	Title         string
	Stylesheet    template.CSS
	Base          string
	Query         string
	Tabs          []sessions.TabInfo
	ActiveTab     sessions.Tab
	Gallery       []render.Template
	Template      render.TemplateID
	Personal      []fieldView
	Section       *sectionView
	Preview       preview.Controller
	PreviewStyle  template.CSS
	Markup        template.HTML
	Notifications []notify.Notification
	PDF           bool
}

// renderPage builds the shell for sess. Markup is trusted renderer output.
func renderPage(sess sessions.Session, markup string, notes []notify.Notification, query string, pdf bool) ([]byte, error) {
	title := strings.TrimSpace(sess.Document.Personal.FullName)
	if title == "" {
		title = "Untitled resume"
	}
	p := page{
		Title:         title,
		Stylesheet:    template.CSS(render.Stylesheet()),
		Base:          "/app/" + sess.ID,
		Query:         query,
		Tabs:          sessions.Tabs,
		ActiveTab:     sess.ActiveTab,
		Gallery:       render.Gallery(),
		Template:      sess.Template,
		Personal:      personalFields(sess.Document.Personal),
		Preview:       sess.Preview,
		PreviewStyle:  template.CSS(sess.Preview.Style()),
		Markup:        template.HTML(markup),
		Notifications: notes,
		PDF:           pdf,
	}
	if sec, ok := sess.ActiveTab.Section(); ok {
		view, err := newSectionView(sess.Document, sec)
		if err != nil {
			return nil, err
		}
		p.Section = &view
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("render shell: %w", err)
	}
	return buf.Bytes(), nil
}

var personalLabels = map[model.PersonalField]string{
	model.FieldFullName:          "Full Name",
	model.FieldProfessionalTitle: "Professional Title",
	model.FieldEmail:             "Email",
	model.FieldPhone:             "Phone",
	model.FieldLocation:          "Location",
	model.FieldLinkedIn:          "LinkedIn",
	model.FieldWebsite:           "Website",
	model.FieldSummary:           "Professional Summary",
}

func personalFields(p model.Personal) []fieldView {
	out := make([]fieldView, 0, len(model.PersonalFields))
	for _, f := range model.PersonalFields {
		out = append(out, fieldView{
			Name:  string(f),
			Label: personalLabels[f],
			Value: p.Get(f),
			HTML:  f == model.FieldSummary,
		})
	}
	return out
}

func newSectionView(doc model.Document, sec model.Section) (sectionView, error) {
	view := sectionView{Name: sec, Title: sec.Title()}
	specs := model.EntryFields(sec)
	for i := 0; i < doc.Len(sec); i++ {
		var entry entryView
		for _, fd := range specs {
			value, err := store.EntryField(doc, sec, i, fd.Name)
			if err != nil {
				return sectionView{}, err
			}
			entry.Fields = append(entry.Fields, fieldView{Name: fd.Name, Label: fd.Label, Value: value, HTML: fd.HTML})
			entry.HasHTML = entry.HasHTML || fd.HTML
		}
		if sec == model.SectionSkills {
			entry.Fields = append(entry.Fields, fieldView{
				Name:  sessions.ToolsField,
				Label: "Tools (comma-separated)",
				Value: strings.Join(doc.Skills[i].Tools, ", "),
			})
		}
		view.Entries = append(view.Entries, entry)
	}
	return view, nil
}
