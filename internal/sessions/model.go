package sessions

import (
	"fmt"
	"strings"
	"time"

	"resume-builder/internal/notify"
	"resume-builder/resume/model"
	"resume-builder/resume/preview"
	"resume-builder/resume/render"
)

// Tab is the editor panel the shell shows next to the preview.
type Tab string

const (
	TabTemplates      Tab = "templates"
	TabPersonal       Tab = "personal"
	TabExperience     Tab = "experience"
	TabEducation      Tab = "education"
	TabSkills         Tab = "skills"
	TabProjects       Tab = "projects"
	TabCertifications Tab = "certifications"
)

// TabInfo is the navigation label of a tab.
type TabInfo struct {
	ID    Tab    `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// Tabs lists the navigation in display order.
var Tabs = []TabInfo{
	{ID: TabTemplates, Label: "Templates", Icon: "🎨"},
	{ID: TabPersonal, Label: "Personal", Icon: "👤"},
	{ID: TabExperience, Label: "Experience", Icon: "💼"},
	{ID: TabEducation, Label: "Education", Icon: "🎓"},
	{ID: TabSkills, Label: "Skills", Icon: "⚙️"},
	{ID: TabProjects, Label: "Projects", Icon: "📊"},
	{ID: TabCertifications, Label: "Certifications", Icon: "📜"},
}

func ParseTab(raw string) (Tab, error) {
	t := Tab(strings.ToLower(strings.TrimSpace(raw)))
	for _, info := range Tabs {
		if info.ID == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown tab %q", ErrInvalidInput, raw)
}

// Section returns the document section a tab edits, if any.
func (t Tab) Section() (model.Section, bool) {
	s, err := model.ParseSection(string(t))
	return s, err == nil
}

// Session is one visitor's editor: the document plus all view state.
type Session struct {
	ID            string
	OwnerID       string
	Document      model.Document
	Template      render.TemplateID
	Preview       preview.Controller
	ActiveTab     Tab
	Notifications *notify.Queue
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (s Session) clone() Session {
	s.Document = s.Document.Clone()
	return s
}
