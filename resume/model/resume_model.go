package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownSection indicates a section name outside the repeatable set.
	ErrUnknownSection = errors.New("unknown section")

	// ErrUnknownField indicates a field name the target record does not have.
	ErrUnknownField = errors.New("unknown field")
)

// Document is the resume aggregate edited by a session.
type Document struct {
	Personal       Personal        `json:"personal" yaml:"personal"`
	Experience     []Experience    `json:"experience" yaml:"experience"`
	Education      []Education     `json:"education" yaml:"education"`
	Skills         []Skill         `json:"skills" yaml:"skills"`
	Projects       []Project       `json:"projects" yaml:"projects"`
	Certifications []Certification `json:"certifications" yaml:"certifications"`
}

// Personal holds identity and contact details. Summary is an HTML fragment.
type Personal struct {
	FullName          string `json:"fullName" yaml:"fullName"`
	ProfessionalTitle string `json:"professionalTitle" yaml:"professionalTitle"`
	Email             string `json:"email" yaml:"email"`
	Phone             string `json:"phone" yaml:"phone"`
	Location          string `json:"location" yaml:"location"`
	LinkedIn          string `json:"linkedin" yaml:"linkedin"`
	Website           string `json:"website" yaml:"website"`
	Summary           string `json:"summary" yaml:"summary"`
}

// Experience represents a work history entry. Description is an HTML fragment.
type Experience struct {
	ID          string `json:"id" yaml:"id"`
	Position    string `json:"position" yaml:"position"`
	Company     string `json:"company" yaml:"company"`
	StartDate   string `json:"startDate" yaml:"startDate"`
	EndDate     string `json:"endDate" yaml:"endDate"`
	Description string `json:"description" yaml:"description"`
}

// Education represents an education entry.
type Education struct {
	ID          string `json:"id" yaml:"id"`
	Degree      string `json:"degree" yaml:"degree"`
	Institution string `json:"institution" yaml:"institution"`
	Year        string `json:"year" yaml:"year"`
	Description string `json:"description" yaml:"description"`
}

// Skill is a named skill group with the tools that belong to it.
type Skill struct {
	ID    string   `json:"id" yaml:"id"`
	Name  string   `json:"name" yaml:"name"`
	Tools []string `json:"tools" yaml:"tools"`
}

// Project represents a notable project. Technologies is free text.
type Project struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description" yaml:"description"`
	Technologies string `json:"technologies" yaml:"technologies"`
	URL          string `json:"url" yaml:"url"`
}

// Certification represents a certification entry.
type Certification struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Issuer       string `json:"issuer" yaml:"issuer"`
	Date         string `json:"date" yaml:"date"`
	ExpiryDate   string `json:"expiryDate" yaml:"expiryDate"`
	CredentialID string `json:"credentialId" yaml:"credentialId"`
	URL          string `json:"url" yaml:"url"`
	Description  string `json:"description" yaml:"description"`
}

// Section names one repeatable collection of a Document.
type Section string

const (
	SectionExperience     Section = "experience"
	SectionEducation      Section = "education"
	SectionSkills         Section = "skills"
	SectionProjects       Section = "projects"
	SectionCertifications Section = "certifications"
)

// Sections lists the repeatable sections in editor order.
var Sections = []Section{
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionProjects,
	SectionCertifications,
}

// ParseSection validates a section name.
func ParseSection(raw string) (Section, error) {
	s := Section(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Sections {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, raw)
}

// Title returns the human label for a section.
func (s Section) Title() string {
	switch s {
	case SectionExperience:
		return "Experience"
	case SectionEducation:
		return "Education"
	case SectionSkills:
		return "Skills"
	case SectionProjects:
		return "Projects"
	case SectionCertifications:
		return "Certifications"
	default:
		return string(s)
	}
}

// Empty returns a document with all fields blank and all collections empty.
func Empty() Document {
	return Document{
		Experience:     []Experience{},
		Education:      []Education{},
		Skills:         []Skill{},
		Projects:       []Project{},
		Certifications: []Certification{},
	}
}

// Clone deep-copies the document so callers never share backing arrays.
func (d Document) Clone() Document {
	out := Document{
		Personal:       d.Personal,
		Experience:     append(make([]Experience, 0, len(d.Experience)), d.Experience...),
		Education:      append(make([]Education, 0, len(d.Education)), d.Education...),
		Skills:         make([]Skill, 0, len(d.Skills)),
		Projects:       append(make([]Project, 0, len(d.Projects)), d.Projects...),
		Certifications: append(make([]Certification, 0, len(d.Certifications)), d.Certifications...),
	}
	for _, skill := range d.Skills {
		skill.Tools = append(make([]string, 0, len(skill.Tools)), skill.Tools...)
		out.Skills = append(out.Skills, skill)
	}
	return out
}

// Len returns the number of entries in a section.
func (d Document) Len(section Section) int {
	switch section {
	case SectionExperience:
		return len(d.Experience)
	case SectionEducation:
		return len(d.Education)
	case SectionSkills:
		return len(d.Skills)
	case SectionProjects:
		return len(d.Projects)
	case SectionCertifications:
		return len(d.Certifications)
	default:
		return 0
	}
}

// IDs returns the entry ids of a section in order.
func (d Document) IDs(section Section) []string {
	ids := make([]string, 0, d.Len(section))
	switch section {
	case SectionExperience:
		for _, e := range d.Experience {
			ids = append(ids, e.ID)
		}
	case SectionEducation:
		for _, e := range d.Education {
			ids = append(ids, e.ID)
		}
	case SectionSkills:
		for _, e := range d.Skills {
			ids = append(ids, e.ID)
		}
	case SectionProjects:
		for _, e := range d.Projects {
			ids = append(ids, e.ID)
		}
	case SectionCertifications:
		for _, e := range d.Certifications {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Normalize replaces nil collections with empty ones, e.g. after decoding.
func (d *Document) Normalize() {
	if d.Experience == nil {
		d.Experience = []Experience{}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Skills == nil {
		d.Skills = []Skill{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.Certifications == nil {
		d.Certifications = []Certification{}
	}
	for i := range d.Skills {
		if d.Skills[i].Tools == nil {
			d.Skills[i].Tools = []string{}
		}
	}
}
