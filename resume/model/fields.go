package model

import (
	"fmt"
	"strings"
)

// PersonalField names one field of Personal.
type PersonalField string

const (
	FieldFullName          PersonalField = "fullName"
	FieldProfessionalTitle PersonalField = "professionalTitle"
	FieldEmail             PersonalField = "email"
	FieldPhone             PersonalField = "phone"
	FieldLocation          PersonalField = "location"
	FieldLinkedIn          PersonalField = "linkedin"
	FieldWebsite           PersonalField = "website"
	FieldSummary           PersonalField = "summary"
)

// PersonalFields lists the personal fields in form order.
var PersonalFields = []PersonalField{
	FieldFullName,
	FieldProfessionalTitle,
	FieldEmail,
	FieldPhone,
	FieldLocation,
	FieldLinkedIn,
	FieldWebsite,
	FieldSummary,
}

// ParsePersonalField validates a personal field name.
func ParsePersonalField(raw string) (PersonalField, error) {
	trimmed := strings.TrimSpace(raw)
	for _, f := range PersonalFields {
		if strings.EqualFold(trimmed, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: personal.%s", ErrUnknownField, raw)
}

// Get returns the value of a personal field.
func (p Personal) Get(field PersonalField) string {
	switch field {
	case FieldFullName:
		return p.FullName
	case FieldProfessionalTitle:
		return p.ProfessionalTitle
	case FieldEmail:
		return p.Email
	case FieldPhone:
		return p.Phone
	case FieldLocation:
		return p.Location
	case FieldLinkedIn:
		return p.LinkedIn
	case FieldWebsite:
		return p.Website
	case FieldSummary:
		return p.Summary
	default:
		return ""
	}
}

// Set replaces the value of a personal field.
func (p *Personal) Set(field PersonalField, value string) error {
	switch field {
	case FieldFullName:
		p.FullName = value
	case FieldProfessionalTitle:
		p.ProfessionalTitle = value
	case FieldEmail:
		p.Email = value
	case FieldPhone:
		p.Phone = value
	case FieldLocation:
		p.Location = value
	case FieldLinkedIn:
		p.LinkedIn = value
	case FieldWebsite:
		p.Website = value
	case FieldSummary:
		p.Summary = value
	default:
		return fmt.Errorf("%w: personal.%s", ErrUnknownField, field)
	}
	return nil
}

// FieldSpec describes one editable field of a section entry.
type FieldSpec struct {
	Name  string
	Label string
	HTML  bool
}

// EntryFields lists the editable fields of a section's entries. The id is
// never editable; skill tools are edited through their own operation.
func EntryFields(section Section) []FieldSpec {
	switch section {
	case SectionExperience:
		return []FieldSpec{
			{Name: "position", Label: "Position"},
			{Name: "company", Label: "Company"},
			{Name: "startDate", Label: "Start Date"},
			{Name: "endDate", Label: "End Date"},
			{Name: "description", Label: "Description", HTML: true},
		}
	case SectionEducation:
		return []FieldSpec{
			{Name: "degree", Label: "Degree"},
			{Name: "institution", Label: "Institution"},
			{Name: "year", Label: "Year"},
			{Name: "description", Label: "Description", HTML: true},
		}
	case SectionSkills:
		return []FieldSpec{
			{Name: "name", Label: "Skill Category"},
		}
	case SectionProjects:
		return []FieldSpec{
			{Name: "name", Label: "Project Name"},
			{Name: "technologies", Label: "Technologies"},
			{Name: "url", Label: "URL"},
			{Name: "description", Label: "Description", HTML: true},
		}
	case SectionCertifications:
		return []FieldSpec{
			{Name: "name", Label: "Certification Name"},
			{Name: "issuer", Label: "Issuer"},
			{Name: "date", Label: "Issue Date"},
			{Name: "expiryDate", Label: "Expiry Date"},
			{Name: "credentialId", Label: "Credential ID"},
			{Name: "url", Label: "URL"},
			{Name: "description", Label: "Description", HTML: true},
		}
	default:
		return nil
	}
}

// Set replaces one field of an experience entry.
func (e *Experience) Set(field, value string) error {
	switch field {
	case "position":
		e.Position = value
	case "company":
		e.Company = value
	case "startDate":
		e.StartDate = value
	case "endDate":
		e.EndDate = value
	case "description":
		e.Description = value
	default:
		return fmt.Errorf("%w: experience.%s", ErrUnknownField, field)
	}
	return nil
}

// Set replaces one field of an education entry.
func (e *Education) Set(field, value string) error {
	switch field {
	case "degree":
		e.Degree = value
	case "institution":
		e.Institution = value
	case "year":
		e.Year = value
	case "description":
		e.Description = value
	default:
		return fmt.Errorf("%w: education.%s", ErrUnknownField, field)
	}
	return nil
}

// Set replaces one field of a skill entry. Tools are not settable here.
func (s *Skill) Set(field, value string) error {
	switch field {
	case "name":
		s.Name = value
	default:
		return fmt.Errorf("%w: skills.%s", ErrUnknownField, field)
	}
	return nil
}

// Set replaces one field of a project entry.
func (p *Project) Set(field, value string) error {
	switch field {
	case "name":
		p.Name = value
	case "description":
		p.Description = value
	case "technologies":
		p.Technologies = value
	case "url":
		p.URL = value
	default:
		return fmt.Errorf("%w: projects.%s", ErrUnknownField, field)
	}
	return nil
}

// Set replaces one field of a certification entry.
func (c *Certification) Set(field, value string) error {
	switch field {
	case "name":
		c.Name = value
	case "issuer":
		c.Issuer = value
	case "date":
		c.Date = value
	case "expiryDate":
		c.ExpiryDate = value
	case "credentialId":
		c.CredentialID = value
	case "url":
		c.URL = value
	case "description":
		c.Description = value
	default:
		return fmt.Errorf("%w: certifications.%s", ErrUnknownField, field)
	}
	return nil
}

func (e Experience) Get(field string) (string, error) {
	switch field {
	case "position":
		return e.Position, nil
	case "company":
		return e.Company, nil
	case "startDate":
		return e.StartDate, nil
	case "endDate":
		return e.EndDate, nil
	case "description":
		return e.Description, nil
	}
	return "", fmt.Errorf("%w: experience.%s", ErrUnknownField, field)
}

func (e Education) Get(field string) (string, error) {
	switch field {
	case "degree":
		return e.Degree, nil
	case "institution":
		return e.Institution, nil
	case "year":
		return e.Year, nil
	case "description":
		return e.Description, nil
	}
	return "", fmt.Errorf("%w: education.%s", ErrUnknownField, field)
}

func (s Skill) Get(field string) (string, error) {
	if field == "name" {
		return s.Name, nil
	}
	return "", fmt.Errorf("%w: skills.%s", ErrUnknownField, field)
}

func (p Project) Get(field string) (string, error) {
	switch field {
	case "name":
		return p.Name, nil
	case "description":
		return p.Description, nil
	case "technologies":
		return p.Technologies, nil
	case "url":
		return p.URL, nil
	}
	return "", fmt.Errorf("%w: projects.%s", ErrUnknownField, field)
}

func (c Certification) Get(field string) (string, error) {
	switch field {
	case "name":
		return c.Name, nil
	case "issuer":
		return c.Issuer, nil
	case "date":
		return c.Date, nil
	case "expiryDate":
		return c.ExpiryDate, nil
	case "credentialId":
		return c.CredentialID, nil
	case "url":
		return c.URL, nil
	case "description":
		return c.Description, nil
	}
	return "", fmt.Errorf("%w: certifications.%s", ErrUnknownField, field)
}

// IsHTMLField reports whether field of section holds an HTML fragment.
// The personal summary is the only HTML field outside the entry sections.
func IsHTMLField(section Section, field string) bool {
	for _, f := range EntryFields(section) {
		if f.Name == field {
			return f.HTML
		}
	}
	return false
}
