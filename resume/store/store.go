// Package store holds the update operations over a resume document. Every
// operation is pure: it takes a document value and returns a new one, leaving
// the input untouched, including on error.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"resume-builder/resume/model"
)

// ErrIndexOutOfRange is returned when an entry index does not address an
// existing entry. The document is returned unchanged.
var ErrIndexOutOfRange = errors.New("index out of range")

// IDGenerator produces unique entry ids.
type IDGenerator func() string

// NewID returns a time-ordered UUID, falling back to a random one.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Store applies update operations to documents.
type Store struct {
	newID IDGenerator
}

// New constructs a Store. A nil generator uses NewID.
func New(gen IDGenerator) *Store {
	if gen == nil {
		gen = NewID
	}
	return &Store{newID: gen}
}

// SetPersonalField replaces one personal field. Any string is accepted.
func (s *Store) SetPersonalField(doc model.Document, field model.PersonalField, value string) (model.Document, error) {
	out := doc.Clone()
	if err := out.Personal.Set(field, value); err != nil {
		return doc, err
	}
	return out, nil
}

// AddEntry appends a blank entry with a fresh id to the section.
func (s *Store) AddEntry(doc model.Document, section model.Section) (model.Document, error) {
	out := doc.Clone()
	id := s.uniqueID(doc, section)
	switch section {
	case model.SectionExperience:
		out.Experience = append(out.Experience, model.Experience{ID: id})
	case model.SectionEducation:
		out.Education = append(out.Education, model.Education{ID: id})
	case model.SectionSkills:
		out.Skills = append(out.Skills, model.Skill{ID: id, Tools: []string{}})
	case model.SectionProjects:
		out.Projects = append(out.Projects, model.Project{ID: id})
	case model.SectionCertifications:
		out.Certifications = append(out.Certifications, model.Certification{ID: id})
	default:
		return doc, fmt.Errorf("%w: %q", model.ErrUnknownSection, section)
	}
	return out, nil
}

// UpdateEntry replaces one field of the entry at index.
func (s *Store) UpdateEntry(doc model.Document, section model.Section, index int, field, value string) (model.Document, error) {
	if err := checkIndex(doc, section, index); err != nil {
		return doc, err
	}
	out := doc.Clone()
	var err error
	switch section {
	case model.SectionExperience:
		err = out.Experience[index].Set(field, value)
	case model.SectionEducation:
		err = out.Education[index].Set(field, value)
	case model.SectionSkills:
		err = out.Skills[index].Set(field, value)
	case model.SectionProjects:
		err = out.Projects[index].Set(field, value)
	case model.SectionCertifications:
		err = out.Certifications[index].Set(field, value)
	}
	if err != nil {
		return doc, err
	}
	return out, nil
}

// RemoveEntry deletes the entry at index, keeping the order of the rest.
func (s *Store) RemoveEntry(doc model.Document, section model.Section, index int) (model.Document, error) {
	if err := checkIndex(doc, section, index); err != nil {
		return doc, err
	}
	out := doc.Clone()
	switch section {
	case model.SectionExperience:
		out.Experience = removeAt(out.Experience, index)
	case model.SectionEducation:
		out.Education = removeAt(out.Education, index)
	case model.SectionSkills:
		out.Skills = removeAt(out.Skills, index)
	case model.SectionProjects:
		out.Projects = removeAt(out.Projects, index)
	case model.SectionCertifications:
		out.Certifications = removeAt(out.Certifications, index)
	}
	return out, nil
}

// MoveEntry moves the entry at from so that it ends up at index to.
func (s *Store) MoveEntry(doc model.Document, section model.Section, from, to int) (model.Document, error) {
	if err := checkIndex(doc, section, from); err != nil {
		return doc, err
	}
	if err := checkIndex(doc, section, to); err != nil {
		return doc, err
	}
	out := doc.Clone()
	switch section {
	case model.SectionExperience:
		out.Experience = moveTo(out.Experience, from, to)
	case model.SectionEducation:
		out.Education = moveTo(out.Education, from, to)
	case model.SectionSkills:
		out.Skills = moveTo(out.Skills, from, to)
	case model.SectionProjects:
		out.Projects = moveTo(out.Projects, from, to)
	case model.SectionCertifications:
		out.Certifications = moveTo(out.Certifications, from, to)
	}
	return out, nil
}

// SetSkillTools replaces the tools of the skill at index with the parsed
// comma-separated list.
func (s *Store) SetSkillTools(doc model.Document, index int, rawText string) (model.Document, error) {
	if err := checkIndex(doc, model.SectionSkills, index); err != nil {
		return doc, err
	}
	out := doc.Clone()
	out.Skills[index].Tools = ParseTools(rawText)
	return out, nil
}

// ParseTools splits on commas, trims each token and drops empty ones.
func ParseTools(raw string) []string {
	parts := strings.Split(raw, ",")
	tools := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			tools = append(tools, trimmed)
		}
	}
	return tools
}

// uniqueID draws ids until one is unused in the section.
func (s *Store) uniqueID(doc model.Document, section model.Section) string {
	used := make(map[string]struct{}, doc.Len(section))
	for _, id := range doc.IDs(section) {
		used[id] = struct{}{}
	}
	for {
		id := s.newID()
		if _, taken := used[id]; !taken && id != "" {
			return id
		}
	}
}

func checkIndex(doc model.Document, section model.Section, index int) error {
	if _, err := model.ParseSection(string(section)); err != nil {
		return err
	}
	n := doc.Len(section)
	if index < 0 || index >= n {
		return fmt.Errorf("%w: %s[%d] (len %d)", ErrIndexOutOfRange, section, index, n)
	}
	return nil
}

func removeAt[T any](items []T, index int) []T {
	return append(items[:index], items[index+1:]...)
}

func moveTo[T any](items []T, from, to int) []T {
	if from == to {
		return items
	}
	item := items[from]
	items = append(items[:from], items[from+1:]...)
	items = append(items[:to], append([]T{item}, items[to:]...)...)
	return items
}

// EntryField reads one field of the entry at index.
func EntryField(doc model.Document, section model.Section, index int, field string) (string, error) {
	if err := checkIndex(doc, section, index); err != nil {
		return "", err
	}
	switch section {
	case model.SectionExperience:
		return doc.Experience[index].Get(field)
	case model.SectionEducation:
		return doc.Education[index].Get(field)
	case model.SectionSkills:
		return doc.Skills[index].Get(field)
	case model.SectionProjects:
		return doc.Projects[index].Get(field)
	default:
		return doc.Certifications[index].Get(field)
	}
}

// AssignIDs gives every entry with an empty or repeated id a fresh one, e.g.
// after importing a document.
func (s *Store) AssignIDs(doc model.Document) model.Document {
	out := doc.Clone()
	out.Normalize()
	fix := func(id *string, seen map[string]struct{}) {
		if _, dup := seen[*id]; *id == "" || dup {
			for {
				*id = s.newID()
				if _, taken := seen[*id]; !taken && *id != "" {
					break
				}
			}
		}
		seen[*id] = struct{}{}
	}
	seen := map[string]struct{}{}
	for i := range out.Experience {
		fix(&out.Experience[i].ID, seen)
	}
	seen = map[string]struct{}{}
	for i := range out.Education {
		fix(&out.Education[i].ID, seen)
	}
	seen = map[string]struct{}{}
	for i := range out.Skills {
		fix(&out.Skills[i].ID, seen)
	}
	seen = map[string]struct{}{}
	for i := range out.Projects {
		fix(&out.Projects[i].ID, seen)
	}
	seen = map[string]struct{}{}
	for i := range out.Certifications {
		fix(&out.Certifications[i].ID, seen)
	}
	return out
}
