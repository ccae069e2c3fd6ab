package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"resume-builder/resume/model"
)

func sequentialIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestAddEntryAppendsWithDistinctID(t *testing.T) {
	s := New(nil)
	for _, section := range model.Sections {
		doc := model.Sample()
		before := doc.IDs(section)

		got, err := s.AddEntry(doc, section)
		if err != nil {
			t.Fatalf("%s: add: %v", section, err)
		}
		after := got.IDs(section)
		if len(after) != len(before)+1 {
			t.Fatalf("%s: expected len %d, got %d", section, len(before)+1, len(after))
		}
		last := after[len(after)-1]
		for _, id := range before {
			if id == last {
				t.Fatalf("%s: new id %q reuses an existing id", section, last)
			}
		}
		if diff := cmp.Diff(before, after[:len(before)]); diff != "" {
			t.Fatalf("%s: existing entries changed (-want +got):\n%s", section, diff)
		}
	}
}

func TestAddEntrySkipsCollidingIDs(t *testing.T) {
	calls := 0
	gen := func() string {
		calls++
		if calls == 1 {
			return "sample-exp-1"
		}
		return "fresh"
	}
	got, err := New(gen).AddEntry(model.Sample(), model.SectionExperience)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if last := got.Experience[len(got.Experience)-1].ID; last != "fresh" {
		t.Fatalf("expected colliding id to be skipped, got %q", last)
	}
}

func TestAddSkillHasEmptyTools(t *testing.T) {
	got, err := New(sequentialIDs()).AddEntry(model.Empty(), model.SectionSkills)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got.Skills[0].Tools == nil || len(got.Skills[0].Tools) != 0 {
		t.Fatalf("expected empty non-nil tools, got %#v", got.Skills[0].Tools)
	}
}

func TestRemoveEntryPreservesOrder(t *testing.T) {
	s := New(sequentialIDs())
	doc := model.Empty()
	var err error
	for i := 0; i < 4; i++ {
		doc, err = s.AddEntry(doc, model.SectionProjects)
		if err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	got, err := s.RemoveEntry(doc, model.SectionProjects, 1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	want := []string{"id-1", "id-3", "id-4"}
	if diff := cmp.Diff(want, got.IDs(model.SectionProjects)); diff != "" {
		t.Fatalf("unexpected ids (-want +got):\n%s", diff)
	}
	if len(doc.Projects) != 4 {
		t.Fatalf("input document was mutated: %d projects", len(doc.Projects))
	}

	again, err := s.AddEntry(got, model.SectionProjects)
	if err != nil {
		t.Fatalf("add after remove: %v", err)
	}
	if last := again.Projects[len(again.Projects)-1].ID; last == "id-2" {
		t.Fatalf("removed id was reused")
	}
}

func TestIndexOutOfRangeLeavesDocumentUnchanged(t *testing.T) {
	s := New(nil)
	doc := model.Sample()
	n := len(doc.Experience)

	cases := []struct {
		name string
		run  func() (model.Document, error)
	}{
		{"update negative", func() (model.Document, error) {
			return s.UpdateEntry(doc, model.SectionExperience, -1, "position", "x")
		}},
		{"update past end", func() (model.Document, error) {
			return s.UpdateEntry(doc, model.SectionExperience, n, "position", "x")
		}},
		{"remove past end", func() (model.Document, error) {
			return s.RemoveEntry(doc, model.SectionExperience, n)
		}},
		{"move past end", func() (model.Document, error) {
			return s.MoveEntry(doc, model.SectionExperience, 0, n)
		}},
		{"tools past end", func() (model.Document, error) {
			return s.SetSkillTools(doc, len(doc.Skills), "Go")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.run()
			if !errors.Is(err, ErrIndexOutOfRange) {
				t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
			}
			if diff := cmp.Diff(doc, got); diff != "" {
				t.Fatalf("document changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUpdateEntry(t *testing.T) {
	s := New(nil)
	doc := model.Sample()

	got, err := s.UpdateEntry(doc, model.SectionCertifications, 0, "credentialId", "XYZ")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Certifications[0].CredentialID != "XYZ" {
		t.Fatalf("expected credential id updated, got %q", got.Certifications[0].CredentialID)
	}
	if doc.Certifications[0].CredentialID == "XYZ" {
		t.Fatalf("input document was mutated")
	}

	if _, err := s.UpdateEntry(doc, model.SectionExperience, 0, "id", "forged"); !errors.Is(err, model.ErrUnknownField) {
		t.Fatalf("expected id to be read-only, got %v", err)
	}
	if _, err := s.UpdateEntry(doc, model.Section("hobbies"), 0, "name", "x"); !errors.Is(err, model.ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
}

func TestSetPersonalFieldAcceptsAnyString(t *testing.T) {
	s := New(nil)
	doc := model.Sample()
	got, err := s.SetPersonalField(doc, model.FieldEmail, "")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if got.Personal.Email != "" {
		t.Fatalf("expected empty email, got %q", got.Personal.Email)
	}
	got, err = s.SetPersonalField(got, model.FieldSummary, "<b>not validated</i>")
	if err != nil {
		t.Fatalf("set summary: %v", err)
	}
	if got.Personal.Summary != "<b>not validated</i>" {
		t.Fatalf("summary was altered: %q", got.Personal.Summary)
	}
}

func TestSetSkillTools(t *testing.T) {
	s := New(nil)
	doc := model.Sample()
	got, err := s.SetSkillTools(doc, 0, "React, , Node.js ,")
	if err != nil {
		t.Fatalf("set tools: %v", err)
	}
	if diff := cmp.Diff([]string{"React", "Node.js"}, got.Skills[0].Tools); diff != "" {
		t.Fatalf("unexpected tools (-want +got):\n%s", diff)
	}
}

func TestParseTools(t *testing.T) {
	cases := map[string][]string{
		"":            {},
		" , ,":        {},
		"Go":          {"Go"},
		" Go ,SQL,  ": {"Go", "SQL"},
	}
	for raw, want := range cases {
		if diff := cmp.Diff(want, ParseTools(raw)); diff != "" {
			t.Fatalf("ParseTools(%q) (-want +got):\n%s", raw, diff)
		}
	}
}

func TestMoveEntry(t *testing.T) {
	s := New(sequentialIDs())
	doc := model.Empty()
	var err error
	for i := 0; i < 3; i++ {
		if doc, err = s.AddEntry(doc, model.SectionEducation); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	got, err := s.MoveEntry(doc, model.SectionEducation, 2, 0)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if diff := cmp.Diff([]string{"id-3", "id-1", "id-2"}, got.IDs(model.SectionEducation)); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
	got, err = s.MoveEntry(got, model.SectionEducation, 0, 2)
	if err != nil {
		t.Fatalf("move back: %v", err)
	}
	if diff := cmp.Diff([]string{"id-1", "id-2", "id-3"}, got.IDs(model.SectionEducation)); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestEntryField(t *testing.T) {
	doc := model.Sample()
	got, err := EntryField(doc, model.SectionExperience, 0, "company")
	if err != nil || got != "Northwind Labs" {
		t.Fatalf("EntryField = %q, %v", got, err)
	}
	if _, err := EntryField(doc, model.SectionSkills, 0, "tools"); !errors.Is(err, model.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if _, err := EntryField(doc, model.SectionProjects, 7, "name"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestAssignIDsFillsBlankAndDuplicateIDs(t *testing.T) {
	s := New(sequentialIDs())
	doc := model.Document{
		Experience: []model.Experience{{ID: "a"}, {ID: "a"}, {}},
		Skills:     []model.Skill{{ID: "s"}},
	}
	got := s.AssignIDs(doc)

	if diff := cmp.Diff([]string{"a", "id-1", "id-2"}, got.IDs(model.SectionExperience)); diff != "" {
		t.Fatalf("experience ids (-want +got):\n%s", diff)
	}
	if got.Skills[0].ID != "s" || got.Skills[0].Tools == nil || got.Education == nil {
		t.Fatalf("expected normalized document: %+v", got)
	}
	if doc.Experience[1].ID != "a" {
		t.Fatalf("input mutated")
	}
}
