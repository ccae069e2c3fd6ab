package exports

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/util"
	"resume-builder/resume/export"
)

// Service stores export artifacts and their history.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
	Now   func() time.Time
}

// RecordInput describes an artifact to keep.
type RecordInput struct {
	OwnerID    string
	SessionID  string
	TemplateID string
	Title      string
	Artifact   export.Artifact
}

// Record saves the artifact and its history record.
func (s *Service) Record(ctx context.Context, in RecordInput) (Export, error) {
	if in.OwnerID == "" || in.SessionID == "" || len(in.Artifact.Body) == 0 {
		return Export{}, ErrInvalidInput
	}
	if s.Repo == nil || s.Store == nil {
		return Export{}, errors.New("missing dependencies")
	}

	stored, err := s.Store.Save(ctx, in.OwnerID, object.Object{
		Name:        FileName(in.Title, in.TemplateID, in.Artifact.Format),
		ContentType: in.Artifact.MimeType,
		Body:        in.Artifact.Body,
	})
	if err != nil {
		return Export{}, err
	}

	e := Export{
		ID:         newID(),
		OwnerID:    in.OwnerID,
		SessionID:  in.SessionID,
		TemplateID: in.TemplateID,
		Format:     string(in.Artifact.Format),
		Title:      strings.TrimSpace(in.Title),
		StorageKey: stored.Key,
		MimeType:   stored.ContentType,
		SizeBytes:  stored.SizeBytes,
		CreatedAt:  s.now(),
	}
	if err := s.Repo.Create(ctx, e); err != nil {
		return Export{}, err
	}
	return e, nil
}

// Get returns one export for its owner.
func (s *Service) Get(ctx context.Context, ownerID, exportID string) (Export, error) {
	if ownerID == "" || exportID == "" {
		return Export{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, ownerID, exportID)
}

// List returns the owner's exports newest first.
func (s *Service) List(ctx context.Context, ownerID string, limit, offset int) ([]Export, error) {
	if ownerID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByOwner(ctx, ownerID, limit, offset)
}

// Open returns the record and a reader over its artifact. The caller closes it.
func (s *Service) Open(ctx context.Context, ownerID, exportID string) (Export, io.ReadCloser, error) {
	e, err := s.Get(ctx, ownerID, exportID)
	if err != nil {
		return Export{}, nil, err
	}
	rc, err := s.Store.Open(ctx, e.StorageKey)
	if err != nil {
		return Export{}, nil, err
	}
	return e, rc, nil
}

// FileName is the download name: "<title slug>-<template><ext>".
func FileName(title, templateID string, format export.Format) string {
	name := util.Slugify(title, "resume")
	if templateID != "" {
		name += "-" + util.Slugify(templateID, "")
	}
	return name + format.Extension()
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func newID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
