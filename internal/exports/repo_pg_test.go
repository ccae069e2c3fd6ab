package exports

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var exportCols = []string{"id", "owner_id", "session_id", "template_id", "format", "title", "storage_key", "mime_type", "size_bytes", "created_at"}

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func sampleExport() Export {
	return Export{
		ID:         "exp-1",
		OwnerID:    "guest:a",
		SessionID:  "sess-1",
		TemplateID: "classic",
		Format:     "pdf",
		Title:      "Jordan Lee",
		StorageKey: "hash/uuid_jordan-lee-classic.pdf",
		MimeType:   "application/pdf",
		SizeBytes:  2048,
		CreatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	e := sampleExport()

	mock.ExpectExec("INSERT INTO exports").
		WithArgs(e.ID, e.OwnerID, e.SessionID, e.TemplateID, e.Format, e.Title, e.StorageKey, e.MimeType, e.SizeBytes, e.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), e); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDOwnership(t *testing.T) {
	repo, mock := newMockRepo(t)
	e := sampleExport()
	row := func() *sqlmock.Rows {
		return sqlmock.NewRows(exportCols).AddRow(e.ID, e.OwnerID, e.SessionID, e.TemplateID, e.Format, e.Title, e.StorageKey, e.MimeType, e.SizeBytes, e.CreatedAt)
	}

	mock.ExpectQuery("SELECT (.+) FROM exports").WithArgs(e.ID).WillReturnRows(row())
	got, err := repo.GetByID(context.Background(), "guest:a", e.ID)
	if err != nil || got != e {
		t.Fatalf("GetByID = %+v, %v", got, err)
	}

	mock.ExpectQuery("SELECT (.+) FROM exports").WithArgs(e.ID).WillReturnRows(row())
	if _, err := repo.GetByID(context.Background(), "guest:b", e.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	mock.ExpectQuery("SELECT (.+) FROM exports").WithArgs("missing").WillReturnError(sql.ErrNoRows)
	if _, err := repo.GetByID(context.Background(), "guest:a", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByOwnerClampsPage(t *testing.T) {
	repo, mock := newMockRepo(t)
	e := sampleExport()

	mock.ExpectQuery("SELECT (.+) FROM exports WHERE owner_id").
		WithArgs("guest:a", 100, 0).
		WillReturnRows(sqlmock.NewRows(exportCols).AddRow(e.ID, e.OwnerID, e.SessionID, e.TemplateID, e.Format, e.Title, e.StorageKey, e.MimeType, e.SizeBytes, e.CreatedAt))

	got, err := repo.ListByOwner(context.Background(), "guest:a", 500, -3)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(got) != 1 || got[0].ID != e.ID {
		t.Fatalf("unexpected list: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
