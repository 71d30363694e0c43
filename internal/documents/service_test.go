package documents

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
	pkgerrors "github.com/ahmadmoradi/pakhshyar-backend/pkg/errors"
)

func TestParseFileKind(t *testing.T) {
	if kind, err := ParseFileKind("document"); err != nil || kind != FileKindDocument {
		t.Fatalf("expected document kind, got %v %v", kind, err)
	}
	if kind, err := ParseFileKind("contract"); err != nil || kind != FileKindContract {
		t.Fatalf("expected contract kind, got %v %v", kind, err)
	}
	if _, err := ParseFileKind("passport"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestAttachContractRunsOneYear(t *testing.T) {
	user := &models.User{ID: uuid.New()}
	repo := &stubDocumentRepo{user: user}
	uploaded := time.Date(2026, time.March, 10, 8, 30, 0, 0, time.UTC)
	svc := newTestDocumentService(t, repo, uploaded)

	record, err := svc.AttachFile(context.Background(), AttachFileInput{
		UserID:  user.ID,
		Kind:    FileKindContract,
		Title:   "sales contract",
		FileURL: "/uploads/contract.pdf",
	})
	if err != nil {
		t.Fatalf("attach contract: %v", err)
	}

	if repo.contract == nil {
		t.Fatalf("expected contract persisted")
	}
	if record.StartDate == nil || !record.StartDate.Equal(uploaded) {
		t.Fatalf("expected start date %s, got %v", uploaded, record.StartDate)
	}
	wantEnd := uploaded.Add(365 * 24 * time.Hour)
	if record.EndDate == nil || !record.EndDate.Equal(wantEnd) {
		t.Fatalf("expected end date %s, got %v", wantEnd, record.EndDate)
	}
	if record.Kind != FileKindContract {
		t.Fatalf("expected contract kind, got %s", record.Kind)
	}
}

func TestAttachDocument(t *testing.T) {
	user := &models.User{ID: uuid.New()}
	repo := &stubDocumentRepo{user: user}
	svc := newTestDocumentService(t, repo, time.Now())

	record, err := svc.AttachFile(context.Background(), AttachFileInput{
		UserID:   user.ID,
		Kind:     FileKindDocument,
		Title:    "national card",
		FileURL:  "/uploads/card.jpg",
		FileType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("attach document: %v", err)
	}

	if repo.document == nil {
		t.Fatalf("expected document persisted")
	}
	if record.FileType != "image/jpeg" {
		t.Fatalf("expected file type carried through, got %q", record.FileType)
	}
	if record.StartDate != nil || record.EndDate != nil {
		t.Fatalf("documents should not carry a validity window")
	}
}

func TestAttachFileUnknownRepresentative(t *testing.T) {
	repo := &stubDocumentRepo{}
	svc := newTestDocumentService(t, repo, time.Now())

	_, err := svc.AttachFile(context.Background(), AttachFileInput{
		UserID:  uuid.New(),
		Kind:    FileKindDocument,
		Title:   "national card",
		FileURL: "/uploads/card.jpg",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAttachFileValidation(t *testing.T) {
	user := &models.User{ID: uuid.New()}
	repo := &stubDocumentRepo{user: user}
	svc := newTestDocumentService(t, repo, time.Now())

	_, err := svc.AttachFile(context.Background(), AttachFileInput{
		UserID: user.ID,
		Kind:   FileKindDocument,
		Title:  "missing file",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func newTestDocumentService(t *testing.T, repo Repository, now time.Time) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo: repo,
		Now:  func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

type stubDocumentRepo struct {
	user     *models.User
	document *models.Document
	contract *models.Contract
}

func (s *stubDocumentRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubDocumentRepo) CreateDocument(ctx context.Context, doc *models.Document) error {
	clone := *doc
	s.document = &clone
	return nil
}

func (s *stubDocumentRepo) CreateContract(ctx context.Context, contract *models.Contract) error {
	clone := *contract
	s.contract = &clone
	return nil
}

func (s *stubDocumentRepo) FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}
