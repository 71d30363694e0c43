package documents

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
	pkgerrors "github.com/ahmadmoradi/pakhshyar-backend/pkg/errors"
)

// FileKind discriminates uploaded representative files.
type FileKind string

const (
	FileKindDocument FileKind = "document"
	FileKindContract FileKind = "contract"
)

// ParseFileKind validates the multipart "type" field.
func ParseFileKind(value string) (FileKind, error) {
	switch FileKind(value) {
	case FileKindDocument, FileKindContract:
		return FileKind(value), nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "type must be document or contract")
	}
}

// contractTerm is the default validity window for new contracts.
const contractTerm = 365 * 24 * time.Hour

// Service attaches uploaded files to representatives.
type Service struct {
	repo Repository
	now  func() time.Time
}

// ServiceParams groups dependencies for the document service.
type ServiceParams struct {
	Repo Repository
	Now  func() time.Time
}

// NewService builds a document service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{repo: params.Repo, now: now}, nil
}

// AttachFileInput records one stored file against a representative.
type AttachFileInput struct {
	UserID   uuid.UUID
	Kind     FileKind
	Title    string
	FileURL  string
	FileType string
}

// FileRecordDTO is the public shape of a stored file record. Contract
// records carry the validity window.
type FileRecordDTO struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Kind      FileKind   `json:"kind"`
	Title     string     `json:"title"`
	FileURL   string     `json:"file_url"`
	FileType  string     `json:"file_type,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// AttachFile stores a document or contract record. Contracts run for one
// year from the upload date.
func (s *Service) AttachFile(ctx context.Context, input AttachFileInput) (*FileRecordDTO, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "representative id required")
	}
	if input.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if input.FileURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file required")
	}

	if _, err := s.repo.FindUser(ctx, input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "representative not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading representative")
	}

	switch input.Kind {
	case FileKindContract:
		start := s.now().UTC()
		contract := &models.Contract{
			ID:        uuid.New(),
			UserID:    input.UserID,
			Title:     input.Title,
			FileURL:   input.FileURL,
			StartDate: start,
			EndDate:   start.Add(contractTerm),
		}
		if err := s.repo.CreateContract(ctx, contract); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating contract")
		}
		return &FileRecordDTO{
			ID:        contract.ID,
			UserID:    contract.UserID,
			Kind:      FileKindContract,
			Title:     contract.Title,
			FileURL:   contract.FileURL,
			StartDate: &contract.StartDate,
			EndDate:   &contract.EndDate,
			CreatedAt: contract.CreatedAt,
		}, nil

	case FileKindDocument:
		doc := &models.Document{
			ID:       uuid.New(),
			UserID:   input.UserID,
			Title:    input.Title,
			FileURL:  input.FileURL,
			FileType: input.FileType,
		}
		if err := s.repo.CreateDocument(ctx, doc); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating document")
		}
		return &FileRecordDTO{
			ID:        doc.ID,
			UserID:    doc.UserID,
			Kind:      FileKindDocument,
			Title:     doc.Title,
			FileURL:   doc.FileURL,
			FileType:  doc.FileType,
			CreatedAt: doc.CreatedAt,
		}, nil

	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "type must be document or contract")
	}
}
