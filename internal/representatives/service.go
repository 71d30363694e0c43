package representatives

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/config"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/enums"
	pkgerrors "github.com/ahmadmoradi/pakhshyar-backend/pkg/errors"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/security"
)

// Service manages the representative roster.
type Service struct {
	repo        Repository
	passwordCfg config.PasswordConfig
}

// ServiceParams groups dependencies for the representative service.
type ServiceParams struct {
	Repo        Repository
	PasswordCfg config.PasswordConfig
}

// NewService builds a representative service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo, passwordCfg: params.PasswordCfg}, nil
}

// CreateInput carries a new representative. Password defaults to the
// national id when not provided so first login works out of the box.
type CreateInput struct {
	FirstName       string
	LastName        string
	FatherName      *string
	NationalID      string
	PhoneNumber     string
	City            string
	Address         *string
	EducationCenter *string
	Password        string
	ProfileImage    *string
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*models.User, error) {
	if input.FirstName == "" || input.LastName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name required")
	}
	if input.NationalID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "national id required")
	}
	if input.PhoneNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone number required")
	}
	if input.City == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "city required")
	}

	password := input.Password
	if password == "" {
		password = input.NationalID
	}
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		ID:              uuid.New(),
		Role:            enums.RoleRepresentative,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		FatherName:      input.FatherName,
		NationalID:      input.NationalID,
		PhoneNumber:     input.PhoneNumber,
		City:            input.City,
		Address:         input.Address,
		EducationCenter: input.EducationCenter,
		IsActive:        true,
		ProfileImage:    input.ProfileImage,
		PasswordHash:    hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "national id already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating representative")
	}
	return user, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "representative id required")
	}
	user, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "representative not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading representative")
	}
	return user, nil
}

func (s *Service) List(ctx context.Context, params ListQuery) ([]models.User, int64, error) {
	users, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing representatives")
	}
	total, err := s.repo.Count(ctx, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting representatives")
	}
	return users, total, nil
}

// UpdateInput patches a representative. Nil fields are unchanged. Role is
// never patchable; representatives stay representatives.
type UpdateInput struct {
	ID              uuid.UUID
	FirstName       *string
	LastName        *string
	FatherName      *string
	NationalID      *string
	PhoneNumber     *string
	City            *string
	Address         *string
	EducationCenter *string
	IsActive        *bool
	Password        *string
	ProfileImage    *string
}

func (s *Service) Update(ctx context.Context, input UpdateInput) (*models.User, error) {
	if input.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "representative id required")
	}

	fields := map[string]any{}
	setString := func(column string, value *string, required bool) error {
		if value == nil {
			return nil
		}
		if required && *value == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, column+" required")
		}
		fields[column] = *value
		return nil
	}

	if err := setString("first_name", input.FirstName, true); err != nil {
		return nil, err
	}
	if err := setString("last_name", input.LastName, true); err != nil {
		return nil, err
	}
	if err := setString("father_name", input.FatherName, false); err != nil {
		return nil, err
	}
	if err := setString("national_id", input.NationalID, true); err != nil {
		return nil, err
	}
	if err := setString("phone_number", input.PhoneNumber, true); err != nil {
		return nil, err
	}
	if err := setString("city", input.City, true); err != nil {
		return nil, err
	}
	if err := setString("address", input.Address, false); err != nil {
		return nil, err
	}
	if err := setString("education_center", input.EducationCenter, false); err != nil {
		return nil, err
	}
	if err := setString("profile_image", input.ProfileImage, false); err != nil {
		return nil, err
	}
	if input.IsActive != nil {
		fields["is_active"] = *input.IsActive
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
		}
		fields["password_hash"] = hash
	}
	if len(fields) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}

	if _, err := s.findByID(ctx, input.ID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFields(ctx, input.ID, fields); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "national id already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating representative")
	}
	return s.Get(ctx, input.ID)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting representative")
	}
	return nil
}

// UpdateProfileImage points the representative at a stored image path.
func (s *Service) UpdateProfileImage(ctx context.Context, id uuid.UUID, imagePath string) (*models.User, error) {
	if imagePath == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image path required")
	}
	return s.Update(ctx, UpdateInput{ID: id, ProfileImage: &imagePath})
}

func (s *Service) findByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "representative id required")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "representative not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading representative")
	}
	return user, nil
}
