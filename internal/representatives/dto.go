package representatives

import (
	"time"

	"github.com/google/uuid"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/enums"
)

// UserDTO is the public shape of a user. The password hash never leaves the
// persistence layer.
type UserDTO struct {
	ID              uuid.UUID  `json:"id"`
	Role            enums.Role `json:"role"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	FatherName      *string    `json:"father_name,omitempty"`
	NationalID      string     `json:"national_id"`
	PhoneNumber     string     `json:"phone_number"`
	City            string     `json:"city"`
	Address         *string    `json:"address,omitempty"`
	EducationCenter *string    `json:"education_center,omitempty"`
	IsActive        bool       `json:"is_active"`
	ProfileImage    *string    `json:"profile_image,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DetailDTO adds the attached files to the public user shape.
type DetailDTO struct {
	UserDTO
	Documents []DocumentDTO `json:"documents"`
	Contracts []ContractDTO `json:"contracts"`
}

// DocumentDTO is the public shape of an uploaded document.
type DocumentDTO struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	FileURL   string    `json:"file_url"`
	FileType  string    `json:"file_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ContractDTO is the public shape of a contract record.
type ContractDTO struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	FileURL   string    `json:"file_url"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserDTO maps the model onto its public shape.
func NewUserDTO(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:              user.ID,
		Role:            user.Role,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		FatherName:      user.FatherName,
		NationalID:      user.NationalID,
		PhoneNumber:     user.PhoneNumber,
		City:            user.City,
		Address:         user.Address,
		EducationCenter: user.EducationCenter,
		IsActive:        user.IsActive,
		ProfileImage:    user.ProfileImage,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}

// NewUserDTOs maps a slice of users.
func NewUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, *NewUserDTO(&users[i]))
	}
	return out
}

// NewDetailDTO maps a user with preloaded documents and contracts.
func NewDetailDTO(user *models.User) *DetailDTO {
	if user == nil {
		return nil
	}
	detail := &DetailDTO{
		UserDTO:   *NewUserDTO(user),
		Documents: make([]DocumentDTO, 0, len(user.Documents)),
		Contracts: make([]ContractDTO, 0, len(user.Contracts)),
	}
	for _, doc := range user.Documents {
		detail.Documents = append(detail.Documents, DocumentDTO{
			ID:        doc.ID,
			Title:     doc.Title,
			FileURL:   doc.FileURL,
			FileType:  doc.FileType,
			CreatedAt: doc.CreatedAt,
		})
	}
	for _, contract := range user.Contracts {
		detail.Contracts = append(detail.Contracts, ContractDTO{
			ID:        contract.ID,
			Title:     contract.Title,
			FileURL:   contract.FileURL,
			StartDate: contract.StartDate,
			EndDate:   contract.EndDate,
			CreatedAt: contract.CreatedAt,
		})
	}
	return detail
}
