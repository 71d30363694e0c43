package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ahmadmoradi/pakhshyar-backend/api/responses"
	"github.com/ahmadmoradi/pakhshyar-backend/api/validators"
	documentsvc "github.com/ahmadmoradi/pakhshyar-backend/internal/documents"
	repsvc "github.com/ahmadmoradi/pakhshyar-backend/internal/representatives"
	pkgerrors "github.com/ahmadmoradi/pakhshyar-backend/pkg/errors"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/logger"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/storage/local"
)

type createRepresentativeRequest struct {
	FirstName       string  `json:"first_name" validate:"required"`
	LastName        string  `json:"last_name" validate:"required"`
	FatherName      *string `json:"father_name,omitempty"`
	NationalID      string  `json:"national_id" validate:"required"`
	PhoneNumber     string  `json:"phone_number" validate:"required"`
	City            string  `json:"city" validate:"required"`
	Address         *string `json:"address,omitempty"`
	EducationCenter *string `json:"education_center,omitempty"`
	Password        string  `json:"password,omitempty"`
}

type updateRepresentativeRequest struct {
	FirstName       *string `json:"first_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	FatherName      *string `json:"father_name,omitempty"`
	NationalID      *string `json:"national_id,omitempty"`
	PhoneNumber     *string `json:"phone_number,omitempty"`
	City            *string `json:"city,omitempty"`
	Address         *string `json:"address,omitempty"`
	EducationCenter *string `json:"education_center,omitempty"`
	IsActive        *bool   `json:"is_active,omitempty"`
	Password        *string `json:"password,omitempty"`
}

// RepresentativeList returns the roster, newest first.
func RepresentativeList(svc *repsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "representative service unavailable"))
			return
		}

		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := repsvc.ListQuery{Pagination: page}
		if raw := strings.TrimSpace(r.URL.Query().Get("is_active")); raw != "" {
			active := raw == "true"
			query.IsActive = &active
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("city")); raw != "" {
			query.City = &raw
		}

		users, total, err := svc.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"representatives": repsvc.NewUserDTOs(users),
			"total":           total,
		})
	}
}

// RepresentativeGet returns one representative with documents and contracts.
func RepresentativeGet(svc *repsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "representative service unavailable"))
			return
		}

		repID, err := validators.ParsePathUUID(chi.URLParam(r, "representativeId"), "representativeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Get(r.Context(), repID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, repsvc.NewDetailDTO(user))
	}
}

// RepresentativeCreate adds a representative account.
func RepresentativeCreate(svc *repsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "representative service unavailable"))
			return
		}

		var body createRepresentativeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Create(r.Context(), repsvc.CreateInput{
			FirstName:       body.FirstName,
			LastName:        body.LastName,
			FatherName:      body.FatherName,
			NationalID:      body.NationalID,
			PhoneNumber:     body.PhoneNumber,
			City:            body.City,
			Address:         body.Address,
			EducationCenter: body.EducationCenter,
			Password:        body.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, repsvc.NewUserDTO(user))
	}
}

// RepresentativeUpdate patches a representative account.
func RepresentativeUpdate(svc *repsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "representative service unavailable"))
			return
		}

		repID, err := validators.ParsePathUUID(chi.URLParam(r, "representativeId"), "representativeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateRepresentativeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Update(r.Context(), repsvc.UpdateInput{
			ID:              repID,
			FirstName:       body.FirstName,
			LastName:        body.LastName,
			FatherName:      body.FatherName,
			NationalID:      body.NationalID,
			PhoneNumber:     body.PhoneNumber,
			City:            body.City,
			Address:         body.Address,
			EducationCenter: body.EducationCenter,
			IsActive:        body.IsActive,
			Password:        body.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, repsvc.NewDetailDTO(user))
	}
}

// RepresentativeDelete removes a representative and their files.
func RepresentativeDelete(svc *repsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "representative service unavailable"))
			return
		}

		repID, err := validators.ParsePathUUID(chi.URLParam(r, "representativeId"), "representativeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), repID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// RepresentativeUploadFile attaches a document, contract or profile image
// via multipart form: type, title and the file field.
func RepresentativeUploadFile(docs *documentsvc.Service, reps *repsvc.Service, store *local.Store, maxUploadMB int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if docs == nil || reps == nil || store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "document service unavailable"))
			return
		}

		repID, err := validators.ParsePathUUID(chi.URLParam(r, "representativeId"), "representativeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if maxUploadMB <= 0 {
			maxUploadMB = 10
		}
		if err := r.ParseMultipartForm(int64(maxUploadMB) * megabyte); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		kindRaw := strings.TrimSpace(r.FormValue("type"))

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file required"))
			return
		}
		defer file.Close()

		path, err := store.Save(header.Filename, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing file"))
			return
		}

		if kindRaw == "profile_image" {
			user, err := reps.UpdateProfileImage(r.Context(), repID, path)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, repsvc.NewDetailDTO(user))
			return
		}

		kind, err := documentsvc.ParseFileKind(kindRaw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		title := strings.TrimSpace(r.FormValue("title"))
		if title == "" {
			title = header.Filename
		}

		record, err := docs.AttachFile(r.Context(), documentsvc.AttachFileInput{
			UserID:   repID,
			Kind:     kind,
			Title:    title,
			FileURL:  path,
			FileType: header.Header.Get("Content-Type"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}
