package validators

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/ahmadmoradi/pakhshyar-backend/pkg/errors"
)

// validate reports field names by json tag so error details line up with
// what the client actually sent.
var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]; tag != "" {
			return tag
		}
		return f.Name
	})
	return v
}()

// DecodeJSONBody strictly decodes the request body into dest and runs
// struct validation. Unknown fields are rejected.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer io.Copy(io.Discard, r.Body)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").WithDetails(map[string]any{"error": err.Error()})
	}

	if err := validate.Struct(dest); err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
		}
		details := make(map[string]string, len(errs))
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "uuid":
		return "must be a valid uuid"
	}
	return "is invalid"
}
