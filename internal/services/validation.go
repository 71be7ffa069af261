package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "spendtrack/internal/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct runs the struct's validate tags and reports the first
// failure as an InvalidArgument error.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	fe := fieldErrs[0]
	return apperrors.InvalidArgument(fe.Field(), reason(fe))
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	default:
		return "is invalid"
	}
}

// maxSecretBytes is the longest secret bcrypt hashes without truncation.
const maxSecretBytes = 72

type registration struct {
	Handle string `json:"handle" validate:"min=3,max=50"`
	Email  string `json:"email" validate:"required,email,max=255"`
	Secret string `json:"secret" validate:"min=6"`
}

type profileUpdate struct {
	Handle string `json:"handle" validate:"min=3,max=50"`
	Email  string `json:"email" validate:"required,email,max=255"`
	Secret string `json:"secret" validate:"omitempty,min=6"`
}

type categoryName struct {
	Name string `json:"name" validate:"required,max=100"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
