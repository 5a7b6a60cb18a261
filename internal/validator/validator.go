package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/aretw0/enigma/pkg/domain"
	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names, the way clients wrote them.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// Struct checks the validate tags of v. Tag violations come back as a
// *domain.AggregateError of *domain.ConfigError, so they unwrap to
// domain.ErrInvalidArgument.
func Struct(v any) error {
	if v == nil {
		return domain.Invalid("request cannot be nil")
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// Settings runs the tag checks and then the machine's own checks (code length,
// plugboard overlaps), which tags cannot express.
func Settings(s domain.Settings) error {
	if err := Struct(s); err != nil {
		return err
	}
	return s.Normalized().Validate()
}

// formatValidationError converts validator errors to domain config errors.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	errs := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		errs = append(errs, &domain.ConfigError{
			Field:  fieldPath(e.Namespace()),
			Reason: reason(e),
			Value:  e.Value(),
		})
	}
	return &domain.AggregateError{Errors: errs}
}

// fieldPath drops the root struct name: "EncryptRequest.settings.rotors[1]" -> "settings.rotors[1]".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func reason(e validator.FieldError) string {
	param := e.Param()
	switch e.Tag() {
	case "required":
		return "field is required"
	case "min":
		if e.Kind() == reflect.Slice || e.Kind() == reflect.String {
			return fmt.Sprintf("must have at least %s items", param)
		}
		return fmt.Sprintf("must be at least %s", param)
	case "max":
		if e.Kind() == reflect.Slice || e.Kind() == reflect.String {
			return fmt.Sprintf("must have at most %s items", param)
		}
		return fmt.Sprintf("must not exceed %s", param)
	case "len":
		return fmt.Sprintf("must be exactly %s characters", param)
	case "alpha":
		return "must contain letters only"
	case "oneof":
		return fmt.Sprintf("must be one of %s", param)
	default:
		return fmt.Sprintf("validation failed (%s)", e.Tag())
	}
}
