// Package validation checks request payloads before they reach the services.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"wiseadvice/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("login", func(fl validator.FieldLevel) bool {
			return ValidateLogin(fl.Field().String()) == nil
		})
		_ = validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			return ValidatePassword(fl.Field().String()) == nil
		})
		_ = validate.RegisterValidation("status", func(fl validator.FieldLevel) bool {
			return models.ValidStatus(models.Status(fl.Field().String()))
		})
		_ = validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return models.ValidRole(models.Role(fl.Field().String()))
		})
	})
	return validate
}

// Struct validates s against its `validate` tags. Failures come back as a
// VALIDATION_ERROR whose details list every offending field.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return models.NewValidationError(err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	appErr := models.NewValidationError("Invalid request: " + msgs[0])
	appErr.Err = errors.New(strings.Join(msgs, "; "))
	return appErr
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", fe.Field(), fe.Param())
	case "login":
		return fmt.Sprintf("%s must be 3-30 letters, digits, '_' or '-'", fe.Field())
	case "password":
		return fmt.Sprintf("%s must be 8-128 characters with at least one letter and one digit", fe.Field())
	case "status":
		return fmt.Sprintf("%s must be active or inactive", fe.Field())
	case "role":
		return fmt.Sprintf("%s must be user or admin", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
