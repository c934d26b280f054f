package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
	apperrors "github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/pkg/util/errorutil"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("problem_type", func(fl validator.FieldLevel) bool {
		return domain.ProblemType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("urgency", func(fl validator.FieldLevel) bool {
		return domain.Urgency(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("ticket_status", func(fl validator.FieldLevel) bool {
		return domain.TicketStatus(fl.Field().String()).Valid()
	})
	return v
}

// validateStruct runs the struct tags and converts failures into a
// ValidationError keyed by json field name.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.NewInternalError(err)
	}
	details := make(map[string]any, len(validationErrors))
	for _, fe := range validationErrors {
		if _, exists := details[fe.Field()]; !exists {
			details[fe.Field()] = fieldErrorMessage(fe)
		}
	}
	return apperrors.NewValidationError("validation failed", details)
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "problem_type":
		return fmt.Sprintf("must be one of %v", domain.ProblemTypes)
	case "urgency":
		return fmt.Sprintf("must be one of %v", domain.Urgencies)
	case "ticket_status":
		return fmt.Sprintf("must be one of %v", domain.TicketStatuses)
	default:
		return fmt.Sprintf("failed validation for '%s'", fe.Tag())
	}
}

func fieldError(field, message string) error {
	return apperrors.NewValidationError("validation failed", map[string]any{field: message})
}
