package validator

import (
	"errors"
	"fmt"
	"strings"

	"pawmarket/pkg/logger"
	"pawmarket/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type PetValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewPetValidator(log *logger.Logger) *PetValidator {
	return &PetValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *PetValidator) Validate(pet *model.Pet) error {
	return v.translate(v.validate.Struct(pet))
}

func (v *PetValidator) ValidateUpdate(update *model.PetUpdate) error {
	return v.translate(v.validate.Struct(update))
}

func (v *PetValidator) translate(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	var out ValidationErrors
	for _, fieldErr := range validationErrs {
		message := fieldErr.Error()
		switch fieldErr.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", fieldErr.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", fieldErr.Field(), fieldErr.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", fieldErr.Field(), fieldErr.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", fieldErr.Field(), fieldErr.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", fieldErr.Field(), fieldErr.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", fieldErr.Field())
		}
		out = append(out, ValidationError{Field: fieldErr.Field(), Message: message})
	}

	return out
}
