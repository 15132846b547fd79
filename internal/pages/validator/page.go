package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"podium/pkg/logger"
	"podium/pkg/model"
)

type PageValidator struct {
	validate *validator.Validate
	log      *logger.Logger
}

func NewPageValidator(log *logger.Logger) *PageValidator {
	return &PageValidator{
		validate: validator.New(),
		log:      log,
	}
}

func (v *PageValidator) Validate(page *model.Page) error {
	return v.translate(v.validate.Struct(page))
}

func (v *PageValidator) ValidateUpdate(update *model.PageUpdate) error {
	return v.translate(v.validate.Struct(update))
}

func (v *PageValidator) translate(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErr := validationErrs[0]
	switch fieldErr.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fieldErr.Field())
	case "min":
		return fmt.Errorf("%s must be at least %s", fieldErr.Field(), fieldErr.Param())
	case "max":
		return fmt.Errorf("%s must be at most %s", fieldErr.Field(), fieldErr.Param())
	case "mongodb":
		return fmt.Errorf("%s must be a valid MongoDB ObjectID", fieldErr.Field())
	}
	return fieldErr
}
