package validator

import (
	"github.com/go-playground/validator/v10"

	"staywise/pkg/logger"
	"staywise/pkg/model"
)

type PropertyValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewPropertyValidator(log *logger.Logger) *PropertyValidator {
	return &PropertyValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *PropertyValidator) ValidateCreate(property *model.Property) error {
	return v.validate.Struct(property)
}

func (v *PropertyValidator) ValidateUpdate(update *model.PropertyUpdate) error {
	return v.validate.Struct(update)
}
