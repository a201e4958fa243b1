package service

import (
	"github.com/go-playground/validator/v10"

	"staywise/pkg/logger"
	"staywise/pkg/model"
)

type AuthValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAuthValidator(log *logger.Logger) *AuthValidator {
	return &AuthValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *AuthValidator) ValidateSignup(req *model.SignupRequest) error {
	return v.validate.Struct(req)
}

func (v *AuthValidator) ValidateLogin(req *model.LoginRequest) error {
	return v.validate.Struct(req)
}
