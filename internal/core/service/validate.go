package service

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/projectlv/accounts/internal/core/domain"
)

const (
	maxFullnameLen = 100
	minPasswordLen = 6
)

var validate = validator.New()

func validateFullname(fullname string) (string, error) {
	fullname = strings.TrimSpace(fullname)
	if fullname == "" {
		return "", domain.Validationf("fullname is required")
	}
	if utf8.RuneCountInString(fullname) > maxFullnameLen {
		return "", domain.Validationf("fullname cannot be more than %d characters", maxFullnameLen)
	}
	return fullname, nil
}

func validateEmail(email string) (string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return "", domain.Validationf("email is required")
	}
	if err := validate.Var(email, "email,max=254"); err != nil {
		return "", domain.Validationf("email must be a valid email")
	}
	return email, nil
}

func validatePassword(password string) error {
	if password == "" {
		return domain.Validationf("password is required")
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return domain.Validationf("password must be at least %d characters", minPasswordLen)
	}
	return nil
}
