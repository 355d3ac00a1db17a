package handler

import (
	"time"

	"github.com/projectlv/accounts/internal/core/domain"
)

type signupRequest struct {
	Fullname string `json:"fullname" validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type userResponse struct {
	Message string       `json:"message,omitempty"`
	User    *domain.User `json:"user"`
}

type loginResponse struct {
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

type sessionIdentity struct {
	ID       string      `json:"id"`
	Fullname string      `json:"fullname"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
}

type verifyResponse struct {
	User      sessionIdentity `json:"user"`
	ExpiresAt time.Time       `json:"expires_at"`
}
