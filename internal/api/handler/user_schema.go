package handler

import "github.com/projectlv/accounts/internal/core/domain"

type updateProfileRequest struct {
	Fullname *string `json:"fullname" validate:"omitempty,max=100"`
	Email    *string `json:"email"    validate:"omitempty,email"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin editor contributor"`
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type listUsersQuery struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

type userListResponse struct {
	Users []*domain.User `json:"users"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
