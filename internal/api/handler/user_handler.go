package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/projectlv/accounts/internal/core/domain"
	"github.com/projectlv/accounts/internal/core/ports"
)

// UserHandler serves the profile endpoints and the admin user management.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Me returns the caller's profile.
//
// @Summary      Current user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	user, err := h.users.GetProfile(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// UpdateMe changes the caller's fullname and/or email.
//
// @Summary      Update current user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), claims.UserID, ports.UpdateProfileInput{
		Fullname: req.Fullname,
		Email:    req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Message: "Profile updated", User: user})
}

// List pages through all accounts, newest first.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (1-based)"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  userListResponse
// @Failure      403    {object}  map[string]string
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	var q listUsersQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination parameters")
	}

	page, err := h.users.ListUsers(c.Request().Context(), ports.ListUsersFilter{Page: q.Page, Limit: q.Limit})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{
		Users: page.Users,
		Total: page.Total,
		Page:  page.Page,
		Limit: page.Limit,
	})
}

// UpdateRole assigns a role to an account.
//
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateRoleRequest  true  "New role"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/users/{id}/role [patch]
func (h *UserHandler) UpdateRole(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.UpdateRole(c.Request().Context(), claims.UserID, c.Param("id"), domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Message: "Role updated", User: user})
}

// SetActive enables or disables an account.
//
// @Summary      Activate or deactivate a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "User ID"
// @Param        body  body      setActiveRequest  true  "Activation flag"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/users/{id}/active [patch]
func (h *UserHandler) SetActive(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.SetActive(c.Request().Context(), claims.UserID, c.Param("id"), *req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Message: "Account updated", User: user})
}
