package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/projectlv/accounts/internal/api/metrics"
	"github.com/projectlv/accounts/internal/core/ports"
)

// DefaultCookieName is the session cookie the Auth middleware falls back to.
const DefaultCookieName = "token"

// CookieConfig controls the session cookie set on login.
type CookieConfig struct {
	Name   string
	Secure bool
	Domain string
}

type AuthHandler struct {
	auth   ports.AuthService
	reset  ports.ResetService
	cookie CookieConfig
	now    func() time.Time
}

func NewAuthHandler(auth ports.AuthService, reset ports.ResetService, cookie CookieConfig) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = DefaultCookieName
	}
	return &AuthHandler{auth: auth, reset: reset, cookie: cookie, now: time.Now}
}

// Signup creates a new account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		Fullname: req.Fullname,
		Email:    req.Email,
		Password: req.Password,
	})
	metrics.ObserveAuth("register", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, userResponse{Message: "User created successfully", User: user})
}

// Login checks credentials, returns a session token and sets it as a cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	metrics.ObserveAuth("login", err)
	if err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie(session.Token, session.ExpiresAt))
	return c.JSON(http.StatusOK, loginResponse{
		Message:   "Login successful",
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      session.User,
	})
}

// Logout clears the session cookie. Tokens are not revoked server-side.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	cookie := h.sessionCookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	c.SetCookie(cookie)
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out"})
}

// ForgotPassword emails a reset link to a registered address.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.reset.RequestReset(c.Request().Context(), req.Email)
	metrics.ObserveAuth("reset_request", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Password reset link sent to your email!"})
}

// ResetPassword redeems a reset token and sets a new password.
//
// @Summary      Reset password with a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Token and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.reset.RedeemReset(c.Request().Context(), req.Token, req.Password)
	metrics.ObserveAuth("reset_redeem", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Password reset successful"})
}

// ChangePassword replaces the caller's password.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err = h.auth.ChangePassword(c.Request().Context(), claims.UserID, req.CurrentPassword, req.NewPassword)
	metrics.ObserveAuth("change_password", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Password updated"})
}

// Verify echoes the identity carried by the caller's session.
//
// @Summary      Verify the current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  verifyResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/verify [get]
func (h *AuthHandler) Verify(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, verifyResponse{
		User: sessionIdentity{
			ID:       claims.UserID,
			Fullname: claims.Fullname,
			Email:    claims.Email,
			Role:     claims.Role,
		},
		ExpiresAt: claims.ExpiresAt,
	})
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		Domain:   h.cookie.Domain,
		Expires:  expires,
		MaxAge:   max(int(expires.Sub(h.now()).Seconds()), 0),
		Secure:   h.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
