package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/projectlv/accounts/docs"
	"github.com/projectlv/accounts/internal/api/handler"
	"github.com/projectlv/accounts/internal/api/middleware"
	"github.com/projectlv/accounts/internal/core/domain"
	"github.com/projectlv/accounts/internal/core/ports"
)

// ForgotPasswordScope keys the forgot-password rate limiter.
const ForgotPasswordScope = "forgot_password"

var defaultCORSOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:3001"}

// Dependencies is everything the HTTP layer needs from the composition root.
type Dependencies struct {
	Auth  ports.AuthService
	Reset ports.ResetService
	Users ports.UserService

	// ResetLimiter throttles forgot-password; nil disables the limit.
	ResetLimiter ports.RateLimiter
	Checkers     []handler.Checker

	Cookie      handler.CookieConfig
	CORSOrigins []string
	BodyLimit   string
	Log         zerolog.Logger

	// Registry receives the HTTP request metrics; nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	bodyLimit := deps.BodyLimit
	if bodyLimit == "" {
		bodyLimit = "1M"
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     origins,
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "accounts",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Ops (no auth required) ---
	health := handler.NewHealthHandler(deps.Checkers...)
	e.GET("/", health.Root)
	e.GET("/health", health.Liveness)       // liveness: is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authHandler := handler.NewAuthHandler(deps.Auth, deps.Reset, deps.Cookie)
	userHandler := handler.NewUserHandler(deps.Users)

	cookieName := deps.Cookie.Name
	if cookieName == "" {
		cookieName = handler.DefaultCookieName
	}
	gate := middleware.Auth(deps.Auth, cookieName)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	var forgotLimit []echo.MiddlewareFunc
	if deps.ResetLimiter != nil {
		forgotLimit = append(forgotLimit, middleware.RateLimit(deps.ResetLimiter, ForgotPasswordScope, deps.Log))
	}

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/forgot-password", authHandler.ForgotPassword, forgotLimit...)
	auth.POST("/reset-password", authHandler.ResetPassword)
	auth.POST("/change-password", authHandler.ChangePassword, gate)
	auth.GET("/verify", authHandler.Verify, gate)

	// --- User routes ---
	users := e.Group("/api/users", gate)
	users.GET("/me", userHandler.Me)
	users.PATCH("/me", userHandler.UpdateMe)
	users.GET("", userHandler.List, adminOnly)
	users.PATCH("/:id/role", userHandler.UpdateRole, adminOnly)
	users.PATCH("/:id/active", userHandler.SetActive, adminOnly)

	return e
}
