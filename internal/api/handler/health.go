package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Checker is a dependency the readiness probe pings.
type Checker interface {
	Name() string
	Ping(ctx context.Context) error
}

// HealthHandler serves the root banner, liveness and readiness probes.
type HealthHandler struct {
	checkers []Checker
	timeout  time.Duration
}

func NewHealthHandler(checkers ...Checker) *HealthHandler {
	return &HealthHandler{checkers: checkers, timeout: 3 * time.Second}
}

// Root answers GET / so a browser hitting the API base sees it is up.
func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "Project LV Backend API is running!"})
}

// Liveness returns 200 immediately; it confirms the process is alive.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness pings every configured dependency and answers 503 if any fails.
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.checkers))
	healthy := true

	for _, chk := range h.checkers {
		if err := chk.Ping(ctx); err != nil {
			deps[chk.Name()] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[chk.Name()] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
