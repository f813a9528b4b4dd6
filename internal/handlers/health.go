package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Checker pings an optional backing service
type Checker func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Checker
}

func NewHealthHandler(checks map[string]Checker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health always answers 200 while the process serves pages; failing optional
// backends only change the status to "degraded".
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	resp := map[string]interface{}{"status": "ok"}
	if len(h.checks) > 0 {
		results := make(map[string]string, len(h.checks))
		for name, check := range h.checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				resp["status"] = "degraded"
			} else {
				results[name] = "ok"
			}
		}
		resp["checks"] = results
	}
	return c.JSON(http.StatusOK, resp)
}
