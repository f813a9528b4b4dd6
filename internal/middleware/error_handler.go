package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bridgeway_site_echo/internal/components"
	"bridgeway_site_echo/internal/i18n"
	"bridgeway_site_echo/internal/render"
)

// NewErrorHandler creates the Echo error handler. Every error is logged with a
// reference id that is also shown to the visitor. API routes get JSON, everything
// else gets the error panel inside the site layout, falling back to plain text
// if that fails to render.
func NewErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, title, message := describe(err)
		reference := uuid.NewString()

		fields := []zap.Field{
			zap.String("reference", reference),
			zap.Int("status", code),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		}
		if code >= http.StatusInternalServerError {
			logger.Error("request failed", fields...)
		} else {
			logger.Info("request rejected", fields...)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}

		if strings.HasPrefix(c.Request().URL.Path, "/api/") {
			_ = c.JSON(code, map[string]string{"error": message, "reference": reference})
			return
		}

		props := components.ErrorPanelProps{
			Code:      code,
			Title:     title,
			Message:   message,
			Reference: reference,
		}
		home := "Home"
		if l, ok := c.Get(render.LocalizerKey).(*i18n.Localizer); ok && l != nil {
			home = l.T("nav.home")
			props.ReferenceLabel = l.T("error.reference")
			props.HomeLabel = l.T("error.home")
		}

		page := &render.PageData{
			Title: title,
			Breadcrumbs: []render.Breadcrumb{
				{Title: home, URL: "/"},
				{Title: title},
			},
			Data: components.ErrorPanel(props),
		}

		if renderErr := c.Render(code, "error.html", page); renderErr != nil {
			logger.Error("failed to render error page",
				zap.String("reference", reference),
				zap.Error(fmt.Errorf("render error page: %w", renderErr)))
			_ = c.String(code, message+"\nReference: "+reference)
		}
	}
}

// describe maps an error onto a status code, page title and visitor-facing message
func describe(err error) (int, string, string) {
	code := http.StatusInternalServerError
	message := ""

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		// Internal details of 5xx errors are never shown.
		if msg, ok := he.Message.(string); ok && msg != "" && code < http.StatusInternalServerError {
			message = msg
		}
	}

	title := "Something went wrong"
	switch code {
	case http.StatusNotFound:
		title = "Page Not Found"
		if message == "" || message == http.StatusText(http.StatusNotFound) {
			message = "The page you're looking for doesn't exist."
		}
	case http.StatusMethodNotAllowed:
		title = "Not Allowed"
		if message == "" {
			message = "That action isn't available here."
		}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		title = "Bad Request"
		if message == "" {
			message = "The request could not be processed."
		}
	default:
		if message == "" {
			message = "Something went wrong. Please try again later."
		}
	}
	return code, title, message
}
