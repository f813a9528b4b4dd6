package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type TestimonialsHandler struct {
	source TestimonialSource
}

func NewTestimonialsHandler(source TestimonialSource) *TestimonialsHandler {
	return &TestimonialsHandler{source: source}
}

// API returns the carousel feed as JSON, falling back to the defaults
func (h *TestimonialsHandler) API(c echo.Context) error {
	return c.JSON(http.StatusOK, h.source.Load(c.Request().Context()))
}
