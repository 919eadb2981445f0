package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports service liveness.
type Health struct{}

// NewHealth creates a Health handler.
func NewHealth() *Health {
	return &Health{}
}

// Handle returns a static liveness payload.
func (h *Health) Handle(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
