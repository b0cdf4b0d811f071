package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ResponseMsg struct {
	Message string `json:"message"`
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

// NewHealthHandler takes a nil db when the service runs without a database.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db}
}

func (h *HealthHandler) Healthcheck(c echo.Context) error {
	if h.db != nil {
		if err := h.db.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, ResponseMsg{
				Message: "Database unavailable",
			})
		}
	}

	return c.JSON(http.StatusOK, ResponseMsg{
		Message: "I'm fine, Thank!",
	})
}
