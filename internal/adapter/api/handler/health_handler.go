package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	sessionCount func() int
}

var healthHandler *HealthHandler

func NewHealthHandler(sessionCount func() int) *HealthHandler {
	return &HealthHandler{
		sessionCount: sessionCount,
	}
}

func SetupHealthHandler(sessionCount func() int) {
	healthHandler = NewHealthHandler(sessionCount)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	body := map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}
	if h.sessionCount != nil {
		body["sessions"] = h.sessionCount()
	}
	return c.JSON(http.StatusOK, body)
}
