package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/daily-planner-api/internal/database"
	"github.com/yukikurage/daily-planner-api/internal/dto"
	"gorm.io/gorm"
)

const healthPingTimeout = 2 * time.Second

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health is a liveness probe: it always answers 200 and reports whether the
// store is reachable.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	connected := database.Ping(ctx, h.db) == nil
	status := "ok"
	if !connected {
		status = "degraded"
	}

	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:      status,
		DBConnected: connected,
	})
}
