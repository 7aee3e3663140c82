package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness and store reachability
type HealthHandler struct {
	ping   func(ctx context.Context) error
	driver string
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(driver string, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping, driver: driver}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.ping != nil {
		if err := h.ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN", "store": h.driver})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP", "store": h.driver})
}
