// internal/handlers/health.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/fragrance-catalog/internal/database"
)

type HealthHandler struct {
	store *database.Handle
}

func NewHealthHandler(store *database.Handle) *HealthHandler {
	return &HealthHandler{store: store}
}

// GET /health reports 200 while the store answers a ping. A degraded handle
// reports 503 without touching the store.
func (h *HealthHandler) Health(c *gin.Context) {
	if h.store.Degraded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "degraded": true})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.store.Timeout())
	defer cancel()

	sqlDB, err := h.store.DB().DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		logrus.WithError(err).Warn("Health check ping failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "degraded": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "healthy", "degraded": false})
}
