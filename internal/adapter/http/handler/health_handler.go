package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/meomeocoj/user-intent-classisifer/internal/adapter/client"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	classifier *client.MLClient
	guard      *client.MLClient
	db         *gorm.DB
	redis      *redis.Client
}

// NewHealthHandler creates a new health handler; any dependency may be nil
func NewHealthHandler(classifier, guard *client.MLClient, db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		classifier: classifier,
		guard:      guard,
		db:         db,
		redis:      redisClient,
	}
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]string)
	healthy := true

	// Check the zero-shot classifier service
	if h.classifier != nil {
		if status, err := h.classifier.Health(ctx); err != nil {
			components["classifier"] = "error: " + err.Error()
			healthy = false
		} else if !status.ModelLoaded {
			components["classifier"] = "model not loaded"
			healthy = false
		} else {
			components["classifier"] = "ok"
		}
	} else {
		components["classifier"] = "not configured"
	}

	// Check the safety classifier service
	if h.guard != nil {
		if _, err := h.guard.Health(ctx); err != nil {
			components["guard"] = "error: " + err.Error()
			healthy = false
		} else {
			components["guard"] = "ok"
		}
	} else {
		components["guard"] = "not configured"
	}

	// Check database
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil {
			components["database"] = "error: " + err.Error()
			healthy = false
		} else if err := sqlDB.PingContext(ctx); err != nil {
			components["database"] = "error: " + err.Error()
			healthy = false
		} else {
			components["database"] = "ok"
		}
	} else {
		components["database"] = "not configured"
	}

	// Check Redis
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			components["redis"] = "error: " + err.Error()
			healthy = false
		} else {
			components["redis"] = "ok"
		}
	} else {
		components["redis"] = "not configured"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !healthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthStatus{
		Status:     status,
		Components: components,
	})
}

// Ready handles GET /ready. Readiness gates on the zero-shot service
// having its model weights loaded; the fallback and guard degrade
// gracefully, so they do not block readiness.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if h.classifier != nil {
		if err := h.classifier.Ready(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "classifier service unavailable"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
