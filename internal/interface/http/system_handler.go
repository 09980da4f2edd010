package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/quantdeck/quantdeck/pkg/response"
)

// SystemHandler serves liveness information for probes and dashboards.
type SystemHandler struct {
	Pool  *pgxpool.Pool
	Redis *redis.Client
}

func NewSystemHandler(pool *pgxpool.Pool, rdb *redis.Client) *SystemHandler {
	return &SystemHandler{Pool: pool, Redis: rdb}
}

// Health GET /api/health
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"postgres": "ok", "redis": "ok"}
	healthy := true

	if h.Pool == nil || h.Pool.Ping(ctx) != nil {
		checks["postgres"] = "down"
		healthy = false
	}
	if h.Redis == nil || h.Redis.Ping(ctx).Err() != nil {
		checks["redis"] = "down"
		healthy = false
	}

	if !healthy {
		response.Error[any](c, http.StatusServiceUnavailable, "degraded", checks)
		return
	}
	response.Success[any](c, http.StatusOK, checks, "healthy", nil)
}
