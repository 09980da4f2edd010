package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quantdeck/quantdeck/internal/container"
	handlers "github.com/quantdeck/quantdeck/internal/interface/http"
	"github.com/quantdeck/quantdeck/internal/interface/middleware"
)

type SystemModule struct {
	Handler *handlers.SystemHandler
}

func NewSystemModule(h *handlers.SystemHandler) *SystemModule {
	return &SystemModule{Handler: h}
}

func (m *SystemModule) Register(rg *gin.RouterGroup) {
	// Public but rate-limited; in-cluster probes bypass the limit.
	rl := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/health", rl, m.Handler.Health)
}
