package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quantdeck/quantdeck/internal/container"
	handlers "github.com/quantdeck/quantdeck/internal/interface/http"
	"github.com/quantdeck/quantdeck/internal/interface/middleware"
	"github.com/quantdeck/quantdeck/pkg/helpers"
)

// StrategyModule wires strategy submission and run-state routes.
// All routes require a session; submission is rate-limited harder
// because each submission calls the analysis model.

type StrategyModule struct {
	Handler *handlers.StrategyHandler
	JWT     *helpers.JWTManager
}

func NewStrategyModule(h *handlers.StrategyHandler, jwt *helpers.JWTManager) *StrategyModule {
	return &StrategyModule{Handler: h, JWT: jwt}
}

func (m *StrategyModule) Register(rg *gin.RouterGroup) {
	submitLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByUserID(), nil)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/strategies", submitLimiter, m.Handler.Submit)
		auth.GET("/strategies", m.Handler.ListMine)
		auth.GET("/strategies/:id", m.Handler.Get)
		auth.PUT("/strategies/:id/status", m.Handler.UpdateRunState)
	}
}
